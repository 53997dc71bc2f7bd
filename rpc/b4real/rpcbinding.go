// Package b4real contains RPC wrappers for B4REAL contract.
package b4real

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/nep17"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	nep17.Invoker

	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	nep17.Actor

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	nep17.TokenReader
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	nep17.TokenWriter
	actor Actor
	hash  util.Uint160
}

// WhitelistEntry is an explicitly set whitelist flag returned by
// `listWhitelist` method.
type WhitelistEntry struct {
	Account     util.Uint160
	Whitelisted bool
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{*nep17.NewReader(invoker, hash), invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	var nep17t = nep17.New(actor, hash)
	return &Contract{ContractReader{nep17t.TokenReader, actor, hash}, nep17t.TokenWriter, actor, hash}
}

// Allowance invokes `allowance` method of contract.
func (c *ContractReader) Allowance(owner util.Uint160, spender util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "allowance", owner, spender))
}

// CalculateFee invokes `calculateFee` method of contract. Overflow is
// reported as ErrArithmetic.
func (c *ContractReader) CalculateFee(amount *big.Int, feeRate *big.Int, feeDecimals *big.Int) (*big.Int, error) {
	res, err := unwrap.BigInt(c.invoker.Call(c.hash, "calculateFee", amount, feeRate, feeDecimals))
	return res, ClassifyError(err)
}

// HasRole invokes `hasRole` method of contract.
func (c *ContractReader) HasRole(role *big.Int, account util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "hasRole", role, account))
}

// ListWhitelist invokes `listWhitelist` method of contract.
func (c *ContractReader) ListWhitelist() (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "listWhitelist"))
}

// ListWhitelistExpanded is similar to ListWhitelist (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) ListWhitelistExpanded(_numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "listWhitelist", _numOfIteratorItems))
}

// Whitelist returns every explicitly set whitelist flag. It traverses
// `listWhitelist` iterator session by pages of the given size and terminates
// the session afterwards.
func (c *ContractReader) Whitelist(pageSize int) ([]WhitelistEntry, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("invalid page size %d", pageSize)
	}

	sessionID, iter, err := c.ListWhitelist()
	if err != nil {
		return nil, fmt.Errorf("list whitelist: %w", err)
	}
	defer func() { _ = c.invoker.TerminateSession(sessionID) }()

	var res []WhitelistEntry
	for {
		items, err := c.invoker.TraverseIterator(sessionID, &iter, pageSize)
		if err != nil {
			return nil, fmt.Errorf("traverse whitelist iterator: %w", err)
		}

		entries, err := WhitelistEntriesFromItems(items)
		if err != nil {
			return nil, err
		}

		res = append(res, entries...)
		if len(items) < pageSize {
			return res, nil
		}
	}
}

// Owner invokes `owner` method of contract.
func (c *ContractReader) Owner() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "owner"))
}

// OwnerRole invokes `ownerRole` method of contract.
func (c *ContractReader) OwnerRole() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "ownerRole"))
}

// TaxAddress invokes `taxAddress` method of contract.
func (c *ContractReader) TaxAddress() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "taxAddress"))
}

// TaxFee invokes `taxFee` method of contract.
func (c *ContractReader) TaxFee() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "taxFee"))
}

// TaxFeeDecimals invokes `taxFeeDecimals` method of contract.
func (c *ContractReader) TaxFeeDecimals() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "taxFeeDecimals"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// WaiveFees invokes `waiveFees` method of contract.
func (c *ContractReader) WaiveFees() (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "waiveFees"))
}

// Whitelisted invokes `whitelisted` method of contract.
func (c *ContractReader) Whitelisted(account util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "whitelisted", account))
}

// Approve creates a transaction invoking `approve` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Approve(owner util.Uint160, spender util.Uint160, amount *big.Int) (util.Uint256, uint32, error) {
	return classifySent(c.actor.SendCall(c.hash, "approve", owner, spender, amount))
}

// ApproveTransaction creates a transaction invoking `approve` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ApproveTransaction(owner util.Uint160, spender util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return classifyTx(c.actor.MakeCall(c.hash, "approve", owner, spender, amount))
}

// ApproveUnsigned creates a transaction invoking `approve` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ApproveUnsigned(owner util.Uint160, spender util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return classifyTx(c.actor.MakeUnsignedCall(c.hash, "approve", nil, owner, spender, amount))
}

// TransferFrom creates a transaction invoking `transferFrom` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) TransferFrom(spender util.Uint160, from util.Uint160, to util.Uint160, amount *big.Int, data any) (util.Uint256, uint32, error) {
	return classifySent(c.actor.SendCall(c.hash, "transferFrom", spender, from, to, amount, data))
}

// TransferFromTransaction creates a transaction invoking `transferFrom` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) TransferFromTransaction(spender util.Uint160, from util.Uint160, to util.Uint160, amount *big.Int, data any) (*transaction.Transaction, error) {
	return classifyTx(c.actor.MakeCall(c.hash, "transferFrom", spender, from, to, amount, data))
}

// TransferFromUnsigned creates a transaction invoking `transferFrom` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) TransferFromUnsigned(spender util.Uint160, from util.Uint160, to util.Uint160, amount *big.Int, data any) (*transaction.Transaction, error) {
	return classifyTx(c.actor.MakeUnsignedCall(c.hash, "transferFrom", nil, spender, from, to, amount, data))
}

// TransferOwnership creates a transaction invoking `transferOwnership` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) TransferOwnership(newOwner util.Uint160) (util.Uint256, uint32, error) {
	return classifySent(c.actor.SendCall(c.hash, "transferOwnership", newOwner))
}

// TransferOwnershipTransaction creates a transaction invoking `transferOwnership` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) TransferOwnershipTransaction(newOwner util.Uint160) (*transaction.Transaction, error) {
	return classifyTx(c.actor.MakeCall(c.hash, "transferOwnership", newOwner))
}

// TransferOwnershipUnsigned creates a transaction invoking `transferOwnership` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) TransferOwnershipUnsigned(newOwner util.Uint160) (*transaction.Transaction, error) {
	return classifyTx(c.actor.MakeUnsignedCall(c.hash, "transferOwnership", nil, newOwner))
}

// ExemptFromFee creates a transaction invoking `exemptFromFee` method of the contract.
// After it is accepted `whitelisted` returns false for the account.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) ExemptFromFee(account util.Uint160) (util.Uint256, uint32, error) {
	return classifySent(c.actor.SendCall(c.hash, "exemptFromFee", account))
}

// ExemptFromFeeTransaction creates a transaction invoking `exemptFromFee` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ExemptFromFeeTransaction(account util.Uint160) (*transaction.Transaction, error) {
	return classifyTx(c.actor.MakeCall(c.hash, "exemptFromFee", account))
}

// ExemptFromFeeUnsigned creates a transaction invoking `exemptFromFee` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ExemptFromFeeUnsigned(account util.Uint160) (*transaction.Transaction, error) {
	return classifyTx(c.actor.MakeUnsignedCall(c.hash, "exemptFromFee", nil, account))
}

// IncludeInFee creates a transaction invoking `includeInFee` method of the contract.
// After it is accepted `whitelisted` returns true for the account.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) IncludeInFee(account util.Uint160) (util.Uint256, uint32, error) {
	return classifySent(c.actor.SendCall(c.hash, "includeInFee", account))
}

// IncludeInFeeTransaction creates a transaction invoking `includeInFee` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) IncludeInFeeTransaction(account util.Uint160) (*transaction.Transaction, error) {
	return classifyTx(c.actor.MakeCall(c.hash, "includeInFee", account))
}

// IncludeInFeeUnsigned creates a transaction invoking `includeInFee` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) IncludeInFeeUnsigned(account util.Uint160) (*transaction.Transaction, error) {
	return classifyTx(c.actor.MakeUnsignedCall(c.hash, "includeInFee", nil, account))
}

// SetTaxFee creates a transaction invoking `setTaxFee` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetTaxFee(rate *big.Int, decimals *big.Int) (util.Uint256, uint32, error) {
	return classifySent(c.actor.SendCall(c.hash, "setTaxFee", rate, decimals))
}

// SetTaxFeeTransaction creates a transaction invoking `setTaxFee` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetTaxFeeTransaction(rate *big.Int, decimals *big.Int) (*transaction.Transaction, error) {
	return classifyTx(c.actor.MakeCall(c.hash, "setTaxFee", rate, decimals))
}

// SetTaxFeeUnsigned creates a transaction invoking `setTaxFee` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetTaxFeeUnsigned(rate *big.Int, decimals *big.Int) (*transaction.Transaction, error) {
	return classifyTx(c.actor.MakeUnsignedCall(c.hash, "setTaxFee", nil, rate, decimals))
}

// UpdateB4REALTaxAddress creates a transaction invoking `updateB4REALTaxAddress` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) UpdateB4REALTaxAddress(newAddress util.Uint160) (util.Uint256, uint32, error) {
	return classifySent(c.actor.SendCall(c.hash, "updateB4REALTaxAddress", newAddress))
}

// UpdateB4REALTaxAddressTransaction creates a transaction invoking `updateB4REALTaxAddress` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateB4REALTaxAddressTransaction(newAddress util.Uint160) (*transaction.Transaction, error) {
	return classifyTx(c.actor.MakeCall(c.hash, "updateB4REALTaxAddress", newAddress))
}

// UpdateB4REALTaxAddressUnsigned creates a transaction invoking `updateB4REALTaxAddress` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateB4REALTaxAddressUnsigned(newAddress util.Uint160) (*transaction.Transaction, error) {
	return classifyTx(c.actor.MakeUnsignedCall(c.hash, "updateB4REALTaxAddress", nil, newAddress))
}

// ToggleTransactionFees creates a transaction invoking `toggleTransactionFees` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) ToggleTransactionFees() (util.Uint256, uint32, error) {
	return classifySent(c.actor.SendCall(c.hash, "toggleTransactionFees"))
}

// ToggleTransactionFeesTransaction creates a transaction invoking `toggleTransactionFees` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ToggleTransactionFeesTransaction() (*transaction.Transaction, error) {
	return classifyTx(c.actor.MakeCall(c.hash, "toggleTransactionFees"))
}

// ToggleTransactionFeesUnsigned creates a transaction invoking `toggleTransactionFees` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ToggleTransactionFeesUnsigned() (*transaction.Transaction, error) {
	return classifyTx(c.actor.MakeUnsignedCall(c.hash, "toggleTransactionFees", nil))
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(script []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return classifySent(c.actor.SendCall(c.hash, "update", script, manifest, data))
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return classifyTx(c.actor.MakeCall(c.hash, "update", script, manifest, data))
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return classifyTx(c.actor.MakeUnsignedCall(c.hash, "update", nil, script, manifest, data))
}

// WhitelistEntriesFromItems converts `listWhitelist` iterator items into
// whitelist entries.
func WhitelistEntriesFromItems(items []stackitem.Item) ([]WhitelistEntry, error) {
	res := make([]WhitelistEntry, 0, len(items))
	for i := range items {
		var e WhitelistEntry
		if err := e.FromStackItem(items[i]); err != nil {
			return nil, fmt.Errorf("whitelist item #%d: %w", i, err)
		}

		res = append(res, e)
	}

	return res, nil
}

// FromStackItem retrieves fields of WhitelistEntry from the given key-value
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (e *WhitelistEntry) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var err error
	e.Account, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Account: %w", err)
	}

	e.Whitelisted, err = arr[1].TryBool()
	if err != nil {
		return fmt.Errorf("field Whitelisted: %w", err)
	}

	return nil
}

func itemToUint160(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	u, err := util.Uint160DecodeBytesBE(b)
	if err != nil {
		return util.Uint160{}, err
	}
	return u, nil
}

func classifySent(h util.Uint256, vub uint32, err error) (util.Uint256, uint32, error) {
	return h, vub, ClassifyError(err)
}

func classifyTx(tx *transaction.Transaction, err error) (*transaction.Transaction, error) {
	return tx, ClassifyError(err)
}
