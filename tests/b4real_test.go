package tests

import (
	"encoding/json"
	"math/big"
	"path"
	"testing"

	"github.com/nspcc-dev/b4real-contract/common"
	"github.com/nspcc-dev/b4real-contract/contracts/b4real/b4realconst"
	"github.com/nspcc-dev/b4real-contract/internal/ledgerstate"
	"github.com/nspcc-dev/b4real-contract/rpc/b4real"
	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

const (
	b4realPath = "../contracts/b4real"
	recvPath   = "../internal/testcontracts/nep17recv"
)

func compileB4REAL(t *testing.T, e *neotest.Executor) *neotest.Contract {
	return neotest.CompileFile(t, e.CommitteeHash, b4realPath, path.Join(b4realPath, "config.yml"))
}

// newB4REALInvoker deploys the token with the committee as the owner and
// returns its invoker signed by the committee.
func newB4REALInvoker(t *testing.T, data any) *neotest.ContractInvoker {
	e := newExecutor(t)
	ctr := compileB4REAL(t, e)
	e.DeployContract(t, ctr, data)
	return e.CommitteeInvoker(ctr.Hash)
}

// newTaxedInvoker deploys the token with a fresh tax address.
func newTaxedInvoker(t *testing.T) (*neotest.ContractInvoker, util.Uint160) {
	taxAddress := util.Uint160{0xde, 0xad}
	return newB4REALInvoker(t, []any{taxAddress}), taxAddress
}

func defaultTaxAddress(t *testing.T) util.Uint160 {
	u, err := util.Uint160DecodeBytesBE([]byte(b4realconst.DefaultTaxAddress))
	require.NoError(t, err)
	return u
}

func checkBalance(t *testing.T, c *neotest.ContractInvoker, acc util.Uint160, expected *big.Int) {
	c.Invoke(t, expected, "balanceOf", acc)
}

func transferEvents(t *testing.T, aer *state.AppExecResult) []b4real.TransferEvent {
	var res []b4real.TransferEvent
	for i := range aer.Events {
		if aer.Events[i].Name != "Transfer" {
			continue
		}

		var ev b4real.TransferEvent
		require.NoError(t, ev.FromStackItem(aer.Events[i].Item))
		res = append(res, ev)
	}
	return res
}

func requireTransfer(t *testing.T, ev b4real.TransferEvent, from, to util.Uint160, amount *big.Int) {
	require.Equal(t, from, ev.From)
	require.Equal(t, to, ev.To)
	require.Zero(t, amount.Cmp(ev.Amount), "expected %s, got %s", amount, ev.Amount)
}

func TestB4REALGeneric(t *testing.T) {
	c := newB4REALInvoker(t, nil)
	supply := tokens(b4realconst.InitialSupply)

	c.Invoke(t, b4realconst.Symbol, "symbol")
	c.Invoke(t, b4realconst.Decimals, "decimals")
	c.Invoke(t, supply, "totalSupply")
	c.Invoke(t, common.Version, "version")
	checkBalance(t, c, c.CommitteeHash, supply)

	c.Invoke(t, b4realconst.DefaultTaxFee, "taxFee")
	c.Invoke(t, b4realconst.DefaultTaxFeeDecimals, "taxFeeDecimals")
	c.Invoke(t, defaultTaxAddress(t).BytesBE(), "taxAddress")
	c.Invoke(t, false, "waiveFees")

	acc := c.NewAccount(t)
	c.Invoke(t, b4realconst.OwnerRole, "ownerRole")
	c.Invoke(t, c.CommitteeHash.BytesBE(), "owner")
	c.Invoke(t, true, "hasRole", b4realconst.OwnerRole, c.CommitteeHash)
	c.Invoke(t, false, "hasRole", b4realconst.OwnerRole, acc.ScriptHash())
	c.Invoke(t, false, "hasRole", 2, c.CommitteeHash)

	// Nobody is exempt from the tax by default.
	c.Invoke(t, true, "whitelisted", acc.ScriptHash())
	c.Invoke(t, true, "whitelisted", c.CommitteeHash)
	checkBalance(t, c, acc.ScriptHash(), big.NewInt(0))
}

func TestB4REALDeployTaxAddress(t *testing.T) {
	c, taxAddress := newTaxedInvoker(t)
	c.Invoke(t, taxAddress.BytesBE(), "taxAddress")
}

// checkHash160Result checks that the method returns the account as an
// immutable ByteString rather than a Buffer.
func checkHash160Result(t *testing.T, c *neotest.ContractInvoker, expected util.Uint160, method string) {
	s, err := c.TestInvoke(t, method)
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())

	item := s.Pop().Item()
	require.Equal(t, stackitem.ByteArrayT, item.Type(), method)
	require.Equal(t, stackitem.NewByteArray(expected.BytesBE()), item, method)
}

func TestB4REALAccountGettersType(t *testing.T) {
	c := newB4REALInvoker(t, nil)
	checkHash160Result(t, c, c.CommitteeHash, "owner")
	checkHash160Result(t, c, defaultTaxAddress(t), "taxAddress")

	c, taxAddress := newTaxedInvoker(t)
	checkHash160Result(t, c, c.CommitteeHash, "owner")
	checkHash160Result(t, c, taxAddress, "taxAddress")

	newTaxAddress := util.Uint160{0xbe, 0xef}
	c.Invoke(t, stackitem.Null{}, "updateB4REALTaxAddress", newTaxAddress)
	checkHash160Result(t, c, newTaxAddress, "taxAddress")

	newOwner := c.NewAccount(t)
	c.Invoke(t, stackitem.Null{}, "transferOwnership", newOwner.ScriptHash())
	checkHash160Result(t, c, newOwner.ScriptHash(), "owner")

	// Owner check compares the stored holder with the witness.
	c.WithSigners(newOwner).Invoke(t, stackitem.Null{}, "setTaxFee", 1, 0)
}

func TestB4REALCalculateFee(t *testing.T) {
	c := newB4REALInvoker(t, nil)

	// 2% of 100 tokens.
	c.Invoke(t, tokens(2), "calculateFee", tokens(100), 2000, 3)
	c.Invoke(t, 10, "calculateFee", 100, 10, 0)
	c.Invoke(t, 0, "calculateFee", 9, 10, 0)
	c.Invoke(t, 0, "calculateFee", 0, 10, 0)
	c.Invoke(t, 100, "calculateFee", 100, 100, 0)

	c.InvokeFail(t, b4realconst.ErrArithmeticOverflow, "calculateFee", 100, 10, b4realconst.MaxFeeDecimals+1)
	c.Invoke(t, 0, "calculateFee", 100, 10, b4realconst.MaxFeeDecimals)

	maxInt, _ := new(big.Int).SetString(b4realconst.MaxInteger, 10)
	c.InvokeFail(t, b4realconst.ErrArithmeticOverflow, "calculateFee", maxInt, 2, 0)
	c.Invoke(t, new(big.Int).Quo(maxInt, big.NewInt(100)), "calculateFee", maxInt, 1, 0)

	c.InvokeFail(t, b4realconst.ErrNegativeValue, "calculateFee", -1, 10, 0)
	c.InvokeFail(t, b4realconst.ErrNegativeValue, "calculateFee", 1, -10, 0)
	c.InvokeFail(t, b4realconst.ErrNegativeValue, "calculateFee", 1, 10, -1)
}

func TestB4REALTransfer(t *testing.T) {
	c, taxAddress := newTaxedInvoker(t)
	owner := c.CommitteeHash
	supply := tokens(b4realconst.InitialSupply)

	acc := c.NewAccount(t)

	t.Run("taxed", func(t *testing.T) {
		h := c.Invoke(t, true, "transfer", owner, acc.ScriptHash(), tokens(100), nil)

		checkBalance(t, c, acc.ScriptHash(), tokens(90))
		checkBalance(t, c, taxAddress, tokens(10))
		checkBalance(t, c, owner, new(big.Int).Sub(supply, tokens(100)))
		c.Invoke(t, supply, "totalSupply")

		evs := transferEvents(t, c.CheckHalt(t, h))
		require.Len(t, evs, 2)
		requireTransfer(t, evs[0], owner, acc.ScriptHash(), tokens(90))
		requireTransfer(t, evs[1], owner, taxAddress, tokens(10))
	})

	t.Run("exempt recipient", func(t *testing.T) {
		exempt := c.NewAccount(t)
		c.Invoke(t, stackitem.Null{}, "exemptFromFee", exempt.ScriptHash())

		h := c.Invoke(t, true, "transfer", owner, exempt.ScriptHash(), tokens(100), nil)
		checkBalance(t, c, exempt.ScriptHash(), tokens(100))
		checkBalance(t, c, taxAddress, tokens(10))

		evs := transferEvents(t, c.CheckHalt(t, h))
		require.Len(t, evs, 1)
		requireTransfer(t, evs[0], owner, exempt.ScriptHash(), tokens(100))

		// Exempt sender is not taxed either.
		cExempt := c.WithSigners(exempt)
		cExempt.Invoke(t, true, "transfer", exempt.ScriptHash(), acc.ScriptHash(), tokens(50), nil)
		checkBalance(t, c, acc.ScriptHash(), tokens(140))
		checkBalance(t, c, taxAddress, tokens(10))
	})

	t.Run("waived", func(t *testing.T) {
		c.Invoke(t, stackitem.Null{}, "toggleTransactionFees")
		c.Invoke(t, true, "waiveFees")

		other := c.NewAccount(t)
		c.Invoke(t, true, "transfer", owner, other.ScriptHash(), tokens(10), nil)
		checkBalance(t, c, other.ScriptHash(), tokens(10))
		checkBalance(t, c, taxAddress, tokens(10))

		c.Invoke(t, stackitem.Null{}, "toggleTransactionFees")
		c.Invoke(t, false, "waiveFees")

		c.Invoke(t, true, "transfer", owner, other.ScriptHash(), tokens(10), nil)
		checkBalance(t, c, other.ScriptHash(), tokens(19))
		checkBalance(t, c, taxAddress, tokens(11))
	})

	t.Run("to itself", func(t *testing.T) {
		cAcc := c.WithSigners(acc)
		cAcc.Invoke(t, true, "transfer", acc.ScriptHash(), acc.ScriptHash(), tokens(40), nil)
		checkBalance(t, c, acc.ScriptHash(), tokens(136))
		checkBalance(t, c, taxAddress, tokens(15))
	})

	t.Run("zero amount", func(t *testing.T) {
		h := c.Invoke(t, true, "transfer", owner, acc.ScriptHash(), 0, nil)
		checkBalance(t, c, acc.ScriptHash(), tokens(136))

		evs := transferEvents(t, c.CheckHalt(t, h))
		require.Len(t, evs, 1)
		requireTransfer(t, evs[0], owner, acc.ScriptHash(), big.NewInt(0))
	})
}

func TestB4REALTransferFailures(t *testing.T) {
	c, taxAddress := newTaxedInvoker(t)
	owner := c.CommitteeHash
	supply := tokens(b4realconst.InitialSupply)

	acc := c.NewAccount(t)
	cAcc := c.WithSigners(acc)

	// Not witnessed by the sender.
	cAcc.Invoke(t, false, "transfer", owner, acc.ScriptHash(), tokens(1), nil)

	cAcc.InvokeFail(t, b4realconst.ErrInsufficientBalance, "transfer", acc.ScriptHash(), owner, 1, nil)
	c.InvokeFail(t, b4realconst.ErrInsufficientBalance, "transfer", owner, acc.ScriptHash(), new(big.Int).Add(supply, big.NewInt(1)), nil)
	c.InvokeFail(t, b4realconst.ErrNegativeValue, "transfer", owner, acc.ScriptHash(), -1, nil)
	c.InvokeFail(t, b4realconst.ErrInvalidAddress, "transfer", owner, []byte{1, 2, 3}, 1, nil)
	c.InvokeFail(t, b4realconst.ErrInvalidAddress, "balanceOf", []byte{1, 2, 3})

	// Recipient contract without onNEP17Payment reverts the whole transfer.
	c.InvokeFail(t, "onNEP17Payment", "transfer", owner, c.Hash, tokens(100), nil)

	checkBalance(t, c, owner, supply)
	checkBalance(t, c, acc.ScriptHash(), big.NewInt(0))
	checkBalance(t, c, taxAddress, big.NewInt(0))
	checkBalance(t, c, c.Hash, big.NewInt(0))
}

func TestB4REALTransferToContract(t *testing.T) {
	c, taxAddress := newTaxedInvoker(t)
	owner := c.CommitteeHash

	recv := neotest.CompileFile(t, c.CommitteeHash, recvPath, path.Join(recvPath, "config.yml"))
	c.DeployContract(t, recv, nil)
	cRecv := c.CommitteeInvoker(recv.Hash)

	c.Invoke(t, true, "transfer", owner, recv.Hash, tokens(100), "payment")
	checkBalance(t, c, recv.Hash, tokens(90))
	checkBalance(t, c, taxAddress, tokens(10))

	cRecv.Invoke(t, 1, "count")
	cRecv.Invoke(t, stackitem.NewStruct([]stackitem.Item{
		stackitem.NewByteArray(c.Hash.BytesBE()),
		stackitem.NewByteArray(owner.BytesBE()),
		stackitem.Make(tokens(90)),
		stackitem.NewByteArray([]byte("payment")),
	}), "last")
}

func TestB4REALApprove(t *testing.T) {
	c, taxAddress := newTaxedInvoker(t)
	owner := c.CommitteeHash

	spender := c.NewAccount(t)
	cSpender := c.WithSigners(spender)
	to := c.NewAccount(t)

	c.Invoke(t, 0, "allowance", owner, spender.ScriptHash())

	// Not witnessed by the owner.
	cSpender.Invoke(t, false, "approve", owner, spender.ScriptHash(), tokens(100))
	c.InvokeFail(t, b4realconst.ErrNegativeValue, "approve", owner, spender.ScriptHash(), -1)

	h := c.Invoke(t, true, "approve", owner, spender.ScriptHash(), tokens(100))
	aer := c.CheckHalt(t, h)
	require.Len(t, aer.Events, 1)
	require.Equal(t, "Approval", aer.Events[0].Name)

	var ev b4real.ApprovalEvent
	require.NoError(t, ev.FromStackItem(aer.Events[0].Item))
	require.Equal(t, owner, ev.Owner)
	require.Equal(t, spender.ScriptHash(), ev.Spender)
	require.Zero(t, tokens(100).Cmp(ev.Amount))

	c.Invoke(t, tokens(100), "allowance", owner, spender.ScriptHash())

	t.Run("beyond allowance", func(t *testing.T) {
		cSpender.InvokeFail(t, b4realconst.ErrInsufficientAllowance, "transferFrom",
			spender.ScriptHash(), owner, to.ScriptHash(), tokens(101), nil)

		c.Invoke(t, tokens(100), "allowance", owner, spender.ScriptHash())
		checkBalance(t, c, to.ScriptHash(), big.NewInt(0))
		checkBalance(t, c, owner, tokens(b4realconst.InitialSupply))
	})

	t.Run("not witnessed", func(t *testing.T) {
		c.Invoke(t, false, "transferFrom", spender.ScriptHash(), owner, to.ScriptHash(), tokens(1), nil)
		c.Invoke(t, tokens(100), "allowance", owner, spender.ScriptHash())
	})

	t.Run("within allowance", func(t *testing.T) {
		h := cSpender.Invoke(t, true, "transferFrom", spender.ScriptHash(), owner, to.ScriptHash(), tokens(60), nil)

		c.Invoke(t, tokens(40), "allowance", owner, spender.ScriptHash())
		checkBalance(t, c, to.ScriptHash(), tokens(54))
		checkBalance(t, c, taxAddress, tokens(6))

		evs := transferEvents(t, c.CheckHalt(t, h))
		require.Len(t, evs, 2)
		requireTransfer(t, evs[0], owner, to.ScriptHash(), tokens(54))
		requireTransfer(t, evs[1], owner, taxAddress, tokens(6))
	})

	t.Run("allowance above balance", func(t *testing.T) {
		cTo := c.WithSigners(to)
		cTo.Invoke(t, true, "approve", to.ScriptHash(), spender.ScriptHash(), tokens(1000))

		cSpender.InvokeFail(t, b4realconst.ErrInsufficientBalance, "transferFrom",
			spender.ScriptHash(), to.ScriptHash(), owner, tokens(55), nil)
		c.Invoke(t, tokens(1000), "allowance", to.ScriptHash(), spender.ScriptHash())
		checkBalance(t, c, to.ScriptHash(), tokens(54))
	})

	t.Run("overwrite", func(t *testing.T) {
		c.Invoke(t, true, "approve", owner, spender.ScriptHash(), tokens(5))
		c.Invoke(t, tokens(5), "allowance", owner, spender.ScriptHash())

		c.Invoke(t, true, "approve", owner, spender.ScriptHash(), 0)
		c.Invoke(t, 0, "allowance", owner, spender.ScriptHash())
	})
}

func TestB4REALSetTaxFee(t *testing.T) {
	c, taxAddress := newTaxedInvoker(t)
	owner := c.CommitteeHash

	acc := c.NewAccount(t)
	cAcc := c.WithSigners(acc)

	cAcc.InvokeFail(t, b4realconst.ErrNoAdminPermission, "setTaxFee", 10, 0)
	c.InvokeFail(t, b4realconst.ErrFeeTooHigh, "setTaxFee", 101, 0)
	c.InvokeFail(t, b4realconst.ErrFeeTooHigh, "setTaxFee", 1001, 1)
	// Existing clients match the whole message.
	c.InvokeFail(t, "The B4REAL Tax fee must be less than 100", "setTaxFee", 101, 0)
	c.InvokeFail(t, b4realconst.ErrNegativeValue, "setTaxFee", -1, 0)
	c.InvokeFail(t, b4realconst.ErrArithmeticOverflow, "setTaxFee", 1, b4realconst.MaxFeeDecimals+1)

	c.Invoke(t, b4realconst.DefaultTaxFee, "taxFee")

	h := c.Invoke(t, stackitem.Null{}, "setTaxFee", 2000, 3)
	aer := c.CheckHalt(t, h)
	require.Len(t, aer.Events, 1)

	var ev b4real.TaxFeeChangedEvent
	require.NoError(t, ev.FromStackItem(aer.Events[0].Item))
	require.EqualValues(t, 2000, ev.TaxFee.Int64())
	require.EqualValues(t, 3, ev.TaxFeeDecimals.Int64())

	c.Invoke(t, 2000, "taxFee")
	c.Invoke(t, 3, "taxFeeDecimals")

	c.Invoke(t, true, "transfer", owner, acc.ScriptHash(), tokens(100), nil)
	checkBalance(t, c, acc.ScriptHash(), tokens(98))
	checkBalance(t, c, taxAddress, tokens(2))

	// Whole amount may be taken.
	c.Invoke(t, stackitem.Null{}, "setTaxFee", 100, 0)
	c.Invoke(t, true, "transfer", owner, acc.ScriptHash(), tokens(10), nil)
	checkBalance(t, c, acc.ScriptHash(), tokens(98))
	checkBalance(t, c, taxAddress, tokens(12))

	c.Invoke(t, stackitem.Null{}, "setTaxFee", 0, 0)
	c.Invoke(t, true, "transfer", owner, acc.ScriptHash(), tokens(10), nil)
	checkBalance(t, c, acc.ScriptHash(), tokens(108))
	checkBalance(t, c, taxAddress, tokens(12))
}

func TestB4REALUpdateTaxAddress(t *testing.T) {
	c, taxAddress := newTaxedInvoker(t)
	owner := c.CommitteeHash

	acc := c.NewAccount(t)
	newTaxAddress := util.Uint160{0xbe, 0xef}

	c.WithSigners(acc).InvokeFail(t, b4realconst.ErrNoAdminPermission, "updateB4REALTaxAddress", newTaxAddress)
	c.InvokeFail(t, b4realconst.ErrSameTaxAddress, "updateB4REALTaxAddress", taxAddress)
	c.InvokeFail(t, "New address cannot be the same", "updateB4REALTaxAddress", taxAddress)
	c.InvokeFail(t, b4realconst.ErrInvalidAddress, "updateB4REALTaxAddress", []byte{1})

	h := c.Invoke(t, stackitem.Null{}, "updateB4REALTaxAddress", newTaxAddress)
	aer := c.CheckHalt(t, h)
	require.Len(t, aer.Events, 1)

	var ev b4real.TaxAddressChangedEvent
	require.NoError(t, ev.FromStackItem(aer.Events[0].Item))
	require.Equal(t, taxAddress, ev.Previous)
	require.Equal(t, newTaxAddress, ev.Current)

	c.Invoke(t, newTaxAddress.BytesBE(), "taxAddress")

	c.Invoke(t, true, "transfer", owner, acc.ScriptHash(), tokens(100), nil)
	checkBalance(t, c, newTaxAddress, tokens(10))
	checkBalance(t, c, taxAddress, big.NewInt(0))
}

func TestB4REALWhitelist(t *testing.T) {
	c := newB4REALInvoker(t, nil)

	acc1 := c.NewAccount(t)
	acc2 := c.NewAccount(t)

	c.WithSigners(acc1).InvokeFail(t, b4realconst.ErrNoAdminPermission, "exemptFromFee", acc1.ScriptHash())
	c.WithSigners(acc1).InvokeFail(t, b4realconst.ErrNoAdminPermission, "includeInFee", acc1.ScriptHash())

	h := c.Invoke(t, stackitem.Null{}, "exemptFromFee", acc1.ScriptHash())
	aer := c.CheckHalt(t, h)
	require.Len(t, aer.Events, 1)

	var ev b4real.WhitelistChangedEvent
	require.NoError(t, ev.FromStackItem(aer.Events[0].Item))
	require.Equal(t, acc1.ScriptHash(), ev.Account)
	require.False(t, ev.Whitelisted)

	c.Invoke(t, false, "whitelisted", acc1.ScriptHash())

	// Idempotent.
	c.Invoke(t, stackitem.Null{}, "exemptFromFee", acc1.ScriptHash())
	c.Invoke(t, false, "whitelisted", acc1.ScriptHash())

	c.Invoke(t, stackitem.Null{}, "includeInFee", acc2.ScriptHash())
	c.Invoke(t, true, "whitelisted", acc2.ScriptHash())

	s, err := c.TestInvoke(t, "listWhitelist")
	require.NoError(t, err)

	iter := s.Pop().Value().(*storage.Iterator)
	entries, err := b4real.WhitelistEntriesFromItems(iteratorToArray(iter))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	flags := make(map[util.Uint160]bool, len(entries))
	for i := range entries {
		flags[entries[i].Account] = entries[i].Whitelisted
	}
	require.Equal(t, map[util.Uint160]bool{
		acc1.ScriptHash(): false,
		acc2.ScriptHash(): true,
	}, flags)

	c.Invoke(t, stackitem.Null{}, "includeInFee", acc1.ScriptHash())
	c.Invoke(t, true, "whitelisted", acc1.ScriptHash())
}

func TestB4REALTransferOwnership(t *testing.T) {
	c := newB4REALInvoker(t, nil)
	owner := c.CommitteeHash

	newOwner := c.NewAccount(t)
	cNewOwner := c.WithSigners(newOwner)

	cNewOwner.InvokeFail(t, b4realconst.ErrNoAdminPermission, "transferOwnership", newOwner.ScriptHash())
	c.InvokeFail(t, b4realconst.ErrInvalidAddress, "transferOwnership", []byte{1, 2})

	h := c.Invoke(t, stackitem.Null{}, "transferOwnership", newOwner.ScriptHash())
	aer := c.CheckHalt(t, h)
	require.Len(t, aer.Events, 2)
	require.Equal(t, "RoleRevoked", aer.Events[0].Name)
	require.Equal(t, "RoleGranted", aer.Events[1].Name)

	var revoked b4real.RoleRevokedEvent
	require.NoError(t, revoked.FromStackItem(aer.Events[0].Item))
	require.Equal(t, owner, revoked.Account)
	require.EqualValues(t, b4realconst.OwnerRole, revoked.Role.Int64())

	var granted b4real.RoleGrantedEvent
	require.NoError(t, granted.FromStackItem(aer.Events[1].Item))
	require.Equal(t, newOwner.ScriptHash(), granted.Account)

	c.Invoke(t, newOwner.ScriptHash().BytesBE(), "owner")
	c.Invoke(t, false, "hasRole", b4realconst.OwnerRole, owner)
	c.Invoke(t, true, "hasRole", b4realconst.OwnerRole, newOwner.ScriptHash())

	c.InvokeFail(t, b4realconst.ErrNoAdminPermission, "setTaxFee", 5, 0)
	c.InvokeFail(t, b4realconst.ErrNoAdminPermission, "toggleTransactionFees")
	cNewOwner.Invoke(t, stackitem.Null{}, "setTaxFee", 5, 0)
	c.Invoke(t, 5, "taxFee")

	// Tokens stay with the previous owner.
	checkBalance(t, c, owner, tokens(b4realconst.InitialSupply))
}

func TestB4REALUpdate(t *testing.T) {
	c := newB4REALInvoker(t, nil)
	ctr := compileB4REAL(t, c.Executor)

	rawNEF, err := ctr.NEF.Bytes()
	require.NoError(t, err)

	rawManifest, err := json.Marshal(ctr.Manifest)
	require.NoError(t, err)

	acc := c.NewAccount(t)
	c.WithSigners(acc).InvokeFail(t, b4realconst.ErrNoAdminPermission, "update", rawNEF, rawManifest, nil)
	c.InvokeFail(t, common.ErrAlreadyUpdated, "update", rawNEF, rawManifest, nil)
}

// storageSnapshot reads the token storage items of the given accounts
// directly from the chain.
func storageSnapshot(t *testing.T, c *neotest.ContractInvoker, accounts ...util.Uint160) *ledgerstate.Snapshot {
	cs := c.Chain.GetContractState(c.Hash)
	require.NotNil(t, cs)

	keys := [][]byte{
		{b4realconst.SupplyKey},
		{b4realconst.ParamsKey},
		{b4realconst.RolePrefix, b4realconst.OwnerRole},
	}
	for _, acc := range accounts {
		keys = append(keys,
			append([]byte{b4realconst.AccountPrefix}, acc.BytesBE()...),
			append([]byte{b4realconst.WhitelistPrefix}, acc.BytesBE()...))

		for _, spender := range accounts {
			key := append([]byte{b4realconst.AllowancePrefix}, acc.BytesBE()...)
			keys = append(keys, append(key, spender.BytesBE()...))
		}
	}

	snap := ledgerstate.New()
	for _, key := range keys {
		if v := c.Chain.GetStorageItem(cs.ID, key); v != nil {
			require.NoError(t, snap.Add(key, v))
		}
	}

	return snap
}

func TestB4REALLedgerState(t *testing.T) {
	c, taxAddress := newTaxedInvoker(t)
	owner := c.CommitteeHash

	acc1 := c.NewAccount(t)
	acc2 := c.NewAccount(t)
	accounts := []util.Uint160{owner, taxAddress, acc1.ScriptHash(), acc2.ScriptHash()}

	c.Invoke(t, stackitem.Null{}, "setTaxFee", 1250, 2)
	c.Invoke(t, stackitem.Null{}, "exemptFromFee", acc2.ScriptHash())
	c.Invoke(t, true, "approve", owner, acc1.ScriptHash(), tokens(500))

	transfers := []struct {
		signer   neotest.Signer
		from, to util.Uint160
		amount   *big.Int
	}{
		{c.Committee, owner, acc1.ScriptHash(), tokens(1000)},
		{c.Committee, owner, acc2.ScriptHash(), tokens(333)},
		{acc1, acc1.ScriptHash(), acc2.ScriptHash(), big.NewInt(777)},
		{acc2, acc2.ScriptHash(), acc1.ScriptHash(), tokens(3)},
		{acc1, acc1.ScriptHash(), owner, big.NewInt(1)},
	}

	for _, tr := range transfers {
		before := storageSnapshot(t, c, accounts...)
		net, fee, err := before.Quote(tr.from, tr.to, tr.amount)
		require.NoError(t, err)

		c.WithSigners(tr.signer).Invoke(t, true, "transfer", tr.from, tr.to, tr.amount, nil)

		after := storageSnapshot(t, c, accounts...)
		require.NoError(t, after.Verify())

		require.Zero(t, new(big.Int).Add(before.Balance(tr.to), net).Cmp(after.Balance(tr.to)),
			"transfer %s -> %s", tr.from.StringLE(), tr.to.StringLE())
		require.Zero(t, new(big.Int).Add(before.Balance(taxAddress), fee).Cmp(after.Balance(taxAddress)))
	}

	c.WithSigners(acc1).Invoke(t, true, "transferFrom", acc1.ScriptHash(), owner, acc2.ScriptHash(), tokens(200), nil)

	snap := storageSnapshot(t, c, accounts...)
	require.NoError(t, snap.Verify())
	require.Equal(t, owner, *snap.Owner)
	require.Zero(t, tokens(300).Cmp(snap.Allowances[ledgerstate.AllowanceKey{Owner: owner, Spender: acc1.ScriptHash()}]))
	require.False(t, snap.Whitelisted(acc2.ScriptHash()))
	require.True(t, snap.Whitelisted(acc1.ScriptHash()))
	require.EqualValues(t, 1250, snap.Params.TaxFee.Int64())
	require.EqualValues(t, 2, snap.Params.TaxFeeDecimals.Int64())
	require.Equal(t, taxAddress, snap.Params.TaxAddress)
}
