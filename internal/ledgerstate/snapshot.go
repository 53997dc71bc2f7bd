/*
Package ledgerstate decodes raw storage of B4REAL contract and checks ledger
invariants off chain.

Storage items can be taken from a live node (FindStates), from a neotest chain
or from a storage dump (see tests/dump package). Decode builds a Snapshot from
them and Verify reports every broken invariant.
*/
package ledgerstate

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/b4real-contract/contracts/b4real/b4realconst"
	"github.com/nspcc-dev/neo-go/pkg/encoding/bigint"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Errors returned by Decode and Verify.
var (
	ErrUnknownKey     = errors.New("unknown storage key")
	ErrInvalidValue   = errors.New("invalid storage value")
	ErrSupplyMismatch = errors.New("sum of balances differs from total supply")
	ErrNoOwner        = errors.New("owner role is not held")
	ErrNoParams       = errors.New("fee parameters are missing")
	ErrFeeTooHigh     = errors.New("tax fee exceeds 100%")
	ErrNegative       = errors.New("negative value")
)

// Item is a single contract storage record.
type Item struct {
	Key   []byte
	Value []byte
}

// AllowanceKey identifies an allowance.
type AllowanceKey struct {
	Owner   util.Uint160
	Spender util.Uint160
}

// FeeParams is an off-chain copy of the contract fee configuration.
type FeeParams struct {
	TaxFee         *big.Int
	TaxFeeDecimals *big.Int
	TaxAddress     util.Uint160
	WaiveFees      bool
}

// Snapshot is the ledger state decoded from contract storage.
type Snapshot struct {
	TotalSupply *big.Int
	Balances    map[util.Uint160]*big.Int
	Allowances  map[AllowanceKey]*big.Int
	// Whitelist holds explicitly set flags only, see Whitelisted.
	Whitelist map[util.Uint160]bool
	// Owner is nil if the owner role record is missing.
	Owner *util.Uint160
	// Params is nil if the fee parameters record is missing.
	Params *FeeParams
}

// New returns empty Snapshot.
func New() *Snapshot {
	return &Snapshot{
		TotalSupply: new(big.Int),
		Balances:    make(map[util.Uint160]*big.Int),
		Allowances:  make(map[AllowanceKey]*big.Int),
		Whitelist:   make(map[util.Uint160]bool),
	}
}

// Decode builds Snapshot from the full set of contract storage items.
func Decode(items []Item) (*Snapshot, error) {
	s := New()
	for i := range items {
		if err := s.Add(items[i].Key, items[i].Value); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Add decodes a single storage item into the Snapshot.
func (s *Snapshot) Add(key, value []byte) error {
	if len(key) == 0 {
		return fmt.Errorf("%w: empty", ErrUnknownKey)
	}

	var err error

	switch body := key[1:]; key[0] {
	case b4realconst.AccountPrefix:
		var acc util.Uint160
		if acc, err = decodeAccount(body); err == nil {
			s.Balances[acc] = bigint.FromBytes(value)
		}
	case b4realconst.AllowancePrefix:
		if len(body) != 2*util.Uint160Size {
			return fmt.Errorf("%w: allowance key of %d bytes", ErrUnknownKey, len(key))
		}

		var k AllowanceKey
		k.Owner, _ = util.Uint160DecodeBytesBE(body[:util.Uint160Size])
		k.Spender, _ = util.Uint160DecodeBytesBE(body[util.Uint160Size:])
		s.Allowances[k] = bigint.FromBytes(value)
	case b4realconst.WhitelistPrefix:
		var acc util.Uint160
		if acc, err = decodeAccount(body); err == nil {
			s.Whitelist[acc] = bigint.FromBytes(value).Sign() != 0
		}
	case b4realconst.RolePrefix:
		if role := bigint.FromBytes(body); !role.IsInt64() || role.Int64() != b4realconst.OwnerRole {
			return fmt.Errorf("%w: role %s", ErrUnknownKey, role)
		}

		var owner util.Uint160
		owner, err = util.Uint160DecodeBytesBE(value)
		if err != nil {
			return fmt.Errorf("%w: owner: %w", ErrInvalidValue, err)
		}
		s.Owner = &owner
	case b4realconst.ParamsKey:
		if len(body) != 0 {
			return fmt.Errorf("%w: %x", ErrUnknownKey, key)
		}
		s.Params, err = decodeFeeParams(value)
	case b4realconst.SupplyKey:
		if len(body) != 0 {
			return fmt.Errorf("%w: %x", ErrUnknownKey, key)
		}
		s.TotalSupply = bigint.FromBytes(value)
	default:
		return fmt.Errorf("%w: %x", ErrUnknownKey, key)
	}

	if err != nil {
		return fmt.Errorf("decode item %x: %w", key, err)
	}

	return nil
}

// Verify checks ledger invariants: balances sum up to the total supply and
// none of them is negative, the owner role is held, fee parameters are set and
// the tax rate does not exceed 100%. All violations are returned joined.
func (s *Snapshot) Verify() error {
	var errs []error

	sum := new(big.Int)
	for acc, b := range s.Balances {
		if b.Sign() < 0 {
			errs = append(errs, fmt.Errorf("%w: balance of %s", ErrNegative, acc.StringLE()))
		}
		sum.Add(sum, b)
	}

	if sum.Cmp(s.TotalSupply) != 0 {
		errs = append(errs, fmt.Errorf("%w: %s != %s", ErrSupplyMismatch, sum, s.TotalSupply))
	}

	for k, a := range s.Allowances {
		if a.Sign() < 0 {
			errs = append(errs, fmt.Errorf("%w: allowance of %s for %s", ErrNegative, k.Owner.StringLE(), k.Spender.StringLE()))
		}
	}

	if s.Owner == nil {
		errs = append(errs, ErrNoOwner)
	}

	if s.Params == nil {
		errs = append(errs, ErrNoParams)
	} else if err := checkRate(s.Params.TaxFee, s.Params.TaxFeeDecimals); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Balance returns the balance of the account, zero if it has none.
func (s *Snapshot) Balance(acc util.Uint160) *big.Int {
	if b, ok := s.Balances[acc]; ok {
		return new(big.Int).Set(b)
	}

	return new(big.Int)
}

// Whitelisted returns the whitelisted flag of the account the same way the
// contract does: accounts without explicit flag are whitelisted, i.e. taxed.
func (s *Snapshot) Whitelisted(acc util.Uint160) bool {
	if v, ok := s.Whitelist[acc]; ok {
		return v
	}

	return true
}

func checkRate(rate, decimals *big.Int) error {
	if rate.Sign() < 0 || decimals.Sign() < 0 {
		return fmt.Errorf("%w: tax fee %s/%s", ErrNegative, rate, decimals)
	}

	divisor, err := feeDivisor(decimals)
	if err != nil {
		return err
	}

	if rate.Cmp(divisor) > 0 {
		return fmt.Errorf("%w: %s with %s decimals", ErrFeeTooHigh, rate, decimals)
	}

	return nil
}

func decodeAccount(b []byte) (util.Uint160, error) {
	acc, err := util.Uint160DecodeBytesBE(b)
	if err != nil {
		return acc, fmt.Errorf("%w: %w", ErrUnknownKey, err)
	}

	return acc, nil
}

func decodeFeeParams(value []byte) (*FeeParams, error) {
	item, err := stackitem.Deserialize(value)
	if err != nil {
		return nil, fmt.Errorf("%w: fee parameters: %w", ErrInvalidValue, err)
	}

	arr, ok := item.Value().([]stackitem.Item)
	if !ok || len(arr) != 4 {
		return nil, fmt.Errorf("%w: fee parameters are not a 4-field structure", ErrInvalidValue)
	}

	var p FeeParams

	if p.TaxFee, err = arr[0].TryInteger(); err != nil {
		return nil, fmt.Errorf("%w: tax fee: %w", ErrInvalidValue, err)
	}

	if p.TaxFeeDecimals, err = arr[1].TryInteger(); err != nil {
		return nil, fmt.Errorf("%w: tax fee decimals: %w", ErrInvalidValue, err)
	}

	addr, err := arr[2].TryBytes()
	if err == nil {
		p.TaxAddress, err = util.Uint160DecodeBytesBE(addr)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: tax address: %w", ErrInvalidValue, err)
	}

	if p.WaiveFees, err = arr[3].TryBool(); err != nil {
		return nil, fmt.Errorf("%w: waive fees: %w", ErrInvalidValue, err)
	}

	return &p, nil
}
