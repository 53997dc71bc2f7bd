package ledgerstate

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/b4real-contract/contracts/b4real/b4realconst"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// ErrArithmetic is returned when the fee can not be computed within Neo VM
// integer range.
var ErrArithmetic = errors.New("arithmetic overflow")

var maxInteger, _ = new(big.Int).SetString(b4realconst.MaxInteger, 10)

// CalculateFee mirrors `calculateFee` contract method: it returns
// amount*rate/(100*10^decimals) rounded down. It fails with ErrArithmetic
// exactly when the contract throws.
func CalculateFee(amount, rate, decimals *big.Int) (*big.Int, error) {
	if amount.Sign() < 0 || rate.Sign() < 0 || decimals.Sign() < 0 {
		return nil, ErrNegative
	}

	divisor, err := feeDivisor(decimals)
	if err != nil {
		return nil, err
	}

	product := new(big.Int).Mul(amount, rate)
	if product.Cmp(maxInteger) > 0 {
		return nil, fmt.Errorf("%w: %s * %s", ErrArithmetic, amount, rate)
	}

	return product.Quo(product, divisor), nil
}

// Quote predicts the outcome of transferring amount between the accounts:
// the part credited to the recipient and the tax. It does not check the
// sender balance.
func (s *Snapshot) Quote(from, to util.Uint160, amount *big.Int) (net, fee *big.Int, err error) {
	if s.Params == nil {
		return nil, nil, ErrNoParams
	}

	fee = new(big.Int)
	if !s.Params.WaiveFees && s.Whitelisted(from) && s.Whitelisted(to) {
		fee, err = CalculateFee(amount, s.Params.TaxFee, s.Params.TaxFeeDecimals)
		if err != nil {
			return nil, nil, err
		}
	}

	return new(big.Int).Sub(amount, fee), fee, nil
}

func feeDivisor(decimals *big.Int) (*big.Int, error) {
	if decimals.Cmp(big.NewInt(b4realconst.MaxFeeDecimals)) > 0 {
		return nil, fmt.Errorf("%w: fee decimals %s", ErrArithmetic, decimals)
	}

	d := new(big.Int).Exp(big.NewInt(10), decimals, nil)
	return d.Mul(d, big.NewInt(b4realconst.MaxFeePercent)), nil
}
