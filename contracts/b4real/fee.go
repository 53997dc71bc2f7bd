package b4real

import (
	"github.com/nspcc-dev/b4real-contract/contracts/b4real/b4realconst"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
)

// CalculateFee returns the part of amount taken by the feeRate percent scaled
// by 10^feeDecimals, i.e. amount*feeRate/(100*10^feeDecimals) rounded down.
// For example, feeRate 2000 with feeDecimals 3 is 2%.
//
// It panics with arithmetic overflow message if the divisor or the product
// does not fit Neo VM integer.
func CalculateFee(amount, feeRate, feeDecimals int) int {
	return calculateFee(amount, feeRate, feeDecimals)
}

func calculateFee(amount, rate, decimals int) int {
	if amount < 0 || rate < 0 || decimals < 0 {
		panic(b4realconst.ErrNegativeValue)
	}

	divisor := feeDivisor(decimals)
	if amount != 0 && rate > std.Atoi(b4realconst.MaxInteger, 10)/amount {
		panic(b4realconst.ErrArithmeticOverflow)
	}

	return amount * rate / divisor
}

// feeDivisor returns 100*10^decimals, the value of a 100% rate with the given
// decimals.
func feeDivisor(decimals int) int {
	if decimals > b4realconst.MaxFeeDecimals {
		panic(b4realconst.ErrArithmeticOverflow)
	}

	return b4realconst.MaxFeePercent * pow10(decimals)
}

func pow10(n int) int {
	res := 1
	for i := 0; i < n; i++ {
		res *= 10
	}

	return res
}
