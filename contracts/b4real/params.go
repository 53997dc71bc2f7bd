package b4real

import (
	"github.com/nspcc-dev/b4real-contract/common"
	"github.com/nspcc-dev/b4real-contract/contracts/b4real/b4realconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// FeeParams is the transfer tax configuration. The effective rate is
// TaxFee/10^TaxFeeDecimals percent.
type FeeParams struct {
	TaxFee         int
	TaxFeeDecimals int
	TaxAddress     interop.Hash160
	WaiveFees      bool
}

// TaxFee returns the tax rate scaled by 10^TaxFeeDecimals.
func TaxFee() int {
	return getFeeParams(storage.GetReadOnlyContext()).TaxFee
}

// TaxFeeDecimals returns the scale exponent of the tax rate.
func TaxFeeDecimals() int {
	return getFeeParams(storage.GetReadOnlyContext()).TaxFeeDecimals
}

// TaxAddress returns the account receiving withheld tax.
func TaxAddress() interop.Hash160 {
	return getFeeParams(storage.GetReadOnlyContext()).TaxAddress
}

// WaiveFees returns true if the tax is disabled for every transfer.
func WaiveFees() bool {
	return getFeeParams(storage.GetReadOnlyContext()).WaiveFees
}

// SetTaxFee sets the tax rate to rate/10^decimals percent. The rate can not
// exceed 100%. It can be invoked only by the owner.
//
// It produces TaxFeeChanged notification.
func SetTaxFee(rate, decimals int) {
	ctx := storage.GetContext()
	checkOwner(ctx)

	if rate < 0 || decimals < 0 {
		panic(b4realconst.ErrNegativeValue)
	}

	if rate > feeDivisor(decimals) {
		panic(b4realconst.ErrFeeTooHigh)
	}

	params := getFeeParams(ctx)
	params.TaxFee = rate
	params.TaxFeeDecimals = decimals
	putFeeParams(ctx, params)

	runtime.Notify("TaxFeeChanged", rate, decimals)
}

// UpdateB4REALTaxAddress sets the account receiving withheld tax. The new
// address must differ from the current one. It can be invoked only by the
// owner.
//
// It produces TaxAddressChanged notification.
func UpdateB4REALTaxAddress(newAddress interop.Hash160) {
	ctx := storage.GetContext()
	checkOwner(ctx)
	checkAddress(newAddress)

	params := getFeeParams(ctx)
	prevAddress := params.TaxAddress
	if prevAddress.Equals(newAddress) {
		panic(b4realconst.ErrSameTaxAddress)
	}

	params.TaxAddress = newAddress
	putFeeParams(ctx, params)

	runtime.Notify("TaxAddressChanged", prevAddress, newAddress)
}

// ToggleTransactionFees flips the global waiver of the tax. It can be invoked
// only by the owner.
//
// It produces TransactionFeesToggled notification with the new value.
func ToggleTransactionFees() {
	ctx := storage.GetContext()
	checkOwner(ctx)

	params := getFeeParams(ctx)
	params.WaiveFees = !params.WaiveFees
	putFeeParams(ctx, params)

	runtime.Notify("TransactionFeesToggled", params.WaiveFees)
}

func getFeeParams(ctx storage.Context) FeeParams {
	data := storage.Get(ctx, []byte{b4realconst.ParamsKey})
	if data == nil {
		panic("fee parameters are not initialized")
	}

	return std.Deserialize(data.([]byte)).(FeeParams)
}

func putFeeParams(ctx storage.Context, params FeeParams) {
	common.SetSerialized(ctx, []byte{b4realconst.ParamsKey}, params)
}
