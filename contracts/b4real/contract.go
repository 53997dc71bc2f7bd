package b4real

import (
	"github.com/nspcc-dev/b4real-contract/common"
	"github.com/nspcc-dev/b4real-contract/contracts/b4real/b4realconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// nolint:unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	taxAddress := interop.Hash160(b4realconst.DefaultTaxAddress)
	if data != nil {
		args := data.([]any)
		if len(args) > 0 {
			// Fee parameters keep the address as a ByteString, the same
			// way UpdateB4REALTaxAddress stores it.
			taxAddress = interop.Hash160(args[0].(string))
			checkAddress(taxAddress)
		}
	}

	var (
		owner  = runtime.GetScriptContainer().Sender
		supply = initialSupply()
		from   interop.Hash160
	)

	storage.Put(ctx, []byte{b4realconst.SupplyKey}, supply)
	common.PutInt(ctx, accountKey(owner), supply)
	storage.Put(ctx, roleKey(b4realconst.OwnerRole), owner)
	putFeeParams(ctx, FeeParams{
		TaxFee:         b4realconst.DefaultTaxFee,
		TaxFeeDecimals: b4realconst.DefaultTaxFeeDecimals,
		TaxAddress:     taxAddress,
		WaiveFees:      false,
	})

	runtime.Notify("Transfer", from, owner, supply)
	runtime.Notify("RoleGranted", b4realconst.OwnerRole, owner)

	runtime.Log("b4real contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the owner role holder.
func Update(nefFile, manifest []byte, data any) {
	ctx := storage.GetReadOnlyContext()
	checkOwner(ctx)

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("b4real contract updated")
}

// Symbol is a NEP-17 standard method that returns B4REAL token symbol.
func Symbol() string {
	return b4realconst.Symbol
}

// Decimals is a NEP-17 standard method that returns precision of B4REAL
// balances.
func Decimals() int {
	return b4realconst.Decimals
}

// TotalSupply is a NEP-17 standard method that returns total amount of
// B4REAL tokens. It is fixed on deployment.
func TotalSupply() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, []byte{b4realconst.SupplyKey})
}

// BalanceOf is a NEP-17 standard method that returns B4REAL balance of the
// specified account.
func BalanceOf(account interop.Hash160) int {
	checkAddress(account)

	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, accountKey(account))
}

// Transfer is a NEP-17 standard method that transfers B4REAL tokens from one
// account to another. It can be invoked only by the account owner and returns
// false otherwise.
//
// Unless fees are waived or any side is exempt from them (see Whitelisted),
// the tax is withheld from the amount and sent to the tax address. The sender
// is always debited by the full amount. It produces Transfer notification for
// the recipient and another one for the tax address when the tax is non-zero.
func Transfer(from, to interop.Hash160, amount int, data any) bool {
	checkAddress(from)
	checkAddress(to)
	checkAmount(amount)

	if !common.IsUsableAddress(from) {
		runtime.Log("bad witness")
		return false
	}

	ctx := storage.GetContext()
	transferTokens(ctx, from, to, amount, data)

	return true
}

// Approve sets the amount spender may transfer from the owner account with
// TransferFrom. The previous allowance is overwritten. It can be invoked only
// by the owner of the account and returns false otherwise.
//
// It produces Approval notification.
func Approve(owner, spender interop.Hash160, amount int) bool {
	checkAddress(owner)
	checkAddress(spender)
	checkAmount(amount)

	if !common.IsUsableAddress(owner) {
		runtime.Log("bad witness")
		return false
	}

	ctx := storage.GetContext()
	common.PutInt(ctx, allowanceKey(owner, spender), amount)
	runtime.Notify("Approval", owner, spender, amount)

	return true
}

// Allowance returns the remaining amount spender may transfer from the owner
// account.
func Allowance(owner, spender interop.Hash160) int {
	checkAddress(owner)
	checkAddress(spender)

	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, allowanceKey(owner, spender))
}

// TransferFrom transfers tokens from one account to another on behalf of the
// spender. It can be invoked only by the spender and returns false otherwise.
// The allowance is decreased by the full amount, the tax is applied exactly
// like in Transfer.
func TransferFrom(spender, from, to interop.Hash160, amount int, data any) bool {
	checkAddress(spender)
	checkAddress(from)
	checkAddress(to)
	checkAmount(amount)

	if !common.IsUsableAddress(spender) {
		runtime.Log("bad witness")
		return false
	}

	ctx := storage.GetContext()

	key := allowanceKey(from, spender)
	allowed := common.GetInt(ctx, key)
	if allowed < amount {
		panic(b4realconst.ErrInsufficientAllowance)
	}

	common.PutInt(ctx, key, allowed-amount)
	transferTokens(ctx, from, to, amount, data)

	return true
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// transferTokens moves amount from one account to another withholding the
// tax if it applies. Any failure panics, so nothing is written in that case.
func transferTokens(ctx storage.Context, from, to interop.Hash160, amount int, data any) {
	fromKey := accountKey(from)
	fromBalance := common.GetInt(ctx, fromKey)
	if fromBalance < amount {
		panic(b4realconst.ErrInsufficientBalance)
	}

	params := getFeeParams(ctx)

	fee := 0
	if chargesFee(ctx, params, from, to) {
		fee = calculateFee(amount, params.TaxFee, params.TaxFeeDecimals)
	}

	net := amount - fee

	common.PutInt(ctx, fromKey, fromBalance-amount)
	credit(ctx, to, net)
	runtime.Notify("Transfer", from, to, net)

	if fee > 0 {
		credit(ctx, params.TaxAddress, fee)
		runtime.Notify("Transfer", from, params.TaxAddress, fee)
		postTransfer(from, params.TaxAddress, fee, nil)
	}

	postTransfer(from, to, net, data)
}

// chargesFee reports whether transfer between the accounts is taxed.
func chargesFee(ctx storage.Context, params FeeParams, from, to interop.Hash160) bool {
	if params.WaiveFees {
		return false
	}

	return isWhitelisted(ctx, from) && isWhitelisted(ctx, to)
}

func credit(ctx storage.Context, account interop.Hash160, amount int) {
	key := accountKey(account)
	common.PutInt(ctx, key, common.GetInt(ctx, key)+amount)
}

// postTransfer calls onNEP17Payment if the recipient is a contract.
func postTransfer(from, to interop.Hash160, amount int, data any) {
	if management.GetContract(to) != nil {
		contract.Call(to, "onNEP17Payment", contract.All, from, amount, data)
	}
}

func initialSupply() int {
	supply := b4realconst.InitialSupply
	return supply * pow10(b4realconst.Decimals)
}

func checkAddress(addr interop.Hash160) {
	if len(addr) != interop.Hash160Len {
		panic(b4realconst.ErrInvalidAddress)
	}
}

func checkAmount(amount int) {
	if amount < 0 {
		panic(b4realconst.ErrNegativeValue)
	}
}

func accountKey(account interop.Hash160) []byte {
	return append([]byte{b4realconst.AccountPrefix}, account...)
}

func allowanceKey(owner, spender interop.Hash160) []byte {
	key := append([]byte{b4realconst.AllowancePrefix}, owner...)
	return append(key, spender...)
}
