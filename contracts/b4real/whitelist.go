package b4real

import (
	"github.com/nspcc-dev/b4real-contract/contracts/b4real/b4realconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// The whitelist flag means "subject to the fee": true (the default for any
// account never touched) makes transfers from and to the account taxed,
// false exempts them. Method names come from the token interface and are
// inverted relative to the flag they write:
//
//	ExemptFromFee -> Whitelisted returns false
//	IncludeInFee  -> Whitelisted returns true
//
// Do not swap them, clients rely on this behaviour.

// ExemptFromFee sets the whitelisted flag of the account to false, so its
// transfers are not taxed. It can be invoked only by the owner.
//
// It produces WhitelistChanged notification.
func ExemptFromFee(account interop.Hash160) {
	ctx := storage.GetContext()
	checkOwner(ctx)
	checkAddress(account)

	setWhitelisted(ctx, account, false)
}

// IncludeInFee sets the whitelisted flag of the account to true, so its
// transfers are taxed. It can be invoked only by the owner.
//
// It produces WhitelistChanged notification.
func IncludeInFee(account interop.Hash160) {
	ctx := storage.GetContext()
	checkOwner(ctx)
	checkAddress(account)

	setWhitelisted(ctx, account, true)
}

// Whitelisted returns the whitelisted flag of the account. See ExemptFromFee
// and IncludeInFee for its meaning.
func Whitelisted(account interop.Hash160) bool {
	checkAddress(account)

	return isWhitelisted(storage.GetReadOnlyContext(), account)
}

// ListWhitelist iterates over accounts whose flag has been set explicitly.
// Iteration is through key-value pair, where key is account script hash,
// value is a single byte, 1 for included accounts and 0 for exempt ones.
func ListWhitelist() iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, []byte{b4realconst.WhitelistPrefix}, storage.RemovePrefix)
}

func isWhitelisted(ctx storage.Context, account interop.Hash160) bool {
	data := storage.Get(ctx, whitelistKey(account))
	if data == nil {
		return true
	}

	return data.(int) != 0
}

func setWhitelisted(ctx storage.Context, account interop.Hash160, flag bool) {
	storage.Put(ctx, whitelistKey(account), flag)
	runtime.Notify("WhitelistChanged", account, flag)
}

func whitelistKey(account interop.Hash160) []byte {
	return append([]byte{b4realconst.WhitelistPrefix}, account...)
}
