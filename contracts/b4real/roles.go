package b4real

import (
	"github.com/nspcc-dev/b4real-contract/common"
	"github.com/nspcc-dev/b4real-contract/contracts/b4real/b4realconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/convert"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// OwnerRole returns the identifier of the owner role to be used with HasRole.
func OwnerRole() int {
	return b4realconst.OwnerRole
}

// HasRole checks whether the account holds the role.
func HasRole(role int, account interop.Hash160) bool {
	holder := getRoleHolder(storage.GetReadOnlyContext(), role)
	if holder == nil {
		return false
	}

	return holder.Equals(account)
}

// Owner returns the account holding the owner role.
func Owner() interop.Hash160 {
	return getRoleHolder(storage.GetReadOnlyContext(), b4realconst.OwnerRole)
}

// TransferOwnership moves the owner role from the current holder to
// newOwner in a single storage write, so there is never zero or two holders.
// It can be invoked only by the current owner.
//
// It produces RoleRevoked and RoleGranted notifications.
func TransferOwnership(newOwner interop.Hash160) {
	ctx := storage.GetContext()
	prevOwner := checkOwner(ctx)
	checkAddress(newOwner)

	storage.Put(ctx, roleKey(b4realconst.OwnerRole), newOwner)

	runtime.Notify("RoleRevoked", b4realconst.OwnerRole, prevOwner)
	runtime.Notify("RoleGranted", b4realconst.OwnerRole, newOwner)
}

// checkOwner panics unless the transaction is witnessed by the owner role
// holder. It must precede any write in administrative methods.
func checkOwner(ctx storage.Context) interop.Hash160 {
	owner := getRoleHolder(ctx, b4realconst.OwnerRole)
	if owner == nil {
		panic(b4realconst.ErrNoAdminPermission)
	}

	common.CheckWitnessWithMessage(owner, b4realconst.ErrNoAdminPermission)

	return owner
}

// getRoleHolder returns nil if the role is not granted. The holder is read as
// a string to keep it a ByteString on the stack.
func getRoleHolder(ctx storage.Context, role int) interop.Hash160 {
	data := storage.Get(ctx, roleKey(role))
	if data == nil {
		return nil
	}

	return interop.Hash160(data.(string))
}

func roleKey(role int) []byte {
	return append([]byte{b4realconst.RolePrefix}, convert.ToBytes(role)...)
}
