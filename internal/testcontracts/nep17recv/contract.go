package nep17recv

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Payment is the last accepted token payment.
type Payment struct {
	Token  interop.Hash160
	From   interop.Hash160
	Amount int
	Data   any
}

const (
	lastKey  = "last"
	countKey = "count"
)

func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	ctx := storage.GetContext()

	storage.Put(ctx, lastKey, std.Serialize(Payment{
		Token:  runtime.GetCallingScriptHash(),
		From:   from,
		Amount: amount,
		Data:   data,
	}))

	n := 0
	if v := storage.Get(ctx, countKey); v != nil {
		n = v.(int)
	}
	storage.Put(ctx, countKey, n+1)
}

func Last() Payment {
	val := storage.Get(storage.GetReadOnlyContext(), lastKey)
	if val == nil {
		return Payment{}
	}
	return std.Deserialize(val.([]byte)).(Payment)
}

func Count() int {
	v := storage.Get(storage.GetReadOnlyContext(), countKey)
	if v == nil {
		return 0
	}
	return v.(int)
}
