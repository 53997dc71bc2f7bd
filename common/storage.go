package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// SetSerialized serializes data and puts it into contract storage.
func SetSerialized(ctx storage.Context, key any, value any) {
	data := std.Serialize(value)
	storage.Put(ctx, key, data)
}

// GetInt returns integer stored by the key or zero if the key is missing.
func GetInt(ctx storage.Context, key any) int {
	data := storage.Get(ctx, key)
	if data != nil {
		return data.(int)
	}

	return 0
}

// PutInt stores positive n by the key and deletes the key when n is zero, so
// that empty records do not occupy contract storage.
func PutInt(ctx storage.Context, key []byte, n int) {
	if n == 0 {
		storage.Delete(ctx, key)
		return
	}

	storage.Put(ctx, key, n)
}
