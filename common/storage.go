package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// GetInt returns integer stored under the key or zero if there is none.
func GetInt(ctx storage.Context, key interface{}) int {
	v := storage.Get(ctx, key)
	if v != nil {
		return v.(int)
	}

	return 0
}

// GetIntList returns deserialized list of integers stored under the key.
func GetIntList(ctx storage.Context, key interface{}) []int {
	data := storage.Get(ctx, key)
	if data != nil {
		return std.Deserialize(data.([]byte)).([]int)
	}

	return []int{}
}

// SetSerialized serializes data and puts it into contract storage.
func SetSerialized(ctx storage.Context, key interface{}, value interface{}) {
	data := std.Serialize(value)
	storage.Put(ctx, key, data)
}
