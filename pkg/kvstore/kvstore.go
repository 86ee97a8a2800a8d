package kvstore

import (
	"errors"
	"fmt"

	"github.com/cloutscape/wager-engine/pkg/common/enum"
	"github.com/cloutscape/wager-engine/pkg/infra"
)

var (
	ErrKeyEmpty    = errors.New("key is empty")
	ErrValueNil    = errors.New("value is nil")
	ErrKeyNotFound = errors.New("key not found")
)

func checkKeyAndValue(key string, value any) error {
	if key == "" {
		return ErrKeyEmpty
	}
	if value == nil {
		return ErrValueNil
	}
	return nil
}

// NewKVStore builds a store of the given type. Only Badger ships today; the
// factory exists so the storage backend stays a config concern.
func NewKVStore(storeType enum.KVStoreType, path string, prefix string) (infra.KVStore, error) {
	switch storeType {
	case enum.KVStoreTypeBadger:
		return NewBadgerStore(path, prefix, infra.JSON)
	default:
		return nil, fmt.Errorf("unsupported kvstore type: %s", storeType)
	}
}
