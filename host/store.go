package host

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/core/storage"
)

// Key prefixes of the Host storage.
const (
	prefixContract byte = 0x08
	prefixStorage  byte = 0x70
	prefixHeight   byte = 0xc0
)

func storagePrefix(id int32) []byte {
	p := make([]byte, 5)
	p[0] = prefixStorage
	binary.LittleEndian.PutUint32(p[1:], uint32(id))
	return p
}

// contractStorage is a storage of the particular contract inside the
// invocation cache. Errors of the underlying storage are raised as panics
// which turn invocation into FAULT.
type contractStorage struct {
	prefix []byte
	cache  *storage.MemCachedStore
}

func newContractStorage(cache *storage.MemCachedStore, id int32) contractStorage {
	return contractStorage{
		prefix: storagePrefix(id),
		cache:  cache,
	}
}

func (x contractStorage) key(k []byte) []byte {
	res := make([]byte, len(x.prefix)+len(k))
	copy(res, x.prefix)
	copy(res[len(x.prefix):], k)
	return res
}

func (x contractStorage) Get(key []byte) []byte {
	v, err := x.cache.Get(x.key(key))
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil
		}
		panic(fmt.Errorf("read storage item: %w", err))
	}
	return v
}

func (x contractStorage) Put(key, value []byte) {
	x.cache.Put(x.key(key), value)
}

func (x contractStorage) Delete(key []byte) {
	x.cache.Delete(x.key(key))
}

// KeyValue is a contract storage item.
type KeyValue struct {
	Key   []byte
	Value []byte
}

// iterateStorage passes all storage items of the contract to f.
func iterateStorage(st storage.Store, id int32, f func(key, value []byte) bool) {
	prefix := storagePrefix(id)

	st.Seek(storage.SeekRange{Prefix: prefix}, func(k, v []byte) bool {
		return f(k[len(prefix):], v)
	})
}

func getHeight(st storage.Store) (uint32, error) {
	b, err := st.Get([]byte{prefixHeight})
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("read height: %w", err)
	}

	if len(b) != 4 {
		return 0, fmt.Errorf("invalid height record length %d", len(b))
	}

	return binary.LittleEndian.Uint32(b), nil
}

func putHeight(st *storage.MemCachedStore, h uint32) {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, h)
	st.Put([]byte{prefixHeight}, b)
}
