package bitutil

import (
	"encoding/binary"
	"sync"
	"sync/atomic"

	"github.com/spaolacci/murmur3"
)

// identityCounter is the module's one piece of process-wide mutable
// state: a monotonic tag assigned to non-comparable keys the first time
// they're hashed. Incremented atomically; never reset.
var identityCounter uint64

// identityTags holds the tag assigned to each distinct key value seen so
// far, guarded by mu since map writes are never safe unsynchronized.
var identityTags = struct {
	mu sync.Mutex
	m  map[any]uint64
}{m: make(map[any]uint64)}

// Hash32 returns a deterministic, avalanche-mixed 32-bit hash for key.
// Strings and byte slices go through MurmurHash3 directly; integers and
// booleans are coerced to a 4-byte pattern first; anything else gets a
// persistent per-object identity tag on first hash and is then hashed
// like an integer, so every key type is finalized by the same mixer.
func Hash32(key any) uint32 {
	switch k := key.(type) {
	case string:
		return murmur3.Sum32([]byte(k))
	case []byte:
		return murmur3.Sum32(k)
	case int:
		return hashUint64(uint64(k))
	case int64:
		return hashUint64(uint64(k))
	case int32:
		return hashUint64(uint64(k))
	case uint:
		return hashUint64(uint64(k))
	case uint64:
		return hashUint64(k)
	case uint32:
		return hashUint64(uint64(k))
	case bool:
		if k {
			return hashUint64(1)
		}
		return hashUint64(0)
	default:
		return hashUint64(identityTag(key))
	}
}

func hashUint64(v uint64) uint32 {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(v))
	return murmur3.Sum32(buf[:])
}

// identityTag assigns (or recalls) the stable tag for a non-comparable-
// by-value key. Keys that cannot be used as a Go map key (slices,
// functions, other non-comparable values) are hashed via the pointer
// identity of a boxed copy instead, which is still stable for the
// lifetime of that particular value.
func identityTag(key any) uint64 {
	if tag, ok := lookupTag(key); ok {
		return tag
	}
	tag := atomic.AddUint64(&identityCounter, 1)
	storeTag(key, tag)
	return tag
}

func lookupTag(key any) (tag uint64, ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	identityTags.mu.Lock()
	defer identityTags.mu.Unlock()
	tag, ok = identityTags.m[key]
	return
}

func storeTag(key any, tag uint64) {
	defer func() { _ = recover() }()
	identityTags.mu.Lock()
	defer identityTags.mu.Unlock()
	identityTags.m[key] = tag
}
