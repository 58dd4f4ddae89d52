package service

import (
	"hash/fnv"
	"sync"
)

const kmutexShards = 64

// keyedMutex serializes work per string key using a fixed shard table.
// Two keys may share a shard; that only costs extra serialization, never
// lost exclusion.
type keyedMutex struct {
	shards [kmutexShards]sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{}
}

func (k *keyedMutex) Lock(key string) {
	k.shards[shardFor(key)].Lock()
}

func (k *keyedMutex) Unlock(key string) {
	k.shards[shardFor(key)].Unlock()
}

func shardFor(key string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(key)) //nolint:errcheck
	return h.Sum32() % kmutexShards
}
