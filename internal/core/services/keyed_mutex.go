package services

import "sync"

// KeyedMutex serializes writers per key. The workflow engine locks on
// program IDs and the budget ledger on user IDs, so operations touching
// the same program or the same budget account never interleave, while
// unrelated programs proceed concurrently.
//
// Entries are never evicted; the keyspace is bounded by the number of
// programs and users, and a mutex is a few dozen bytes.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewKeyedMutex creates an empty keyed mutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key, creating it on first use.
func (k *KeyedMutex) Lock(key string) {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()
	m.Lock()
}

// Unlock releases the mutex for key. It panics if Lock was not called first.
func (k *KeyedMutex) Unlock(key string) {
	k.mu.Lock()
	m := k.locks[key]
	k.mu.Unlock()
	m.Unlock()
}
