// Package lock serializes matching triggers per job. Concurrent triggers for
// the same job must not interleave their replace cycles; triggers for
// different jobs run in parallel.
package lock

import (
	"context"
	"sync"
)

// Locker acquires an exclusive lock for a key. The returned release function
// must always be called, typically deferred.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// KeyedMutex is a single-process Locker backed by one mutex per key.
// Mutexes are created on demand and kept for the process lifetime; the key
// space (job ids under active matching) is small.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewKeyedMutex creates an empty keyed mutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*sync.Mutex)}
}

// Acquire implements Locker. It blocks until the key's mutex is held;
// ctx is accepted for interface symmetry but a held mutex is not
// interruptible.
func (k *KeyedMutex) Acquire(_ context.Context, key string) (func(), error) {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock, nil
}
