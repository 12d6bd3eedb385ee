package ledger

import (
	"sync"
)

// keyLock provides one mutex per account number so balance read-modify-write
// sequences on the same account serialize while different accounts proceed
// in parallel. Mutexes live for the process, matching cache entry lifetime.
type keyLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyLock() *keyLock {
	return &keyLock{locks: make(map[string]*sync.Mutex)}
}

func (k *keyLock) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}

// lock acquires the mutex for key and returns its release func.
func (k *keyLock) lock(key string) func() {
	m := k.get(key)
	m.Lock()
	return m.Unlock
}

// lockPair acquires both mutexes in sorted key order, so two transfers
// touching the same accounts in opposite directions cannot deadlock.
func (k *keyLock) lockPair(a, b string) func() {
	if a == b {
		return k.lock(a)
	}
	first, second := a, b
	if second < first {
		first, second = second, first
	}
	m1, m2 := k.get(first), k.get(second)
	m1.Lock()
	m2.Lock()
	return func() {
		m2.Unlock()
		m1.Unlock()
	}
}
