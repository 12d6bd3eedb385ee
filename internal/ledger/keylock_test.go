package ledger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyLockSerializesSameKey(t *testing.T) {
	k := newKeyLock()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.lock("1000000001")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
}

func TestKeyLockSameMutexPerKey(t *testing.T) {
	k := newKeyLock()
	assert.Same(t, k.get("a"), k.get("a"))
	assert.NotSame(t, k.get("a"), k.get("b"))
}

func TestLockPairOppositeOrdersDoNotDeadlock(t *testing.T) {
	k := newKeyLock()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			unlock := k.lockPair("1000000001", "1000000002")
			unlock()
		}()
		go func() {
			defer wg.Done()
			unlock := k.lockPair("1000000002", "1000000001")
			unlock()
		}()
	}
	wg.Wait()
}

func TestLockPairSameKey(t *testing.T) {
	k := newKeyLock()
	unlock := k.lockPair("1000000001", "1000000001")
	unlock()
	// The key must be lockable again after release.
	unlock = k.lock("1000000001")
	unlock()
}
