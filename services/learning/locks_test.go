package learning

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutexSerializesPerKey(t *testing.T) {
	k := newKeyedMutex()

	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock(attemptKey(1, 2))
			counter++
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Zero(t, k.size())
}

func TestKeyedMutexKeysAreIndependent(t *testing.T) {
	k := newKeyedMutex()

	unlockA := k.Lock(attemptKey(1, 1))
	unlockB := k.Lock(attemptKey(1, 2))
	assert.Equal(t, 2, k.size())

	unlockA()
	unlockB()
	assert.Zero(t, k.size())
}
