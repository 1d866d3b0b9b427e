package singleflight

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuard(t *testing.T) {
	guard := NewGuard()

	assert.False(t, guard.InFlight())
	assert.True(t, guard.TryAcquire())
	assert.True(t, guard.InFlight())
	assert.False(t, guard.TryAcquire(), "second acquire while held must fail")

	guard.Release()
	assert.False(t, guard.InFlight())
	assert.True(t, guard.TryAcquire())
}

func TestGuardConcurrentAcquire(t *testing.T) {
	guard := NewGuard()

	var acquired int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if guard.TryAcquire() {
				atomic.AddInt32(&acquired, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), acquired, "exactly one goroutine wins the guard")
}
