package singleflight

import "sync/atomic"

// Guard is a single-flight guard: TryAcquire must be called before the first
// suspension point of the guarded operation so a concurrent second caller
// observes the flag before any asynchronous work begins.
type Guard struct {
	inFlight atomic.Bool
}

func NewGuard() *Guard {
	return &Guard{}
}

// TryAcquire reports whether the caller may proceed. A false return means
// another invocation is already in flight.
func (g *Guard) TryAcquire() bool {
	return g.inFlight.CompareAndSwap(false, true)
}

func (g *Guard) Release() {
	g.inFlight.Store(false)
}

func (g *Guard) InFlight() bool {
	return g.inFlight.Load()
}
