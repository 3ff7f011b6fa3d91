package arachne

// Semaphore is a counting semaphore (spec.md §4.G.6): Notify increments
// the count and wakes one waiter if any are parked; Wait blocks until
// the count is positive, then decrements it. Built on Condition plus a
// guard SpinLock, the same layering the original documents for its
// semaphore atop its condition variable primitive.
type Semaphore struct {
	guard *SpinLock
	cv    *Condition
	count int
}

// NewSemaphore constructs a Semaphore with the given initial count.
func NewSemaphore(initial int) *Semaphore {
	return &Semaphore{guard: NewSpinLock("semaphore"), cv: NewCondition(), count: initial}
}

// Notify increments the count and wakes one waiter.
func (s *Semaphore) Notify(ctx *ThreadContext) {
	s.guard.Lock(ctx)
	s.count++
	s.cv.NotifyOne()
	s.guard.Unlock()
}

// Wait blocks until the count is positive, then atomically decrements it.
func (s *Semaphore) Wait(ctx *ThreadContext) {
	s.guard.Lock(ctx)
	for s.count <= 0 {
		s.cv.Wait(ctx, s.guard)
	}
	s.count--
	s.guard.Unlock()
}

// TryWait decrements and returns true if the count is currently
// positive, or returns false without blocking otherwise.
func (s *Semaphore) TryWait(ctx *ThreadContext) bool {
	s.guard.Lock(ctx)
	defer s.guard.Unlock()
	if s.count <= 0 {
		return false
	}
	s.count--
	return true
}

// Reset sets the count to n, discarding whatever it was.
func (s *Semaphore) Reset(ctx *ThreadContext, n int) {
	s.guard.Lock(ctx)
	s.count = n
	s.guard.Unlock()
}
