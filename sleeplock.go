package arachne

// SleepLock is a mutual-exclusion lock for holders expected to be
// contended for longer than a SpinLock should ever be held: instead of
// spinning, a contending thread parks and is woken in FIFO order when
// the lock is released (spec.md §4.G.3). Its own bookkeeping (the
// owned flag and wait queue) is protected by a runtimeMutex rather than
// a SpinLock, since those critical sections are a few instructions
// long and never themselves block.
type SleepLock struct {
	bookkeeping runtimeMutex
	owned       bool
	waiters     []ThreadId
}

// NewSleepLock constructs an unlocked SleepLock.
func NewSleepLock() *SleepLock {
	return &SleepLock{}
}

// Lock acquires the lock, parking ctx if it is already held and waking
// it only once every earlier waiter has been served.
func (l *SleepLock) Lock(ctx *ThreadContext) {
	l.bookkeeping.lock()
	if !l.owned {
		l.owned = true
		l.bookkeeping.unlock()
		return
	}
	l.waiters = append(l.waiters, ctx.ThreadId())
	l.bookkeeping.unlock()
	ctx.Block()
	// Woken by Unlock, which hands ownership over by leaving owned set
	// and signaling this waiter; nothing left to do here.
}

// TryLock attempts to acquire the lock without blocking.
func (l *SleepLock) TryLock() bool {
	l.bookkeeping.lock()
	defer l.bookkeeping.unlock()
	if l.owned {
		return false
	}
	l.owned = true
	return true
}

// Unlock releases the lock, handing ownership directly to the
// longest-waiting parked thread if any, FIFO (spec.md §4.G.3).
func (l *SleepLock) Unlock() {
	l.bookkeeping.lock()
	if len(l.waiters) == 0 {
		l.owned = false
		l.bookkeeping.unlock()
		return
	}
	next := l.waiters[0]
	l.waiters = l.waiters[1:]
	l.bookkeeping.unlock()
	// owned remains true: ownership transfers directly to next rather
	// than being released and re-raced for.
	Signal(next)
}
