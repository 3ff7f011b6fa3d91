// Package arachne implements an M:N user-space thread library: many
// lightweight, cooperatively-scheduled user threads multiplexed over a
// small number of kernel threads, one kernel thread pinned per core.
//
// # Architecture
//
// Each owned core runs a [Runtime]-managed kernel thread that executes
// the per-core dispatcher loop ((*core).run): it scans a 56-bit
// occupancy bitmap for a slot whose wakeup deadline has passed and
// hands control to it, resuming when that slot parks again. Thread
// creation ([Create], [CreateOnCore]) reserves a slot
// with a single CAS on the core's maskAndCount word, made while holding
// that core's short schedLock critical section, and then publishes the
// thread's entry point outside the lock. Creation is therefore not
// lock-free: concurrent creators on one core, that core's dispatcher
// scan, and drain-time migration all serialize on schedLock.
//
// The original library's context switch is a hand-written,
// per-architecture assembly routine that swaps a raw stack pointer
// between a register-save band and a target stack. Go goroutine
// stacks are grown and relocated by the runtime and garbage collector
// and cannot be manipulated that way from user code, so this port
// realizes the same swap contract with one persistent goroutine per
// slot and a pair of unbuffered channels that hand control back and
// forth (see the doc comment on ThreadContext) — the "stackful
// coroutines via library primitives" alternative spec.md §9 names
// explicitly.
//
// # Concurrency model
//
// User threads on the same core run strictly serially, cooperating
// only at explicit suspension points ([ThreadContext.Yield],
// [ThreadContext.Sleep], [ThreadContext.Block], condition variable
// waits, sleep-lock contention, semaphore waits, [Join] on a
// live thread). User threads on different cores run truly in
// parallel. There is no preemption and no migration at runtime beyond
// core drain.
//
// # Platform support
//
// Core pinning is implemented per-OS (affinity_linux.go via
// SCHED_SETAFFINITY, affinity_other.go as a logged no-op on platforms
// without CPU-affinity syscalls); the dispatcher and every
// synchronization primitive are pure Go and portable everywhere the
// Go runtime runs.
//
// # Usage
//
//	rt, err := arachne.Init(arachne.WithCoreRange(2, 4))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	worker := arachne.Create(rt, arachne.ThreadClassDefault, func(self *arachne.ThreadContext) {
//	    fmt.Println("hello from a user thread")
//	})
//	// Join, like every other blocking primitive, is called from the
//	// perspective of another hosted thread: it parks the caller, it
//	// doesn't block an arbitrary goroutine.
//	arachne.Create(rt, arachne.ThreadClassDefault, func(self *arachne.ThreadContext) {
//	    arachne.Join(self, worker)
//	    rt.ShutDown()
//	})
//	rt.WaitForTermination()
package arachne
