//go:build linux

package arachne

import "golang.org/x/sys/unix"

// pinToCore binds the calling OS thread to CPU id, per spec.md §4.K
// ("each kernel thread is pinned to the CPU whose index matches its
// core id"). Grounded on aktau-perflock's use of
// unix.SchedSetaffinity to bind a PID to a CPU mask.
func pinToCore(id int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(id)
	// Pid 0 means "the calling thread" under Linux's gettid-scoped
	// affinity semantics, which is what we want: this call happens
	// after runtime.LockOSThread, so it binds exactly this core's
	// dispatcher goroutine's OS thread, not the whole process.
	return unix.SchedSetaffinity(0, &set)
}
