//go:build !linux

package arachne

import "errors"

// pinToCore is a no-op stub on platforms without Linux-style CPU
// affinity; the runtime still functions (one goroutine per core, just
// not pinned to a specific physical CPU), matching spec.md §4.K's
// allowance that pinning is a best-effort placement hint rather than a
// correctness requirement.
func pinToCore(id int) error {
	return errors.New("arachne: core pinning unsupported on this platform")
}
