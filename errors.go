package arachne

import "errors"

// Sentinel errors returned by the functions that report errors (Init,
// Join, and the CoreManager lifecycle transitions); Create and
// CreateOnCore report failure with NullThread instead. Internal
// functions never return errors, they return a sentinel value or call
// fatal.
var (
	// ErrArbiterUnavailable is returned by Init when a caller-supplied
	// Arbiter implements arbiterConnector and its Connect fails
	// ("connection refused", spec.md §7 kind 3). Callers may retry.
	ErrArbiterUnavailable = errors.New("arachne: core arbiter unavailable")

	// ErrInvalidCore is returned by Init when WithCoreRange is given
	// invalid bounds, by the CoreManager lifecycle operations for an
	// out-of-range core id or a core in the wrong state, and by Join for
	// NullThread.
	ErrInvalidCore = errors.New("arachne: invalid or unowned core id")

	// ErrNotRunning is returned by CoreManager lifecycle operations
	// (MakeExclusive, MakeShared, Drain) once the owning Runtime has
	// been shut down.
	ErrNotRunning = errors.New("arachne: runtime is not running")
)

// fatal logs at panic level and aborts the process. It is reserved for
// bugs the spec classifies as fatal: nested dispatch, and (post-hoc)
// stack overflow detection. It is never used for ordinary runtime
// conditions like capacity exhaustion, which return sentinels instead.
func fatal(msg string, kv ...any) {
	ev := logger().Panic()
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		ev = ev.Interface(key, kv[i+1])
	}
	ev.Msg(msg)
	// zerolog's Panic level calls panic(msg) internally after logging;
	// this is a fallback in case logging is disabled/no-op.
	panic("arachne: fatal: " + msg)
}
