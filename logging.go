package arachne

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// globalLogger is the package-level structured logging sink. It defaults
// to a zerolog.Logger writing to os.Stderr at WarnLevel, matching the
// spec's "runtime warnings" scope (deadlock suspicion, drain migration,
// core-pinning failures). Package-level rather than per-Runtime
// because some of the things it logs (the deadlock warning of a
// SpinLock, which holds no Runtime) have no natural Runtime handle at
// the call site, mirroring
// eventloop's package-level globalLogger.
var globalLogger atomic.Pointer[zerolog.Logger]

func init() {
	l := zerolog.New(os.Stderr).Level(zerolog.WarnLevel).With().Timestamp().Logger()
	globalLogger.Store(&l)
}

// logger returns the current structured logger.
func logger() *zerolog.Logger {
	return globalLogger.Load()
}

// SetErrorStream redirects runtime warnings (the set_error_stream
// operation) to w. Passing nil restores stderr.
func SetErrorStream(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	l := zerolog.New(w).Level(zerolog.WarnLevel).With().Timestamp().Logger()
	globalLogger.Store(&l)
	setRawSink(w)
}

// deadlockWarning logs the exact wire format mandated by spec.md §8
// scenario 5 in addition to a structured record, for a spin lock named
// name that has been contended by the same acquirer for >= 1s.
func deadlockWarning(name string) {
	logger().Warn().Str("lock_name", name).Msg("possible deadlock")
	// Exact line required by the testable-properties scenario: callers
	// that redirect the error stream and scan its bytes must see this
	// verbatim, independent of the structured record above.
	io.WriteString(rawSink(), name+" SpinLock locked for one second; deadlock?\n")
}

// rawSink exposes the io.Writer currently backing the structured logger,
// for the one message (spin-lock deadlock warning) that must also be
// emitted byte-for-byte in the original library's format.
var rawSinkWriter atomic.Pointer[io.Writer]

func init() {
	var w io.Writer = os.Stderr
	rawSinkWriter.Store(&w)
}

func rawSink() io.Writer {
	if p := rawSinkWriter.Load(); p != nil {
		return *p
	}
	return os.Stderr
}

func setRawSink(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	rawSinkWriter.Store(&w)
}
