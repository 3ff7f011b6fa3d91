package arachne

import "unsafe"

// invocationCapacity is the maximum number of bytes the bound callable's
// captured arguments may occupy in a slot's inline buffer. This mirrors
// the original library's static_assert that sizeof(ThreadInvocation<F>)
// fits in a single cache line; callers that need larger captures must
// heap-allocate themselves and pass a pointer (which fits easily).
const invocationCapacity = 56

// invocationSlot is the per-ThreadContext inline storage for the
// currently-hosted thread's entry point, stored inline in ThreadContext
// so binding a thread needs no separate buffer allocation. It is not
// placed on the same cache line as wakeupDeadline: the struct alone is
// 64 bytes (invoke pointer plus the 56-byte buffer) and sits after
// several other ThreadContext fields, so thread creation writes more
// than one cache line.
//
// invoke is the type-erased "vtable" the original calls a
// ThreadInvocationEnabler: a function pointer that knows how to
// reinterpret data as the concrete argument type and call the user's
// function. data holds the moved-in arguments themselves, never the
// function value, so that binding arguments never allocates.
type invocationSlot struct {
	invoke func(self *ThreadContext, p unsafe.Pointer)
	data   [invocationCapacity]byte
}

// bind stores fn and args into slot without allocating for args: args is
// copied directly into the slot's inline byte buffer via an unsafe
// reinterpret, exactly as the original moves a ThreadInvocation<F> into
// a fixed char buffer. The only allocation is the small closure that
// captures fn itself (a function value, not the arguments), which is
// unavoidable in idiomatic Go without arena-allocating closures; the
// payload that actually scales with the user's data stays inline.
//
// fn receives self, the ThreadContext hosting it: Go has no
// goroutine-local storage to stand in for the original's implicit
// "current thread" (spec.md §9), so this port makes that handle
// explicit instead of faking one.
func bindInvocation[T any](slot *invocationSlot, fn func(self *ThreadContext, args T), args T) {
	if unsafe.Sizeof(args) > invocationCapacity {
		fatal("invocation exceeds inline buffer size", "size", unsafe.Sizeof(args), "max", invocationCapacity)
	}
	*(*T)(unsafe.Pointer(&slot.data[0])) = args
	slot.invoke = func(self *ThreadContext, p unsafe.Pointer) {
		fn(self, *(*T)(p))
	}
}

// run invokes the bound callable, passing self and the address of the
// inline buffer, then clears the slot so a stale invoke is never
// reused.
func (s *invocationSlot) run(self *ThreadContext) {
	invoke := s.invoke
	s.invoke = nil
	invoke(self, unsafe.Pointer(&s.data[0]))
}
