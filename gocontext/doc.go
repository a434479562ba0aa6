// Package gocontext re-implements the context tree (cancellation,
// deadlines, values) on this module's own channel.Chan rather than
// stdlib context or native channels: Context.Done() returns a
// *channel.Chan[struct{}], observable only through channel.Select.
//
// Two details are pulled from bongo's timer_context, which original
// spec text left unspecified: WithDeadline skips arming its own timer
// if the parent's deadline is already sooner (the parent will fire
// first regardless), and a deadline already in the past cancels the
// context immediately with DeadlineExceeded rather than arming a timer
// for a zero or negative duration.
package gocontext
