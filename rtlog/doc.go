// Package rtlog is a small structured logging facility for the rest of
// this module: channel sends/recvs, select wakeups, context cancellation
// and timer fires can all be logged through a common Entry shape.
//
// It is hand-rolled rather than built on a third-party structured
// logging framework: a concurrency runtime's hot path shouldn't carry a logging
// framework's allocation and interface-dispatch overhead, and shouldn't
// gain a dependency edge onto something with its own scheduling or
// buffering behavior.
package rtlog
