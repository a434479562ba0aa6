// Package channel provides Chan[T], a generic, closable FIFO channel
// built from first principles on internal/corert rather than a native Go
// chan, plus Select, a multi-way select over heterogeneous Chan[T]
// values built the same way native select multiplexes native channels.
package channel
