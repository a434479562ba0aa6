// Package corert is the untyped runtime underneath the channel package
// (and, through it, the context, timer and pipe packages): parked
// threads, intrusive wait queues and the closable ring-buffer channel
// core, plus the select algorithm that arbitrates across heterogeneous
// channels.
//
// Nothing in this package touches a native Go channel or select
// statement. Every channel send, receive, close and select in the module
// goes through corert's primitives; the packages above it still use
// sync.Mutex for their own bookkeeping, and the waitgroup package is
// built on sync.Mutex/sync.Cond rather than on corert.
package corert
