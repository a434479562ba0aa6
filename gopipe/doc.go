// Package gopipe is a synchronous in-memory pipe, the [io.Pipe] shape,
// built on channel.Chan and channel.Select instead of native channels.
// A Write blocks until matched by one or more Reads consuming the whole
// slice (or until either end is closed); every byte makes exactly one
// appearance in a Read call, same as the original.
package gopipe
