package channel

import (
	"github.com/joeycumines/goconc/internal/corert"
)

// RecvSlot is the destination of a select recv case: Value holds what
// arrived, Ok is false only once the channel is closed and drained.
type RecvSlot[T any] = corert.RecvSlot[T]

// Chan is a generic, closable FIFO channel. A nil *Chan[T] behaves like a
// nil native channel: Send and Recv on it block forever, and it is never
// the case a Select picks (though it remains legal to name in one).
type Chan[T any] struct {
	core *corert.ChanCore[T]
}

// NewChan allocates a channel with the given buffer capacity; 0 gives an
// unbuffered, rendezvous-only channel.
func NewChan[T any](capacity int) *Chan[T] {
	return &Chan[T]{core: corert.NewChanCore[T](capacity)}
}

// Send blocks until v is delivered to a receiver, buffered, or the
// channel closes, in which case it panics.
func (c *Chan[T]) Send(v T) {
	if c == nil {
		corert.BlockForever()
	}
	c.core.Send(v)
}

// Recv blocks until a value is available or the channel is closed and
// drained (ok == false).
func (c *Chan[T]) Recv() (value T, ok bool) {
	if c == nil {
		corert.BlockForever()
	}
	return c.core.Recv()
}

// Close closes the channel, waking every parked sender and receiver.
// Closing a nil channel or a channel already closed panics.
func (c *Chan[T]) Close() {
	if c == nil {
		panic("channel: close of nil channel")
	}
	c.core.Close()
}

// Len reports the number of buffered elements.
func (c *Chan[T]) Len() int {
	if c == nil {
		return 0
	}
	return c.core.Len()
}

// Cap reports the buffer capacity; 0 for an unbuffered channel.
func (c *Chan[T]) Cap() int {
	if c == nil {
		return 0
	}
	return c.core.Cap()
}

// All is a range-over-func iterator that receives until the channel
// closes: for v := range ch.All() { ... }
func (c *Chan[T]) All() func(yield func(T) bool) {
	return func(yield func(T) bool) {
		for {
			v, ok := c.Recv()
			if !ok {
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}
