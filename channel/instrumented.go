package channel

import (
	"time"

	"github.com/joeycumines/goconc/rtlog"
	"github.com/joeycumines/goconc/rtstat"
)

// InstrumentedChan wraps a Chan[T], recording send/recv/close counts and
// a streaming p99 wait-latency estimate into an rtstat.Stats, and
// emitting rtlog entries for each operation.
type InstrumentedChan[T any] struct {
	*Chan[T]
	stats *rtstat.Stats
}

// Instrument wraps ch so every Send, Recv and Close is recorded into
// stats and logged under the "channel" category.
func Instrument[T any](ch *Chan[T], stats *rtstat.Stats) *InstrumentedChan[T] {
	return &InstrumentedChan[T]{Chan: ch, stats: stats}
}

func (c *InstrumentedChan[T]) Send(v T) {
	start := time.Now()
	c.Chan.Send(v)
	c.stats.RecordSend()
	c.stats.RecordBlocked(time.Since(start))
	rtlog.Debug(`channel`, `send completed`)
}

func (c *InstrumentedChan[T]) Recv() (T, bool) {
	start := time.Now()
	v, ok := c.Chan.Recv()
	c.stats.RecordRecv()
	c.stats.RecordBlocked(time.Since(start))
	rtlog.Debug(`channel`, `recv completed`, rtlog.WithField(`ok`, ok))
	return v, ok
}

func (c *InstrumentedChan[T]) Close() {
	c.Chan.Close()
	c.stats.RecordClose()
	rtlog.Info(`channel`, `channel closed`)
}
