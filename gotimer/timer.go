package gotimer

import (
	"sync"
	"time"

	"github.com/joeycumines/goconc/channel"
)

// Timer fires once after a delay, delivering the fire time on C. C has a
// one-element buffer, same as time.Timer, so firing never blocks on a
// receiver that isn't listening yet.
//
// Timer tracks its own armed/stopped/fired state (active), independent
// of native *time.Timer's internal state: Reset is only ever legal once
// the timer has been stopped or has fired, matching bongo's
// timer::reset_locked, which throws logic_error{"reset on active timer"}
// when called on a timer still active_.
type Timer struct {
	C      *channel.Chan[time.Time]
	native *time.Timer

	mu     sync.Mutex
	active bool
}

// NewTimer starts a timer that will fire after d.
func NewTimer(d time.Duration) *Timer {
	c := channel.NewChan[time.Time](1)
	t := &Timer{C: c, active: true}
	t.native = time.AfterFunc(d, func() {
		t.markFired()
		// non-blocking send: if nobody drained a previous fire (only
		// possible after a Reset that raced with delivery) drop it,
		// matching native time.Timer's documented behavior.
		channel.Select(channel.SendCase(c, time.Now()), channel.DefaultCase())
	})
	return t
}

// AfterFunc waits for the duration to elapse and then calls f in its own
// goroutine, the channel.Chan-backed analog of time.AfterFunc.
func AfterFunc(d time.Duration, f func()) *Timer {
	t := &Timer{active: true}
	t.native = time.AfterFunc(d, func() {
		t.markFired()
		f()
	})
	return t
}

func (t *Timer) markFired() {
	t.mu.Lock()
	t.active = false
	t.mu.Unlock()
}

// Stop prevents the timer from firing, returning true if it did so
// before the timer had already fired or been stopped.
func (t *Timer) Stop() bool {
	t.mu.Lock()
	t.active = false
	t.mu.Unlock()
	return t.native.Stop()
}

// Reset changes the timer to fire after d, returning whether it was
// active before the call. Calling Reset while the timer is still armed
// is a programming error: it panics, rather than silently racing the
// not-yet-fired callback the way a bare native time.Timer.Reset would.
// As with time.Timer, a caller that wants to reuse C after a fire should
// first ensure it has been drained.
func (t *Timer) Reset(d time.Duration) bool {
	t.mu.Lock()
	if t.active {
		t.mu.Unlock()
		panic("gotimer: reset on active timer")
	}
	t.active = true
	t.mu.Unlock()
	return t.native.Reset(d)
}
