package gocontext

import (
	"errors"
	"reflect"
	"sync"
	"time"

	"github.com/joeycumines/goconc/channel"
	"github.com/joeycumines/goconc/gotimer"
)

// Context carries a deadline, a cancellation signal and request-scoped
// values across API boundaries, the same shape as stdlib context.Context
// except that Done returns this module's own channel type.
type Context interface {
	Deadline() (time.Time, bool)
	Done() *channel.Chan[struct{}]
	Err() error
	Value(key any) any
}

// CancelFunc cancels a Context. Calling it more than once, or after the
// context is already done for another reason, is a no-op.
type CancelFunc func()

// Canceled is the error returned by Context.Err when the context was
// canceled, either by its own CancelFunc or by an ancestor's.
var Canceled = errors.New("gocontext: context canceled")

type deadlineExceededError struct{}

func (deadlineExceededError) Error() string   { return "gocontext: context deadline exceeded" }
func (deadlineExceededError) Timeout() bool   { return true }
func (deadlineExceededError) Temporary() bool { return true }

// DeadlineExceeded is the error returned by Context.Err when the
// context's deadline has passed.
var DeadlineExceeded error = deadlineExceededError{}

// closedChan is a pre-closed channel, handed out by Done() for contexts
// that are already canceled but were never asked for their Done channel
// before that happened, avoiding an allocate-then-immediately-close.
var closedChan = func() *channel.Chan[struct{}] {
	c := channel.NewChan[struct{}](0)
	c.Close()
	return c
}()

type emptyCtx struct{ name string }

func (*emptyCtx) Deadline() (time.Time, bool)   { return time.Time{}, false }
func (*emptyCtx) Done() *channel.Chan[struct{}] { return nil }
func (*emptyCtx) Err() error                    { return nil }
func (*emptyCtx) Value(key any) any             { return nil }
func (c *emptyCtx) String() string { return c.name }

var (
	backgroundCtx = &emptyCtx{name: "gocontext.Background"}
	todoCtx       = &emptyCtx{name: "gocontext.TODO"}
)

// Background returns a non-nil, empty Context: never canceled, no
// deadline, no values. It is the root of any Context tree.
func Background() Context { return backgroundCtx }

// TODO returns a non-nil, empty Context, for use when it's unclear which
// Context to use, or one isn't yet available.
func TODO() Context { return todoCtx }

type cancelCtxKeyType struct{}

var cancelCtxKey cancelCtxKeyType

type canceler interface {
	cancel(removeFromParent bool, err error)
	doneChan() *channel.Chan[struct{}]
}

type cancelCtx struct {
	Context

	mu       sync.Mutex
	done     *channel.Chan[struct{}]
	children map[canceler]struct{}
	err      error
}

func (c *cancelCtx) Done() *channel.Chan[struct{}] {
	c.mu.Lock()
	if c.done == nil {
		c.done = channel.NewChan[struct{}](0)
	}
	d := c.done
	c.mu.Unlock()
	return d
}

func (c *cancelCtx) doneChan() *channel.Chan[struct{}] { return c.Done() }

func (c *cancelCtx) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *cancelCtx) Value(key any) any {
	if key == cancelCtxKey {
		return c
	}
	return value(c.Context, key)
}

func value(c Context, key any) any {
	for {
		switch ctx := c.(type) {
		case *cancelCtx:
			if key == cancelCtxKey {
				return ctx
			}
			c = ctx.Context
		case *timerCtx:
			if key == cancelCtxKey {
				return &ctx.cancelCtx
			}
			c = ctx.Context
		case *valueCtx:
			if key == ctx.key {
				return ctx.val
			}
			c = ctx.Context
		case *emptyCtx:
			return nil
		default:
			return c.Value(key)
		}
	}
}

// cancel closes c.done (or substitutes the shared closedChan if nobody
// ever asked for it), records err, and recursively cancels every child.
func (c *cancelCtx) cancel(removeFromParent bool, err error) {
	if err == nil {
		panic("gocontext: internal error: missing cancel error")
	}
	c.mu.Lock()
	if c.err != nil {
		c.mu.Unlock()
		return
	}
	c.err = err
	if c.done == nil {
		c.done = closedChan
	} else {
		c.done.Close()
	}
	children := c.children
	c.children = nil
	c.mu.Unlock()

	for child := range children {
		child.cancel(false, err)
	}

	if removeFromParent {
		removeChild(c.Context, c)
	}
}

// WithCancel returns a copy of parent with a new Done channel, closed
// either when cancel is called or when parent's Done channel closes,
// whichever happens first.
func WithCancel(parent Context) (Context, CancelFunc) {
	if parent == nil {
		panic("gocontext: nil parent context")
	}
	c := &cancelCtx{Context: parent}
	propagateCancel(parent, c)
	return c, func() { c.cancel(true, Canceled) }
}

// propagateCancel wires child to be canceled whenever parent is.
func propagateCancel(parent Context, child canceler) {
	done := parent.Done()
	if done == nil {
		return // parent can never be canceled
	}

	var slot channel.RecvSlot[struct{}]
	if idx := channel.Select(channel.RecvCase(done, &slot), channel.DefaultCase()); idx == 0 {
		child.cancel(false, parent.Err())
		return
	}

	if p, ok := parentCancelCtx(parent); ok {
		p.mu.Lock()
		if p.err != nil {
			p.mu.Unlock()
			child.cancel(false, p.err)
			return
		}
		if p.children == nil {
			p.children = make(map[canceler]struct{})
		}
		p.children[child] = struct{}{}
		p.mu.Unlock()
		return
	}

	go func() {
		var pSlot, cSlot channel.RecvSlot[struct{}]
		switch channel.Select(channel.RecvCase(parent.Done(), &pSlot), channel.RecvCase(child.doneChan(), &cSlot)) {
		case 0:
			child.cancel(false, parent.Err())
		case 1:
		}
	}()
}

// parentCancelCtx finds the nearest *cancelCtx ancestor, if parent's
// Done channel was obtained from one (and not, e.g., substituted by a
// derived type that overrides Done()).
func parentCancelCtx(parent Context) (*cancelCtx, bool) {
	done := parent.Done()
	if done == nil || done == closedChan {
		return nil, false
	}
	p, ok := parent.Value(cancelCtxKey).(*cancelCtx)
	if !ok {
		return nil, false
	}
	if p.done != done {
		return nil, false
	}
	return p, true
}

func removeChild(parent Context, child canceler) {
	p, ok := parentCancelCtx(parent)
	if !ok {
		return
	}
	p.mu.Lock()
	if p.children != nil {
		delete(p.children, child)
	}
	p.mu.Unlock()
}

type timerCtx struct {
	cancelCtx
	timer    *gotimer.Timer
	deadline time.Time
}

func (c *timerCtx) Deadline() (time.Time, bool) { return c.deadline, true }

func (c *timerCtx) cancel(removeFromParent bool, err error) {
	c.cancelCtx.cancel(false, err)
	if removeFromParent {
		removeChild(c.cancelCtx.Context, c)
	}
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()
}

// WithDeadline returns a copy of parent with the deadline adjusted to be
// no later than d. If parent's own deadline is already sooner,
// WithDeadline is equivalent to WithCancel: the parent firing first makes
// a second timer for this context pointless.
func WithDeadline(parent Context, d time.Time) (Context, CancelFunc) {
	if parent == nil {
		panic("gocontext: nil parent context")
	}
	if cur, ok := parent.Deadline(); ok && cur.Before(d) {
		return WithCancel(parent)
	}

	c := &timerCtx{cancelCtx: cancelCtx{Context: parent}, deadline: d}
	propagateCancel(parent, c)

	dur := time.Until(d)
	if dur <= 0 {
		c.cancel(true, DeadlineExceeded)
		return c, func() { c.cancel(false, Canceled) }
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err == nil {
		c.timer = gotimer.AfterFunc(dur, func() { c.cancel(true, DeadlineExceeded) })
	}
	return c, func() { c.cancel(true, Canceled) }
}

// WithTimeout is shorthand for WithDeadline(parent, time.Now().Add(timeout)).
func WithTimeout(parent Context, timeout time.Duration) (Context, CancelFunc) {
	return WithDeadline(parent, time.Now().Add(timeout))
}

type valueCtx struct {
	Context
	key, val any
}

func (c *valueCtx) Value(key any) any {
	if c.key == key {
		return c.val
	}
	return value(c.Context, key)
}

// WithValue returns a copy of parent in which Value(key) returns val.
// key must be comparable and should not be of type string or any other
// built-in type to avoid collisions between packages using Context.
func WithValue(parent Context, key, val any) Context {
	if parent == nil {
		panic("gocontext: nil parent context")
	}
	if key == nil {
		panic("gocontext: nil key")
	}
	if !reflect.TypeOf(key).Comparable() {
		panic("gocontext: key is not comparable")
	}
	return &valueCtx{Context: parent, key: key, val: val}
}
