package channel

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestChan_unbufferedRendezvous(t *testing.T) {
	defer checkNumGoroutines(time.Second * 3)(t)

	ch := NewChan[int](0)
	if ch.Cap() != 0 {
		t.Fatalf(`want cap 0, got %d`, ch.Cap())
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		ch.Send(42)
	}()

	time.Sleep(time.Millisecond * 20)
	v, ok := ch.Recv()
	require.True(t, ok)
	require.Equal(t, 42, v)
	<-done
}

func TestChan_bufferedFIFO(t *testing.T) {
	defer checkNumGoroutines(time.Second * 3)(t)

	ch := NewChan[string](3)
	ch.Send(`a`)
	ch.Send(`b`)
	ch.Send(`c`)
	if ch.Len() != 3 {
		t.Fatalf(`want len 3, got %d`, ch.Len())
	}

	for _, want := range []string{`a`, `b`, `c`} {
		v, ok := ch.Recv()
		require.True(t, ok)
		require.Equal(t, want, v)
	}
}

func TestChan_closeDrainsZeroValues(t *testing.T) {
	defer checkNumGoroutines(time.Second * 3)(t)

	ch := NewChan[int](0)
	var wg sync.WaitGroup
	results := make([]bool, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, ok := ch.Recv()
			results[i] = ok
		}(i)
	}
	time.Sleep(time.Millisecond * 30)
	ch.Close()
	wg.Wait()

	for i, ok := range results {
		if ok {
			t.Errorf(`receiver %d: want ok=false after close, got true`, i)
		}
	}

	v, ok := ch.Recv()
	require.False(t, ok)
	require.Equal(t, 0, v)
}

func TestChan_sendOnClosedPanics(t *testing.T) {
	defer checkNumGoroutines(time.Second * 3)(t)

	ch := NewChan[int](1)
	ch.Close()

	defer func() {
		r := recover()
		require.NotNil(t, r)
	}()
	ch.Send(1)
}

func TestChan_closeOfClosedPanics(t *testing.T) {
	ch := NewChan[int](0)
	ch.Close()

	defer func() {
		r := recover()
		require.NotNil(t, r)
	}()
	ch.Close()
}

func TestChan_blockedSenderWokenByClose(t *testing.T) {
	defer checkNumGoroutines(time.Second * 3)(t)

	ch := NewChan[int](0)
	panicked := make(chan any, 1)
	go func() {
		defer func() { panicked <- recover() }()
		ch.Send(1)
	}()

	time.Sleep(time.Millisecond * 30)
	ch.Close()

	select {
	case r := <-panicked:
		require.NotNil(t, r)
	case <-time.After(time.Second):
		t.Fatal(`blocked sender was never woken by close`)
	}
}

func TestChan_nilBlocksForever(t *testing.T) {
	var ch *Chan[int]
	done := make(chan struct{})
	go func() {
		defer close(done)
		ch.Recv()
	}()
	select {
	case <-done:
		t.Fatal(`recv on nil channel returned`)
	case <-time.After(time.Millisecond * 100):
	}
	// goroutine is leaked by design (it blocks forever); don't leak-check here.
}

func TestChan_rangeAll(t *testing.T) {
	defer checkNumGoroutines(time.Second * 3)(t)

	ch := NewChan[int](4)
	ch.Send(1)
	ch.Send(2)
	ch.Send(3)
	ch.Close()

	var got []int
	for v := range ch.All() {
		got = append(got, v)
	}
	require.Equal(t, []int{1, 2, 3}, got)
}

func TestChan_bufferedRotationUnderContention(t *testing.T) {
	defer checkNumGoroutines(time.Second * 3)(t)

	ch := NewChan[int](2)
	ch.Send(1)
	ch.Send(2)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ch.Send(3) // buffer full, parks until a recv makes room
	}()
	time.Sleep(time.Millisecond * 30)

	v, ok := ch.Recv()
	require.True(t, ok)
	require.Equal(t, 1, v)
	wg.Wait()

	var rest []int
	for i := 0; i < 2; i++ {
		v, ok := ch.Recv()
		require.True(t, ok)
		rest = append(rest, v)
	}
	require.Equal(t, []int{2, 3}, rest)
}
