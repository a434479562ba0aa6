package channel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSelect_recvReady(t *testing.T) {
	defer checkNumGoroutines(time.Second * 3)(t)

	a := NewChan[int](1)
	b := NewChan[int](1)
	b.Send(7)

	var slotA, slotB RecvSlot[int]
	idx := Select(RecvCase(a, &slotA), RecvCase(b, &slotB))
	require.Equal(t, 1, idx)
	require.True(t, slotB.Ok)
	require.Equal(t, 7, slotB.Value)
}

func TestSelect_defaultFiresWhenNothingReady(t *testing.T) {
	defer checkNumGoroutines(time.Second * 3)(t)

	a := NewChan[int](0)
	var slotA RecvSlot[int]
	idx := Select(RecvCase(a, &slotA), DefaultCase())
	require.Equal(t, 1, idx)
}

func TestSelect_sendCase(t *testing.T) {
	defer checkNumGoroutines(time.Second * 3)(t)

	ch := NewChan[string](1)
	idx := Select(SendCase(ch, `hi`), DefaultCase())
	require.Equal(t, 0, idx)

	v, ok := ch.Recv()
	require.True(t, ok)
	require.Equal(t, `hi`, v)
}

func TestSelect_closedChannelReturnsZeroSlot(t *testing.T) {
	defer checkNumGoroutines(time.Second * 3)(t)

	ch := NewChan[int](0)
	ch.Close()

	var slot RecvSlot[int]
	idx := Select(RecvCase(ch, &slot))
	require.Equal(t, 0, idx)
	require.False(t, slot.Ok)
}

func TestSelect_blocksUntilOneSideReady(t *testing.T) {
	defer checkNumGoroutines(time.Second * 3)(t)

	ch := NewChan[int](0)
	go func() {
		time.Sleep(time.Millisecond * 30)
		ch.Send(9)
	}()

	var slot RecvSlot[int]
	idx := Select(RecvCase(ch, &slot))
	require.Equal(t, 0, idx)
	require.True(t, slot.Ok)
	require.Equal(t, 9, slot.Value)
}

// TestSelect_fairnessAcrossManyReadyCases exercises the random poll order:
// with several permanently-ready channels, repeated selects should pick
// each roughly as often as the others rather than always favoring the
// lowest index.
func TestSelect_fairnessAcrossManyReadyCases(t *testing.T) {
	defer checkNumGoroutines(time.Second * 3)(t)

	const n = 4
	chans := make([]*Chan[int], n)
	for i := range chans {
		chans[i] = NewChan[int](1)
		chans[i].Send(i)
	}

	counts := make([]int, n)
	const rounds = 2000
	for r := 0; r < rounds; r++ {
		slots := make([]RecvSlot[int], n)
		cases := make([]SelectCase, n)
		for i := range chans {
			cases[i] = RecvCase(chans[i], &slots[i])
		}
		idx := Select(cases...)
		counts[idx]++
		chans[idx].Send(slots[idx].Value) // put it back so it stays ready
	}

	for i, c := range counts {
		if c == 0 {
			t.Errorf(`case %d was never selected across %d rounds`, i, rounds)
		}
	}
}

func TestSelect_onlyNilChannelsBlocksForever(t *testing.T) {
	var a, b *Chan[int]
	done := make(chan struct{})
	go func() {
		defer close(done)
		var slotA, slotB RecvSlot[int]
		Select(RecvCase(a, &slotA), RecvCase(b, &slotB))
	}()
	select {
	case <-done:
		t.Fatal(`select with only nil channels returned`)
	case <-time.After(time.Millisecond * 100):
	}
}
