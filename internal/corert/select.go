package corert

import (
	"math/rand/v2"
	"sort"
)

// Select runs the three-pass select protocol over cases and returns the
// index of the case that fired. With no ready, default or pollable case
// it blocks forever, same as a native select{} with only nil channels.
//
// Pass 1 polls every pollable case (send/recv on a non-nil channel) in a
// random order, so that repeated selects among several always-ready
// channels don't starve any of them. If none is immediately ready, the
// default case fires if present. Otherwise pass 2 parks on every
// pollable case's queue and waits for exactly one to claim the select via
// a CAS on a shared flag; pass 3 re-locks everything (in a fixed,
// address-sorted order to avoid deadlocking against another concurrent
// select sharing one of these channels), finds the winner and evicts the
// rest from their queues.
func Select(cases []Case) int {
	defaultIdx := -1
	var pollable []int
	for i, c := range cases {
		switch c.Dir {
		case DirDefault:
			if defaultIdx != -1 {
				panic("corert: select: multiple default cases")
			}
			defaultIdx = i
		case DirSend, DirRecv:
			if c.Ch != nil {
				pollable = append(pollable, i)
			}
		default:
			panic("corert: select: invalid case direction")
		}
	}

	if len(pollable) == 0 {
		if defaultIdx != -1 {
			return defaultIdx
		}
		foreverSleepCurrent()
		panic("corert: select: unreachable")
	}

	pollOrder := append([]int(nil), pollable...)
	rand.Shuffle(len(pollOrder), func(i, j int) { pollOrder[i], pollOrder[j] = pollOrder[j], pollOrder[i] })

	lockOrder := append([]int(nil), pollOrder...)
	sort.Slice(lockOrder, func(i, j int) bool {
		return cases[lockOrder[i]].Ch.lockKey() < cases[lockOrder[j]].Ch.lockKey()
	})

	lockAll := func() {
		var lastKey uintptr
		for i, idx := range lockOrder {
			key := cases[idx].Ch.lockKey()
			if i > 0 && key == lastKey {
				continue
			}
			cases[idx].Ch.lockCore()
			lastKey = key
		}
	}
	unlockAll := func() {
		var lastKey uintptr
		for i := len(lockOrder) - 1; i >= 0; i-- {
			idx := lockOrder[i]
			key := cases[idx].Ch.lockKey()
			if i < len(lockOrder)-1 && key == lastKey {
				continue
			}
			cases[idx].Ch.unlockCore()
			lastKey = key
		}
	}

	lockAll()

	for _, idx := range pollOrder {
		cs := cases[idx]
		switch cs.Dir {
		case DirSend:
			if cs.Ch.isClosed() {
				unlockAll()
				panic("corert: send on closed channel")
			}
			if w := cs.Ch.recvQueue().dequeue(); w != nil {
				cs.Ch.completeSendToWaiter(cs.Value, w)
				unlockAll()
				return idx
			}
			if cs.Ch.length() < cs.Ch.capacity() {
				cs.Ch.completeSendToBuffer(cs.Value)
				unlockAll()
				return idx
			}
		case DirRecv:
			if w := cs.Ch.sendQueue().dequeue(); w != nil {
				cs.Ch.completeRecvFromWaiter(cs.Value, w)
				unlockAll()
				return idx
			}
			if cs.Ch.length() > 0 {
				cs.Ch.completeRecvFromBuffer(cs.Value)
				unlockAll()
				return idx
			}
			if cs.Ch.isClosed() {
				cs.Ch.zeroSlot(cs.Value)
				unlockAll()
				return idx
			}
		}
	}

	if defaultIdx != -1 {
		unlockAll()
		return defaultIdx
	}

	self := newParkThread()
	nodes := make(map[int]*waitNode, len(lockOrder))
	for _, idx := range lockOrder {
		cs := cases[idx]
		node := &waitNode{parent: self, value: cs.Value, isSelect: true}
		nodes[idx] = node
		switch cs.Dir {
		case DirSend:
			cs.Ch.sendQueue().enqueue(node)
		case DirRecv:
			cs.Ch.recvQueue().enqueue(node)
		}
	}

	self.lock()
	unlockAll()
	for !self.selectDone.Load() {
		self.wait()
	}
	self.unlock()

	lockAll()
	var winner *waitNode
	winIdx := -1
	for _, idx := range lockOrder {
		node := nodes[idx]
		cs := cases[idx]
		switch cs.Dir {
		case DirSend:
			cs.Ch.sendQueue().dequeueNode(node)
		case DirRecv:
			cs.Ch.recvQueue().dequeueNode(node)
		}
		if node.doneWaiting {
			winner = node
			winIdx = idx
		}
	}
	unlockAll()

	if winner == nil {
		panic("corert: select: no winning case after wake")
	}
	if cases[winIdx].Dir == DirSend && winner.closed {
		panic("corert: send on closed channel")
	}
	return winIdx
}
