package rtstat

import (
	"sync"
	"sync/atomic"
	"time"
)

// waitQuantile is the single quantile every Stats value tracks. Fixed at
// p99 rather than threaded through as a parameter, since the one call
// site in this module (InstrumentedChan's Send and Recv) wants the same
// number every time: worst-case park latency.
const waitQuantile = 0.99

// waitDesiredIncrements are the P² algorithm's per-observation increments
// to the five markers' desired (idealized) positions, derived from
// waitQuantile per Jain & Chlamtac (1985): the middle marker targets
// waitQuantile itself, the two flanking it the midpoints to 0 and 1.
var waitDesiredIncrements = [5]float64{0, waitQuantile / 2, waitQuantile, (1 + waitQuantile) / 2, 1}

// Stats accumulates counters and a p99 wait-latency estimate for one
// channel or select call site. The zero value is ready to use.
//
// The wait-latency estimate is kept as P² marker state directly on Stats
// (see recordWait/seedMarkers/waitEstimate below) rather than behind a
// separate quantile-estimator type: this Stats value is the only thing
// that ever maintains or reads the markers, so there's no second caller
// for an object boundary to serve.
type Stats struct {
	sends   atomic.Int64
	recvs   atomic.Int64
	closes  atomic.Int64
	blocked atomic.Int64 // count of completed Send/Recv/Select calls folded into the wait estimate

	mu       sync.Mutex
	caseWins map[int]int64

	waitCount int
	waitInit  [5]float64 // first 5 samples, buffered until seedMarkers can run
	waitQ     [5]float64 // marker heights; waitQ[2] is the running p99 estimate
	waitN     [5]int     // marker positions
	waitNP    [5]float64 // desired (idealized) marker positions
}

// RecordSend counts a completed send.
func (s *Stats) RecordSend() { s.sends.Add(1) }

// RecordRecv counts a completed receive.
func (s *Stats) RecordRecv() { s.recvs.Add(1) }

// RecordClose counts a Close call.
func (s *Stats) RecordClose() { s.closes.Add(1) }

// RecordBlocked folds the elapsed time of one completed Send, Recv or
// Select call into the p99 wait-latency estimate, whether or not that
// call actually had to park a goroutine.
func (s *Stats) RecordBlocked(waited time.Duration) {
	s.blocked.Add(1)
	s.mu.Lock()
	s.recordWait(float64(waited))
	s.mu.Unlock()
}

// recordWait feeds one sample into the p99 marker estimator. Callers
// must hold s.mu.
func (s *Stats) recordWait(x float64) {
	s.waitCount++
	if s.waitCount <= 5 {
		s.waitInit[s.waitCount-1] = x
		if s.waitCount == 5 {
			s.seedMarkers()
		}
		return
	}

	var k int
	switch {
	case x < s.waitQ[0]:
		s.waitQ[0] = x
		k = 0
	case x >= s.waitQ[4]:
		s.waitQ[4] = x
		k = 3
	default:
		for k = 0; k < 4; k++ {
			if s.waitQ[k] <= x && x < s.waitQ[k+1] {
				break
			}
		}
	}

	for i := k + 1; i < 5; i++ {
		s.waitN[i]++
	}
	for i := 0; i < 5; i++ {
		s.waitNP[i] += waitDesiredIncrements[i]
	}

	for i := 1; i < 4; i++ {
		d := s.waitNP[i] - float64(s.waitN[i])
		if (d >= 1 && s.waitN[i+1]-s.waitN[i] > 1) || (d <= -1 && s.waitN[i-1]-s.waitN[i] < -1) {
			sign := 1
			if d < 0 {
				sign = -1
			}
			qPrime := p2Parabolic(s.waitQ, s.waitN, i, sign)
			if s.waitQ[i-1] < qPrime && qPrime < s.waitQ[i+1] {
				s.waitQ[i] = qPrime
			} else {
				s.waitQ[i] = p2Linear(s.waitQ, s.waitN, i, sign)
			}
			s.waitN[i] += sign
		}
	}
}

// seedMarkers initializes the five markers from the first five samples,
// once waitCount reaches 5. Callers must hold s.mu.
func (s *Stats) seedMarkers() {
	s.waitQ = s.waitInit
	insertionSort(s.waitQ[:])
	for i := range s.waitN {
		s.waitN[i] = i
	}
	s.waitNP = [5]float64{0, 2 * waitQuantile, 4 * waitQuantile, 2 + 2*waitQuantile, 4}
}

// waitEstimate reports the current p99 estimate and whether any sample
// has been recorded yet. Callers must hold s.mu.
func (s *Stats) waitEstimate() (time.Duration, bool) {
	if s.waitCount == 0 {
		return 0, false
	}
	if s.waitCount < 5 {
		sorted := append([]float64(nil), s.waitInit[:s.waitCount]...)
		insertionSort(sorted)
		idx := int(float64(s.waitCount-1) * waitQuantile)
		if idx >= s.waitCount {
			idx = s.waitCount - 1
		}
		return time.Duration(sorted[idx]), true
	}
	return time.Duration(s.waitQ[2]), true
}

// RecordCaseWin counts a Select call resolved by the case at index idx,
// the raw data behind a fairness check across repeated selects.
func (s *Stats) RecordCaseWin(idx int) {
	s.mu.Lock()
	if s.caseWins == nil {
		s.caseWins = make(map[int]int64, 4)
	}
	s.caseWins[idx]++
	s.mu.Unlock()
}

// Snapshot is a point-in-time copy of a Stats' counters. CaseWins is a
// freshly allocated map (nil if no case win was recorded), so it shares
// nothing with the Stats it was taken from.
type Snapshot struct {
	Sends, Recvs, Closes, Blocked int64
	P99Wait                       time.Duration
	CaseWins                      map[int]int64
}

// Snapshot returns a copy of the current counters, safe to read
// concurrently with further Record calls.
func (s *Stats) Snapshot() Snapshot {
	snap := Snapshot{
		Sends:   s.sends.Load(),
		Recvs:   s.recvs.Load(),
		Closes:  s.closes.Load(),
		Blocked: s.blocked.Load(),
	}
	s.mu.Lock()
	if d, ok := s.waitEstimate(); ok {
		snap.P99Wait = d
	}
	if len(s.caseWins) > 0 {
		snap.CaseWins = make(map[int]int64, len(s.caseWins))
		for k, v := range s.caseWins {
			snap.CaseWins[k] = v
		}
	}
	s.mu.Unlock()
	return snap
}
