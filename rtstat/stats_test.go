package rtstat

import (
	"testing"
	"time"
)

func TestStats_countersAccumulate(t *testing.T) {
	var s Stats
	s.RecordSend()
	s.RecordSend()
	s.RecordRecv()
	s.RecordClose()

	snap := s.Snapshot()
	if snap.Sends != 2 || snap.Recvs != 1 || snap.Closes != 1 {
		t.Fatalf(`unexpected snapshot: %+v`, snap)
	}
}

func TestStats_caseWinsTracked(t *testing.T) {
	var s Stats
	s.RecordCaseWin(0)
	s.RecordCaseWin(0)
	s.RecordCaseWin(2)

	snap := s.Snapshot()
	if snap.CaseWins[0] != 2 || snap.CaseWins[2] != 1 {
		t.Fatalf(`unexpected case wins: %+v`, snap.CaseWins)
	}
}

func TestStats_p99WaitConverges(t *testing.T) {
	var s Stats
	for i := 0; i < 2000; i++ {
		s.RecordBlocked(time.Millisecond)
	}
	s.RecordBlocked(time.Second) // one outlier shouldn't dominate p99

	snap := s.Snapshot()
	if snap.P99Wait < time.Millisecond || snap.P99Wait > time.Second {
		t.Fatalf(`p99 estimate out of expected range: %v`, snap.P99Wait)
	}
	if snap.Blocked != 2001 {
		t.Fatalf(`want 2001 blocked, got %d`, snap.Blocked)
	}
}

func TestStats_p99WaitFewSamplesFallsBackToSortedPick(t *testing.T) {
	var s Stats
	s.RecordBlocked(3)
	s.RecordBlocked(1)
	s.RecordBlocked(2)

	snap := s.Snapshot()
	if snap.P99Wait != 2 {
		t.Fatalf(`want 2ns picked from {1,2,3} with fewer than 5 samples, got %v`, snap.P99Wait)
	}
}

func TestStats_p99WaitZeroUntilFirstSample(t *testing.T) {
	var s Stats
	if got := s.Snapshot().P99Wait; got != 0 {
		t.Fatalf(`want 0 before any RecordBlocked call, got %v`, got)
	}
}
