package channel

import (
	"runtime"
	"testing"
	"time"
)

// checkNumGoroutines snapshots the goroutine count and returns a closure
// that fails t if the count hasn't returned to the snapshot within
// timeout, polling every few milliseconds.
func checkNumGoroutines(timeout time.Duration) func(t *testing.T) {
	before := runtime.NumGoroutine()
	return func(t *testing.T) {
		t.Helper()
		deadline := time.Now().Add(timeout)
		for {
			after := runtime.NumGoroutine()
			if after <= before {
				return
			}
			if time.Now().After(deadline) {
				t.Errorf(`goroutine leak: before=%d after=%d`, before, after)
				return
			}
			time.Sleep(time.Millisecond * 5)
		}
	}
}
