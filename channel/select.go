package channel

import (
	"github.com/joeycumines/goconc/internal/corert"
	"github.com/joeycumines/goconc/rtstat"
)

// SelectCase is one leg of a Select call, built by SendCase, RecvCase or
// DefaultCase.
type SelectCase struct {
	raw corert.Case
}

// SendCase builds a select leg that sends v on ch. A nil ch makes the
// leg never ready, same as a native select on a nil channel.
func SendCase[T any](ch *Chan[T], v T) SelectCase {
	cs := corert.Case{Dir: corert.DirSend, Value: &v}
	if ch != nil {
		cs.Ch = ch.core
	}
	return SelectCase{raw: cs}
}

// RecvCase builds a select leg that receives from ch into dst. A nil ch
// makes the leg never ready.
func RecvCase[T any](ch *Chan[T], dst *RecvSlot[T]) SelectCase {
	cs := corert.Case{Dir: corert.DirRecv, Value: dst}
	if ch != nil {
		cs.Ch = ch.core
	}
	return SelectCase{raw: cs}
}

// DefaultCase builds the leg that fires when no other case is
// immediately ready. At most one may appear in a Select call.
func DefaultCase() SelectCase {
	return SelectCase{raw: corert.Case{Dir: corert.DirDefault}}
}

// Select blocks until exactly one case is ready (or the default case, if
// present, fires immediately) and returns that case's index. With no
// cases, or only nil-channel cases and no default, it blocks forever.
func Select(cases ...SelectCase) int {
	raw := make([]corert.Case, len(cases))
	for i, c := range cases {
		raw[i] = c.raw
	}
	return corert.Select(raw)
}

// SelectInstrumented behaves like Select but also records which case won
// into stats, the raw data a fairness check (e.g. cmd/chanbench's
// scenarioSelectFairness) is built from.
func SelectInstrumented(stats *rtstat.Stats, cases ...SelectCase) int {
	idx := Select(cases...)
	stats.RecordCaseWin(idx)
	return idx
}
