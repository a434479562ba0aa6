package rtlog

import (
	"bytes"
	"os"
	"testing"
)

func TestDefaultLogger_filtersBelowLevel(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	l := NewDefaultLogger(LevelWarn)
	l.Out = w

	l.Log(build(LevelInfo, `channel`, `should be filtered`, nil))
	l.Log(build(LevelError, `channel`, `should appear`, []EntryOption{WithChanID(7), WithError(nil)}))
	w.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if bytes.Contains([]byte(out), []byte(`should be filtered`)) {
		t.Errorf(`expected filtered entry to be absent, got: %s`, out)
	}
	if !bytes.Contains([]byte(out), []byte(`should appear`)) {
		t.Errorf(`expected logged entry to be present, got: %s`, out)
	}
	if !bytes.Contains([]byte(out), []byte(`chan=7`)) {
		t.Errorf(`expected chan id field, got: %s`, out)
	}
}

func TestNoOpLogger_neverEnabled(t *testing.T) {
	var l NoOpLogger
	for _, lvl := range []Level{LevelDebug, LevelInfo, LevelWarn, LevelError} {
		if l.IsEnabled(lvl) {
			t.Errorf(`NoOpLogger reported enabled for %s`, lvl)
		}
	}
}

func TestSetLogger_restoresNoOpOnNil(t *testing.T) {
	defer SetLogger(nil)

	SetLogger(NewDefaultLogger(LevelDebug))
	if _, ok := current().(NoOpLogger); ok {
		t.Fatal(`expected configured logger, got NoOpLogger`)
	}

	SetLogger(nil)
	if _, ok := current().(NoOpLogger); !ok {
		t.Fatal(`expected NoOpLogger after SetLogger(nil)`)
	}
}
