package rtlog

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Level is the severity of a log Entry.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int32(l))
	}
}

// Entry is one structured log record.
type Entry struct {
	Level     Level
	Category  string // "channel", "select", "context", "timer", "pipe", "waitgroup"
	ChanID    int64
	CaseIndex int
	Fields    map[string]any
	Message   string
	Err       error
	Timestamp time.Time
}

// Logger receives log entries. IsEnabled lets a caller skip building an
// Entry entirely when the level wouldn't be logged anyway.
type Logger interface {
	Log(entry Entry)
	IsEnabled(level Level) bool
}

// NoOpLogger discards everything; it is the default when no logger has
// been configured.
type NoOpLogger struct{}

func (NoOpLogger) Log(Entry)            {}
func (NoOpLogger) IsEnabled(Level) bool { return false }

var global struct {
	sync.RWMutex
	logger Logger
}

// SetLogger installs the package-level logger used by the convenience
// functions Debug/Info/Warn/Error. A nil logger restores the no-op
// default.
func SetLogger(l Logger) {
	global.Lock()
	defer global.Unlock()
	global.logger = l
}

func current() Logger {
	global.RLock()
	defer global.RUnlock()
	if global.logger != nil {
		return global.logger
	}
	return NoOpLogger{}
}

// DefaultLogger writes entries as single-line text to Out, defaulting to
// os.Stderr.
type DefaultLogger struct {
	level atomic.Int32
	mu    sync.Mutex
	Out   *os.File
}

// NewDefaultLogger creates a logger that writes to os.Stderr, emitting
// entries at level and above.
func NewDefaultLogger(level Level) *DefaultLogger {
	l := &DefaultLogger{Out: os.Stderr}
	l.level.Store(int32(level))
	return l
}

func (l *DefaultLogger) SetLevel(level Level) { l.level.Store(int32(level)) }

func (l *DefaultLogger) IsEnabled(level Level) bool {
	return int32(level) >= l.level.Load()
}

func (l *DefaultLogger) Log(entry Entry) {
	if !l.IsEnabled(entry.Level) {
		return
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.Out, "%s %-5s [%s] %s", entry.Timestamp.Format("15:04:05.000"), entry.Level, entry.Category, entry.Message)
	if entry.ChanID != 0 {
		fmt.Fprintf(l.Out, " chan=%d", entry.ChanID)
	}
	if entry.CaseIndex != 0 {
		fmt.Fprintf(l.Out, " case=%d", entry.CaseIndex)
	}
	for k, v := range entry.Fields {
		fmt.Fprintf(l.Out, " %s=%v", k, v)
	}
	if entry.Err != nil {
		fmt.Fprintf(l.Out, " err=%v", entry.Err)
	}
	fmt.Fprintln(l.Out)
}

// EntryOption customizes an Entry built by one of the With* helpers.
type EntryOption func(*Entry)

func WithChanID(id int64) EntryOption     { return func(e *Entry) { e.ChanID = id } }
func WithCaseIndex(i int) EntryOption     { return func(e *Entry) { e.CaseIndex = i } }
func WithError(err error) EntryOption     { return func(e *Entry) { e.Err = err } }
func WithField(k string, v any) EntryOption {
	return func(e *Entry) {
		if e.Fields == nil {
			e.Fields = make(map[string]any, 1)
		}
		e.Fields[k] = v
	}
}

func build(level Level, category, message string, opts []EntryOption) Entry {
	e := Entry{Level: level, Category: category, Message: message, Timestamp: time.Now()}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// Debug, Info, Warn and Error log through the package-level logger set
// by SetLogger, skipping entry construction entirely if that level isn't
// enabled.
func Debug(category, message string, opts ...EntryOption) { logAt(LevelDebug, category, message, opts) }
func Info(category, message string, opts ...EntryOption)  { logAt(LevelInfo, category, message, opts) }
func Warn(category, message string, opts ...EntryOption)  { logAt(LevelWarn, category, message, opts) }
func Error(category, message string, opts ...EntryOption) { logAt(LevelError, category, message, opts) }

func logAt(level Level, category, message string, opts []EntryOption) {
	l := current()
	if !l.IsEnabled(level) {
		return
	}
	l.Log(build(level, category, message, opts))
}
