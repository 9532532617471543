package helper

import (
	"context"
	"slices"
	"sync"
)

// ContextualLogRecord represents one captured log call.
type ContextualLogRecord struct {
	Level   string
	Message string
	Args    []any
}

// ContextualLoggerSpy captures calls to circulation.ContextualLogger and circulation.Logger.
type ContextualLoggerSpy struct {
	mu          sync.Mutex
	records     []ContextualLogRecord
	recordCalls bool
}

// NewContextualLoggerSpy creates a new ContextualLoggerSpy.
func NewContextualLoggerSpy(recordCalls bool) *ContextualLoggerSpy {
	return &ContextualLoggerSpy{recordCalls: recordCalls}
}

func (l *ContextualLoggerSpy) DebugContext(_ context.Context, msg string, args ...any) {
	l.record("debug", msg, args)
}

func (l *ContextualLoggerSpy) InfoContext(_ context.Context, msg string, args ...any) {
	l.record("info", msg, args)
}

func (l *ContextualLoggerSpy) WarnContext(_ context.Context, msg string, args ...any) {
	l.record("warn", msg, args)
}

func (l *ContextualLoggerSpy) ErrorContext(_ context.Context, msg string, args ...any) {
	l.record("error", msg, args)
}

func (l *ContextualLoggerSpy) Debug(msg string, args ...any) { l.record("debug", msg, args) }
func (l *ContextualLoggerSpy) Info(msg string, args ...any)  { l.record("info", msg, args) }
func (l *ContextualLoggerSpy) Warn(msg string, args ...any)  { l.record("warn", msg, args) }
func (l *ContextualLoggerSpy) Error(msg string, args ...any) { l.record("error", msg, args) }

func (l *ContextualLoggerSpy) record(level string, msg string, args []any) {
	if !l.recordCalls {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append(l.records, ContextualLogRecord{Level: level, Message: msg, Args: slices.Clone(args)})
}

// GetRecords returns a copy of all captured records.
func (l *ContextualLoggerSpy) GetRecords() []ContextualLogRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]ContextualLogRecord(nil), l.records...)
}

func (l *ContextualLoggerSpy) HasDebugLog(message string) bool { return l.has("debug", message) }
func (l *ContextualLoggerSpy) HasInfoLog(message string) bool  { return l.has("info", message) }
func (l *ContextualLoggerSpy) HasWarnLog(message string) bool  { return l.has("warn", message) }
func (l *ContextualLoggerSpy) HasErrorLog(message string) bool { return l.has("error", message) }

func (l *ContextualLoggerSpy) has(level string, message string) bool {
	for _, record := range l.GetRecords() {
		if record.Level == level && record.Message == message {
			return true
		}
	}

	return false
}
