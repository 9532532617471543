package helper

import (
	"context"
	"log/slog"
	"sync"
)

// LogHandlerSpy is a slog.Handler that captures records, used to test code logging through *slog.Logger.
type LogHandlerSpy struct {
	mu      *sync.Mutex
	records *[]slog.Record
	level   slog.Level
}

// NewLogHandlerSpy creates a LogHandlerSpy capturing records at level and above.
func NewLogHandlerSpy(level slog.Level) *LogHandlerSpy {
	return &LogHandlerSpy{mu: &sync.Mutex{}, records: &[]slog.Record{}, level: level}
}

func (s *LogHandlerSpy) Enabled(_ context.Context, level slog.Level) bool {
	return level >= s.level
}

func (s *LogHandlerSpy) Handle(_ context.Context, record slog.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	*s.records = append(*s.records, record.Clone())

	return nil
}

func (s *LogHandlerSpy) WithAttrs(_ []slog.Attr) slog.Handler {
	return s
}

func (s *LogHandlerSpy) WithGroup(_ string) slog.Handler {
	return s
}

// GetRecords returns a copy of all captured records.
func (s *LogHandlerSpy) GetRecords() []slog.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]slog.Record(nil), *s.records...)
}

// HasLogWithMessage reports whether a record with level and message was captured.
func (s *LogHandlerSpy) HasLogWithMessage(level slog.Level, message string) bool {
	for _, record := range s.GetRecords() {
		if record.Level == level && record.Message == message {
			return true
		}
	}

	return false
}

// HasLogWithAttr reports whether a record with message carries attribute key.
func (s *LogHandlerSpy) HasLogWithAttr(message string, key string) bool {
	for _, record := range s.GetRecords() {
		if record.Message != message {
			continue
		}

		found := false
		record.Attrs(func(attr slog.Attr) bool {
			if attr.Key == key {
				found = true
				return false
			}
			return true
		})

		if found {
			return true
		}
	}

	return false
}
