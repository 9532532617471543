package helper

import (
	"context"
	"maps"
	"sync"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
)

// SpySpanContext is the span handed out by TracingCollectorSpy.
type SpySpanContext struct {
	mu         sync.Mutex
	name       string
	status     string
	attributes map[string]string
}

func (c *SpySpanContext) SetStatus(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status = status
}

func (c *SpySpanContext) AddAttribute(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.attributes[key] = value
}

// SpySpanRecord represents one finished span.
type SpySpanRecord struct {
	Name            string
	Status          string
	StartAttributes map[string]string
	EndAttributes   map[string]string
}

// TracingCollectorSpy captures spans for testing.
type TracingCollectorSpy struct {
	mu          sync.Mutex
	records     []SpySpanRecord
	started     map[*SpySpanContext]map[string]string
	recordCalls bool
}

// NewTracingCollectorSpy creates a new TracingCollectorSpy.
func NewTracingCollectorSpy(recordCalls bool) *TracingCollectorSpy {
	return &TracingCollectorSpy{
		started:     make(map[*SpySpanContext]map[string]string),
		recordCalls: recordCalls,
	}
}

func (s *TracingCollectorSpy) StartSpan(
	ctx context.Context,
	name string,
	attrs map[string]string,
) (context.Context, circulation.SpanContext) {
	span := &SpySpanContext{name: name, attributes: make(map[string]string)}

	if s.recordCalls {
		s.mu.Lock()
		s.started[span] = maps.Clone(attrs)
		s.mu.Unlock()
	}

	return ctx, span
}

func (s *TracingCollectorSpy) FinishSpan(spanCtx circulation.SpanContext, status string, attrs map[string]string) {
	if !s.recordCalls {
		return
	}

	span, ok := spanCtx.(*SpySpanContext)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, SpySpanRecord{
		Name:            span.name,
		Status:          status,
		StartAttributes: s.started[span],
		EndAttributes:   maps.Clone(attrs),
	})
	delete(s.started, span)
}

// GetSpanRecords returns a copy of all finished spans.
func (s *TracingCollectorSpy) GetSpanRecords() []SpySpanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpySpanRecord(nil), s.records...)
}

// GetSpanRecordCount returns the number of finished spans.
func (s *TracingCollectorSpy) GetSpanRecordCount() int {
	return len(s.GetSpanRecords())
}

// HasSpanRecordForName starts a fluent chain to check a finished span.
func (s *TracingCollectorSpy) HasSpanRecordForName(name string) *SpanRecordMatcher {
	return &SpanRecordMatcher{records: s.GetSpanRecords(), name: name, startAttrs: map[string]string{}}
}

// SpanRecordMatcher provides a fluent interface for checking span records.
type SpanRecordMatcher struct {
	records    []SpySpanRecord
	name       string
	status     string
	startAttrs map[string]string
}

// WithStatus adds the expected span status.
func (m *SpanRecordMatcher) WithStatus(status string) *SpanRecordMatcher {
	m.status = status
	return m
}

// WithStartAttribute adds an expected attribute given at span start.
func (m *SpanRecordMatcher) WithStartAttribute(key, value string) *SpanRecordMatcher {
	m.startAttrs[key] = value
	return m
}

// Assert reports whether a matching span exists.
func (m *SpanRecordMatcher) Assert() bool {
	for _, record := range m.records {
		if record.Name != m.name || (m.status != "" && record.Status != m.status) {
			continue
		}

		matches := true
		for key, value := range m.startAttrs {
			if record.StartAttributes[key] != value {
				matches = false
				break
			}
		}

		if matches {
			return true
		}
	}

	return false
}
