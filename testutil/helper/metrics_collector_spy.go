package helper

import (
	"context"
	"maps"
	"sync"
	"time"
)

// MetricsCollectorSpy captures metrics calls for testing.
// It implements circulation.ContextualMetricsCollector.
type MetricsCollectorSpy struct {
	mu              sync.Mutex
	durationRecords []SpyMetricRecord
	counterRecords  []SpyMetricRecord
	valueRecords    []SpyMetricRecord
	recordCalls     bool
}

// SpyMetricRecord represents one recorded metric call.
type SpyMetricRecord struct {
	Metric   string
	Duration time.Duration
	Value    float64
	Labels   map[string]string
}

// NewMetricsCollectorSpy creates a new MetricsCollectorSpy.
// Set recordCalls to true to capture all metrics calls for inspection in tests.
func NewMetricsCollectorSpy(recordCalls bool) *MetricsCollectorSpy {
	return &MetricsCollectorSpy{recordCalls: recordCalls}
}

func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.record(&s.durationRecords, SpyMetricRecord{Metric: metric, Duration: duration, Labels: labels})
}

func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.record(&s.counterRecords, SpyMetricRecord{Metric: metric, Labels: labels})
}

func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.record(&s.valueRecords, SpyMetricRecord{Metric: metric, Value: value, Labels: labels})
}

func (s *MetricsCollectorSpy) RecordDurationContext(
	_ context.Context,
	metric string,
	duration time.Duration,
	labels map[string]string,
) {
	s.RecordDuration(metric, duration, labels)
}

func (s *MetricsCollectorSpy) IncrementCounterContext(_ context.Context, metric string, labels map[string]string) {
	s.IncrementCounter(metric, labels)
}

func (s *MetricsCollectorSpy) RecordValueContext(_ context.Context, metric string, value float64, labels map[string]string) {
	s.RecordValue(metric, value, labels)
}

func (s *MetricsCollectorSpy) record(records *[]SpyMetricRecord, record SpyMetricRecord) {
	if !s.recordCalls {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record.Labels = maps.Clone(record.Labels)
	*records = append(*records, record)
}

// GetCounterRecords returns a copy of all captured counter records.
func (s *MetricsCollectorSpy) GetCounterRecords() []SpyMetricRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpyMetricRecord(nil), s.counterRecords...)
}

// GetDurationRecords returns a copy of all captured duration records.
func (s *MetricsCollectorSpy) GetDurationRecords() []SpyMetricRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpyMetricRecord(nil), s.durationRecords...)
}

// HasCounterRecordForMetric starts a fluent chain to check a counter record.
func (s *MetricsCollectorSpy) HasCounterRecordForMetric(metric string) *MetricRecordMatcher {
	return &MetricRecordMatcher{records: s.GetCounterRecords(), metric: metric, labels: map[string]string{}}
}

// HasDurationRecordForMetric starts a fluent chain to check a duration record.
func (s *MetricsCollectorSpy) HasDurationRecordForMetric(metric string) *MetricRecordMatcher {
	return &MetricRecordMatcher{records: s.GetDurationRecords(), metric: metric, labels: map[string]string{}}
}

// CountCounterRecordsForMetric counts captured counter increments of metric.
func (s *MetricsCollectorSpy) CountCounterRecordsForMetric(metric string) int {
	count := 0
	for _, record := range s.GetCounterRecords() {
		if record.Metric == metric {
			count++
		}
	}

	return count
}

// MetricRecordMatcher provides a fluent interface for checking metric records.
// Assert succeeds when any record of the metric carries all expected labels.
type MetricRecordMatcher struct {
	records []SpyMetricRecord
	metric  string
	labels  map[string]string
}

// WithLabel adds an expected label.
func (m *MetricRecordMatcher) WithLabel(key, value string) *MetricRecordMatcher {
	m.labels[key] = value
	return m
}

// WithStatus adds an expected status label.
func (m *MetricRecordMatcher) WithStatus(status string) *MetricRecordMatcher {
	return m.WithLabel("status", status)
}

// Assert reports whether a matching record exists.
func (m *MetricRecordMatcher) Assert() bool {
	for _, record := range m.records {
		if record.Metric != m.metric {
			continue
		}

		matches := true
		for key, value := range m.labels {
			if record.Labels[key] != value {
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
