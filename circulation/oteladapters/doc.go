// Package oteladapters provides OpenTelemetry implementations of the circulation observability
// interfaces: a contextual logger bridged to log/slog, a tracing collector and a metrics collector.
//
// Wire them into postgresengine.Store and the shell/observable wrappers to get traces, metrics and
// trace-correlated logs without implementing the interfaces yourself.
package oteladapters
