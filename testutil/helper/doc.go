// Package helper provides test doubles for the observability interfaces and small test utilities.
//
// The spies capture metrics, spans and log records so tests can assert on the instrumentation of
// the circulation store and of the command and query handlers.
package helper
