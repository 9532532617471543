// Package shell is the imperative shell around the circulation core.
//
// It holds what every command and query handler shares: the handler contracts, retry with
// exponential backoff for optimistic concurrency conflicts, the HandlerResult reported to the
// observability wrappers, journal entry construction and the logging overdue notifier.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'infrastructure' layer.
package shell
