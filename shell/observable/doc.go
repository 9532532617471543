// Package observable decorates command and query handlers with metrics, tracing and logging.
//
// The wrappers are generic over the command or query type and the handler's return value, so every
// feature package gets the same instrumentation without repeating it.
package observable
