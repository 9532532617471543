package shell

import "time"

// HandlerResult is what a command handler reports besides its result and error:
// whether the call changed nothing, and how the retry loop went.
type HandlerResult struct {
	Idempotent bool

	// RetryAttempts counts every call of the retried function, so 1 means no retry happened.
	RetryAttempts    int
	TotalRetryDelay  time.Duration
	LastErrorType    string
	RetriesExhausted bool
}

func NewSuccessResult(retryMetrics RetryMetrics) HandlerResult {
	return retryMetrics.handlerResult(false)
}

// NewIdempotentResult marks a call that found the target state already in place.
func NewIdempotentResult(retryMetrics RetryMetrics) HandlerResult {
	return retryMetrics.handlerResult(true)
}

// NewErrorResult keeps the retry metadata of a failed call.
func NewErrorResult(retryMetrics RetryMetrics) HandlerResult {
	return retryMetrics.handlerResult(false)
}

func (m RetryMetrics) handlerResult(idempotent bool) HandlerResult {
	result := HandlerResult{Idempotent: idempotent}
	result.RetryAttempts = m.Attempts
	result.TotalRetryDelay = m.TotalDelay
	result.LastErrorType = m.LastErrorType
	result.RetriesExhausted = m.RetriesExhausted

	return result
}
