package observable

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-go/shell"
)

// instruments holds the optional collectors a wrapper reports to. Each may be nil.
type instruments struct {
	metrics          shell.MetricsCollector
	tracing          shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// stopwatch measures one handler call.
type stopwatch time.Time

func startStopwatch() stopwatch {
	return stopwatch(time.Now())
}

func (s stopwatch) elapsed() time.Duration {
	return time.Since(time.Time(s))
}
