package shell

import (
	"context"
	"time"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

const logMsgBorrowRequestOverdue = "borrow request is overdue"

// LoggingNotifier is a circulation.OverdueNotifier that only logs.
// Real delivery (email, push) is plugged in by the embedding application.
type LoggingNotifier struct {
	logger           Logger
	contextualLogger ContextualLogger
}

// NewLoggingNotifier creates a LoggingNotifier. Either logger may be nil.
func NewLoggingNotifier(logger Logger, contextualLogger ContextualLogger) LoggingNotifier {
	return LoggingNotifier{logger: logger, contextualLogger: contextualLogger}
}

// NotifyOverdue logs the overdue request at warn level.
func (n LoggingNotifier) NotifyOverdue(ctx context.Context, request core.BorrowRequest) error {
	LogWarn(ctx, n.logger, n.contextualLogger, logMsgBorrowRequestOverdue,
		LogAttrRequestID, request.ID.String(),
		LogAttrCardID, request.CardID.String(),
		LogAttrDueDate, request.DueDate.Format(time.RFC3339),
	)

	return nil
}

var _ circulation.OverdueNotifier = LoggingNotifier{}
