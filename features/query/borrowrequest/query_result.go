package borrowrequest

import (
	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

// BorrowRequestView represents the query result.
type BorrowRequestView struct {
	Request         core.BorrowRequest
	EffectiveStatus core.RequestStatus
	Fines           []core.Fine
	Outstanding     decimal.Decimal
}
