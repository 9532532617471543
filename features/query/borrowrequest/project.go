package borrowrequest

import (
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

// Project combines a request with its fines.
func Project(request core.BorrowRequest, fines []core.Fine, query Query) BorrowRequestView {
	return BorrowRequestView{
		Request:         request,
		EffectiveStatus: request.EffectiveStatus(query.Now),
		Fines:           fines,
		Outstanding:     core.OutstandingAmount(fines),
	}
}
