package borrowrequest_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
	"github.com/AntonStoeckl/library-circulation-go/circulation/memengine"
	"github.com/AntonStoeckl/library-circulation-go/features/query/borrowrequest"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/fixtures" //nolint:revive
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper"   //nolint:revive
)

func Test_QueryHandler_Handle_ReturnsRequestWithFines(t *testing.T) {
	// arrange
	store := memengine.NewStore()
	handler := borrowrequest.NewQueryHandler(store)
	card := GivenCard(t, store, FakeClock().Add(-Days(60)))
	bookCopy := GivenCopy(t, store, GivenUniqueID(t), 1, 95000)
	request := GivenBorrowRequest(t, store, card, core.StatusBorrowed,
		FakeClock().Add(-Days(20)), FakeClock().Add(-Days(3)), bookCopy)
	GivenFine(t, store, request, bookCopy.ID, 14250, FakeClock())

	// act
	view, err := handler.Handle(context.Background(), borrowrequest.BuildQuery(request.ID, FakeClock()))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, request.ID, view.Request.ID)
	assert.Equal(t, core.StatusBorrowed, view.Request.Status)
	assert.Equal(t, core.StatusOverdue, view.EffectiveStatus)
	assert.Len(t, view.Fines, 1)
	assert.True(t, decimal.NewFromInt(14250).Equal(view.Outstanding), "got %s", view.Outstanding)
}

func Test_QueryHandler_Handle_Error_WhenRequestUnknown(t *testing.T) {
	// arrange
	handler := borrowrequest.NewQueryHandler(memengine.NewStore())

	// act
	_, err := handler.Handle(context.Background(), borrowrequest.BuildQuery(GivenUniqueID(t), FakeClock()))

	// assert
	assert.ErrorIs(t, err, circulation.ErrNotFound)
}
