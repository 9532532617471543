package schedule_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
	"github.com/AntonStoeckl/library-circulation-go/circulation/memengine"
	"github.com/AntonStoeckl/library-circulation-go/features/command/markoverdue"
	"github.com/AntonStoeckl/library-circulation-go/shell"
	"github.com/AntonStoeckl/library-circulation-go/shell/schedule"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/fixtures" //nolint:revive
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper"   //nolint:revive
)

var errSweepBroken = errors.New("sweep broken")

type failingSweepHandler struct{}

func (failingSweepHandler) Handle(context.Context, markoverdue.Command) (markoverdue.Result, shell.HandlerResult, error) {
	return markoverdue.Result{}, shell.HandlerResult{}, errSweepBroken
}

func Test_Sweeper_RunOnce_MarksOverdueAndCountsTransitions(t *testing.T) {
	// arrange
	store := memengine.NewStore()
	card := GivenCard(t, store, FakeClock().Add(-Days(60)))
	editionID := GivenUniqueID(t)
	late := GivenBorrowRequest(t, store, card, core.StatusBorrowed,
		FakeClock().Add(-Days(20)), FakeClock().Add(-Days(6)), GivenCopy(t, store, editionID, 1, 50000))
	GivenBorrowRequest(t, store, card, core.StatusBorrowed,
		FakeClock().Add(-Days(18)), FakeClock().Add(-Days(4)), GivenCopy(t, store, editionID, 2, 50000))
	metrics := NewMetricsCollectorSpy(true)
	logger := NewContextualLoggerSpy(true)
	sweeper, err := schedule.NewSweeper(
		"@every 15m",
		markoverdue.NewCommandHandler(store, nil),
		schedule.WithClock(FakeClock),
		schedule.WithMetrics(metrics),
		schedule.WithContextualLogging(logger),
	)
	require.NoError(t, err)

	// act
	result, err := sweeper.RunOnce(context.Background())

	// assert
	assert.NoError(t, err)
	assert.Len(t, result.Transitioned, 2)
	assert.Equal(t, core.StatusOverdue, RequestOf(t, store, late.ID).Status)
	assert.Equal(t, 2, metrics.CountCounterRecordsForMetric(shell.OverdueSweepTransitionsMetric))
	assert.True(t, logger.HasInfoLog("overdue sweep completed"))
}

func Test_Sweeper_RunOnce_LogsFailure(t *testing.T) {
	// arrange
	logger := NewContextualLoggerSpy(true)
	sweeper, err := schedule.NewSweeper("@every 15m", failingSweepHandler{}, schedule.WithContextualLogging(logger))
	require.NoError(t, err)

	// act
	_, err = sweeper.RunOnce(context.Background())

	// assert
	assert.ErrorIs(t, err, errSweepBroken)
	assert.True(t, logger.HasErrorLog("overdue sweep failed"))
}

func Test_NewSweeper_Fails_WhenScheduleInvalid(t *testing.T) {
	// act
	_, err := schedule.NewSweeper("every now and then", markoverdue.NewCommandHandler(memengine.NewStore(), nil))

	// assert
	assert.ErrorIs(t, err, schedule.ErrInvalidSchedule)
}

func Test_Sweeper_StartAndStop(t *testing.T) {
	// arrange
	sweeper, err := schedule.NewSweeper("@every 1h", markoverdue.NewCommandHandler(memengine.NewStore(), nil))
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// act
	sweeper.Start()
	err = sweeper.Stop(ctx)

	// assert
	assert.NoError(t, err)
}
