package correctcopystatus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
	"github.com/AntonStoeckl/library-circulation-go/features/command/correctcopystatus"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper" //nolint:revive
)

func Test_Decide(t *testing.T) {
	testCases := []struct {
		name           string
		from           core.CopyStatus
		target         core.CopyStatus
		wantStatus     core.CopyStatus
		wantIdempotent bool
		wantErr        error
	}{
		{name: "available to damaged", from: core.CopyAvailable, target: core.CopyDamaged, wantStatus: core.CopyDamaged},
		{name: "damaged to available", from: core.CopyDamaged, target: core.CopyAvailable, wantStatus: core.CopyAvailable},
		{name: "disposed to available", from: core.CopyDisposed, target: core.CopyAvailable, wantStatus: core.CopyAvailable},
		{name: "already damaged", from: core.CopyDamaged, target: core.CopyDamaged, wantStatus: core.CopyDamaged, wantIdempotent: true},
		{name: "borrowed cannot be corrected", from: core.CopyBorrowed, target: core.CopyAvailable, wantErr: core.ErrInvalidState},
		{name: "nothing corrects into borrowed", from: core.CopyAvailable, target: core.CopyBorrowed, wantErr: core.ErrInvalidState},
		{name: "disposed to damaged is not allowed", from: core.CopyDisposed, target: core.CopyDamaged, wantErr: core.ErrInvalidState},
		{name: "unknown target", from: core.CopyAvailable, target: "shredded", wantErr: core.ErrInvalidCopyStatus},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			bookCopy := core.Copy{ID: GivenUniqueID(t), Status: tc.from}
			command := correctcopystatus.BuildCommand(bookCopy.ID, tc.target, "", GivenUniqueID(t), FakeClock())

			// act
			decision, err := correctcopystatus.Decide(bookCopy, command)

			// assert
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tc.wantStatus, decision.Copy.Status)
			assert.Equal(t, tc.wantIdempotent, decision.Idempotent)
		})
	}
}
