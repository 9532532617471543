package main

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
	"github.com/AntonStoeckl/library-circulation-go/circulation/memengine"
	"github.com/AntonStoeckl/library-circulation-go/shell/config"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/fixtures" //nolint:revive
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper"   //nolint:revive
)

func testRootOptions(store circulation.Store) *RootOptions {
	return &RootOptions{
		loadConfig: func(string) (config.Config, error) {
			return config.FromLookup(func(string) (string, bool) { return "", false })
		},
		openStore: func(context.Context, *RootOptions) (circulation.Store, func(), error) {
			return store, func() {}, nil
		},
		clock:  FakeClock,
		stderr: io.Discard,
	}
}

func executeCLI(t *testing.T, opts *RootOptions, args ...string) (string, int) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := newRootCommand(opts)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	code := execute(context.Background(), cmd, opts)

	return stdout.String() + stderr.String(), code
}

func decodeResponse[T any](t *testing.T, output string) (string, T, *ResponseError) {
	t.Helper()

	var response struct {
		Status string         `json:"status"`
		Data   T              `json:"data"`
		Error  *ResponseError `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &response), output)

	return response.Status, response.Data, response.Error
}

func Test_RootCommand_HasAllSubcommands(t *testing.T) {
	cmd := NewRootCommand()

	for _, path := range [][]string{
		{"schema", "apply"},
		{"card", "register"}, {"card", "lock"}, {"card", "unlock"}, {"card", "renew"},
		{"deposit", "add"}, {"deposit", "refund"}, {"deposit", "balance"},
		{"copy", "add"}, {"copy", "correct"},
		{"request", "create"}, {"request", "approve"}, {"request", "reject"}, {"request", "cancel"},
		{"request", "issue"}, {"request", "extend"}, {"request", "reallocate"}, {"request", "return"},
		{"request", "show"},
		{"fine", "pay"},
		{"overdue"},
		{"sweep", "run"}, {"sweep", "serve"},
	} {
		found, _, err := cmd.Find(path)
		require.NoError(t, err, "command %v should exist", path)
		assert.Equal(t, path[len(path)-1], found.Name())
	}
}

func Test_RootCommand_GlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, formatText, formatFlag.DefValue)
}

func Test_CLI_RejectsUnknownFormat(t *testing.T) {
	// arrange
	opts := testRootOptions(memengine.NewStore())

	// act
	output, code := executeCLI(t, opts, "--format", "yaml", "overdue")

	// assert
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, output, "usage")
}

func Test_CLI_RejectsMalformedUUIDFlag(t *testing.T) {
	opts := testRootOptions(memengine.NewStore())

	_, code := executeCLI(t, opts, "request", "issue", GivenUniqueID(t).String(), "--staff", "not-a-uuid")

	assert.Equal(t, ExitUsage, code)
}

func Test_CLI_CardRegister_PrintsTheCard(t *testing.T) {
	// arrange
	store := memengine.NewStore()
	opts := testRootOptions(store)
	readerID := GivenUniqueID(t)

	// act
	output, code := executeCLI(t, opts, "--format", "json",
		"card", "register", "--reader", readerID.String(), "--staff", GivenUniqueID(t).String(), "--deposit", "250000")

	// assert
	require.Equal(t, ExitSuccess, code, output)

	status, card, _ := decodeResponse[core.Card](t, output)
	assert.Equal(t, statusOK, status)
	assert.Equal(t, readerID, card.ReaderID)
	assert.Equal(t, core.CardActive, card.Status)
	assert.Equal(t, "250000", CardOf(t, store, card.ID).DepositAmount.String())
}

func Test_CLI_RequestIssue_HandsOutTheCopies(t *testing.T) {
	// arrange
	store := memengine.NewStore()
	opts := testRootOptions(store)
	now := FakeClock()
	card := GivenCard(t, store, now.Add(-Days(30)))
	bookCopy := GivenCopy(t, store, GivenUniqueID(t), 1, 95000)
	request := GivenBorrowRequest(t, store, card, core.StatusApproved, now.Add(-Days(1)), now.Add(Days(13)), bookCopy)

	// act
	output, code := executeCLI(t, opts, "request", "issue", request.ID.String(), "--staff", GivenUniqueID(t).String())

	// assert
	require.Equal(t, ExitSuccess, code, output)
	assert.Equal(t, core.StatusBorrowed, RequestOf(t, store, request.ID).Status)
	assert.Equal(t, core.CopyBorrowed, CopyOf(t, store, bookCopy.ID).Status)
}

func Test_CLI_RequestIssue_ReportsNotFound(t *testing.T) {
	// arrange
	opts := testRootOptions(memengine.NewStore())

	// act
	output, code := executeCLI(t, opts, "--format", "json",
		"request", "issue", GivenUniqueID(t).String(), "--staff", GivenUniqueID(t).String())

	// assert
	assert.Equal(t, ExitNotFound, code)

	status, _, responseErr := decodeResponse[any](t, output)
	assert.Equal(t, statusError, status)
	require.NotNil(t, responseErr)
	assert.Equal(t, "not_found", responseErr.Code)
}

func Test_CLI_RequestReturn_AssessesTheOverdueFine(t *testing.T) {
	// arrange
	store := memengine.NewStore()
	opts := testRootOptions(store)
	now := FakeClock()
	card := GivenCard(t, store, now.Add(-Days(60)))
	bookCopy := GivenCopy(t, store, GivenUniqueID(t), 1, 100000)
	request := GivenBorrowRequest(t, store, card, core.StatusBorrowed, now.Add(-Days(20)), now.Add(-Days(3)), bookCopy)

	// act
	output, code := executeCLI(t, opts, "request", "return", request.ID.String(),
		"--staff", GivenUniqueID(t).String(), "--item", bookCopy.ID.String()+":normal")

	// assert
	require.Equal(t, ExitSuccess, code, output)
	assert.Equal(t, core.StatusReturned, RequestOf(t, store, request.ID).Status)
	assert.Len(t, FinesOf(t, store, request.ID), 1)
}

func Test_CLI_DepositRefund_AboveBalance_IsAnInvalidOperation(t *testing.T) {
	// arrange
	store := memengine.NewStore()
	opts := testRootOptions(store)
	card := GivenCard(t, store, FakeClock())

	// act
	_, code := executeCLI(t, opts, "deposit", "refund", card.ID.String(),
		"--amount", "999999999", "--staff", GivenUniqueID(t).String())

	// assert
	assert.Equal(t, ExitInvalidOperation, code)
}

func Test_CLI_SweepRun_MarksOverdueLoans(t *testing.T) {
	// arrange
	store := memengine.NewStore()
	opts := testRootOptions(store)
	now := FakeClock()
	card := GivenCard(t, store, now.Add(-Days(60)))
	late := GivenBorrowRequest(t, store, card, core.StatusBorrowed, now.Add(-Days(20)), now.Add(-Days(3)),
		GivenCopy(t, store, GivenUniqueID(t), 1, 95000))
	onTime := GivenBorrowRequest(t, store, card, core.StatusBorrowed, now, now.Add(Days(14)),
		GivenCopy(t, store, GivenUniqueID(t), 1, 95000))

	// act
	output, code := executeCLI(t, opts, "sweep", "run")

	// assert
	require.Equal(t, ExitSuccess, code, output)
	assert.Equal(t, core.StatusOverdue, RequestOf(t, store, late.ID).Status)
	assert.Equal(t, core.StatusBorrowed, RequestOf(t, store, onTime.ID).Status)
}

func Test_CLI_SchemaApply_Fails_When_StoreHasNoSchema(t *testing.T) {
	opts := testRootOptions(memengine.NewStore())

	_, code := executeCLI(t, opts, "schema", "apply")

	assert.Equal(t, ExitUsage, code)
}

func Test_CLI_RoundTrip_CreateApproveIssueReturn(t *testing.T) {
	// arrange
	store := memengine.NewStore()
	opts := testRootOptions(store)
	staffID := GivenUniqueID(t).String()
	requestID := GivenUniqueID(t)
	editionID := GivenUniqueID(t)
	card := GivenCard(t, store, FakeClock().Add(-Days(30)))
	bookCopy := GivenCopy(t, store, editionID, 1, 95000)

	// act
	steps := [][]string{
		{"request", "create", "--id", requestID.String(), "--card", card.ID.String(),
			"--edition", editionID.String(), "--actor", staffID, "--role", "staff"},
		{"request", "approve", requestID.String(), "--staff", staffID},
		{"request", "issue", requestID.String(), "--staff", staffID},
		{"request", "return", requestID.String(), "--staff", staffID, "--item", bookCopy.ID.String()},
	}

	for _, args := range steps {
		output, code := executeCLI(t, opts, args...)
		require.Equal(t, ExitSuccess, code, "%v: %s", args, output)
	}

	// assert
	assert.Equal(t, core.StatusReturned, RequestOf(t, store, requestID).Status)
	assert.Equal(t, core.CopyAvailable, CopyOf(t, store, bookCopy.ID).Status)
	assert.Empty(t, FinesOf(t, store, requestID))
}
