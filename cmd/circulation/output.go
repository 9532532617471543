package main

import (
	"errors"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
	"github.com/AntonStoeckl/library-circulation-go/shell/config"
)

// Exit codes, one per error class.
const (
	ExitSuccess          = 0
	ExitFailure          = 1 // unexpected failure
	ExitUsage            = 2 // invalid flags or configuration
	ExitNotFound         = 3
	ExitInvalidState     = 4
	ExitConflict         = 5
	ExitRefused          = 6 // limit exceeded, no available copy, card not valid
	ExitInvalidOperation = 7 // invalid operation, not permitted
	ExitUnavailable      = 8 // store unreachable
)

const (
	formatText = "text"
	formatJSON = "json"

	statusOK    = "ok"
	statusError = "error"
)

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{formatText, formatJSON}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ExitError carries an explicit exit code together with the underlying error.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps err with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// ExitCode maps err onto the exit code of its error class.
func ExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, circulation.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, core.ErrConflict):
		return ExitConflict
	case errors.Is(err, core.ErrInvalidState):
		return ExitInvalidState
	case errors.Is(err, core.ErrLimitExceeded),
		errors.Is(err, core.ErrNoAvailableCopy),
		errors.Is(err, core.ErrCardInvalid):
		return ExitRefused
	case errors.Is(err, core.ErrInvalidOperation), errors.Is(err, core.ErrNotPermitted):
		return ExitInvalidOperation
	case errors.Is(err, config.ErrInvalidConfig), errors.Is(err, errInvalidFlag):
		return ExitUsage
	default:
		return ExitFailure
	}
}

// ErrorCode is the machine readable error class reported in JSON output.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, circulation.ErrNotFound):
		return "not_found"
	case errors.Is(err, circulation.ErrConcurrencyConflict):
		return "concurrency_conflict"
	case errors.Is(err, core.ErrConflict):
		return "conflict"
	case errors.Is(err, core.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, core.ErrLimitExceeded):
		return "limit_exceeded"
	case errors.Is(err, core.ErrNoAvailableCopy):
		return "no_available_copy"
	case errors.Is(err, core.ErrCardInvalid):
		return "card_invalid"
	case errors.Is(err, core.ErrInvalidOperation):
		return "invalid_operation"
	case errors.Is(err, core.ErrNotPermitted):
		return "not_permitted"
	case errors.Is(err, config.ErrInvalidConfig), errors.Is(err, errInvalidFlag):
		return "usage"
	default:
		return "internal"
	}
}

// Response is the JSON envelope of every CLI output.
type Response struct {
	Status     string         `json:"status"`
	Idempotent bool           `json:"idempotent,omitempty"`
	Data       any            `json:"data,omitempty"`
	Error      *ResponseError `json:"error,omitempty"`
}

// ResponseError describes a failed operation.
type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// OutputFormatter writes results as indented text or as a JSON envelope.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// Success writes the result of an operation.
func (f OutputFormatter) Success(data any, idempotent bool) error {
	if f.Format == formatJSON {
		return json.NewEncoder(f.Writer).Encode(Response{Status: statusOK, Idempotent: idempotent, Data: data})
	}

	if idempotent {
		if _, err := fmt.Fprintln(f.Writer, "no change, the operation was already applied"); err != nil {
			return err
		}
	}

	if data == nil {
		return nil
	}

	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(f.Writer, string(encoded))

	return err
}

// Error writes a failed operation.
func (f OutputFormatter) Error(err error) error {
	if f.Format == formatJSON {
		return json.NewEncoder(f.Writer).Encode(Response{
			Status: statusError,
			Error:  &ResponseError{Code: ErrorCode(err), Message: err.Error()},
		})
	}

	_, writeErr := fmt.Fprintf(f.Writer, "Error [%s]: %v\n", ErrorCode(err), err)

	return writeErr
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}

	return false
}
