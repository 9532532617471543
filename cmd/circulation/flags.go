package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
	"github.com/AntonStoeckl/library-circulation-go/features/command/returnbooks"
)

var errInvalidFlag = errors.New("invalid flag value")

// uuidValue is a flag holding a UUID.
type uuidValue struct {
	id  uuid.UUID
	set bool
}

func (v *uuidValue) String() string {
	if !v.set {
		return ""
	}

	return v.id.String()
}

func (v *uuidValue) Set(s string) error {
	id, err := uuid.Parse(s)
	if err != nil {
		return err
	}

	v.id, v.set = id, true

	return nil
}

func (v *uuidValue) Type() string { return "uuid" }

// decimalValue is a flag holding an exact amount.
type decimalValue struct {
	amount decimal.Decimal
	set    bool
}

func (v *decimalValue) String() string {
	if !v.set {
		return ""
	}

	return v.amount.String()
}

func (v *decimalValue) Set(s string) error {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}

	v.amount, v.set = amount, true

	return nil
}

func (v *decimalValue) Type() string { return "decimal" }

// timeValue is a flag holding an RFC 3339 timestamp.
type timeValue struct {
	t   time.Time
	set bool
}

func (v *timeValue) String() string {
	if !v.set {
		return ""
	}

	return v.t.Format(time.RFC3339)
}

func (v *timeValue) Set(s string) error {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}

	v.t, v.set = t, true

	return nil
}

func (v *timeValue) Type() string { return "time" }

// ptr returns nil for an unset flag.
func (v *timeValue) ptr() *time.Time {
	if !v.set {
		return nil
	}

	t := v.t

	return &t
}

func requireFlags(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		_ = cmd.MarkFlagRequired(name)
	}
}

func parseUUIDArg(name, arg string) (uuid.UUID, error) {
	id, err := uuid.Parse(arg)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s %q: %v", errInvalidFlag, name, arg, err)
	}

	return id, nil
}

func parseUUIDs(name string, args []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(args))
	for _, arg := range args {
		id, err := parseUUIDArg(name, arg)
		if err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, nil
}

// parseReturnItem parses <copy-id>[:<condition>[:<damage-fine>]], condition defaults to normal.
func parseReturnItem(arg string) (returnbooks.ReturnItem, error) {
	parts := strings.Split(arg, ":")
	if len(parts) > 3 {
		return returnbooks.ReturnItem{}, fmt.Errorf("%w: item %q", errInvalidFlag, arg)
	}

	copyID, err := parseUUIDArg("item", parts[0])
	if err != nil {
		return returnbooks.ReturnItem{}, err
	}

	item := returnbooks.ReturnItem{CopyID: copyID, Condition: core.ReturnNormal}

	if len(parts) > 1 && parts[1] != "" {
		item.Condition = core.ReturnCondition(parts[1])
	}

	if len(parts) > 2 {
		if item.DamageFine, err = decimal.NewFromString(parts[2]); err != nil {
			return returnbooks.ReturnItem{}, fmt.Errorf("%w: damage fine %q: %v", errInvalidFlag, parts[2], err)
		}
	}

	return item, nil
}
