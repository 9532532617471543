package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
)

var errSchemaNotSupported = errors.New("the store has no schema to apply")

type schemaApplier interface {
	ApplySchema(ctx context.Context) error
}

func newSchemaCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "apply",
		Short: "Create all tables and indexes that do not exist yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withStore(cmd, func(ctx context.Context, store circulation.Store) error {
				applier, ok := store.(schemaApplier)
				if !ok {
					return WrapExitError(ExitUsage, "schema apply", errSchemaNotSupported)
				}

				if err := applier.ApplySchema(ctx); err != nil {
					return err
				}

				return opts.output.Success(map[string]string{"schema": "applied"}, false)
			})
		},
	})

	return cmd
}
