package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
	"github.com/AntonStoeckl/library-circulation-go/features/command/payfine"
)

func newFineCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fine",
		Short: "Collect fines",
	}

	cmd.AddCommand(newFinePayCommand(opts))

	return cmd
}

func newFinePayCommand(opts *RootOptions) *cobra.Command {
	var staffID uuidValue

	cmd := &cobra.Command{
		Use:   "pay <fine-id>",
		Short: "Record the payment of a pending fine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fineID, err := parseUUIDArg("fine-id", args[0])
			if err != nil {
				return err
			}

			return opts.withStore(cmd, func(ctx context.Context, store circulation.Store) error {
				command := payfine.BuildCommand(fineID, staffID.id, opts.now())
				handler := payfine.NewCommandHandler(store)

				return runCommand[payfine.Command, core.Fine](ctx, opts, handler, command)
			})
		},
	}

	cmd.Flags().Var(&staffID, "staff", "id of the collecting staff member")
	requireFlags(cmd, "staff")

	return cmd
}
