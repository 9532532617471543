package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
	"github.com/AntonStoeckl/library-circulation-go/features/command/addcopy"
	"github.com/AntonStoeckl/library-circulation-go/features/command/correctcopystatus"
	"github.com/AntonStoeckl/library-circulation-go/shell"
)

func newCopyCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Manage the inventory of physical copies",
	}

	cmd.AddCommand(newCopyAddCommand(opts))
	cmd.AddCommand(newCopyCorrectCommand(opts))

	return cmd
}

func newCopyAddCommand(opts *RootOptions) *cobra.Command {
	var (
		copyID         uuidValue
		editionID      uuidValue
		staffID        uuidValue
		price          decimalValue
		copyNumber     int
		conditionNotes string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a copy of an edition to the inventory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !copyID.set {
				copyID.id = shell.NewID()
			}

			return opts.withStore(cmd, func(ctx context.Context, store circulation.Store) error {
				command := addcopy.BuildCommand(
					copyID.id,
					editionID.id,
					copyNumber,
					price.amount,
					conditionNotes,
					staffID.id,
					opts.now(),
				)
				handler := addcopy.NewCommandHandler(store)

				return runCommand[addcopy.Command, core.Copy](ctx, opts, handler, command)
			})
		},
	}

	cmd.Flags().Var(&copyID, "id", "copy id, repeating it makes the call idempotent")
	cmd.Flags().Var(&editionID, "edition", "edition id")
	cmd.Flags().IntVar(&copyNumber, "number", 0, "copy number within the edition")
	cmd.Flags().Var(&price, "price", "replacement price")
	cmd.Flags().StringVar(&conditionNotes, "notes", "", "condition notes")
	cmd.Flags().Var(&staffID, "staff", "id of the staff member")
	requireFlags(cmd, "edition", "number", "price", "staff")

	return cmd
}

func newCopyCorrectCommand(opts *RootOptions) *cobra.Command {
	var (
		staffID        uuidValue
		target         string
		conditionNotes string
	)

	cmd := &cobra.Command{
		Use:   "correct <copy-id>",
		Short: "Correct the status of a copy that is not on loan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			copyID, err := parseUUIDArg("copy-id", args[0])
			if err != nil {
				return err
			}

			return opts.withStore(cmd, func(ctx context.Context, store circulation.Store) error {
				command := correctcopystatus.BuildCommand(
					copyID,
					core.CopyStatus(target),
					conditionNotes,
					staffID.id,
					opts.now(),
				)
				handler := correctcopystatus.NewCommandHandler(store)

				return runCommand[correctcopystatus.Command, core.Copy](ctx, opts, handler, command)
			})
		},
	}

	cmd.Flags().StringVar(&target, "status", "", "target status (available|damaged|disposed)")
	cmd.Flags().StringVar(&conditionNotes, "notes", "", "condition notes")
	cmd.Flags().Var(&staffID, "staff", "id of the staff member")
	requireFlags(cmd, "status", "staff")

	return cmd
}
