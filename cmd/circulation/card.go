package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
	"github.com/AntonStoeckl/library-circulation-go/features/command/changecardstatus"
	"github.com/AntonStoeckl/library-circulation-go/features/command/registercard"
	"github.com/AntonStoeckl/library-circulation-go/shell"
)

func newCardCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Register and manage library cards",
	}

	cmd.AddCommand(newCardRegisterCommand(opts))

	for _, action := range []core.CardAction{core.CardActionLock, core.CardActionUnlock, core.CardActionRenew} {
		cmd.AddCommand(newCardStatusCommand(opts, action))
	}

	return cmd
}

func newCardRegisterCommand(opts *RootOptions) *cobra.Command {
	var (
		readerID       uuidValue
		staffID        uuidValue
		initialDeposit decimalValue
		expiresAt      timeValue
		maxBooks       int
		maxBorrowDays  int
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a card for a reader with an initial deposit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withStore(cmd, func(ctx context.Context, store circulation.Store) error {
				command := registercard.BuildCommand(
					shell.NewID(),
					readerID.id,
					maxBooks,
					maxBorrowDays,
					initialDeposit.amount,
					expiresAt.ptr(),
					staffID.id,
					opts.now(),
				)
				handler := registercard.NewCommandHandler(store, opts.config.Policy)

				return runCommand[registercard.Command, core.Card](ctx, opts, handler, command)
			})
		},
	}

	cmd.Flags().Var(&readerID, "reader", "reader id")
	cmd.Flags().Var(&staffID, "staff", "id of the staff member registering the card")
	cmd.Flags().Var(&initialDeposit, "deposit", "initial deposit, at least the minimum deposit")
	cmd.Flags().Var(&expiresAt, "expires-at", "card expiry (RFC 3339)")
	cmd.Flags().IntVar(&maxBooks, "max-books", 0, "maximum active loans (default from policy)")
	cmd.Flags().IntVar(&maxBorrowDays, "max-borrow-days", 0, "maximum loan period in days (default from policy)")
	requireFlags(cmd, "reader", "staff", "deposit")

	return cmd
}

func newCardStatusCommand(opts *RootOptions, action core.CardAction) *cobra.Command {
	var (
		staffID   uuidValue
		expiresAt timeValue
	)

	cmd := &cobra.Command{
		Use:   string(action) + " <card-id>",
		Short: "Apply the " + string(action) + " action to a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cardID, err := parseUUIDArg("card-id", args[0])
			if err != nil {
				return err
			}

			return opts.withStore(cmd, func(ctx context.Context, store circulation.Store) error {
				command := changecardstatus.BuildCommand(cardID, action, expiresAt.ptr(), staffID.id, opts.now())
				handler := changecardstatus.NewCommandHandler(store)

				return runCommand[changecardstatus.Command, core.Card](ctx, opts, handler, command)
			})
		},
	}

	cmd.Flags().Var(&staffID, "staff", "id of the staff member")
	requireFlags(cmd, "staff")

	if action == core.CardActionRenew {
		cmd.Flags().Var(&expiresAt, "expires-at", "new card expiry (RFC 3339)")
	}

	return cmd
}
