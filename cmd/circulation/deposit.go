package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/features/command/depositfunds"
	"github.com/AntonStoeckl/library-circulation-go/features/command/refunddeposit"
	"github.com/AntonStoeckl/library-circulation-go/features/query/depositbalance"
	"github.com/AntonStoeckl/library-circulation-go/shell"
)

func newDepositCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "Record deposits and refunds of a card",
	}

	cmd.AddCommand(newDepositAddCommand(opts))
	cmd.AddCommand(newDepositRefundCommand(opts))
	cmd.AddCommand(newDepositBalanceCommand(opts))

	return cmd
}

func newDepositAddCommand(opts *RootOptions) *cobra.Command {
	var (
		transactionID uuidValue
		staffID       uuidValue
		amount        decimalValue
	)

	cmd := &cobra.Command{
		Use:   "add <card-id>",
		Short: "Record a deposit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cardID, err := parseUUIDArg("card-id", args[0])
			if err != nil {
				return err
			}

			if !transactionID.set {
				transactionID.id = shell.NewID()
			}

			return opts.withStore(cmd, func(ctx context.Context, store circulation.Store) error {
				command := depositfunds.BuildCommand(transactionID.id, cardID, amount.amount, staffID.id, opts.now())
				handler := depositfunds.NewCommandHandler(store)

				return runCommand[depositfunds.Command, depositfunds.Result](ctx, opts, handler, command)
			})
		},
	}

	cmd.Flags().Var(&amount, "amount", "amount to deposit")
	cmd.Flags().Var(&staffID, "staff", "id of the staff member")
	cmd.Flags().Var(&transactionID, "transaction", "transaction id, repeating it makes the call idempotent")
	requireFlags(cmd, "amount", "staff")

	return cmd
}

func newDepositRefundCommand(opts *RootOptions) *cobra.Command {
	var (
		transactionID uuidValue
		staffID       uuidValue
		amount        decimalValue
	)

	cmd := &cobra.Command{
		Use:   "refund <card-id>",
		Short: "Refund part of the deposit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cardID, err := parseUUIDArg("card-id", args[0])
			if err != nil {
				return err
			}

			if !transactionID.set {
				transactionID.id = shell.NewID()
			}

			return opts.withStore(cmd, func(ctx context.Context, store circulation.Store) error {
				command := refunddeposit.BuildCommand(transactionID.id, cardID, amount.amount, staffID.id, opts.now())
				handler := refunddeposit.NewCommandHandler(store)

				return runCommand[refunddeposit.Command, refunddeposit.Result](ctx, opts, handler, command)
			})
		},
	}

	cmd.Flags().Var(&amount, "amount", "amount to refund")
	cmd.Flags().Var(&staffID, "staff", "id of the staff member")
	cmd.Flags().Var(&transactionID, "transaction", "transaction id, repeating it makes the call idempotent")
	requireFlags(cmd, "amount", "staff")

	return cmd
}

func newDepositBalanceCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "balance <card-id>",
		Short: "Show the deposit balance and its transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cardID, err := parseUUIDArg("card-id", args[0])
			if err != nil {
				return err
			}

			return opts.withStore(cmd, func(ctx context.Context, store circulation.Store) error {
				query := depositbalance.BuildQuery(cardID)
				handler := depositbalance.NewQueryHandler(store)

				return runQuery[depositbalance.Query, depositbalance.DepositBalance](ctx, opts, handler, query)
			})
		},
	}
}
