package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/features/query/listoverdue"
)

func newOverdueCommand(opts *RootOptions) *cobra.Command {
	var at timeValue

	cmd := &cobra.Command{
		Use:   "overdue",
		Short: "List loans past their due date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := opts.now()
			if at.set {
				now = at.t
			}

			return opts.withStore(cmd, func(ctx context.Context, store circulation.Store) error {
				query := listoverdue.BuildQuery(now)
				handler := listoverdue.NewQueryHandler(store)

				return runQuery[listoverdue.Query, listoverdue.OverdueRequests](ctx, opts, handler, query)
			})
		},
	}

	cmd.Flags().Var(&at, "at", "reference time (RFC 3339, default now)")

	return cmd
}
