package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
	"github.com/AntonStoeckl/library-circulation-go/features/command/approveborrowrequest"
	"github.com/AntonStoeckl/library-circulation-go/features/command/cancelborrowrequest"
	"github.com/AntonStoeckl/library-circulation-go/features/command/createborrowrequest"
	"github.com/AntonStoeckl/library-circulation-go/features/command/extendborrowrequest"
	"github.com/AntonStoeckl/library-circulation-go/features/command/issueborrowrequest"
	"github.com/AntonStoeckl/library-circulation-go/features/command/reallocatecopies"
	"github.com/AntonStoeckl/library-circulation-go/features/command/rejectborrowrequest"
	"github.com/AntonStoeckl/library-circulation-go/features/command/returnbooks"
	"github.com/AntonStoeckl/library-circulation-go/features/query/borrowrequest"
	"github.com/AntonStoeckl/library-circulation-go/shell"
)

func newRequestCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request",
		Short: "Run the borrow request workflow",
	}

	cmd.AddCommand(newRequestCreateCommand(opts))
	cmd.AddCommand(newRequestApproveCommand(opts))
	cmd.AddCommand(newRequestRejectCommand(opts))
	cmd.AddCommand(newRequestCancelCommand(opts))
	cmd.AddCommand(newRequestIssueCommand(opts))
	cmd.AddCommand(newRequestExtendCommand(opts))
	cmd.AddCommand(newRequestReallocateCommand(opts))
	cmd.AddCommand(newRequestReturnCommand(opts))
	cmd.AddCommand(newRequestShowCommand(opts))

	return cmd
}

func parseActor(id uuidValue, role string) (core.Actor, error) {
	actor := core.Actor{ID: id.id, Role: core.ActorRole(role)}

	switch actor.Role {
	case core.RoleReader, core.RoleStaff:
		return actor, nil
	default:
		return core.Actor{}, fmt.Errorf("%w: role %q must be reader or staff", errInvalidFlag, role)
	}
}

func newRequestCreateCommand(opts *RootOptions) *cobra.Command {
	var (
		requestID  uuidValue
		cardID     uuidValue
		actorID    uuidValue
		dueDate    timeValue
		editionIDs []string
		role       string
		notes      string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a pending borrow request for one or more editions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			editions, err := parseUUIDs("edition", editionIDs)
			if err != nil {
				return err
			}

			actor, err := parseActor(actorID, role)
			if err != nil {
				return err
			}

			if !requestID.set {
				requestID.id = shell.NewID()
			}

			return opts.withStore(cmd, func(ctx context.Context, store circulation.Store) error {
				command := createborrowrequest.BuildCommand(
					requestID.id,
					cardID.id,
					editions,
					dueDate.ptr(),
					notes,
					actor,
					opts.now(),
				)
				handler := createborrowrequest.NewCommandHandler(store)

				return runCommand[createborrowrequest.Command, core.BorrowRequest](ctx, opts, handler, command)
			})
		},
	}

	cmd.Flags().Var(&requestID, "id", "request id, repeating it makes the call idempotent")
	cmd.Flags().Var(&cardID, "card", "card id")
	cmd.Flags().StringArrayVar(&editionIDs, "edition", nil, "edition id, repeat for several books")
	cmd.Flags().Var(&dueDate, "due", "desired due date (RFC 3339, default from the card's borrow period)")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	cmd.Flags().Var(&actorID, "actor", "id of the reader or staff member creating the request")
	cmd.Flags().StringVar(&role, "role", string(core.RoleReader), "role of the actor (reader|staff)")
	requireFlags(cmd, "card", "edition", "actor")

	return cmd
}

func newRequestApproveCommand(opts *RootOptions) *cobra.Command {
	var approverID uuidValue

	cmd := &cobra.Command{
		Use:   "approve <request-id>",
		Short: "Approve a pending request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requestID, err := parseUUIDArg("request-id", args[0])
			if err != nil {
				return err
			}

			return opts.withStore(cmd, func(ctx context.Context, store circulation.Store) error {
				command := approveborrowrequest.BuildCommand(requestID, approverID.id, opts.now())
				handler := approveborrowrequest.NewCommandHandler(store)

				return runCommand[approveborrowrequest.Command, core.BorrowRequest](ctx, opts, handler, command)
			})
		},
	}

	cmd.Flags().Var(&approverID, "staff", "id of the approving staff member")
	requireFlags(cmd, "staff")

	return cmd
}

func newRequestRejectCommand(opts *RootOptions) *cobra.Command {
	var (
		staffID uuidValue
		reason  string
	)

	cmd := &cobra.Command{
		Use:   "reject <request-id>",
		Short: "Reject a pending request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requestID, err := parseUUIDArg("request-id", args[0])
			if err != nil {
				return err
			}

			return opts.withStore(cmd, func(ctx context.Context, store circulation.Store) error {
				command := rejectborrowrequest.BuildCommand(requestID, staffID.id, reason, opts.now())
				handler := rejectborrowrequest.NewCommandHandler(store)

				return runCommand[rejectborrowrequest.Command, core.BorrowRequest](ctx, opts, handler, command)
			})
		},
	}

	cmd.Flags().Var(&staffID, "staff", "id of the rejecting staff member")
	cmd.Flags().StringVar(&reason, "reason", "", "reason, appended to the request notes")
	requireFlags(cmd, "staff")

	return cmd
}

func newRequestCancelCommand(opts *RootOptions) *cobra.Command {
	var (
		actorID uuidValue
		role    string
	)

	cmd := &cobra.Command{
		Use:   "cancel <request-id>",
		Short: "Cancel a pending or approved request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requestID, err := parseUUIDArg("request-id", args[0])
			if err != nil {
				return err
			}

			actor, err := parseActor(actorID, role)
			if err != nil {
				return err
			}

			return opts.withStore(cmd, func(ctx context.Context, store circulation.Store) error {
				command := cancelborrowrequest.BuildCommand(requestID, actor, opts.now())
				handler := cancelborrowrequest.NewCommandHandler(store)

				return runCommand[cancelborrowrequest.Command, core.BorrowRequest](ctx, opts, handler, command)
			})
		},
	}

	cmd.Flags().Var(&actorID, "actor", "id of the reader or staff member")
	cmd.Flags().StringVar(&role, "role", string(core.RoleReader), "role of the actor (reader|staff)")
	requireFlags(cmd, "actor")

	return cmd
}

func newRequestIssueCommand(opts *RootOptions) *cobra.Command {
	var staffID uuidValue

	cmd := &cobra.Command{
		Use:   "issue <request-id>",
		Short: "Hand out the copies of an approved request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requestID, err := parseUUIDArg("request-id", args[0])
			if err != nil {
				return err
			}

			return opts.withStore(cmd, func(ctx context.Context, store circulation.Store) error {
				command := issueborrowrequest.BuildCommand(requestID, staffID.id, opts.now())
				handler := issueborrowrequest.NewCommandHandler(store)

				return runCommand[issueborrowrequest.Command, core.BorrowRequest](ctx, opts, handler, command)
			})
		},
	}

	cmd.Flags().Var(&staffID, "staff", "id of the issuing staff member")
	requireFlags(cmd, "staff")

	return cmd
}

func newRequestExtendCommand(opts *RootOptions) *cobra.Command {
	var (
		staffID uuidValue
		dueDate timeValue
	)

	cmd := &cobra.Command{
		Use:   "extend <request-id>",
		Short: "Move the due date of a loan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requestID, err := parseUUIDArg("request-id", args[0])
			if err != nil {
				return err
			}

			return opts.withStore(cmd, func(ctx context.Context, store circulation.Store) error {
				command := extendborrowrequest.BuildCommand(requestID, staffID.id, dueDate.t, opts.now())
				handler := extendborrowrequest.NewCommandHandler(store, opts.config.Policy)

				return runCommand[extendborrowrequest.Command, core.BorrowRequest](ctx, opts, handler, command)
			})
		},
	}

	cmd.Flags().Var(&staffID, "staff", "id of the staff member")
	cmd.Flags().Var(&dueDate, "due", "new due date (RFC 3339)")
	requireFlags(cmd, "staff", "due")

	return cmd
}

func newRequestReallocateCommand(opts *RootOptions) *cobra.Command {
	var staffID uuidValue

	cmd := &cobra.Command{
		Use:   "reallocate <request-id>",
		Short: "Replace copies of a pending or approved request that are no longer available",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requestID, err := parseUUIDArg("request-id", args[0])
			if err != nil {
				return err
			}

			return opts.withStore(cmd, func(ctx context.Context, store circulation.Store) error {
				command := reallocatecopies.BuildCommand(requestID, staffID.id, opts.now())
				handler := reallocatecopies.NewCommandHandler(store)

				return runCommand[reallocatecopies.Command, reallocatecopies.Decision](ctx, opts, handler, command)
			})
		},
	}

	cmd.Flags().Var(&staffID, "staff", "id of the staff member")
	requireFlags(cmd, "staff")

	return cmd
}

func newRequestReturnCommand(opts *RootOptions) *cobra.Command {
	var (
		staffID uuidValue
		items   []string
	)

	cmd := &cobra.Command{
		Use:   "return <request-id>",
		Short: "Take back copies of a loan and assess fines",
		Long: `Take back copies of a loan and assess fines.

Each --item is <copy-id>[:<condition>[:<damage-fine>]] with condition normal, damaged or lost.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requestID, err := parseUUIDArg("request-id", args[0])
			if err != nil {
				return err
			}

			returns := make([]returnbooks.ReturnItem, 0, len(items))
			for _, arg := range items {
				item, err := parseReturnItem(arg)
				if err != nil {
					return err
				}

				returns = append(returns, item)
			}

			return opts.withStore(cmd, func(ctx context.Context, store circulation.Store) error {
				command := returnbooks.BuildCommand(requestID, staffID.id, returns, opts.now())
				handler := returnbooks.NewCommandHandler(store, opts.config.Policy)

				return runCommand[returnbooks.Command, returnbooks.Result](ctx, opts, handler, command)
			})
		},
	}

	cmd.Flags().Var(&staffID, "staff", "id of the staff member")
	cmd.Flags().StringArrayVar(&items, "item", nil, "returned copy, repeat for several copies")
	requireFlags(cmd, "staff", "item")

	return cmd
}

func newRequestShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <request-id>",
		Short: "Show a request with its effective status and fines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requestID, err := parseUUIDArg("request-id", args[0])
			if err != nil {
				return err
			}

			return opts.withStore(cmd, func(ctx context.Context, store circulation.Store) error {
				query := borrowrequest.BuildQuery(requestID, opts.now())
				handler := borrowrequest.NewQueryHandler(store)

				return runQuery[borrowrequest.Query, borrowrequest.BorrowRequestView](ctx, opts, handler, query)
			})
		},
	}
}
