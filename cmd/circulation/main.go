// Command circulation is the command line interface of the library circulation manager.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:]))
}

func run(ctx context.Context, args []string) int {
	opts := defaultRootOptions()
	cmd := newRootCommand(opts)
	cmd.SetArgs(args)

	return execute(ctx, cmd, opts)
}

// execute runs cmd, reports a failure and returns the exit code.
// JSON errors go to stdout next to JSON results, text errors go to stderr.
func execute(ctx context.Context, cmd *cobra.Command, opts *RootOptions) int {
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	output := opts.output
	if output.Writer == nil || output.Format != formatJSON {
		output = OutputFormatter{Format: formatText, Writer: cmd.ErrOrStderr()}
	}

	if writeErr := output.Error(err); writeErr != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	return ExitCode(err)
}
