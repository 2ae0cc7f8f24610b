package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

// NewRootCommand builds the mrp command tree
func NewRootCommand() *cobra.Command {
	var opts rootOptions

	root := &cobra.Command{
		Use:           "mrp",
		Short:         "Material requirements planning for a facility",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default: ./mrp.yaml or /etc/mrp/mrp.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override log.level")

	root.AddCommand(newPlanCmd(&opts))
	root.AddCommand(newHistoryCmd(&opts))
	return root
}

// Execute runs the command tree and returns the process exit code
func Execute(ctx context.Context, args []string) int {
	root := NewRootCommand()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	var exitErr *ExitError
	if err != nil && !(errors.As(err, &exitErr) && exitErr.Err == nil) {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
	}
	return ExitCode(err)
}
