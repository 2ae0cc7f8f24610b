package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vsinha/mrpcore/pkg/application/dto"
	"github.com/vsinha/mrpcore/pkg/interfaces/cli/output"
)

type historyOptions struct {
	facility string
	format   string
}

func newHistoryCmd(root *rootOptions) *cobra.Command {
	var opts historyOptions

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the stored plans of a facility, oldest first",
		Long: `List the stored plans of a facility, oldest first.

History is only kept across invocations when store.driver is sqlite or postgres.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			rt, err := newRuntime(root)
			if err != nil {
				return err
			}
			defer rt.Close()

			plans, err := rt.plans.List(ctx, opts.facility)
			if err != nil {
				return withCode(int(dto.CodeFatal), err)
			}
			return output.GenerateHistory(opts.facility, plans, output.Config{
				Format: opts.format,
				Writer: cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().StringVar(&opts.facility, "facility", "", "Facility whose plans to list (required)")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: text, json")
	_ = cmd.MarkFlagRequired("facility")

	return cmd
}
