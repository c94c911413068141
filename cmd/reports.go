package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"spruce.dev/pkg/spruce/internal/domain"
	m "spruce.dev/pkg/spruce/internal/model"
)

// viewCmd shows the report saved by the last clean or merge.
var viewCmd = newViewCmd()

// mergeCmd combines the reports of a sharded run.
var mergeCmd = newMergeCmd()

func newViewCmd() *cobra.Command {
	return newReportsCmd(
		"view",
		"View a previously saved run report",
		"View the run report saved in the reports directory by clean or merge.",
		func(ctx context.Context, wf domain.Workflow, reports m.Path) error {
			return wf.View(ctx, domain.ViewArgs{Reports: reports})
		},
	)
}

func newMergeCmd() *cobra.Command {
	return newReportsCmd(
		"merge",
		"Merge sharded run reports into a single report",
		"Merge the reports of shard_* subdirectories into the reports directory.",
		func(ctx context.Context, wf domain.Workflow, reports m.Path) error {
			return wf.Merge(ctx, domain.MergeArgs{Reports: reports})
		},
	)
}

// newReportsCmd builds a command that only works on the reports directory
// given by --output.
func newReportsCmd(use, short, long string, run func(context.Context, domain.Workflow, m.Path) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			wf, err := currentWorkflow(cmd, nil)
			if err != nil {
				return err
			}

			return run(cmd.Context(), wf, m.Path(viper.GetString(outputFlagName)))
		},
	}
}

func init() {
	rootCmd.AddCommand(viewCmd, mergeCmd)
}
