package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"spruce.dev/pkg/spruce/internal/domain"
)

var listParallelFlag int

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List source files and the rules that would change them",
		Long:  listLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := parsePaths(args)

			wf, err := currentWorkflow(cmd, paths)
			if err != nil {
				return err
			}

			return wf.Estimate(cmd.Context(), domain.EstimateArgs{
				Paths:    paths,
				Exclude:  viper.GetStringSlice(excludeConfigKey),
				Parallel: listParallelFlag,
			})
		},
	}

	cmd.Flags().IntVarP(&listParallelFlag, cleanParallelFlagName, "p", defaultCleanParallel, "number of files processed in parallel")

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
