package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"spruce.dev/pkg/spruce/internal/adapter"
	"spruce.dev/pkg/spruce/internal/domain"
	m "spruce.dev/pkg/spruce/internal/model"
)

var cleanParallelFlag int
var cleanShardFlag string
var cleanWriteFlag bool
var cleanPatchFlag string
var cleanNoReportFlag bool
var cleanVerifyFlag string
var cleanVerifyTimeoutFlag int64

// cleanCmd represents the clean command.
var cleanCmd = newCleanCmd()

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [paths...]",
		Short: "Clean up Go source files",
		Long:  cleanLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			verify, err := adapter.ParseVerifyMode(viper.GetString(verifyConfigKey))
			if err != nil {
				return err
			}

			if verify != adapter.VerifyNone && !cleanWriteFlag {
				return fmt.Errorf("--%s needs --write", verifyFlagName)
			}

			paths := parsePaths(args)

			wf, err := currentWorkflow(cmd, paths)
			if err != nil {
				return err
			}

			shardIndex, totalShards := parseShardFlag(cleanShardFlag)

			reportsPath := m.Path(viper.GetString(outputFlagName))
			if cleanNoReportFlag && totalShards <= 1 {
				reportsPath = ""
			}

			_, err = wf.Clean(cmd.Context(), domain.CleanArgs{
				EstimateArgs: domain.EstimateArgs{
					Paths:    paths,
					Exclude:  viper.GetStringSlice(excludeConfigKey),
					Parallel: viper.GetInt(cleanParallelConfigKey),
				},
				Write:           cleanWriteFlag,
				Patch:           m.Path(cleanPatchFlag),
				Reports:         reportsPath,
				ShardIndex:      shardIndex,
				TotalShardCount: totalShards,
				Verify:          verify,
			})

			return err
		},
	}

	configureCleanFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func configureCleanFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.IntVarP(&cleanParallelFlag, cleanParallelFlagName, "p", defaultCleanParallel, "number of files processed in parallel")
	bindFlagToConfig(flags.Lookup(cleanParallelFlagName), cleanParallelConfigKey)

	flags.StringVarP(&cleanShardFlag, "shard", "s", "", "shard index and total shard count in the format INDEX/TOTAL (e.g., 0/3)")
	flags.BoolVarP(&cleanWriteFlag, "write", "w", false, "rewrite changed files in place")
	flags.StringVar(&cleanPatchFlag, "patch", "", "write the unified diff of a dry run to this file instead of stdout")
	flags.BoolVar(&cleanNoReportFlag, "no-report", false, "do not save the run report (ignored when sharded)")

	flags.StringVar(&cleanVerifyFlag, verifyFlagName, "", "after --write, run go build, vet or test in the module")
	bindFlagToConfig(flags.Lookup(verifyFlagName), verifyConfigKey)

	flags.Int64Var(&cleanVerifyTimeoutFlag, verifyTimeoutFlagName, int64(defaultVerifyTimeout.Seconds()), "verification timeout in seconds")
	bindFlagToConfig(flags.Lookup(verifyTimeoutFlagName), verifyTimeoutConfigKey)
}

func parseShardFlag(shard string) (int, int) {
	if shard == "" {
		return 0, 1
	}

	var index, total int

	_, err := fmt.Sscanf(shard, "%d/%d", &index, &total)
	if err != nil || total <= 0 || index < 0 || index >= total {
		return 0, 1
	}

	return index, total
}
