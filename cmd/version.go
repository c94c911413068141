package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long:  "Displays the build version of spruce, its VCS revision and the Go version used to build it.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			info, _ := debug.ReadBuildInfo()
			for _, line := range versionLines(info) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
			}
		},
	}
}

func versionLines(info *debug.BuildInfo) []string {
	if info == nil || info.Main.Version == "" {
		return []string{"version: unknown"}
	}

	lines := []string{
		"spruce version\t" + info.Main.Version,
		"go version\t" + info.GoVersion,
	}

	if revision := buildSetting(info, "vcs.revision"); revision != "" {
		if buildSetting(info, "vcs.modified") == "true" {
			revision += " (modified)"
		}

		lines = append(lines, "revision\t"+revision)
	}

	return lines
}

func buildSetting(info *debug.BuildInfo, key string) string {
	for _, setting := range info.Settings {
		if setting.Key == key {
			return setting.Value
		}
	}

	return ""
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
