// Package cmd provides the root command and CLI setup for spruce.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"spruce.dev/pkg/spruce/internal/adapter"
	"spruce.dev/pkg/spruce/internal/controller"
	"spruce.dev/pkg/spruce/internal/domain"
	"spruce.dev/pkg/spruce/internal/domain/mutators"
	m "spruce.dev/pkg/spruce/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var reportStore adapter.ReportStore

// workflow is built on first use from the loaded configuration.
var workflow domain.Workflow

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

// noCacheFlag disables the step cache when set.
var noCacheFlag bool

// excludePatterns is a root-level flag that filters files for applicable commands.
var excludePatterns []string

var verboseFlag bool

// Rule selection flags, shared by every command that runs the pipeline.
var (
	targetFlag  string
	enableFlag  []string
	disableFlag []string
	tagFlag     []string
	skipTagFlag []string
	draftsFlag  bool
)

func init() {
	configureRootFlags(rootCmd)

	fsAdapter = adapter.NewLocalSourceFSAdapter()
	reportStore = adapter.NewReportStore()
}

const pathPatternsHelp = `Supports Go-style path patterns:
  - ./...          recursively scan current directory
  - ./pkg/...      recursively scan pkg directory
  - ./cmd ./pkg    scan multiple directories`

const rootLongDescription = `Spruce cleans up Go source code. It parses every file, applies a
selection of small rewrite rules (modernizations and simplifications) to the
syntax tree, and prints the result back, keeping comments and line endings.

` + pathPatternsHelp

const cleanLongDescription = `Clean up the given paths (default: current module).

Without --write the files are left untouched and a unified diff is printed
(or written to --patch).

` + pathPatternsHelp

const listLongDescription = `List source files and the rules that would change them.

` + pathPatternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "spruce",
		Short:        "Rule-based Go source cleanup tool",
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

// newRootCmd returns a fresh root command with its flags, for tests.
func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringVarP(&reportsOutputDirFlag, outputFlagName, "o", defaultReportsDir, "directory for run reports")
	bindFlagToConfig(flags.Lookup(outputFlagName), outputFlagName)

	flags.BoolVar(&noCacheFlag, noCacheFlagName, defaultNoCache, "disable the step cache")
	bindFlagToConfig(flags.Lookup(noCacheFlagName), noCacheFlagName)

	flags.StringArrayVarP(&excludePatterns, excludeFlagName, "x", nil, "exclude files matching regex (can be repeated)")
	bindFlagToConfig(flags.Lookup(excludeFlagName), excludeConfigKey)

	flags.BoolVarP(&verboseFlag, verboseFlagName, "v", defaultLogVerbose, "log at debug level and list unchanged files")
	bindFlagToConfig(flags.Lookup(verboseFlagName), logVerboseKey)

	flags.StringVar(&targetFlag, targetFlagName, "", "target Go version (default: go directive of go.mod)")
	bindFlagToConfig(flags.Lookup(targetFlagName), targetConfigKey)

	flags.StringSliceVar(&enableFlag, enableFlagName, nil, "rule ids to run (default: every ready rule)")
	bindFlagToConfig(flags.Lookup(enableFlagName), includeConfigKey)

	flags.StringSliceVar(&disableFlag, disableFlagName, nil, "rule ids to skip")
	bindFlagToConfig(flags.Lookup(disableFlagName), excludeRulesConfigKey)

	flags.StringSliceVar(&tagFlag, tagFlagName, nil, "run only rules carrying one of these tags")
	bindFlagToConfig(flags.Lookup(tagFlagName), includeTagsConfigKey)

	flags.StringSliceVar(&skipTagFlag, skipTagFlagName, nil, "skip rules carrying one of these tags")
	bindFlagToConfig(flags.Lookup(skipTagFlagName), excludeTagsConfigKey)

	flags.BoolVar(&draftsFlag, draftsFlagName, false, "also run rules that are not production ready")
	bindFlagToConfig(flags.Lookup(draftsFlagName), draftsConfigKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}

// currentWorkflow returns the package workflow, building it on first use.
// paths are the command's path arguments; the first one picks the module
// whose go directive sets the target version.
func currentWorkflow(cmd *cobra.Command, paths []m.Path) (domain.Workflow, error) {
	if workflow != nil {
		return workflow, nil
	}

	built, err := buildWorkflow(cmd, paths)
	if err != nil {
		return nil, err
	}

	workflow = built

	return workflow, nil
}

func buildWorkflow(cmd *cobra.Command, paths []m.Path) (domain.Workflow, error) {
	verbose := viper.GetBool(logVerboseKey)
	configureLogger("", verbose)

	pipeline, err := buildPipeline(paths)
	if err != nil {
		return nil, err
	}

	verifyTimeout := time.Duration(viper.GetInt64(verifyTimeoutConfigKey)) * time.Second

	return domain.NewWorkflow(
		fsAdapter,
		reportStore,
		adapter.NewLocalTestRunnerAdapter(verifyTimeout),
		newUI(cmd, verbose),
		pipeline,
	), nil
}

func newUI(cmd *cobra.Command, verbose bool) controller.UI {
	if controller.IsTerminal(cmd.OutOrStdout()) {
		return controller.NewTUI(cmd.OutOrStdout())
	}

	return controller.NewSimpleUI(cmd, verbose)
}

func buildPipeline(paths []m.Path) (*domain.Pipeline, error) {
	catalog, err := mutators.Catalog()
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}

	selection, err := domain.Select(catalog, selectionConfig(resolveTargetVersion(paths)))
	if err != nil {
		return nil, err
	}

	for _, excluded := range selection.Excluded {
		slog.Debug("Rule not selected", "rule", excluded.MutatorID, "reason", excluded.Reason)
	}

	slog.Info("Rules selected", "target", selection.Target.String(), "rules", selection.IDs())

	refactorer := domain.NewRefactorer[*adapter.GoFile](adapter.NewGoGrammar())

	steps, err := buildSteps(viper.GetStringSlice(stepsConfigKey), domain.NewRefactorerStep(refactorer, selection))
	if err != nil {
		return nil, err
	}

	lineEnding, err := m.ParseLineEnding(viper.GetString(lineEndingConfigKey))
	if err != nil {
		return nil, err
	}

	options := []domain.PipelineOption{domain.WithLineEnding(lineEnding)}

	if !viper.GetBool(noCacheFlagName) {
		cache, err := domain.NewStepCache(viper.GetInt(cacheSizeConfigKey))
		if err != nil {
			return nil, err
		}

		options = append(options, domain.WithStepCache(cache))
	}

	return domain.NewPipeline(steps, options...), nil
}

// buildSteps maps configured step names onto pipeline steps.
func buildSteps(names []string, refactor domain.Step) ([]domain.Step, error) {
	steps := make([]domain.Step, 0, len(names))

	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case domain.StepRefactor:
			steps = append(steps, refactor)
		case adapter.StepGofmt:
			steps = append(steps, adapter.NewGofmtStep())
		case adapter.StepGoimports:
			steps = append(steps, adapter.NewGoimportsStep())
		case domain.StepTrailingWhitespace:
			steps = append(steps, domain.TrailingWhitespaceStep{})
		case domain.StepFinalNewline:
			steps = append(steps, domain.FinalNewlineStep{})
		default:
			return nil, fmt.Errorf("unknown step %q", name)
		}
	}

	if len(steps) == 0 {
		return nil, fmt.Errorf("no steps configured (%s)", stepsConfigKey)
	}

	return steps, nil
}

// fallbackTargetVersion is used when the toolchain version does not parse.
const fallbackTargetVersion = "1.25"

// resolveTargetVersion prefers the configured version, then the go directive
// of the module holding the first path, then that of the working directory,
// then the toolchain spruce was built with.
func resolveTargetVersion(paths []m.Path) string {
	if target := strings.TrimSpace(viper.GetString(targetConfigKey)); target != "" {
		return target
	}

	starts := []m.Path{"."}
	if len(paths) > 0 {
		starts = append([]m.Path{patternDir(paths[0])}, starts...)
	}

	for _, start := range starts {
		root, err := fsAdapter.FindProjectRoot(start)
		if err != nil {
			continue
		}

		version, err := fsAdapter.GoVersion(root)
		if err == nil {
			slog.Debug("Target version from go.mod", "root", root, "version", version)
			return version
		}

		slog.Warn("Cannot read go directive", "root", root, "error", err)
	}

	return toolchainVersion(runtime.Version())
}

// patternDir strips the recursive "/..." suffix of a path pattern.
func patternDir(pattern m.Path) m.Path {
	dir := strings.TrimSuffix(strings.TrimSuffix(string(pattern), "..."), "/")
	if dir == "" {
		return "."
	}

	return m.Path(dir)
}

// toolchainVersion turns a runtime.Version string such as "go1.26rc1" or
// "devel go1.25-abc123 Tue ..." into a release version ("1.26", "1.25").
func toolchainVersion(raw string) string {
	for _, field := range strings.Fields(raw) {
		version, ok := strings.CutPrefix(field, "go")
		if !ok {
			continue
		}

		if end := strings.IndexFunc(version, func(r rune) bool {
			return r != '.' && (r < '0' || r > '9')
		}); end >= 0 {
			version = version[:end]
		}

		version = strings.TrimSuffix(version, ".")

		if _, err := m.ParseVersion(version); err == nil {
			return version
		}
	}

	return fallbackTargetVersion
}

// parsePaths defaults to the module of the working directory.
func parsePaths(args []string) []m.Path {
	if len(args) == 0 {
		return []m.Path{"./..."}
	}

	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
