package controller

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "spruce.dev/pkg/spruce/internal/model"
)

// SimpleUI implements UI using cobra Command's output streams. It never
// blocks and prints every event as plain text.
type SimpleUI struct {
	cmd     *cobra.Command
	verbose bool
}

// NewSimpleUI creates a new SimpleUI. A verbose UI also reports unchanged
// files while a run progresses.
func NewSimpleUI(cmd *cobra.Command, verbose bool) *SimpleUI {
	return &SimpleUI{cmd: cmd, verbose: verbose}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	return ctx.Err()
}

// Close finalizes the UI.
func (s *SimpleUI) Close(context.Context) {}

// Wait returns immediately; SimpleUI has nothing to wait for.
func (s *SimpleUI) Wait(context.Context) {}

// DisplayRunInfo prints the file count, worker count and steps of a run.
func (s *SimpleUI) DisplayRunInfo(ctx context.Context, info RunInfo) {
	if ctx.Err() != nil {
		return
	}

	shard := ""
	if info.ShardCount > 1 {
		shard = fmt.Sprintf(" (shard %d/%d)", info.ShardIndex, info.ShardCount)
	}

	s.printf("Cleaning %d file(s) with %d worker(s)%s\n", info.Files, max(info.Parallel, 1), shard)

	if len(info.Steps) > 0 {
		s.printf("Steps: %s\n", strings.Join(info.Steps, " -> "))
	}
}

// DisplayFileReport prints one processed file.
func (s *SimpleUI) DisplayFileReport(ctx context.Context, report m.FileReport) {
	if ctx.Err() != nil {
		return
	}

	switch report.Status {
	case m.FileChanged:
		s.printf("changed   %s: %s\n", report.File.ShortPath, strings.Join(report.Applied, ", "))
	case m.FileFailed:
		s.errorf("failed    %s: %s\n", report.File.ShortPath, report.Error)
	case m.FileUnchanged:
		if s.verbose {
			s.printf("unchanged %s\n", report.File.ShortPath)
		}
	}
}

// DisplayEstimation prints the rules that would apply to each file.
func (s *SimpleUI) DisplayEstimation(ctx context.Context, reports []m.FileReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderReportTable(reports))

	return nil
}

// DisplayReports prints a saved run report.
func (s *SimpleUI) DisplayReports(ctx context.Context, reports []m.FileReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderReportTable(reports))

	return nil
}

func renderReportTable(reports []m.FileReport) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Status", "Rules"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT})

	changes := 0

	for _, report := range reports {
		rules := strings.Join(report.Applied, ", ")
		if report.Status == m.FileFailed {
			rules = report.Error
		}

		table.Append([]string{string(report.File.ShortPath), report.Status.String(), rules})

		changes += len(report.Applied)
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(reports)),
		"",
		fmt.Sprintf("%d change(s)", changes),
	})

	table.Render()

	return tableBuffer.String()
}

// DisplayPatch prints the unified diff of a dry run.
func (s *SimpleUI) DisplayPatch(ctx context.Context, patch string) {
	if ctx.Err() != nil {
		return
	}

	s.printf("%s", patch)
}

// DisplayVerification prints the outcome of the post-write check.
func (s *SimpleUI) DisplayVerification(ctx context.Context, verification Verification) {
	if ctx.Err() != nil {
		return
	}

	if verification.Err == nil {
		s.printf("go %s: ok\n", verification.Mode)
		return
	}

	s.errorf("go %s failed: %v\n", verification.Mode, verification.Err)

	if output := strings.TrimSpace(verification.Output); output != "" {
		s.errorf("%s\n", output)
	}
}

// DisplaySummary prints the totals of a run and how often each rule applied.
func (s *SimpleUI) DisplaySummary(ctx context.Context, summary m.Summary) {
	if ctx.Err() != nil {
		return
	}

	s.printf("\nFiles: %d | Changed: %d | Unchanged: %d | Failed: %d\n",
		summary.Files, summary.Changed, summary.Unchanged, summary.Failed)

	if len(summary.Applied) == 0 {
		return
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Rule", "Files"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})

	for _, id := range rankRules(summary.Applied) {
		table.Append([]string{id, fmt.Sprintf("%d", summary.Applied[id])})
	}

	table.Render()
	s.printf("\n%s", tableBuffer.String())
}

// rankRules orders rule ids by decreasing count, then by id.
func rankRules(applied map[string]int) []string {
	return slices.SortedFunc(maps.Keys(applied), func(a, b string) int {
		if c := cmp.Compare(applied[b], applied[a]); c != 0 {
			return c
		}

		return strings.Compare(a, b)
	})
}

// DisplayRules prints the rule catalog.
func (s *SimpleUI) DisplayRules(ctx context.Context, rules []m.RuleInfo) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"ID", "Since", "Status", "Tags"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	for _, rule := range rules {
		table.Append([]string{rule.ID, rule.MinimalVersion, ruleStatus(rule), strings.Join(rule.Tags, ", ")})
	}

	table.Render()
	s.printf("%s", tableBuffer.String())

	return nil
}

func ruleStatus(rule m.RuleInfo) string {
	if !rule.ProductionReady {
		return "draft"
	}

	return "ready"
}

func (s *SimpleUI) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func (s *SimpleUI) errorf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.cmd.ErrOrStderr(), format, args...)
}
