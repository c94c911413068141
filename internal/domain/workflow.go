package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"spruce.dev/pkg/spruce/internal/adapter"
	"spruce.dev/pkg/spruce/internal/controller"
	m "spruce.dev/pkg/spruce/internal/model"
	"spruce.dev/pkg/spruce/pkg"
)

// ErrFilesFailed is returned by Clean when at least one file could not be
// processed. The other files are still cleaned and reported.
var ErrFilesFailed = errors.New("some files could not be cleaned")

// EstimateArgs contains the arguments for listing what a run would change.
type EstimateArgs struct {
	Paths    []m.Path
	Exclude  []string
	Parallel int
}

// CleanArgs contains the arguments for a cleanup run.
type CleanArgs struct {
	EstimateArgs

	// Write rewrites changed files in place; otherwise a patch is produced.
	Write bool
	// Patch is the file the patch is written to; empty prints it.
	Patch m.Path
	// Reports is the directory the run report is saved to; empty skips it.
	Reports         m.Path
	ShardIndex      int
	TotalShardCount int
	// Verify builds, vets or tests the project after writing.
	Verify adapter.VerifyMode
}

// ViewArgs contains the arguments for viewing a saved report.
type ViewArgs struct {
	Reports m.Path
}

// MergeArgs contains the arguments for merging sharded reports.
type MergeArgs struct {
	Reports m.Path
}

// Workflow is the cleanup use case driven by the command line.
type Workflow interface {
	Estimate(ctx context.Context, args EstimateArgs) error
	Clean(ctx context.Context, args CleanArgs) (m.Summary, error)
	View(ctx context.Context, args ViewArgs) error
	Merge(ctx context.Context, args MergeArgs) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.ReportStore
	adapter.TestRunnerAdapter
	controller.UI

	pipeline *Pipeline
	grammar  m.GrammarID
	spillDir string
}

// WorkflowOption configures a Workflow.
type WorkflowOption func(*workflow)

// WithSpillDir sets the directory processed files are spilled to while a
// run is in progress. The default is the system temporary directory.
func WithSpillDir(dir string) WorkflowOption {
	return func(w *workflow) {
		w.spillDir = dir
	}
}

// NewWorkflow creates a Workflow running pipeline over the files found by
// fsAdapter.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	reportStore adapter.ReportStore,
	testRunner adapter.TestRunnerAdapter,
	ui controller.UI,
	pipeline *Pipeline,
	options ...WorkflowOption,
) Workflow {
	w := &workflow{
		SourceFSAdapter:   fsAdapter,
		ReportStore:       reportStore,
		TestRunnerAdapter: testRunner,
		UI:                ui,
		pipeline:          pipeline,
		grammar:           m.GrammarGo,
	}

	for _, option := range options {
		option(w)
	}

	return w
}

// Estimate runs the pipeline without writing anything and displays, per
// file, the rules that would apply.
func (w *workflow) Estimate(ctx context.Context, args EstimateArgs) error {
	if err := w.Start(ctx, controller.WithEstimateMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}
	defer w.Close(ctx)

	files, err := w.Get(args.Paths, args.Exclude...)
	if err != nil {
		slog.Error("Failed to get source files", "error", err)
		return fmt.Errorf("get sources: %w", err)
	}

	spill, err := w.process(ctx, files, args.Parallel, nil)
	if err != nil {
		return err
	}

	defer closeSpill(spill)

	var reports []m.FileReport

	err = spill.Range(func(_ uint64, report m.FileReport) error {
		reports = append(reports, lightReport(report))
		return nil
	})
	if err != nil {
		return fmt.Errorf("read processed files: %w", err)
	}

	if err := w.DisplayEstimation(ctx, reports); err != nil {
		slog.Error("Failed to display estimation", "error", err)
		return fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)

	return nil
}

// Clean runs the pipeline over the shard's files, then writes the changed
// files or produces a patch, optionally verifies the build and saves the
// run report.
func (w *workflow) Clean(ctx context.Context, args CleanArgs) (m.Summary, error) {
	if err := w.Start(ctx, controller.WithCleanMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return m.Summary{}, err
	}
	defer w.Close(ctx)

	summary, err := w.clean(ctx, args)
	if err != nil {
		return summary, err
	}

	w.DisplaySummary(ctx, summary)
	w.Wait(ctx)

	if summary.Failed > 0 {
		return summary, fmt.Errorf("%w: %d of %d", ErrFilesFailed, summary.Failed, summary.Files)
	}

	return summary, nil
}

func (w *workflow) clean(ctx context.Context, args CleanArgs) (m.Summary, error) {
	files, err := w.Get(args.Paths, args.Exclude...)
	if err != nil {
		slog.Error("Failed to get source files", "error", err)
		return m.Summary{}, fmt.Errorf("get sources: %w", err)
	}

	files = ShardFiles(files, args.ShardIndex, args.TotalShardCount)

	w.DisplayRunInfo(ctx, controller.RunInfo{
		Files:      len(files),
		Parallel:   args.Parallel,
		ShardIndex: args.ShardIndex,
		ShardCount: args.TotalShardCount,
		Steps:      w.pipeline.Steps(),
	})

	spill, err := w.process(ctx, files, args.Parallel, func(report m.FileReport) {
		w.DisplayFileReport(ctx, report)
	})
	if err != nil {
		return m.Summary{}, err
	}

	defer closeSpill(spill)

	var (
		summary m.Summary
		reports []m.FileReport
		patches []string
	)

	err = spill.Range(func(_ uint64, report m.FileReport) error {
		summary.Add(report)
		reports = append(reports, lightReport(report))

		if report.Status != m.FileChanged {
			return nil
		}

		if args.Write {
			if err := w.WriteFile(report.File.FullPath, []byte(report.Result)); err != nil {
				return fmt.Errorf("write %s: %w", report.File.ShortPath, err)
			}

			return nil
		}

		patch, err := adapter.UnifiedPatch(report.File.ShortPath, report.Original, report.Result)
		if err != nil {
			return fmt.Errorf("patch %s: %w", report.File.ShortPath, err)
		}

		patches = append(patches, patch)

		return nil
	})
	if err != nil {
		slog.Error("Failed to apply results", "error", err)
		return summary, err
	}

	if err := w.emitPatch(ctx, args.Patch, patches); err != nil {
		return summary, err
	}

	if args.Write && summary.Changed > 0 && args.Verify != adapter.VerifyNone {
		if err := w.verify(ctx, args, files); err != nil {
			return summary, err
		}
	}

	if args.Reports != "" {
		dir := args.Reports
		if args.TotalShardCount > 1 {
			dir = adapter.ShardReportDir(args.Reports, args.ShardIndex)
		}

		if err := w.SaveReports(dir, reports); err != nil {
			slog.Error("Failed to save reports", "dir", dir, "error", err)
			return summary, fmt.Errorf("save reports: %w", err)
		}
	}

	return summary, nil
}

func (w *workflow) emitPatch(ctx context.Context, target m.Path, patches []string) error {
	patch := adapter.JoinPatches(patches)

	if target == "" {
		if patch != "" {
			w.DisplayPatch(ctx, patch)
		}

		return nil
	}

	if err := w.WriteFile(target, []byte(patch)); err != nil {
		slog.Error("Failed to write patch", "path", target, "error", err)
		return fmt.Errorf("write patch: %w", err)
	}

	return nil
}

func (w *workflow) verify(ctx context.Context, args CleanArgs, files []m.File) error {
	if len(files) == 0 {
		return nil
	}

	root, err := w.FindProjectRoot(files[0].FullPath)
	if err != nil {
		return fmt.Errorf("find project root: %w", err)
	}

	output, err := w.Run(ctx, root, args.Verify)
	w.DisplayVerification(ctx, controller.Verification{Mode: string(args.Verify), Output: output, Err: err})

	if err != nil {
		slog.Error("Verification failed", "mode", args.Verify, "root", root, "error", err)
		return fmt.Errorf("verify (%s): %w", args.Verify, err)
	}

	return nil
}

// processed is one pipeline result tagged with the position of its file.
type processed struct {
	index  int
	report m.FileReport
}

// process runs the pipeline over files with at most parallel workers and
// spills the reports in file order. A file that fails is reported as
// failed; only context cancellation and spill errors abort the run.
func (w *workflow) process(ctx context.Context, files []m.File, parallel int, progress func(m.FileReport)) (pkg.FileSpill[m.FileReport], error) {
	spill, err := pkg.NewFileSpill[m.FileReport](w.spillDir)
	if err != nil {
		return nil, fmt.Errorf("create spill: %w", err)
	}

	results := make(chan processed, max(parallel, 1))
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		defer close(results)

		var workers errgroup.Group
		workers.SetLimit(max(parallel, 1))

		for index, file := range files {
			if groupCtx.Err() != nil {
				break
			}

			workers.Go(func() error {
				report := w.processFile(groupCtx, file)

				select {
				case <-groupCtx.Done():
					return groupCtx.Err()
				case results <- processed{index: index, report: report}:
					return nil
				}
			})
		}

		if err := workers.Wait(); err != nil {
			return err
		}

		return groupCtx.Err()
	})

	group.Go(func() error {
		// Reorder buffer: results arrive in completion order but are
		// spilled in file order so patches and reports are stable.
		pending := make(map[int]m.FileReport)
		next := 0

		for result := range results {
			if progress != nil {
				progress(result.report)
			}

			pending[result.index] = result.report

			for {
				report, ok := pending[next]
				if !ok {
					break
				}

				delete(pending, next)
				next++

				if err := spill.Append(report); err != nil {
					return fmt.Errorf("spill %s: %w", report.File.ShortPath, err)
				}
			}
		}

		return nil
	})

	if err := group.Wait(); err != nil {
		closeSpill(spill)
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		closeSpill(spill)
		return nil, err
	}

	return spill, nil
}

func (w *workflow) processFile(ctx context.Context, file m.File) m.FileReport {
	report := m.FileReport{File: file}

	content, err := w.ReadFile(file.FullPath)
	if err != nil {
		slog.Error("Failed to read source file", "path", file.FullPath, "error", err)
		return failedReport(report, fmt.Errorf("read: %w", err))
	}

	report.Original = string(content)

	result, err := w.pipeline.Run(ctx, m.NewSourceUnit(file.FullPath, report.Original, w.grammar))
	if err != nil {
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			slog.Warn("Pipeline failed", "path", file.ShortPath, "error", err)
		}

		return failedReport(report, err)
	}

	report.Result = result.Text
	report.Applied = result.Applied
	report.Status = m.FileUnchanged

	if result.Changed {
		report.Status = m.FileChanged
	}

	return report
}

// View displays a saved run report.
func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	reports, err := w.LoadReports(args.Reports)
	if err != nil {
		slog.Error("Failed to load reports", "dir", args.Reports, "error", err)
		return fmt.Errorf("load reports: %w", err)
	}

	if err := w.Start(ctx, controller.WithViewMode()); err != nil {
		return err
	}
	defer w.Close(ctx)

	if err := w.DisplayReports(ctx, reports); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	w.DisplaySummary(ctx, m.Summarize(reports))
	w.Wait(ctx)

	return nil
}

// Merge combines the shard reports below args.Reports into one report.
func (w *workflow) Merge(ctx context.Context, args MergeArgs) error {
	reports, err := w.LoadShards(args.Reports)
	if err != nil {
		slog.Error("Failed to load shard reports", "dir", args.Reports, "error", err)
		return fmt.Errorf("load shards: %w", err)
	}

	if err := w.SaveReports(args.Reports, reports); err != nil {
		return fmt.Errorf("save merged reports: %w", err)
	}

	slog.Info("Merged shard reports", "dir", args.Reports, "files", len(reports))

	if err := w.Start(ctx, controller.WithViewMode()); err != nil {
		return err
	}
	defer w.Close(ctx)

	w.DisplaySummary(ctx, m.Summarize(reports))

	return nil
}

// ShardFiles returns the files of shard index out of total. Files are
// dealt round-robin in their given order; total <= 1 keeps every file.
func ShardFiles(files []m.File, index, total int) []m.File {
	if total <= 1 {
		return files
	}

	var shard []m.File

	for i, file := range files {
		if i%total == index {
			shard = append(shard, file)
		}
	}

	return shard
}

func failedReport(report m.FileReport, err error) m.FileReport {
	report.Status = m.FileFailed
	report.Error = err.Error()
	report.Result = ""

	return report
}

// lightReport drops the file contents kept for writing and patching.
func lightReport(report m.FileReport) m.FileReport {
	report.Original = ""
	report.Result = ""

	return report
}

func closeSpill(spill pkg.FileSpill[m.FileReport]) {
	if err := spill.Close(); err != nil {
		slog.Warn("Failed to close spill", "path", spill.Path(), "error", err)
	}

	if err := spill.Remove(); err != nil {
		slog.Warn("Failed to remove spill", "path", spill.Path(), "error", err)
	}
}
