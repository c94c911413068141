package domain_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"spruce.dev/pkg/spruce/internal/adapter"
	adaptermocks "spruce.dev/pkg/spruce/internal/adapter/mocks"
	"spruce.dev/pkg/spruce/internal/controller"
	controllermocks "spruce.dev/pkg/spruce/internal/controller/mocks"
	domain "spruce.dev/pkg/spruce/internal/domain"
	m "spruce.dev/pkg/spruce/internal/model"
)

// shoutStep upper-cases sources and rejects those containing "broken" as
// unparseable.
type shoutStep struct{}

func (shoutStep) Name() string        { return "shout" }
func (shoutStep) Fingerprint() string { return "shout" }

func (shoutStep) Apply(_ context.Context, path m.Path, text string) (m.StepOutput, error) {
	if strings.Contains(text, "broken") {
		return m.StepOutput{}, &domain.ParseError{Path: path, Grammar: m.GrammarGo, Err: errors.New("expected 'package'")}
	}

	upper := strings.ToUpper(text)
	if upper == text {
		return m.StepOutput{Text: text}, nil
	}

	return m.StepOutput{Text: upper, Applied: []string{"Shout"}}, nil
}

type workflowMocks struct {
	fs     *adaptermocks.MockSourceFSAdapter
	store  *adaptermocks.MockReportStore
	runner *adaptermocks.MockTestRunnerAdapter
	ui     *controllermocks.MockUI
}

func newWorkflow(t *testing.T) (domain.Workflow, workflowMocks) {
	t.Helper()

	mocks := workflowMocks{
		fs:     adaptermocks.NewMockSourceFSAdapter(t),
		store:  adaptermocks.NewMockReportStore(t),
		runner: adaptermocks.NewMockTestRunnerAdapter(t),
		ui:     controllermocks.NewMockUI(t),
	}

	pipeline := domain.NewPipeline([]domain.Step{shoutStep{}})
	wf := domain.NewWorkflow(mocks.fs, mocks.store, mocks.runner, mocks.ui, pipeline, domain.WithSpillDir(t.TempDir()))

	return wf, mocks
}

func goFiles(names ...string) []m.File {
	files := make([]m.File, 0, len(names))
	for _, name := range names {
		files = append(files, m.File{FullPath: m.Path("/src/" + name), ShortPath: m.Path(name)})
	}

	return files
}

var sources = map[m.Path]string{
	"/src/a.go": "package a\n",
	"/src/b.go": "PACKAGE B\n",
	"/src/c.go": "broken\n",
	"/src/d.go": "package d\n",
}

func expectSources(mocks workflowMocks, files []m.File) {
	for _, file := range files {
		mocks.fs.EXPECT().ReadFile(file.FullPath).Return([]byte(sources[file.FullPath]), nil).Once()
	}
}

func TestWorkflow_Clean_Write(t *testing.T) {
	wf, mocks := newWorkflow(t)
	files := goFiles("a.go", "b.go", "c.go")

	mocks.ui.EXPECT().Start(mock.Anything, mock.Anything).Return(nil).Once()
	mocks.fs.EXPECT().Get([]m.Path{"./..."}).Return(files, nil).Once()
	mocks.ui.EXPECT().DisplayRunInfo(mock.Anything, mock.MatchedBy(func(info controller.RunInfo) bool {
		return info.Files == 3 && info.Parallel == 2 && assert.ObjectsAreEqual([]string{"shout"}, info.Steps)
	})).Return().Once()
	expectSources(mocks, files)
	mocks.ui.EXPECT().DisplayFileReport(mock.Anything, mock.Anything).Return().Times(3)
	mocks.fs.EXPECT().WriteFile(m.Path("/src/a.go"), []byte("PACKAGE A\n")).Return(nil).Once()
	mocks.ui.EXPECT().DisplaySummary(mock.Anything, mock.MatchedBy(func(summary m.Summary) bool {
		return summary.Files == 3 && summary.Changed == 1 && summary.Unchanged == 1 && summary.Failed == 1 &&
			summary.Applied["Shout"] == 1
	})).Return().Once()
	mocks.ui.EXPECT().Wait(mock.Anything).Return().Once()
	mocks.ui.EXPECT().Close(mock.Anything).Return().Once()

	summary, err := wf.Clean(context.Background(), domain.CleanArgs{
		EstimateArgs: domain.EstimateArgs{Paths: []m.Path{"./..."}, Parallel: 2},
		Write:        true,
	})

	require.ErrorIs(t, err, domain.ErrFilesFailed)
	assert.Equal(t, 1, summary.Failed)
}

func TestWorkflow_Clean_PatchAndShardReports(t *testing.T) {
	wf, mocks := newWorkflow(t)
	files := goFiles("a.go", "b.go", "c.go", "d.go")
	shard := []m.File{files[1], files[3]}

	mocks.ui.EXPECT().Start(mock.Anything, mock.Anything).Return(nil).Once()
	mocks.fs.EXPECT().Get([]m.Path{"."}, "_gen\\.go$").Return(files, nil).Once()
	mocks.ui.EXPECT().DisplayRunInfo(mock.Anything, mock.MatchedBy(func(info controller.RunInfo) bool {
		return info.Files == 2 && info.ShardIndex == 1 && info.ShardCount == 2
	})).Return().Once()
	expectSources(mocks, shard)
	mocks.ui.EXPECT().DisplayFileReport(mock.Anything, mock.Anything).Return().Times(2)
	mocks.ui.EXPECT().DisplayPatch(mock.Anything, mock.MatchedBy(func(patch string) bool {
		return strings.Contains(patch, "+++ b/d.go") && strings.Contains(patch, "+PACKAGE D") &&
			!strings.Contains(patch, "b.go")
	})).Return().Once()
	mocks.store.EXPECT().SaveReports(adapter.ShardReportDir("reports", 1), mock.MatchedBy(func(reports []m.FileReport) bool {
		return len(reports) == 2 &&
			reports[0].File.ShortPath == "b.go" && reports[0].Status == m.FileUnchanged &&
			reports[1].File.ShortPath == "d.go" && reports[1].Status == m.FileChanged &&
			reports[1].Original == "" && reports[1].Result == ""
	})).Return(nil).Once()
	mocks.ui.EXPECT().DisplaySummary(mock.Anything, mock.Anything).Return().Once()
	mocks.ui.EXPECT().Wait(mock.Anything).Return().Once()
	mocks.ui.EXPECT().Close(mock.Anything).Return().Once()

	summary, err := wf.Clean(context.Background(), domain.CleanArgs{
		EstimateArgs:    domain.EstimateArgs{Paths: []m.Path{"."}, Exclude: []string{"_gen\\.go$"}, Parallel: 4},
		Reports:         "reports",
		ShardIndex:      1,
		TotalShardCount: 2,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, summary.Files)
	assert.Equal(t, 1, summary.Changed)
}

func TestWorkflow_Clean_PatchFile(t *testing.T) {
	wf, mocks := newWorkflow(t)
	files := goFiles("a.go")

	mocks.ui.EXPECT().Start(mock.Anything, mock.Anything).Return(nil).Once()
	mocks.fs.EXPECT().Get([]m.Path{"a.go"}).Return(files, nil).Once()
	mocks.ui.EXPECT().DisplayRunInfo(mock.Anything, mock.Anything).Return().Once()
	expectSources(mocks, files)
	mocks.ui.EXPECT().DisplayFileReport(mock.Anything, mock.Anything).Return().Once()
	mocks.fs.EXPECT().WriteFile(m.Path("out.patch"), mock.MatchedBy(func(content []byte) bool {
		return strings.HasPrefix(string(content), "--- a/a.go\n+++ b/a.go\n")
	})).Return(nil).Once()
	mocks.ui.EXPECT().DisplaySummary(mock.Anything, mock.Anything).Return().Once()
	mocks.ui.EXPECT().Wait(mock.Anything).Return().Once()
	mocks.ui.EXPECT().Close(mock.Anything).Return().Once()

	_, err := wf.Clean(context.Background(), domain.CleanArgs{
		EstimateArgs: domain.EstimateArgs{Paths: []m.Path{"a.go"}},
		Patch:        "out.patch",
	})

	require.NoError(t, err)
}

func TestWorkflow_Clean_VerifyFails(t *testing.T) {
	wf, mocks := newWorkflow(t)
	files := goFiles("a.go")
	buildErr := errors.New("exit status 1")

	mocks.ui.EXPECT().Start(mock.Anything, mock.Anything).Return(nil).Once()
	mocks.fs.EXPECT().Get([]m.Path{"./..."}).Return(files, nil).Once()
	mocks.ui.EXPECT().DisplayRunInfo(mock.Anything, mock.Anything).Return().Once()
	expectSources(mocks, files)
	mocks.ui.EXPECT().DisplayFileReport(mock.Anything, mock.Anything).Return().Once()
	mocks.fs.EXPECT().WriteFile(m.Path("/src/a.go"), mock.Anything).Return(nil).Once()
	mocks.fs.EXPECT().FindProjectRoot(m.Path("/src/a.go")).Return(m.Path("/src"), nil).Once()
	mocks.runner.EXPECT().Run(mock.Anything, m.Path("/src"), adapter.VerifyBuild).Return("a.go:1: syntax error", buildErr).Once()
	mocks.ui.EXPECT().DisplayVerification(mock.Anything, controller.Verification{
		Mode:   "build",
		Output: "a.go:1: syntax error",
		Err:    buildErr,
	}).Return().Once()
	mocks.ui.EXPECT().Close(mock.Anything).Return().Once()

	_, err := wf.Clean(context.Background(), domain.CleanArgs{
		EstimateArgs: domain.EstimateArgs{Paths: []m.Path{"./..."}},
		Write:        true,
		Verify:       adapter.VerifyBuild,
	})

	require.ErrorIs(t, err, buildErr)
	assert.Contains(t, err.Error(), "verify (build)")
}

func TestWorkflow_Clean_Errors(t *testing.T) {
	t.Run("start", func(t *testing.T) {
		wf, mocks := newWorkflow(t)
		startErr := errors.New("no terminal")

		mocks.ui.EXPECT().Start(mock.Anything, mock.Anything).Return(startErr).Once()

		_, err := wf.Clean(context.Background(), domain.CleanArgs{})
		require.ErrorIs(t, err, startErr)
	})

	t.Run("get", func(t *testing.T) {
		wf, mocks := newWorkflow(t)
		getErr := errors.New("bad pattern")

		mocks.ui.EXPECT().Start(mock.Anything, mock.Anything).Return(nil).Once()
		mocks.fs.EXPECT().Get([]m.Path{"./..."}).Return(nil, getErr).Once()
		mocks.ui.EXPECT().Close(mock.Anything).Return().Once()

		_, err := wf.Clean(context.Background(), domain.CleanArgs{
			EstimateArgs: domain.EstimateArgs{Paths: []m.Path{"./..."}},
		})
		require.ErrorIs(t, err, getErr)
	})

	t.Run("read", func(t *testing.T) {
		wf, mocks := newWorkflow(t)
		files := goFiles("a.go")

		mocks.ui.EXPECT().Start(mock.Anything, mock.Anything).Return(nil).Once()
		mocks.fs.EXPECT().Get(mock.Anything).Return(files, nil).Once()
		mocks.ui.EXPECT().DisplayRunInfo(mock.Anything, mock.Anything).Return().Once()
		mocks.fs.EXPECT().ReadFile(m.Path("/src/a.go")).Return(nil, errors.New("permission denied")).Once()
		mocks.ui.EXPECT().DisplayFileReport(mock.Anything, mock.MatchedBy(func(report m.FileReport) bool {
			return report.Status == m.FileFailed && strings.Contains(report.Error, "permission denied")
		})).Return().Once()
		mocks.ui.EXPECT().DisplaySummary(mock.Anything, mock.Anything).Return().Once()
		mocks.ui.EXPECT().Wait(mock.Anything).Return().Once()
		mocks.ui.EXPECT().Close(mock.Anything).Return().Once()

		_, err := wf.Clean(context.Background(), domain.CleanArgs{})
		require.ErrorIs(t, err, domain.ErrFilesFailed)
	})

	t.Run("canceled", func(t *testing.T) {
		wf, mocks := newWorkflow(t)
		files := goFiles("a.go", "b.go")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		mocks.ui.EXPECT().Start(mock.Anything, mock.Anything).Return(nil).Once()
		mocks.fs.EXPECT().Get(mock.Anything).Return(files, nil).Once()
		mocks.ui.EXPECT().DisplayRunInfo(mock.Anything, mock.Anything).Return().Once()
		mocks.fs.EXPECT().ReadFile(mock.Anything).Return([]byte("package a\n"), nil).Maybe()
		mocks.ui.EXPECT().DisplayFileReport(mock.Anything, mock.Anything).Return().Maybe()
		mocks.ui.EXPECT().Close(mock.Anything).Return().Once()

		_, err := wf.Clean(ctx, domain.CleanArgs{})
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestWorkflow_Estimate(t *testing.T) {
	wf, mocks := newWorkflow(t)
	files := goFiles("a.go", "b.go", "c.go")

	mocks.ui.EXPECT().Start(mock.Anything, mock.Anything).Return(nil).Once()
	mocks.fs.EXPECT().Get([]m.Path{"./..."}).Return(files, nil).Once()
	expectSources(mocks, files)
	mocks.ui.EXPECT().DisplayEstimation(mock.Anything, mock.MatchedBy(func(reports []m.FileReport) bool {
		return len(reports) == 3 &&
			assert.ObjectsAreEqual([]string{"Shout"}, reports[0].Applied) &&
			reports[1].Status == m.FileUnchanged &&
			reports[2].Status == m.FileFailed
	})).Return(nil).Once()
	mocks.ui.EXPECT().Wait(mock.Anything).Return().Once()
	mocks.ui.EXPECT().Close(mock.Anything).Return().Once()

	err := wf.Estimate(context.Background(), domain.EstimateArgs{Paths: []m.Path{"./..."}})
	require.NoError(t, err)
}

func TestWorkflow_View(t *testing.T) {
	reports := []m.FileReport{
		{File: m.File{ShortPath: "a.go"}, Status: m.FileChanged, Applied: []string{"UseAnyAlias"}},
		{File: m.File{ShortPath: "b.go"}, Status: m.FileUnchanged},
	}

	t.Run("success", func(t *testing.T) {
		wf, mocks := newWorkflow(t)

		mocks.store.EXPECT().LoadReports(m.Path("reports")).Return(reports, nil).Once()
		mocks.ui.EXPECT().Start(mock.Anything, mock.Anything).Return(nil).Once()
		mocks.ui.EXPECT().DisplayReports(mock.Anything, reports).Return(nil).Once()
		mocks.ui.EXPECT().DisplaySummary(mock.Anything, m.Summarize(reports)).Return().Once()
		mocks.ui.EXPECT().Wait(mock.Anything).Return().Once()
		mocks.ui.EXPECT().Close(mock.Anything).Return().Once()

		require.NoError(t, wf.View(context.Background(), domain.ViewArgs{Reports: "reports"}))
	})

	t.Run("missing reports", func(t *testing.T) {
		wf, mocks := newWorkflow(t)

		mocks.store.EXPECT().LoadReports(m.Path("reports")).Return(nil, adapter.ErrNoReports).Once()

		err := wf.View(context.Background(), domain.ViewArgs{Reports: "reports"})
		require.ErrorIs(t, err, adapter.ErrNoReports)
	})
}

func TestWorkflow_Merge(t *testing.T) {
	reports := []m.FileReport{
		{File: m.File{ShortPath: "a.go"}, Status: m.FileChanged},
		{File: m.File{ShortPath: "b.go"}, Status: m.FileFailed, Error: "parse"},
	}

	wf, mocks := newWorkflow(t)

	mocks.store.EXPECT().LoadShards(m.Path("reports")).Return(reports, nil).Once()
	mocks.store.EXPECT().SaveReports(m.Path("reports"), reports).Return(nil).Once()
	mocks.ui.EXPECT().Start(mock.Anything, mock.Anything).Return(nil).Once()
	mocks.ui.EXPECT().DisplaySummary(mock.Anything, m.Summarize(reports)).Return().Once()
	mocks.ui.EXPECT().Close(mock.Anything).Return().Once()

	require.NoError(t, wf.Merge(context.Background(), domain.MergeArgs{Reports: "reports"}))
}

func TestShardFiles(t *testing.T) {
	files := goFiles("a.go", "b.go", "c.go", "d.go", "e.go")

	tests := []struct {
		name  string
		index int
		total int
		want  []string
	}{
		{name: "unsharded", index: 0, total: 1, want: []string{"a.go", "b.go", "c.go", "d.go", "e.go"}},
		{name: "zero total", index: 0, total: 0, want: []string{"a.go", "b.go", "c.go", "d.go", "e.go"}},
		{name: "first of two", index: 0, total: 2, want: []string{"a.go", "c.go", "e.go"}},
		{name: "second of two", index: 1, total: 2, want: []string{"b.go", "d.go"}},
		{name: "more shards than files", index: 6, total: 7, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, file := range domain.ShardFiles(files, tt.index, tt.total) {
				got = append(got, string(file.ShortPath))
			}

			assert.Equal(t, tt.want, got)
		})
	}
}
