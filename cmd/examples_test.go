package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spruce.dev/pkg/spruce/internal/adapter"
	"spruce.dev/pkg/spruce/internal/controller"
	"spruce.dev/pkg/spruce/internal/domain"
	m "spruce.dev/pkg/spruce/internal/model"
)

// cleanExample dry-runs the configured pipeline over one module of
// examples/. The target version comes from that module's go.mod.
func cleanExample(t *testing.T, name string) (m.Summary, string, error) {
	t.Helper()

	root := m.Path(filepath.Join("..", "examples", name))

	paths := []m.Path{root + "/..."}

	pipeline, err := buildPipeline(paths)
	require.NoError(t, err)

	out := &bytes.Buffer{}

	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})

	wf := domain.NewWorkflow(
		fsAdapter,
		reportStore,
		adapter.NewLocalTestRunnerAdapter(0),
		controller.NewSimpleUI(cmd, false),
		pipeline,
		domain.WithSpillDir(t.TempDir()),
	)

	summary, err := wf.Clean(context.Background(), domain.CleanArgs{
		EstimateArgs: domain.EstimateArgs{
			Paths:    paths,
			Parallel: 2,
		},
	})

	return summary, out.String(), err
}

func TestExamples_Modern(t *testing.T) {
	summary, output, err := cleanExample(t, "modern")
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Changed)
	assert.Zero(t, summary.Failed)

	for _, id := range []string{"UseAnyAlias", "RangeOverInt", "RangeOverLen", "SimplifyForRange", "SimplifySliceExpr", "SimplifyBoolComparison", "RedundantElse", "RedundantZeroInit"} {
		assert.Contains(t, summary.Applied, id)
	}

	for _, want := range []string{
		"+\titems map[string]any",
		"+\tfor i := range missing {",
		"+\tfor i := range labels {",
		"+\tfor name := range s.items {",
		"+\treturn labels[1:]",
		"+\t\tif hidden {",
		"+var verbose bool",
	} {
		assert.Contains(t, output, want)
	}
}

func TestExamples_Compat(t *testing.T) {
	summary, output, err := cleanExample(t, "compat")
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Changed)
	assert.NotContains(t, summary.Applied, "UseAnyAlias", "any needs go 1.18")
	assert.NotContains(t, summary.Applied, "RangeOverInt", "range over int needs go 1.22")
	assert.Contains(t, summary.Applied, "RedundantZeroInit")
	assert.Contains(t, summary.Applied, "SimplifySliceExpr")
	assert.NotContains(t, output, "map[string]any")
}

func TestExamples_Invalid(t *testing.T) {
	summary, _, err := cleanExample(t, "invalid")
	require.ErrorIs(t, err, domain.ErrFilesFailed)

	assert.Equal(t, 2, summary.Files)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Unchanged)
}

func TestExamples_Ignored(t *testing.T) {
	summary, output, err := cleanExample(t, "ignored")
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Changed)
	assert.NotContains(t, summary.Applied, "UseAnyAlias")
	assert.Contains(t, summary.Applied, "SimplifyForRange")
	assert.NotContains(t, output, "map[string]any")
}
