package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGofmtStep(t *testing.T) {
	step := NewGofmtStep()

	assert.Equal(t, StepGofmt, step.Name())
	assert.Equal(t, "go:gofmt", step.Fingerprint())

	out, err := step.Apply(context.Background(), "a.go", "package a\nvar  x=1")
	require.NoError(t, err)
	assert.Equal(t, "package a\n\nvar x = 1\n", out.Text)
	assert.Empty(t, out.Applied)

	_, err = step.Apply(context.Background(), "a.go", "package a\nfunc {")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gofmt a.go")
}

func TestGoimportsStep(t *testing.T) {
	step := NewGoimportsStep()

	assert.Equal(t, StepGoimports, step.Name())

	src := "package a\n\nimport (\n\t\"strings\"\n\t\"github.com/example/lib\"\n\t\"fmt\"\n)\n\nvar _ = fmt.Sprint\nvar _ = strings.ToUpper\nvar _ = lib.X\n"
	want := "package a\n\nimport (\n\t\"fmt\"\n\t\"strings\"\n\n\t\"github.com/example/lib\"\n)\n\nvar _ = fmt.Sprint\nvar _ = strings.ToUpper\nvar _ = lib.X\n"

	out, err := step.Apply(context.Background(), "a.go", src)
	require.NoError(t, err)
	assert.Equal(t, want, out.Text)
}

func TestGoimportsStep_KeepsUnusedImports(t *testing.T) {
	src := "package a\n\nimport \"fmt\"\n"

	out, err := NewGoimportsStep().Apply(context.Background(), "a.go", src)

	require.NoError(t, err)
	assert.Equal(t, src, out.Text)
}
