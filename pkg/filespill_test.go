package pkg

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type spilledFile struct {
	Path    string
	Applied []string
	Result  string
}

func newSpill[T any](t *testing.T, items ...T) FileSpill[T] {
	t.Helper()

	spill, err := NewFileSpill[T](t.TempDir())
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = spill.Remove()
	})

	for _, item := range items {
		require.NoError(t, spill.Append(item))
	}

	return spill
}

func collect[T any](t *testing.T, spill FileSpill[T]) []T {
	t.Helper()

	var items []T

	require.NoError(t, spill.Range(func(_ uint64, item T) error {
		items = append(items, item)
		return nil
	}))

	return items
}

func TestNewFileSpill(t *testing.T) {
	t.Run("in given directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested")

		spill, err := NewFileSpill[int](dir)
		require.NoError(t, err)
		defer spill.Remove()

		assert.Equal(t, dir, filepath.Dir(spill.Path()))
		assert.FileExists(t, spill.Path())
		assert.Equal(t, uint64(0), spill.Len())
	})

	t.Run("default directory", func(t *testing.T) {
		assert.Equal(t, filepath.Join(os.TempDir(), "spruce"), DefaultSpillDir())
	})

	t.Run("directory is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "taken")
		require.NoError(t, os.WriteFile(file, nil, 0o600))

		_, err := NewFileSpill[int](file)
		require.Error(t, err)
	})
}

func TestFileSpill_Range(t *testing.T) {
	t.Run("structs in append order", func(t *testing.T) {
		first := spilledFile{Path: "a.go", Applied: []string{"UseAnyAlias"}, Result: "package a\n"}
		second := spilledFile{Path: "b.go"}

		spill := newSpill(t, first, second)

		assert.Equal(t, uint64(2), spill.Len())
		assert.Equal(t, []spilledFile{first, second}, collect(t, spill))
	})

	t.Run("interleaved with appends", func(t *testing.T) {
		spill := newSpill(t, "x.go")
		assert.Equal(t, []string{"x.go"}, collect(t, spill))

		require.NoError(t, spill.Append("y.go"))
		assert.Equal(t, []string{"x.go", "y.go"}, collect(t, spill))
	})

	t.Run("callback error stops", func(t *testing.T) {
		spill := newSpill(t, 1, 2, 3)

		stop := errors.New("stop")
		visited := 0

		err := spill.Range(func(index uint64, _ int) error {
			visited++
			if index == 1 {
				return stop
			}

			return nil
		})
		require.ErrorIs(t, err, stop)
		assert.Equal(t, 2, visited)
	})

	t.Run("empty", func(t *testing.T) {
		spill := newSpill[int](t)

		err := spill.Range(func(uint64, int) error {
			t.Fatal("no items expected")
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("file removed", func(t *testing.T) {
		spill := newSpill(t, 1)
		require.NoError(t, spill.Remove())

		err := spill.Range(func(uint64, int) error { return nil })
		require.Error(t, err)
	})
}

func TestFileSpill_Close(t *testing.T) {
	spill := newSpill(t, 7, 8)

	require.NoError(t, spill.Close())
	require.NoError(t, spill.Close(), "closing twice is not an error")

	require.ErrorIs(t, spill.Append(9), ErrSpillClosed)
	assert.Equal(t, []int{7, 8}, collect(t, spill), "items stay readable after close")
}

func TestFileSpill_Remove(t *testing.T) {
	spill, err := NewFileSpill[int](t.TempDir())
	require.NoError(t, err)

	require.NoError(t, spill.Append(7))
	require.NoError(t, spill.Remove())
	assert.NoFileExists(t, spill.Path())

	require.ErrorIs(t, spill.Append(8), ErrSpillClosed)
	require.NoError(t, spill.Remove(), "removing twice is not an error")
}

func BenchmarkFileSpill_Append(b *testing.B) {
	spill, err := NewFileSpill[spilledFile](b.TempDir())
	if err != nil {
		b.Fatalf("failed to create filespill: %v", err)
	}
	defer spill.Remove()

	item := spilledFile{Path: "a.go", Applied: []string{"RangeOverInt"}, Result: "package a\n"}

	b.ResetTimer()

	for range b.N {
		_ = spill.Append(item)
	}
}
