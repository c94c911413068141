package domain_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domain "spruce.dev/pkg/spruce/internal/domain"
)

func TestTrailingWhitespaceStep(t *testing.T) {
	output, err := domain.TrailingWhitespaceStep{}.Apply(context.Background(), "a.txt", "a  \n\tb\t\n  \nc")

	require.NoError(t, err)
	assert.Equal(t, "a\n\tb\n\nc", output.Text)
	assert.Empty(t, output.Applied)
}

func TestFinalNewlineStep(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "missing", in: "a", want: "a\n"},
		{name: "present", in: "a\n", want: "a\n"},
		{name: "many", in: "a\n\n\n", want: "a\n"},
		{name: "empty", in: "", want: ""},
		{name: "only newlines", in: "\n\n", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := domain.FinalNewlineStep{}.Apply(context.Background(), "a.txt", tt.in)

			require.NoError(t, err)
			assert.Equal(t, tt.want, output.Text)
		})
	}
}

func TestRefactorerStep(t *testing.T) {
	refactorer := domain.NewRefactorer[*textTree](textGrammar{})
	step := domain.NewRefactorerStep(refactorer, selectionOf(newReplace("swap", "a", "b")))

	assert.Equal(t, domain.StepRefactor, step.Name())
	assert.Equal(t, "refactorer:text:1.21|swap", step.Fingerprint())

	output, err := step.Apply(context.Background(), "a.txt", "a")

	require.NoError(t, err)
	assert.Equal(t, "b", output.Text)
	assert.Equal(t, []string{"swap"}, output.Applied)
}

func TestRefactorerStep_IgnoreDirective(t *testing.T) {
	refactorer := domain.NewRefactorer[*textTree](textGrammar{})

	t.Run("named rule", func(t *testing.T) {
		suffix := func(id string) domain.Mutator[*textTree] {
			return newFunc(id, func(tree *textTree) (bool, error) {
				tree.text += "+" + id
				return true, nil
			})
		}
		step := domain.NewRefactorerStep(refactorer, selectionOf(suffix("first"), suffix("second")))

		output, err := step.Apply(context.Background(), "a.txt", "//spruce:ignore FIRST\nx")

		require.NoError(t, err)
		assert.Equal(t, "//spruce:ignore FIRST\nx+second", output.Text)
		assert.Equal(t, []string{"second"}, output.Applied)
	})

	t.Run("every rule", func(t *testing.T) {
		step := domain.NewRefactorerStep(refactorer, selectionOf(newReplace("swap", "unparseable", "b")))

		output, err := step.Apply(context.Background(), "a.txt", "//spruce:ignore\nunparseable")

		require.NoError(t, err)
		assert.Equal(t, "//spruce:ignore\nunparseable", output.Text)
		assert.Empty(t, output.Applied)
	})
}
