package domain

import (
	"context"
	"log/slog"
	"strings"

	m "spruce.dev/pkg/spruce/internal/model"
)

// Built-in step names, as used in configuration.
const (
	StepRefactor           = "refactor"
	StepTrailingWhitespace = "trailing-whitespace"
	StepFinalNewline       = "final-newline"
)

// RefactorerStep runs a Refactorer with a fixed selection as a pipeline step.
type RefactorerStep[T any] struct {
	refactorer *Refactorer[T]
	selection  RuleSelection[T]
}

// NewRefactorerStep creates a step applying selection with refactorer.
func NewRefactorerStep[T any](refactorer *Refactorer[T], selection RuleSelection[T]) *RefactorerStep[T] {
	return &RefactorerStep[T]{refactorer: refactorer, selection: selection}
}

// Name implements Step.
func (s *RefactorerStep[T]) Name() string {
	return StepRefactor
}

// Fingerprint implements Step.
func (s *RefactorerStep[T]) Fingerprint() string {
	return "refactorer:" + string(s.refactorer.Grammar()) + ":" + s.selection.Fingerprint()
}

// Apply implements Step. A parse failure is returned as *ParseError. Rules
// the file opts out of with IgnoreDirective are left out; a file ignoring
// every rule is returned as is, without being parsed.
func (s *RefactorerStep[T]) Apply(ctx context.Context, path m.Path, text string) (m.StepOutput, error) {
	selection := s.selection

	if ignore := ParseIgnoreRule(text); !ignore.Empty() {
		if ignore.All() {
			slog.Debug("Skipping file ignored by directive", "path", path)
			return m.StepOutput{Text: text}, nil
		}

		selection = selection.Without(ignore)
	}

	outcome, err := s.refactorer.Apply(ctx, path, text, selection)
	if err != nil {
		return m.StepOutput{}, err
	}

	return m.StepOutput{Text: outcome.Text, Applied: outcome.Accepted}, nil
}

// TrailingWhitespaceStep strips spaces and tabs at the end of every line.
// It is grammar agnostic and therefore also touches multi-line literals.
type TrailingWhitespaceStep struct{}

func (TrailingWhitespaceStep) Name() string { return StepTrailingWhitespace }

func (TrailingWhitespaceStep) Fingerprint() string { return "text:" + StepTrailingWhitespace }

func (TrailingWhitespaceStep) Apply(_ context.Context, _ m.Path, text string) (m.StepOutput, error) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}

	return m.StepOutput{Text: strings.Join(lines, "\n")}, nil
}

// FinalNewlineStep makes non-empty text end with exactly one newline.
type FinalNewlineStep struct{}

func (FinalNewlineStep) Name() string { return StepFinalNewline }

func (FinalNewlineStep) Fingerprint() string { return "text:" + StepFinalNewline }

func (FinalNewlineStep) Apply(_ context.Context, _ m.Path, text string) (m.StepOutput, error) {
	trimmed := strings.TrimRight(text, "\n")
	if trimmed == "" {
		return m.StepOutput{Text: trimmed}, nil
	}

	return m.StepOutput{Text: trimmed + "\n"}, nil
}
