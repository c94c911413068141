package domain_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domain "spruce.dev/pkg/spruce/internal/domain"
	m "spruce.dev/pkg/spruce/internal/model"
)

// upperStep upper-cases its input and counts invocations.
type upperStep struct {
	fingerprint string
	calls       atomic.Int32
	seen        []string
	mu          sync.Mutex
}

func (s *upperStep) Name() string        { return "upper" }
func (s *upperStep) Fingerprint() string { return s.fingerprint }

func (s *upperStep) Apply(_ context.Context, _ m.Path, text string) (m.StepOutput, error) {
	s.calls.Add(1)

	s.mu.Lock()
	s.seen = append(s.seen, text)
	s.mu.Unlock()

	return m.StepOutput{Text: strings.ToUpper(text), Applied: []string{"upper"}}, nil
}

type failingStep struct{}

func (failingStep) Name() string        { return "failing" }
func (failingStep) Fingerprint() string { return "failing" }

func (failingStep) Apply(context.Context, m.Path, string) (m.StepOutput, error) {
	return m.StepOutput{}, errors.New("step broke")
}

func TestPipeline_Run(t *testing.T) {
	tests := []struct {
		name    string
		options []domain.PipelineOption
		unit    m.SourceUnit
		want    string
		seen    string
	}{
		{
			name: "keeps crlf",
			unit: m.NewSourceUnit("a.txt", "ab\r\ncd\r\n", "text"),
			want: "AB\r\nCD\r\n",
			seen: "ab\ncd\n",
		},
		{
			name: "majority wins",
			unit: m.NewSourceUnit("a.txt", "a\r\nb\nc\n", "text"),
			want: "A\nB\nC\n",
			seen: "a\nb\nc\n",
		},
		{
			name: "unit policy overrides pipeline",
			options: []domain.PipelineOption{
				domain.WithLineEnding(m.LineEndingLF),
			},
			unit: m.SourceUnit{Path: "a.txt", Text: "a\nb\n", LineEnding: m.LineEndingCR},
			want: "A\rB\r",
			seen: "a\nb\n",
		},
		{
			name: "pipeline policy when unit has none",
			options: []domain.PipelineOption{
				domain.WithLineEnding(m.LineEndingCRLF),
			},
			unit: m.SourceUnit{Path: "a.txt", Text: "a\nb\n"},
			want: "A\r\nB\r\n",
			seen: "a\nb\n",
		},
		{
			name: "fallback without terminators",
			options: []domain.PipelineOption{
				domain.WithFallbackTerminator("\r\n"),
			},
			unit: m.NewSourceUnit("a.txt", "single", "text"),
			want: "SINGLE",
			seen: "single",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			step := &upperStep{fingerprint: "upper"}
			pipeline := domain.NewPipeline([]domain.Step{step}, tt.options...)

			result, err := pipeline.Run(context.Background(), tt.unit)

			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Text)
			assert.True(t, result.Changed)
			assert.Equal(t, []string{"upper"}, result.Applied)
			assert.Equal(t, []string{tt.seen}, step.seen)
		})
	}
}

func TestPipeline_UnchangedWhenOutputEqualsInput(t *testing.T) {
	pipeline := domain.NewPipeline([]domain.Step{&upperStep{fingerprint: "upper"}})

	result, err := pipeline.Run(context.Background(), m.NewSourceUnit("a.txt", "ALREADY\r\nUPPER\r\n", "text"))

	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Equal(t, "ALREADY\r\nUPPER\r\n", result.Text)
}

func TestPipeline_LineEndingChangeIsAChange(t *testing.T) {
	pipeline := domain.NewPipeline([]domain.Step{domain.FinalNewlineStep{}})

	result, err := pipeline.Run(context.Background(), m.SourceUnit{Path: "a.txt", Text: "x\r\n", LineEnding: m.LineEndingLF})

	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, "x\n", result.Text)
}

func TestPipeline_StepError(t *testing.T) {
	pipeline := domain.NewPipeline([]domain.Step{failingStep{}})

	_, err := pipeline.Run(context.Background(), m.NewSourceUnit("a.txt", "x", "text"))

	require.EqualError(t, err, "failing: step broke")
}

func TestPipeline_ParseErrorSurvivesWrapping(t *testing.T) {
	refactorer := domain.NewRefactorer[*textTree](textGrammar{})
	step := domain.NewRefactorerStep(refactorer, selectionOf(newReplace("a", "x", "y")))
	pipeline := domain.NewPipeline([]domain.Step{step})

	_, err := pipeline.Run(context.Background(), m.NewSourceUnit("a.txt", "unparseable", "text"))

	var parseErr *domain.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestPipeline_Canceled(t *testing.T) {
	pipeline := domain.NewPipeline([]domain.Step{&upperStep{fingerprint: "upper"}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pipeline.Run(ctx, m.NewSourceUnit("a.txt", "x", "text"))

	require.ErrorIs(t, err, context.Canceled)
}

func TestPipeline_Steps(t *testing.T) {
	pipeline := domain.NewPipeline([]domain.Step{domain.TrailingWhitespaceStep{}, domain.FinalNewlineStep{}})

	assert.Equal(t, []string{"trailing-whitespace", "final-newline"}, pipeline.Steps())
}

func TestPipeline_WithCache(t *testing.T) {
	cache, err := domain.NewStepCache(16)
	require.NoError(t, err)

	step := &upperStep{fingerprint: "upper"}
	pipeline := domain.NewPipeline([]domain.Step{step}, domain.WithStepCache(cache))

	for range 3 {
		result, err := pipeline.Run(context.Background(), m.NewSourceUnit("a.txt", "same\n", "text"))
		require.NoError(t, err)
		assert.Equal(t, "SAME\n", result.Text)
	}

	assert.Equal(t, int32(1), step.calls.Load())
}
