package domain

import (
	"context"
	"fmt"
	"log/slog"

	m "spruce.dev/pkg/spruce/internal/model"
)

// Step is one stage of the formatting pipeline. Steps see text with "\n"
// terminators only.
type Step interface {
	Name() string
	// Fingerprint identifies the step and its configuration. Two steps with
	// the same fingerprint must produce the same output for the same text.
	Fingerprint() string
	Apply(ctx context.Context, path m.Path, text string) (m.StepOutput, error)
}

// PipelineResult is the output of a Pipeline run over one SourceUnit.
type PipelineResult struct {
	Text    string
	Changed bool
	// Applied lists accepted mutator ids across all steps, in order.
	Applied []string
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithLineEnding sets the policy used for units that carry none.
func WithLineEnding(policy m.LineEnding) PipelineOption {
	return func(p *Pipeline) {
		p.lineEnding = policy
	}
}

// WithFallbackTerminator sets the terminator used by the auto policy for
// texts without any line terminator.
func WithFallbackTerminator(terminator string) PipelineOption {
	return func(p *Pipeline) {
		p.fallback = terminator
	}
}

// WithStepCache memoizes step results in cache.
func WithStepCache(cache *StepCache) PipelineOption {
	return func(p *Pipeline) {
		p.cache = cache
	}
}

// Pipeline threads a source text through an ordered list of steps.
type Pipeline struct {
	steps      []Step
	lineEnding m.LineEnding
	fallback   string
	cache      *StepCache
}

// NewPipeline creates a Pipeline running steps in order.
func NewPipeline(steps []Step, options ...PipelineOption) *Pipeline {
	p := &Pipeline{
		steps:      steps,
		lineEnding: m.LineEndingAuto,
		fallback:   m.NativeTerminator(),
	}

	for _, option := range options {
		option(p)
	}

	return p
}

// Steps returns the step names in run order.
func (p *Pipeline) Steps() []string {
	names := make([]string, 0, len(p.steps))
	for _, step := range p.steps {
		names = append(names, step.Name())
	}

	return names
}

// Run normalizes unit to "\n" terminators, applies every step and converts
// the result to the resolved line ending. The result is flagged changed only
// when it differs from the raw input.
func (p *Pipeline) Run(ctx context.Context, unit m.SourceUnit) (PipelineResult, error) {
	policy := p.lineEnding
	if unit.LineEnding != "" {
		policy = unit.LineEnding
	}

	terminator := policy.Resolve(unit.Text, p.fallback)
	text := m.ToUnix(unit.Text)

	var applied []string

	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return PipelineResult{}, err
		}

		output, err := p.apply(ctx, step, unit.Path, text)
		if err != nil {
			slog.Debug("Pipeline step failed", "step", step.Name(), "path", unit.Path, "error", err)
			return PipelineResult{}, fmt.Errorf("%s: %w", step.Name(), err)
		}

		text = output.Text
		applied = append(applied, output.Applied...)
	}

	result := m.FromUnix(text, terminator)

	return PipelineResult{
		Text:    result,
		Changed: result != unit.Text,
		Applied: applied,
	}, nil
}

func (p *Pipeline) apply(ctx context.Context, step Step, path m.Path, text string) (m.StepOutput, error) {
	if p.cache == nil {
		return step.Apply(ctx, path, text)
	}

	return p.cache.Apply(ctx, step, path, text)
}
