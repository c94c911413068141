package adapter

import (
	"context"
	"fmt"
	"go/format"

	"golang.org/x/tools/imports"
	m "spruce.dev/pkg/spruce/internal/model"
)

// Step names of the Go formatting steps.
const (
	StepGofmt     = "gofmt"
	StepGoimports = "goimports"
)

// GofmtStep formats Go source with go/format.
type GofmtStep struct{}

// NewGofmtStep constructs a GofmtStep.
func NewGofmtStep() GofmtStep {
	return GofmtStep{}
}

func (GofmtStep) Name() string { return StepGofmt }

func (GofmtStep) Fingerprint() string { return "go:" + StepGofmt }

// Apply formats text. Unparseable input is an error.
func (GofmtStep) Apply(_ context.Context, path m.Path, text string) (m.StepOutput, error) {
	out, err := format.Source([]byte(text))
	if err != nil {
		return m.StepOutput{}, fmt.Errorf("gofmt %s: %w", path, err)
	}

	return m.StepOutput{Text: string(out)}, nil
}

// GoimportsStep formats Go source and sorts and groups import blocks the way
// goimports does. It never adds or removes imports, so the result depends on
// the text alone.
type GoimportsStep struct {
	options imports.Options
}

// NewGoimportsStep constructs a GoimportsStep using tab indentation.
func NewGoimportsStep() *GoimportsStep {
	return &GoimportsStep{
		options: imports.Options{
			Comments:   true,
			TabIndent:  true,
			TabWidth:   8,
			FormatOnly: true,
		},
	}
}

func (s *GoimportsStep) Name() string { return StepGoimports }

func (s *GoimportsStep) Fingerprint() string { return "go:" + StepGoimports + ":format-only" }

// Apply formats text with golang.org/x/tools/imports.
func (s *GoimportsStep) Apply(_ context.Context, path m.Path, text string) (m.StepOutput, error) {
	options := s.options

	out, err := imports.Process(string(path), []byte(text), &options)
	if err != nil {
		return m.StepOutput{}, fmt.Errorf("goimports %s: %w", path, err)
	}

	return m.StepOutput{Text: string(out)}, nil
}
