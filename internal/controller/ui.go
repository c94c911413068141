// Package controller provides output adapters for displaying cleanup runs.
package controller

import (
	"context"

	m "spruce.dev/pkg/spruce/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeEstimate StartMode = iota
	ModeClean
	ModeView
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// Mode returns the configured mode.
func (c StartConfig) Mode() StartMode {
	return c.mode
}

// WithEstimateMode sets the UI to estimation mode.
func WithEstimateMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeEstimate
	}
}

// WithCleanMode sets the UI to cleanup mode.
func WithCleanMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeClean
	}
}

// WithViewMode sets the UI to report viewing mode.
func WithViewMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeView
	}
}

func newStartConfig(options ...StartOption) StartConfig {
	config := StartConfig{mode: ModeClean}
	for _, option := range options {
		option(&config)
	}

	return config
}

// RunInfo describes a cleanup run before its files are processed.
type RunInfo struct {
	Files      int
	Parallel   int
	ShardIndex int
	ShardCount int
	Steps      []string
}

// Verification is the outcome of the post-write build check.
type Verification struct {
	Mode   string
	Output string
	Err    error
}

// UI defines the interface for displaying cleanup progress and results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)
	DisplayRunInfo(ctx context.Context, info RunInfo)
	DisplayFileReport(ctx context.Context, report m.FileReport)
	DisplayEstimation(ctx context.Context, reports []m.FileReport) error
	DisplayPatch(ctx context.Context, patch string)
	DisplayVerification(ctx context.Context, verification Verification)
	DisplaySummary(ctx context.Context, summary m.Summary)
	DisplayReports(ctx context.Context, reports []m.FileReport) error
	DisplayRules(ctx context.Context, rules []m.RuleInfo) error
}
