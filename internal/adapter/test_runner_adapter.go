package adapter

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	m "spruce.dev/pkg/spruce/internal/model"
)

// VerifyMode is the go command used to check rewritten packages.
type VerifyMode string

// Available VerifyMode values.
const (
	VerifyNone  VerifyMode = ""
	VerifyBuild VerifyMode = "build"
	VerifyVet   VerifyMode = "vet"
	VerifyTest  VerifyMode = "test"
)

// ParseVerifyMode validates a configured verify mode.
func ParseVerifyMode(value string) (VerifyMode, error) {
	switch mode := VerifyMode(value); mode {
	case VerifyNone, VerifyBuild, VerifyVet, VerifyTest:
		return mode, nil
	case "none":
		return VerifyNone, nil
	default:
		return "", fmt.Errorf("unknown verify mode %q (want build, vet, test or none)", value)
	}
}

// TestRunnerAdapter runs the go tool against a module after files have been
// rewritten.
type TestRunnerAdapter interface {
	// Run executes "go <mode> <targets...>" in workDir and returns the
	// combined stdout/stderr output.
	Run(ctx context.Context, workDir m.Path, mode VerifyMode, targets ...string) (output string, err error)
}

// LocalTestRunnerAdapter provides a concrete implementation using os/exec.
type LocalTestRunnerAdapter struct {
	timeout time.Duration
}

// NewLocalTestRunnerAdapter constructs a LocalTestRunnerAdapter with timeout.
// A zero timeout selects five minutes.
func NewLocalTestRunnerAdapter(timeout time.Duration) *LocalTestRunnerAdapter {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	return &LocalTestRunnerAdapter{timeout: timeout}
}

// Run executes the go command. VerifyNone is a no-op.
func (a *LocalTestRunnerAdapter) Run(ctx context.Context, workDir m.Path, mode VerifyMode, targets ...string) (string, error) {
	if mode == VerifyNone {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	if len(targets) == 0 {
		targets = []string{"./..."}
	}

	args := append([]string{string(mode)}, targets...)

	// #nosec G204 - mode is validated by ParseVerifyMode
	cmd := exec.CommandContext(ctx, "go", args...)
	cmd.Dir = string(workDir)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	output := stdout.String() + stderr.String()

	return output, err
}
