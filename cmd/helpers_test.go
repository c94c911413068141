package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"

	domainmocks "spruce.dev/pkg/spruce/internal/domain/mocks"
)

// newMockedRootCmd returns a root command with the given subcommands whose
// workflow is a mock for the duration of the test.
func newMockedRootCmd(t *testing.T, subcommands ...*cobra.Command) (*cobra.Command, *domainmocks.MockWorkflow) {
	t.Helper()

	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(subcommands...)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow
	t.Cleanup(func() { workflow = originalWorkflow })

	return cmd, mockWorkflow
}
