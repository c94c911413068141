package cmd

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"spruce.dev/pkg/spruce/internal/domain"
	m "spruce.dev/pkg/spruce/internal/model"
)

func TestListCmd(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want domain.EstimateArgs
	}{
		{
			name: "defaults",
			args: []string{"list"},
			want: domain.EstimateArgs{Paths: []m.Path{"./..."}, Exclude: []string{}, Parallel: 1},
		},
		{
			name: "paths exclude and parallel",
			args: []string{"list", "-x", "_test\\.go$", "-p", "3", "./pkg/..."},
			want: domain.EstimateArgs{Paths: []m.Path{"./pkg/..."}, Exclude: []string{"_test\\.go$"}, Parallel: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, mockWorkflow := newMockedRootCmd(t, newListCmd())

			mockWorkflow.On("Estimate", mock.Anything, mock.MatchedBy(func(args domain.EstimateArgs) bool {
				return len(args.Exclude) == len(tt.want.Exclude) &&
					args.Parallel == tt.want.Parallel &&
					slices.Equal(args.Paths, tt.want.Paths)
			})).Return(nil)

			cmd.SetArgs(tt.args)
			require.NoError(t, cmd.Execute())
		})
	}
}

func TestListCmd_ReturnsWorkflowError(t *testing.T) {
	cmd, mockWorkflow := newMockedRootCmd(t, newListCmd())

	mockWorkflow.On("Estimate", mock.Anything, mock.Anything).Return(errors.New("no go files"))

	cmd.SetArgs([]string{"list"})
	require.EqualError(t, cmd.Execute(), "no go files")
}
