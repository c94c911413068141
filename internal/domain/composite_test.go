package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domain "spruce.dev/pkg/spruce/internal/domain"
	m "spruce.dev/pkg/spruce/internal/model"
)

func TestComposite_Metadata(t *testing.T) {
	var log []string

	composite := domain.Compose[*textTree]("Bundle",
		newRecording("v4", "4", &log, "alpha"),
		newRecording("v15", "15", &log, "beta", "alpha"),
	)

	assert.Equal(t, "Bundle", composite.ID())
	assert.Equal(t, "4", composite.MinimalVersion().String())
	assert.Equal(t, []string{"Composite", "alpha", "beta"}, composite.Tags())
	assert.True(t, composite.ProductionReady())
	assert.Len(t, composite.Constituents(), 2)
}

func TestComposite_GatesConstituentsByVersion(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		applied []string
		changed bool
	}{
		{name: "between versions", target: "10", applied: []string{"v4"}, changed: true},
		{name: "above both", target: "15", applied: []string{"v4", "v15"}, changed: true},
		{name: "below both", target: "3.9", applied: nil, changed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var log []string

			composite := domain.Compose[*textTree]("Bundle",
				newRecording("v4", "4", &log),
				newRecording("v15", "15", &log),
			)

			changed, err := composite.Apply(domain.Target{Version: m.MustParseVersion(tt.target)}, &textTree{})

			require.NoError(t, err)
			assert.Equal(t, tt.changed, changed)
			assert.Equal(t, tt.applied, log)
		})
	}
}

func TestComposite_Empty(t *testing.T) {
	composite := domain.Compose[*textTree]("Empty")

	changed, err := composite.Apply(domain.Target{Version: m.MustParseVersion("1.21")}, &textTree{})

	require.NoError(t, err)
	assert.False(t, changed)
	assert.True(t, composite.MinimalVersion().Equal(m.LowestVersion))
}

func TestComposite_ConstituentErrorAborts(t *testing.T) {
	var log []string

	failing := newFunc("failing", func(*textTree) (bool, error) { return false, errors.New("nope") })
	composite := domain.Compose[*textTree]("Bundle", failing, newRecording("after", "1.0", &log))

	_, err := composite.Apply(domain.Target{Version: m.MustParseVersion("1.21")}, &textTree{})

	require.EqualError(t, err, "failing: nope")
	assert.Empty(t, log)
}

func TestComposite_DraftConstituent(t *testing.T) {
	draft := newReplace("draft", "a", "b")
	draft.Draft = true

	composite := domain.Compose[*textTree]("Bundle", newReplace("ready", "b", "c"), draft)

	assert.False(t, composite.ProductionReady())
}

func TestComposite_InsideRefactorer(t *testing.T) {
	refactorer := domain.NewRefactorer[*textTree](textGrammar{})
	composite := domain.Compose[*textTree]("Chain",
		newReplace("first", "a", "b"),
		newReplace("second", "b", "c"),
	)

	outcome, err := refactorer.Apply(t.Context(), "a.txt", "a", selectionOf(composite))

	require.NoError(t, err)
	assert.Equal(t, "c", outcome.Text)
	assert.Equal(t, []string{"Chain"}, outcome.Accepted)
}
