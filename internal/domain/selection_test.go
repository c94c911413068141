package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domain "spruce.dev/pkg/spruce/internal/domain"
	m "spruce.dev/pkg/spruce/internal/model"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		name     string
		cfg      domain.SelectionConfig
		selected []string
		excluded []domain.Exclusion
	}{
		{
			name:     "defaults skip drafts and composites",
			cfg:      domain.SelectionConfig{TargetVersion: "1.22"},
			selected: []string{"simplify", "modern"},
			excluded: []domain.Exclusion{{MutatorID: "draft", Reason: "not production ready"}},
		},
		{
			name:     "version gate",
			cfg:      domain.SelectionConfig{TargetVersion: "1.21"},
			selected: []string{"simplify"},
			excluded: []domain.Exclusion{
				{MutatorID: "modern", Reason: "requires version 1.22"},
				{MutatorID: "draft", Reason: "not production ready"},
			},
		},
		{
			name:     "drafts opted in",
			cfg:      domain.SelectionConfig{TargetVersion: "1.22", IncludeDrafts: true},
			selected: []string{"simplify", "modern", "draft"},
		},
		{
			name:     "include by id keeps catalog order",
			cfg:      domain.SelectionConfig{TargetVersion: "1.22", Include: []string{"Everything", "simplify"}},
			selected: []string{"simplify", "Everything"},
		},
		{
			name:     "explicit draft",
			cfg:      domain.SelectionConfig{TargetVersion: "1.22", Include: []string{"draft"}},
			selected: []string{"draft"},
		},
		{
			name:     "exclude by id",
			cfg:      domain.SelectionConfig{TargetVersion: "1.22", Exclude: []string{"simplify", " "}},
			selected: []string{"modern"},
			excluded: []domain.Exclusion{
				{MutatorID: "simplify", Reason: "excluded by id"},
				{MutatorID: "draft", Reason: "not production ready"},
			},
		},
		{
			name:     "include tags",
			cfg:      domain.SelectionConfig{TargetVersion: "1.22", IncludeTags: []string{"modernize"}},
			selected: []string{"modern"},
			excluded: []domain.Exclusion{
				{MutatorID: "simplify", Reason: "no included tag"},
				{MutatorID: "draft", Reason: "not production ready"},
			},
		},
		{
			name:     "exclude tags",
			cfg:      domain.SelectionConfig{TargetVersion: "1.22", ExcludeTags: []string{"simplify"}, IncludeDrafts: true},
			selected: []string{"modern", "draft"},
			excluded: []domain.Exclusion{{MutatorID: "simplify", Reason: "excluded tag simplify"}},
		},
		{
			name:     "unknown include",
			cfg:      domain.SelectionConfig{TargetVersion: "1.22", Include: []string{"zeta", "simplify", "alpha"}},
			selected: []string{"simplify"},
			excluded: []domain.Exclusion{
				{MutatorID: "alpha", Reason: "unknown mutator"},
				{MutatorID: "zeta", Reason: "unknown mutator"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selection, err := domain.Select(testCatalog(), tt.cfg)

			require.NoError(t, err)
			assert.Equal(t, tt.cfg.TargetVersion, selection.Target.String())
			assert.Equal(t, tt.selected, selection.IDs())
			assert.Equal(t, tt.excluded, selection.Excluded)
		})
	}
}

func TestSelect_InvalidVersion(t *testing.T) {
	for _, version := range []string{"", "go1.22", "1..2", "1.x"} {
		t.Run(version, func(t *testing.T) {
			_, err := domain.Select(testCatalog(), domain.SelectionConfig{TargetVersion: version})

			require.ErrorIs(t, err, m.ErrInvalidVersionFormat)
		})
	}
}

func TestSelect_Deterministic(t *testing.T) {
	cfg := domain.SelectionConfig{TargetVersion: "1.22", IncludeDrafts: true}

	first, err := domain.Select(testCatalog(), cfg)
	require.NoError(t, err)

	second, err := domain.Select(testCatalog(), cfg)
	require.NoError(t, err)

	assert.Equal(t, first.IDs(), second.IDs())
	assert.Equal(t, first.Fingerprint(), second.Fingerprint())
	assert.Equal(t, "1.22|simplify,modern,draft", first.Fingerprint())
}

func TestRuleSelection_ExcludedCount(t *testing.T) {
	selection, err := domain.Select(testCatalog(), domain.SelectionConfig{
		TargetVersion: "1.0",
		ExcludeTags:   []string{"simplify"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, selection.ExcludedCount("excluded tag"))
	assert.Equal(t, 1, selection.ExcludedCount("requires version"))
	assert.Equal(t, 1, selection.ExcludedCount("not production ready"))
	assert.Equal(t, 3, selection.ExcludedCount(""))
}
