package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	domain "spruce.dev/pkg/spruce/internal/domain"
	m "spruce.dev/pkg/spruce/internal/model"
)

func TestDescriptor_Defaults(t *testing.T) {
	d := domain.Descriptor{Name: "Plain"}

	assert.Equal(t, "Plain", d.ID())
	assert.Empty(t, d.Tags())
	assert.True(t, d.MinimalVersion().Equal(m.LowestVersion))
	assert.True(t, d.ProductionReady())
}

func TestDescriptor_Tags(t *testing.T) {
	d := domain.Descriptor{Name: "Tagged", Labels: []string{"simplify", "", "modernize", "simplify"}}

	assert.Equal(t, []string{"modernize", "simplify"}, d.Tags())
}

func TestDescriptor_DraftAndVersion(t *testing.T) {
	d := domain.Descriptor{Name: "Draft", Since: m.MustParseVersion("1.13"), Draft: true}

	assert.False(t, d.ProductionReady())
	assert.Equal(t, "1.13", d.MinimalVersion().String())
}

func TestHasTag(t *testing.T) {
	var log []string
	mutator := newRecording("r", "1.0", &log, "simplify")

	assert.True(t, domain.HasTag[*textTree](mutator, "simplify"))
	assert.False(t, domain.HasTag[*textTree](mutator, "modernize"))
}

func TestDescribe(t *testing.T) {
	var log []string
	first := newRecording("first", "1.4", &log, "simplify")
	second := newRecording("second", "1.18", &log, "modernize")

	t.Run("plain mutator", func(t *testing.T) {
		info := domain.Describe[*textTree](first)

		assert.Equal(t, m.RuleInfo{
			ID:              "first",
			Tags:            []string{"simplify"},
			MinimalVersion:  "1.4",
			ProductionReady: true,
		}, info)
	})

	t.Run("composite lists constituents", func(t *testing.T) {
		info := domain.Describe[*textTree](domain.Compose[*textTree]("Both", first, second))

		assert.True(t, info.Composite)
		assert.Equal(t, []string{"first", "second"}, info.Constituents)
		assert.Equal(t, []string{"Composite", "modernize", "simplify"}, info.Tags)
		assert.Equal(t, "1.4", info.MinimalVersion)
	})
}
