package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domain "spruce.dev/pkg/spruce/internal/domain"
)

func testCatalog() *domain.Catalog[*textTree] {
	var log []string

	draft := newRecording("draft", "1.13", &log, "errors")
	draft.Draft = true

	simplify := newRecording("simplify", "1.0", &log, "simplify")
	modern := newRecording("modern", "1.22", &log, "modernize")

	return domain.NewCatalog[*textTree](
		simplify,
		modern,
		draft,
		domain.Compose[*textTree]("Everything", simplify, modern),
	)
}

func TestCatalog_Lookup(t *testing.T) {
	catalog := testCatalog()

	assert.Equal(t, 4, catalog.Len())

	mutator, ok := catalog.ByID("modern")
	require.True(t, ok)
	assert.Equal(t, "modern", mutator.ID())

	_, ok = catalog.ByID("missing")
	assert.False(t, ok)
}

func TestCatalog_Filters(t *testing.T) {
	catalog := testCatalog()

	ids := func(mutators []domain.Mutator[*textTree]) []string {
		var out []string
		for _, mutator := range mutators {
			out = append(out, mutator.ID())
		}

		return out
	}

	assert.Equal(t, []string{"simplify", "modern", "draft", "Everything"}, ids(catalog.All()))
	assert.Equal(t, []string{"simplify", "Everything"}, ids(catalog.ByTag("simplify")))
	assert.Equal(t, []string{"Everything"}, ids(catalog.ByTag(domain.CompositeTag)))
	assert.Equal(t, []string{"simplify", "modern", "Everything"}, ids(catalog.ProductionReady()))
}

func TestCatalog_DuplicateIDs(t *testing.T) {
	first := newReplace("same", "a", "b")
	second := newReplace("same", "b", "c")

	catalog := domain.NewCatalog[*textTree](first, second)

	require.Equal(t, 1, catalog.Len())

	mutator, ok := catalog.ByID("same")
	require.True(t, ok)
	assert.Same(t, first, mutator)
}

func TestCatalog_Describe(t *testing.T) {
	infos := testCatalog().Describe()

	require.Len(t, infos, 4)
	assert.Equal(t, "draft", infos[2].ID)
	assert.False(t, infos[2].ProductionReady)
	assert.Equal(t, "1.13", infos[2].MinimalVersion)
	assert.True(t, infos[3].Composite)
	assert.Equal(t, []string{"simplify", "modern"}, infos[3].Constituents)
}

func TestScanCatalog(t *testing.T) {
	registry := domain.NewRegistry[*textTree]()
	registry.Register("text",
		constructorOf(newReplace("ok", "a", "b")),
		func() (domain.Mutator[*textTree], error) { return nil, errors.New("broken") },
	)

	catalog, err := domain.ScanCatalog(domain.NewScanner(registry), "text")

	require.Error(t, err)
	assert.Equal(t, 1, catalog.Len())
}
