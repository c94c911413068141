// Package mutators holds the Go rule catalog: rewrite rules over
// adapter.GoFile trees, registered into a domain.Registry.
package mutators

import (
	"spruce.dev/pkg/spruce/internal/adapter"
	"spruce.dev/pkg/spruce/internal/domain"
)

// Namespaces the Go rules are registered under.
const (
	Namespace          = "go"
	CompositeNamespace = "go/composite"
)

// Rule tags.
const (
	TagModernize   = "modernize"
	TagDeprecation = "deprecation"
	TagSimplify    = "simplify"
	TagPerformance = "performance"
	TagErrors      = "errors"
)

type constructor = domain.Constructor[*adapter.GoFile]

func rule[R domain.Mutator[*adapter.GoFile]](build func() R) constructor {
	return func() (domain.Mutator[*adapter.GoFile], error) {
		return build(), nil
	}
}

// Register adds every Go rule to registry. Plain rules come first, in the
// order they are applied by default, then the composites.
func Register(registry *domain.Registry[*adapter.GoFile]) {
	registry.Register(Namespace,
		rule(NewUseAnyAlias),
		rule(NewOsOverIoutil),
		rule(NewRangeOverLen),
		rule(NewRangeOverInt),
		rule(NewSimplifyBoolComparison),
		rule(NewSimplifySliceExpr),
		rule(NewSimplifyForRange),
		rule(NewRedundantElse),
		rule(NewUselessBreak),
		rule(NewRedundantZeroInit),
		rule(NewErrorsNewOverErrorf),
		rule(NewErrorsIsComparison),
	)

	registry.Register(CompositeNamespace,
		rule(NewModernize),
		rule(NewSimplify),
	)
}

// NewModernize bundles the rules moving code to newer language features.
func NewModernize() domain.CompositeMutator[*adapter.GoFile] {
	return domain.Compose[*adapter.GoFile]("Modernize",
		NewUseAnyAlias(),
		NewOsOverIoutil(),
		NewRangeOverInt(),
	)
}

// NewSimplify bundles the simplification rules.
func NewSimplify() domain.CompositeMutator[*adapter.GoFile] {
	return domain.Compose[*adapter.GoFile]("Simplify",
		NewRangeOverLen(),
		NewSimplifyBoolComparison(),
		NewSimplifySliceExpr(),
		NewSimplifyForRange(),
		NewRedundantElse(),
		NewUselessBreak(),
		NewRedundantZeroInit(),
	)
}

// Catalog scans a fresh registry holding the Go rules.
func Catalog() (*domain.Catalog[*adapter.GoFile], error) {
	registry := domain.NewRegistry[*adapter.GoFile]()
	Register(registry)

	return domain.ScanCatalog(domain.NewScanner(registry), Namespace)
}
