package mutators

import (
	"go/ast"
	"go/token"

	"spruce.dev/pkg/spruce/internal/adapter"
	"spruce.dev/pkg/spruce/internal/domain"
	m "spruce.dev/pkg/spruce/internal/model"
)

// SimplifyForRange drops blank iteration variables from range clauses:
// for _ = range x and for _, _ = range x become for range x, and
// for k, _ := range x becomes for k := range x.
type SimplifyForRange struct {
	domain.Descriptor
}

// NewSimplifyForRange creates the SimplifyForRange rule.
func NewSimplifyForRange() *SimplifyForRange {
	return &SimplifyForRange{Descriptor: domain.Descriptor{
		Name:   "SimplifyForRange",
		Labels: []string{TagSimplify},
		Since:  m.MustParseVersion("1.4"),
	}}
}

func (r *SimplifyForRange) Apply(_ domain.Target, tree *adapter.GoFile) (bool, error) {
	changed := false

	ast.Inspect(tree.File, func(n ast.Node) bool {
		loop, ok := n.(*ast.RangeStmt)
		if !ok || loop.Key == nil {
			return true
		}

		if loop.Value != nil && isBlank(loop.Value) {
			loop.Value = nil
			changed = true
		}

		if loop.Value == nil && isBlank(loop.Key) {
			loop.Key = nil
			loop.Tok = token.ILLEGAL
			loop.TokPos = token.NoPos
			changed = true
		}

		return true
	})

	return changed, nil
}

func isBlank(expr ast.Expr) bool {
	ident, ok := expr.(*ast.Ident)

	return ok && ident.Name == "_"
}
