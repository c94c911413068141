package mutators

import (
	"go/ast"

	"spruce.dev/pkg/spruce/internal/adapter"
	"spruce.dev/pkg/spruce/internal/domain"
)

// SimplifySliceExpr removes a redundant high bound: s[a:len(s)] becomes s[a:].
// Only plain variables are handled; for s.f[a:len(s.f)] the two operands
// could differ in the presence of side effects.
type SimplifySliceExpr struct {
	domain.Descriptor
}

// NewSimplifySliceExpr creates the SimplifySliceExpr rule.
func NewSimplifySliceExpr() *SimplifySliceExpr {
	return &SimplifySliceExpr{Descriptor: domain.Descriptor{
		Name:   "SimplifySliceExpr",
		Labels: []string{TagSimplify},
	}}
}

func (r *SimplifySliceExpr) Apply(_ domain.Target, tree *adapter.GoFile) (bool, error) {
	changed := false

	ast.Inspect(tree.File, func(n ast.Node) bool {
		slice, ok := n.(*ast.SliceExpr)
		if !ok || slice.Slice3 || slice.High == nil {
			return true
		}

		operand, ok := slice.X.(*ast.Ident)
		if !ok || operand.Obj == nil {
			return true
		}

		call, ok := isBuiltinCall(slice.High, "len", 1)
		if !ok || !sameIdent(call.Args[0], operand) {
			return true
		}

		slice.High = nil
		changed = true

		return true
	})

	return changed, nil
}
