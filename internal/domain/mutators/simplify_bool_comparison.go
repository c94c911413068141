package mutators

import (
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/ast/astutil"

	"spruce.dev/pkg/spruce/internal/adapter"
	"spruce.dev/pkg/spruce/internal/domain"
)

// SimplifyBoolComparison drops comparisons against boolean literals:
// x == true becomes x and x == false becomes !x. Only operands the file-local
// type check proves boolean are rewritten: a value from an unresolved import
// may well be an interface, and !v would not compile.
type SimplifyBoolComparison struct {
	domain.Descriptor
}

// NewSimplifyBoolComparison creates the SimplifyBoolComparison rule.
func NewSimplifyBoolComparison() *SimplifyBoolComparison {
	return &SimplifyBoolComparison{Descriptor: domain.Descriptor{
		Name:   "SimplifyBoolComparison",
		Labels: []string{TagSimplify},
	}}
}

func (r *SimplifyBoolComparison) Apply(_ domain.Target, tree *adapter.GoFile) (bool, error) {
	var info *types.Info

	changed := false

	astutil.Apply(tree.File, nil, func(c *astutil.Cursor) bool {
		cmp, ok := c.Node().(*ast.BinaryExpr)
		if !ok || (cmp.Op != token.EQL && cmp.Op != token.NEQ) {
			return true
		}

		operand, literal, ok := boolOperand(cmp)
		if !ok {
			return true
		}

		if info == nil {
			info = checkTypes(tree)
		}

		if !knownBoolean(info.TypeOf(operand)) {
			return true
		}

		// x == true and x != false keep x; the other two negate it.
		if (cmp.Op == token.EQL) == literal {
			c.Replace(operand)
		} else {
			c.Replace(negate(operand))
		}

		changed = true

		return true
	})

	return changed, nil
}

// boolOperand splits cmp into the non-literal operand and the value of the
// boolean literal it is compared with.
func boolOperand(cmp *ast.BinaryExpr) (ast.Expr, bool, bool) {
	for _, side := range [][2]ast.Expr{{cmp.X, cmp.Y}, {cmp.Y, cmp.X}} {
		switch {
		case isPredeclared(side[1], "true"):
			return side[0], true, true
		case isPredeclared(side[1], "false"):
			return side[0], false, true
		}
	}

	return nil, false, false
}

// knownBoolean reports whether t is a boolean type, typed or untyped.
func knownBoolean(t types.Type) bool {
	if t == nil {
		return false
	}

	basic, ok := t.Underlying().(*types.Basic)

	return ok && basic.Info()&types.IsBoolean != 0
}

// negate returns !expr, parenthesizing operands that bind looser than a
// unary operator.
func negate(expr ast.Expr) ast.Expr {
	if unary, ok := expr.(*ast.UnaryExpr); ok && unary.Op == token.NOT {
		return unary.X
	}

	switch expr.(type) {
	case *ast.Ident, *ast.CallExpr, *ast.SelectorExpr, *ast.ParenExpr,
		*ast.IndexExpr, *ast.IndexListExpr, *ast.UnaryExpr, *ast.TypeAssertExpr:
		return &ast.UnaryExpr{OpPos: expr.Pos(), Op: token.NOT, X: expr}
	default:
		return &ast.UnaryExpr{OpPos: expr.Pos(), Op: token.NOT, X: &ast.ParenExpr{Lparen: expr.Pos(), X: expr, Rparen: expr.End()}}
	}
}
