package mutators

import (
	"go/ast"
	"go/token"

	"golang.org/x/tools/go/ast/astutil"

	"spruce.dev/pkg/spruce/internal/adapter"
	"spruce.dev/pkg/spruce/internal/domain"
	m "spruce.dev/pkg/spruce/internal/model"
)

// RangeOverInt turns counting loops into range-over-int loops:
//
//	for i := 0; i < n; i++ { ... }  ->  for i := range n { ... }
//
// The bound must be stable across iterations (a literal, a constant or a
// variable the loop never assigns) and the counter must not be modified in
// the body. A counter the body never reads is dropped: for range n.
type RangeOverInt struct {
	domain.Descriptor
}

// NewRangeOverInt creates the RangeOverInt rule.
func NewRangeOverInt() *RangeOverInt {
	return &RangeOverInt{Descriptor: domain.Descriptor{
		Name:   "RangeOverInt",
		Labels: []string{TagModernize},
		Since:  m.MustParseVersion("1.22"),
	}}
}

func (r *RangeOverInt) Apply(_ domain.Target, tree *adapter.GoFile) (bool, error) {
	changed := false

	astutil.Apply(tree.File, nil, func(c *astutil.Cursor) bool {
		loop, ok := c.Node().(*ast.ForStmt)
		if !ok {
			return true
		}

		counter, bound, ok := countingLoop(loop)
		if !ok {
			return true
		}

		if call, isLen := isBuiltinCall(bound, "len", 1); isLen {
			if !stableOperand(tree.File, call.Args[0], loop.Body) {
				return true
			}
		} else if !stableOperand(tree.File, bound, loop.Body) {
			return true
		}

		if assignsTo(loop.Body, counter) {
			return true
		}

		c.Replace(rangeLoop(loop, counter, bound))
		changed = true

		return true
	})

	return changed, nil
}

// countingLoop matches `for i := 0; i < bound; i++` and returns the counter
// and the bound.
func countingLoop(loop *ast.ForStmt) (*ast.Ident, ast.Expr, bool) {
	init, ok := loop.Init.(*ast.AssignStmt)
	if !ok || init.Tok != token.DEFINE || len(init.Lhs) != 1 || len(init.Rhs) != 1 {
		return nil, nil, false
	}

	counter, ok := init.Lhs[0].(*ast.Ident)
	if !ok || counter.Name == "_" || !isZeroLiteral(init.Rhs[0]) {
		return nil, nil, false
	}

	// The counter must be an int: an untyped zero is, a typed one is not.
	if lit, isLit := unwrapParen(init.Rhs[0]).(*ast.BasicLit); !isLit || lit.Kind != token.INT {
		return nil, nil, false
	}

	cond, ok := loop.Cond.(*ast.BinaryExpr)
	if !ok || cond.Op != token.LSS || !sameIdent(cond.X, counter) {
		return nil, nil, false
	}

	post, ok := loop.Post.(*ast.IncDecStmt)
	if !ok || post.Tok != token.INC || !sameIdent(post.X, counter) {
		return nil, nil, false
	}

	if references(cond.Y, counter) {
		return nil, nil, false
	}

	return counter, cond.Y, true
}

// rangeLoop builds the range statement replacing loop. The counter is kept
// only when the body reads it.
func rangeLoop(loop *ast.ForStmt, counter *ast.Ident, over ast.Expr) *ast.RangeStmt {
	stmt := &ast.RangeStmt{
		For:  loop.For,
		X:    over,
		Body: loop.Body,
	}

	if references(loop.Body, counter) {
		stmt.Key = counter
		stmt.Tok = token.DEFINE
		stmt.TokPos = counter.End() + 1
	}

	return stmt
}
