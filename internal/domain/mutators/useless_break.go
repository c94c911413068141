package mutators

import (
	"go/ast"
	"go/token"

	"spruce.dev/pkg/spruce/internal/adapter"
	"spruce.dev/pkg/spruce/internal/domain"
)

// UselessBreak removes an unlabeled break ending a switch or select case;
// Go cases never fall through, so the break does nothing.
type UselessBreak struct {
	domain.Descriptor
}

// NewUselessBreak creates the UselessBreak rule.
func NewUselessBreak() *UselessBreak {
	return &UselessBreak{Descriptor: domain.Descriptor{
		Name:   "UselessBreak",
		Labels: []string{TagSimplify},
	}}
}

func (r *UselessBreak) Apply(_ domain.Target, tree *adapter.GoFile) (bool, error) {
	changed := false

	ast.Inspect(tree.File, func(n ast.Node) bool {
		switch clause := n.(type) {
		case *ast.CaseClause:
			clause.Body, changed = trimBreak(tree, clause.Colon, clause.Body, changed)
		case *ast.CommClause:
			clause.Body, changed = trimBreak(tree, clause.Colon, clause.Body, changed)
		}

		return true
	})

	return changed, nil
}

func trimBreak(tree *adapter.GoFile, colon token.Pos, body []ast.Stmt, changed bool) ([]ast.Stmt, bool) {
	if len(body) == 0 {
		return body, changed
	}

	branch, ok := body[len(body)-1].(*ast.BranchStmt)
	if !ok || branch.Tok != token.BREAK || branch.Label != nil {
		return body, changed
	}

	previous := colon
	if len(body) > 1 {
		previous = body[len(body)-2].End()
	}

	// Join the emptied line with the one before it.
	if line := lineOf(tree, branch.Pos()); line > lineOf(tree, previous) {
		joinNextLine(tree.Fset, previous)
	}

	return body[:len(body)-1], true
}
