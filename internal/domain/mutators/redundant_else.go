package mutators

import (
	"go/ast"
	"go/token"

	"spruce.dev/pkg/spruce/internal/adapter"
	"spruce.dev/pkg/spruce/internal/domain"
)

// RedundantElse removes an else branch that follows an if body ending in
// return, panic or a branch statement, and outdents the else body:
//
//	if err != nil {        if err != nil {
//		return err             return err
//	} else {           ->  }
//		use(v)             use(v)
//	}
//
// The if must not have an init statement and the else body must not
// declare anything at its top level, since hoisting would change scopes.
type RedundantElse struct {
	domain.Descriptor
}

// NewRedundantElse creates the RedundantElse rule.
func NewRedundantElse() *RedundantElse {
	return &RedundantElse{Descriptor: domain.Descriptor{
		Name:   "RedundantElse",
		Labels: []string{TagSimplify},
	}}
}

func (r *RedundantElse) Apply(_ domain.Target, tree *adapter.GoFile) (bool, error) {
	changed := false

	ast.Inspect(tree.File, func(n ast.Node) bool {
		switch block := n.(type) {
		case *ast.BlockStmt:
			block.List, changed = flattenElse(tree, block.List, changed)
		case *ast.CaseClause:
			block.Body, changed = flattenElse(tree, block.Body, changed)
		case *ast.CommClause:
			block.Body, changed = flattenElse(tree, block.Body, changed)
		}

		return true
	})

	return changed, nil
}

func flattenElse(tree *adapter.GoFile, list []ast.Stmt, changed bool) ([]ast.Stmt, bool) {
	var out []ast.Stmt

	for i, stmt := range list {
		ifStmt, ok := stmt.(*ast.IfStmt)
		if !ok || !redundantElse(ifStmt) {
			if out != nil {
				out = append(out, stmt)
			}

			continue
		}

		if out == nil {
			out = append(make([]ast.Stmt, 0, len(list)), list[:i]...)
		}

		elseBody := ifStmt.Else.(*ast.BlockStmt)
		if lineOf(tree, elseBody.Rbrace) > lineOf(tree, elseBody.List[len(elseBody.List)-1].End()) {
			joinNextLine(tree.Fset, elseBody.Rbrace)
		}

		// The hoisted body may itself end in a redundant else.
		hoisted, _ := flattenElse(tree, elseBody.List, false)
		ifStmt.Else = nil
		out = append(out, ifStmt)
		out = append(out, hoisted...)
		changed = true
	}

	if out == nil {
		return list, changed
	}

	return out, changed
}

func redundantElse(stmt *ast.IfStmt) bool {
	if stmt.Init != nil || len(stmt.Body.List) == 0 {
		return false
	}

	elseBody, ok := stmt.Else.(*ast.BlockStmt)
	if !ok || len(elseBody.List) == 0 {
		return false
	}

	if !isTerminating(stmt.Body.List[len(stmt.Body.List)-1]) {
		return false
	}

	for _, inner := range elseBody.List {
		if declares(inner) {
			return false
		}
	}

	return true
}

// declares reports whether stmt introduces a name into its enclosing block.
func declares(stmt ast.Stmt) bool {
	switch s := stmt.(type) {
	case *ast.DeclStmt, *ast.LabeledStmt:
		return true
	case *ast.AssignStmt:
		return s.Tok == token.DEFINE
	default:
		return false
	}
}
