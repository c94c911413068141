package mutators

import (
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"path"
	"strconv"
	"strings"

	"golang.org/x/tools/go/ast/astutil"

	"spruce.dev/pkg/spruce/internal/adapter"
)

// unwrapParen strips any parentheses around expr.
func unwrapParen(expr ast.Expr) ast.Expr {
	for {
		paren, ok := expr.(*ast.ParenExpr)
		if !ok {
			return expr
		}

		expr = paren.X
	}
}

// sameIdent reports whether a and b are identifiers denoting the same object.
// Identifiers that were not resolved only match by name.
func sameIdent(a, b ast.Expr) bool {
	x, ok := unwrapParen(a).(*ast.Ident)
	if !ok {
		return false
	}

	y, ok := unwrapParen(b).(*ast.Ident)
	if !ok || x.Name != y.Name {
		return false
	}

	return x.Obj == y.Obj
}

// isPredeclared reports whether expr is the universe identifier name, i.e.
// it is not shadowed by a declaration of the file.
func isPredeclared(expr ast.Expr, name string) bool {
	ident, ok := unwrapParen(expr).(*ast.Ident)

	return ok && ident.Name == name && ident.Obj == nil
}

// isBuiltinCall reports whether call invokes the predeclared function name
// with argc arguments.
func isBuiltinCall(expr ast.Expr, name string, argc int) (*ast.CallExpr, bool) {
	call, ok := unwrapParen(expr).(*ast.CallExpr)
	if !ok || len(call.Args) != argc || call.Ellipsis.IsValid() {
		return nil, false
	}

	return call, isPredeclared(call.Fun, name)
}

// isZeroLiteral reports whether expr is a numeric literal equal to zero.
func isZeroLiteral(expr ast.Expr) bool {
	lit, ok := unwrapParen(expr).(*ast.BasicLit)
	if !ok {
		return false
	}

	switch lit.Kind {
	case token.INT, token.FLOAT, token.IMAG, token.CHAR:
		value := constant.MakeFromLiteral(lit.Value, lit.Kind, 0)
		if value.Kind() == constant.Unknown {
			return false
		}

		if value.Kind() == constant.Complex {
			return constant.Sign(constant.Real(value)) == 0 && constant.Sign(constant.Imag(value)) == 0
		}

		return constant.Sign(value) == 0
	default:
		return false
	}
}

// containsVerb reports whether format holds a '%' that fmt would interpret.
func containsVerb(format string) bool {
	return strings.Contains(format, "%")
}

// importName returns the name path is imported under. Blank and dot imports
// are reported as not found because they cannot be referenced by selector.
func importName(file *ast.File, importPath string) (string, bool) {
	for _, spec := range file.Imports {
		value, err := strconv.Unquote(spec.Path.Value)
		if err != nil || value != importPath {
			continue
		}

		if spec.Name == nil {
			return defaultImportName(importPath), true
		}

		if spec.Name.Name == "_" || spec.Name.Name == "." {
			return "", false
		}

		return spec.Name.Name, true
	}

	return "", false
}

// defaultImportName guesses the package name from the last path element.
func defaultImportName(importPath string) string {
	return path.Base(importPath)
}

// isPackageSelector reports whether expr is pkg.sel where pkg is an
// unresolved identifier, which after parsing means a package reference.
func isPackageSelector(expr ast.Expr, pkg string) (*ast.SelectorExpr, bool) {
	sel, ok := unwrapParen(expr).(*ast.SelectorExpr)
	if !ok {
		return nil, false
	}

	x, ok := sel.X.(*ast.Ident)

	return sel, ok && x.Name == pkg && x.Obj == nil
}

// nameTaken reports whether name is declared anywhere in the file, which
// would shadow a package imported under that name.
func nameTaken(file *ast.File, name string) bool {
	if file.Scope != nil && file.Scope.Lookup(name) != nil {
		return true
	}

	taken := false

	ast.Inspect(file, func(n ast.Node) bool {
		if taken {
			return false
		}

		if ident, ok := n.(*ast.Ident); ok && ident.Name == name && ident.Obj != nil {
			taken = true
		}

		return true
	})

	return taken
}

// ensureImport returns the name under which importPath can be referenced,
// adding the import when missing. It reports false when the default name
// is already used for something else.
func ensureImport(tree *adapter.GoFile, importPath string) (string, bool) {
	if name, ok := importName(tree.File, importPath); ok {
		return name, true
	}

	name := defaultImportName(importPath)
	if nameTaken(tree.File, name) {
		return "", false
	}

	for _, spec := range tree.File.Imports {
		if spec.Name != nil && spec.Name.Name == name {
			return "", false
		}

		if value, err := strconv.Unquote(spec.Path.Value); err == nil && spec.Name == nil && defaultImportName(value) == name {
			return "", false
		}
	}

	astutil.AddImport(tree.Fset, tree.File, importPath)

	return name, true
}

// dropUnusedImport removes importPath when nothing references it anymore.
func dropUnusedImport(tree *adapter.GoFile, importPath string) {
	if astutil.UsesImport(tree.File, importPath) {
		return
	}

	for _, spec := range tree.File.Imports {
		value, err := strconv.Unquote(spec.Path.Value)
		if err != nil || value != importPath {
			continue
		}

		if spec.Name != nil {
			if spec.Name.Name == "_" || spec.Name.Name == "." {
				return
			}

			astutil.DeleteNamedImport(tree.Fset, tree.File, spec.Name.Name, importPath)

			return
		}

		astutil.DeleteImport(tree.Fset, tree.File, importPath)

		return
	}
}

// checkTypes type-checks the file on its own. Imports are not resolved, so
// anything depending on another package or file stays untyped; callers must
// treat a missing type as "unknown".
func checkTypes(tree *adapter.GoFile) *types.Info {
	info := &types.Info{
		Types: make(map[ast.Expr]types.TypeAndValue),
		Defs:  make(map[*ast.Ident]types.Object),
		Uses:  make(map[*ast.Ident]types.Object),
	}

	conf := types.Config{Error: func(error) {}}
	_, _ = conf.Check(tree.File.Name.Name, tree.Fset, []*ast.File{tree.File}, info)

	return info
}

// isTerminating reports whether stmt unconditionally leaves the current
// block: a return, a branch statement or a call to the predeclared panic.
func isTerminating(stmt ast.Stmt) bool {
	switch s := stmt.(type) {
	case *ast.ReturnStmt:
		return true
	case *ast.BranchStmt:
		return s.Tok != token.FALLTHROUGH
	case *ast.ExprStmt:
		_, ok := isBuiltinCall(s.X, "panic", 1)
		return ok
	default:
		return false
	}
}

// assignsTo reports whether body assigns to the object of ident, takes its
// address or increments it.
func assignsTo(body ast.Node, ident *ast.Ident) bool {
	modified := false

	ast.Inspect(body, func(n ast.Node) bool {
		if modified {
			return false
		}

		switch node := n.(type) {
		case *ast.AssignStmt:
			for _, lhs := range node.Lhs {
				if sameIdent(lhs, ident) {
					modified = true
				}
			}
		case *ast.IncDecStmt:
			modified = sameIdent(node.X, ident)
		case *ast.UnaryExpr:
			modified = node.Op == token.AND && sameIdent(node.X, ident)
		case *ast.RangeStmt:
			if node.Tok == token.ASSIGN {
				modified = sameIdent(node.Key, ident) || (node.Value != nil && sameIdent(node.Value, ident))
			}
		}

		return true
	})

	return modified
}

// references reports whether body mentions the object of ident.
func references(body ast.Node, ident *ast.Ident) bool {
	found := false

	ast.Inspect(body, func(n ast.Node) bool {
		if found {
			return false
		}

		if other, ok := n.(*ast.Ident); ok && sameIdent(other, ident) {
			found = true
		}

		return true
	})

	return found
}

// callsFunctions reports whether body contains a call that is not a
// conversion-like builtin. Such calls may modify package-level state.
func callsFunctions(body ast.Node) bool {
	calls := false

	ast.Inspect(body, func(n ast.Node) bool {
		if calls {
			return false
		}

		if call, ok := n.(*ast.CallExpr); ok {
			if ident, isIdent := call.Fun.(*ast.Ident); isIdent && ident.Obj == nil && pureBuiltins[ident.Name] {
				return true
			}

			calls = true
		}

		return true
	})

	return calls
}

var pureBuiltins = map[string]bool{
	"len": true, "cap": true, "min": true, "max": true,
	"string": true, "int": true, "int64": true, "float64": true, "byte": true, "rune": true,
}

// isLocal reports whether ident is declared inside a function body, as
// opposed to at package level.
func isLocal(file *ast.File, ident *ast.Ident) bool {
	if ident.Obj == nil {
		return false
	}

	return file.Scope == nil || file.Scope.Lookup(ident.Name) != ident.Obj
}

// stableOperand reports whether expr evaluates to the same value on every
// iteration of body: a literal, or a local variable body never assigns.
// Package-level variables, and locals that a closure assigns or whose
// address is taken, are accepted only when body calls no functions.
func stableOperand(file *ast.File, expr ast.Expr, body ast.Node) bool {
	switch e := unwrapParen(expr).(type) {
	case *ast.BasicLit:
		return e.Kind == token.INT
	case *ast.Ident:
		if e.Obj == nil {
			return false
		}

		if e.Obj.Kind == ast.Con {
			return true
		}

		if e.Obj.Kind != ast.Var || assignsTo(body, e) {
			return false
		}

		if isLocal(file, e) && !mutableElsewhere(file, e) {
			return true
		}

		return !callsFunctions(body)
	default:
		return false
	}
}

// mutableElsewhere reports whether ident may change through something other
// than a plain assignment in its own scope: a function literal assigning it,
// a taken address, or a method call that may have a pointer receiver.
func mutableElsewhere(file *ast.File, ident *ast.Ident) bool {
	found := false

	ast.Inspect(file, func(n ast.Node) bool {
		if found {
			return false
		}

		switch node := n.(type) {
		case *ast.FuncLit:
			found = assignsTo(node.Body, ident)
		case *ast.UnaryExpr:
			found = node.Op == token.AND && sameIdent(node.X, ident)
		case *ast.CallExpr:
			if sel, ok := node.Fun.(*ast.SelectorExpr); ok {
				found = sameIdent(sel.X, ident)
			}
		}

		return true
	})

	return found
}

// capturedByClosure reports whether a function literal inside body refers
// to ident.
func capturedByClosure(body ast.Node, ident *ast.Ident) bool {
	captured := false

	ast.Inspect(body, func(n ast.Node) bool {
		if captured {
			return false
		}

		if lit, ok := n.(*ast.FuncLit); ok {
			captured = references(lit.Body, ident)
			return false
		}

		return true
	})

	return captured
}

// hasCommentWithin reports whether a comment of file lies inside node.
func hasCommentWithin(file *ast.File, node ast.Node) bool {
	for _, group := range file.Comments {
		if group.Pos() > node.Pos() && group.End() < node.End() {
			return true
		}
	}

	return false
}

// joinNextLine removes the line break ending the line of pos, so that a
// line emptied by a rewrite does not print as a blank line.
func joinNextLine(fset *token.FileSet, pos token.Pos) {
	file := fset.File(pos)
	if file == nil {
		return
	}

	if line := file.Line(pos); line >= 1 && line < file.LineCount() {
		file.MergeLine(line)
	}
}

func lineOf(tree *adapter.GoFile, pos token.Pos) int {
	return tree.Fset.Position(pos).Line
}
