package mutators

import (
	"go/ast"
	"go/token"

	"spruce.dev/pkg/spruce/internal/adapter"
	"spruce.dev/pkg/spruce/internal/domain"
)

// RedundantZeroInit drops an explicit zero value from a typed variable
// declaration: var n int = 0 becomes var n int. Only predeclared types and
// nil-able type literals are recognized.
type RedundantZeroInit struct {
	domain.Descriptor
}

// NewRedundantZeroInit creates the RedundantZeroInit rule.
func NewRedundantZeroInit() *RedundantZeroInit {
	return &RedundantZeroInit{Descriptor: domain.Descriptor{
		Name:   "RedundantZeroInit",
		Labels: []string{TagSimplify},
	}}
}

func (r *RedundantZeroInit) Apply(_ domain.Target, tree *adapter.GoFile) (bool, error) {
	changed := false

	ast.Inspect(tree.File, func(n ast.Node) bool {
		decl, ok := n.(*ast.GenDecl)
		if !ok || decl.Tok != token.VAR {
			return true
		}

		for _, spec := range decl.Specs {
			value, ok := spec.(*ast.ValueSpec)
			if !ok || value.Type == nil || len(value.Values) == 0 {
				continue
			}

			if allZero(value.Type, value.Values) {
				value.Values = nil
				changed = true
			}
		}

		return true
	})

	return changed, nil
}

func allZero(typ ast.Expr, values []ast.Expr) bool {
	for _, value := range values {
		if !isZeroValue(typ, value) {
			return false
		}
	}

	return true
}

var (
	numericTypes = map[string]bool{
		"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
		"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true, "uintptr": true,
		"float32": true, "float64": true, "complex64": true, "complex128": true,
		"byte": true, "rune": true,
	}
	nilableTypes = map[string]bool{"error": true, "any": true}
)

// isZeroValue reports whether value is the literal zero value of typ.
func isZeroValue(typ, value ast.Expr) bool {
	switch t := typ.(type) {
	case *ast.Ident:
		if t.Obj != nil {
			return false
		}

		switch {
		case numericTypes[t.Name]:
			return isZeroLiteral(value)
		case t.Name == "string":
			lit, ok := unwrapParen(value).(*ast.BasicLit)
			return ok && lit.Kind == token.STRING && (lit.Value == `""` || lit.Value == "``")
		case t.Name == "bool":
			return isPredeclared(value, "false")
		case nilableTypes[t.Name]:
			return isPredeclared(value, "nil")
		}

		return false
	case *ast.StarExpr, *ast.MapType, *ast.ChanType, *ast.FuncType, *ast.InterfaceType:
		return isPredeclared(value, "nil")
	case *ast.ArrayType:
		return t.Len == nil && isPredeclared(value, "nil")
	default:
		return false
	}
}
