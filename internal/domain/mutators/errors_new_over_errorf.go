package mutators

import (
	"go/ast"
	"go/token"
	"strconv"

	"golang.org/x/tools/go/ast/astutil"

	"spruce.dev/pkg/spruce/internal/adapter"
	"spruce.dev/pkg/spruce/internal/domain"
)

// ErrorsNewOverErrorf replaces fmt.Errorf calls that format nothing with
// errors.New: fmt.Errorf("closed") becomes errors.New("closed").
type ErrorsNewOverErrorf struct {
	domain.Descriptor
}

// NewErrorsNewOverErrorf creates the ErrorsNewOverErrorf rule.
func NewErrorsNewOverErrorf() *ErrorsNewOverErrorf {
	return &ErrorsNewOverErrorf{Descriptor: domain.Descriptor{
		Name:   "ErrorsNewOverErrorf",
		Labels: []string{TagPerformance},
	}}
}

func (r *ErrorsNewOverErrorf) Apply(_ domain.Target, tree *adapter.GoFile) (bool, error) {
	fmtName, ok := importName(tree.File, "fmt")
	if !ok {
		return false, nil
	}

	var (
		errorsName string
		resolved   bool
	)

	changed := false

	astutil.Apply(tree.File, nil, func(c *astutil.Cursor) bool {
		call, ok := c.Node().(*ast.CallExpr)
		if !ok || len(call.Args) != 1 || call.Ellipsis.IsValid() {
			return true
		}

		fun, ok := isPackageSelector(call.Fun, fmtName)
		if !ok || fun.Sel.Name != "Errorf" || !constantFormat(call.Args[0]) {
			return true
		}

		if !resolved {
			errorsName, ok = ensureImport(tree, "errors")
			resolved = true

			if !ok {
				errorsName = ""
			}
		}

		if errorsName == "" {
			return true
		}

		call.Fun = &ast.SelectorExpr{
			X:   &ast.Ident{NamePos: fun.Pos(), Name: errorsName},
			Sel: &ast.Ident{NamePos: fun.Sel.Pos(), Name: "New"},
		}
		changed = true

		return true
	})

	if changed {
		dropUnusedImport(tree, "fmt")
	}

	return changed, nil
}

// constantFormat reports whether expr is a string literal without verbs.
func constantFormat(expr ast.Expr) bool {
	lit, ok := unwrapParen(expr).(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return false
	}

	value, err := strconv.Unquote(lit.Value)

	return err == nil && !containsVerb(value)
}
