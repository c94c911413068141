package mutators

import (
	"go/ast"
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/tools/go/ast/astutil"

	"spruce.dev/pkg/spruce/internal/adapter"
	"spruce.dev/pkg/spruce/internal/domain"
	m "spruce.dev/pkg/spruce/internal/model"
)

// ErrorsIsComparison rewrites equality checks against sentinel errors to
// errors.Is: err == io.EOF becomes errors.Is(err, io.EOF).
//
// The rewrite changes behavior for wrapped errors, which is usually the
// intent but not always, so the rule is a draft.
type ErrorsIsComparison struct {
	domain.Descriptor
}

// NewErrorsIsComparison creates the ErrorsIsComparison rule.
func NewErrorsIsComparison() *ErrorsIsComparison {
	return &ErrorsIsComparison{Descriptor: domain.Descriptor{
		Name:   "ErrorsIsComparison",
		Labels: []string{TagErrors},
		Since:  m.MustParseVersion("1.13"),
		Draft:  true,
	}}
}

func (r *ErrorsIsComparison) Apply(_ domain.Target, tree *adapter.GoFile) (bool, error) {
	var (
		errorsName string
		resolved   bool
	)

	changed := false

	astutil.Apply(tree.File, nil, func(c *astutil.Cursor) bool {
		cmp, ok := c.Node().(*ast.BinaryExpr)
		if !ok || (cmp.Op != token.EQL && cmp.Op != token.NEQ) {
			return true
		}

		value, sentinel, ok := sentinelComparison(cmp)
		if !ok {
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

		var replacement ast.Expr = &ast.CallExpr{
			Fun: &ast.SelectorExpr{
				X:   &ast.Ident{NamePos: cmp.Pos(), Name: errorsName},
				Sel: ast.NewIdent("Is"),
			},
			Args: []ast.Expr{value, sentinel},
		}

		if cmp.Op == token.NEQ {
			replacement = &ast.UnaryExpr{OpPos: cmp.Pos(), Op: token.NOT, X: replacement}
		}

		c.Replace(replacement)
		changed = true

		return true
	})

	return changed, nil
}

// sentinelComparison splits cmp into the compared error value and the
// sentinel. The value side must be a plain identifier named like an error.
func sentinelComparison(cmp *ast.BinaryExpr) (ast.Expr, ast.Expr, bool) {
	for _, side := range [][2]ast.Expr{{cmp.X, cmp.Y}, {cmp.Y, cmp.X}} {
		value, ok := unwrapParen(side[0]).(*ast.Ident)
		if !ok || value.Obj == nil || !looksLikeErrorVar(value.Name) {
			continue
		}

		if isSentinel(side[1]) {
			return side[0], side[1], true
		}
	}

	return nil, nil, false
}

func looksLikeErrorVar(name string) bool {
	return name == "err" || strings.HasSuffix(name, "Err") || strings.HasSuffix(name, "Error")
}

// isSentinel matches ErrFoo, pkg.ErrFoo and io.EOF style identifiers.
func isSentinel(expr ast.Expr) bool {
	var name string

	switch e := unwrapParen(expr).(type) {
	case *ast.Ident:
		name = e.Name
	case *ast.SelectorExpr:
		if _, ok := e.X.(*ast.Ident); !ok {
			return false
		}

		name = e.Sel.Name
	default:
		return false
	}

	if name == "EOF" {
		return true
	}

	rest, ok := strings.CutPrefix(name, "Err")
	if !ok || rest == "" {
		return false
	}

	first, _ := utf8.DecodeRuneInString(rest)

	return unicode.IsUpper(first) || unicode.IsDigit(first)
}
