package mutators

import (
	"go/ast"

	"golang.org/x/tools/go/ast/astutil"

	"spruce.dev/pkg/spruce/internal/adapter"
	"spruce.dev/pkg/spruce/internal/domain"
	m "spruce.dev/pkg/spruce/internal/model"
)

// UseAnyAlias replaces the empty interface literal with the predeclared any.
type UseAnyAlias struct {
	domain.Descriptor
}

// NewUseAnyAlias creates the UseAnyAlias rule.
func NewUseAnyAlias() *UseAnyAlias {
	return &UseAnyAlias{Descriptor: domain.Descriptor{
		Name:   "UseAnyAlias",
		Labels: []string{TagModernize},
		Since:  m.MustParseVersion("1.18"),
	}}
}

func (r *UseAnyAlias) Apply(_ domain.Target, tree *adapter.GoFile) (bool, error) {
	if nameTaken(tree.File, "any") {
		return false, nil
	}

	changed := false

	astutil.Apply(tree.File, nil, func(c *astutil.Cursor) bool {
		iface, ok := c.Node().(*ast.InterfaceType)
		if !ok || iface.Methods == nil || len(iface.Methods.List) > 0 {
			return true
		}

		if hasCommentWithin(tree.File, iface) {
			return true
		}

		c.Replace(&ast.Ident{NamePos: iface.Pos(), Name: "any"})
		changed = true

		return true
	})

	return changed, nil
}
