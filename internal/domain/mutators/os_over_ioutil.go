package mutators

import (
	"go/ast"

	"golang.org/x/tools/go/ast/astutil"

	"spruce.dev/pkg/spruce/internal/adapter"
	"spruce.dev/pkg/spruce/internal/domain"
	m "spruce.dev/pkg/spruce/internal/model"
)

const ioutilPath = "io/ioutil"

// ioutilReplacements maps the io/ioutil functions deprecated in Go 1.16 to
// their drop-in replacements. ReadDir is missing on purpose: os.ReadDir
// returns directory entries, not file infos.
var ioutilReplacements = map[string]struct{ pkg, name string }{
	"ReadAll":   {"io", "ReadAll"},
	"ReadFile":  {"os", "ReadFile"},
	"WriteFile": {"os", "WriteFile"},
	"NopCloser": {"io", "NopCloser"},
	"Discard":   {"io", "Discard"},
	"TempFile":  {"os", "CreateTemp"},
	"TempDir":   {"os", "MkdirTemp"},
}

// OsOverIoutil rewrites uses of the deprecated io/ioutil package to the os
// and io equivalents, fixing the import block.
type OsOverIoutil struct {
	domain.Descriptor
}

// NewOsOverIoutil creates the OsOverIoutil rule.
func NewOsOverIoutil() *OsOverIoutil {
	return &OsOverIoutil{Descriptor: domain.Descriptor{
		Name:   "OsOverIoutil",
		Labels: []string{TagDeprecation, TagModernize},
		Since:  m.MustParseVersion("1.16"),
	}}
}

func (r *OsOverIoutil) Apply(_ domain.Target, tree *adapter.GoFile) (bool, error) {
	ioutil, ok := importName(tree.File, ioutilPath)
	if !ok {
		return false, nil
	}

	// Resolve the replacement packages lazily so a file that only uses
	// ioutil.ReadDir does not gain imports.
	names := map[string]string{}
	resolve := func(pkg string) (string, bool) {
		if name, seen := names[pkg]; seen {
			return name, name != ""
		}

		name, ok := ensureImport(tree, pkg)
		names[pkg] = name

		return name, ok
	}

	changed := false

	astutil.Apply(tree.File, nil, func(c *astutil.Cursor) bool {
		sel, ok := isPackageSelector(asExpr(c.Node()), ioutil)
		if !ok {
			return true
		}

		replacement, known := ioutilReplacements[sel.Sel.Name]
		if !known {
			return true
		}

		pkg, ok := resolve(replacement.pkg)
		if !ok {
			return true
		}

		c.Replace(&ast.SelectorExpr{
			X:   &ast.Ident{NamePos: sel.X.Pos(), Name: pkg},
			Sel: &ast.Ident{NamePos: sel.Sel.Pos(), Name: replacement.name},
		})
		changed = true

		return true
	})

	if changed {
		dropUnusedImport(tree, ioutilPath)
	}

	return changed, nil
}

func asExpr(node ast.Node) ast.Expr {
	expr, _ := node.(ast.Expr)

	return expr
}
