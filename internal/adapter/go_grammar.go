package adapter

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"strconv"

	m "spruce.dev/pkg/spruce/internal/model"
)

// GoFile is the syntax tree the Go grammar hands to mutators. The file set
// belongs to this tree only.
type GoFile struct {
	Fset *token.FileSet
	File *ast.File
}

// GoGrammar parses and prints Go source files with go/parser and go/format.
type GoGrammar struct {
	mode parser.Mode
}

// NewGoGrammar constructs a GoGrammar that keeps comments.
func NewGoGrammar() *GoGrammar {
	return &GoGrammar{mode: parser.ParseComments}
}

// ID returns m.GrammarGo.
func (g *GoGrammar) ID() m.GrammarID {
	return m.GrammarGo
}

// Parse builds a GoFile from text. Identifier resolution is kept so mutators
// can tell predeclared identifiers from shadowing declarations.
func (g *GoGrammar) Parse(path m.Path, text string) (*GoFile, error) {
	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, string(path), text, g.mode)
	if err != nil {
		return nil, err
	}

	return &GoFile{Fset: fset, File: file}, nil
}

// Render prints tree in gofmt style.
func (g *GoGrammar) Render(tree *GoFile) (string, error) {
	if tree == nil || tree.File == nil {
		return "", errors.New("render: empty tree")
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, tree.Fset, tree.File); err != nil {
		return "", fmt.Errorf("render: %w", err)
	}

	return buf.String(), nil
}

// Validate reports problems go/parser tolerates: placeholder nodes left by
// error recovery and imports declared twice.
func (g *GoGrammar) Validate(tree *GoFile) error {
	if tree.File.Name == nil || tree.File.Name.Name == "" || tree.File.Name.Name == "_" {
		return errors.New("missing package name")
	}

	var bad ast.Node

	ast.Inspect(tree.File, func(n ast.Node) bool {
		if bad != nil {
			return false
		}

		switch n.(type) {
		case *ast.BadExpr, *ast.BadStmt, *ast.BadDecl:
			bad = n
			return false
		}

		return true
	})

	if bad != nil {
		return fmt.Errorf("%s: malformed %T", tree.Fset.Position(bad.Pos()), bad)
	}

	seen := make(map[string]struct{}, len(tree.File.Imports))

	for _, spec := range tree.File.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			return fmt.Errorf("import %s: %w", spec.Path.Value, err)
		}

		name := ""
		if spec.Name != nil {
			name = spec.Name.Name
		}

		if name == "_" || name == "." {
			continue
		}

		key := name + " " + path
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%s imported twice", strconv.Quote(path))
		}

		seen[key] = struct{}{}
	}

	return nil
}
