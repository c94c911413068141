package mutators

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/ast/astutil"

	"spruce.dev/pkg/spruce/internal/adapter"
	"spruce.dev/pkg/spruce/internal/domain"
	m "spruce.dev/pkg/spruce/internal/model"
)

// RangeOverLen rewrites index loops over a slice or an array:
//
//	for i := 0; i < len(xs); i++ { ... }  ->  for i := range xs { ... }
//
// The collection type comes from a best-effort type check of the file;
// strings are left alone because ranging over them walks runes, not bytes.
// Before Go 1.22 a range loop reuses one counter variable where the classic
// loop leaves it at len(xs) on exit, so loops whose closures capture the
// counter are only rewritten from 1.22 on.
type RangeOverLen struct {
	domain.Descriptor
}

// NewRangeOverLen creates the RangeOverLen rule.
func NewRangeOverLen() *RangeOverLen {
	return &RangeOverLen{Descriptor: domain.Descriptor{
		Name:   "RangeOverLen",
		Labels: []string{TagSimplify},
		Since:  m.MustParseVersion("1.4"),
	}}
}

func (r *RangeOverLen) Apply(target domain.Target, tree *adapter.GoFile) (bool, error) {
	var info *types.Info

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

		call, ok := isBuiltinCall(bound, "len", 1)
		if !ok {
			return true
		}

		collection, ok := unwrapParen(call.Args[0]).(*ast.Ident)
		if !ok || !stableOperand(tree.File, collection, loop.Body) || assignsTo(loop.Body, counter) {
			return true
		}

		if !perIterationLoopVars(target.Version) && capturedByClosure(loop.Body, counter) {
			return true
		}

		if info == nil {
			info = checkTypes(tree)
		}

		if !indexable(info.TypeOf(collection)) {
			return true
		}

		c.Replace(rangeLoop(loop, counter, collection))
		changed = true

		return true
	})

	return changed, nil
}

// perIterationLoopVars reports whether loops declare a fresh counter per
// iteration at version v.
func perIterationLoopVars(v m.Version) bool {
	return !v.IsZero() && !v.Less(loopVarVersion)
}

var loopVarVersion = m.MustParseVersion("1.22")

// indexable reports whether t is a slice, an array or a pointer to an array.
func indexable(t types.Type) bool {
	if t == nil {
		return false
	}

	if ptr, ok := t.Underlying().(*types.Pointer); ok {
		_, isArray := ptr.Elem().Underlying().(*types.Array)
		return isArray
	}

	switch t.Underlying().(type) {
	case *types.Slice, *types.Array:
		return true
	default:
		return false
	}
}
