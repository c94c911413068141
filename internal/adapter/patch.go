package adapter

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	m "spruce.dev/pkg/spruce/internal/model"
)

// DefaultPatchContext is the number of unchanged lines around each hunk.
const DefaultPatchContext = 3

// UnifiedPatch renders the change from original to result as a unified diff
// with git-style a/ and b/ prefixes. Equal texts produce an empty patch.
func UnifiedPatch(path m.Path, original, result string) (string, error) {
	if original == result {
		return "", nil
	}

	name := filepath.ToSlash(string(path))

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(result),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  DefaultPatchContext,
	}

	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", path, err)
	}

	return text, nil
}

// JoinPatches concatenates per-file patches, keeping a newline between them.
func JoinPatches(patches []string) string {
	var b strings.Builder

	for _, patch := range patches {
		if patch == "" {
			continue
		}

		b.WriteString(patch)

		if !strings.HasSuffix(patch, "\n") {
			b.WriteString("\n")
		}
	}

	return b.String()
}
