package domain

import (
	m "spruce.dev/pkg/spruce/internal/model"
)

// Grammar parses source text into a syntax tree of type T and renders such
// trees back to text. Trees are owned by a single Refactorer run.
type Grammar[T any] interface {
	ID() m.GrammarID
	Parse(path m.Path, text string) (T, error)
	Render(tree T) (string, error)
}

// Validator is implemented by grammars that can check a parsed tree for
// structural problems beyond parse errors. The Refactorer calls it on every
// candidate tree before accepting a step.
type Validator[T any] interface {
	Validate(tree T) error
}
