package domain

import (
	"fmt"

	m "spruce.dev/pkg/spruce/internal/model"
)

// ParseError reports that a source text handed to the Refactorer does not
// parse. It is fatal for that run: no output is produced.
type ParseError struct {
	Path    m.Path
	Grammar m.GrammarID
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s (%s): %v", e.Path, e.Grammar, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MutatorInstantiationError reports a registered constructor that failed to
// produce a mutator. The scan skips it and continues.
type MutatorInstantiationError struct {
	Namespace string
	Index     int
	Err       error
}

func (e *MutatorInstantiationError) Error() string {
	return fmt.Sprintf("instantiate mutator #%d in %q: %v", e.Index, e.Namespace, e.Err)
}

func (e *MutatorInstantiationError) Unwrap() error {
	return e.Err
}

// PanicError wraps a value recovered from a panicking mutator or printer.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}
