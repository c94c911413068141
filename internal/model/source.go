// Package model defines the data structures shared by the cleanup engine,
// the formatting pipeline and the command line front-end.
package model

// Path represents a file system path.
type Path string

// GrammarID names the grammar a source unit is parsed with.
type GrammarID string

const (
	// GrammarGo is the Go source grammar.
	GrammarGo GrammarID = "go"
)

// File represents a source code file discovered on disk.
type File struct {
	FullPath  Path   `yaml:"path"`
	ShortPath Path   `yaml:"short_path"`
	Hash      string `yaml:"hash"`
}

// SourceUnit is one file's text handed to the pipeline for a single pass.
// It is treated as immutable once created.
type SourceUnit struct {
	Path       Path
	Text       string
	Grammar    GrammarID
	LineEnding LineEnding
}

// NewSourceUnit builds a SourceUnit using the auto line-ending policy.
func NewSourceUnit(path Path, text string, grammar GrammarID) SourceUnit {
	return SourceUnit{
		Path:       path,
		Text:       text,
		Grammar:    grammar,
		LineEnding: LineEndingAuto,
	}
}
