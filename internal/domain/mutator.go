// Package domain contains the rule-based rewrite engine: the mutator
// contract, the catalog built from registered mutators, rule selection,
// the Refactorer and the formatting pipeline around it.
package domain

import (
	"slices"

	m "spruce.dev/pkg/spruce/internal/model"
)

// Target describes the run a mutator is applied in.
type Target struct {
	// Version is the language version the run targets.
	Version m.Version
	// Path is the file being rewritten.
	Path m.Path
}

// Mutator is one independently authored rewrite rule operating on a syntax
// tree of type T.
//
// Apply mutates tree in place and reports whether it made a semantic change.
// Implementations must not mutate the tree and report false; the Refactorer
// detects and discards such changes, but they are bugs. Returning an error
// (or panicking) rejects the step without failing the run.
type Mutator[T any] interface {
	ID() string
	Tags() []string
	MinimalVersion() m.Version
	ProductionReady() bool
	Apply(target Target, tree T) (bool, error)
}

// Descriptor carries the metadata half of a Mutator. Embed it in a rule type
// to get ID, Tags, MinimalVersion and ProductionReady with their defaults.
type Descriptor struct {
	Name   string
	Labels []string
	// Since is the minimal language version; zero means m.LowestVersion.
	Since m.Version
	// Draft marks a rule that is not production ready.
	Draft bool
}

// ID returns the stable rule identifier.
func (d Descriptor) ID() string {
	return d.Name
}

// Tags returns the sorted, de-duplicated rule tags.
func (d Descriptor) Tags() []string {
	return normalizeTags(d.Labels)
}

// MinimalVersion returns the lowest language version the rule may run on.
func (d Descriptor) MinimalVersion() m.Version {
	if d.Since.IsZero() {
		return m.LowestVersion
	}

	return d.Since
}

// ProductionReady reports whether the rule belongs in default selections.
func (d Descriptor) ProductionReady() bool {
	return !d.Draft
}

// HasTag reports whether mutator carries tag.
func HasTag[T any](mutator Mutator[T], tag string) bool {
	return slices.Contains(mutator.Tags(), tag)
}

// Describe returns the catalog metadata of mutator.
func Describe[T any](mutator Mutator[T]) m.RuleInfo {
	info := m.RuleInfo{
		ID:              mutator.ID(),
		Tags:            mutator.Tags(),
		MinimalVersion:  mutator.MinimalVersion().String(),
		ProductionReady: mutator.ProductionReady(),
	}

	if bundle, ok := mutator.(CompositeMutator[T]); ok {
		info.Composite = true
		for _, constituent := range bundle.Constituents() {
			info.Constituents = append(info.Constituents, constituent.ID())
		}
	}

	return info
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))

	for _, tag := range tags {
		if tag != "" {
			out = append(out, tag)
		}
	}

	slices.Sort(out)

	return slices.Compact(out)
}
