package domain

import (
	"log/slog"
	"slices"

	m "spruce.dev/pkg/spruce/internal/model"
)

// Catalog is the read-only, ordered set of mutators known to a process.
// It is built once at startup and is safe for concurrent readers.
type Catalog[T any] struct {
	mutators []Mutator[T]
	byID     map[string]Mutator[T]
}

// NewCatalog builds a Catalog keeping the order of mutators. When two
// mutators share an id the first one wins and the duplicate is logged.
func NewCatalog[T any](mutators ...Mutator[T]) *Catalog[T] {
	c := &Catalog[T]{
		mutators: make([]Mutator[T], 0, len(mutators)),
		byID:     make(map[string]Mutator[T], len(mutators)),
	}

	for _, mutator := range mutators {
		if _, exists := c.byID[mutator.ID()]; exists {
			slog.Warn("Dropping mutator with duplicate id", "mutator", mutator.ID())
			continue
		}

		c.byID[mutator.ID()] = mutator
		c.mutators = append(c.mutators, mutator)
	}

	return c
}

// ScanCatalog scans namespace and builds a Catalog from the result. Scan
// failures are already logged by the scanner and are returned for callers
// that want to report them.
func ScanCatalog[T any](scanner *Scanner[T], namespace string) (*Catalog[T], error) {
	mutators, err := scanner.Scan(namespace)

	return NewCatalog(mutators...), err
}

// Len returns the number of mutators in the catalog.
func (c *Catalog[T]) Len() int {
	return len(c.mutators)
}

// All returns every mutator in catalog order.
func (c *Catalog[T]) All() []Mutator[T] {
	return slices.Clone(c.mutators)
}

// ByID returns the mutator registered under id.
func (c *Catalog[T]) ByID(id string) (Mutator[T], bool) {
	mutator, ok := c.byID[id]

	return mutator, ok
}

// ByTag returns the mutators carrying tag, in catalog order.
func (c *Catalog[T]) ByTag(tag string) []Mutator[T] {
	var out []Mutator[T]

	for _, mutator := range c.mutators {
		if HasTag(mutator, tag) {
			out = append(out, mutator)
		}
	}

	return out
}

// ProductionReady returns the mutators that belong in default selections.
func (c *Catalog[T]) ProductionReady() []Mutator[T] {
	var out []Mutator[T]

	for _, mutator := range c.mutators {
		if mutator.ProductionReady() {
			out = append(out, mutator)
		}
	}

	return out
}

// Describe lists the catalog metadata, in catalog order.
func (c *Catalog[T]) Describe() []m.RuleInfo {
	infos := make([]m.RuleInfo, 0, len(c.mutators))
	for _, mutator := range c.mutators {
		infos = append(infos, Describe(mutator))
	}

	return infos
}
