package domain

import (
	"fmt"
	"log/slog"
	"slices"

	m "spruce.dev/pkg/spruce/internal/model"
)

// CompositeTag is added to the tags of every composite mutator.
const CompositeTag = "Composite"

// CompositeMutator is a Mutator bundling other mutators under one id.
type CompositeMutator[T any] interface {
	Mutator[T]
	Constituents() []Mutator[T]
}

type composite[T any] struct {
	id       string
	mutators []Mutator[T]
}

// Compose bundles mutators, in order, under a single catalog entry.
//
// The composite's minimal version is the lowest of its constituents so it is
// selected as soon as one of them may run; each constituent is still skipped
// at apply time when the target version is below its own minimal version.
func Compose[T any](id string, mutators ...Mutator[T]) CompositeMutator[T] {
	return &composite[T]{
		id:       id,
		mutators: slices.Clone(mutators),
	}
}

func (c *composite[T]) ID() string {
	return c.id
}

func (c *composite[T]) Tags() []string {
	tags := []string{CompositeTag}
	for _, mutator := range c.mutators {
		tags = append(tags, mutator.Tags()...)
	}

	return normalizeTags(tags)
}

func (c *composite[T]) MinimalVersion() m.Version {
	if len(c.mutators) == 0 {
		return m.LowestVersion
	}

	versions := make([]m.Version, 0, len(c.mutators))
	for _, mutator := range c.mutators {
		versions = append(versions, mutator.MinimalVersion())
	}

	return m.MinVersion(versions...)
}

// ProductionReady is true only when every constituent is.
func (c *composite[T]) ProductionReady() bool {
	for _, mutator := range c.mutators {
		if !mutator.ProductionReady() {
			return false
		}
	}

	return true
}

func (c *composite[T]) Constituents() []Mutator[T] {
	return slices.Clone(c.mutators)
}

// Apply runs each eligible constituent in order. The first constituent error
// aborts the composite; the Refactorer then rejects the whole step.
func (c *composite[T]) Apply(target Target, tree T) (bool, error) {
	changed := false

	for _, mutator := range c.mutators {
		if target.Version.Less(mutator.MinimalVersion()) {
			slog.Debug("Skipping composite constituent below its minimal version",
				"composite", c.id,
				"mutator", mutator.ID(),
				"minimal", mutator.MinimalVersion().String(),
				"target", target.Version.String())

			continue
		}

		ok, err := mutator.Apply(target, tree)
		if err != nil {
			return changed, fmt.Errorf("%s: %w", mutator.ID(), err)
		}

		changed = changed || ok
	}

	return changed, nil
}
