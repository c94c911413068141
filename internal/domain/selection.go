package domain

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	m "spruce.dev/pkg/spruce/internal/model"
)

// SelectionConfig is the rule-selection part of a run configuration.
type SelectionConfig struct {
	// TargetVersion is the language version of the code being cleaned.
	TargetVersion string
	// Include lists mutator ids to run. Empty means every production-ready,
	// non-composite mutator of the catalog.
	Include []string
	Exclude []string
	// IncludeTags keeps only mutators carrying at least one of these tags.
	IncludeTags []string
	ExcludeTags []string
	// IncludeDrafts opts in to mutators that are not production ready.
	// Drafts named in Include are always selected.
	IncludeDrafts bool
}

// Exclusion records why a catalog mutator is not part of a selection.
type Exclusion struct {
	MutatorID string
	Reason    string
}

// RuleSelection is the ordered list of mutators applied in one run, along
// with the version they were filtered against.
type RuleSelection[T any] struct {
	Target   m.Version
	Mutators []Mutator[T]
	Excluded []Exclusion
}

// Select filters catalog against cfg. The result keeps catalog order, so two
// runs with the same catalog and configuration apply the same rules in the
// same order.
func Select[T any](catalog *Catalog[T], cfg SelectionConfig) (RuleSelection[T], error) {
	target, err := m.ParseVersion(strings.TrimSpace(cfg.TargetVersion))
	if err != nil {
		return RuleSelection[T]{}, fmt.Errorf("target version: %w", err)
	}

	selection := RuleSelection[T]{Target: target}

	included := toSet(cfg.Include)
	excluded := toSet(cfg.Exclude)

	for _, id := range sortedKeys(included) {
		if _, ok := catalog.ByID(id); !ok {
			slog.Warn("Ignoring unknown mutator in configuration", "mutator", id)
			selection.Excluded = append(selection.Excluded, Exclusion{MutatorID: id, Reason: "unknown mutator"})
		}
	}

	for _, mutator := range catalog.All() {
		id := mutator.ID()
		_, explicit := included[id]

		if len(included) > 0 && !explicit {
			continue
		}

		if len(included) == 0 && isComposite(mutator) {
			continue
		}

		if reason := exclusionReason(mutator, cfg, target, explicit, excluded); reason != "" {
			selection.Excluded = append(selection.Excluded, Exclusion{MutatorID: id, Reason: reason})
			continue
		}

		selection.Mutators = append(selection.Mutators, mutator)
	}

	slog.Debug("Selected mutators",
		"target", target.String(),
		"selected", len(selection.Mutators),
		"excluded", len(selection.Excluded))

	return selection, nil
}

func exclusionReason[T any](mutator Mutator[T], cfg SelectionConfig, target m.Version, explicit bool, excluded map[string]struct{}) string {
	if _, ok := excluded[mutator.ID()]; ok {
		return "excluded by id"
	}

	if !mutator.ProductionReady() && !cfg.IncludeDrafts && !explicit {
		return "not production ready"
	}

	for _, tag := range cfg.ExcludeTags {
		if HasTag(mutator, tag) {
			return "excluded tag " + tag
		}
	}

	if len(cfg.IncludeTags) > 0 && !hasAnyTag(mutator, cfg.IncludeTags) {
		return "no included tag"
	}

	if target.Less(mutator.MinimalVersion()) {
		return "requires version " + mutator.MinimalVersion().String()
	}

	return ""
}

// IDs returns the selected mutator ids in application order.
func (s RuleSelection[T]) IDs() []string {
	ids := make([]string, 0, len(s.Mutators))
	for _, mutator := range s.Mutators {
		ids = append(ids, mutator.ID())
	}

	return ids
}

// Fingerprint identifies the selection for caching purposes.
func (s RuleSelection[T]) Fingerprint() string {
	return s.Target.String() + "|" + strings.Join(s.IDs(), ",")
}

// ExcludedCount counts exclusions whose reason starts with prefix, e.g.
// ExcludedCount("excluded tag") for a run-level report.
func (s RuleSelection[T]) ExcludedCount(prefix string) int {
	count := 0

	for _, exclusion := range s.Excluded {
		if strings.HasPrefix(exclusion.Reason, prefix) {
			count++
		}
	}

	return count
}

func isComposite[T any](mutator Mutator[T]) bool {
	_, ok := mutator.(CompositeMutator[T])

	return ok
}

func hasAnyTag[T any](mutator Mutator[T], tags []string) bool {
	for _, tag := range tags {
		if HasTag(mutator, tag) {
			return true
		}
	}

	return false
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	return keys
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))

	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			set[value] = struct{}{}
		}
	}

	return set
}
