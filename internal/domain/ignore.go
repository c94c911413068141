package domain

import (
	"strings"
)

// IgnoreDirective opts a file out of rules when it appears in a line
// comment of the file header, before the first line of code:
//
//	//spruce:ignore                     skips every rule
//	//spruce:ignore UseAnyAlias, Simplify
//
// Rule ids are matched case-insensitively.
const IgnoreDirective = "spruce:ignore"

// IgnoreRule is the set of rules a file opted out of.
type IgnoreRule struct {
	all   bool
	names map[string]struct{}
}

// All reports whether every rule is ignored.
func (r IgnoreRule) All() bool {
	return r.all
}

// Empty reports whether nothing is ignored.
func (r IgnoreRule) Empty() bool {
	return !r.all && len(r.names) == 0
}

// Ignores reports whether the rule id is opted out of.
func (r IgnoreRule) Ignores(id string) bool {
	if r.all {
		return true
	}

	_, ok := r.names[strings.ToLower(id)]

	return ok
}

func (r *IgnoreRule) merge(other IgnoreRule) {
	if other.all {
		r.all = true
		r.names = nil

		return
	}

	if r.all || len(other.names) == 0 {
		return
	}

	if r.names == nil {
		r.names = make(map[string]struct{}, len(other.names))
	}

	for name := range other.names {
		r.names[name] = struct{}{}
	}
}

// ParseIgnoreRule collects the ignore directives of text's header.
func ParseIgnoreRule(text string) IgnoreRule {
	var rule IgnoreRule

	for line := range strings.Lines(text) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		comment, ok := headerComment(line)
		if !ok {
			break
		}

		if directive, ok := parseIgnoreDirective(comment); ok {
			rule.merge(directive)
		}
	}

	return rule
}

func headerComment(line string) (string, bool) {
	if rest, ok := strings.CutPrefix(line, "//"); ok {
		return strings.TrimSpace(rest), true
	}

	if strings.HasPrefix(line, "/*") && strings.HasSuffix(line, "*/") && len(line) >= 4 {
		return strings.TrimSpace(line[2 : len(line)-2]), true
	}

	return "", false
}

func parseIgnoreDirective(comment string) (IgnoreRule, bool) {
	rest, ok := strings.CutPrefix(comment, IgnoreDirective)
	if !ok || (rest != "" && rest[0] != ' ' && rest[0] != '\t') {
		return IgnoreRule{}, false
	}

	rule := IgnoreRule{names: make(map[string]struct{})}

	for _, part := range strings.Split(rest, ",") {
		if name := strings.ToLower(strings.TrimSpace(part)); name != "" {
			rule.names[name] = struct{}{}
		}
	}

	if len(rule.names) == 0 {
		return IgnoreRule{all: true}, true
	}

	return rule, true
}

// Without returns a copy of the selection lacking the mutators rule
// ignores. They are recorded as exclusions.
func (s RuleSelection[T]) Without(rule IgnoreRule) RuleSelection[T] {
	if rule.Empty() {
		return s
	}

	out := RuleSelection[T]{
		Target:   s.Target,
		Excluded: append([]Exclusion(nil), s.Excluded...),
	}

	for _, mutator := range s.Mutators {
		if rule.Ignores(mutator.ID()) {
			out.Excluded = append(out.Excluded, Exclusion{MutatorID: mutator.ID(), Reason: "ignored by directive"})
			continue
		}

		out.Mutators = append(out.Mutators, mutator)
	}

	return out
}
