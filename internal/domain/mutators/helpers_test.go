package mutators_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spruce.dev/pkg/spruce/internal/adapter"
	"spruce.dev/pkg/spruce/internal/domain"
	m "spruce.dev/pkg/spruce/internal/model"
)

type goRule = domain.Mutator[*adapter.GoFile]

// rewriteCase is one source file run through a single rule. An empty want
// means the rule must leave src alone; contains/absent are used instead of
// want when the rule edits the import block.
type rewriteCase struct {
	name     string
	src      string
	want     string
	contains []string
	absent   []string
}

func applyRule(t *testing.T, rule goRule, version, src string) m.Outcome {
	t.Helper()

	refactorer := domain.NewRefactorer[*adapter.GoFile](adapter.NewGoGrammar())
	selection := domain.RuleSelection[*adapter.GoFile]{
		Target:   m.MustParseVersion(version),
		Mutators: []goRule{rule},
	}

	outcome, err := refactorer.Apply(context.Background(), "input.go", src, selection)
	require.NoError(t, err)
	require.Empty(t, outcome.Rejected, "rule output must parse and validate")

	return outcome
}

func runRewriteCases(t *testing.T, newRule func() goRule, version string, cases []rewriteCase) {
	t.Helper()

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rule := newRule()
			outcome := applyRule(t, rule, version, tc.src)

			if tc.want == "" && len(tc.contains) == 0 {
				assert.False(t, outcome.Changed, "unexpected rewrite:\n%s", outcome.Text)
				assert.Equal(t, tc.src, outcome.Text)

				return
			}

			require.True(t, outcome.Changed, "expected a rewrite of:\n%s", tc.src)
			assert.Equal(t, []string{rule.ID()}, outcome.Accepted)

			if tc.want != "" {
				assert.Equal(t, tc.want, outcome.Text)
			}

			for _, fragment := range tc.contains {
				assert.Contains(t, outcome.Text, fragment)
			}

			for _, fragment := range tc.absent {
				assert.NotContains(t, outcome.Text, fragment)
			}

			again := applyRule(t, newRule(), version, outcome.Text)
			assert.False(t, again.Changed, "rewrite is not idempotent:\n%s", again.Text)
		})
	}
}
