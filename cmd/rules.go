package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"spruce.dev/pkg/spruce/internal/domain/mutators"
	m "spruce.dev/pkg/spruce/internal/model"
)

const (
	rulesFormatTable = "table"
	rulesFormatYAML  = "yaml"
)

var rulesAllFlag bool
var rulesFormatFlag string

// rulesCmd represents the rules command.
var rulesCmd = newRulesCmd()

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the available cleanup rules",
		Long: `List the cleanup rules with the Go version they need, whether they are
production ready and their tags. Drafts are only listed with --all.`,
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := mutators.Catalog()
			if err != nil {
				return fmt.Errorf("load rules: %w", err)
			}

			rules := filterRules(catalog.Describe(), rulesAllFlag)

			switch rulesFormatFlag {
			case rulesFormatYAML:
				out, err := yaml.Marshal(rules)
				if err != nil {
					return err
				}

				_, err = cmd.OutOrStdout().Write(out)

				return err
			case rulesFormatTable, "":
				return newUI(cmd, false).DisplayRules(cmd.Context(), rules)
			default:
				return fmt.Errorf("unknown format %q (want %s or %s)", rulesFormatFlag, rulesFormatTable, rulesFormatYAML)
			}
		},
	}

	cmd.Flags().BoolVarP(&rulesAllFlag, "all", "a", false, "include rules that are not production ready")
	cmd.Flags().StringVarP(&rulesFormatFlag, "format", "f", rulesFormatTable, "output format: table or yaml")

	return cmd
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}

func filterRules(rules []m.RuleInfo, all bool) []m.RuleInfo {
	if all {
		return rules
	}

	ready := make([]m.RuleInfo, 0, len(rules))

	for _, rule := range rules {
		if rule.ProductionReady {
			ready = append(ready, rule)
		}
	}

	return ready
}
