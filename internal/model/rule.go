package model

// RuleInfo is the catalog view of a mutator, used for listings, generated
// documentation and default configuration stanzas.
type RuleInfo struct {
	ID              string   `yaml:"id" json:"id"`
	Tags            []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	MinimalVersion  string   `yaml:"minimal_version" json:"minimal_version"`
	ProductionReady bool     `yaml:"production_ready" json:"production_ready"`
	Composite       bool     `yaml:"composite,omitempty" json:"composite,omitempty"`
	Constituents    []string `yaml:"constituents,omitempty" json:"constituents,omitempty"`
}
