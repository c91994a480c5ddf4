// Package rules loads authored automap rule configurations.
//
// Configurations are YAML documents. Loading is deliberately strict:
// yaml.v3 rejects unknown fields (catching typos like "rule:" for
// "rules:"), the document is then validated against an embedded CUE
// schema (kinds, modes, bounds), and finally the loader checks the
// constraints the schema cannot express, such as window arity. The
// engine package stays format-free; only value structures cross the
// boundary.
package rules

// fileConfig mirrors the YAML document. Field names are the authored
// wire format; conversion to engine types happens in the loader.
type fileConfig struct {
	RuleSets []fileRuleSet `yaml:"rule_sets"`
}

type fileRuleSet struct {
	ID           string     `yaml:"id"`
	Name         string     `yaml:"name,omitempty"`
	EdgeHandling string     `yaml:"edge_handling"`
	ApplyMode    string     `yaml:"apply_mode"`
	Enabled      *bool      `yaml:"enabled,omitempty"` // nil means enabled
	Rules        []fileRule `yaml:"rules"`
}

type fileRule struct {
	ID        string              `yaml:"id"`
	Name      string              `yaml:"name,omitempty"`
	NoOverlap bool                `yaml:"no_overlap,omitempty"`
	Inputs    []fileInputGroup    `yaml:"inputs"`
	Outputs   []fileOutputPattern `yaml:"outputs"`
}

type fileInputGroup struct {
	Layer      string     `yaml:"layer"`
	HalfWidth  int        `yaml:"half_width"`
	HalfHeight int        `yaml:"half_height"`
	Cells      []fileCell `yaml:"cells"`
}

type fileOutputPattern struct {
	Layer      string     `yaml:"layer"`
	HalfWidth  int        `yaml:"half_width"`
	HalfHeight int        `yaml:"half_height"`
	Weight     int        `yaml:"weight"`
	Cells      []fileCell `yaml:"cells"`
}

// fileCell is shared by matcher and output cells; which kinds are valid
// depends on position, and the CUE schema checks each side separately.
type fileCell struct {
	Kind  string `yaml:"kind"`
	Index uint32 `yaml:"index,omitempty"`
	FlipX bool   `yaml:"flip_x,omitempty"`
	FlipY bool   `yaml:"flip_y,omitempty"`
}
