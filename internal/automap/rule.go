package automap

// InputGroup is a rectangular matcher window bound to one layer and
// anchored to the candidate position.
//
// The window is (2·HalfWidth+1) columns by (2·HalfHeight+1) rows, stored
// row-major in Cells with the center cell aligned to the candidate. A
// Cells slice shorter than the window is treated as a non-match, never
// as an error.
type InputGroup struct {
	LayerID    string
	HalfWidth  int
	HalfHeight int
	Cells      []CellMatcher
}

// Columns returns the window width in cells.
func (g *InputGroup) Columns() int { return 2*g.HalfWidth + 1 }

// Rows returns the window height in cells.
func (g *InputGroup) Rows() int { return 2*g.HalfHeight + 1 }

// CellCount returns the number of cells the window declares.
func (g *InputGroup) CellCount() int { return g.Columns() * g.Rows() }

// OutputPattern is one weighted output alternative: a rectangular output
// window bound to one layer, with a non-negative selection weight.
type OutputPattern struct {
	LayerID    string
	HalfWidth  int
	HalfHeight int
	Cells      []CellOutput
	Weight     int
}

// Columns returns the window width in cells.
func (p *OutputPattern) Columns() int { return 2*p.HalfWidth + 1 }

// Rows returns the window height in cells.
func (p *OutputPattern) Rows() int { return 2*p.HalfHeight + 1 }

// CellCount returns the number of cells the window declares.
func (p *OutputPattern) CellCount() int { return p.Columns() * p.Rows() }

// Rule fires at a position when every input group matches there, and
// then writes exactly one weighted-randomly chosen output alternative.
//
// NoOverlap suppresses firings whose center cell on the first output
// alternative's layer was already written by an earlier firing of this
// rule in the same sweep.
type Rule struct {
	ID        string
	Name      string
	Inputs    []InputGroup
	Outputs   []OutputPattern
	NoOverlap bool
}

// explicitIndices collects the tile indices named by MatchTile,
// MatchNotTile, or MatchTileFlipped matchers anywhere among the rule's
// input groups. This is the complement basis for MatchOther. It is a
// rule-scoped derived value, recomputed once per rule per sweep; rule
// content can change between Apply calls so it is never memoized.
func (r *Rule) explicitIndices() map[uint32]struct{} {
	set := make(map[uint32]struct{})
	for i := range r.Inputs {
		for _, c := range r.Inputs[i].Cells {
			switch c.Kind {
			case MatchTile, MatchNotTile, MatchTileFlipped:
				set[c.Index] = struct{}{}
			}
		}
	}
	return set
}

// EdgeHandling controls how matcher windows straddling the grid edge
// are evaluated.
type EdgeHandling int

const (
	// EdgeSkip rejects the candidate outright when any window cell falls
	// outside the grid. The whole group fails, not just the cell.
	EdgeSkip EdgeHandling = iota
	// EdgeTreatAsEmpty evaluates out-of-bounds cells as logically empty.
	EdgeTreatAsEmpty
)

// ApplyMode controls how many passes a rule set runs.
type ApplyMode int

const (
	// ApplyOnce runs exactly one full pass.
	ApplyOnce ApplyMode = iota
	// ApplyUntilStable repeats full passes until one changes nothing,
	// bounded by MaxStablePasses.
	ApplyUntilStable
)

// RuleSet is an ordered list of rules sharing execution settings.
type RuleSet struct {
	ID      string
	Name    string
	Rules   []Rule
	Edge    EdgeHandling
	Mode    ApplyMode
	Enabled bool
}

// referencedLayers returns the layer ids referenced by any input group
// or output alternative in the set, deduplicated in first-appearance
// order. Until-stable change detection snapshots exactly these layers.
func (rs *RuleSet) referencedLayers() []string {
	var ids []string
	seen := make(map[string]bool)
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for i := range rs.Rules {
		r := &rs.Rules[i]
		for j := range r.Inputs {
			add(r.Inputs[j].LayerID)
		}
		for j := range r.Outputs {
			add(r.Outputs[j].LayerID)
		}
	}
	return ids
}

// Config is an ordered list of rule sets. Rule sets share no state; they
// only see each other's effects through the map itself.
type Config struct {
	RuleSets []RuleSet
}
