package automap

import (
	"log/slog"

	"github.com/mapforge/automap/internal/tilemap"
)

// RuleSetStats summarizes one rule set's execution within an Apply call.
type RuleSetStats struct {
	RuleSetID string `json:"rule_set_id"`
	Passes    int    `json:"passes"`
	Fired     int    `json:"fired"`
	Converged bool   `json:"converged"`
}

// ApplyStats summarizes an Apply call, one entry per executed rule set
// in execution order. Disabled sets get no entry.
type ApplyStats struct {
	RuleSets []RuleSetStats `json:"rule_sets"`
}

// TotalPasses returns the pass count summed over all executed rule sets.
func (s ApplyStats) TotalPasses() int {
	total := 0
	for _, rs := range s.RuleSets {
		total += rs.Passes
	}
	return total
}

// Converged reports whether every until-stable rule set reached a
// fixpoint within MaxStablePasses. Once-mode sets always count as
// converged.
func (s ApplyStats) Converged() bool {
	for _, rs := range s.RuleSets {
		if !rs.Converged {
			return false
		}
	}
	return true
}

// Apply runs every enabled rule set of cfg against m, in list order.
// All effects are in-place map mutations; the returned stats are an
// observation channel for callers that record or report runs.
//
// The map is borrowed exclusively for the duration of the call. The
// source is consumed in deterministic order, so a fixed seed reproduces
// the exact same mutations. Apply never fails: unresolvable layer
// references, malformed windows, and non-convergence are absorbed after
// logging.
func Apply(m *tilemap.Map, cfg Config, src Source) ApplyStats {
	var stats ApplyStats
	for i := range cfg.RuleSets {
		rs := &cfg.RuleSets[i]
		if !rs.Enabled {
			continue
		}

		var st RuleSetStats
		switch rs.Mode {
		case ApplyUntilStable:
			st = runUntilStable(m, rs, src)
		default:
			fired := runPass(m, rs, src)
			st = RuleSetStats{RuleSetID: rs.ID, Passes: 1, Fired: fired, Converged: true}
		}

		slog.Debug("rule set applied",
			"rule_set", rs.ID,
			"passes", st.Passes,
			"fired", st.Fired,
			"converged", st.Converged,
		)
		stats.RuleSets = append(stats.RuleSets, st)
	}
	return stats
}

// runPass runs every rule of the set once, in order. Rules are not
// interleaved per position: each rule finishes its full grid sweep
// before the next begins, so rule N sees the grid as left by rule N-1.
// Returns the number of rule firings.
//
// The anti-overlap written-set spans the whole pass: a later rule with
// the flag set is suppressed at cells an earlier flagged rule already
// wrote in this pass. Each pass starts with a fresh set.
func runPass(m *tilemap.Map, rs *RuleSet, src Source) int {
	written := make(map[cellKey]struct{})
	fired := 0
	for i := range rs.Rules {
		fired += applyRule(m, rs, &rs.Rules[i], src, written)
	}
	return fired
}

// cellKey identifies one cell of one layer for anti-overlap bookkeeping.
type cellKey struct {
	layer int
	x, y  int
}

// applyRule sweeps the full grid with one rule and returns the number of
// positions at which it fired.
//
// Every layer reference is resolved up front; if any fails, the whole
// rule is skipped for this sweep. Partial application would silently
// corrupt a subset of cells while the project is transiently
// inconsistent (a layer deleted before rule cleanup ran), so the rule
// applies all-or-nothing per sweep.
func applyRule(m *tilemap.Map, rs *RuleSet, r *Rule, src Source, written map[cellKey]struct{}) int {
	inputLayers := make([]int, len(r.Inputs))
	for i := range r.Inputs {
		idx, ok := m.LayerIndex(r.Inputs[i].LayerID)
		if !ok {
			slog.Debug("rule skipped: input layer not found",
				"rule_set", rs.ID, "rule", r.ID, "layer", r.Inputs[i].LayerID)
			return 0
		}
		inputLayers[i] = idx
	}
	outputLayers := make([]int, len(r.Outputs))
	for i := range r.Outputs {
		idx, ok := m.LayerIndex(r.Outputs[i].LayerID)
		if !ok {
			slog.Debug("rule skipped: output layer not found",
				"rule_set", rs.ID, "rule", r.ID, "layer", r.Outputs[i].LayerID)
			return 0
		}
		outputLayers[i] = idx
	}

	explicit := r.explicitIndices()

	// The anti-overlap skip check is keyed against the first output
	// alternative's layer. Rules without the flag neither check nor
	// record; the written-set only carries cells from flagged rules.
	track := r.NoOverlap && len(outputLayers) > 0
	overlapLayer := -1
	if track {
		overlapLayer = outputLayers[0]
	}

	fired := 0
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if track {
				if _, done := written[cellKey{overlapLayer, x, y}]; done {
					continue
				}
			}

			matched := true
			for gi := range r.Inputs {
				if !matchGroup(m, inputLayers[gi], &r.Inputs[gi], x, y, rs.Edge, explicit) {
					matched = false
					break
				}
			}
			if !matched {
				continue
			}

			choice, ok := selectOutput(src, r.Outputs)
			if !ok {
				// All weights zero: the position matches but nothing
				// is written and no draw was consumed.
				continue
			}
			record := written
			if !track {
				record = nil
			}
			applyOutput(m, outputLayers[choice], &r.Outputs[choice], x, y, record)
			fired++
		}
	}
	return fired
}

// matchGroup reports whether every windowed matcher of one input group
// is satisfied at the candidate position (cx, cy).
//
// Out-of-bounds window cells follow the edge policy: EdgeSkip fails the
// entire group outright, even if the cell's matcher is MatchIgnore;
// EdgeTreatAsEmpty evaluates the matcher against a logically empty cell.
// A matcher list shorter than the declared window is a non-match.
func matchGroup(m *tilemap.Map, layer int, g *InputGroup, cx, cy int, edge EdgeHandling, explicit map[uint32]struct{}) bool {
	if len(g.Cells) < g.CellCount() {
		return false
	}
	cols := g.Columns()
	rows := g.Rows()
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			ax := cx + col - g.HalfWidth
			ay := cy + row - g.HalfHeight

			v := tilemap.Empty
			if !m.InBounds(ax, ay) {
				if edge == EdgeSkip {
					return false
				}
			} else {
				v = m.At(layer, ax, ay)
			}

			if !matchCell(g.Cells[row*cols+col], v, explicit) {
				return false
			}
		}
	}
	return true
}

// applyOutput writes the chosen alternative's window around (cx, cy).
// Out-of-bounds output cells are silently dropped; they never wrap.
// Written cells are recorded in the anti-overlap set when one is active.
func applyOutput(m *tilemap.Map, layer int, p *OutputPattern, cx, cy int, written map[cellKey]struct{}) {
	cols := p.Columns()
	rows := p.Rows()
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			idx := row*cols + col
			if idx >= len(p.Cells) {
				// Malformed pattern: remaining cells have no authored
				// output, so the writes stop here.
				return
			}
			out := p.Cells[idx]
			if out.Kind == OutIgnore {
				continue
			}

			ax := cx + col - p.HalfWidth
			ay := cy + row - p.HalfHeight
			if !m.InBounds(ax, ay) {
				continue
			}

			switch out.Kind {
			case OutEmpty:
				m.Clear(layer, ax, ay)
			case OutTile:
				m.Set(layer, ax, ay, out.Value)
			}
			if written != nil {
				written[cellKey{layer, ax, ay}] = struct{}{}
			}
		}
	}
}
