package automap

import (
	"log/slog"

	"github.com/mapforge/automap/internal/tilemap"
)

// MaxStablePasses bounds until-stable execution. Weighted output
// selection can make strict convergence impossible by design, so hitting
// the cap is a diagnostic, not an error; the map keeps whatever state
// the final pass produced.
const MaxStablePasses = 100

// runUntilStable repeats full passes until one changes nothing, up to
// MaxStablePasses.
//
// Change detection snapshots only the layers actually referenced by the
// set's rules, collected once per invocation, and compares those same
// layers after each pass. A first pass that changes nothing terminates
// after exactly one pass.
func runUntilStable(m *tilemap.Map, rs *RuleSet, src Source) RuleSetStats {
	var layers []int
	for _, id := range rs.referencedLayers() {
		// Unresolvable references cannot change: every rule touching
		// them is skipped whole by applyRule.
		if idx, ok := m.LayerIndex(id); ok {
			layers = append(layers, idx)
		}
	}

	fired := 0
	for pass := 1; pass <= MaxStablePasses; pass++ {
		snapshots := make([][]tilemap.TileValue, len(layers))
		for i, li := range layers {
			snapshots[i] = m.SnapshotLayer(li)
		}

		fired += runPass(m, rs, src)

		changed := false
		for i, li := range layers {
			if !m.LayerEquals(li, snapshots[i]) {
				changed = true
				break
			}
		}
		if !changed {
			return RuleSetStats{RuleSetID: rs.ID, Passes: pass, Fired: fired, Converged: true}
		}
	}

	slog.Warn("rule set did not stabilize",
		"rule_set", rs.ID,
		"passes", MaxStablePasses,
	)
	return RuleSetStats{RuleSetID: rs.ID, Passes: MaxStablePasses, Fired: fired, Converged: false}
}
