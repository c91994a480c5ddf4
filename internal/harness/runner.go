package harness

import (
	"fmt"
	"path/filepath"

	"github.com/mapforge/automap/internal/automap"
	"github.com/mapforge/automap/internal/rules"
	"github.com/mapforge/automap/internal/tilemap"
)

// Result holds the outcome of one scenario run.
type Result struct {
	Map   *tilemap.Map
	Stats automap.ApplyStats
}

// Run executes a scenario: build the map, load the rules, apply with a
// seeded source. baseDir resolves a relative RulesFile; it may be empty
// for inline rules.
func Run(scenario *Scenario, baseDir string) (*Result, error) {
	m, err := scenario.BuildMap()
	if err != nil {
		return nil, fmt.Errorf("scenario %q: build map: %w", scenario.Name, err)
	}

	var cfg *automap.Config
	var errs []error
	if scenario.Rules != "" {
		cfg, errs = rules.Parse([]byte(scenario.Rules))
	} else {
		cfg, errs = rules.LoadFile(filepath.Join(baseDir, scenario.RulesFile))
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("scenario %q: invalid rules: %w", scenario.Name, errs[0])
	}

	stats := automap.Apply(m, *cfg, automap.NewSeeded(scenario.Seed))
	return &Result{Map: m, Stats: stats}, nil
}
