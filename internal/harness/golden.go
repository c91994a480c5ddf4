package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/mapforge/automap/internal/tilemap"
)

// RunWithGolden executes a scenario, checks its expect blocks, and
// compares the canonical JSON of the resulting map against the golden
// file testdata/golden/{scenario.Name}.golden.
//
// Canonical JSON is the same serialization the map fingerprint hashes,
// so a golden match is equivalent to a fingerprint match but diffs
// readably when it fails.
func RunWithGolden(t *testing.T, scenario *Scenario, baseDir string) {
	t.Helper()

	result, err := Run(scenario, baseDir)
	if err != nil {
		t.Fatalf("run scenario: %v", err)
	}

	AssertExpectations(t, scenario, result.Map)

	canonical, err := tilemap.CanonicalJSON(result.Map)
	if err != nil {
		t.Fatalf("canonical JSON: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, canonical)
}
