package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapforge/automap/internal/tilemap"
)

func writeScenarioFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_Valid(t *testing.T) {
	path := writeScenarioFile(t, `
name: minimal
seed: 5
map:
  width: 1
  height: 1
  layers:
    - id: g
      rows:
        - [3]
rules: |
  rule_sets: []
`)
	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "minimal", s.Name)
	assert.Equal(t, uint64(5), s.Seed)
}

func TestLoadScenario_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			"missing name",
			"seed: 1\nrules: |\n  rule_sets: []\n",
			"missing a name",
		},
		{
			"neither rules nor rules_file",
			"name: s\nseed: 1\n",
			"exactly one of",
		},
		{
			"both rules and rules_file",
			"name: s\nseed: 1\nrules: \"rule_sets: []\"\nrules_file: other.yaml\n",
			"exactly one of",
		},
		{
			"unknown field",
			"name: s\nseed: 1\nrules: \"rule_sets: []\"\nrandom_seed: 2\n",
			"",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenarioFile(t, tc.content))
			require.Error(t, err)
			if tc.wantMsg != "" {
				assert.Contains(t, err.Error(), tc.wantMsg)
			}
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestBuildMap(t *testing.T) {
	s := &Scenario{
		Map: ScenarioMap{
			Width:  2,
			Height: 2,
			Layers: []ScenarioLayer{
				{ID: "g", Rows: [][]uint32{{1, 0}, {0, 2}}},
			},
		},
	}

	m, err := s.BuildMap()
	require.NoError(t, err)
	assert.Equal(t, tilemap.TileValue(1), m.At(0, 0, 0))
	assert.Equal(t, tilemap.TileValue(2), m.At(0, 1, 1))

	idx, ok := m.LayerIndex("g")
	require.True(t, ok)
	assert.Equal(t, "g", m.Layers[idx].Name, "layer name defaults to its id")
}

func TestBuildMap_RowArity(t *testing.T) {
	t.Run("wrong row count", func(t *testing.T) {
		s := &Scenario{
			Map: ScenarioMap{
				Width:  2,
				Height: 2,
				Layers: []ScenarioLayer{{ID: "g", Rows: [][]uint32{{1, 0}}}},
			},
		}
		_, err := s.BuildMap()
		assert.Error(t, err)
	})

	t.Run("wrong cell count", func(t *testing.T) {
		s := &Scenario{
			Map: ScenarioMap{
				Width:  2,
				Height: 1,
				Layers: []ScenarioLayer{{ID: "g", Rows: [][]uint32{{1, 0, 3}}}},
			},
		}
		_, err := s.BuildMap()
		assert.Error(t, err)
	})
}

func TestRun_InvalidRules(t *testing.T) {
	s := &Scenario{
		Name: "bad",
		Map: ScenarioMap{
			Width:  1,
			Height: 1,
			Layers: []ScenarioLayer{{ID: "g", Rows: [][]uint32{{0}}}},
		},
		Rules: "rule_sets:\n  - id: s\n    edge_handling: sideways\n    apply_mode: once\n    rules: []\n",
	}
	_, err := Run(s, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rules")
}
