package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mapforge/automap/internal/tilemap"
)

// Scenario defines one automap conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario; it names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Seed drives the engine's random source. Scenarios are always
	// seeded; an unseeded scenario could not be compared to a golden
	// file.
	Seed uint64 `yaml:"seed"`

	// Map is the input map.
	Map ScenarioMap `yaml:"map"`

	// Rules is an inline YAML rule configuration.
	// Exactly one of Rules and RulesFile must be set.
	Rules string `yaml:"rules,omitempty"`

	// RulesFile is a rule configuration path, relative to the scenario
	// file's directory.
	RulesFile string `yaml:"rules_file,omitempty"`

	// Expect lists layer contents to assert after the run. Layers not
	// listed are unconstrained (the golden file still pins them).
	Expect []ExpectLayer `yaml:"expect,omitempty"`
}

// ScenarioMap describes the input map inline.
type ScenarioMap struct {
	Width  int             `yaml:"width"`
	Height int             `yaml:"height"`
	Layers []ScenarioLayer `yaml:"layers"`
}

// ScenarioLayer is one layer given as rows of packed tile values.
// 0 means empty; plain indices are unflipped tiles.
type ScenarioLayer struct {
	ID   string     `yaml:"id"`
	Name string     `yaml:"name,omitempty"`
	Rows [][]uint32 `yaml:"rows"`
}

// ExpectLayer asserts a layer's full contents after the run.
type ExpectLayer struct {
	Layer string     `yaml:"layer"`
	Rows  [][]uint32 `yaml:"rows"`
}

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}

	if scenario.Name == "" {
		return nil, fmt.Errorf("scenario is missing a name")
	}
	if (scenario.Rules == "") == (scenario.RulesFile == "") {
		return nil, fmt.Errorf("scenario %q: exactly one of rules and rules_file must be set", scenario.Name)
	}
	return &scenario, nil
}

// BuildMap converts the inline map description into a tilemap.Map.
func (s *Scenario) BuildMap() (*tilemap.Map, error) {
	m := tilemap.New(s.Map.Width, s.Map.Height)
	for _, sl := range s.Map.Layers {
		name := sl.Name
		if name == "" {
			name = sl.ID
		}
		layer := m.AddLayer(sl.ID, name)
		if err := fillRows(layer.Tiles, sl.Rows, s.Map.Width, s.Map.Height); err != nil {
			return nil, fmt.Errorf("layer %q: %w", sl.ID, err)
		}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func fillRows(tiles []tilemap.TileValue, rows [][]uint32, width, height int) error {
	if len(rows) != height {
		return fmt.Errorf("%d rows, want %d", len(rows), height)
	}
	for y, row := range rows {
		if len(row) != width {
			return fmt.Errorf("row %d has %d cells, want %d", y, len(row), width)
		}
		for x, v := range row {
			tiles[y*width+x] = tilemap.TileValue(v)
		}
	}
	return nil
}
