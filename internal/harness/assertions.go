package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapforge/automap/internal/tilemap"
)

// AssertExpectations checks every expect block of the scenario against
// the resulting map. Layers are compared cell by cell so a failure names
// the exact coordinate.
func AssertExpectations(t *testing.T, scenario *Scenario, m *tilemap.Map) {
	t.Helper()

	for _, exp := range scenario.Expect {
		idx, ok := m.LayerIndex(exp.Layer)
		require.True(t, ok, "expected layer %q not found", exp.Layer)
		require.Len(t, exp.Rows, m.Height, "layer %q: expected row count", exp.Layer)

		for y, row := range exp.Rows {
			require.Len(t, row, m.Width, "layer %q row %d: expected cell count", exp.Layer, y)
			for x, want := range row {
				got := m.At(idx, x, y)
				assert.Equal(t, tilemap.TileValue(want), got,
					"layer %q cell (%d,%d)", exp.Layer, x, y)
			}
		}
	}
}
