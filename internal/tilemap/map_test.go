package tilemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayerIndex(t *testing.T) {
	m := New(2, 2)
	m.AddLayer("ground", "Ground")
	m.AddLayer("deco", "Deco")

	idx, ok := m.LayerIndex("deco")
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = m.LayerIndex("missing")
	assert.False(t, ok)
}

func TestLayerIndex_NFCNormalization(t *testing.T) {
	m := New(1, 1)
	// Decomposed form: 'e' followed by COMBINING ACUTE ACCENT.
	m.AddLayer("café", "Café")

	// Composed form resolves to the same layer.
	idx, ok := m.LayerIndex("café")
	require.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestMap_CellAccess(t *testing.T) {
	m := New(3, 2)
	m.AddLayer("l", "L")

	m.Set(0, 1, 1, Pack(5, false, false))
	assert.Equal(t, Pack(5, false, false), m.At(0, 1, 1))

	m.Clear(0, 1, 1)
	assert.True(t, m.At(0, 1, 1).IsEmpty())
}

func TestMap_OutOfBoundsAccess(t *testing.T) {
	m := New(2, 2)
	m.AddLayer("l", "L")

	// Reads outside the grid are empty, writes are dropped.
	assert.Equal(t, Empty, m.At(0, -1, 0))
	assert.Equal(t, Empty, m.At(0, 0, 2))

	m.Set(0, 5, 5, Pack(1, false, false))
	for _, v := range m.Layers[0].Tiles {
		assert.Equal(t, Empty, v)
	}
}

func TestMap_SnapshotAndCompare(t *testing.T) {
	m := New(2, 1)
	m.AddLayer("l", "L")
	m.Set(0, 0, 0, Pack(3, false, false))

	snap := m.SnapshotLayer(0)
	assert.True(t, m.LayerEquals(0, snap))

	m.Set(0, 1, 0, Pack(4, false, false))
	assert.False(t, m.LayerEquals(0, snap))

	// The snapshot is a copy, not an alias.
	assert.Equal(t, Empty, snap[1])
}

func TestMap_Clone(t *testing.T) {
	m := New(2, 1)
	m.AddLayer("l", "L")
	m.Set(0, 0, 0, Pack(3, false, false))

	c := m.Clone()
	c.Set(0, 0, 0, Pack(9, false, false))

	assert.Equal(t, Pack(3, false, false), m.At(0, 0, 0), "clone must not alias the original")
	assert.Equal(t, Pack(9, false, false), c.At(0, 0, 0))
}

func TestMap_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		m := New(2, 2)
		m.AddLayer("a", "A")
		assert.NoError(t, m.Validate())
	})

	t.Run("bad dimensions", func(t *testing.T) {
		m := New(0, 2)
		assert.Error(t, m.Validate())
	})

	t.Run("empty layer id", func(t *testing.T) {
		m := New(1, 1)
		m.AddLayer("", "A")
		assert.Error(t, m.Validate())
	})

	t.Run("duplicate layer id", func(t *testing.T) {
		m := New(1, 1)
		m.AddLayer("a", "A")
		m.AddLayer("a", "B")
		assert.Error(t, m.Validate())
	})

	t.Run("ragged tile buffer", func(t *testing.T) {
		m := New(2, 2)
		l := m.AddLayer("a", "A")
		l.Tiles = l.Tiles[:3]
		assert.Error(t, m.Validate())
	})
}

func TestParse(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		m, err := Parse([]byte(`{"width":2,"height":1,"layers":[{"id":"g","name":"G","tiles":[5,0]}]}`))
		require.NoError(t, err)
		assert.Equal(t, 2, m.Width)
		assert.Equal(t, TileValue(5), m.At(0, 0, 0))
	})

	t.Run("malformed JSON", func(t *testing.T) {
		_, err := Parse([]byte(`{"width":`))
		assert.Error(t, err)
	})

	t.Run("inconsistent document", func(t *testing.T) {
		_, err := Parse([]byte(`{"width":2,"height":1,"layers":[{"id":"g","name":"G","tiles":[5]}]}`))
		assert.Error(t, err)
	})
}
