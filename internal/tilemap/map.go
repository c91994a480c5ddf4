package tilemap

import (
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Layer is one addressable tile layer of a map.
//
// ID is the stable identity used by rule configurations; it survives
// renames, so display names are never used for resolution. Tiles is a
// flat row-major buffer of Width×Height cells (index = y*width + x);
// a flat slice keeps snapshots and comparisons a single copy.
type Layer struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Tiles []TileValue `json:"tiles"`
}

// Map is a fixed-size 2D tile map with an ordered list of layers.
//
// Maps are plain serializable value structures. Nothing here is
// goroutine-safe; callers that mutate a map must hold it exclusively.
type Map struct {
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Layers []*Layer `json:"layers"`
}

// New creates an empty map of the given dimensions with no layers.
func New(width, height int) *Map {
	return &Map{Width: width, Height: height}
}

// AddLayer appends a new empty layer and returns it.
func (m *Map) AddLayer(id, name string) *Layer {
	l := &Layer{
		ID:    id,
		Name:  name,
		Tiles: make([]TileValue, m.Width*m.Height),
	}
	m.Layers = append(m.Layers, l)
	return l
}

// LayerIndex resolves a stable layer id to its positional index.
// Ids are compared after NFC normalization so configs and maps edited by
// different tools agree on non-ASCII ids. Resolution fails (ok=false)
// when no layer carries the id, e.g. after a layer was deleted.
func (m *Map) LayerIndex(id string) (int, bool) {
	want := norm.NFC.String(id)
	for i, l := range m.Layers {
		if norm.NFC.String(l.ID) == want {
			return i, true
		}
	}
	return 0, false
}

// InBounds reports whether (x, y) lies inside the map.
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

// At returns the packed value at (x, y) on the given layer.
// Out-of-bounds coordinates read as Empty.
func (m *Map) At(layer, x, y int) TileValue {
	if !m.InBounds(x, y) {
		return Empty
	}
	return m.Layers[layer].Tiles[y*m.Width+x]
}

// Set writes a packed value at (x, y) on the given layer.
// Out-of-bounds writes are dropped.
func (m *Map) Set(layer, x, y int, v TileValue) {
	if !m.InBounds(x, y) {
		return
	}
	m.Layers[layer].Tiles[y*m.Width+x] = v
}

// Clear erases the cell at (x, y) on the given layer.
func (m *Map) Clear(layer, x, y int) {
	m.Set(layer, x, y, Empty)
}

// SnapshotLayer returns a copy of a layer's tile data.
func (m *Map) SnapshotLayer(layer int) []TileValue {
	snap := make([]TileValue, len(m.Layers[layer].Tiles))
	copy(snap, m.Layers[layer].Tiles)
	return snap
}

// LayerEquals reports whether a layer's tile data matches a snapshot.
func (m *Map) LayerEquals(layer int, snapshot []TileValue) bool {
	tiles := m.Layers[layer].Tiles
	if len(tiles) != len(snapshot) {
		return false
	}
	for i, v := range tiles {
		if v != snapshot[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the map.
func (m *Map) Clone() *Map {
	c := &Map{Width: m.Width, Height: m.Height}
	for _, l := range m.Layers {
		tiles := make([]TileValue, len(l.Tiles))
		copy(tiles, l.Tiles)
		c.Layers = append(c.Layers, &Layer{ID: l.ID, Name: l.Name, Tiles: tiles})
	}
	return c
}

// Validate checks structural consistency: positive dimensions, unique
// layer ids, and tile buffers sized exactly Width×Height.
func (m *Map) Validate() error {
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("invalid map dimensions %dx%d", m.Width, m.Height)
	}
	seen := make(map[string]bool, len(m.Layers))
	for i, l := range m.Layers {
		if l.ID == "" {
			return fmt.Errorf("layer %d: empty id", i)
		}
		id := norm.NFC.String(l.ID)
		if seen[id] {
			return fmt.Errorf("layer %d: duplicate id %q", i, l.ID)
		}
		seen[id] = true
		if len(l.Tiles) != m.Width*m.Height {
			return fmt.Errorf("layer %q: %d tiles, want %d", l.ID, len(l.Tiles), m.Width*m.Height)
		}
	}
	return nil
}
