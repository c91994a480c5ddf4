package tilemap

// TileValue is a packed cell value: a base tile index in the low 30 bits
// plus two independent flip flags in the top bits. The zero value means
// the cell is empty. Authored tile indices start at 1, so index 0 with no
// flags never denotes a real tile.
//
// The packing mirrors the GID convention of common tile-map formats,
// where flip state travels with the tile reference rather than living in
// a side table.
type TileValue uint32

const (
	// FlipHorizontal marks a tile drawn mirrored on the X axis.
	FlipHorizontal TileValue = 1 << 31
	// FlipVertical marks a tile drawn mirrored on the Y axis.
	FlipVertical TileValue = 1 << 30

	flagMask  = FlipHorizontal | FlipVertical
	indexMask = ^flagMask
)

// Empty is the packed value of an empty cell.
const Empty TileValue = 0

// Pack builds a TileValue from a base index and flip flags.
func Pack(index uint32, flipX, flipY bool) TileValue {
	v := TileValue(index) & indexMask
	if flipX {
		v |= FlipHorizontal
	}
	if flipY {
		v |= FlipVertical
	}
	return v
}

// IsEmpty reports whether the value denotes an empty cell.
func (v TileValue) IsEmpty() bool {
	return v == Empty
}

// Index returns the base tile index with the flip bits stripped.
func (v TileValue) Index() uint32 {
	return uint32(v & indexMask)
}

// FlipX reports the horizontal flip flag.
func (v TileValue) FlipX() bool {
	return v&FlipHorizontal != 0
}

// FlipY reports the vertical flip flag.
func (v TileValue) FlipY() bool {
	return v&FlipVertical != 0
}
