package automap

import "github.com/mapforge/automap/internal/tilemap"

// MatcherKind discriminates CellMatcher variants.
type MatcherKind int

const (
	// MatchIgnore always matches; the cell is excluded from the decision.
	MatchIgnore MatcherKind = iota
	// MatchEmpty matches iff the cell is empty.
	MatchEmpty
	// MatchNonEmpty matches iff the cell holds any tile.
	MatchNonEmpty
	// MatchTile matches iff the cell's base index equals Index, in any
	// flip state.
	MatchTile
	// MatchNotTile matches an empty cell, or any tile whose base index
	// differs from Index.
	MatchNotTile
	// MatchTileFlipped matches iff the base index equals Index and the
	// flip flags equal exactly (FlipX, FlipY).
	MatchTileFlipped
	// MatchOther matches any tile whose base index is not named
	// explicitly anywhere else in the same rule. It never matches an
	// empty cell.
	MatchOther
)

// CellMatcher describes what one window cell must look like for an input
// group to match. Index and the flip flags are only meaningful for the
// kinds that name them.
type CellMatcher struct {
	Kind  MatcherKind
	Index uint32
	FlipX bool
	FlipY bool
}

// matchCell evaluates one matcher against a cell value. Out-of-bounds
// cells under the treat-as-empty edge policy are passed in as
// tilemap.Empty, so they behave exactly like in-bounds empty cells here.
//
// explicit is the rule-scoped set of tile indices named by MatchTile,
// MatchNotTile, or MatchTileFlipped anywhere in the rule; it is the
// complement basis for MatchOther.
func matchCell(m CellMatcher, v tilemap.TileValue, explicit map[uint32]struct{}) bool {
	switch m.Kind {
	case MatchIgnore:
		return true
	case MatchEmpty:
		return v.IsEmpty()
	case MatchNonEmpty:
		return !v.IsEmpty()
	case MatchTile:
		return !v.IsEmpty() && v.Index() == m.Index
	case MatchNotTile:
		return v.IsEmpty() || v.Index() != m.Index
	case MatchTileFlipped:
		return !v.IsEmpty() &&
			v.Index() == m.Index &&
			v.FlipX() == m.FlipX &&
			v.FlipY() == m.FlipY
	case MatchOther:
		if v.IsEmpty() {
			return false
		}
		_, named := explicit[v.Index()]
		return !named
	default:
		return false
	}
}

// OutputKind discriminates CellOutput variants.
type OutputKind int

const (
	// OutIgnore leaves the cell unchanged.
	OutIgnore OutputKind = iota
	// OutEmpty erases the cell.
	OutEmpty
	// OutTile writes Value verbatim, flip bits included.
	OutTile
)

// CellOutput describes what to write to one window cell when a rule fires.
type CellOutput struct {
	Kind  OutputKind
	Value tilemap.TileValue
}
