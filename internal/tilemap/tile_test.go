package tilemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPack_RoundTrip(t *testing.T) {
	testCases := []struct {
		name  string
		index uint32
		flipX bool
		flipY bool
	}{
		{"plain", 7, false, false},
		{"flip x", 7, true, false},
		{"flip y", 7, false, true},
		{"both flips", 7, true, true},
		{"large index", 1 << 29, true, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := Pack(tc.index, tc.flipX, tc.flipY)
			assert.Equal(t, tc.index, v.Index())
			assert.Equal(t, tc.flipX, v.FlipX())
			assert.Equal(t, tc.flipY, v.FlipY())
			assert.False(t, v.IsEmpty())
		})
	}
}

func TestTileValue_Empty(t *testing.T) {
	assert.True(t, Empty.IsEmpty())
	assert.Equal(t, uint32(0), Empty.Index())
	assert.False(t, Empty.FlipX())
	assert.False(t, Empty.FlipY())
}

func TestTileValue_IndexStripsFlips(t *testing.T) {
	v := Pack(42, true, true)
	assert.Equal(t, uint32(42), v.Index())
	assert.NotEqual(t, TileValue(42), v, "flip bits must be part of the packed value")
}
