package automap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectOutput_AllZeroWeights(t *testing.T) {
	src := NewFixedSource() // any draw would panic
	outputs := []OutputPattern{{Weight: 0}}

	_, ok := selectOutput(src, outputs)
	assert.False(t, ok)
	assert.Equal(t, 0, src.Remaining(), "no draw may be consumed on no-selection")
}

func TestSelectOutput_EmptyList(t *testing.T) {
	_, ok := selectOutput(NewFixedSource(), nil)
	assert.False(t, ok)
}

func TestSelectOutput_SingleAlternative(t *testing.T) {
	outputs := []OutputPattern{{Weight: 1}}
	for range 5 {
		idx, ok := selectOutput(NewFixedSource(0), outputs)
		require.True(t, ok)
		assert.Equal(t, 0, idx)
	}
}

func TestSelectOutput_CumulativeWalk(t *testing.T) {
	outputs := []OutputPattern{{Weight: 1}, {Weight: 2}, {Weight: 1}}

	testCases := []struct {
		draw int
		want int
	}{
		{0, 0},
		{1, 1},
		{2, 1},
		{3, 2},
	}
	for _, tc := range testCases {
		idx, ok := selectOutput(NewFixedSource(tc.draw), outputs)
		require.True(t, ok)
		assert.Equal(t, tc.want, idx, "draw %d", tc.draw)
	}
}

func TestSelectOutput_ZeroWeightAlternativesSkipped(t *testing.T) {
	outputs := []OutputPattern{{Weight: 0}, {Weight: 3}}

	for draw := 0; draw < 3; draw++ {
		idx, ok := selectOutput(NewFixedSource(draw), outputs)
		require.True(t, ok)
		assert.Equal(t, 1, idx, "a zero-weight alternative is never selected")
	}
}
