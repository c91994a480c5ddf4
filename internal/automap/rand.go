package automap

import (
	"fmt"
	"math/rand/v2"
)

// Source is the uniform random source the engine draws from for weighted
// output selection. Implemented by SeededSource (production) and
// FixedSource (tests).
//
// Every draw in an Apply call goes through a single Source in
// deterministic order (sweep order, rule order, rule set order), which
// is what makes output reproducible given a fixed seed.
type Source interface {
	// IntN returns a uniform value in [0, n). n must be positive.
	IntN(n int) int
}

// SeededSource is a deterministic PCG-backed source.
//
// Not safe for concurrent use, which is fine: the engine is a single
// synchronous pass and threads one source through every selection.
type SeededSource struct {
	r *rand.Rand
}

// NewSeeded creates a source that produces the same draw sequence for
// the same seed on every platform.
func NewSeeded(seed uint64) *SeededSource {
	return &SeededSource{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// IntN returns a uniform value in [0, n).
func (s *SeededSource) IntN(n int) int {
	return s.r.IntN(n)
}

// FixedSource returns predetermined draws for testing.
//
// Tests provide the exact sequence of values the engine will consume and
// can then assert exact output. Exhausting the sequence panics; that is
// a test bug (the expected draw count was wrong), not a runtime
// condition to tolerate.
type FixedSource struct {
	draws []int
	idx   int
}

// NewFixedSource creates a source that returns draws in order.
//
// Example:
//
//	src := NewFixedSource(0, 2, 1)
//	src.IntN(3) // 0
//	src.IntN(3) // 2
//	src.IntN(3) // 1
//	src.IntN(3) // panic: draws exhausted
func NewFixedSource(draws ...int) *FixedSource {
	return &FixedSource{draws: draws}
}

// IntN returns the next predetermined draw.
// Panics if the sequence is exhausted or the draw is outside [0, n).
func (s *FixedSource) IntN(n int) int {
	if s.idx >= len(s.draws) {
		panic(fmt.Sprintf("FixedSource: draws exhausted after %d", len(s.draws)))
	}
	d := s.draws[s.idx]
	s.idx++
	if d < 0 || d >= n {
		panic(fmt.Sprintf("FixedSource: draw %d out of range [0, %d)", d, n))
	}
	return d
}

// Remaining returns the number of unconsumed draws.
// Tests use this to assert the engine drew exactly as often as expected.
func (s *FixedSource) Remaining() int {
	return len(s.draws) - s.idx
}
