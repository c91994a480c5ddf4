// Package automap implements the rule-based automapping engine.
//
// The engine scans a tile map position by position and applies authored
// rules that rewrite layers based on what surrounds each position: a rule
// matches one or more rectangular matcher windows (AND-composed, each
// bound to its own layer) against the cells around a candidate position,
// and on a match writes one weighted-randomly chosen output window.
//
// ARCHITECTURE:
//
// Single synchronous pass, strict ordering:
//  1. Rule sets run in configuration order; disabled sets are skipped.
//  2. Within a set, each rule performs a full row-major grid sweep before
//     the next rule starts, so rule N sees the grid as left by rule N-1.
//  3. A set in until-stable mode repeats full passes until a pass changes
//     no referenced layer, bounded by MaxStablePasses.
//
// All evaluation is single-threaded and every random draw goes through
// one injected Source in sweep order, so a fixed seed reproduces the
// exact same output. No wall-clock input, no global RNG, no concurrency.
//
// ERROR HANDLING: the engine absorbs its three failure classes after
// logging. A rule referencing a layer the map no longer has is skipped
// whole for the sweep; a matcher or output window shorter than its
// declared size is treated as a non-match; a set that fails to stabilize
// within MaxStablePasses returns the state after the final pass. None of
// these surface as errors to the caller.
package automap
