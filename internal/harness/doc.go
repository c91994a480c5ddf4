// Package harness runs automap conformance scenarios.
//
// A scenario is a YAML file describing an input map, a rule
// configuration (inline or by path), and a seed. The runner applies the
// configuration with a seeded source, so a scenario always produces the
// same map; tests assert on expected layer contents and compare the
// canonical JSON of the result against golden files.
//
// Golden files live in testdata/golden and are regenerated with:
//
//	go test ./internal/harness -update
package harness
