// Package harness runs scenario-driven conformance checks against the
// tabular engine. Scenarios are YAML files describing a column set, seed
// rows, a feature configuration, and a sequence of user operations; the
// runner executes them against a fresh engine and snapshots the resulting
// view state as canonical JSON for golden-file comparison.
//
// To regenerate golden files after an intentional behavior change:
//
//	go test ./internal/harness -update
package harness
