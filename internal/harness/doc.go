// Package harness runs registration scenarios as executable contract tests.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: example
//	description: "Five-scanner example resolves in the frame of scanner 0"
//	input: inputs/example.txt   # relative to the scenario file
//	threshold: 12               # optional, default 12
//	orientations: proper        # optional, "proper" or "all"
//	workers: 4                  # optional, default 1
//	expect:
//	  unique_beacons: 79
//	  max_distance: 3621
//	  positions:
//	    1: "68,-1246,-43"
//
// A scenario that expects registration to fail names the error instead:
//
//	expect:
//	  error:
//	    code: REGISTRATION_STALLED
//	    unresolved: [2]
//
// # Golden Reports
//
// Each run renders a text report (see Report). RunWithGolden compares it with
// testdata/golden/<name>.golden through goldie; regenerate with
//
//	go test ./internal/harness -update
//
// Every scenario runs with a discarded logger and its own engine, so runs
// are isolated and reports are byte-for-byte reproducible.
package harness
