package testutil

import (
	_ "embed"
	"testing"

	"github.com/roach88/beacon/internal/geom"
	"github.com/roach88/beacon/internal/scan"
)

//go:embed testdata/example.txt
var exampleInput string

// Known results for the five-scanner example.
const (
	ExampleUniqueBeacons = 79
	ExampleMaxDistance   = 3621
)

// ExamplePositions are the global scanner positions of the example, in the
// frame of scanner 0.
var ExamplePositions = map[int]geom.Point{
	0: {X: 0, Y: 0, Z: 0},
	1: {X: 68, Y: -1246, Z: -43},
	2: {X: 1105, Y: -1205, Z: 1229},
	3: {X: -92, Y: -2430, Z: -1150},
	4: {X: -20, Y: -1133, Z: 1061},
}

// ExampleInput returns the raw text of the five-scanner example.
func ExampleInput() string {
	return exampleInput
}

// ExampleScanners parses the five-scanner example, failing the test on error.
func ExampleScanners(t testing.TB) []scan.Scanner {
	t.Helper()
	scanners, err := scan.ParseString(exampleInput)
	if err != nil {
		t.Fatalf("parse example: %v", err)
	}
	return scanners
}
