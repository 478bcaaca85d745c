// Package testutil provides fixtures shared by package tests: the worked
// five-scanner example, a synthetic scanner generator with known ground
// truth, and deterministic run ID generators.
package testutil
