package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Report renders the stable text report for a scenario outcome.
//
// Success writes the aggregate summary (both answers, then one line per
// scanner position). Failure writes the error code and unresolved IDs.
func Report(result *Result) ([]byte, error) {
	var buf bytes.Buffer
	switch {
	case result.Summary != nil:
		if err := result.Summary.WriteText(&buf); err != nil {
			return nil, err
		}
	case result.Failure != nil:
		fmt.Fprintf(&buf, "error: %s\n", result.Failure.Code)
		if len(result.Failure.Unresolved) > 0 {
			ids := make([]string, len(result.Failure.Unresolved))
			for i, id := range result.Failure.Unresolved {
				ids[i] = fmt.Sprintf("%d", id)
			}
			fmt.Fprintf(&buf, "unresolved: %s\n", strings.Join(ids, ","))
		}
	default:
		return nil, fmt.Errorf("result has neither summary nor failure")
	}
	return buf.Bytes(), nil
}

// RunWithGolden executes a scenario and compares its report against a golden
// file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if the scenario could not run or its expectations failed.
// A report mismatch fails t through goldie.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return err
	}

	if !result.Pass {
		return fmt.Errorf("scenario %s failed: %s", scenario.Name, strings.Join(result.Errors, "; "))
	}
	return nil
}

// AssertGolden compares an existing result's report against a golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := Report(result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}

// GoldenPath returns the golden file for a scenario file: a golden/
// directory beside the scenario, named after the scenario.
func GoldenPath(scenarioFile string, scenario *Scenario) string {
	return filepath.Join(filepath.Dir(scenarioFile), "golden", scenario.Name+".golden")
}

// CompareGolden reports whether result's report matches the file at path.
func CompareGolden(path string, result *Result) (bool, error) {
	want, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read golden file: %w", err)
	}
	got, err := Report(result)
	if err != nil {
		return false, err
	}
	return bytes.Equal(want, got), nil
}

// UpdateGolden writes result's report to path, creating its directory.
func UpdateGolden(path string, result *Result) error {
	data, err := Report(result)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}
