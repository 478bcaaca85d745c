package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/beacon/internal/testutil"
)

var harnessTestdata = filepath.Join("..", "harness", "testdata")

func TestTest_HarnessScenarios(t *testing.T) {
	code, stdout, _ := execute(t, "test", harnessTestdata)
	assert.Equal(t, ExitSuccess, code, stdout)
	assert.Contains(t, stdout, "✓ example\n")
	assert.Contains(t, stdout, "✓ example_parallel\n")
	assert.Contains(t, stdout, "✓ stalled\n")
	assert.Contains(t, stdout, "Test Summary: 3 passed, 0 failed, 3 total")
}

func TestTest_Filter(t *testing.T) {
	code, stdout, _ := execute(t, "--format", "json", "test", "--filter", "example*", harnessTestdata)
	require.Equal(t, ExitSuccess, code)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.Data.Total)
	assert.Equal(t, 2, resp.Data.Passed)
}

func TestTest_NoScenarios(t *testing.T) {
	code, stdout, _ := execute(t, "test", t.TempDir())
	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "No scenarios found.\n", stdout)
}

func TestTest_MissingDir(t *testing.T) {
	code, _, stderr := execute(t, "test", filepath.Join(t.TempDir(), "nope"))
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "scenarios directory not found")
}

// writeScenarioDir creates a scenario directory with one example scenario.
func writeScenarioDir(t *testing.T, expect string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "example.txt"), []byte(testutil.ExampleInput()), 0644))
	scenario := "name: custom\ndescription: \"custom scenario\"\ninput: example.txt\nexpect:\n" + expect
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.yaml"), []byte(scenario), 0644))
	return dir
}

func TestTest_FailingScenario(t *testing.T) {
	dir := writeScenarioDir(t, "  unique_beacons: 80\n")

	code, stdout, _ := execute(t, "test", dir)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stdout, "✗ custom")
	assert.Contains(t, stdout, "unique_beacons: expected 80, got 79")
	assert.Contains(t, stdout, "Test Summary: 0 passed, 1 failed, 1 total")
}

func TestTest_FailingScenarioJSON(t *testing.T) {
	dir := writeScenarioDir(t, "  max_distance: 1\n")

	code, stdout, _ := execute(t, "--format", "json", "test", dir)
	assert.Equal(t, ExitFailure, code)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
}

func TestTest_InvalidScenario(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: broken\n"), 0644))

	code, stdout, _ := execute(t, "test", dir)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stdout, "✗ broken.yaml")
	assert.Contains(t, stdout, "failed to load scenario")
}

func TestTest_UpdateThenCompareGolden(t *testing.T) {
	dir := writeScenarioDir(t, "  unique_beacons: 79\n")
	goldenPath := filepath.Join(dir, "golden", "custom.golden")

	code, stdout, _ := execute(t, "test", "--update", dir)
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "✓ custom (golden updated)")

	data, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "unique_beacons: 79\nmax_distance: 3621\n")

	code, _, _ = execute(t, "test", dir)
	assert.Equal(t, ExitSuccess, code)

	require.NoError(t, os.WriteFile(goldenPath, []byte("scanners: 1\n"), 0644))
	code, stdout, _ = execute(t, "test", dir)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stdout, "report does not match golden file")
}
