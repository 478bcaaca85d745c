package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/beacon/internal/registration"
)

func TestRunWithGolden_Testdata(t *testing.T) {
	for _, name := range []string{"example", "example_parallel", "stalled"} {
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(filepath.Join("testdata", name+".yaml"))
			require.NoError(t, err)
			require.NoError(t, RunWithGolden(t, scenario))
		})
	}
}

func TestReport_Failure(t *testing.T) {
	result := &Result{Failure: registration.NewStalledError(3, []int{2, 5})}

	data, err := Report(result)
	require.NoError(t, err)
	assert.Equal(t, "error: REGISTRATION_STALLED\nunresolved: 2,5\n", string(data))
}

func TestReport_Empty(t *testing.T) {
	_, err := Report(NewResult())
	assert.Error(t, err)
}

func TestGoldenPath(t *testing.T) {
	scenario := &Scenario{Name: "example"}
	got := GoldenPath(filepath.Join("scenarios", "example.yaml"), scenario)
	assert.Equal(t, filepath.Join("scenarios", "golden", "example.golden"), got)
}

func TestUpdateAndCompareGolden(t *testing.T) {
	result, err := Run(exampleScenario())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "golden", "example.golden")
	_, err = CompareGolden(path, result)
	assert.Error(t, err)

	require.NoError(t, UpdateGolden(path, result))

	match, err := CompareGolden(path, result)
	require.NoError(t, err)
	assert.True(t, match)

	result.Summary.UniqueBeacons++
	match, err = CompareGolden(path, result)
	require.NoError(t, err)
	assert.False(t, match)
}
