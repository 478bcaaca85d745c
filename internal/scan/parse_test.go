package scan

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/beacon/internal/geom"
)

const twoScanners = `--- scanner 0 ---
0,2,0
4,1,0
3,3,0

--- scanner 1 ---
-1,-1,0
-5,0,0
-2,1,0
`

func TestParse_TwoBlocks(t *testing.T) {
	scanners, err := ParseString(twoScanners)
	require.NoError(t, err)
	require.Len(t, scanners, 2)

	assert.Equal(t, 0, scanners[0].ID)
	assert.Equal(t, []geom.Point{{X: 0, Y: 2}, {X: 4, Y: 1}, {X: 3, Y: 3}}, scanners[0].Beacons)
	assert.Equal(t, 1, scanners[1].ID)
	assert.Equal(t, geom.Point{X: -2, Y: 1}, scanners[1].Beacons[2])
	assert.Equal(t, 6, BeaconCount(scanners))
}

func TestParse_ToleratesCRLFAndExtraBlankLines(t *testing.T) {
	input := "\r\n--- scanner 3 ---\r\n1,2,3\r\n\r\n\r\n--- scanner 8 ---\r\n 4, 5, 6 \r\n"
	scanners, err := ParseString(input)
	require.NoError(t, err)
	require.Len(t, scanners, 2)
	assert.Equal(t, 3, scanners[0].ID)
	assert.Equal(t, 8, scanners[1].ID)
	assert.Equal(t, geom.Point{X: 4, Y: 5, Z: 6}, scanners[1].Beacons[0])
}

func TestParse_HeaderWithoutBlankSeparator(t *testing.T) {
	scanners, err := ParseString("--- scanner 0 ---\n1,1,1\n--- scanner 1 ---\n2,2,2\n")
	require.NoError(t, err)
	require.Len(t, scanners, 2)
	assert.Len(t, scanners[0].Beacons, 1)
	assert.Len(t, scanners[1].Beacons, 1)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		line   int
		reason string
	}{
		{"empty", "", 0, "no scanners"},
		{"blank only", "\n\n", 0, "no scanners"},
		{"coordinate before header", "1,2,3\n", 1, "outside a scanner block"},
		{"coordinate after blank line", "--- scanner 0 ---\n1,2,3\n\n4,5,6\n", 4, "outside a scanner block"},
		{"bad header", "--- scanner zero ---\n", 1, "scanner id"},
		{"malformed header", "--- sensor 0 ---\n", 1, "malformed scanner header"},
		{"negative id", "--- scanner -1 ---\n", 1, "non-negative"},
		{"two components", "--- scanner 0 ---\n1,2\n", 2, "3 comma-separated"},
		{"not a number", "--- scanner 0 ---\n1,b,3\n", 2, "component 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input)
			require.Error(t, err)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.line, pe.Line)
			assert.Contains(t, pe.Error(), tt.reason)
		})
	}
}

func TestFormatRoundTrip(t *testing.T) {
	scanners, err := ParseString(twoScanners)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Format(&buf, scanners))
	assert.Equal(t, twoScanners, buf.String())
}

func TestLoad_DirectAndFallback(t *testing.T) {
	dir := t.TempDir()
	inputs := filepath.Join(dir, "inputs")
	require.NoError(t, os.MkdirAll(inputs, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(inputs, "scan.txt"), []byte(twoScanners), 0o644))

	scanners, err := Load(filepath.Join(inputs, "scan.txt"))
	require.NoError(t, err)
	assert.Len(t, scanners, 2)

	scanners, err = Load("scan.txt", filepath.Join(dir, "missing"), inputs)
	require.NoError(t, err)
	assert.Len(t, scanners, 2)

	resolved, err := Resolve("scan.txt", inputs)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(inputs, "scan.txt"), resolved)
}

func TestLoad_NotFound(t *testing.T) {
	dir := t.TempDir()
	_, err := Load("nope.txt", dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInputNotFound))
	assert.Contains(t, err.Error(), filepath.Join(dir, "nope.txt"))
}

func TestLoad_DirectoryIsNotInput(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.True(t, errors.Is(err, ErrInputNotFound))
}

func TestLoad_ParseErrorNamesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.txt")
	require.NoError(t, os.WriteFile(path, []byte("--- scanner 0 ---\nx\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)

	var pe *ParseError
	assert.True(t, errors.As(err, &pe))
}
