package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/beacon/internal/testutil"
)

// writeInput writes a scanner report into a temp directory.
func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scanners.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// stalledInput is the example's first two scanners plus one that shares
// no beacons with either.
func stalledInput(t *testing.T) string {
	t.Helper()
	blocks := strings.Split(strings.TrimSpace(testutil.ExampleInput()), "\n\n")
	require.GreaterOrEqual(t, len(blocks), 2)
	return blocks[0] + "\n\n" + blocks[1] + "\n\n--- scanner 2 ---\n1,2,3\n-4,5,-6\n70,-80,90\n"
}

// execute runs the full CLI and captures both streams.
func execute(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = Execute(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}
