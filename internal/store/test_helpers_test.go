package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/beacon/internal/canonical"
	"github.com/roach88/beacon/internal/registration"
	"github.com/roach88/beacon/internal/testutil"
)

// createTestStore creates a new store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// exampleRun registers the five-scanner example and wraps it as an
// unlabeled Run.
func exampleRun(t *testing.T, id string) Run {
	t.Helper()
	return labeledRun(t, id, "")
}

// labeledRun is exampleRun with a run label.
func labeledRun(t *testing.T, id, label string) Run {
	t.Helper()
	scanners := testutil.ExampleScanners(t)
	res, err := registration.New().Register(context.Background(), scanners)
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	digest, err := canonical.InputDigest(scanners)
	if err != nil {
		t.Fatalf("InputDigest() failed: %v", err)
	}
	run, err := NewRun(id, digest, label, res)
	if err != nil {
		t.Fatalf("NewRun() failed: %v", err)
	}
	return run
}
