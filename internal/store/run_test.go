package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/beacon/internal/geom"
	"github.com/roach88/beacon/internal/testutil"
)

func TestNewRun(t *testing.T) {
	run := exampleRun(t, "run-1")

	assert.Equal(t, "run-1", run.ID)
	assert.Len(t, run.InputDigest, 64)
	assert.Len(t, run.RunDigest, 64)
	assert.NotEqual(t, run.InputDigest, run.RunDigest)
	assert.Empty(t, run.Label)
	assert.Equal(t, 12, run.Threshold)
	assert.Equal(t, geom.ModeProper, run.Orientations)
	assert.Equal(t, 5, run.Scanners)
	assert.Equal(t, testutil.ExampleUniqueBeacons, run.UniqueBeacons)
	assert.Equal(t, testutil.ExampleMaxDistance, run.MaxDistance)
	assert.Len(t, run.Beacons, testutil.ExampleUniqueBeacons)
	require.Len(t, run.Placements, 5)
	assert.Equal(t, 0, run.Placements[0].ScannerID)
	assert.Equal(t, 0, run.Placements[0].Orientation)
	assert.Equal(t, -1, run.Placements[0].Anchor)
}

func TestWriteAndReadRun(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	run := exampleRun(t, "run-1")

	written, err := s.WriteRun(ctx, run)
	require.NoError(t, err)
	assert.Equal(t, int64(1), written.Seq)

	got, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, run.InputDigest, got.InputDigest)
	assert.Equal(t, run.RunDigest, got.RunDigest)
	assert.Equal(t, run.UniqueBeacons, got.UniqueBeacons)
	assert.Equal(t, run.MaxDistance, got.MaxDistance)
	assert.Equal(t, run.Passes, got.Passes)
	assert.Equal(t, run.Beacons, got.Beacons)

	require.Len(t, got.Placements, 5)
	for i, p := range got.Placements {
		assert.Equal(t, i, p.ScannerID)
		assert.Equal(t, testutil.ExamplePositions[i], p.Position)
		o, err := geom.OrientationAt(p.Orientation)
		require.NoError(t, err)
		assert.True(t, o.IsProper())
	}
}

func TestWriteRun_DuplicateID(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	run := exampleRun(t, "dup")

	_, err := s.WriteRun(ctx, run)
	require.NoError(t, err)
	_, err = s.WriteRun(ctx, run)
	assert.Error(t, err)

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestListRuns_OrderedBySeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)

	ids := testutil.NewSequentialRunIDs("")
	for i := 0; i < 3; i++ {
		_, err := s.WriteRun(ctx, exampleRun(t, ids.Generate()))
		require.NoError(t, err)
	}

	runs, err = s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	for i, r := range runs {
		assert.Equal(t, int64(i+1), r.Seq)
		assert.Nil(t, r.Placements)
	}
	assert.Equal(t, "run-0001", runs[0].ID)
	assert.Equal(t, "run-0003", runs[2].ID)
}

func TestReadRun_NotFound(t *testing.T) {
	s := createTestStore(t)
	_, err := s.ReadRun(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRunNotFound))
}

func TestFindByDigest(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first := exampleRun(t, "first")
	_, err := s.WriteRun(ctx, first)
	require.NoError(t, err)
	_, err = s.WriteRun(ctx, exampleRun(t, "second"))
	require.NoError(t, err)

	labeled := labeledRun(t, "labeled", "nightly")
	_, err = s.WriteRun(ctx, labeled)
	require.NoError(t, err)

	got, err := s.FindByDigest(ctx, first.RunDigest)
	require.NoError(t, err)
	assert.Equal(t, "second", got.ID)
	assert.Len(t, got.Placements, 5)

	got, err = s.FindByDigest(ctx, labeled.RunDigest)
	require.NoError(t, err)
	assert.Equal(t, "labeled", got.ID)
	assert.Equal(t, "nightly", got.Label)

	_, err = s.FindByDigest(ctx, first.InputDigest)
	assert.True(t, errors.Is(err, ErrRunNotFound))
	_, err = s.FindByDigest(ctx, "")
	assert.True(t, errors.Is(err, ErrRunNotFound))
}

func TestRunLabel_StoredNormalized(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	decomposed := labeledRun(t, "nfd", "  cafe\u0301 ")
	assert.Equal(t, "caf\u00e9", decomposed.Label)
	composed := labeledRun(t, "nfc", "caf\u00e9")
	assert.Equal(t, composed.RunDigest, decomposed.RunDigest)

	_, err := s.WriteRun(ctx, decomposed)
	require.NoError(t, err)

	got, err := s.ReadRun(ctx, "nfd")
	require.NoError(t, err)
	assert.Equal(t, "caf\u00e9", got.Label)

	found, err := s.FindByDigest(ctx, composed.RunDigest)
	require.NoError(t, err)
	assert.Equal(t, "nfd", found.ID)
}

func TestUUIDv7Generator(t *testing.T) {
	g := UUIDv7Generator{}
	a := g.Generate()
	b := g.Generate()
	assert.NotEqual(t, a, b)

	parsed, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}
