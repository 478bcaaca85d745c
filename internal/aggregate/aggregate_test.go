package aggregate

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/beacon/internal/geom"
	"github.com/roach88/beacon/internal/registration"
	"github.com/roach88/beacon/internal/scan"
	"github.com/roach88/beacon/internal/testutil"
)

func registerExample(t *testing.T) *registration.Result {
	t.Helper()
	res, err := registration.New().Register(context.Background(), testutil.ExampleScanners(t))
	require.NoError(t, err)
	return res
}

func TestExampleAnswers(t *testing.T) {
	res := registerExample(t)
	assert.Equal(t, testutil.ExampleUniqueBeacons, CountUniqueBeacons(res))
	assert.Equal(t, testutil.ExampleMaxDistance, MaxScannerDistance(res))
}

func TestAnswersAreStableAcrossRuns(t *testing.T) {
	a := registerExample(t)
	b := registerExample(t)
	assert.Equal(t, CountUniqueBeacons(a), CountUniqueBeacons(b))
	assert.Equal(t, MaxScannerDistance(a), MaxScannerDistance(b))
	assert.Equal(t, UniqueBeacons(a), UniqueBeacons(b))
}

func TestUniqueBeaconsSortedAndDistinct(t *testing.T) {
	beacons := UniqueBeacons(registerExample(t))
	require.Len(t, beacons, testutil.ExampleUniqueBeacons)
	for i := 1; i < len(beacons); i++ {
		assert.True(t, beacons[i-1].Less(beacons[i]), "beacons[%d] should precede beacons[%d]", i-1, i)
	}
	assert.Equal(t, geom.Point{X: -892, Y: 524, Z: 684}, beacons[0])
}

func TestSyntheticUnion(t *testing.T) {
	pl := testutil.Placement{Orientation: geom.Orientations()[17], Position: geom.Point{X: 40, Y: 50, Z: -60}}
	scanners, all := testutil.NewGenerator(21).Pair(12, 9, pl)

	res, err := registration.New().Register(context.Background(), scanners)
	require.NoError(t, err)
	assert.Equal(t, len(all), CountUniqueBeacons(res))
	assert.Equal(t, pl.Position.Manhattan(geom.Origin), MaxScannerDistance(res))
}

func TestMaxScannerDistance_SingleScanner(t *testing.T) {
	res, err := registration.New().Register(context.Background(), []scan.Scanner{
		{ID: 0, Beacons: []geom.Point{{X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, MaxScannerDistance(res))
	assert.Equal(t, 1, CountUniqueBeacons(res))
}

func TestSummarize(t *testing.T) {
	s := Summarize(registerExample(t))
	assert.Equal(t, 5, s.Scanners)
	assert.Equal(t, testutil.ExampleUniqueBeacons, s.UniqueBeacons)
	assert.Equal(t, testutil.ExampleMaxDistance, s.MaxDistance)
	require.Len(t, s.Placements, 5)
	for i, p := range s.Placements {
		assert.Equal(t, i, p.ID)
		assert.Equal(t, testutil.ExamplePositions[i].String(), p.Position)
	}
	assert.Equal(t, -1, s.Placements[0].Anchor)
	assert.Equal(t, "+x+y+z", s.Placements[0].Orientation)
}

func TestSummaryWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Summarize(registerExample(t)).WriteText(&buf))
	assert.Equal(t, `scanners: 5
unique_beacons: 79
max_distance: 3621
scanner 0: 0,0,0
scanner 1: 68,-1246,-43
scanner 2: 1105,-1205,1229
scanner 3: -92,-2430,-1150
scanner 4: -20,-1133,1061
`, buf.String())
}
