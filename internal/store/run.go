package store

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/beacon/internal/aggregate"
	"github.com/roach88/beacon/internal/canonical"
	"github.com/roach88/beacon/internal/geom"
	"github.com/roach88/beacon/internal/registration"
)

// Run is a persisted registration outcome.
type Run struct {
	ID            string    `json:"id"`
	Seq           int64     `json:"seq"`
	InputDigest   string    `json:"input_digest"`
	RunDigest     string    `json:"run_digest"`
	Label         string    `json:"label,omitempty"`
	Threshold     int       `json:"threshold"`
	Orientations  geom.Mode `json:"orientations"`
	Scanners      int       `json:"scanners"`
	UniqueBeacons int       `json:"unique_beacons"`
	MaxDistance   int       `json:"max_distance"`
	Passes        int       `json:"passes"`

	// Placements and Beacons are populated by ReadRun, not by ListRuns.
	Placements []Placement   `json:"placements,omitempty"`
	Beacons    []geom.Point `json:"beacons,omitempty"`
}

// Placement is one scanner's stored position.
type Placement struct {
	ScannerID   int        `json:"scanner_id"`
	Position    geom.Point `json:"position"`
	Orientation int        `json:"orientation"` // index into geom.AllOrientations
	Anchor      int        `json:"anchor"`
	Pass        int        `json:"pass"`
	Overlap     int        `json:"overlap"`
}

// NewRun builds a Run from a registration result.
// Placements are ordered by resolution order; beacons are sorted.
// The label is stored in normalized form and folded into RunDigest.
func NewRun(id, inputDigest, label string, res *registration.Result) (Run, error) {
	runDigest, err := canonical.RunDigest(inputDigest, res.Threshold, string(res.Mode), label)
	if err != nil {
		return Run{}, fmt.Errorf("new run %s: %w", id, err)
	}
	run := Run{
		ID:            id,
		InputDigest:   inputDigest,
		RunDigest:     runDigest,
		Label:         canonical.NormalizeLabel(label),
		Threshold:     res.Threshold,
		Orientations:  res.Mode,
		Scanners:      res.Len(),
		UniqueBeacons: aggregate.CountUniqueBeacons(res),
		MaxDistance:   aggregate.MaxScannerDistance(res),
		Passes:        res.Passes,
		Beacons:       aggregate.UniqueBeacons(res),
	}
	for _, r := range res.Resolutions() {
		run.Placements = append(run.Placements, Placement{
			ScannerID:   r.Scanner.ID,
			Position:    r.Position,
			Orientation: r.Orientation.Index(),
			Anchor:      r.Anchor,
			Pass:        r.Pass,
			Overlap:     r.Overlap,
		})
	}
	return run, nil
}

// RunIDGenerator generates unique run IDs.
// Implemented by UUIDv7Generator (production) and
// testutil.SequentialRunIDs (tests).
type RunIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run IDs.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
