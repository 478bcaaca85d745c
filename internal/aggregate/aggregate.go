// Package aggregate derives the final answers from a registration result:
// the deduplicated global beacon set and the largest scanner separation.
package aggregate

import (
	"fmt"
	"io"
	"sort"

	"github.com/roach88/beacon/internal/geom"
	"github.com/roach88/beacon/internal/registration"
)

// UniqueBeacons returns every distinct global beacon position, sorted.
func UniqueBeacons(res *registration.Result) []geom.Point {
	set := beaconSet(res)
	out := make([]geom.Point, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// CountUniqueBeacons returns the number of distinct global beacon positions.
func CountUniqueBeacons(res *registration.Result) int {
	return len(beaconSet(res))
}

func beaconSet(res *registration.Result) map[geom.Point]struct{} {
	set := make(map[geom.Point]struct{})
	for _, r := range res.Resolved {
		for _, b := range r.Beacons {
			set[b] = struct{}{}
		}
	}
	return set
}

// MaxScannerDistance returns the largest Manhattan distance between any two
// scanner positions, or 0 with fewer than two scanners.
func MaxScannerDistance(res *registration.Result) int {
	positions := make([]geom.Point, 0, len(res.Order))
	for _, id := range res.Order {
		positions = append(positions, res.Resolved[id].Position)
	}

	best := 0
	for i := range positions {
		for j := i + 1; j < len(positions); j++ {
			if d := positions[i].Manhattan(positions[j]); d > best {
				best = d
			}
		}
	}
	return best
}

// ScannerSummary is one scanner's placement in a Summary.
type ScannerSummary struct {
	ID          int    `json:"id"`
	Position    string `json:"position"`
	Orientation string `json:"orientation"`
	Anchor      int    `json:"anchor"`
	Pass        int    `json:"pass"`
	Overlap     int    `json:"overlap"`
}

// Summary is the reportable outcome of a registration run.
type Summary struct {
	Scanners      int              `json:"scanners"`
	UniqueBeacons int              `json:"unique_beacons"`
	MaxDistance   int              `json:"max_distance"`
	Passes        int              `json:"passes"`
	Placements    []ScannerSummary `json:"placements"`
}

// Summarize collects both answers and the per-scanner placements, ordered by
// scanner ID.
func Summarize(res *registration.Result) Summary {
	s := Summary{
		Scanners:      res.Len(),
		UniqueBeacons: CountUniqueBeacons(res),
		MaxDistance:   MaxScannerDistance(res),
		Passes:        res.Passes,
		Placements:    make([]ScannerSummary, 0, res.Len()),
	}
	for _, r := range res.Resolutions() {
		s.Placements = append(s.Placements, ScannerSummary{
			ID:          r.Scanner.ID,
			Position:    r.Position.String(),
			Orientation: r.Orientation.String(),
			Anchor:      r.Anchor,
			Pass:        r.Pass,
			Overlap:     r.Overlap,
		})
	}
	sort.Slice(s.Placements, func(i, j int) bool { return s.Placements[i].ID < s.Placements[j].ID })
	return s
}

// WriteText writes the stable text report: both answers, then one line per
// scanner position. Orientation and anchor are left out so the report
// depends only on the geometry.
func (s Summary) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "scanners: %d\nunique_beacons: %d\nmax_distance: %d\n",
		s.Scanners, s.UniqueBeacons, s.MaxDistance); err != nil {
		return err
	}
	for _, p := range s.Placements {
		if _, err := fmt.Fprintf(w, "scanner %d: %s\n", p.ID, p.Position); err != nil {
			return err
		}
	}
	return nil
}
