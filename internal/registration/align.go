package registration

import (
	"github.com/roach88/beacon/internal/geom"
)

// Alignment places a candidate scanner relative to an anchor's beacons.
type Alignment struct {
	// Orientation rotates candidate readings into the anchor frame.
	Orientation geom.Orientation

	// Offset is the candidate scanner's position in the anchor frame.
	Offset geom.Point

	// Overlap counts candidate beacons that land on an anchor beacon.
	Overlap int

	// Beacons are the candidate readings in the anchor frame, in input order.
	Beacons []geom.Point
}

// Align searches orientations in order for a translation proposed by at
// least threshold (anchor, candidate) beacon pairs.
//
// For each orientation every pair votes for anchor - reoriented(candidate).
// The first offset whose tally reaches threshold is accepted; later offsets
// and orientations are not examined. Returns false when no orientation
// reaches the threshold.
func Align(anchor, candidate []geom.Point, orientations []geom.Orientation, threshold int) (Alignment, bool) {
	if threshold < 1 || len(anchor) == 0 || len(candidate) == 0 {
		return Alignment{}, false
	}

	reoriented := make([]geom.Point, len(candidate))
	votes := make(map[geom.Point]int, len(anchor)*len(candidate))

	for _, o := range orientations {
		for i, b := range candidate {
			reoriented[i] = b.Apply(o)
		}
		clear(votes)

		offset, ok := tally(anchor, reoriented, votes, threshold)
		if !ok {
			continue
		}

		placed := make([]geom.Point, len(reoriented))
		for i, b := range reoriented {
			placed[i] = b.Add(offset)
		}
		return Alignment{
			Orientation: o,
			Offset:      offset,
			Overlap:     overlap(anchor, placed),
			Beacons:     placed,
		}, true
	}
	return Alignment{}, false
}

// tally counts offset votes, stopping at the first offset to reach threshold.
func tally(anchor, reoriented []geom.Point, votes map[geom.Point]int, threshold int) (geom.Point, bool) {
	for _, a := range anchor {
		for _, b := range reoriented {
			offset := a.Sub(b)
			votes[offset]++
			if votes[offset] == threshold {
				return offset, true
			}
		}
	}
	return geom.Point{}, false
}

func overlap(anchor, placed []geom.Point) int {
	set := make(map[geom.Point]struct{}, len(anchor))
	for _, a := range anchor {
		set[a] = struct{}{}
	}
	n := 0
	for _, p := range placed {
		if _, ok := set[p]; ok {
			n++
		}
	}
	return n
}
