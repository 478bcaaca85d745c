package harness

import (
	"fmt"
	"slices"
	"sort"

	"github.com/google/go-cmp/cmp"

	"github.com/roach88/beacon/internal/geom"
)

// EvaluateExpectations checks a scenario outcome and returns one message per
// mismatch. An empty slice means every expectation held.
func EvaluateExpectations(exp Expectation, result *Result) []string {
	var errs []string

	if exp.Error != nil {
		return expectFailure(*exp.Error, result)
	}

	if result.Failure != nil {
		return append(errs, fmt.Sprintf("unexpected registration error: %v", result.Failure))
	}
	summary := result.Summary
	if summary == nil {
		return append(errs, "registration produced no summary")
	}

	if exp.UniqueBeacons != nil && *exp.UniqueBeacons != summary.UniqueBeacons {
		errs = append(errs, fmt.Sprintf("unique_beacons: expected %d, got %d", *exp.UniqueBeacons, summary.UniqueBeacons))
	}

	if exp.MaxDistance != nil && *exp.MaxDistance != summary.MaxDistance {
		errs = append(errs, fmt.Sprintf("max_distance: expected %d, got %d", *exp.MaxDistance, summary.MaxDistance))
	}

	if len(exp.Positions) > 0 {
		errs = append(errs, comparePositions(exp.Positions, result)...)
	}

	return errs
}

func expectFailure(exp ExpectedError, result *Result) []string {
	if result.Failure == nil {
		return []string{fmt.Sprintf("expected error %s, registration succeeded", exp.Code)}
	}

	var errs []string
	if string(result.Failure.Code) != exp.Code {
		errs = append(errs, fmt.Sprintf("error code: expected %s, got %s", exp.Code, result.Failure.Code))
	}
	if exp.Unresolved != nil && !slices.Equal(exp.Unresolved, result.Failure.Unresolved) {
		errs = append(errs, fmt.Sprintf("unresolved: expected %v, got %v", exp.Unresolved, result.Failure.Unresolved))
	}
	return errs
}

// comparePositions checks only the scanners the scenario names.
func comparePositions(want map[int]string, result *Result) []string {
	got := make(map[int]string, len(want))
	for _, p := range result.Summary.Placements {
		if _, ok := want[p.ID]; ok {
			got[p.ID] = p.Position
		}
	}

	normalized := make(map[int]string, len(want))
	ids := make([]int, 0, len(want))
	for id, pos := range want {
		pt, err := geom.ParsePoint(pos)
		if err != nil {
			return []string{fmt.Sprintf("positions[%d]: %v", id, err)}
		}
		normalized[id] = pt.String()
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var errs []string
	for _, id := range ids {
		if _, ok := got[id]; !ok {
			errs = append(errs, fmt.Sprintf("scanner %d: not in result", id))
		}
	}
	if diff := cmp.Diff(normalized, got); diff != "" && len(errs) == 0 {
		errs = append(errs, fmt.Sprintf("positions mismatch (-want +got):\n%s", diff))
	}
	return errs
}
