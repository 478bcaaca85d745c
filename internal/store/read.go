package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/beacon/internal/geom"
)

// ErrRunNotFound is returned when no run matches a lookup.
var ErrRunNotFound = errors.New("run not found")

const runColumns = `id, seq, input_digest, run_digest, label, threshold, orientation_mode, scanner_count, unique_beacons, max_distance, passes`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		r    Run
		mode string
	)
	err := row.Scan(&r.ID, &r.Seq, &r.InputDigest, &r.RunDigest, &r.Label, &r.Threshold, &mode,
		&r.Scanners, &r.UniqueBeacons, &r.MaxDistance, &r.Passes)
	if err != nil {
		return Run{}, err
	}
	r.Orientations = geom.Mode(mode)
	return r, nil
}

// ReadRun returns a run with its placements (ordered by scanner ID) and
// beacons (sorted by x, y, z).
func (s *Store) ReadRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("read run %s: %w", id, err)
	}

	if run.Placements, err = s.readPlacements(ctx, id); err != nil {
		return nil, err
	}
	if run.Beacons, err = s.readBeacons(ctx, id); err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns returns run headers ordered by seq.
// Returns an empty slice (not nil) when the store holds no runs.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// FindByDigest returns the most recent run with the given run digest
// (see canonical.RunDigest), fully populated.
func (s *Store) FindByDigest(ctx context.Context, runDigest string) (*Run, error) {
	if runDigest == "" {
		return nil, fmt.Errorf("%w: empty run digest", ErrRunNotFound)
	}
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM runs
		WHERE run_digest = ?
		ORDER BY seq DESC
		LIMIT 1
	`, runDigest).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: digest %s", ErrRunNotFound, runDigest)
	}
	if err != nil {
		return nil, fmt.Errorf("find run by digest: %w", err)
	}
	return s.ReadRun(ctx, id)
}

func (s *Store) readPlacements(ctx context.Context, runID string) ([]Placement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT scanner_id, x, y, z, orientation, anchor, pass, overlap
		FROM run_scanners
		WHERE run_id = ?
		ORDER BY scanner_id ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query placements: %w", err)
	}
	defer rows.Close()

	placements := []Placement{}
	for rows.Next() {
		var p Placement
		if err := rows.Scan(&p.ScannerID, &p.Position.X, &p.Position.Y, &p.Position.Z,
			&p.Orientation, &p.Anchor, &p.Pass, &p.Overlap); err != nil {
			return nil, fmt.Errorf("scan placement: %w", err)
		}
		placements = append(placements, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate placements: %w", err)
	}
	return placements, nil
}

func (s *Store) readBeacons(ctx context.Context, runID string) ([]geom.Point, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT x, y, z FROM run_beacons
		WHERE run_id = ?
		ORDER BY x ASC, y ASC, z ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query beacons: %w", err)
	}
	defer rows.Close()

	beacons := []geom.Point{}
	for rows.Next() {
		var p geom.Point
		if err := rows.Scan(&p.X, &p.Y, &p.Z); err != nil {
			return nil, fmt.Errorf("scan beacon: %w", err)
		}
		beacons = append(beacons, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate beacons: %w", err)
	}
	return beacons, nil
}
