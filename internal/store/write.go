package store

import (
	"context"
	"fmt"
)

// WriteRun inserts a run with its placements and beacons in one transaction.
// The run's Seq is assigned here and returned.
//
// Writing a run ID twice is an error; runs are never overwritten.
func (s *Store) WriteRun(ctx context.Context, run Run) (Run, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return Run{}, fmt.Errorf("write run: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, input_digest, run_digest, label, threshold, orientation_mode, scanner_count, unique_beacons, max_distance, passes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		seq,
		run.InputDigest,
		run.RunDigest,
		run.Label,
		run.Threshold,
		string(run.Orientations),
		run.Scanners,
		run.UniqueBeacons,
		run.MaxDistance,
		run.Passes,
	)
	if err != nil {
		return Run{}, fmt.Errorf("write run %s: %w", run.ID, err)
	}

	scannerStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_scanners
		(run_id, scanner_id, x, y, z, orientation, anchor, pass, overlap)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return Run{}, fmt.Errorf("write run: prepare scanners: %w", err)
	}
	defer scannerStmt.Close()

	for _, p := range run.Placements {
		if _, err := scannerStmt.ExecContext(ctx,
			run.ID, p.ScannerID, p.Position.X, p.Position.Y, p.Position.Z,
			p.Orientation, p.Anchor, p.Pass, p.Overlap,
		); err != nil {
			return Run{}, fmt.Errorf("write run: scanner %d: %w", p.ScannerID, err)
		}
	}

	beaconStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_beacons (run_id, x, y, z) VALUES (?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`)
	if err != nil {
		return Run{}, fmt.Errorf("write run: prepare beacons: %w", err)
	}
	defer beaconStmt.Close()

	for _, b := range run.Beacons {
		if _, err := beaconStmt.ExecContext(ctx, run.ID, b.X, b.Y, b.Z); err != nil {
			return Run{}, fmt.Errorf("write run: beacon %s: %w", b, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("write run: commit: %w", err)
	}

	run.Seq = seq
	return run, nil
}
