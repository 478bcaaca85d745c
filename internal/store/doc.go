// Package store provides SQLite-backed persistence for registration runs.
//
// Each run records:
//   - Run header: input digest, parameters, and both answers
//   - Scanner placements: position, orientation index, anchor, pass
//   - Unique beacons: the deduplicated global beacon set
//
// Runs are written in a single transaction and never updated. Runs are
// numbered with a monotonic seq assigned at write time; listings are
// ORDER BY seq ASC so output is stable.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Input digests are computed by internal/canonical.
package store
