package registration

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/beacon/internal/geom"
	"github.com/roach88/beacon/internal/scan"
)

// DefaultThreshold is the minimum number of agreeing beacon pairs that
// accepts an alignment. Twelve is the overlap the scanner inputs guarantee
// for every scanner pair that truly overlaps.
const DefaultThreshold = 12

// Engine places scanners into a single global frame.
//
// An Engine holds configuration only; Register may be called repeatedly and
// from several goroutines.
type Engine struct {
	threshold int
	mode      geom.Mode
	workers   int
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithThreshold sets the consensus threshold.
//
// Default: 12 (DefaultThreshold). Values below 1 make Register fail with
// ErrCodeInvalidThreshold.
func WithThreshold(n int) Option {
	return func(e *Engine) {
		e.threshold = n
	}
}

// WithOrientations selects the orientation set searched.
// Default: geom.ModeProper (24 rotations). A mode outside geom.ValidModes
// makes Register fail with ErrCodeInvalidOrientations.
func WithOrientations(mode geom.Mode) Option {
	return func(e *Engine) {
		e.mode = mode
	}
}

// WithWorkers sets how many alignment attempts run concurrently within a
// pass. Values below 1 are treated as 1.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		threshold: DefaultThreshold,
		mode:      geom.ModeProper,
		workers:   1,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers < 1 {
		e.workers = 1
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Threshold returns the configured consensus threshold.
func (e *Engine) Threshold() int { return e.threshold }

// Mode returns the configured orientation mode.
func (e *Engine) Mode() geom.Mode { return e.mode }

// Register places every scanner in the frame of scanners[0].
//
// Returns *Error with ErrCodeStalled when some scanner cannot be reached
// through a chain of overlaps, and the wrapped context error if ctx is
// cancelled between alignment attempts. No partial result is returned.
func (e *Engine) Register(ctx context.Context, scanners []scan.Scanner) (*Result, error) {
	if err := e.validate(scanners); err != nil {
		return nil, err
	}

	orientations := geom.OrientationsFor(e.mode)
	result := newResult(e.threshold, e.mode, len(scanners))

	origin := scanners[0]
	result.insert(&Resolution{
		Scanner:     origin,
		Position:    geom.Origin,
		Orientation: geom.Identity,
		Anchor:      -1,
		Pass:        0,
		Overlap:     len(origin.Beacons),
		Beacons:     append([]geom.Point(nil), origin.Beacons...),
	})

	pending := append([]scan.Scanner(nil), scanners[1:]...)

	e.logger.Debug("registration starting",
		"scanners", len(scanners),
		"threshold", e.threshold,
		"orientations", len(orientations),
		"workers", e.workers)

	for len(pending) > 0 {
		pass := result.Passes + 1
		anchors := result.Resolutions()

		found, err := e.runPass(ctx, pass, anchors, pending, orientations)
		if err != nil {
			return nil, fmt.Errorf("registration pass %d: %w", pass, err)
		}
		result.Passes = pass

		var remaining []scan.Scanner
		placed := 0
		for i, res := range found {
			if res == nil {
				remaining = append(remaining, pending[i])
				continue
			}
			result.insert(res)
			placed++
			e.logger.Debug("scanner resolved",
				"scanner", res.Scanner.ID,
				"anchor", res.Anchor,
				"position", res.Position.String(),
				"orientation", res.Orientation.String(),
				"overlap", res.Overlap,
				"pass", pass)
		}

		e.logger.Debug("pass complete", "pass", pass, "placed", placed, "remaining", len(remaining))

		if placed == 0 {
			ids := make([]int, len(remaining))
			for i, s := range remaining {
				ids[i] = s.ID
			}
			sort.Ints(ids)
			return nil, NewStalledError(pass, ids)
		}
		pending = remaining
	}

	e.logger.Info("registration complete", "scanners", result.Len(), "passes", result.Passes)
	return result, nil
}

// runPass tries every pending scanner against the anchor snapshot.
// found[i] is the placement of pending[i], or nil.
func (e *Engine) runPass(
	ctx context.Context,
	pass int,
	anchors []*Resolution,
	pending []scan.Scanner,
	orientations []geom.Orientation,
) ([]*Resolution, error) {
	found := make([]*Resolution, len(pending))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, candidate := range pending {
		i, candidate := i, candidate
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			found[i] = e.place(gctx, pass, candidate, anchors, orientations)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// A cancellation that lands after the last attempt started still
	// invalidates the pass.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return found, nil
}

// place aligns candidate against the first anchor that accepts it.
func (e *Engine) place(
	ctx context.Context,
	pass int,
	candidate scan.Scanner,
	anchors []*Resolution,
	orientations []geom.Orientation,
) *Resolution {
	for _, anchor := range anchors {
		if ctx.Err() != nil {
			return nil
		}
		al, ok := Align(anchor.Beacons, candidate.Beacons, orientations, e.threshold)
		if !ok {
			continue
		}
		return &Resolution{
			Scanner:     candidate,
			Position:    al.Offset,
			Orientation: al.Orientation,
			Anchor:      anchor.Scanner.ID,
			Pass:        pass,
			Overlap:     al.Overlap,
			Beacons:     al.Beacons,
		}
	}
	return nil
}

func (e *Engine) validate(scanners []scan.Scanner) error {
	if len(scanners) == 0 {
		return &Error{Code: ErrCodeEmptyInput, Message: "no scanners to register"}
	}
	if e.threshold < 1 {
		return &Error{
			Code:    ErrCodeInvalidThreshold,
			Message: fmt.Sprintf("consensus threshold must be at least 1, got %d", e.threshold),
		}
	}
	if !slices.Contains(geom.ValidModes, e.mode) {
		return &Error{
			Code:    ErrCodeInvalidOrientations,
			Message: fmt.Sprintf("unknown orientation mode %q: must be one of %v", e.mode, geom.ValidModes),
		}
	}

	seen := make(map[int]struct{}, len(scanners))
	for _, s := range scanners {
		if _, dup := seen[s.ID]; dup {
			return &Error{
				Code:    ErrCodeDuplicateScanner,
				Message: fmt.Sprintf("scanner %d appears more than once", s.ID),
				Details: map[string]string{"scanner": fmt.Sprintf("%d", s.ID)},
			}
		}
		seen[s.ID] = struct{}{}
	}
	return nil
}
