package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/beacon/internal/aggregate"
	"github.com/roach88/beacon/internal/registration"
	"github.com/roach88/beacon/internal/scan"
)

// Run executes a scenario with a discarded logger.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario, nil)
}

// RunContext executes a scenario and evaluates its expectations.
//
// A registration error is an outcome, not a harness failure: it is recorded
// in Result.Failure and checked against the expectations. The returned
// error is reserved for problems running the scenario at all (unreadable
// input, bad settings, cancellation).
func RunContext(ctx context.Context, scenario *Scenario, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	cfg, err := scenario.Config()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	scanners, err := scan.Load(scenario.Input)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	eng := registration.New(append(cfg.EngineOptions(), registration.WithLogger(logger))...)

	result := NewResult()
	res, err := eng.Register(ctx, scanners)
	if err != nil {
		var regErr *registration.Error
		if !errors.As(err, &regErr) {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		result.Failure = regErr
	} else {
		summary := aggregate.Summarize(res)
		result.Summary = &summary
	}

	for _, msg := range EvaluateExpectations(scenario.Expect, result) {
		result.AddError(msg)
	}

	logger.Debug("scenario complete", "scenario", scenario.Name, "pass", result.Pass)
	return result, nil
}
