package harness

import (
	"github.com/roach88/beacon/internal/aggregate"
	"github.com/roach88/beacon/internal/registration"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates every expectation matched.
	Pass bool `json:"pass"`

	// Errors contains expectation mismatch messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Summary is set when registration succeeded.
	Summary *aggregate.Summary `json:"summary,omitempty"`

	// Failure is set when registration returned a registration error.
	Failure *registration.Error `json:"failure,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a mismatch message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
