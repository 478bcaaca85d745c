package registration

import (
	"errors"
	"fmt"
	"strings"
)

// Error represents a registration failure.
//
// Registration failures abort the run: no partial result is returned, since
// beacon deduplication needs every scanner in the global frame.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Unresolved lists scanner IDs still unplaced when the run stopped,
	// in ascending order. Set for ErrCodeStalled.
	Unresolved []int

	// Details contains additional context.
	Details map[string]string
}

// ErrorCode categorizes registration errors.
type ErrorCode string

const (
	// ErrCodeStalled indicates a full pass placed no new scanner while some
	// remain unresolved.
	ErrCodeStalled ErrorCode = "REGISTRATION_STALLED"

	// ErrCodeEmptyInput indicates there were no scanners to register.
	ErrCodeEmptyInput ErrorCode = "EMPTY_INPUT"

	// ErrCodeDuplicateScanner indicates two scanners share an ID.
	ErrCodeDuplicateScanner ErrorCode = "DUPLICATE_SCANNER"

	// ErrCodeInvalidThreshold indicates a consensus threshold below 1.
	ErrCodeInvalidThreshold ErrorCode = "INVALID_THRESHOLD"

	// ErrCodeInvalidOrientations indicates an unknown orientation mode.
	ErrCodeInvalidOrientations ErrorCode = "INVALID_ORIENTATIONS"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Unresolved) > 0 {
		return fmt.Sprintf("%s: %s (unresolved scanners: %s)", e.Code, e.Message, joinIDs(e.Unresolved))
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsStalled returns true if the error is a stalled registration.
// Uses errors.As to handle wrapped errors.
func IsStalled(err error) bool {
	return CodeOf(err) == ErrCodeStalled
}

// CodeOf returns the registration error code carried by err, or "".
func CodeOf(err error) ErrorCode {
	var re *Error
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}

// NewStalledError creates an Error for a pass that made no progress.
func NewStalledError(pass int, unresolved []int) *Error {
	return &Error{
		Code:       ErrCodeStalled,
		Message:    "insufficient overlap to place remaining scanners",
		Unresolved: unresolved,
		Details: map[string]string{
			"pass": fmt.Sprintf("%d", pass),
		},
	}
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ",")
}
