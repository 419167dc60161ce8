/*
errors.go - Centralized error types for the shift engine

PURPOSE:
  All engine error types in one place for consistency and discoverability.
  Callers should test with errors.Is/errors.As; the service and API layers
  map these onto responses.

ERROR CATEGORIES:
  1. Pattern errors    - Malformed pattern input (fatal to generation)
  2. Lifecycle errors  - Invalid shift status transitions
  3. Input errors      - Malformed shift/ruleset input from callers
  4. Lookup errors     - Missing records (returned by stores)

NOT ERRORS:
  A pattern that cannot resolve yet (cycling pattern without a cycle start
  date, or with an empty rotation) is a valid transient state: the resolver
  reports "not scheduled" and generation yields zero shifts. Aggregation
  never errors either; missing inputs leave optional result fields unset.

SEE ALSO:
  - rotation.go: Returns ErrInvalidPattern for contract violations
  - lifecycle.go: Returns TransitionError for wrong-state transitions
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidPattern is returned when pattern input violates the contract:
	// non-positive cycle length, or rotation-day indices that are not unique
	// and contiguous 0..N-1. Generation must fail rather than silently
	// produce shifts from a malformed pattern.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrInvalidTransition is returned when a lifecycle operation is applied
	// to a shift in the wrong status (e.g. clocking out a shift that was
	// never clocked in). The engine rejects these instead of silently
	// mutating state.
	ErrInvalidTransition = errors.New("invalid lifecycle transition")

	// ErrInvalidRate is returned for non-positive rate multipliers.
	ErrInvalidRate = errors.New("invalid rate multiplier")

	// ErrInvalidShift is returned for malformed ad-hoc shift input, such as
	// a non-positive duration.
	ErrInvalidShift = errors.New("invalid shift input")

	// ErrInvalidRuleset is returned for malformed pay-ruleset input, such as
	// a negative unpaid break.
	ErrInvalidRuleset = errors.New("invalid ruleset")

	// ErrShiftNotFound is returned by stores for unknown or deleted shifts.
	ErrShiftNotFound = errors.New("shift not found")

	// ErrPatternNotFound is returned by stores for unknown or deleted patterns.
	ErrPatternNotFound = errors.New("pattern not found")

	// ErrRulesetNotFound is returned when an owner has no stored ruleset.
	// Callers typically fall back to DefaultRuleset.
	ErrRulesetNotFound = errors.New("ruleset not found")

	// ErrPeriodNotFound is returned by stores for unknown pay periods.
	ErrPeriodNotFound = errors.New("pay period not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// TransitionError details a rejected lifecycle transition.
type TransitionError struct {
	ShiftID   ShiftID
	From      ShiftStatus
	Operation string // "clock_in", "clock_out", "cancel"
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s shift %s in status %q", e.Operation, e.ShiftID, e.From)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// PatternError details a pattern contract violation.
type PatternError struct {
	PatternID PatternID
	Detail    string
}

func (e *PatternError) Error() string {
	if e.PatternID == "" {
		return fmt.Sprintf("invalid pattern: %s", e.Detail)
	}
	return fmt.Sprintf("invalid pattern %s: %s", e.PatternID, e.Detail)
}

func (e *PatternError) Unwrap() error { return ErrInvalidPattern }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidPattern) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrInvalidRate) ||
		errors.Is(err, ErrInvalidShift) ||
		errors.Is(err, ErrInvalidRuleset)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrShiftNotFound) ||
		errors.Is(err, ErrPatternNotFound) ||
		errors.Is(err, ErrRulesetNotFound) ||
		errors.Is(err, ErrPeriodNotFound)
}
