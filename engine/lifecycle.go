/*
lifecycle.go - Shift status transitions and the overtime policy

PURPOSE:
  Governs a single shift's mutable fields as it moves through
  scheduled -> in_progress -> {completed, cancelled}. Completed and
  cancelled are terminal.

TRANSITION GUARDS:
  Wrong-state operations are rejected with a TransitionError instead of
  silently mutating (clocking out a shift that was never clocked in is a
  caller bug, not a state change).

OVERTIME POLICY:
  OvertimeMinutes is the one status-branching business rule in the engine:
  what counts as "overtime" depends on WHY the shift exists (additional /
  premium-rated shifts count in full), not just on its duration. The exact
  branches are spelled out on the method.

SEE ALSO:
  - aggregate.go: Consumes paid/premium minutes for period summaries
*/
package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TRANSITIONS
// =============================================================================

// ClockIn marks the shift started. Only a scheduled shift can clock in.
func (s *Shift) ClockIn(at time.Time) error {
	if s.Status != StatusScheduled {
		return &TransitionError{ShiftID: s.ID, From: s.Status, Operation: "clock_in"}
	}
	start := at
	s.ActualStart = &start
	s.Status = StatusInProgress
	s.UpdatedAt = at
	return nil
}

// ClockOut marks the shift finished and recomputes paid minutes from the
// actual interval. Only an in-progress shift can clock out.
func (s *Shift) ClockOut(at time.Time) error {
	if s.Status != StatusInProgress {
		return &TransitionError{ShiftID: s.ID, From: s.Status, Operation: "clock_out"}
	}
	end := at
	s.ActualEnd = &end
	s.Status = StatusCompleted
	s.UpdatedAt = at
	s.RecalculatePaidMinutes()
	return nil
}

// Cancel voids the shift. Terminal statuses cannot be cancelled.
func (s *Shift) Cancel(at time.Time) error {
	if s.Status.Terminal() {
		return &TransitionError{ShiftID: s.ID, From: s.Status, Operation: "cancel"}
	}
	s.Status = StatusCancelled
	s.UpdatedAt = at
	return nil
}

// RecalculatePaidMinutes rederives paid minutes from the effective
// duration (actual when clocked, scheduled otherwise) minus the unpaid
// break. Never negative.
func (s *Shift) RecalculatePaidMinutes() {
	paid := s.EffectiveDurationMinutes() - s.BreakMinutes
	if paid < 0 {
		paid = 0
	}
	s.PaidMinutes = paid
}

// SetRate applies a rate multiplier and optional label. The multiplier
// must be positive. Premium minutes are NOT rederived here; callers
// re-aggregate separately after rate changes.
func (s *Shift) SetRate(multiplier decimal.Decimal, label string, at time.Time) error {
	if !multiplier.IsPositive() {
		return fmt.Errorf("%w: %s", ErrInvalidRate, multiplier)
	}
	s.RateMultiplier = multiplier
	s.RateLabel = label
	s.UpdatedAt = at
	return nil
}

// =============================================================================
// OVERTIME POLICY
// =============================================================================

// OvertimeMinutes reports the minutes of the shift that count as overtime
// as of the given instant.
//
// in_progress:
//   - additional or premium-rated: elapsed-since-actual-start minus break
//     (or the precomputed paid minutes when no actual start exists)
//   - regular: elapsed minutes in excess of the scheduled duration, 0 if
//     not yet exceeded
//
// scheduled:
//   - additional or premium-rated shifts report their full paid minutes;
//     regular shifts report 0
//
// completed:
//   - premium minutes recorded: min(premiumMinutes, paidMinutes)
//   - otherwise additional/premium: full paid minutes
//   - otherwise: excess of actual over scheduled duration, 0 if none
//
// cancelled: always 0.
func (s *Shift) OvertimeMinutes(at time.Time) int {
	switch s.Status {
	case StatusInProgress:
		if s.IsPremium() {
			if s.ActualStart == nil {
				return s.PaidMinutes
			}
			elapsed := int(at.Sub(*s.ActualStart).Minutes()) - s.BreakMinutes
			if elapsed < 0 {
				return 0
			}
			return elapsed
		}
		start := s.ScheduledStart
		if s.ActualStart != nil {
			start = *s.ActualStart
		}
		over := int(at.Sub(start).Minutes()) - s.ScheduledDurationMinutes()
		if over < 0 {
			return 0
		}
		return over

	case StatusScheduled:
		if s.IsPremium() {
			return s.PaidMinutes
		}
		return 0

	case StatusCompleted:
		if s.PremiumMinutes > 0 {
			if s.PremiumMinutes < s.PaidMinutes {
				return s.PremiumMinutes
			}
			return s.PaidMinutes
		}
		if s.IsPremium() {
			return s.PaidMinutes
		}
		actual, ok := s.ActualDurationMinutes()
		if !ok {
			return 0
		}
		over := actual - s.ScheduledDurationMinutes()
		if over < 0 {
			return 0
		}
		return over

	default: // cancelled
		return 0
	}
}
