/*
generate.go - Shift materialization over a date range

PURPOSE:
  Turns a pattern plus a date range into concrete, dated Shift records.
  One resolver call per calendar day; off days produce nothing.

IDEMPOTENCE:
  Generating the same range twice yields structurally identical shifts
  (same start/end/duration/break). IDs differ per call; deduplication
  against already-persisted shifts is the caller's job (the schedule
  service does it by pattern + calendar day).

SEE ALSO:
  - rotation.go: Per-day scheduling decisions
  - schedule/service.go: Dedup and persistence around generation
*/
package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GenerateShifts emits one candidate shift per scheduled day in
// [from, to] inclusive, ordered ascending by scheduled start.
//
// A malformed definition fails with ErrInvalidPattern before any shift is
// produced. A pattern that cannot resolve (no cycle start, empty rotation,
// empty weekday set) yields zero shifts and no error.
func GenerateShifts(pattern *PatternInstance, from, to time.Time, rules PayRuleset) ([]Shift, error) {
	if err := pattern.Definition.Validate(); err != nil {
		if pe, ok := err.(*PatternError); ok && pe.PatternID == "" {
			pe.PatternID = pattern.ID
		}
		return nil, err
	}

	breakMinutes := rules.BreakMinutesOr(pattern.Definition.BreakMinutes)

	var shifts []Shift
	for day := StartOfDay(from); !day.After(StartOfDay(to)); day = day.AddDate(0, 0, 1) {
		if !pattern.IsScheduled(day) {
			continue
		}

		startMinute, durationMinutes := pattern.EffectiveTiming(day)
		start := day.Add(time.Duration(startMinute) * time.Minute)
		end := start.Add(time.Duration(durationMinutes) * time.Minute)

		title := pattern.Definition.Name
		if rd, ok := pattern.rotationDayFor(day); ok && rd.Name != "" {
			title = rd.Name
		}

		shift := Shift{
			ID:             ShiftID(uuid.NewString()),
			OwnerID:        pattern.OwnerID,
			PatternID:      pattern.ID,
			Title:          title,
			ScheduledStart: start,
			ScheduledEnd:   end,
			BreakMinutes:   breakMinutes,
			Status:         StatusScheduled,
			RateMultiplier: decimal.NewFromInt(1),
		}
		shift.RecalculatePaidMinutes()
		shifts = append(shifts, shift)
	}
	return shifts, nil
}
