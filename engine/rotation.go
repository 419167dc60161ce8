/*
rotation.go - Cycle-index arithmetic and pattern resolution

PURPOSE:
  Answers, for any calendar date, "is this a work day under this pattern,
  and what timing applies?". This is the leaf layer everything else builds
  on: the generator calls it once per day in a range.

KEY RULES:
  DayIndexInCycle:
    Whole-day difference reduced with a mathematical modulus, so dates
    before the cycle start wrap backward through the cycle instead of
    producing negative indices.

  Resolution vs. validation:
    A malformed pattern (bad cycle length, broken rotation indices) is an
    ErrInvalidPattern. A pattern that is merely incomplete (no cycle start,
    empty rotation) is NOT an error: it resolves as "not scheduled" and
    generates nothing, because partially-configured patterns are valid
    transient states while the user is still building them.

SEE ALSO:
  - generate.go: Iterates dates and materializes shifts from resolution
  - errors.go: ErrInvalidPattern
*/
package engine

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// ROTATION CLOCK - Day-in-cycle arithmetic
// =============================================================================

// DayIndexInCycle converts a date into a zero-based index within an N-day
// cycle anchored at cycleStart. The result is always in [0, cycleLength),
// including for dates before cycleStart.
func DayIndexInCycle(date, cycleStart time.Time, cycleLength int) (int, error) {
	if cycleLength <= 0 {
		return 0, &PatternError{Detail: fmt.Sprintf("cycle length must be positive, got %d", cycleLength)}
	}
	return mathMod(DaysBetween(cycleStart, date), cycleLength), nil
}

// =============================================================================
// PATTERN VALIDATION
// =============================================================================

// Validate checks the pattern invariants that generation depends on.
// Incomplete-but-well-formed patterns (empty rotation, no weekdays) pass;
// they simply resolve to no shifts.
func (d PatternDefinition) Validate() error {
	if d.DurationMinutes <= 0 {
		return &PatternError{Detail: fmt.Sprintf("duration must be positive, got %d", d.DurationMinutes)}
	}
	if d.StartMinuteOfDay < 0 || d.StartMinuteOfDay >= 24*60 {
		return &PatternError{Detail: fmt.Sprintf("start minute %d outside day", d.StartMinuteOfDay)}
	}
	switch d.Kind {
	case PatternWeekly, PatternCycling:
	default:
		return &PatternError{Detail: fmt.Sprintf("unknown pattern kind %q", d.Kind)}
	}
	if d.Kind != PatternCycling || len(d.RotationDays) == 0 {
		return nil
	}

	// Rotation indices must be unique and contiguous 0..N-1.
	seen := make(map[int]bool, len(d.RotationDays))
	for _, rd := range d.RotationDays {
		if rd.Index < 0 || rd.Index >= len(d.RotationDays) {
			return &PatternError{Detail: fmt.Sprintf("rotation index %d outside 0..%d", rd.Index, len(d.RotationDays)-1)}
		}
		if seen[rd.Index] {
			return &PatternError{Detail: fmt.Sprintf("duplicate rotation index %d", rd.Index)}
		}
		seen[rd.Index] = true
		if rd.DurationMinutes != nil && *rd.DurationMinutes <= 0 {
			return &PatternError{Detail: fmt.Sprintf("rotation day %d duration must be positive", rd.Index)}
		}
	}
	return nil
}

// =============================================================================
// PATTERN RESOLVER - Per-date scheduling decisions
// =============================================================================

// rotationDayFor returns the rotation day governing the given date, or
// false when the pattern cannot resolve (no cycle start, empty rotation).
func (p *PatternInstance) rotationDayFor(date time.Time) (RotationDay, bool) {
	if p.CycleStart == nil || len(p.Definition.RotationDays) == 0 {
		return RotationDay{}, false
	}
	idx, err := DayIndexInCycle(date, *p.CycleStart, len(p.Definition.RotationDays))
	if err != nil {
		return RotationDay{}, false
	}
	for _, rd := range p.Definition.RotationDays {
		if rd.Index == idx {
			return rd, true
		}
	}
	return RotationDay{}, false
}

// IsScheduled reports whether date is a work day under the pattern.
// Unresolvable patterns report false, never an error.
func (p *PatternInstance) IsScheduled(date time.Time) bool {
	switch p.Definition.Kind {
	case PatternWeekly:
		wd := date.Weekday()
		for _, d := range p.Definition.Weekdays {
			if d == wd {
				return true
			}
		}
		return false

	case PatternCycling:
		rd, ok := p.rotationDayFor(date)
		return ok && rd.IsWorkDay

	default:
		return false
	}
}

// EffectiveTiming returns the start minute-of-day and duration applying to
// date. Cycling patterns honor per-rotation-day overrides; any nil override
// falls back to the pattern default. Weekly patterns always use defaults.
func (p *PatternInstance) EffectiveTiming(date time.Time) (startMinute, durationMinutes int) {
	startMinute = p.Definition.StartMinuteOfDay
	durationMinutes = p.Definition.DurationMinutes

	if p.Definition.Kind != PatternCycling {
		return startMinute, durationMinutes
	}
	rd, ok := p.rotationDayFor(date)
	if !ok {
		return startMinute, durationMinutes
	}
	if rd.StartMinuteOfDay != nil {
		startMinute = *rd.StartMinuteOfDay
	}
	if rd.DurationMinutes != nil {
		durationMinutes = *rd.DurationMinutes
	}
	return startMinute, durationMinutes
}

// displayCodeKeywords maps shift-name keywords to calendar codes. Order
// matters: the first matching keyword wins, so "Midday" renders as D
// (matches "day" before "mid").
var displayCodeKeywords = []struct {
	keyword string
	code    string
}{
	{"early", "E"},
	{"morning", "E"},
	{"night", "N"},
	{"late", "L"},
	{"afternoon", "L"},
	{"day", "D"},
	{"mid", "M"},
}

// DisplayCode derives the short calendar-cell code for date: the rotation
// day's name-derived code first, then the pattern's configured short code,
// then "W".
func (p *PatternInstance) DisplayCode(date time.Time) string {
	if rd, ok := p.rotationDayFor(date); ok && rd.Name != "" {
		lower := strings.ToLower(rd.Name)
		for _, kc := range displayCodeKeywords {
			if strings.Contains(lower, kc.keyword) {
				return kc.code
			}
		}
		return strings.ToUpper(string([]rune(rd.Name)[:1]))
	}

	if p.Definition.ShortCode != "" {
		return p.Definition.ShortCode
	}
	return "W"
}
