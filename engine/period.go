/*
period.go - Pay-period boundaries

PURPOSE:
  Computes which pay period a date falls into for weekly, biweekly, and
  monthly cadences, and the stored PayPeriod record whose aggregate fields
  cache what aggregate.go can always recompute.

BOUNDARY NORMALIZATION:
  Period ends that fall exactly at midnight are normalized to the last
  instant of that day, so a shift starting at the end date's midnight is
  included rather than lost to a 23:59:59-vs-00:00:00 ambiguity.

BIWEEKLY ANCHORING:
  Biweekly periods are 14-day blocks anchored to a reference date (the
  owner's profile start date). Changing the reference retroactively shifts
  every boundary. With no reference configured, blocks anchor to the Unix
  epoch day so boundaries are at least stable.

SEE ALSO:
  - aggregate.go: Summaries over the shifts a period contains
*/
package engine

import "time"

// =============================================================================
// PERIOD TYPES
// =============================================================================

type PeriodType string

const (
	PeriodWeekly   PeriodType = "weekly"
	PeriodBiweekly PeriodType = "biweekly"
	PeriodMonthly  PeriodType = "monthly"
)

// Period is a closed date interval. End is always the last instant of its
// calendar day once produced by PeriodFor or NormalizePeriod.
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within [Start, End].
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// Days returns midnight for each calendar day in the period, ascending.
func (p Period) Days() []time.Time {
	var days []time.Time
	for d := StartOfDay(p.Start); !d.After(p.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Progress returns 0 for an entirely future period, 1 for an entirely past
// one, and the elapsed fraction otherwise.
func (p Period) Progress(now time.Time) float64 {
	if now.Before(p.Start) {
		return 0
	}
	if now.After(p.End) {
		return 1
	}
	total := p.End.Sub(p.Start)
	if total <= 0 {
		return 1
	}
	return float64(now.Sub(p.Start)) / float64(total)
}

// NormalizePeriod pushes a midnight end time to the last instant of that
// day. Already-normalized periods pass through unchanged.
func NormalizePeriod(p Period) Period {
	if p.End.Equal(StartOfDay(p.End)) {
		p.End = EndOfDay(p.End)
	}
	return p
}

// =============================================================================
// PERIOD CONFIG - Which period contains a date
// =============================================================================

// PeriodConfig is derived from an owner's PayRuleset.
type PeriodConfig struct {
	Type      PeriodType
	WeekStart time.Weekday
	// Reference anchors biweekly blocks; nil falls back to the epoch day.
	Reference *time.Time
}

// PeriodConfigFrom extracts the period settings from a ruleset.
func PeriodConfigFrom(rules PayRuleset) PeriodConfig {
	return PeriodConfig{
		Type:      rules.PeriodType,
		WeekStart: rules.WeekStart,
		Reference: rules.BiweeklyReference,
	}
}

// PeriodFor returns the normalized period containing date.
func (pc PeriodConfig) PeriodFor(date time.Time) Period {
	switch pc.Type {
	case PeriodBiweekly:
		anchor := time.Unix(0, 0).UTC()
		if pc.Reference != nil {
			anchor = *pc.Reference
		}
		anchor = StartOfDay(anchor)
		blocks := floorDiv(DaysBetween(anchor, StartOfDay(date)), 14)
		start := anchor.AddDate(0, 0, blocks*14)
		return Period{Start: start, End: EndOfDay(start.AddDate(0, 0, 13))}

	case PeriodMonthly:
		return Period{Start: StartOfMonth(date), End: EndOfMonth(date)}

	default: // weekly
		start := StartOfWeek(date, pc.WeekStart)
		return Period{Start: start, End: EndOfDay(start.AddDate(0, 0, 6))}
	}
}

// floorDiv rounds toward negative infinity, so dates before the biweekly
// reference land in earlier blocks instead of clustering around it.
func floorDiv(a, n int) int {
	q := a / n
	if a%n != 0 && (a < 0) != (n < 0) {
		q--
	}
	return q
}

// =============================================================================
// PAY PERIOD RECORD - Stored aggregate cache
// =============================================================================

// PayPeriod is the persisted form of a period plus its aggregate fields.
// The minute totals are a cache over the owned shift set: the engine never
// auto-invalidates them, callers re-aggregate after any shift change via
// RecomputeFromShifts.
type PayPeriod struct {
	ID      PeriodID
	OwnerID OwnerID

	Start time.Time
	End   time.Time

	PaidMinutes            int
	PremiumMinutes         int
	AdditionalShiftMinutes int
	EstimatedPayCents      *int64

	IsComplete bool
	UpdatedAt  time.Time
}

// Period returns the record's normalized date interval.
func (p *PayPeriod) Period() Period {
	return NormalizePeriod(Period{Start: p.Start, End: p.End})
}

// RecomputeFromShifts rebuilds the cached aggregate fields from scratch.
// Shifts outside the period or soft-deleted are ignored.
func (p *PayPeriod) RecomputeFromShifts(shifts []Shift, rules PayRuleset, at time.Time) {
	contained := ShiftsIn(p.Period(), shifts)
	summary := Summarize(contained, rules.BaseRateCents)

	p.PaidMinutes = summary.PaidMinutes
	p.PremiumMinutes = summary.PremiumMinutes
	p.AdditionalShiftMinutes = summary.AdditionalShiftMinutes
	p.EstimatedPayCents = summary.EstimatedPayCents
	p.UpdatedAt = at
}
