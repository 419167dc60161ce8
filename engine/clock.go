package engine

import "time"

// =============================================================================
// CLOCK - Injectable time source
// =============================================================================

// Clock supplies "now" to lifecycle and forecasting code. Production uses
// SystemClock; tests use Fixed so every computation is deterministic.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Fixed is a Clock pinned to a single instant.
type Fixed struct {
	At time.Time
}

func (f Fixed) Now() time.Time { return f.At }

// FixedClock returns a Clock pinned to the given instant.
func FixedClock(at time.Time) Clock { return Fixed{At: at} }

// =============================================================================
// DAY BOUNDARY MATH
// =============================================================================
// All cycle and period arithmetic works on calendar day boundaries, not raw
// elapsed seconds, so DST-shifted days still count as one day.

// StartOfDay truncates to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last instant of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// DaysBetween returns the whole-day difference to - from, negative when
// to precedes from. Rounding absorbs the 23h/25h days around DST changes.
func DaysBetween(from, to time.Time) int {
	d := StartOfDay(to).Sub(StartOfDay(from))
	hours := d.Hours()
	if hours >= 0 {
		return int((hours + 12) / 24)
	}
	return -int((-hours + 12) / 24)
}

// StartOfWeek returns the most recent weekStart day at or before t,
// truncated to midnight.
func StartOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	day := StartOfDay(t)
	offset := mathMod(int(day.Weekday())-int(weekStart), 7)
	return day.AddDate(0, 0, -offset)
}

// StartOfMonth returns midnight on the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth returns the last instant of t's month.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// SameDay reports whether two instants fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// mathMod is the mathematical modulus: always in [0, n) for n > 0, unlike
// Go's % which follows the sign of the dividend.
func mathMod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
