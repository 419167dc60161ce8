package engine_test

import (
	"testing"
	"time"

	"github.com/warp/shift-engine/engine"
)

// =============================================================================
// BOUNDARY TESTS
// =============================================================================

func TestPeriodFor_Weekly_MondayStart(t *testing.T) {
	cfg := engine.PeriodConfig{Type: engine.PeriodWeekly, WeekStart: time.Monday}

	// 2024-03-06 is a Wednesday; its week runs Mon 04 .. Sun 10.
	p := cfg.PeriodFor(date(2024, time.March, 6))
	if !p.Start.Equal(date(2024, time.March, 4)) {
		t.Errorf("expected week start Mar 4, got %v", p.Start)
	}
	if !engine.SameDay(p.End, date(2024, time.March, 10)) {
		t.Errorf("expected week end on Mar 10, got %v", p.End)
	}

	// A date on the week-start day begins its own week.
	p = cfg.PeriodFor(date(2024, time.March, 4))
	if !p.Start.Equal(date(2024, time.March, 4)) {
		t.Errorf("expected Monday to start its own week, got %v", p.Start)
	}
}

func TestPeriodFor_Weekly_SundayStart(t *testing.T) {
	cfg := engine.PeriodConfig{Type: engine.PeriodWeekly, WeekStart: time.Sunday}

	p := cfg.PeriodFor(date(2024, time.March, 6))
	if !p.Start.Equal(date(2024, time.March, 3)) {
		t.Errorf("expected week start Sun Mar 3, got %v", p.Start)
	}
}

func TestPeriodFor_Monthly(t *testing.T) {
	cfg := engine.PeriodConfig{Type: engine.PeriodMonthly}

	p := cfg.PeriodFor(date(2024, time.February, 15))
	if !p.Start.Equal(date(2024, time.February, 1)) {
		t.Errorf("expected Feb 1 start, got %v", p.Start)
	}
	if !engine.SameDay(p.End, date(2024, time.February, 29)) {
		t.Errorf("expected leap-year Feb 29 end, got %v", p.End)
	}
}

func TestPeriodFor_Biweekly_AnchoredToReference(t *testing.T) {
	ref := date(2024, time.January, 1)
	cfg := engine.PeriodConfig{Type: engine.PeriodBiweekly, Reference: &ref}

	// Day 13 is still in the first block.
	p := cfg.PeriodFor(ref.AddDate(0, 0, 13))
	if !p.Start.Equal(ref) {
		t.Errorf("expected block start Jan 1, got %v", p.Start)
	}
	if !engine.SameDay(p.End, ref.AddDate(0, 0, 13)) {
		t.Errorf("expected block end Jan 14, got %v", p.End)
	}

	// Day 14 begins the second block.
	p = cfg.PeriodFor(ref.AddDate(0, 0, 14))
	if !p.Start.Equal(ref.AddDate(0, 0, 14)) {
		t.Errorf("expected second block to start Jan 15, got %v", p.Start)
	}
}

func TestPeriodFor_Biweekly_BeforeReference_EarlierBlocks(t *testing.T) {
	// Dates before the reference land in earlier 14-day blocks, they do
	// not cluster into the first one.
	ref := date(2024, time.January, 15)
	cfg := engine.PeriodConfig{Type: engine.PeriodBiweekly, Reference: &ref}

	p := cfg.PeriodFor(ref.AddDate(0, 0, -1))
	if !p.Start.Equal(ref.AddDate(0, 0, -14)) {
		t.Errorf("expected previous block start Jan 1, got %v", p.Start)
	}
	if !engine.SameDay(p.End, ref.AddDate(0, 0, -1)) {
		t.Errorf("expected previous block end Jan 14, got %v", p.End)
	}
}

func TestPeriodFor_Biweekly_NoReference_StableBoundaries(t *testing.T) {
	cfg := engine.PeriodConfig{Type: engine.PeriodBiweekly}

	d := date(2024, time.June, 5)
	p1 := cfg.PeriodFor(d)
	p2 := cfg.PeriodFor(d.AddDate(0, 0, 3))

	if !p1.Start.Equal(p2.Start) && !p1.Start.AddDate(0, 0, 14).Equal(p2.Start) {
		t.Errorf("epoch-anchored blocks must be stable, got %v then %v", p1.Start, p2.Start)
	}
	if got := engine.DaysBetween(p1.Start, p1.End) + 1; got != 14 {
		t.Errorf("expected a 14-day block, got %d days", got)
	}
}

// =============================================================================
// NORMALIZATION AND MEMBERSHIP
// =============================================================================

func TestNormalizePeriod_MidnightEndIncludesWholeDay(t *testing.T) {
	// GIVEN: A period whose end is stored as midnight of its last day
	// WHEN: Testing a shift starting later that day
	// THEN: The normalized period contains it

	p := engine.NormalizePeriod(engine.Period{
		Start: date(2024, time.March, 4),
		End:   date(2024, time.March, 10),
	})

	eveningShift := date(2024, time.March, 10).Add(22 * time.Hour)
	if !p.Contains(eveningShift) {
		t.Error("normalized period must include the full last day")
	}
	if p.Contains(date(2024, time.March, 11)) {
		t.Error("the day after the period must be excluded")
	}
}

func TestPeriodProgress(t *testing.T) {
	p := engine.NormalizePeriod(engine.Period{
		Start: date(2024, time.March, 4),
		End:   date(2024, time.March, 10),
	})

	if got := p.Progress(date(2024, time.March, 1)); got != 0 {
		t.Errorf("future period: expected progress 0, got %f", got)
	}
	if got := p.Progress(date(2024, time.March, 20)); got != 1 {
		t.Errorf("past period: expected progress 1, got %f", got)
	}
	mid := p.Progress(date(2024, time.March, 7).Add(12 * time.Hour))
	if mid <= 0.4 || mid >= 0.6 {
		t.Errorf("mid-period progress should be near 0.5, got %f", mid)
	}
}

func TestPeriodDays_Contiguous(t *testing.T) {
	p := engine.NormalizePeriod(engine.Period{
		Start: date(2024, time.February, 26),
		End:   date(2024, time.March, 3),
	})

	days := p.Days()
	if len(days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(days))
	}
	for i := 1; i < len(days); i++ {
		if engine.DaysBetween(days[i-1], days[i]) != 1 {
			t.Errorf("days %d and %d are not consecutive", i-1, i)
		}
	}
}

// =============================================================================
// PAY PERIOD RECORD
// =============================================================================

func TestPayPeriod_RecomputeFromShifts(t *testing.T) {
	start := date(2024, time.March, 4)
	record := engine.PayPeriod{
		ID:      "per-1",
		OwnerID: "emp-1",
		Start:   start,
		End:     start.AddDate(0, 0, 6),
		// Stale cached values to be overwritten.
		PaidMinutes: 99999,
	}

	s := scheduledShift()
	if err := s.ClockIn(s.ScheduledStart); err != nil {
		t.Fatal(err)
	}
	if err := s.ClockOut(s.ScheduledEnd); err != nil {
		t.Fatal(err)
	}

	rules := engine.DefaultRuleset("emp-1")
	record.RecomputeFromShifts([]engine.Shift{s}, rules, s.ScheduledEnd)

	if record.PaidMinutes != s.PaidMinutes {
		t.Errorf("expected cache rebuilt to %d paid minutes, got %d", s.PaidMinutes, record.PaidMinutes)
	}
	if record.EstimatedPayCents != nil {
		t.Error("no base rate configured, estimate should be nil")
	}
}
