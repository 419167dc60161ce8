package engine_test

import (
	"errors"
	"testing"
	"time"

	"github.com/warp/shift-engine/engine"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }

func fourOnFourOff(cycleStart time.Time) engine.PatternInstance {
	night := 19 * 60
	return engine.PatternInstance{
		ID:      "pat-1",
		OwnerID: "emp-1",
		Definition: engine.PatternDefinition{
			Kind:             engine.PatternCycling,
			Name:             "4 on 4 off",
			ShortCode:        "R",
			StartMinuteOfDay: 7 * 60,
			DurationMinutes:  12 * 60,
			RotationDays: []engine.RotationDay{
				{Index: 0, IsWorkDay: true, Name: "Day 1"},
				{Index: 1, IsWorkDay: true, Name: "Day 2"},
				{Index: 2, IsWorkDay: true, Name: "Night 1", StartMinuteOfDay: &night},
				{Index: 3, IsWorkDay: true, Name: "Night 2", StartMinuteOfDay: &night},
				{Index: 4, IsWorkDay: false},
				{Index: 5, IsWorkDay: false},
				{Index: 6, IsWorkDay: false},
				{Index: 7, IsWorkDay: false},
			},
		},
		CycleStart: &cycleStart,
		Active:     true,
	}
}

// =============================================================================
// CYCLE INDEX TESTS
// =============================================================================

func TestDayIndexInCycle_WithinFirstCycle(t *testing.T) {
	start := date(2024, time.January, 1)

	for offset := 0; offset < 8; offset++ {
		idx, err := engine.DayIndexInCycle(start.AddDate(0, 0, offset), start, 8)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if idx != offset {
			t.Errorf("day %d: expected index %d, got %d", offset, offset, idx)
		}
	}
}

func TestDayIndexInCycle_WrapsAcrossCycles(t *testing.T) {
	start := date(2024, time.January, 1)

	idx, err := engine.DayIndexInCycle(start.AddDate(0, 0, 19), start, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx != 3 {
		t.Errorf("expected index 3 on day 19 of an 8-day cycle, got %d", idx)
	}
}

func TestDayIndexInCycle_BeforeCycleStart_WrapsBackward(t *testing.T) {
	// The day before the cycle start is the LAST position of the previous
	// cycle, not index -1.
	start := date(2024, time.March, 10)

	idx, err := engine.DayIndexInCycle(start.AddDate(0, 0, -1), start, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx != 7 {
		t.Errorf("expected index 7 the day before cycle start, got %d", idx)
	}

	idx, err = engine.DayIndexInCycle(start.AddDate(0, 0, -8), start, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx != 0 {
		t.Errorf("expected index 0 one full cycle back, got %d", idx)
	}
}

func TestDayIndexInCycle_NonPositiveLength_Rejected(t *testing.T) {
	_, err := engine.DayIndexInCycle(date(2024, time.January, 2), date(2024, time.January, 1), 0)
	if !errors.Is(err, engine.ErrInvalidPattern) {
		t.Fatalf("expected ErrInvalidPattern, got %v", err)
	}
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestValidate_BrokenRotationIndices_Rejected(t *testing.T) {
	def := engine.PatternDefinition{
		Kind:             engine.PatternCycling,
		StartMinuteOfDay: 420,
		DurationMinutes:  480,
		RotationDays: []engine.RotationDay{
			{Index: 0, IsWorkDay: true},
			{Index: 2, IsWorkDay: true}, // gap: index 1 missing, 2 out of range
		},
	}
	if err := def.Validate(); !errors.Is(err, engine.ErrInvalidPattern) {
		t.Fatalf("expected ErrInvalidPattern for non-contiguous indices, got %v", err)
	}

	def.RotationDays = []engine.RotationDay{
		{Index: 0, IsWorkDay: true},
		{Index: 0, IsWorkDay: false},
	}
	if err := def.Validate(); !errors.Is(err, engine.ErrInvalidPattern) {
		t.Fatalf("expected ErrInvalidPattern for duplicate indices, got %v", err)
	}
}

func TestValidate_EmptyRotation_Allowed(t *testing.T) {
	// A pattern still being configured is valid; it just generates nothing.
	def := engine.PatternDefinition{
		Kind:             engine.PatternCycling,
		StartMinuteOfDay: 420,
		DurationMinutes:  480,
	}
	if err := def.Validate(); err != nil {
		t.Fatalf("empty rotation should validate, got %v", err)
	}
}

// =============================================================================
// RESOLUTION TESTS
// =============================================================================

func TestIsScheduled_WeeklyPattern(t *testing.T) {
	p := engine.PatternInstance{
		Definition: engine.PatternDefinition{
			Kind:             engine.PatternWeekly,
			StartMinuteOfDay: 540,
			DurationMinutes:  480,
			Weekdays:         []time.Weekday{time.Monday, time.Wednesday, time.Friday},
		},
	}

	monday := date(2024, time.January, 1)
	if !p.IsScheduled(monday) {
		t.Error("Monday should be scheduled")
	}
	if p.IsScheduled(monday.AddDate(0, 0, 1)) {
		t.Error("Tuesday should not be scheduled")
	}
	if !p.IsScheduled(monday.AddDate(0, 0, 2)) {
		t.Error("Wednesday should be scheduled")
	}
}

func TestIsScheduled_CyclingWithoutCycleStart_NeverScheduled(t *testing.T) {
	p := fourOnFourOff(date(2024, time.January, 1))
	p.CycleStart = nil

	if p.IsScheduled(date(2024, time.January, 1)) {
		t.Error("pattern with no cycle start should never schedule")
	}
}

func TestEffectiveTiming_RotationDayOverrides(t *testing.T) {
	start := date(2024, time.January, 1)
	p := fourOnFourOff(start)

	// Index 0 uses pattern defaults.
	sm, dm := p.EffectiveTiming(start)
	if sm != 7*60 || dm != 12*60 {
		t.Errorf("expected default timing 420/720, got %d/%d", sm, dm)
	}

	// Index 2 overrides the start to 19:00, keeps the duration.
	sm, dm = p.EffectiveTiming(start.AddDate(0, 0, 2))
	if sm != 19*60 || dm != 12*60 {
		t.Errorf("expected night timing 1140/720, got %d/%d", sm, dm)
	}
}

func TestEffectiveTiming_DurationOverride(t *testing.T) {
	start := date(2024, time.January, 1)
	p := fourOnFourOff(start)
	p.Definition.RotationDays[1].DurationMinutes = intPtr(10 * 60)

	_, dm := p.EffectiveTiming(start.AddDate(0, 0, 1))
	if dm != 10*60 {
		t.Errorf("expected overridden duration 600, got %d", dm)
	}
}

// =============================================================================
// DISPLAY CODE TESTS
// =============================================================================

func TestDisplayCode_KeywordChain(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Early shift", "E"},
		{"Morning", "E"},
		{"Night 1", "N"},
		{"Late cover", "L"},
		{"Afternoon", "L"},
		{"Day 2", "D"},
		{"Midday", "D"}, // "day" wins over "mid"
		{"Mid", "M"},
		{"Zulu", "Z"}, // no keyword: first letter
	}

	start := date(2024, time.January, 1)
	for _, tc := range cases {
		p := fourOnFourOff(start)
		p.Definition.RotationDays[0].Name = tc.name
		if got := p.DisplayCode(start); got != tc.want {
			t.Errorf("%q: expected code %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestDisplayCode_FallsBackToShortCodeThenW(t *testing.T) {
	start := date(2024, time.January, 1)

	p := fourOnFourOff(start)
	p.Definition.RotationDays[4].Name = "" // off day, unnamed
	if got := p.DisplayCode(start.AddDate(0, 0, 4)); got != "R" {
		t.Errorf("expected short code fallback R, got %q", got)
	}

	p.Definition.ShortCode = ""
	if got := p.DisplayCode(start.AddDate(0, 0, 4)); got != "W" {
		t.Errorf("expected final fallback W, got %q", got)
	}
}
