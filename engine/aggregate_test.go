package engine_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/shift-engine/engine"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// completedShift builds a completed shift on the given day with paid and
// premium minutes set directly.
func completedShift(day time.Time, paidMinutes, premiumMinutes int, multiplier float64, label string) engine.Shift {
	start := day.Add(9 * time.Hour)
	return engine.Shift{
		ID:             engine.ShiftID("shift-" + day.Format("0102")),
		OwnerID:        "emp-1",
		ScheduledStart: start,
		ScheduledEnd:   start.Add(time.Duration(paidMinutes) * time.Minute),
		Status:         engine.StatusCompleted,
		PaidMinutes:    paidMinutes,
		PremiumMinutes: premiumMinutes,
		RateMultiplier: decimal.NewFromFloat(multiplier),
		RateLabel:      label,
	}
}

func marchWeek() engine.Period {
	return engine.NormalizePeriod(engine.Period{
		Start: date(2024, time.March, 4),
		End:   date(2024, time.March, 10),
	})
}

// =============================================================================
// SUMMARY TESTS
// =============================================================================

func TestSummarize_CompletedOnly(t *testing.T) {
	shifts := []engine.Shift{
		completedShift(date(2024, time.March, 4), 450, 0, 1, ""),
		{Status: engine.StatusScheduled, PaidMinutes: 450, RateMultiplier: decimal.NewFromInt(1)},
		{Status: engine.StatusCancelled, PaidMinutes: 450, RateMultiplier: decimal.NewFromInt(1)},
	}

	sum := engine.Summarize(shifts, nil)
	assert.Equal(t, 1, sum.CompletedShifts)
	assert.Equal(t, 450, sum.PaidMinutes)
	assert.Nil(t, sum.EstimatedPayCents)
}

func TestSummarize_PayEstimate_IncrementalPremium(t *testing.T) {
	// GIVEN: Base rate 30.00/h, one fully premium 7.5h shift at 1.5x
	// WHEN: Estimating pay
	// THEN: 30.00 * 7.5 (base for all hours) + 30.00 * 7.5 * 0.5 (increment)
	//       = 225.00 + 112.50 = 337.50, never base * 1.5 * 7.5 twice over

	base := int64(3000)
	shifts := []engine.Shift{
		completedShift(date(2024, time.March, 4), 450, 450, 1.5, "Extra"),
	}

	sum := engine.Summarize(shifts, &base)
	require.NotNil(t, sum.EstimatedPayCents)
	assert.Equal(t, int64(33750), *sum.EstimatedPayCents)
	assert.True(t, sum.TotalHours.Equal(decimal.NewFromFloat(7.5)), "total %s", sum.TotalHours)
	assert.True(t, sum.PremiumHours.Equal(decimal.NewFromFloat(7.5)))
	assert.True(t, sum.RegularHours.IsZero())
}

func TestSummarize_PartiallyPremiumShift(t *testing.T) {
	// A shift can be premium for only part of its paid time. The increment
	// applies to the premium portion only; base pay covers all hours once.
	base := int64(3000)
	shifts := []engine.Shift{
		completedShift(date(2024, time.March, 4), 480, 60, 2.0, "Bank Holiday"),
	}

	sum := engine.Summarize(shifts, &base)
	require.NotNil(t, sum.EstimatedPayCents)
	// 3000 * 8h + 3000 * 1h * (2.0 - 1) = 24000 + 3000
	assert.Equal(t, int64(27000), *sum.EstimatedPayCents)
	assert.Equal(t, 60, sum.PremiumMinutes)
}

func TestSummarize_PremiumCappedAtPaid(t *testing.T) {
	shifts := []engine.Shift{
		completedShift(date(2024, time.March, 4), 400, 9999, 1.5, ""),
	}

	sum := engine.Summarize(shifts, nil)
	assert.Equal(t, 400, sum.PremiumMinutes, "premium can never exceed paid")
}

func TestSummarize_AdditionalShiftMinutes(t *testing.T) {
	extra := completedShift(date(2024, time.March, 5), 240, 0, 1, "")
	extra.IsAdditional = true

	sum := engine.Summarize([]engine.Shift{
		completedShift(date(2024, time.March, 4), 450, 0, 1, ""),
		extra,
	}, nil)

	assert.Equal(t, 690, sum.PaidMinutes)
	assert.Equal(t, 240, sum.AdditionalShiftMinutes)
}

// =============================================================================
// MEMBERSHIP TESTS
// =============================================================================

func TestShiftsIn_FiltersAndSorts(t *testing.T) {
	period := marchWeek()

	inside := completedShift(date(2024, time.March, 6), 450, 0, 1, "")
	lastDayEvening := completedShift(date(2024, time.March, 10), 450, 0, 1, "")
	lastDayEvening.ScheduledStart = date(2024, time.March, 10).Add(22 * time.Hour)
	outside := completedShift(date(2024, time.March, 11), 450, 0, 1, "")
	deleted := completedShift(date(2024, time.March, 5), 450, 0, 1, "")
	now := time.Now()
	deleted.DeletedAt = &now

	got := engine.ShiftsIn(period, []engine.Shift{outside, lastDayEvening, inside, deleted})
	require.Len(t, got, 2)
	assert.Equal(t, inside.ID, got[0].ID, "sorted ascending by start")
	assert.Equal(t, lastDayEvening.ID, got[1].ID, "last-day evening shift included")
}

// =============================================================================
// BREAKDOWN AND DAILY TOTALS
// =============================================================================

func TestRateBreakdown_GroupsByLabelAscendingMultiplier(t *testing.T) {
	shifts := []engine.Shift{
		completedShift(date(2024, time.March, 4), 450, 0, 1, "Regular"),
		completedShift(date(2024, time.March, 5), 450, 0, 1, "Regular"),
		completedShift(date(2024, time.March, 6), 240, 240, 2.0, "Bank Holiday"),
		completedShift(date(2024, time.March, 7), 120, 120, 1.5, ""),
	}

	buckets := engine.RateBreakdown(shifts)
	require.Len(t, buckets, 3)

	assert.Equal(t, "Regular", buckets[0].Label)
	assert.Equal(t, 2, buckets[0].Shifts)
	assert.True(t, buckets[0].Hours.Equal(decimal.NewFromFloat(15)))

	assert.Equal(t, "1.5x", buckets[1].Label, "unlabeled shifts fall back to the formatted multiplier")
	assert.Equal(t, "Bank Holiday", buckets[2].Label)
}

func TestDailyTotals_ZeroFilledAndContiguous(t *testing.T) {
	period := marchWeek()
	shifts := []engine.Shift{
		completedShift(date(2024, time.March, 5), 450, 0, 1, ""),
		{Status: engine.StatusScheduled, ScheduledStart: date(2024, time.March, 6).Add(9 * time.Hour),
			PaidMinutes: 450, RateMultiplier: decimal.NewFromInt(1)},
	}

	totals := engine.DailyTotals(shifts, period)
	require.Len(t, totals, 7, "one entry per period day")

	assert.True(t, totals[0].Hours.IsZero(), "Mon has no completed shifts")
	assert.True(t, totals[1].Hours.Equal(decimal.NewFromFloat(7.5)), "Tue has the completed shift")
	assert.True(t, totals[2].Hours.IsZero(), "scheduled shifts do not count toward actuals")
}

func TestDailyTotals_ShiftInOtherLocation_BucketsByPeriodDay(t *testing.T) {
	// GIVEN: A UTC period and a completed shift whose times carry a
	//        different location for the same instant
	// THEN: The shift lands on its period calendar day instead of
	//       vanishing into an unmatched bucket

	period := marchWeek()
	shift := completedShift(date(2024, time.March, 5), 450, 0, 1, "")
	zoned := time.FixedZone("UTC+2", 2*60*60)
	shift.ScheduledStart = shift.ScheduledStart.In(zoned)
	shift.ScheduledEnd = shift.ScheduledEnd.In(zoned)

	totals := engine.DailyTotals([]engine.Shift{shift}, period)
	require.Len(t, totals, 7)
	assert.True(t, totals[1].Hours.Equal(decimal.NewFromFloat(7.5)), "Tue still carries the hours")
}
