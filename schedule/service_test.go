package schedule_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/shift-engine/engine"
	"github.com/warp/shift-engine/engine/store"
	"github.com/warp/shift-engine/schedule"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var testNow = time.Date(2024, time.March, 6, 12, 0, 0, 0, time.UTC)

func newTestService() (*schedule.Service, *store.Memory) {
	mem := store.NewMemory()
	return schedule.NewService(mem, engine.FixedClock(testNow)), mem
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func createWeekdayPattern(t *testing.T, svc *schedule.Service, owner engine.OwnerID) engine.PatternInstance {
	t.Helper()
	pattern, err := svc.CreatePattern(context.Background(), owner, engine.PatternDefinition{
		Kind:             engine.PatternWeekly,
		Name:             "Day Shift",
		StartMinuteOfDay: 9 * 60,
		DurationMinutes:  8 * 60,
		Weekdays:         []time.Weekday{time.Monday, time.Wednesday, time.Friday},
	}, nil)
	require.NoError(t, err)
	return pattern
}

// =============================================================================
// PATTERN AND GENERATION TESTS
// =============================================================================

func TestRegenerateFuture_SkipsOccupiedDays(t *testing.T) {
	// GIVEN: A pattern with shifts already generated for a range
	// WHEN: Regenerating the same range
	// THEN: No duplicates are created; extending the range creates only
	//       the new days

	svc, _ := newTestService()
	ctx := context.Background()
	pattern := createWeekdayPattern(t, svc, "emp-1")

	from, to := date(2024, time.March, 4), date(2024, time.March, 10)
	first, err := svc.RegenerateFuture(ctx, pattern.ID, from, to)
	require.NoError(t, err)
	require.Len(t, first, 3) // Mon, Wed, Fri

	second, err := svc.RegenerateFuture(ctx, pattern.ID, from, to)
	require.NoError(t, err)
	assert.Empty(t, second, "regenerating an occupied range creates nothing")

	extended, err := svc.RegenerateFuture(ctx, pattern.ID, from, to.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Len(t, extended, 3, "only the new week materializes")
}

func TestRegenerateFuture_UnknownPattern(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.RegenerateFuture(context.Background(), "nope", date(2024, time.March, 4), date(2024, time.March, 10))
	require.ErrorIs(t, err, engine.ErrPatternNotFound)
}

func TestDeletePattern_KeepsShifts(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	pattern := createWeekdayPattern(t, svc, "emp-1")

	created, err := svc.RegenerateFuture(ctx, pattern.ID, date(2024, time.March, 4), date(2024, time.March, 10))
	require.NoError(t, err)
	require.NotEmpty(t, created)

	require.NoError(t, svc.DeletePattern(ctx, pattern.ID))
	_, err = svc.GetPattern(ctx, pattern.ID)
	require.ErrorIs(t, err, engine.ErrPatternNotFound)

	// Generated shifts survive for pay-period history.
	shift, err := svc.GetShift(ctx, created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, engine.StatusScheduled, shift.Status)
}

// =============================================================================
// SHIFT LIFECYCLE TESTS
// =============================================================================

func TestQuickShift_AndClockFlow(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	start := date(2024, time.March, 6).Add(9 * time.Hour)
	shift, err := svc.QuickShift(ctx, "emp-1", "Cover", start, 8*60, nil, true)
	require.NoError(t, err)
	assert.True(t, shift.IsAdditional)
	assert.Equal(t, 8*60-engine.DefaultUnpaidBreakMinutes, shift.PaidMinutes)

	shift, err = svc.ClockIn(ctx, shift.ID, &start)
	require.NoError(t, err)
	assert.Equal(t, engine.StatusInProgress, shift.Status)

	end := start.Add(8 * time.Hour)
	shift, err = svc.ClockOut(ctx, shift.ID, &end)
	require.NoError(t, err)
	assert.Equal(t, engine.StatusCompleted, shift.Status)

	// The persisted copy carries the transition.
	stored, err := svc.GetShift(ctx, shift.ID)
	require.NoError(t, err)
	assert.Equal(t, engine.StatusCompleted, stored.Status)
}

func TestQuickShift_NonPositiveDuration_Rejected(t *testing.T) {
	// GIVEN: Ad-hoc shift input with a zero duration
	// THEN: The input is rejected with a shift-input error, not a pattern
	//       error; nothing is persisted

	svc, mem := newTestService()
	ctx := context.Background()

	_, err := svc.QuickShift(ctx, "emp-1", "Cover", testNow, 0, nil, false)
	require.ErrorIs(t, err, engine.ErrInvalidShift)
	assert.NotErrorIs(t, err, engine.ErrInvalidPattern)
	assert.True(t, engine.IsClientError(err))

	shifts, err := mem.ShiftsInRange(ctx, "emp-1", testNow.AddDate(0, 0, -1), testNow.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, shifts)
}

func TestUpdateRuleset_NegativeBreak_Rejected(t *testing.T) {
	svc, _ := newTestService()

	rules := engine.DefaultRuleset("emp-1")
	rules.UnpaidBreakMinutes = -10
	err := svc.UpdateRuleset(context.Background(), rules)
	require.ErrorIs(t, err, engine.ErrInvalidRuleset)
	assert.NotErrorIs(t, err, engine.ErrInvalidRate)
	assert.True(t, engine.IsClientError(err))
}

func TestClockOut_WithoutClockIn_RejectedAndNotPersisted(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	shift, err := svc.QuickShift(ctx, "emp-1", "", testNow, 4*60, nil, false)
	require.NoError(t, err)

	_, err = svc.ClockOut(ctx, shift.ID, nil)
	require.ErrorIs(t, err, engine.ErrInvalidTransition)

	stored, err := svc.GetShift(ctx, shift.ID)
	require.NoError(t, err)
	assert.Equal(t, engine.StatusScheduled, stored.Status)
}

func TestSetShiftRate_Persisted(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	shift, err := svc.QuickShift(ctx, "emp-1", "", testNow, 4*60, nil, false)
	require.NoError(t, err)

	_, err = svc.SetShiftRate(ctx, shift.ID, decimal.NewFromInt(2), "Bank Holiday")
	require.NoError(t, err)

	stored, err := svc.GetShift(ctx, shift.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bank Holiday", stored.RateLabel)
	assert.True(t, stored.RateMultiplier.Equal(decimal.NewFromInt(2)))
}

// =============================================================================
// PERIOD TESTS
// =============================================================================

func completeShiftOn(t *testing.T, svc *schedule.Service, owner engine.OwnerID, day time.Time, minutes int) engine.Shift {
	t.Helper()
	ctx := context.Background()
	start := day.Add(9 * time.Hour)
	noBreak := 0
	shift, err := svc.QuickShift(ctx, owner, "Worked", start, minutes, &noBreak, false)
	require.NoError(t, err)
	_, err = svc.ClockIn(ctx, shift.ID, &start)
	require.NoError(t, err)
	end := start.Add(time.Duration(minutes) * time.Minute)
	shift, err = svc.ClockOut(ctx, shift.ID, &end)
	require.NoError(t, err)
	return shift
}

func TestPeriodSummary_AggregatesAndCaches(t *testing.T) {
	// GIVEN: Two completed shifts in the current week, base rate 30.00/h
	// WHEN: Summarizing the period containing Wednesday
	// THEN: Totals cover both shifts and a PayPeriod record is cached

	svc, mem := newTestService()
	ctx := context.Background()
	owner := engine.OwnerID("emp-1")

	rules := engine.DefaultRuleset(owner)
	base := int64(3000)
	rules.BaseRateCents = &base
	require.NoError(t, svc.UpdateRuleset(ctx, rules))

	completeShiftOn(t, svc, owner, date(2024, time.March, 4), 8*60)
	completeShiftOn(t, svc, owner, date(2024, time.March, 5), 6*60)

	view, err := svc.PeriodSummary(ctx, owner, date(2024, time.March, 6))
	require.NoError(t, err)

	assert.Equal(t, 14*60, view.Summary.PaidMinutes)
	assert.Equal(t, 2, view.Summary.CompletedShifts)
	require.NotNil(t, view.Summary.EstimatedPayCents)
	assert.Equal(t, int64(42000), *view.Summary.EstimatedPayCents)
	assert.Len(t, view.Daily, 7)
	assert.Equal(t, date(2024, time.March, 4), view.Period.Start)

	record, err := mem.FindPeriod(ctx, owner, view.Period.Start)
	require.NoError(t, err)
	assert.Equal(t, 14*60, record.PaidMinutes)
	assert.False(t, record.IsComplete)
}

func TestPeriodForecast_UsesScheduledShifts(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	owner := engine.OwnerID("emp-1")

	completeShiftOn(t, svc, owner, date(2024, time.March, 4), 20*60)

	noBreak := 0
	_, err := svc.QuickShift(ctx, owner, "Upcoming",
		date(2024, time.March, 8).Add(9*time.Hour), 13*60, &noBreak, false)
	require.NoError(t, err)

	forecast, err := svc.PeriodForecast(ctx, owner, date(2024, time.March, 6))
	require.NoError(t, err)

	assert.True(t, forecast.ProjectedHours.Equal(decimal.NewFromInt(33)), "projected %s", forecast.ProjectedHours)
	assert.Equal(t, engine.ForecastApproaching, forecast.Status)
}

func TestFinalizePeriods_MarksEndedPeriodsComplete(t *testing.T) {
	svc, mem := newTestService()
	ctx := context.Background()
	owner := engine.OwnerID("emp-1")

	// Build the cached record for last week by summarizing it.
	completeShiftOn(t, svc, owner, date(2024, time.February, 26), 8*60)
	view, err := svc.PeriodSummary(ctx, owner, date(2024, time.February, 28))
	require.NoError(t, err)

	count, err := svc.FinalizePeriods(ctx, testNow)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	record, err := mem.FindPeriod(ctx, owner, view.Period.Start)
	require.NoError(t, err)
	assert.True(t, record.IsComplete)
	assert.Equal(t, 8*60, record.PaidMinutes)

	// Finalization is idempotent.
	count, err = svc.FinalizePeriods(ctx, testNow)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRuleset_FallsBackToDefault(t *testing.T) {
	svc, _ := newTestService()

	rules, err := svc.Ruleset(context.Background(), "unconfigured")
	require.NoError(t, err)
	assert.Equal(t, engine.PeriodWeekly, rules.PeriodType)
	assert.Equal(t, time.Monday, rules.WeekStart)
	assert.Equal(t, engine.DefaultUnpaidBreakMinutes, rules.UnpaidBreakMinutes)
}
