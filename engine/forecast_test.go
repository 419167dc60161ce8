package engine_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/warp/shift-engine/engine"
)

func forecastWeek(completedMinutes, scheduledMinutes int) engine.Forecast {
	period := marchWeek()
	var shifts []engine.Shift
	if completedMinutes > 0 {
		shifts = append(shifts, completedShift(date(2024, time.March, 4), completedMinutes, 0, 1, ""))
	}
	if scheduledMinutes > 0 {
		shifts = append(shifts, engine.Shift{
			ID:             "sched",
			ScheduledStart: date(2024, time.March, 7).Add(9 * time.Hour),
			Status:         engine.StatusScheduled,
			PaidMinutes:    scheduledMinutes,
			RateMultiplier: decimal.NewFromInt(1),
		})
	}
	return engine.ForecastOvertime(shifts, period, decimal.NewFromInt(40), engine.DefaultForecastConfig())
}

func TestForecastOvertime_Safe(t *testing.T) {
	// 16h completed + 8h scheduled = 24h projected against a 40h threshold.
	f := forecastWeek(16*60, 8*60)

	assert.Equal(t, engine.ForecastSafe, f.Status)
	assert.True(t, f.ProjectedHours.Equal(decimal.NewFromInt(24)), "projected %s", f.ProjectedHours)
	assert.True(t, f.CompletedHours.Equal(decimal.NewFromInt(16)))
	assert.True(t, f.RemainingHours.Equal(decimal.NewFromInt(8)))
}

func TestForecastOvertime_Approaching(t *testing.T) {
	// 32h projected = exactly 0.8 of the 40h threshold.
	f := forecastWeek(20*60, 12*60)

	assert.Equal(t, engine.ForecastApproaching, f.Status)
	assert.NotEmpty(t, f.Message)
}

func TestForecastOvertime_Exceeded(t *testing.T) {
	f := forecastWeek(30*60, 12*60)

	assert.Equal(t, engine.ForecastExceeded, f.Status)
	assert.True(t, f.ProjectedHours.Equal(decimal.NewFromInt(42)))
}

func TestForecastOvertime_CancelledShiftsIgnored(t *testing.T) {
	period := marchWeek()
	cancelled := completedShift(date(2024, time.March, 5), 40*60, 0, 1, "")
	cancelled.Status = engine.StatusCancelled

	f := engine.ForecastOvertime([]engine.Shift{cancelled}, period,
		decimal.NewFromInt(40), engine.DefaultForecastConfig())

	assert.Equal(t, engine.ForecastSafe, f.Status)
	assert.True(t, f.ProjectedHours.IsZero())
}

func TestForecastOvertime_ZeroThreshold_NeverClassifies(t *testing.T) {
	period := marchWeek()
	shifts := []engine.Shift{completedShift(date(2024, time.March, 4), 50*60, 0, 1, "")}

	f := engine.ForecastOvertime(shifts, period, decimal.Zero, engine.DefaultForecastConfig())
	assert.Equal(t, engine.ForecastSafe, f.Status, "no threshold means no overtime classification")
}
