/*
forecast.go - Overtime projection for the current pay period

PURPOSE:
  Projects a period's final hours from what is already completed plus what
  remains on the schedule, and classifies the result against a configured
  threshold.

SEE ALSO:
  - aggregate.go: The summary the projection starts from
*/
package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// FORECAST
// =============================================================================

type ForecastStatus string

const (
	ForecastSafe        ForecastStatus = "safe"
	ForecastApproaching ForecastStatus = "approaching"
	ForecastExceeded    ForecastStatus = "exceeded"
)

// ForecastConfig holds the classification cut lines as fractions of the
// threshold. These are tunable policy, not law.
type ForecastConfig struct {
	ApproachingRatio decimal.Decimal // default 0.8
	ExceededRatio    decimal.Decimal // default 1.0
}

func DefaultForecastConfig() ForecastConfig {
	return ForecastConfig{
		ApproachingRatio: decimal.NewFromFloat(0.8),
		ExceededRatio:    decimal.NewFromInt(1),
	}
}

// Forecast is the projection result. Message is derived from the numbers,
// never authored per-case.
type Forecast struct {
	ProjectedHours  decimal.Decimal
	CompletedHours  decimal.Decimal
	RemainingHours  decimal.Decimal
	ThresholdHours  decimal.Decimal
	Status          ForecastStatus
	Message         string
}

// ForecastOvertime projects the period's final total hours: hours already
// completed plus hours from remaining scheduled (not completed, not
// cancelled) shifts in the period.
func ForecastOvertime(shifts []Shift, period Period, thresholdHours decimal.Decimal, cfg ForecastConfig) Forecast {
	var completedMinutes, remainingMinutes int
	for _, s := range ShiftsIn(period, shifts) {
		switch s.Status {
		case StatusCompleted:
			completedMinutes += s.PaidMinutes
		case StatusScheduled, StatusInProgress:
			remainingMinutes += s.PaidMinutes
		}
	}

	completed := minutesToHours(completedMinutes)
	remaining := minutesToHours(remainingMinutes)
	projected := completed.Add(remaining)

	status := ForecastSafe
	if thresholdHours.IsPositive() {
		ratio := projected.Div(thresholdHours)
		switch {
		case ratio.GreaterThanOrEqual(cfg.ExceededRatio):
			status = ForecastExceeded
		case ratio.GreaterThanOrEqual(cfg.ApproachingRatio):
			status = ForecastApproaching
		}
	}

	return Forecast{
		ProjectedHours: projected,
		CompletedHours: completed,
		RemainingHours: remaining,
		ThresholdHours: thresholdHours,
		Status:         status,
		Message:        forecastMessage(projected, thresholdHours, status),
	}
}

func forecastMessage(projected, threshold decimal.Decimal, status ForecastStatus) string {
	p := projected.Round(1)
	t := threshold.Round(1)
	switch status {
	case ForecastExceeded:
		return fmt.Sprintf("Projected %sh exceeds the %sh overtime threshold", p, t)
	case ForecastApproaching:
		return fmt.Sprintf("Projected %sh is approaching the %sh overtime threshold", p, t)
	default:
		return fmt.Sprintf("Projected %sh is within the %sh overtime threshold", p, t)
	}
}
