/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Request types carry validate struct tags checked with
  go-playground/validator in the handlers. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/pattern.go: PatternJSON wire format embedded in PatternDTO
*/
package api

import (
	"time"

	"github.com/warp/shift-engine/engine"
	"github.com/warp/shift-engine/factory"
	"github.com/warp/shift-engine/schedule"
)

// =============================================================================
// PATTERNS
// =============================================================================

type PatternDTO struct {
	ID        string              `json:"id"`
	OwnerID   string              `json:"owner_id"`
	Config    factory.PatternJSON `json:"config"`
	Active    bool                `json:"active"`
	CreatedAt string              `json:"created_at,omitempty"`
}

type CreatePatternRequest struct {
	OwnerID string              `json:"owner_id" validate:"required"`
	Pattern factory.PatternJSON `json:"pattern" validate:"required"`
}

// GenerateShiftsRequest asks for shift materialization over a date range.
// Dates are YYYY-MM-DD, inclusive on both ends.
type GenerateShiftsRequest struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}

// =============================================================================
// SHIFTS
// =============================================================================

type ShiftDTO struct {
	ID              string  `json:"id"`
	OwnerID         string  `json:"owner_id"`
	PatternID       string  `json:"pattern_id,omitempty"`
	Title           string  `json:"title,omitempty"`
	ScheduledStart  string  `json:"scheduled_start"`
	ScheduledEnd    string  `json:"scheduled_end"`
	ActualStart     *string `json:"actual_start,omitempty"`
	ActualEnd       *string `json:"actual_end,omitempty"`
	BreakMinutes    int     `json:"break_minutes"`
	Status          string  `json:"status"`
	PaidMinutes     int     `json:"paid_minutes"`
	PremiumMinutes  int     `json:"premium_minutes"`
	OvertimeMinutes int     `json:"overtime_minutes"`
	RateMultiplier  string  `json:"rate_multiplier"`
	RateLabel       string  `json:"rate_label,omitempty"`
	IsAdditional    bool    `json:"is_additional"`
}

type QuickShiftRequest struct {
	OwnerID         string `json:"owner_id" validate:"required"`
	Title           string `json:"title"`
	Start           string `json:"start" validate:"required"` // RFC3339
	DurationMinutes int    `json:"duration_minutes" validate:"required,gt=0"`
	BreakMinutes    *int   `json:"break_minutes" validate:"omitempty,gte=0"`
	IsAdditional    bool   `json:"is_additional"`
}

// ClockRequest optionally backdates a clock event. Empty At = now.
type ClockRequest struct {
	At string `json:"at,omitempty"` // RFC3339
}

type SetRateRequest struct {
	Multiplier string `json:"multiplier" validate:"required"`
	Label      string `json:"label"`
}

// =============================================================================
// RULESETS
// =============================================================================

type RateMultiplierDTO struct {
	Multiplier string `json:"multiplier"`
	Label      string `json:"label"`
}

type RulesetDTO struct {
	OwnerID                string              `json:"owner_id"`
	BaseRateCents          *int64              `json:"base_rate_cents,omitempty"`
	UnpaidBreakMinutes     int                 `json:"unpaid_break_minutes"`
	Multipliers            []RateMultiplierDTO `json:"multipliers"`
	PeriodType             string              `json:"period_type"`
	WeekStart              int                 `json:"week_start"`
	BiweeklyReference      string              `json:"biweekly_reference,omitempty"` // YYYY-MM-DD
	OvertimeThresholdHours string              `json:"overtime_threshold_hours"`
}

type UpdateRulesetRequest struct {
	BaseRateCents          *int64              `json:"base_rate_cents" validate:"omitempty,gte=0"`
	UnpaidBreakMinutes     *int                `json:"unpaid_break_minutes" validate:"omitempty,gte=0"`
	Multipliers            []RateMultiplierDTO `json:"multipliers"`
	PeriodType             string              `json:"period_type" validate:"omitempty,oneof=weekly biweekly monthly"`
	WeekStart              *int                `json:"week_start" validate:"omitempty,gte=0,lte=6"`
	BiweeklyReference      string              `json:"biweekly_reference"` // YYYY-MM-DD
	OvertimeThresholdHours string              `json:"overtime_threshold_hours"`
}

// =============================================================================
// PERIODS
// =============================================================================

type RateBucketDTO struct {
	Label      string `json:"label"`
	Multiplier string `json:"multiplier"`
	Hours      string `json:"hours"`
	Shifts     int    `json:"shifts"`
}

type DailyTotalDTO struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Hours string `json:"hours"`
}

type PeriodSummaryDTO struct {
	PeriodStart       string          `json:"period_start"`
	PeriodEnd         string          `json:"period_end"`
	Progress          float64         `json:"progress"`
	TotalHours        string          `json:"total_hours"`
	RegularHours      string          `json:"regular_hours"`
	PremiumHours      string          `json:"premium_hours"`
	PaidMinutes       int             `json:"paid_minutes"`
	PremiumMinutes    int             `json:"premium_minutes"`
	AdditionalMinutes int             `json:"additional_shift_minutes"`
	CompletedShifts   int             `json:"completed_shifts"`
	EstimatedPayCents *int64          `json:"estimated_pay_cents,omitempty"`
	Breakdown         []RateBucketDTO `json:"breakdown"`
	Daily             []DailyTotalDTO `json:"daily"`
	Shifts            []ShiftDTO      `json:"shifts"`
}

type ForecastDTO struct {
	ProjectedHours string `json:"projected_hours"`
	CompletedHours string `json:"completed_hours"`
	RemainingHours string `json:"remaining_hours"`
	ThresholdHours string `json:"threshold_hours"`
	Status         string `json:"status"`
	Message        string `json:"message"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toShiftDTO(s engine.Shift, now time.Time) ShiftDTO {
	dto := ShiftDTO{
		ID:              string(s.ID),
		OwnerID:         string(s.OwnerID),
		PatternID:       string(s.PatternID),
		Title:           s.Title,
		ScheduledStart:  s.ScheduledStart.Format(time.RFC3339),
		ScheduledEnd:    s.ScheduledEnd.Format(time.RFC3339),
		BreakMinutes:    s.BreakMinutes,
		Status:          string(s.Status),
		PaidMinutes:     s.PaidMinutes,
		PremiumMinutes:  s.PremiumMinutes,
		OvertimeMinutes: s.OvertimeMinutes(now),
		RateMultiplier:  s.RateMultiplier.String(),
		RateLabel:       s.RateLabel,
		IsAdditional:    s.IsAdditional,
	}
	if s.ActualStart != nil {
		v := s.ActualStart.Format(time.RFC3339)
		dto.ActualStart = &v
	}
	if s.ActualEnd != nil {
		v := s.ActualEnd.Format(time.RFC3339)
		dto.ActualEnd = &v
	}
	return dto
}

func toShiftDTOs(shifts []engine.Shift, now time.Time) []ShiftDTO {
	dtos := make([]ShiftDTO, len(shifts))
	for i, s := range shifts {
		dtos[i] = toShiftDTO(s, now)
	}
	return dtos
}

func toPatternDTO(p engine.PatternInstance) PatternDTO {
	return PatternDTO{
		ID:        string(p.ID),
		OwnerID:   string(p.OwnerID),
		Config:    factory.ToJSON(p.Definition, p.CycleStart),
		Active:    p.Active,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}

func toRulesetDTO(r engine.PayRuleset) RulesetDTO {
	dto := RulesetDTO{
		OwnerID:                string(r.OwnerID),
		BaseRateCents:          r.BaseRateCents,
		UnpaidBreakMinutes:     r.UnpaidBreakMinutes,
		PeriodType:             string(r.PeriodType),
		WeekStart:              int(r.WeekStart),
		OvertimeThresholdHours: r.OvertimeThresholdHours.String(),
	}
	for _, m := range r.Multipliers {
		dto.Multipliers = append(dto.Multipliers, RateMultiplierDTO{
			Multiplier: m.Multiplier.String(),
			Label:      m.Label,
		})
	}
	if r.BiweeklyReference != nil {
		dto.BiweeklyReference = r.BiweeklyReference.Format("2006-01-02")
	}
	return dto
}

func toPeriodSummaryDTO(view schedule.PeriodView, now time.Time) PeriodSummaryDTO {
	dto := PeriodSummaryDTO{
		PeriodStart:       view.Period.Start.Format(time.RFC3339),
		PeriodEnd:         view.Period.End.Format(time.RFC3339),
		Progress:          view.Progress,
		TotalHours:        view.Summary.TotalHours.String(),
		RegularHours:      view.Summary.RegularHours.String(),
		PremiumHours:      view.Summary.PremiumHours.String(),
		PaidMinutes:       view.Summary.PaidMinutes,
		PremiumMinutes:    view.Summary.PremiumMinutes,
		AdditionalMinutes: view.Summary.AdditionalShiftMinutes,
		CompletedShifts:   view.Summary.CompletedShifts,
		EstimatedPayCents: view.Summary.EstimatedPayCents,
		Shifts:            toShiftDTOs(view.Shifts, now),
	}
	for _, b := range view.Breakdown {
		dto.Breakdown = append(dto.Breakdown, RateBucketDTO{
			Label:      b.Label,
			Multiplier: b.Multiplier.String(),
			Hours:      b.Hours.String(),
			Shifts:     b.Shifts,
		})
	}
	for _, d := range view.Daily {
		dto.Daily = append(dto.Daily, DailyTotalDTO{
			Date:  d.Date.Format("2006-01-02"),
			Hours: d.Hours.String(),
		})
	}
	return dto
}

func toForecastDTO(f engine.Forecast) ForecastDTO {
	return ForecastDTO{
		ProjectedHours: f.ProjectedHours.String(),
		CompletedHours: f.CompletedHours.String(),
		RemainingHours: f.RemainingHours.String(),
		ThresholdHours: f.ThresholdHours.String(),
		Status:         string(f.Status),
		Message:        f.Message,
	}
}
