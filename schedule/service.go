/*
Package schedule orchestrates the shift engine against a store.

PURPOSE:
  The engine (package engine) is pure: it computes over in-memory records
  and returns records for the caller to persist. This package is that
  caller. It loads records, runs the engine, and writes results back,
  including the responsibilities the engine explicitly leaves to callers:

  - Deduplicating regenerated shifts against already-persisted ones
  - Re-aggregating pay periods after shift mutations
  - Serializing writes to the same records (store-level; the engine
    assumes exclusive access per call)

CLOCK:
  All "now" defaults flow through an injected engine.Clock so tests can
  pin time. Operations also accept explicit instants for backdated clock
  events.

SEE ALSO:
  - engine/store.go: The persistence contract this service consumes
  - api/handlers.go: HTTP surface over this service
*/
package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/shift-engine/engine"
)

// Service wires the pure engine to a store.
type Service struct {
	store    engine.Store
	clock    engine.Clock
	forecast engine.ForecastConfig
}

func NewService(store engine.Store, clock engine.Clock) *Service {
	if clock == nil {
		clock = engine.SystemClock{}
	}
	return &Service{
		store:    store,
		clock:    clock,
		forecast: engine.DefaultForecastConfig(),
	}
}

// SetForecastConfig overrides the overtime classification cut lines.
func (s *Service) SetForecastConfig(cfg engine.ForecastConfig) { s.forecast = cfg }

// rulesetFor loads the owner's ruleset, falling back to defaults.
func (s *Service) rulesetFor(ctx context.Context, owner engine.OwnerID) (engine.PayRuleset, error) {
	rules, err := s.store.GetRuleset(ctx, owner)
	if errors.Is(err, engine.ErrRulesetNotFound) {
		return engine.DefaultRuleset(owner), nil
	}
	if err != nil {
		return engine.PayRuleset{}, err
	}
	return rules, nil
}

// =============================================================================
// PATTERNS
// =============================================================================

// CreatePattern validates and persists a new pattern instance.
func (s *Service) CreatePattern(ctx context.Context, owner engine.OwnerID, def engine.PatternDefinition, cycleStart *time.Time) (engine.PatternInstance, error) {
	if err := def.Validate(); err != nil {
		return engine.PatternInstance{}, err
	}
	now := s.clock.Now()
	p := engine.PatternInstance{
		ID:         engine.PatternID(uuid.NewString()),
		OwnerID:    owner,
		Definition: def,
		CycleStart: cycleStart,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.PutPattern(ctx, p); err != nil {
		return engine.PatternInstance{}, err
	}
	return p, nil
}

// DeletePattern soft-deletes a pattern. Its generated shifts remain, so
// pay-period history is preserved.
func (s *Service) DeletePattern(ctx context.Context, id engine.PatternID) error {
	return s.store.SoftDeletePattern(ctx, id, s.clock.Now())
}

// RegenerateFuture materializes shifts for a pattern over [from, to],
// skipping calendar days that already carry a persisted shift for the
// same pattern. Returns the newly created shifts.
func (s *Service) RegenerateFuture(ctx context.Context, patternID engine.PatternID, from, to time.Time) ([]engine.Shift, error) {
	pattern, err := s.store.GetPattern(ctx, patternID)
	if err != nil {
		return nil, err
	}
	rules, err := s.rulesetFor(ctx, pattern.OwnerID)
	if err != nil {
		return nil, err
	}

	candidates, err := engine.GenerateShifts(&pattern, from, to, rules)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	existing, err := s.store.ShiftsForPattern(ctx, patternID, engine.StartOfDay(from), engine.EndOfDay(to))
	if err != nil {
		return nil, err
	}
	occupied := make(map[time.Time]bool, len(existing))
	for _, sh := range existing {
		occupied[engine.StartOfDay(sh.ScheduledStart)] = true
	}

	now := s.clock.Now()
	var created []engine.Shift
	for _, sh := range candidates {
		if occupied[engine.StartOfDay(sh.ScheduledStart)] {
			continue
		}
		sh.CreatedAt = now
		sh.UpdatedAt = now
		if err := s.store.PutShift(ctx, sh); err != nil {
			return created, err
		}
		created = append(created, sh)
	}
	return created, nil
}

// =============================================================================
// SHIFTS
// =============================================================================

// QuickShift creates an ad-hoc shift outside any pattern.
func (s *Service) QuickShift(ctx context.Context, owner engine.OwnerID, title string, start time.Time, durationMinutes int, breakMinutes *int, additional bool) (engine.Shift, error) {
	if durationMinutes <= 0 {
		return engine.Shift{}, fmt.Errorf("%w: duration must be positive", engine.ErrInvalidShift)
	}
	rules, err := s.rulesetFor(ctx, owner)
	if err != nil {
		return engine.Shift{}, err
	}

	now := s.clock.Now()
	shift := engine.Shift{
		ID:             engine.ShiftID(uuid.NewString()),
		OwnerID:        owner,
		Title:          title,
		ScheduledStart: start,
		ScheduledEnd:   start.Add(time.Duration(durationMinutes) * time.Minute),
		BreakMinutes:   rules.BreakMinutesOr(breakMinutes),
		Status:         engine.StatusScheduled,
		RateMultiplier: decimal.NewFromInt(1),
		IsAdditional:   additional,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	shift.RecalculatePaidMinutes()

	if err := s.store.PutShift(ctx, shift); err != nil {
		return engine.Shift{}, err
	}
	return shift, nil
}

// ClockIn transitions a scheduled shift to in-progress. A nil at uses the
// injected clock.
func (s *Service) ClockIn(ctx context.Context, id engine.ShiftID, at *time.Time) (engine.Shift, error) {
	return s.transition(ctx, id, at, (*engine.Shift).ClockIn)
}

// ClockOut completes an in-progress shift and recomputes paid minutes.
func (s *Service) ClockOut(ctx context.Context, id engine.ShiftID, at *time.Time) (engine.Shift, error) {
	return s.transition(ctx, id, at, (*engine.Shift).ClockOut)
}

// CancelShift voids a non-terminal shift.
func (s *Service) CancelShift(ctx context.Context, id engine.ShiftID, at *time.Time) (engine.Shift, error) {
	return s.transition(ctx, id, at, (*engine.Shift).Cancel)
}

func (s *Service) transition(ctx context.Context, id engine.ShiftID, at *time.Time, op func(*engine.Shift, time.Time) error) (engine.Shift, error) {
	shift, err := s.store.GetShift(ctx, id)
	if err != nil {
		return engine.Shift{}, err
	}
	when := s.clock.Now()
	if at != nil {
		when = *at
	}
	if err := op(&shift, when); err != nil {
		return engine.Shift{}, err
	}
	if err := s.store.PutShift(ctx, shift); err != nil {
		return engine.Shift{}, err
	}
	return shift, nil
}

// SetShiftRate applies a rate multiplier and label to a shift. Premium
// minutes and period aggregates are not rederived here; PeriodSummary
// recomputes on demand.
func (s *Service) SetShiftRate(ctx context.Context, id engine.ShiftID, multiplier decimal.Decimal, label string) (engine.Shift, error) {
	shift, err := s.store.GetShift(ctx, id)
	if err != nil {
		return engine.Shift{}, err
	}
	if err := shift.SetRate(multiplier, label, s.clock.Now()); err != nil {
		return engine.Shift{}, err
	}
	if err := s.store.PutShift(ctx, shift); err != nil {
		return engine.Shift{}, err
	}
	return shift, nil
}

// DeleteShift soft-deletes a shift, keeping it recoverable for history.
func (s *Service) DeleteShift(ctx context.Context, id engine.ShiftID) error {
	return s.store.SoftDeleteShift(ctx, id, s.clock.Now())
}

// OvertimeMinutes reports a shift's overtime as of now.
func (s *Service) OvertimeMinutes(ctx context.Context, id engine.ShiftID) (int, error) {
	shift, err := s.store.GetShift(ctx, id)
	if err != nil {
		return 0, err
	}
	return shift.OvertimeMinutes(s.clock.Now()), nil
}

// =============================================================================
// PERIODS
// =============================================================================

// PeriodView bundles everything the UI needs for one pay period.
type PeriodView struct {
	Period    engine.Period
	Summary   engine.Summary
	Breakdown []engine.RateBucket
	Daily     []engine.DailyTotal
	Progress  float64
	Shifts    []engine.Shift
}

// PeriodSummary resolves the period containing date from the owner's
// ruleset, aggregates its shifts, and refreshes the stored PayPeriod
// record (cache semantics: stored totals are recomputed from scratch).
func (s *Service) PeriodSummary(ctx context.Context, owner engine.OwnerID, date time.Time) (PeriodView, error) {
	rules, err := s.rulesetFor(ctx, owner)
	if err != nil {
		return PeriodView{}, err
	}
	period := engine.PeriodConfigFrom(rules).PeriodFor(date)

	shifts, err := s.store.ShiftsInRange(ctx, owner, period.Start, period.End)
	if err != nil {
		return PeriodView{}, err
	}

	now := s.clock.Now()
	view := PeriodView{
		Period:    period,
		Summary:   engine.Summarize(shifts, rules.BaseRateCents),
		Breakdown: engine.RateBreakdown(shifts),
		Daily:     engine.DailyTotals(shifts, period),
		Progress:  period.Progress(now),
		Shifts:    shifts,
	}

	if err := s.upsertPeriodRecord(ctx, owner, period, shifts, rules, now); err != nil {
		return PeriodView{}, err
	}
	return view, nil
}

func (s *Service) upsertPeriodRecord(ctx context.Context, owner engine.OwnerID, period engine.Period, shifts []engine.Shift, rules engine.PayRuleset, now time.Time) error {
	record, err := s.store.FindPeriod(ctx, owner, period.Start)
	if errors.Is(err, engine.ErrPeriodNotFound) {
		record = engine.PayPeriod{
			ID:      engine.PeriodID(uuid.NewString()),
			OwnerID: owner,
			Start:   period.Start,
			End:     period.End,
		}
	} else if err != nil {
		return err
	}

	record.RecomputeFromShifts(shifts, rules, now)
	return s.store.PutPeriod(ctx, record)
}

// PeriodForecast projects the period containing date against the owner's
// overtime threshold.
func (s *Service) PeriodForecast(ctx context.Context, owner engine.OwnerID, date time.Time) (engine.Forecast, error) {
	rules, err := s.rulesetFor(ctx, owner)
	if err != nil {
		return engine.Forecast{}, err
	}
	period := engine.PeriodConfigFrom(rules).PeriodFor(date)

	shifts, err := s.store.ShiftsInRange(ctx, owner, period.Start, period.End)
	if err != nil {
		return engine.Forecast{}, err
	}
	return engine.ForecastOvertime(shifts, period, rules.OvertimeThresholdHours, s.forecast), nil
}

// FinalizePeriods marks stored periods complete once their end has passed,
// recomputing the cached aggregates one last time. Returns how many
// periods were finalized.
func (s *Service) FinalizePeriods(ctx context.Context, asOf time.Time) (int, error) {
	open, err := s.store.OpenPeriods(ctx, asOf)
	if err != nil {
		return 0, err
	}

	finalized := 0
	for _, record := range open {
		rules, err := s.rulesetFor(ctx, record.OwnerID)
		if err != nil {
			return finalized, err
		}
		period := record.Period()
		shifts, err := s.store.ShiftsInRange(ctx, record.OwnerID, period.Start, period.End)
		if err != nil {
			return finalized, err
		}

		record.RecomputeFromShifts(shifts, rules, asOf)
		record.IsComplete = true
		if err := s.store.PutPeriod(ctx, record); err != nil {
			return finalized, err
		}
		finalized++
	}
	return finalized, nil
}

// =============================================================================
// RULESETS
// =============================================================================

// UpdateRuleset persists an owner's pay configuration. Note: changing the
// biweekly reference date retroactively shifts all period boundaries.
func (s *Service) UpdateRuleset(ctx context.Context, rules engine.PayRuleset) error {
	if rules.UnpaidBreakMinutes < 0 {
		return fmt.Errorf("%w: negative unpaid break", engine.ErrInvalidRuleset)
	}
	rules.UpdatedAt = s.clock.Now()
	return s.store.PutRuleset(ctx, rules)
}

// Ruleset returns the owner's effective ruleset (stored or default).
func (s *Service) Ruleset(ctx context.Context, owner engine.OwnerID) (engine.PayRuleset, error) {
	return s.rulesetFor(ctx, owner)
}

// ShiftsInRange exposes the store query for API listings.
func (s *Service) ShiftsInRange(ctx context.Context, owner engine.OwnerID, from, to time.Time) ([]engine.Shift, error) {
	return s.store.ShiftsInRange(ctx, owner, from, to)
}

// GetShift exposes single-shift lookup for API handlers.
func (s *Service) GetShift(ctx context.Context, id engine.ShiftID) (engine.Shift, error) {
	return s.store.GetShift(ctx, id)
}

// GetPattern exposes single-pattern lookup for API handlers.
func (s *Service) GetPattern(ctx context.Context, id engine.PatternID) (engine.PatternInstance, error) {
	return s.store.GetPattern(ctx, id)
}

// PatternsForOwner lists an owner's active patterns.
func (s *Service) PatternsForOwner(ctx context.Context, owner engine.OwnerID) ([]engine.PatternInstance, error) {
	return s.store.PatternsForOwner(ctx, owner)
}
