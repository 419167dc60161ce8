/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the store with realistic
	data for testing and demos. Each scenario creates patterns, shifts,
	and rulesets that demonstrate specific features.

AVAILABLE SCENARIOS:

	weekly-nurse:     Mon/Wed/Fri weekly pattern with clocked shifts
	four-on-four-off: 12-hour cycling rotation with day/night alternation
	overtime-week:    Biweekly period approaching the overtime threshold

HOW SCENARIOS WORK:
 1. Create a ruleset for the demo owner
 2. Create patterns via factory JSON
 3. Generate shifts over a window around today
 4. Clock some shifts in/out so summaries have completed data

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "four-on-four-off"}

NOTE:

	Scenarios write demo data under fixed owner IDs. Only use in
	development/demo environments.

SEE ALSO:
  - handlers.go: writeJSON/writeError helpers
  - factory/pattern.go: Pattern JSON definitions
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/shift-engine/engine"
	"github.com/warp/shift-engine/factory"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

// ScenarioDTO describes one loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	OwnerID     string `json:"owner_id"`
}

var scenarios = []ScenarioDTO{
	{
		ID:          "weekly-nurse",
		Name:        "Weekly Nurse",
		Description: "Mon/Wed/Fri weekly pattern with clocked shifts",
		OwnerID:     "demo-nurse",
	},
	{
		ID:          "four-on-four-off",
		Name:        "4 On 4 Off",
		Description: "12-hour cycling rotation alternating days and nights",
		OwnerID:     "demo-rotation",
	},
	{
		ID:          "overtime-week",
		Name:        "Overtime Week",
		Description: "Biweekly period approaching the overtime threshold",
		OwnerID:     "demo-overtime",
	},
}

type loadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req loadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var err error
	switch req.ScenarioID {
	case "weekly-nurse":
		err = h.loadWeeklyNurseScenario(r.Context())
	case "four-on-four-off":
		err = h.loadFourOnFourOffScenario(r.Context())
	case "overtime-week":
		err = h.loadOvertimeWeekScenario(r.Context())
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario %q", req.ScenarioID), nil)
		return
	}
	if err != nil {
		h.writeServiceError(w, r, "Failed to load scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"loaded": req.ScenarioID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// loadWeeklyNurseScenario: a Mon/Wed/Fri day worker. Last week's shifts
// are clocked so the current period summary has completed data.
func (h *Handler) loadWeeklyNurseScenario(ctx context.Context) error {
	owner := engine.OwnerID("demo-nurse")

	rules := engine.DefaultRuleset(owner)
	base := int64(2800)
	rules.BaseRateCents = &base
	if err := h.Service.UpdateRuleset(ctx, rules); err != nil {
		return err
	}

	def, cycleStart, err := factory.BuildPattern(factory.PatternJSON{
		Kind:            "weekly",
		Name:            "Day Shift",
		ShortCode:       "D",
		StartMinute:     9 * 60,
		DurationMinutes: 8 * 60,
		Weekdays:        []int{1, 3, 5},
	})
	if err != nil {
		return err
	}
	pattern, err := h.Service.CreatePattern(ctx, owner, def, cycleStart)
	if err != nil {
		return err
	}

	now := h.clock.Now()
	created, err := h.Service.RegenerateFuture(ctx, pattern.ID, now.AddDate(0, 0, -14), now.AddDate(0, 0, 14))
	if err != nil {
		return err
	}
	return h.clockPastShifts(ctx, created, now, 0)
}

// loadFourOnFourOffScenario: a classic 12-hour rotation, two day shifts
// then two night shifts then four off.
func (h *Handler) loadFourOnFourOffScenario(ctx context.Context) error {
	owner := engine.OwnerID("demo-rotation")

	rules := engine.DefaultRuleset(owner)
	base := int64(3200)
	rules.BaseRateCents = &base
	rules.PeriodType = engine.PeriodBiweekly
	if err := h.Service.UpdateRuleset(ctx, rules); err != nil {
		return err
	}

	night := 19 * 60
	cycleAnchor := h.clock.Now().AddDate(0, 0, -16).Format("2006-01-02")
	def, cycleStart, err := factory.BuildPattern(factory.PatternJSON{
		Kind:            "cycling",
		Name:            "4 On 4 Off",
		ShortCode:       "R",
		StartMinute:     7 * 60,
		DurationMinutes: 12 * 60,
		CycleStart:      cycleAnchor,
		RotationDays: []factory.RotationDayJSON{
			{Index: 0, Work: true, Name: "Day 1"},
			{Index: 1, Work: true, Name: "Day 2"},
			{Index: 2, Work: true, Name: "Night 1", StartMinute: &night},
			{Index: 3, Work: true, Name: "Night 2", StartMinute: &night},
			{Index: 4, Work: false},
			{Index: 5, Work: false},
			{Index: 6, Work: false},
			{Index: 7, Work: false},
		},
	})
	if err != nil {
		return err
	}
	pattern, err := h.Service.CreatePattern(ctx, owner, def, cycleStart)
	if err != nil {
		return err
	}

	now := h.clock.Now()
	created, err := h.Service.RegenerateFuture(ctx, pattern.ID, now.AddDate(0, 0, -16), now.AddDate(0, 0, 16))
	if err != nil {
		return err
	}
	return h.clockPastShifts(ctx, created, now, 0)
}

// loadOvertimeWeekScenario: completed shifts plus scheduled overtime
// shifts at a premium rate, enough to push the forecast near the
// threshold.
func (h *Handler) loadOvertimeWeekScenario(ctx context.Context) error {
	owner := engine.OwnerID("demo-overtime")

	rules := engine.DefaultRuleset(owner)
	base := int64(2500)
	rules.BaseRateCents = &base
	if err := h.Service.UpdateRuleset(ctx, rules); err != nil {
		return err
	}

	now := h.clock.Now()
	weekStart := engine.StartOfWeek(now, rules.WeekStart)

	// Four 10-hour shifts this week, the earlier ones completed.
	var created []engine.Shift
	for i := 0; i < 4; i++ {
		start := weekStart.AddDate(0, 0, i).Add(7 * time.Hour)
		shift, err := h.Service.QuickShift(ctx, owner, "Warehouse", start, 10*60, nil, false)
		if err != nil {
			return err
		}
		created = append(created, shift)
	}
	if err := h.clockPastShifts(ctx, created, now, 0); err != nil {
		return err
	}

	// One additional premium shift on the weekend.
	extra, err := h.Service.QuickShift(ctx, owner, "Overtime cover",
		weekStart.AddDate(0, 0, 5).Add(8*time.Hour), 8*60, nil, true)
	if err != nil {
		return err
	}
	_, err = h.Service.SetShiftRate(ctx, extra.ID, decimal.NewFromFloat(1.5), "Overtime")
	return err
}

// clockPastShifts clocks in and out every created shift that already
// ended, with extraMinutes of overrun on the clock-out.
func (h *Handler) clockPastShifts(ctx context.Context, shifts []engine.Shift, now time.Time, extraMinutes int) error {
	for _, s := range shifts {
		if !s.ScheduledEnd.Before(now) {
			continue
		}
		start := s.ScheduledStart
		end := s.ScheduledEnd.Add(time.Duration(extraMinutes) * time.Minute)
		if _, err := h.Service.ClockIn(ctx, s.ID, &start); err != nil {
			return err
		}
		if _, err := h.Service.ClockOut(ctx, s.ID, &end); err != nil {
			return err
		}
	}
	return nil
}
