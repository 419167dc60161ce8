/*
handlers.go - HTTP API handlers for the shift engine

PURPOSE:
  Exposes the schedule service via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Patterns:
    GET    /api/patterns?owner=        List an owner's patterns
    POST   /api/patterns               Create pattern
    GET    /api/patterns/{id}          Get pattern
    DELETE /api/patterns/{id}          Soft-delete pattern
    POST   /api/patterns/{id}/generate Materialize shifts for a range

  Shifts:
    GET    /api/shifts?owner=&from=&to=  List shifts in range
    POST   /api/shifts                   Create ad-hoc ("quick") shift
    GET    /api/shifts/{id}              Get shift
    DELETE /api/shifts/{id}              Soft-delete shift
    POST   /api/shifts/{id}/clock-in     Clock in
    POST   /api/shifts/{id}/clock-out    Clock out
    POST   /api/shifts/{id}/cancel       Cancel
    POST   /api/shifts/{id}/rate         Set rate multiplier

  Periods:
    GET    /api/periods/summary?owner=&date=   Summary for the period containing date
    GET    /api/periods/forecast?owner=&date=  Overtime forecast
    POST   /api/periods/finalize               Finalize ended periods

  Rulesets:
    GET    /api/rulesets/{owner}       Effective ruleset (stored or default)
    PUT    /api/rulesets/{owner}       Update ruleset

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, rejected transitions
  - 404: Record not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - schedule/service.go: The domain logic behind these handlers
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/warp/shift-engine/engine"
	"github.com/warp/shift-engine/factory"
	"github.com/warp/shift-engine/schedule"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service  *schedule.Service
	validate *validator.Validate
	clock    engine.Clock
}

// NewHandler creates a new handler over the schedule service.
func NewHandler(service *schedule.Service, clock engine.Clock) *Handler {
	if clock == nil {
		clock = engine.SystemClock{}
	}
	return &Handler{
		Service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		clock:    clock,
	}
}

// =============================================================================
// PATTERN HANDLERS
// =============================================================================

func (h *Handler) ListPatterns(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		writeError(w, http.StatusBadRequest, "Missing owner query parameter", nil)
		return
	}

	patterns, err := h.Service.PatternsForOwner(r.Context(), engine.OwnerID(owner))
	if err != nil {
		h.writeServiceError(w, r, "Failed to list patterns", err)
		return
	}

	dtos := make([]PatternDTO, len(patterns))
	for i, p := range patterns {
		dtos[i] = toPatternDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreatePattern(w http.ResponseWriter, r *http.Request) {
	var req CreatePatternRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	def, cycleStart, err := factory.BuildPattern(req.Pattern)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid pattern", err)
		return
	}

	pattern, err := h.Service.CreatePattern(r.Context(), engine.OwnerID(req.OwnerID), def, cycleStart)
	if err != nil {
		h.writeServiceError(w, r, "Failed to create pattern", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPatternDTO(pattern))
}

func (h *Handler) GetPattern(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pattern, err := h.Service.GetPattern(r.Context(), engine.PatternID(id))
	if err != nil {
		h.writeServiceError(w, r, "Failed to get pattern", err)
		return
	}
	writeJSON(w, http.StatusOK, toPatternDTO(pattern))
}

func (h *Handler) DeletePattern(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Service.DeletePattern(r.Context(), engine.PatternID(id)); err != nil {
		h.writeServiceError(w, r, "Failed to delete pattern", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GenerateShifts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req GenerateShiftsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	from, err := parseDate(req.From)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date (use YYYY-MM-DD)", err)
		return
	}
	to, err := parseDate(req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date (use YYYY-MM-DD)", err)
		return
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "Range end before start", nil)
		return
	}

	created, err := h.Service.RegenerateFuture(r.Context(), engine.PatternID(id), from, to)
	if err != nil {
		h.writeServiceError(w, r, "Failed to generate shifts", err)
		return
	}
	writeJSON(w, http.StatusCreated, toShiftDTOs(created, h.clock.Now()))
}

// =============================================================================
// SHIFT HANDLERS
// =============================================================================

func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	owner := q.Get("owner")
	if owner == "" {
		writeError(w, http.StatusBadRequest, "Missing owner query parameter", nil)
		return
	}
	from, err := parseDate(q.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date (use YYYY-MM-DD)", err)
		return
	}
	to, err := parseDate(q.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date (use YYYY-MM-DD)", err)
		return
	}

	shifts, err := h.Service.ShiftsInRange(r.Context(), engine.OwnerID(owner),
		engine.StartOfDay(from), engine.EndOfDay(to))
	if err != nil {
		h.writeServiceError(w, r, "Failed to list shifts", err)
		return
	}
	writeJSON(w, http.StatusOK, toShiftDTOs(shifts, h.clock.Now()))
}

func (h *Handler) CreateQuickShift(w http.ResponseWriter, r *http.Request) {
	var req QuickShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start (use RFC3339)", err)
		return
	}

	shift, err := h.Service.QuickShift(r.Context(), engine.OwnerID(req.OwnerID),
		req.Title, start, req.DurationMinutes, req.BreakMinutes, req.IsAdditional)
	if err != nil {
		h.writeServiceError(w, r, "Failed to create shift", err)
		return
	}
	writeJSON(w, http.StatusCreated, toShiftDTO(shift, h.clock.Now()))
}

func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	shift, err := h.Service.GetShift(r.Context(), engine.ShiftID(id))
	if err != nil {
		h.writeServiceError(w, r, "Failed to get shift", err)
		return
	}
	writeJSON(w, http.StatusOK, toShiftDTO(shift, h.clock.Now()))
}

func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Service.DeleteShift(r.Context(), engine.ShiftID(id)); err != nil {
		h.writeServiceError(w, r, "Failed to delete shift", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	h.clockEvent(w, r, h.Service.ClockIn)
}

func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	h.clockEvent(w, r, h.Service.ClockOut)
}

func (h *Handler) CancelShift(w http.ResponseWriter, r *http.Request) {
	h.clockEvent(w, r, h.Service.CancelShift)
}

func (h *Handler) clockEvent(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, id engine.ShiftID, at *time.Time) (engine.Shift, error)) {

	id := chi.URLParam(r, "id")

	var req ClockRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	var at *time.Time
	if req.At != "" {
		t, err := time.Parse(time.RFC3339, req.At)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid at (use RFC3339)", err)
			return
		}
		at = &t
	}

	shift, err := op(r.Context(), engine.ShiftID(id), at)
	if err != nil {
		h.writeServiceError(w, r, "Transition failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toShiftDTO(shift, h.clock.Now()))
}

func (h *Handler) ShiftOvertime(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	minutes, err := h.Service.OvertimeMinutes(r.Context(), engine.ShiftID(id))
	if err != nil {
		h.writeServiceError(w, r, "Failed to compute overtime", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"overtime_minutes": minutes})
}

func (h *Handler) SetShiftRate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req SetRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	multiplier, err := decimal.NewFromString(req.Multiplier)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multiplier", err)
		return
	}

	shift, err := h.Service.SetShiftRate(r.Context(), engine.ShiftID(id), multiplier, req.Label)
	if err != nil {
		h.writeServiceError(w, r, "Failed to set rate", err)
		return
	}
	writeJSON(w, http.StatusOK, toShiftDTO(shift, h.clock.Now()))
}

// =============================================================================
// PERIOD HANDLERS
// =============================================================================

func (h *Handler) PeriodSummary(w http.ResponseWriter, r *http.Request) {
	owner, date, ok := h.ownerAndDate(w, r)
	if !ok {
		return
	}
	view, err := h.Service.PeriodSummary(r.Context(), owner, date)
	if err != nil {
		h.writeServiceError(w, r, "Failed to summarize period", err)
		return
	}
	writeJSON(w, http.StatusOK, toPeriodSummaryDTO(view, h.clock.Now()))
}

func (h *Handler) PeriodForecast(w http.ResponseWriter, r *http.Request) {
	owner, date, ok := h.ownerAndDate(w, r)
	if !ok {
		return
	}
	forecast, err := h.Service.PeriodForecast(r.Context(), owner, date)
	if err != nil {
		h.writeServiceError(w, r, "Failed to forecast period", err)
		return
	}
	writeJSON(w, http.StatusOK, toForecastDTO(forecast))
}

func (h *Handler) FinalizePeriods(w http.ResponseWriter, r *http.Request) {
	count, err := h.Service.FinalizePeriods(r.Context(), h.clock.Now())
	if err != nil {
		h.writeServiceError(w, r, "Failed to finalize periods", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"finalized": count})
}

// ownerAndDate extracts the common owner/date query parameters. Date
// defaults to today.
func (h *Handler) ownerAndDate(w http.ResponseWriter, r *http.Request) (engine.OwnerID, time.Time, bool) {
	q := r.URL.Query()
	owner := q.Get("owner")
	if owner == "" {
		writeError(w, http.StatusBadRequest, "Missing owner query parameter", nil)
		return "", time.Time{}, false
	}
	date := h.clock.Now()
	if ds := q.Get("date"); ds != "" {
		parsed, err := parseDate(ds)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
			return "", time.Time{}, false
		}
		date = parsed
	}
	return engine.OwnerID(owner), date, true
}

// =============================================================================
// RULESET HANDLERS
// =============================================================================

func (h *Handler) GetRuleset(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	rules, err := h.Service.Ruleset(r.Context(), engine.OwnerID(owner))
	if err != nil {
		h.writeServiceError(w, r, "Failed to get ruleset", err)
		return
	}
	writeJSON(w, http.StatusOK, toRulesetDTO(rules))
}

func (h *Handler) UpdateRuleset(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")

	var req UpdateRulesetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	// Start from the effective ruleset so partial updates keep defaults.
	rules, err := h.Service.Ruleset(r.Context(), engine.OwnerID(owner))
	if err != nil {
		h.writeServiceError(w, r, "Failed to load ruleset", err)
		return
	}

	if req.BaseRateCents != nil {
		rules.BaseRateCents = req.BaseRateCents
	}
	if req.UnpaidBreakMinutes != nil {
		rules.UnpaidBreakMinutes = *req.UnpaidBreakMinutes
	}
	if req.PeriodType != "" {
		rules.PeriodType = engine.PeriodType(req.PeriodType)
	}
	if req.WeekStart != nil {
		rules.WeekStart = time.Weekday(*req.WeekStart)
	}
	if req.BiweeklyReference != "" {
		ref, err := parseDate(req.BiweeklyReference)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid biweekly_reference (use YYYY-MM-DD)", err)
			return
		}
		rules.BiweeklyReference = &ref
	}
	if req.OvertimeThresholdHours != "" {
		threshold, err := decimal.NewFromString(req.OvertimeThresholdHours)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid overtime_threshold_hours", err)
			return
		}
		rules.OvertimeThresholdHours = threshold
	}
	if len(req.Multipliers) > 0 {
		var table engine.RateTable
		for _, m := range req.Multipliers {
			mult, err := decimal.NewFromString(m.Multiplier)
			if err != nil {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid multiplier %q", m.Multiplier), err)
				return
			}
			table = append(table, engine.RateMultiplier{Multiplier: mult, Label: m.Label})
		}
		rules.Multipliers = table
	}

	if err := h.Service.UpdateRuleset(r.Context(), rules); err != nil {
		h.writeServiceError(w, r, "Failed to update ruleset", err)
		return
	}
	writeJSON(w, http.StatusOK, toRulesetDTO(rules))
}

// =============================================================================
// HELPERS
// =============================================================================

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch {
	case engine.IsNotFound(err):
		writeError(w, http.StatusNotFound, msg, err)
	case engine.IsClientError(err):
		writeError(w, http.StatusBadRequest, msg, err)
	default:
		slog.Error(msg, "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, msg, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	body := map[string]string{"error": msg}
	if err != nil {
		body["detail"] = err.Error()
	}
	writeJSON(w, status, body)
}
