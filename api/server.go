/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/patterns/*       Recurring pattern management and generation
  /api/shifts/*         Shift lifecycle (create, clock events, rates)
  /api/periods/*        Pay-period summaries, forecasts, finalization
  /api/rulesets/*       Per-owner pay configuration
  /api/scenarios/*      Demo scenarios

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Pattern routes
		r.Route("/patterns", func(r chi.Router) {
			r.Get("/", h.ListPatterns)
			r.Post("/", h.CreatePattern)
			r.Get("/{id}", h.GetPattern)
			r.Delete("/{id}", h.DeletePattern)
			r.Post("/{id}/generate", h.GenerateShifts)
		})

		// Shift routes
		r.Route("/shifts", func(r chi.Router) {
			r.Get("/", h.ListShifts)
			r.Post("/", h.CreateQuickShift)
			r.Get("/{id}", h.GetShift)
			r.Delete("/{id}", h.DeleteShift)
			r.Post("/{id}/clock-in", h.ClockIn)
			r.Post("/{id}/clock-out", h.ClockOut)
			r.Post("/{id}/cancel", h.CancelShift)
			r.Post("/{id}/rate", h.SetShiftRate)
			r.Get("/{id}/overtime", h.ShiftOvertime)
		})

		// Period routes
		r.Route("/periods", func(r chi.Router) {
			r.Get("/summary", h.PeriodSummary)
			r.Get("/forecast", h.PeriodForecast)
			r.Post("/finalize", h.FinalizePeriods)
		})

		// Ruleset routes
		r.Route("/rulesets", func(r chi.Router) {
			r.Get("/{owner}", h.GetRuleset)
			r.Put("/{owner}", h.UpdateRuleset)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/load", h.LoadScenario)
		})
	})

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
