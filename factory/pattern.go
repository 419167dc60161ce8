/*
Package factory provides JSON to Go pattern conversion.

PURPOSE:
  Converts JSON pattern definitions into engine.PatternDefinition and
  engine.PatternInstance records. The API layer and seed scenarios build
  patterns through this package, so the invariants (contiguous rotation
  indices, sane timings) are validated in exactly one place.

JSON SCHEMA:
  {
    "kind": "cycling",
    "name": "4 on 4 off",
    "short_code": "R",
    "start_minute": 420,
    "duration_minutes": 720,
    "break_minutes": 30,
    "cycle_start": "2024-01-01",
    "rotation_days": [
      {"index": 0, "work": true, "name": "Day 1"},
      {"index": 1, "work": true},
      {"index": 2, "work": false}
    ]
  }

  Weekly patterns use "weekdays" (0=Sunday .. 6=Saturday) instead of
  "cycle_start"/"rotation_days".

KEY FEATURES:
  - Validates structure before any shift can be generated from it
  - Defaults: kind weekly, 08:00 start, 8h duration
  - Round-trips via ToJSON for storage and API responses

SEE ALSO:
  - engine/rotation.go: Validate() holds the invariants enforced here
  - api/handlers.go: Builds patterns from request bodies
*/
package factory

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/warp/shift-engine/engine"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// PatternJSON is the JSON representation of a pattern definition plus the
// instance-level cycle start.
type PatternJSON struct {
	Kind            string            `json:"kind"` // weekly | cycling
	Name            string            `json:"name,omitempty"`
	ShortCode       string            `json:"short_code,omitempty"`
	StartMinute     int               `json:"start_minute"`
	DurationMinutes int               `json:"duration_minutes"`
	BreakMinutes    *int              `json:"break_minutes,omitempty"`
	Weekdays        []int             `json:"weekdays,omitempty"`      // 0=Sunday .. 6=Saturday
	CycleStart      string            `json:"cycle_start,omitempty"`   // YYYY-MM-DD, cycling only
	RotationDays    []RotationDayJSON `json:"rotation_days,omitempty"` // cycling only
}

// RotationDayJSON is one rotation position.
type RotationDayJSON struct {
	Index           int    `json:"index"`
	Work            bool   `json:"work"`
	Name            string `json:"name,omitempty"`
	StartMinute     *int   `json:"start_minute,omitempty"`
	DurationMinutes *int   `json:"duration_minutes,omitempty"`
}

// =============================================================================
// PARSING
// =============================================================================

// ParsePattern converts a JSON document into a validated definition plus
// the optional cycle start date. Violations wrap engine.ErrInvalidPattern.
func ParsePattern(data []byte) (engine.PatternDefinition, *time.Time, error) {
	var pj PatternJSON
	if err := json.Unmarshal(data, &pj); err != nil {
		return engine.PatternDefinition{}, nil, fmt.Errorf("%w: %v", engine.ErrInvalidPattern, err)
	}
	return BuildPattern(pj)
}

// BuildPattern converts the JSON schema struct into a validated definition.
func BuildPattern(pj PatternJSON) (engine.PatternDefinition, *time.Time, error) {
	def := engine.PatternDefinition{
		Kind:             engine.PatternKind(pj.Kind),
		Name:             pj.Name,
		ShortCode:        pj.ShortCode,
		StartMinuteOfDay: pj.StartMinute,
		DurationMinutes:  pj.DurationMinutes,
		BreakMinutes:     pj.BreakMinutes,
	}

	// Defaults
	if def.Kind == "" {
		def.Kind = engine.PatternWeekly
	}
	if def.StartMinuteOfDay == 0 && def.DurationMinutes == 0 {
		def.StartMinuteOfDay = 8 * 60
	}
	if def.DurationMinutes == 0 {
		def.DurationMinutes = 8 * 60
	}

	for _, wd := range pj.Weekdays {
		if wd < 0 || wd > 6 {
			return engine.PatternDefinition{}, nil, &engine.PatternError{Detail: fmt.Sprintf("weekday %d outside 0..6", wd)}
		}
		def.Weekdays = append(def.Weekdays, time.Weekday(wd))
	}

	for _, rd := range pj.RotationDays {
		def.RotationDays = append(def.RotationDays, engine.RotationDay{
			Index:            rd.Index,
			IsWorkDay:        rd.Work,
			Name:             rd.Name,
			StartMinuteOfDay: rd.StartMinute,
			DurationMinutes:  rd.DurationMinutes,
		})
	}

	var cycleStart *time.Time
	if pj.CycleStart != "" {
		t, err := time.Parse("2006-01-02", pj.CycleStart)
		if err != nil {
			return engine.PatternDefinition{}, nil, fmt.Errorf("%w: bad cycle_start %q", engine.ErrInvalidPattern, pj.CycleStart)
		}
		cycleStart = &t
	}

	if err := def.Validate(); err != nil {
		return engine.PatternDefinition{}, nil, err
	}
	return def, cycleStart, nil
}

// =============================================================================
// SERIALIZATION
// =============================================================================

// ToJSON converts a definition (plus cycle start) back to the JSON schema.
func ToJSON(def engine.PatternDefinition, cycleStart *time.Time) PatternJSON {
	pj := PatternJSON{
		Kind:            string(def.Kind),
		Name:            def.Name,
		ShortCode:       def.ShortCode,
		StartMinute:     def.StartMinuteOfDay,
		DurationMinutes: def.DurationMinutes,
		BreakMinutes:    def.BreakMinutes,
	}
	for _, wd := range def.Weekdays {
		pj.Weekdays = append(pj.Weekdays, int(wd))
	}
	for _, rd := range def.RotationDays {
		pj.RotationDays = append(pj.RotationDays, RotationDayJSON{
			Index:           rd.Index,
			Work:            rd.IsWorkDay,
			Name:            rd.Name,
			StartMinute:     rd.StartMinuteOfDay,
			DurationMinutes: rd.DurationMinutes,
		})
	}
	if cycleStart != nil {
		pj.CycleStart = cycleStart.Format("2006-01-02")
	}
	return pj
}
