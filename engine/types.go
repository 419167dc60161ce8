/*
Package engine provides the core shift rotation and pay engine.

PURPOSE:
  This package contains the types and algorithms for turning a compact
  rotation definition (weekly day-set or N-day cycling rotation) into
  concrete dated shift instances, governing each shift's lifecycle and
  premium-pay classification, and rolling shifts up into pay periods
  with hours/overtime/earnings summaries and forecasts.

KEY CONCEPTS IN THIS FILE (types.go):
  - PatternDefinition: Immutable template describing when shifts recur
  - RotationDay: One position in a cycling pattern's repeat cycle
  - PatternInstance: A definition bound to an owner and a cycle start
  - Shift: One concrete work instance with status and pay fields
  - PayRuleset: Per-owner pay configuration (break, rates, period cadence)
  - RateTable: The standard rate-multiplier set with display labels

DESIGN PRINCIPLES:
  1. Purity: Every operation is a function over in-memory records.
     The engine performs no I/O and holds no process-wide state.
  2. Precision: Rate multipliers and pay math use decimal.Decimal.
  3. Soft deletion: Shifts are never hard-deleted; pay-period history
     must survive schedule edits.
  4. Derived aggregates: PayPeriod minute totals are a cache, always
     recomputable from the owned shift set.

USAGE:
  pattern := engine.PatternInstance{...}
  shifts, err := engine.GenerateShifts(&pattern, from, to, rules)

SEE ALSO:
  - rotation.go: Cycle-index arithmetic and pattern resolution
  - generate.go: Shift materialization over a date range
  - lifecycle.go: Shift status transitions and overtime policy
  - aggregate.go: Pay-period summaries and breakdowns
  - forecast.go: Overtime projection
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type OwnerID string
type PatternID string
type ShiftID string
type PeriodID string

// =============================================================================
// PATTERN - Reusable template describing when shifts recur
// =============================================================================

type PatternKind string

const (
	PatternWeekly  PatternKind = "weekly"  // fixed weekday set, e.g. Mon-Fri
	PatternCycling PatternKind = "cycling" // N-day rotation, e.g. 4 on / 4 off
)

// RotationDay is one position in a cycling pattern's repeat cycle.
// Index is zero-based within the cycle. Override fields are nil when the
// day uses the pattern's default timing.
type RotationDay struct {
	Index            int
	IsWorkDay        bool
	Name             string // optional, e.g. "Early", "Night"
	StartMinuteOfDay *int
	DurationMinutes  *int
}

// PatternDefinition is the immutable template: edits create a new
// definition (or require regenerating future shifts), never mutate one
// that has already produced shifts.
type PatternDefinition struct {
	Kind             PatternKind
	Name             string
	ShortCode        string // fallback calendar code, e.g. "W"
	StartMinuteOfDay int    // minutes after midnight, e.g. 420 = 07:00
	DurationMinutes  int
	BreakMinutes     *int // nil = use ruleset default

	// Weekly patterns only.
	Weekdays []time.Weekday

	// Cycling patterns only. Indices must be unique and contiguous 0..N-1.
	RotationDays []RotationDay
}

// PatternInstance binds a definition to an owner and, for cycling
// patterns, the real-world date that maps to rotation index 0.
type PatternInstance struct {
	ID         PatternID
	OwnerID    OwnerID
	Definition PatternDefinition
	CycleStart *time.Time // cycling only; nil = pattern cannot resolve yet
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
}

func (p *PatternInstance) IsDeleted() bool { return p.DeletedAt != nil }

// =============================================================================
// SHIFT - One concrete work instance
// =============================================================================

type ShiftStatus string

const (
	StatusScheduled  ShiftStatus = "scheduled"
	StatusInProgress ShiftStatus = "in_progress"
	StatusCompleted  ShiftStatus = "completed"
	StatusCancelled  ShiftStatus = "cancelled"
)

// Terminal returns true for statuses that permit no further transitions.
func (s ShiftStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type Shift struct {
	ID        ShiftID
	OwnerID   OwnerID
	PatternID PatternID // empty for ad-hoc ("quick") shifts
	Title     string

	ScheduledStart time.Time
	ScheduledEnd   time.Time
	ActualStart    *time.Time
	ActualEnd      *time.Time
	BreakMinutes   int

	Status         ShiftStatus
	PaidMinutes    int
	PremiumMinutes int

	RateMultiplier decimal.Decimal // >= 1.0 for generated shifts
	RateLabel      string          // optional, e.g. "Bank Holiday"
	IsAdditional   bool

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

func (s *Shift) IsDeleted() bool { return s.DeletedAt != nil }

// ScheduledDurationMinutes returns the planned length of the shift.
func (s *Shift) ScheduledDurationMinutes() int {
	return int(s.ScheduledEnd.Sub(s.ScheduledStart).Minutes())
}

// ActualDurationMinutes returns the clocked length, or (0, false) when
// the shift has no complete actual interval.
func (s *Shift) ActualDurationMinutes() (int, bool) {
	if s.ActualStart == nil || s.ActualEnd == nil {
		return 0, false
	}
	return int(s.ActualEnd.Sub(*s.ActualStart).Minutes()), true
}

// EffectiveDurationMinutes is the actual duration when both clock events
// exist, otherwise the scheduled duration. This is the base for paid
// minutes.
func (s *Shift) EffectiveDurationMinutes() int {
	if d, ok := s.ActualDurationMinutes(); ok {
		return d
	}
	return s.ScheduledDurationMinutes()
}

// IsPremium reports whether the shift earns above the base rate,
// either through a multiplier above 1.0 or the additional-shift flag.
func (s *Shift) IsPremium() bool {
	return s.IsAdditional || s.RateMultiplier.GreaterThan(decimal.NewFromInt(1))
}

// =============================================================================
// RATE MULTIPLIERS - Closed set of standard multipliers with labels
// =============================================================================

type RateMultiplier struct {
	Multiplier decimal.Decimal
	Label      string
}

type RateTable []RateMultiplier

// DefaultRateTable returns the standard multiplier set. A PayRuleset may
// override it per owner.
func DefaultRateTable() RateTable {
	return RateTable{
		{Multiplier: decimal.NewFromInt(1), Label: "Regular"},
		{Multiplier: decimal.NewFromFloat(1.3), Label: "Overtime"},
		{Multiplier: decimal.NewFromFloat(1.5), Label: "Extra"},
		{Multiplier: decimal.NewFromInt(2), Label: "Bank Holiday"},
	}
}

// =============================================================================
// PAY RULESET - Per-owner pay configuration
// =============================================================================

const DefaultUnpaidBreakMinutes = 30

type PayRuleset struct {
	OwnerID OwnerID

	// BaseRateCents is the hourly base rate. Nil means pay estimates are
	// unavailable; aggregation still produces hour totals.
	BaseRateCents *int64

	UnpaidBreakMinutes int
	Multipliers        RateTable

	PeriodType PeriodType
	WeekStart  time.Weekday
	// BiweeklyReference anchors 14-day period blocks. Changing it shifts
	// all biweekly boundaries retroactively.
	BiweeklyReference *time.Time

	OvertimeThresholdHours decimal.Decimal

	UpdatedAt time.Time
}

// DefaultRuleset returns the ruleset used before an owner configures one.
func DefaultRuleset(owner OwnerID) PayRuleset {
	return PayRuleset{
		OwnerID:                owner,
		UnpaidBreakMinutes:     DefaultUnpaidBreakMinutes,
		Multipliers:            DefaultRateTable(),
		PeriodType:             PeriodWeekly,
		WeekStart:              time.Monday,
		OvertimeThresholdHours: decimal.NewFromInt(40),
	}
}

// BreakMinutesOr resolves the unpaid-break default chain: explicit value,
// then ruleset, then the 30-minute fallback.
func (r PayRuleset) BreakMinutesOr(override *int) int {
	if override != nil {
		return *override
	}
	if r.UnpaidBreakMinutes > 0 {
		return r.UnpaidBreakMinutes
	}
	return DefaultUnpaidBreakMinutes
}
