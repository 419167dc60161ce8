/*
store.go - Persistence interfaces for engine records

PURPOSE:
  The engine itself never persists anything; it operates on in-memory
  records supplied by a caller. These interfaces are the contract that
  caller (the schedule service) requires of the persistence layer.

SOFT DELETION:
  Shifts and patterns are soft-deleted, never hard-deleted, so pay-period
  history survives schedule edits. Read methods exclude deleted records;
  deletion methods set the timestamp.

THE ONE QUERY THAT MATTERS:
  ShiftsInRange(owner, from, to): all non-deleted shifts with a scheduled
  start inside [from, to], ordered ascending. Every aggregation and
  forecast path starts here.

IMPLEMENTATIONS:
  - engine/store/memory.go: In-memory (tests/dev)
  - store/sqlite/sqlite.go: SQLite

SEE ALSO:
  - schedule/service.go: The orchestration layer over these interfaces
*/
package engine

import (
	"context"
	"time"
)

// =============================================================================
// SHIFT STORE
// =============================================================================

// ShiftStore persists shift records. PutShift upserts: the engine mutates
// records in memory and hands them back for the store to write.
type ShiftStore interface {
	PutShift(ctx context.Context, s Shift) error

	// GetShift returns ErrShiftNotFound for unknown or deleted shifts.
	GetShift(ctx context.Context, id ShiftID) (Shift, error)

	// ShiftsInRange returns non-deleted shifts for the owner with
	// ScheduledStart in [from, to], ordered ascending by ScheduledStart.
	ShiftsInRange(ctx context.Context, owner OwnerID, from, to time.Time) ([]Shift, error)

	// ShiftsForPattern returns non-deleted shifts generated from a pattern
	// with ScheduledStart in [from, to], ordered ascending.
	ShiftsForPattern(ctx context.Context, pattern PatternID, from, to time.Time) ([]Shift, error)

	// SoftDeleteShift sets the deletion timestamp. Deleting an already
	// deleted shift is a no-op.
	SoftDeleteShift(ctx context.Context, id ShiftID, at time.Time) error
}

// =============================================================================
// PATTERN / RULESET / PERIOD STORES
// =============================================================================

type PatternStore interface {
	PutPattern(ctx context.Context, p PatternInstance) error
	GetPattern(ctx context.Context, id PatternID) (PatternInstance, error)
	PatternsForOwner(ctx context.Context, owner OwnerID) ([]PatternInstance, error)
	SoftDeletePattern(ctx context.Context, id PatternID, at time.Time) error
}

type RulesetStore interface {
	PutRuleset(ctx context.Context, r PayRuleset) error
	// GetRuleset returns ErrRulesetNotFound when the owner has none;
	// callers fall back to DefaultRuleset.
	GetRuleset(ctx context.Context, owner OwnerID) (PayRuleset, error)
}

type PeriodStore interface {
	PutPeriod(ctx context.Context, p PayPeriod) error
	GetPeriod(ctx context.Context, id PeriodID) (PayPeriod, error)
	// FindPeriod locates the stored record matching an owner and start date.
	FindPeriod(ctx context.Context, owner OwnerID, start time.Time) (PayPeriod, error)
	// OpenPeriods returns incomplete periods whose end precedes the cutoff,
	// for finalization.
	OpenPeriods(ctx context.Context, endedBefore time.Time) ([]PayPeriod, error)
}

// Store is the full persistence surface the schedule service requires.
type Store interface {
	ShiftStore
	PatternStore
	RulesetStore
	PeriodStore
}
