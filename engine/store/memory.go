// Package store provides in-memory Store implementations for tests and dev.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/shift-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	shifts   map[engine.ShiftID]engine.Shift
	patterns map[engine.PatternID]engine.PatternInstance
	rulesets map[engine.OwnerID]engine.PayRuleset
	periods  map[engine.PeriodID]engine.PayPeriod
}

var _ engine.Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		shifts:   make(map[engine.ShiftID]engine.Shift),
		patterns: make(map[engine.PatternID]engine.PatternInstance),
		rulesets: make(map[engine.OwnerID]engine.PayRuleset),
		periods:  make(map[engine.PeriodID]engine.PayPeriod),
	}
}

// =============================================================================
// SHIFTS
// =============================================================================

func (m *Memory) PutShift(_ context.Context, s engine.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shifts[s.ID] = s
	return nil
}

func (m *Memory) GetShift(_ context.Context, id engine.ShiftID) (engine.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.shifts[id]
	if !ok || s.IsDeleted() {
		return engine.Shift{}, engine.ErrShiftNotFound
	}
	return s, nil
}

func (m *Memory) ShiftsInRange(_ context.Context, owner engine.OwnerID, from, to time.Time) ([]engine.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []engine.Shift
	for _, s := range m.shifts {
		if s.OwnerID != owner || s.IsDeleted() {
			continue
		}
		if s.ScheduledStart.Before(from) || s.ScheduledStart.After(to) {
			continue
		}
		result = append(result, s)
	}
	sortByStart(result)
	return result, nil
}

func (m *Memory) ShiftsForPattern(_ context.Context, pattern engine.PatternID, from, to time.Time) ([]engine.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []engine.Shift
	for _, s := range m.shifts {
		if s.PatternID != pattern || s.IsDeleted() {
			continue
		}
		if s.ScheduledStart.Before(from) || s.ScheduledStart.After(to) {
			continue
		}
		result = append(result, s)
	}
	sortByStart(result)
	return result, nil
}

func (m *Memory) SoftDeleteShift(_ context.Context, id engine.ShiftID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.shifts[id]
	if !ok {
		return engine.ErrShiftNotFound
	}
	if s.DeletedAt == nil {
		s.DeletedAt = &at
		s.UpdatedAt = at
		m.shifts[id] = s
	}
	return nil
}

func sortByStart(shifts []engine.Shift) {
	sort.Slice(shifts, func(i, j int) bool {
		return shifts[i].ScheduledStart.Before(shifts[j].ScheduledStart)
	})
}

// =============================================================================
// PATTERNS
// =============================================================================

func (m *Memory) PutPattern(_ context.Context, p engine.PatternInstance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patterns[p.ID] = p
	return nil
}

func (m *Memory) GetPattern(_ context.Context, id engine.PatternID) (engine.PatternInstance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.patterns[id]
	if !ok || p.IsDeleted() {
		return engine.PatternInstance{}, engine.ErrPatternNotFound
	}
	return p, nil
}

func (m *Memory) PatternsForOwner(_ context.Context, owner engine.OwnerID) ([]engine.PatternInstance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []engine.PatternInstance
	for _, p := range m.patterns {
		if p.OwnerID == owner && !p.IsDeleted() {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *Memory) SoftDeletePattern(_ context.Context, id engine.PatternID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.patterns[id]
	if !ok {
		return engine.ErrPatternNotFound
	}
	if p.DeletedAt == nil {
		p.DeletedAt = &at
		p.UpdatedAt = at
		m.patterns[id] = p
	}
	return nil
}

// =============================================================================
// RULESETS
// =============================================================================

func (m *Memory) PutRuleset(_ context.Context, r engine.PayRuleset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rulesets[r.OwnerID] = r
	return nil
}

func (m *Memory) GetRuleset(_ context.Context, owner engine.OwnerID) (engine.PayRuleset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rulesets[owner]
	if !ok {
		return engine.PayRuleset{}, engine.ErrRulesetNotFound
	}
	return r, nil
}

// =============================================================================
// PERIODS
// =============================================================================

func (m *Memory) PutPeriod(_ context.Context, p engine.PayPeriod) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.periods[p.ID] = p
	return nil
}

func (m *Memory) GetPeriod(_ context.Context, id engine.PeriodID) (engine.PayPeriod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.periods[id]
	if !ok {
		return engine.PayPeriod{}, engine.ErrPeriodNotFound
	}
	return p, nil
}

func (m *Memory) FindPeriod(_ context.Context, owner engine.OwnerID, start time.Time) (engine.PayPeriod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.periods {
		if p.OwnerID == owner && engine.SameDay(p.Start, start) {
			return p, nil
		}
	}
	return engine.PayPeriod{}, engine.ErrPeriodNotFound
}

func (m *Memory) OpenPeriods(_ context.Context, endedBefore time.Time) ([]engine.PayPeriod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []engine.PayPeriod
	for _, p := range m.periods {
		if !p.IsComplete && p.End.Before(endedBefore) {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Start.Before(result[j].Start) })
	return result, nil
}
