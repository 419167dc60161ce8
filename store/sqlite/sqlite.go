/*
Package sqlite provides a SQLite-backed implementation of engine.Store.

PURPOSE:
  Persists patterns, shifts, rulesets, and pay periods. In production the
  same patterns apply to PostgreSQL - only minor SQL dialect differences.

ENUM CODING:
  Shift status, pattern kind, and period type travel as small integers in
  the database for storage compatibility. That mapping lives HERE and only
  here; the engine sees typed string constants. See statusToCode and
  friends at the bottom of this file.

SOFT DELETION:
  Shifts and patterns carry a deleted_at column. Read queries filter
  deleted rows; nothing is ever hard-deleted, so pay-period history is
  reconstructible at any time.

KEY TABLES:
  patterns:    Pattern instances with the definition as JSON
  shifts:      One row per shift, indexed by (owner, scheduled_start)
  rulesets:    One row per owner
  pay_periods: Cached period aggregates (always recomputable)

WAL MODE:
  SQLite is opened with WAL for better concurrency: multiple readers
  don't block, single writer at a time.

USAGE:
  store, err := sqlite.New("./data/shifts.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - engine/store.go: Interface definitions
  - engine/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/shift-engine/engine"
	"github.com/warp/shift-engine/factory"
)

// Store implements engine.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ engine.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS patterns (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		kind INTEGER NOT NULL,
		definition_json TEXT NOT NULL,
		cycle_start TEXT,
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		deleted_at TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_patterns_owner ON patterns(owner_id);

	CREATE TABLE IF NOT EXISTS shifts (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		pattern_id TEXT,
		title TEXT,
		scheduled_start TEXT NOT NULL,
		scheduled_end TEXT NOT NULL,
		actual_start TEXT,
		actual_end TEXT,
		break_minutes INTEGER NOT NULL DEFAULT 0,
		status INTEGER NOT NULL DEFAULT 0,
		paid_minutes INTEGER NOT NULL DEFAULT 0,
		premium_minutes INTEGER NOT NULL DEFAULT 0,
		rate_multiplier TEXT NOT NULL DEFAULT '1',
		rate_label TEXT,
		is_additional INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		deleted_at TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_shifts_owner_start ON shifts(owner_id, scheduled_start);
	CREATE INDEX IF NOT EXISTS idx_shifts_pattern_start ON shifts(pattern_id, scheduled_start);

	CREATE TABLE IF NOT EXISTS rulesets (
		owner_id TEXT PRIMARY KEY,
		base_rate_cents INTEGER,
		unpaid_break_minutes INTEGER NOT NULL DEFAULT 30,
		multipliers_json TEXT NOT NULL,
		period_type INTEGER NOT NULL DEFAULT 0,
		week_start INTEGER NOT NULL DEFAULT 1,
		biweekly_reference TEXT,
		overtime_threshold TEXT NOT NULL DEFAULT '40',
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS pay_periods (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		paid_minutes INTEGER NOT NULL DEFAULT 0,
		premium_minutes INTEGER NOT NULL DEFAULT 0,
		additional_minutes INTEGER NOT NULL DEFAULT 0,
		estimated_pay_cents INTEGER,
		is_complete INTEGER NOT NULL DEFAULT 0,
		updated_at TEXT NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_periods_owner_start ON pay_periods(owner_id, start_date);
	CREATE INDEX IF NOT EXISTS idx_periods_open ON pay_periods(is_complete, end_date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SHIFTS
// =============================================================================

const shiftColumns = `id, owner_id, pattern_id, title, scheduled_start, scheduled_end,
	actual_start, actual_end, break_minutes, status, paid_minutes, premium_minutes,
	rate_multiplier, rate_label, is_additional, created_at, updated_at, deleted_at`

func (s *Store) PutShift(ctx context.Context, sh engine.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shifts (`+shiftColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_id=excluded.owner_id, pattern_id=excluded.pattern_id,
			title=excluded.title, scheduled_start=excluded.scheduled_start,
			scheduled_end=excluded.scheduled_end, actual_start=excluded.actual_start,
			actual_end=excluded.actual_end, break_minutes=excluded.break_minutes,
			status=excluded.status, paid_minutes=excluded.paid_minutes,
			premium_minutes=excluded.premium_minutes, rate_multiplier=excluded.rate_multiplier,
			rate_label=excluded.rate_label, is_additional=excluded.is_additional,
			updated_at=excluded.updated_at, deleted_at=excluded.deleted_at`,
		string(sh.ID), string(sh.OwnerID), nullString(string(sh.PatternID)), sh.Title,
		timeToDB(sh.ScheduledStart), timeToDB(sh.ScheduledEnd),
		timePtrToDB(sh.ActualStart), timePtrToDB(sh.ActualEnd),
		sh.BreakMinutes, statusToCode(sh.Status), sh.PaidMinutes, sh.PremiumMinutes,
		sh.RateMultiplier.String(), sh.RateLabel, boolToInt(sh.IsAdditional),
		timeToDB(sh.CreatedAt), timeToDB(sh.UpdatedAt), timePtrToDB(sh.DeletedAt),
	)
	return err
}

func (s *Store) GetShift(ctx context.Context, id engine.ShiftID) (engine.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+shiftColumns+` FROM shifts WHERE id = ? AND deleted_at IS NULL`, string(id))
	sh, err := scanShift(row)
	if err == sql.ErrNoRows {
		return engine.Shift{}, engine.ErrShiftNotFound
	}
	return sh, err
}

func (s *Store) ShiftsInRange(ctx context.Context, owner engine.OwnerID, from, to time.Time) ([]engine.Shift, error) {
	return s.queryShifts(ctx, `
		SELECT `+shiftColumns+` FROM shifts
		WHERE owner_id = ? AND deleted_at IS NULL
		  AND scheduled_start >= ? AND scheduled_start <= ?
		ORDER BY scheduled_start ASC`,
		string(owner), timeToDB(from), timeToDB(to))
}

func (s *Store) ShiftsForPattern(ctx context.Context, pattern engine.PatternID, from, to time.Time) ([]engine.Shift, error) {
	return s.queryShifts(ctx, `
		SELECT `+shiftColumns+` FROM shifts
		WHERE pattern_id = ? AND deleted_at IS NULL
		  AND scheduled_start >= ? AND scheduled_start <= ?
		ORDER BY scheduled_start ASC`,
		string(pattern), timeToDB(from), timeToDB(to))
}

func (s *Store) SoftDeleteShift(ctx context.Context, id engine.ShiftID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE shifts SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		timeToDB(at), timeToDB(at), string(id))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguish "missing" from "already deleted": the latter is a no-op.
		var exists int
		err := s.db.QueryRowContext(ctx, `SELECT 1 FROM shifts WHERE id = ?`, string(id)).Scan(&exists)
		if err == sql.ErrNoRows {
			return engine.ErrShiftNotFound
		}
		return err
	}
	return nil
}

func (s *Store) queryShifts(ctx context.Context, query string, args ...any) ([]engine.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []engine.Shift
	for rows.Next() {
		sh, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, sh)
	}
	return shifts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanShift(row scanner) (engine.Shift, error) {
	var (
		sh                      engine.Shift
		id, ownerID             string
		patternID, title, label sql.NullString
		start, end              string
		actualStart, actualEnd  sql.NullString
		statusCode              int
		multiplier              string
		additional              int
		createdAt, updatedAt    string
		deletedAt               sql.NullString
	)
	err := row.Scan(&id, &ownerID, &patternID, &title, &start, &end,
		&actualStart, &actualEnd, &sh.BreakMinutes, &statusCode, &sh.PaidMinutes,
		&sh.PremiumMinutes, &multiplier, &label, &additional,
		&createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return engine.Shift{}, err
	}

	sh.ID = engine.ShiftID(id)
	sh.OwnerID = engine.OwnerID(ownerID)
	sh.PatternID = engine.PatternID(patternID.String)
	sh.Title = title.String
	sh.RateLabel = label.String
	sh.IsAdditional = additional != 0
	sh.Status = codeToStatus(statusCode)

	if sh.ScheduledStart, err = timeFromDB(start); err != nil {
		return engine.Shift{}, err
	}
	if sh.ScheduledEnd, err = timeFromDB(end); err != nil {
		return engine.Shift{}, err
	}
	if sh.ActualStart, err = timePtrFromDB(actualStart); err != nil {
		return engine.Shift{}, err
	}
	if sh.ActualEnd, err = timePtrFromDB(actualEnd); err != nil {
		return engine.Shift{}, err
	}
	if sh.CreatedAt, err = timeFromDB(createdAt); err != nil {
		return engine.Shift{}, err
	}
	if sh.UpdatedAt, err = timeFromDB(updatedAt); err != nil {
		return engine.Shift{}, err
	}
	if sh.DeletedAt, err = timePtrFromDB(deletedAt); err != nil {
		return engine.Shift{}, err
	}
	if sh.RateMultiplier, err = decimal.NewFromString(multiplier); err != nil {
		return engine.Shift{}, fmt.Errorf("bad rate multiplier %q: %w", multiplier, err)
	}
	return sh, nil
}

// =============================================================================
// PATTERNS
// =============================================================================

func (s *Store) PutPattern(ctx context.Context, p engine.PatternInstance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	defJSON, err := json.Marshal(factory.ToJSON(p.Definition, nil))
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO patterns (id, owner_id, kind, definition_json, cycle_start, active, created_at, updated_at, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_id=excluded.owner_id, kind=excluded.kind,
			definition_json=excluded.definition_json, cycle_start=excluded.cycle_start,
			active=excluded.active, updated_at=excluded.updated_at, deleted_at=excluded.deleted_at`,
		string(p.ID), string(p.OwnerID), kindToCode(p.Definition.Kind), string(defJSON),
		timePtrToDB(p.CycleStart), boolToInt(p.Active),
		timeToDB(p.CreatedAt), timeToDB(p.UpdatedAt), timePtrToDB(p.DeletedAt))
	return err
}

func (s *Store) GetPattern(ctx context.Context, id engine.PatternID) (engine.PatternInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, definition_json, cycle_start, active, created_at, updated_at, deleted_at
		FROM patterns WHERE id = ? AND deleted_at IS NULL`, string(id))
	p, err := scanPattern(row)
	if err == sql.ErrNoRows {
		return engine.PatternInstance{}, engine.ErrPatternNotFound
	}
	return p, err
}

func (s *Store) PatternsForOwner(ctx context.Context, owner engine.OwnerID) ([]engine.PatternInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, definition_json, cycle_start, active, created_at, updated_at, deleted_at
		FROM patterns WHERE owner_id = ? AND deleted_at IS NULL ORDER BY id`, string(owner))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patterns []engine.PatternInstance
	for rows.Next() {
		p, err := scanPattern(rows)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return patterns, rows.Err()
}

func (s *Store) SoftDeletePattern(ctx context.Context, id engine.PatternID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE patterns SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		timeToDB(at), timeToDB(at), string(id))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		err := s.db.QueryRowContext(ctx, `SELECT 1 FROM patterns WHERE id = ?`, string(id)).Scan(&exists)
		if err == sql.ErrNoRows {
			return engine.ErrPatternNotFound
		}
		return err
	}
	return nil
}

func scanPattern(row scanner) (engine.PatternInstance, error) {
	var (
		p                    engine.PatternInstance
		id, ownerID, defJSON string
		cycleStart           sql.NullString
		active               int
		createdAt, updatedAt string
		deletedAt            sql.NullString
	)
	err := row.Scan(&id, &ownerID, &defJSON, &cycleStart, &active, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return engine.PatternInstance{}, err
	}

	var pj factory.PatternJSON
	if err := json.Unmarshal([]byte(defJSON), &pj); err != nil {
		return engine.PatternInstance{}, fmt.Errorf("bad pattern definition for %s: %w", id, err)
	}
	def, _, err := factory.BuildPattern(pj)
	if err != nil {
		return engine.PatternInstance{}, fmt.Errorf("bad pattern definition for %s: %w", id, err)
	}

	p.ID = engine.PatternID(id)
	p.OwnerID = engine.OwnerID(ownerID)
	p.Definition = def
	p.Active = active != 0

	if p.CycleStart, err = timePtrFromDB(cycleStart); err != nil {
		return engine.PatternInstance{}, err
	}
	if p.CreatedAt, err = timeFromDB(createdAt); err != nil {
		return engine.PatternInstance{}, err
	}
	if p.UpdatedAt, err = timeFromDB(updatedAt); err != nil {
		return engine.PatternInstance{}, err
	}
	if p.DeletedAt, err = timePtrFromDB(deletedAt); err != nil {
		return engine.PatternInstance{}, err
	}
	return p, nil
}

// =============================================================================
// RULESETS
// =============================================================================

type rateJSON struct {
	Multiplier string `json:"multiplier"`
	Label      string `json:"label"`
}

func (s *Store) PutRuleset(ctx context.Context, r engine.PayRuleset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rates := make([]rateJSON, len(r.Multipliers))
	for i, m := range r.Multipliers {
		rates[i] = rateJSON{Multiplier: m.Multiplier.String(), Label: m.Label}
	}
	ratesJSON, err := json.Marshal(rates)
	if err != nil {
		return err
	}

	var baseRate any
	if r.BaseRateCents != nil {
		baseRate = *r.BaseRateCents
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO rulesets (owner_id, base_rate_cents, unpaid_break_minutes, multipliers_json,
			period_type, week_start, biweekly_reference, overtime_threshold, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner_id) DO UPDATE SET
			base_rate_cents=excluded.base_rate_cents,
			unpaid_break_minutes=excluded.unpaid_break_minutes,
			multipliers_json=excluded.multipliers_json,
			period_type=excluded.period_type, week_start=excluded.week_start,
			biweekly_reference=excluded.biweekly_reference,
			overtime_threshold=excluded.overtime_threshold, updated_at=excluded.updated_at`,
		string(r.OwnerID), baseRate, r.UnpaidBreakMinutes, string(ratesJSON),
		periodTypeToCode(r.PeriodType), int(r.WeekStart),
		timePtrToDB(r.BiweeklyReference), r.OvertimeThresholdHours.String(),
		timeToDB(r.UpdatedAt))
	return err
}

func (s *Store) GetRuleset(ctx context.Context, owner engine.OwnerID) (engine.PayRuleset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		r                 engine.PayRuleset
		baseRate          sql.NullInt64
		ratesJSON         string
		periodCode        int
		weekStart         int
		biweeklyReference sql.NullString
		threshold         string
		updatedAt         string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT base_rate_cents, unpaid_break_minutes, multipliers_json, period_type,
			week_start, biweekly_reference, overtime_threshold, updated_at
		FROM rulesets WHERE owner_id = ?`, string(owner)).
		Scan(&baseRate, &r.UnpaidBreakMinutes, &ratesJSON, &periodCode,
			&weekStart, &biweeklyReference, &threshold, &updatedAt)
	if err == sql.ErrNoRows {
		return engine.PayRuleset{}, engine.ErrRulesetNotFound
	}
	if err != nil {
		return engine.PayRuleset{}, err
	}

	r.OwnerID = owner
	if baseRate.Valid {
		v := baseRate.Int64
		r.BaseRateCents = &v
	}
	r.PeriodType = codeToPeriodType(periodCode)
	r.WeekStart = time.Weekday(weekStart)

	var rates []rateJSON
	if err := json.Unmarshal([]byte(ratesJSON), &rates); err != nil {
		return engine.PayRuleset{}, fmt.Errorf("bad multiplier table for %s: %w", owner, err)
	}
	for _, rj := range rates {
		m, err := decimal.NewFromString(rj.Multiplier)
		if err != nil {
			return engine.PayRuleset{}, fmt.Errorf("bad multiplier %q: %w", rj.Multiplier, err)
		}
		r.Multipliers = append(r.Multipliers, engine.RateMultiplier{Multiplier: m, Label: rj.Label})
	}

	if r.OvertimeThresholdHours, err = decimal.NewFromString(threshold); err != nil {
		return engine.PayRuleset{}, fmt.Errorf("bad overtime threshold %q: %w", threshold, err)
	}
	if r.BiweeklyReference, err = timePtrFromDB(biweeklyReference); err != nil {
		return engine.PayRuleset{}, err
	}
	if r.UpdatedAt, err = timeFromDB(updatedAt); err != nil {
		return engine.PayRuleset{}, err
	}
	return r, nil
}

// =============================================================================
// PAY PERIODS
// =============================================================================

func (s *Store) PutPeriod(ctx context.Context, p engine.PayPeriod) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pay any
	if p.EstimatedPayCents != nil {
		pay = *p.EstimatedPayCents
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pay_periods (id, owner_id, start_date, end_date, paid_minutes,
			premium_minutes, additional_minutes, estimated_pay_cents, is_complete, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			paid_minutes=excluded.paid_minutes, premium_minutes=excluded.premium_minutes,
			additional_minutes=excluded.additional_minutes,
			estimated_pay_cents=excluded.estimated_pay_cents,
			is_complete=excluded.is_complete, updated_at=excluded.updated_at`,
		string(p.ID), string(p.OwnerID), timeToDB(p.Start), timeToDB(p.End),
		p.PaidMinutes, p.PremiumMinutes, p.AdditionalShiftMinutes, pay,
		boolToInt(p.IsComplete), timeToDB(p.UpdatedAt))
	return err
}

func (s *Store) GetPeriod(ctx context.Context, id engine.PeriodID) (engine.PayPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, start_date, end_date, paid_minutes, premium_minutes,
			additional_minutes, estimated_pay_cents, is_complete, updated_at
		FROM pay_periods WHERE id = ?`, string(id))
	p, err := scanPeriod(row)
	if err == sql.ErrNoRows {
		return engine.PayPeriod{}, engine.ErrPeriodNotFound
	}
	return p, err
}

func (s *Store) FindPeriod(ctx context.Context, owner engine.OwnerID, start time.Time) (engine.PayPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	day := engine.StartOfDay(start)
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, start_date, end_date, paid_minutes, premium_minutes,
			additional_minutes, estimated_pay_cents, is_complete, updated_at
		FROM pay_periods WHERE owner_id = ? AND start_date >= ? AND start_date < ?`,
		string(owner), timeToDB(day), timeToDB(day.AddDate(0, 0, 1)))
	p, err := scanPeriod(row)
	if err == sql.ErrNoRows {
		return engine.PayPeriod{}, engine.ErrPeriodNotFound
	}
	return p, err
}

func (s *Store) OpenPeriods(ctx context.Context, endedBefore time.Time) ([]engine.PayPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, start_date, end_date, paid_minutes, premium_minutes,
			additional_minutes, estimated_pay_cents, is_complete, updated_at
		FROM pay_periods WHERE is_complete = 0 AND end_date < ?
		ORDER BY start_date ASC`, timeToDB(endedBefore))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []engine.PayPeriod
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

func scanPeriod(row scanner) (engine.PayPeriod, error) {
	var (
		p           engine.PayPeriod
		id, ownerID string
		start, end  string
		pay         sql.NullInt64
		complete    int
		updatedAt   string
	)
	err := row.Scan(&id, &ownerID, &start, &end, &p.PaidMinutes, &p.PremiumMinutes,
		&p.AdditionalShiftMinutes, &pay, &complete, &updatedAt)
	if err != nil {
		return engine.PayPeriod{}, err
	}

	p.ID = engine.PeriodID(id)
	p.OwnerID = engine.OwnerID(ownerID)
	p.IsComplete = complete != 0
	if pay.Valid {
		v := pay.Int64
		p.EstimatedPayCents = &v
	}
	if p.Start, err = timeFromDB(start); err != nil {
		return engine.PayPeriod{}, err
	}
	if p.End, err = timeFromDB(end); err != nil {
		return engine.PayPeriod{}, err
	}
	if p.UpdatedAt, err = timeFromDB(updatedAt); err != nil {
		return engine.PayPeriod{}, err
	}
	return p, nil
}

// =============================================================================
// ENUM CODING - The only place raw integer values appear
// =============================================================================

func statusToCode(st engine.ShiftStatus) int {
	switch st {
	case engine.StatusInProgress:
		return 1
	case engine.StatusCompleted:
		return 2
	case engine.StatusCancelled:
		return 3
	default:
		return 0 // scheduled
	}
}

func codeToStatus(code int) engine.ShiftStatus {
	switch code {
	case 1:
		return engine.StatusInProgress
	case 2:
		return engine.StatusCompleted
	case 3:
		return engine.StatusCancelled
	default:
		return engine.StatusScheduled
	}
}

func kindToCode(k engine.PatternKind) int {
	if k == engine.PatternCycling {
		return 1
	}
	return 0
}

func periodTypeToCode(pt engine.PeriodType) int {
	switch pt {
	case engine.PeriodBiweekly:
		return 1
	case engine.PeriodMonthly:
		return 2
	default:
		return 0 // weekly
	}
}

func codeToPeriodType(code int) engine.PeriodType {
	switch code {
	case 1:
		return engine.PeriodBiweekly
	case 2:
		return engine.PeriodMonthly
	default:
		return engine.PeriodWeekly
	}
}

// =============================================================================
// DB VALUE HELPERS
// =============================================================================

// Fixed-width so lexicographic comparison in SQL matches chronological
// order (RFC3339Nano trims trailing zeros and would not).
const dbTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

func timeToDB(t time.Time) string { return t.UTC().Format(dbTimeFormat) }

func timePtrToDB(t *time.Time) any {
	if t == nil {
		return nil
	}
	return timeToDB(*t)
}

func timeFromDB(s string) (time.Time, error) {
	return time.Parse(dbTimeFormat, s)
}

func timePtrFromDB(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := timeFromDB(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
