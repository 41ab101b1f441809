/*
Package sqlite provides the SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements every persistence contract of the engine - override tables,
  draft-month markers, replacement shifts, maternity periods, leave
  balances, leave history, staff records and holidays - over a single
  SQLite database. The same patterns apply to PostgreSQL; only minor
  dialect differences.

INTERFACES IMPLEMENTED:
  schedule.Store  (Tables + WithTx)
  staff.Store
  roster.HolidayStore

KEY TABLES:
  draft_overrides / published_overrides: (date, staff_id) composite PK
  draft_months:     (year, month) marker set
  leave_balances:   (staff_id, year) counters
  leave_history:    append-only; partial unique index enforces a single
                    approved entry per (staff_id, date)
  replacement_shifts, maternity_periods, staff, holidays

HISTORY IS APPEND-ONLY:
  No DELETE on leave_history exists anywhere in this package. The only
  mutation is the status flip to 'cancelled'.

TRANSACTIONS:
  WithTx wraps a function in BEGIN/COMMIT; an error rolls everything
  back. Publishing a month - overrides, history rows, balance rows - is
  all-or-nothing. The connection pool is pinned to one connection, so
  the database's own isolation is the only concurrency guard, matching
  the single-writer model.

WAL MODE:
  Opened with WAL for better read concurrency and crash recovery.

USAGE:
  st, err := sqlite.New("./data/roster.db")   // or ":memory:"
  defer st.Close()

SEE ALSO:
  - schedule/store.go: Interface definitions
  - schedule/store/memory.go: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/farmasi/roster-engine/leave"
	"github.com/farmasi/roster-engine/roster"
	"github.com/farmasi/roster-engine/schedule"
)

// Store implements all storage interfaces over SQLite.
type Store struct {
	queries
	db *sql.DB
}

// executor abstracts *sql.DB and *sql.Tx so every query runs unchanged
// inside or outside a transaction.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type queries struct {
	db executor
}

// New opens (or creates) the database at path. Use ":memory:" for an
// in-memory database.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Single connection: serializes writers and keeps ":memory:"
	// databases from vanishing between pool connections.
	db.SetMaxOpenConns(1)

	s := &Store{queries: queries{db: db}, db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS draft_overrides (
		date TEXT NOT NULL,
		staff_id TEXT NOT NULL,
		shift TEXT NOT NULL DEFAULT '',
		is_leave INTEGER NOT NULL DEFAULT 0,
		leave_type TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL,
		PRIMARY KEY (date, staff_id)
	);

	CREATE TABLE IF NOT EXISTS published_overrides (
		date TEXT NOT NULL,
		staff_id TEXT NOT NULL,
		shift TEXT NOT NULL DEFAULT '',
		is_leave INTEGER NOT NULL DEFAULT 0,
		leave_type TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL,
		PRIMARY KEY (date, staff_id)
	);

	CREATE TABLE IF NOT EXISTS draft_months (
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (year, month)
	);

	CREATE TABLE IF NOT EXISTS replacement_shifts (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		shift TEXT NOT NULL DEFAULT '',
		custom_start TEXT,
		custom_end TEXT,
		custom_hours TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_replacements_date ON replacement_shifts(date);

	CREATE TABLE IF NOT EXISTS maternity_periods (
		id TEXT PRIMARY KEY,
		staff_id TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_maternity_staff ON maternity_periods(staff_id);

	CREATE TABLE IF NOT EXISTS leave_balances (
		staff_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		al_entitlement INTEGER NOT NULL DEFAULT 0,
		al_used INTEGER NOT NULL DEFAULT 0,
		rl_earned INTEGER NOT NULL DEFAULT 0,
		rl_used INTEGER NOT NULL DEFAULT 0,
		ml_entitlement INTEGER NOT NULL DEFAULT 0,
		ml_used INTEGER NOT NULL DEFAULT 0,
		mat_used INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (staff_id, year)
	);

	-- Append-only. The partial unique index is the database-level
	-- backstop for "one approved entry per staff-day".
	CREATE TABLE IF NOT EXISTS leave_history (
		id TEXT PRIMARY KEY,
		staff_id TEXT NOT NULL,
		date TEXT NOT NULL,
		leave_type TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_history_approved_day
		ON leave_history(staff_id, date) WHERE status = 'approved';
	CREATE INDEX IF NOT EXISTS idx_history_staff ON leave_history(staff_id, date);

	CREATE TABLE IF NOT EXISTS staff (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		role TEXT NOT NULL,
		weekly_hours TEXT NOT NULL,
		off_days TEXT NOT NULL DEFAULT '[]',
		active_from TEXT,
		al_entitlement INTEGER NOT NULL DEFAULT 0,
		ml_entitlement INTEGER NOT NULL DEFAULT 0,
		is_active INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_holidays_date ON holidays(date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Reset deletes every row from every table. Used by the demo scenario
// loader; the leave history is wiped here too since the whole dataset
// is being replaced.
func (s *Store) Reset(ctx context.Context) error {
	tables := []string{
		"draft_overrides", "published_overrides", "draft_months",
		"replacement_shifts", "maternity_periods",
		"leave_balances", "leave_history", "staff", "holidays",
	}
	for _, t := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+t); err != nil {
			return fmt.Errorf("failed to reset %s: %w", t, err)
		}
	}
	return nil
}

// WithTx executes fn within a database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(schedule.Tables) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&queries{db: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

// =============================================================================
// OVERRIDES
// =============================================================================

func (q *queries) DraftOverrides(ctx context.Context, r roster.DateRange) ([]schedule.Override, error) {
	return q.overridesInRange(ctx, "draft_overrides", r)
}

func (q *queries) PublishedOverrides(ctx context.Context, r roster.DateRange) ([]schedule.Override, error) {
	return q.overridesInRange(ctx, "published_overrides", r)
}

func (q *queries) overridesInRange(ctx context.Context, table string, r roster.DateRange) ([]schedule.Override, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT date, staff_id, shift, is_leave, leave_type, updated_at FROM `+table+
			` WHERE date >= ? AND date <= ? ORDER BY date, staff_id`,
		r.Start.String(), r.End.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var out []schedule.Override
	for rows.Next() {
		var (
			o             schedule.Override
			date, updated string
			isLeave       int
		)
		if err := rows.Scan(&date, &o.StaffID, &o.Shift, &isLeave, &o.LeaveType, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan override: %w", err)
		}
		if o.Date, err = roster.ParseDate(date); err != nil {
			return nil, err
		}
		o.IsLeave = isLeave != 0
		o.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
		out = append(out, o)
	}
	return out, rows.Err()
}

func (q *queries) UpsertDraftOverride(ctx context.Context, o schedule.Override) error {
	return q.upsertOverride(ctx, "draft_overrides", o)
}

func (q *queries) UpsertPublishedOverride(ctx context.Context, o schedule.Override) error {
	return q.upsertOverride(ctx, "published_overrides", o)
}

func (q *queries) upsertOverride(ctx context.Context, table string, o schedule.Override) error {
	isLeave := 0
	if o.IsLeave {
		isLeave = 1
	}
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO `+table+` (date, staff_id, shift, is_leave, leave_type, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(date, staff_id) DO UPDATE SET
			shift = excluded.shift,
			is_leave = excluded.is_leave,
			leave_type = excluded.leave_type,
			updated_at = excluded.updated_at`,
		o.Date.String(), o.StaffID, string(o.Shift), isLeave, string(o.LeaveType),
		o.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

func (q *queries) DeleteDraftOverride(ctx context.Context, date roster.Date, staffID string) error {
	_, err := q.db.ExecContext(ctx,
		`DELETE FROM draft_overrides WHERE date = ? AND staff_id = ?`, date.String(), staffID)
	return err
}

func (q *queries) DeletePublishedOverride(ctx context.Context, date roster.Date, staffID string) error {
	_, err := q.db.ExecContext(ctx,
		`DELETE FROM published_overrides WHERE date = ? AND staff_id = ?`, date.String(), staffID)
	return err
}

func (q *queries) DeletePublishedOverrides(ctx context.Context, r roster.DateRange) error {
	_, err := q.db.ExecContext(ctx,
		`DELETE FROM published_overrides WHERE date >= ? AND date <= ?`,
		r.Start.String(), r.End.String())
	return err
}

// =============================================================================
// DRAFT MONTH MARKERS
// =============================================================================

func (q *queries) DraftMonth(ctx context.Context, year int, month time.Month) (*schedule.DraftMonth, error) {
	var (
		dm               schedule.DraftMonth
		m                int
		created, updated string
	)
	err := q.db.QueryRowContext(ctx,
		`SELECT year, month, created_at, updated_at FROM draft_months WHERE year = ? AND month = ?`,
		year, int(month),
	).Scan(&dm.Year, &m, &created, &updated)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	dm.Month = time.Month(m)
	dm.CreatedAt, _ = time.Parse(time.RFC3339, created)
	dm.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &dm, nil
}

func (q *queries) UpsertDraftMonth(ctx context.Context, year int, month time.Month) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO draft_months (year, month, created_at, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(year, month) DO UPDATE SET updated_at = excluded.updated_at`,
		year, int(month), now, now)
	return err
}

func (q *queries) DeleteDraftMonth(ctx context.Context, year int, month time.Month) error {
	_, err := q.db.ExecContext(ctx,
		`DELETE FROM draft_months WHERE year = ? AND month = ?`, year, int(month))
	return err
}

// =============================================================================
// REPLACEMENTS
// =============================================================================

func (q *queries) Replacements(ctx context.Context, r roster.DateRange) ([]schedule.ReplacementShift, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, date, name, shift, custom_start, custom_end, custom_hours
		 FROM replacement_shifts WHERE date >= ? AND date <= ? ORDER BY date, name`,
		r.Start.String(), r.End.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query replacements: %w", err)
	}
	defer rows.Close()

	var out []schedule.ReplacementShift
	for rows.Next() {
		var (
			rs                 schedule.ReplacementShift
			date               string
			cStart, cEnd, cHrs sql.NullString
		)
		if err := rows.Scan(&rs.ID, &date, &rs.Name, &rs.Shift, &cStart, &cEnd, &cHrs); err != nil {
			return nil, fmt.Errorf("failed to scan replacement: %w", err)
		}
		if rs.Date, err = roster.ParseDate(date); err != nil {
			return nil, err
		}
		if cStart.Valid && cEnd.Valid {
			hours := decimal.Zero
			if cHrs.Valid {
				hours, _ = decimal.NewFromString(cHrs.String)
			}
			rs.Custom = &roster.CustomShift{Start: cStart.String, End: cEnd.String, Hours: hours}
		}
		out = append(out, rs)
	}
	return out, rows.Err()
}

func (q *queries) UpsertReplacement(ctx context.Context, rs schedule.ReplacementShift) error {
	var cStart, cEnd, cHrs any
	if rs.Custom != nil {
		cStart, cEnd, cHrs = rs.Custom.Start, rs.Custom.End, rs.Custom.Hours.String()
	}
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO replacement_shifts (id, date, name, shift, custom_start, custom_end, custom_hours)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			name = excluded.name,
			shift = excluded.shift,
			custom_start = excluded.custom_start,
			custom_end = excluded.custom_end,
			custom_hours = excluded.custom_hours`,
		rs.ID, rs.Date.String(), rs.Name, string(rs.Shift), cStart, cEnd, cHrs)
	return err
}

func (q *queries) DeleteReplacement(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM replacement_shifts WHERE id = ?`, id)
	return err
}

// =============================================================================
// MATERNITY PERIODS
// =============================================================================

func (q *queries) MaternityPeriods(ctx context.Context, staffID string) ([]schedule.MaternityLeavePeriod, error) {
	query := `SELECT id, staff_id, start_date, end_date, status, created_at
		  FROM maternity_periods`
	var args []any
	if staffID != "" {
		query += ` WHERE staff_id = ?`
		args = append(args, staffID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query maternity periods: %w", err)
	}
	defer rows.Close()

	var out []schedule.MaternityLeavePeriod
	for rows.Next() {
		p, err := scanMaternity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanMaternity(rows *sql.Rows) (schedule.MaternityLeavePeriod, error) {
	var (
		p                   schedule.MaternityLeavePeriod
		start, end, created string
		err                 error
	)
	if err = rows.Scan(&p.ID, &p.StaffID, &start, &end, &p.Status, &created); err != nil {
		return p, fmt.Errorf("failed to scan maternity period: %w", err)
	}
	if p.StartDate, err = roster.ParseDate(start); err != nil {
		return p, err
	}
	if p.EndDate, err = roster.ParseDate(end); err != nil {
		return p, err
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return p, nil
}

func (q *queries) MaternityPeriodByID(ctx context.Context, id string) (*schedule.MaternityLeavePeriod, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, staff_id, start_date, end_date, status, created_at
		 FROM maternity_periods WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	p, err := scanMaternity(rows)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (q *queries) CreateMaternityPeriod(ctx context.Context, p schedule.MaternityLeavePeriod) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO maternity_periods (id, staff_id, start_date, end_date, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.StaffID, p.StartDate.String(), p.EndDate.String(), string(p.Status),
		p.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

func (q *queries) SetMaternityStatus(ctx context.Context, id string, status schedule.MaternityStatus) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE maternity_periods SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return schedule.ErrPeriodNotFound
	}
	return nil
}

// =============================================================================
// LEAVE BALANCES
// =============================================================================

func (q *queries) Balance(ctx context.Context, staffID string, year int) (*leave.Balance, error) {
	var b leave.Balance
	err := q.db.QueryRowContext(ctx,
		`SELECT staff_id, year, al_entitlement, al_used, rl_earned, rl_used,
			ml_entitlement, ml_used, mat_used
		 FROM leave_balances WHERE staff_id = ? AND year = ?`,
		staffID, year,
	).Scan(&b.StaffID, &b.Year, &b.ALEntitlement, &b.ALUsed, &b.RLEarned, &b.RLUsed,
		&b.MLEntitlement, &b.MLUsed, &b.MATUsed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (q *queries) SaveBalance(ctx context.Context, b leave.Balance) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO leave_balances (staff_id, year, al_entitlement, al_used, rl_earned,
			rl_used, ml_entitlement, ml_used, mat_used)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(staff_id, year) DO UPDATE SET
			al_entitlement = excluded.al_entitlement,
			al_used = excluded.al_used,
			rl_earned = excluded.rl_earned,
			rl_used = excluded.rl_used,
			ml_entitlement = excluded.ml_entitlement,
			ml_used = excluded.ml_used,
			mat_used = excluded.mat_used`,
		b.StaffID, b.Year, b.ALEntitlement, b.ALUsed, b.RLEarned, b.RLUsed,
		b.MLEntitlement, b.MLUsed, b.MATUsed)
	return err
}

// =============================================================================
// LEAVE HISTORY
// =============================================================================

func (q *queries) AppendHistory(ctx context.Context, e leave.Entry) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO leave_history (id, staff_id, date, leave_type, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.StaffID, e.Date.String(), string(e.Type), string(e.Status),
		e.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

func scanHistory(rows *sql.Rows) (leave.Entry, error) {
	var (
		e             leave.Entry
		date, created string
		err           error
	)
	if err = rows.Scan(&e.ID, &e.StaffID, &date, &e.Type, &e.Status, &created); err != nil {
		return e, fmt.Errorf("failed to scan history entry: %w", err)
	}
	if e.Date, err = roster.ParseDate(date); err != nil {
		return e, err
	}
	e.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return e, nil
}

func (q *queries) HistoryByID(ctx context.Context, id string) (*leave.Entry, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, staff_id, date, leave_type, status, created_at
		 FROM leave_history WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	e, err := scanHistory(rows)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (q *queries) SetHistoryStatus(ctx context.Context, id string, status leave.Status) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE leave_history SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return leave.ErrHistoryNotFound
	}
	return nil
}

func (q *queries) ApprovedEntry(ctx context.Context, staffID string, date roster.Date) (*leave.Entry, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, staff_id, date, leave_type, status, created_at
		 FROM leave_history WHERE staff_id = ? AND date = ? AND status = 'approved'`,
		staffID, date.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	e, err := scanHistory(rows)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (q *queries) History(ctx context.Context, staffID string, year int) ([]leave.Entry, error) {
	query := `SELECT id, staff_id, date, leave_type, status, created_at FROM leave_history`
	var (
		conds []string
		args  []any
	)
	if staffID != "" {
		conds = append(conds, `staff_id = ?`)
		args = append(args, staffID)
	}
	if year != 0 {
		conds = append(conds, `date >= ? AND date <= ?`)
		args = append(args, fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-12-31", year))
	}
	for i, c := range conds {
		if i == 0 {
			query += ` WHERE ` + c
		} else {
			query += ` AND ` + c
		}
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var out []leave.Entry
	for rows.Next() {
		e, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// =============================================================================
// STAFF
// =============================================================================

func (q *queries) ListStaff(ctx context.Context) ([]roster.StaffMember, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, name, role, weekly_hours, off_days, active_from,
			al_entitlement, ml_entitlement, is_active
		 FROM staff ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query staff: %w", err)
	}
	defer rows.Close()

	var out []roster.StaffMember
	for rows.Next() {
		m, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanStaff(rows *sql.Rows) (roster.StaffMember, error) {
	var (
		m          roster.StaffMember
		hours      string
		offDays    string
		activeFrom sql.NullString
		isActive   int
	)
	if err := rows.Scan(&m.ID, &m.Name, &m.Role, &hours, &offDays, &activeFrom,
		&m.ALEntitlement, &m.MLEntitlement, &isActive); err != nil {
		return m, fmt.Errorf("failed to scan staff: %w", err)
	}
	m.WeeklyHours, _ = decimal.NewFromString(hours)
	// Off-days are stored once, as a JSON array of weekday integers.
	var days []int
	if err := json.Unmarshal([]byte(offDays), &days); err == nil {
		for _, d := range days {
			m.OffDays = append(m.OffDays, time.Weekday(d))
		}
	}
	if activeFrom.Valid && activeFrom.String != "" {
		d, err := roster.ParseDate(activeFrom.String)
		if err != nil {
			return m, err
		}
		m.ActiveFrom = &d
	}
	m.IsActive = isActive != 0
	return m, nil
}

func (q *queries) GetStaff(ctx context.Context, id string) (*roster.StaffMember, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, name, role, weekly_hours, off_days, active_from,
			al_entitlement, ml_entitlement, is_active
		 FROM staff WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	m, err := scanStaff(rows)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (q *queries) SaveStaff(ctx context.Context, m roster.StaffMember) error {
	days := make([]int, 0, len(m.OffDays))
	for _, d := range m.OffDays {
		days = append(days, int(d))
	}
	offDays, err := json.Marshal(days)
	if err != nil {
		return err
	}
	var activeFrom any
	if m.ActiveFrom != nil {
		activeFrom = m.ActiveFrom.String()
	}
	isActive := 0
	if m.IsActive {
		isActive = 1
	}
	_, err = q.db.ExecContext(ctx,
		`INSERT INTO staff (id, name, role, weekly_hours, off_days, active_from,
			al_entitlement, ml_entitlement, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			role = excluded.role,
			weekly_hours = excluded.weekly_hours,
			off_days = excluded.off_days,
			active_from = excluded.active_from,
			al_entitlement = excluded.al_entitlement,
			ml_entitlement = excluded.ml_entitlement,
			is_active = excluded.is_active`,
		m.ID, m.Name, string(m.Role), m.WeeklyHours.String(), string(offDays), activeFrom,
		m.ALEntitlement, m.MLEntitlement, isActive)
	return err
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (q *queries) ListHolidays(ctx context.Context, year int) ([]roster.PublicHoliday, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, date, name FROM holidays WHERE date >= ? AND date <= ? ORDER BY date`,
		fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-12-31", year))
	if err != nil {
		return nil, fmt.Errorf("failed to query holidays: %w", err)
	}
	defer rows.Close()

	var out []roster.PublicHoliday
	for rows.Next() {
		var (
			h    roster.PublicHoliday
			date string
		)
		if err := rows.Scan(&h.ID, &date, &h.Name); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		if h.Date, err = roster.ParseDate(date); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (q *queries) SaveHoliday(ctx context.Context, h roster.PublicHoliday) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO holidays (id, date, name) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET date = excluded.date, name = excluded.name`,
		h.ID, h.Date.String(), h.Name)
	return err
}

func (q *queries) DeleteHoliday(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM holidays WHERE id = ?`, id)
	return err
}
