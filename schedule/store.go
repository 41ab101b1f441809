/*
store.go - Persistence contracts for overrides, markers and periods

PURPOSE:
  Defines the interface between the reconciliation protocol and the
  database. Implementations: store/sqlite (production) and
  schedule/store (in-memory, tests/dev).

TRANSACTION BOUNDARY:
  Every mutating protocol operation (saveDraft, publish, discard,
  maternity batch) runs inside WithTx. If the callback returns an
  error, nothing it wrote survives. There is no in-process locking
  beyond this: the store's transaction isolation is the only
  concurrency guard, under single-writer-per-month assumptions.

COMPOSITE KEYS:
  Draft/Published overrides: (date, staffID)
  DraftMonth markers:        (year, month)
  Leave balances:            (staffID, year)  - see leave.Store
  Replacements/periods:      opaque IDs

SEE ALSO:
  - schedule/store/memory.go: In-memory implementation
  - store/sqlite/sqlite.go: SQLite implementation
*/
package schedule

import (
	"context"
	"time"

	"github.com/farmasi/roster-engine/leave"
	"github.com/farmasi/roster-engine/roster"
)

// =============================================================================
// TABLE CONTRACTS
// =============================================================================

// OverrideStore persists the two parallel override tables.
type OverrideStore interface {
	// DraftOverrides returns draft entries with dates in the range.
	DraftOverrides(ctx context.Context, r roster.DateRange) ([]Override, error)
	UpsertDraftOverride(ctx context.Context, o Override) error
	DeleteDraftOverride(ctx context.Context, date roster.Date, staffID string) error

	// PublishedOverrides returns published entries in the range.
	PublishedOverrides(ctx context.Context, r roster.DateRange) ([]Override, error)
	UpsertPublishedOverride(ctx context.Context, o Override) error
	DeletePublishedOverride(ctx context.Context, date roster.Date, staffID string) error
	DeletePublishedOverrides(ctx context.Context, r roster.DateRange) error
}

// DraftMonthStore persists the draft-month marker set.
type DraftMonthStore interface {
	// DraftMonth returns the marker, or nil when the month has no draft.
	DraftMonth(ctx context.Context, year int, month time.Month) (*DraftMonth, error)

	// UpsertDraftMonth creates the marker or bumps its UpdatedAt.
	UpsertDraftMonth(ctx context.Context, year int, month time.Month) error

	DeleteDraftMonth(ctx context.Context, year int, month time.Month) error
}

// ReplacementStore persists replacement shifts.
type ReplacementStore interface {
	Replacements(ctx context.Context, r roster.DateRange) ([]ReplacementShift, error)
	UpsertReplacement(ctx context.Context, rs ReplacementShift) error
	DeleteReplacement(ctx context.Context, id string) error
}

// MaternityStore persists maternity leave periods.
type MaternityStore interface {
	// MaternityPeriods lists periods, newest first. Empty staffID
	// matches all staff.
	MaternityPeriods(ctx context.Context, staffID string) ([]MaternityLeavePeriod, error)
	MaternityPeriodByID(ctx context.Context, id string) (*MaternityLeavePeriod, error)
	CreateMaternityPeriod(ctx context.Context, p MaternityLeavePeriod) error
	SetMaternityStatus(ctx context.Context, id string, status MaternityStatus) error
}

// =============================================================================
// AGGREGATE STORE
// =============================================================================

// Tables bundles every table the reconciliation protocol touches,
// including the leave ledger: publish writes overrides, history and
// balances in one transaction.
type Tables interface {
	OverrideStore
	DraftMonthStore
	ReplacementStore
	MaternityStore
	leave.Store
}

// Store is Tables plus the transaction boundary.
type Store interface {
	Tables

	// WithTx executes fn atomically. If fn returns an error the
	// transaction is rolled back and none of its writes survive.
	WithTx(ctx context.Context, fn func(Tables) error) error
}
