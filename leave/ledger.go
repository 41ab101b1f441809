/*
ledger.go - Idempotent leave posting, cancellation and reporting

PURPOSE:
  The only code that moves *Used counters. Posting checks the history
  log first, so a retried publish cannot double-count a day. The
  cancel path is the only decrement, and it rejects entries that are
  already cancelled rather than refunding twice.

IDEMPOTENCE:
  Post(staff, date, type) with an existing approved entry at
  (staff, date) is a no-op. This is what makes re-publishing a month
  safe: published overrides are recreated, balances are not.

REFUNDS:
  Cancel flips the entry to cancelled and, for AL/RL only, returns the
  day to the balance. ML and MAT days stay consumed once taken.

SEE ALSO:
  - types.go: Balance and Entry shapes
  - schedule/publish.go: Drives Post inside the publish transaction
*/
package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/farmasi/roster-engine/roster"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrHistoryNotFound is returned when a history entry ID is unknown.
	ErrHistoryNotFound = fmt.Errorf("leave history entry: %w", roster.ErrNotFound)

	// ErrAlreadyCancelled is returned on a second cancellation of the
	// same entry. Double refunds are rejected, not silently absorbed.
	ErrAlreadyCancelled = fmt.Errorf("leave already cancelled: %w", roster.ErrConflict)
)

// =============================================================================
// STORE CONTRACTS
// =============================================================================

// BalanceStore persists balance rows keyed by (staffID, year).
type BalanceStore interface {
	// Balance returns the row, or nil when none exists yet.
	Balance(ctx context.Context, staffID string, year int) (*Balance, error)

	// SaveBalance upserts the row.
	SaveBalance(ctx context.Context, b Balance) error
}

// HistoryStore persists the append-only history log. The only mutation
// is the status flip on cancellation; rows are never deleted.
type HistoryStore interface {
	AppendHistory(ctx context.Context, e Entry) error
	HistoryByID(ctx context.Context, id string) (*Entry, error)
	SetHistoryStatus(ctx context.Context, id string, status Status) error

	// ApprovedEntry returns the approved entry at (staffID, date), or
	// nil when the day has not been counted.
	ApprovedEntry(ctx context.Context, staffID string, date roster.Date) (*Entry, error)

	// History lists entries, newest first. Empty staffID matches all
	// staff; year 0 matches all years.
	History(ctx context.Context, staffID string, year int) ([]Entry, error)
}

// Store is the full ledger persistence surface.
type Store interface {
	BalanceStore
	HistoryStore
}

// =============================================================================
// POSTING
// =============================================================================

// Post records one approved leave day and increments the matching used
// counter for the leave date's calendar year. A day already counted is
// a no-op. EL records history only.
//
// Post must run inside the caller's transaction: publish either posts
// every leave day of a month or none of them.
func Post(ctx context.Context, st Store, staffID string, date roster.Date, t Type, ent Entitlements) error {
	existing, err := st.ApprovedEntry(ctx, staffID, date)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil // already counted
	}

	if err := st.AppendHistory(ctx, Entry{
		ID:        uuid.NewString(),
		StaffID:   staffID,
		Date:      date,
		Type:      t,
		Status:    StatusApproved,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return err
	}

	if !t.Counted() {
		return nil
	}

	// The counter year follows the leave date, not the view being
	// published: a spillover day posts to the adjacent year.
	b, err := st.Balance(ctx, staffID, date.Year)
	if err != nil {
		return err
	}
	if b == nil {
		nb := NewBalance(staffID, date.Year, ent)
		b = &nb
	}
	switch t {
	case AL:
		b.ALUsed++
	case RL:
		b.RLUsed++
	case ML:
		b.MLUsed++
	case MAT:
		b.MATUsed++
	}
	return st.SaveBalance(ctx, *b)
}

// =============================================================================
// CANCELLATION
// =============================================================================

// Cancel flips a history entry to cancelled and refunds AL/RL days.
// Returns the cancelled entry so callers can clean up the published
// override at its (staffID, date).
func Cancel(ctx context.Context, st Store, historyID string) (*Entry, error) {
	e, err := st.HistoryByID(ctx, historyID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrHistoryNotFound
	}
	if e.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	if err := st.SetHistoryStatus(ctx, historyID, StatusCancelled); err != nil {
		return nil, err
	}

	if e.Type.Refundable() {
		b, err := st.Balance(ctx, e.StaffID, e.Date.Year)
		if err != nil {
			return nil, err
		}
		if b != nil {
			switch e.Type {
			case AL:
				b.ALUsed--
			case RL:
				b.RLUsed--
			}
			if err := st.SaveBalance(ctx, *b); err != nil {
				return nil, err
			}
		}
	}

	e.Status = StatusCancelled
	return e, nil
}

// GrantRL credits replacement leave earned by covering a public
// holiday. This is the only writer of RLEarned.
func GrantRL(ctx context.Context, st BalanceStore, staffID string, year, days int, ent Entitlements) error {
	b, err := st.Balance(ctx, staffID, year)
	if err != nil {
		return err
	}
	if b == nil {
		nb := NewBalance(staffID, year, ent)
		b = &nb
	}
	b.RLEarned += days
	return st.SaveBalance(ctx, *b)
}

// =============================================================================
// REPORTING
// =============================================================================

// TypeSummary is one leave type's line in the yearly report.
// Remaining is always derived by subtraction, never stored.
type TypeSummary struct {
	Entitlement int
	Used        int
	Remaining   int
}

// StaffReport is the yearly balance report for one staff member.
type StaffReport struct {
	StaffID string
	Name    string
	AL      TypeSummary
	RL      TypeSummary
	ML      TypeSummary
	MAT     TypeSummary
}

// Report derives the yearly report for the given staff. Staff without a
// balance row report their full entitlement as remaining.
func Report(ctx context.Context, st BalanceStore, year int, staff []roster.StaffMember) ([]StaffReport, error) {
	reports := make([]StaffReport, 0, len(staff))
	for _, s := range staff {
		b, err := st.Balance(ctx, s.ID, year)
		if err != nil {
			return nil, err
		}
		if b == nil {
			nb := NewBalance(s.ID, year, Entitlements{AL: s.ALEntitlement, ML: s.MLEntitlement})
			b = &nb
		}
		reports = append(reports, StaffReport{
			StaffID: s.ID,
			Name:    s.Name,
			AL:      TypeSummary{Entitlement: b.ALEntitlement, Used: b.ALUsed, Remaining: b.ALEntitlement - b.ALUsed},
			RL:      TypeSummary{Entitlement: b.RLEarned, Used: b.RLUsed, Remaining: b.RLEarned - b.RLUsed},
			ML:      TypeSummary{Entitlement: b.MLEntitlement, Used: b.MLUsed, Remaining: b.MLEntitlement - b.MLUsed},
			MAT:     TypeSummary{Used: b.MATUsed},
		})
	}
	return reports, nil
}
