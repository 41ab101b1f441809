/*
Package leave provides the per-staff, per-year leave balance ledger.

PURPOSE:
  Tracks entitlement/used counters for each leave type and the
  append-only LeaveHistory log. The history log is the single source of
  truth for "was this leave-day already counted", which is what makes
  ledger increments idempotent across publish retries.

KEY CONCEPTS IN THIS FILE (types.go):
  - Type: the closed set of leave types (AL, RL, EL, ML, MAT)
  - Balance: counters for one (staffID, year)
  - Entry: one history row; status flips to cancelled on refund but the
    row is never deleted, preserving the audit trail

CRITICAL INVARIANTS:
  1. Used counters only move through the ledger operations in ledger.go
  2. One approved entry per (staffID, date) - checked before increments
  3. History is append-only; cancellation is a status flip, not a delete
  4. Remaining = entitlement - used; may go negative (flagged, not blocked)

SEE ALSO:
  - ledger.go: Posting, cancellation and reporting
  - schedule/publish.go: The only caller of ledger increments
*/
package leave

import (
	"time"

	"github.com/farmasi/roster-engine/roster"
)

// =============================================================================
// LEAVE TYPES
// =============================================================================

type Type string

const (
	AL  Type = "AL"  // annual leave
	RL  Type = "RL"  // replacement leave (earned covering holidays)
	EL  Type = "EL"  // emergency leave - history only, no balance counter
	ML  Type = "ML"  // medical leave
	MAT Type = "MAT" // maternity leave
)

// Valid reports whether t is a known leave type.
func (t Type) Valid() bool {
	switch t {
	case AL, RL, EL, ML, MAT:
		return true
	}
	return false
}

// Counted reports whether the type posts to a balance counter on
// publish. EL records history only.
func (t Type) Counted() bool {
	return t == AL || t == RL || t == ML || t == MAT
}

// Refundable reports whether cancellation returns days to the balance.
// Only AL and RL are refunded; ML and MAT stay consumed.
func (t Type) Refundable() bool {
	return t == AL || t == RL
}

// =============================================================================
// BALANCE - Counters for one (staffID, year)
// =============================================================================

type Balance struct {
	StaffID string
	Year    int

	ALEntitlement int
	ALUsed        int
	RLEarned      int
	RLUsed        int
	MLEntitlement int
	MLUsed        int
	MATUsed       int
}

// Entitlements seeds a fresh balance row from a staff record.
type Entitlements struct {
	AL int
	ML int
}

// NewBalance creates the balance row for a staff-year with the given
// entitlements and zero usage.
func NewBalance(staffID string, year int, ent Entitlements) Balance {
	return Balance{
		StaffID:       staffID,
		Year:          year,
		ALEntitlement: ent.AL,
		MLEntitlement: ent.ML,
	}
}

// =============================================================================
// HISTORY - Append-only ledger entries
// =============================================================================

type Status string

const (
	StatusApproved  Status = "approved"
	StatusCancelled Status = "cancelled"
)

// Entry is one leave-day in the history log.
type Entry struct {
	ID        string
	StaffID   string
	Date      roster.Date
	Type      Type
	Status    Status
	CreatedAt time.Time
}
