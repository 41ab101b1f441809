/*
Package schedule layers mutable drafts and published overrides on top of
the generated base roster and drives the reconciliation protocol.

PURPOSE:
  Everything between the pure generator and the leave ledger lives here:
  the override store contracts, draft/publish/discard, leave
  cancellation, the maternity batch generator, and month-view assembly.

KEY CONCEPTS IN THIS FILE (types.go):
  - Override: a per-day-per-staff record that fully supersedes the
    generated shift. Exists in two parallel tables: draft (admin-only)
    and published (visible to everyone).
  - DraftMonth: marker whose mere existence means "this month has an
    in-progress draft distinct from what's published"
  - ReplacementShift: a temporary covering worker attached to a date,
    additive to the roster and outside the draft/publish cycle
  - MaternityLeavePeriod: a 98-day span batch-drafted as MAT days

THE THREE-TIER RESOLUTION:
  generated -> published -> draft. Public views stop at published;
  admin views read drafts when (and only when) a DraftMonth exists.

SEE ALSO:
  - store.go: Persistence contracts and the transaction boundary
  - draft.go, publish.go, maternity.go: The reconciliation protocol
  - resolve.go: Merging overrides into generated days
*/
package schedule

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/farmasi/roster-engine/leave"
	"github.com/farmasi/roster-engine/roster"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNoDraft is returned when publish or discard is requested for a
	// month with no DraftMonth marker. Callers can distinguish "nothing
	// to do" from "it worked".
	ErrNoDraft = fmt.Errorf("no draft for month: %w", roster.ErrNotFound)

	// ErrStaffNotFound is returned for operations naming an unknown staff ID.
	ErrStaffNotFound = fmt.Errorf("staff: %w", roster.ErrNotFound)

	// ErrPeriodNotFound is returned for an unknown maternity period ID.
	ErrPeriodNotFound = fmt.Errorf("maternity period: %w", roster.ErrNotFound)
)

// OverlapError reports a maternity period conflicting with an existing
// active period for the same staff member.
type OverlapError struct {
	StaffID  string
	Existing roster.DateRange
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("maternity period overlaps existing active period %s for %s", e.Existing, e.StaffID)
}

func (e *OverlapError) Unwrap() error { return roster.ErrConflict }

// =============================================================================
// OVERRIDE
// =============================================================================

// Override is keyed uniquely by (Date, StaffID) within its table.
//
// INVARIANT: IsLeave=true implies Shift=="" and a set LeaveType.
// IsLeave=false with Shift=="" is an explicit "Off" - distinct from no
// override at all, which falls through to the generated base.
type Override struct {
	Date      roster.Date
	StaffID   string
	Shift     roster.ShiftKey
	IsLeave   bool
	LeaveType leave.Type
	UpdatedAt time.Time
}

// Validate enforces the override shape invariant.
func (o Override) Validate() error {
	if o.StaffID == "" {
		return fmt.Errorf("override missing staff ID: %w", roster.ErrValidation)
	}
	if o.Date.IsZero() {
		return fmt.Errorf("override missing date: %w", roster.ErrValidation)
	}
	if o.IsLeave {
		if o.Shift != "" {
			return fmt.Errorf("leave override cannot carry a shift: %w", roster.ErrValidation)
		}
		if !o.LeaveType.Valid() {
			return fmt.Errorf("leave override has unknown leave type %q: %w", o.LeaveType, roster.ErrValidation)
		}
		return nil
	}
	if o.LeaveType != "" {
		return fmt.Errorf("non-leave override cannot carry a leave type: %w", roster.ErrValidation)
	}
	if !roster.ValidShiftKey(o.Shift) {
		return fmt.Errorf("unknown shift key %q: %w", o.Shift, roster.ErrValidation)
	}
	return nil
}

// =============================================================================
// DRAFT MONTH MARKER
// =============================================================================

// DraftMonth marks a (year, month) as having unpublished draft edits.
// Created on first draft write, deleted on publish or discard.
type DraftMonth struct {
	Year      int
	Month     time.Month
	CreatedAt time.Time
	UpdatedAt time.Time
}

// =============================================================================
// REPLACEMENT SHIFT
// =============================================================================

// ReplacementShift is a covering worker on a date, independent of any
// staff override. Replacements are additive: creating one does not
// remove the covered staff member's entry - the editor sets that staff
// member to Off separately.
type ReplacementShift struct {
	ID     string
	Date   roster.Date
	Name   string
	Shift  roster.ShiftKey     // empty when Custom is set
	Custom *roster.CustomShift // explicit times for ad-hoc cover
}

// Hours returns the replacement's work hours from either source.
func (r ReplacementShift) Hours() decimal.Decimal {
	if r.Custom != nil {
		return r.Custom.Hours
	}
	if def := roster.LookupShift(r.Shift); def != nil {
		return def.Hours
	}
	return decimal.Zero
}

// =============================================================================
// MATERNITY
// =============================================================================

type MaternityStatus string

const (
	MaternityActive    MaternityStatus = "active"
	MaternityCancelled MaternityStatus = "cancelled"
)

// MaternityDays is the inclusive span length of a maternity period.
const MaternityDays = 98

// MaternityLeavePeriod is a 98-day maternity span. Overlap is checked
// against other active periods for the same staff before creation.
type MaternityLeavePeriod struct {
	ID        string
	StaffID   string
	StartDate roster.Date
	EndDate   roster.Date
	Status    MaternityStatus
	CreatedAt time.Time
}

// Range returns the period's inclusive date span.
func (p MaternityLeavePeriod) Range() roster.DateRange {
	return roster.DateRange{Start: p.StartDate, End: p.EndDate}
}

// =============================================================================
// INCOMING CHANGES
// =============================================================================

// Change is one incoming (date, staffID) draft edit.
type Change struct {
	Date      roster.Date
	StaffID   string
	Shift     roster.ShiftKey
	IsLeave   bool
	LeaveType leave.Type
}

func (c Change) override(now time.Time) Override {
	return Override{
		Date:      c.Date,
		StaffID:   c.StaffID,
		Shift:     c.Shift,
		IsLeave:   c.IsLeave,
		LeaveType: c.LeaveType,
		UpdatedAt: now,
	}
}

// ReplacementChange is an incoming replacement-shift edit. Replacements
// bypass the draft table and take effect immediately.
type ReplacementChange struct {
	Date   roster.Date
	Name   string
	Shift  roster.ShiftKey
	Custom *roster.CustomShift
	Delete bool // true removes the replacement with matching ID
	ID     string
}
