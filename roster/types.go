/*
Package roster provides the core scheduling engine for the pharmacy.

PURPOSE:
  This package contains the pure, persistence-free parts of the system:
  staff and shift value types, the static biweekly pattern library, the
  holiday calendar contract, the deterministic schedule generator, and
  the override resolution layer.

KEY CONCEPTS IN THIS FILE (types.go):
  - StaffMember: a pharmacist or assistant with activation date, target
    weekly hours, default off-days and yearly leave entitlements
  - ShiftDefinition: immutable value type (label, start, end, hours),
    looked up by a stable ShiftKey from a closed pattern table
  - CustomShift: ad-hoc shift with explicit times instead of a key

DESIGN PRINCIPLES:
  1. Determinism: generation depends only on caller-supplied inputs
  2. Precision: decimal.Decimal for work hours, no float drift
  3. Derived state: generated days are computed fresh, never persisted

SEE ALSO:
  - pattern.go: Shift table and biweekly pattern library
  - generator.go: Month grid generation
  - resolve.go: Override resolution
*/
package roster

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// STAFF
// =============================================================================

type Role string

const (
	RolePharmacist Role = "pharmacist"
	RoleAssistant  Role = "assistant_pharmacist"
)

// StaffMember is a scheduling subject. Records are soft-deactivated, never
// hard-deleted once they have generated history.
type StaffMember struct {
	ID          string
	Name        string
	Role        Role
	WeeklyHours decimal.Decimal

	// OffDays are default weekly rest days as weekday indices 0-6
	// (0 = Sunday). Stored as a native set of integers; the historical
	// double-JSON-encoding of this field was a data-hygiene bug and is
	// not carried forward.
	OffDays []time.Weekday

	// ActiveFrom is the activation date. Nil means always active. Staff
	// do not appear in generated days before their activation date,
	// which is distinct from an explicit "Off".
	ActiveFrom *Date

	ALEntitlement int // annual leave days per year
	MLEntitlement int // medical leave days per year

	IsActive bool
}

// ActiveOn reports whether the staff member appears on the roster for a
// given date.
func (s StaffMember) ActiveOn(d Date) bool {
	if s.ActiveFrom == nil {
		return true
	}
	return s.ActiveFrom.BeforeOrEqual(d)
}

// HasOffDay reports whether the weekday is one of the staff member's
// default rest days.
func (s StaffMember) HasOffDay(wd time.Weekday) bool {
	for _, od := range s.OffDays {
		if od == wd {
			return true
		}
	}
	return false
}

// =============================================================================
// SHIFTS
// =============================================================================

// ShiftKey identifies a ShiftDefinition in the closed pattern table.
type ShiftKey string

// ShiftDefinition is an immutable shift value: label, clock times and
// computed work hours.
type ShiftDefinition struct {
	Key   ShiftKey
	Label string
	Start string // "15:04"
	End   string // "15:04"
	Hours decimal.Decimal
}

// CustomShift is an ad-hoc shift carrying explicit times instead of a
// pattern-table key. Used by replacement workers covering a day.
type CustomShift struct {
	Start string
	End   string
	Hours decimal.Decimal
}

// =============================================================================
// GENERATED OUTPUT
// =============================================================================

// Assignment is the generated shift for one staff member on one day.
// Shift is nil on holidays and pattern off-days.
type Assignment struct {
	Shift *ShiftDefinition
}

// GeneratedDay is derived, never persisted: one day of the display grid
// with per-active-staff assignments. Staff inactive on the date are
// absent from Shifts entirely.
type GeneratedDay struct {
	Date        Date
	ISOWeek     int
	InMonth     bool // false for spillover days from adjacent months
	IsHoliday   bool
	HolidayName string
	Shifts      map[string]Assignment // staff ID -> assignment
}
