/*
resolve.go - Merging overrides into the generated base roster

PURPOSE:
  The resolution layer. For each generated day, an override at
  (date, staffID) fully replaces that staff member's entry - overrides
  are total, not partial patches. Absence of an override leaves the
  generated value untouched. Replacement shifts are attached additively.

VIEW MODES:
  public -> resolves only against published overrides
  admin  -> per month across the grid, resolves against drafts when that
            month carries a DraftMonth marker, else falls back to
            published. A month with no active draft therefore looks
            identical in both views, and spillover days only show drafts
            when their own month is being drafted.

SEE ALSO:
  - roster/generator.go: Produces the base being resolved
  - view.go: Chooses the override set per view mode
*/
package schedule

import (
	"github.com/farmasi/roster-engine/leave"
	"github.com/farmasi/roster-engine/roster"
)

// ViewMode selects which override tier a read resolves against.
type ViewMode string

const (
	ViewPublic ViewMode = "public"
	ViewAdmin  ViewMode = "admin"
)

// ResolvedEntry is the final per-staff value for a day.
type ResolvedEntry struct {
	Shift      *roster.ShiftDefinition
	IsLeave    bool
	LeaveType  leave.Type
	Overridden bool
}

// ResolvedDay is one day of the final schedule.
type ResolvedDay struct {
	Date         roster.Date
	ISOWeek      int
	InMonth      bool
	IsHoliday    bool
	HolidayName  string
	Entries      map[string]ResolvedEntry
	Replacements []ReplacementShift
}

type slotKey struct {
	Date    roster.Date
	StaffID string
}

// Resolve merges generated days with an override set and replacement
// shifts. Staff absent from a generated day (not yet activated) stay
// absent even if a stray override exists for the slot.
func Resolve(generated []roster.GeneratedDay, overrides []Override, replacements []ReplacementShift) []ResolvedDay {
	bySlot := make(map[slotKey]Override, len(overrides))
	for _, o := range overrides {
		bySlot[slotKey{Date: o.Date, StaffID: o.StaffID}] = o
	}
	repsByDate := make(map[roster.Date][]ReplacementShift)
	for _, r := range replacements {
		repsByDate[r.Date] = append(repsByDate[r.Date], r)
	}

	days := make([]ResolvedDay, 0, len(generated))
	for _, g := range generated {
		day := ResolvedDay{
			Date:         g.Date,
			ISOWeek:      g.ISOWeek,
			InMonth:      g.InMonth,
			IsHoliday:    g.IsHoliday,
			HolidayName:  g.HolidayName,
			Entries:      make(map[string]ResolvedEntry, len(g.Shifts)),
			Replacements: repsByDate[g.Date],
		}
		for staffID, a := range g.Shifts {
			if o, ok := bySlot[slotKey{Date: g.Date, StaffID: staffID}]; ok {
				day.Entries[staffID] = ResolvedEntry{
					Shift:      roster.LookupShift(o.Shift),
					IsLeave:    o.IsLeave,
					LeaveType:  o.LeaveType,
					Overridden: true,
				}
				continue
			}
			day.Entries[staffID] = ResolvedEntry{Shift: a.Shift}
		}
		days = append(days, day)
	}
	return days
}
