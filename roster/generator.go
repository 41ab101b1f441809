/*
generator.go - Deterministic base roster generation

PURPOSE:
  Pure function from (month, year, staff roster) to the generated
  display grid. No clock reads, no persistence: two calls with the
  same inputs produce identical output.

ALGORITHM:
  1. Compute the Monday-start display grid covering the month,
     including spillover days from adjacent months.
  2. Per day, select the biweekly template by ISO week parity.
  3. Per staff member active on the date:
       holiday          -> nil shift, unconditionally
       explicit pattern -> pattern entry for (template, weekday)
       otherwise        -> role default, masked by staff off-days
     Staff not yet active on the date are absent from the day's shift
     map entirely - that absence is the signal downstream layers use,
     distinct from an explicit "Off".

SEE ALSO:
  - pattern.go: Pattern lookup order
  - resolve.go: Layering overrides on top of this output
*/
package roster

import "time"

// Generate produces the base roster grid for a month. Staff order does
// not affect output; the per-day shift maps are keyed by staff ID.
func Generate(year int, month time.Month, staff []StaffMember, patterns PatternLibrary, holidays HolidayProvider) []GeneratedDay {
	grid := GridRange(year, month)
	index := BuildHolidayIndex(holidays, grid)

	var days []GeneratedDay
	for _, d := range grid.Days() {
		day := GeneratedDay{
			Date:    d,
			ISOWeek: d.ISOWeek(),
			InMonth: d.InMonth(year, month),
			Shifts:  make(map[string]Assignment),
		}
		if h, ok := index[d]; ok {
			day.IsHoliday = true
			day.HolidayName = h.Name
		}

		for _, s := range staff {
			if !s.ActiveOn(d) {
				continue
			}
			day.Shifts[s.ID] = Assignment{Shift: assignShift(s, d, day.IsHoliday, patterns)}
		}
		days = append(days, day)
	}
	return days
}

func assignShift(s StaffMember, d Date, holiday bool, patterns PatternLibrary) *ShiftDefinition {
	if holiday {
		return nil
	}
	if p, ok := patterns.StaffPattern(s.ID); ok {
		return LookupShift(p.Shift(d))
	}
	// Newly added staff without an explicit pattern fall back to the
	// role default, respecting their own rest days.
	if s.HasOffDay(d.Weekday()) {
		return nil
	}
	return LookupShift(patterns.RolePattern(s.Role).Shift(d))
}
