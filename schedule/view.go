/*
view.go - Month view assembly

PURPOSE:
  The read side: generate the base roster for the display grid, pick
  the override tier for the requested view mode, resolve, and attach
  the hasDraft flag plus per-staff scheduled hours.

  Reads are not transactional; a view may observe a publish mid-flight.
  That staleness window is accepted - the write side guarantees the
  stored state itself is never partial.
*/
package schedule

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/farmasi/roster-engine/roster"
)

// MonthView is the resolved schedule for one month's display grid.
type MonthView struct {
	Year     int
	Month    time.Month
	Mode     ViewMode
	HasDraft bool
	Days     []ResolvedDay

	// ScheduledHours tallies each staff member's resolved work hours
	// over the days belonging to the month (spillover days excluded).
	ScheduledHours map[string]decimal.Decimal
}

// View resolves a month for the requested view mode. Admin views read
// drafts only for dates whose own month carries a DraftMonth marker;
// without any marker both modes resolve identically.
func (s *Service) View(ctx context.Context, year int, month time.Month, mode ViewMode) (*MonthView, error) {
	staff, err := s.staff.ActiveStaff(ctx)
	if err != nil {
		return nil, err
	}

	marker, err := s.store.DraftMonth(ctx, year, month)
	if err != nil {
		return nil, err
	}
	hasDraft := marker != nil

	grid := roster.GridRange(year, month)
	var overrides []Override
	if mode == ViewAdmin {
		overrides, err = s.tieredOverrides(ctx, grid)
	} else {
		overrides, err = s.store.PublishedOverrides(ctx, grid)
	}
	if err != nil {
		return nil, err
	}

	replacements, err := s.store.Replacements(ctx, grid)
	if err != nil {
		return nil, err
	}

	generated := roster.Generate(year, month, staff, s.patterns, s.holidays)
	days := Resolve(generated, overrides, replacements)

	hours := make(map[string]decimal.Decimal, len(staff))
	for _, m := range staff {
		hours[m.ID] = decimal.Zero
	}
	for _, day := range days {
		if !day.InMonth {
			continue
		}
		for staffID, e := range day.Entries {
			if e.Shift != nil {
				hours[staffID] = hours[staffID].Add(e.Shift.Hours)
			}
		}
	}

	return &MonthView{
		Year:           year,
		Month:          month,
		Mode:           mode,
		HasDraft:       hasDraft,
		Days:           days,
		ScheduledHours: hours,
	}, nil
}

// tieredOverrides picks the admin tier month by month across the grid:
// drafts for months with a DraftMonth marker, published otherwise.
// Spillover days of a non-drafted adjacent month keep showing that
// month's published schedule.
func (s *Service) tieredOverrides(ctx context.Context, grid roster.DateRange) ([]Override, error) {
	var out []Override
	for first := roster.NewDate(grid.Start.Year, grid.Start.Month, 1); !first.After(grid.End); first = first.AddMonths(1) {
		marker, err := s.store.DraftMonth(ctx, first.Year, first.Month)
		if err != nil {
			return nil, err
		}
		monthRange := roster.MonthRange(first.Year, first.Month)
		var part []Override
		if marker != nil {
			part, err = s.store.DraftOverrides(ctx, monthRange)
		} else {
			part, err = s.store.PublishedOverrides(ctx, monthRange)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, part...)
	}
	return out, nil
}
