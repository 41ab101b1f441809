package roster

import (
	"context"
	"time"
)

// =============================================================================
// HOLIDAYS - Hard override regardless of pattern
// =============================================================================

// PublicHoliday blocks all shifts on its date. Holidays override
// everything, including staff-specific patterns.
type PublicHoliday struct {
	ID   string
	Date Date
	Name string
}

// HolidayProvider returns the public holidays for a year.
type HolidayProvider interface {
	Holidays(year int) []PublicHoliday
}

// HolidayIndex is a by-date lookup built from a provider's output for
// the span a generation run covers.
type HolidayIndex map[Date]PublicHoliday

// BuildHolidayIndex collects holidays for every year the range touches.
func BuildHolidayIndex(p HolidayProvider, r DateRange) HolidayIndex {
	idx := make(HolidayIndex)
	if p == nil {
		return idx
	}
	for year := r.Start.Year; year <= r.End.Year; year++ {
		for _, h := range p.Holidays(year) {
			idx[h.Date] = h
		}
	}
	return idx
}

// =============================================================================
// STATIC PROVIDER - Built-in table for the legacy deployment
// =============================================================================

// StaticHolidays serves the fixed national holidays the pharmacy has
// always observed. Store-backed holidays (added through the API) are
// merged on top by the caller.
type StaticHolidays struct{}

func (StaticHolidays) Holidays(year int) []PublicHoliday {
	return []PublicHoliday{
		{ID: "new-year", Date: NewDate(year, time.January, 1), Name: "New Year's Day"},
		{ID: "labour-day", Date: NewDate(year, time.May, 1), Name: "Labour Day"},
		{ID: "national-day", Date: NewDate(year, time.August, 31), Name: "National Day"},
		{ID: "malaysia-day", Date: NewDate(year, time.September, 16), Name: "Malaysia Day"},
		{ID: "christmas", Date: NewDate(year, time.December, 25), Name: "Christmas Day"},
	}
}

// =============================================================================
// STORE-BACKED PROVIDER
// =============================================================================

// HolidayStore persists holidays added through the API.
type HolidayStore interface {
	ListHolidays(ctx context.Context, year int) ([]PublicHoliday, error)
	SaveHoliday(ctx context.Context, h PublicHoliday) error
	DeleteHoliday(ctx context.Context, id string) error
}

// StoreHolidays adapts a HolidayStore to the provider contract used by
// the generator. Lookup failures degrade to "no extra holidays".
type StoreHolidays struct {
	Store HolidayStore
}

func (s StoreHolidays) Holidays(year int) []PublicHoliday {
	hs, err := s.Store.ListHolidays(context.Background(), year)
	if err != nil {
		return nil
	}
	return hs
}

// MergedHolidays layers additional providers over a base; later
// providers win on date collisions.
type MergedHolidays []HolidayProvider

func (m MergedHolidays) Holidays(year int) []PublicHoliday {
	byDate := make(map[Date]PublicHoliday)
	var order []Date
	for _, p := range m {
		for _, h := range p.Holidays(year) {
			if _, seen := byDate[h.Date]; !seen {
				order = append(order, h.Date)
			}
			byDate[h.Date] = h
		}
	}
	out := make([]PublicHoliday, 0, len(order))
	for _, d := range order {
		out = append(out, byDate[d])
	}
	return out
}
