package roster

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Day-granular calendar date (this IS a day-scheduling system)
// =============================================================================

// Date is a calendar day with no time-of-day component. It is a plain
// comparable value, safe to use as a map key for (Date, StaffID) lookups.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	// Normalize through time.Time so Feb 30 etc. roll over predictably.
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// ParseDate parses "2006-01-02".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("malformed date %q: %w", s, ErrValidation)
	}
	return DateOf(t), nil
}

func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Comparison
func (d Date) Before(other Date) bool { return d.Time().Before(other.Time()) }
func (d Date) After(other Date) bool  { return d.Time().After(other.Time()) }
func (d Date) Equal(other Date) bool  { return d == other }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic
func (d Date) AddDays(n int) Date   { return DateOf(d.Time().AddDate(0, 0, n)) }
func (d Date) AddMonths(n int) Date { return DateOf(d.Time().AddDate(0, n, 0)) }

// Properties
func (d Date) Weekday() time.Weekday { return d.Time().Weekday() }
func (d Date) IsZero() bool          { return d == Date{} }

// ISOWeek returns the ISO 8601 week number of the date.
func (d Date) ISOWeek() int {
	_, week := d.Time().ISOWeek()
	return week
}

// InMonth reports whether the date falls inside the given calendar month.
func (d Date) InMonth(year int, month time.Month) bool {
	return d.Year == year && d.Month == month
}

func (d Date) String() string {
	return d.Time().Format("2006-01-02")
}

// =============================================================================
// DATE RANGE - Inclusive span of days
// =============================================================================

type DateRange struct {
	Start Date
	End   Date
}

// Contains returns true if the date is within [Start, End].
func (r DateRange) Contains(d Date) bool {
	return d.AfterOrEqual(r.Start) && d.BeforeOrEqual(r.End)
}

// Days returns all days in the range, in order.
func (r DateRange) Days() []Date {
	var days []Date
	for d := r.Start; d.BeforeOrEqual(r.End); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// Overlaps reports whether two inclusive ranges share at least one day.
// Covers all three cases: starts inside, ends inside, fully contains.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.Start.BeforeOrEqual(other.End) && r.End.AfterOrEqual(other.Start)
}

func (r DateRange) String() string {
	return "[" + r.Start.String() + ", " + r.End.String() + "]"
}

// =============================================================================
// MONTH HELPERS
// =============================================================================

// MonthRange returns the first and last day of a calendar month.
func MonthRange(year int, month time.Month) DateRange {
	first := NewDate(year, month, 1)
	last := first.AddMonths(1).AddDays(-1)
	return DateRange{Start: first, End: last}
}

// GridRange returns the Monday-start display grid covering the month:
// from the Monday on or before the 1st through the Sunday on or after
// the last day. Days outside the month are spillover days.
func GridRange(year int, month time.Month) DateRange {
	m := MonthRange(year, month)

	start := m.Start
	for start.Weekday() != time.Monday {
		start = start.AddDays(-1)
	}
	end := m.End
	for end.Weekday() != time.Sunday {
		end = end.AddDays(1)
	}
	return DateRange{Start: start, End: end}
}

// PatternIndex selects which of the two biweekly templates applies to a
// date: odd ISO weeks use the first template (0), even weeks the second
// (1). This is the only rotation rule; there is no seasonal logic.
func PatternIndex(d Date) int {
	if d.ISOWeek()%2 == 1 {
		return 0
	}
	return 1
}
