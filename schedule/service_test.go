package schedule_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/farmasi/roster-engine/leave"
	"github.com/farmasi/roster-engine/roster"
	"github.com/farmasi/roster-engine/schedule"
	"github.com/farmasi/roster-engine/schedule/store"
	"github.com/farmasi/roster-engine/staff"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestService(t *testing.T) (*schedule.Service, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	dir := staff.NewDirectory(staff.LegacyRoster(), mem)
	svc := schedule.NewService(mem, dir, roster.StaticPatterns{}, roster.StaticHolidays{}, zerolog.Nop())
	return svc, mem
}

func alChange(staffID string, d roster.Date) schedule.Change {
	return schedule.Change{Date: d, StaffID: staffID, IsLeave: true, LeaveType: leave.AL}
}

func shiftChange(staffID string, d roster.Date, key roster.ShiftKey) schedule.Change {
	return schedule.Change{Date: d, StaffID: staffID, Shift: key}
}

func draftsIn(t *testing.T, mem *store.Memory, year int, month time.Month) []schedule.Override {
	t.Helper()
	out, err := mem.DraftOverrides(context.Background(), roster.MonthRange(year, month))
	require.NoError(t, err)
	return out
}

func publishedIn(t *testing.T, mem *store.Memory, year int, month time.Month) []schedule.Override {
	t.Helper()
	out, err := mem.PublishedOverrides(context.Background(), roster.MonthRange(year, month))
	require.NoError(t, err)
	return out
}

func hasMarker(t *testing.T, mem *store.Memory, year int, month time.Month) bool {
	t.Helper()
	dm, err := mem.DraftMonth(context.Background(), year, month)
	require.NoError(t, err)
	return dm != nil
}

func historyFor(t *testing.T, mem *store.Memory, staffID string, year int) []leave.Entry {
	t.Helper()
	entries, err := mem.History(context.Background(), staffID, year)
	require.NoError(t, err)
	return entries
}
