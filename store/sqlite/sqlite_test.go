package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmasi/roster-engine/leave"
	"github.com/farmasi/roster-engine/roster"
	"github.com/farmasi/roster-engine/schedule"
	"github.com/farmasi/roster-engine/staff"
	"github.com/farmasi/roster-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

// =============================================================================
// OVERRIDES
// =============================================================================

func TestOverrides_RoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	o := schedule.Override{
		Date:      roster.NewDate(2025, time.March, 12),
		StaffID:   "siti",
		IsLeave:   true,
		LeaveType: leave.AL,
		UpdatedAt: now,
	}
	require.NoError(t, st.UpsertDraftOverride(ctx, o))

	got, err := st.DraftOverrides(ctx, roster.MonthRange(2025, time.March))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, o.Date, got[0].Date)
	assert.Equal(t, "siti", got[0].StaffID)
	assert.True(t, got[0].IsLeave)
	assert.Equal(t, leave.AL, got[0].LeaveType)
	assert.True(t, got[0].UpdatedAt.Equal(now))

	// Upsert on the same (date, staff) replaces, not duplicates.
	o.IsLeave = false
	o.LeaveType = ""
	o.Shift = roster.ShiftMorning
	require.NoError(t, st.UpsertDraftOverride(ctx, o))

	got, err = st.DraftOverrides(ctx, roster.MonthRange(2025, time.March))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, roster.ShiftMorning, got[0].Shift)

	// Draft and published tables are independent.
	pub, err := st.PublishedOverrides(ctx, roster.MonthRange(2025, time.March))
	require.NoError(t, err)
	assert.Empty(t, pub)
}

func TestOverrides_RangeQueryExcludesOtherMonths(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, d := range []roster.Date{
		roster.NewDate(2025, time.February, 28),
		roster.NewDate(2025, time.March, 1),
		roster.NewDate(2025, time.April, 1),
	} {
		require.NoError(t, st.UpsertDraftOverride(ctx, schedule.Override{
			Date: d, StaffID: "siti", Shift: roster.ShiftHalf, UpdatedAt: now,
		}))
	}

	got, err := st.DraftOverrides(ctx, roster.MonthRange(2025, time.March))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, roster.NewDate(2025, time.March, 1), got[0].Date)
}

// =============================================================================
// DRAFT MONTH MARKERS
// =============================================================================

func TestDraftMonth_Lifecycle(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	dm, err := st.DraftMonth(ctx, 2025, time.March)
	require.NoError(t, err)
	assert.Nil(t, dm)

	require.NoError(t, st.UpsertDraftMonth(ctx, 2025, time.March))
	dm, err = st.DraftMonth(ctx, 2025, time.March)
	require.NoError(t, err)
	require.NotNil(t, dm)
	assert.Equal(t, 2025, dm.Year)
	assert.Equal(t, time.March, dm.Month)

	// Second upsert bumps UpdatedAt, no duplicate-key error.
	require.NoError(t, st.UpsertDraftMonth(ctx, 2025, time.March))

	require.NoError(t, st.DeleteDraftMonth(ctx, 2025, time.March))
	dm, err = st.DraftMonth(ctx, 2025, time.March)
	require.NoError(t, err)
	assert.Nil(t, dm)
}

// =============================================================================
// HISTORY
// =============================================================================

func TestHistory_ApprovedDayUniqueIndex(t *testing.T) {
	// The partial unique index is the database-level backstop against
	// double-counting: two approved rows on one staff-day cannot exist.

	st := newTestStore(t)
	ctx := context.Background()
	day := roster.NewDate(2025, time.March, 12)

	require.NoError(t, st.AppendHistory(ctx, leave.Entry{
		ID: "h1", StaffID: "siti", Date: day, Type: leave.AL,
		Status: leave.StatusApproved, CreatedAt: time.Now().UTC(),
	}))
	err := st.AppendHistory(ctx, leave.Entry{
		ID: "h2", StaffID: "siti", Date: day, Type: leave.EL,
		Status: leave.StatusApproved, CreatedAt: time.Now().UTC(),
	})
	assert.Error(t, err)

	// A cancelled row on the same day is fine.
	require.NoError(t, st.SetHistoryStatus(ctx, "h1", leave.StatusCancelled))
	require.NoError(t, st.AppendHistory(ctx, leave.Entry{
		ID: "h3", StaffID: "siti", Date: day, Type: leave.AL,
		Status: leave.StatusApproved, CreatedAt: time.Now().UTC(),
	}))

	approved, err := st.ApprovedEntry(ctx, "siti", day)
	require.NoError(t, err)
	require.NotNil(t, approved)
	assert.Equal(t, "h3", approved.ID)
}

func TestHistory_FilterByStaffAndYear(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	entries := []leave.Entry{
		{ID: "a", StaffID: "siti", Date: roster.NewDate(2025, time.March, 12), Type: leave.AL, Status: leave.StatusApproved},
		{ID: "b", StaffID: "siti", Date: roster.NewDate(2026, time.January, 5), Type: leave.AL, Status: leave.StatusApproved},
		{ID: "c", StaffID: "farid", Date: roster.NewDate(2025, time.June, 2), Type: leave.EL, Status: leave.StatusApproved},
	}
	for _, e := range entries {
		e.CreatedAt = time.Now().UTC()
		require.NoError(t, st.AppendHistory(ctx, e))
	}

	got, err := st.History(ctx, "siti", 2025)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)

	all, err := st.History(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func TestWithTx_RollbackOnError(t *testing.T) {
	// GIVEN: A transaction writing an override, a balance and a marker
	// WHEN: The callback fails after the writes
	// THEN: None of them survive

	st := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := st.WithTx(ctx, func(tx schedule.Tables) error {
		if err := tx.UpsertDraftOverride(ctx, schedule.Override{
			Date: roster.NewDate(2025, time.March, 12), StaffID: "siti",
			Shift: roster.ShiftFull, UpdatedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		if err := tx.SaveBalance(ctx, leave.Balance{StaffID: "siti", Year: 2025, ALUsed: 1}); err != nil {
			return err
		}
		if err := tx.UpsertDraftMonth(ctx, 2025, time.March); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	drafts, err := st.DraftOverrides(ctx, roster.MonthRange(2025, time.March))
	require.NoError(t, err)
	assert.Empty(t, drafts)

	b, err := st.Balance(ctx, "siti", 2025)
	require.NoError(t, err)
	assert.Nil(t, b)

	dm, err := st.DraftMonth(ctx, 2025, time.March)
	require.NoError(t, err)
	assert.Nil(t, dm)
}

func TestWithTx_CommitPersists(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.WithTx(ctx, func(tx schedule.Tables) error {
		return tx.SaveBalance(ctx, leave.Balance{StaffID: "siti", Year: 2025, ALEntitlement: 14, ALUsed: 2})
	}))

	b, err := st.Balance(ctx, "siti", 2025)
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, 2, b.ALUsed)
}

// =============================================================================
// STAFF AND REPLACEMENTS
// =============================================================================

func TestStaff_RoundTripWithOffDaysAndActivation(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	activeFrom := roster.NewDate(2025, time.March, 15)
	m := roster.StaffMember{
		ID: "nurul", Name: "Nurul Izzah", Role: roster.RoleAssistant,
		WeeklyHours:   decimal.RequireFromString("40"),
		OffDays:       []time.Weekday{time.Sunday, time.Wednesday},
		ActiveFrom:    &activeFrom,
		ALEntitlement: 12, MLEntitlement: 14, IsActive: true,
	}
	require.NoError(t, st.SaveStaff(ctx, m))

	got, err := st.GetStaff(ctx, "nurul")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, m.Name, got.Name)
	assert.True(t, m.WeeklyHours.Equal(got.WeeklyHours))
	assert.Equal(t, m.OffDays, got.OffDays)
	require.NotNil(t, got.ActiveFrom)
	assert.Equal(t, activeFrom, *got.ActiveFrom)

	missing, err := st.GetStaff(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestReplacements_CustomShiftRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	rs := schedule.ReplacementShift{
		ID:   "r1",
		Date: roster.NewDate(2025, time.March, 15),
		Name: "Locum Tan",
		Custom: &roster.CustomShift{
			Start: "10:00", End: "16:30", Hours: decimal.RequireFromString("6.5"),
		},
	}
	require.NoError(t, st.UpsertReplacement(ctx, rs))

	got, err := st.Replacements(ctx, roster.MonthRange(2025, time.March))
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Custom)
	assert.Equal(t, "10:00", got[0].Custom.Start)
	assert.True(t, got[0].Custom.Hours.Equal(decimal.RequireFromString("6.5")))
	assert.True(t, got[0].Hours().Equal(decimal.RequireFromString("6.5")))
}

// =============================================================================
// FULL SERVICE WIRING
// =============================================================================

// The service tests run against the in-memory store; this one repeats
// the leave publish cycle over sqlite with the production wiring. The
// store pins a single connection, so the cycle also proves no code path
// opens a second read while a transaction holds it.
func TestServiceOverSqlite_PublishLeaveDay(t *testing.T) {
	st := newTestStore(t)
	dir := staff.NewDirectory(staff.LegacyRoster(), st)
	svc := schedule.NewService(st, dir, roster.StaticPatterns{}, roster.StaticHolidays{}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	alDay := roster.NewDate(2025, time.March, 12)

	require.NoError(t, svc.SaveDraft(ctx, 2025, time.March, []schedule.Change{
		{Date: alDay, StaffID: "siti", IsLeave: true, LeaveType: leave.AL},
	}))
	require.NoError(t, svc.Publish(ctx, 2025, time.March))

	b, err := st.Balance(ctx, "siti", 2025)
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, 14, b.ALEntitlement)
	assert.Equal(t, 1, b.ALUsed)

	published, err := st.PublishedOverrides(ctx, roster.MonthRange(2025, time.March))
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, alDay, published[0].Date)

	entries, err := st.History(ctx, "siti", 2025)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NoError(t, svc.CancelLeave(ctx, entries[0].ID))

	b, err = st.Balance(ctx, "siti", 2025)
	require.NoError(t, err)
	assert.Equal(t, 0, b.ALUsed)
}
