package schedule_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmasi/roster-engine/leave"
	"github.com/farmasi/roster-engine/roster"
	"github.com/farmasi/roster-engine/schedule"
)

// =============================================================================
// SAVE DRAFT
// =============================================================================

func TestSaveDraft_CreatesMarkerAndOverrides(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	changes := []schedule.Change{
		alChange("siti", roster.NewDate(2025, time.March, 12)),
		shiftChange("farid", roster.NewDate(2025, time.March, 14), roster.ShiftMorning),
	}
	require.NoError(t, svc.SaveDraft(ctx, 2025, time.March, changes))

	assert.True(t, hasMarker(t, mem, 2025, time.March))
	assert.Len(t, draftsIn(t, mem, 2025, time.March), 2)
	assert.Empty(t, publishedIn(t, mem, 2025, time.March), "drafts never touch the published tier")
}

func TestSaveDraft_ReplacesPreviousDraft(t *testing.T) {
	// GIVEN: A saved draft with two edits
	// WHEN: Saving again with one different edit
	// THEN: Only the second save's edit remains

	svc, mem := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.SaveDraft(ctx, 2025, time.March, []schedule.Change{
		alChange("siti", roster.NewDate(2025, time.March, 12)),
		shiftChange("farid", roster.NewDate(2025, time.March, 14), roster.ShiftMorning),
	}))
	require.NoError(t, svc.SaveDraft(ctx, 2025, time.March, []schedule.Change{
		shiftChange("aisyah", roster.NewDate(2025, time.March, 20), roster.ShiftEvening),
	}))

	drafts := draftsIn(t, mem, 2025, time.March)
	require.Len(t, drafts, 1)
	assert.Equal(t, "aisyah", drafts[0].StaffID)
}

func TestSaveDraft_DateOutsideMonth_Rejected(t *testing.T) {
	svc, mem := newTestService(t)

	err := svc.SaveDraft(context.Background(), 2025, time.March, []schedule.Change{
		alChange("siti", roster.NewDate(2025, time.April, 1)),
	})
	require.Error(t, err)
	assert.True(t, roster.IsValidation(err))
	assert.False(t, hasMarker(t, mem, 2025, time.March), "rejected saves leave no marker")
}

func TestSaveDraft_InvalidShape_Rejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// A leave entry carrying a shift violates the override shape.
	err := svc.SaveDraft(ctx, 2025, time.March, []schedule.Change{{
		Date:      roster.NewDate(2025, time.March, 12),
		StaffID:   "siti",
		Shift:     roster.ShiftFull,
		IsLeave:   true,
		LeaveType: leave.AL,
	}})
	assert.True(t, roster.IsValidation(err))

	err = svc.SaveDraft(ctx, 2025, time.March, []schedule.Change{
		shiftChange("siti", roster.NewDate(2025, time.March, 12), "graveyard"),
	})
	assert.True(t, roster.IsValidation(err))
}

func TestSaveDraft_ExplicitOff_IsAValidOverride(t *testing.T) {
	// Empty shift with IsLeave=false means "explicitly off", distinct
	// from having no override at all.

	svc, mem := newTestService(t)

	require.NoError(t, svc.SaveDraft(context.Background(), 2025, time.March, []schedule.Change{
		shiftChange("siti", roster.NewDate(2025, time.March, 12), ""),
	}))

	drafts := draftsIn(t, mem, 2025, time.March)
	require.Len(t, drafts, 1)
	assert.Empty(t, drafts[0].Shift)
	assert.False(t, drafts[0].IsLeave)
}

// =============================================================================
// MAT PROTECTION
// =============================================================================

func TestSaveDraft_CannotClobberMaternityDays(t *testing.T) {
	// GIVEN: A drafted maternity span covering March
	// WHEN: A bulk grid save writes a shift onto one of those days
	// THEN: The MAT entry survives and the shift write is dropped

	svc, mem := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateMaternityLeave(ctx, "fatimah", roster.NewDate(2025, time.March, 1))
	require.NoError(t, err)

	require.NoError(t, svc.SaveDraft(ctx, 2025, time.March, []schedule.Change{
		shiftChange("fatimah", roster.NewDate(2025, time.March, 10), roster.ShiftFull),
		shiftChange("siti", roster.NewDate(2025, time.March, 10), roster.ShiftMorning),
	}))

	drafts := draftsIn(t, mem, 2025, time.March)
	byStaff := make(map[string]schedule.Override)
	for _, d := range drafts {
		if d.Date == roster.NewDate(2025, time.March, 10) {
			byStaff[d.StaffID] = d
		}
	}
	require.Contains(t, byStaff, "fatimah")
	assert.Equal(t, leave.MAT, byStaff["fatimah"].LeaveType, "MAT slot must survive the bulk save")
	require.Contains(t, byStaff, "siti")
	assert.Equal(t, roster.ShiftMorning, byStaff["siti"].Shift)

	// The whole span is still intact, not just the contested day.
	assert.Len(t, drafts, 31+1, "31 March MAT days plus siti's edit")
}

// =============================================================================
// SAVE GRID - Spillover partitioning
// =============================================================================

func TestSaveGrid_SpilloverEditsGoToTheirOwnMonth(t *testing.T) {
	// GIVEN: A March grid edit touching a February spillover day
	// WHEN: Saving the grid against March
	// THEN: February gets its own draft and marker; the edit is not
	//       silently attached to March

	svc, mem := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.SaveGrid(ctx, 2025, time.March, []schedule.Change{
		shiftChange("siti", roster.NewDate(2025, time.February, 26), roster.ShiftFull),
		alChange("siti", roster.NewDate(2025, time.March, 12)),
	}, nil))

	assert.True(t, hasMarker(t, mem, 2025, time.March))
	assert.True(t, hasMarker(t, mem, 2025, time.February))

	feb := draftsIn(t, mem, 2025, time.February)
	require.Len(t, feb, 1)
	assert.Equal(t, roster.NewDate(2025, time.February, 26), feb[0].Date)
	assert.Len(t, draftsIn(t, mem, 2025, time.March), 1)
}

func TestSaveGrid_UntouchedAdjacentMonth_GainsNoMarker(t *testing.T) {
	svc, mem := newTestService(t)

	require.NoError(t, svc.SaveGrid(context.Background(), 2025, time.March, []schedule.Change{
		alChange("siti", roster.NewDate(2025, time.March, 12)),
	}, nil))

	assert.False(t, hasMarker(t, mem, 2025, time.February))
	assert.False(t, hasMarker(t, mem, 2025, time.April))
}

func TestSaveGrid_EmptyChangeSet_StillDraftsTargetMonth(t *testing.T) {
	// An editor clearing every slot produces an empty draft, which is a
	// real state: publishing it wipes the month's published overrides.

	svc, mem := newTestService(t)

	require.NoError(t, svc.SaveGrid(context.Background(), 2025, time.March, nil, nil))

	assert.True(t, hasMarker(t, mem, 2025, time.March))
	assert.Empty(t, draftsIn(t, mem, 2025, time.March))
}

// =============================================================================
// REPLACEMENTS
// =============================================================================

func TestSaveGrid_ReplacementsApplyImmediately(t *testing.T) {
	// Replacements bypass the draft cycle: no marker, visible at once.

	svc, mem := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.SaveGrid(ctx, 2025, time.March, nil, []schedule.ReplacementChange{
		{Date: roster.NewDate(2025, time.March, 15), Name: "Locum Tan", Shift: roster.ShiftEvening},
	}))

	// SaveGrid always drafts the target month, but the replacement
	// itself lives outside the draft tables.
	reps, err := mem.Replacements(ctx, roster.MonthRange(2025, time.March))
	require.NoError(t, err)
	require.Len(t, reps, 1)
	assert.Equal(t, "Locum Tan", reps[0].Name)
	assert.NotEmpty(t, reps[0].ID, "new replacements are assigned IDs")
	assert.Empty(t, draftsIn(t, mem, 2025, time.March))
}

func TestSaveGrid_ReplacementDelete(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.SaveGrid(ctx, 2025, time.March, nil, []schedule.ReplacementChange{
		{Date: roster.NewDate(2025, time.March, 15), Name: "Locum Tan", Shift: roster.ShiftEvening},
	}))
	reps, err := mem.Replacements(ctx, roster.MonthRange(2025, time.March))
	require.NoError(t, err)
	require.Len(t, reps, 1)

	require.NoError(t, svc.SaveGrid(ctx, 2025, time.March, nil, []schedule.ReplacementChange{
		{ID: reps[0].ID, Delete: true},
	}))
	reps, err = mem.Replacements(ctx, roster.MonthRange(2025, time.March))
	require.NoError(t, err)
	assert.Empty(t, reps)
}

func TestSaveGrid_ReplacementWithoutName_Rejected(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.SaveGrid(context.Background(), 2025, time.March, nil, []schedule.ReplacementChange{
		{Date: roster.NewDate(2025, time.March, 15), Shift: roster.ShiftEvening},
	})
	assert.True(t, roster.IsValidation(err))
}
