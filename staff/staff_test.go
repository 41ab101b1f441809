package staff_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmasi/roster-engine/roster"
	"github.com/farmasi/roster-engine/schedule/store"
	"github.com/farmasi/roster-engine/staff"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestManager(t *testing.T) (*staff.Manager, *staff.Directory, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	dir := staff.NewDirectory(staff.LegacyRoster(), mem)
	return staff.NewManager(dir), dir, mem
}

func newMember(id string) roster.StaffMember {
	return roster.StaffMember{
		ID: id, Name: "Nurul Izzah", Role: roster.RoleAssistant,
		WeeklyHours:   decimal.RequireFromString("40"),
		OffDays:       []time.Weekday{time.Sunday},
		ALEntitlement: 12, MLEntitlement: 14,
	}
}

// =============================================================================
// DIRECTORY MERGE
// =============================================================================

func TestDirectory_All_StaticPlusStored(t *testing.T) {
	mgr, dir, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, mgr.Create(ctx, newMember("nurul")))

	all, err := dir.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5, "four legacy members plus the new hire")
	assert.Equal(t, "siti", all[0].ID, "static order first")
	assert.Equal(t, "nurul", all[4].ID)
}

func TestDirectory_StoredEditWinsOverStatic(t *testing.T) {
	// GIVEN: A legacy member edited through the manager
	// WHEN: Resolving the directory
	// THEN: The edited record shadows the static one

	mgr, dir, _ := newTestManager(t)
	ctx := context.Background()

	siti, err := mgr.Get(ctx, "siti")
	require.NoError(t, err)
	edited := *siti
	edited.ALEntitlement = 18
	require.NoError(t, mgr.Update(ctx, edited))

	got, err := dir.StaffByID(ctx, "siti")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 18, got.ALEntitlement)

	all, err := dir.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4, "editing a legacy member does not add a row to the merge")
}

// =============================================================================
// MANAGER CRUD
// =============================================================================

func TestManager_Create_DuplicateAgainstLegacy_Rejected(t *testing.T) {
	mgr, _, _ := newTestManager(t)

	err := mgr.Create(context.Background(), newMember("siti"))
	assert.ErrorIs(t, err, staff.ErrDuplicateID)
	assert.True(t, roster.IsConflict(err))
}

func TestManager_Create_Validation(t *testing.T) {
	mgr, _, _ := newTestManager(t)
	ctx := context.Background()

	missing := newMember("")
	assert.True(t, roster.IsValidation(mgr.Create(ctx, missing)))

	badRole := newMember("nurul")
	badRole.Role = "cashier"
	assert.True(t, roster.IsValidation(mgr.Create(ctx, badRole)))
}

func TestManager_Get_Unknown_NotFound(t *testing.T) {
	mgr, _, _ := newTestManager(t)

	_, err := mgr.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, staff.ErrNotFound)
}

func TestManager_Deactivate_SoftDelete(t *testing.T) {
	// GIVEN: A deactivated legacy member
	// WHEN: Listing active staff vs resolving by ID
	// THEN: She is gone from the active list but still resolvable

	mgr, dir, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, mgr.Deactivate(ctx, "aisyah"))

	active, err := dir.ActiveStaff(ctx)
	require.NoError(t, err)
	require.Len(t, active, 3)
	for _, m := range active {
		assert.NotEqual(t, "aisyah", m.ID)
	}

	got, err := dir.StaffByID(ctx, "aisyah")
	require.NoError(t, err)
	require.NotNil(t, got, "history resolution still needs the record")
	assert.False(t, got.IsActive)
}

func TestManager_Update_Unknown_NotFound(t *testing.T) {
	mgr, _, _ := newTestManager(t)

	err := mgr.Update(context.Background(), newMember("nobody"))
	assert.ErrorIs(t, err, staff.ErrNotFound)
}
