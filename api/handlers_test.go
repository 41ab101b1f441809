package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmasi/roster-engine/api"
	"github.com/farmasi/roster-engine/roster"
	"github.com/farmasi/roster-engine/schedule"
	"github.com/farmasi/roster-engine/schedule/store"
	"github.com/farmasi/roster-engine/staff"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mem := store.NewMemory()
	dir := staff.NewDirectory(staff.LegacyRoster(), mem)
	svc := schedule.NewService(mem, dir, roster.StaticPatterns{}, roster.StaticHolidays{}, zerolog.Nop())
	scenarios := api.NewScenarioRunner(svc, mem)
	handler := api.NewHandler(svc, staff.NewManager(dir), mem, scenarios, zerolog.Nop())

	srv := httptest.NewServer(api.NewRouter(handler, []string{"*"}))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

// =============================================================================
// SCHEDULE ROUTES
// =============================================================================

func TestGetSchedule_ReturnsFullGrid(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/schedule?year=2025&month=3", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view api.MonthViewDTO
	decodeInto(t, resp, &view)
	assert.Equal(t, 2025, view.Year)
	assert.Equal(t, 3, view.Month)
	assert.Equal(t, "public", view.View)
	assert.False(t, view.HasDraft)
	assert.Len(t, view.Days, 42)
	assert.Contains(t, view.ScheduledHours, "siti")
}

func TestDraftPublishCancel_EndToEnd(t *testing.T) {
	// GIVEN: A draft saving one AL day for Siti
	// WHEN: Publishing, then cancelling the resulting history entry
	// THEN: Each step responds with the right status and the balance
	//       ends where it started

	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/schedule/2025/3/draft", api.SaveDraftRequest{
		Changes: []api.ChangeRequest{
			{Date: "2025-03-12", StaffID: "siti", IsLeave: true, LeaveType: "AL"},
		},
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/schedule/2025/3/publish", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	var balances []api.BalanceReportDTO
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/leave/balances?year=2025", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeInto(t, resp, &balances)
	require.NotEmpty(t, balances)
	var siti *api.BalanceReportDTO
	for i := range balances {
		if balances[i].StaffID == "siti" {
			siti = &balances[i]
		}
	}
	require.NotNil(t, siti)
	assert.Equal(t, 1, siti.AL.Used)
	assert.Equal(t, 13, siti.AL.Remaining)

	var history []api.HistoryDTO
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/leave/history?staff_id=siti&year=2025", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeInto(t, resp, &history)
	require.Len(t, history, 1)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/leave/history/"+history[0].ID+"/cancel", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Second cancel is a conflict.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/leave/history/"+history[0].ID+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestPublish_WithoutDraft_404(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/schedule/2025/3/publish", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSaveDraft_MalformedDate_400(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/schedule/2025/3/draft", api.SaveDraftRequest{
		Changes: []api.ChangeRequest{
			{Date: "12/03/2025", StaffID: "siti", Shift: "full"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetSchedule_AdminSeesDraft(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/schedule/2025/3/draft", api.SaveDraftRequest{
		Changes: []api.ChangeRequest{
			{Date: "2025-03-12", StaffID: "siti", IsLeave: true, LeaveType: "AL"},
		},
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	var admin api.MonthViewDTO
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/schedule?year=2025&month=3&view=admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeInto(t, resp, &admin)
	assert.True(t, admin.HasDraft)

	var public api.MonthViewDTO
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/schedule?year=2025&month=3", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeInto(t, resp, &public)

	for _, day := range admin.Days {
		if day.Date != "2025-03-12" {
			continue
		}
		assert.True(t, day.Entries["siti"].IsLeave)
	}
	for _, day := range public.Days {
		if day.Date != "2025-03-12" {
			continue
		}
		assert.False(t, day.Entries["siti"].IsLeave)
	}
}

// =============================================================================
// STAFF ROUTES
// =============================================================================

func TestStaffCRUD(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/staff", api.SaveStaffRequest{
		ID: "nurul", Name: "Nurul Izzah", Role: "assistant_pharmacist",
		WeeklyHours: "40", OffDays: []int{0}, ALEntitlement: 12, MLEntitlement: 14,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Duplicate against a legacy ID.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/staff", api.SaveStaffRequest{
		ID: "siti", Name: "Someone Else", Role: "pharmacist", WeeklyHours: "45",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var members []api.StaffDTO
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/staff", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeInto(t, resp, &members)
	assert.Len(t, members, 5)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/staff/nurul", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	var member api.StaffDTO
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/staff/nurul", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeInto(t, resp, &member)
	assert.False(t, member.IsActive)
}

// =============================================================================
// MATERNITY ROUTES
// =============================================================================

func TestMaternityRoutes(t *testing.T) {
	srv := newTestServer(t)

	var period api.MaternityDTO
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/leave/maternity", api.CreateMaternityRequest{
		StaffID: "fatimah", StartDate: "2025-01-15",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decodeInto(t, resp, &period)
	assert.Equal(t, "2025-04-22", period.EndDate)

	// Overlapping span is a conflict.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/leave/maternity", api.CreateMaternityRequest{
		StaffID: "fatimah", StartDate: "2025-03-01",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/leave/maternity/"+period.ID+"/cancel", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

// =============================================================================
// SCENARIO ROUTES
// =============================================================================

func TestScenarios_LoadAndReset(t *testing.T) {
	srv := newTestServer(t)

	var list []api.ScenarioDTO
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/scenarios", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeInto(t, resp, &list)
	assert.NotEmpty(t, list)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/scenarios/load", api.LoadScenarioRequest{ScenarioID: "march-leave"})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	var history []api.HistoryDTO
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/leave/history?staff_id=siti&year=2025", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeInto(t, resp, &history)
	assert.Len(t, history, 1, "the scenario published one AL day")

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/scenarios/reset", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/leave/history?staff_id=siti&year=2025", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var after []api.HistoryDTO
	decodeInto(t, resp, &after)
	assert.Empty(t, after)
}

func TestScenarios_UnknownID_404(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/scenarios/load", api.LoadScenarioRequest{ScenarioID: "nope"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
