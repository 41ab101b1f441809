/*
handlers.go - HTTP request handlers

PURPOSE:
  Translates HTTP requests into service calls and domain results back
  into JSON. Handlers own request parsing and error mapping only; all
  business rules live in the schedule, leave, and staff packages.

ERROR MAPPING:
  - roster.ErrValidation -> 400 Bad Request
  - roster.ErrNotFound   -> 404 Not Found
  - roster.ErrConflict   -> 409 Conflict
  - everything else      -> 500 Internal Server Error

SEE ALSO:
  - dto.go: Request/response shapes
  - server.go: Route registration
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/farmasi/roster-engine/leave"
	"github.com/farmasi/roster-engine/roster"
	"github.com/farmasi/roster-engine/schedule"
	"github.com/farmasi/roster-engine/staff"
)

// Handler carries the dependencies shared by every route.
type Handler struct {
	service   *schedule.Service
	staff     *staff.Manager
	holidays  roster.HolidayStore
	scenarios *ScenarioRunner
	log       zerolog.Logger
}

func NewHandler(service *schedule.Service, mgr *staff.Manager, holidays roster.HolidayStore, scenarios *ScenarioRunner, log zerolog.Logger) *Handler {
	return &Handler{
		service:   service,
		staff:     mgr,
		holidays:  holidays,
		scenarios: scenarios,
		log:       log,
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case roster.IsValidation(err):
		status = http.StatusBadRequest
	case roster.IsNotFound(err):
		status = http.StatusNotFound
	case roster.IsConflict(err):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Msg("request failed")
		writeJSON(w, status, ErrorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func (h *Handler) writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msg})
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// yearMonthParams reads {year}/{month} path segments.
func yearMonthParams(r *http.Request) (int, time.Month, error) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 2000 || year > 2200 {
		return 0, 0, errors.New("invalid year")
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, errors.New("invalid month")
	}
	return year, time.Month(month), nil
}

// =============================================================================
// SCHEDULE
// =============================================================================

// GetSchedule handles GET /api/schedule?year=&month=&view=
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	now := time.Now()
	year := now.Year()
	month := now.Month()
	if s := q.Get("year"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			h.writeBadRequest(w, "invalid year")
			return
		}
		year = v
	}
	if s := q.Get("month"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > 12 {
			h.writeBadRequest(w, "invalid month")
			return
		}
		month = time.Month(v)
	}
	mode := schedule.ViewPublic
	if q.Get("view") == "admin" {
		mode = schedule.ViewAdmin
	}

	view, err := h.service.View(r.Context(), year, month, mode)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMonthViewDTO(view))
}

// SaveDraft handles PUT /api/schedule/{year}/{month}/draft
func (h *Handler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonthParams(r)
	if err != nil {
		h.writeBadRequest(w, err.Error())
		return
	}
	var req SaveDraftRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	changes := make([]schedule.Change, 0, len(req.Changes))
	for _, c := range req.Changes {
		d, err := roster.ParseDate(c.Date)
		if err != nil {
			h.writeError(w, err)
			return
		}
		changes = append(changes, schedule.Change{
			Date:      d,
			StaffID:   c.StaffID,
			Shift:     roster.ShiftKey(c.Shift),
			IsLeave:   c.IsLeave,
			LeaveType: leave.Type(c.LeaveType),
		})
	}

	repls := make([]schedule.ReplacementChange, 0, len(req.Replacements))
	for _, rc := range req.Replacements {
		change := schedule.ReplacementChange{ID: rc.ID, Name: rc.Name, Shift: roster.ShiftKey(rc.Shift), Delete: rc.Delete}
		if !rc.Delete {
			d, err := roster.ParseDate(rc.Date)
			if err != nil {
				h.writeError(w, err)
				return
			}
			change.Date = d
			if rc.Custom != nil {
				hours, err := decimal.NewFromString(rc.Custom.Hours)
				if err != nil {
					h.writeBadRequest(w, "invalid custom shift hours")
					return
				}
				change.Custom = &roster.CustomShift{Start: rc.Custom.Start, End: rc.Custom.End, Hours: hours}
			}
		}
		repls = append(repls, change)
	}

	if err := h.service.SaveGrid(r.Context(), year, month, changes, repls); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Publish handles POST /api/schedule/{year}/{month}/publish
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonthParams(r)
	if err != nil {
		h.writeBadRequest(w, err.Error())
		return
	}
	if err := h.service.Publish(r.Context(), year, month); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DiscardDraft handles DELETE /api/schedule/{year}/{month}/draft
func (h *Handler) DiscardDraft(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonthParams(r)
	if err != nil {
		h.writeBadRequest(w, err.Error())
		return
	}
	if err := h.service.Discard(r.Context(), year, month); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// STAFF
// =============================================================================

// ListStaff handles GET /api/staff
func (h *Handler) ListStaff(w http.ResponseWriter, r *http.Request) {
	members, err := h.staff.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]StaffDTO, 0, len(members))
	for _, m := range members {
		out = append(out, toStaffDTO(m))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetStaff handles GET /api/staff/{id}
func (h *Handler) GetStaff(w http.ResponseWriter, r *http.Request) {
	m, err := h.staff.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStaffDTO(*m))
}

func staffFromRequest(req SaveStaffRequest) (roster.StaffMember, error) {
	hours, err := decimal.NewFromString(req.WeeklyHours)
	if err != nil {
		return roster.StaffMember{}, fmt.Errorf("invalid weekly_hours: %w", roster.ErrValidation)
	}
	m := roster.StaffMember{
		ID:            req.ID,
		Name:          req.Name,
		Role:          roster.Role(req.Role),
		WeeklyHours:   hours,
		ALEntitlement: req.ALEntitlement,
		MLEntitlement: req.MLEntitlement,
		IsActive:      true,
	}
	for _, d := range req.OffDays {
		if d < 0 || d > 6 {
			return roster.StaffMember{}, fmt.Errorf("off_days values must be 0..6: %w", roster.ErrValidation)
		}
		m.OffDays = append(m.OffDays, time.Weekday(d))
	}
	if req.ActiveFrom != "" {
		d, err := roster.ParseDate(req.ActiveFrom)
		if err != nil {
			return roster.StaffMember{}, err
		}
		m.ActiveFrom = &d
	}
	return m, nil
}

// CreateStaff handles POST /api/staff
func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req SaveStaffRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	m, err := staffFromRequest(req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.staff.Create(r.Context(), m); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toStaffDTO(m))
}

// UpdateStaff handles PUT /api/staff/{id}
func (h *Handler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	var req SaveStaffRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	req.ID = chi.URLParam(r, "id")
	m, err := staffFromRequest(req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.staff.Update(r.Context(), m); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStaffDTO(m))
}

// DeactivateStaff handles DELETE /api/staff/{id}
func (h *Handler) DeactivateStaff(w http.ResponseWriter, r *http.Request) {
	if err := h.staff.Deactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// LEAVE
// =============================================================================

func yearQuery(r *http.Request) (int, error) {
	s := r.URL.Query().Get("year")
	if s == "" {
		return time.Now().Year(), nil
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New("invalid year")
	}
	return year, nil
}

// GetBalances handles GET /api/leave/balances?year=
func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	year, err := yearQuery(r)
	if err != nil {
		h.writeBadRequest(w, err.Error())
		return
	}
	reports, err := h.service.Balances(r.Context(), year)
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]BalanceReportDTO, 0, len(reports))
	for _, rep := range reports {
		out = append(out, toBalanceReportDTO(rep))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetHistory handles GET /api/leave/history?staff_id=&year=
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	staffID := r.URL.Query().Get("staff_id")
	if staffID == "" {
		h.writeBadRequest(w, "staff_id is required")
		return
	}
	year, err := yearQuery(r)
	if err != nil {
		h.writeBadRequest(w, err.Error())
		return
	}
	entries, err := h.service.LeaveHistory(r.Context(), staffID, year)
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]HistoryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, toHistoryDTO(e))
	}
	writeJSON(w, http.StatusOK, out)
}

// CancelLeave handles POST /api/leave/history/{id}/cancel
func (h *Handler) CancelLeave(w http.ResponseWriter, r *http.Request) {
	if err := h.service.CancelLeave(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GrantRL handles POST /api/leave/rl-grant
func (h *Handler) GrantRL(w http.ResponseWriter, r *http.Request) {
	var req GrantRLRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	if req.StaffID == "" || req.Year == 0 || req.Days <= 0 {
		h.writeBadRequest(w, "staff_id, year, and positive days are required")
		return
	}
	if err := h.service.GrantRL(r.Context(), req.StaffID, req.Year, req.Days); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// MATERNITY
// =============================================================================

// ListMaternity handles GET /api/leave/maternity?staff_id=
func (h *Handler) ListMaternity(w http.ResponseWriter, r *http.Request) {
	staffID := r.URL.Query().Get("staff_id")
	if staffID == "" {
		h.writeBadRequest(w, "staff_id is required")
		return
	}
	periods, err := h.service.MaternityPeriodsFor(r.Context(), staffID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]MaternityDTO, 0, len(periods))
	for _, p := range periods {
		out = append(out, toMaternityDTO(p))
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateMaternity handles POST /api/leave/maternity
func (h *Handler) CreateMaternity(w http.ResponseWriter, r *http.Request) {
	var req CreateMaternityRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	start, err := roster.ParseDate(req.StartDate)
	if err != nil {
		h.writeError(w, err)
		return
	}
	period, err := h.service.CreateMaternityLeave(r.Context(), req.StaffID, start)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMaternityDTO(*period))
}

// CancelMaternity handles POST /api/leave/maternity/{id}/cancel
func (h *Handler) CancelMaternity(w http.ResponseWriter, r *http.Request) {
	if err := h.service.CancelMaternityLeave(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// ListHolidays handles GET /api/holidays?year=
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year, err := yearQuery(r)
	if err != nil {
		h.writeBadRequest(w, err.Error())
		return
	}
	holidays, err := h.holidays.ListHolidays(r.Context(), year)
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]HolidayDTO, 0, len(holidays))
	for _, ph := range holidays {
		out = append(out, HolidayDTO{ID: ph.ID, Date: ph.Date.String(), Name: ph.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateHoliday handles POST /api/holidays
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req SaveHolidayRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	if req.Name == "" {
		h.writeBadRequest(w, "name is required")
		return
	}
	d, err := roster.ParseDate(req.Date)
	if err != nil {
		h.writeError(w, err)
		return
	}
	ph := roster.PublicHoliday{ID: newID(), Date: d, Name: req.Name}
	if err := h.holidays.SaveHoliday(r.Context(), ph); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, HolidayDTO{ID: ph.ID, Date: ph.Date.String(), Name: ph.Name})
}

// DeleteHoliday handles DELETE /api/holidays/{id}
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	if err := h.holidays.DeleteHoliday(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ListScenarios handles GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.scenarios.List())
}

// LoadScenario handles POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	if err := h.scenarios.Load(r.Context(), req.ScenarioID); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ResetData handles POST /api/scenarios/reset
func (h *Handler) ResetData(w http.ResponseWriter, r *http.Request) {
	if err := h.scenarios.Reset(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
