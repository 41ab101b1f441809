/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the domain model
  from the external contract. DTOs are pure data carriers; validation
  happens in handlers and the domain layer.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/farmasi/roster-engine/leave"
	"github.com/farmasi/roster-engine/roster"
	"github.com/farmasi/roster-engine/schedule"
)

// =============================================================================
// SCHEDULE VIEW
// =============================================================================

type ShiftDTO struct {
	Key   string `json:"key,omitempty"`
	Label string `json:"label,omitempty"`
	Start string `json:"start"`
	End   string `json:"end"`
	Hours string `json:"hours"`
}

type EntryDTO struct {
	Shift      *ShiftDTO `json:"shift"` // null = off or on leave
	IsLeave    bool      `json:"is_leave"`
	LeaveType  string    `json:"leave_type,omitempty"`
	Overridden bool      `json:"overridden"`
}

type ReplacementDTO struct {
	ID    string    `json:"id"`
	Date  string    `json:"date"`
	Name  string    `json:"name"`
	Shift *ShiftDTO `json:"shift"`
}

type DayDTO struct {
	Date         string              `json:"date"`
	ISOWeek      int                 `json:"iso_week"`
	InMonth      bool                `json:"in_month"`
	IsHoliday    bool                `json:"is_holiday"`
	HolidayName  string              `json:"holiday_name,omitempty"`
	Entries      map[string]EntryDTO `json:"entries"`
	Replacements []ReplacementDTO    `json:"replacements,omitempty"`
}

type MonthViewDTO struct {
	Year           int               `json:"year"`
	Month          int               `json:"month"`
	View           string            `json:"view"`
	HasDraft       bool              `json:"has_draft"`
	Days           []DayDTO          `json:"days"`
	ScheduledHours map[string]string `json:"scheduled_hours"`
}

func toShiftDTO(def *roster.ShiftDefinition) *ShiftDTO {
	if def == nil {
		return nil
	}
	return &ShiftDTO{
		Key:   string(def.Key),
		Label: def.Label,
		Start: def.Start,
		End:   def.End,
		Hours: def.Hours.String(),
	}
}

func toReplacementDTO(rs schedule.ReplacementShift) ReplacementDTO {
	dto := ReplacementDTO{ID: rs.ID, Date: rs.Date.String(), Name: rs.Name}
	if rs.Custom != nil {
		dto.Shift = &ShiftDTO{Start: rs.Custom.Start, End: rs.Custom.End, Hours: rs.Custom.Hours.String()}
	} else {
		dto.Shift = toShiftDTO(roster.LookupShift(rs.Shift))
	}
	return dto
}

func toMonthViewDTO(v *schedule.MonthView) MonthViewDTO {
	dto := MonthViewDTO{
		Year:           v.Year,
		Month:          int(v.Month),
		View:           string(v.Mode),
		HasDraft:       v.HasDraft,
		Days:           make([]DayDTO, 0, len(v.Days)),
		ScheduledHours: make(map[string]string, len(v.ScheduledHours)),
	}
	for id, h := range v.ScheduledHours {
		dto.ScheduledHours[id] = h.String()
	}
	for _, d := range v.Days {
		day := DayDTO{
			Date:        d.Date.String(),
			ISOWeek:     d.ISOWeek,
			InMonth:     d.InMonth,
			IsHoliday:   d.IsHoliday,
			HolidayName: d.HolidayName,
			Entries:     make(map[string]EntryDTO, len(d.Entries)),
		}
		for staffID, e := range d.Entries {
			day.Entries[staffID] = EntryDTO{
				Shift:      toShiftDTO(e.Shift),
				IsLeave:    e.IsLeave,
				LeaveType:  string(e.LeaveType),
				Overridden: e.Overridden,
			}
		}
		for _, rs := range d.Replacements {
			day.Replacements = append(day.Replacements, toReplacementDTO(rs))
		}
		dto.Days = append(dto.Days, day)
	}
	return dto
}

// =============================================================================
// DRAFT WRITES
// =============================================================================

type ChangeRequest struct {
	Date      string `json:"date"`
	StaffID   string `json:"staff_id"`
	Shift     string `json:"shift"`
	IsLeave   bool   `json:"is_leave"`
	LeaveType string `json:"leave_type"`
}

type CustomShiftRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Hours string `json:"hours"`
}

type ReplacementRequest struct {
	ID     string              `json:"id,omitempty"`
	Date   string              `json:"date"`
	Name   string              `json:"name"`
	Shift  string              `json:"shift,omitempty"`
	Custom *CustomShiftRequest `json:"custom,omitempty"`
	Delete bool                `json:"delete,omitempty"`
}

type SaveDraftRequest struct {
	Changes      []ChangeRequest      `json:"changes"`
	Replacements []ReplacementRequest `json:"replacements,omitempty"`
}

// =============================================================================
// STAFF
// =============================================================================

type StaffDTO struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	WeeklyHours   string `json:"weekly_hours"`
	OffDays       []int  `json:"off_days"`
	ActiveFrom    string `json:"active_from,omitempty"`
	ALEntitlement int    `json:"al_entitlement"`
	MLEntitlement int    `json:"ml_entitlement"`
	IsActive      bool   `json:"is_active"`
}

func toStaffDTO(m roster.StaffMember) StaffDTO {
	dto := StaffDTO{
		ID:            m.ID,
		Name:          m.Name,
		Role:          string(m.Role),
		WeeklyHours:   m.WeeklyHours.String(),
		OffDays:       make([]int, 0, len(m.OffDays)),
		ALEntitlement: m.ALEntitlement,
		MLEntitlement: m.MLEntitlement,
		IsActive:      m.IsActive,
	}
	for _, d := range m.OffDays {
		dto.OffDays = append(dto.OffDays, int(d))
	}
	if m.ActiveFrom != nil {
		dto.ActiveFrom = m.ActiveFrom.String()
	}
	return dto
}

type SaveStaffRequest struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	WeeklyHours   string `json:"weekly_hours"`
	OffDays       []int  `json:"off_days"`
	ActiveFrom    string `json:"active_from,omitempty"`
	ALEntitlement int    `json:"al_entitlement"`
	MLEntitlement int    `json:"ml_entitlement"`
}

// =============================================================================
// LEAVE
// =============================================================================

type TypeSummaryDTO struct {
	Entitlement int `json:"entitlement"`
	Used        int `json:"used"`
	Remaining   int `json:"remaining"`
}

type BalanceReportDTO struct {
	StaffID string         `json:"staff_id"`
	Name    string         `json:"name"`
	AL      TypeSummaryDTO `json:"al"`
	RL      TypeSummaryDTO `json:"rl"`
	ML      TypeSummaryDTO `json:"ml"`
	MAT     TypeSummaryDTO `json:"mat"`
}

func toBalanceReportDTO(r leave.StaffReport) BalanceReportDTO {
	conv := func(s leave.TypeSummary) TypeSummaryDTO {
		return TypeSummaryDTO{Entitlement: s.Entitlement, Used: s.Used, Remaining: s.Remaining}
	}
	return BalanceReportDTO{
		StaffID: r.StaffID,
		Name:    r.Name,
		AL:      conv(r.AL),
		RL:      conv(r.RL),
		ML:      conv(r.ML),
		MAT:     conv(r.MAT),
	}
}

type HistoryDTO struct {
	ID        string `json:"id"`
	StaffID   string `json:"staff_id"`
	Date      string `json:"date"`
	LeaveType string `json:"leave_type"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

func toHistoryDTO(e leave.Entry) HistoryDTO {
	return HistoryDTO{
		ID:        e.ID,
		StaffID:   e.StaffID,
		Date:      e.Date.String(),
		LeaveType: string(e.Type),
		Status:    string(e.Status),
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
}

type MaternityDTO struct {
	ID        string `json:"id"`
	StaffID   string `json:"staff_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
}

func toMaternityDTO(p schedule.MaternityLeavePeriod) MaternityDTO {
	return MaternityDTO{
		ID:        p.ID,
		StaffID:   p.StaffID,
		StartDate: p.StartDate.String(),
		EndDate:   p.EndDate.String(),
		Status:    string(p.Status),
	}
}

type CreateMaternityRequest struct {
	StaffID   string `json:"staff_id"`
	StartDate string `json:"start_date"`
}

type GrantRLRequest struct {
	StaffID string `json:"staff_id"`
	Year    int    `json:"year"`
	Days    int    `json:"days"`
}

// =============================================================================
// HOLIDAYS
// =============================================================================

type HolidayDTO struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Name string `json:"name"`
}

type SaveHolidayRequest struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// =============================================================================
// SCENARIOS / ERRORS
// =============================================================================

type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
