/*
maternity.go - The maternity leave batch generator

PURPOSE:
  Creating a maternity period drafts 98 consecutive MAT days across the
  3-4 months the span touches, each month gaining a DraftMonth marker.
  The drafts then flow through the normal publish path to post to the
  ledger - maternity leave still requires an explicit publish.

OVERLAP:
  A new period is rejected when it overlaps any *active* period for the
  same staff member. Cancelled periods do not block.

MAT AUTHORITY:
  This file is the authorized MAT writer: here MAT always wins over an
  existing non-MAT draft at a slot. Everywhere else (draft.go) MAT
  entries are protected from being overwritten.

SEE ALSO:
  - draft.go: MAT protection on the bulk write path
  - publish.go: Where MAT days reach the ledger
*/
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/farmasi/roster-engine/leave"
	"github.com/farmasi/roster-engine/roster"
)

// CreateMaternityLeave opens a 98-day (inclusive) maternity span
// starting at startDate, drafting every day as MAT.
func (s *Service) CreateMaternityLeave(ctx context.Context, staffID string, startDate roster.Date) (*MaternityLeavePeriod, error) {
	member, err := s.staff.StaffByID(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrStaffNotFound
	}
	if startDate.IsZero() {
		return nil, fmt.Errorf("maternity start date required: %w", roster.ErrValidation)
	}

	period := MaternityLeavePeriod{
		ID:        uuid.NewString(),
		StaffID:   staffID,
		StartDate: startDate,
		EndDate:   startDate.AddDays(MaternityDays - 1),
		Status:    MaternityActive,
		CreatedAt: time.Now().UTC(),
	}

	existing, err := s.store.MaternityPeriods(ctx, staffID)
	if err != nil {
		return nil, err
	}
	for _, p := range existing {
		if p.Status != MaternityActive {
			continue
		}
		if period.Range().Overlaps(p.Range()) {
			return nil, &OverlapError{StaffID: staffID, Existing: p.Range()}
		}
	}

	now := time.Now().UTC()
	err = s.store.WithTx(ctx, func(t Tables) error {
		if err := t.CreateMaternityPeriod(ctx, period); err != nil {
			return err
		}

		months := make(map[roster.Date]bool) // first-of-month set
		for _, d := range period.Range().Days() {
			err := t.UpsertDraftOverride(ctx, Override{
				Date:      d,
				StaffID:   staffID,
				IsLeave:   true,
				LeaveType: leave.MAT,
				UpdatedAt: now,
			})
			if err != nil {
				return err
			}
			months[roster.NewDate(d.Year, d.Month, 1)] = true
		}

		for m := range months {
			if err := t.UpsertDraftMonth(ctx, m.Year, m.Month); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, &roster.PersistenceError{Op: "create maternity leave", Cause: err}
	}

	s.log.Info().Str("staff_id", staffID).Str("start", period.StartDate.String()).
		Str("end", period.EndDate.String()).Msg("maternity leave drafted")
	return &period, nil
}

// CancelMaternityLeave deactivates a period and removes its MAT draft
// overrides that have not been published yet. Span months left with no
// drafts lose their DraftMonth marker again, so a create+cancel pair is
// a net no-op. Already-published days are unwound individually through
// CancelLeave on their history entries.
func (s *Service) CancelMaternityLeave(ctx context.Context, periodID string) error {
	period, err := s.store.MaternityPeriodByID(ctx, periodID)
	if err != nil {
		return err
	}
	if period == nil {
		return ErrPeriodNotFound
	}
	if period.Status == MaternityCancelled {
		return fmt.Errorf("maternity period already cancelled: %w", roster.ErrConflict)
	}

	err = s.store.WithTx(ctx, func(t Tables) error {
		if err := t.SetMaternityStatus(ctx, periodID, MaternityCancelled); err != nil {
			return err
		}
		drafts, err := t.DraftOverrides(ctx, period.Range())
		if err != nil {
			return err
		}
		for _, d := range drafts {
			if d.StaffID == period.StaffID && d.IsLeave && d.LeaveType == leave.MAT {
				if err := t.DeleteDraftOverride(ctx, d.Date, d.StaffID); err != nil {
					return err
				}
			}
		}

		// A marker over an empty draft set would let a publish wipe the
		// month's published days. Drop the batch's markers unless other
		// drafts still keep the month open.
		months := make(map[roster.Date]bool)
		for _, d := range period.Range().Days() {
			months[roster.NewDate(d.Year, d.Month, 1)] = true
		}
		for m := range months {
			remaining, err := t.DraftOverrides(ctx, roster.MonthRange(m.Year, m.Month))
			if err != nil {
				return err
			}
			if len(remaining) == 0 {
				if err := t.DeleteDraftMonth(ctx, m.Year, m.Month); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return &roster.PersistenceError{Op: "cancel maternity leave", Cause: err}
	}

	s.log.Info().Str("period_id", periodID).Msg("maternity leave cancelled")
	return nil
}

// MaternityPeriodsFor lists a staff member's periods, or all periods
// when staffID is empty.
func (s *Service) MaternityPeriodsFor(ctx context.Context, staffID string) ([]MaternityLeavePeriod, error) {
	return s.store.MaternityPeriods(ctx, staffID)
}
