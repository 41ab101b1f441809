/*
draft.go - The draft write path

PURPOSE:
  SaveDraft replaces a month's draft overrides in one atomic
  transaction. The only entries that survive a bulk draft write are
  MAT days: maternity entries originate from the maternity batch
  (maternity.go) and can only be replaced by another MAT write, never
  implicitly clobbered by a grid save.

SPILLOVER:
  The display grid shows days from adjacent months. Edits to those days
  are saved as separate transactions against the adjacent month's own
  DraftMonth, and only for months that actually received a change - an
  untouched adjacent month never gains a spurious draft marker.

SEE ALSO:
  - publish.go: Promotes drafts and posts the ledger
  - maternity.go: The authorized MAT writer
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

// SaveDraft atomically replaces the draft overrides for one month.
// Every change date must fall inside the target month; spillover edits
// belong to their own month (see SaveGrid).
func (s *Service) SaveDraft(ctx context.Context, year int, month time.Month, changes []Change) error {
	monthRange := roster.MonthRange(year, month)
	now := time.Now().UTC()

	for _, c := range changes {
		if !monthRange.Contains(c.Date) {
			return fmt.Errorf("change at %s outside %04d-%02d: %w", c.Date, year, month, roster.ErrValidation)
		}
		if err := c.override(now).Validate(); err != nil {
			return err
		}
	}

	err := s.store.WithTx(ctx, func(t Tables) error {
		existing, err := t.DraftOverrides(ctx, monthRange)
		if err != nil {
			return err
		}

		// Clear the month's drafts, keeping MAT entries.
		protected := make(map[slotKey]bool)
		for _, o := range existing {
			if o.IsLeave && o.LeaveType == leave.MAT {
				protected[slotKey{Date: o.Date, StaffID: o.StaffID}] = true
				continue
			}
			if err := t.DeleteDraftOverride(ctx, o.Date, o.StaffID); err != nil {
				return err
			}
		}

		for _, c := range changes {
			// A MAT slot is only replaceable by another MAT write.
			if protected[slotKey{Date: c.Date, StaffID: c.StaffID}] && c.LeaveType != leave.MAT {
				continue
			}
			if err := t.UpsertDraftOverride(ctx, c.override(now)); err != nil {
				return err
			}
		}

		return t.UpsertDraftMonth(ctx, year, month)
	})
	if err != nil {
		return &roster.PersistenceError{Op: "save draft", Cause: err}
	}

	s.log.Info().Int("year", year).Int("month", int(month)).Int("changes", len(changes)).Msg("draft saved")
	return nil
}

// SaveGrid saves a full grid edit: changes are partitioned by the
// calendar month each date belongs to, and each affected month is saved
// in its own transaction. Replacement changes bypass the draft cycle
// and are applied immediately.
func (s *Service) SaveGrid(ctx context.Context, year int, month time.Month, changes []Change, replacements []ReplacementChange) error {
	type ym struct {
		Year  int
		Month time.Month
	}
	byMonth := make(map[ym][]Change)
	var order []ym
	for _, c := range changes {
		k := ym{Year: c.Date.Year, Month: c.Date.Month}
		if _, seen := byMonth[k]; !seen {
			order = append(order, k)
		}
		byMonth[k] = append(byMonth[k], c)
	}

	// The requested month is saved even when empty: an editor clearing
	// every slot still produces a (empty) draft. Adjacent months are
	// only touched when a spillover day actually changed.
	target := ym{Year: year, Month: month}
	if _, seen := byMonth[target]; !seen {
		order = append([]ym{target}, order...)
		byMonth[target] = nil
	}

	for _, k := range order {
		if err := s.SaveDraft(ctx, k.Year, k.Month, byMonth[k]); err != nil {
			return err
		}
	}

	return s.applyReplacements(ctx, replacements)
}

func (s *Service) applyReplacements(ctx context.Context, changes []ReplacementChange) error {
	for _, rc := range changes {
		if rc.Delete {
			if err := s.store.DeleteReplacement(ctx, rc.ID); err != nil {
				return err
			}
			continue
		}
		if rc.Name == "" {
			return fmt.Errorf("replacement missing name: %w", roster.ErrValidation)
		}
		if rc.Custom == nil && !roster.ValidShiftKey(rc.Shift) {
			return fmt.Errorf("replacement has unknown shift %q: %w", rc.Shift, roster.ErrValidation)
		}
		id := rc.ID
		if id == "" {
			id = uuid.NewString()
		}
		err := s.store.UpsertReplacement(ctx, ReplacementShift{
			ID:     id,
			Date:   rc.Date,
			Name:   rc.Name,
			Shift:  rc.Shift,
			Custom: rc.Custom,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
