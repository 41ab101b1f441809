/*
publish.go - Promoting drafts and posting the ledger

PURPOSE:
  Publish is the only writer of published overrides and the only
  trigger for leave-ledger increments. Drafts never affect the ledger;
  a month's leave days are counted exactly when the month is published.

PROTOCOL:
  0. Prefetch entitlements for every staff member with a leave draft.
     Staff lookups never run inside the transaction: a store pinned to
     a single connection would deadlock on the nested read.
  Then, in one transaction:
  1. Re-read all draft overrides in the month's range
  2. Delete all published overrides in the range (full replacement)
  3. Recreate published overrides from the drafts
  4. Post each counted leave day to the ledger (idempotent: a day with
     an approved history entry is skipped, so re-publish never
     double-counts)
  5. Delete the drafts and the DraftMonth marker

DISCARD:
  Atomic delete of the month's drafts plus the marker. No ledger
  effect - drafts were never counted.

CANCEL:
  cancelLeave flips a history entry to cancelled, refunds AL/RL, and
  deletes the published leave override at that slot so the day becomes
  schedulable again. Double-cancel is rejected with a conflict.

SEE ALSO:
  - leave/ledger.go: Post and Cancel
  - draft.go: How drafts got there
*/
package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/farmasi/roster-engine/leave"
	"github.com/farmasi/roster-engine/roster"
)

// Publish promotes a month's drafts to published overrides and posts
// leave-ledger effects. Requires an existing DraftMonth marker.
func (s *Service) Publish(ctx context.Context, year int, month time.Month) error {
	marker, err := s.store.DraftMonth(ctx, year, month)
	if err != nil {
		return err
	}
	if marker == nil {
		return ErrNoDraft
	}

	monthRange := roster.MonthRange(year, month)
	now := time.Now().UTC()

	// Entitlements only seed balance rows created on first posting.
	// They must be resolved before the transaction opens; the staff
	// directory reads through its own store connection.
	preview, err := s.store.DraftOverrides(ctx, monthRange)
	if err != nil {
		return err
	}
	entitlements := make(map[string]leave.Entitlements)
	for _, d := range preview {
		if !d.IsLeave {
			continue
		}
		if _, ok := entitlements[d.StaffID]; ok {
			continue
		}
		ent, err := s.entitlementsFor(ctx, d.StaffID)
		if err != nil {
			return err
		}
		entitlements[d.StaffID] = ent
	}

	err = s.store.WithTx(ctx, func(t Tables) error {
		drafts, err := t.DraftOverrides(ctx, monthRange)
		if err != nil {
			return err
		}

		if err := t.DeletePublishedOverrides(ctx, monthRange); err != nil {
			return err
		}

		for _, d := range drafts {
			d.UpdatedAt = now
			if err := t.UpsertPublishedOverride(ctx, d); err != nil {
				return err
			}
			if !d.IsLeave {
				continue
			}
			ent, ok := entitlements[d.StaffID]
			if !ok {
				// A leave draft slipped in after the prefetch read.
				return fmt.Errorf("drafts changed during publish: %w", roster.ErrConflict)
			}
			if err := leave.Post(ctx, t, d.StaffID, d.Date, d.LeaveType, ent); err != nil {
				return err
			}
		}

		for _, d := range drafts {
			if err := t.DeleteDraftOverride(ctx, d.Date, d.StaffID); err != nil {
				return err
			}
		}
		return t.DeleteDraftMonth(ctx, year, month)
	})
	if err != nil {
		if roster.IsClientError(err) {
			return err
		}
		return &roster.PersistenceError{Op: "publish", Cause: err}
	}

	s.log.Info().Int("year", year).Int("month", int(month)).Msg("month published")
	return nil
}

// Discard drops a month's drafts and its marker. Requires an existing
// DraftMonth marker so callers can tell "nothing to do" from "done".
func (s *Service) Discard(ctx context.Context, year int, month time.Month) error {
	marker, err := s.store.DraftMonth(ctx, year, month)
	if err != nil {
		return err
	}
	if marker == nil {
		return ErrNoDraft
	}

	monthRange := roster.MonthRange(year, month)
	err = s.store.WithTx(ctx, func(t Tables) error {
		drafts, err := t.DraftOverrides(ctx, monthRange)
		if err != nil {
			return err
		}
		for _, d := range drafts {
			if err := t.DeleteDraftOverride(ctx, d.Date, d.StaffID); err != nil {
				return err
			}
		}
		return t.DeleteDraftMonth(ctx, year, month)
	})
	if err != nil {
		return &roster.PersistenceError{Op: "discard draft", Cause: err}
	}

	s.log.Info().Int("year", year).Int("month", int(month)).Msg("draft discarded")
	return nil
}

// CancelLeave refunds a published leave day. The history entry flips to
// cancelled (rows are never deleted), AL/RL days return to the balance,
// and the published leave override at the slot is removed.
func (s *Service) CancelLeave(ctx context.Context, historyID string) error {
	err := s.store.WithTx(ctx, func(t Tables) error {
		entry, err := leave.Cancel(ctx, t, historyID)
		if err != nil {
			return err
		}

		// Clear the published override only if it is still a leave
		// entry; a later publish may have rescheduled the slot.
		published, err := t.PublishedOverrides(ctx, roster.DateRange{Start: entry.Date, End: entry.Date})
		if err != nil {
			return err
		}
		for _, o := range published {
			if o.StaffID == entry.StaffID && o.IsLeave {
				if err := t.DeletePublishedOverride(ctx, o.Date, o.StaffID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, leave.ErrHistoryNotFound) || errors.Is(err, leave.ErrAlreadyCancelled) {
			return err
		}
		return &roster.PersistenceError{Op: "cancel leave", Cause: err}
	}

	s.log.Info().Str("history_id", historyID).Msg("leave cancelled")
	return nil
}
