/*
scenarios.go - Demo scenario loader

PURPOSE:
  Seeds the store with known states for demos and manual testing. Each
  scenario wipes existing data first, then drives the regular service
  operations so the seeded state goes through the same code paths real
  requests do.

SEE ALSO:
  - handlers.go: Routes that expose the runner
*/
package api

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/farmasi/roster-engine/leave"
	"github.com/farmasi/roster-engine/roster"
	"github.com/farmasi/roster-engine/schedule"
)

func newID() string { return uuid.NewString() }

// Resetter wipes all stored data. Both the sqlite and in-memory stores
// implement it.
type Resetter interface {
	Reset(ctx context.Context) error
}

type scenario struct {
	ID          string
	Name        string
	Description string
	Load        func(ctx context.Context, r *ScenarioRunner) error
}

// ScenarioRunner loads named demo states through the service layer.
type ScenarioRunner struct {
	service *schedule.Service
	store   Resetter
}

func NewScenarioRunner(service *schedule.Service, store Resetter) *ScenarioRunner {
	return &ScenarioRunner{service: service, store: store}
}

var scenarios = []scenario{
	{
		ID:          "legacy-roster",
		Name:        "Legacy roster",
		Description: "Empty store; the built-in four-person roster with its biweekly patterns.",
		Load: func(ctx context.Context, r *ScenarioRunner) error {
			return nil
		},
	},
	{
		ID:          "march-leave",
		Name:        "March annual leave",
		Description: "Siti takes annual leave on Wednesday 2025-03-12; the month is published.",
		Load: func(ctx context.Context, r *ScenarioRunner) error {
			changes := []schedule.Change{{
				Date:      roster.NewDate(2025, time.March, 12),
				StaffID:   "siti",
				IsLeave:   true,
				LeaveType: leave.AL,
			}}
			if err := r.service.SaveGrid(ctx, 2025, time.March, changes, nil); err != nil {
				return err
			}
			return r.service.Publish(ctx, 2025, time.March)
		},
	},
	{
		ID:          "maternity",
		Name:        "Maternity leave",
		Description: "Fatimah starts 98 days of maternity leave on 2025-01-15.",
		Load: func(ctx context.Context, r *ScenarioRunner) error {
			_, err := r.service.CreateMaternityLeave(ctx, "fatimah", roster.NewDate(2025, time.January, 15))
			return err
		},
	},
}

// List returns the available scenarios.
func (r *ScenarioRunner) List() []ScenarioDTO {
	out := make([]ScenarioDTO, 0, len(scenarios))
	for _, s := range scenarios {
		out = append(out, ScenarioDTO{ID: s.ID, Name: s.Name, Description: s.Description})
	}
	return out
}

// Load wipes the store and seeds the named scenario.
func (r *ScenarioRunner) Load(ctx context.Context, id string) error {
	for _, s := range scenarios {
		if s.ID != id {
			continue
		}
		if err := r.store.Reset(ctx); err != nil {
			return err
		}
		return s.Load(ctx, r)
	}
	return fmt.Errorf("unknown scenario %q: %w", id, roster.ErrNotFound)
}

// Reset wipes the store without seeding anything.
func (r *ScenarioRunner) Reset(ctx context.Context) error {
	return r.store.Reset(ctx)
}
