/*
Package staff resolves the staff roster from its two backings.

PURPOSE:
  The engine never bakes in a hardcoded staff list. Instead it consumes
  a Directory, and this package provides the two implementations plus
  the merge: the static legacy roster the pharmacy opened with, and the
  persisted store for staff added since. The store wins on ID collision
  so legacy members can be edited (entitlements, off-days, deactivation)
  without touching the static table.

LIFECYCLE:
  Staff are created through Manager, soft-deactivated, and never hard
  deleted once they have generated history. Deactivated members stay
  resolvable by ID - published months still reference them.

SEE ALSO:
  - schedule/service.go: The StaffDirectory contract this satisfies
*/
package staff

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/farmasi/roster-engine/roster"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrDuplicateID is returned when creating a staff member whose ID
	// already resolves, including against the static roster.
	ErrDuplicateID = fmt.Errorf("staff ID already exists: %w", roster.ErrConflict)

	// ErrNotFound is returned for an unknown staff ID.
	ErrNotFound = fmt.Errorf("staff: %w", roster.ErrNotFound)
)

// =============================================================================
// STORE CONTRACT
// =============================================================================

// Store persists staff records added or edited through the API.
type Store interface {
	// ListStaff returns every stored record, including deactivated ones.
	ListStaff(ctx context.Context) ([]roster.StaffMember, error)

	// GetStaff returns a record by ID, or nil when not stored.
	GetStaff(ctx context.Context, id string) (*roster.StaffMember, error)

	// SaveStaff upserts a record.
	SaveStaff(ctx context.Context, m roster.StaffMember) error
}

// =============================================================================
// STATIC ROSTER - The legacy deployment's built-in staff
// =============================================================================

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// LegacyRoster returns the pharmacy's original staff. IDs here line up
// with the explicit patterns in roster/pattern.go.
func LegacyRoster() []roster.StaffMember {
	return []roster.StaffMember{
		{
			ID: "siti", Name: "Siti Rahmah", Role: roster.RolePharmacist,
			WeeklyHours: dec("45"),
			OffDays:     []time.Weekday{time.Monday, time.Tuesday},
			ALEntitlement: 14, MLEntitlement: 14, IsActive: true,
		},
		{
			ID: "fatimah", Name: "Fatimah Zahra", Role: roster.RolePharmacist,
			WeeklyHours: dec("45"),
			OffDays:     []time.Weekday{time.Wednesday, time.Thursday},
			ALEntitlement: 16, MLEntitlement: 14, IsActive: true,
		},
		{
			ID: "aisyah", Name: "Aisyah Binti Omar", Role: roster.RoleAssistant,
			WeeklyHours: dec("40"),
			OffDays:     []time.Weekday{time.Sunday, time.Monday},
			ALEntitlement: 12, MLEntitlement: 14, IsActive: true,
		},
		{
			ID: "farid", Name: "Farid Hakim", Role: roster.RoleAssistant,
			WeeklyHours: dec("40"),
			OffDays:     []time.Weekday{time.Friday, time.Saturday},
			ALEntitlement: 12, MLEntitlement: 14, IsActive: true,
		},
	}
}

// =============================================================================
// DIRECTORY - Static roster merged with the persisted store
// =============================================================================

// Directory merges the static roster with the persisted store. Stored
// records win on ID collision.
type Directory struct {
	static []roster.StaffMember
	store  Store
}

func NewDirectory(static []roster.StaffMember, store Store) *Directory {
	return &Directory{static: static, store: store}
}

// All returns every known member, stored edits layered over the static
// roster, in stable order (static first, then stored additions).
func (d *Directory) All(ctx context.Context) ([]roster.StaffMember, error) {
	stored, err := d.store.ListStaff(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]roster.StaffMember, len(stored))
	for _, m := range stored {
		byID[m.ID] = m
	}

	var out []roster.StaffMember
	seen := make(map[string]bool)
	for _, m := range d.static {
		if edited, ok := byID[m.ID]; ok {
			m = edited
		}
		out = append(out, m)
		seen[m.ID] = true
	}
	for _, m := range stored {
		if !seen[m.ID] {
			out = append(out, m)
		}
	}
	return out, nil
}

// ActiveStaff returns active members only.
func (d *Directory) ActiveStaff(ctx context.Context) ([]roster.StaffMember, error) {
	all, err := d.All(ctx)
	if err != nil {
		return nil, err
	}
	var active []roster.StaffMember
	for _, m := range all {
		if m.IsActive {
			active = append(active, m)
		}
	}
	return active, nil
}

// StaffByID resolves a member by ID, deactivated members included.
func (d *Directory) StaffByID(ctx context.Context, id string) (*roster.StaffMember, error) {
	if m, err := d.store.GetStaff(ctx, id); err != nil || m != nil {
		return m, err
	}
	for _, m := range d.static {
		if m.ID == id {
			return &m, nil
		}
	}
	return nil, nil
}

// =============================================================================
// MANAGER - Staff CRUD on top of the directory
// =============================================================================

// Manager performs staff management against the persisted store while
// respecting the merged view for uniqueness.
type Manager struct {
	dir *Directory
}

func NewManager(dir *Directory) *Manager {
	return &Manager{dir: dir}
}

func (mg *Manager) List(ctx context.Context) ([]roster.StaffMember, error) {
	return mg.dir.All(ctx)
}

func (mg *Manager) Get(ctx context.Context, id string) (*roster.StaffMember, error) {
	m, err := mg.dir.StaffByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotFound
	}
	return m, nil
}

// Create adds a new member. The ID must be unique across both backings.
func (mg *Manager) Create(ctx context.Context, m roster.StaffMember) error {
	if m.ID == "" || m.Name == "" {
		return fmt.Errorf("staff ID and name required: %w", roster.ErrValidation)
	}
	if m.Role != roster.RolePharmacist && m.Role != roster.RoleAssistant {
		return fmt.Errorf("unknown role %q: %w", m.Role, roster.ErrValidation)
	}
	existing, err := mg.dir.StaffByID(ctx, m.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrDuplicateID
	}
	m.IsActive = true
	return mg.dir.store.SaveStaff(ctx, m)
}

// Update edits an existing member. Legacy members are copied into the
// store on first edit.
func (mg *Manager) Update(ctx context.Context, m roster.StaffMember) error {
	existing, err := mg.dir.StaffByID(ctx, m.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}
	return mg.dir.store.SaveStaff(ctx, m)
}

// Deactivate soft-deletes a member: the record stays, the schedule
// generator stops rostering them.
func (mg *Manager) Deactivate(ctx context.Context, id string) error {
	existing, err := mg.dir.StaffByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}
	m := *existing
	m.IsActive = false
	return mg.dir.store.SaveStaff(ctx, m)
}
