package schedule

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/farmasi/roster-engine/leave"
	"github.com/farmasi/roster-engine/roster"
)

// =============================================================================
// SERVICE - Reconciliation protocol entry points
// =============================================================================

// StaffDirectory is the staff-provider collaborator. The engine needs
// only the scheduling-relevant fields of each member.
type StaffDirectory interface {
	// ActiveStaff returns all currently active staff members.
	ActiveStaff(ctx context.Context) ([]roster.StaffMember, error)

	// StaffByID returns a member by ID, or nil when unknown. Includes
	// deactivated members: their history still needs resolving.
	StaffByID(ctx context.Context, id string) (*roster.StaffMember, error)
}

// Service wires the generator, the override store and the leave ledger
// into the operations the API exposes.
type Service struct {
	store    Store
	staff    StaffDirectory
	patterns roster.PatternLibrary
	holidays roster.HolidayProvider
	log      zerolog.Logger
}

func NewService(store Store, staff StaffDirectory, patterns roster.PatternLibrary, holidays roster.HolidayProvider, log zerolog.Logger) *Service {
	return &Service{
		store:    store,
		staff:    staff,
		patterns: patterns,
		holidays: holidays,
		log:      log,
	}
}

// entitlementsFor reads a staff member's yearly entitlements, used to
// seed balance rows on first posting.
func (s *Service) entitlementsFor(ctx context.Context, staffID string) (leave.Entitlements, error) {
	m, err := s.staff.StaffByID(ctx, staffID)
	if err != nil {
		return leave.Entitlements{}, err
	}
	if m == nil {
		return leave.Entitlements{}, ErrStaffNotFound
	}
	return leave.Entitlements{AL: m.ALEntitlement, ML: m.MLEntitlement}, nil
}

// Balances derives the yearly leave report for all active staff.
func (s *Service) Balances(ctx context.Context, year int) ([]leave.StaffReport, error) {
	staff, err := s.staff.ActiveStaff(ctx)
	if err != nil {
		return nil, err
	}
	return leave.Report(ctx, s.store, year, staff)
}

// LeaveHistory lists ledger history entries for a staff member/year.
func (s *Service) LeaveHistory(ctx context.Context, staffID string, year int) ([]leave.Entry, error) {
	return s.store.History(ctx, staffID, year)
}

// GrantRL credits replacement leave earned covering a public holiday.
func (s *Service) GrantRL(ctx context.Context, staffID string, year, days int) error {
	ent, err := s.entitlementsFor(ctx, staffID)
	if err != nil {
		return err
	}
	return leave.GrantRL(ctx, s.store, staffID, year, days, ent)
}
