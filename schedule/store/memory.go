// Package store provides the in-memory Store implementation used in
// tests and development. It serializes transactions with a snapshot +
// rollback-on-error scheme under the system's single-writer assumption.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/farmasi/roster-engine/leave"
	"github.com/farmasi/roster-engine/roster"
	"github.com/farmasi/roster-engine/schedule"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

type slot struct {
	Date    roster.Date
	StaffID string
}

type ym struct {
	Year  int
	Month time.Month
}

type balKey struct {
	StaffID string
	Year    int
}

type Memory struct {
	mu   sync.RWMutex
	txMu sync.Mutex // one transaction at a time

	drafts       map[slot]schedule.Override
	published    map[slot]schedule.Override
	markers      map[ym]schedule.DraftMonth
	replacements map[string]schedule.ReplacementShift
	periods      map[string]schedule.MaternityLeavePeriod
	periodOrder  []string

	balances     map[balKey]leave.Balance
	history      map[string]leave.Entry
	historyOrder []string

	staff      map[string]roster.StaffMember
	staffOrder []string

	holidays map[string]roster.PublicHoliday
}

func NewMemory() *Memory {
	return &Memory{
		drafts:       make(map[slot]schedule.Override),
		published:    make(map[slot]schedule.Override),
		markers:      make(map[ym]schedule.DraftMonth),
		replacements: make(map[string]schedule.ReplacementShift),
		periods:      make(map[string]schedule.MaternityLeavePeriod),
		balances:     make(map[balKey]leave.Balance),
		history:      make(map[string]leave.Entry),
		staff:        make(map[string]roster.StaffMember),
		holidays:     make(map[string]roster.PublicHoliday),
	}
}

// Reset drops all stored data, returning the store to its empty state.
func (m *Memory) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts = make(map[slot]schedule.Override)
	m.published = make(map[slot]schedule.Override)
	m.markers = make(map[ym]schedule.DraftMonth)
	m.replacements = make(map[string]schedule.ReplacementShift)
	m.periods = make(map[string]schedule.MaternityLeavePeriod)
	m.periodOrder = nil
	m.balances = make(map[balKey]leave.Balance)
	m.history = make(map[string]leave.Entry)
	m.historyOrder = nil
	m.staff = make(map[string]roster.StaffMember)
	m.staffOrder = nil
	m.holidays = make(map[string]roster.PublicHoliday)
	return nil
}

// =============================================================================
// OVERRIDES
// =============================================================================

func overridesInRange(m map[slot]schedule.Override, r roster.DateRange) []schedule.Override {
	var out []schedule.Override
	for k, o := range m {
		if r.Contains(k.Date) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].StaffID < out[j].StaffID
	})
	return out
}

func (m *Memory) DraftOverrides(_ context.Context, r roster.DateRange) ([]schedule.Override, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return overridesInRange(m.drafts, r), nil
}

func (m *Memory) UpsertDraftOverride(_ context.Context, o schedule.Override) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[slot{Date: o.Date, StaffID: o.StaffID}] = o
	return nil
}

func (m *Memory) DeleteDraftOverride(_ context.Context, date roster.Date, staffID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, slot{Date: date, StaffID: staffID})
	return nil
}

func (m *Memory) PublishedOverrides(_ context.Context, r roster.DateRange) ([]schedule.Override, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return overridesInRange(m.published, r), nil
}

func (m *Memory) UpsertPublishedOverride(_ context.Context, o schedule.Override) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published[slot{Date: o.Date, StaffID: o.StaffID}] = o
	return nil
}

func (m *Memory) DeletePublishedOverride(_ context.Context, date roster.Date, staffID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.published, slot{Date: date, StaffID: staffID})
	return nil
}

func (m *Memory) DeletePublishedOverrides(_ context.Context, r roster.DateRange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.published {
		if r.Contains(k.Date) {
			delete(m.published, k)
		}
	}
	return nil
}

// =============================================================================
// DRAFT MONTH MARKERS
// =============================================================================

func (m *Memory) DraftMonth(_ context.Context, year int, month time.Month) (*schedule.DraftMonth, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if dm, ok := m.markers[ym{Year: year, Month: month}]; ok {
		return &dm, nil
	}
	return nil, nil
}

func (m *Memory) UpsertDraftMonth(_ context.Context, year int, month time.Month) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := ym{Year: year, Month: month}
	now := time.Now().UTC()
	if dm, ok := m.markers[k]; ok {
		dm.UpdatedAt = now
		m.markers[k] = dm
		return nil
	}
	m.markers[k] = schedule.DraftMonth{Year: year, Month: month, CreatedAt: now, UpdatedAt: now}
	return nil
}

func (m *Memory) DeleteDraftMonth(_ context.Context, year int, month time.Month) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.markers, ym{Year: year, Month: month})
	return nil
}

// =============================================================================
// REPLACEMENTS
// =============================================================================

func (m *Memory) Replacements(_ context.Context, r roster.DateRange) ([]schedule.ReplacementShift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []schedule.ReplacementShift
	for _, rs := range m.replacements {
		if r.Contains(rs.Date) {
			out = append(out, rs)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (m *Memory) UpsertReplacement(_ context.Context, rs schedule.ReplacementShift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replacements[rs.ID] = rs
	return nil
}

func (m *Memory) DeleteReplacement(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.replacements, id)
	return nil
}

// =============================================================================
// MATERNITY PERIODS
// =============================================================================

func (m *Memory) MaternityPeriods(_ context.Context, staffID string) ([]schedule.MaternityLeavePeriod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []schedule.MaternityLeavePeriod
	for i := len(m.periodOrder) - 1; i >= 0; i-- {
		p := m.periods[m.periodOrder[i]]
		if staffID == "" || p.StaffID == staffID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *Memory) MaternityPeriodByID(_ context.Context, id string) (*schedule.MaternityLeavePeriod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.periods[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (m *Memory) CreateMaternityPeriod(_ context.Context, p schedule.MaternityLeavePeriod) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.periods[p.ID]; !ok {
		m.periodOrder = append(m.periodOrder, p.ID)
	}
	m.periods[p.ID] = p
	return nil
}

func (m *Memory) SetMaternityStatus(_ context.Context, id string, status schedule.MaternityStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.periods[id]
	if !ok {
		return schedule.ErrPeriodNotFound
	}
	p.Status = status
	m.periods[id] = p
	return nil
}

// =============================================================================
// LEAVE BALANCES
// =============================================================================

func (m *Memory) Balance(_ context.Context, staffID string, year int) (*leave.Balance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.balances[balKey{StaffID: staffID, Year: year}]; ok {
		return &b, nil
	}
	return nil, nil
}

func (m *Memory) SaveBalance(_ context.Context, b leave.Balance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[balKey{StaffID: b.StaffID, Year: b.Year}] = b
	return nil
}

// =============================================================================
// LEAVE HISTORY - Append-only; the only mutation is the status flip
// =============================================================================

func (m *Memory) AppendHistory(_ context.Context, e leave.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.history[e.ID]; !ok {
		m.historyOrder = append(m.historyOrder, e.ID)
	}
	m.history[e.ID] = e
	return nil
}

func (m *Memory) HistoryByID(_ context.Context, id string) (*leave.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.history[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (m *Memory) SetHistoryStatus(_ context.Context, id string, status leave.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.history[id]
	if !ok {
		return leave.ErrHistoryNotFound
	}
	e.Status = status
	m.history[id] = e
	return nil
}

func (m *Memory) ApprovedEntry(_ context.Context, staffID string, date roster.Date) (*leave.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.history {
		if e.StaffID == staffID && e.Date == date && e.Status == leave.StatusApproved {
			out := e
			return &out, nil
		}
	}
	return nil, nil
}

func (m *Memory) History(_ context.Context, staffID string, year int) ([]leave.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []leave.Entry
	for i := len(m.historyOrder) - 1; i >= 0; i-- {
		e := m.history[m.historyOrder[i]]
		if staffID != "" && e.StaffID != staffID {
			continue
		}
		if year != 0 && e.Date.Year != year {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// =============================================================================
// STAFF
// =============================================================================

func (m *Memory) ListStaff(_ context.Context) ([]roster.StaffMember, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]roster.StaffMember, 0, len(m.staffOrder))
	for _, id := range m.staffOrder {
		out = append(out, m.staff[id])
	}
	return out, nil
}

func (m *Memory) GetStaff(_ context.Context, id string) (*roster.StaffMember, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.staff[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (m *Memory) SaveStaff(_ context.Context, s roster.StaffMember) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.staff[s.ID]; !ok {
		m.staffOrder = append(m.staffOrder, s.ID)
	}
	m.staff[s.ID] = s
	return nil
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (m *Memory) ListHolidays(_ context.Context, year int) ([]roster.PublicHoliday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []roster.PublicHoliday
	for _, h := range m.holidays {
		if h.Date.Year == year {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *Memory) SaveHoliday(_ context.Context, h roster.PublicHoliday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holidays[h.ID] = h
	return nil
}

func (m *Memory) DeleteHoliday(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.holidays, id)
	return nil
}

// =============================================================================
// TRANSACTIONS - Snapshot + rollback on error
// =============================================================================

// WithTx serializes transactions and restores the pre-transaction
// snapshot when fn fails. Readers may observe intermediate state
// mid-transaction; reads are non-transactional and accept that window.
func (m *Memory) WithTx(ctx context.Context, fn func(schedule.Tables) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	snap := m.snapshot()
	if err := fn(m); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

type memorySnapshot struct {
	drafts       map[slot]schedule.Override
	published    map[slot]schedule.Override
	markers      map[ym]schedule.DraftMonth
	replacements map[string]schedule.ReplacementShift
	periods      map[string]schedule.MaternityLeavePeriod
	periodOrder  []string
	balances     map[balKey]leave.Balance
	history      map[string]leave.Entry
	historyOrder []string
}

func copyMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (m *Memory) snapshot() memorySnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return memorySnapshot{
		drafts:       copyMap(m.drafts),
		published:    copyMap(m.published),
		markers:      copyMap(m.markers),
		replacements: copyMap(m.replacements),
		periods:      copyMap(m.periods),
		periodOrder:  append([]string(nil), m.periodOrder...),
		balances:     copyMap(m.balances),
		history:      copyMap(m.history),
		historyOrder: append([]string(nil), m.historyOrder...),
	}
}

func (m *Memory) restore(s memorySnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts = s.drafts
	m.published = s.published
	m.markers = s.markers
	m.replacements = s.replacements
	m.periods = s.periods
	m.periodOrder = s.periodOrder
	m.balances = s.balances
	m.history = s.history
	m.historyOrder = s.historyOrder
}
