/*
pattern.go - Static shift table and biweekly pattern library

PURPOSE:
  Pure data: the closed table of shift definitions, the per-staff
  biweekly patterns for the legacy roster, and per-role default
  patterns for newly added staff without an explicit pattern.

PATTERN SHAPE:
  A WeekPattern maps weekday (0=Sunday .. 6=Saturday) to a ShiftKey;
  the empty key means no shift that day. A BiweeklyPattern is two week
  templates selected by ISO week parity (see PatternIndex in time.go).

LOOKUP ORDER (used by the generator):
  1. Holiday           -> no shift, unconditionally
  2. Explicit per-staff pattern entry
  3. Role default pattern, masked by the staff member's off-days

SEE ALSO:
  - generator.go: Applies these patterns to a month grid
*/
package roster

import "github.com/shopspring/decimal"

// =============================================================================
// SHIFT TABLE - Closed set of shift definitions
// =============================================================================

const (
	ShiftFull    ShiftKey = "full"
	ShiftMorning ShiftKey = "morning"
	ShiftEvening ShiftKey = "evening"
	ShiftHalf    ShiftKey = "half"
)

var shiftTable = map[ShiftKey]ShiftDefinition{
	ShiftFull:    {Key: ShiftFull, Label: "Full Day", Start: "09:00", End: "22:00", Hours: decimal.RequireFromString("11.5")},
	ShiftMorning: {Key: ShiftMorning, Label: "Morning", Start: "09:00", End: "17:00", Hours: decimal.RequireFromString("7")},
	ShiftEvening: {Key: ShiftEvening, Label: "Evening", Start: "14:00", End: "22:00", Hours: decimal.RequireFromString("7")},
	ShiftHalf:    {Key: ShiftHalf, Label: "Half Day", Start: "09:00", End: "13:00", Hours: decimal.RequireFromString("4")},
}

// LookupShift resolves a key against the closed shift table.
// Returns nil for the empty key or an unknown key.
func LookupShift(key ShiftKey) *ShiftDefinition {
	if key == "" {
		return nil
	}
	if def, ok := shiftTable[key]; ok {
		return &def
	}
	return nil
}

// ShiftKeys returns all valid keys, for validation of incoming writes.
func ShiftKeys() []ShiftKey {
	return []ShiftKey{ShiftFull, ShiftMorning, ShiftEvening, ShiftHalf}
}

// ValidShiftKey reports whether the key exists in the shift table.
// The empty key is valid: it means an explicit "Off".
func ValidShiftKey(key ShiftKey) bool {
	if key == "" {
		return true
	}
	_, ok := shiftTable[key]
	return ok
}

// =============================================================================
// BIWEEKLY PATTERNS
// =============================================================================

// WeekPattern maps weekday index (0=Sunday) to a shift key.
// The empty key means no shift.
type WeekPattern [7]ShiftKey

// BiweeklyPattern holds the two alternating week templates. Index 0
// applies on odd ISO weeks, index 1 on even ISO weeks.
type BiweeklyPattern [2]WeekPattern

// Shift returns the shift key for a date under this pattern.
func (p BiweeklyPattern) Shift(d Date) ShiftKey {
	return p[PatternIndex(d)][int(d.Weekday())]
}

// PatternLibrary resolves biweekly patterns for staff. Implementations
// are pure data; the generator never mutates them.
type PatternLibrary interface {
	// StaffPattern returns the explicit pattern for a staff ID, or
	// ok=false when the staff member has none (newly added staff).
	StaffPattern(staffID string) (BiweeklyPattern, bool)

	// RolePattern returns the default pattern for a role.
	RolePattern(role Role) BiweeklyPattern
}

// =============================================================================
// STATIC LIBRARY - Legacy roster patterns
// =============================================================================

// Indices below run Sunday..Saturday.
var legacyStaffPatterns = map[string]BiweeklyPattern{
	// siti: pharmacist, rest days Monday and Tuesday.
	"siti": {
		{ShiftMorning, "", "", ShiftFull, ShiftFull, ShiftEvening, ShiftEvening},
		{ShiftEvening, "", "", ShiftFull, ShiftFull, ShiftMorning, ShiftMorning},
	},
	// fatimah: pharmacist, rest days Wednesday and Thursday.
	"fatimah": {
		{ShiftEvening, ShiftFull, ShiftFull, "", "", ShiftMorning, ShiftMorning},
		{ShiftMorning, ShiftFull, ShiftFull, "", "", ShiftEvening, ShiftEvening},
	},
	// aisyah: assistant, rest days Sunday and Monday.
	"aisyah": {
		{"", "", ShiftMorning, ShiftMorning, ShiftEvening, ShiftFull, ShiftFull},
		{"", "", ShiftEvening, ShiftEvening, ShiftMorning, ShiftFull, ShiftFull},
	},
	// farid: assistant, rest days Friday and Saturday.
	"farid": {
		{ShiftFull, ShiftEvening, ShiftEvening, ShiftMorning, ShiftMorning, "", ""},
		{ShiftFull, ShiftMorning, ShiftMorning, ShiftEvening, ShiftEvening, "", ""},
	},
}

var roleDefaultPatterns = map[Role]BiweeklyPattern{
	RolePharmacist: {
		{ShiftMorning, ShiftMorning, ShiftFull, ShiftFull, ShiftEvening, ShiftEvening, ShiftMorning},
		{ShiftEvening, ShiftEvening, ShiftFull, ShiftFull, ShiftMorning, ShiftMorning, ShiftEvening},
	},
	RoleAssistant: {
		{ShiftEvening, ShiftFull, ShiftMorning, ShiftMorning, ShiftFull, ShiftEvening, ShiftEvening},
		{ShiftMorning, ShiftFull, ShiftEvening, ShiftEvening, ShiftFull, ShiftMorning, ShiftMorning},
	},
}

// StaticPatterns is the built-in pattern library for the legacy roster.
type StaticPatterns struct{}

func (StaticPatterns) StaffPattern(staffID string) (BiweeklyPattern, bool) {
	p, ok := legacyStaffPatterns[staffID]
	return p, ok
}

func (StaticPatterns) RolePattern(role Role) BiweeklyPattern {
	if p, ok := roleDefaultPatterns[role]; ok {
		return p
	}
	return roleDefaultPatterns[RoleAssistant]
}
