/*
errors.go - Centralized error taxonomy for the roster engine

PURPOSE:
  All error categories in one place for consistency and discoverability.
  Domain packages (schedule, leave, staff) wrap these with additional
  context; the API layer maps categories to HTTP status codes.

ERROR CATEGORIES:
  1. Not found    - missing draft month, staff, history entry (404)
  2. Conflict     - overlapping maternity period, duplicate staff (409)
  3. Validation   - malformed dates, missing required fields (400)
  4. Persistence  - aborted transactions; no partial writes survive (500)

USAGE:
  Domain packages wrap the category sentinels:

    var ErrNoDraft = fmt.Errorf("no draft for month: %w", roster.ErrNotFound)

  Callers test categories, not concrete errors:

    if roster.IsNotFound(err) { ... }

SEE ALSO:
  - schedule/types.go: Draft/publish error values
  - leave/ledger.go: Ledger error values
*/
package roster

import (
	"errors"
	"fmt"
)

// =============================================================================
// CATEGORY SENTINELS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is the category for missing records: no DraftMonth when
	// publish/discard is requested, unknown staff, unknown history entry.
	ErrNotFound = errors.New("not found")

	// ErrConflict is the category for state conflicts: overlapping
	// maternity periods, duplicate staff IDs, double cancellation.
	ErrConflict = errors.New("conflict")

	// ErrValidation is the category for malformed input: bad dates,
	// missing required fields, changes outside the target month.
	ErrValidation = errors.New("validation failed")

	// ErrPersistence is the category for aborted transactions. The
	// transaction guarantee means no partial writes survive it.
	ErrPersistence = errors.New("persistence failure")
)

// =============================================================================
// CATEGORY HELPERS
// =============================================================================

func IsNotFound(err error) bool   { return errors.Is(err, ErrNotFound) }
func IsConflict(err error) bool   { return errors.Is(err, ErrConflict) }
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsClientError returns true if the error is due to invalid client input
// rather than a server-side failure.
func IsClientError(err error) bool {
	return IsNotFound(err) || IsConflict(err) || IsValidation(err)
}

// PersistenceError wraps a storage failure with its underlying cause.
type PersistenceError struct {
	Op    string // operation that aborted, e.g. "publish", "save draft"
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s aborted: %v", e.Op, e.Cause)
}

func (e *PersistenceError) Unwrap() error { return ErrPersistence }
