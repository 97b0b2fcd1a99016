package apperror

import (
	"errors"
	"fmt"
)

// Common error kinds shared by services and repositories. Handlers and the
// CLI map these to status codes / exit codes.
var (
	// ErrValidation is returned for malformed input (bad filter, page,
	// limit, or identifier).
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a board, task, user, or permission
	// row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned for a duplicate permission grant or a
	// revoke of a role the user does not hold.
	ErrConflict = errors.New("conflict")

	// ErrForbidden is used by callers when a capability check fails.
	// The authorization service itself only returns booleans.
	ErrForbidden = errors.New("forbidden")
)

// MigrationError reports a SQL statement that failed mid-file. The
// migration run aborts on the first one; the ledger keeps only the files
// that fully completed.
type MigrationError struct {
	Filename  string
	Statement string
	Err       error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("migration %s failed: %v", e.Filename, e.Err)
}

func (e *MigrationError) Unwrap() error {
	return e.Err
}

func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrNotFound}, args...)...)
}

func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrConflict}, args...)...)
}
