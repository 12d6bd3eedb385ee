package repository

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when the store has no row for the requested
	// account or customer. It is an expected business outcome, not a fault.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a uniqueness constraint (username,
	// email, phone number) rejects an insert.
	ErrDuplicate = errors.New("already exists")
)

// isUniqueViolation recognizes a uniqueness-constraint failure from either
// supported driver.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
