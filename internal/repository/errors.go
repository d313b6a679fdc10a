// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to act on a resource owned by someone else, while
// ErrProfileExists signals that onboarding was already completed.
package repository

import (
	"errors"
	"strings"
)

// ErrEmailExists is returned when registration collides with an
// existing account. Handlers translate this into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrProfileExists is returned when a second skin profile insert is
// attempted for the same user. Handlers translate this into HTTP 409.
var ErrProfileExists = errors.New("profile already exists")

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrNotFound is returned when a referenced row does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// isDuplicate reports whether err is a unique-key violation. MySQL
// reports error 1062; the SQLite driver used in tests reports a
// "UNIQUE constraint failed" message.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1062") || strings.Contains(msg, "unique constraint")
}
