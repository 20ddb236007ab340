package service

import "errors"

// Error kinds surfaced by backend operations. Backends wrap the underlying
// cause with one of these so callers can use errors.Is.
var (
	// ErrAuthentication indicates rejected credentials or an unreachable API during login.
	ErrAuthentication = errors.New("authentication failed")

	// ErrRegistration indicates the API rejected a registration.
	ErrRegistration = errors.New("registration failed")

	// ErrFetch indicates a failed task read.
	ErrFetch = errors.New("failed to fetch tasks")

	// ErrSubmit indicates a failed task create or update.
	ErrSubmit = errors.New("failed to save task")

	// ErrDelete indicates a failed task delete.
	ErrDelete = errors.New("failed to delete task")
)
