// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, not found, invalid input).
	UserError = 1

	// AuthError indicates the session is missing or login was rejected.
	AuthError = 2

	// BackendError indicates an API or network error.
	BackendError = 3
)
