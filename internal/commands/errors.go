package commands

import (
	"errors"
	"fmt"
	"io"

	"taskman/internal/exitcode"
	"taskman/internal/guard"
	"taskman/internal/service"
	"taskman/internal/session"
	"taskman/internal/views"
)

// ErrNotLoggedIn is reported when the guard redirects a protected view to login.
var ErrNotLoggedIn = errors.New("not logged in (run: taskman login)")

// Allow consults the guard for route with the session's current identity.
// On a redirect it prints the login hint to errOut and returns false.
func Allow(sess *session.Session, route guard.Route, errOut io.Writer) bool {
	if guard.Check(sess.CurrentIdentity(), route).Render {
		return true
	}
	fmt.Fprintf(errOut, "error: %v\n", ErrNotLoggedIn)
	return false
}

// ExitCode maps an error to the process exit code.
// Failed task calls are backend errors whatever the HTTP status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return exitcode.Success
	case errors.Is(err, ErrNotLoggedIn),
		errors.Is(err, service.ErrAuthentication),
		errors.Is(err, session.ErrSessionChanged):
		return exitcode.AuthError
	case errors.Is(err, views.ErrTitleRequired),
		errors.Is(err, ErrTaskIDRequired),
		errors.Is(err, errInvalidTaskID),
		errors.Is(err, errNoInput),
		errors.Is(err, errInvalidInput):
		return exitcode.UserError
	default:
		return exitcode.BackendError
	}
}

// fail prints err as a one-line error and returns its exit code.
func fail(errOut io.Writer, err error) int {
	fmt.Fprintf(errOut, "error: %v\n", err)
	return ExitCode(err)
}

// usage prints a user error and returns exitcode.UserError.
func usage(errOut io.Writer, format string, a ...any) int {
	fmt.Fprintf(errOut, "error: "+format+"\n", a...)
	return exitcode.UserError
}
