package commands

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"
)

// ErrTaskIDRequired indicates no task id was provided.
var ErrTaskIDRequired = errors.New("task id required")

var errInvalidTaskID = errors.New("invalid task id")

// ParseTaskID parses the task id from args. It accepts exactly one
// positive decimal id, optionally prefixed with '#'.
func ParseTaskID(args []string) (int, error) {
	if len(args) == 0 {
		return 0, ErrTaskIDRequired
	}
	if len(args) > 1 {
		return 0, fmt.Errorf("unexpected argument: %s", args[1])
	}

	ref := args[0]
	if len(ref) > 0 && ref[0] == '#' {
		ref = ref[1:]
	}
	if !isAllDigits(ref) {
		return 0, fmt.Errorf("%w: %s", errInvalidTaskID, args[0])
	}
	id, err := strconv.Atoi(ref)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: %s", errInvalidTaskID, args[0])
	}
	return id, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
