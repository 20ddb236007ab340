package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"

	"taskman/internal/config"
)

var (
	errNoInput      = errors.New("no input")
	errInvalidInput = errors.New("invalid input")
)

// prompt writes label to w and reads one line from cfg.Input, without the
// line terminator. A final line without newline is accepted.
func prompt(cfg *config.Config, w io.Writer, label string) (string, error) {
	fmt.Fprintf(w, "%s: ", label)
	if cfg.Input == nil {
		return "", errNoInput
	}
	line, err := cfg.Input.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", err
		}
		if line == "" {
			return "", errNoInput
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// promptPassword reads a secret. On a terminal echo is off while typing;
// otherwise it reads a line like prompt.
func promptPassword(cfg *config.Config, w io.Writer, label string) (string, error) {
	if cfg.Terminal == nil {
		return prompt(cfg, w, label)
	}
	fmt.Fprintf(w, "%s: ", label)
	secret, err := term.ReadPassword(int(cfg.Terminal.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errNoInput, err)
	}
	return string(secret), nil
}

// confirm asks a yes/no question. Anything but y or yes is no.
func confirm(cfg *config.Config, w io.Writer, question string) bool {
	answer, err := prompt(cfg, w, question+" [y/N]")
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
