package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/google/shlex"

	"taskman/internal/exitcode"
)

const (
	shellName   = "shell"
	shellPrompt = "taskman> "
)

var errInvalidLine = errors.New("invalid line")

// runShell reads command lines from stdin until EOF or exit. All commands
// share one session, so a login or logout is seen by the next command.
func (d *Dispatcher) runShell(ctx context.Context, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(shellName, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var common commonFlags
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		return flagError(err, errOut)
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", fs.Arg(0))
		return exitcode.UserError
	}

	e, code := d.newEnv(ctx, common, true, errOut)
	if e == nil {
		return code
	}
	e.log.Debug("shell started", "api", e.cfg.APIURL)

	for ctx.Err() == nil {
		if !e.cfg.Quiet {
			fmt.Fprint(out, shellPrompt)
		}
		line, err := e.cfg.Input.ReadString('\n')
		if strings.TrimSpace(line) != "" && d.runLine(ctx, e, line, out, errOut) {
			return exitcode.Success
		}
		if err != nil {
			if !e.cfg.Quiet {
				fmt.Fprintln(out)
			}
			return exitcode.Success
		}
	}
	return exitcode.Success
}

// runLine runs one shell line. It returns true when the shell should exit.
func (d *Dispatcher) runLine(ctx context.Context, e *env, line string, out, errOut io.Writer) bool {
	fields, err := splitLine(line)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return false
	}
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "exit", "quit":
		return true
	case shellName:
		fmt.Fprintln(errOut, "error: already in shell")
		return false
	}

	cmd, ok := d.registry.Find(fields[0])
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", fields[0])
		return false
	}
	code := d.dispatchCommand(ctx, cmd, fields[1:], e, out, errOut)
	e.log.Debug("command finished", "command", cmd.Name(), "code", code)
	return false
}

// splitLine splits a shell line into words with shell quoting rules.
// A '#' at the start of a word begins a comment.
func splitLine(line string) ([]string, error) {
	words, err := shlex.Split(strings.TrimRight(line, "\r\n"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidLine, err)
	}
	return words, nil
}
