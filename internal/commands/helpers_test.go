package commands_test

import (
	"bufio"
	"bytes"
	"context"
	"flag"
	"io"
	"strings"
	"testing"

	"taskman/internal/commands"
	"taskman/internal/config"
	"taskman/internal/session"
	"taskman/internal/store"
	"taskman/internal/testutil"
)

// env is a command environment backed by in-memory fakes.
type env struct {
	cfg   *config.Config
	svc   *testutil.FakeService
	auth  *testutil.FakeAuthenticator
	store *store.MemoryStore
	deps  *commands.Deps
}

// newEnv creates an anonymous environment whose prompts read input.
func newEnv(t *testing.T, input string) *env {
	t.Helper()

	svc := testutil.NewFakeService()
	auth := testutil.NewFakeAuthenticator()
	auth.AddUser("alice", "secret")
	st := store.NewMemoryStore()

	return &env{
		cfg: &config.Config{
			Dir:    t.TempDir(),
			APIURL: "http://api.test",
			Input:  bufio.NewReader(strings.NewReader(input)),
		},
		svc:   svc,
		auth:  auth,
		store: st,
		deps: &commands.Deps{
			Session:  session.New(st, auth),
			Tasks:    svc,
			Accounts: svc,
		},
	}
}

// loggedIn creates an environment with alice logged in.
func loggedIn(t *testing.T, input string) *env {
	t.Helper()
	e := newEnv(t, input)
	if _, err := e.deps.Session.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	return e
}

// run parses args with the command's flags and runs it.
func (e *env) run(t *testing.T, cmd commands.Command, args ...string) (stdout, stderr string, code int) {
	t.Helper()

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("flag parse failed: %v", err)
	}

	var outBuf, errBuf bytes.Buffer
	deps := e.deps
	if !cmd.NeedsSession() {
		deps = nil
	}
	code = cmd.Run(context.Background(), e.cfg, deps, fs.Args(), &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}
