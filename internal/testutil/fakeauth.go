package testutil

import (
	"context"
	"fmt"
	"sync"

	"taskman/internal/service"
)

// FakeAuthenticator is an in-memory session.Authenticator. Login succeeds
// for known users and answers with a token whose payload names the user.
type FakeAuthenticator struct {
	mu         sync.Mutex
	users      map[string]string
	credential string

	// LoginErr, when set, fails every login.
	LoginErr error
}

// NewFakeAuthenticator creates an authenticator with no users.
func NewFakeAuthenticator() *FakeAuthenticator {
	return &FakeAuthenticator{users: make(map[string]string)}
}

// AddUser registers a username/password pair.
func (f *FakeAuthenticator) AddUser(username, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[username] = password
}

// Login implements session.Authenticator.
func (f *FakeAuthenticator) Login(ctx context.Context, username, password string) (string, error) {
	if f.LoginErr != nil {
		return "", f.LoginErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if pw, ok := f.users[username]; !ok || pw != password {
		return "", fmt.Errorf("%w: Invalid credentials (HTTP 401)", service.ErrAuthentication)
	}
	return Token(map[string]any{"sub": map[string]any{"username": username}}), nil
}

// SetCredential implements session.Authenticator.
func (f *FakeAuthenticator) SetCredential(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.credential = token
}

// ClearCredential implements session.Authenticator.
func (f *FakeAuthenticator) ClearCredential() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.credential = ""
}

// Credential returns the credential currently installed.
func (f *FakeAuthenticator) Credential() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.credential
}
