// Package session owns who is logged in: the bearer credential, the identity
// decoded from it, their persisted copies, and the API client's credential.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"taskman/internal/service"
	"taskman/internal/store"
)

// Keys under which the session is persisted.
const (
	CredentialKey = "token"
	IdentityKey   = "user"
)

// ErrSessionChanged is returned by Login when the session was logged out
// while the login request was in flight. The late response is discarded.
var ErrSessionChanged = errors.New("session changed during login")

// Authenticator is the part of the API client the session drives.
type Authenticator interface {
	// Login exchanges credentials for a bearer token.
	Login(ctx context.Context, username, password string) (string, error)

	// SetCredential attaches token to every subsequent request.
	SetCredential(token string)

	// ClearCredential stops attaching any credential.
	ClearCredential()
}

// Session is the single source of truth for the logged-in user.
// It is the only writer of the API client's credential.
//
// The zero state is anonymous. A session becomes authenticated through
// Initialize (restoring a persisted credential) or Login, and anonymous
// again through Logout or any failure to decode the credential.
type Session struct {
	store store.Store
	auth  Authenticator
	log   *slog.Logger

	mu         sync.RWMutex
	identity   *Identity
	credential string
	generation uint64 // bumped by Logout
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates an anonymous session persisting to st and driving auth.
func New(st store.Store, auth Authenticator, opts ...Option) *Session {
	s := &Session{
		store: st,
		auth:  auth,
		log:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize restores a previously persisted session. With no persisted
// credential the session stays anonymous. A credential that does not
// decode discards the persisted state. Otherwise the persisted identity is
// used as is, or replaced by the decoded one if it is missing or unreadable.
// Calling Initialize again with the same persisted state yields the same session.
func (s *Session) Initialize() error {
	credential, ok, err := s.store.Get(CredentialKey)
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}
	if !ok || credential == "" {
		s.log.Debug("no persisted session")
		return nil
	}

	identity, err := s.restoreIdentity(credential)
	if err != nil {
		s.log.Warn("discarding persisted session", "err", err)
		s.mu.Lock()
		s.reset()
		s.mu.Unlock()
		return s.clearStore()
	}

	s.mu.Lock()
	s.credential = credential
	s.identity = &identity
	s.auth.SetCredential(credential)
	s.mu.Unlock()

	s.log.Debug("session restored", "username", identity.Username)
	return nil
}

func (s *Session) restoreIdentity(credential string) (Identity, error) {
	decoded, err := DecodeIdentity(credential)
	if err != nil {
		return Identity{}, err
	}

	raw, ok, err := s.store.Get(IdentityKey)
	if err == nil && ok {
		var identity Identity
		if err := json.Unmarshal([]byte(raw), &identity); err == nil && identity.Username != "" {
			return identity, nil
		}
		s.log.Debug("persisted identity unreadable, using decoded credential")
	}

	identity := decoded
	data, err := json.Marshal(identity)
	if err != nil {
		return Identity{}, err
	}
	if err := s.store.Set(IdentityKey, string(data)); err != nil {
		return Identity{}, err
	}
	return identity, nil
}

// Login authenticates against the API. On success the credential and the
// identity decoded from it are persisted and the API client starts sending
// the credential.
//
// A rejected or failed request returns an error wrapping
// service.ErrAuthentication and leaves the session unchanged. A credential
// that cannot be decoded also fails with service.ErrAuthentication and
// leaves the session anonymous.
func (s *Session) Login(ctx context.Context, username, password string) (Identity, error) {
	s.mu.RLock()
	gen := s.generation
	s.mu.RUnlock()

	credential, err := s.auth.Login(ctx, username, password)
	if err != nil {
		s.log.Debug("login failed", "username", username, "err", err)
		if errors.Is(err, service.ErrAuthentication) {
			return Identity{}, err
		}
		return Identity{}, fmt.Errorf("%w: %w", service.ErrAuthentication, err)
	}

	identity, err := DecodeIdentity(credential)
	if err != nil {
		s.log.Warn("login returned an undecodable credential", "err", err)
		s.mu.Lock()
		s.reset()
		s.mu.Unlock()
		if clearErr := s.clearStore(); clearErr != nil {
			s.log.Warn("failed to clear persisted session", "err", clearErr)
		}
		return Identity{}, fmt.Errorf("%w: %w", service.ErrAuthentication, err)
	}

	identityJSON, err := json.Marshal(identity)
	if err != nil {
		return Identity{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != gen {
		s.log.Debug("discarding login response after logout", "username", username)
		return Identity{}, ErrSessionChanged
	}

	if err := s.persist(credential, string(identityJSON)); err != nil {
		return Identity{}, err
	}

	s.credential = credential
	s.identity = &identity
	s.auth.SetCredential(credential)

	s.log.Debug("logged in", "username", identity.Username)
	return identity, nil
}

// persist writes both entries or neither. Callers hold s.mu.
func (s *Session) persist(credential, identityJSON string) error {
	if err := s.store.Set(IdentityKey, identityJSON); err != nil {
		s.rollback()
		return fmt.Errorf("failed to save session: %w", err)
	}
	if err := s.store.Set(CredentialKey, credential); err != nil {
		s.rollback()
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// rollback restores the persisted entries of the current in-memory session.
func (s *Session) rollback() {
	if s.identity == nil {
		_ = s.clearStore()
		return
	}
	data, err := json.Marshal(s.identity)
	if err == nil {
		_ = s.store.Set(IdentityKey, string(data))
	}
	_ = s.store.Set(CredentialKey, s.credential)
}

// Logout makes the session anonymous: the in-memory identity and
// credential are dropped, the API client stops sending the credential,
// and both persisted entries are removed. The in-memory and client state
// are always cleared; a returned error only reports a storage failure.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.generation++
	s.reset()
	s.mu.Unlock()

	if err := s.clearStore(); err != nil {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	s.log.Debug("logged out")
	return nil
}

// reset drops in-memory state and the client credential. Callers hold s.mu.
func (s *Session) reset() {
	s.identity = nil
	s.credential = ""
	s.auth.ClearCredential()
}

func (s *Session) clearStore() error {
	errCred := s.store.Delete(CredentialKey)
	errID := s.store.Delete(IdentityKey)
	return errors.Join(errCred, errID)
}

// CurrentIdentity returns a copy of the logged-in identity, or nil when anonymous.
func (s *Session) CurrentIdentity() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	id := *s.identity
	return &id
}

// Authenticated reports whether an identity is present.
func (s *Session) Authenticated() bool {
	return s.CurrentIdentity() != nil
}

// Credential returns the current bearer token, or "" when anonymous.
func (s *Session) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}
