// Package views holds the state behind each task screen. Every view owns a
// Scope; closing it cancels in-flight requests and keeps late responses
// from touching the view's state.
package views

import (
	"context"
	"errors"
	"sync"
)

// ErrViewClosed is returned for results that arrive after the view was torn down.
var ErrViewClosed = errors.New("view closed")

// Scope binds requests to a view's lifetime.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// NewScope creates a scope derived from parent.
func NewScope(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel}
}

// Context returns the context requests of this view must use.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Close tears the view down. It is safe to call more than once.
func (s *Scope) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
}

// Closed reports whether Close was called.
func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// apply runs fn with the scope lock held unless the scope is closed.
// State mutations from responses go through apply so they cannot land
// after Close.
func (s *Scope) apply(fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrViewClosed
	}
	fn()
	return nil
}
