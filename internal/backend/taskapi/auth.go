package taskapi

import (
	"errors"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

// errNoCredential is returned by Token when no bearer credential is set.
var errNoCredential = errors.New("no credential set")

// credential holds the bearer token attached to every outgoing request.
// It is the client's only default-header state.
type credential struct {
	mu  sync.RWMutex
	tok *oauth2.Token
}

func (c *credential) set(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if token == "" {
		c.tok = nil
		return
	}
	c.tok = &oauth2.Token{AccessToken: token, TokenType: "Bearer"}
}

func (c *credential) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tok = nil
}

// Token implements oauth2.TokenSource.
func (c *credential) Token() (*oauth2.Token, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.tok == nil {
		return nil, errNoCredential
	}
	tok := *c.tok
	return &tok, nil
}

// bearerTransport adds the current credential, if any, as an
// Authorization header. Requests sent while no credential is set go out
// without one.
type bearerTransport struct {
	src  oauth2.TokenSource
	base http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	tok, err := t.src.Token()
	if err != nil {
		return t.base.RoundTrip(req)
	}
	req2 := req.Clone(req.Context())
	tok.SetAuthHeader(req2)
	return t.base.RoundTrip(req2)
}
