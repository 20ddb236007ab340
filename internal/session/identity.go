package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrDecode indicates a credential whose payload does not yield an identity.
var ErrDecode = errors.New("malformed credential")

// Identity identifies the logged-in user. It is derived from the credential's
// payload segment and persisted alongside it.
type Identity struct {
	Username  string     `json:"username"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// DecodeIdentity extracts the identity from a three-segment bearer token.
// Only the payload segment is read. The header and signature belong to the
// API and are not inspected.
//
// The username comes from a top-level "username" claim, or from "sub" when
// it is either a string or an object with a "username" field.
func DecodeIdentity(credential string) (Identity, error) {
	if strings.Count(credential, ".") != 2 {
		return Identity{}, fmt.Errorf("%w: expected three segments", ErrDecode)
	}

	payload, err := jwt.NewParser(jwt.WithPaddingAllowed()).DecodeSegment(strings.Split(credential, ".")[1])
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	claims := jwt.MapClaims{}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	username := usernameFromClaims(claims)
	if username == "" {
		return Identity{}, fmt.Errorf("%w: no username claim", ErrDecode)
	}

	id := Identity{Username: username}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time.UTC()
		id.ExpiresAt = &t
	}
	return id, nil
}

func usernameFromClaims(claims jwt.MapClaims) string {
	if name, ok := claims["username"].(string); ok && name != "" {
		return name
	}
	switch sub := claims["sub"].(type) {
	case string:
		return sub
	case map[string]any:
		if name, ok := sub["username"].(string); ok {
			return name
		}
	}
	return ""
}
