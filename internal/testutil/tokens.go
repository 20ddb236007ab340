package testutil

import (
	"encoding/base64"
	"encoding/json"
)

// Token builds a "<header>.<payload>.<sig>" credential whose payload is the
// base64url JSON encoding of claims. The signature segment is not valid.
func Token(claims map[string]any) string {
	payload, err := json.Marshal(claims)
	if err != nil {
		panic(err)
	}
	return RawToken(string(payload))
}

// RawToken is like Token but takes the payload JSON verbatim.
func RawToken(payload string) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	body := base64.RawURLEncoding.EncodeToString([]byte(payload))
	return header + "." + body + ".c2lnbmF0dXJl"
}
