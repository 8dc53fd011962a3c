// Package auth extracts the provider API key from the Authorization header
// and makes it available to downstream handlers through the request
// context. The key is passed through to the model provider per request and
// never stored.
package auth

import (
	"context"
	"net/http"
	"strings"
)

func New(defaultCredential string, next http.Handler) *Credential {
	return &Credential{
		Next:              next,
		DefaultCredential: defaultCredential,
	}
}

type Credential struct {
	Next http.Handler
	// DefaultCredential is used when the request carries no Authorization
	// header, so the key can be supplied out-of-band via server
	// configuration instead.
	DefaultCredential string
}

type credentialContextKey int

const credentialKey credentialContextKey = 0

func GetCredential(r *http.Request) (credential string, ok bool) {
	credential, ok = r.Context().Value(credentialKey).(string)
	return
}

// ServeHTTP never rejects the request itself. A missing credential is
// reported by the validation stage with a user-facing message.
func (c *Credential) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	credential := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
	if credential == "" {
		credential = c.DefaultCredential
	}
	r = r.WithContext(context.WithValue(r.Context(), credentialKey, credential))
	c.Next.ServeHTTP(w, r)
}
