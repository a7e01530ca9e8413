package muxhandlers

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"

	"github.com/vitalvas/kestrel/mux"
)

// ErrNoAuthSource is returned when BasicAuthConfig has neither ValidateFunc
// nor Credentials configured.
var ErrNoAuthSource = errors.New("basic auth: at least one of ValidateFunc or Credentials must be set")

// basicAuthUserKey is the request value key holding the authenticated user.
type basicAuthUserKey struct{}

// BasicAuthConfig configures the Basic Auth middleware behaviour.
type BasicAuthConfig struct {
	// Realm is sent in the WWW-Authenticate header. Defaults to "Restricted".
	Realm string

	// ValidateFunc validates credentials dynamically. Takes priority over
	// Credentials when both are set.
	ValidateFunc func(username, password string) bool

	// Credentials is a static username to password map, compared in
	// constant time.
	Credentials map[string]string
}

// BasicUser returns the user authenticated by BasicAuthMiddleware for r, or
// "" when the request did not pass through it.
func BasicUser(r *http.Request) string {
	v, _ := mux.Value(r, basicAuthUserKey{}).(string)
	return v
}

// BasicAuthMiddleware returns a middleware that implements HTTP Basic
// Authentication per RFC 7617. It answers 401 Unauthorized with an empty
// body when credentials are missing or invalid; otherwise the user name is
// available to later handlers through BasicUser.
//
// It returns ErrNoAuthSource if both ValidateFunc and Credentials are nil/empty.
func BasicAuthMiddleware(cfg BasicAuthConfig) (mux.MiddlewareFunc, error) {
	if cfg.ValidateFunc == nil && len(cfg.Credentials) == 0 {
		return nil, ErrNoAuthSource
	}

	realm := cfg.Realm
	if realm == "" {
		realm = "Restricted"
	}

	wwwAuthenticate := fmt.Sprintf("Basic realm=%q", realm)

	validate := cfg.ValidateFunc
	if validate == nil {
		credentials := cfg.Credentials
		validate = func(username, password string) bool {
			expected, exists := credentials[username]
			// Compare even for unknown users so timing does not reveal them.
			match := constantTimeEqual(password, expected)
			return exists && match
		}
	}

	return func(w http.ResponseWriter, r *http.Request, next mux.Next) error {
		username, password, ok := r.BasicAuth()
		if !ok || !validate(username, password) {
			w.Header().Set("WWW-Authenticate", wwwAuthenticate)
			w.WriteHeader(http.StatusUnauthorized)
			return nil
		}

		mux.SetValue(r, basicAuthUserKey{}, username)

		return next()
	}, nil
}

// constantTimeEqual hashes both strings first so that differing lengths do
// not leak through the comparison time.
func constantTimeEqual(a, b string) bool {
	aHash := sha256.Sum256([]byte(a))
	bHash := sha256.Sum256([]byte(b))

	return subtle.ConstantTimeCompare(aHash[:], bHash[:]) == 1
}
