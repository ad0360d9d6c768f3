package server

import (
	"fmt"
	"net/http"
)

// AuthFunc maps an incoming upgrade request to an already-authenticated
// caller identity. The core never sees credentials, only the identity.
type AuthFunc func(r *http.Request) (caller string, err error)

// TokenAuth authenticates by a shared token in the query string and derives
// the caller identity from the "caller" parameter. Intended for development
// and tests; production deployments plug in their session validator here.
func TokenAuth(token string) AuthFunc {
	return func(r *http.Request) (string, error) {
		if r.URL.Query().Get("token") != token {
			return "", ErrUnauthorized
		}
		caller := r.URL.Query().Get("caller")
		if caller == "" {
			return "", fmt.Errorf("%w: missing caller", ErrUnauthorized)
		}
		return caller, nil
	}
}
