package client

import (
	"fmt"
	"net/http"
)

// Credentials attaches authentication to outgoing requests and to the
// shared SSE connection (spec.md §4.J requires one SSE connection per
// distinct (endpoint, Credentials) pair). Apply/CacheKey are exported so
// package change can accept a Credentials value through its own structural
// credentialApplier interface without importing this package.
type Credentials interface {
	Apply(req *http.Request) error
	CacheKey() string
}

// BasicAuth attaches HTTP Basic Authentication, the teacher's own default
// auth mode across http/client.go, db/graphdb.go, and db/couchdb.go.
type BasicAuth struct {
	User string
	Pass string
}

func (b BasicAuth) Apply(req *http.Request) error {
	req.SetBasicAuth(b.User, b.Pass)
	return nil
}

func (b BasicAuth) CacheKey() string { return "basic:" + b.User }

// BearerToken attaches an "Authorization: Bearer <token>" header. Either a
// static Token or a TokenSource may be set; TokenSource takes precedence
// and is called on every request, letting a caller refresh a JWT minted via
// golang-jwt/jwt/v5 out-of-band without reconstructing the client.
type BearerToken struct {
	Token       string
	TokenSource func() (string, error)
}

func (b BearerToken) Apply(req *http.Request) error {
	tok := b.Token
	if b.TokenSource != nil {
		t, err := b.TokenSource()
		if err != nil {
			return fmt.Errorf("client: refresh bearer token: %w", err)
		}
		tok = t
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	return nil
}

func (b BearerToken) CacheKey() string {
	if b.TokenSource != nil {
		return "bearer:dynamic"
	}
	return "bearer:" + b.Token
}

// NoCredentials attaches nothing, for servers running without auth.
type NoCredentials struct{}

func (NoCredentials) Apply(*http.Request) error { return nil }
func (NoCredentials) CacheKey() string          { return "none" }
