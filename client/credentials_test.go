package client

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBasicAuthApply(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	creds := BasicAuth{User: "ada", Pass: "secret"}
	require.NoError(t, creds.Apply(req))

	user, pass, ok := req.BasicAuth()
	require.True(t, ok)
	require.Equal(t, "ada", user)
	require.Equal(t, "secret", pass)
	require.Equal(t, "basic:ada", creds.CacheKey())
}

func TestBearerTokenStaticApply(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	creds := BearerToken{Token: "abc.def.ghi"}
	require.NoError(t, creds.Apply(req))
	require.Equal(t, "Bearer abc.def.ghi", req.Header.Get("Authorization"))
	require.Equal(t, "bearer:abc.def.ghi", creds.CacheKey())
}

func TestBearerTokenSourceTakesPrecedence(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	creds := BearerToken{
		Token:       "stale",
		TokenSource: func() (string, error) { return "fresh", nil },
	}
	require.NoError(t, creds.Apply(req))
	require.Equal(t, "Bearer fresh", req.Header.Get("Authorization"))
	require.Equal(t, "bearer:dynamic", creds.CacheKey())
}

func TestBearerTokenSourceErrorPropagates(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	creds := BearerToken{
		TokenSource: func() (string, error) { return "", errors.New("refresh failed") },
	}
	err := creds.Apply(req)
	require.Error(t, err)
}

func TestNoCredentialsAppliesNothing(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	require.NoError(t, NoCredentials{}.Apply(req))
	require.Empty(t, req.Header.Get("Authorization"))
	require.Equal(t, "none", NoCredentials{}.CacheKey())
}
