package clienttest

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInfoEndpoint(t *testing.T) {
	s := New()
	defer s.Close()

	resp, err := http.Get(s.URL() + "/api/info")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateAndListDatabase(t *testing.T) {
	s := New()
	defer s.Close()

	req, _ := http.NewRequest(http.MethodPost, s.URL()+"/api/db/admin/mydb", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	listResp, err := http.Get(s.URL() + "/api/db")
	require.NoError(t, err)
	defer listResp.Body.Close()
	require.Equal(t, http.StatusOK, listResp.StatusCode)
}

func TestPublishWithNoSubscribersDoesNotBlock(t *testing.T) {
	s := New()
	defer s.Close()

	done := make(chan error, 1)
	go func() { done <- s.Publish("admin/mydb/local/branch/main", []map[string]string{}) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-context.Background().Done():
		t.Fatal("unreachable")
	}
}
