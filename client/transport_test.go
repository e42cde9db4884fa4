package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDoRetriesOnServerError(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&attempts, 1)
		if n < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, WithRetryCount(3), WithRetryBackoff(time.Millisecond))
	_, err := c.do(context.Background(), request{Method: http.MethodGet, Path: "/api/info", Op: "Info"})
	require.NoError(t, err)
	require.EqualValues(t, 3, atomic.LoadInt32(&attempts))
}

func TestDoDoesNotRetryOn4xx(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, WithRetryCount(3), WithRetryBackoff(time.Millisecond))
	_, err := c.do(context.Background(), request{Method: http.MethodGet, Path: "/api/document/x", Op: "GetDocument"})
	require.Error(t, err)
	require.EqualValues(t, 1, atomic.LoadInt32(&attempts), "4xx responses must not be retried")

	apiErr, ok := As(err)
	require.True(t, ok)
	require.Equal(t, KindServerAPI, apiErr.Kind())
}

func TestDoRespectsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(srv.URL, WithRetryCount(2), WithRetryBackoff(time.Millisecond))
	_, err := c.do(ctx, request{Method: http.MethodGet, Path: "/api/info", Op: "Info"})
	require.Error(t, err)
	apiErr, ok := As(err)
	require.True(t, ok)
	require.Equal(t, KindCancelled, apiErr.Kind())
}

func TestDumpFailedPayloadWritesFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"api:message":"bad shape"}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	c := New(srv.URL, WithRetryCount(0), WithLogsDir(dir))
	_, err := c.do(context.Background(), request{
		Method: http.MethodPost,
		Path:   "/api/document/admin/mydb/local/branch/main",
		Body:   []byte(`{"@type":"Person"}`),
		Op:     "InsertDocument",
	})
	require.Error(t, err)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	require.NotEmpty(t, entries, "a failed payload dump file should have been written")
}
