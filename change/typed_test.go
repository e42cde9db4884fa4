package change_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tdbgo/tdbgo/change"
	"github.com/tdbgo/tdbgo/client"
	"github.com/tdbgo/tdbgo/client/clienttest"
	"github.com/tdbgo/tdbgo/derive"
)

type trackedWidget struct {
	_  struct{} `tdb:"class=TrackedWidget"`
	ID string   `tdb:"id=true"`
}

type idCollector struct {
	mu  sync.Mutex
	ids []string
}

func (c *idCollector) add(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids = append(c.ids, id)
}

func (c *idCollector) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string{}, c.ids...)
}

func TestOnAddedIDFiltersByOperationAndClass(t *testing.T) {
	t.Setenv("SSE", "true")
	derive.Register[trackedWidget]()

	srv := clienttest.New()
	defer srv.Close()

	router := change.NewRouter(srv.URL(), client.NoCredentials{})
	defer router.Close()

	added := &idCollector{}
	listener := change.OnAddedID[trackedWidget](router, "res", added.add)

	time.Sleep(200 * time.Millisecond)

	require.NoError(t, srv.Publish("res", []change.DocumentChange{
		{ResourcePath: "res", DocumentID: "TrackedWidget/1", Operation: "insert"},
		{ResourcePath: "res", DocumentID: "TrackedWidget/2", Operation: "update"},
		{ResourcePath: "res", DocumentID: "OtherClass/1", Operation: "insert"},
	}))

	waitUntil(t, 2*time.Second, func() bool { return len(added.snapshot()) > 0 })
	time.Sleep(50 * time.Millisecond) // let any stray extra dispatches land before asserting

	require.Equal(t, []string{"TrackedWidget/1"}, added.snapshot())
	require.NotNil(t, listener) // keeps the weakly-referenced listener reachable until here
}

func TestOnDeletedAndOnUpdatedIDDispatchSeparately(t *testing.T) {
	t.Setenv("SSE", "true")
	derive.Register[trackedWidget]()

	srv := clienttest.New()
	defer srv.Close()

	router := change.NewRouter(srv.URL(), client.NoCredentials{})
	defer router.Close()

	deleted := &idCollector{}
	updated := &idCollector{}
	deletedListener := change.OnDeletedID[trackedWidget](router, "res", deleted.add)
	updatedListener := change.OnUpdatedID[trackedWidget](router, "res", updated.add)

	time.Sleep(200 * time.Millisecond)

	require.NoError(t, srv.Publish("res", []change.DocumentChange{
		{ResourcePath: "res", DocumentID: "TrackedWidget/9", Operation: "delete"},
		{ResourcePath: "res", DocumentID: "TrackedWidget/9", Operation: "update"},
	}))

	waitUntil(t, 2*time.Second, func() bool {
		return len(deleted.snapshot()) > 0 && len(updated.snapshot()) > 0
	})
	require.Equal(t, []string{"TrackedWidget/9"}, deleted.snapshot())
	require.Equal(t, []string{"TrackedWidget/9"}, updated.snapshot())
	require.NotNil(t, deletedListener)
	require.NotNil(t, updatedListener)
}

func TestSubscribeIsNoOpWhenSSEDisabled(t *testing.T) {
	t.Setenv("SSE", "")

	srv := clienttest.New()
	defer srv.Close()

	router := change.NewRouter(srv.URL(), client.NoCredentials{})
	defer router.Close()

	added := &idCollector{}
	listener := change.OnAddedID[trackedWidget](router, "res", added.add)

	time.Sleep(200 * time.Millisecond)
	require.NoError(t, srv.Publish("res", []change.DocumentChange{
		{ResourcePath: "res", DocumentID: "TrackedWidget/1", Operation: "insert"},
	}))

	time.Sleep(200 * time.Millisecond)
	require.Empty(t, added.snapshot())
	require.NotNil(t, listener)
}
