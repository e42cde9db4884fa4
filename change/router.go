// Package change implements the Change Router: a single shared
// Server-Sent-Events connection per (endpoint, Credentials) pair, fanning
// out document-change notifications to weakly-held listeners. Grounded on
// the teacher's db/listener.go reconnect loop (RWMutex-guarded handler
// slice, per-event "go handler(event)" dispatch) and db/couchdb_changes.go's
// channel-based WatchChanges wrapper, adapted from PostgreSQL LISTEN/NOTIFY
// and CouchDB's _changes feed to the server's SSE stream.
package change

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
	"weak"

	"github.com/tdbgo/tdbgo/logging"
)

// reconnectBackoff is the fixed delay between SSE reconnect attempts,
// matching spec.md §4.J's "fixed 5-second reconnect backoff" exactly.
const reconnectBackoff = 5 * time.Second

// DocumentChange describes one document mutation observed on a resource path.
type DocumentChange struct {
	ResourcePath string
	DocumentID   string
	Operation    string // "insert", "update", "delete"
	CommitID     string
}

// ChangesetEvent is the raw decoded SSE payload before it is routed to
// per-resource listeners.
type ChangesetEvent struct {
	ResourcePath string            `json:"resource"`
	Changes      []DocumentChange  `json:"changes"`
}

// ChangeListener receives DocumentChange notifications for the resource
// path it was registered under.
type ChangeListener interface {
	OnChange(DocumentChange)
}

// connKey identifies a shared connection by endpoint and credential cache key.
type connKey struct {
	endpoint string
	credKey  string
}

// credentialApplier is the minimal interface the router needs from
// client.Credentials, avoiding an import cycle with package client.
type credentialApplier interface {
	Apply(req *http.Request) error
	CacheKey() string
}

var (
	connsMu sync.Mutex
	conns   = map[connKey]*sharedConn{}
)

// weakRef is a type-erased weak.Pointer[L], letting sharedConn hold
// listeners of different concrete types in one slice while still resolving
// each back to a ChangeListener on dispatch.
type weakRef interface {
	resolve() (ChangeListener, bool)
}

// typedWeakRef wraps a weak.Pointer[L] for a caller-owned *L. L itself (not
// *L) must implement ChangeListener, so OnChange is declared with a value
// receiver on the concrete listener type; the pointer only provides the
// identity the weak reference tracks.
type typedWeakRef[L ChangeListener] struct {
	ptr weak.Pointer[L]
}

func (w typedWeakRef[L]) resolve() (ChangeListener, bool) {
	p := w.ptr.Value()
	if p == nil {
		return nil, false
	}
	return *p, true
}

// sharedConn is one SSE connection shared across every listener registered
// for its (endpoint, credentials) pair.
type sharedConn struct {
	mu        sync.RWMutex
	endpoint  string
	creds     credentialApplier
	listeners map[string][]weakRef
	cancel    context.CancelFunc
	refCount  int
	disabled  bool // SSE env gate was not set; connection never dials out
}

// sseEnabled reports whether the SSE environment variable opts into live
// change streaming. Any of "true", "1", "yes", or "on" (case-insensitive)
// enables it; anything else, including unset, leaves Subscribe a silent
// no-op — no connection is dialed and no error is raised, since most
// programs using this client never touch the change feed at all.
func sseEnabled() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("SSE"))) {
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}

// Router is the handle callers use to register and unregister listeners; it
// wraps the process-wide shared-connection registry so callers never touch
// sharedConn directly.
type Router struct {
	endpoint string
	creds    credentialApplier
	conn     *sharedConn
}

// NewRouter returns a Router for the given endpoint/credentials pair,
// joining the shared connection for that pair if one already exists or
// starting a new one otherwise.
func NewRouter(endpoint string, creds credentialApplier) *Router {
	return &Router{endpoint: endpoint, creds: creds, conn: acquireConn(endpoint, creds)}
}

// Subscribe registers listener for changes under resourcePath. The
// registration is weak: listener must be a value the caller keeps reachable
// for as long as it wants notifications (e.g. held in a struct field or
// local variable in an active goroutine); once it becomes unreachable
// elsewhere in the program, the registration is pruned lazily on the next
// dispatch. L's OnChange
// method must have a value receiver, since the weak pointer tracks *L while
// the resolved value is L itself.
func Subscribe[L ChangeListener](r *Router, resourcePath string, listener *L) {
	conn := r.conn
	conn.mu.Lock()
	conn.listeners[resourcePath] = append(conn.listeners[resourcePath], typedWeakRef[L]{ptr: weak.Make(listener)})
	conn.mu.Unlock()
}

// Close releases this Router's hold on the shared connection; the
// connection itself is torn down once every Router referencing it has
// closed.
func (r *Router) Close() {
	releaseConn(r.endpoint, r.creds)
}

func acquireConn(endpoint string, creds credentialApplier) *sharedConn {
	key := connKey{endpoint: endpoint, credKey: creds.CacheKey()}

	connsMu.Lock()
	defer connsMu.Unlock()

	if c, ok := conns[key]; ok {
		c.refCount++
		return c
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &sharedConn{
		endpoint:  endpoint,
		creds:     creds,
		listeners: map[string][]weakRef{},
		cancel:    cancel,
		refCount:  1,
		disabled:  !sseEnabled(),
	}
	conns[key] = c
	if c.disabled {
		logging.Logger.WithField("endpoint", endpoint).
			Debug("change: SSE is not enabled (set SSE=true to enable), Subscribe is a no-op")
	} else {
		go c.run(ctx)
	}
	return c
}

func releaseConn(endpoint string, creds credentialApplier) {
	key := connKey{endpoint: endpoint, credKey: creds.CacheKey()}

	connsMu.Lock()
	defer connsMu.Unlock()

	c, ok := conns[key]
	if !ok {
		return
	}
	c.refCount--
	if c.refCount <= 0 {
		c.cancel()
		delete(conns, key)
	}
}

// run is the reconnect loop: connect, stream events until the connection
// drops or ctx is cancelled, then wait reconnectBackoff and try again.
// Mirrors db/listener.go's listenLoop structure one-for-one, substituting
// SSE-over-HTTP for pgx's LISTEN/NOTIFY.
func (c *sharedConn) run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		if err := c.streamOnce(ctx); err != nil {
			logging.Logger.WithField("endpoint", c.endpoint).WithError(err).
				Warn("change: SSE connection dropped, will reconnect")
		}
		select {
		case <-time.After(reconnectBackoff):
		case <-ctx.Done():
			return
		}
	}
}

func (c *sharedConn) streamOnce(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/api/changes", nil)
	if err != nil {
		return fmt.Errorf("change: build request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	if err := c.creds.Apply(req); err != nil {
		return fmt.Errorf("change: apply credentials: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("change: connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("change: server returned status %d", resp.StatusCode)
	}

	logging.Logger.WithField("endpoint", c.endpoint).Debug("change: SSE connection established")

	scanner := bufio.NewScanner(resp.Body)
	var dataLines []string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "data:"):
			dataLines = append(dataLines, strings.TrimPrefix(line, "data:"))
		case line == "" && len(dataLines) > 0:
			payload := strings.Join(dataLines, "\n")
			dataLines = nil
			c.dispatch(payload)
		}
	}
	return scanner.Err()
}

// dispatch decodes one SSE event payload and fans it out to every live
// listener registered for the event's resource path, each on its own
// goroutine, matching db/listener.go's dispatch(event) pattern exactly.
func (c *sharedConn) dispatch(payload string) {
	var event ChangesetEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		logging.Logger.WithError(err).Warn("change: could not decode SSE payload")
		return
	}

	c.mu.RLock()
	refs := append([]weakRef{}, c.listeners[event.ResourcePath]...)
	c.mu.RUnlock()

	live := make([]weakRef, 0, len(refs))
	for _, ref := range refs {
		listener, ok := ref.resolve()
		if !ok {
			continue // pruned: the listener is no longer reachable elsewhere
		}
		live = append(live, ref)
		for _, ch := range event.Changes {
			go listener.OnChange(ch)
		}
	}

	if len(live) != len(refs) {
		c.mu.Lock()
		c.listeners[event.ResourcePath] = live
		c.mu.Unlock()
	}
}
