// Package client implements the high-level operations (components G, H, I
// of the design): HTTP transport to the server's JSON-LD/GQL API,
// credential attachment, the BranchSpec addressing scheme, and the error
// taxonomy every operation returns through.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tdbgo/tdbgo/ast"
	"github.com/tdbgo/tdbgo/change"
	"github.com/tdbgo/tdbgo/identity"
	"github.com/tdbgo/tdbgo/instance"
)

// Client is a connection to one server endpoint, authenticated with a
// single set of Credentials. Safe for concurrent use by multiple
// goroutines; the underlying http.Client is itself concurrency-safe.
type Client struct {
	endpoint     string
	credentials  Credentials
	httpClient   *http.Client
	retryCount   int
	retryBackoff time.Duration
	logsDir      string
}

// Option configures a Client constructed by New.
type Option func(*Client)

// WithCredentials sets the Client's auth; defaults to NoCredentials.
func WithCredentials(c Credentials) Option {
	return func(cl *Client) { cl.credentials = c }
}

// WithTimeout sets the per-request timeout; defaults to 30s.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) { cl.httpClient.Timeout = d }
}

// WithRetryCount sets how many times a failed request is retried after the
// initial attempt; defaults to 2.
func WithRetryCount(n int) Option {
	return func(cl *Client) { cl.retryCount = n }
}

// WithRetryBackoff sets the base exponential backoff between retries;
// defaults to 250ms.
func WithRetryBackoff(d time.Duration) Option {
	return func(cl *Client) { cl.retryBackoff = d }
}

// WithLogsDir sets the directory failed-request payload dumps are written
// to; if unset, dumps are skipped.
func WithLogsDir(dir string) Option {
	return func(cl *Client) { cl.logsDir = dir }
}

// WithHTTPClient overrides the underlying http.Client entirely, e.g. to
// route through a custom transport.
func WithHTTPClient(h *http.Client) Option {
	return func(cl *Client) { cl.httpClient = h }
}

// New constructs a Client targeting endpoint (e.g. "https://tdb.example.com").
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:     endpoint,
		credentials:  NoCredentials{},
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		retryCount:   2,
		retryBackoff: 250 * time.Millisecond,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Info returns the server's version/info payload from /api/info.
func (c *Client) Info(ctx context.Context) (map[string]interface{}, error) {
	resp, err := c.do(ctx, request{Method: http.MethodGet, Path: "/api/info", Op: "Info"})
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, decodeErr("Info", err)
	}
	return out, nil
}

// CreateDatabase creates a new database under the given org.
func (c *Client) CreateDatabase(ctx context.Context, org, db string, opts map[string]interface{}) error {
	body, err := json.Marshal(opts)
	if err != nil {
		return decodeErr("CreateDatabase", err)
	}
	_, err = c.do(ctx, request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/api/db/%s/%s", org, db),
		Body:   body,
		Op:     "CreateDatabase",
	})
	return err
}

// DeleteDatabase permanently deletes a database.
func (c *Client) DeleteDatabase(ctx context.Context, org, db string) error {
	_, err := c.do(ctx, request{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("/api/db/%s/%s", org, db),
		Op:     "DeleteDatabase",
	})
	return err
}

// ListDatabases lists every database visible to the current credentials.
func (c *Client) ListDatabases(ctx context.Context) ([]string, error) {
	resp, err := c.do(ctx, request{Method: http.MethodGet, Path: "/api/db", Op: "ListDatabases"})
	if err != nil {
		return nil, err
	}
	var names []string
	if err := json.Unmarshal(resp.Body, &names); err != nil {
		return nil, decodeErr("ListDatabases", err)
	}
	return names, nil
}

// InsertDocument inserts one document and returns the server-minted id.
func (c *Client) InsertDocument(ctx context.Context, spec BranchSpec, doc *instance.Instance) (string, error) {
	body, err := doc.ToJSON()
	if err != nil {
		return "", decodeErr("InsertDocument", err)
	}
	resp, err := c.do(ctx, request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/api/document/%s", spec),
		Body:   body,
		Op:     "InsertDocument",
	})
	if err != nil {
		return "", err
	}
	var ids []string
	if err := json.Unmarshal(resp.Body, &ids); err != nil || len(ids) == 0 {
		return "", decodeErr("InsertDocument", fmt.Errorf("expected a one-element id array, got %s", resp.Body))
	}
	return ids[0], nil
}

// InsertDocuments inserts a batch of documents in a single request,
// returning their server-minted ids in input order. Returns
// ErrNothingToInsert if docs is empty, a ClientLogic error caught before any
// request is sent.
func (c *Client) InsertDocuments(ctx context.Context, spec BranchSpec, docs []*instance.Instance) ([]string, error) {
	if len(docs) == 0 {
		return nil, ErrNothingToInsert
	}
	raws := make([]json.RawMessage, 0, len(docs))
	for _, d := range docs {
		j, err := d.ToJSON()
		if err != nil {
			return nil, decodeErr("InsertDocuments", err)
		}
		raws = append(raws, j)
	}
	body, err := json.Marshal(raws)
	if err != nil {
		return nil, decodeErr("InsertDocuments", err)
	}
	resp, err := c.do(ctx, request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/api/document/%s", spec),
		Body:   body,
		Op:     "InsertDocuments",
	})
	if err != nil {
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal(resp.Body, &ids); err != nil {
		return nil, decodeErr("InsertDocuments", err)
	}
	return ids, nil
}

// GetDocument fetches a single document by id.
func (c *Client) GetDocument(ctx context.Context, spec BranchSpec, id string) (*instance.Instance, error) {
	resp, err := c.do(ctx, request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/api/document/%s", spec),
		Query:  map[string]string{"id": id},
		Op:     "GetDocument",
	})
	if err != nil {
		return nil, err
	}
	inst, err := instance.FromJSON(resp.Body)
	if err != nil {
		return nil, decodeErr("GetDocument", err)
	}
	return inst, nil
}

// UpdateDocument replaces an existing document's content in place.
func (c *Client) UpdateDocument(ctx context.Context, spec BranchSpec, doc *instance.Instance) error {
	body, err := doc.ToJSON()
	if err != nil {
		return decodeErr("UpdateDocument", err)
	}
	_, err = c.do(ctx, request{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("/api/document/%s", spec),
		Body:   body,
		Op:     "UpdateDocument",
	})
	return err
}

// DeleteDocument removes a document by id.
func (c *Client) DeleteDocument(ctx context.Context, spec BranchSpec, id string) error {
	_, err := c.do(ctx, request{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("/api/document/%s", spec),
		Query:  map[string]string{"id": id},
		Op:     "DeleteDocument",
	})
	return err
}

// Query submits a GQL AST query and decodes the server's solution bindings.
func (c *Client) Query(ctx context.Context, spec BranchSpec, q ast.Query) ([]map[string]json.RawMessage, error) {
	body, err := json.Marshal(q)
	if err != nil {
		return nil, decodeErr("Query", err)
	}
	resp, err := c.do(ctx, request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/api/woql/%s", spec),
		Body:   body,
		Op:     "Query",
	})
	if err != nil {
		return nil, err
	}
	var wire struct {
		Bindings []map[string]json.RawMessage `json:"bindings"`
	}
	if err := json.Unmarshal(resp.Body, &wire); err != nil {
		return nil, decodeErr("Query", err)
	}
	return wire.Bindings, nil
}

// LogEntry is one entry of a database's commit log, as returned by Log.
type LogEntry struct {
	CommitID string    `json:"identifier"`
	Author   string    `json:"author"`
	Message  string    `json:"message"`
	When     time.Time `json:"timestamp"`
}

// Log returns the commit history of spec's branch, most recent first.
func (c *Client) Log(ctx context.Context, spec BranchSpec, limit int) ([]LogEntry, error) {
	resp, err := c.do(ctx, request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/api/log/%s", spec),
		Query:  map[string]string{"count": fmt.Sprintf("%d", limit)},
		Op:     "Log",
	})
	if err != nil {
		return nil, err
	}
	var entries []LogEntry
	if err := json.Unmarshal(resp.Body, &entries); err != nil {
		return nil, decodeErr("Log", err)
	}
	return entries, nil
}

// CheckExistingIDs reports, for each id in ids, whether a document with
// that id already exists in spec's branch.
func (c *Client) CheckExistingIDs(ctx context.Context, spec BranchSpec, ids []string) (map[string]bool, error) {
	body, err := json.Marshal(ids)
	if err != nil {
		return nil, decodeErr("CheckExistingIDs", err)
	}
	resp, err := c.do(ctx, request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/api/document/%s", spec),
		Query:  map[string]string{"id_check": "true"},
		Body:   body,
		Op:     "CheckExistingIDs",
	})
	if err != nil {
		return nil, err
	}
	var out map[string]bool
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, decodeErr("CheckExistingIDs", err)
	}
	return out, nil
}

// ListInstanceVersions returns every commit id at which id's document
// content changed, most recent first.
func (c *Client) ListInstanceVersions(ctx context.Context, spec BranchSpec, id string) ([]string, error) {
	resp, err := c.do(ctx, request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/api/log/%s", spec),
		Query:  map[string]string{"id": id},
		Op:     "ListInstanceVersions",
	})
	if err != nil {
		return nil, err
	}
	var entries []LogEntry
	if err := json.Unmarshal(resp.Body, &entries); err != nil {
		return nil, decodeErr("ListInstanceVersions", err)
	}
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.CommitID
	}
	return out, nil
}

// Changes returns a change.Router sharing this Client's endpoint and
// credentials. Every call returns a Router over the same underlying SSE
// connection when (endpoint, credentials) match an existing one; callers
// must Close the returned Router when they stop listening.
func (c *Client) Changes() *change.Router {
	return change.NewRouter(c.endpoint, c.credentials)
}

// DatabaseResolver implements identity.Resolver[T] by fetching a document
// through GetDocument against a fixed branch of a fixed database and
// decoding it into T via JSON. Pass *DatabaseResolver[T] wherever
// identity.NewLazy wants a resolver.
type DatabaseResolver[T any] struct {
	Client *Client
	Spec   BranchSpec
	Ctx    context.Context
}

// Resolve fetches the document named by id.Value and decodes it into T.
func (r *DatabaseResolver[T]) Resolve(id identity.ServerIDFor[T]) (T, error) {
	var zero T
	ctx := r.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	inst, err := r.Client.GetDocument(ctx, r.Spec, id.Value)
	if err != nil {
		return zero, err
	}
	j, err := inst.ToJSON()
	if err != nil {
		return zero, decodeErr("Resolve", err)
	}
	var out T
	if err := json.Unmarshal(j, &out); err != nil {
		return zero, decodeErr("Resolve", err)
	}
	return out, nil
}
