// Package clienttest provides an in-process fake of the server's JSON-LD/GQL
// HTTP API for unit-testing package client without a real server, built on
// echo the way the teacher builds its own HTTP surfaces in http/server.go.
package clienttest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Server is a fake GQL server exposing the subset of the real API that
// package client's transport exercises: /api/info, /api/db*,
// /api/document/*, /api/woql/*, /api/log/*, and /api/changes.
type Server struct {
	httpServer *httptest.Server
	echo       *echo.Echo

	mu           sync.Mutex
	docs         map[string]json.RawMessage // keyed by "org/db/branch/id"
	logs         map[string][]logRow        // keyed by "org/db/branch"
	dbs          map[string]bool            // keyed by "org/db"
	changeSubs   []chan changeEnvelope
	nextCommitID string // echoed as Tdb-Commit-Id on the next document read, if set
	queryResponder func(spec string, query json.RawMessage) ([]map[string]interface{}, error)
}

type logRow struct {
	CommitID string `json:"identifier"`
	Author   string `json:"author"`
	Message  string `json:"message"`
}

type changeEnvelope struct {
	Resource string          `json:"resource"`
	Changes  json.RawMessage `json:"changes"`
}

// New starts a fake server and returns it; callers must Close it when done.
func New() *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo: e,
		docs: map[string]json.RawMessage{},
		logs: map[string][]logRow{},
		dbs:  map[string]bool{},
	}
	s.routes()
	s.httpServer = httptest.NewServer(e)
	return s
}

// URL is the endpoint a client.Client should be constructed with.
func (s *Server) URL() string { return s.httpServer.URL }

// Close shuts down the fake server.
func (s *Server) Close() { s.httpServer.Close() }

func (s *Server) routes() {
	s.echo.GET("/api/info", s.handleInfo)
	s.echo.GET("/api/db", s.handleListDatabases)
	s.echo.POST("/api/db/:org/:db", s.handleCreateDatabase)
	s.echo.DELETE("/api/db/:org/:db", s.handleDeleteDatabase)
	s.echo.POST("/api/document/*", s.handleDocumentWrite)
	s.echo.GET("/api/document/*", s.handleDocumentRead)
	s.echo.PUT("/api/document/*", s.handleDocumentUpdate)
	s.echo.DELETE("/api/document/*", s.handleDocumentDelete)
	s.echo.POST("/api/woql/*", s.handleQuery)
	s.echo.GET("/api/log/*", s.handleLog)
	s.echo.GET("/api/changes", s.handleChanges)
}

func (s *Server) handleInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"api:server_version": "fake-0.1",
	})
}

func (s *Server) handleListDatabases(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.dbs))
	for k := range s.dbs {
		names = append(names, k)
	}
	return c.JSON(http.StatusOK, names)
}

func (s *Server) handleCreateDatabase(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dbs[c.Param("org")+"/"+c.Param("db")] = true
	return c.NoContent(http.StatusOK)
}

func (s *Server) handleDeleteDatabase(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.dbs, c.Param("org")+"/"+c.Param("db"))
	return c.NoContent(http.StatusOK)
}

func (s *Server) specKey(c echo.Context) string {
	return c.Param("*")
}

func (s *Server) handleDocumentWrite(c echo.Context) error {
	var raw json.RawMessage
	if err := c.Bind(&raw); err != nil {
		return c.JSON(http.StatusBadRequest, errBody(err))
	}

	if c.QueryParam("id_check") == "true" {
		return s.handleCheckExistingIDs(c, raw)
	}

	var batch []json.RawMessage
	if err := json.Unmarshal(raw, &batch); err != nil {
		batch = []json.RawMessage{raw}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(batch))
	for i, doc := range batch {
		var withID struct {
			ID string `json:"@id"`
		}
		_ = json.Unmarshal(doc, &withID)
		id := withID.ID
		if id == "" {
			id = fmt.Sprintf("generated/%d", len(s.docs)+i)
		}
		s.docs[s.specKey(c)+"/"+id] = doc
		ids = append(ids, id)
	}
	return c.JSON(http.StatusOK, ids)
}

// handleCheckExistingIDs answers CreateInstances's existence pre-filter
// (CheckExistingIDs): body is a JSON array of ids, response a map of each
// one to whether a document with that id already exists in spec's branch.
func (s *Server) handleCheckExistingIDs(c echo.Context, raw json.RawMessage) error {
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return c.JSON(http.StatusBadRequest, errBody(err))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		_, out[id] = s.docs[s.specKey(c)+"/"+id]
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleDocumentRead(c echo.Context) error {
	id := c.QueryParam("id")
	s.mu.Lock()
	doc, ok := s.docs[s.specKey(c)+"/"+id]
	commitID := s.nextCommitID
	s.mu.Unlock()
	if !ok {
		return c.JSON(http.StatusNotFound, errBody(fmt.Errorf("document not found")))
	}
	if commitID != "" {
		c.Response().Header().Set("Tdb-Commit-Id", commitID)
	}
	return c.JSONBlob(http.StatusOK, doc)
}

// SetNextCommitID makes the next document read (and every read thereafter,
// until changed again) echo commitID in the Tdb-Commit-Id response header,
// the way a real server reports the commit a document was last written at.
func (s *Server) SetNextCommitID(commitID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextCommitID = commitID
}

func (s *Server) handleDocumentUpdate(c echo.Context) error {
	var raw json.RawMessage
	if err := c.Bind(&raw); err != nil {
		return c.JSON(http.StatusBadRequest, errBody(err))
	}
	var withID struct {
		ID string `json:"@id"`
	}
	_ = json.Unmarshal(raw, &withID)

	s.mu.Lock()
	s.docs[s.specKey(c)+"/"+withID.ID] = raw
	s.mu.Unlock()
	return c.NoContent(http.StatusOK)
}

func (s *Server) handleDocumentDelete(c echo.Context) error {
	id := c.QueryParam("id")
	s.mu.Lock()
	delete(s.docs, s.specKey(c)+"/"+id)
	s.mu.Unlock()
	return c.NoContent(http.StatusOK)
}

func (s *Server) handleQuery(c echo.Context) error {
	s.mu.Lock()
	responder := s.queryResponder
	s.mu.Unlock()
	if responder == nil {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"bindings": []map[string]interface{}{},
		})
	}

	var raw json.RawMessage
	if err := c.Bind(&raw); err != nil {
		return c.JSON(http.StatusBadRequest, errBody(err))
	}
	bindings, err := responder(s.specKey(c), raw)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errBody(err))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"bindings": bindings})
}

// SetQueryResponder installs fn as the handler for /api/woql/* requests,
// letting tests control what Client.Query (and anything built on it, like
// ListInstancesWhere) sees as solution bindings. A nil fn (the default)
// answers every query with no bindings.
func (s *Server) SetQueryResponder(fn func(spec string, query json.RawMessage) ([]map[string]interface{}, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queryResponder = fn
}

func (s *Server) handleLog(c echo.Context) error {
	s.mu.Lock()
	seeded := s.logs[s.specKey(c)]
	rows := make([]logRow, len(seeded))
	for i, row := range seeded {
		rows[len(seeded)-1-i] = row
	}
	s.mu.Unlock()
	return c.JSON(http.StatusOK, rows)
}

// SeedLog appends a commit-log row for spec (an "org/db/branch/..." string)
// so tests can exercise Client.Log / Client.ListInstanceVersions. Rows are
// served most recent first, so the row seeded last is the newest commit.
func (s *Server) SeedLog(spec, commitID, author, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs[spec] = append(s.logs[spec], logRow{CommitID: commitID, Author: author, Message: message})
}

// handleChanges is a hand-rolled SSE emitter: every change published via
// Publish is written to every currently-connected request as one SSE event.
func (s *Server) handleChanges(c echo.Context) error {
	resp := c.Response()
	resp.Header().Set("Content-Type", "text/event-stream")
	resp.WriteHeader(http.StatusOK)

	ch := make(chan changeEnvelope, 8)
	s.mu.Lock()
	s.changeSubs = append(s.changeSubs, ch)
	s.mu.Unlock()

	w := bufio.NewWriter(resp)
	flusher, _ := resp.Writer.(http.Flusher)

	for {
		select {
		case env := <-ch:
			payload, err := json.Marshal(env)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			w.Flush()
			if flusher != nil {
				flusher.Flush()
			}
		case <-c.Request().Context().Done():
			return nil
		}
	}
}

// Publish pushes a change event to every connected /api/changes subscriber,
// letting tests exercise change.Router end to end against this fake server.
func (s *Server) Publish(resourcePath string, changes interface{}) error {
	encoded, err := json.Marshal(changes)
	if err != nil {
		return err
	}
	env := changeEnvelope{Resource: resourcePath, Changes: encoded}

	s.mu.Lock()
	subs := append([]chan changeEnvelope{}, s.changeSubs...)
	s.mu.Unlock()

	for _, ch := range subs {
		ch <- env
	}
	return nil
}

func errBody(err error) map[string]string {
	return map[string]string{"api:error": "Error", "api:message": err.Error()}
}
