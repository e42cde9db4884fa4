package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tdbgo/tdbgo/schema"
)

// InsertSchema pushes every definition in s to the server's schema graph
// for spec's branch, creating or updating classes as needed.
func (c *Client) InsertSchema(ctx context.Context, spec BranchSpec, s *schema.Schema) error {
	tree, err := s.ToSchemaTree()
	if err != nil {
		return decodeErr("InsertSchema", err)
	}
	body, err := json.Marshal(tree)
	if err != nil {
		return decodeErr("InsertSchema", err)
	}
	_, err = c.do(ctx, request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/api/document/%s", spec),
		Query:  map[string]string{"graph_type": "schema"},
		Body:   body,
		Op:     "InsertSchema",
	})
	return err
}

// CheckSchema validates s against the server without committing it,
// surfacing a ServerAPISchemaCheckFailure discriminant on mismatch.
func (c *Client) CheckSchema(ctx context.Context, spec BranchSpec, s *schema.Schema) error {
	tree, err := s.ToSchemaTree()
	if err != nil {
		return decodeErr("CheckSchema", err)
	}
	body, err := json.Marshal(tree)
	if err != nil {
		return decodeErr("CheckSchema", err)
	}
	_, err = c.do(ctx, request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/api/document/%s", spec),
		Query:  map[string]string{"graph_type": "schema", "dry_run": "true"},
		Body:   body,
		Op:     "CheckSchema",
	})
	return err
}
