package client

import (
	"context"
	"net/http"

	"github.com/tdbgo/tdbgo/ast"
	"github.com/tdbgo/tdbgo/derive"
	"github.com/tdbgo/tdbgo/identity"
	"github.com/tdbgo/tdbgo/instance"
	"github.com/tdbgo/tdbgo/query"
)

// These free functions are the typed counterpart of the untyped
// InsertDocument/GetDocument/UpdateDocument methods: each takes or returns
// a plain Go value of T, using derive's registered Model for T to translate
// to and from the wire instance.Instance form. They are free functions, not
// methods on *Client, because Go does not allow a generic method on a
// non-generic receiver type.

// CreateInstances POST-inserts vs as new documents. Before sending, it
// checks which of their ids (for whichever already carry one — a Lexical
// or Hash key, or a pre-minted EntityIDFor) already exist via
// CheckExistingIDs, and drops those from the batch rather than letting the
// server reject the whole request: create is fail-on-existing per entry,
// not all-or-nothing. If every entry is dropped this way, the batch is
// genuinely empty and CreateInstances returns ErrNothingToInsert, the same
// error an explicitly empty vs produces. Entries that were dropped as
// already-existing come back as the zero ServerIDFor (Value == "") in the
// result slice, at their original index.
func CreateInstances[T any](ctx context.Context, c *Client, spec BranchSpec, vs []T) ([]identity.ServerIDFor[T], error) {
	if len(vs) == 0 {
		return nil, ErrNothingToInsert
	}
	insts := make([]*instance.Instance, len(vs))
	for i, v := range vs {
		inst, err := derive.ToInstance(v)
		if err != nil {
			return nil, decodeErr("CreateInstance", err)
		}
		insts[i] = inst
	}

	var knownIDs []string
	for _, inst := range insts {
		if inst.ID != "" {
			knownIDs = append(knownIDs, inst.ID)
		}
	}
	var existing map[string]bool
	if len(knownIDs) > 0 {
		var err error
		existing, err = c.CheckExistingIDs(ctx, spec, knownIDs)
		if err != nil {
			return nil, err
		}
	}

	toInsert := make([]*instance.Instance, 0, len(insts))
	origIndex := make([]int, 0, len(insts))
	for i, inst := range insts {
		if inst.ID != "" && existing[inst.ID] {
			continue
		}
		toInsert = append(toInsert, inst)
		origIndex = append(origIndex, i)
	}
	if len(toInsert) == 0 {
		return nil, ErrNothingToInsert
	}

	ids, err := c.InsertDocuments(ctx, spec, toInsert)
	if err != nil {
		return nil, err
	}
	out := make([]identity.ServerIDFor[T], len(vs))
	for i, id := range ids {
		out[origIndex[i]] = identity.ServerIDForValue[T](id)
	}
	return out, nil
}

// CreateInstance is CreateInstances for a single value.
func CreateInstance[T any](ctx context.Context, c *Client, spec BranchSpec, v T) (identity.ServerIDFor[T], error) {
	var zero identity.ServerIDFor[T]
	ids, err := CreateInstances[T](ctx, c, spec, []T{v})
	if err != nil {
		return zero, err
	}
	return ids[0], nil
}

// InsertInstance PUT-upserts v: unlike CreateInstance, it succeeds whether
// or not a document with v's id already exists, replacing it in place if
// so. If v has no id yet (a Random key strategy not yet assigned), it falls
// back to a POST insert and returns the server-minted id.
func InsertInstance[T any](ctx context.Context, c *Client, spec BranchSpec, v T) (identity.ServerIDFor[T], error) {
	var zero identity.ServerIDFor[T]
	inst, err := derive.ToInstance(v)
	if err != nil {
		return zero, decodeErr("InsertInstance", err)
	}
	if inst.ID == "" {
		id, err := c.InsertDocument(ctx, spec, inst)
		if err != nil {
			return zero, err
		}
		return identity.ServerIDForValue[T](id), nil
	}
	if err := c.UpdateDocument(ctx, spec, inst); err != nil {
		return zero, err
	}
	return identity.ServerIDForValue[T](inst.ID), nil
}

// InstanceMeta carries response metadata that doesn't belong in the decoded
// value itself — currently just the commit the document was read at.
type InstanceMeta struct {
	CommitID string
}

// GetInstance fetches and decodes the document named by id into a T.
func GetInstance[T any](ctx context.Context, c *Client, spec BranchSpec, id string) (T, error) {
	v, _, err := GetInstanceWithHeaders[T](ctx, c, spec, id)
	return v, err
}

// GetInstanceWithHeaders is GetInstance plus the response's InstanceMeta,
// for callers that need the commit id a document was read at (e.g. to
// build a VersionedEntityIDFor).
func GetInstanceWithHeaders[T any](ctx context.Context, c *Client, spec BranchSpec, id string) (T, InstanceMeta, error) {
	var zero T
	resp, err := c.do(ctx, request{
		Method: http.MethodGet,
		Path:   "/api/document/" + spec.String(),
		Query:  map[string]string{"id": id},
		Op:     "GetInstance",
	})
	if err != nil {
		return zero, InstanceMeta{}, err
	}
	inst, err := instance.FromJSON(resp.Body)
	if err != nil {
		return zero, InstanceMeta{}, decodeErr("GetInstance", err)
	}
	v, err := derive.FromInstance[T](inst)
	if err != nil {
		return zero, InstanceMeta{}, decodeErr("GetInstance", err)
	}
	return v, InstanceMeta{CommitID: resp.CommitID}, nil
}

// ListInstanceVersionsOf is ListInstanceVersions typed to a ServerIDFor[T]
// and identity.CommitID rather than bare strings.
func ListInstanceVersionsOf[T any](ctx context.Context, c *Client, spec BranchSpec, id identity.ServerIDFor[T]) ([]identity.CommitID, error) {
	commits, err := c.ListInstanceVersions(ctx, spec, id.Value)
	if err != nil {
		return nil, err
	}
	out := make([]identity.CommitID, len(commits))
	for i, cid := range commits {
		out[i] = identity.CommitID{Value: cid}
	}
	return out, nil
}

// ListInstancesWhere runs a query scoped to T's class, optionally narrowed
// by where (which receives the scope and the bound document variable to add
// further clauses against), and decodes every matching document into a T.
// where may be nil to list every instance of T's class.
func ListInstancesWhere[T any](ctx context.Context, c *Client, spec BranchSpec, where func(s *query.Scope, doc ast.Var)) ([]T, error) {
	model := derive.Register[T]()
	var docVar ast.Var
	built := query.Build(func(s *query.Scope) {
		docVar = s.Var("doc")
		s.Add(ast.IsA{Instance: docVar, Class: ast.Node(model.ClassID)})
		if where != nil {
			where(s, docVar)
		}
	})
	selected := query.Select(built, docVar.Name)

	rows, err := c.Query(ctx, spec, selected)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		raw, ok := row[docVar.Name]
		if !ok {
			continue
		}
		val, err := ast.DecodeValue(raw)
		if err != nil {
			return nil, decodeErr("ListInstancesWhere", err)
		}
		node, ok := val.(ast.NodeValue)
		if !ok {
			continue
		}
		inst, err := c.GetDocument(ctx, spec, node.IRI)
		if err != nil {
			return nil, err
		}
		item, err := derive.FromInstance[T](inst)
		if err != nil {
			return nil, decodeErr("ListInstancesWhere", err)
		}
		out = append(out, item)
	}
	return out, nil
}
