package client_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tdbgo/tdbgo/client"
	"github.com/tdbgo/tdbgo/client/clienttest"
	"github.com/tdbgo/tdbgo/identity"
	"github.com/tdbgo/tdbgo/instance"
)

type article struct {
	_     struct{} `tdb:"class=Article,key=lexical,key_fields=Slug"`
	ID    string   `tdb:"id=true"`
	Slug  string   `tdb:"name=slug"`
	Title string   `tdb:"name=title"`
}

func TestCreateInstancesFiltersAlreadyExisting(t *testing.T) {
	srv := clienttest.New()
	defer srv.Close()
	c := newTestClient(t, srv)
	ctx := context.Background()
	spec := client.DefaultBranchSpec("mydb")

	existing := instance.New("Article", "Article/existing")
	existing.Set("slug", "existing")
	existing.Set("title", "Existing")
	_, err := c.InsertDocument(ctx, spec, existing)
	require.NoError(t, err)

	vs := []article{
		{ID: "Article/existing", Slug: "existing", Title: "Existing"},
		{ID: "", Slug: "fresh", Title: "Fresh"},
	}
	ids, err := client.CreateInstances[article](ctx, c, spec, vs)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	require.Equal(t, "", ids[0].Value)
	require.NotEqual(t, "", ids[1].Value)
}

func TestCreateInstancesEmptyBatchErrors(t *testing.T) {
	srv := clienttest.New()
	defer srv.Close()
	c := newTestClient(t, srv)

	_, err := client.CreateInstances[article](context.Background(), c, client.DefaultBranchSpec("mydb"), nil)
	require.ErrorIs(t, err, client.ErrNothingToInsert)
}

func TestCreateInstancesAllAlreadyExistingErrors(t *testing.T) {
	srv := clienttest.New()
	defer srv.Close()
	c := newTestClient(t, srv)
	ctx := context.Background()
	spec := client.DefaultBranchSpec("mydb")

	existing := instance.New("Article", "Article/existing")
	_, err := c.InsertDocument(ctx, spec, existing)
	require.NoError(t, err)

	_, err = client.CreateInstances[article](ctx, c, spec, []article{{ID: "Article/existing"}})
	require.ErrorIs(t, err, client.ErrNothingToInsert)
}

func TestInsertInstanceUpsertsByID(t *testing.T) {
	srv := clienttest.New()
	defer srv.Close()
	c := newTestClient(t, srv)
	ctx := context.Background()
	spec := client.DefaultBranchSpec("mydb")

	id, err := client.InsertInstance(ctx, c, spec, article{ID: "Article/1", Slug: "a", Title: "First"})
	require.NoError(t, err)
	require.Equal(t, "Article/1", id.Value)

	id, err = client.InsertInstance(ctx, c, spec, article{ID: "Article/1", Slug: "a", Title: "First, revised"})
	require.NoError(t, err)
	require.Equal(t, "Article/1", id.Value)

	out, err := client.GetInstance[article](ctx, c, spec, "Article/1")
	require.NoError(t, err)
	require.Equal(t, "First, revised", out.Title)
}

func TestInsertInstanceWithoutIDFallsBackToPost(t *testing.T) {
	srv := clienttest.New()
	defer srv.Close()
	c := newTestClient(t, srv)
	ctx := context.Background()
	spec := client.DefaultBranchSpec("mydb")

	id, err := client.InsertInstance(ctx, c, spec, article{Slug: "b", Title: "Second"})
	require.NoError(t, err)
	require.NotEqual(t, "", id.Value)
}

func TestGetInstanceWithHeadersReturnsCommitID(t *testing.T) {
	srv := clienttest.New()
	defer srv.Close()
	c := newTestClient(t, srv)
	ctx := context.Background()
	spec := client.DefaultBranchSpec("mydb")

	_, err := client.InsertInstance(ctx, c, spec, article{ID: "Article/1", Slug: "a", Title: "First"})
	require.NoError(t, err)
	srv.SetNextCommitID("commit-xyz")

	out, meta, err := client.GetInstanceWithHeaders[article](ctx, c, spec, "Article/1")
	require.NoError(t, err)
	require.Equal(t, "First", out.Title)
	require.Equal(t, "commit-xyz", meta.CommitID)
}

func TestListInstanceVersionsOf(t *testing.T) {
	srv := clienttest.New()
	defer srv.Close()
	c := newTestClient(t, srv)
	spec := client.DefaultBranchSpec("mydb")

	srv.SeedLog(spec.String(), "c1", "ada", "create")
	srv.SeedLog(spec.String(), "c2", "ada", "update")

	id := identity.ServerIDForValue[article]("Article/1")
	commits, err := client.ListInstanceVersionsOf[article](context.Background(), c, spec, id)
	require.NoError(t, err)
	require.Equal(t, []identity.CommitID{{Value: "c2"}, {Value: "c1"}}, commits)
}

func TestListInstancesWhereDecodesEachMatch(t *testing.T) {
	srv := clienttest.New()
	defer srv.Close()
	c := newTestClient(t, srv)
	ctx := context.Background()
	spec := client.DefaultBranchSpec("mydb")

	_, err := client.InsertInstance(ctx, c, spec, article{ID: "Article/1", Slug: "a", Title: "First"})
	require.NoError(t, err)
	_, err = client.InsertInstance(ctx, c, spec, article{ID: "Article/2", Slug: "b", Title: "Second"})
	require.NoError(t, err)

	srv.SetQueryResponder(func(spec string, q json.RawMessage) ([]map[string]interface{}, error) {
		var decoded struct {
			Variables []string `json:"variables"`
		}
		_ = json.Unmarshal(q, &decoded)
		varName := "doc"
		if len(decoded.Variables) > 0 {
			varName = decoded.Variables[0]
		}
		return []map[string]interface{}{
			{varName: map[string]string{"node": "Article/1"}},
			{varName: map[string]string{"node": "Article/2"}},
		}, nil
	})

	out, err := client.ListInstancesWhere[article](ctx, c, spec, nil)
	require.NoError(t, err)
	require.Len(t, out, 2)

	var titles []string
	for _, a := range out {
		titles = append(titles, a.Title)
	}
	require.ElementsMatch(t, []string{"First", "Second"}, titles)
}
