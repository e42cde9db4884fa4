package client_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tdbgo/tdbgo/client"
	"github.com/tdbgo/tdbgo/client/clienttest"
	"github.com/tdbgo/tdbgo/identity"
	"github.com/tdbgo/tdbgo/instance"
)

func newTestClient(t *testing.T, srv *clienttest.Server) *client.Client {
	t.Helper()
	return client.New(srv.URL(), client.WithRetryCount(0))
}

func TestInfo(t *testing.T) {
	srv := clienttest.New()
	defer srv.Close()
	c := newTestClient(t, srv)

	info, err := c.Info(context.Background())
	require.NoError(t, err)
	require.Equal(t, "fake-0.1", info["api:server_version"])
}

func TestCreateListDeleteDatabase(t *testing.T) {
	srv := clienttest.New()
	defer srv.Close()
	c := newTestClient(t, srv)
	ctx := context.Background()

	require.NoError(t, c.CreateDatabase(ctx, "admin", "mydb", nil))
	names, err := c.ListDatabases(ctx)
	require.NoError(t, err)
	require.Contains(t, names, "admin/mydb")

	require.NoError(t, c.DeleteDatabase(ctx, "admin", "mydb"))
	names, err = c.ListDatabases(ctx)
	require.NoError(t, err)
	require.NotContains(t, names, "admin/mydb")
}

func TestInsertAndGetDocument(t *testing.T) {
	srv := clienttest.New()
	defer srv.Close()
	c := newTestClient(t, srv)
	ctx := context.Background()
	spec := client.DefaultBranchSpec("mydb")

	doc := instance.New("Person", "Person/1")
	doc.Set("name", "Ada")

	id, err := c.InsertDocument(ctx, spec, doc)
	require.NoError(t, err)
	require.Equal(t, "Person/1", id)

	fetched, err := c.GetDocument(ctx, spec, "Person/1")
	require.NoError(t, err)
	name, ok := fetched.Get("name")
	require.True(t, ok)
	require.Equal(t, "Ada", name)
}

func TestInsertDocumentsEmptyBatchIsClientLogicError(t *testing.T) {
	srv := clienttest.New()
	defer srv.Close()
	c := newTestClient(t, srv)

	_, err := c.InsertDocuments(context.Background(), client.DefaultBranchSpec("mydb"), nil)
	require.ErrorIs(t, err, client.ErrNothingToInsert)
}

func TestInsertDocumentsBatch(t *testing.T) {
	srv := clienttest.New()
	defer srv.Close()
	c := newTestClient(t, srv)
	ctx := context.Background()
	spec := client.DefaultBranchSpec("mydb")

	a := instance.New("Person", "Person/a")
	b := instance.New("Person", "Person/b")

	ids, err := c.InsertDocuments(ctx, spec, []*instance.Instance{a, b})
	require.NoError(t, err)
	require.Equal(t, []string{"Person/a", "Person/b"}, ids)
}

func TestUpdateAndDeleteDocument(t *testing.T) {
	srv := clienttest.New()
	defer srv.Close()
	c := newTestClient(t, srv)
	ctx := context.Background()
	spec := client.DefaultBranchSpec("mydb")

	doc := instance.New("Person", "Person/1")
	doc.Set("name", "Ada")
	_, err := c.InsertDocument(ctx, spec, doc)
	require.NoError(t, err)

	doc.Set("name", "Ada Lovelace")
	require.NoError(t, c.UpdateDocument(ctx, spec, doc))

	fetched, err := c.GetDocument(ctx, spec, "Person/1")
	require.NoError(t, err)
	name, _ := fetched.Get("name")
	require.Equal(t, "Ada Lovelace", name)

	require.NoError(t, c.DeleteDocument(ctx, spec, "Person/1"))
	_, err = c.GetDocument(ctx, spec, "Person/1")
	require.Error(t, err)

	apiErr, ok := client.As(err)
	require.True(t, ok)
	require.Equal(t, client.KindServerAPI, apiErr.Kind())
}

func TestLogAndListInstanceVersions(t *testing.T) {
	srv := clienttest.New()
	defer srv.Close()
	c := newTestClient(t, srv)
	spec := client.DefaultBranchSpec("mydb")

	srv.SeedLog(spec.String(), "commit1", "ada", "initial")
	srv.SeedLog(spec.String(), "commit2", "ada", "update")

	entries, err := c.Log(context.Background(), spec, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	versions, err := c.ListInstanceVersions(context.Background(), spec, "Person/1")
	require.NoError(t, err)
	require.Equal(t, []string{"commit2", "commit1"}, versions)
}

type personRecord struct {
	ID   string `json:"@id"`
	Name string `json:"name"`
}

func TestDatabaseResolverResolvesThroughGetDocument(t *testing.T) {
	srv := clienttest.New()
	defer srv.Close()
	c := newTestClient(t, srv)
	ctx := context.Background()
	spec := client.DefaultBranchSpec("mydb")

	doc := instance.New("Person", "Person/1")
	doc.Set("name", "Ada")
	_, err := c.InsertDocument(ctx, spec, doc)
	require.NoError(t, err)

	resolver := &client.DatabaseResolver[personRecord]{Client: c, Spec: spec, Ctx: ctx}

	out, err := resolver.Resolve(identity.ServerIDForValue[personRecord]("Person/1"))
	require.NoError(t, err)
	require.Equal(t, "Ada", out.Name)
}
