package client_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tdbgo/tdbgo/client"
	"github.com/tdbgo/tdbgo/client/clienttest"
	"github.com/tdbgo/tdbgo/schema"
)

func TestInsertAndCheckSchema(t *testing.T) {
	srv := clienttest.New()
	defer srv.Close()
	c := client.New(srv.URL(), client.WithRetryCount(0))
	spec := client.DefaultBranchSpec("mydb")

	s := &schema.Schema{}
	s.Add(schema.Class{
		ID: "Person",
		Properties: []schema.Property{
			{Name: "name", Range: "xsd:string", Family: schema.FamilyRequired},
		},
	})

	require.NoError(t, c.InsertSchema(context.Background(), spec, s))
	require.NoError(t, c.CheckSchema(context.Background(), spec, s))
}
