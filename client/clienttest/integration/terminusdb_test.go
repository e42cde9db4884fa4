//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetupAndInfo(t *testing.T) {
	ctx := context.Background()
	c, cleanup, err := Setup(ctx, nil)
	require.NoError(t, err)
	defer cleanup()

	info, err := c.Info(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, info)
}

func TestCreateDatabaseAgainstRealServer(t *testing.T) {
	ctx := context.Background()
	c, cleanup, err := Setup(ctx, nil)
	require.NoError(t, err)
	defer cleanup()

	require.NoError(t, c.CreateDatabase(ctx, "admin", "integrationtest", nil))
	names, err := c.ListDatabases(ctx)
	require.NoError(t, err)
	require.Contains(t, names, "admin/integrationtest")

	require.NoError(t, c.DeleteDatabase(ctx, "admin", "integrationtest"))
}
