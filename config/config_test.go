package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearTdbEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"TDB_CONFIG", "TDB_ENDPOINT", "TDB_ORG", "TDB_DB", "TDB_BRANCH",
		"TDB_AUTH_USER", "TDB_AUTH_PASS", "TDB_BEARER_TOKEN", "TDB_TIMEOUT",
		"TDB_RETRY_COUNT", "TDB_LOGS_DIR", "TDB_LOG_CAPACITY", "TDB_LOG_LEVEL", "TDB_LOG_FORMAT",
	} {
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearTdbEnv(t)
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://127.0.0.1:6363", cfg.Endpoint)
	require.Equal(t, "admin", cfg.Org)
	require.Equal(t, "main", cfg.Branch)
	require.Equal(t, 256, cfg.LogCapacity)
	require.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	clearTdbEnv(t)
	require.NoError(t, os.Setenv("TDB_ENDPOINT", "https://tdb.example.com"))
	require.NoError(t, os.Setenv("TDB_RETRY_COUNT", "5"))
	defer clearTdbEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://tdb.example.com", cfg.Endpoint)
	require.Equal(t, 5, cfg.RetryCount)
}

func TestLoadOptionsOverrideEverything(t *testing.T) {
	clearTdbEnv(t)
	require.NoError(t, os.Setenv("TDB_ENDPOINT", "https://tdb.example.com"))
	defer clearTdbEnv(t)

	cfg, err := Load(WithEndpoint("https://override.example.com"), WithOrg("acme"))
	require.NoError(t, err)
	require.Equal(t, "https://override.example.com", cfg.Endpoint)
	require.Equal(t, "acme", cfg.Org)
}

func TestLoadReadsYAMLFile(t *testing.T) {
	clearTdbEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "client.yaml")
	require.NoError(t, os.WriteFile(path, []byte("endpoint: https://from-file.example.com\norg: fileorg\n"), 0o644))
	require.NoError(t, os.Setenv("TDB_CONFIG", path))
	defer clearTdbEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://from-file.example.com", cfg.Endpoint)
	require.Equal(t, "fileorg", cfg.Org)
}

func TestLoadEnvOverridesYAMLFile(t *testing.T) {
	clearTdbEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "client.yaml")
	require.NoError(t, os.WriteFile(path, []byte("endpoint: https://from-file.example.com\n"), 0o644))
	require.NoError(t, os.Setenv("TDB_CONFIG", path))
	require.NoError(t, os.Setenv("TDB_ENDPOINT", "https://from-env.example.com"))
	defer clearTdbEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://from-env.example.com", cfg.Endpoint)
}

func TestWithBasicAuthAndBearerToken(t *testing.T) {
	clearTdbEnv(t)
	cfg, err := Load(WithBasicAuth("ada", "secret"))
	require.NoError(t, err)
	require.Equal(t, "ada", cfg.AuthUser)
	require.Equal(t, "secret", cfg.AuthPass)

	cfg, err = Load(WithBearerToken("tok123"))
	require.NoError(t, err)
	require.Equal(t, "tok123", cfg.BearerToken)
}
