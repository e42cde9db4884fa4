//go:build integration

// Package integration spins up a real terminusdb/terminusdb-server container
// for tests that need to exercise package client against the genuine wire
// protocol rather than the in-process fake in client/clienttest. Grounded on
// the teacher's containers/testing package (SetupCouchDB's
// testcontainers.GenericContainer + wait.ForHTTP + createCleanupFunc shape).
// Run with: go test -tags=integration ./...
package integration

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/tdbgo/tdbgo/client"
)

// ServerConfig configures the terminusdb-server testcontainer.
type ServerConfig struct {
	Image          string
	AdminPassword  string
	StartupTimeout time.Duration
}

// DefaultServerConfig returns sane defaults for local integration runs.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Image:          "terminusdb/terminusdb-server:latest",
		AdminPassword:  "root",
		StartupTimeout: 90 * time.Second,
	}
}

// Cleanup terminates the container; always deferred immediately after Setup.
type Cleanup func()

// Setup starts a terminusdb-server container and returns a client.Client
// wired with BasicAuth against it, plus a Cleanup to terminate the
// container when the test finishes.
func Setup(ctx context.Context, cfg *ServerConfig) (*client.Client, Cleanup, error) {
	if cfg == nil {
		d := DefaultServerConfig()
		cfg = &d
	}

	req := testcontainers.ContainerRequest{
		Image:        cfg.Image,
		ExposedPorts: []string{"6363/tcp"},
		Env: map[string]string{
			"TERMINUSDB_ADMIN_PASS": cfg.AdminPassword,
		},
		WaitingFor: wait.ForHTTP("/api/info").
			WithPort("6363/tcp").
			WithStartupTimeout(cfg.StartupTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, func() {}, fmt.Errorf("integration: start terminusdb-server container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, func() {}, fmt.Errorf("integration: get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "6363")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, func() {}, fmt.Errorf("integration: get mapped port: %w", err)
	}

	endpoint := fmt.Sprintf("http://%s:%s", host, port.Port())
	c := client.New(endpoint, client.WithCredentials(client.BasicAuth{User: "admin", Pass: cfg.AdminPassword}))

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			fmt.Printf("integration: failed to terminate terminusdb-server container: %v\n", err)
		}
	}

	return c, cleanup, nil
}
