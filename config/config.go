// Package config provides the layered configuration that builds a
// client.Client: built-in defaults, an optional YAML file, environment
// variables prefixed TDB_, and finally explicit functional options, each
// layer overriding the one before it. Adapted from the teacher's
// config.EnvConfig environment-loading idiom and its cli/root.go
// viper+YAML layering.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config aggregates everything needed to construct a client.Client.
type Config struct {
	Endpoint     string
	Org          string
	DB           string
	Branch       string
	AuthUser     string
	AuthPass     string
	BearerToken  string
	Timeout      time.Duration
	RetryCount   int
	LogsDir      string
	LogCapacity  int // operation-log ring capacity, resolving spec.md §9's Open Question
	LogLevel     string
	LogFormat    string
}

// defaults returns the built-in baseline every other layer overrides.
func defaults() Config {
	return Config{
		Endpoint:    "http://127.0.0.1:6363",
		Org:         "admin",
		Branch:      "main",
		Timeout:     30 * time.Second,
		RetryCount:  2,
		LogCapacity: 256,
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

// Option mutates a Config during Load, applied after the file and
// environment layers so callers always win.
type Option func(*Config)

func WithEndpoint(e string) Option    { return func(c *Config) { c.Endpoint = e } }
func WithOrg(org string) Option       { return func(c *Config) { c.Org = org } }
func WithDB(db string) Option         { return func(c *Config) { c.DB = db } }
func WithBranch(b string) Option      { return func(c *Config) { c.Branch = b } }
func WithBasicAuth(user, pass string) Option {
	return func(c *Config) { c.AuthUser = user; c.AuthPass = pass }
}
func WithBearerToken(tok string) Option { return func(c *Config) { c.BearerToken = tok } }
func WithTimeout(d time.Duration) Option { return func(c *Config) { c.Timeout = d } }
func WithRetryCount(n int) Option        { return func(c *Config) { c.RetryCount = n } }
func WithLogsDir(dir string) Option      { return func(c *Config) { c.LogsDir = dir } }
func WithLogCapacity(n int) Option       { return func(c *Config) { c.LogCapacity = n } }

// Load builds a Config by applying, in order: built-in defaults, a YAML
// file (located via $TDB_CONFIG or ~/.terminusdb/client.yaml), environment
// variables prefixed TDB_, then opts.
func Load(opts ...Option) (Config, error) {
	cfg := defaults()

	if err := loadFile(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	loadEnv(&cfg)

	for _, o := range opts {
		o(&cfg)
	}

	return cfg, nil
}

func loadFile(cfg *Config) error {
	path := os.Getenv("TDB_CONFIG")
	if path == "" {
		home, err := homedir.Dir()
		if err != nil {
			return nil // no home directory resolvable, skip the file layer
		}
		candidate := filepath.Join(home, ".terminusdb", "client.yaml")
		if _, err := os.Stat(candidate); err != nil {
			return nil // no config file present, not an error
		}
		path = candidate
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	if v.IsSet("endpoint") {
		cfg.Endpoint = v.GetString("endpoint")
	}
	if v.IsSet("org") {
		cfg.Org = v.GetString("org")
	}
	if v.IsSet("db") {
		cfg.DB = v.GetString("db")
	}
	if v.IsSet("branch") {
		cfg.Branch = v.GetString("branch")
	}
	if v.IsSet("auth.user") {
		cfg.AuthUser = v.GetString("auth.user")
	}
	if v.IsSet("auth.pass") {
		cfg.AuthPass = v.GetString("auth.pass")
	}
	if v.IsSet("auth.bearer_token") {
		cfg.BearerToken = v.GetString("auth.bearer_token")
	}
	if v.IsSet("timeout") {
		cfg.Timeout = v.GetDuration("timeout")
	}
	if v.IsSet("retry_count") {
		cfg.RetryCount = v.GetInt("retry_count")
	}
	if v.IsSet("logs_dir") {
		cfg.LogsDir = v.GetString("logs_dir")
	}
	if v.IsSet("log_capacity") {
		cfg.LogCapacity = v.GetInt("log_capacity")
	}
	if v.IsSet("log.level") {
		cfg.LogLevel = v.GetString("log.level")
	}
	if v.IsSet("log.format") {
		cfg.LogFormat = v.GetString("log.format")
	}
	return nil
}

// envConfig mirrors the teacher's EnvConfig: a thin prefix-aware wrapper
// over os.Getenv with typed accessors and defaults.
type envConfig struct {
	prefix string
}

func (e envConfig) key(k string) string { return e.prefix + "_" + k }

func (e envConfig) getString(k, def string) string {
	if v := os.Getenv(e.key(k)); v != "" {
		return v
	}
	return def
}

func (e envConfig) getInt(k string, def int) int {
	if v := os.Getenv(e.key(k)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func (e envConfig) getDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(e.key(k)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func loadEnv(cfg *Config) {
	env := envConfig{prefix: "TDB"}
	cfg.Endpoint = env.getString("ENDPOINT", cfg.Endpoint)
	cfg.Org = env.getString("ORG", cfg.Org)
	cfg.DB = env.getString("DB", cfg.DB)
	cfg.Branch = env.getString("BRANCH", cfg.Branch)
	cfg.AuthUser = env.getString("AUTH_USER", cfg.AuthUser)
	cfg.AuthPass = env.getString("AUTH_PASS", cfg.AuthPass)
	cfg.BearerToken = env.getString("BEARER_TOKEN", cfg.BearerToken)
	cfg.Timeout = env.getDuration("TIMEOUT", cfg.Timeout)
	cfg.RetryCount = env.getInt("RETRY_COUNT", cfg.RetryCount)
	cfg.LogsDir = env.getString("LOGS_DIR", cfg.LogsDir)
	cfg.LogCapacity = env.getInt("LOG_CAPACITY", cfg.LogCapacity)
	cfg.LogLevel = env.getString("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = env.getString("LOG_FORMAT", cfg.LogFormat)
}
