// Package logging provides the structured logging infrastructure shared by
// client and change: a global logrus logger with intelligent stdout/stderr
// stream routing, adapted from the teacher's common/logger.go and
// common/logging.go.
package logging

import (
	"bytes"
	"os"

	"github.com/sirupsen/logrus"
)

// OutputSplitter routes level=error log lines to stderr and everything else
// to stdout, matching the teacher's container-friendly stream separation.
type OutputSplitter struct{}

func (OutputSplitter) Write(p []byte) (int, error) {
	if bytes.Contains(p, []byte("level=error")) {
		return os.Stderr.Write(p)
	}
	return os.Stdout.Write(p)
}

// Config controls the behavior of Configure.
type Config struct {
	Level     string // debug, info, warn, error; defaults to info
	Format    string // text or json; defaults to text
	AddCaller bool
}

// Logger is the package-level logger every component in this module uses.
// It starts pre-configured with sane defaults so the module is usable
// before Configure is ever called.
var Logger = logrus.New()

func init() {
	Logger.SetOutput(&OutputSplitter{})
}

// Configure applies cfg to the package-level Logger. Safe to call once at
// process start; not intended to be re-invoked concurrently with logging.
func Configure(cfg Config) {
	switch cfg.Level {
	case "debug":
		Logger.SetLevel(logrus.DebugLevel)
	case "warn":
		Logger.SetLevel(logrus.WarnLevel)
	case "error":
		Logger.SetLevel(logrus.ErrorLevel)
	default:
		Logger.SetLevel(logrus.InfoLevel)
	}

	if cfg.Format == "json" {
		Logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	Logger.SetReportCaller(cfg.AddCaller)
}

// ContextLogger carries a fixed set of structured fields across a chain of
// calls without mutating the shared package logger, mirroring the teacher's
// ContextLogger/WithField non-mutating chain pattern.
type ContextLogger struct {
	fields logrus.Fields
}

// NewContextLogger starts a ContextLogger with no fields set.
func NewContextLogger() *ContextLogger {
	return &ContextLogger{fields: logrus.Fields{}}
}

// WithField returns a new ContextLogger with key=value added, leaving the
// receiver unchanged.
func (c *ContextLogger) WithField(key string, value interface{}) *ContextLogger {
	next := logrus.Fields{}
	for k, v := range c.fields {
		next[k] = v
	}
	next[key] = value
	return &ContextLogger{fields: next}
}

// Entry returns a logrus.Entry carrying this ContextLogger's accumulated fields.
func (c *ContextLogger) Entry() *logrus.Entry {
	return Logger.WithFields(c.fields)
}
