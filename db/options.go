package db

import (
	"github.com/nickyhof/ifxsql/core"
	"github.com/nickyhof/ifxsql/esql"
	"github.com/nickyhof/ifxsql/internal/logging"
	"github.com/nickyhof/ifxsql/internal/metrics"
)

// Option configures an Environment.
type Option func(*options)

type options struct {
	server        string
	logger        core.Logger
	metrics       core.MetricsCollector
	maxBufferSize int
}

func defaultOptions() options {
	return options{
		logger:  logging.NewNopLogger(),
		metrics: metrics.NewNopMetrics(),
	}
}

// WithServer selects the target server. Connect exports it as
// INFORMIXSERVER while the session is opened.
func WithServer(name string) Option {
	return func(o *options) {
		o.server = name
	}
}

// WithLogger sets the logger.
//
// Default: a no-op logger
func WithLogger(logger core.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics sets the metrics collector.
//
// Default: a no-op collector
func WithMetrics(collector core.MetricsCollector) Option {
	return func(o *options) {
		if collector != nil {
			o.metrics = collector
		}
	}
}

// WithMaxBufferSize caps the size of a cursor's row buffer in bytes.
// Statements whose rows need more fail with rowbuf.ErrAlloc.
//
// Default: 0 (no cap)
func WithMaxBufferSize(n int) Option {
	return func(o *options) {
		o.maxBufferSize = n
	}
}

// ConnectOption configures a single Connect call.
type ConnectOption func(*connectOptions)

type connectOptions struct {
	cred *esql.Credentials
}

// WithCredentials connects as user instead of the default identity.
func WithCredentials(user, password string) ConnectOption {
	return func(o *connectOptions) {
		o.cred = &esql.Credentials{User: user, Password: password}
	}
}
