package vm

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/VictoriaMetrics/metrics"

	"github.com/nickyhof/ifxsql/core"
)

// Option configures a Collector.
type Option func(*Collector)

// WithPrefix sets the metric name prefix.
//
// Default: "ifxsql"
//
// Parameters:
//   - prefix: The prefix to use for all metric names
//
// Returns:
//   - Option: A configuration option
func WithPrefix(prefix string) Option {
	return func(c *Collector) {
		c.prefix = prefix
	}
}

// WithMetricsSet sets the metrics set to use.
//
// If provided, the collector will register metrics with this set instead of
// creating a new one. The caller is responsible for exposing this set
// (e.g., via metrics.WritePrometheus or a custom handler).
//
// Parameters:
//   - set: The metrics set to use
//
// Returns:
//   - Option: A configuration option
func WithMetricsSet(set *metrics.Set) Option {
	return func(c *Collector) {
		c.set = set
	}
}

// Collector implements core.MetricsCollector using VictoriaMetrics.
//
// Metrics are pre-created at initialization time, except the per-operation
// error counters which are created on first use. Thread-safe for concurrent
// use.
type Collector struct {
	set    *metrics.Set
	prefix string

	// Session metrics
	connectionsOpened *metrics.Counter
	connectionsClosed *metrics.Counter
	connectionsOpen   atomic.Int64

	// Statement metrics
	statementsTotal *metrics.Counter
	executeDuration *metrics.Histogram

	// Cursor metrics
	cursorsOpened *metrics.Counter
	cursorsClosed *metrics.Counter
	cursorsOpen   atomic.Int64
	rowsFetched   *metrics.Counter
}

var _ core.MetricsCollector = (*Collector)(nil)

// New creates a new VictoriaMetrics-based metrics collector.
//
// The collector creates its own metrics.Set and registers it globally.
//
// Parameters:
//   - opts: Configuration options (e.g., WithPrefix)
//
// Returns:
//   - *Collector: A new metrics collector ready for use
//
// Example:
//
//	collector := vm.New(vm.WithPrefix("stores"))
//	env, _ := db.Open(client, db.WithMetrics(collector))
func New(opts ...Option) *Collector {
	c := &Collector{
		prefix: "ifxsql",
	}

	for _, opt := range opts {
		opt(c)
	}

	// If no set is provided, create a new one and register it globally.
	// If a set is provided, we assume the caller manages it.
	if c.set == nil {
		c.set = metrics.NewSet()
		metrics.RegisterSet(c.set)
	}

	c.initMetrics()

	return c
}

// initMetrics pre-creates all metrics with the configured prefix.
func (c *Collector) initMetrics() {
	p := c.prefix

	c.connectionsOpened = c.set.NewCounter(fmt.Sprintf(`%s_connections_opened_total`, p))
	c.connectionsClosed = c.set.NewCounter(fmt.Sprintf(`%s_connections_closed_total`, p))
	c.set.NewGauge(fmt.Sprintf(`%s_connections_open`, p), func() float64 {
		return float64(c.connectionsOpen.Load())
	})

	c.statementsTotal = c.set.NewCounter(fmt.Sprintf(`%s_statements_total`, p))
	c.executeDuration = c.set.NewHistogram(fmt.Sprintf(`%s_execute_duration_seconds`, p))

	c.cursorsOpened = c.set.NewCounter(fmt.Sprintf(`%s_cursors_opened_total`, p))
	c.cursorsClosed = c.set.NewCounter(fmt.Sprintf(`%s_cursors_closed_total`, p))
	c.set.NewGauge(fmt.Sprintf(`%s_cursors_open`, p), func() float64 {
		return float64(c.cursorsOpen.Load())
	})
	c.rowsFetched = c.set.NewCounter(fmt.Sprintf(`%s_rows_fetched_total`, p))
}

func (c *Collector) Set() *metrics.Set {
	return c.set
}

// Handler returns an HTTP handler that exposes metrics in Prometheus format.
//
// Example:
//
//	http.HandleFunc("/metrics", collector.Handler)
func (c *Collector) Handler(w http.ResponseWriter, _ *http.Request) {
	c.set.WritePrometheus(w)
}

// WritePrometheus writes all metrics in Prometheus format to the given writer.
//
// Parameters:
//   - w: The writer to write metrics to
func (c *Collector) WritePrometheus(w io.Writer) {
	c.set.WritePrometheus(w)
}

// ----------------------
// Sessions
// ----------------------

// IncConnectionOpened increments the opened sessions counter.
func (c *Collector) IncConnectionOpened() {
	c.connectionsOpened.Inc()
	c.connectionsOpen.Add(1)
}

// IncConnectionClosed increments the closed sessions counter.
func (c *Collector) IncConnectionClosed() {
	c.connectionsClosed.Inc()
	c.connectionsOpen.Add(-1)
}

// ----------------------
// Statements
// ----------------------

// IncStatementTotal increments the executed statements counter.
func (c *Collector) IncStatementTotal() {
	c.statementsTotal.Inc()
}

// ObserveExecuteDuration records an execute call duration in seconds.
func (c *Collector) ObserveExecuteDuration(seconds float64) {
	c.executeDuration.Update(seconds)
}

// ----------------------
// Cursors
// ----------------------

// IncCursorOpened increments the opened cursors counter.
func (c *Collector) IncCursorOpened() {
	c.cursorsOpened.Inc()
	c.cursorsOpen.Add(1)
}

// IncCursorClosed increments the closed cursors counter.
func (c *Collector) IncCursorClosed() {
	c.cursorsClosed.Inc()
	c.cursorsOpen.Add(-1)
}

// AddRowsFetched adds n to the fetched rows counter.
func (c *Collector) AddRowsFetched(n int) {
	c.rowsFetched.Add(n)
}

// ----------------------
// Errors
// ----------------------

// IncEngineError increments the engine error counter for op. Spaces in op
// become underscores in the label value.
func (c *Collector) IncEngineError(op string) {
	op = strings.ReplaceAll(op, " ", "_")
	c.set.GetOrCreateCounter(fmt.Sprintf(`%s_engine_errors_total{op="%s"}`, c.prefix, op)).Inc()
}
