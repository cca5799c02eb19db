// Package vm provides a VictoriaMetrics-based implementation of the MetricsCollector interface.
//
// This package uses github.com/VictoriaMetrics/metrics for lightweight,
// Prometheus-compatible metrics collection.
//
// # Basic Usage
//
// Create a collector with default prefix "ifxsql":
//
//	collector := vm.New()
//	env, _ := db.Open(client, db.WithMetrics(collector))
//
// # Exposing Metrics
//
//	http.HandleFunc("/metrics", collector.Handler)
//	http.ListenAndServe(":9464", nil)
//
// # Metrics Provided
//
// Sessions:
//   - {prefix}_connections_opened_total - Counter of sessions opened
//   - {prefix}_connections_closed_total - Counter of sessions closed
//   - {prefix}_connections_open - Gauge of live sessions
//
// Statements:
//   - {prefix}_statements_total - Counter of executed statements
//   - {prefix}_execute_duration_seconds - Histogram of execute latencies
//
// Cursors:
//   - {prefix}_cursors_opened_total - Counter of cursors opened
//   - {prefix}_cursors_closed_total - Counter of cursors closed
//   - {prefix}_cursors_open - Gauge of open cursors
//   - {prefix}_rows_fetched_total - Counter of fetched rows
//
// Errors:
//   - {prefix}_engine_errors_total{op} - Counter of failed engine calls per operation
package vm
