// Package metrics provides internal metrics utilities for ifxsql.
package metrics

import "github.com/nickyhof/ifxsql/core"

// NopMetrics is a no-op metrics collector that discards all metrics.
//
// This is used as the default metrics collector when no collector is configured,
// avoiding nil checks throughout the codebase.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements core.MetricsCollector.
var _ core.MetricsCollector = (*NopMetrics)(nil)

// NewNopMetrics creates a new no-op metrics collector.
func NewNopMetrics() *NopMetrics {
	return &NopMetrics{}
}

// IncConnectionOpened discards the metric.
func (m *NopMetrics) IncConnectionOpened() {}

// IncConnectionClosed discards the metric.
func (m *NopMetrics) IncConnectionClosed() {}

// IncStatementTotal discards the metric.
func (m *NopMetrics) IncStatementTotal() {}

// ObserveExecuteDuration discards the metric.
func (m *NopMetrics) ObserveExecuteDuration(_ float64) {}

// IncCursorOpened discards the metric.
func (m *NopMetrics) IncCursorOpened() {}

// IncCursorClosed discards the metric.
func (m *NopMetrics) IncCursorClosed() {}

// AddRowsFetched discards the metric.
func (m *NopMetrics) AddRowsFetched(_ int) {}

// IncEngineError discards the metric.
func (m *NopMetrics) IncEngineError(_ string) {}
