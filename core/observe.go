package core

// Logger is the structured logger the driver writes to. Key/value pairs
// follow the message.
//
// The default is a no-op logger; internal/logging.SlogLogger adapts a
// *slog.Logger.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// MetricsCollector receives operational metrics. Implementations must be
// safe for concurrent use.
//
// Example usage with VictoriaMetrics (via contrib/metrics/vm):
//
//	collector := vm.New(vm.WithPrefix("myapp"))
//	env, _ := db.Open(client, db.WithMetrics(collector))
type MetricsCollector interface {
	// IncConnectionOpened increments the counter of sessions opened.
	IncConnectionOpened()

	// IncConnectionClosed increments the counter of sessions closed.
	IncConnectionClosed()

	// IncStatementTotal increments the counter of executed statements.
	IncStatementTotal()

	// ObserveExecuteDuration records an execute call duration in seconds.
	ObserveExecuteDuration(seconds float64)

	// IncCursorOpened increments the counter of cursors opened.
	IncCursorOpened()

	// IncCursorClosed increments the counter of cursors closed.
	IncCursorClosed()

	// AddRowsFetched adds n to the fetched row counter.
	AddRowsFetched(n int)

	// IncEngineError increments the engine error counter for an operation.
	IncEngineError(op string)
}
