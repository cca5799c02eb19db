package vm

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/VictoriaMetrics/metrics"

	"github.com/nickyhof/ifxsql/core"
	"github.com/nickyhof/ifxsql/db"
	"github.com/nickyhof/ifxsql/esql/esqltest"
)

func scrape(c *Collector) string {
	var buf bytes.Buffer
	c.WritePrometheus(&buf)
	return buf.String()
}

func expectLine(t *testing.T, out, line string) {
	t.Helper()
	if !strings.Contains(out, line+"\n") {
		t.Errorf("Expected %q in:\n%s", line, out)
	}
}

func TestCollector(t *testing.T) {
	c := New(WithPrefix("test"), WithMetricsSet(metrics.NewSet()))

	c.IncConnectionOpened()
	c.IncConnectionOpened()
	c.IncConnectionClosed()
	c.IncStatementTotal()
	c.ObserveExecuteDuration(0.25)
	c.IncCursorOpened()
	c.AddRowsFetched(3)
	c.IncEngineError("prepare sql")
	c.IncEngineError("prepare sql")

	out := scrape(c)
	expectLine(t, out, "test_connections_opened_total 2")
	expectLine(t, out, "test_connections_closed_total 1")
	expectLine(t, out, "test_connections_open 1")
	expectLine(t, out, "test_statements_total 1")
	expectLine(t, out, "test_cursors_open 1")
	expectLine(t, out, "test_rows_fetched_total 3")
	expectLine(t, out, `test_engine_errors_total{op="prepare_sql"} 2`)
	if !strings.Contains(out, "test_execute_duration_seconds_count 1") {
		t.Errorf("Expected one execute duration sample in:\n%s", out)
	}
}

func TestHandler(t *testing.T) {
	c := New(WithMetricsSet(metrics.NewSet()))
	c.IncStatementTotal()

	rec := httptest.NewRecorder()
	c.Handler(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "ifxsql_statements_total 1") {
		t.Errorf("Expected default prefix in handler output, got:\n%s", rec.Body.String())
	}
	if c.Set() == nil {
		t.Error("Expected a metrics set")
	}
}

func TestCollectorWithEnvironment(t *testing.T) {
	c := New(WithPrefix("env"), WithMetricsSet(metrics.NewSet()))

	client := esqltest.New()
	client.AddQuery("SELECT id FROM t",
		[]core.ColumnMeta{{Name: "id", Type: core.SQLInt, Length: 4}},
		[]any{int32(1)}, []any{int32(2)},
	)
	env, err := db.Open(client, db.WithServer("ol_test"), db.WithMetrics(c))
	if err != nil {
		t.Fatalf("Failed to open environment: %v", err)
	}
	defer env.Close()

	conn, err := env.Connect("stores")
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	if _, err := db.Run(conn, "SELECT id FROM t"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if _, err := conn.Execute("BOGUS"); err == nil {
		t.Fatal("Expected a syntax error")
	}
	if err := conn.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	out := scrape(c)
	expectLine(t, out, "env_connections_opened_total 1")
	expectLine(t, out, "env_connections_open 0")
	expectLine(t, out, "env_cursors_opened_total 1")
	expectLine(t, out, "env_cursors_open 0")
	expectLine(t, out, "env_rows_fetched_total 2")
	expectLine(t, out, `env_engine_errors_total{op="prepare_sql"} 1`)
}
