package db

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/nickyhof/ifxsql/core"
	"github.com/nickyhof/ifxsql/esql"
	"github.com/nickyhof/ifxsql/esql/esqltest"
)

// serverProbe records INFORMIXSERVER as seen while a session is opened.
type serverProbe struct {
	*esqltest.Client
	seen []string
}

func (p *serverProbe) OpenSession(database, id string, cred *esql.Credentials) core.Diagnostics {
	p.seen = append(p.seen, os.Getenv(esql.ServerEnv))
	return p.Client.OpenSession(database, id, cred)
}

func TestOpenRequiresServer(t *testing.T) {
	t.Setenv(esql.ServerEnv, "")

	if _, err := Open(esqltest.New()); !errors.Is(err, ErrNoServer) {
		t.Errorf("Expected ErrNoServer, got %v", err)
	}

	env, err := Open(esqltest.New(), WithServer("ol_test"))
	if err != nil {
		t.Fatalf("Expected server option to be enough, got %v", err)
	}
	_ = env.Close()

	t.Setenv(esql.ServerEnv, "ol_env")
	env, err = Open(esqltest.New())
	if err != nil {
		t.Fatalf("Expected INFORMIXSERVER to be enough, got %v", err)
	}
	_ = env.Close()
}

func TestConnectSetsAndRestoresServer(t *testing.T) {
	t.Setenv(esql.ServerEnv, "ol_orig")

	probe := &serverProbe{Client: esqltest.New()}
	env, err := Open(probe, WithServer("ol_target"))
	if err != nil {
		t.Fatalf("Failed to open: %v", err)
	}
	defer env.Close()

	if _, err := env.Connect("stores"); err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	_, err = env.Connect("")
	expectEngineError(t, err, "connect db", esqltest.CodeConnect)

	if len(probe.seen) != 2 || probe.seen[0] != "ol_target" || probe.seen[1] != "ol_target" {
		t.Errorf("Expected target server during connect, saw %v", probe.seen)
	}
	if got := os.Getenv(esql.ServerEnv); got != "ol_orig" {
		t.Errorf("Expected INFORMIXSERVER restored to ol_orig, got %q", got)
	}
}

func TestConnectWithoutServerOption(t *testing.T) {
	t.Setenv(esql.ServerEnv, "ol_env")

	probe := &serverProbe{Client: esqltest.New()}
	env, err := Open(probe)
	if err != nil {
		t.Fatalf("Failed to open: %v", err)
	}
	defer env.Close()

	if _, err := env.Connect("stores"); err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	if probe.seen[0] != "ol_env" {
		t.Errorf("Expected the inherited server, saw %q", probe.seen[0])
	}
}

func TestConnectSessionIDs(t *testing.T) {
	client, env := setupTestEnv(t)

	first, err := env.Connect("stores", WithCredentials("app", "secret"))
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	second, err := env.Connect("stores")
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}

	prefix := fmt.Sprintf("C_%s_", env.identity)
	if first.ID() != prefix+"1" || second.ID() != prefix+"2" {
		t.Errorf("Unexpected session ids %q and %q", first.ID(), second.ID())
	}
	if strings.Contains(env.identity, "-") {
		t.Errorf("Expected identity without dashes, got %q", env.identity)
	}
	if first.tag == second.tag {
		t.Errorf("Expected distinct connection tags, both %q", first.tag)
	}

	s := client.Session(first.ID())
	if s == nil || s.Database != "stores" {
		t.Fatalf("Expected session on stores, got %+v", s)
	}
	if s.Credentials == nil || s.Credentials.User != "app" || s.Credentials.Password != "secret" {
		t.Errorf("Expected credentials to be passed, got %+v", s.Credentials)
	}
	if client.Session(second.ID()).Credentials != nil {
		t.Error("Expected default identity without credentials")
	}
	if env.Connections() != 2 {
		t.Errorf("Expected 2 live connections, got %d", env.Connections())
	}
}

func TestListConnections(t *testing.T) {
	_, env := setupTestEnv(t)

	conn, err := env.Connect("stores")
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	if _, err := conn.Exec(updateUsers); err != nil {
		t.Fatalf("Failed to execute: %v", err)
	}

	var states []*ConnState
	env.ListConnections(func(s *ConnState) bool {
		states = append(states, s)
		return true
	})
	if len(states) != 1 {
		t.Fatalf("Expected 1 connection, got %d", len(states))
	}
	if states[0].ID != conn.ID() || states[0].LatestSQL != updateUsers || states[0].Database != "stores" {
		t.Errorf("Unexpected state %+v", states[0])
	}
}

func TestEnvironmentClose(t *testing.T) {
	client, env := setupTestEnv(t)

	conn, err := env.Connect("stores")
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	if err := env.Close(); err != nil {
		t.Fatalf("Failed to close environment: %v", err)
	}
	if err := env.Close(); !errors.Is(err, ErrAlreadyClosed) {
		t.Errorf("Expected ErrAlreadyClosed, got %v", err)
	}
	if client.Count("CloseAllSessions") != 1 {
		t.Errorf("Expected one bulk disconnect, got %d", client.Count("CloseAllSessions"))
	}
	if client.Sessions() != 0 {
		t.Errorf("Expected all sessions closed, %d open", client.Sessions())
	}
	if _, err := env.Connect("stores"); !errors.Is(err, ErrEnvironmentClosed) {
		t.Errorf("Expected ErrEnvironmentClosed, got %v", err)
	}

	// The orphaned connection reaches the engine, which no longer knows it.
	_, err = conn.Execute(selectUsers)
	expectEngineError(t, err, "prepare sql", esqltest.CodeNoSession)
	if err := conn.Close(); err != nil {
		t.Errorf("Expected orphaned connection to close, got %v", err)
	}
}

func TestConcurrentConnections(t *testing.T) {
	_, env := setupTestEnv(t)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn, err := env.Connect("stores")
			if err != nil {
				errs <- err
				return
			}
			defer conn.Close()

			cur, err := conn.Query(selectUsers)
			if err != nil {
				errs <- err
				return
			}
			result, err := Collect(cur)
			if err != nil {
				errs <- err
				return
			}
			if result.RecordsRead != 2 {
				errs <- fmt.Errorf("expected 2 rows, got %d", result.RecordsRead)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	if env.Connections() != 0 {
		t.Errorf("Expected all connections closed, %d live", env.Connections())
	}
}
