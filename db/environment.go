package db

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/sony/sonyflake"

	"github.com/nickyhof/ifxsql/core"
	"github.com/nickyhof/ifxsql/esql"
)

// Environment selects the target server and owns the sessions opened
// against it.
type Environment struct {
	ctx           *esql.Context
	server        string
	identity      string
	seq           int
	closed        bool
	conns         cmap.ConcurrentMap[string, *Connection]
	idGen         *sonyflake.Sonyflake
	logger        core.Logger
	metrics       core.MetricsCollector
	maxBufferSize int
}

// ConnState is a snapshot of one live connection.
type ConnState struct {
	ID          string
	Database    string
	CreatedTime time.Time
	LatestTime  time.Time
	LatestSQL   string
}

// Open creates an environment over client. The server comes from
// WithServer, or from INFORMIXSERVER when no server option is given.
func Open(client esql.Client, opts ...Option) (*Environment, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.server == "" && os.Getenv(esql.ServerEnv) == "" {
		return nil, ErrNoServer
	}

	env := &Environment{
		ctx:           esql.NewContext(client),
		server:        o.server,
		identity:      strings.ReplaceAll(uuid.NewString(), "-", ""),
		conns:         cmap.New[*Connection](),
		logger:        o.logger,
		metrics:       o.metrics,
		maxBufferSize: o.maxBufferSize,
	}
	env.idGen = sonyflake.NewSonyflake(sonyflake.Settings{
		MachineID: func() (uint16, error) {
			return uint16(os.Getpid()), nil
		},
	})
	env.logger.Debug("environment opened", "identity", env.identity, "server", env.server)
	return env, nil
}

// Connect opens a session on database. INFORMIXSERVER is set to the
// configured server for the duration of the call and restored afterwards.
func (e *Environment) Connect(database string, opts ...ConnectOption) (*Connection, error) {
	var co connectOptions
	for _, opt := range opts {
		opt(&co)
	}

	var conn *Connection
	err := e.ctx.Exclusive(func(cl esql.Client) error {
		if e.closed {
			return ErrEnvironmentClosed
		}
		e.seq++
		id := fmt.Sprintf("C_%s_%d", e.identity, e.seq)

		var diag core.Diagnostics
		if err := esql.WithServer(e.server, func() error {
			diag = cl.OpenSession(database, id, co.cred)
			return nil
		}); err != nil {
			return fmt.Errorf("%w: %w", ErrServerEnv, err)
		}
		if !diag.OK() {
			e.metrics.IncEngineError("connect db")
			e.logger.Warn("connect failed", "database", database, "code", diag.Code, "msg", diag.Message)
			return core.NewEngineError("connect db", diag)
		}

		conn = newConnection(e, id, e.connTag(id), database)
		conn.diag = diag
		e.conns.Set(id, conn)
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.metrics.IncConnectionOpened()
	e.logger.Debug("connection opened", "session", conn.id, "database", database)
	return conn, nil
}

// connTag names statements and cursors of one connection. It falls back to
// the session id when the generator is unavailable.
func (e *Environment) connTag(session string) string {
	if e.idGen != nil {
		if id, err := e.idGen.NextID(); err == nil {
			return fmt.Sprintf("%X", id)
		}
	}
	return session
}

// Connections returns the number of live connections.
func (e *Environment) Connections() int {
	return e.conns.Count()
}

// ListConnections calls cb with a snapshot of each live connection until cb
// returns false.
func (e *Environment) ListConnections(cb func(*ConnState) bool) {
	if cb == nil {
		return
	}
	var states []*ConnState
	_ = e.ctx.Exclusive(func(esql.Client) error {
		e.conns.IterCb(func(_ string, c *Connection) {
			states = append(states, c.state())
		})
		return nil
	})
	for _, s := range states {
		if !cb(s) {
			return
		}
	}
}

// Close disconnects every session at once. Connections and cursors still
// held by callers are not closed; their later operations reach the engine,
// which reports the missing session.
func (e *Environment) Close() error {
	return e.ctx.Exclusive(func(cl esql.Client) error {
		if e.closed {
			return ErrAlreadyClosed
		}
		diag := cl.CloseAllSessions()
		if !diag.OK() {
			e.logger.Warn("disconnect all failed", "code", diag.Code, "msg", diag.Message)
		}
		e.closed = true
		e.conns.Clear()
		e.logger.Debug("environment closed", "identity", e.identity)
		return nil
	})
}

// detach drops a closed connection from the registry.
func (e *Environment) detach(c *Connection) {
	e.conns.Remove(c.id)
}
