package duck

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/duckdb/duckdb-go/v2"
	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/nickyhof/ifxsql/core"
	"github.com/nickyhof/ifxsql/esql"
)

// Client is an esql.Client that runs statements on DuckDB.
//
// A database name opens a DuckDB database: a file under the data directory
// when one is configured, otherwise an in-memory database shared by every
// session that names it on the same server. Each session pins one
// connection. Credentials are accepted and ignored.
type Client struct {
	core.StdConverter

	ctx     context.Context
	dataDir string
	textLen int

	mu        sync.Mutex
	current   string
	databases map[string]*database

	sessions   cmap.ConcurrentMap[string, *session]
	statements cmap.ConcurrentMap[string, *statement]
	cursors    cmap.ConcurrentMap[string, *cursor]
}

var _ esql.Client = (*Client)(nil)

// database is a DuckDB handle shared by the sessions that opened it.
type database struct {
	db   *sql.DB
	refs int
}

type session struct {
	id   string
	key  string
	conn *sql.Conn
	inTx bool
}

// Option configures a Client.
type Option func(*Client)

// WithDataDir stores databases as <dir>/<server>/<name>.duckdb files.
//
// Default: in-memory databases
func WithDataDir(dir string) Option {
	return func(c *Client) {
		c.dataDir = dir
	}
}

// WithTextLength sets the length VARCHAR and other unbounded columns are
// described with. Longer values are truncated on fetch.
//
// Default: core.UDTStringLen
func WithTextLength(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.textLen = n
		}
	}
}

// WithContext sets the context every driver call runs under.
//
// Default: context.Background()
func WithContext(ctx context.Context) Option {
	return func(c *Client) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// New returns a DuckDB client.
func New(opts ...Option) *Client {
	c := &Client{
		ctx:        context.Background(),
		textLen:    core.UDTStringLen,
		databases:  make(map[string]*database),
		sessions:   cmap.New[*session](),
		statements: cmap.New[*statement](),
		cursors:    cmap.New[*cursor](),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// currentSession returns the session made current last.
func (c *Client) currentSession() (*session, core.Diagnostics) {
	c.mu.Lock()
	id := c.current
	c.mu.Unlock()

	s, ok := c.sessions.Get(id)
	if !ok {
		return nil, diag(CodeNoSession, "Connection does not exist.")
	}
	return s, core.Diagnostics{}
}

func (c *Client) SetCurrent(id string) core.Diagnostics {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.sessions.Has(id) {
		c.current = ""
		return diag(CodeNoSession, "Connection does not exist.")
	}
	c.current = id
	return core.Diagnostics{}
}

// dsn returns the registry key and DuckDB DSN of a database on server.
func (c *Client) dsn(server, name string) (string, string, error) {
	key := server + "/" + name
	if c.dataDir == "" || name == ":memory:" {
		return key, "", nil
	}
	dir := filepath.Join(c.dataDir, server)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", err
	}
	return key, filepath.Join(dir, name+".duckdb"), nil
}

func (c *Client) OpenSession(name, id string, _ *esql.Credentials) core.Diagnostics {
	server := os.Getenv(esql.ServerEnv)
	if server == "" {
		return diag(CodeNoServer, "INFORMIXSERVER is not set.")
	}
	if name == "" {
		return diag(CodeCannotOpen, "Cannot open database.")
	}
	if c.sessions.Has(id) {
		return diag(CodeCannotOpen, fmt.Sprintf("Connection name %s is already in use.", id))
	}

	key, dsn, err := c.dsn(server, name)
	if err != nil {
		return diag(CodeCannotOpen, err.Error())
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	d, ok := c.databases[key]
	if !ok {
		db, err := sql.Open("duckdb", dsn)
		if err != nil {
			return diagOpen(err)
		}
		d = &database{db: db}
		c.databases[key] = d
	}

	conn, err := d.db.Conn(c.ctx)
	if err != nil {
		if d.refs == 0 {
			_ = d.db.Close()
			delete(c.databases, key)
		}
		return diagOpen(err)
	}
	d.refs++

	c.sessions.Set(id, &session{id: id, key: key, conn: conn})
	c.current = id
	return core.Diagnostics{}
}

func diagOpen(err error) core.Diagnostics {
	d := diagFromError(err)
	d.Code = CodeCannotOpen
	return d
}

func (c *Client) CloseSession(id string) core.Diagnostics {
	s, ok := c.sessions.Pop(id)
	if !ok {
		return diag(CodeNoSession, "Connection does not exist.")
	}
	c.dropSession(s)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == id {
		c.current = ""
	}
	c.release(s)
	return core.Diagnostics{}
}

func (c *Client) CloseAllSessions() core.Diagnostics {
	var all []*session
	c.sessions.IterCb(func(_ string, s *session) {
		all = append(all, s)
	})
	for _, s := range all {
		c.sessions.Remove(s.id)
		c.dropSession(s)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = ""
	for _, s := range all {
		c.release(s)
	}
	return core.Diagnostics{}
}

// dropSession closes the statements and cursors a session owned. Cursor
// handles stay registered until freed, as on the engine.
func (c *Client) dropSession(s *session) {
	for _, st := range c.statements.Items() {
		if st.session == s {
			st.close()
			c.statements.Remove(st.id)
		}
	}
	for _, cur := range c.cursors.Items() {
		if cur.session == s {
			cur.close()
		}
	}
}

// release returns a session's connection and closes its database when no
// session uses it any more. c.mu must be held.
func (c *Client) release(s *session) {
	if s.inTx {
		_, _ = s.conn.ExecContext(c.ctx, "ROLLBACK")
	}
	_ = s.conn.Close()

	d, ok := c.databases[s.key]
	if !ok {
		return
	}
	d.refs--
	if d.refs <= 0 && d.db != nil {
		// In-memory databases live as long as a session uses them.
		_ = d.db.Close()
		delete(c.databases, s.key)
	}
}

// Close disconnects every session and closes every database.
func (c *Client) Close() error {
	c.CloseAllSessions()

	c.mu.Lock()
	defer c.mu.Unlock()
	for key, d := range c.databases {
		_ = d.db.Close()
		delete(c.databases, key)
	}
	return nil
}
