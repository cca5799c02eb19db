/*
Package esqltest provides a scripted, in-memory engine client.

It is meant for tests of code built on esql.Client where a real engine
would get in the way: statements are answered from a table of canned
results, every call is recorded, and any call can be made to fail once.

Quick start

	c := esqltest.New()
	c.AddQuery("SELECT id, name FROM users",
	    []core.ColumnMeta{
	        {Name: "id", Type: core.SQLInt, Length: 4},
	        {Name: "name", Type: core.SQLChar, Length: 10},
	    },
	    []any{int64(1), "Alice"},
	    []any{int64(2), "Bob"},
	)
	c.AddExec("UPDATE users SET name = 'x'", 3)
	c.FailNext("Commit", esqltest.Diag(-255, "Not in transaction."))

Behavior

  - Prepare answers text that was registered with AddQuery or AddExec and
    fails with code -201 otherwise.
  - Every statement call requires a current session; without one the call
    fails with code -1803.
  - Fetch fills the row buffer through esql.Put and returns code 100 after
    the last row.
  - Begin inside a transaction fails with -535; Commit and Rollback outside
    one fail with -255.
*/
package esqltest

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/nickyhof/ifxsql/core"
	"github.com/nickyhof/ifxsql/esql"
	"github.com/nickyhof/ifxsql/rowbuf"
)

// Engine codes the fake reports.
const (
	CodeSyntax         = -201
	CodeConnect        = -908
	CodeNoSession      = -1803
	CodeCursor         = -400
	CodeNotInTx        = -255
	CodeAlreadyInTx    = -535
	CodeFetchTypeError = -1213
)

// Diag builds a diagnostics record with a code and message.
func Diag(code int, msg string) core.Diagnostics {
	return core.Diagnostics{Code: code, Message: msg}
}

// Result is a canned answer for one statement text.
type Result struct {
	Columns  []core.ColumnMeta
	Rows     [][]any
	Affected int
	Serial   int // reported in the ISAM slot after ExecDirect
}

// Session is the state the fake keeps per open session.
type Session struct {
	Database    string
	Credentials *esql.Credentials
	InTx        bool
}

type cursor struct {
	session string
	result  Result
	open    bool
	pos     int
	hold    bool
}

// Client is a scripted esql.Client.
type Client struct {
	core.StdConverter

	mu         sync.Mutex
	results    map[string]Result
	failures   map[string]core.Diagnostics
	sessions   map[string]*Session
	statements map[esql.Handle]string
	cursors    map[esql.Handle]*cursor
	current    string
	calls      []string
}

var _ esql.Client = (*Client)(nil)

// New returns an empty fake client.
func New() *Client {
	return &Client{
		results:    make(map[string]Result),
		failures:   make(map[string]core.Diagnostics),
		sessions:   make(map[string]*Session),
		statements: make(map[esql.Handle]string),
		cursors:    make(map[esql.Handle]*cursor),
	}
}

// AddQuery registers a statement that returns rows.
func (c *Client) AddQuery(text string, columns []core.ColumnMeta, rows ...[]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[normalize(text)] = Result{Columns: columns, Rows: rows}
}

// AddExec registers a statement that affects rows and returns none.
func (c *Client) AddExec(text string, affected int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[normalize(text)] = Result{Affected: affected}
}

// AddResult registers a full canned result.
func (c *Client) AddResult(text string, r Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[normalize(text)] = r
}

// FailNext makes the next call of the named method return diag.
func (c *Client) FailNext(method string, diag core.Diagnostics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures[method] = diag
}

// Calls returns the recorded calls as "Method arg..." strings.
func (c *Client) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.calls)
}

// Count returns how many times method was called.
func (c *Client) Count(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, call := range c.calls {
		if call == method || strings.HasPrefix(call, method+" ") {
			n++
		}
	}
	return n
}

// Session returns the state of an open session, or nil.
func (c *Client) Session(id string) *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions[id]
}

// Sessions returns the number of open sessions.
func (c *Client) Sessions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}

// Statements returns the number of prepared statements not yet freed.
func (c *Client) Statements() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.statements)
}

// Cursors returns the number of declared cursors not yet freed.
func (c *Client) Cursors() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cursors)
}

// Current returns the current session id.
func (c *Client) Current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// record logs the call and reports a scripted failure for it, if any.
func (c *Client) record(method string, args ...any) (core.Diagnostics, bool) {
	call := method
	for _, a := range args {
		call += " " + fmt.Sprint(a)
	}
	c.calls = append(c.calls, call)

	if diag, ok := c.failures[method]; ok {
		delete(c.failures, method)
		return diag, true
	}
	return core.Diagnostics{}, false
}

func (c *Client) session() (*Session, core.Diagnostics) {
	s, ok := c.sessions[c.current]
	if !ok {
		return nil, Diag(CodeNoSession, "Connection does not exist.")
	}
	return s, core.Diagnostics{}
}

func (c *Client) SetCurrent(id string) core.Diagnostics {
	c.mu.Lock()
	defer c.mu.Unlock()
	if diag, failed := c.record("SetCurrent", id); failed {
		return diag
	}
	if _, ok := c.sessions[id]; !ok {
		c.current = ""
		return Diag(CodeNoSession, "Connection does not exist.")
	}
	c.current = id
	return core.Diagnostics{}
}

func (c *Client) OpenSession(database, id string, cred *esql.Credentials) core.Diagnostics {
	c.mu.Lock()
	defer c.mu.Unlock()
	if diag, failed := c.record("OpenSession", database, id); failed {
		return diag
	}
	if database == "" {
		return Diag(CodeConnect, "Attempt to connect to database server failed.")
	}
	c.sessions[id] = &Session{Database: database, Credentials: cred}
	c.current = id
	return core.Diagnostics{}
}

func (c *Client) CloseSession(id string) core.Diagnostics {
	c.mu.Lock()
	defer c.mu.Unlock()
	if diag, failed := c.record("CloseSession", id); failed {
		return diag
	}
	if _, ok := c.sessions[id]; !ok {
		return Diag(CodeNoSession, "Connection does not exist.")
	}
	delete(c.sessions, id)
	c.dropSessionCursors(id)
	if c.current == id {
		c.current = ""
	}
	return core.Diagnostics{}
}

func (c *Client) CloseAllSessions() core.Diagnostics {
	c.mu.Lock()
	defer c.mu.Unlock()
	if diag, failed := c.record("CloseAllSessions"); failed {
		return diag
	}
	clear(c.sessions)
	for _, cur := range c.cursors {
		cur.open = false
	}
	c.current = ""
	return core.Diagnostics{}
}

// dropSessionCursors closes the cursors a session owned, as the engine
// does on disconnect.
func (c *Client) dropSessionCursors(id string) {
	for _, cur := range c.cursors {
		if cur.session == id {
			cur.open = false
		}
	}
}

func (c *Client) Prepare(id, text string) (esql.Handle, core.Diagnostics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if diag, failed := c.record("Prepare", id, normalize(text)); failed {
		return "", diag
	}
	if _, diag := c.session(); !diag.OK() {
		return "", diag
	}
	key := normalize(text)
	if _, ok := c.results[key]; !ok {
		return "", Diag(CodeSyntax, "A syntax error has occurred.")
	}
	h := esql.Handle(id)
	c.statements[h] = key
	return h, core.Diagnostics{}
}

func (c *Client) Describe(stmt esql.Handle) (*core.Descriptor, core.Diagnostics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if diag, failed := c.record("Describe", stmt); failed {
		return nil, diag
	}
	key, ok := c.statements[stmt]
	if !ok {
		return nil, Diag(CodeCursor, "Statement not prepared.")
	}
	// The allocator rewrites the descriptor, so hand out a copy.
	return core.NewDescriptor(slices.Clone(c.results[key].Columns)...), core.Diagnostics{}
}

func (c *Client) ExecDirect(stmt esql.Handle) core.Diagnostics {
	c.mu.Lock()
	defer c.mu.Unlock()
	if diag, failed := c.record("ExecDirect", stmt); failed {
		return diag
	}
	if _, diag := c.session(); !diag.OK() {
		return diag
	}
	key, ok := c.statements[stmt]
	if !ok {
		return Diag(CodeCursor, "Statement not prepared.")
	}
	r := c.results[key]
	return core.Diagnostics{Rows: r.Affected, ISAM: r.Serial}
}

func (c *Client) DeclareCursor(id string, stmt esql.Handle, hold bool) (esql.Handle, core.Diagnostics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if diag, failed := c.record("DeclareCursor", id, stmt); failed {
		return "", diag
	}
	if _, diag := c.session(); !diag.OK() {
		return "", diag
	}
	key, ok := c.statements[stmt]
	if !ok {
		return "", Diag(CodeCursor, "Statement not prepared.")
	}
	h := esql.Handle(id)
	c.cursors[h] = &cursor{session: c.current, result: c.results[key], hold: hold}
	return h, core.Diagnostics{}
}

func (c *Client) OpenCursor(cur esql.Handle) core.Diagnostics {
	c.mu.Lock()
	defer c.mu.Unlock()
	if diag, failed := c.record("OpenCursor", cur); failed {
		return diag
	}
	k, ok := c.cursors[cur]
	if !ok {
		return Diag(CodeCursor, "Cursor not found.")
	}
	k.open = true
	k.pos = 0
	return core.Diagnostics{}
}

func (c *Client) Fetch(cur esql.Handle, buf *rowbuf.Buffer) core.Diagnostics {
	c.mu.Lock()
	defer c.mu.Unlock()
	if diag, failed := c.record("Fetch", cur); failed {
		return diag
	}
	k, ok := c.cursors[cur]
	if !ok || !k.open {
		return Diag(CodeCursor, "Cursor not open.")
	}
	if k.pos >= len(k.result.Rows) {
		return core.Diagnostics{Code: core.CodeNotFound, Rows: k.pos}
	}

	row := k.result.Rows[k.pos]
	buf.Reset()
	for i := range buf.Len() {
		var v any
		if i < len(row) {
			v = row[i]
		}
		if err := esql.Put(buf, i, v); err != nil {
			return Diag(CodeFetchTypeError, err.Error())
		}
	}
	k.pos++
	return core.Diagnostics{Rows: k.pos}
}

func (c *Client) CloseCursor(cur esql.Handle) core.Diagnostics {
	c.mu.Lock()
	defer c.mu.Unlock()
	if diag, failed := c.record("CloseCursor", cur); failed {
		return diag
	}
	k, ok := c.cursors[cur]
	if !ok {
		return Diag(CodeCursor, "Cursor not found.")
	}
	k.open = false
	return core.Diagnostics{}
}

func (c *Client) FreeStatement(stmt esql.Handle) core.Diagnostics {
	c.mu.Lock()
	defer c.mu.Unlock()
	if diag, failed := c.record("FreeStatement", stmt); failed {
		return diag
	}
	delete(c.statements, stmt)
	return core.Diagnostics{}
}

func (c *Client) FreeCursor(cur esql.Handle) core.Diagnostics {
	c.mu.Lock()
	defer c.mu.Unlock()
	if diag, failed := c.record("FreeCursor", cur); failed {
		return diag
	}
	delete(c.cursors, cur)
	return core.Diagnostics{}
}

func (c *Client) Begin() core.Diagnostics {
	c.mu.Lock()
	defer c.mu.Unlock()
	if diag, failed := c.record("Begin"); failed {
		return diag
	}
	s, diag := c.session()
	if !diag.OK() {
		return diag
	}
	if s.InTx {
		return Diag(CodeAlreadyInTx, "Already in transaction.")
	}
	s.InTx = true
	return core.Diagnostics{}
}

func (c *Client) Commit() core.Diagnostics {
	return c.endTx("Commit")
}

func (c *Client) Rollback() core.Diagnostics {
	return c.endTx("Rollback")
}

func (c *Client) endTx(method string) core.Diagnostics {
	c.mu.Lock()
	defer c.mu.Unlock()
	if diag, failed := c.record(method); failed {
		return diag
	}
	s, diag := c.session()
	if !diag.OK() {
		return diag
	}
	if !s.InTx {
		return Diag(CodeNotInTx, "Not in transaction.")
	}
	s.InTx = false
	return core.Diagnostics{}
}
