package esql

import (
	"github.com/nickyhof/ifxsql/core"
	"github.com/nickyhof/ifxsql/rowbuf"
)

// Handle names an engine-side prepared statement or cursor.
type Handle string

// Credentials are passed to OpenSession when a user is given.
type Credentials struct {
	User     string
	Password string
}

// Client is the embedded-SQL engine client. It keeps one current session
// per process; every call other than SetCurrent and the session calls acts
// on whichever session was made current last.
//
// Each call returns the diagnostics the engine produced for it. Callers copy
// the value out immediately; nothing is retained between calls.
type Client interface {
	core.Converter

	// SetCurrent makes session the target of subsequent calls.
	SetCurrent(session string) core.Diagnostics

	// OpenSession connects to database and registers the session under id.
	// A nil cred connects as the default user.
	OpenSession(database, id string, cred *Credentials) core.Diagnostics

	// CloseSession disconnects one session.
	CloseSession(id string) core.Diagnostics

	// CloseAllSessions disconnects every session the client knows about.
	CloseAllSessions() core.Diagnostics

	// Prepare compiles text under the statement id.
	Prepare(id, text string) (Handle, core.Diagnostics)

	// Describe returns the result-set columns of a prepared statement.
	// Statements that return no rows describe as zero columns.
	Describe(stmt Handle) (*core.Descriptor, core.Diagnostics)

	// ExecDirect runs a prepared non-query statement. Rows carries the
	// affected row count.
	ExecDirect(stmt Handle) core.Diagnostics

	// DeclareCursor declares cursor id over a prepared statement. A held
	// cursor survives transaction boundaries.
	DeclareCursor(id string, stmt Handle, hold bool) (Handle, core.Diagnostics)

	// OpenCursor executes the cursor's statement.
	OpenCursor(cur Handle) core.Diagnostics

	// Fetch writes the next row into buf. Code 100 marks end of data.
	Fetch(cur Handle, buf *rowbuf.Buffer) core.Diagnostics

	CloseCursor(cur Handle) core.Diagnostics
	FreeStatement(stmt Handle) core.Diagnostics
	FreeCursor(cur Handle) core.Diagnostics

	Begin() core.Diagnostics
	Commit() core.Diagnostics
	Rollback() core.Diagnostics
}
