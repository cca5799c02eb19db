package db

import "errors"

// Usage errors. They are returned before any engine call is made.
var (
	ErrEnvironmentClosed = errors.New("environment is closed")
	ErrConnectionClosed  = errors.New("connection is closed")
	ErrCursorClosed      = errors.New("cursor is closed")
	ErrAlreadyClosed     = errors.New("already closed")
	ErrNoServer          = errors.New("informix server environment not found")
	ErrAutoCommitMode    = errors.New("rollback transaction fail, auto commit mode")
	ErrNotQuery          = errors.New("statement returns no rows")
	ErrIsQuery           = errors.New("statement returns rows")
	ErrServerEnv         = errors.New("set informix server environment fail")
)

// errNothingToCommit stops Commit in auto-commit mode before the engine is
// called. Commit reports it as success.
var errNothingToCommit = errors.New("nothing to commit")
