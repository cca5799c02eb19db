package esql

import (
	"os"
	"sync"
)

// ServerEnv is the process environment variable selecting the target server.
const ServerEnv = "INFORMIXSERVER"

// engineMu serializes every engine call in the process. The client keeps a
// single current session, so switching sessions and issuing the call must
// happen without interleaving.
var engineMu sync.Mutex

// Context is the capability for talking to the engine. All of its methods
// hold the process-wide engine lock while they run, so values that go
// through a Context are safe for use from multiple goroutines. Code that
// calls the raw Client directly takes on that locking itself.
type Context struct {
	client Client
}

// NewContext returns a context around client.
func NewContext(client Client) *Context {
	return &Context{client: client}
}

// Client returns the raw client.
func (c *Context) Client() Client {
	return c.client
}

// Do runs fn against a session while holding the engine lock. enter is
// called first, under the lock, and names the session to make current; an
// error from enter is returned before the engine is called. An empty session
// id runs fn without switching sessions.
func (c *Context) Do(enter func() (string, error), fn func(Client) error) error {
	engineMu.Lock()
	defer engineMu.Unlock()

	session, err := enter()
	if err != nil {
		return err
	}
	if session != "" {
		c.client.SetCurrent(session)
	}
	return fn(c.client)
}

// Exclusive runs fn while holding the engine lock without switching
// sessions. It serves calls that span sessions, such as connecting and
// bulk disconnect.
func (c *Context) Exclusive(fn func(Client) error) error {
	engineMu.Lock()
	defer engineMu.Unlock()

	return fn(c.client)
}

// WithServer runs fn with ServerEnv set to server and restores the previous
// value, or its absence, whatever fn returns. An empty server leaves the
// environment untouched.
//
// The variable is process-wide: call WithServer from inside Exclusive or Do
// so no other engine call observes the temporary value.
func WithServer(server string, fn func() error) error {
	if server == "" {
		return fn()
	}

	old, had := os.LookupEnv(ServerEnv)
	if err := os.Setenv(ServerEnv, server); err != nil {
		return err
	}
	defer func() {
		if had {
			_ = os.Setenv(ServerEnv, old)
		} else {
			_ = os.Unsetenv(ServerEnv)
		}
	}()
	return fn()
}
