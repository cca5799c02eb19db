// Package esql defines the boundary to the embedded-SQL engine client.
//
// Client is the set of primitives the engine offers: sessions, prepared
// statements, cursors and transactions, each returning a diagnostics
// record. Two implementations ship with the module: duck.Client runs
// statements on DuckDB, and esqltest.Client is a scripted fake for tests.
//
// # Current Session
//
// The engine client targets one current session per process. Context
// pairs every call with the SetCurrent that precedes it and holds a
// process-wide lock across both. The enter function runs under the lock
// and can refuse the call before the engine sees it:
//
//	ctx := esql.NewContext(client)
//	err := ctx.Do(func() (string, error) {
//	    if closed {
//	        return "", errClosed
//	    }
//	    return sessionID, nil
//	}, func(c esql.Client) error {
//	    h, diag := c.Prepare("p_1", "SELECT 1")
//	    ...
//	})
//
// Code that calls a Client directly, outside a Context, must serialize
// those calls itself.
//
// # Server Selection
//
// WithServer sets INFORMIXSERVER for the duration of a call and restores
// the previous value afterwards. Run it inside Exclusive so no other engine
// call observes the temporary value.
//
// # Filling Fetch Buffers
//
// Put writes a Go value into a row buffer column in the layout the codec
// expects, which is how client implementations answer Fetch.
package esql
