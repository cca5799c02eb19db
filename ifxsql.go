package ifxsql

import (
	"github.com/nickyhof/ifxsql/db"
	"github.com/nickyhof/ifxsql/duck"
	"github.com/nickyhof/ifxsql/esql"
)

// Instance is an engine client that environments are opened on.
type Instance struct {
	Client esql.Client
}

// Open wraps an engine client.
func Open(client esql.Client) *Instance {
	return &Instance{
		Client: client,
	}
}

// OpenDuck returns an instance backed by DuckDB.
func OpenDuck(opts ...duck.Option) *Instance {
	return Open(duck.New(opts...))
}

// Environment opens an environment on the instance's client.
func (instance *Instance) Environment(opts ...db.Option) (*db.Environment, error) {
	return db.Open(instance.Client, opts...)
}

// Close releases the client when it holds resources of its own.
func (instance *Instance) Close() error {
	if c, ok := instance.Client.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
