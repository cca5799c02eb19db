// Package ifxsql provides an Informix-style SQL client layer.
//
// A client follows the embedded SQL lifecycle: an environment opens
// connections against a named server, connections prepare and execute
// statements, and queries return cursors that fetch rows through a typed
// row buffer.
//
// # Quick Start
//
// Open an environment on the embedded DuckDB engine:
//
//	instance := ifxsql.OpenDuck()
//	defer instance.Close()
//
//	env, _ := instance.Environment(db.WithServer("ol_local"))
//	conn, _ := env.Connect("stores")
//
//	conn.Exec("CREATE TABLE customer (id INT, name VARCHAR)")
//	conn.Exec("INSERT INTO customer VALUES (1, 'Alice')")
//
//	cur, _ := conn.Query("SELECT * FROM customer")
//	row, _ := cur.FetchInto(nil, "a")
//
// # Packages
//
//   - db: environment, connection and cursor objects
//   - esql: the engine client interface and value encoding
//   - codec: decoding of row buffer cells into Go values
//   - rowbuf: allocation of row buffers from column descriptors
//   - duck: an engine client backed by DuckDB
//   - script: loading and running SQL scripts from files, URLs, S3 or git
//   - remote: reading and writing local, HTTP and S3 locations
//   - config: YAML configuration for the CLI
package ifxsql
