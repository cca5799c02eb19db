// Package db manages the three nested resources of an engine session:
// Environment, Connection and Cursor.
//
// # Usage
//
//	env, err := db.Open(client, db.WithServer("ol_prod"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer env.Close()
//
//	conn, err := env.Connect("stores", db.WithCredentials("app", "secret"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conn.Close()
//
//	cur, err := conn.Query("SELECT customer_num, fname FROM customer")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, row := range cur.Iterator(nil, "").All() {
//	    fmt.Println(row...)
//	}
//
// # Result Types
//
// Execute returns one of two results:
//   - RowCount: statements that describe no columns, with the affected rows
//   - *Cursor: statements that return rows
//
// Run executes a statement and consumes its result into a Report
// (QueryResult or ExecResult) that can be displayed.
//
// # Values
//
// Fetched values are nil, bool, int64, float64, string or []byte. DATE
// columns come back as "YYYYMMDD" strings, DATETIME and INTERVAL as their
// engine text form and DECIMAL as float64.
//
// # Lifecycle
//
// A cursor closes itself when Fetch reaches the end of data, which Fetch
// reports as io.EOF. Closing a parent does not close its children: a cursor
// whose connection is closed fails with ErrConnectionClosed, and closing it
// still frees its engine handle. Every Close reports ErrAlreadyClosed when
// called a second time.
//
// # Concurrency
//
// All operations serialize on the process-wide engine lock held by
// esql.Context, so values of this package may be shared between goroutines.
package db
