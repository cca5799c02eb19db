// Package script loads SQL scripts from local files, URLs, S3 objects and
// git repositories, and runs them statement by statement on a connection.
//
//	text, err := script.Load(ctx, "git+https://github.com/acme/schema.git#stores/init.sql@main", script.Options{})
//	summary, err := script.Run(conn, text, script.RunOptions{Transaction: true})
package script
