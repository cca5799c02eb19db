// Package sql provides SQL lexing and statement classification for ifxsql.
//
// The package does not parse statements; the engine does that. It only
// looks far enough into the text to tell how a statement must be run and
// where one statement in a script ends.
//
// # Lexer Usage
//
//	lexer := sql.NewLexer("SELECT * FROM users")
//	for {
//	    token := lexer.NextToken()
//	    if token.Type == sql.EOF {
//	        break
//	    }
//	    fmt.Println(token)
//	}
//
// Single-quoted text lexes as String, double-quoted text as QuotedIdentifier.
// A doubled quote inside either stands for one. Comments in all three
// forms (-- to end of line, /* */ and { }) lex as Comment.
//
// # Classification
//
//	sql.Classify("SELECT 1")                  // Query
//	sql.Classify("INSERT INTO t VALUES (1)")  // Modify
//	sql.Classify("BEGIN WORK")                // Transaction
//
// # Scripts
//
//	for _, stmt := range sql.Split(script) {
//	    ...
//	}
package sql
