package sql

import "strings"

// Kind is the broad class of a statement.
type Kind int

const (
	Other Kind = iota
	Query
	Modify
	Definition
	Transaction
	Empty
)

func (k Kind) String() string {
	switch k {
	case Query:
		return "Query"
	case Modify:
		return "Modify"
	case Definition:
		return "Definition"
	case Transaction:
		return "Transaction"
	case Empty:
		return "Empty"
	default:
		return "Other"
	}
}

// Lead returns the first word of the first statement in text, upper-cased.
// Leading comments and parentheses are skipped. It returns "" when the
// statement is empty.
func Lead(text string) string {
	lead, _ := leadToken(NewLexer(text))
	return lead
}

func leadToken(lexer *Lexer) (string, TokenType) {
	for {
		token := lexer.NextToken()
		switch token.Type {
		case EOF, Semicolon:
			return "", EOF
		case Comment, ParenOpen:
			continue
		case Keyword, Identifier:
			return toUpper(token.Value), token.Type
		default:
			return token.Value, token.Type
		}
	}
}

// Classify returns the kind of the first statement in text. Leading
// comments and parentheses are skipped. Modifying statements with a
// RETURNING clause classify as queries.
func Classify(text string) Kind {
	lexer := NewLexer(text)

	lead, typ := leadToken(lexer)
	switch typ {
	case EOF:
		return Empty
	case Keyword:
	default:
		return Other
	}

	switch lead {
	case "SELECT", "WITH", "VALUES", "FROM", "TABLE", "SHOW", "DESCRIBE", "EXPLAIN", "SUMMARIZE", "PRAGMA", "CALL":
		return Query
	case "INSERT", "UPDATE", "DELETE", "MERGE":
		if hasKeyword(lexer, "RETURNING") {
			return Query
		}
		return Modify
	case "CREATE", "DROP", "ALTER", "TRUNCATE", "RENAME":
		return Definition
	case "BEGIN", "START", "COMMIT", "ROLLBACK":
		return Transaction
	default:
		return Other
	}
}

// hasKeyword scans the rest of the current statement for keyword.
func hasKeyword(lexer *Lexer, keyword string) bool {
	for {
		token := lexer.NextToken()
		switch token.Type {
		case EOF, Semicolon:
			return false
		case Keyword:
			if toUpper(token.Value) == keyword {
				return true
			}
		}
	}
}

// IsQuery reports whether text returns rows.
func IsQuery(text string) bool {
	return Classify(text) == Query
}

// Split cuts a script into statements at semicolons that are outside
// literals and comments. Statements are trimmed and keep their comments;
// those with nothing but comments and whitespace are dropped.
func Split(script string) []string {
	var statements []string
	start := 0
	significant := false

	flush := func(end int) {
		if significant {
			statements = append(statements, strings.TrimSpace(script[start:end]))
		}
		significant = false
	}

	for _, token := range tokenize(script) {
		switch token.Type {
		case Semicolon:
			flush(token.Pos)
			start = token.Pos + 1
		case EOF:
			flush(len(script))
		case Comment:
		default:
			significant = true
		}
	}
	return statements
}
