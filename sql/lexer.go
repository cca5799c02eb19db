package sql

type Token struct {
	Type  TokenType
	Value string
	Pos   int // byte offset of the token in the input
}

type TokenType int

const (
	Identifier TokenType = iota
	QuotedIdentifier
	Keyword
	String
	Int
	Float
	Comma
	Semicolon
	ParenOpen
	ParenClose
	Wildcard
	Operator
	Comment
	EOF
	Unknown
)

func (token Token) String() string {
	switch token.Type {
	case Identifier:
		return "Identifier(" + token.Value + ")"
	case QuotedIdentifier:
		return "QuotedIdentifier(" + token.Value + ")"
	case Keyword:
		return "Keyword(" + token.Value + ")"
	case String:
		return "String(" + token.Value + ")"
	case Int:
		return "Int(" + token.Value + ")"
	case Float:
		return "Float(" + token.Value + ")"
	case Comma:
		return "Comma"
	case Semicolon:
		return "Semicolon"
	case ParenOpen:
		return "ParenOpen"
	case ParenClose:
		return "ParenClose"
	case Wildcard:
		return "Wildcard"
	case Operator:
		return "Operator(" + token.Value + ")"
	case Comment:
		return "Comment"
	case EOF:
		return "EOF"
	default:
		return "Unknown(" + token.Value + ")"
	}
}

type Lexer struct {
	sql          string
	position     int
	readPosition int
	ch           byte
}

func NewLexer(sql string) *Lexer {
	lexer := &Lexer{sql: sql}
	lexer.readChar()
	return lexer
}

func (lexer *Lexer) readChar() {
	if lexer.readPosition >= len(lexer.sql) {
		lexer.ch = 0
	} else {
		lexer.ch = lexer.sql[lexer.readPosition]
	}
	lexer.position = lexer.readPosition
	lexer.readPosition++
}

func (lexer *Lexer) peekChar() byte {
	if lexer.readPosition >= len(lexer.sql) {
		return 0
	}
	return lexer.sql[lexer.readPosition]
}

func (lexer *Lexer) atEnd() bool {
	return lexer.position >= len(lexer.sql)
}

func (lexer *Lexer) NextToken() Token {
	var token Token

	lexer.skipWhitespace()
	start := lexer.position

	if lexer.atEnd() {
		return Token{Type: EOF, Pos: len(lexer.sql)}
	}

	switch lexer.ch {
	case ',':
		token = Token{Type: Comma, Value: ","}
	case ';':
		token = Token{Type: Semicolon, Value: ";"}
	case '(':
		token = Token{Type: ParenOpen, Value: "("}
	case ')':
		token = Token{Type: ParenClose, Value: ")"}
	case '*':
		token = Token{Type: Wildcard, Value: "*"}
	case '\'':
		return Token{Type: String, Value: lexer.readQuoted('\''), Pos: start}
	case '"':
		return Token{Type: QuotedIdentifier, Value: lexer.readQuoted('"'), Pos: start}
	case '{':
		return Token{Type: Comment, Value: lexer.readBraceComment(), Pos: start}
	case '-':
		if lexer.peekChar() == '-' {
			return Token{Type: Comment, Value: lexer.readLineComment(), Pos: start}
		}
		return Token{Type: Operator, Value: lexer.readOperator(), Pos: start}
	case '/':
		if lexer.peekChar() == '*' {
			return Token{Type: Comment, Value: lexer.readBlockComment(), Pos: start}
		}
		return Token{Type: Operator, Value: lexer.readOperator(), Pos: start}
	default:
		if isOperator(lexer.ch) {
			return Token{Type: Operator, Value: lexer.readOperator(), Pos: start}
		} else if isDigit(lexer.ch) {
			num := lexer.readNumber()
			// Check if it's a float
			if lexer.ch == '.' && isDigit(lexer.peekChar()) {
				lexer.readChar() // consume '.'
				decimal := lexer.readNumber()
				return Token{Type: Float, Value: num + "." + decimal, Pos: start}
			}
			return Token{Type: Int, Value: num, Pos: start}
		} else if isAlphaNumeric(lexer.ch) {
			literal := lexer.readIdentifier()
			return Token{Type: lookupIdentifier(literal), Value: literal, Pos: start}
		} else {
			token = Token{Type: Unknown, Value: string(lexer.ch)}
		}
	}

	token.Pos = start
	lexer.readChar()
	return token
}

func (lexer *Lexer) PeekToken() Token {
	// Save current state
	savedPosition := lexer.position
	savedReadPosition := lexer.readPosition
	savedCh := lexer.ch

	// Get next token
	token := lexer.NextToken()

	// Restore state
	lexer.position = savedPosition
	lexer.readPosition = savedReadPosition
	lexer.ch = savedCh

	return token
}

func (lexer *Lexer) skipWhitespace() {
	for lexer.ch == ' ' || lexer.ch == '\t' || lexer.ch == '\n' || lexer.ch == '\r' || lexer.ch == '\f' {
		lexer.readChar()
	}
}

func (lexer *Lexer) readIdentifier() string {
	position := lexer.position
	for isAlphaNumeric(lexer.ch) {
		lexer.readChar()
	}
	return lexer.sql[position:lexer.position]
}

// readQuoted reads a literal delimited by quote, where a doubled quote
// stands for one. The returned value has the doubling undone. An
// unterminated literal runs to the end of input.
func (lexer *Lexer) readQuoted(quote byte) string {
	lexer.readChar() // skip opening quote
	var value []byte
	for !lexer.atEnd() {
		if lexer.ch == quote {
			if lexer.peekChar() == quote {
				value = append(value, quote)
				lexer.readChar()
				lexer.readChar()
				continue
			}
			lexer.readChar() // skip closing quote
			break
		}
		value = append(value, lexer.ch)
		lexer.readChar()
	}
	return string(value)
}

func (lexer *Lexer) readLineComment() string {
	position := lexer.position
	for !lexer.atEnd() && lexer.ch != '\n' {
		lexer.readChar()
	}
	return lexer.sql[position:lexer.position]
}

func (lexer *Lexer) readBlockComment() string {
	position := lexer.position
	lexer.readChar() // '/'
	lexer.readChar() // '*'
	for !lexer.atEnd() {
		if lexer.ch == '*' && lexer.peekChar() == '/' {
			lexer.readChar()
			lexer.readChar()
			break
		}
		lexer.readChar()
	}
	return lexer.sql[position:lexer.position]
}

func (lexer *Lexer) readBraceComment() string {
	position := lexer.position
	for !lexer.atEnd() {
		if lexer.ch == '}' {
			lexer.readChar()
			break
		}
		lexer.readChar()
	}
	return lexer.sql[position:lexer.position]
}

func (lexer *Lexer) readNumber() string {
	position := lexer.position
	for isDigit(lexer.ch) {
		lexer.readChar()
	}
	return lexer.sql[position:lexer.position]
}

func (lexer *Lexer) readOperator() string {
	position := lexer.position
	lexer.readChar()
	// Only pair operators continue: <=, >=, <>, !=, ||, ::
	if !lexer.atEnd() && isOperator(lexer.ch) {
		pair := lexer.sql[position : lexer.position+1]
		switch pair {
		case "<=", ">=", "<>", "!=", "||", "::":
			lexer.readChar()
		}
	}
	return lexer.sql[position:lexer.position]
}

func isAlphaNumeric(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_' || ch == '.' || ch == '$' || isDigit(ch) || ch >= 0x80
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isOperator(ch byte) bool {
	switch ch {
	case '=', '!', '<', '>', '+', '-', '/', '%', '|', ':', '^', '~', '&', '?':
		return true
	}
	return false
}

// keywords are the words that decide how a statement is run.
var keywords = map[string]bool{
	"SELECT": true, "WITH": true, "VALUES": true, "FROM": true, "TABLE": true,
	"SHOW": true, "DESCRIBE": true, "EXPLAIN": true, "SUMMARIZE": true, "PRAGMA": true,
	"INSERT": true, "UPDATE": true, "DELETE": true, "MERGE": true, "RETURNING": true,
	"CREATE": true, "DROP": true, "ALTER": true, "TRUNCATE": true, "RENAME": true,
	"BEGIN": true, "START": true, "COMMIT": true, "ROLLBACK": true, "WORK": true,
	"TRANSACTION": true, "SET": true, "INTO": true, "EXECUTE": true, "CALL": true,
	"GRANT": true, "REVOKE": true, "LOAD": true, "INSTALL": true, "ATTACH": true,
	"DETACH": true, "USE": true, "COPY": true, "EXPORT": true, "IMPORT": true,
	"VACUUM": true, "CHECKPOINT": true, "ANALYZE": true,
}

func lookupIdentifier(id string) TokenType {
	// Convert to uppercase for case-insensitive matching
	if keywords[toUpper(id)] {
		return Keyword
	}
	return Identifier
}

// toUpper converts a string to uppercase without allocating for ASCII strings
func toUpper(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] >= 'a' && s[i] <= 'z' {
			// Need to convert, allocate a new string
			b := make([]byte, len(s))
			for j := 0; j < len(s); j++ {
				if s[j] >= 'a' && s[j] <= 'z' {
					b[j] = s[j] - 32
				} else {
					b[j] = s[j]
				}
			}
			return string(b)
		}
	}
	return s
}

func tokenize(sql string) []Token {
	lexer := NewLexer(sql)

	var tokens []Token

	for {
		token := lexer.NextToken()
		if token.Type == EOF {
			return append(tokens, token)
		}
		tokens = append(tokens, token)
	}
}
