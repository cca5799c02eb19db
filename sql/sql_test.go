package sql

import (
	"reflect"
	"testing"
)

func TestLexer(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		expected []Token
	}{
		{
			"select",
			"SELECT id, name FROM users WHERE id >= 10",
			[]Token{
				{Type: Keyword, Value: "SELECT", Pos: 0},
				{Type: Identifier, Value: "id", Pos: 7},
				{Type: Comma, Value: ",", Pos: 9},
				{Type: Identifier, Value: "name", Pos: 11},
				{Type: Keyword, Value: "FROM", Pos: 16},
				{Type: Identifier, Value: "users", Pos: 21},
				{Type: Identifier, Value: "WHERE", Pos: 27},
				{Type: Identifier, Value: "id", Pos: 33},
				{Type: Operator, Value: ">=", Pos: 36},
				{Type: Int, Value: "10", Pos: 39},
				{Type: EOF, Pos: 41},
			},
		},
		{
			"quotes",
			`'it''s' "Col ""A"""`,
			[]Token{
				{Type: String, Value: "it's", Pos: 0},
				{Type: QuotedIdentifier, Value: `Col "A"`, Pos: 8},
				{Type: EOF, Pos: 19},
			},
		},
		{
			"comments",
			"-- note\n{ informix } /* block */ 1.5;",
			[]Token{
				{Type: Comment, Value: "-- note", Pos: 0},
				{Type: Comment, Value: "{ informix }", Pos: 8},
				{Type: Comment, Value: "/* block */", Pos: 21},
				{Type: Float, Value: "1.5", Pos: 33},
				{Type: Semicolon, Value: ";", Pos: 36},
				{Type: EOF, Pos: 37},
			},
		},
		{
			"operators",
			"a<>b||c-d",
			[]Token{
				{Type: Identifier, Value: "a", Pos: 0},
				{Type: Operator, Value: "<>", Pos: 1},
				{Type: Identifier, Value: "b", Pos: 3},
				{Type: Operator, Value: "||", Pos: 4},
				{Type: Identifier, Value: "c", Pos: 6},
				{Type: Operator, Value: "-", Pos: 7},
				{Type: Identifier, Value: "d", Pos: 8},
				{Type: EOF, Pos: 9},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenize(tt.sql)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestPeekToken(t *testing.T) {
	lexer := NewLexer("SELECT 1")
	peeked := lexer.PeekToken()
	next := lexer.NextToken()
	if peeked != next {
		t.Errorf("Expected peek %v to equal next %v", peeked, next)
	}
	if next.Type != Keyword {
		t.Errorf("Expected Keyword, got %v", next)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		sql  string
		want Kind
	}{
		{"SELECT * FROM users", Query},
		{"  select 1", Query},
		{"WITH t AS (SELECT 1) SELECT * FROM t", Query},
		{"(SELECT 1) UNION (SELECT 2)", Query},
		{"-- header\nVALUES (1), (2)", Query},
		{"SHOW TABLES", Query},
		{"INSERT INTO t VALUES (1)", Modify},
		{"INSERT INTO t VALUES (1) RETURNING id", Query},
		{"UPDATE t SET a = 'RETURNING'", Modify},
		{"DELETE FROM t", Modify},
		{"CREATE TABLE t (id INT)", Definition},
		{"drop table t", Definition},
		{"BEGIN WORK", Transaction},
		{"COMMIT", Transaction},
		{"ROLLBACK WORK", Transaction},
		{"SET EXPLAIN ON", Other},
		{"customer_list", Other},
		{"", Empty},
		{"  -- only a comment", Empty},
		{";", Empty},
	}

	for _, tt := range tests {
		if got := Classify(tt.sql); got != tt.want {
			t.Errorf("Classify(%q): expected %s, got %s", tt.sql, tt.want, got)
		}
	}

	if !IsQuery("select 1") || IsQuery("delete from t") {
		t.Error("IsQuery disagrees with Classify")
	}
}

func TestLead(t *testing.T) {
	tests := []struct {
		sql  string
		want string
	}{
		{"begin work", "BEGIN"},
		{"/* c */ (select 1)", "SELECT"},
		{"customer_list", "CUSTOMER_LIST"},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := Lead(tt.sql); got != tt.want {
			t.Errorf("Lead(%q): expected %q, got %q", tt.sql, tt.want, got)
		}
	}
}

func TestSplit(t *testing.T) {
	script := `
-- create the table
CREATE TABLE t (id INT, note VARCHAR);
INSERT INTO t VALUES (1, 'a;b');
/* trailing; comment */
INSERT INTO t VALUES (2, 'it''s');;
SELECT * FROM t
`
	want := []string{
		"-- create the table\nCREATE TABLE t (id INT, note VARCHAR)",
		"INSERT INTO t VALUES (1, 'a;b')",
		"/* trailing; comment */\nINSERT INTO t VALUES (2, 'it''s')",
		"SELECT * FROM t",
	}
	got := Split(script)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %q, got %q", want, got)
	}

	if got := Split("  -- nothing\n;  "); len(got) != 0 {
		t.Errorf("Expected no statements, got %q", got)
	}
}
