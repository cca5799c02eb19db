/*
Package duck is an embedded-SQL engine client backed by DuckDB.

It lets the db package run against a real SQL engine without an Informix
server. Statements use DuckDB syntax; results come back through the same
row buffers, client types and diagnostics an Informix engine produces.

	os.Setenv("INFORMIXSERVER", "local")
	client := duck.New(duck.WithDataDir("/var/lib/ifxsql"))
	defer client.Close()

	env, err := db.Open(client)
	conn, err := env.Connect("stores")
	res, err := conn.Execute("SELECT * FROM customer")

DuckDB types map onto engine types as follows:

	BOOLEAN                      BOOLEAN
	TINYINT, SMALLINT            SMALLINT
	INTEGER                      INTEGER
	BIGINT                       BIGINT
	UBIGINT, HUGEINT             DECIMAL(20|32,0)
	FLOAT, DOUBLE                SMALLFLOAT, FLOAT
	DECIMAL(p,s)                 DECIMAL(p,s)
	DATE                         DATE
	TIME                         DATETIME HOUR TO FRACTION(5)
	TIMESTAMP                    DATETIME YEAR TO FRACTION(5)
	INTERVAL                     INTERVAL DAY(9) TO FRACTION(5)
	BLOB                         BYTE
	UUID                         CHAR(36)
	VARCHAR, lists, structs      CHAR(n); nested values as JSON

Text columns are described with the client's text length (2048 by
default), and trailing blanks are trimmed on fetch as for CHAR.

Errors carry the Informix code for the same condition where one exists
(-201 syntax, -206 unknown table, -217 unknown column, -239 constraint,
-1213 conversion) and -1 otherwise.
*/
package duck
