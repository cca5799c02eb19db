package duck

import (
	"strings"

	"github.com/nickyhof/ifxsql/core"
)

// Engine codes reported by the DuckDB client. They follow the codes the
// Informix engine uses for the same conditions.
const (
	CodeSyntax       = -201   // statement does not parse
	CodeNoTable      = -206   // table or view not found
	CodeNoColumn     = -217   // column not found
	CodeDuplicate    = -239   // constraint violated
	CodeNotInTx      = -255   // commit or rollback outside a transaction
	CodeNoStatement  = -400   // unknown statement or cursor handle
	CodeAlreadyInTx  = -535   // begin inside a transaction
	CodeCannotOpen   = -908   // database could not be opened
	CodeConversion   = -1213  // value does not convert to the column type
	CodeNoSession    = -1803  // no current session
	CodeNoServer     = -25596 // INFORMIXSERVER not set
	CodeEngineFailed = -1     // anything else
)

// errorClasses maps DuckDB error message prefixes to codes.
var errorClasses = []struct {
	prefix string
	code   int
}{
	{"Parser Error", CodeSyntax},
	{"Syntax Error", CodeSyntax},
	{"Catalog Error", CodeNoTable},
	{"Binder Error", CodeNoColumn},
	{"Constraint Error", CodeDuplicate},
	{"Conversion Error", CodeConversion},
	{"Invalid Input Error", CodeConversion},
	{"Out of Range Error", CodeConversion},
	{"TransactionContext Error", CodeNotInTx},
	{"IO Error", CodeCannotOpen},
}

// diagFromError turns a driver error into a diagnostics record.
func diagFromError(err error) core.Diagnostics {
	msg := err.Error()
	code := CodeEngineFailed
	for _, c := range errorClasses {
		if strings.HasPrefix(msg, c.prefix) {
			code = c.code
			break
		}
	}
	return core.Diagnostics{Code: code, Message: msg}
}

func diag(code int, msg string) core.Diagnostics {
	return core.Diagnostics{Code: code, Message: msg}
}
