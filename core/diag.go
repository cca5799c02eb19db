package core

import (
	"errors"
	"fmt"
)

// Status codes shared by every engine client.
const (
	CodeOK       = 0
	CodeNotFound = 100 // end of data
)

// Diagnostics is the status record the engine produces after every call.
// It is returned by value; callers keep the copy they need.
type Diagnostics struct {
	Code    int    // 0 success, 100 end of data, negative on error
	ISAM    int    // secondary code; carries the last serial value after inserts
	Rows    int    // rows affected or fetched so far
	Message string // engine message text
}

// OK reports whether the call succeeded.
func (d Diagnostics) OK() bool {
	return d.Code == CodeOK
}

// EndOfData reports whether a fetch ran past the last row.
func (d Diagnostics) EndOfData() bool {
	return d.Code == CodeNotFound
}

// Summary formats the record the way error messages embed it.
func (d Diagnostics) Summary() string {
	return fmt.Sprintf("CODE:%d ISAM:%d MSG:%s", d.Code, d.ISAM, d.Message)
}

// EngineError is returned when an engine call reports a non-zero code.
type EngineError struct {
	Op   string
	Diag Diagnostics
}

// NewEngineError builds the error for a failed operation.
func NewEngineError(op string, diag Diagnostics) *EngineError {
	return &EngineError{Op: op, Diag: diag}
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s fail, %s", e.Op, e.Diag.Summary())
}

// Code extracts the engine code from err, or 0 when err is not an engine error.
func Code(err error) int {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Diag.Code
	}
	return 0
}
