// Package codec turns fetched column bytes into dynamic values and column
// metadata into display type names.
//
// Decode returns one of nil, bool, int64, float64, string or []byte:
//
//	for i := range buf.Len() {
//	    row[i] = codec.Decode(buf.Cell(i), conv)
//	}
//
// Unknown client types decode to nil rather than failing.
package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/nickyhof/ifxsql/core"
)

// DatePattern is the fixed format DATE columns are rendered with.
const DatePattern = "YYYYMMDD"

// Decode converts one column of the current row. A null indicator yields
// nil whatever the column type.
func Decode(cell core.Cell, conv core.Converter) any {
	if cell.IsNull() {
		return nil
	}
	data := cell.Data

	switch cell.Type.Base() {
	case core.CChar, core.CVarchar, core.CString:
		return trimText(data)
	case core.CShort:
		return int64(int16(binary.NativeEndian.Uint16(data)))
	case core.CInt:
		return int64(int32(binary.NativeEndian.Uint32(data)))
	case core.CLong, core.CBigInt:
		return int64(binary.NativeEndian.Uint64(data))
	case core.CFloat:
		return float64(math.Float32frombits(binary.NativeEndian.Uint32(data)))
	case core.CDouble:
		return math.Float64frombits(binary.NativeEndian.Uint64(data))
	case core.CInt8:
		text, err := conv.Int8ToText(core.DecodeInt8(data))
		if err != nil {
			return nil
		}
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil
		}
		return v
	case core.CDecimal, core.CMoney:
		// Decimals go through their text form; precision beyond a float64
		// is lost.
		text, err := conv.DecimalToText(core.DecodeDecimal(data))
		if err != nil {
			return nil
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil
		}
		return v
	case core.CDate:
		text, err := conv.FormatDate(core.DecodeDate(data), DatePattern)
		if err != nil {
			return nil
		}
		return text
	case core.CDatetime:
		text, err := conv.DatetimeToText(core.DecodeTimeValue(data))
		if err != nil {
			return nil
		}
		return text
	case core.CInterval:
		text, err := conv.IntervalToText(core.DecodeTimeValue(data))
		if err != nil {
			return nil
		}
		return text
	case core.CLocator:
		loc := core.DecodeLocator(data)
		if loc.Indicator == -1 {
			return nil
		}
		n := min(int(max(loc.Size, 0)), len(cell.Payload))
		out := make([]byte, n)
		copy(out, cell.Payload)
		return out
	case core.CRow, core.CCollection, core.CLVarchar:
		n := min(cell.Length, len(data))
		out := make([]byte, n)
		copy(out, data)
		return out
	case core.CBool:
		return data[0] != 0
	default:
		return nil
	}
}

// trimText cuts a character column at its terminator and drops trailing
// spaces and NULs.
func trimText(data []byte) string {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	return string(bytes.TrimRight(data, " \x00"))
}

// TypeName returns the display name of a column after allocation, such as
// "string(20)", "number(8,2)" or "datetime(0,10)".
func TypeName(col core.ColumnMeta) string {
	name := typeClass(col.Type)

	switch col.Type.Base() {
	case core.CChar, core.CVarchar, core.CString:
		return fmt.Sprintf("%s(%d)", name, col.Length-1)
	case core.CFloat:
		return name + "(4)"
	case core.CDouble:
		return name + "(8)"
	case core.CDecimal, core.CMoney:
		return fmt.Sprintf("%s(%d,%d)", name, core.PrecTot(col.Length), core.PrecDec(col.Length))
	case core.CDatetime, core.CInterval:
		return fmt.Sprintf("%s(%d,%d)", name, core.TUStart(col.Length), core.TUEnd(col.Length))
	default:
		return name
	}
}

func typeClass(t core.Type) string {
	switch t.Base() {
	case core.CChar, core.CVarchar, core.CString:
		return "string"
	case core.CShort, core.CInt, core.CBigInt, core.CInt8:
		return "integer"
	case core.CFloat, core.CDouble, core.CDecimal, core.CMoney:
		return "number"
	case core.CDate:
		return "date"
	case core.CDatetime, core.CInterval:
		return "datetime"
	case core.CLocator, core.CRow, core.CLVarchar, core.CFixBin, core.CVarBin:
		return "binary"
	case core.CCollection:
		return "collection"
	case core.CBool:
		return "boolean"
	default:
		return "unknown"
	}
}
