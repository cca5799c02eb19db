package esql

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/nickyhof/ifxsql/core"
	"github.com/nickyhof/ifxsql/rowbuf"
)

// ErrUnsupportedValue is returned by Put when a value cannot be stored in
// the column's client type.
var ErrUnsupportedValue = errors.New("unsupported value for column")

// Put stores v into column i of buf the way the engine fills a fetch
// buffer: in the column's client layout with the indicator set. A nil v
// marks the column null. Engine clients call it from Fetch.
func Put(buf *rowbuf.Buffer, i int, v any) error {
	col := buf.Descriptor().Columns[i]
	dst := buf.Column(i)

	if v == nil {
		buf.SetIndicator(i, -1)
		if col.Type == core.CLocator {
			buf.SetPayload(i, nil)
		}
		return nil
	}
	buf.SetIndicator(i, 0)
	if col.Type != core.CLocator {
		clear(dst)
	}

	var err error
	switch col.Type.Base() {
	case core.CChar, core.CString, core.CVarchar:
		// Leave room for the terminator.
		putText(dst[:len(dst)-1], text(v))
	case core.CFixChar:
		n := copy(dst, text(v))
		for j := n; j < len(dst); j++ {
			dst[j] = ' '
		}
	case core.CShort:
		var n int64
		if n, err = toInt64(v); err == nil {
			binary.NativeEndian.PutUint16(dst, uint16(int16(n)))
		}
	case core.CInt:
		var n int64
		if n, err = toInt64(v); err == nil {
			binary.NativeEndian.PutUint32(dst, uint32(int32(n)))
		}
	case core.CLong, core.CBigInt:
		var n int64
		if n, err = toInt64(v); err == nil {
			binary.NativeEndian.PutUint64(dst, uint64(n))
		}
	case core.CFloat:
		var f float64
		if f, err = toFloat64(v); err == nil {
			binary.NativeEndian.PutUint32(dst, math.Float32bits(float32(f)))
		}
	case core.CDouble:
		var f float64
		if f, err = toFloat64(v); err == nil {
			binary.NativeEndian.PutUint64(dst, math.Float64bits(f))
		}
	case core.CInt8:
		err = putInt8(dst, v)
	case core.CDecimal, core.CMoney:
		var d core.Decimal
		if d, err = toDecimal(v); err == nil {
			d.Encode(dst)
		}
	case core.CDate:
		switch x := v.(type) {
		case time.Time:
			core.EncodeDate(dst, core.DateFromTime(x))
		case int32:
			core.EncodeDate(dst, x)
		default:
			err = unsupported(col, v)
		}
	case core.CDatetime, core.CInterval:
		switch x := v.(type) {
		case core.TimeValue:
			x.Encode(dst)
		case time.Time:
			core.DatetimeFromTime(x, col.Length).Encode(dst)
		case time.Duration:
			core.IntervalFromParts(0, 0, x.Microseconds(), col.Length).Encode(dst)
		default:
			err = unsupported(col, v)
		}
	case core.CLocator:
		buf.SetPayload(i, []byte(text(v)))
	case core.CRow, core.CCollection, core.CLVarchar, core.CFixBin, core.CVarBin:
		copy(dst, text(v))
	case core.CBool:
		var b bool
		if b, err = toBool(v); err == nil && b {
			dst[0] = 1
		}
	default:
		err = unsupported(col, v)
	}

	if err != nil {
		buf.SetIndicator(i, -1)
		return fmt.Errorf("column %q: %w", col.Name, err)
	}
	return nil
}

func unsupported(col core.ColumnMeta, v any) error {
	return fmt.Errorf("%w: %T into %s", ErrUnsupportedValue, v, col.Type)
}

// putText copies s into dst. Text longer than dst is cut at the start of
// the last rune that does not fit so the stored value stays valid UTF-8.
func putText(dst []byte, s string) {
	if len(s) <= len(dst) {
		copy(dst, s)
		return
	}
	n := len(dst)
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	copy(dst, s[:n])
	clear(dst[n:])
}

func text(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}

func toInt64(v any) (int64, error) {
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return 0, core.ErrInt8Range
		}
		return int64(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case *big.Int:
		if !x.IsInt64() {
			return 0, core.ErrInt8Range
		}
		return x.Int64(), nil
	case string:
		return strconv.ParseInt(x, 10, 64)
	default:
		return 0, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}

func toFloat64(v any) (float64, error) {
	switch x := v.(type) {
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	case string:
		return strconv.ParseFloat(x, 64)
	default:
		n, err := toInt64(v)
		return float64(n), err
	}
}

func toBool(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		return strconv.ParseBool(x)
	default:
		n, err := toInt64(v)
		return n != 0, err
	}
}

func toDecimal(v any) (core.Decimal, error) {
	switch x := v.(type) {
	case core.Decimal:
		return x, nil
	case float32:
		return core.ParseDecimal(strconv.FormatFloat(float64(x), 'g', -1, 32))
	case float64:
		return core.ParseDecimal(strconv.FormatFloat(x, 'g', -1, 64))
	case *big.Int:
		return core.DecimalFromBig(x, 0)
	case string:
		return core.ParseDecimal(x)
	default:
		n, err := toInt64(v)
		if err != nil {
			return core.Decimal{}, err
		}
		return core.ParseDecimal(strconv.FormatInt(n, 10))
	}
}

func putInt8(dst []byte, v any) error {
	switch x := v.(type) {
	case *big.Int:
		i8, err := core.Int8FromBig(x)
		if err != nil {
			return err
		}
		i8.Encode(dst)
	case uint64:
		core.Int8{Lo: uint32(x), Hi: uint32(x >> 32), Sign: core.Int8Positive}.Encode(dst)
	default:
		n, err := toInt64(v)
		if err != nil {
			return err
		}
		core.Int8FromInt64(n).Encode(dst)
	}
	return nil
}
