package duck

import (
	"database/sql"
	"encoding/json"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/duckdb/duckdb-go/v2"
	"github.com/google/uuid"

	"github.com/nickyhof/ifxsql/core"
)

// Qualifiers reported for DuckDB temporal types.
var (
	timestampQual = core.TUEncode(core.QualifierLength(core.TUYear, core.TUF5, 4), core.TUYear, core.TUF5)
	timeQual      = core.TUEncode(core.QualifierLength(core.TUHour, core.TUF5, 2), core.TUHour, core.TUF5)
	intervalQual  = core.TUEncode(core.QualifierLength(core.TUDay, core.TUF5, 9), core.TUDay, core.TUF5)
)

// Decimal precisions used for integer types wider than 64 bits.
const (
	ubigintPrecision = 20
	hugeintPrecision = 32
)

// column is the engine metadata of one result column plus the DuckDB type
// it came from.
type column struct {
	meta core.ColumnMeta
	kind string // base DuckDB type name, upper case
}

// describeColumn maps a DuckDB result column onto engine column metadata.
// Variable-length text is described as CHAR of textLen bytes.
func describeColumn(ct *sql.ColumnType, textLen int) column {
	name := strings.ToUpper(strings.TrimSpace(ct.DatabaseTypeName()))
	kind := name
	if i := strings.IndexByte(kind, '('); i >= 0 {
		kind = strings.TrimSpace(kind[:i])
	}
	if strings.HasSuffix(name, "]") || strings.HasPrefix(kind, "STRUCT") ||
		strings.HasPrefix(kind, "MAP") || strings.HasPrefix(kind, "UNION") {
		kind = "NESTED"
	}

	meta := core.ColumnMeta{Name: ct.Name()}
	switch kind {
	case "BOOLEAN":
		meta.Type, meta.Length = core.SQLBool, 1
	case "TINYINT", "SMALLINT", "UTINYINT":
		meta.Type, meta.Length = core.SQLSmallInt, 2
	case "INTEGER", "USMALLINT":
		meta.Type, meta.Length = core.SQLInt, 4
	case "BIGINT", "UINTEGER":
		meta.Type, meta.Length = core.SQLBigInt, 8
	case "UBIGINT":
		meta.Type, meta.Length = core.SQLDecimal, core.PrecMake(ubigintPrecision, 0)
	case "HUGEINT", "UHUGEINT":
		meta.Type, meta.Length = core.SQLDecimal, core.PrecMake(hugeintPrecision, 0)
	case "FLOAT":
		meta.Type, meta.Length = core.SQLSmallFloat, 4
	case "DOUBLE":
		meta.Type, meta.Length = core.SQLFloat, 8
	case "DECIMAL":
		precision, scale := decimalSize(ct, name)
		meta.Type, meta.Length = core.SQLDecimal, core.PrecMake(precision, scale)
	case "DATE":
		meta.Type, meta.Length = core.SQLDate, 4
	case "TIME", "TIME WITH TIME ZONE", "TIMETZ":
		meta.Type, meta.Length = core.SQLDatetime, timeQual
	case "TIMESTAMP", "TIMESTAMP WITH TIME ZONE", "TIMESTAMPTZ", "TIMESTAMP_S", "TIMESTAMP_MS", "TIMESTAMP_NS", "DATETIME":
		meta.Type, meta.Length = core.SQLDatetime, timestampQual
	case "INTERVAL":
		meta.Type, meta.Length = core.SQLInterval, intervalQual
	case "BLOB", "BIT", "BYTEA":
		meta.Type, meta.Length = core.SQLBytes, core.LocatorSize
	case "UUID":
		meta.Type, meta.Length = core.SQLChar, 36
	default:
		meta.Type, meta.Length = core.SQLChar, textLen
	}
	return column{meta: meta, kind: kind}
}

// decimalSize reads precision and scale from the driver, falling back to
// the "DECIMAL(p,s)" type name.
func decimalSize(ct *sql.ColumnType, name string) (int, int) {
	if p, s, ok := ct.DecimalSize(); ok && p > 0 {
		return int(p), int(s)
	}
	open, end := strings.IndexByte(name, '('), strings.IndexByte(name, ')')
	if open >= 0 && end > open {
		parts := strings.Split(name[open+1:end], ",")
		p, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err == nil {
			s := 0
			if len(parts) > 1 {
				s, _ = strconv.Atoi(strings.TrimSpace(parts[1]))
			}
			return p, s
		}
	}
	return 18, 3
}

// normalize converts a scanned DuckDB value into a value esql.Put accepts
// for the column's client type.
func normalize(v any, col column) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case duckdb.Decimal:
		if x.Value == nil {
			return nil, nil
		}
		return core.DecimalFromBig(x.Value, int(x.Scale))
	case *duckdb.Decimal:
		if x == nil || x.Value == nil {
			return nil, nil
		}
		return core.DecimalFromBig(x.Value, int(x.Scale))
	case duckdb.Interval:
		return core.IntervalFromParts(x.Months, x.Days, x.Micros, intervalQual), nil
	case *big.Int:
		return x, nil
	case uint64:
		return new(big.Int).SetUint64(x), nil
	case time.Time:
		return x, nil
	}

	switch col.kind {
	case "UUID":
		return uuidString(v)
	case "NESTED":
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	}
	return v, nil
}

// uuidString renders a UUID the driver returned as bytes, a byte array or
// text.
func uuidString(v any) (any, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []byte:
		if len(x) == 16 {
			id, err := uuid.FromBytes(x)
			if err != nil {
				return nil, err
			}
			return id.String(), nil
		}
		return string(x), nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Array && rv.Len() == 16 && rv.Type().Elem().Kind() == reflect.Uint8 {
		var id uuid.UUID
		reflect.Copy(reflect.ValueOf(id[:]), rv)
		return id.String(), nil
	}
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		return uuidString(rv.Elem().Interface())
	}
	return v, nil
}
