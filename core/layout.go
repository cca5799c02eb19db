package core

// UDTStringLen is the fixed string length used for user-defined types that
// are not large objects. Longer values are truncated by the engine.
const UDTStringLen = 2048

// clientTypes maps engine types to their default fetch representation.
var clientTypes = map[Type]Type{
	SQLChar:       CChar,
	SQLSmallInt:   CShort,
	SQLInt:        CInt,
	SQLFloat:      CDouble,
	SQLSmallFloat: CFloat,
	SQLDecimal:    CDecimal,
	SQLSerial:     CInt,
	SQLDate:       CDate,
	SQLMoney:      CMoney,
	SQLDatetime:   CDatetime,
	SQLBytes:      CLocator,
	SQLText:       CLocator,
	SQLVarchar:    CVarchar,
	SQLInterval:   CInterval,
	SQLNChar:      CChar,
	SQLNVarchar:   CVarchar,
	SQLInt8:       CInt8,
	SQLSerial8:    CInt8,
	SQLSet:        CCollection,
	SQLMultiset:   CCollection,
	SQLList:       CCollection,
	SQLCollection: CCollection,
	SQLRow:        CRow,
	SQLLVarchar:   CLVarchar,
	SQLBool:       CBool,
	SQLBigInt:     CBigInt,
	SQLBigSerial:  CBigInt,
}

// ToClientType returns the fetch representation of an engine type. Client
// types, user-defined types and unknown tags are returned unchanged.
func ToClientType(t Type) Type {
	if c, ok := clientTypes[t.Base()]; ok {
		return c
	}
	return t.Base()
}

// SizeOf returns the bytes a value of client type t occupies in a row
// buffer given the column's declared length.
func SizeOf(t Type, length int) int {
	switch t.Base() {
	case CChar, CString, CVarchar:
		return length + 1
	case CShort:
		return 2
	case CInt, CFloat, CDate:
		return 4
	case CLong, CDouble, CBigInt:
		return 8
	case CDecimal, CMoney:
		return DecimalSize
	case CDatetime, CInterval:
		return TimeValueSize
	case CLocator:
		return LocatorSize
	case CInt8:
		return Int8Size
	case CBool:
		return 1
	default:
		return length
	}
}

// AlignOf returns the natural alignment of client type t.
func AlignOf(t Type) int {
	switch t.Base() {
	case CShort, CDecimal, CMoney:
		return 2
	case CInt, CFloat, CDate, CDatetime, CInterval, CInt8:
		return 4
	case CLong, CDouble, CBigInt, CLocator:
		return 8
	default:
		return 1
	}
}

// Align rounds offset up to the alignment of t.
func Align(offset int, t Type) int {
	a := AlignOf(t)
	return (offset + a - 1) / a * a
}
