package core

import "fmt"

// Type is a column type tag. Engine types (SQL*) describe how the server
// stores a column; client types (C*) describe how a column is laid out in a
// fetch buffer. Describe returns engine types and the row buffer allocator
// rewrites them to client types in place.
type Type int16

// TypeMask strips the flag bits the engine may OR into a type tag.
const TypeMask Type = 0x00FF

// NotNullFlag is set by the engine on columns declared NOT NULL.
const NotNullFlag Type = 0x0100

// Engine column types.
const (
	SQLChar       Type = 0
	SQLSmallInt   Type = 1
	SQLInt        Type = 2
	SQLFloat      Type = 3
	SQLSmallFloat Type = 4
	SQLDecimal    Type = 5
	SQLSerial     Type = 6
	SQLDate       Type = 7
	SQLMoney      Type = 8
	SQLNull       Type = 9
	SQLDatetime   Type = 10
	SQLBytes      Type = 11
	SQLText       Type = 12
	SQLVarchar    Type = 13
	SQLInterval   Type = 14
	SQLNChar      Type = 15
	SQLNVarchar   Type = 16
	SQLInt8       Type = 17
	SQLSerial8    Type = 18
	SQLSet        Type = 19
	SQLMultiset   Type = 20
	SQLList       Type = 21
	SQLRow        Type = 22
	SQLCollection Type = 23
	SQLUDTVar     Type = 40
	SQLUDTFixed   Type = 41
	SQLLVarchar   Type = 43
	SQLBool       Type = 45
	SQLBigInt     Type = 52
	SQLBigSerial  Type = 53
)

// Client (fetch buffer) types.
const (
	CChar        Type = 100
	CShort       Type = 101
	CInt         Type = 102
	CLong        Type = 103
	CFloat       Type = 104
	CDouble      Type = 105
	CDecimal     Type = 107
	CFixChar     Type = 108
	CString      Type = 109
	CDate        Type = 110
	CMoney       Type = 111
	CDatetime    Type = 112
	CLocator     Type = 113
	CVarchar     Type = 114
	CInterval    Type = 115
	CFile        Type = 116
	CInt8        Type = 117
	CCollection  Type = 118
	CLVarchar    Type = 119
	CFixBin      Type = 120
	CVarBin      Type = 121
	CBool        Type = 122
	CRow         Type = 123
	CLVarcharPtr Type = 124
	CBigInt      Type = 125
)

// Extended type ids reported for user-defined types.
const (
	XIDLVarchar = 1
	XIDBoolean  = 5
	XIDBlob     = 10
	XIDClob     = 11
)

// Base returns the type with flag bits cleared.
func (t Type) Base() Type {
	return t & TypeMask
}

// IsClient reports whether t is a fetch buffer representation.
func (t Type) IsClient() bool {
	b := t.Base()
	return b >= CChar && b <= CBigInt
}

// IsUDT reports whether t is an engine user-defined type.
func (t Type) IsUDT() bool {
	b := t.Base()
	return b == SQLUDTVar || b == SQLUDTFixed
}

var typeNames = map[Type]string{
	SQLChar: "CHAR", SQLSmallInt: "SMALLINT", SQLInt: "INTEGER", SQLFloat: "FLOAT",
	SQLSmallFloat: "SMALLFLOAT", SQLDecimal: "DECIMAL", SQLSerial: "SERIAL", SQLDate: "DATE",
	SQLMoney: "MONEY", SQLNull: "NULL", SQLDatetime: "DATETIME", SQLBytes: "BYTE",
	SQLText: "TEXT", SQLVarchar: "VARCHAR", SQLInterval: "INTERVAL", SQLNChar: "NCHAR",
	SQLNVarchar: "NVARCHAR", SQLInt8: "INT8", SQLSerial8: "SERIAL8", SQLSet: "SET",
	SQLMultiset: "MULTISET", SQLList: "LIST", SQLRow: "ROW", SQLCollection: "COLLECTION",
	SQLUDTVar: "UDTVAR", SQLUDTFixed: "UDTFIXED", SQLLVarchar: "LVARCHAR", SQLBool: "BOOLEAN",
	SQLBigInt: "BIGINT", SQLBigSerial: "BIGSERIAL",

	CChar: "CCHAR", CShort: "CSHORT", CInt: "CINT", CLong: "CLONG", CFloat: "CFLOAT",
	CDouble: "CDOUBLE", CDecimal: "CDECIMAL", CFixChar: "CFIXCHAR", CString: "CSTRING",
	CDate: "CDATE", CMoney: "CMONEY", CDatetime: "CDTIME", CLocator: "CLOCATOR",
	CVarchar: "CVCHAR", CInterval: "CINV", CFile: "CFILE", CInt8: "CINT8",
	CCollection: "CCOLL", CLVarchar: "CLVCHAR", CFixBin: "CFIXBIN", CVarBin: "CVARBIN",
	CBool: "CBOOL", CRow: "CROW", CLVarcharPtr: "CLVCHARPTR", CBigInt: "CBIGINT",
}

func (t Type) String() string {
	if name, ok := typeNames[t.Base()]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int16(t))
}
