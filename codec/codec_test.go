package codec

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/nickyhof/ifxsql/core"
)

var conv = core.StdConverter{}

func u16(v int16) []byte {
	b := make([]byte, 2)
	binary.NativeEndian.PutUint16(b, uint16(v))
	return b
}

func u32(v uint32) []byte {
	b := make([]byte, 4)
	binary.NativeEndian.PutUint32(b, v)
	return b
}

func u64(v uint64) []byte {
	b := make([]byte, 8)
	binary.NativeEndian.PutUint64(b, v)
	return b
}

func TestDecodeNullIndicator(t *testing.T) {
	types := []core.Type{
		core.CChar, core.CShort, core.CInt, core.CLong, core.CFloat, core.CDouble,
		core.CDecimal, core.CMoney, core.CDate, core.CDatetime, core.CInterval,
		core.CLocator, core.CInt8, core.CCollection, core.CRow, core.CLVarchar,
		core.CBool, core.CBigInt, core.CString, core.CVarchar,
	}

	for _, typ := range types {
		data := bytes.Repeat([]byte{0x7f}, 64)
		cell := core.Cell{Type: typ, Length: 8, Data: data, Indicator: -1, Payload: []byte("x")}
		if got := Decode(cell, conv); got != nil {
			t.Errorf("Decode(%s) with null indicator = %v, expected nil", typ, got)
		}
	}
}

func TestDecodeCharTrim(t *testing.T) {
	cell := core.Cell{Type: core.CChar, Length: 6, Data: []byte("AB  \x00\x00")}
	if got := Decode(cell, conv); got != "AB" {
		t.Errorf("Expected %q, got %q", "AB", got)
	}

	cell = core.Cell{Type: core.CString, Length: 8, Data: []byte(" a b\x00zz\x00")}
	if got := Decode(cell, conv); got != " a b" {
		t.Errorf("Expected %q, got %q", " a b", got)
	}
}

func TestDecodeIntegers(t *testing.T) {
	tests := []struct {
		name string
		cell core.Cell
		want int64
	}{
		{"short", core.Cell{Type: core.CShort, Data: u16(-5)}, -5},
		{"int", core.Cell{Type: core.CInt, Data: u32(uint32(0xFFFFFFFE))}, -2},
		{"long", core.Cell{Type: core.CLong, Data: u64(1 << 40)}, 1 << 40},
		{"bigint", core.Cell{Type: core.CBigInt, Data: u64(math.MaxUint64)}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Decode(tt.cell, conv).(int64)
			if !ok || got != tt.want {
				t.Errorf("Expected %d, got %v", tt.want, Decode(tt.cell, conv))
			}
		})
	}
}

func TestDecodeInt8(t *testing.T) {
	data := make([]byte, core.Int8Size)
	core.Int8FromInt64(-9000000000).Encode(data)
	if got := Decode(core.Cell{Type: core.CInt8, Data: data}, conv); got != int64(-9000000000) {
		t.Errorf("Expected -9000000000, got %v", got)
	}

	// A null sign has no text form and decodes to nil.
	null := make([]byte, core.Int8Size)
	if got := Decode(core.Cell{Type: core.CInt8, Data: null}, conv); got != nil {
		t.Errorf("Expected nil for null int8, got %v", got)
	}
}

func TestDecodeFloats(t *testing.T) {
	got := Decode(core.Cell{Type: core.CFloat, Data: u32(math.Float32bits(1.5))}, conv)
	if got != 1.5 {
		t.Errorf("Expected 1.5, got %v", got)
	}

	got = Decode(core.Cell{Type: core.CDouble, Data: u64(math.Float64bits(-2.25))}, conv)
	if got != -2.25 {
		t.Errorf("Expected -2.25, got %v", got)
	}
}

func TestDecodeDecimal(t *testing.T) {
	d, err := core.ParseDecimal("1234.5678")
	if err != nil {
		t.Fatalf("ParseDecimal failed: %v", err)
	}
	data := make([]byte, core.DecimalSize)
	d.Encode(data)

	for _, typ := range []core.Type{core.CDecimal, core.CMoney} {
		got := Decode(core.Cell{Type: typ, Length: core.PrecMake(8, 4), Data: data}, conv)
		if got != 1234.5678 {
			t.Errorf("Decode(%s) expected 1234.5678, got %v", typ, got)
		}
	}
}

func TestDecodeDate(t *testing.T) {
	data := make([]byte, core.DateSize)
	core.EncodeDate(data, core.DateFromTime(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))

	if got := Decode(core.Cell{Type: core.CDate, Data: data}, conv); got != "20240301" {
		t.Errorf("Expected 20240301, got %v", got)
	}
}

func TestDecodeDatetimeAndInterval(t *testing.T) {
	qual := core.TUEncode(14, core.TUYear, core.TUSecond)
	data := make([]byte, core.TimeValueSize)
	core.DatetimeFromTime(time.Date(2023, 12, 25, 8, 0, 1, 0, time.UTC), qual).Encode(data)

	if got := Decode(core.Cell{Type: core.CDatetime, Length: qual, Data: data}, conv); got != "2023-12-25 08:00:01" {
		t.Errorf("Expected 2023-12-25 08:00:01, got %v", got)
	}

	iqual := core.TUEncode(6, core.TUDay, core.TUMinute)
	core.IntervalFromParts(0, -2, -90*60*1_000_000, iqual).Encode(data)
	if got := Decode(core.Cell{Type: core.CInterval, Length: iqual, Data: data}, conv); got != "-2 01:30" {
		t.Errorf("Expected -2 01:30, got %v", got)
	}
}

func TestDecodeLocator(t *testing.T) {
	data := make([]byte, core.LocatorSize)
	loc := core.MemoryLocator()
	loc.Size = 3
	loc.Encode(data)

	payload := []byte{0x00, 0x20, 0x00, 0xff}
	got, ok := Decode(core.Cell{Type: core.CLocator, Data: data, Payload: payload}, conv).([]byte)
	if !ok || !bytes.Equal(got, []byte{0x00, 0x20, 0x00}) {
		t.Errorf("Expected exact locator bytes, got %v", got)
	}

	// Locator indicator -1 wins even when a payload is present.
	loc.Indicator = -1
	loc.Encode(data)
	if got := Decode(core.Cell{Type: core.CLocator, Data: data, Payload: payload}, conv); got != nil {
		t.Errorf("Expected nil for null locator, got %v", got)
	}
}

func TestDecodeRawTypes(t *testing.T) {
	raw := []byte("{1,2,3}  \x00")
	for _, typ := range []core.Type{core.CRow, core.CCollection, core.CLVarchar} {
		got, ok := Decode(core.Cell{Type: typ, Length: len(raw), Data: raw}, conv).([]byte)
		if !ok || !bytes.Equal(got, raw) {
			t.Errorf("Decode(%s) expected untouched bytes, got %q", typ, got)
		}
	}
}

func TestDecodeBoolAndUnknown(t *testing.T) {
	if got := Decode(core.Cell{Type: core.CBool, Data: []byte{1}}, conv); got != true {
		t.Errorf("Expected true, got %v", got)
	}
	if got := Decode(core.Cell{Type: core.CBool, Data: []byte{0}}, conv); got != false {
		t.Errorf("Expected false, got %v", got)
	}
	if got := Decode(core.Cell{Type: core.CFixBin, Data: []byte{1, 2}}, conv); got != nil {
		t.Errorf("Expected nil for undecodable type, got %v", got)
	}
	if got := Decode(core.Cell{Type: core.Type(99), Data: []byte{1}}, conv); got != nil {
		t.Errorf("Expected nil for unknown tag, got %v", got)
	}
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		col  core.ColumnMeta
		want string
	}{
		{core.ColumnMeta{Type: core.CChar, Length: 21}, "string(20)"},
		{core.ColumnMeta{Type: core.CString, Length: 2049}, "string(2048)"},
		{core.ColumnMeta{Type: core.CInt, Length: 4}, "integer"},
		{core.ColumnMeta{Type: core.CInt8, Length: 12}, "integer"},
		{core.ColumnMeta{Type: core.CFloat, Length: 4}, "number(4)"},
		{core.ColumnMeta{Type: core.CDouble, Length: 8}, "number(8)"},
		{core.ColumnMeta{Type: core.CDecimal, Length: core.PrecMake(8, 2)}, "number(8,2)"},
		{core.ColumnMeta{Type: core.CDate, Length: 4}, "date"},
		{core.ColumnMeta{Type: core.CDatetime, Length: core.TUEncode(14, core.TUYear, core.TUSecond)}, "datetime(0,10)"},
		{core.ColumnMeta{Type: core.CInterval, Length: core.TUEncode(8, core.TUDay, core.TUSecond)}, "datetime(4,10)"},
		{core.ColumnMeta{Type: core.CLocator, Length: core.LocatorSize}, "binary"},
		{core.ColumnMeta{Type: core.CCollection, Length: 30}, "collection"},
		{core.ColumnMeta{Type: core.CBool, Length: 1}, "boolean"},
		{core.ColumnMeta{Type: core.SQLChar, Length: 1}, "unknown"},
	}

	for _, tt := range tests {
		if got := TypeName(tt.col); got != tt.want {
			t.Errorf("TypeName(%s) = %q, expected %q", tt.col.Type, got, tt.want)
		}
	}
}
