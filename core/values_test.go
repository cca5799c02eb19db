package core

import (
	"errors"
	"math"
	"math/big"
	"testing"
	"time"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"-12.50", "-12.5"},
		{"0.05", "0.05"},
		{"1.5e3", "1500"},
		{"123456789", "123456789"},
		{"0", "0"},
		{"+7", "7"},
		{".25", "0.25"},
	}

	for _, tt := range tests {
		d, err := ParseDecimal(tt.in)
		if err != nil {
			t.Fatalf("ParseDecimal(%q) failed: %v", tt.in, err)
		}
		if got := d.String(); got != tt.want {
			t.Errorf("ParseDecimal(%q).String() = %q, expected %q", tt.in, got, tt.want)
		}
	}
}

func TestParseDecimalInvalid(t *testing.T) {
	for _, in := range []string{"", "abc", "1.2.3", "1e", "-"} {
		if _, err := ParseDecimal(in); !errors.Is(err, ErrDecimalSyntax) {
			t.Errorf("ParseDecimal(%q) expected ErrDecimalSyntax, got %v", in, err)
		}
	}
}

func TestDecimalEncodeDecode(t *testing.T) {
	d, err := ParseDecimal("-98765.4321")
	if err != nil {
		t.Fatalf("ParseDecimal failed: %v", err)
	}

	buf := make([]byte, DecimalSize)
	d.Encode(buf)
	got := DecodeDecimal(buf)

	if got.String() != "-98765.4321" {
		t.Errorf("Expected -98765.4321, got %s", got.String())
	}
	if got.Exp != d.Exp || got.Pos != d.Pos {
		t.Errorf("Expected exp=%d pos=%d, got exp=%d pos=%d", d.Exp, d.Pos, got.Exp, got.Pos)
	}
}

func TestDecimalFromBig(t *testing.T) {
	d, err := DecimalFromBig(big.NewInt(12345), 2)
	if err != nil {
		t.Fatalf("DecimalFromBig failed: %v", err)
	}
	if d.String() != "123.45" {
		t.Errorf("Expected 123.45, got %s", d.String())
	}
}

func TestDecimalNull(t *testing.T) {
	d := Decimal{Pos: DecNull}
	if _, err := (StdConverter{}).DecimalToText(d); !errors.Is(err, ErrNullValue) {
		t.Errorf("Expected ErrNullValue for null decimal, got %v", err)
	}
}

func TestInt8(t *testing.T) {
	tests := []int64{0, 42, -42, math.MaxInt64, math.MinInt64}

	for _, v := range tests {
		buf := make([]byte, Int8Size)
		Int8FromInt64(v).Encode(buf)
		got := DecodeInt8(buf).String()
		want := big.NewInt(v).String()
		if got != want {
			t.Errorf("Int8 round trip of %d: expected %s, got %s", v, want, got)
		}
	}
}

func TestInt8FromBigRange(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 70)
	if _, err := Int8FromBig(huge); !errors.Is(err, ErrInt8Range) {
		t.Errorf("Expected ErrInt8Range, got %v", err)
	}
}

func TestDateEpoch(t *testing.T) {
	if got := DateFromTime(time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC)); got != 0 {
		t.Errorf("Expected day 0 for 1899-12-31, got %d", got)
	}
	if got := DateFromTime(time.Date(1900, 1, 1, 23, 59, 0, 0, time.UTC)); got != 1 {
		t.Errorf("Expected day 1 for 1900-01-01, got %d", got)
	}
}

func TestFormatDate(t *testing.T) {
	days := DateFromTime(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		pattern string
		want    string
	}{
		{"YYYYMMDD", "20240301"},
		{"", "03/01/2024"},
		{"dd-mmm-yy", "01-Mar-24"},
		{"ddd, yyyy.mm.dd", "Fri, 2024.03.01"},
	}

	for _, tt := range tests {
		got, err := FormatDate(days, tt.pattern)
		if err != nil {
			t.Fatalf("FormatDate(%q) failed: %v", tt.pattern, err)
		}
		if got != tt.want {
			t.Errorf("FormatDate(%q) = %q, expected %q", tt.pattern, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	want := DateFromTime(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		text    string
		pattern string
	}{
		{"03/01/2024", ""},
		{"3/1/2024", "mm/dd/yyyy"},
		{"20240301", "yyyymmdd"},
		{"01 Mar 2024", "dd mmm yyyy"},
	}

	for _, tt := range tests {
		got, err := ParseDate(tt.text, tt.pattern)
		if err != nil {
			t.Fatalf("ParseDate(%q, %q) failed: %v", tt.text, tt.pattern, err)
		}
		if got != want {
			t.Errorf("ParseDate(%q, %q) = %d, expected %d", tt.text, tt.pattern, got, want)
		}
	}
}

func TestParseDateInvalid(t *testing.T) {
	for _, text := range []string{"", "02/30/2024", "13/01/2024", "03/01/2024x", "aa/bb/cccc"} {
		if _, err := ParseDate(text, ""); !errors.Is(err, ErrDateConvert) {
			t.Errorf("ParseDate(%q) expected ErrDateConvert, got %v", text, err)
		}
	}
}

func TestDatetimeString(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 5, 123456000, time.UTC)

	tests := []struct {
		qual int
		want string
	}{
		{TUEncode(14, TUYear, TUSecond), "2024-03-01 12:30:05"},
		{TUEncode(17, TUYear, TUF3), "2024-03-01 12:30:05.123"},
		{TUEncode(8, TUYear, TUDay), "2024-03-01"},
		{TUEncode(4, TUHour, TUMinute), "12:30"},
		{TUEncode(19, TUYear, TUF5), "2024-03-01 12:30:05.12345"},
	}

	for _, tt := range tests {
		got := DatetimeFromTime(ts, tt.qual).DatetimeString()
		if got != tt.want {
			t.Errorf("DatetimeString(%s) = %q, expected %q", QualifierString(tt.qual), got, tt.want)
		}
	}
}

func TestIntervalString(t *testing.T) {
	dayToSecond := TUEncode(QualifierLength(TUDay, TUSecond, 2), TUDay, TUSecond)
	span := 3*microsPerDay + 4*microsPerHour + 5*microsPerMinute + 6*microsPerSecond

	tests := []struct {
		name string
		v    TimeValue
		want string
	}{
		{"day to second", IntervalFromParts(0, 0, span, dayToSecond), "3 04:05:06"},
		{"negative", IntervalFromParts(0, 0, -span, dayToSecond), "-3 04:05:06"},
		{"year to month", IntervalFromParts(14, 0, 0, TUEncode(6, TUYear, TUMonth)), "1-02"},
		{"hour to second", IntervalFromParts(0, 1, 0, TUEncode(6, TUHour, TUSecond)), "24:00:00"},
		{"months folded", IntervalFromParts(1, 0, 0, TUEncode(6, TUDay, TUDay)), "30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IntervalString(); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestTimeValueEncodeDecode(t *testing.T) {
	qual := TUEncode(19, TUYear, TUF5)
	v := DatetimeFromTime(time.Date(1999, 12, 31, 23, 59, 59, 990000000, time.UTC), qual)

	buf := make([]byte, TimeValueSize)
	v.Encode(buf)
	got := DecodeTimeValue(buf)

	if got != v {
		t.Errorf("Expected %+v, got %+v", v, got)
	}
}

func TestQualifierPacking(t *testing.T) {
	qual := TUEncode(19, TUYear, TUF5)
	if TUStart(qual) != TUYear || TUEnd(qual) != TUF5 || TULen(qual) != 19 {
		t.Errorf("Unexpected qualifier unpack: start=%d end=%d len=%d", TUStart(qual), TUEnd(qual), TULen(qual))
	}
	if QualifierString(qual) != "YEAR TO FRACTION(5)" {
		t.Errorf("Expected YEAR TO FRACTION(5), got %s", QualifierString(qual))
	}

	prec := PrecMake(16, 4)
	if PrecTot(prec) != 16 || PrecDec(prec) != 4 {
		t.Errorf("Expected (16,4), got (%d,%d)", PrecTot(prec), PrecDec(prec))
	}
}
