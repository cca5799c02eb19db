package core

import (
	"encoding/binary"
	"strconv"
	"strings"
	"time"
)

// TimeValueSize is the fetch buffer footprint of a DATETIME or INTERVAL:
// qualifier, sign and seven int32 fields (year, month, day, hour, minute,
// second, fraction in units of 10 microseconds).
const TimeValueSize = 32

const (
	fieldYear = iota
	fieldMonth
	fieldDay
	fieldHour
	fieldMinute
	fieldSecond
	fieldFraction
	fieldCount
)

const (
	microsPerSecond = int64(1_000_000)
	microsPerMinute = 60 * microsPerSecond
	microsPerHour   = 60 * microsPerMinute
	microsPerDay    = 24 * microsPerHour
)

// TimeValue holds a DATETIME or INTERVAL split into calendar fields.
// Only the fields between the qualifier's start and end units are meaningful.
type TimeValue struct {
	Qual     int
	Negative bool
	Fields   [fieldCount]int32
}

// DatetimeFromTime extracts the fields of t covered by qual.
func DatetimeFromTime(t time.Time, qual int) TimeValue {
	v := TimeValue{Qual: qual}
	v.Fields[fieldYear] = int32(t.Year())
	v.Fields[fieldMonth] = int32(t.Month())
	v.Fields[fieldDay] = int32(t.Day())
	v.Fields[fieldHour] = int32(t.Hour())
	v.Fields[fieldMinute] = int32(t.Minute())
	v.Fields[fieldSecond] = int32(t.Second())
	v.Fields[fieldFraction] = int32(t.Nanosecond() / 10_000)
	return v
}

// IntervalFromParts builds an interval from a month count, a day count and a
// microsecond count. Year-month qualifiers use only months; day-time
// qualifiers fold months in as 30 days each.
func IntervalFromParts(months, days int32, micros int64, qual int) TimeValue {
	v := TimeValue{Qual: qual}
	start := TUStart(qual)

	if start < TUDay {
		m := int64(months)
		if m < 0 {
			v.Negative, m = true, -m
		}
		if start == TUYear {
			v.Fields[fieldYear] = int32(m / 12)
			m %= 12
		}
		v.Fields[fieldMonth] = int32(m)
		return v
	}

	total := micros + int64(days)*microsPerDay + int64(months)*30*microsPerDay
	if total < 0 {
		v.Negative, total = true, -total
	}
	units := []struct {
		unit  int
		field int
		size  int64
	}{
		{TUDay, fieldDay, microsPerDay},
		{TUHour, fieldHour, microsPerHour},
		{TUMinute, fieldMinute, microsPerMinute},
		{TUSecond, fieldSecond, microsPerSecond},
	}
	for _, u := range units {
		if u.unit < start {
			continue
		}
		v.Fields[u.field] = int32(total / u.size)
		total %= u.size
	}
	v.Fields[fieldFraction] = int32(total / 10)
	return v
}

// Encode writes v into dst, which must hold TimeValueSize bytes.
func (v TimeValue) Encode(dst []byte) {
	clear(dst[:TimeValueSize])
	binary.NativeEndian.PutUint16(dst[0:], uint16(v.Qual))
	if v.Negative {
		binary.NativeEndian.PutUint16(dst[2:], 1)
	}
	for i, f := range v.Fields {
		binary.NativeEndian.PutUint32(dst[4+4*i:], uint32(f))
	}
}

// DecodeTimeValue reads a value previously written by Encode.
func DecodeTimeValue(src []byte) TimeValue {
	v := TimeValue{
		Qual:     int(binary.NativeEndian.Uint16(src[0:])),
		Negative: binary.NativeEndian.Uint16(src[2:]) != 0,
	}
	for i := range v.Fields {
		v.Fields[i] = int32(binary.NativeEndian.Uint32(src[4+4*i:]))
	}
	return v
}

// DatetimeString renders the value like "2024-03-01 12:30:00.00000",
// limited to the qualifier's range.
func (v TimeValue) DatetimeString() string {
	return v.render(func(unit int) int {
		if unit == TUYear {
			return 4
		}
		return 2
	})
}

// IntervalString renders the value like "-3 04:05:06.000", with the leading
// field unpadded.
func (v TimeValue) IntervalString() string {
	start := TUStart(v.Qual)
	s := v.render(func(unit int) int {
		if unit == start {
			return 1
		}
		return 2
	})
	if v.Negative {
		s = "-" + s
	}
	return s
}

func (v TimeValue) render(width func(unit int) int) string {
	start, end := TUStart(v.Qual), TUEnd(v.Qual)
	var sb strings.Builder

	for u := start; u <= end && u <= TUSecond; u += 2 {
		if u != start {
			switch u {
			case TUMonth, TUDay:
				sb.WriteByte('-')
			case TUHour:
				sb.WriteByte(' ')
			default:
				sb.WriteByte(':')
			}
		}
		sb.WriteString(pad(int(v.Fields[u/2]), width(u)))
	}

	if end > TUSecond {
		digits := end - TUSecond
		frac := int(v.Fields[fieldFraction])
		for i := digits; i < 5; i++ {
			frac /= 10
		}
		if start <= TUSecond {
			sb.WriteByte('.')
		}
		sb.WriteString(pad(frac, digits))
	}
	return sb.String()
}

// QualifierString renders a qualifier such as "YEAR TO FRACTION(5)".
func QualifierString(qual int) string {
	name := func(u int) string {
		switch u {
		case TUYear:
			return "YEAR"
		case TUMonth:
			return "MONTH"
		case TUDay:
			return "DAY"
		case TUHour:
			return "HOUR"
		case TUMinute:
			return "MINUTE"
		case TUSecond:
			return "SECOND"
		default:
			return "FRACTION(" + strconv.Itoa(u-TUSecond) + ")"
		}
	}
	return name(TUStart(qual)) + " TO " + name(TUEnd(qual))
}
