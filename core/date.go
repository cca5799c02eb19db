package core

import (
	"encoding/binary"
	"errors"
	"strconv"
	"strings"
	"time"
)

// DateSize is the fetch buffer footprint of a DATE: days since 1899-12-31.
const DateSize = 4

// DefaultDateFormat is used when a caller passes no format.
const DefaultDateFormat = "mm/dd/yyyy"

var ErrDateConvert = errors.New("date convert fail")

var dateEpoch = time.Date(1899, time.December, 31, 0, 0, 0, 0, time.UTC)

// DateFromTime returns the day number of t's calendar date.
func DateFromTime(t time.Time) int32 {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int32((day.Unix() - dateEpoch.Unix()) / 86400)
}

// DateToTime returns midnight UTC of the given day number.
func DateToTime(days int32) time.Time {
	return dateEpoch.AddDate(0, 0, int(days))
}

// EncodeDate writes a day number into dst.
func EncodeDate(dst []byte, days int32) {
	binary.NativeEndian.PutUint32(dst, uint32(days))
}

// DecodeDate reads a day number from src.
func DecodeDate(src []byte) int32 {
	return int32(binary.NativeEndian.Uint32(src))
}

type dateToken int

const (
	tokLiteral dateToken = iota
	tokYear4
	tokYear2
	tokMonthName
	tokMonth
	tokWeekday
	tokDay
)

type datePart struct {
	tok dateToken
	lit byte
}

// compileDateFormat splits a pattern such as "YYYYMMDD" or "ddd mmm dd yyyy"
// into tokens. Matching is case-insensitive.
func compileDateFormat(pattern string) []datePart {
	p := strings.ToLower(pattern)
	var parts []datePart
	for i := 0; i < len(p); {
		switch {
		case strings.HasPrefix(p[i:], "yyyy"):
			parts = append(parts, datePart{tok: tokYear4})
			i += 4
		case strings.HasPrefix(p[i:], "yy"):
			parts = append(parts, datePart{tok: tokYear2})
			i += 2
		case strings.HasPrefix(p[i:], "mmm"):
			parts = append(parts, datePart{tok: tokMonthName})
			i += 3
		case strings.HasPrefix(p[i:], "mm"):
			parts = append(parts, datePart{tok: tokMonth})
			i += 2
		case strings.HasPrefix(p[i:], "ddd"):
			parts = append(parts, datePart{tok: tokWeekday})
			i += 3
		case strings.HasPrefix(p[i:], "dd"):
			parts = append(parts, datePart{tok: tokDay})
			i += 2
		default:
			parts = append(parts, datePart{tok: tokLiteral, lit: pattern[i]})
			i++
		}
	}
	return parts
}

// FormatDate renders a day number with the given pattern.
func FormatDate(days int32, pattern string) (string, error) {
	if pattern == "" {
		pattern = DefaultDateFormat
	}
	t := DateToTime(days)
	var sb strings.Builder
	for _, part := range compileDateFormat(pattern) {
		switch part.tok {
		case tokYear4:
			y := t.Year()
			if y < 0 || y > 9999 {
				return "", ErrDateConvert
			}
			sb.WriteString(pad(y, 4))
		case tokYear2:
			sb.WriteString(pad(t.Year()%100, 2))
		case tokMonthName:
			sb.WriteString(t.Month().String()[:3])
		case tokMonth:
			sb.WriteString(pad(int(t.Month()), 2))
		case tokWeekday:
			sb.WriteString(t.Weekday().String()[:3])
		case tokDay:
			sb.WriteString(pad(t.Day(), 2))
		default:
			sb.WriteByte(part.lit)
		}
	}
	return sb.String(), nil
}

// ParseDate converts text laid out according to pattern into a day number.
// Numeric fields accept one or two digits except four-digit years.
func ParseDate(text, pattern string) (int32, error) {
	if pattern == "" {
		pattern = DefaultDateFormat
	}
	year, month, day := -1, -1, -1
	s := strings.TrimSpace(text)

	for _, part := range compileDateFormat(pattern) {
		var err error
		switch part.tok {
		case tokYear4:
			year, s, err = takeNumber(s, 4)
		case tokYear2:
			year, s, err = takeNumber(s, 2)
			if err == nil && year < 100 {
				year += 1900
			}
		case tokMonth:
			month, s, err = takeNumber(s, 2)
		case tokDay:
			day, s, err = takeNumber(s, 2)
		case tokMonthName:
			month, s, err = takeMonthName(s)
		case tokWeekday:
			if len(s) < 3 {
				return 0, ErrDateConvert
			}
			s = s[3:]
		default:
			if s == "" || s[0] != part.lit {
				return 0, ErrDateConvert
			}
			s = s[1:]
		}
		if err != nil {
			return 0, err
		}
	}
	if s != "" || year < 0 || month < 1 || month > 12 || day < 1 {
		return 0, ErrDateConvert
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		return 0, ErrDateConvert
	}
	return DateFromTime(t), nil
}

func takeNumber(s string, width int) (int, string, error) {
	n := 0
	for n < width && n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	if n == 0 {
		return 0, s, ErrDateConvert
	}
	v, err := strconv.Atoi(s[:n])
	if err != nil {
		return 0, s, ErrDateConvert
	}
	return v, s[n:], nil
}

func takeMonthName(s string) (int, string, error) {
	if len(s) < 3 {
		return 0, s, ErrDateConvert
	}
	name := strings.ToLower(s[:3])
	for m := time.January; m <= time.December; m++ {
		if strings.ToLower(m.String()[:3]) == name {
			return int(m), s[3:], nil
		}
	}
	return 0, s, ErrDateConvert
}

func pad(v, width int) string {
	s := strconv.Itoa(v)
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	return s
}
