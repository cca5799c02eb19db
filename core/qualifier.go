package core

// Packed precision and scale for DECIMAL/MONEY column lengths.

// PrecMake packs a decimal precision and scale into a column length.
func PrecMake(precision, scale int) int {
	return (precision&0xFF)<<8 | scale&0xFF
}

// PrecTot returns the total number of digits of a packed decimal length.
func PrecTot(length int) int {
	return (length >> 8) & 0xFF
}

// PrecDec returns the number of digits after the decimal point.
func PrecDec(length int) int {
	return length & 0xFF
}

// Time units used in DATETIME and INTERVAL qualifiers.
const (
	TUYear   = 0
	TUMonth  = 2
	TUDay    = 4
	TUHour   = 6
	TUMinute = 8
	TUSecond = 10
	TUFrac   = 12
	TUF1     = 11
	TUF2     = 12
	TUF3     = 13
	TUF4     = 14
	TUF5     = 15
)

// TUEncode packs a qualifier from its total digit count and start/end units.
func TUEncode(length, start, end int) int {
	return (length&0xFF)<<8 | (start&0xF)<<4 | end&0xF
}

// TUStart returns the first time unit of a qualifier.
func TUStart(qual int) int {
	return (qual >> 4) & 0xF
}

// TUEnd returns the last time unit of a qualifier.
func TUEnd(qual int) int {
	return qual & 0xF
}

// TULen returns the number of digits a qualifier spans.
func TULen(qual int) int {
	return (qual >> 8) & 0xFF
}

// unitDigits is the digit width of each unit below the leading one.
var unitDigits = map[int]int{
	TUYear: 4, TUMonth: 2, TUDay: 2, TUHour: 2, TUMinute: 2, TUSecond: 2,
}

// QualifierLength computes the digit count of a start..end range where the
// leading field is lead digits wide.
func QualifierLength(start, end, lead int) int {
	n := lead
	for u := start + 2; u <= end && u <= TUSecond; u += 2 {
		n += unitDigits[u]
	}
	if end > TUSecond {
		n += end - TUSecond
	}
	return n
}
