package core

import (
	"encoding/binary"
	"errors"
	"math/big"
	"strconv"
	"strings"
)

// DecimalSize is the fetch buffer footprint of a DECIMAL or MONEY value:
// exponent, sign and digit count as int16 followed by 16 base-100 digits.
const DecimalSize = 22

// MaxDecimalDigits is the number of base-100 digit pairs a decimal holds.
const MaxDecimalDigits = 16

// Decimal sign markers.
const (
	DecNegative int16 = 0
	DecPositive int16 = 1
	DecNull     int16 = -1
)

var ErrDecimalSyntax = errors.New("invalid decimal literal")

// Decimal is the engine's fixed-point representation. Its value is
// 0.d1d2...dn * 100^Exp where each d is a base-100 digit.
type Decimal struct {
	Exp    int16
	Pos    int16
	Digits []byte
}

// IsNull reports whether the decimal carries the null sign marker.
func (d Decimal) IsNull() bool {
	return d.Pos == DecNull
}

// Encode writes d into dst, which must hold DecimalSize bytes.
func (d Decimal) Encode(dst []byte) {
	clear(dst[:DecimalSize])
	binary.NativeEndian.PutUint16(dst[0:], uint16(d.Exp))
	binary.NativeEndian.PutUint16(dst[2:], uint16(d.Pos))
	n := min(len(d.Digits), MaxDecimalDigits)
	binary.NativeEndian.PutUint16(dst[4:], uint16(n))
	copy(dst[6:6+n], d.Digits[:n])
}

// DecodeDecimal reads a decimal previously written by Encode.
func DecodeDecimal(src []byte) Decimal {
	n := int(int16(binary.NativeEndian.Uint16(src[4:])))
	n = max(0, min(n, MaxDecimalDigits))
	digits := make([]byte, n)
	copy(digits, src[6:6+n])
	return Decimal{
		Exp:    int16(binary.NativeEndian.Uint16(src[0:])),
		Pos:    int16(binary.NativeEndian.Uint16(src[2:])),
		Digits: digits,
	}
}

// ParseDecimal converts a decimal literal such as "-12.50" or "1.5e3".
// Digits beyond the 32 significant positions are truncated.
func ParseDecimal(s string) (Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Decimal{}, ErrDecimalSyntax
	}

	pos := DecPositive
	switch s[0] {
	case '-':
		pos = DecNegative
		s = s[1:]
	case '+':
		s = s[1:]
	}

	mantissa, exponent := s, 0
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		e, err := strconv.Atoi(s[i+1:])
		if err != nil {
			return Decimal{}, ErrDecimalSyntax
		}
		mantissa, exponent = s[:i], e
	}

	intPart, fracPart, _ := strings.Cut(mantissa, ".")
	if intPart == "" && fracPart == "" {
		return Decimal{}, ErrDecimalSyntax
	}
	for _, c := range intPart + fracPart {
		if c < '0' || c > '9' {
			return Decimal{}, ErrDecimalSyntax
		}
	}

	// Move the decimal point by the exponent.
	all := intPart + fracPart
	point := len(intPart) + exponent
	if point < 0 {
		all = strings.Repeat("0", -point) + all
		point = 0
	}
	if point > len(all) {
		all += strings.Repeat("0", point-len(all))
	}
	intPart, fracPart = all[:point], all[point:]

	if len(intPart)%2 == 1 {
		intPart = "0" + intPart
	}
	if len(fracPart)%2 == 1 {
		fracPart += "0"
	}
	digits := intPart + fracPart
	exp := len(intPart) / 2

	pairs := make([]byte, 0, len(digits)/2)
	for i := 0; i < len(digits); i += 2 {
		pairs = append(pairs, (digits[i]-'0')*10+digits[i+1]-'0')
	}
	for len(pairs) > 0 && pairs[0] == 0 {
		pairs = pairs[1:]
		exp--
	}
	for len(pairs) > 0 && pairs[len(pairs)-1] == 0 {
		pairs = pairs[:len(pairs)-1]
	}
	if len(pairs) == 0 {
		return Decimal{Pos: DecPositive}, nil
	}
	if len(pairs) > MaxDecimalDigits {
		pairs = pairs[:MaxDecimalDigits]
	}
	return Decimal{Exp: int16(exp), Pos: pos, Digits: pairs}, nil
}

// DecimalFromBig builds a decimal from an unscaled integer and a scale.
func DecimalFromBig(unscaled *big.Int, scale int) (Decimal, error) {
	return ParseDecimal(unscaled.String() + "e" + strconv.Itoa(-scale))
}

// String renders the decimal in plain notation with no trailing zeros.
func (d Decimal) String() string {
	if d.IsNull() {
		return ""
	}
	if len(d.Digits) == 0 {
		return "0"
	}

	var sb strings.Builder
	for _, p := range d.Digits {
		sb.WriteByte('0' + p/10)
		sb.WriteByte('0' + p%10)
	}
	digits := sb.String()
	point := int(d.Exp) * 2

	var intPart, fracPart string
	switch {
	case point <= 0:
		fracPart = strings.Repeat("0", -point) + digits
	case point >= len(digits):
		intPart = digits + strings.Repeat("0", point-len(digits))
	default:
		intPart, fracPart = digits[:point], digits[point:]
	}

	intPart = strings.TrimLeft(intPart, "0")
	if intPart == "" {
		intPart = "0"
	}
	fracPart = strings.TrimRight(fracPart, "0")

	out := intPart
	if fracPart != "" {
		out += "." + fracPart
	}
	if d.Pos == DecNegative {
		out = "-" + out
	}
	return out
}
