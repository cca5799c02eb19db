package core

import (
	"encoding/binary"
	"errors"
	"math/big"
	"strconv"
)

// Int8Size is the fetch buffer footprint of an INT8 value: two 32-bit
// magnitude words followed by an int16 sign.
const Int8Size = 12

// Int8 signs.
const (
	Int8Null     int16 = 0
	Int8Positive int16 = 1
	Int8Negative int16 = -1
)

var ErrInt8Range = errors.New("int8 value out of range")

// Int8 is the engine's sign-magnitude 8-byte integer.
type Int8 struct {
	Lo, Hi uint32
	Sign   int16
}

// Int8FromInt64 converts a native integer.
func Int8FromInt64(v int64) Int8 {
	if v < 0 {
		m := uint64(-v)
		if v == -1<<63 {
			m = 1 << 63
		}
		return Int8{Lo: uint32(m), Hi: uint32(m >> 32), Sign: Int8Negative}
	}
	return Int8{Lo: uint32(v), Hi: uint32(uint64(v) >> 32), Sign: Int8Positive}
}

// Int8FromBig converts an arbitrary integer whose magnitude fits in 64 bits.
func Int8FromBig(v *big.Int) (Int8, error) {
	abs := new(big.Int).Abs(v)
	if abs.BitLen() > 64 {
		return Int8{}, ErrInt8Range
	}
	m := abs.Uint64()
	sign := Int8Positive
	if v.Sign() < 0 {
		sign = Int8Negative
	}
	return Int8{Lo: uint32(m), Hi: uint32(m >> 32), Sign: sign}, nil
}

// Encode writes v into dst, which must hold Int8Size bytes.
func (v Int8) Encode(dst []byte) {
	clear(dst[:Int8Size])
	binary.NativeEndian.PutUint32(dst[0:], v.Lo)
	binary.NativeEndian.PutUint32(dst[4:], v.Hi)
	binary.NativeEndian.PutUint16(dst[8:], uint16(v.Sign))
}

// DecodeInt8 reads a value previously written by Encode.
func DecodeInt8(src []byte) Int8 {
	return Int8{
		Lo:   binary.NativeEndian.Uint32(src[0:]),
		Hi:   binary.NativeEndian.Uint32(src[4:]),
		Sign: int16(binary.NativeEndian.Uint16(src[8:])),
	}
}

// String renders the value in base 10. A null sign renders as "".
func (v Int8) String() string {
	if v.Sign == Int8Null {
		return ""
	}
	m := uint64(v.Hi)<<32 | uint64(v.Lo)
	s := strconv.FormatUint(m, 10)
	if v.Sign == Int8Negative && m != 0 {
		s = "-" + s
	}
	return s
}
