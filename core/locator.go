package core

import "encoding/binary"

// LocatorSize is the fetch buffer footprint of a large-object locator
// header. The payload itself lives outside the row buffer.
const LocatorSize = 24

// Locator buffering modes.
const (
	LocMemory int16 = 1
	LocFile   int16 = 2
)

// LocAlloc tells the engine to allocate the payload buffer itself.
const LocAlloc int32 = 0x1

// Locator is the header the engine fills in for BYTE, TEXT, BLOB and CLOB
// columns.
type Locator struct {
	LocType   int16
	Indicator int16 // -1 when the large object is null
	Size      int32 // payload bytes
	BufSize   int32 // -1 lets the engine size the buffer
	MFlags    int32
	OFlags    int32
	Status    int32
}

// MemoryLocator returns a header set up for engine-managed in-memory buffering.
func MemoryLocator() Locator {
	return Locator{LocType: LocMemory, BufSize: -1, MFlags: LocAlloc}
}

// Encode writes l into dst, which must hold LocatorSize bytes.
func (l Locator) Encode(dst []byte) {
	binary.NativeEndian.PutUint16(dst[0:], uint16(l.LocType))
	binary.NativeEndian.PutUint16(dst[2:], uint16(l.Indicator))
	binary.NativeEndian.PutUint32(dst[4:], uint32(l.Size))
	binary.NativeEndian.PutUint32(dst[8:], uint32(l.BufSize))
	binary.NativeEndian.PutUint32(dst[12:], uint32(l.MFlags))
	binary.NativeEndian.PutUint32(dst[16:], uint32(l.OFlags))
	binary.NativeEndian.PutUint32(dst[20:], uint32(l.Status))
}

// DecodeLocator reads a header previously written by Encode.
func DecodeLocator(src []byte) Locator {
	return Locator{
		LocType:   int16(binary.NativeEndian.Uint16(src[0:])),
		Indicator: int16(binary.NativeEndian.Uint16(src[2:])),
		Size:      int32(binary.NativeEndian.Uint32(src[4:])),
		BufSize:   int32(binary.NativeEndian.Uint32(src[8:])),
		MFlags:    int32(binary.NativeEndian.Uint32(src[12:])),
		OFlags:    int32(binary.NativeEndian.Uint32(src[16:])),
		Status:    int32(binary.NativeEndian.Uint32(src[20:])),
	}
}
