// Package rowbuf lays out the fetch buffer a cursor reads rows into.
//
// Allocate resolves every column of a descriptor to a client type, computes
// aligned offsets and returns one zeroed buffer with a parallel indicator
// slice. Columns are then read and written by index:
//
//	buf, err := rowbuf.Allocate(desc, 0)
//	if err != nil {
//	    return err
//	}
//	defer buf.Release()
//	cell := buf.Cell(0)
package rowbuf

import (
	"errors"

	"github.com/nickyhof/ifxsql/core"
)

// ErrAlloc is returned when a row buffer cannot be allocated.
var ErrAlloc = errors.New("alloc fetch buffer fail")

// Buffer is the owned storage for one row of a result set. Column values
// live at fixed offsets in data; large-object payloads are kept beside it,
// one slot per column.
type Buffer struct {
	desc     *core.Descriptor
	data     []byte
	ind      []int16
	offsets  []int
	sizes    []int
	payloads [][]byte
}

// Allocate resolves the client representation of every column, rewriting
// desc in place, and returns a zeroed buffer large enough for one row.
// A positive maxSize caps the row size; larger layouts fail with ErrAlloc.
func Allocate(desc *core.Descriptor, maxSize int) (*Buffer, error) {
	if desc.Len() == 0 {
		return nil, ErrAlloc
	}

	length := 0
	for i := range desc.Len() {
		col := desc.Column(i)
		resolve(col)
		length = core.Align(length, col.Type) + core.SizeOf(col.Type, col.Length)
	}
	if maxSize > 0 && length > maxSize {
		return nil, ErrAlloc
	}

	b := &Buffer{
		desc:     desc,
		data:     make([]byte, length+1),
		ind:      make([]int16, desc.Len()),
		offsets:  make([]int, desc.Len()),
		sizes:    make([]int, desc.Len()),
		payloads: make([][]byte, desc.Len()),
	}

	offset := 0
	for i := range desc.Len() {
		col := desc.Column(i)
		offset = core.Align(offset, col.Type)
		size := core.SizeOf(col.Type, col.Length)
		b.offsets[i] = offset
		b.sizes[i] = size
		offset += size

		// Decimal and time values keep their packed precision or qualifier.
		switch col.Type {
		case core.CDatetime, core.CInterval, core.CDecimal, core.CMoney:
		default:
			col.Length = size
		}

		if col.Type == core.CLocator {
			core.MemoryLocator().Encode(b.Column(i))
		}
	}
	return b, nil
}

// resolve picks the client type of one column.
func resolve(col *core.ColumnMeta) {
	engine := col.Type.Base()
	col.Type = core.ToClientType(engine)

	if engine.IsUDT() {
		switch col.XID {
		case core.XIDBlob, core.XIDClob:
			col.Type = core.CLocator
			col.Length = core.LocatorSize
		default:
			// Other user-defined types are fetched as bounded strings and
			// silently truncated past UDTStringLen.
			col.Type = core.CString
			col.Length = core.UDTStringLen
		}
	}
	if engine == core.SQLLVarchar {
		col.Type = core.CString
	}
	if col.Type == core.CLocator {
		col.Length = core.LocatorSize
	}
}

// Len returns the number of columns.
func (b *Buffer) Len() int {
	return len(b.offsets)
}

// Size returns the total bytes allocated for the row, including the
// trailing guard byte.
func (b *Buffer) Size() int {
	return len(b.data)
}

// Descriptor returns the descriptor the buffer was laid out for.
func (b *Buffer) Descriptor() *core.Descriptor {
	return b.desc
}

// Offset returns the byte offset of column i.
func (b *Buffer) Offset(i int) int {
	return b.offsets[i]
}

// Column returns the storage of column i. Writes go straight into the row.
func (b *Buffer) Column(i int) []byte {
	off := b.offsets[i]
	return b.data[off : off+b.sizes[i]]
}

// Indicator returns the null indicator of column i.
func (b *Buffer) Indicator(i int) int16 {
	return b.ind[i]
}

// SetIndicator sets the null indicator of column i; -1 marks null.
func (b *Buffer) SetIndicator(i int, v int16) {
	b.ind[i] = v
}

// SetPayload stores a large-object payload for locator column i and
// updates the locator header to describe it. A nil payload marks the
// large object null.
func (b *Buffer) SetPayload(i int, payload []byte) {
	loc := core.DecodeLocator(b.Column(i))
	if payload == nil {
		loc.Indicator = -1
		loc.Size = 0
	} else {
		loc.Indicator = 0
		loc.Size = int32(len(payload))
	}
	loc.Encode(b.Column(i))
	b.payloads[i] = payload
}

// Reset zeroes the row and indicators before the next fetch. Locator
// headers are reinitialized and their payloads dropped.
func (b *Buffer) Reset() {
	clear(b.data)
	clear(b.ind)
	clear(b.payloads)
	for i, col := range b.desc.Columns {
		if col.Type == core.CLocator {
			core.MemoryLocator().Encode(b.Column(i))
		}
	}
}

// Cell returns column i of the current row for decoding.
func (b *Buffer) Cell(i int) core.Cell {
	col := b.desc.Columns[i]
	return core.Cell{
		Type:      col.Type,
		Length:    col.Length,
		Data:      b.Column(i),
		Indicator: b.ind[i],
		Payload:   b.payloads[i],
	}
}

// Release drops the row storage, the indicators and every locator
// payload. Calling it again is a no-op.
func (b *Buffer) Release() {
	if b == nil {
		return
	}
	clear(b.payloads)
	b.data = nil
	b.ind = nil
	b.payloads = nil
}

// Released reports whether Release has been called.
func (b *Buffer) Released() bool {
	return b == nil || b.data == nil
}
