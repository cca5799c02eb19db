package core

// ColumnMeta describes one column of a prepared statement's result set.
//
// Length is a byte length for character and binary types, a packed
// precision/scale for DECIMAL and MONEY, and a packed qualifier for
// DATETIME and INTERVAL.
type ColumnMeta struct {
	Name   string
	Type   Type
	Length int
	XID    int // extended type id, only meaningful for UDT columns
}

// Descriptor is the ordered column metadata of a result set.
type Descriptor struct {
	Columns []ColumnMeta
}

// NewDescriptor returns a descriptor over the given columns.
func NewDescriptor(columns ...ColumnMeta) *Descriptor {
	return &Descriptor{Columns: columns}
}

// Len returns the number of columns. A nil descriptor has none.
func (d *Descriptor) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Columns)
}

// Column returns a pointer to column i so callers can rewrite it in place.
func (d *Descriptor) Column(i int) *ColumnMeta {
	return &d.Columns[i]
}

// Names returns the column names in descriptor order.
func (d *Descriptor) Names() []string {
	names := make([]string, d.Len())
	for i := range names {
		names[i] = d.Columns[i].Name
	}
	return names
}
