package core

// Cell is one column of a fetched row: the client type and length chosen by
// the allocator, the column's slice of the row buffer and its indicator.
// Locator columns also carry the decoded header and the payload the engine
// stored for it.
type Cell struct {
	Type      Type
	Length    int
	Data      []byte
	Indicator int16
	Payload   []byte
}

// IsNull reports whether the column indicator marks the value null.
func (c Cell) IsNull() bool {
	return c.Indicator == -1
}
