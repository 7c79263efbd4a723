package buffer

import (
	"cmp"
	"fmt"
)

// ByteOffset indexes the LF-normalized text of a buffer.
type ByteOffset = int64

// Point is a 0-indexed line and a byte column within that line.
type Point struct {
	Line   uint32
	Column uint32
}

func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Compare orders points by line, then column.
func (p Point) Compare(other Point) int {
	if c := cmp.Compare(p.Line, other.Line); c != 0 {
		return c
	}
	return cmp.Compare(p.Column, other.Column)
}

// Range is the half-open byte span [Start, End).
type Range struct {
	Start ByteOffset
	End   ByteOffset
}

// NewRange returns [start, end).
func NewRange(start, end ByteOffset) Range {
	return Range{Start: start, End: end}
}

func (r Range) String() string {
	return fmt.Sprintf("[%d:%d)", r.Start, r.End)
}

// Len returns End - Start.
func (r Range) Len() ByteOffset {
	return r.End - r.Start
}

// IsEmpty reports a zero-length range.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Contains reports whether offset lies in [Start, End).
func (r Range) Contains(offset ByteOffset) bool {
	return offset >= r.Start && offset < r.End
}
