package cursor

import (
	"fmt"

	"github.com/dshills/rx/internal/engine/buffer"
)

// ByteOffset is an alias for buffer.ByteOffset for convenience.
type ByteOffset = buffer.ByteOffset

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// Selection is a region of the buffer: a span between Anchor, where the
// selection started, and Head, where the cursor sits. When Anchor == Head
// the region is a bare cursor. Start is the lower endpoint regardless of
// direction, so scope checks and line lookups never depend on which way
// the user dragged.
type Selection struct {
	Anchor ByteOffset
	Head   ByteOffset
}

// NewSelection returns the region from anchor to head.
func NewSelection(anchor, head ByteOffset) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// NewCursorSelection returns a bare cursor at offset.
func NewCursorSelection(offset ByteOffset) Selection {
	return Selection{Anchor: offset, Head: offset}
}

// IsEmpty reports whether s is a bare cursor.
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Head
}

// Start returns the lower endpoint.
func (s Selection) Start() ByteOffset {
	return min(s.Anchor, s.Head)
}

// End returns the upper endpoint.
func (s Selection) End() ByteOffset {
	return max(s.Anchor, s.Head)
}

// Range returns [Start, End).
func (s Selection) Range() Range {
	return buffer.NewRange(s.Start(), s.End())
}

// Merge returns the forward region spanning both s and other.
func (s Selection) Merge(other Selection) Selection {
	return Selection{
		Anchor: min(s.Start(), other.Start()),
		Head:   max(s.End(), other.End()),
	}
}

// SameRange reports whether s and other cover the same span, ignoring
// direction.
func (s Selection) SameRange(other Selection) bool {
	return s.Range() == other.Range()
}

func (s Selection) String() string {
	switch {
	case s.IsEmpty():
		return fmt.Sprintf("Cursor(%d)", s.Head)
	case s.Head < s.Anchor:
		return fmt.Sprintf("Selection(%d←%d)", s.Anchor, s.Head)
	default:
		return fmt.Sprintf("Selection(%d→%d)", s.Anchor, s.Head)
	}
}
