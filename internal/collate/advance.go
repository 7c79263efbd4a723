package collate

import (
	"unicode/utf8"

	"github.com/dshills/rx/internal/engine/buffer"
	"github.com/dshills/rx/internal/engine/cursor"
)

// Lines is the line geometry AdvanceCursor needs.
type Lines interface {
	OffsetToPoint(offset buffer.ByteOffset) buffer.Point
	LineStartOffset(line uint32) buffer.ByteOffset
	LineText(line uint32) string
	LineCount() uint32
	Len() buffer.ByteOffset
}

// AdvanceCursor returns the cursor one line below the start of r.
//
// The column is kept when the next line is long enough and clamped to
// that line's length otherwise. Columns count characters, not bytes. On
// the last line the cursor moves to the end of the buffer.
func AdvanceCursor(r Region, lines Lines) Region {
	p := lines.OffsetToPoint(r.Start())
	next := p.Line + 1
	if next >= lines.LineCount() {
		return cursor.NewCursorSelection(lines.Len())
	}

	cur := lines.LineText(p.Line)
	col := utf8.RuneCountInString(cur[:min(int(p.Column), len(cur))])

	below := lines.LineText(next)
	return cursor.NewCursorSelection(lines.LineStartOffset(next) + runeOffset(below, col))
}

// runeOffset returns the byte offset of the col'th character of s, or
// len(s) when s is shorter.
func runeOffset(s string, col int) buffer.ByteOffset {
	for i := range s {
		if col == 0 {
			return buffer.ByteOffset(i)
		}
		col--
	}
	return buffer.ByteOffset(len(s))
}
