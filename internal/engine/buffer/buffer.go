package buffer

import (
	"io"
	"sort"
	"strings"
)

// Buffer holds the text of a document together with the byte offset of
// every line start. The text is stored with LF line endings.
type Buffer struct {
	text       string
	lineStarts []ByteOffset
}

// NewBuffer creates a new empty buffer.
func NewBuffer() *Buffer {
	return NewBufferFromString("")
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string) *Buffer {
	s = normalizeLineEndings(s)
	b := &Buffer{
		text:       s,
		lineStarts: []ByteOffset{0},
	}
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			b.lineStarts = append(b.lineStarts, ByteOffset(i+1))
		}
	}
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader) (*Buffer, error) {
	// Read all content first to handle line ending normalization correctly
	// (CRLF sequences may be split across read boundaries)
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data)), nil
}

// normalizeLineEndings converts CRLF and CR line endings to LF.
func normalizeLineEndings(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Read Operations

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string {
	return b.text
}

// TextRange returns text in the given byte range.
// The range is clamped to the buffer.
func (b *Buffer) TextRange(start, end ByteOffset) string {
	start = b.clamp(start)
	end = b.clamp(end)
	if end < start {
		start, end = end, start
	}
	return b.text[start:end]
}

// Len returns the total byte length of the buffer.
func (b *Buffer) Len() ByteOffset {
	return ByteOffset(len(b.text))
}

// IsEmpty returns true if the buffer has no content.
func (b *Buffer) IsEmpty() bool {
	return len(b.text) == 0
}

// LineCount returns the number of lines.
// A trailing newline starts a final, empty line.
func (b *Buffer) LineCount() uint32 {
	return uint32(len(b.lineStarts))
}

// LineText returns the text of a specific line (without newline).
func (b *Buffer) LineText(line uint32) string {
	return b.text[b.LineStartOffset(line):b.LineEndOffset(line)]
}

// LineLen returns the length of a specific line in bytes (without newline).
func (b *Buffer) LineLen(line uint32) int {
	return int(b.LineEndOffset(line) - b.LineStartOffset(line))
}

// LineStartOffset returns the byte offset of the start of a line.
// Lines past the end resolve to the last line.
func (b *Buffer) LineStartOffset(line uint32) ByteOffset {
	if int(line) >= len(b.lineStarts) {
		line = uint32(len(b.lineStarts) - 1)
	}
	return b.lineStarts[line]
}

// LineEndOffset returns the byte offset of the end of a line (before newline).
func (b *Buffer) LineEndOffset(line uint32) ByteOffset {
	if int(line)+1 >= len(b.lineStarts) {
		return b.Len()
	}
	return b.lineStarts[line+1] - 1
}

// LineRange returns the range of the line containing offset, without
// its newline.
func (b *Buffer) LineRange(offset ByteOffset) Range {
	line := b.LineAt(offset)
	return Range{Start: b.LineStartOffset(line), End: b.LineEndOffset(line)}
}

// LineAt returns the 0-indexed line containing offset.
func (b *Buffer) LineAt(offset ByteOffset) uint32 {
	offset = b.clamp(offset)
	// Index of the first line start greater than offset, minus one.
	i := sort.Search(len(b.lineStarts), func(i int) bool {
		return b.lineStarts[i] > offset
	})
	return uint32(i - 1)
}

// Coordinate Conversion

// OffsetToPoint converts a byte offset to line/column.
func (b *Buffer) OffsetToPoint(offset ByteOffset) Point {
	offset = b.clamp(offset)
	line := b.LineAt(offset)
	return Point{Line: line, Column: uint32(offset - b.lineStarts[line])}
}

// PointToOffset converts line/column to byte offset.
// Lines past the end resolve to the end of the buffer; columns past the
// end of the line resolve to the end of the line.
func (b *Buffer) PointToOffset(point Point) ByteOffset {
	if int(point.Line) >= len(b.lineStarts) {
		return b.Len()
	}
	start := b.lineStarts[point.Line]
	end := b.LineEndOffset(point.Line)
	offset := start + ByteOffset(point.Column)
	if offset > end {
		offset = end
	}
	return offset
}

func (b *Buffer) clamp(offset ByteOffset) ByteOffset {
	if offset < 0 {
		return 0
	}
	if offset > b.Len() {
		return b.Len()
	}
	return offset
}
