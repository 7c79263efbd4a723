package cursor

// Lines is the line index needed to split selections.
// *buffer.Buffer satisfies it.
type Lines interface {
	LineAt(offset ByteOffset) uint32
	LineStartOffset(line uint32) ByteOffset
	LineEndOffset(line uint32) ByteOffset
}

// SplitIntoLines decomposes every selection that spans more than one line
// into one forward selection per line, preserving order. Cursors and
// single-line selections pass through unchanged.
//
// A piece never includes the line terminator. A selection that ends at
// column 0 of a line contributes nothing for that line, while blank lines
// inside a selection become empty (cursor) pieces.
func SplitIntoLines(sels []Selection, lines Lines) []Selection {
	result := make([]Selection, 0, len(sels))
	for _, sel := range sels {
		startLine := lines.LineAt(sel.Start())
		endLine := lines.LineAt(sel.End())
		if sel.IsEmpty() || startLine == endLine {
			result = append(result, sel)
			continue
		}

		for line := startLine; line <= endLine; line++ {
			lineStart := lines.LineStartOffset(line)
			if line == endLine && sel.End() == lineStart {
				break
			}
			start := max(sel.Start(), lineStart)
			end := min(sel.End(), lines.LineEndOffset(line))
			result = append(result, NewSelection(start, end))
		}
	}
	return result
}
