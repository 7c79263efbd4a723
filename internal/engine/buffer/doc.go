// Package buffer provides a read-only text buffer with a line index.
//
// The buffer package provides:
//
//   - Line lookup by index (LineText, LineLen, LineStartOffset)
//   - Coordinate conversion between byte offsets and line/column positions
//   - Line ending normalization (CRLF and CR are stored as LF)
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("a <- 1\nplot(a)\n")
//
//	buf.LineText(1)                          // "plot(a)"
//	buf.OffsetToPoint(9)                     // (1:2)
//	buf.PointToOffset(buffer.Point{Line: 1}) // 7
//
// A Buffer is immutable once built and safe for concurrent use.
package buffer
