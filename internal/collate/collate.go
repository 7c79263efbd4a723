package collate

import (
	"strings"

	"github.com/dshills/rx/internal/engine/buffer"
	"github.com/dshills/rx/internal/engine/cursor"
	"github.com/dshills/rx/internal/scope"
)

// Region is a span of the buffer; see cursor.Selection.
type Region = cursor.Selection

// Text gives access to the text a region covers.
type Text interface {
	// LineOf returns the full line containing the start of r, without
	// its terminator.
	LineOf(r Region) string
	// Substr returns exactly the text spanned by r.
	Substr(r Region) string
}

// Result is the outcome of a collation.
type Result struct {
	// Lines is the code to send, top to bottom. Empty unless Collate
	// returned a nil error.
	Lines []string

	// Advance lists the bare-cursor regions whose line was consumed and
	// whose cursor must move to the next line, in order.
	Advance []Region
}

// IsSourceScope reports whether r belongs to the source language. The
// scope is taken at r.Start(), never at the trailing edge: a block that
// ends exactly at a chunk delimiter has its end classified outside the
// chunk.
func IsSourceScope(r Region, c scope.Classifier, m scope.Matcher) bool {
	return m.Matches(c.ScopeAt(r.Start()))
}

// Collate filters regions down to source scope and joins their text into
// lines.
//
// When no region is in scope it returns ErrNoSourceScope and a Result
// whose Advance holds the final region. When the collected text holds
// nothing but line terminators it returns ErrEmptySelection; Advance is
// still filled in. The Result is valid in both cases.
func Collate(regions []Region, c scope.Classifier, m scope.Matcher, text Text) (Result, error) {
	var res Result

	inScope := make([]bool, len(regions))
	found := false
	for i, r := range regions {
		inScope[i] = IsSourceScope(r, c, m)
		found = found || inScope[i]
	}
	if !found {
		if len(regions) > 0 {
			res.Advance = []Region{regions[len(regions)-1]}
		}
		return res, ErrNoSourceScope
	}

	var sb strings.Builder
	for i, r := range regions {
		if !inScope[i] {
			continue
		}
		if r.IsEmpty() {
			sb.WriteString(text.LineOf(r))
			res.Advance = append(res.Advance, r)
		} else {
			sb.WriteString(text.Substr(r))
		}
		sb.WriteByte('\n')
	}

	// Exactly one terminator, the one written after the last region.
	code := strings.TrimSuffix(sb.String(), "\n")
	if strings.Trim(code, "\n") == "" {
		return res, ErrEmptySelection
	}

	res.Lines = strings.Split(code, "\n")
	return res, nil
}

// BufferText implements Text over a buffer.
type BufferText struct {
	Buf *buffer.Buffer
}

// TextOf returns the Text of buf.
func TextOf(buf *buffer.Buffer) BufferText {
	return BufferText{Buf: buf}
}

// LineOf implements Text.
func (t BufferText) LineOf(r Region) string {
	return t.Buf.LineText(t.Buf.LineAt(r.Start()))
}

// Substr implements Text.
func (t BufferText) Substr(r Region) string {
	return t.Buf.TextRange(r.Start(), r.End())
}
