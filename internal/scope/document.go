package scope

import (
	"sort"
	"strings"
)

// span labels the half-open byte range [start, end).
type span struct {
	start, end ByteOffset
	scope      string
}

// Document is a Classifier over one buffer snapshot. Positions covered
// by no span get the base scope.
type Document struct {
	base  string
	spans []span // sorted, non-overlapping
}

// ScopeAt returns the label of the innermost span containing offset.
func (d *Document) ScopeAt(offset ByteOffset) string {
	i := sort.Search(len(d.spans), func(i int) bool {
		return d.spans[i].end > offset
	})
	if i < len(d.spans) && d.spans[i].start <= offset {
		return d.spans[i].scope
	}
	return d.base
}

// Base returns the scope of positions outside every span.
func (d *Document) Base() string {
	return d.base
}

// embed covers [start, end) with the embedded scope, refining it with
// R token scopes.
func (d *Document) embed(start, end ByteOffset, embedded, text string) {
	outer := join(d.base, embedded)
	pos := start
	for _, tok := range rTokenSpans(text[start:end], start) {
		if tok.start > pos {
			d.spans = append(d.spans, span{pos, tok.start, outer})
		}
		d.spans = append(d.spans, span{tok.start, tok.end, join(outer, tok.scope)})
		pos = tok.end
	}
	if pos < end {
		d.spans = append(d.spans, span{pos, end, outer})
	}
}

func join(names ...string) string {
	return strings.Join(names, " ")
}
