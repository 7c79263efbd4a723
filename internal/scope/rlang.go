package scope

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// rLexer is chroma's S/R lexer.
var rLexer = func() chroma.Lexer {
	l := lexers.Get("r")
	if l == nil {
		return nil
	}
	return chroma.Coalesce(l)
}()

// tokenScope maps a chroma token type to an R sub-scope, or "" when the
// token needs no scope of its own.
func tokenScope(tt chroma.TokenType) string {
	switch {
	case tt.InCategory(chroma.Comment):
		return "comment.line.number-sign.r"
	case tt.InSubCategory(chroma.LiteralString):
		return "string.quoted.r"
	case tt.InSubCategory(chroma.LiteralNumber):
		return "constant.numeric.r"
	case tt.InCategory(chroma.Keyword):
		return "keyword.control.r"
	}
	return ""
}

// rTokenSpans tokenizes R code and returns the scoped tokens, shifted by
// base. Tokenizer failures yield no spans; the code is still R.
func rTokenSpans(code string, base ByteOffset) []span {
	if rLexer == nil || code == "" {
		return nil
	}
	it, err := rLexer.Tokenise(nil, code)
	if err != nil {
		return nil
	}

	var spans []span
	pos := base
	limit := base + ByteOffset(len(code))
	for tok := it(); tok != chroma.EOF; tok = it() {
		end := min(pos+ByteOffset(len(tok.Value)), limit)
		if sc := tokenScope(tok.Type); sc != "" && end > pos {
			spans = append(spans, span{pos, end, sc})
		}
		pos = end
		if pos >= limit {
			break
		}
	}
	return spans
}

// NewRSource classifies a plain R script: everything is source.r, with
// comment, string, number and keyword tokens refined.
func NewRSource(text string) *Document {
	d := &Document{base: ScopeR}
	for _, tok := range rTokenSpans(text, 0) {
		d.spans = append(d.spans, span{tok.start, tok.end, join(ScopeR, tok.scope)})
	}
	return d
}
