package scope

import (
	"github.com/dlclark/regexp2"

	"github.com/dshills/rx/internal/engine/buffer"
)

// Chunk delimiters. R Markdown and Quarto fences may sit inside block
// quotes and use backticks or tildes; only {r ...} chunks hold R code.
var (
	rmdOpen  = regexp2.MustCompile("^[ \\t>]*(`{3,}|~{3,})[ \\t]*\\{[rR](?=[ \\t,}]|$)", regexp2.None)
	rmdClose = regexp2.MustCompile("^[ \\t>]*(`{3,}|~{3,})[ \\t]*$", regexp2.None)

	sweaveOpen  = regexp2.MustCompile(`^[ \t]*<<.*>>=[ \t]*$`, regexp2.None)
	sweaveClose = regexp2.MustCompile(`^[ \t]*@`, regexp2.None)
)

// chunkSyntax describes how a literate document delimits R code.
type chunkSyntax struct {
	base     string
	embedded string
	open     *regexp2.Regexp
	close    *regexp2.Regexp
}

var (
	rmarkdownSyntax = chunkSyntax{ScopeRMarkdown, embeddedRMarkdown, rmdOpen, rmdClose}
	sweaveSyntax    = chunkSyntax{ScopeSweave, embeddedSweave, sweaveOpen, sweaveClose}
)

// NewRMarkdown classifies an R Markdown or Quarto document. Chunk bodies
// run from the line after the opening fence up to the start of the
// closing fence line, so a block selection ending at column 0 of the
// closing fence has its end outside R while its start is inside.
func NewRMarkdown(text string) *Document {
	return newLiterate(text, rmarkdownSyntax)
}

// NewSweave classifies a Sweave (.Rnw) document.
func NewSweave(text string) *Document {
	return newLiterate(text, sweaveSyntax)
}

func newLiterate(text string, syn chunkSyntax) *Document {
	buf := buffer.NewBufferFromString(text)
	text = buf.Text()
	d := &Document{base: syn.base}

	inChunk := false
	var bodyStart ByteOffset
	for line := uint32(0); line < buf.LineCount(); line++ {
		lineText := buf.LineText(line)
		if !inChunk {
			if matches(syn.open, lineText) {
				inChunk = true
				bodyStart = buf.LineStartOffset(line + 1)
				if line+1 >= buf.LineCount() {
					// Opening fence on the last line: empty body at EOF.
					bodyStart = buf.Len()
				}
			}
			continue
		}
		if matches(syn.close, lineText) {
			inChunk = false
			d.embed(bodyStart, buf.LineStartOffset(line), syn.embedded, text)
		}
	}
	if inChunk {
		// An unterminated chunk runs to the end of the document.
		d.embed(bodyStart, buf.Len(), syn.embedded, text)
	}
	return d
}

func matches(re *regexp2.Regexp, s string) bool {
	ok, err := re.MatchString(s)
	return err == nil && ok
}
