package scope

import (
	"strings"
	"testing"
)

const rmdDoc = "# Title\n" +
	"```{r setup, echo=FALSE}\n" +
	"a <- 1:10\n" +
	"plot(a) # hi\n" +
	"```\n" +
	"Some text.\n" +
	"```{python}\n" +
	"x = 1\n" +
	"```\n"

func offsetOf(t *testing.T, text, sub string) ByteOffset {
	t.Helper()
	i := strings.Index(text, sub)
	if i < 0 {
		t.Fatalf("%q not found", sub)
	}
	return ByteOffset(i)
}

func TestRMarkdownScopes(t *testing.T) {
	doc := NewRMarkdown(rmdDoc)
	m := MustMatcher(DefaultPattern)

	tests := []struct {
		name   string
		offset ByteOffset
		inR    bool
	}{
		{"heading", offsetOf(t, rmdDoc, "# Title"), false},
		{"opening fence", offsetOf(t, rmdDoc, "```{r"), false},
		{"first chunk line", offsetOf(t, rmdDoc, "a <- 1"), true},
		{"end of chunk line", offsetOf(t, rmdDoc, "# hi\n") + 4, true},
		{"closing fence", offsetOf(t, rmdDoc, "```\nSome"), false},
		{"prose", offsetOf(t, rmdDoc, "Some text"), false},
		{"python chunk", offsetOf(t, rmdDoc, "x = 1"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := doc.ScopeAt(tt.offset)
			if m.Matches(got) != tt.inR {
				t.Errorf("ScopeAt(%d) = %q, want in R = %v", tt.offset, got, tt.inR)
			}
		})
	}
}

func TestRMarkdownEmbeddedScopeName(t *testing.T) {
	doc := NewRMarkdown(rmdDoc)

	got := doc.ScopeAt(offsetOf(t, rmdDoc, "a <- 1"))
	want := ScopeRMarkdown + " " + embeddedRMarkdown
	if !strings.HasPrefix(got, want) {
		t.Errorf("ScopeAt() = %q, want prefix %q", got, want)
	}
	if doc.Base() != ScopeRMarkdown {
		t.Errorf("Base() = %q", doc.Base())
	}
}

func TestRMarkdownCommentToken(t *testing.T) {
	doc := NewRMarkdown(rmdDoc)

	got := doc.ScopeAt(offsetOf(t, rmdDoc, "# hi"))
	if !strings.HasSuffix(got, "comment.line.number-sign.r") {
		t.Errorf("comment should carry a comment scope, got %q", got)
	}
}

func TestRMarkdownUnterminatedChunk(t *testing.T) {
	text := "intro\n```{r}\nsummary(cars)\n"
	doc := NewRMarkdown(text)
	m := MustMatcher(DefaultPattern)

	if !m.Matches(doc.ScopeAt(offsetOf(t, text, "summary"))) {
		t.Error("unterminated chunk should still be R")
	}
}

func TestSweaveScopes(t *testing.T) {
	text := "\\section{Intro}\n<<fig=TRUE>>=\nplot(1)\n@\nmore \\LaTeX\n"
	doc := NewSweave(text)
	m := MustMatcher(DefaultPattern)

	if m.Matches(doc.ScopeAt(0)) {
		t.Error("LaTeX should not be R")
	}
	if !m.Matches(doc.ScopeAt(offsetOf(t, text, "plot(1)"))) {
		t.Error("chunk body should be R")
	}
	if m.Matches(doc.ScopeAt(offsetOf(t, text, "@\n"))) {
		t.Error("chunk terminator should not be R")
	}
}

func TestRSourceIsRThroughout(t *testing.T) {
	text := "x <- \"a string\" # note\n\ny <- 2\n"
	doc := NewRSource(text)
	m := MustMatcher(DefaultPattern)

	for offset := ByteOffset(0); offset <= ByteOffset(len(text)); offset++ {
		if !m.Matches(doc.ScopeAt(offset)) {
			t.Fatalf("offset %d = %q is not R", offset, doc.ScopeAt(offset))
		}
	}
}

func TestForFile(t *testing.T) {
	m := MustMatcher(DefaultPattern)

	tests := []struct {
		name string
		text string
		inR  bool
	}{
		{"analysis.R", "x <- 1", true},
		{"analysis.r", "x <- 1", true},
		{".Rprofile", "options(digits = 4)", true},
		{"report.Rmd", "```{r}\nx <- 1\n```\n", false}, // offset 0 is the fence
		{"report.qmd", "text", false},
		{"paper.Rnw", "text", false},
		{"script.py", "x = 1", false},
		{"Cargo.rs", "fn main() {}", false},
	}

	for _, tt := range tests {
		c := ForFile(tt.name, tt.text)
		if got := m.Matches(c.ScopeAt(0)); got != tt.inR {
			t.Errorf("ForFile(%q).ScopeAt(0) = %q, want in R = %v", tt.name, c.ScopeAt(0), tt.inR)
		}
	}
}

func TestStaticClassifier(t *testing.T) {
	c := Static("source.r")

	if c.ScopeAt(0) != "source.r" || c.ScopeAt(1000) != "source.r" {
		t.Error("static classifier should report its label everywhere")
	}
}
