package scope

import "github.com/dshills/rx/internal/engine/buffer"

// ByteOffset is an alias for buffer.ByteOffset for convenience.
type ByteOffset = buffer.ByteOffset

// Classifier returns the scope label of a buffer position.
type Classifier interface {
	ScopeAt(offset ByteOffset) string
}

// Matcher decides whether a scope label is accepted.
type Matcher interface {
	Matches(scope string) bool
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(offset ByteOffset) string

// ScopeAt calls f(offset).
func (f ClassifierFunc) ScopeAt(offset ByteOffset) string {
	return f(offset)
}

// Static returns a classifier that reports the same label everywhere.
func Static(label string) Classifier {
	return ClassifierFunc(func(ByteOffset) string { return label })
}

// Well known scope names.
const (
	ScopeR         = "source.r"
	ScopeRMarkdown = "text.html.markdown.rmarkdown"
	ScopeSweave    = "text.tex.latex.rsweave"
	ScopePlain     = "text.plain"

	embeddedRMarkdown = "source.r.embedded.rmarkdown"
	embeddedSweave    = "source.r.embedded.rsweave"
)
