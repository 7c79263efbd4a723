// Package scope classifies buffer positions with dotted scope labels and
// matches those labels against a configured pattern.
//
// A scope label is a space separated list of dotted names, outermost
// first, in the style of TextMate grammars:
//
//	source.r
//	text.html.markdown.rmarkdown source.r.embedded.rmarkdown
//	source.r comment.line.number-sign.r
//
// Classifiers are built once per buffer. ForFile picks one by file name:
// plain R sources, R Markdown (and Quarto) documents with fenced
// ```{r} chunks, Sweave documents with <<>>= chunks, and a chroma lexer
// based fallback for everything else.
//
// The Matcher is a Python compatible regular expression evaluated as a
// search, so the default pattern `source\.r\b` accepts any label that
// contains an R source scope.
package scope
