package scope

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// ForFile returns a classifier for the named file's content. The name is
// only used to pick the syntax; it need not exist on disk.
func ForFile(name, text string) Classifier {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".r", ".rprofile":
		return NewRSource(text)
	case ".rmd", ".qmd", ".rmarkdown":
		return NewRMarkdown(text)
	case ".rnw", ".snw":
		return NewSweave(text)
	}
	return Static(fallbackScope(name))
}

// fallbackScope names the base scope of a non-R file after its chroma
// lexer, e.g. "source.python".
func fallbackScope(name string) string {
	lexer := lexers.Match(filepath.Base(name))
	if lexer == nil {
		return ScopePlain
	}
	cfg := lexer.Config()
	id := cfg.Name
	if len(cfg.Aliases) > 0 {
		id = cfg.Aliases[0]
	}
	id = strings.ToLower(strings.ReplaceAll(id, " ", "-"))
	return "source." + id
}
