package collate

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/rx/internal/engine/buffer"
	"github.com/dshills/rx/internal/engine/cursor"
	"github.com/dshills/rx/internal/scope"
)

var rMatcher = scope.MustMatcher(scope.DefaultPattern)

// "x <- 1" [0,6) / "y <- 2" [7,13) / ""
const twoLines = "x <- 1\ny <- 2\n"

func TestCollate(t *testing.T) {
	buf := buffer.NewBufferFromString(twoLines)
	inR := scope.Static(scope.ScopeR)
	// "<- 1" on the first line is prose; everything else is R.
	gap := scope.ClassifierFunc(func(off scope.ByteOffset) string {
		if off >= 2 && off < 7 {
			return scope.ScopePlain
		}
		return scope.ScopeR
	})

	tests := []struct {
		name        string
		classifier  scope.Classifier
		regions     []Region
		wantLines   []string
		wantAdvance []Region
	}{
		{
			name:        "cursor takes whole line",
			regions:     []Region{cursor.NewCursorSelection(3)},
			wantLines:   []string{"x <- 1"},
			wantAdvance: []Region{cursor.NewCursorSelection(3)},
		},
		{
			name:      "selection takes exact text",
			regions:   []Region{cursor.NewSelection(0, 1)},
			wantLines: []string{"x"},
		},
		{
			name:      "backward selection takes exact text",
			regions:   []Region{cursor.NewSelection(13, 7)},
			wantLines: []string{"y <- 2"},
		},
		{
			name:        "order is preserved",
			regions:     []Region{cursor.NewCursorSelection(0), cursor.NewCursorSelection(7)},
			wantLines:   []string{"x <- 1", "y <- 2"},
			wantAdvance: []Region{cursor.NewCursorSelection(0), cursor.NewCursorSelection(7)},
		},
		{
			name:       "out of scope region between two kept ones",
			classifier: gap,
			regions: []Region{
				cursor.NewSelection(0, 1),
				cursor.NewSelection(2, 4),
				cursor.NewSelection(7, 8),
			},
			wantLines: []string{"x", "y"},
		},
		{
			name:      "only one trailing terminator is stripped",
			regions:   []Region{cursor.NewSelection(0, 7)},
			wantLines: []string{"x <- 1", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.classifier
			if c == nil {
				c = inR
			}
			res, err := Collate(tt.regions, c, rMatcher, TextOf(buf))
			if err != nil {
				t.Fatalf("Collate: %v", err)
			}
			if diff := cmp.Diff(tt.wantLines, res.Lines); diff != "" {
				t.Errorf("Lines mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantAdvance, res.Advance); diff != "" {
				t.Errorf("Advance mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCollateNoSourceScope(t *testing.T) {
	buf := buffer.NewBufferFromString(twoLines)
	regions := []Region{cursor.NewCursorSelection(0), cursor.NewSelection(7, 9)}

	res, err := Collate(regions, scope.Static(scope.ScopePlain), rMatcher, TextOf(buf))
	if !errors.Is(err, ErrNoSourceScope) {
		t.Fatalf("err = %v, want ErrNoSourceScope", err)
	}
	if len(res.Lines) != 0 {
		t.Errorf("Lines = %q, want none", res.Lines)
	}
	if diff := cmp.Diff([]Region{regions[1]}, res.Advance); diff != "" {
		t.Errorf("Advance mismatch (-want +got):\n%s", diff)
	}
}

func TestCollateNoRegions(t *testing.T) {
	res, err := Collate(nil, scope.Static(scope.ScopeR), rMatcher, TextOf(buffer.NewBuffer()))
	if !errors.Is(err, ErrNoSourceScope) {
		t.Fatalf("err = %v, want ErrNoSourceScope", err)
	}
	if len(res.Advance) != 0 {
		t.Errorf("Advance = %v, want none", res.Advance)
	}
}

func TestCollateEmptySelection(t *testing.T) {
	buf := buffer.NewBufferFromString("\n\nx\n")
	regions := []Region{cursor.NewCursorSelection(0), cursor.NewCursorSelection(1)}

	res, err := Collate(regions, scope.Static(scope.ScopeR), rMatcher, TextOf(buf))
	if !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("err = %v, want ErrEmptySelection", err)
	}
	if len(res.Lines) != 0 {
		t.Errorf("Lines = %q, want none", res.Lines)
	}
	if diff := cmp.Diff(regions, res.Advance); diff != "" {
		t.Errorf("Advance mismatch (-want +got):\n%s", diff)
	}
}

func TestCollateSkipsRegionsOutOfScope(t *testing.T) {
	buf := buffer.NewBufferFromString(twoLines)
	firstLineOnly := scope.ClassifierFunc(func(off scope.ByteOffset) string {
		if off < 7 {
			return scope.ScopeR
		}
		return scope.ScopePlain
	})

	regions := []Region{cursor.NewCursorSelection(2), cursor.NewCursorSelection(9)}
	res, err := Collate(regions, firstLineOnly, rMatcher, TextOf(buf))
	if err != nil {
		t.Fatalf("Collate: %v", err)
	}
	if diff := cmp.Diff([]string{"x <- 1"}, res.Lines); diff != "" {
		t.Errorf("Lines mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Region{regions[0]}, res.Advance); diff != "" {
		t.Errorf("Advance mismatch (-want +got):\n%s", diff)
	}
}

func TestIsSourceScopeUsesStart(t *testing.T) {
	firstLineOnly := scope.ClassifierFunc(func(off scope.ByteOffset) string {
		if off < 7 {
			return scope.ScopeR
		}
		return scope.ScopePlain
	})

	tests := []struct {
		name   string
		region Region
		want   bool
	}{
		{"begins in scope", cursor.NewSelection(3, 10), true},
		{"backward begins in scope", cursor.NewSelection(10, 3), true},
		{"begins out of scope", cursor.NewSelection(8, 12), false},
		{"cursor out of scope", cursor.NewCursorSelection(7), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSourceScope(tt.region, firstLineOnly, rMatcher); got != tt.want {
				t.Errorf("IsSourceScope(%v) = %v, want %v", tt.region, got, tt.want)
			}
		})
	}
}

func TestCollateRMarkdownBlock(t *testing.T) {
	// "Intro" [0,5) / "```{r}" [6,12) / "x <- 1" [13,19) / "y <- 2" [20,26)
	// "```" [27,30) / "Outro" [31,36) / ""
	text := "Intro\n```{r}\nx <- 1\ny <- 2\n```\nOutro\n"
	buf := buffer.NewBufferFromString(text)
	doc := scope.NewRMarkdown(text)

	state := cursor.NewSelectionState([]cursor.Selection{cursor.NewSelection(0, buf.Len())})
	regions := state.SplitByLine(buf)

	res, err := Collate(regions, doc, rMatcher, TextOf(buf))
	if err != nil {
		t.Fatalf("Collate: %v", err)
	}
	if diff := cmp.Diff([]string{"x <- 1", "y <- 2"}, res.Lines); diff != "" {
		t.Errorf("Lines mismatch (-want +got):\n%s", diff)
	}
	if len(res.Advance) != 0 {
		t.Errorf("Advance = %v, want none", res.Advance)
	}
}
