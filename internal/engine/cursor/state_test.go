package cursor

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/rx/internal/engine/buffer"
)

func TestSelectionStateSingleBlockIsRestored(t *testing.T) {
	buf := buffer.NewBufferFromString(splitText)
	original := NewSelection(20, 2)

	state := NewSelectionState([]Selection{original})
	if !state.Single || !state.OriginalNonEmpty() {
		t.Fatal("expected a single non-empty original")
	}

	regions := state.SplitByLine(buf)
	if len(regions) != 4 {
		t.Fatalf("expected 4 regions after split, got %d", len(regions))
	}

	if !state.Restore() {
		t.Fatal("single block selection should be restored")
	}
	if diff := cmp.Diff([]Selection{original}, state.Selections()); diff != "" {
		t.Errorf("restored selection mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectionStateMultiRegionIsNotRestored(t *testing.T) {
	buf := buffer.NewBufferFromString(splitText)
	state := NewSelectionState([]Selection{
		NewSelection(0, 9),
		NewSelection(15, 19),
	})
	if state.Single {
		t.Fatal("two regions are not a single selection")
	}

	regions := state.SplitByLine(buf)

	if state.Restore() {
		t.Error("multi-region selections must not be restored")
	}
	if diff := cmp.Diff(regions, state.Selections()); diff != "" {
		t.Errorf("selection should stay split (-want +got):\n%s", diff)
	}
}

func TestSelectionStateCursorIsNotRestored(t *testing.T) {
	state := NewSelectionState([]Selection{NewCursorSelection(3)})

	if state.Restore() {
		t.Error("a bare cursor is never restored")
	}
}

func TestSelectionStateAdvance(t *testing.T) {
	state := NewSelectionState([]Selection{
		NewCursorSelection(2),
		NewCursorSelection(17),
	})

	state.Advance(NewCursorSelection(2), NewCursorSelection(9))

	want := []Selection{NewCursorSelection(9), NewCursorSelection(17)}
	if diff := cmp.Diff(want, state.Selections()); diff != "" {
		t.Errorf("Selections() mismatch (-want +got):\n%s", diff)
	}
}
