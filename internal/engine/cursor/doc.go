// Package cursor provides selections and multi-cursor state for the
// commands that act on an editor buffer.
//
// The cursor package handles:
//
//   - Regions with an anchor/head model via the Selection type
//   - Multi-cursor sets kept sorted and non-overlapping via CursorSet
//   - Splitting block selections into one region per line
//   - SelectionState, the per-invocation snapshot that knows whether the
//     original selection must be put back afterwards
//
// Selection Model:
//
// Selections use an anchor/head model where:
//   - Anchor: The position where the selection started
//   - Head: The current cursor position (where typing would occur)
//
// When Anchor == Head, the selection represents just a cursor with no
// selected text. Start always returns the lower endpoint, whichever way
// the selection extends.
//
// Basic usage:
//
//	state := cursor.NewSelectionState([]cursor.Selection{
//	    cursor.NewSelection(0, 42),
//	})
//	regions := state.SplitByLine(buf) // one region per line
//	// ... act on regions ...
//	state.Restore()                   // single block selections come back
//
// Thread Safety:
//
// Selection is an immutable value type and safe for concurrent use.
// CursorSet and SelectionState are not thread-safe.
package cursor
