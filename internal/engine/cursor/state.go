package cursor

// SelectionState is the selection of one command invocation: the regions
// being worked on plus what is needed to put the original selection back.
// It is built fresh from the editor for every invocation and never kept.
type SelectionState struct {
	// Original is the first region as the editor reported it.
	Original Selection

	// Single is true when exactly one region existed before splitting.
	Single bool

	set *CursorSet
}

// NewSelectionState captures the editor selection before any change.
func NewSelectionState(sels []Selection) *SelectionState {
	set := NewCursorSetFromSlice(sels)
	return &SelectionState{
		Original: set.Primary(),
		Single:   set.Count() == 1,
		set:      set,
	}
}

// OriginalNonEmpty reports whether the single original region was a
// highlighted block rather than a bare cursor.
func (s *SelectionState) OriginalNonEmpty() bool {
	return !s.Original.IsEmpty()
}

// SplitByLine replaces the current regions with one region per line and
// returns them in order.
func (s *SelectionState) SplitByLine(lines Lines) []Selection {
	s.set.SetAll(SplitIntoLines(s.set.All(), lines))
	return s.Regions()
}

// Regions returns the current regions in top-to-bottom order.
func (s *SelectionState) Regions() []Selection {
	return s.set.All()
}

// Advance replaces region old with the cursor next.
func (s *SelectionState) Advance(old, next Selection) {
	s.set.Subtract(old)
	s.set.Add(next)
}

// Restore puts back the original selection when exactly one region
// existed and it was non-empty. Multi-region selections are left as they
// are. It reports whether the selection was restored.
func (s *SelectionState) Restore() bool {
	if !s.Single || !s.OriginalNonEmpty() {
		return false
	}
	s.set.Set(s.Original)
	return true
}

// Selections returns what the editor should show after the command.
func (s *SelectionState) Selections() []Selection {
	return s.set.All()
}
