package cursor

import (
	"cmp"
	"slices"
)

// CursorSet holds the regions of one buffer, sorted by Start with
// overlapping or touching regions merged.
type CursorSet struct {
	sels []Selection
}

// NewCursorSet returns a set holding only initial.
func NewCursorSet(initial Selection) *CursorSet {
	return &CursorSet{sels: []Selection{initial}}
}

// NewCursorSetFromSlice returns a normalized set of selections. An empty
// slice yields a single cursor at offset 0.
func NewCursorSetFromSlice(selections []Selection) *CursorSet {
	cs := &CursorSet{}
	cs.SetAll(selections)
	return cs
}

// Primary returns the topmost region, or the zero Selection when the set
// is empty.
func (cs *CursorSet) Primary() Selection {
	if len(cs.sels) == 0 {
		return Selection{}
	}
	return cs.sels[0]
}

// All returns a copy of the regions in order.
func (cs *CursorSet) All() []Selection {
	return slices.Clone(cs.sels)
}

// Count returns the number of regions.
func (cs *CursorSet) Count() int {
	return len(cs.sels)
}

// Add inserts sel, merging it with regions it overlaps or touches.
func (cs *CursorSet) Add(sel Selection) {
	cs.sels = append(cs.sels, sel)
	cs.normalize()
}

// Set replaces the set with sel.
func (cs *CursorSet) Set(sel Selection) {
	cs.sels = []Selection{sel}
}

// SetAll replaces the set with sels. An empty slice yields a single
// cursor at offset 0.
func (cs *CursorSet) SetAll(sels []Selection) {
	if len(sels) == 0 {
		cs.sels = []Selection{NewCursorSelection(0)}
		return
	}
	cs.sels = slices.Clone(sels)
	cs.normalize()
}

// Subtract removes every region covering the same span as sel. It may
// leave the set empty; callers add a replacement.
func (cs *CursorSet) Subtract(sel Selection) {
	cs.sels = slices.DeleteFunc(cs.sels, sel.SameRange)
}

func (cs *CursorSet) normalize() {
	if len(cs.sels) <= 1 {
		return
	}

	// Equal starts put the longer region first so it absorbs the shorter.
	slices.SortStableFunc(cs.sels, func(a, b Selection) int {
		if c := cmp.Compare(a.Start(), b.Start()); c != 0 {
			return c
		}
		return cmp.Compare(b.End(), a.End())
	})

	merged := cs.sels[:1]
	for _, sel := range cs.sels[1:] {
		last := &merged[len(merged)-1]
		switch {
		case sel.Start() > last.End():
			merged = append(merged, sel)
		case sel.End() > last.End():
			*last = last.Merge(sel)
		}
		// A contained region is dropped and the outer one keeps its
		// direction.
	}
	cs.sels = merged
}
