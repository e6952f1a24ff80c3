// Package preview implements the state machinery behind the filter result
// preview: selection sets, virtualized list windows, block navigation and
// cross-pane synchronization. It is UI-framework free; the tui package
// wires it to bubbletea.
package preview

// SelectionSet tracks a set of selected session identifiers for the
// multi-select picker. The set is the source of truth; the ordered view
// handed to external consumers is regenerated on every mutation and never
// mutated in place.
type SelectionSet struct {
	members map[int64]struct{}
	order   []int64
}

// NewSelectionSet creates a selection set seeded with the given ids.
// Duplicates in the seed are collapsed.
func NewSelectionSet(ids ...int64) *SelectionSet {
	s := &SelectionSet{members: make(map[int64]struct{}, len(ids))}
	for _, id := range ids {
		s.add(id)
	}
	return s
}

func (s *SelectionSet) add(id int64) {
	if _, ok := s.members[id]; ok {
		return
	}
	s.members[id] = struct{}{}
	s.order = append(s.order, id)
}

func (s *SelectionSet) remove(id int64) {
	if _, ok := s.members[id]; !ok {
		return
	}
	delete(s.members, id)
	kept := s.order[:0]
	for _, v := range s.order {
		if v != id {
			kept = append(kept, v)
		}
	}
	s.order = kept
}

// IsSelected reports membership in O(1).
func (s *SelectionSet) IsSelected(id int64) bool {
	_, ok := s.members[id]
	return ok
}

// Toggle flips membership of id and returns the new ordered view.
func (s *SelectionSet) Toggle(id int64) []int64 {
	if s.IsSelected(id) {
		s.remove(id)
	} else {
		s.add(id)
	}
	return s.Ordered()
}

// SelectGroup adds every id in the group. The mutation is atomic from the
// caller's perspective: the ordered view is regenerated once, afterwards.
func (s *SelectionSet) SelectGroup(ids []int64) []int64 {
	for _, id := range ids {
		s.add(id)
	}
	return s.Ordered()
}

// DeselectGroup removes every id in the group.
func (s *SelectionSet) DeselectGroup(ids []int64) []int64 {
	for _, id := range ids {
		s.remove(id)
	}
	return s.Ordered()
}

// IsGroupFullySelected reports whether every id in the group is selected.
// An empty group is never fully selected.
func (s *SelectionSet) IsGroupFullySelected(ids []int64) bool {
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if !s.IsSelected(id) {
			return false
		}
	}
	return true
}

// Ordered returns a fresh copy of the externally visible ordered view.
func (s *SelectionSet) Ordered() []int64 {
	out := make([]int64, len(s.order))
	copy(out, s.order)
	return out
}

// Reset replaces the whole selection, the only point where the external
// list flows back into the set.
func (s *SelectionSet) Reset(ids []int64) {
	s.members = make(map[int64]struct{}, len(ids))
	s.order = s.order[:0]
	for _, id := range ids {
		s.add(id)
	}
}

// Len returns the number of selected ids.
func (s *SelectionSet) Len() int {
	return len(s.members)
}
