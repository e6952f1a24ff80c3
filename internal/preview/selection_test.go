package preview

import (
	"testing"
)

func TestSelectionSetToggle(t *testing.T) {
	s := NewSelectionSet()

	s.Toggle(3)
	if !s.IsSelected(3) {
		t.Fatal("expected 3 selected after toggle")
	}
	s.Toggle(3)
	if s.IsSelected(3) {
		t.Fatal("expected 3 deselected after second toggle")
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty set, got %d members", s.Len())
	}
}

func TestSelectionSetGroups(t *testing.T) {
	group := []int64{1, 2, 3}

	t.Run("select then fully selected", func(t *testing.T) {
		s := NewSelectionSet()
		s.SelectGroup(group)
		if !s.IsGroupFullySelected(group) {
			t.Fatal("group should be fully selected after SelectGroup")
		}
	})

	t.Run("deselect clears", func(t *testing.T) {
		s := NewSelectionSet()
		s.SelectGroup(group)
		s.DeselectGroup(group)
		if s.IsGroupFullySelected(group) {
			t.Fatal("group should not be fully selected after DeselectGroup")
		}
		if s.Len() != 0 {
			t.Fatalf("expected empty set, got %d members", s.Len())
		}
	})

	t.Run("select is idempotent", func(t *testing.T) {
		s := NewSelectionSet()
		first := s.SelectGroup(group)
		second := s.SelectGroup(group)
		if len(first) != len(second) {
			t.Fatalf("idempotence violated: %d then %d members", len(first), len(second))
		}
		if s.Len() != len(group) {
			t.Fatalf("expected %d members, got %d", len(group), s.Len())
		}
	})

	t.Run("partial selection is not fully selected", func(t *testing.T) {
		s := NewSelectionSet(1, 2)
		if s.IsGroupFullySelected(group) {
			t.Fatal("missing member should fail the group check")
		}
	})

	t.Run("empty group is vacuously false", func(t *testing.T) {
		s := NewSelectionSet(1, 2, 3)
		if s.IsGroupFullySelected(nil) {
			t.Fatal("empty group must never report fully selected")
		}
	})
}

func TestSelectionSetOrderedViewIsACopy(t *testing.T) {
	s := NewSelectionSet(5, 7)
	view := s.Ordered()
	view[0] = 99
	if s.IsSelected(99) {
		t.Fatal("mutating the external view must not affect the set")
	}
	if got := s.Ordered(); got[0] != 5 {
		t.Fatalf("expected regenerated view to start with 5, got %d", got[0])
	}
}

func TestSelectionSetReset(t *testing.T) {
	s := NewSelectionSet(1, 2, 3)
	s.Reset([]int64{9})
	if s.Len() != 1 || !s.IsSelected(9) || s.IsSelected(1) {
		t.Fatalf("reset did not replace selection: %v", s.Ordered())
	}
}
