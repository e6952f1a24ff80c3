package preview

import "testing"

func uniformHeight(h int) func(int) int {
	return func(int) int { return h }
}

func TestWindowEmpty(t *testing.T) {
	w := NewWindow(2)
	w.SetItems(0, uniformHeight(2))
	w.SetViewport(10)

	if got := w.TotalHeight(); got != 0 {
		t.Fatalf("expected zero total height, got %d", got)
	}
	lo, hi := w.Range(0)
	if lo != 0 || hi != 0 {
		t.Fatalf("expected empty range, got [%d, %d)", lo, hi)
	}
}

func TestWindowTotalHeight(t *testing.T) {
	w := NewWindow(0)
	heights := []int{1, 2, 3, 4}
	w.SetItems(len(heights), func(i int) int { return heights[i] })

	if got := w.TotalHeight(); got != 10 {
		t.Fatalf("expected total height 10, got %d", got)
	}
	if got := w.OffsetOf(2); got != 3 {
		t.Fatalf("expected offset 3 for item 2, got %d", got)
	}
}

func TestWindowRangeCoversViewport(t *testing.T) {
	w := NewWindow(0)
	w.SetItems(100, uniformHeight(2)) // total 200
	w.SetViewport(10)

	lo, hi := w.Range(50)
	// Offset 50 lands in item 25; the viewport ends inside item 30.
	if lo != 25 {
		t.Fatalf("expected lo 25, got %d", lo)
	}
	if hi < 30 || hi > 31 {
		t.Fatalf("expected hi to cover item 30, got %d", hi)
	}

	// The covering property: cumulative heights of [lo, hi) must span
	// [offset, offset+viewport].
	if w.OffsetOf(lo) > 50 {
		t.Fatalf("range starts after the offset: item %d at %d", lo, w.OffsetOf(lo))
	}
	if w.OffsetOf(hi) < 60 {
		t.Fatalf("range ends before the viewport: item %d at %d", hi, w.OffsetOf(hi))
	}
}

func TestWindowOverscanWidensRange(t *testing.T) {
	plain := NewWindow(0)
	plain.SetItems(100, uniformHeight(2))
	plain.SetViewport(10)

	padded := NewWindow(3)
	padded.SetItems(100, uniformHeight(2))
	padded.SetViewport(10)

	plo, phi := plain.Range(100)
	olo, ohi := padded.Range(100)
	if olo >= plo || ohi <= phi {
		t.Fatalf("overscan did not widen range: plain [%d,%d) padded [%d,%d)", plo, phi, olo, ohi)
	}
}

func TestWindowVariableHeights(t *testing.T) {
	// Group headers (height 1) interleaved with detail rows (height 2).
	w := NewWindow(0)
	w.SetItems(6, func(i int) int {
		if i%3 == 0 {
			return 1
		}
		return 2
	})
	// Heights: 1 2 2 1 2 2, offsets: 0 1 3 5 6 8, total 10.
	if got := w.TotalHeight(); got != 10 {
		t.Fatalf("expected total 10, got %d", got)
	}
	if got := w.OffsetOf(3); got != 5 {
		t.Fatalf("expected offset 5 for item 3, got %d", got)
	}

	w.SetViewport(4)
	lo, hi := w.Range(5)
	if lo != 3 {
		t.Fatalf("expected range to start at item 3, got %d", lo)
	}
	if w.OffsetOf(hi) < 9 {
		t.Fatalf("range does not cover viewport end, hi=%d at %d", hi, w.OffsetOf(hi))
	}
}

func TestWindowSetItemHeight(t *testing.T) {
	w := NewWindow(0)
	w.SetItems(5, uniformHeight(2))
	w.SetItemHeight(1, 6)

	if got := w.TotalHeight(); got != 14 {
		t.Fatalf("expected total 14 after resize, got %d", got)
	}
	if got := w.OffsetOf(2); got != 8 {
		t.Fatalf("expected offset 8 for item 2, got %d", got)
	}
}

func TestWindowScrollToIndex(t *testing.T) {
	w := NewWindow(0)
	w.SetItems(50, uniformHeight(2)) // total 100
	w.SetViewport(10)

	t.Run("start", func(t *testing.T) {
		if got := w.ScrollToIndex(20, AlignStart); got != 40 {
			t.Fatalf("expected offset 40, got %d", got)
		}
	})

	t.Run("center", func(t *testing.T) {
		// Item 20 spans [40, 42); centered it sits 4 rows below the top.
		if got := w.ScrollToIndex(20, AlignCenter); got != 36 {
			t.Fatalf("expected offset 36, got %d", got)
		}
	})

	t.Run("end", func(t *testing.T) {
		if got := w.ScrollToIndex(20, AlignEnd); got != 32 {
			t.Fatalf("expected offset 32, got %d", got)
		}
	})

	t.Run("clamps at extremes", func(t *testing.T) {
		if got := w.ScrollToIndex(0, AlignEnd); got != 0 {
			t.Fatalf("expected clamp to 0, got %d", got)
		}
		if got := w.ScrollToIndex(49, AlignStart); got != 90 {
			t.Fatalf("expected clamp to 90, got %d", got)
		}
	})
}
