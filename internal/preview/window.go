package preview

// Align controls where ScrollToIndex places the target item inside the
// viewport.
type Align int

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
)

// Window computes which rows of a long list need to be materialized for
// the current scroll position. Per-item heights are kept in a Fenwick tree
// so height updates and offset lookups are O(log n) instead of re-summing
// the whole list on every frame.
type Window struct {
	heights  []int
	tree     []int // Fenwick tree over heights, 1-based
	viewport int
	overscan int
}

// NewWindow creates a window calculator with the given overscan margin,
// measured in multiples of the average item height.
func NewWindow(overscan int) *Window {
	return &Window{overscan: overscan}
}

// SetItems resizes the list to n items, measuring each with height.
func (w *Window) SetItems(n int, height func(i int) int) {
	w.heights = make([]int, n)
	w.tree = make([]int, n+1)
	for i := 0; i < n; i++ {
		h := height(i)
		if h < 0 {
			h = 0
		}
		w.heights[i] = h
		w.treeAdd(i, h)
	}
}

// SetItemHeight updates a single item's height.
func (w *Window) SetItemHeight(i, h int) {
	if i < 0 || i >= len(w.heights) {
		return
	}
	if h < 0 {
		h = 0
	}
	w.treeAdd(i, h-w.heights[i])
	w.heights[i] = h
}

// SetViewport sets the visible extent in rows.
func (w *Window) SetViewport(h int) {
	if h < 0 {
		h = 0
	}
	w.viewport = h
}

// Len returns the item count.
func (w *Window) Len() int {
	return len(w.heights)
}

// TotalHeight returns the summed height of all items.
func (w *Window) TotalHeight() int {
	return w.prefix(len(w.heights))
}

// OffsetOf returns the start offset of item i, the summed height of all
// items before it.
func (w *Window) OffsetOf(i int) int {
	if i < 0 {
		return 0
	}
	if i > len(w.heights) {
		i = len(w.heights)
	}
	return w.prefix(i)
}

// Range returns the minimal covering range [lo, hi) of items intersecting
// the viewport at the given scroll offset, widened by the overscan margin.
func (w *Window) Range(offset int) (lo, hi int) {
	n := len(w.heights)
	if n == 0 || w.viewport <= 0 {
		return 0, 0
	}
	margin := w.overscan * w.avgHeight()
	top := offset - margin
	if top < 0 {
		top = 0
	}
	bottom := offset + w.viewport + margin

	lo = w.indexAt(top)
	hi = w.indexAt(bottom)
	// indexAt returns the item containing the offset; the covering range
	// must include it.
	if hi < n {
		hi++
	}
	if hi > n {
		hi = n
	}
	return lo, hi
}

// ScrollToIndex returns the clamped scroll offset that places item i at
// the requested alignment within the viewport.
func (w *Window) ScrollToIndex(i int, align Align) int {
	n := len(w.heights)
	if n == 0 {
		return 0
	}
	if i < 0 {
		i = 0
	}
	if i >= n {
		i = n - 1
	}
	start := w.prefix(i)
	var offset int
	switch align {
	case AlignCenter:
		offset = start - (w.viewport-w.heights[i])/2
	case AlignEnd:
		offset = start - w.viewport + w.heights[i]
	default:
		offset = start
	}
	max := w.TotalHeight() - w.viewport
	if max < 0 {
		max = 0
	}
	if offset > max {
		offset = max
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

func (w *Window) avgHeight() int {
	n := len(w.heights)
	if n == 0 {
		return 0
	}
	avg := w.TotalHeight() / n
	if avg < 1 {
		avg = 1
	}
	return avg
}

// treeAdd adds delta to item i in the Fenwick tree.
func (w *Window) treeAdd(i, delta int) {
	for j := i + 1; j <= len(w.heights); j += j & (-j) {
		w.tree[j] += delta
	}
}

// prefix returns the sum of heights of items [0, i).
func (w *Window) prefix(i int) int {
	sum := 0
	for j := i; j > 0; j -= j & (-j) {
		sum += w.tree[j]
	}
	return sum
}

// indexAt returns the index of the item containing the given offset,
// clamped to the last item. Binary lifting over the Fenwick tree, O(log n).
func (w *Window) indexAt(offset int) int {
	n := len(w.heights)
	if n == 0 {
		return 0
	}
	if offset <= 0 {
		return 0
	}
	idx := 0
	rem := offset
	bit := 1
	for bit<<1 <= n {
		bit <<= 1
	}
	for ; bit > 0; bit >>= 1 {
		next := idx + bit
		if next <= n && w.tree[next] <= rem {
			idx = next
			rem -= w.tree[next]
		}
	}
	// idx items lie fully before the offset; the containing item is idx.
	if idx >= n {
		idx = n - 1
	}
	return idx
}
