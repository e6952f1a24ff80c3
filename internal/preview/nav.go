package preview

// NavState is the block navigation machine state.
type NavState int

const (
	// NavIdle means no advance is pending; selection and advance triggers
	// are accepted.
	NavIdle NavState = iota
	// NavAdvancing means an advance fired and further triggers are
	// suppressed until the settle delay expires.
	NavAdvancing
)

// Nav owns the active block cursor. The active index is in index-pane
// display order (newest block first); callers map to storage order with
// StorageIndex. Advance triggers arriving while Advancing are dropped, so
// a stream of "reached bottom" events from one scroll gesture moves the
// cursor by exactly one block per settle window.
//
// Nav carries no timer of its own: Advance hands out a settle generation
// and the caller schedules Settle(gen) after the delay. A settle that was
// outlived by a reset or a newer advance finds a stale generation and does
// nothing.
type Nav struct {
	state     NavState
	active    int
	count     int
	settleGen int
}

// SetResult resets the machine for a new (or cleared) filter result. This
// is a forced reset, valid in any state: active returns to 0 and any
// in-flight settle becomes a no-op.
func (n *Nav) SetResult(blockCount int) {
	if blockCount < 0 {
		blockCount = 0
	}
	n.state = NavIdle
	n.active = 0
	n.count = blockCount
	n.settleGen++
}

// SelectBlock moves the cursor to display position i. Valid only while
// Idle and with a result present; returns whether the selection applied.
func (n *Nav) SelectBlock(i int) bool {
	if n.state != NavIdle || n.count == 0 || i < 0 || i >= n.count {
		return false
	}
	n.active = i
	return true
}

// Advance moves to the next block on a "reached bottom" trigger. It
// returns the settle generation the caller must pass back to Settle after
// the delay, and false when the trigger is dropped: already advancing, no
// result, or already on the last block.
func (n *Nav) Advance() (gen int, ok bool) {
	if n.state != NavIdle || n.count == 0 || n.active >= n.count-1 {
		return 0, false
	}
	n.state = NavAdvancing
	n.active++
	n.settleGen++
	return n.settleGen, true
}

// Settle ends the advance debounce window. Stale generations (an
// intervening reset or advance) are ignored.
func (n *Nav) Settle(gen int) {
	if n.state == NavAdvancing && gen == n.settleGen {
		n.state = NavIdle
	}
}

// Active returns the cursor position in display order.
func (n *Nav) Active() int {
	return n.active
}

// State returns the machine state.
func (n *Nav) State() NavState {
	return n.state
}

// BlockCount returns the size of the current result.
func (n *Nav) BlockCount() int {
	return n.count
}

// AtLastBlock reports whether the cursor is on the final display position.
func (n *Nav) AtLastBlock() bool {
	return n.count > 0 && n.active == n.count-1
}

// StorageIndex maps an index-pane display position to the storage-order
// block index. Blocks are stored oldest first and displayed newest first;
// every translation between the two orders goes through here.
func StorageIndex(display, blockCount int) int {
	return blockCount - 1 - display
}
