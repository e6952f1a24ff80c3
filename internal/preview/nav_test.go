package preview

import "testing"

func TestNavSelectBlock(t *testing.T) {
	var n Nav
	n.SetResult(4)

	if !n.SelectBlock(2) {
		t.Fatal("expected selection to apply while idle")
	}
	if n.Active() != 2 {
		t.Fatalf("expected active 2, got %d", n.Active())
	}

	t.Run("out of range rejected", func(t *testing.T) {
		if n.SelectBlock(4) || n.SelectBlock(-1) {
			t.Fatal("out-of-range selection must be rejected")
		}
	})

	t.Run("rejected while advancing", func(t *testing.T) {
		if _, ok := n.Advance(); !ok {
			t.Fatal("advance should fire from idle")
		}
		if n.SelectBlock(0) {
			t.Fatal("selection must be rejected while advancing")
		}
	})
}

func TestNavDebounce(t *testing.T) {
	// Five rapid bottom triggers within one settle window advance the
	// cursor by exactly one block.
	var n Nav
	n.SetResult(5)

	gen, ok := n.Advance()
	if !ok {
		t.Fatal("first trigger should advance")
	}
	for i := 0; i < 4; i++ {
		if _, ok := n.Advance(); ok {
			t.Fatalf("trigger %d fired during the settle window", i+2)
		}
	}
	if n.Active() != 1 {
		t.Fatalf("expected active 1 after burst, got %d", n.Active())
	}

	n.Settle(gen)
	if n.State() != NavIdle {
		t.Fatal("expected idle after settle")
	}
	if _, ok := n.Advance(); !ok {
		t.Fatal("expected advance to fire again after settling")
	}
	if n.Active() != 2 {
		t.Fatalf("expected active 2, got %d", n.Active())
	}
}

func TestNavStaleSettleIsNoOp(t *testing.T) {
	var n Nav
	n.SetResult(3)

	gen, _ := n.Advance()
	n.SetResult(3) // forced reset mid-window
	n.Settle(gen)  // the outlived timer fires

	if n.State() != NavIdle || n.Active() != 0 {
		t.Fatalf("stale settle mutated state: state=%d active=%d", n.State(), n.Active())
	}
	// The machine still works normally afterwards.
	if _, ok := n.Advance(); !ok {
		t.Fatal("expected advance after reset")
	}
}

func TestNavResetProperty(t *testing.T) {
	t.Run("from idle", func(t *testing.T) {
		var n Nav
		n.SetResult(4)
		n.SelectBlock(3)
		n.SetResult(2)
		if n.Active() != 0 || n.State() != NavIdle {
			t.Fatalf("reset from idle: active=%d state=%d", n.Active(), n.State())
		}
	})

	t.Run("from advancing", func(t *testing.T) {
		var n Nav
		n.SetResult(4)
		n.Advance()
		if n.State() != NavAdvancing {
			t.Fatal("expected advancing state")
		}
		n.SetResult(2)
		if n.Active() != 0 || n.State() != NavIdle {
			t.Fatalf("reset from advancing: active=%d state=%d", n.Active(), n.State())
		}
	})
}

func TestNavTerminalBoundary(t *testing.T) {
	var n Nav
	n.SetResult(3)
	n.SelectBlock(2)

	if _, ok := n.Advance(); ok {
		t.Fatal("advance on the last block must be dropped")
	}
	if n.Active() != 2 {
		t.Fatalf("active moved on terminal advance: %d", n.Active())
	}
	if n.State() != NavIdle {
		t.Fatal("terminal advance must not enter advancing state")
	}
}

func TestNavNoResult(t *testing.T) {
	var n Nav
	if _, ok := n.Advance(); ok {
		t.Fatal("advance without a result must be dropped")
	}
	if n.SelectBlock(0) {
		t.Fatal("selection without a result must be rejected")
	}
}

func TestStorageIndex(t *testing.T) {
	// Reversal invariant: display position p maps to blocks[count-1-p].
	for count := 1; count <= 5; count++ {
		for p := 0; p < count; p++ {
			if got := StorageIndex(p, count); got != count-1-p {
				t.Fatalf("StorageIndex(%d, %d) = %d", p, count, got)
			}
		}
	}
}
