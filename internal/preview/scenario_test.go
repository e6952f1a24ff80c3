package preview

import (
	"fmt"
	"testing"
	"time"
)

// TestPreviewScenario walks the full preview flow over one result: three
// blocks (10, 15, 8 messages; 2, 0, 1 hits), rapid bottom triggers, an
// index-pane selection, and the year-display decision.
func TestPreviewScenario(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	ids := func(prefix string, n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = fmt.Sprintf("%s%d", prefix, i)
		}
		return out
	}
	res := mkResult(
		mkBlock(base, ids("a", 10), map[string]bool{"a2": true, "a7": true}),
		mkBlock(base.Add(2*time.Hour), ids("b", 15), nil),
		mkBlock(base.Add(4*time.Hour), ids("c", 8), map[string]bool{"c5": true}),
	)
	if err := res.Validate(); err != nil {
		t.Fatalf("fixture violates stats invariant: %v", err)
	}

	var nav Nav
	nav.SetResult(len(res.Blocks))

	// Two quick bottom triggers inside one settle window: the index
	// advances to 1, not 2.
	if _, ok := nav.Advance(); !ok {
		t.Fatal("first trigger should advance")
	}
	if _, ok := nav.Advance(); ok {
		t.Fatal("second trigger inside the window must be dropped")
	}
	if nav.Active() != 1 {
		t.Fatalf("expected active 1, got %d", nav.Active())
	}

	// Selecting display row 2 maps to storage block 0 once idle again.
	nav.SetResult(len(res.Blocks))
	if !nav.SelectBlock(2) {
		t.Fatal("selection should apply")
	}
	p := Project(res, nav.Active())
	if got := p.BlockMessages[0].ID; got != "a0" {
		t.Fatalf("display row 2 should show storage block 0, got first id %s", got)
	}
	if p.BlockMessages[0].Timestamp != res.Blocks[0].StartTs {
		t.Fatal("active block start must equal blocks[count-1-2].StartTs")
	}

	// The selection's scroll target is the first hit of storage block 0.
	if id, ok := FirstHitID(res, 2); !ok || id != "a2" {
		t.Fatalf("expected scroll target a2, got %q ok=%v", id, ok)
	}

	// All blocks fall within one calendar year.
	if p.ShouldShowYear {
		t.Fatal("same-year result must not show the year")
	}
}
