package preset

import (
	"testing"
	"time"

	"github.com/chatsieve/chatsieve/internal/filter"
)

func TestStoreRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())

	after := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cond := filter.Condition{
		ChatID:      "family",
		Keywords:    []string{"vacation", "flight"},
		SenderIDs:   []string{"u1"},
		After:       &after,
		ContextSize: 7,
	}
	if err := s.Put(FromCondition("trips", cond)); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := s.Get("trips")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	back := got.Condition()
	if back.ChatID != "family" || len(back.Keywords) != 2 || back.ContextSize != 7 {
		t.Fatalf("condition lost on round trip: %+v", back)
	}
	if back.After == nil || !back.After.Equal(after) {
		t.Fatalf("after lost: %v", back.After)
	}
}

func TestStoreListSortedAndReplace(t *testing.T) {
	s := NewStore(t.TempDir())
	for _, name := range []string{"zeta", "alpha"} {
		if err := s.Put(Preset{Name: name, Keywords: []string{"x"}}); err != nil {
			t.Fatalf("put %s: %v", name, err)
		}
	}

	// Replacing keeps one entry per name.
	if err := s.Put(Preset{Name: "alpha", Keywords: []string{"y"}}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	presets, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(presets) != 2 || presets[0].Name != "alpha" || presets[1].Name != "zeta" {
		t.Fatalf("unexpected list: %+v", presets)
	}
	if presets[0].Keywords[0] != "y" {
		t.Fatal("replace did not take effect")
	}
}

func TestStoreDelete(t *testing.T) {
	s := NewStore(t.TempDir())
	if err := s.Put(Preset{Name: "old"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("old"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete("old"); err == nil {
		t.Fatal("deleting a missing preset must fail")
	}
	if _, err := s.Get("old"); err == nil {
		t.Fatal("deleted preset still readable")
	}
}

func TestStoreEmpty(t *testing.T) {
	s := NewStore(t.TempDir())
	presets, err := s.List()
	if err != nil || presets != nil {
		t.Fatalf("empty store should list nothing: %v %v", presets, err)
	}
	if err := s.Put(Preset{}); err == nil {
		t.Fatal("unnamed preset must be rejected")
	}
}
