package export

import (
	"strings"
	"testing"
	"time"

	"github.com/chatsieve/chatsieve/internal/chatlog"
)

func sampleResult() *chatlog.FilterResult {
	t0 := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	t1 := time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC)
	return &chatlog.FilterResult{
		Blocks: []chatlog.Block{
			{
				StartTs: t0, EndTs: t0.Add(time.Minute),
				Messages: []chatlog.Message{
					{ID: "m1", SenderName: "ann", Content: "first line\nsecond line", Timestamp: t0, Kind: chatlog.KindText},
					{ID: "m2", SenderName: "bob", Content: "", Timestamp: t0.Add(time.Minute), Kind: chatlog.KindMedia},
				},
			},
			{
				StartTs: t1, EndTs: t1,
				Messages: []chatlog.Message{
					{ID: "m3", SenderName: "ann", Content: "later", Timestamp: t1, Kind: chatlog.KindText},
				},
			},
		},
		Stats: chatlog.Stats{TotalMessages: 3},
	}
}

func TestTranscript(t *testing.T) {
	out, err := Transcript(sampleResult(), "Family", false)
	if err != nil {
		t.Fatalf("transcript: %v", err)
	}

	if !strings.HasPrefix(out, "# Family\n") {
		t.Fatalf("missing chat header:\n%s", out)
	}
	if !strings.Contains(out, "[06-01 09:00 .. 06-01 09:01]") {
		t.Fatalf("missing block header:\n%s", out)
	}
	if !strings.Contains(out, "06-01 09:00 ann: first line\n    second line\n") {
		t.Fatalf("multi-line message not indented:\n%s", out)
	}
	if !strings.Contains(out, "bob: [media]") {
		t.Fatalf("media placeholder missing:\n%s", out)
	}
	if strings.Count(out, "----") != 1 {
		t.Fatalf("expected one separator between two blocks:\n%s", out)
	}
	// Blocks stay oldest first.
	if strings.Index(out, "first line") > strings.Index(out, "later") {
		t.Fatal("blocks out of order")
	}
}

func TestTranscriptShowsYearWhenSpanning(t *testing.T) {
	out, err := Transcript(sampleResult(), "", true)
	if err != nil {
		t.Fatalf("transcript: %v", err)
	}
	if !strings.Contains(out, "2025-06-01 09:00") {
		t.Fatalf("year missing from timestamps:\n%s", out)
	}
	if strings.Contains(out, "# ") {
		t.Fatalf("unexpected header without a chat name:\n%s", out)
	}
}

func TestTranscriptEmpty(t *testing.T) {
	if _, err := Transcript(&chatlog.FilterResult{}, "x", false); err == nil {
		t.Fatal("empty result must fail")
	}
	if _, err := Transcript(nil, "x", false); err == nil {
		t.Fatal("nil result must fail")
	}
}
