package chatlog

import (
	"strings"
	"testing"
)

func TestReadMessages(t *testing.T) {
	input := `{"id":"m1","sender_id":"u1","sender_name":"ann","content":"hi","timestamp":"2025-06-01T09:00:00Z"}

{"id":"m2","sender_id":"u2","sender_name":"bob","content":"","timestamp":"2025-06-01T09:01:00+02:00","kind":"media"}
{"id":"m3","sender_id":"u1","sender_name":"ann","content":"reply","timestamp":"2025-06-01T09:02:00Z","reply":{"target_id":"m2","sender":"bob"}}
`
	msgs, err := ReadMessages(strings.NewReader(input))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	if msgs[0].Kind != KindText {
		t.Fatalf("kind should default to text, got %s", msgs[0].Kind)
	}
	if msgs[1].Content != "[media]" {
		t.Fatalf("media without content should get a placeholder, got %q", msgs[1].Content)
	}
	if loc := msgs[1].Timestamp.Location(); loc != msgs[0].Timestamp.Location() {
		t.Fatal("timestamps should be normalized to UTC")
	}
	if msgs[2].Reply == nil || msgs[2].Reply.TargetID != "m2" {
		t.Fatalf("reply ref lost: %+v", msgs[2].Reply)
	}
}

func TestReadMessagesErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"malformed json", "{nope}\n", "line 1"},
		{"missing id", `{"content":"x","timestamp":"2025-06-01T09:00:00Z"}` + "\n", "missing message id"},
		{"missing timestamp", `{"id":"m1","content":"x"}` + "\n", "missing timestamp"},
		{"unknown kind", `{"id":"m1","timestamp":"2025-06-01T09:00:00Z","kind":"poll"}` + "\n", "unknown kind"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadMessages(strings.NewReader(tc.input))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}
