package chatlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// maxLineSize bounds a single JSONL record. Chat exports occasionally
// carry very long pasted messages.
const maxLineSize = 10 * 1024 * 1024

// jsonlMessage is the wire form of one export line. Timestamps are
// RFC 3339; kind defaults to text when absent.
type jsonlMessage struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Aliases    []string  `json:"aliases,omitempty"`
	AvatarRef  string    `json:"avatar_ref,omitempty"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	Kind       string    `json:"kind,omitempty"`
	Reply      *ReplyRef `json:"reply,omitempty"`
}

// ReadMessages decodes a JSONL chat export. Blank lines are skipped;
// malformed lines abort the import with a line-numbered error.
func ReadMessages(r io.Reader) ([]Message, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var msgs []Message
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var wire jsonlMessage
		if err := json.Unmarshal([]byte(raw), &wire); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if wire.ID == "" {
			return nil, fmt.Errorf("line %d: missing message id", line)
		}
		if wire.Timestamp.IsZero() {
			return nil, fmt.Errorf("line %d: missing timestamp", line)
		}
		kind := Kind(wire.Kind)
		switch kind {
		case "":
			kind = KindText
		case KindText, KindMedia:
		default:
			return nil, fmt.Errorf("line %d: unknown kind %q", line, wire.Kind)
		}
		content := wire.Content
		if kind == KindMedia && content == "" {
			content = "[media]"
		}
		msgs = append(msgs, Message{
			ID:         wire.ID,
			SenderID:   wire.SenderID,
			SenderName: wire.SenderName,
			Aliases:    wire.Aliases,
			AvatarRef:  wire.AvatarRef,
			Content:    content,
			Timestamp:  wire.Timestamp.UTC(),
			Kind:       kind,
			Reply:      wire.Reply,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	return msgs, nil
}
