// Package chatlog defines the chat archive data model and its sqlite-backed
// message store.
package chatlog

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// Kind distinguishes plain text messages from everything else (images,
// stickers, voice notes). Non-text messages keep a placeholder content.
type Kind string

const (
	KindText  Kind = "text"
	KindMedia Kind = "media"
)

// ReplyRef points at the message a reply targets, with cached preview
// fields so rendering does not need a second lookup.
type ReplyRef struct {
	TargetID string `json:"target_id"`
	Preview  string `json:"preview,omitempty"`
	Sender   string `json:"sender,omitempty"`
}

// Message is a single chat message as consumed by the preview core.
// IsHit is only meaningful inside a FilterResult: it marks messages that
// matched the filter condition, as opposed to context messages.
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Aliases    []string  `json:"aliases,omitempty"`
	AvatarRef  string    `json:"avatar_ref,omitempty"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	Kind       Kind      `json:"kind"`
	Reply      *ReplyRef `json:"reply,omitempty"`
	IsHit      bool      `json:"is_hit,omitempty"`
}

// Chars returns the content length in runes, the unit the token estimate
// is based on.
func (m Message) Chars() int {
	return utf8.RuneCountInString(m.Content)
}

// Block is a contiguous, time-ordered span of messages returned as one
// unit of a filter result. Blocks are immutable once built.
type Block struct {
	StartTs  time.Time `json:"start_ts"`
	EndTs    time.Time `json:"end_ts"`
	Messages []Message `json:"messages"`
	HitCount int       `json:"hit_count"`
}

// Stats aggregates a FilterResult.
type Stats struct {
	TotalMessages int `json:"total_messages"`
	HitMessages   int `json:"hit_messages"`
	TotalChars    int `json:"total_chars"`
}

// FilterResult is the unit of exchange with the filter service. Blocks are
// stored oldest first; index-pane display order is the reverse.
type FilterResult struct {
	Blocks []Block `json:"blocks"`
	Stats  Stats   `json:"stats"`
}

// Validate checks the stats invariants: TotalMessages equals the summed
// block sizes and HitMessages equals the summed hit counts.
func (r *FilterResult) Validate() error {
	var msgs, hits int
	for _, b := range r.Blocks {
		msgs += len(b.Messages)
		hits += b.HitCount
	}
	if msgs != r.Stats.TotalMessages {
		return fmt.Errorf("stats: total_messages %d, blocks hold %d", r.Stats.TotalMessages, msgs)
	}
	if hits != r.Stats.HitMessages {
		return fmt.Errorf("stats: hit_messages %d, blocks hold %d", r.Stats.HitMessages, hits)
	}
	return nil
}

// SessionInfo describes one conversation segment of a chat. Segments are
// computed at import time: a gap of 30 minutes or more starts a new one.
type SessionInfo struct {
	ID             int64     `json:"id"`
	StartTs        time.Time `json:"start_ts"`
	EndTs          time.Time `json:"end_ts"`
	MessageCount   int       `json:"message_count"`
	FirstMessageID string    `json:"first_message_id"`
}

// MemberStats summarizes one sender's activity within a chat.
type MemberStats struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	MessageCount int       `json:"message_count"`
	FirstTs      time.Time `json:"first_ts"`
	LastTs       time.Time `json:"last_ts"`
}

// TimeRange is a closed timestamp interval.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Chat identifies one conversation in the archive.
type Chat struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	MessageCount int       `json:"message_count"`
	StartTs      time.Time `json:"start_ts"`
	EndTs        time.Time `json:"end_ts"`
}
