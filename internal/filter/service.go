// Package filter extracts context blocks from a chat archive: messages
// matching a condition plus their surrounding context, merged into
// contiguous time-ordered blocks.
package filter

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/search"

	"github.com/chatsieve/chatsieve/internal/chatlog"
)

// ErrEmptyCondition is returned when a condition constrains nothing.
var ErrEmptyCondition = errors.New("filter: condition selects everything")

// DefaultContextSize is how many messages around each hit are kept when
// the condition does not say otherwise.
const DefaultContextSize = 5

// sessionFetchLimit caps concurrent session reads.
const sessionFetchLimit = 4

// Condition describes what to extract from one chat.
type Condition struct {
	ChatID      string     `json:"chat_id"`
	Keywords    []string   `json:"keywords,omitempty"`
	SenderIDs   []string   `json:"sender_ids,omitempty"`
	After       *time.Time `json:"after,omitempty"`
	Before      *time.Time `json:"before,omitempty"`
	ContextSize int        `json:"context_size,omitempty"`
}

func (c Condition) empty() bool {
	return len(c.Keywords) == 0 && len(c.SenderIDs) == 0 && c.After == nil && c.Before == nil
}

// Service is the filtering surface the TUI and the HTTP API share.
type Service interface {
	FilterByCondition(ctx context.Context, cond Condition) (*chatlog.FilterResult, error)
	FilterBySessions(ctx context.Context, chatID string, sessionIDs []int64) (*chatlog.FilterResult, error)
	ListSessions(ctx context.Context, chatID string) ([]chatlog.SessionInfo, error)
	ListMembers(ctx context.Context, chatID string) ([]chatlog.MemberStats, error)
	GetTimeRange(ctx context.Context, chatID string) (*chatlog.TimeRange, error)
}

// Archive is the slice of the store the local service needs.
type Archive interface {
	Messages(ctx context.Context, chatID string) ([]chatlog.Message, error)
	Sessions(ctx context.Context, chatID string) ([]chatlog.SessionInfo, error)
	SessionMessages(ctx context.Context, chatID string, sessionID int64) ([]chatlog.Message, error)
	Members(ctx context.Context, chatID string) ([]chatlog.MemberStats, error)
	TimeRange(ctx context.Context, chatID string) (*chatlog.TimeRange, error)
}

// Local filters against an archive in-process.
type Local struct {
	archive Archive
}

// NewLocal wraps an archive in a Service.
func NewLocal(archive Archive) *Local {
	return &Local{archive: archive}
}

// FilterByCondition runs the condition over one chat and returns the
// matching messages expanded by their context, merged into blocks.
func (l *Local) FilterByCondition(ctx context.Context, cond Condition) (*chatlog.FilterResult, error) {
	if cond.empty() {
		return nil, ErrEmptyCondition
	}
	msgs, err := l.archive.Messages(ctx, cond.ChatID)
	if err != nil {
		return nil, fmt.Errorf("load chat %s: %w", cond.ChatID, err)
	}

	m, err := newMatcher(cond)
	if err != nil {
		return nil, err
	}
	var hits []int
	for i := range msgs {
		if m.matches(msgs[i]) {
			hits = append(hits, i)
		}
	}

	contextSize := cond.ContextSize
	if contextSize <= 0 {
		contextSize = DefaultContextSize
	}
	spans := expandAndMerge(hits, contextSize, len(msgs))

	res := &chatlog.FilterResult{}
	hitSet := make(map[int]struct{}, len(hits))
	for _, h := range hits {
		hitSet[h] = struct{}{}
	}
	for _, sp := range spans {
		block := chatlog.Block{
			StartTs:  msgs[sp.lo].Timestamp,
			EndTs:    msgs[sp.hi].Timestamp,
			Messages: make([]chatlog.Message, 0, sp.hi-sp.lo+1),
		}
		for i := sp.lo; i <= sp.hi; i++ {
			msg := msgs[i]
			if _, ok := hitSet[i]; ok {
				msg.IsHit = true
				block.HitCount++
			}
			block.Messages = append(block.Messages, msg)
			res.Stats.TotalChars += msg.Chars()
		}
		res.Stats.TotalMessages += len(block.Messages)
		res.Stats.HitMessages += block.HitCount
		res.Blocks = append(res.Blocks, block)
	}
	return res, nil
}

// FilterBySessions returns whole conversation segments as blocks. No
// message is a hit in this mode.
func (l *Local) FilterBySessions(ctx context.Context, chatID string, sessionIDs []int64) (*chatlog.FilterResult, error) {
	if len(sessionIDs) == 0 {
		return nil, ErrEmptyCondition
	}

	blocks := make([]chatlog.Block, len(sessionIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sessionFetchLimit)
	for i, id := range sessionIDs {
		g.Go(func() error {
			msgs, err := l.archive.SessionMessages(gctx, chatID, id)
			if err != nil {
				return fmt.Errorf("session %d: %w", id, err)
			}
			if len(msgs) == 0 {
				return fmt.Errorf("session %d: not found", id)
			}
			blocks[i] = chatlog.Block{
				StartTs:  msgs[0].Timestamp,
				EndTs:    msgs[len(msgs)-1].Timestamp,
				Messages: msgs,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(blocks, func(i, j int) bool { return blocks[i].StartTs.Before(blocks[j].StartTs) })

	res := &chatlog.FilterResult{Blocks: blocks}
	for _, b := range blocks {
		res.Stats.TotalMessages += len(b.Messages)
		for _, m := range b.Messages {
			res.Stats.TotalChars += m.Chars()
		}
	}
	return res, nil
}

// ListSessions exposes the archive's conversation segments.
func (l *Local) ListSessions(ctx context.Context, chatID string) ([]chatlog.SessionInfo, error) {
	return l.archive.Sessions(ctx, chatID)
}

// ListMembers exposes per-sender stats.
func (l *Local) ListMembers(ctx context.Context, chatID string) ([]chatlog.MemberStats, error) {
	return l.archive.Members(ctx, chatID)
}

// GetTimeRange exposes the chat's overall span.
func (l *Local) GetTimeRange(ctx context.Context, chatID string) (*chatlog.TimeRange, error) {
	return l.archive.TimeRange(ctx, chatID)
}

// matcher evaluates one condition against messages. Keyword patterns
// are compiled once and matched case-insensitively.
type matcher struct {
	patterns []*search.Pattern
	senders  map[string]struct{}
	after    *time.Time
	before   *time.Time
}

func newMatcher(cond Condition) (*matcher, error) {
	m := &matcher{after: cond.After, before: cond.Before}
	searcher := search.New(language.Und, search.IgnoreCase)
	for _, kw := range cond.Keywords {
		if kw == "" {
			return nil, errors.New("filter: empty keyword")
		}
		m.patterns = append(m.patterns, searcher.CompileString(kw))
	}
	if len(cond.SenderIDs) > 0 {
		m.senders = make(map[string]struct{}, len(cond.SenderIDs))
		for _, id := range cond.SenderIDs {
			m.senders[id] = struct{}{}
		}
	}
	return m, nil
}

func (m *matcher) matches(msg chatlog.Message) bool {
	if m.after != nil && msg.Timestamp.Before(*m.after) {
		return false
	}
	if m.before != nil && msg.Timestamp.After(*m.before) {
		return false
	}
	if m.senders != nil {
		if _, ok := m.senders[msg.SenderID]; !ok {
			return false
		}
	}
	if len(m.patterns) == 0 {
		return true
	}
	// Keywords are OR'd: any single match makes the message a hit.
	for _, p := range m.patterns {
		if start, _ := p.IndexString(msg.Content); start >= 0 {
			return true
		}
	}
	return false
}

type span struct{ lo, hi int }

// expandAndMerge grows each hit index by the context size and merges
// overlapping or adjacent spans into one.
func expandAndMerge(hits []int, contextSize, total int) []span {
	var spans []span
	for _, h := range hits {
		lo := max(0, h-contextSize)
		hi := min(total-1, h+contextSize)
		if n := len(spans); n > 0 && lo <= spans[n-1].hi+1 {
			if hi > spans[n-1].hi {
				spans[n-1].hi = hi
			}
			continue
		}
		spans = append(spans, span{lo, hi})
	}
	return spans
}
