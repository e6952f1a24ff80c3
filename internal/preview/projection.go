package preview

import (
	"github.com/chatsieve/chatsieve/internal/chatlog"
)

// TokenStatus colors the token estimate badge. The thresholds are policy
// constants; the estimate is advisory and never blocks execution.
type TokenStatus int

const (
	TokenGreen TokenStatus = iota
	TokenYellow
	TokenRed
)

func (s TokenStatus) String() string {
	switch s {
	case TokenYellow:
		return "yellow"
	case TokenRed:
		return "red"
	default:
		return "green"
	}
}

// Projection is the pure derivation of everything the panes render from a
// FilterResult and the active display index. Recomputed whenever either
// input changes; it holds no state of its own.
type Projection struct {
	BlockMessages []chatlog.Message
	HitMessageIDs []string
	ShouldShowYear bool
	EstimatedTokens int
	TokenStatus     TokenStatus
}

// Project derives the projection. active is an index-pane display
// position; an out-of-range position or nil result yields an empty
// projection.
func Project(res *chatlog.FilterResult, active int) Projection {
	var p Projection
	if res == nil {
		return p
	}

	p.EstimatedTokens = estimateTokens(res.Stats.TotalChars)
	p.TokenStatus = tokenStatus(res.Stats.TotalChars)
	p.ShouldShowYear = spansYears(res)

	count := len(res.Blocks)
	if active < 0 || active >= count {
		return p
	}
	block := res.Blocks[StorageIndex(active, count)]

	p.BlockMessages = make([]chatlog.Message, len(block.Messages))
	for i, m := range block.Messages {
		if m.IsHit {
			p.HitMessageIDs = append(p.HitMessageIDs, m.ID)
		}
		// The content pane consumes hit ids separately; normalize the
		// message shape it receives.
		m.IsHit = false
		p.BlockMessages[i] = m
	}
	return p
}

// FirstHitID returns the id of the first hit message in the block at the
// given display position, for the cross-pane scroll target.
func FirstHitID(res *chatlog.FilterResult, active int) (string, bool) {
	if res == nil || active < 0 || active >= len(res.Blocks) {
		return "", false
	}
	block := res.Blocks[StorageIndex(active, len(res.Blocks))]
	for _, m := range block.Messages {
		if m.IsHit {
			return m.ID, true
		}
	}
	return "", false
}

// estimateTokens is ceil(chars * 1.5); a fixed linear estimate, not a
// tokenizer.
func estimateTokens(chars int) int {
	return (chars*3 + 1) / 2
}

// tokenStatus applies the 50k/100k token thresholds. chars*3 is twice the
// token estimate, which keeps the exact boundary comparison in integers.
func tokenStatus(chars int) TokenStatus {
	switch est2x := chars * 3; {
	case est2x < 2*50000:
		return TokenGreen
	case est2x < 2*100000:
		return TokenYellow
	default:
		return TokenRed
	}
}

// spansYears reports whether the result's global time range crosses a
// calendar year boundary. Only the first block's start and the last
// block's end matter for the display-format decision.
func spansYears(res *chatlog.FilterResult) bool {
	if len(res.Blocks) == 0 {
		return false
	}
	first := res.Blocks[0].StartTs
	last := res.Blocks[len(res.Blocks)-1].EndTs
	return first.Year() != last.Year()
}
