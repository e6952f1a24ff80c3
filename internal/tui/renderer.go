package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/chatsieve/chatsieve/internal/chatlog"
)

// renderedBlock is the message pane's content plus the line offset of
// every message, so scroll targets can be resolved by id.
type renderedBlock struct {
	content     string
	lineCount   int
	lineOffsets map[string]int
}

// renderMessages lays the active block's messages out for the viewport.
// Hit messages get highlighted content; media messages render their
// placeholder.
func renderMessages(msgs []chatlog.Message, hitIDs []string, width int, showYear bool) renderedBlock {
	st := GetStyles()
	layout := "01-02 15:04"
	if showYear {
		layout = "2006-01-02 15:04"
	}

	hits := make(map[string]struct{}, len(hitIDs))
	for _, id := range hitIDs {
		hits[id] = struct{}{}
	}

	if width < 20 {
		width = 20
	}

	var sb strings.Builder
	offsets := make(map[string]int, len(msgs))
	line := 0
	for i, m := range msgs {
		if i > 0 {
			sb.WriteString("\n")
			line++
		}
		offsets[m.ID] = line

		header := st.Timestamp.Render(m.Timestamp.Format(layout)) + " " + st.Sender.Render(m.SenderName)
		sb.WriteString(header)
		sb.WriteString("\n")
		line++

		if m.Reply != nil {
			preview := m.Reply.Preview
			if preview == "" {
				preview = m.Reply.TargetID
			}
			reply := st.Reply.Render("↪ " + m.Reply.Sender + ": " + ansi.Truncate(preview, width-6, "..."))
			sb.WriteString(reply)
			sb.WriteString("\n")
			line++
		}

		body := m.Content
		if m.Kind == chatlog.KindMedia {
			if body == "" {
				body = "[media]"
			}
			body = st.Media.Render(body)
		} else if _, hit := hits[m.ID]; hit {
			body = st.Hit.Render(body)
		}

		wrapped := ansi.Wrap(body, width, "")
		sb.WriteString(wrapped)
		sb.WriteString("\n")
		line += strings.Count(wrapped, "\n") + 1
	}

	return renderedBlock{
		content:     sb.String(),
		lineCount:   line,
		lineOffsets: offsets,
	}
}
