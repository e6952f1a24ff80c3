package tui

import (
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"

	"github.com/chatsieve/chatsieve/internal/chatlog"
)

// paneModel is the right column: the active block's messages in a
// scrollable viewport.
type paneModel struct {
	viewport viewport.Model
	rendered renderedBlock
	ready    bool
	width    int
	height   int
}

func newPaneModel() paneModel {
	return paneModel{}
}

func (m *paneModel) setSize(w, h int) {
	m.width = w
	m.height = h
	if !m.ready {
		m.viewport = viewport.New()
		m.ready = true
	}
	m.viewport.SetWidth(w)
	m.viewport.SetHeight(h)
	m.viewport.SetContent(m.rendered.content)
}

// setBlock replaces the pane content and resets the scroll position to
// the top of the block.
func (m *paneModel) setBlock(msgs []chatlog.Message, hitIDs []string, showYear bool) {
	m.rendered = renderMessages(msgs, hitIDs, m.width, showYear)
	if m.ready {
		m.viewport.SetContent(m.rendered.content)
		m.viewport.GotoTop()
	}
}

// scrollToMessage positions the viewport at a message id. Unknown ids
// leave the position alone.
func (m *paneModel) scrollToMessage(id string) bool {
	offset, ok := m.rendered.lineOffsets[id]
	if !ok || !m.ready {
		return false
	}
	m.viewport.SetYOffset(offset)
	return true
}

// atBottom reports whether the viewport rests on the last line.
func (m paneModel) atBottom() bool {
	return m.ready && m.viewport.AtBottom()
}

func (m paneModel) update(msg tea.Msg) (paneModel, tea.Cmd) {
	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m paneModel) view() string {
	if !m.ready {
		return "loading..."
	}
	return m.viewport.View()
}
