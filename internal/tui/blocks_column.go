package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/chatsieve/chatsieve/internal/chatlog"
	"github.com/chatsieve/chatsieve/internal/preview"
)

// blockRowHeight is the index pane's per-entry height: a time span line
// and a detail line.
const blockRowHeight = 2

// blocksModel is the left column: the result's blocks listed newest
// first, virtualized through a window calculator.
type blocksModel struct {
	blocks   []chatlog.Block
	window   *preview.Window
	cursor   int
	active   int
	offset   int
	width    int
	height   int
	showYear bool
}

func newBlocksModel() blocksModel {
	return blocksModel{window: preview.NewWindow(2)}
}

// setResult replaces the listing. Blocks arrive oldest first; the pane
// shows them newest first.
func (m *blocksModel) setResult(res *chatlog.FilterResult, showYear bool) {
	m.blocks = nil
	if res != nil {
		m.blocks = res.Blocks
	}
	m.showYear = showYear
	m.cursor = 0
	m.active = 0
	m.offset = 0
	m.window.SetItems(len(m.blocks), func(int) int { return blockRowHeight })
}

func (m *blocksModel) setSize(w, h int) {
	m.width = w
	m.height = h
	m.window.SetViewport(h)
}

// setActive moves the highlight without touching the cursor.
func (m *blocksModel) setActive(display int) {
	if display < 0 || display >= len(m.blocks) {
		return
	}
	m.active = display
	m.cursor = display
	m.offset = m.window.ScrollToIndex(display, preview.AlignCenter)
}

func (m blocksModel) update(msg tea.Msg) (blocksModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.blocks) == 0 {
		return m, nil
	}
	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.blocks)-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = len(m.blocks) - 1
	default:
		return m, nil
	}
	m.offset = m.window.ScrollToIndex(m.cursor, preview.AlignCenter)
	return m, nil
}

// blockAt returns the storage block shown at a display position.
func (m blocksModel) blockAt(display int) *chatlog.Block {
	if display < 0 || display >= len(m.blocks) {
		return nil
	}
	return &m.blocks[preview.StorageIndex(display, len(m.blocks))]
}

func (m blocksModel) view() string {
	st := GetStyles()
	if len(m.blocks) == 0 {
		return st.Help.Render("no blocks")
	}

	layout := "Jan 02 15:04"
	if m.showYear {
		layout = "Jan 02 2006 15:04"
	}

	lo, hi := m.window.Range(m.offset)
	var sb strings.Builder
	for display := lo; display < hi; display++ {
		b := m.blockAt(display)
		if b == nil {
			continue
		}
		span := fmt.Sprintf("%s .. %s", b.StartTs.Format(layout), b.EndTs.Format("15:04"))
		detail := fmt.Sprintf("  %d msgs", len(b.Messages))
		if b.HitCount > 0 {
			detail += fmt.Sprintf(" · %d hits", b.HitCount)
		}

		rowStyle := st.BlockRow
		if display == m.active {
			rowStyle = st.BlockRowActive
		} else if display == m.cursor {
			rowStyle = st.BlockRow.Bold(true)
		}
		if display > lo {
			sb.WriteString("\n")
		}
		sb.WriteString(rowStyle.Render(truncate(span, m.width)))
		sb.WriteString("\n")
		sb.WriteString(st.BlockRowDetail.Render(truncate(detail, m.width)))
	}
	return sb.String()
}

func truncate(s string, width int) string {
	if width <= 3 || len(s) <= width {
		return s
	}
	return s[:width-3] + "..."
}
