package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/chatsieve/chatsieve/internal/chatlog"
	"github.com/chatsieve/chatsieve/internal/preview"
)

// sessionsPickedMsg is emitted when the picker is confirmed.
type sessionsPickedMsg struct {
	sessionIDs []int64
}

// pickerRow is either a day header or one session under it.
type pickerRow struct {
	header   bool
	day      string
	session  chatlog.SessionInfo
	groupIDs []int64
}

// pickerModel selects conversation segments, grouped by day. Toggling a
// header selects or clears its whole day.
type pickerModel struct {
	rows      []pickerRow
	selection *preview.SelectionSet
	window    *preview.Window
	cursor    int
	offset    int
	width     int
	height    int
}

func newPickerModel(sessions []chatlog.SessionInfo) pickerModel {
	m := pickerModel{
		selection: preview.NewSelectionSet(),
		window:    preview.NewWindow(2),
	}

	var day string
	var headerIdx = -1
	for _, s := range sessions {
		d := s.StartTs.Format("Mon, Jan 02 2006")
		if d != day {
			day = d
			m.rows = append(m.rows, pickerRow{header: true, day: d})
			headerIdx = len(m.rows) - 1
		}
		m.rows = append(m.rows, pickerRow{session: s, day: d})
		m.rows[headerIdx].groupIDs = append(m.rows[headerIdx].groupIDs, s.ID)
	}
	m.window.SetItems(len(m.rows), func(int) int { return 1 })
	return m
}

func (m *pickerModel) setSize(w, h int) {
	m.width = w
	m.height = h
	m.window.SetViewport(h - 3)
}

func (m pickerModel) update(msg tea.Msg) (pickerModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.rows) == 0 {
		return m, nil
	}
	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case " ":
		m.toggle()
	case "enter":
		ids := m.selection.Ordered()
		if len(ids) == 0 {
			return m, nil
		}
		return m, func() tea.Msg { return sessionsPickedMsg{sessionIDs: ids} }
	default:
		return m, nil
	}
	m.offset = m.window.ScrollToIndex(m.cursor, preview.AlignCenter)
	return m, nil
}

func (m *pickerModel) toggle() {
	row := m.rows[m.cursor]
	if row.header {
		if m.selection.IsGroupFullySelected(row.groupIDs) {
			m.selection.DeselectGroup(row.groupIDs)
		} else {
			m.selection.SelectGroup(row.groupIDs)
		}
		return
	}
	m.selection.Toggle(row.session.ID)
}

func (m pickerModel) view() string {
	st := GetStyles()
	if len(m.rows) == 0 {
		return st.Help.Render("no sessions")
	}

	var sb strings.Builder
	sb.WriteString(st.Title.Render(fmt.Sprintf("Sessions (%d selected)", m.selection.Len())))
	sb.WriteString("\n\n")

	lo, hi := m.window.Range(m.offset)
	for i := lo; i < hi && i < len(m.rows); i++ {
		row := m.rows[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		if row.header {
			mark := "[ ]"
			if m.selection.IsGroupFullySelected(row.groupIDs) {
				mark = "[x]"
			} else if m.anySelected(row.groupIDs) {
				mark = "[-]"
			}
			style := st.GroupHeader
			if mark == "[-]" {
				style = st.GroupHeaderMixed
			}
			sb.WriteString(cursor + style.Render(mark+" "+row.day) + "\n")
			continue
		}

		mark := "[ ]"
		if m.selection.IsSelected(row.session.ID) {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s .. %s  %d msgs", mark,
			row.session.StartTs.Format("15:04"),
			row.session.EndTs.Format("15:04"),
			row.session.MessageCount)
		sb.WriteString(cursor + "  " + st.BlockRow.Render(truncate(line, m.width-4)) + "\n")
	}

	sb.WriteString("\n")
	sb.WriteString(st.Help.Render("space: toggle  ·  enter: preview  ·  esc: back"))
	return sb.String()
}

func (m pickerModel) anySelected(ids []int64) bool {
	for _, id := range ids {
		if m.selection.IsSelected(id) {
			return true
		}
	}
	return false
}
