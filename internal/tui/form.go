package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/chatsieve/chatsieve/internal/filter"
)

// filterRequestMsg is emitted when the form is submitted.
type filterRequestMsg struct {
	cond filter.Condition
}

// formField indexes the form's inputs.
type formField int

const (
	fieldKeywords formField = iota
	fieldSenders
	fieldAfter
	fieldBefore
	fieldContext
	fieldCount
)

// formModel collects a filter condition: keywords, senders, a time
// window, and the context size.
type formModel struct {
	chatID string
	inputs [fieldCount]textinput.Model
	focus  formField
	errMsg string
	width  int
	height int
}

func newFormModel(chatID string, defaultContext int) formModel {
	m := formModel{chatID: chatID}

	mk := func(placeholder string) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = 200
		return ti
	}
	m.inputs[fieldKeywords] = mk("keywords, comma separated")
	m.inputs[fieldSenders] = mk("sender ids, comma separated")
	m.inputs[fieldAfter] = mk("after (2025-01-31)")
	m.inputs[fieldBefore] = mk("before (2025-12-31)")
	m.inputs[fieldContext] = mk(strconv.Itoa(defaultContext))
	m.inputs[fieldKeywords].Focus()
	return m
}

func (m formModel) init() tea.Cmd {
	return textinput.Blink
}

func (m formModel) update(msg tea.Msg) (formModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "tab", "down":
			m = m.setFocus((m.focus + 1) % fieldCount)
			return m, nil
		case "shift+tab", "up":
			m = m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return m, nil
		case "enter":
			cond, err := m.condition()
			if err != nil {
				m.errMsg = err.Error()
				return m, nil
			}
			m.errMsg = ""
			return m, func() tea.Msg { return filterRequestMsg{cond: cond} }
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// focusedValue returns the text in the focused input, for the shortcut
// handling in the top-level model.
func (m formModel) focusedValue() string {
	return m.inputs[m.focus].Value()
}

func (m formModel) setFocus(f formField) formModel {
	m.inputs[m.focus].Blur()
	m.focus = f
	m.inputs[m.focus].Focus()
	return m
}

// condition parses the inputs into a runnable condition.
func (m formModel) condition() (filter.Condition, error) {
	cond := filter.Condition{
		ChatID:   m.chatID,
		Keywords: splitCommaList(m.inputs[fieldKeywords].Value()),
	}
	cond.SenderIDs = splitCommaList(m.inputs[fieldSenders].Value())

	if raw := strings.TrimSpace(m.inputs[fieldAfter].Value()); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return cond, fmt.Errorf("after: expected YYYY-MM-DD")
		}
		cond.After = &t
	}
	if raw := strings.TrimSpace(m.inputs[fieldBefore].Value()); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return cond, fmt.Errorf("before: expected YYYY-MM-DD")
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		cond.Before = &end
	}
	if raw := strings.TrimSpace(m.inputs[fieldContext].Value()); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return cond, fmt.Errorf("context size: expected a non-negative number")
		}
		cond.ContextSize = n
	}

	if len(cond.Keywords) == 0 && len(cond.SenderIDs) == 0 && cond.After == nil && cond.Before == nil {
		return cond, fmt.Errorf("set at least one of keywords, senders, or a time window")
	}
	return cond, nil
}

func splitCommaList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var formLabels = [fieldCount]string{"Keywords", "Senders", "After", "Before", "Context"}

func (m formModel) view() string {
	st := GetStyles()
	var sb strings.Builder
	sb.WriteString(st.Title.Render("Filter " + m.chatID))
	sb.WriteString("\n\n")
	for f := formField(0); f < fieldCount; f++ {
		label := formLabels[f]
		if f == m.focus {
			label = "> " + label
		} else {
			label = "  " + label
		}
		sb.WriteString(fmt.Sprintf("%-11s %s\n", label, m.inputs[f].View()))
	}
	sb.WriteString("\n")
	if m.errMsg != "" {
		sb.WriteString(st.Error.Render(m.errMsg))
		sb.WriteString("\n")
	}
	sb.WriteString(st.Help.Render("enter: run  ·  tab: next field  ·  esc: back"))
	return sb.String()
}
