package tui

import (
	"context"
	"fmt"
	"os"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/chatsieve/chatsieve/internal/chatlog"
	"github.com/chatsieve/chatsieve/internal/export"
	"github.com/chatsieve/chatsieve/internal/filter"
	"github.com/chatsieve/chatsieve/internal/preview"
	"github.com/chatsieve/chatsieve/internal/tuilog"
)

// advanceSettleDuration is the cooldown after a block advance before the
// next bottom trigger is honored.
const advanceSettleDuration = 300 * time.Millisecond

// syncRenderDelay gives the message pane a frame to render the new block
// before the pending scroll target is applied.
const syncRenderDelay = 120 * time.Millisecond

// view identifies the screen currently shown.
type view int

const (
	viewChats view = iota
	viewForm
	viewPicker
	viewPreview
)

// focusPane identifies which preview column has focus.
type focusPane int

const (
	paneBlocks focusPane = iota
	paneMessages
)

// Model is the top-level bubbletea model.
type Model struct {
	store *chatlog.Store
	svc   filter.Service

	width  int
	height int

	view       view
	activePane focusPane
	chat       *chatlog.Chat
	sessions   []chatlog.SessionInfo

	chats  chatsModel
	form   formModel
	picker pickerModel
	blocks blocksModel
	pane   paneModel

	// reqGen ties filter responses to the request that started them.
	reqGen int
	result *chatlog.FilterResult
	nav    preview.Nav
	sync   preview.SyncTarget
	proj   preview.Projection

	defaultContext int
	changes        <-chan struct{}
	status         string
	err            error
}

// NewModel builds the TUI around an open store and a filter service.
// changes may be nil when archive watching is disabled.
func NewModel(store *chatlog.Store, svc filter.Service, defaultContext int, changes <-chan struct{}) Model {
	return Model{
		store:          store,
		svc:            svc,
		view:           viewChats,
		chats:          newChatsModel(),
		blocks:         newBlocksModel(),
		pane:           newPaneModel(),
		defaultContext: defaultContext,
		changes:        changes,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadChatsCmd()}
	if m.changes != nil {
		cmds = append(cmds, m.waitForChangeCmd())
	}
	return tea.Batch(cmds...)
}

func (m Model) loadChatsCmd() tea.Cmd {
	return func() tea.Msg {
		chats, err := m.store.Chats(context.Background())
		return ChatsLoadedMsg{Chats: chats, Err: err}
	}
}

func (m Model) loadSessionsCmd(chatID string) tea.Cmd {
	return func() tea.Msg {
		sessions, err := m.svc.ListSessions(context.Background(), chatID)
		return SessionsLoadedMsg{ChatID: chatID, Sessions: sessions, Err: err}
	}
}

func (m Model) runFilterCmd(gen int, cond filter.Condition) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		defer tuilog.Log.Timed("filter request")()
		res, err := svc.FilterByCondition(context.Background(), cond)
		return FilterResultMsg{Gen: gen, Result: res, Err: err}
	}
}

func (m Model) runSessionsCmd(gen int, chatID string, ids []int64) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		res, err := svc.FilterBySessions(context.Background(), chatID, ids)
		return FilterResultMsg{Gen: gen, Result: res, Err: err}
	}
}

func (m Model) waitForChangeCmd() tea.Cmd {
	ch := m.changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return ArchiveChangedMsg{}
	}
}

func settleCmd(gen int) tea.Cmd {
	return tea.Tick(advanceSettleDuration, func(time.Time) tea.Msg {
		return AdvanceSettleMsg{Gen: gen}
	})
}

func syncCmd(gen int) tea.Cmd {
	return tea.Tick(syncRenderDelay, func(time.Time) tea.Msg {
		return SyncScrollMsg{Gen: gen}
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()
		return m, nil

	case ChatsLoadedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.chats.setItems(msg.Chats)
		return m, nil

	case SessionsLoadedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		if m.chat != nil && msg.ChatID == m.chat.ID {
			m.sessions = msg.Sessions
		}
		return m, nil

	case FilterResultMsg:
		return m.handleFilterResult(msg)

	case AdvanceSettleMsg:
		m.nav.Settle(msg.Gen)
		return m, nil

	case SyncScrollMsg:
		if id, ok := m.sync.Take(msg.Gen); ok {
			if !m.pane.scrollToMessage(id) {
				tuilog.Log.Debug("scroll target missing", "id", id)
			}
		}
		return m, nil

	case ArchiveChangedMsg:
		m.status = "archive changed on disk"
		cmds := []tea.Cmd{m.loadChatsCmd(), m.waitForChangeCmd()}
		if m.chat != nil {
			cmds = append(cmds, m.loadSessionsCmd(m.chat.ID))
		}
		return m, tea.Batch(cmds...)

	case ExportDoneMsg:
		if msg.Err != nil {
			m.err = msg.Err
		} else {
			m.status = "exported to " + msg.Path
		}
		return m, nil

	case filterRequestMsg:
		m.reqGen++
		m.status = "filtering..."
		return m, m.runFilterCmd(m.reqGen, msg.cond)

	case sessionsPickedMsg:
		if m.chat == nil {
			return m, nil
		}
		m.reqGen++
		m.status = "loading sessions..."
		return m, m.runSessionsCmd(m.reqGen, m.chat.ID, msg.sessionIDs)
	}

	return m.forward(msg)
}

// forward routes non-key messages to the component that owns them.
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case viewChats:
		m.chats, cmd = m.chats.update(msg)
	case viewForm:
		m.form, cmd = m.form.update(msg)
	case viewPicker:
		m.picker, cmd = m.picker.update(msg)
	case viewPreview:
		if m.activePane == paneMessages {
			m.pane, cmd = m.pane.update(msg)
		} else {
			m.blocks, cmd = m.blocks.update(msg)
		}
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	// The form owns almost every key while it has focus.
	if m.view == viewForm {
		if key.Matches(msg, keys.Back) {
			m.view = viewChats
			return m, nil
		}
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if msg.String() == "s" && m.form.focusedValue() == "" {
			// Shortcut only when the focused field is empty, so typing
			// an "s" into a keyword still works.
			return m.openPicker()
		}
		var cmd tea.Cmd
		m.form, cmd = m.form.update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Back):
		switch m.view {
		case viewPicker:
			m.view = viewForm
		case viewPreview:
			m.view = viewForm
		case viewChats:
			return m, tea.Quit
		}
		return m, nil

	case key.Matches(msg, keys.Enter):
		return m.handleEnter(msg)

	case key.Matches(msg, keys.Tab):
		if m.view == viewPreview {
			m.activePane = (m.activePane + 1) % 2
		}
		return m, nil

	case key.Matches(msg, keys.Filter):
		if m.chat != nil {
			m.view = viewForm
			m.form = newFormModel(m.chat.ID, m.defaultContext)
			return m, m.form.init()
		}
		return m, nil

	case key.Matches(msg, keys.Sessions):
		if m.view == viewPreview || m.view == viewChats {
			return m.openPicker()
		}
		return m, nil

	case key.Matches(msg, keys.Export):
		if m.view == viewPreview && m.result != nil {
			return m, m.exportCmd()
		}
		return m, nil
	}

	if m.view == viewPreview && m.activePane == paneMessages {
		return m.handlePreviewScroll(msg)
	}
	return m.forward(msg)
}

func (m Model) handleEnter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.view {
	case viewChats:
		chat := m.chats.selectedChat()
		if chat == nil {
			return m, nil
		}
		m.chat = chat
		m.form = newFormModel(chat.ID, m.defaultContext)
		m.view = viewForm
		return m, tea.Batch(m.form.init(), m.loadSessionsCmd(chat.ID))

	case viewPicker:
		return m.forward(msg)

	case viewPreview:
		if m.activePane == paneBlocks {
			if m.nav.SelectBlock(m.blocks.cursor) {
				return m.applyProjection(true)
			}
			return m, nil
		}
		return m.forward(msg)
	}
	return m.forward(msg)
}

// handlePreviewScroll intercepts downward scrolling at the bottom of the
// message pane, which triggers a block advance.
func (m Model) handlePreviewScroll(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "down", "j", "pgdown", " ", "end", "G":
		if m.pane.atBottom() && !m.nav.AtLastBlock() {
			gen, ok := m.nav.Advance()
			if !ok {
				return m, nil
			}
			// Continuous reading: the new block starts at its top, no
			// hit anchor.
			newModel, _ := m.applyProjection(false)
			return newModel, settleCmd(gen)
		}
	}
	return m.forward(msg)
}

func (m Model) openPicker() (tea.Model, tea.Cmd) {
	if m.chat == nil || len(m.sessions) == 0 {
		m.status = "no sessions loaded"
		return m, nil
	}
	m.picker = newPickerModel(m.sessions)
	m.picker.setSize(m.width, m.height-2)
	m.view = viewPicker
	return m, nil
}

func (m Model) handleFilterResult(msg FilterResultMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.reqGen {
		tuilog.Log.Debug("dropping stale filter result", "gen", msg.Gen, "want", m.reqGen)
		return m, nil
	}
	if msg.Err != nil {
		m.err = msg.Err
		m.view = viewForm
		return m, nil
	}
	m.err = nil
	m.result = msg.Result
	m.nav.SetResult(len(msg.Result.Blocks))
	m.proj = preview.Project(m.result, m.nav.Active())
	m.blocks.setResult(m.result, m.proj.ShouldShowYear)
	m.view = viewPreview
	m.activePane = paneMessages
	m.updateSizes()
	return m.applyProjection(true)
}

// applyProjection re-renders both panes for the current active block.
// With anchor set, the first hit becomes the pending scroll target.
func (m Model) applyProjection(anchor bool) (tea.Model, tea.Cmd) {
	m.proj = preview.Project(m.result, m.nav.Active())
	m.blocks.setActive(m.nav.Active())
	m.pane.setBlock(m.proj.BlockMessages, m.proj.HitMessageIDs, m.proj.ShouldShowYear)

	if anchor {
		if id, ok := preview.FirstHitID(m.result, m.nav.Active()); ok {
			gen := m.sync.Set(id)
			return m, syncCmd(gen)
		}
	}
	m.sync.Clear()
	return m, nil
}

func (m Model) exportCmd() tea.Cmd {
	res := m.result
	name := ""
	if m.chat != nil {
		name = m.chat.Name
	}
	showYear := m.proj.ShouldShowYear
	return func() tea.Msg {
		path := fmt.Sprintf("chatsieve-export-%s.txt", time.Now().Format("20060102-150405"))
		f, err := os.Create(path)
		if err != nil {
			return ExportDoneMsg{Err: err}
		}
		defer f.Close()
		if err := export.WriteTranscript(f, res, name, showYear); err != nil {
			return ExportDoneMsg{Err: err}
		}
		return ExportDoneMsg{Path: path}
	}
}

func (m *Model) updateSizes() {
	if m.width == 0 || m.height == 0 {
		return
	}
	contentHeight := m.height - 3
	m.chats.setSize(m.width-2, contentHeight)
	m.picker.setSize(m.width-2, contentHeight)

	blocksWidth := m.width / 3
	if blocksWidth > 44 {
		blocksWidth = 44
	}
	m.blocks.setSize(blocksWidth-2, contentHeight-2)
	m.pane.setSize(m.width-blocksWidth-4, contentHeight-2)
}

// View implements tea.Model.
func (m Model) View() tea.View {
	var content string
	switch m.view {
	case viewChats:
		content = m.chats.view()
	case viewForm:
		content = m.form.view()
	case viewPicker:
		content = m.picker.view()
	case viewPreview:
		content = m.previewView()
	}

	parts := []string{content, m.statusBar()}
	v := tea.NewView(lipgloss.JoinVertical(lipgloss.Left, parts...))
	v.AltScreen = true
	return v
}

func (m Model) previewView() string {
	st := GetStyles()
	blocksStyle := st.InactiveBorder
	paneStyle := st.InactiveBorder
	if m.activePane == paneBlocks {
		blocksStyle = st.ActiveBorder
	} else {
		paneStyle = st.ActiveBorder
	}

	blocksWidth := m.width / 3
	if blocksWidth > 44 {
		blocksWidth = 44
	}
	contentHeight := m.height - 5

	left := blocksStyle.Width(blocksWidth - 2).Height(contentHeight).Render(m.blocks.view())
	right := paneStyle.Width(m.width - blocksWidth - 4).Height(contentHeight).Render(m.pane.view())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m Model) statusBar() string {
	st := GetStyles()
	if m.err != nil {
		return st.StatusBar.Render(st.Error.Render(m.err.Error()))
	}
	if m.status != "" {
		return st.StatusBar.Render(m.status)
	}
	if m.view != viewPreview || m.result == nil {
		return st.StatusBar.Render(st.Help.Render("enter: select  ·  f: filter  ·  s: sessions  ·  q: quit"))
	}

	tokenStyle := st.TokensGreen
	switch m.proj.TokenStatus {
	case preview.TokenYellow:
		tokenStyle = st.TokensYellow
	case preview.TokenRed:
		tokenStyle = st.TokensRed
	}
	line := fmt.Sprintf("block %d/%d · %d msgs · %d hits · %s",
		m.nav.Active()+1, m.nav.BlockCount(),
		m.result.Stats.TotalMessages, m.result.Stats.HitMessages,
		tokenStyle.Render(fmt.Sprintf("~%d tokens", m.proj.EstimatedTokens)))
	return st.StatusBar.Render(line)
}
