package tui

import (
	"fmt"

	"charm.land/bubbles/v2/list"
	tea "charm.land/bubbletea/v2"

	"github.com/chatsieve/chatsieve/internal/chatlog"
)

// chatItem wraps a chatlog.Chat for the list component.
type chatItem struct {
	chat chatlog.Chat
}

func (i chatItem) Title() string {
	if i.chat.Name != "" {
		return i.chat.Name
	}
	return i.chat.ID
}

func (i chatItem) Description() string {
	if i.chat.MessageCount == 0 {
		return "empty"
	}
	return fmt.Sprintf("%d msgs  ·  %s .. %s",
		i.chat.MessageCount,
		i.chat.StartTs.Local().Format("Jan 02 2006"),
		i.chat.EndTs.Local().Format("Jan 02 2006"))
}

func (i chatItem) FilterValue() string {
	return i.chat.Name + " " + i.chat.ID
}

// chatsModel manages the chat list shown on startup.
type chatsModel struct {
	list  list.Model
	items []chatlog.Chat
}

func newChatsModel() chatsModel {
	delegate := list.NewDefaultDelegate()
	l := list.New(nil, delegate, 0, 0)
	l.Title = "Chats"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return chatsModel{list: l}
}

func (m *chatsModel) setItems(chats []chatlog.Chat) {
	m.items = chats
	items := make([]list.Item, len(chats))
	for i, c := range chats {
		items[i] = chatItem{chat: c}
	}
	m.list.SetItems(items)
}

func (m *chatsModel) setSize(w, h int) {
	m.list.SetSize(w, h)
}

func (m *chatsModel) selectedChat() *chatlog.Chat {
	item := m.list.SelectedItem()
	if item == nil {
		return nil
	}
	ci, ok := item.(chatItem)
	if !ok {
		return nil
	}
	return &ci.chat
}

func (m chatsModel) update(msg tea.Msg) (chatsModel, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m chatsModel) view() string {
	return m.list.View()
}
