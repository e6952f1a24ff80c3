package tui

import (
	"github.com/chatsieve/chatsieve/internal/chatlog"
)

// ChatsLoadedMsg is sent when the chat list finishes loading.
type ChatsLoadedMsg struct {
	Chats []chatlog.Chat
	Err   error
}

// SessionsLoadedMsg is sent when a chat's conversation segments finish loading.
type SessionsLoadedMsg struct {
	ChatID   string
	Sessions []chatlog.SessionInfo
	Err      error
}

// MembersLoadedMsg is sent when a chat's member stats finish loading.
type MembersLoadedMsg struct {
	ChatID  string
	Members []chatlog.MemberStats
	Err     error
}

// FilterResultMsg carries a finished filter request. Gen ties the
// response to the request that started it; stale responses are dropped.
type FilterResultMsg struct {
	Gen    int
	Result *chatlog.FilterResult
	Err    error
}

// AdvanceSettleMsg fires when the advance cooldown elapses.
type AdvanceSettleMsg struct {
	Gen int
}

// SyncScrollMsg fires after the message pane has had a frame to render
// the new block, so the pending scroll target can be applied.
type SyncScrollMsg struct {
	Gen int
}

// ArchiveChangedMsg is sent when the database file changes on disk.
type ArchiveChangedMsg struct{}

// ExportDoneMsg reports the outcome of a transcript export.
type ExportDoneMsg struct {
	Path string
	Err  error
}
