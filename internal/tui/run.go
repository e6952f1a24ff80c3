package tui

import (
	"context"
	"os"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"

	"github.com/chatsieve/chatsieve/internal/chatlog"
	"github.com/chatsieve/chatsieve/internal/filter"
	"github.com/chatsieve/chatsieve/internal/watch"
)

func termSizeOpts() []tea.ProgramOption {
	var opts []tea.ProgramOption
	for _, fd := range []int{int(os.Stdout.Fd()), int(os.Stdin.Fd()), int(os.Stderr.Fd())} {
		if term.IsTerminal(fd) {
			w, h, err := term.GetSize(fd)
			if err == nil && w > 0 && h > 0 {
				opts = append(opts, tea.WithWindowSize(w, h))
				break
			}
		}
	}
	return opts
}

// Run starts the TUI over an open store, with the archive watcher
// feeding change notifications while the program runs.
func Run(store *chatlog.Store, svc filter.Service, defaultContext int) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var changes <-chan struct{}
	if watcher, err := watch.NewDBWatcher(store.Path()); err == nil {
		if ch, err := watcher.Start(ctx); err == nil {
			changes = ch
			defer watcher.Stop()
		}
	}

	model := NewModel(store, svc, defaultContext, changes)
	p := tea.NewProgram(model, termSizeOpts()...)
	_, err := p.Run()
	return err
}
