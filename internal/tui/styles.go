package tui

import (
	"sync"

	"charm.land/lipgloss/v2"
)

// Styles holds all the computed lipgloss styles for the TUI.
type Styles struct {
	ActiveBorder   lipgloss.Style
	InactiveBorder lipgloss.Style

	StatusBar lipgloss.Style

	// Block index rows
	BlockRow         lipgloss.Style
	BlockRowActive   lipgloss.Style
	BlockRowDetail   lipgloss.Style
	GroupHeader      lipgloss.Style
	GroupHeaderMixed lipgloss.Style

	// Message rendering
	Sender    lipgloss.Style
	Timestamp lipgloss.Style
	Hit       lipgloss.Style
	Media     lipgloss.Style
	Reply     lipgloss.Style

	// Token estimate indicator
	TokensGreen  lipgloss.Style
	TokensYellow lipgloss.Style
	TokensRed    lipgloss.Style

	Title lipgloss.Style
	Help  lipgloss.Style
	Error lipgloss.Style
}

var (
	stylesOnce sync.Once
	styles     Styles
)

// GetStyles returns the shared style set, building it on first use.
func GetStyles() *Styles {
	stylesOnce.Do(func() {
		styles = buildStyles()
	})
	return &styles
}

func buildStyles() Styles {
	border := lipgloss.RoundedBorder()
	return Styles{
		ActiveBorder: lipgloss.NewStyle().
			Border(border).
			BorderForeground(lipgloss.Color("62")),
		InactiveBorder: lipgloss.NewStyle().
			Border(border).
			BorderForeground(lipgloss.Color("240")),

		StatusBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236")).
			Padding(0, 1),

		BlockRow: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		BlockRowActive: lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("62")).
			Bold(true),
		BlockRowDetail: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")),
		GroupHeader: lipgloss.NewStyle().
			Foreground(lipgloss.Color("110")).
			Bold(true),
		GroupHeaderMixed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("110")),

		Sender: lipgloss.NewStyle().
			Foreground(lipgloss.Color("75")).
			Bold(true),
		Timestamp: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")),
		Hit: lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("58")),
		Media: lipgloss.NewStyle().
			Foreground(lipgloss.Color("247")).
			Italic(true),
		Reply: lipgloss.NewStyle().
			Foreground(lipgloss.Color("246")).
			Italic(true),

		TokensGreen: lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")),
		TokensYellow: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")),
		TokensRed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),

		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
	}
}
