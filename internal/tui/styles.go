package tui

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	Primary     = lipgloss.Color("#101F38")
	Accent      = lipgloss.Color("#8BC34A")
	Muted       = lipgloss.Color("#6B7280")
	Destructive = lipgloss.Color("#e53935")
	Info        = lipgloss.Color("#2196F3")
)

// Styles holds the lipgloss styles of the browser.
type Styles struct {
	Title     lipgloss.Style
	Filter    lipgloss.Style
	Error     lipgloss.Style
	Cursor    lipgloss.Style
	Rep       lipgloss.Style
	Count     lipgloss.Style
	Label     lipgloss.Style
	Processed lipgloss.Style
	PageCur   lipgloss.Style
	Page      lipgloss.Style
	Disabled  lipgloss.Style
	Help      lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(Accent),
		Filter:    lipgloss.NewStyle().Foreground(Muted),
		Error:     lipgloss.NewStyle().Bold(true).Foreground(Destructive),
		Cursor:    lipgloss.NewStyle().Bold(true).Foreground(Accent),
		Rep:       lipgloss.NewStyle(),
		Count:     lipgloss.NewStyle().Foreground(Muted),
		Label:     lipgloss.NewStyle().Bold(true).Foreground(Info),
		Processed: lipgloss.NewStyle().Italic(true),
		PageCur:   lipgloss.NewStyle().Bold(true).Reverse(true).Padding(0, 1),
		Page:      lipgloss.NewStyle().Padding(0, 1),
		Disabled:  lipgloss.NewStyle().Foreground(Muted).Faint(true),
		Help:      lipgloss.NewStyle().Foreground(Muted),
	}
}
