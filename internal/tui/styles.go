package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	// Notice colors
	NoticeSuccess = lipgloss.Color("#95E1A3") // Green
	NoticeWarning = lipgloss.Color("#FFE66D") // Yellow
	NoticeError   = lipgloss.Color("#FF6B6B") // Red

	// UI colors
	Primary    = lipgloss.Color("#4ECDC4")
	Accent     = lipgloss.Color("#FFB347")
	Background = lipgloss.Color("#1a1a2e")
	Surface    = lipgloss.Color("#16213e")
	Text       = lipgloss.Color("#FFFFFF")
	TextMuted  = lipgloss.Color("#888888")
	Border     = lipgloss.Color("#333333")
)

// Styles
var (
	// Header
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	// Tab bar
	TabStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1)

	TabActiveStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			Padding(0, 1)

	// Content area
	ContentStyle = lipgloss.NewStyle().
			Padding(1, 2)

	// List items
	ItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	ItemSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Surface).
				Bold(true)

	LikedStyle = lipgloss.NewStyle().
			Foreground(NoticeError).
			Bold(true)

	AdminBadgeStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	BlockedStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Strikethrough(true)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	// Input modal / form
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	FormLabelStyle = lipgloss.NewStyle().
			Foreground(TextMuted)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)
)

// NoticeStyle returns the style for a notice severity string.
func NoticeStyle(severity string) lipgloss.Style {
	switch severity {
	case "success":
		return lipgloss.NewStyle().Foreground(NoticeSuccess)
	case "warning":
		return lipgloss.NewStyle().Foreground(NoticeWarning)
	case "error":
		return lipgloss.NewStyle().Foreground(NoticeError).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(TextMuted)
	}
}
