package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/sandevgo/chatmtl/internal/core"
)

// Basic ANSI colors only, so the output reads the same on light and dark terminals.
var (
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)
	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	DescStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	FlagStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)

	// chat turns
	UserStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	BotStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	HintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
)

// SenderStyle picks the label style for a chat turn.
func SenderStyle(sender string) lipgloss.Style {
	if sender == core.SenderUser {
		return UserStyle
	}
	return BotStyle
}
