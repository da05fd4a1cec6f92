package report

import "github.com/charmbracelet/lipgloss"

// Styles by the role of the text they mark. Lipgloss degrades colors to
// what the terminal supports.
var (
	stylePath      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	styleFailure   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	styleCollision = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	styleSuccess   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	styleMuted     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// paint renders text in style, or leaves it plain when colors are off.
func (r *Reporter) paint(style lipgloss.Style, text string) string {
	if !r.useColors {
		return text
	}
	return style.Render(text)
}
