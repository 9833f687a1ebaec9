package cli

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	matchStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("114"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	ruleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func rule(width int) string {
	line := make([]byte, width)
	for i := range line {
		line[i] = '-'
	}
	return ruleStyle.Render(string(line))
}
