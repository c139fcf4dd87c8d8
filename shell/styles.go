package shell

import "github.com/charmbracelet/lipgloss"

var (
	Blue   = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}
	Cyan   = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}
	Green  = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}
	Amber  = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}
	Rose   = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}
	Subtle = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(Cyan)
	infoStyle    = lipgloss.NewStyle().Foreground(Blue)
	successStyle = lipgloss.NewStyle().Foreground(Green)
	warningStyle = lipgloss.NewStyle().Foreground(Amber)
	errorStyle   = lipgloss.NewStyle().Foreground(Rose)
	dimStyle     = lipgloss.NewStyle().Foreground(Subtle)

	menuStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Blue).
			Padding(0, 1)

	analysisStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Green).
			Padding(0, 1)
)
