package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha, the subset the console draws with.
// https://catppuccin.com/palette
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext1 lipgloss.Color = "#bac2de"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface2 lipgloss.Color = "#585b70"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorMantle   lipgloss.Color = "#181825"
)

const (
	colorBrand     = colorPink
	colorFocus     = colorLavender
	colorSuccess   = colorGreen
	colorError     = colorRed
	colorWarning   = colorYellow
	colorAvailable = colorTeal
	colorConfirmed = colorBlue
	colorDrop      = colorPeach
	colorDragged   = colorMauve
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(colorBrand).Bold(true)

	headerBarStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorMantle).
			Padding(0, 2)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorSubtext1).
			Background(colorSurface0).
			Padding(0, 2)

	statusErrStyle = statusBarStyle.Foreground(colorError)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorMantle).
			Padding(0, 2)

	helpKeyStyle  = lipgloss.NewStyle().Foreground(colorBrand).Bold(true)
	helpDescStyle = lipgloss.NewStyle().Foreground(colorSubtext0)

	listBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)

	focusedBoxStyle = listBoxStyle.BorderForeground(colorFocus)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBrand).
			Padding(0, 1)

	cursorStyle  = lipgloss.NewStyle().Foreground(colorBrand).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorOverlay1)
	labelStyle   = lipgloss.NewStyle().Foreground(colorSubtext0)
	sepStyle     = lipgloss.NewStyle().Foreground(colorSurface2)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)

	availableStyle = lipgloss.NewStyle().Foreground(colorAvailable)
	confirmedStyle = lipgloss.NewStyle().Foreground(colorConfirmed)
	draggedStyle   = lipgloss.NewStyle().Foreground(colorDragged).Italic(true)
	dropStyle      = lipgloss.NewStyle().Foreground(colorDrop).Bold(true)
	ghostStyle     = lipgloss.NewStyle().Foreground(colorOverlay0).Faint(true)
)
