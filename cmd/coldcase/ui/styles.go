// Package ui provides the visual styling for the coldcase terminal: a
// monochrome CRT look with amber (default) or green phosphor.
package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Phosphor palettes.
var (
	// Amber (default)
	AmberBackground = lipgloss.Color("#110d0a")
	AmberForeground = lipgloss.Color("#ffb000")
	AmberBright     = lipgloss.Color("#ffffaa")
	AmberDim        = lipgloss.Color("#885500")
	AmberGlow       = lipgloss.Color("#ff8800")

	// Green
	GreenBackground = lipgloss.Color("#0a110b")
	GreenForeground = lipgloss.Color("#33ff66")
	GreenBright     = lipgloss.Color("#ccffcc")
	GreenDim        = lipgloss.Color("#1f7a3a")
	GreenGlow       = lipgloss.Color("#00cc44")

	// Semantic colors (same for both phosphors)
	Destructive = lipgloss.Color("#ff4444")
	Analysis    = lipgloss.Color("#00e5ff")
)

// Theme holds the current color scheme.
type Theme struct {
	Name       string
	Background lipgloss.Color
	Foreground lipgloss.Color
	Bright     lipgloss.Color // success lines
	Dim        lipgloss.Color // system lines, borders
	Glow       lipgloss.Color // accents
}

// AmberTheme returns the default amber phosphor theme.
func AmberTheme() Theme {
	return Theme{
		Name:       "amber",
		Background: AmberBackground,
		Foreground: AmberForeground,
		Bright:     AmberBright,
		Dim:        AmberDim,
		Glow:       AmberGlow,
	}
}

// GreenTheme returns the green phosphor theme.
func GreenTheme() Theme {
	return Theme{
		Name:       "green",
		Background: GreenBackground,
		Foreground: GreenForeground,
		Bright:     GreenBright,
		Dim:        GreenDim,
		Glow:       GreenGlow,
	}
}

// DetectTheme picks the theme from COLDCASE_THEME; anything but "green" is amber.
func DetectTheme() Theme {
	if strings.EqualFold(os.Getenv("COLDCASE_THEME"), "green") {
		return GreenTheme()
	}
	return AmberTheme()
}

// Styles holds all the styled components.
type Styles struct {
	Theme Theme

	// Layout
	Header  lipgloss.Style
	Content lipgloss.Style
	Footer  lipgloss.Style
	Divider lipgloss.Style

	// Transcript lines, one per entry kind
	Info      lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	System    lipgloss.Style
	Command   lipgloss.Style
	Assistant lipgloss.Style

	// Interactive
	Prompt    lipgloss.Style
	UserInput lipgloss.Style
	Selected  lipgloss.Style
	Spinner   lipgloss.Style
	Banner    lipgloss.Style
	Muted     lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(theme.Foreground),

		Content: lipgloss.NewStyle().
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Dim).
			Padding(0, 1),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Dim),

		Info: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(theme.Bright),

		System: lipgloss.NewStyle().
			Foreground(theme.Dim),

		Command: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true).
			MarginTop(1),

		Assistant: lipgloss.NewStyle().
			Foreground(Analysis).
			PaddingLeft(1).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(Analysis),

		Prompt: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		UserInput: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Selected: lipgloss.NewStyle().
			Background(theme.Foreground).
			Foreground(theme.Background),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Glow),

		Banner: lipgloss.NewStyle().
			Foreground(theme.Bright).
			Bold(true).
			MarginTop(1),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Dim),
	}
}

// DefaultStyles returns styles for the detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// ForKind returns the style of a transcript entry kind. Unknown kinds render
// as info.
func (s Styles) ForKind(kind string) lipgloss.Style {
	switch kind {
	case "error":
		return s.Error
	case "success":
		return s.Success
	case "system":
		return s.System
	case "command":
		return s.Command
	case "assistant":
		return s.Assistant
	default:
		return s.Info
	}
}

// RenderDivider returns a horizontal divider.
func (s Styles) RenderDivider(width int) string {
	if width <= 0 {
		width = 1
	}
	return s.Divider.Render(strings.Repeat("─", width))
}
