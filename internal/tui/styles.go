package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/iwvelando/zus-calculator/internal/pension"
)

// ZUS brand palette
var (
	ZusGreen = lipgloss.Color("#00993F")
	ZusTeal  = lipgloss.Color("#007834")
	ZusBlue  = lipgloss.Color("#3F84D2")
	ZusPink  = lipgloss.Color("#E85A8B")
	ZusGray  = lipgloss.Color("#BEC3CE")
	ZusNavy  = lipgloss.Color("#00416E")
	ZusRed   = lipgloss.Color("#F05E5E")
	White    = lipgloss.Color("#FFFFFF")
)

// Styles holds every style the screens render with.
type Styles struct {
	Header   lipgloss.Style
	Card     lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style
	Help     lipgloss.Style

	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonOff     lipgloss.Style
	Primary       lipgloss.Style

	Field        lipgloss.Style
	FieldFocused lipgloss.Style

	Notice lipgloss.Style

	Icons map[pension.IconColor]lipgloss.Style
	Gap   lipgloss.Style
	Saved lipgloss.Style
}

// DefaultStyles returns the ZUS themed styles.
func DefaultStyles() Styles {
	button := lipgloss.NewStyle().
		Padding(0, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ZusGreen).
		Foreground(ZusGreen)

	field := lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.NormalBorder()).
		BorderForeground(ZusGray)

	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(White).
			Background(ZusTeal).
			Padding(0, 2).
			MarginBottom(1),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ZusGray).
			Padding(1, 2),
		Title:    lipgloss.NewStyle().Bold(true).Foreground(ZusNavy),
		Subtitle: lipgloss.NewStyle().Bold(true).Foreground(ZusTeal),
		Muted:    lipgloss.NewStyle().Foreground(ZusGray),
		Help:     lipgloss.NewStyle().Foreground(ZusGray).MarginTop(1),

		Button:        button,
		ButtonFocused: button.Foreground(White).Background(ZusGreen),
		ButtonOff:     button.BorderForeground(ZusGray).Foreground(ZusGray),
		Primary:       lipgloss.NewStyle().Bold(true).Foreground(ZusGreen),

		Field:        field,
		FieldFocused: field.BorderForeground(ZusGreen),

		Notice: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ZusGreen).
			Padding(1, 3),

		Icons: map[pension.IconColor]lipgloss.Style{
			pension.IconNeutral:   lipgloss.NewStyle().Foreground(ZusGray),
			pension.IconActive:    lipgloss.NewStyle().Foreground(ZusGreen),
			pension.IconCategoryA: lipgloss.NewStyle().Foreground(ZusBlue),
			pension.IconCategoryB: lipgloss.NewStyle().Foreground(ZusPink),
		},
		Gap:   lipgloss.NewStyle().Foreground(ZusRed),
		Saved: lipgloss.NewStyle().Foreground(ZusGreen),
	}
}
