package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/iwvelando/zus-calculator/internal/pension"
	"github.com/iwvelando/zus-calculator/pkg/format"
)

// dashboardModel draws the activity statistics of the mounted dashboard.
type dashboardModel struct {
	state *pension.Dashboard
}

func newDashboardModel(state *pension.Dashboard) dashboardModel {
	return dashboardModel{state: state}
}

func (m dashboardModel) update(msg tea.KeyMsg, nav *pension.Navigator) (dashboardModel, tea.Cmd, error) {
	switch msg.String() {
	case " ":
		m.state.ToggleBreakdown(!m.state.ShowBreakdown())
	case "1", "2":
		if m.state.ShowBreakdown() {
			if msg.String() == "1" {
				m.state.SelectCategory(pension.CategoryA)
			} else {
				m.state.SelectCategory(pension.CategoryB)
			}
		}
	case "esc":
		return m, nil, nav.Back()
	case "enter":
		return m, nil, nav.Next()
	}
	return m, nil, nil
}

func (m dashboardModel) view(nav *pension.Navigator, styles Styles) string {
	check := "[ ]"
	if m.state.ShowBreakdown() {
		check = "[x]"
	}

	lines := []string{
		styles.Muted.Render("← Powrót (esc)") + "    " + check + " " + pension.BreakdownSwitch,
		"",
		styles.Title.Render("Twoja docelowa emerytura: " + format.Currency(nav.Amount())),
	}

	if m.state.ShowBreakdown() {
		lines = append(lines, "", styles.Subtitle.Render(pension.CategoryPrompt))
		for i, c := range []pension.Category{pension.CategoryA, pension.CategoryB} {
			radio := "( )"
			if c == m.state.Category() {
				radio = "(•)"
			}
			style := styles.Icons[pension.IconCategoryA]
			if c == pension.CategoryB {
				style = styles.Icons[pension.IconCategoryB]
			}
			lines = append(lines, fmt.Sprintf("  %d %s %s", i+1, radio, style.Render(c.Choice())))
		}
	}

	lines = append(lines,
		"",
		styles.Subtitle.Render("Statystyki aktywności zawodowej"),
		m.icons(styles),
		"",
		styles.Subtitle.Render("Podsumowanie:"),
	)
	lines = append(lines, m.summary(styles)...)
	lines = append(lines, "", styles.ButtonFocused.Render("Symuluj emeryturę →"))

	return styles.Card.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m dashboardModel) icons(styles Styles) string {
	cells := make([]string, 0, pension.IconCount)
	for i, color := range m.state.Icons() {
		cells = append(cells, styles.Icons[color].Render(fmt.Sprintf("●%-2d", i+1)))
	}
	return strings.Join(cells, " ")
}

func (m dashboardModel) summary(styles Styles) []string {
	s := m.state.Summary()

	rows := []string{shareRow(s.Active, styles.Icons[pension.IconActive])}
	if s.Category != nil {
		color := pension.IconCategoryA
		if m.state.Category() == pension.CategoryB {
			color = pension.IconCategoryB
		}
		rows = append(rows, shareRow(*s.Category, styles.Icons[color]))
	}
	rows = append(rows, shareRow(s.Remainder, styles.Icons[pension.IconNeutral]))
	return rows
}

func shareRow(share pension.Share, style lipgloss.Style) string {
	return fmt.Sprintf("%s %-32s %4s", style.Render("■"), share.Label, format.Percent(share.Percent))
}
