package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/iwvelando/zus-calculator/internal/pension"
	"github.com/iwvelando/zus-calculator/pkg/format"
)

const sliderWidth = 40

// calculatorModel is the amount picker. The navigator owns the amount; the
// model only keeps the text field.
type calculatorModel struct {
	input textinput.Model
}

func newCalculatorModel(amount int) calculatorModel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 9
	ti.Width = 8
	ti.SetValue(strconv.Itoa(amount))
	return calculatorModel{input: ti}
}

func (m calculatorModel) editing() bool {
	return m.input.Focused()
}

func (m calculatorModel) update(msg tea.KeyMsg, nav *pension.Navigator) (calculatorModel, tea.Cmd, error) {
	if m.input.Focused() {
		switch msg.String() {
		case "tab", "esc":
			m.blur(nav)
			return m, nil, nil
		case "enter":
			err := nav.SetFromText(m.input.Value())
			m.blur(nav)
			if err != nil {
				return m, nil, err
			}
			return m, nil, nav.Check()
		}
		if !digitsOnly(msg) {
			return m, nil, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd, nav.SetFromText(m.input.Value())
	}

	switch msg.String() {
	case "left", "h":
		return m.slide(nav, -1)
	case "right", "l":
		return m.slide(nav, 1)
	case "tab":
		cmd := m.input.Focus()
		return m, cmd, nil
	case "enter":
		return m, nil, nav.Check()
	}
	return m, nil, nil
}

func (m calculatorModel) slide(nav *pension.Navigator, steps int) (calculatorModel, tea.Cmd, error) {
	if err := nav.SetFromSlider(pension.StepAmount(nav.Amount(), steps)); err != nil {
		return m, nil, err
	}
	m.input.SetValue(strconv.Itoa(nav.Amount()))
	return m, nil, nil
}

// blur leaves the text field showing the clamped amount.
func (m *calculatorModel) blur(nav *pension.Navigator) {
	m.input.Blur()
	m.input.SetValue(strconv.Itoa(nav.Amount()))
}

// digitsOnly lets through editing keys and rejects non-digit runes.
func digitsOnly(msg tea.KeyMsg) bool {
	if msg.Type != tea.KeyRunes {
		return true
	}
	for _, r := range msg.Runes {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (m calculatorModel) view(nav *pension.Navigator, styles Styles) string {
	field := styles.Field
	if m.input.Focused() {
		field = styles.FieldFocused
	}
	amount := lipgloss.JoinHorizontal(lipgloss.Center, field.Render(m.input.View()), " zł")

	bounds := format.Currency(pension.MinAmount)
	maxText := format.Currency(pension.MaxAmount)
	gap := sliderWidth - lipgloss.Width(bounds) - lipgloss.Width(maxText)
	if gap < 1 {
		gap = 1
	}
	bounds += strings.Repeat(" ", gap) + maxText

	button := styles.ButtonFocused
	if m.input.Focused() {
		button = styles.Button
	}

	return styles.Card.Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.Title.Render("Jaką emeryturę chciałbyś otrzymywać?"),
		"",
		amount,
		"",
		renderSlider(nav.Amount(), styles),
		styles.Muted.Render(bounds),
		"",
		button.Render("Sprawdź"),
	))
}

func renderSlider(amount int, styles Styles) string {
	pos := (amount - pension.MinAmount) * (sliderWidth - 1) / (pension.MaxAmount - pension.MinAmount)
	return styles.Primary.Render(strings.Repeat("━", pos)+"●") +
		styles.Muted.Render(strings.Repeat("─", sliderWidth-1-pos))
}
