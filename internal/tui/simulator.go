package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/iwvelando/zus-calculator/internal/pension"
	"github.com/iwvelando/zus-calculator/pkg/format"
)

const pieWidth = 30

type itemKind int

const (
	itemField itemKind = iota
	itemSample
	itemSimulate
	itemOffer
	itemBack
)

// focusItem is one stop of the tab order.
type focusItem struct {
	kind  itemKind
	field pension.Field
	offer pension.Offer
}

// noticeMsg asks the app to open the notice of an offer.
type noticeMsg struct {
	offer pension.Offer
}

// revealMsg is delivered OptionsRevealDelay after a successful simulation of
// the simulator mounted as generation.
type revealMsg struct {
	generation uint64
}

func scheduleReveal(generation uint64) tea.Cmd {
	return tea.Tick(pension.OptionsRevealDelay, func(time.Time) tea.Msg {
		return revealMsg{generation: generation}
	})
}

func openNotice(offer pension.Offer) tea.Cmd {
	return func() tea.Msg { return noticeMsg{offer: offer} }
}

var offerKeys = map[string]pension.Offer{
	"i": pension.OfferIKE,
	"p": pension.OfferPPK,
	"o": pension.OfferBonds,
}

// simulatorModel is the form and results of the mounted simulator. inputs
// follow pension.Fields; the category entry is unused since it is a select.
type simulatorModel struct {
	state  *pension.Simulator
	inputs []textinput.Model
	focus  focusItem
}

func newSimulatorModel(state *pension.Simulator) simulatorModel {
	m := simulatorModel{state: state}
	for _, f := range pension.Fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = f.Placeholder()
		ti.CharLimit = 10
		ti.Width = 16
		m.inputs = append(m.inputs, ti)
	}
	m.focus = focusItem{kind: itemField, field: pension.Fields[0]}
	m.inputs[0].Focus()
	return m
}

func (m simulatorModel) items() []focusItem {
	items := make([]focusItem, 0, len(pension.Fields)+3+len(pension.Offers))
	for _, f := range pension.Fields {
		items = append(items, focusItem{kind: itemField, field: f})
	}
	items = append(items, focusItem{kind: itemSample}, focusItem{kind: itemSimulate})
	if m.state.OptionsVisible() {
		for _, o := range pension.Offers {
			items = append(items, focusItem{kind: itemOffer, offer: o})
		}
	}
	return append(items, focusItem{kind: itemBack})
}

// editing reports whether a text field has the focus.
func (m simulatorModel) editing() bool {
	return m.focus.kind == itemField && m.focus.field != pension.FieldCategory
}

func (m simulatorModel) move(delta int) (simulatorModel, tea.Cmd) {
	items := m.items()
	idx := 0
	for i, it := range items {
		if it == m.focus {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(items)) % len(items)
	m.focus = items[idx]

	var cmd tea.Cmd
	for i, f := range pension.Fields {
		if m.editing() && f == m.focus.field {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return m, cmd
}

// syncInputs copies the form into the text fields.
func (m *simulatorModel) syncInputs() {
	form := m.state.Form()
	for i, f := range pension.Fields {
		m.inputs[i].SetValue(form.Get(f))
	}
}

func (m simulatorModel) update(msg tea.KeyMsg, nav *pension.Navigator) (simulatorModel, tea.Cmd, error) {
	switch msg.String() {
	case "esc":
		return m, nil, nav.Back()
	case "ctrl+d":
		m.state.PopulateSample()
		m.syncInputs()
		return m, nil, nil
	case "tab", "shift+tab":
		delta := 1
		if msg.String() == "shift+tab" {
			delta = -1
		}
		var cmd tea.Cmd
		m, cmd = m.move(delta)
		return m, cmd, nil
	}

	if offer, ok := offerKeys[msg.String()]; ok && m.state.OptionsVisible() {
		return m, openNotice(offer), nil
	}

	switch m.focus.kind {
	case itemField:
		if msg.String() == "enter" {
			var cmd tea.Cmd
			m, cmd = m.move(1)
			return m, cmd, nil
		}
		if m.focus.field == pension.FieldCategory {
			switch msg.String() {
			case "left", "h":
				m.cycleCategory(-1)
			case "right", "l":
				m.cycleCategory(1)
			}
			return m, nil, nil
		}
		return m.edit(msg)
	case itemSample:
		if msg.String() == "enter" {
			m.state.PopulateSample()
			m.syncInputs()
		}
	case itemSimulate:
		if msg.String() == "enter" && m.state.Simulate() {
			return m, scheduleReveal(nav.Generation()), nil
		}
	case itemOffer:
		if msg.String() == "enter" {
			return m, openNotice(m.focus.offer), nil
		}
	case itemBack:
		if msg.String() == "enter" {
			return m, nil, nav.Back()
		}
	}
	return m, nil, nil
}

func (m simulatorModel) edit(msg tea.KeyMsg) (simulatorModel, tea.Cmd, error) {
	if !digitsOnly(msg) {
		return m, nil, nil
	}
	for i, f := range pension.Fields {
		if f != m.focus.field {
			continue
		}
		var cmd tea.Cmd
		m.inputs[i], cmd = m.inputs[i].Update(msg)
		m.state.SetField(f, m.inputs[i].Value())
		return m, cmd, nil
	}
	return m, nil, nil
}

// cycleCategory steps through the select's options; an empty choice moves
// to the first or last option.
func (m simulatorModel) cycleCategory(delta int) {
	current := m.state.Form().Category
	n := len(pension.CategoryOptions)
	idx := -1
	for i, o := range pension.CategoryOptions {
		if o.Value == current {
			idx = i
		}
	}
	switch {
	case idx < 0 && delta > 0:
		idx = 0
	case idx < 0:
		idx = n - 1
	default:
		idx = (idx + delta + n) % n
	}
	m.state.SetField(pension.FieldCategory, pension.CategoryOptions[idx].Value)
}

func (m simulatorModel) button(it focusItem, label string, enabled bool, styles Styles) string {
	switch {
	case !enabled:
		return styles.ButtonOff.Render(label)
	case m.focus == it:
		return styles.ButtonFocused.Render(label)
	}
	return styles.Button.Render(label)
}

func (m simulatorModel) view(styles Styles) string {
	back := m.button(focusItem{kind: itemBack}, "← Powrót", true, styles)
	form := m.formView(styles)
	results := m.resultsView(styles)
	return lipgloss.JoinVertical(lipgloss.Left,
		back,
		lipgloss.JoinHorizontal(lipgloss.Top, form, " ", results),
	)
}

func (m simulatorModel) formView(styles Styles) string {
	lines := []string{
		styles.Title.Render("Symulacja emerytury dla " + format.Currency(m.state.Amount())),
	}

	form := m.state.Form()
	for i, f := range pension.Fields {
		focused := m.focus == focusItem{kind: itemField, field: f}
		box := styles.Field
		if focused {
			box = styles.FieldFocused
		}

		value := m.inputs[i].View()
		if f == pension.FieldCategory {
			value = styles.Muted.Render(f.Placeholder())
			for _, o := range pension.CategoryOptions {
				if o.Value == form.Category {
					value = "‹ " + o.Label + " ›"
				}
			}
		}
		lines = append(lines, f.Label(), box.Width(22).Render(value))
	}

	lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
		m.button(focusItem{kind: itemSample}, "POBIERZ DANE", true, styles),
		" ",
		m.button(focusItem{kind: itemSimulate}, "Zasymuluj", m.state.CanSimulate(), styles),
	))
	return styles.Card.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m simulatorModel) resultsView(styles Styles) string {
	if !m.state.ResultsVisible() {
		return styles.Card.Render(styles.Muted.Render("Wypełnij formularz i kliknij \"Zasymuluj\"\naby zobaczyć analizę swojej emerytury"))
	}

	slices := m.state.Breakdown()
	sliceStyles := []lipgloss.Style{styles.Gap, styles.Saved}

	var pie strings.Builder
	lines := []string{styles.Title.Render("Analiza Twojej emerytury"), ""}
	for i, s := range slices {
		style := sliceStyles[i%len(sliceStyles)]
		pie.WriteString(style.Render(strings.Repeat("█", s.Percent*pieWidth/100)))
	}
	lines = append(lines, pie.String(), "")
	for i, s := range slices {
		style := sliceStyles[i%len(sliceStyles)]
		lines = append(lines, fmt.Sprintf("%s %-16s %4s  ~%s",
			style.Render("■"), s.Label, format.Percent(s.Percent), format.Currency(s.Amount)))
	}

	if m.state.OptionsVisible() {
		lines = append(lines, "", styles.Subtitle.Render(pension.OffersHeading))
		buttons := make([]string, 0, len(pension.Offers)*2)
		for _, o := range pension.Offers {
			buttons = append(buttons, m.button(focusItem{kind: itemOffer, offer: o}, o.Label(), true, styles), " ")
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, buttons...))
	}
	return styles.Card.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
