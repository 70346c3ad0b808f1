package server

import (
	"github.com/iwvelando/zus-calculator/internal/pension"
	"github.com/iwvelando/zus-calculator/pkg/format"
)

// stateView is what both the HTML templates and /api/state render.
type stateView struct {
	Page       string          `json:"page"`
	Amount     int             `json:"amount"`
	AmountText string          `json:"amountText"`
	Generation uint64          `json:"generation"`
	Calculator *calculatorView `json:"calculator,omitempty"`
	Dashboard  *dashboardView  `json:"dashboard,omitempty"`
	Simulator  *simulatorView  `json:"simulator,omitempty"`
	Notice     string          `json:"notice,omitempty"`
}

type calculatorView struct {
	Min     int    `json:"min"`
	Max     int    `json:"max"`
	Step    int    `json:"step"`
	MinText string `json:"minText"`
	MaxText string `json:"maxText"`
}

type dashboardView struct {
	ShowBreakdown bool           `json:"showBreakdown"`
	Category      string         `json:"category"`
	Icons         []string       `json:"icons"`
	Summary       []shareView    `json:"summary"`
	Choices       []categoryView `json:"-"`
}

type shareView struct {
	Label   string `json:"label"`
	Percent int    `json:"percent"`
	Class   string `json:"-"`
}

type categoryView struct {
	Value    string
	Label    string
	Class    string
	Selected bool
}

type simulatorView struct {
	Form           pension.Form `json:"form"`
	Phase          string       `json:"phase"`
	CanSimulate    bool         `json:"canSimulate"`
	ResultsVisible bool         `json:"resultsVisible"`
	OptionsVisible bool         `json:"optionsVisible"`
	Slices         []sliceView  `json:"slices,omitempty"`
	Offers         []string     `json:"offers,omitempty"`
	Inputs         []inputView  `json:"-"`
}

type sliceView struct {
	Label      string `json:"label"`
	Percent    int    `json:"percent"`
	Amount     int    `json:"amount"`
	AmountText string `json:"amountText"`
	Class      string `json:"-"`
}

type inputView struct {
	Key         string
	Label       string
	Placeholder string
	Value       string
	Options     []optionView // set for the category select
}

type optionView struct {
	Value    string
	Label    string
	Selected bool
}

func buildState(nav *pension.Navigator, notice string) stateView {
	state := stateView{
		Page:       nav.Page().String(),
		Amount:     nav.Amount(),
		AmountText: format.Grouped(nav.Amount()),
		Generation: nav.Generation(),
		Notice:     notice,
	}

	switch nav.Page() {
	case pension.PageCalculator:
		state.Calculator = &calculatorView{
			Min:     pension.MinAmount,
			Max:     pension.MaxAmount,
			Step:    pension.SliderStep,
			MinText: format.Grouped(pension.MinAmount),
			MaxText: format.Grouped(pension.MaxAmount),
		}
	case pension.PageDashboard:
		state.Dashboard = buildDashboard(nav.Dashboard())
	case pension.PageSimulator:
		state.Simulator = buildSimulator(nav.Simulator())
	}
	return state
}

func buildDashboard(d *pension.Dashboard) *dashboardView {
	view := &dashboardView{
		ShowBreakdown: d.ShowBreakdown(),
		Category:      d.Category().String(),
	}
	for _, icon := range d.Icons() {
		view.Icons = append(view.Icons, icon.String())
	}

	summary := d.Summary()
	view.Summary = append(view.Summary, shareView{Label: summary.Active.Label, Percent: summary.Active.Percent, Class: "active"})
	if summary.Category != nil {
		view.Summary = append(view.Summary, shareView{
			Label:   summary.Category.Label,
			Percent: summary.Category.Percent,
			Class:   categoryClass(d.Category()),
		})
	}
	view.Summary = append(view.Summary, shareView{Label: summary.Remainder.Label, Percent: summary.Remainder.Percent, Class: "neutral"})

	for _, c := range []pension.Category{pension.CategoryA, pension.CategoryB} {
		view.Choices = append(view.Choices, categoryView{
			Value:    c.String(),
			Label:    c.Choice(),
			Class:    categoryClass(c),
			Selected: c == d.Category(),
		})
	}
	return view
}

func categoryClass(c pension.Category) string {
	if c == pension.CategoryB {
		return pension.IconCategoryB.String()
	}
	return pension.IconCategoryA.String()
}

func buildSimulator(s *pension.Simulator) *simulatorView {
	form := s.Form()
	view := &simulatorView{
		Form:           form,
		Phase:          s.Phase().String(),
		CanSimulate:    s.CanSimulate(),
		ResultsVisible: s.ResultsVisible(),
		OptionsVisible: s.OptionsVisible(),
	}

	for _, f := range pension.Fields {
		input := inputView{
			Key:         f.Key(),
			Label:       f.Label(),
			Placeholder: f.Placeholder(),
			Value:       form.Get(f),
		}
		if f == pension.FieldCategory {
			for _, o := range pension.CategoryOptions {
				input.Options = append(input.Options, optionView{
					Value:    o.Value,
					Label:    o.Label,
					Selected: o.Value == form.Category,
				})
			}
		}
		view.Inputs = append(view.Inputs, input)
	}

	if s.ResultsVisible() {
		classes := []string{"gap", "saved"}
		for i, slice := range s.Breakdown() {
			view.Slices = append(view.Slices, sliceView{
				Label:      slice.Label,
				Percent:    slice.Percent,
				Amount:     slice.Amount,
				AmountText: format.Grouped(slice.Amount),
				Class:      classes[i%len(classes)],
			})
		}
	}
	if s.OptionsVisible() {
		for _, o := range pension.Offers {
			view.Offers = append(view.Offers, o.Label())
		}
	}
	return view
}
