// Package output provides utilities for printing a snapshot of the calculator screens.
package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/zus-calculator/internal/pension"
	"github.com/iwvelando/zus-calculator/pkg/constants"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Snapshot is what the dashboard and the simulator show for one amount.
type Snapshot struct {
	Amount    int
	Breakdown bool
	Category  pension.Category
	Icons     []pension.IconColor
	Summary   pension.Summary
	Form      pension.Form
	Slices    []pension.Slice
	Offers    []pension.Offer
}

// Capture drives a navigator the way a user would: the amount is entered on
// the calculator, the dashboard toggles are applied, and the simulator is
// filled with the sample data, simulated and revealed.
func Capture(amount int, breakdown bool, category pension.Category) (Snapshot, error) {
	nav := pension.NewNavigator()
	if err := nav.SetFromText(strconv.Itoa(amount)); err != nil {
		return Snapshot{}, err
	}
	if err := nav.Check(); err != nil {
		return Snapshot{}, err
	}

	d := nav.Dashboard()
	d.ToggleBreakdown(breakdown)
	d.SelectCategory(category)
	snap := Snapshot{
		Amount:    nav.Amount(),
		Breakdown: d.ShowBreakdown(),
		Category:  d.Category(),
		Icons:     d.Icons(),
		Summary:   d.Summary(),
	}

	if err := nav.Next(); err != nil {
		return Snapshot{}, err
	}
	sim := nav.Simulator()
	sim.PopulateSample()
	if !sim.Simulate() {
		return Snapshot{}, fmt.Errorf("simulation did not start for form %+v", sim.Form())
	}
	nav.RevealOptions(nav.Generation())

	snap.Form = sim.Form()
	snap.Slices = sim.Breakdown()
	if sim.OptionsVisible() {
		snap.Offers = append(snap.Offers, pension.Offers...)
	}
	return snap, nil
}

var iconGlyphs = map[pension.IconColor]string{
	pension.IconNeutral:   "○",
	pension.IconActive:    "●",
	pension.IconCategoryA: "A",
	pension.IconCategoryB: "B",
}

func (s Snapshot) shares() []pension.Share {
	shares := []pension.Share{s.Summary.Active}
	if s.Summary.Category != nil {
		shares = append(shares, *s.Summary.Category)
	}
	return append(shares, s.Summary.Remainder)
}

// PrettyFormat outputs a human-readable rather than machine-readable summary.
// Numbers are grouped the Polish way by the x/text printer.
func PrettyFormat(w io.Writer, s Snapshot) {
	p := message.NewPrinter(language.Polish)

	_, _ = p.Fprintf(w, "--- Docelowa emerytura: %d %s ---\n", s.Amount, constants.CurrencySymbol)

	glyphs := make([]string, 0, len(s.Icons))
	for _, icon := range s.Icons {
		glyphs = append(glyphs, iconGlyphs[icon])
	}
	_, _ = fmt.Fprintf(w, "Statystyki aktywności zawodowej: %s\n", strings.Join(glyphs, " "))

	_, _ = fmt.Fprintf(w, "Podsumowanie:\n")
	for _, share := range s.shares() {
		_, _ = p.Fprintf(w, "  %-32s | %3d%%\n", share.Label, share.Percent)
	}

	_, _ = fmt.Fprintf(w, "Analiza emerytury (wiek %s, wynagrodzenie %s zł, lata %s-%s):\n",
		s.Form.Age, s.Form.Salary, s.Form.StartYear, s.Form.EndYear)
	for _, slice := range s.Slices {
		_, _ = p.Fprintf(w, "  %-32s | %3d%% | ~%d %s\n", slice.Label, slice.Percent, slice.Amount, constants.CurrencySymbol)
	}

	if len(s.Offers) > 0 {
		_, _ = fmt.Fprintf(w, "%s\n", pension.OffersHeading)
		for _, offer := range s.Offers {
			_, _ = fmt.Fprintf(w, "  %-9s | %s\n", offer.Label(), offer.Notice())
		}
	}
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(w io.Writer, s Snapshot) {
	_, _ = fmt.Fprintf(w, `"section","label","value","amount"`+"\n")
	_, _ = fmt.Fprintf(w, `"amount","target","","%d"`+"\n", s.Amount)
	for i, icon := range s.Icons {
		_, _ = fmt.Fprintf(w, `"icon","%d","%s",""`+"\n", i+1, icon)
	}
	for _, share := range s.shares() {
		_, _ = fmt.Fprintf(w, `"summary","%s","%d",""`+"\n", share.Label, share.Percent)
	}
	for _, slice := range s.Slices {
		_, _ = fmt.Fprintf(w, `"breakdown","%s","%d","%d"`+"\n", slice.Label, slice.Percent, slice.Amount)
	}
	for _, offer := range s.Offers {
		_, _ = fmt.Fprintf(w, `"offer","%s","%s",""`+"\n", offer.Label(), offer.Notice())
	}
}
