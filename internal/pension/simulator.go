package pension

import (
	"fmt"

	"github.com/iwvelando/zus-calculator/pkg/constants"
	"github.com/iwvelando/zus-calculator/pkg/mathutil"
)

// OptionsRevealDelay separates a successful simulation from the offers.
const OptionsRevealDelay = constants.OptionsRevealDelay

// Field names one input of the simulator form.
type Field int

// Form inputs, in display order.
const (
	FieldAge Field = iota
	FieldCategory
	FieldSalary
	FieldStartYear
	FieldEndYear
)

// Fields lists the form inputs in display order.
var Fields = []Field{FieldAge, FieldCategory, FieldSalary, FieldStartYear, FieldEndYear}

// Key is the field's form and JSON name.
func (f Field) Key() string {
	switch f {
	case FieldAge:
		return "age"
	case FieldCategory:
		return "category"
	case FieldSalary:
		return "salary"
	case FieldStartYear:
		return "startYear"
	case FieldEndYear:
		return "endYear"
	}
	return fmt.Sprintf("field(%d)", int(f))
}

// Label is the field's caption.
func (f Field) Label() string {
	switch f {
	case FieldAge:
		return "Wiek"
	case FieldCategory:
		return "Płeć"
	case FieldSalary:
		return "Wynagrodzenie (zł)"
	case FieldStartYear:
		return "Rok rozpoczęcia pracy"
	case FieldEndYear:
		return "Planowany rok zakończenia aktywności zawodowej"
	}
	return f.Key()
}

// Placeholder is the hint shown in an empty field.
func (f Field) Placeholder() string {
	switch f {
	case FieldAge:
		return "np. 35"
	case FieldCategory:
		return "Wybierz płeć"
	case FieldSalary:
		return "np. 6500"
	case FieldStartYear:
		return "np. 2010"
	case FieldEndYear:
		return "np. 2055"
	}
	return ""
}

// ParseField maps a form name back to its Field.
func ParseField(key string) (Field, error) {
	for _, f := range Fields {
		if f.Key() == key {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown field %q", key)
}

// CategoryOption is one entry of the category select.
type CategoryOption struct {
	Value string
	Label string
}

// CategoryOptions lists the select's entries.
var CategoryOptions = []CategoryOption{
	{Value: "male", Label: "Mężczyzna"},
	{Value: "female", Label: "Kobieta"},
}

// Form holds the simulator inputs as typed; nothing is validated.
type Form struct {
	Age       string `json:"age"`
	Category  string `json:"category"`
	Salary    string `json:"salary"`
	StartYear string `json:"startYear"`
	EndYear   string `json:"endYear"`
}

// SampleForm is the record "POBIERZ DANE" fills in.
func SampleForm() Form {
	return Form{
		Age:       "35",
		Category:  "male",
		Salary:    "6500",
		StartYear: "2010",
		EndYear:   "2055",
	}
}

// Get returns the value of field.
func (f Form) Get(field Field) string {
	if p := f.ref(field); p != nil {
		return *p
	}
	return ""
}

// Set replaces the value of field.
func (f *Form) Set(field Field, value string) {
	if p := f.ref(field); p != nil {
		*p = value
	}
}

func (f *Form) ref(field Field) *string {
	switch field {
	case FieldAge:
		return &f.Age
	case FieldCategory:
		return &f.Category
	case FieldSalary:
		return &f.Salary
	case FieldStartYear:
		return &f.StartYear
	case FieldEndYear:
		return &f.EndYear
	}
	return nil
}

// Complete reports whether every field is non-empty.
func (f Form) Complete() bool {
	return f.Age != "" && f.Category != "" && f.Salary != "" && f.StartYear != "" && f.EndYear != ""
}

// Phase is the simulator's progress within one mount.
type Phase int

const (
	// PhaseIdle waits for a simulation.
	PhaseIdle Phase = iota
	// PhaseSimulated shows results while the offers are pending.
	PhaseSimulated
	// PhaseOptionsShown shows results and offers.
	PhaseOptionsShown
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSimulated:
		return "simulated"
	case PhaseOptionsShown:
		return "options-shown"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Slice is one segment of the results pie chart.
type Slice struct {
	Label   string
	Percent int
	Amount  int // share of the target pension, rounded to whole złoty
}

// Pie chart labels.
const (
	GapLabel   = "Brakuje do celu"
	SavedLabel = "Już masz"
)

// Simulator is the local state of the simulator screen.
type Simulator struct {
	amount int
	form   Form
	phase  Phase
}

// NewSimulator returns the state of a freshly mounted simulator for amount.
func NewSimulator(amount int) *Simulator {
	return &Simulator{amount: amount}
}

// Amount returns the target pension the simulator was mounted with.
func (s *Simulator) Amount() int { return s.amount }

// Form returns the inputs as typed.
func (s *Simulator) Form() Form { return s.form }

// Phase returns the progress within this mount.
func (s *Simulator) Phase() Phase { return s.phase }

// ResultsVisible reports whether the pie chart is shown.
func (s *Simulator) ResultsVisible() bool { return s.phase >= PhaseSimulated }

// OptionsVisible reports whether the offer buttons are shown.
func (s *Simulator) OptionsVisible() bool { return s.phase == PhaseOptionsShown }

// CanSimulate reports whether "Zasymuluj" is enabled.
func (s *Simulator) CanSimulate() bool { return s.form.Complete() }

// SetField stores value as typed.
func (s *Simulator) SetField(field Field, value string) {
	s.form.Set(field, value)
}

// PopulateSample overwrites the whole form with SampleForm.
func (s *Simulator) PopulateSample() {
	s.form = SampleForm()
}

// Simulate shows the results when every field is filled. It reports true
// only on the first success of this mount; the caller then schedules
// RevealOptions after OptionsRevealDelay.
func (s *Simulator) Simulate() bool {
	if !s.form.Complete() || s.phase != PhaseIdle {
		return false
	}
	s.phase = PhaseSimulated
	return true
}

// RevealOptions shows the offers. It reports whether anything changed.
func (s *Simulator) RevealOptions() bool {
	if s.phase != PhaseSimulated {
		return false
	}
	s.phase = PhaseOptionsShown
	return true
}

// Breakdown returns the pie chart slices. The split is fixed; only the
// amounts follow the target pension.
func (s *Simulator) Breakdown() []Slice {
	return []Slice{
		{Label: GapLabel, Percent: 60, Amount: mathutil.RoundedShare(s.amount, 60)},
		{Label: SavedLabel, Percent: 40, Amount: mathutil.RoundedShare(s.amount, 40)},
	}
}

// Offer is one of the informational buttons shown after a simulation.
type Offer int

// Offer buttons.
const (
	OfferIKE Offer = iota
	OfferPPK
	OfferBonds
)

// Offers lists the buttons in display order.
var Offers = []Offer{OfferIKE, OfferPPK, OfferBonds}

// OffersHeading introduces the buttons.
const OffersHeading = "Czy wiesz jak zwiększyć swoją emeryturę?"

// Label is the button caption.
func (o Offer) Label() string {
	switch o {
	case OfferIKE:
		return "IKE"
	case OfferPPK:
		return "PPK"
	case OfferBonds:
		return "Obligacje"
	}
	return fmt.Sprintf("offer(%d)", int(o))
}

// Notice is the text of the blocking notification the button opens.
func (o Offer) Notice() string {
	switch o {
	case OfferIKE:
		return "Informacje o IKE - Indywidualnym Koncie Emerytalnym"
	case OfferPPK:
		return "Informacje o PPK - Pracowniczych Planach Kapitałowych"
	case OfferBonds:
		return "Informacje o obligacjach skarbowych"
	}
	return ""
}

// ParseOffer maps a button caption back to its Offer.
func ParseOffer(label string) (Offer, error) {
	for _, o := range Offers {
		if o.Label() == label {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown offer %q", label)
}
