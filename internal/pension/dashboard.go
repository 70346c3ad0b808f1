package pension

import "fmt"

// IconCount is the number of person icons in the activity row.
const IconCount = 10

// activeIcon is always drawn in the active color.
const activeIcon = 2

// Category is one of the two low-activity groups on the dashboard.
type Category int

const (
	// CategoryA covers careers of at most 25 years.
	CategoryA Category = iota
	// CategoryB covers careers of at most 20 years.
	CategoryB
)

func (c Category) String() string {
	switch c {
	case CategoryA:
		return "A"
	case CategoryB:
		return "B"
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// ParseCategory accepts "A" or "B" (either case).
func ParseCategory(s string) (Category, error) {
	switch s {
	case "A", "a":
		return CategoryA, nil
	case "B", "b":
		return CategoryB, nil
	}
	return CategoryA, fmt.Errorf("unknown category %q", s)
}

// Choice is the label of the category's radio button.
func (c Category) Choice() string {
	if c == CategoryB {
		return "≤ 20 lat pracy"
	}
	return "≤ 25 lat pracy"
}

// Legend is the category's legend and summary label.
func (c Category) Legend() string {
	if c == CategoryB {
		return "Kobiety - niska aktywność"
	}
	return "Mężczyźni - niska aktywność"
}

// highlighted is how many leading icons the category colors.
func (c Category) highlighted() int {
	if c == CategoryB {
		return 6
	}
	return 4
}

// IconColor is the role an icon is drawn in; front-ends map it to a color.
type IconColor int

const (
	// IconNeutral is an icon outside every highlighted group.
	IconNeutral IconColor = iota
	// IconActive marks the professionally active share.
	IconActive
	// IconCategoryA marks the selected category A share.
	IconCategoryA
	// IconCategoryB marks the selected category B share.
	IconCategoryB
)

func (c IconColor) String() string {
	switch c {
	case IconNeutral:
		return "neutral"
	case IconActive:
		return "active"
	case IconCategoryA:
		return "category-a"
	case IconCategoryB:
		return "category-b"
	}
	return fmt.Sprintf("icon(%d)", int(c))
}

// Display strings shared by the front-ends.
const (
	ActiveLegend    = "Aktywni zawodowo"
	RemainderLegend = "Pozostali"
	BreakdownSwitch = "Pokazuj szczegóły aktywności"
	CategoryPrompt  = "Kliknij tutaj, żeby zobaczyć jak rozkładają się procenty niskiej aktywności zawodowej"
)

// Dashboard is the local state of the activity dashboard.
type Dashboard struct {
	showBreakdown bool
	category      Category
}

// NewDashboard returns the state of a freshly mounted dashboard.
func NewDashboard() *Dashboard {
	return &Dashboard{category: CategoryA}
}

// ToggleBreakdown shows or hides the category breakdown.
func (d *Dashboard) ToggleBreakdown(show bool) { d.showBreakdown = show }

// SelectCategory picks the highlighted category. It only shows while the
// breakdown is on, but is remembered either way.
func (d *Dashboard) SelectCategory(c Category) { d.category = c }

// ShowBreakdown reports whether the category breakdown is shown.
func (d *Dashboard) ShowBreakdown() bool { return d.showBreakdown }

// Category returns the selected low-activity category.
func (d *Dashboard) Category() Category { return d.category }

// IconColor returns the color role of icon i.
func (d *Dashboard) IconColor(i int) IconColor {
	if i == activeIcon {
		return IconActive
	}
	if !d.showBreakdown || i >= d.category.highlighted() {
		return IconNeutral
	}
	if d.category == CategoryB {
		return IconCategoryB
	}
	return IconCategoryA
}

// Icons returns the color role of every icon in display order.
func (d *Dashboard) Icons() []IconColor {
	icons := make([]IconColor, IconCount)
	for i := range icons {
		icons[i] = d.IconColor(i)
	}
	return icons
}

// Share is one labelled percentage of the summary.
type Share struct {
	Label   string
	Percent int
}

// Summary is the dashboard's statistics panel.
type Summary struct {
	Active    Share
	Category  *Share // nil while the breakdown is hidden
	Remainder Share
}

// Summary returns the statistics panel. The percentages are fixed figures
// keyed by the toggles.
func (d *Dashboard) Summary() Summary {
	s := Summary{
		Active:    Share{Label: ActiveLegend, Percent: 30},
		Remainder: Share{Label: RemainderLegend, Percent: 70},
	}
	if !d.showBreakdown {
		return s
	}

	switch d.category {
	case CategoryB:
		s.Category = &Share{Label: CategoryB.Legend(), Percent: 60}
		s.Remainder.Percent = 10
	default:
		s.Category = &Share{Label: CategoryA.Legend(), Percent: 40}
		s.Remainder.Percent = 30
	}
	return s
}
