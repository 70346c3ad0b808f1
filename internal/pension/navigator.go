package pension

import (
	"errors"
	"fmt"
)

// Page identifies the screen currently displayed.
type Page int

const (
	// PageCalculator is the amount input shown on start.
	PageCalculator Page = iota
	// PageDashboard is the activity dashboard.
	PageDashboard
	// PageSimulator is the pension simulator.
	PageSimulator
)

func (p Page) String() string {
	switch p {
	case PageCalculator:
		return "calculator"
	case PageDashboard:
		return "dashboard"
	case PageSimulator:
		return "simulator"
	}
	return fmt.Sprintf("page(%d)", int(p))
}

// ErrNoTransition is returned when an action is not available on the
// displayed screen.
var ErrNoTransition = errors.New("no such transition")

// LeaveFunc is called with the page being left and its mount generation,
// before the next screen mounts.
type LeaveFunc func(page Page, generation uint64)

// Navigator owns the pension amount and the displayed page. It mounts fresh
// local state for the dashboard and simulator every time they are entered.
// It is not safe for concurrent use.
type Navigator struct {
	page       Page
	amount     int
	generation uint64
	dashboard  *Dashboard
	simulator  *Simulator
	onLeave    []LeaveFunc
}

// NewNavigator starts on the calculator with the default amount.
func NewNavigator() *Navigator {
	return &Navigator{
		page:       PageCalculator,
		amount:     DefaultAmount,
		generation: 1,
	}
}

// OnLeave registers fn to run whenever a screen is left.
func (n *Navigator) OnLeave(fn LeaveFunc) {
	n.onLeave = append(n.onLeave, fn)
}

// Page returns the displayed page.
func (n *Navigator) Page() Page { return n.page }

// Amount returns the target pension.
func (n *Navigator) Amount() int { return n.amount }

// Generation identifies the current mount of the displayed screen.
func (n *Navigator) Generation() uint64 { return n.generation }

// Dashboard returns the mounted dashboard, or nil when another page is displayed.
func (n *Navigator) Dashboard() *Dashboard {
	if n.page != PageDashboard {
		return nil
	}
	return n.dashboard
}

// Simulator returns the mounted simulator, or nil when another page is displayed.
func (n *Navigator) Simulator() *Simulator {
	if n.page != PageSimulator {
		return nil
	}
	return n.simulator
}

// SetFromSlider sets the amount from the slider.
func (n *Navigator) SetFromSlider(value int) error {
	if err := n.require(PageCalculator, "slider"); err != nil {
		return err
	}
	n.amount = ClampAmount(value)
	return nil
}

// SetFromText sets the amount from the numeric field. Unparsable text reads
// as 0 and is clamped like any other value.
func (n *Navigator) SetFromText(raw string) error {
	if err := n.require(PageCalculator, "text"); err != nil {
		return err
	}
	n.amount = ParseAmount(raw)
	return nil
}

// Check confirms the amount and opens the dashboard.
func (n *Navigator) Check() error {
	if err := n.require(PageCalculator, "check"); err != nil {
		return err
	}
	n.mount(PageDashboard)
	return nil
}

// Next opens the simulator from the dashboard.
func (n *Navigator) Next() error {
	if err := n.require(PageDashboard, "next"); err != nil {
		return err
	}
	n.mount(PageSimulator)
	return nil
}

// Back returns to the previous screen.
func (n *Navigator) Back() error {
	switch n.page {
	case PageDashboard:
		n.mount(PageCalculator)
	case PageSimulator:
		n.mount(PageDashboard)
	default:
		return fmt.Errorf("%w: back from %s", ErrNoTransition, n.page)
	}
	return nil
}

// RevealOptions runs the delayed reveal scheduled by a successful
// simulation. It reports false and changes nothing when the simulator that
// scheduled it, identified by generation, is no longer displayed.
func (n *Navigator) RevealOptions(generation uint64) bool {
	if n.page != PageSimulator || generation != n.generation {
		return false
	}
	return n.simulator.RevealOptions()
}

func (n *Navigator) require(page Page, action string) error {
	if n.page != page {
		return fmt.Errorf("%w: %s on %s", ErrNoTransition, action, n.page)
	}
	return nil
}

func (n *Navigator) mount(page Page) {
	for _, fn := range n.onLeave {
		fn(n.page, n.generation)
	}

	n.dashboard = nil
	n.simulator = nil
	switch page {
	case PageDashboard:
		n.dashboard = NewDashboard()
	case PageSimulator:
		n.simulator = NewSimulator(n.amount)
	}
	n.page = page
	n.generation++
}
