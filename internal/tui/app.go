// Package tui is the terminal front-end: a bubbletea program drawing the
// calculator, dashboard and simulator screens over a pension.Navigator.
package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/iwvelando/zus-calculator/internal/pension"
	"go.uber.org/zap"
)

// Options controls how the program takes over the terminal.
type Options struct {
	AltScreen bool
	Mouse     bool
}

// App is the root model. Screen sub-models are rebuilt every time the
// navigator mounts a screen.
type App struct {
	nav    *pension.Navigator
	styles Styles
	logger *zap.Logger

	calculator calculatorModel
	dashboard  dashboardModel
	simulator  simulatorModel

	notice string
	width  int
	height int
}

// NewApp returns the app showing a fresh calculator.
func NewApp(logger *zap.Logger) App {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := App{
		nav:    pension.NewNavigator(),
		styles: DefaultStyles(),
		logger: logger,
	}
	a.remount()
	return a
}

// Navigator exposes the navigation state.
func (a App) Navigator() *pension.Navigator {
	return a.nav
}

// Notice returns the open notification text, if any.
func (a App) Notice() string {
	return a.notice
}

func (a *App) remount() {
	a.notice = ""
	switch a.nav.Page() {
	case pension.PageCalculator:
		a.calculator = newCalculatorModel(a.nav.Amount())
	case pension.PageDashboard:
		a.dashboard = newDashboardModel(a.nav.Dashboard())
	case pension.PageSimulator:
		a.simulator = newSimulatorModel(a.nav.Simulator())
	}
	a.logger.Debug("screen mounted",
		zap.String("op", "tui.App.remount"),
		zap.String("page", a.nav.Page().String()),
		zap.Int("amount", a.nav.Amount()),
		zap.Uint64("generation", a.nav.Generation()),
	)
}

// editing reports whether keystrokes go to a text field.
func (a App) editing() bool {
	switch a.nav.Page() {
	case pension.PageCalculator:
		return a.calculator.editing()
	case pension.PageSimulator:
		return a.simulator.editing()
	}
	return false
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		return a, nil

	case revealMsg:
		if a.nav.RevealOptions(msg.generation) {
			a.logger.Debug("options revealed",
				zap.String("op", "tui.App.Update"),
				zap.Uint64("generation", msg.generation),
			)
		}
		return a, nil

	case noticeMsg:
		if sim := a.nav.Simulator(); sim != nil && sim.OptionsVisible() {
			a.notice = msg.offer.Notice()
		}
		return a, nil

	case tea.MouseMsg:
		return a.handleMouse(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return a, tea.Quit
	}

	// The notice blocks the screen until dismissed.
	if a.notice != "" {
		if key == "enter" || key == "esc" {
			a.notice = ""
		}
		return a, nil
	}

	if key == "q" && !a.editing() {
		return a, tea.Quit
	}

	generation := a.nav.Generation()
	var cmd tea.Cmd
	var err error
	switch a.nav.Page() {
	case pension.PageCalculator:
		a.calculator, cmd, err = a.calculator.update(msg, a.nav)
	case pension.PageDashboard:
		a.dashboard, cmd, err = a.dashboard.update(msg, a.nav)
	case pension.PageSimulator:
		a.simulator, cmd, err = a.simulator.update(msg, a.nav)
	}
	a.logAction(key, err)

	if a.nav.Generation() != generation {
		a.remount()
	}
	return a, cmd
}

// handleMouse moves the calculator slider with the wheel.
func (a App) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if a.nav.Page() != pension.PageCalculator || a.notice != "" || msg.Action != tea.MouseActionPress {
		return a, nil
	}

	var steps int
	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelRight:
		steps = 1
	case tea.MouseButtonWheelDown, tea.MouseButtonWheelLeft:
		steps = -1
	default:
		return a, nil
	}

	var err error
	a.calculator, _, err = a.calculator.slide(a.nav, steps)
	a.logAction("wheel", err)
	return a, nil
}

func (a App) logAction(key string, err error) {
	if err == nil {
		return
	}
	level := a.logger.Info
	if errors.Is(err, pension.ErrNoTransition) {
		level = a.logger.Warn
	}
	level("action ignored",
		zap.String("op", "tui.App.Update"),
		zap.String("page", a.nav.Page().String()),
		zap.String("key", key),
		zap.Error(err),
	)
}

// View implements tea.Model.
func (a App) View() string {
	header := a.styles.Header.Render("ZUS │ Akademia Przyszłego Portfela")

	if a.notice != "" {
		notice := a.styles.Notice.Render(lipgloss.JoinVertical(lipgloss.Center,
			a.notice,
			"",
			a.styles.ButtonFocused.Render("OK"),
		))
		if a.width > 0 && a.height > 0 {
			notice = lipgloss.Place(a.width, a.height-lipgloss.Height(header), lipgloss.Center, lipgloss.Center, notice)
		}
		return lipgloss.JoinVertical(lipgloss.Left, header, notice)
	}

	var body, help string
	switch a.nav.Page() {
	case pension.PageCalculator:
		body = a.calculator.view(a.nav, a.styles)
		help = "←/→ kwota ±100 zł • tab pole tekstowe • enter Sprawdź • q wyjście"
	case pension.PageDashboard:
		body = a.dashboard.view(a.nav, a.styles)
		help = "spacja szczegóły • 1/2 kategoria • enter dalej • esc powrót • q wyjście"
	case pension.PageSimulator:
		body = a.simulator.view(a.styles)
		help = "tab/shift+tab pola • ←/→ płeć • ctrl+d POBIERZ DANE • enter wybierz • i/p/o oferty • esc powrót"
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, a.styles.Help.Render(help))
}

// Run starts the terminal program and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, logger *zap.Logger, opts Options) error {
	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	if opts.Mouse {
		programOpts = append(programOpts, tea.WithMouseCellMotion())
	}

	p := tea.NewProgram(NewApp(logger), programOpts...)
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return nil
}
