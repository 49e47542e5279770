// Package tui is the interactive countdown screen.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/smokyabdulrahman/ramadan-compass/internal/countdown"
	"github.com/smokyabdulrahman/ramadan-compass/internal/fasting"
	"github.com/smokyabdulrahman/ramadan-compass/internal/shell"
)

// Options seed the screen. When a location is given it is looked up right
// away; otherwise the screen opens idle.
type Options struct {
	City      string
	Country   string
	Latitude  float64
	Longitude float64
	HasCoords bool
	Layout    string
}

type (
	// eventsMsg carries what a lookup produced. Update folds it into the
	// current state, so results never overwrite changes made while the
	// lookup was running.
	eventsMsg struct{ events []shell.Event }
	tickMsg   struct {
		target    fasting.Target
		remaining fasting.Remaining
	}
	completeMsg struct{ target fasting.Target }
)

// sender forwards presenter callbacks, which run on the ticker goroutine,
// into the program's event loop.
type sender struct {
	mu sync.Mutex
	fn func(tea.Msg)
}

func (s *sender) set(fn func(tea.Msg)) {
	s.mu.Lock()
	s.fn = fn
	s.mu.Unlock()
}

func (s *sender) send(msg tea.Msg) {
	s.mu.Lock()
	fn := s.fn
	s.mu.Unlock()
	if fn != nil {
		fn(msg)
	}
}

// App is the root Bubble Tea model.
type App struct {
	ctx    context.Context
	shell  *shell.Shell
	opts   Options
	width  int
	height int

	state     shell.State
	remaining fasting.Remaining
	presenter *countdown.Countdown
	out       *sender

	formActive bool
	form       *huh.Form
	city       *string
	country    *string

	spinner  spinner.Model
	help     help.Model
	showHelp bool
}

// NewApp creates the model. The shell performs every lookup.
func NewApp(ctx context.Context, sh *shell.Shell, opts Options) App {
	if opts.Layout == "" {
		opts.Layout = fasting.Layout24h
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	city, country := opts.City, opts.Country
	a := App{
		ctx:     ctx,
		shell:   sh,
		opts:    opts,
		out:     &sender{},
		city:    &city,
		country: &country,
		spinner: sp,
		help:    help.New(),
	}
	if opts.HasCoords || (opts.City != "" && opts.Country != "") {
		a.state = shell.Reduce(a.state, shell.LocationRequested{})
	}
	return a
}

func (a App) Init() tea.Cmd {
	if !a.state.Loading {
		return nil
	}
	var search tea.Cmd
	switch {
	case a.opts.HasCoords:
		lat, lng := a.opts.Latitude, a.opts.Longitude
		search = func() tea.Msg {
			return eventsMsg{a.shell.LookupCoordinates(a.ctx, lat, lng)}
		}
	default:
		search = a.searchCity(a.opts.City, a.opts.Country)
	}
	return tea.Batch(search, a.spinner.Tick)
}

func (a App) searchCity(city, country string) tea.Cmd {
	return func() tea.Msg {
		return eventsMsg{a.shell.LookupCity(a.ctx, city, country)}
	}
}

func (a App) locate() tea.Cmd {
	return func() tea.Msg {
		return eventsMsg{a.shell.LookupDevice(a.ctx)}
	}
}

// announce publishes a transition off the event loop; publishing may block.
func (a App) announce(reached fasting.Target, next *fasting.Target) tea.Cmd {
	return func() tea.Msg {
		a.shell.Announce(a.ctx, reached, next)
		return nil
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		if a.form != nil {
			a.form = a.form.WithWidth(formWidth(msg.Width))
		}
		return a, nil

	case eventsMsg:
		return a.apply(msg.events...)

	case tickMsg:
		if a.presenter != nil && sameTarget(msg.target, a.presenter.Target()) {
			a.remaining = msg.remaining
		}
		return a, nil

	case completeMsg:
		if a.presenter == nil || !sameTarget(msg.target, a.presenter.Target()) {
			return a, nil
		}
		var start tea.Cmd
		a, start = a.apply(shell.CountdownCompleted{At: a.now()})
		return a, tea.Batch(start, a.announce(msg.target, a.state.Next))

	case spinner.TickMsg:
		if !a.state.Loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if a.formActive {
			return a.updateForm(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			a.stopPresenter()
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case a.state.Loading:
			return a, nil
		case key.Matches(msg, keys.Search):
			return a.showForm()
		case key.Matches(msg, keys.Locate):
			a.state = shell.Reduce(a.state, shell.LocationRequested{})
			return a, tea.Batch(a.locate(), a.spinner.Tick)
		}
		return a, nil
	}

	if a.formActive {
		return a.updateForm(msg)
	}
	return a, nil
}

func (a App) showForm() (tea.Model, tea.Cmd) {
	a.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("City").
				Placeholder("e.g. London").
				Value(a.city).
				Validate(required("city")),
			huh.NewInput().
				Title("Country").
				Placeholder("e.g. UK").
				Value(a.country).
				Validate(required("country")),
		).Title("Search manually"),
	).WithShowHelp(true).WithShowErrors(true).WithWidth(formWidth(a.width))

	a.formActive = true
	return a, a.form.Init()
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, keys.Back) {
		a.formActive = false
		a.form = nil
		return a, nil
	}

	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		a.formActive = false
		a.form = nil
		city, country := strings.TrimSpace(*a.city), strings.TrimSpace(*a.country)
		if city == "" || country == "" {
			return a, nil
		}
		a.state = shell.Reduce(a.state, shell.ManualEntrySubmitted{City: city, Country: country})
		return a, tea.Batch(a.searchCity(city, country), a.spinner.Tick)
	case huh.StateAborted:
		a.formActive = false
		a.form = nil
		return a, nil
	}
	return a, cmd
}

// apply reduces events into the current state and keeps the presenter
// pointed at its next target.
func (a App) apply(events ...shell.Event) (App, tea.Cmd) {
	prev := a.state.Next
	a.state = shell.Apply(a.state, events...)
	st := a.state

	if st.Next == nil {
		a.stopPresenter()
		return a, nil
	}
	if prev != nil && a.presenter != nil && sameTarget(*prev, *st.Next) {
		return a, nil
	}
	return a, a.startPresenter(*st.Next)
}

// startPresenter replaces the running countdown. Start runs inside a command
// so its first callback is delivered through the event loop rather than
// from within Update.
func (a *App) startPresenter(target fasting.Target) tea.Cmd {
	a.stopPresenter()

	out := a.out
	p := countdown.New(target, a.shell.Clock,
		func(r fasting.Remaining) { out.send(tickMsg{target: target, remaining: r}) },
		func(t fasting.Target) { out.send(completeMsg{target: t}) },
	)
	a.presenter = p
	a.remaining = fasting.ComputeRemaining(target, a.now())

	return func() tea.Msg {
		p.Start()
		return nil
	}
}

func (a *App) stopPresenter() {
	if a.presenter != nil {
		a.presenter.Stop()
		a.presenter = nil
	}
}

func (a App) now() time.Time {
	if a.shell.Clock != nil {
		return a.shell.Clock.Now()
	}
	return time.Now()
}

func sameTarget(x, y fasting.Target) bool {
	return x.Kind == y.Kind && x.At.Equal(y.At)
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func formWidth(w int) int {
	if w <= 0 || w > 60 {
		return 60
	}
	return w - 4
}
