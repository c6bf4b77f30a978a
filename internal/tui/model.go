package tui

import (
	"context"
	"errors"
	"time"

	"github.com/berfenger/solardash/pkg/trend"

	"cloud.google.com/go/civil"
	tea "github.com/charmbracelet/bubbletea"
)

const FETCH_TIMEOUT = 10 * time.Second

type seriesMsg struct {
	seq    int
	chart  string
	series trend.Series
	err    error
}

// ClockIn reads the wall clock in loc, so "today" matches the server's calendar.
func ClockIn(loc *time.Location) func() time.Time {
	return func() time.Time { return time.Now().In(loc) }
}

// Model renders the trend charts and drives one trend.Selector per chart.
type Model struct {
	fetcher SeriesFetcher
	now     func() time.Time
	styles  styles

	charts []*trend.Selector
	active int

	series  trend.Series
	loading bool
	seq     int
	status  string

	cursor civil.Date
	alert  *trend.InvalidDateError

	width int
}

// ensure interface compliance
var _ tea.Model = Model{}

// NewModel builds the client with every known chart. chart picks the one shown first.
func NewModel(fetcher SeriesFetcher, chart string, now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}
	m := Model{
		fetcher: fetcher,
		now:     now,
		styles:  defaultStyles(),
		loading: true,
	}
	for i, profile := range trend.Profiles() {
		m.charts = append(m.charts, trend.NewSelector(profile, now))
		if profile.Id == chart {
			m.active = i
		}
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return m.fetchCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case seriesMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.series = trend.Series{}
			m.status = msg.err.Error()
			return m, nil
		}
		m.series = msg.series
		m.status = ""
		return m, nil
	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	// the alert blocks everything until acknowledged
	if m.alert != nil {
		if key == "enter" || key == "esc" {
			m.alert = nil
		}
		return m, nil
	}

	sel := m.selector()
	if sel.CalendarVisible() {
		return m.updateCalendar(key)
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "1", "2":
		idx := int(key[0] - '1')
		if idx < len(m.charts) && idx != m.active {
			m.active = idx
			cmd := m.refetch()
			return m, cmd
		}
	case "tab":
		m.active = (m.active + 1) % len(m.charts)
		cmd := m.refetch()
		return m, cmd
	case "t":
		return m.selectRange(trend.RANGE_TODAY)
	case "w":
		return m.selectRange(trend.RANGE_WEEK)
	case "m":
		return m.selectRange(trend.RANGE_MONTH)
	case "y":
		return m.selectRange(trend.RANGE_YEAR)
	case "c":
		return m.selectRange(trend.RANGE_CUSTOM)
	case "s":
		return m.openPicker(trend.PHASE_PICKING_START)
	case "e":
		return m.openPicker(trend.PHASE_PICKING_END)
	case "r":
		cmd := m.refetch()
		return m, cmd
	}
	return m, nil
}

func (m Model) updateCalendar(key string) (tea.Model, tea.Cmd) {
	sel := m.selector()
	switch key {
	case "q":
		return m, tea.Quit
	case "left", "h":
		m.cursor = m.cursor.AddDays(-1)
	case "right", "l":
		m.cursor = m.cursor.AddDays(1)
	case "up", "k":
		m.cursor = m.cursor.AddDays(-7)
	case "down", "j":
		m.cursor = m.cursor.AddDays(7)
	case "esc":
		sel.Dismiss()
	case "enter":
		err := sel.Pick(m.cursor)
		var invalid *trend.InvalidDateError
		switch {
		case errors.As(err, &invalid):
			m.alert = invalid
		case err != nil:
			m.status = err.Error()
		case sel.Phase() == trend.PHASE_PICKING_END:
			m.cursor = sel.Dates().Start
		case sel.Phase() == trend.PHASE_NONE:
			cmd := m.refetch()
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) selectRange(r trend.RangeName) (tea.Model, tea.Cmd) {
	if err := m.selector().Select(r); err != nil {
		m.status = err.Error()
		return m, nil
	}
	cmd := m.refetch()
	return m, cmd
}

func (m Model) openPicker(phase trend.Phase) (tea.Model, tea.Cmd) {
	sel := m.selector()
	if err := sel.OpenPicker(phase); err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.status = ""
	if phase == trend.PHASE_PICKING_START {
		m.cursor = sel.Dates().Start
	} else {
		m.cursor = sel.Dates().End
	}
	if !m.cursor.IsValid() {
		m.cursor = civil.DateOf(m.now())
	}
	return m, nil
}

func (m *Model) selector() *trend.Selector {
	return m.charts[m.active]
}

// refetch invalidates any request in flight and asks for the current selection.
func (m *Model) refetch() tea.Cmd {
	m.seq++
	m.loading = true
	m.status = ""
	return m.fetchCmd()
}

func (m Model) fetchCmd() tea.Cmd {
	sel := m.charts[m.active]
	seq := m.seq
	chart := sel.Profile().Id
	r := sel.Range()
	dates := sel.Dates()
	fetcher := m.fetcher
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), FETCH_TIMEOUT)
		defer cancel()
		series, err := fetcher.Series(ctx, chart, r, dates)
		return seriesMsg{seq: seq, chart: chart, series: series, err: err}
	}
}

// Selection exposes the state of the visible chart.
func (m Model) Selection() trend.Selection {
	return m.charts[m.active].Selection()
}

func (m Model) Chart() string {
	return m.charts[m.active].Profile().Id
}
