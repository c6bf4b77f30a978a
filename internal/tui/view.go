package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/berfenger/solardash/pkg/trend"

	"cloud.google.com/go/civil"
	"github.com/charmbracelet/lipgloss"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

const (
	DEFAULT_WIDTH = 80
	HELP_TEXT     = "1/2 chart · t/w/m/y/c range · s/e pick dates · r reload · q quit"
	CALENDAR_HELP = "←↓↑→ move · enter pick · esc close"
)

func (m Model) View() string {
	sel := m.charts[m.active]
	view := trend.BuildView(sel.Profile(), sel.Selection(), m.series, m.now())

	var b strings.Builder
	b.WriteString(m.tabsView())
	b.WriteString("\n\n")
	b.WriteString(m.styles.header.Render(view.Header))
	b.WriteString("\n\n")
	b.WriteString(m.buttonsView(view.Buttons))
	b.WriteString("\n")
	b.WriteString(m.styles.dateText.Render(view.DateText))
	b.WriteString("\n\n")

	switch {
	case sel.CalendarVisible():
		b.WriteString(m.calendarView(sel))
	case m.loading:
		b.WriteString(m.styles.label.Render("loading..."))
	default:
		b.WriteString(m.chartView(view))
	}
	b.WriteString("\n\n")
	b.WriteString(m.detailsView(view.Details))

	if m.alert != nil {
		b.WriteString("\n\n")
		b.WriteString(m.styles.alert.Render(m.alert.Title + "\n" + m.alert.Message))
	}
	if m.status != "" {
		b.WriteString("\n\n")
		b.WriteString(m.styles.status.Render(m.status))
	}

	b.WriteString("\n\n")
	if sel.CalendarVisible() {
		b.WriteString(m.styles.help.Render(CALENDAR_HELP))
	} else {
		b.WriteString(m.styles.help.Render(HELP_TEXT))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) tabsView() string {
	tabs := make([]string, 0, len(m.charts))
	for i, sel := range m.charts {
		title := fmt.Sprintf("%d %s", i+1, sel.Profile().Metric)
		if i == m.active {
			tabs = append(tabs, m.styles.tabOn.Render(title))
		} else {
			tabs = append(tabs, m.styles.tab.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) buttonsView(buttons []trend.RangeButton) string {
	rendered := make([]string, 0, len(buttons))
	for _, button := range buttons {
		if button.Selected {
			rendered = append(rendered, m.styles.buttonOn.Render(button.Title))
		} else {
			rendered = append(rendered, m.styles.button.Render(button.Title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) chartView(view trend.View) string {
	values := view.Data.Datasets[0].Data
	if len(values) == 0 {
		return m.styles.label.Render("no data")
	}
	width := m.width
	if width <= 0 {
		width = DEFAULT_WIDTH
	}
	values = downsample(values, width-2)

	line := Sparkline(values, view.MaxValue)
	labels := view.Data.Labels
	first, last := "", ""
	if len(labels) > 0 {
		first, last = labels[0], labels[len(labels)-1]
	}
	axis := first
	if pad := len([]rune(line)) - len(first) - len(last); pad > 0 {
		axis += strings.Repeat(" ", pad) + last
	}
	peak := m.styles.label.Render("max ") + m.styles.value.Render(trend.FormatAmount(view.MaxValue)+" "+view.Unit)
	return lipgloss.JoinVertical(lipgloss.Left, peak, m.styles.chart.Render(line), m.styles.label.Render(axis))
}

func (m Model) detailsView(details trend.Details) string {
	row := func(label, value string) string {
		return m.styles.label.Render(fmt.Sprintf("%-14s", label)) + m.styles.value.Render(value)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		row("Total", details.Total),
		row("Average", details.Average),
		row("Daily average", details.DailyAverage),
	)
}

func (m Model) calendarView(sel *trend.Selector) string {
	var b strings.Builder
	title := "Pick start date"
	if sel.Phase() == trend.PHASE_PICKING_END {
		title = "Pick end date"
	}
	first := civil.Date{Year: m.cursor.Year, Month: m.cursor.Month, Day: 1}
	b.WriteString(m.styles.value.Render(fmt.Sprintf("%s · %s %d", title, m.cursor.Month, m.cursor.Year)))
	b.WriteString("\n")
	b.WriteString(m.styles.label.Render("Mo Tu We Th Fr Sa Su"))
	b.WriteString("\n")

	today := civil.DateOf(m.now())
	dates := sel.Dates()
	offset := (int(first.In(time.UTC).Weekday()) + 6) % 7
	b.WriteString(strings.Repeat("   ", offset))
	for d := first; d.Month == first.Month; d = d.AddDays(1) {
		cell := fmt.Sprintf("%2d", d.Day)
		switch {
		case d == m.cursor:
			cell = m.styles.dayOn.Render(cell)
		case d.Before(trend.MinDate) || d.After(today):
			cell = m.styles.dayOff.Render(cell)
		case dates.Contains(d):
			cell = m.styles.dayRange.Render(cell)
		default:
			cell = m.styles.day.Render(cell)
		}
		b.WriteString(cell)
		if (offset+d.Day)%7 == 0 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
	return strings.TrimRight(b.String(), " \n")
}

// Sparkline draws values as block characters scaled to peak.
func Sparkline(values []float64, peak float64) string {
	out := make([]rune, len(values))
	top := len(sparkBlocks) - 1
	for i, v := range values {
		level := 0
		if peak > 0 && v > 0 {
			level = int(v / peak * float64(top))
			if level > top {
				level = top
			}
		}
		out[i] = sparkBlocks[level]
	}
	return string(out)
}

// downsample merges neighbouring points by their maximum so the line fits width.
func downsample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		return values
	}
	out := make([]float64, width)
	for i := range out {
		from := i * len(values) / width
		to := (i + 1) * len(values) / width
		for _, v := range values[from:to] {
			if v > out[i] {
				out[i] = v
			}
		}
	}
	return out
}
