package trend

import (
	"fmt"
	"strconv"
	"time"
)

const PLACEHOLDER_DATE_TEXT = "Select Date Range"

func monthAbbrev(m time.Month) string {
	return m.String()[:3]
}

func HeaderText(metric string, r RangeName, now time.Time) string {
	switch r {
	case RANGE_TODAY:
		return fmt.Sprintf("Today's %s Energy", metric)
	case RANGE_WEEK:
		return fmt.Sprintf("Weekly %s Energy", metric)
	case RANGE_MONTH:
		return fmt.Sprintf("%s Energy for %s", metric, monthAbbrev(now.Month()))
	case RANGE_YEAR:
		return fmt.Sprintf("%s Energy for %d", metric, now.Year())
	case RANGE_CUSTOM:
		return fmt.Sprintf("Custom Range %s Energy", metric)
	}
	return fmt.Sprintf("%s Energy", metric)
}

func DateText(r RangeName, dates DateRange, now time.Time) string {
	switch r {
	case RANGE_WEEK:
		return fmt.Sprintf("%s - %s", dates.Start, dates.End)
	case RANGE_MONTH:
		return monthAbbrev(now.Month())
	case RANGE_YEAR:
		return strconv.Itoa(now.Year())
	}
	if dates.Start.IsValid() {
		return dates.Start.String()
	}
	return PLACEHOLDER_DATE_TEXT
}

type Dataset struct {
	Data []float64 `json:"data"`
}

// ChartData is the payload consumed by line chart widgets.
type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

func (s Series) Chart() ChartData {
	labels := s.Labels
	if labels == nil {
		labels = []string{}
	}
	values := s.Values
	if values == nil {
		values = []float64{}
	}
	return ChartData{
		Labels:   labels,
		Datasets: []Dataset{{Data: values}},
	}
}

type RangeButton struct {
	Range    RangeName `json:"range"`
	Title    string    `json:"title"`
	Selected bool      `json:"selected"`
}

type Details struct {
	Total        string `json:"total"`
	Average      string `json:"average"`
	DailyAverage string `json:"daily_average"`
}

// View is everything a client needs to draw one trend chart.
type View struct {
	Chart      string        `json:"chart"`
	Header     string        `json:"header"`
	DateText   string        `json:"date_text"`
	Unit       string        `json:"unit"`
	Buttons    []RangeButton `json:"buttons"`
	Selection  Selection     `json:"selection"`
	Data       ChartData     `json:"data"`
	Summary    Summary       `json:"summary"`
	Details    Details       `json:"details"`
	MaxValue   float64       `json:"max_value"`
	RenderedAt time.Time     `json:"rendered_at"`
}

func withUnit(v float64, unit string) string {
	if unit == "" {
		return FormatAmount(v)
	}
	return FormatAmount(v) + " " + unit
}

func BuildView(profile Profile, sel Selection, series Series, now time.Time) View {
	buttons := make([]RangeButton, 0, len(profile.Ranges))
	for _, r := range profile.Ranges {
		buttons = append(buttons, RangeButton{
			Range:    r,
			Title:    r.Title(),
			Selected: r == sel.Range,
		})
	}

	summary := Summarize(series, sel.Range, sel.Dates, now)

	maxValue := 0.0
	for _, v := range series.Values {
		if v > maxValue {
			maxValue = v
		}
	}

	return View{
		Chart:     profile.Id,
		Header:    HeaderText(profile.Metric, sel.Range, now),
		DateText:  DateText(sel.Range, sel.Dates, now),
		Unit:      profile.Unit,
		Buttons:   buttons,
		Selection: sel,
		Data:      series.Chart(),
		Summary:   summary,
		Details: Details{
			Total:        withUnit(summary.Total, profile.Unit),
			Average:      withUnit(summary.Average, profile.Unit),
			DailyAverage: withUnit(summary.DailyAverage, profile.Unit),
		},
		MaxValue:   maxValue,
		RenderedAt: now,
	}
}
