package trend

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
)

var (
	ErrSeriesLength  = errors.New("series labels and values differ in length")
	ErrNegativeValue = errors.New("series values must not be negative")
)

// Series is the data plotted on a trend chart. Labels are informational only.
type Series struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

func NewSeries(labels []string, values []float64) (Series, error) {
	s := Series{Labels: labels, Values: values}
	if err := s.Validate(); err != nil {
		return Series{}, err
	}
	return s, nil
}

func (s Series) Validate() error {
	if len(s.Labels) != len(s.Values) {
		return fmt.Errorf("%w: %d labels, %d values", ErrSeriesLength, len(s.Labels), len(s.Values))
	}
	for i, v := range s.Values {
		if v < 0 {
			return fmt.Errorf("%w: index %d is %f", ErrNegativeValue, i, v)
		}
	}
	return nil
}

func (s Series) Len() int {
	return len(s.Values)
}

func Total(s Series) float64 {
	total := 0.0
	for _, v := range s.Values {
		total += v
	}
	return total
}

// samples per nominal period assumed by Average
func samplesPerPeriod(r RangeName) float64 {
	switch r {
	case RANGE_WEEK:
		return 7
	case RANGE_MONTH:
		return 30
	case RANGE_YEAR:
		return 365
	}
	return 1
}

// Average divides the total by count/samplesPerPeriod: per sample for today and
// custom ranges, per nominal week/month/year otherwise. An empty series averages to 0.
func Average(s Series, r RangeName) float64 {
	count := s.Len()
	if count == 0 || !r.Valid() {
		return 0
	}
	return Total(s) / (float64(count) / samplesPerPeriod(r))
}

// DailyAverage divides the total by the calendar days elapsed in the range,
// counting up to today at the latest.
func DailyAverage(s Series, dates DateRange, now time.Time) float64 {
	if s.Len() == 0 || dates.IsZero() {
		return 0
	}
	elapsed := dates
	if today := civil.DateOf(now); elapsed.End.After(today) {
		elapsed.End = today
	}
	days := elapsed.Days()
	if days <= 0 {
		return 0
	}
	return Total(s) / float64(days)
}

// FormatAmount renders a value with exactly two fractional digits.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

type Summary struct {
	Total        float64 `json:"total"`
	Average      float64 `json:"average"`
	DailyAverage float64 `json:"daily_average"`
}

func Summarize(s Series, r RangeName, dates DateRange, now time.Time) Summary {
	return Summary{
		Total:        Total(s),
		Average:      Average(s, r),
		DailyAverage: DailyAverage(s, dates, now),
	}
}
