package trend

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func weekSeries() Series {
	return Series{
		Labels: []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
		Values: []float64{1.2, 1.3, 1.4, 1.1, 1.5, 1.6, 1.7},
	}
}

func TestWeekTotalAndAverage(t *testing.T) {

	assert := assert.New(t)

	s := weekSeries()
	assert.Equal("9.80", FormatAmount(Total(s)))
	// 7 samples over a week: divisor is 1
	assert.Equal("9.80", FormatAmount(Average(s, RANGE_WEEK)))
	assert.InDelta(Total(s), Average(s, RANGE_WEEK), 1e-9)
}

func TestAverageDivisors(t *testing.T) {

	assert := assert.New(t)

	s := Series{Labels: []string{"a", "b", "c"}, Values: []float64{1, 2, 3}}

	assert.InDelta(2.0, Average(s, RANGE_TODAY), 1e-9)
	assert.InDelta(2.0, Average(s, RANGE_CUSTOM), 1e-9)
	assert.InDelta(6.0/(3.0/7), Average(s, RANGE_WEEK), 1e-9)
	assert.InDelta(6.0/(3.0/30), Average(s, RANGE_MONTH), 1e-9)
	assert.InDelta(6.0/(3.0/365), Average(s, RANGE_YEAR), 1e-9)
}

func TestEmptySeriesAveragesToZero(t *testing.T) {

	empty := Series{}
	for _, r := range AllRanges() {
		assert.Equal(t, "0.00", FormatAmount(Average(empty, r)), "range %s", r)
	}
	assert.Equal(t, "0.00", FormatAmount(Total(empty)))
	assert.Equal(t, "0.00", FormatAmount(DailyAverage(empty, DateRange{Start: MinDate, End: MinDate}, at(2024, time.March, 15))))
}

func TestDailyAverageStopsAtToday(t *testing.T) {

	assert := assert.New(t)

	now := at(2024, time.March, 10)
	month, _ := Resolve(RANGE_MONTH, now)
	s := Series{Labels: make([]string, 31), Values: make([]float64, 31)}
	s.Values[0] = 5
	s.Values[9] = 5

	// ten days elapsed in March by the 10th
	assert.InDelta(1.0, DailyAverage(s, month, now), 1e-9)
}

func TestNewSeriesValidates(t *testing.T) {

	_, err := NewSeries([]string{"a"}, []float64{1, 2})
	assert.True(t, errors.Is(err, ErrSeriesLength))

	_, err = NewSeries([]string{"a"}, []float64{-1})
	assert.True(t, errors.Is(err, ErrNegativeValue))

	s, err := NewSeries([]string{"a", "b"}, []float64{0.5, 0.25})
	assert.NoError(t, err)
	assert.Equal(t, 2, s.Len())
}

func TestFormatAmountRounds(t *testing.T) {

	assert := assert.New(t)

	assert.Equal("1.24", FormatAmount(1.2351))
	assert.Equal("0.00", FormatAmount(0))
	assert.Equal("12.00", FormatAmount(12))
}
