package service

import (
	"testing"
	"time"

	"github.com/berfenger/solardash/pkg/trend"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func TestHistoryRecordAccumulatesHourly(t *testing.T) {

	assert := assert.New(t)

	h := NewMemoryHistory(time.UTC)
	assert.NoError(h.Record("generation", time.Date(2024, 3, 15, 10, 5, 0, 0, time.UTC), 0.5))
	assert.NoError(h.Record("generation", time.Date(2024, 3, 15, 10, 55, 0, 0, time.UTC), 0.25))
	assert.NoError(h.Record("generation", time.Date(2024, 3, 15, 11, 0, 0, 0, time.UTC), 1))

	dates := trend.DateRange{Start: day(2024, 3, 15), End: day(2024, 3, 15)}
	s, err := h.Series("generation", trend.RANGE_TODAY, dates)
	require.NoError(t, err)
	assert.Equal(24, s.Len())
	assert.Equal("10:00", s.Labels[10])
	assert.InDelta(0.75, s.Values[10], 1e-9)
	assert.InDelta(1.0, s.Values[11], 1e-9)
	assert.InDelta(1.75, h.Total("generation", dates), 1e-9)
	assert.Zero(h.Total("powercut", dates))
}

func TestHistoryRejectsInvalidSamples(t *testing.T) {

	assert := assert.New(t)

	h := NewMemoryHistory(time.UTC)
	assert.ErrorIs(h.Record("generation", time.Now(), -1), ErrInvalidSample)

	// before the first selectable date, silently ignored
	assert.NoError(h.Record("generation", time.Date(2021, 12, 31, 12, 0, 0, 0, time.UTC), 3))
	assert.Zero(h.Total("generation", trend.DateRange{Start: day(2021, 12, 31), End: day(2021, 12, 31)}))
}

func TestHistoryBucketsInConfiguredZone(t *testing.T) {

	assert := assert.New(t)

	loc := time.FixedZone("UTC+2", 2*60*60)
	h := NewMemoryHistory(loc)
	// 23:30 UTC is 01:30 next day in UTC+2
	assert.NoError(h.Record("generation", time.Date(2024, 3, 15, 23, 30, 0, 0, time.UTC), 2))

	assert.Zero(h.Total("generation", trend.DateRange{Start: day(2024, 3, 15), End: day(2024, 3, 15)}))
	assert.Equal(2.0, h.Total("generation", trend.DateRange{Start: day(2024, 3, 16), End: day(2024, 3, 16)}))
}

func TestHistoryWeekSeries(t *testing.T) {

	assert := assert.New(t)

	h := NewMemoryHistory(time.UTC)
	values := []float64{1.2, 1.3, 1.4, 1.1, 1.5, 1.6, 1.7}
	start := day(2024, 3, 9)
	for i, v := range values {
		d := start.AddDays(i)
		assert.NoError(h.Record("generation", d.In(time.UTC).Add(12*time.Hour), v))
	}

	dates := trend.DateRange{Start: start, End: day(2024, 3, 15)}
	s, err := h.Series("generation", trend.RANGE_WEEK, dates)
	require.NoError(t, err)
	assert.Equal([]string{"Sat", "Sun", "Mon", "Tue", "Wed", "Thu", "Fri"}, s.Labels)
	assert.Equal(values, s.Values)
	assert.Equal("9.80", trend.FormatAmount(trend.Average(s, trend.RANGE_WEEK)))
}

func TestHistoryMonthAndYearLabels(t *testing.T) {

	assert := assert.New(t)

	h := NewMemoryHistory(time.UTC)

	month, err := h.Series("generation", trend.RANGE_MONTH, trend.DateRange{Start: day(2024, 2, 1), End: day(2024, 2, 29)})
	require.NoError(t, err)
	assert.Equal(29, month.Len())
	assert.Equal("Feb 1", month.Labels[0])
	assert.Equal("Feb 29", month.Labels[28])

	year, err := h.Series("generation", trend.RANGE_YEAR, trend.DateRange{Start: day(2023, 1, 1), End: day(2023, 12, 31)})
	require.NoError(t, err)
	assert.Equal(365, year.Len())
	assert.Equal("Jan", year.Labels[0])
	assert.Equal("", year.Labels[1])
	assert.Equal("Feb", year.Labels[31])
	assert.NoError(year.Validate())
}

func TestHistoryEmptyRange(t *testing.T) {

	assert := assert.New(t)

	h := NewMemoryHistory(time.UTC)
	_, err := h.Series("generation", trend.RANGE_CUSTOM, trend.DateRange{})
	assert.ErrorIs(err, ErrEmptyRange)
	_, err = h.Series("generation", trend.RANGE_CUSTOM, trend.DateRange{Start: day(2024, 3, 2), End: day(2024, 3, 1)})
	assert.ErrorIs(err, ErrEmptyRange)
}
