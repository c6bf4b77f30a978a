package trend

import (
	"encoding/json"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderText(t *testing.T) {

	assert := assert.New(t)

	now := at(2024, time.March, 15)
	assert.Equal("Today's Generation Energy", HeaderText("Generation", RANGE_TODAY, now))
	assert.Equal("Weekly Generation Energy", HeaderText("Generation", RANGE_WEEK, now))
	assert.Equal("Generation Energy for Mar", HeaderText("Generation", RANGE_MONTH, now))
	assert.Equal("Generation Energy for 2024", HeaderText("Generation", RANGE_YEAR, now))
	assert.Equal("Custom Range Generation Energy", HeaderText("Generation", RANGE_CUSTOM, now))
	assert.Equal("Generation Energy", HeaderText("Generation", RangeName(""), now))
}

func TestDateText(t *testing.T) {

	assert := assert.New(t)

	now := at(2024, time.March, 15)
	week, _ := Resolve(RANGE_WEEK, now)
	assert.Equal("2024-03-09 - 2024-03-15", DateText(RANGE_WEEK, week, now))
	assert.Equal("Mar", DateText(RANGE_MONTH, DateRange{}, now))
	assert.Equal("2024", DateText(RANGE_YEAR, DateRange{}, now))

	custom := DateRange{Start: date(2023, time.June, 2), End: date(2023, time.June, 9)}
	assert.Equal("2023-06-02", DateText(RANGE_CUSTOM, custom, now))
	assert.Equal("2024-03-15", DateText(RANGE_TODAY, DateRange{Start: civil.DateOf(now), End: civil.DateOf(now)}, now))
	assert.Equal(PLACEHOLDER_DATE_TEXT, DateText(RANGE_CUSTOM, DateRange{}, now))
}

func TestBuildView(t *testing.T) {

	assert := assert.New(t)

	now := at(2024, time.March, 15)
	s := NewSelector(GenerationProfile(), fixedClock(now))
	v := BuildView(s.Profile(), s.Selection(), weekSeries(), now)

	assert.Equal("generation", v.Chart)
	assert.Equal("Weekly Generation Energy", v.Header)
	assert.Equal("9.80 kWh", v.Details.Total)
	assert.Equal("9.80 kWh", v.Details.Average)
	assert.InDelta(1.7, v.MaxValue, 1e-9)
	assert.Len(v.Buttons, 5)
	assert.True(v.Buttons[1].Selected)
	assert.Equal("Week", v.Buttons[1].Title)
	assert.Len(v.Data.Datasets, 1)
	assert.Equal(weekSeries().Values, v.Data.Datasets[0].Data)
}

func TestViewJSON(t *testing.T) {

	now := at(2024, time.March, 15)
	s := NewSelector(PowercutProfile(), fixedClock(now))
	raw, err := json.Marshal(BuildView(s.Profile(), s.Selection(), Series{}, now))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	sel := decoded["selection"].(map[string]any)
	assert.Equal(t, "month", sel["range"])
	assert.Equal(t, "none", sel["phase"])
	assert.Equal(t, "viewing", sel["state"])
	dates := sel["dates"].(map[string]any)
	assert.Equal(t, "2024-03-01", dates["start"])
	assert.Equal(t, "2024-03-31", dates["end"])

	data := decoded["data"].(map[string]any)
	assert.Equal(t, []any{}, data["labels"])
}
