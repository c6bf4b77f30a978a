package service

import (
	"fmt"
	"slices"
	"time"

	"github.com/berfenger/solardash/internal/core/domain"

	"cloud.google.com/go/civil"
)

// SelectOutlook picks the current, today and tomorrow slots by timestamp:
// current is the entry closest to now, today and tomorrow the entries of those
// local dates closest to midday.
func SelectOutlook(entries []domain.ForecastEntry, now time.Time, loc *time.Location) domain.Outlook {
	if loc == nil {
		loc = time.Local
	}
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b domain.ForecastEntry) int {
		return a.At.Compare(b.At)
	})

	today := civil.DateOf(now.In(loc))
	tomorrow := today.AddDays(1)

	return domain.Outlook{
		Current:  slotOf(closest(sorted, now, nil)),
		Today:    slotOf(closest(sorted, midday(today, loc), onDate(today, loc))),
		Tomorrow: slotOf(closest(sorted, midday(tomorrow, loc), onDate(tomorrow, loc))),
	}
}

func midday(d civil.Date, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, loc)
}

func onDate(d civil.Date, loc *time.Location) func(domain.ForecastEntry) bool {
	return func(e domain.ForecastEntry) bool {
		return civil.DateOf(e.At.In(loc)) == d
	}
}

func closest(entries []domain.ForecastEntry, target time.Time, filter func(domain.ForecastEntry) bool) *domain.ForecastEntry {
	var best *domain.ForecastEntry
	var bestDiff time.Duration
	for i := range entries {
		e := &entries[i]
		if filter != nil && !filter(*e) {
			continue
		}
		diff := e.At.Sub(target)
		if diff < 0 {
			diff = -diff
		}
		if best == nil || diff < bestDiff {
			best = e
			bestDiff = diff
		}
	}
	return best
}

func slotOf(e *domain.ForecastEntry) *domain.ForecastSlot {
	if e == nil {
		return nil
	}
	slot := &domain.ForecastSlot{
		At:           e.At,
		Description:  e.Description,
		Icon:         e.Icon,
		TemperatureC: e.TemperatureC,
	}
	if slot.Description == "" {
		slot.Description = domain.WEATHER_NO_DESCRIPTION
	}
	if e.Icon != "" {
		slot.IconURL = fmt.Sprintf(domain.OPENWEATHER_ICON_URLFMT, e.Icon)
	}
	return slot
}
