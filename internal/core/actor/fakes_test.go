package actor

import (
	"context"
	"time"

	"github.com/berfenger/solardash/internal/core/domain"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time {
	return testNow
}

type fakeLocator struct {
	coords domain.Coordinates
	err    error
	block  bool
}

func (f fakeLocator) Locate(ctx context.Context) (domain.Coordinates, error) {
	if f.block {
		<-ctx.Done()
		return domain.Coordinates{}, ctx.Err()
	}
	return f.coords, f.err
}

type fakeGeocoder struct {
	locality string
	err      error
}

func (f fakeGeocoder) Locality(context.Context, domain.Coordinates) (string, error) {
	return f.locality, f.err
}

type fakeForecast struct {
	entries []domain.ForecastEntry
	err     error
}

func (f fakeForecast) Forecast(context.Context, domain.Coordinates) ([]domain.ForecastEntry, error) {
	return f.entries, f.err
}

func okWeatherPorts() WeatherPorts {
	return WeatherPorts{
		Locator:  fakeLocator{coords: domain.Coordinates{Latitude: 40.4, Longitude: -3.7}},
		Geocoder: fakeGeocoder{locality: "Madrid"},
		Forecast: fakeForecast{entries: []domain.ForecastEntry{
			{At: testNow.Add(time.Hour), Description: "few clouds", Icon: "02d", TemperatureC: 18},
			{At: testNow.Add(24 * time.Hour), Description: "light rain", Icon: "10d", TemperatureC: 14},
		}},
	}
}
