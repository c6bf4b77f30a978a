package weather

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/berfenger/solardash/internal/core/domain"
	"github.com/berfenger/solardash/internal/core/port"
)

const OPENWEATHERMAP_FORECAST_URL = "https://api.openweathermap.org/data/2.5/forecast"

// OpenWeatherMap reads the 5 day / 3 hour forecast.
type OpenWeatherMap struct {
	client  *http.Client
	baseURL string
	apiKey  string
	units   string
}

type owmForecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
	} `json:"list"`
}

func NewOpenWeatherMap(client *http.Client, baseURL, apiKey, units string) *OpenWeatherMap {
	if baseURL == "" {
		baseURL = OPENWEATHERMAP_FORECAST_URL
	}
	if units == "" {
		units = "metric"
	}
	return &OpenWeatherMap{
		client:  client,
		baseURL: baseURL,
		apiKey:  apiKey,
		units:   units,
	}
}

func (o *OpenWeatherMap) Forecast(ctx context.Context, coords domain.Coordinates) ([]domain.ForecastEntry, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	query.Set("appid", o.apiKey)
	query.Set("units", o.units)

	var resp owmForecastResponse
	if err := getJSON(ctx, o.client, o.baseURL, query, &resp); err != nil {
		return nil, err
	}

	entries := make([]domain.ForecastEntry, 0, len(resp.List))
	for _, item := range resp.List {
		entry := domain.ForecastEntry{
			At:           time.Unix(item.Dt, 0).UTC(),
			TemperatureC: o.celsius(item.Main.Temp),
		}
		if len(item.Weather) > 0 {
			entry.Main = item.Weather[0].Main
			entry.Description = item.Weather[0].Description
			entry.Icon = item.Weather[0].Icon
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (o *OpenWeatherMap) celsius(temp float64) float64 {
	switch o.units {
	case "imperial":
		return (temp - 32) * 5 / 9
	case "standard":
		return temp - 273.15
	}
	return temp
}

// ensure interface compliance
var _ port.ForecastProvider = (*OpenWeatherMap)(nil)
