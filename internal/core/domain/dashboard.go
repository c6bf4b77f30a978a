package domain

import (
	"time"

	"github.com/berfenger/solardash/pkg/trend"
)

const (
	LOCATION_LOADING        = "Loading..."
	LOCATION_UNKNOWN        = "Unknown"
	LOCATION_ERROR_LOCATE   = "Error getting location"
	LOCATION_ERROR_GEOCODE  = "Error fetching location"
	WEATHER_LOADING         = "Loading..."
	WEATHER_ERROR           = "Error fetching weather"
	WEATHER_NO_DESCRIPTION  = "No description available"
	OPENWEATHER_ICON_URLFMT = "http://openweathermap.org/img/wn/%s.png"
	TIME_TO_CHARGE_UNKNOWN  = "--:--"
)

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type ForecastEntry struct {
	At           time.Time
	Main         string
	Description  string
	Icon         string
	TemperatureC float64
}

type ForecastSlot struct {
	At           time.Time `json:"at"`
	Description  string    `json:"description"`
	Icon         string    `json:"icon,omitempty"`
	IconURL      string    `json:"icon_url,omitempty"`
	TemperatureC float64   `json:"temperature"`
}

type Outlook struct {
	Current  *ForecastSlot `json:"current"`
	Today    *ForecastSlot `json:"today"`
	Tomorrow *ForecastSlot `json:"tomorrow"`
}

type WeatherView struct {
	Status  string  `json:"status,omitempty"`
	Outlook Outlook `json:"outlook"`
}

type Dashboard struct {
	LastUpdated    *time.Time  `json:"last_updated"`
	SolarPowerKW   *float64    `json:"solar_power_kw"`
	BatteryCharge  *float64    `json:"battery_charge"`
	GridOn         *bool       `json:"grid_on"`
	InputVoltage   *float64    `json:"input_voltage"`
	TimeToCharge   string      `json:"time_to_charge"`
	EnergyToday    float64     `json:"energy_today_kwh"`
	BridgeOnline   bool        `json:"bridge_online"`
	InverterState  string      `json:"inverter_state,omitempty"`
	Location       string      `json:"location"`
	Weather        WeatherView `json:"weather"`
	WeatherUpdated *time.Time  `json:"weather_updated,omitempty"`
	// today's generation per hour
	Usage trend.ChartData `json:"usage"`
}

type SystemInfo struct {
	ModelName       string `json:"model_name"`
	Rating          string `json:"rating"`
	SerialNumber    string `json:"serial_number"`
	ChargingProfile string `json:"charging_profile"`
	ChargingCurrent string `json:"charging_current"`
	Version         string `json:"version"`
	// IANA zone the server evaluates "today" in
	TimeZone string `json:"timezone"`
}

// DashboardRequest

type DashboardRequest interface {
	ActorRequest
	DashboardCommand() string
}

type DashboardRequestMixIn struct {
	ActorRequestMixIn
}

func (r DashboardRequestMixIn) DashboardCommand() string {
	return "dashboard"
}

type GetDashboardRequest struct {
	DashboardRequestMixIn
}

type GetDashboardResponse struct {
	ActorResponseMixIn
	Dashboard Dashboard
}

type RefreshWeatherRequest struct {
	DashboardRequestMixIn
}

type RefreshWeatherResponse struct {
	ActorResponseMixIn
	Sequence uint64
}

// ensure interface compliance
var _ DashboardRequest = (*GetDashboardRequest)(nil)
var _ DashboardRequest = (*RefreshWeatherRequest)(nil)
