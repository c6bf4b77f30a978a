package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	LogLevel   zapcore.Level
	TimeZone   string           `mapstructure:"timezone"`
	MQTT       MQTTConfig       `mapstructure:"mqtt"`
	Weather    WeatherConfig    `mapstructure:"weather"`
	Grid       GridConfig       `mapstructure:"grid"`
	Trends     TrendsConfig     `mapstructure:"trends"`
	System     SystemConfig     `mapstructure:"system"`
	Navigation NavigationConfig `mapstructure:"navigation"`
	Port       uint             `mapstructure:"port"`
	HttpLog    bool             `mapstructure:"http_log"`
}

type MQTTConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// topic prefix of the inverter bridge we read sensors from
	BaseTopic string `mapstructure:"base_topic"`
	// topic prefix for our own availability
	ClientTopic string `mapstructure:"client_topic"`
}

type WeatherConfig struct {
	APIKey                string  `mapstructure:"api_key"`
	Units                 string  `mapstructure:"units"`
	ForecastURL           string  `mapstructure:"forecast_url"`
	GeocodeURL            string  `mapstructure:"geocode_url"`
	LocateURL             string  `mapstructure:"locate_url"`
	Latitude              float64 `mapstructure:"latitude"`
	Longitude             float64 `mapstructure:"longitude"`
	FixedLocation         bool    `mapstructure:"fixed_location"`
	RefreshIntervalMillis uint32  `mapstructure:"refresh_interval_millis"`
	LocateTimeoutMillis   uint32  `mapstructure:"locate_timeout_millis"`
	LocationMaxAgeMillis  uint32  `mapstructure:"location_max_age_millis"`
	RequestTimeoutMillis  uint32  `mapstructure:"request_timeout_millis"`
}

type GridConfig struct {
	// below this voltage the grid is considered down
	OutageVoltage float64 `mapstructure:"outage_voltage"`
}

type TrendsConfig struct {
	SessionTTLMillis        uint32 `mapstructure:"session_ttl_millis"`
	MaxIntegrationGapMillis uint32 `mapstructure:"max_integration_gap_millis"`
}

type SystemConfig struct {
	ModelName       string `mapstructure:"model_name"`
	Rating          string `mapstructure:"rating"`
	SerialNumber    string `mapstructure:"serial_number"`
	ChargingProfile string `mapstructure:"charging_profile"`
	ChargingCurrent string `mapstructure:"charging_current"`
}

type NavigationConfig struct {
	HeaderColor string         `mapstructure:"header_color"`
	Tabs        []ScreenConfig `mapstructure:"tabs"`
	Drawer      []ScreenConfig `mapstructure:"drawer"`
}

type ScreenConfig struct {
	Name  string `mapstructure:"name"`
	Title string `mapstructure:"title"`
	Icon  string `mapstructure:"icon"`
}

func (c Config) Location() *time.Location {
	if c.TimeZone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c WeatherConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalMillis) * time.Millisecond
}

func (c WeatherConfig) LocateTimeout() time.Duration {
	return time.Duration(c.LocateTimeoutMillis) * time.Millisecond
}

func (c WeatherConfig) LocationMaxAge() time.Duration {
	return time.Duration(c.LocationMaxAgeMillis) * time.Millisecond
}

func (c WeatherConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMillis) * time.Millisecond
}

func (c TrendsConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMillis) * time.Millisecond
}

func (c TrendsConfig) MaxIntegrationGap() time.Duration {
	return time.Duration(c.MaxIntegrationGapMillis) * time.Millisecond
}

func CheckMQTTTopic(baseTopic string) (string, error) {
	// check and fix base topic
	lowerBaseTopic := strings.ToLower(baseTopic)
	baseTopicRegexp := regexp.MustCompile("^[a-z0-9_]+$")
	matches := baseTopicRegexp.FindAllStringSubmatch(lowerBaseTopic, 1)
	if len(matches) <= 0 {
		return "", errors.New("invalid topic. can only contain letters, numbers and underscores")
	}
	return lowerBaseTopic, nil
}

func CheckTimeZone(name string) error {
	if name == "" {
		return nil
	}
	_, err := time.LoadLocation(name)
	return err
}

// ParseLogLevel maps a configured level name to a zap level. Unknown names fall back to info.
func ParseLogLevel(level string) zapcore.Level {
	switch level {
	case "trace", "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	case "fatal":
		return zap.FatalLevel
	}
	return zap.InfoLevel
}

// Validate normalizes topics and checks bounds. It modifies cfg in place.
func Validate(cfg *Config) error {

	// check and fix base topic
	baseTopic, err := CheckMQTTTopic(cfg.MQTT.BaseTopic)
	if err != nil {
		return errors.New("invalid base topic. can only contain letters, numbers and underscores")
	}
	cfg.MQTT.BaseTopic = baseTopic

	clientTopic, err := CheckMQTTTopic(cfg.MQTT.ClientTopic)
	if err != nil {
		return errors.New("invalid client topic. can only contain letters, numbers and underscores")
	}
	cfg.MQTT.ClientTopic = clientTopic

	if err := CheckTimeZone(cfg.TimeZone); err != nil {
		return fmt.Errorf("config param timezone is not a known zone: %w", err)
	}

	switch cfg.Weather.Units {
	case "metric", "imperial", "standard":
	default:
		return errors.New("config param weather.units must be one of metric, imperial, standard")
	}

	// check bounds
	if cfg.Weather.FixedLocation && (cfg.Weather.Latitude < -90 || cfg.Weather.Latitude > 90 ||
		cfg.Weather.Longitude < -180 || cfg.Weather.Longitude > 180) {
		return errors.New("config params weather.latitude/longitude are out of range")
	}
	if cfg.Weather.RefreshIntervalMillis < 60000 {
		return errors.New("config param weather.refresh_interval_millis should be >= 60000")
	}
	if cfg.Weather.RequestTimeoutMillis < 1000 {
		return errors.New("config param weather.request_timeout_millis should be >= 1000")
	}
	if cfg.Trends.SessionTTLMillis < 60000 {
		return errors.New("config param trends.session_ttl_millis should be >= 60000")
	}
	if cfg.Grid.OutageVoltage < 0 {
		return errors.New("config param grid.outage_voltage should be >= 0")
	}

	return nil
}
