package util

import (
	"github.com/berfenger/solardash/internal/config"

	"go.uber.org/zap"
)

func LoadTestConfig() config.Config {
	return config.Config{
		LogLevel: zap.DebugLevel,
		TimeZone: "UTC",
		MQTT: config.MQTTConfig{
			Host:        "localhost",
			Port:        1883,
			BaseTopic:   "frostnews",
			ClientTopic: "solardash",
		},
		Weather: config.WeatherConfig{
			Units:                 "metric",
			Latitude:              40.4168,
			Longitude:             -3.7038,
			FixedLocation:         true,
			RefreshIntervalMillis: 600000,
			LocateTimeoutMillis:   15000,
			LocationMaxAgeMillis:  10000,
			RequestTimeoutMillis:  5000,
		},
		Grid: config.GridConfig{
			OutageVoltage: 100,
		},
		Trends: config.TrendsConfig{
			SessionTTLMillis:        3600000,
			MaxIntegrationGapMillis: 300000,
		},
		System: config.SystemConfig{
			ModelName:       "Hybrid 5K",
			Rating:          "5 kW",
			SerialNumber:    "SN-0001",
			ChargingProfile: "Solar first",
			ChargingCurrent: "30 A",
		},
		Port: 8080,
	}
}
