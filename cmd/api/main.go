package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adactor "github.com/berfenger/solardash/internal/adapter/actor"
	"github.com/berfenger/solardash/internal/adapter/weather"
	"github.com/berfenger/solardash/internal/config"
	"github.com/berfenger/solardash/internal/core/actor"
	"github.com/berfenger/solardash/internal/core/domain"
	"github.com/berfenger/solardash/internal/core/port"
	"github.com/berfenger/solardash/internal/core/service"
	"github.com/berfenger/solardash/internal/navigation"
	"github.com/berfenger/solardash/internal/server"
	"github.com/berfenger/solardash/internal/util/actorutil"

	pactor "github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *http.Server, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Println("shutting down gracefully, press Ctrl+C again to force")

	// in-flight requests get 5 seconds to finish
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	log.Println("Server exiting")

	done <- true
}

func main() {

	// load and print config
	cfg, err := initConfig()
	if err != nil {
		slog.Error("config errors", "error", err)
		return
	}
	safePrintConfig(*cfg)

	nav, err := navigation.Build(cfg.Navigation)
	if err != nil {
		slog.Error("navigation config errors", "error", err)
		return
	}

	// zap logger
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)

	logger := zap.Must(zapCfg.Build())
	defer logger.Sync()

	// init actor system
	as := actorutil.NewActorSystemWithZapLogger(logger)
	ctx := as.Root

	history := service.NewMemoryHistory(cfg.Location())

	props := pactor.PropsFromProducer(func() pactor.Actor {
		return actor.NewMasterActor(*cfg, nil, history, weatherPorts(cfg), mqttActorProvider(cfg, logger), logger)
	})
	pid, err := ctx.SpawnNamed(props, domain.ACTOR_ID_MASTER)
	if err != nil {
		logger.Error("could not spawn master actor", zap.Error(err))
		return
	}

	schedCtx, cancelSched := context.WithCancel(context.Background())
	sched, err := startRefreshScheduler(schedCtx, &refreshWeatherJob{
		rootContext: ctx,
		master:      pid,
		timeout:     server.REQUEST_TIMEOUT,
		logger:      logger.With(zap.String("job", REFRESH_JOB_NAME)),
	}, cfg.Weather.RefreshInterval())
	if err != nil {
		logger.Error("could not schedule weather refresh", zap.Error(err))
		cancelSched()
		return
	}

	apiServer := server.NewServer(*cfg, nav, ctx, pid)
	done := make(chan bool, 1)

	go gracefulShutdown(apiServer, done)

	err = apiServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		panic(fmt.Sprintf("http server error: %s", err))
	}

	<-done
	log.Println("Graceful shutdown complete.")

	sched.Stop()
	cancelSched()
	sched.Wait(context.Background())

	ctx.Stop(pid)
	as.Shutdown()
}

func initConfig() (*config.Config, error) {

	// alias PORT => SOLARDASH_PORT
	if port := os.Getenv("PORT"); port != "" {
		os.Setenv("SOLARDASH_PORT", port)
	}

	setConfigDefaults()

	viper.SetEnvPrefix("solardash")
	viper.AutomaticEnv()

	// if defined, try to load config from yaml file
	if cfgFile := os.Getenv("CONFIG_FILE"); cfgFile != "" {
		if _, err := os.Stat(cfgFile); err == nil {
			slog.Info("Using config", "file", cfgFile)
			viper.SetConfigFile(cfgFile)

			err = viper.ReadInConfig()
			if err != nil {
				slog.Error("Error reading config file", "error", err)
			}
		}
	}

	var cfg config.Config

	err := viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	cfg.LogLevel = config.ParseLogLevel(viper.GetString("log_level"))

	if err := config.Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func weatherPorts(cfg *config.Config) actor.WeatherPorts {
	client := weather.HTTPClient(cfg.Weather.RequestTimeout())

	var locator port.Locator
	if cfg.Weather.FixedLocation {
		locator = weather.StaticLocator{Coordinates: domain.Coordinates{
			Latitude:  cfg.Weather.Latitude,
			Longitude: cfg.Weather.Longitude,
		}}
	} else {
		locator = weather.NewCachedLocator(weather.NewIPLocator(client, cfg.Weather.LocateURL),
			cfg.Weather.LocationMaxAge(), time.Now)
	}

	return actor.WeatherPorts{
		Locator:  locator,
		Geocoder: weather.NewBigDataCloud(client, cfg.Weather.GeocodeURL),
		Forecast: weather.NewOpenWeatherMap(client, cfg.Weather.ForecastURL, cfg.Weather.APIKey, cfg.Weather.Units),
	}
}

func mqttActorProvider(cfg *config.Config, logger *zap.Logger) actor.MQTTActorProvider {
	if cfg.MQTT.Host == "" {
		return nil
	}
	return func(es *eventstream.EventStream) *adactor.MQTTActor {
		return adactor.NewMQTTActor(cfg, es, logger)
	}
}

func setConfigDefaults() {
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("timezone", "")
	viper.SetDefault("mqtt.port", 1883)
	viper.SetDefault("mqtt.base_topic", "frostnews")
	viper.SetDefault("mqtt.client_topic", "solardash")
	viper.SetDefault("weather.units", "metric")
	viper.SetDefault("weather.forecast_url", weather.OPENWEATHERMAP_FORECAST_URL)
	viper.SetDefault("weather.geocode_url", weather.BIGDATACLOUD_REVERSE_GEOCODE_URL)
	viper.SetDefault("weather.locate_url", weather.IPAPI_URL)
	viper.SetDefault("weather.fixed_location", false)
	viper.SetDefault("weather.refresh_interval_millis", 600000)
	viper.SetDefault("weather.locate_timeout_millis", 15000)
	viper.SetDefault("weather.location_max_age_millis", 10000)
	viper.SetDefault("weather.request_timeout_millis", 10000)
	viper.SetDefault("grid.outage_voltage", 100)
	viper.SetDefault("trends.session_ttl_millis", 3600000)
	viper.SetDefault("trends.max_integration_gap_millis", 300000)
	viper.SetDefault("navigation.header_color", navigation.DEFAULT_HEADER_COLOR)
	viper.SetDefault("port", 8080)
}

func safePrintConfig(cfg config.Config) {
	cfg.MQTT.Username = "*redacted*"
	cfg.MQTT.Password = "*redacted*"
	if cfg.Weather.APIKey != "" {
		cfg.Weather.APIKey = "*redacted*"
	}
	slog.Info("Using", "config", cfg)
}
