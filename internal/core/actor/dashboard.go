package actor

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/berfenger/solardash/internal/config"
	"github.com/berfenger/solardash/internal/core/domain"
	"github.com/berfenger/solardash/internal/core/port"
	"github.com/berfenger/solardash/internal/core/service"
	. "github.com/berfenger/solardash/internal/util/actorutil"
	"github.com/berfenger/solardash/pkg/trend"

	"cloud.google.com/go/civil"
	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type WeatherPorts struct {
	Locator  port.Locator
	Geocoder port.Geocoder
	Forecast port.ForecastProvider
}

// DashboardActor keeps the live dashboard: latest readings from the event stream,
// accumulated history and the location/weather fields refreshed in background.
type DashboardActor struct {
	ActorWithStates
	config      *config.Config
	eventStream *eventstream.EventStream
	eventSub    *eventstream.Subscription
	history     port.History
	weather     WeatherPorts
	now         func() time.Time

	energy      service.EnergyMeter
	outage      service.OutageMeter
	dashboard   domain.Dashboard
	battery     batteryState
	refreshSeq  uint64
	locationSeq uint64
	weatherSeq  uint64

	logger *zap.Logger
}

type batteryState struct {
	maxWh       *float64
	currentWh   *float64
	chargePower *float64
}

type locationResult struct {
	seq      uint64
	locality string
}

type weatherResult struct {
	seq     uint64
	weather domain.WeatherView
	at      time.Time
}

type refreshCompleted struct {
	seq uint64
	err error
}

func NewDashboardActor(config *config.Config, eventStream *eventstream.EventStream, history port.History,
	weather WeatherPorts, now func() time.Time, logger *zap.Logger) *DashboardActor {
	if now == nil {
		loc := config.Location()
		now = func() time.Time { return time.Now().In(loc) }
	}
	act := &DashboardActor{
		ActorWithStates: NewActorWithStates(),
		config:          config,
		eventStream:     eventStream,
		history:         history,
		weather:         weather,
		now:             now,
		energy: service.EnergyMeter{
			MaxGap: config.Trends.MaxIntegrationGap(),
		},
		outage: service.OutageMeter{
			Threshold: config.Grid.OutageVoltage,
			MaxGap:    config.Trends.MaxIntegrationGap(),
		},
		dashboard: domain.Dashboard{
			TimeToCharge: domain.TIME_TO_CHARGE_UNKNOWN,
			Location:     domain.LOCATION_LOADING,
			Weather:      domain.WeatherView{Status: domain.WEATHER_LOADING},
		},
		logger: ActorLogger(domain.ACTOR_ID_DASHBOARD, logger),
	}
	act.Become(NamedState{StateName: "idle", Fn: act.IdleReceive})
	return act
}

func (state *DashboardActor) Receive(context actor.Context) {
	state.Behavior.Receive(context)
}

func (state *DashboardActor) IdleReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("dashboard@idle started")
		root := ctx.ActorSystem().Root
		self := ctx.Self()
		state.eventSub = state.eventStream.Subscribe(func(evt any) {
			if _, ok := evt.(domain.SensorReadingEvent); ok {
				root.Send(self, evt)
			}
		})
		state.startRefresh(ctx)
	case *actor.Stopping, *actor.Restarting:
		if state.eventSub != nil {
			state.eventStream.Unsubscribe(state.eventSub)
			state.eventSub = nil
		}
	case domain.ActorHealthRequest:
		state.logger.Debug("dashboard@" + state.StateName() + " ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_DASHBOARD,
			Healthy: true,
			State:   state.StateName(),
		})
	case domain.GetDashboardRequest:
		ForRequest(msg).Respond(ctx, domain.GetDashboardResponse{Dashboard: state.snapshot()})
	case domain.RefreshWeatherRequest:
		state.logger.Debug("dashboard@" + state.StateName() + " RefreshWeatherRequest")
		seq := state.startRefresh(ctx)
		ForRequest(msg).Respond(ctx, domain.RefreshWeatherResponse{Sequence: seq})
	case domain.FloatReadingEvent:
		state.onFloatReading(msg)
	case domain.TextReadingEvent:
		if msg.Id == domain.SENSOR_ID_INVERTER_OPERATING_STATE {
			state.dashboard.InverterState = msg.Value
			state.touch(msg.At)
		}
	case domain.BridgeStateEvent:
		state.dashboard.BridgeOnline = msg.Online
	case locationResult:
		if msg.seq < state.locationSeq {
			state.logger.Debug("dashboard@"+state.StateName()+" stale location dropped", zap.Uint64("seq", msg.seq))
			return
		}
		state.locationSeq = msg.seq
		state.dashboard.Location = msg.locality
	case weatherResult:
		if msg.seq < state.weatherSeq {
			state.logger.Debug("dashboard@"+state.StateName()+" stale weather dropped", zap.Uint64("seq", msg.seq))
			return
		}
		state.weatherSeq = msg.seq
		state.dashboard.Weather = msg.weather
		at := msg.at
		state.dashboard.WeatherUpdated = &at
	case refreshCompleted:
		if msg.err != nil {
			state.logger.Warn("dashboard@"+state.StateName()+" refresh failed", zap.Uint64("seq", msg.seq), zap.Error(msg.err))
		}
		if msg.seq == state.refreshSeq && state.StateName() == "refreshing" {
			state.UnbecomeStacked()
		}
	default:
		state.logger.Debug("dashboard@"+state.StateName()+" unhandled", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

// RefreshingReceive behaves as idle; it only marks a refresh in flight.
func (state *DashboardActor) RefreshingReceive(ctx actor.Context) {
	state.IdleReceive(ctx)
}

func (state *DashboardActor) onFloatReading(msg domain.FloatReadingEvent) {
	value := msg.Value
	switch msg.Id {
	case domain.SENSOR_ID_INVERTER_PV_POWER:
		kw := value / 1000
		state.dashboard.SolarPowerKW = &kw
		kwh := state.energy.Add(msg.At, value)
		if kwh > 0 {
			state.record(trend.PROFILE_GENERATION, msg.At, kwh)
		}
	case domain.SENSOR_ID_BATTERY_SOC:
		state.dashboard.BatteryCharge = &value
	case domain.SENSOR_ID_ACMETER_GRID_VOLTAGE:
		state.dashboard.InputVoltage = &value
		hours := state.outage.Add(msg.At, value)
		if hours > 0 {
			state.record(trend.PROFILE_POWERCUT, msg.At, hours)
		}
		on, _ := state.outage.GridOn()
		state.dashboard.GridOn = &on
	case domain.SENSOR_ID_BATTERY_MAX_CAPACITY:
		state.battery.maxWh = &value
	case domain.SENSOR_ID_BATTERY_CURRENT_CAPACITY:
		state.battery.currentWh = &value
	case domain.SENSOR_ID_BATTERY_CHARGE_POWER:
		state.battery.chargePower = &value
	default:
		return
	}
	state.dashboard.TimeToCharge = state.battery.timeToCharge()
	state.touch(msg.At)
}

func (state *DashboardActor) record(metric string, at time.Time, value float64) {
	if err := state.history.Record(metric, at, value); err != nil {
		state.logger.Warn("dashboard@"+state.StateName()+" history record failed", zap.String("metric", metric), zap.Error(err))
	}
}

func (state *DashboardActor) touch(at time.Time) {
	if state.dashboard.LastUpdated == nil || at.After(*state.dashboard.LastUpdated) {
		state.dashboard.LastUpdated = &at
	}
}

func (state *DashboardActor) snapshot() domain.Dashboard {
	d := state.dashboard
	today := civil.DateOf(state.now())
	dates := trend.DateRange{Start: today, End: today}
	d.EnergyToday = state.history.Total(trend.PROFILE_GENERATION, dates)
	if usage, err := state.history.Series(trend.PROFILE_GENERATION, trend.RANGE_TODAY, dates); err == nil {
		d.Usage = usage.Chart()
	}
	return d
}

// hours:minutes until the battery is full at the current charge power
func (b batteryState) timeToCharge() string {
	if b.maxWh == nil || b.currentWh == nil || b.chargePower == nil || *b.chargePower <= 0 {
		return domain.TIME_TO_CHARGE_UNKNOWN
	}
	missing := math.Max(0, *b.maxWh-*b.currentWh)
	minutes := int(math.Round(missing / *b.chargePower * 60))
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func (state *DashboardActor) startRefresh(ctx actor.Context) uint64 {
	state.refreshSeq++
	seq := state.refreshSeq
	if state.StateName() != "refreshing" {
		state.BecomeStacked(NamedState{StateName: "refreshing", Fn: state.RefreshingReceive})
	}

	root := ctx.ActorSystem().Root
	self := ctx.Self()
	weather := state.weather
	cfg := state.config.Weather
	loc := state.config.Location()
	now := state.now
	logger := state.logger

	task := NewBackgroundTask(ctx, func(taskCtx context.Context) (*refreshCompleted, error) {
		locateCtx := taskCtx
		if cfg.LocateTimeout() > 0 {
			var cancel context.CancelFunc
			locateCtx, cancel = context.WithTimeout(taskCtx, cfg.LocateTimeout())
			defer cancel()
		}
		coords, err := weather.Locator.Locate(locateCtx)
		if err != nil {
			root.Send(self, locationResult{seq: seq, locality: domain.LOCATION_ERROR_LOCATE})
			return &refreshCompleted{seq: seq, err: err}, nil
		}

		// each field is reported on its own, the group only waits for both
		var g errgroup.Group
		g.Go(func() error {
			locality, err := weather.Geocoder.Locality(taskCtx, coords)
			if err != nil {
				locality = domain.LOCATION_ERROR_GEOCODE
			} else if locality == "" {
				locality = domain.LOCATION_UNKNOWN
			}
			root.Send(self, locationResult{seq: seq, locality: locality})
			return err
		})
		g.Go(func() error {
			entries, err := weather.Forecast.Forecast(taskCtx, coords)
			at := now()
			if err != nil {
				root.Send(self, weatherResult{seq: seq, weather: weatherError(), at: at})
				return err
			}
			root.Send(self, weatherResult{
				seq:     seq,
				weather: domain.WeatherView{Outlook: service.SelectOutlook(entries, at, loc)},
				at:      at,
			})
			return nil
		})
		return &refreshCompleted{seq: seq, err: g.Wait()}, nil
	}).OnError(func(err error) {
		logger.Warn("dashboard refresh task failed", zap.Uint64("seq", seq), zap.Error(err))
	}).Recover(func(err error) refreshCompleted {
		return refreshCompleted{seq: seq, err: err}
	})
	if timeout := cfg.LocateTimeout() + 2*cfg.RequestTimeout(); timeout > 0 {
		task.WithTimeout(timeout)
	}
	task.PipeTo(self)

	return seq
}

func weatherError() domain.WeatherView {
	slot := func() *domain.ForecastSlot {
		return &domain.ForecastSlot{Description: domain.WEATHER_ERROR}
	}
	return domain.WeatherView{
		Status: domain.WEATHER_ERROR,
		Outlook: domain.Outlook{
			Current:  slot(),
			Today:    slot(),
			Tomorrow: slot(),
		},
	}
}
