package actor

import (
	"fmt"
	"time"

	"github.com/berfenger/solardash/internal/config"
	"github.com/berfenger/solardash/internal/core/domain"
	"github.com/berfenger/solardash/internal/core/port"
	. "github.com/berfenger/solardash/internal/util/actorutil"
	"github.com/berfenger/solardash/pkg/trend"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/scheduler"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TrendsActor owns the range selectors of every client session. Each session gets
// its own selector per chart profile.
type TrendsActor struct {
	config    *config.Config
	behavior  actor.Behavior
	scheduler *scheduler.TimerScheduler

	history  port.History
	now      func() time.Time
	sessions map[string]*trendSession

	logger *zap.Logger
}

type trendSession struct {
	charts   map[string]*trend.Selector
	lastSeen time.Time
}

type sweepSessionsTick struct {
}

func NewTrendsActor(config *config.Config, history port.History, now func() time.Time, logger *zap.Logger) *TrendsActor {
	if now == nil {
		loc := config.Location()
		now = func() time.Time { return time.Now().In(loc) }
	}
	act := &TrendsActor{
		config:   config,
		behavior: actor.NewBehavior(),
		history:  history,
		now:      now,
		sessions: make(map[string]*trendSession),
		logger:   ActorLogger(domain.ACTOR_ID_TRENDS, logger),
	}
	act.behavior.Become(act.DefaultReceive)
	return act
}

func (state *TrendsActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *TrendsActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("trends@default started")
		if ttl := state.config.Trends.SessionTTL(); ttl > 0 {
			state.scheduler = scheduler.NewTimerScheduler(ctx)
			state.scheduler.RequestOnce(ttl/2, ctx.Self(), sweepSessionsTick{})
		}
	case domain.ActorHealthRequest:
		state.logger.Debug("trends@default ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_TRENDS,
			Healthy: true,
			State:   fmt.Sprintf("sessions=%d", len(state.sessions)),
		})
	case sweepSessionsTick:
		evicted := state.sweep(state.now())
		if evicted > 0 {
			state.logger.Debug("trends@default sessions evicted", zap.Int("count", evicted))
		}
		state.scheduler.RequestOnce(state.config.Trends.SessionTTL()/2, ctx.Self(), sweepSessionsTick{})
	case domain.NewSessionRequest:
		id := state.newSession()
		state.logger.Debug("trends@default NewSessionRequest", zap.String("session", id))
		ForRequest(msg).Respond(ctx, domain.NewSessionResponse{SessionId: id})
	case domain.GetTrendViewRequest:
		state.logger.Debug("trends@default GetTrendViewRequest")
		state.applyAndRespond(ctx, msg, func(*trend.Selector) error { return nil })
	case domain.SelectRangeRequest:
		state.logger.Debug("trends@default SelectRangeRequest", zap.String("range", string(msg.Range)))
		state.applyAndRespond(ctx, msg, func(sel *trend.Selector) error {
			return sel.Select(msg.Range)
		})
	case domain.OpenPickerRequest:
		state.logger.Debug("trends@default OpenPickerRequest", zap.Stringer("phase", msg.Phase))
		state.applyAndRespond(ctx, msg, func(sel *trend.Selector) error {
			return sel.OpenPicker(msg.Phase)
		})
	case domain.PickDateRequest:
		state.logger.Debug("trends@default PickDateRequest", zap.Stringer("date", msg.Date))
		state.applyAndRespond(ctx, msg, func(sel *trend.Selector) error {
			return sel.Pick(msg.Date)
		})
	case domain.DismissPickerRequest:
		state.logger.Debug("trends@default DismissPickerRequest")
		state.applyAndRespond(ctx, msg, func(sel *trend.Selector) error {
			sel.Dismiss()
			return nil
		})
	case domain.GetSeriesRequest:
		state.logger.Debug("trends@default GetSeriesRequest", zap.String("range", string(msg.Range)))
		ForRequest(msg).Respond(ctx, state.readSeries(msg))
	default:
		state.logger.Debug("trends@default unhandled", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *TrendsActor) newSession() string {
	session := &trendSession{
		charts:   make(map[string]*trend.Selector),
		lastSeen: state.now(),
	}
	for _, profile := range trend.Profiles() {
		session.charts[profile.Id] = trend.NewSelector(profile, state.now)
	}
	id := uuid.NewString()
	state.sessions[id] = session
	return id
}

func (state *TrendsActor) selector(req domain.TrendRequest) (*trend.Selector, error) {
	sessionId, chart := req.TrendTarget()
	session, ok := state.sessions[sessionId]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionId)
	}
	session.lastSeen = state.now()
	sel, ok := session.charts[chart]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrChartNotFound, chart)
	}
	return sel, nil
}

// applyAndRespond runs one selector event and answers with the resulting view.
// A rejected event still answers with the unchanged view alongside the error.
func (state *TrendsActor) applyAndRespond(ctx actor.Context, req domain.TrendRequest, apply func(*trend.Selector) error) {
	sel, err := state.selector(req)
	if err != nil {
		ForRequest(req).Respond(ctx, domain.TrendViewResponse{ActorResponseMixIn: domain.ErrorResponse(err)})
		return
	}
	applyErr := apply(sel)
	view, err := state.view(sel)
	if applyErr != nil {
		err = applyErr
	}
	ForRequest(req).Respond(ctx, domain.TrendViewResponse{
		ActorResponseMixIn: domain.ActorResponseMixIn{ResponseError: err},
		View:               view,
	})
}

func (state *TrendsActor) view(sel *trend.Selector) (trend.View, error) {
	now := state.now()
	selection := sel.Selection()
	profile := sel.Profile()

	series := trend.Series{}
	if selection.State != trend.STATE_IDLE {
		var err error
		series, err = state.history.Series(profile.Id, selection.Range, selection.Dates)
		if err != nil {
			return trend.BuildView(profile, selection, trend.Series{}, now), err
		}
	}
	return trend.BuildView(profile, selection, series, now), nil
}

func (state *TrendsActor) readSeries(req domain.GetSeriesRequest) domain.GetSeriesResponse {
	_, chart := req.TrendTarget()
	profile, ok := trend.ProfileById(chart)
	if !ok {
		return domain.GetSeriesResponse{ActorResponseMixIn: domain.ErrorResponse(fmt.Errorf("%w: %s", domain.ErrChartNotFound, chart))}
	}
	if !profile.Allows(req.Range) {
		return domain.GetSeriesResponse{ActorResponseMixIn: domain.ErrorResponse(fmt.Errorf("%w: %s", trend.ErrRangeUnavailable, req.Range))}
	}

	now := state.now()
	dates := req.Dates
	if req.Range == trend.RANGE_CUSTOM {
		if err := trend.ValidateCustom(dates, now); err != nil {
			return domain.GetSeriesResponse{ActorResponseMixIn: domain.ErrorResponse(err)}
		}
	} else {
		var err error
		dates, err = trend.Resolve(req.Range, now)
		if err != nil {
			return domain.GetSeriesResponse{ActorResponseMixIn: domain.ErrorResponse(err)}
		}
	}

	series, err := state.history.Series(profile.Id, req.Range, dates)
	return domain.GetSeriesResponse{
		ActorResponseMixIn: domain.ActorResponseMixIn{ResponseError: err},
		Range:              req.Range,
		Dates:              dates,
		Series:             series,
	}
}

func (state *TrendsActor) sweep(now time.Time) int {
	ttl := state.config.Trends.SessionTTL()
	evicted := 0
	for id, session := range state.sessions {
		if now.Sub(session.lastSeen) > ttl {
			delete(state.sessions, id)
			evicted++
		}
	}
	return evicted
}
