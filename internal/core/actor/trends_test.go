package actor

import (
	"testing"
	"time"

	"github.com/berfenger/solardash/internal/core/domain"
	"github.com/berfenger/solardash/internal/core/service"
	"github.com/berfenger/solardash/internal/util"
	"github.com/berfenger/solardash/pkg/trend"

	"cloud.google.com/go/civil"
	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type trendsFixture struct {
	t       *testing.T
	system  *actor.ActorSystem
	pid     *actor.PID
	history *service.MemoryHistory
}

func newTrendsFixture(t *testing.T) *trendsFixture {
	cfg := util.LoadTestConfig()
	logger := zap.Must(zap.NewDevelopment())
	history := service.NewMemoryHistory(time.UTC)

	as := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewTrendsActor(&cfg, history, fixedNow, logger)
	})
	pid := as.Root.Spawn(props)
	t.Cleanup(func() {
		as.Root.Stop(pid)
		as.Shutdown()
	})
	return &trendsFixture{t: t, system: as, pid: pid, history: history}
}

func (f *trendsFixture) request(msg any) any {
	res, err := f.system.Root.RequestFuture(f.pid, msg, 2*time.Second).Result()
	require.NoError(f.t, err)
	return res
}

func (f *trendsFixture) newSession() string {
	resp, ok := f.request(domain.NewSessionRequest{}).(domain.NewSessionResponse)
	require.True(f.t, ok)
	require.NotEmpty(f.t, resp.SessionId)
	return resp.SessionId
}

func (f *trendsFixture) view(msg any) domain.TrendViewResponse {
	resp, ok := f.request(msg).(domain.TrendViewResponse)
	require.True(f.t, ok)
	return resp
}

func target(sessionId, chart string) domain.TrendRequestMixIn {
	return domain.TrendRequestMixIn{SessionId: sessionId, Chart: chart}
}

func TestTrendsDefaultViews(t *testing.T) {

	assert := assert.New(t)

	f := newTrendsFixture(t)
	sid := f.newSession()

	gen := f.view(domain.GetTrendViewRequest{TrendRequestMixIn: target(sid, trend.PROFILE_GENERATION)})
	assert.NoError(gen.GetResponseError())
	assert.Equal("Weekly Generation Energy", gen.View.Header)
	assert.Equal(trend.RANGE_WEEK, gen.View.Selection.Range)
	assert.Len(gen.View.Data.Labels, 7)

	cut := f.view(domain.GetTrendViewRequest{TrendRequestMixIn: target(sid, trend.PROFILE_POWERCUT)})
	assert.NoError(cut.GetResponseError())
	assert.Equal(trend.RANGE_MONTH, cut.View.Selection.Range)
	assert.Len(cut.View.Data.Labels, 31)
	assert.Equal("0.00 h", cut.View.Details.Average)
}

func TestTrendsCustomPickingFlow(t *testing.T) {

	assert := assert.New(t)

	f := newTrendsFixture(t)
	sid := f.newSession()
	gen := target(sid, trend.PROFILE_GENERATION)

	resp := f.view(domain.SelectRangeRequest{TrendRequestMixIn: gen, Range: trend.RANGE_CUSTOM})
	assert.NoError(resp.GetResponseError())
	assert.Equal(trend.STATE_VIEWING, resp.View.Selection.State)

	resp = f.view(domain.OpenPickerRequest{TrendRequestMixIn: gen, Phase: trend.PHASE_PICKING_START})
	assert.NoError(resp.GetResponseError())
	assert.True(resp.View.Selection.CalendarVisible)

	// before the first selectable date
	resp = f.view(domain.PickDateRequest{TrendRequestMixIn: gen, Date: civil.Date{Year: 2021, Month: 12, Day: 31}})
	var invalid *trend.InvalidDateError
	require.ErrorAs(t, resp.GetResponseError(), &invalid)
	assert.Equal(trend.INVALID_DATE_TITLE, invalid.Title)
	assert.Equal(trend.STATE_PICKING_START, resp.View.Selection.State)

	resp = f.view(domain.PickDateRequest{TrendRequestMixIn: gen, Date: civil.Date{Year: 2024, Month: 3, Day: 1}})
	assert.NoError(resp.GetResponseError())
	assert.Equal(trend.STATE_PICKING_END, resp.View.Selection.State)

	resp = f.view(domain.PickDateRequest{TrendRequestMixIn: gen, Date: civil.Date{Year: 2024, Month: 3, Day: 10}})
	assert.NoError(resp.GetResponseError())
	assert.Equal(trend.STATE_VIEWING, resp.View.Selection.State)
	assert.False(resp.View.Selection.CalendarVisible)
	assert.Equal(10, resp.View.Selection.Dates.Days())
	assert.Len(resp.View.Data.Labels, 10)

	// other sessions are untouched
	other := f.newSession()
	otherView := f.view(domain.GetTrendViewRequest{TrendRequestMixIn: target(other, trend.PROFILE_GENERATION)})
	assert.Equal(trend.RANGE_WEEK, otherView.View.Selection.Range)
}

func TestTrendsErrors(t *testing.T) {

	assert := assert.New(t)

	f := newTrendsFixture(t)
	sid := f.newSession()

	resp := f.view(domain.GetTrendViewRequest{TrendRequestMixIn: target("nope", trend.PROFILE_GENERATION)})
	assert.ErrorIs(resp.GetResponseError(), domain.ErrSessionNotFound)

	resp = f.view(domain.GetTrendViewRequest{TrendRequestMixIn: target(sid, "consumption")})
	assert.ErrorIs(resp.GetResponseError(), domain.ErrChartNotFound)

	resp = f.view(domain.SelectRangeRequest{TrendRequestMixIn: target(sid, trend.PROFILE_POWERCUT), Range: trend.RANGE_WEEK})
	assert.ErrorIs(resp.GetResponseError(), trend.ErrRangeUnavailable)
	assert.Equal(trend.RANGE_MONTH, resp.View.Selection.Range)

	resp = f.view(domain.OpenPickerRequest{TrendRequestMixIn: target(sid, trend.PROFILE_GENERATION), Phase: trend.PHASE_PICKING_END})
	assert.ErrorIs(resp.GetResponseError(), trend.ErrNotCustom)
}

func TestTrendsSeries(t *testing.T) {

	assert := assert.New(t)

	f := newTrendsFixture(t)
	values := []float64{1.2, 1.3, 1.4, 1.1, 1.5, 1.6, 1.7}
	for i, v := range values {
		at := testNow.AddDate(0, 0, i-6)
		require.NoError(t, f.history.Record(trend.PROFILE_GENERATION, at, v))
	}

	resp, ok := f.request(domain.GetSeriesRequest{
		TrendRequestMixIn: target("", trend.PROFILE_GENERATION),
		Range:             trend.RANGE_WEEK,
	}).(domain.GetSeriesResponse)
	require.True(t, ok)
	assert.NoError(resp.GetResponseError())
	assert.Equal(values, resp.Series.Values)
	assert.Equal(civil.Date{Year: 2024, Month: 3, Day: 9}, resp.Dates.Start)
	assert.Equal("9.80", trend.FormatAmount(trend.Total(resp.Series)))

	resp = f.request(domain.GetSeriesRequest{
		TrendRequestMixIn: target("", trend.PROFILE_GENERATION),
		Range:             trend.RANGE_CUSTOM,
		Dates:             trend.DateRange{Start: civil.Date{Year: 2024, Month: 3, Day: 10}, End: civil.Date{Year: 2024, Month: 3, Day: 20}},
	}).(domain.GetSeriesResponse)
	assert.ErrorIs(resp.GetResponseError(), trend.ErrInvalidRange)
}

func TestTrendsSweepEvictsIdleSessions(t *testing.T) {

	assert := assert.New(t)

	cfg := util.LoadTestConfig()
	now := testNow
	act := NewTrendsActor(&cfg, service.NewMemoryHistory(time.UTC), func() time.Time { return now }, zap.NewNop())

	stale := act.newSession()
	now = now.Add(cfg.Trends.SessionTTL() / 2)
	fresh := act.newSession()
	now = now.Add(cfg.Trends.SessionTTL()/2 + time.Second)

	assert.Equal(1, act.sweep(now))
	assert.NotContains(act.sessions, stale)
	assert.Contains(act.sessions, fresh)
}
