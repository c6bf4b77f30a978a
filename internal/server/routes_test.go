package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/berfenger/solardash/internal/adapter/weather"
	coreactor "github.com/berfenger/solardash/internal/core/actor"
	"github.com/berfenger/solardash/internal/core/domain"
	"github.com/berfenger/solardash/internal/core/port"
	"github.com/berfenger/solardash/internal/core/service"
	"github.com/berfenger/solardash/internal/navigation"
	"github.com/berfenger/solardash/internal/util"

	"cloud.google.com/go/civil"
	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubGeocoder struct{}

func (stubGeocoder) Locality(context.Context, domain.Coordinates) (string, error) {
	return "Madrid", nil
}

type stubForecast struct{}

func (stubForecast) Forecast(context.Context, domain.Coordinates) ([]domain.ForecastEntry, error) {
	return []domain.ForecastEntry{{At: time.Now(), Main: "Clear", Description: "clear sky", Icon: "01d", TemperatureC: 21}}, nil
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	cfg := util.LoadTestConfig()
	logger := zap.NewNop()
	as := actor.NewActorSystem()

	history := service.NewMemoryHistory(time.UTC)
	require.NoError(t, history.Record(port.METRIC_GENERATION, time.Now().UTC(), 2.5))

	ports := coreactor.WeatherPorts{
		Locator:  weather.StaticLocator{Coordinates: domain.Coordinates{Latitude: 40.4168, Longitude: -3.7038}},
		Geocoder: stubGeocoder{},
		Forecast: stubForecast{},
	}
	props := actor.PropsFromProducer(func() actor.Actor {
		return coreactor.NewMasterActor(cfg, nil, history, ports, nil, logger)
	})
	pid, err := as.Root.SpawnNamed(props, domain.ACTOR_ID_MASTER)
	require.NoError(t, err)
	t.Cleanup(func() {
		as.Root.Stop(pid)
		as.Shutdown()
	})

	nav, err := navigation.Build(cfg.Navigation)
	require.NoError(t, err)
	return newServer(cfg, nav, as.Root, pid).RegisterRoutes()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealthCheck(t *testing.T) {

	assert := assert.New(t)

	h := newTestHandler(t)
	rec := do(t, h, http.MethodGet, "/healthcheck", "")
	assert.Equal(http.StatusOK, rec.Code)
	assert.Equal("health_check: OK", rec.Body.String())
}

func TestTrendSessionFlow(t *testing.T) {

	assert := assert.New(t)

	h := newTestHandler(t)

	rec := do(t, h, http.MethodPost, "/api/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	session := decode[sessionBody](t, rec)
	require.NotEmpty(t, session.Id)

	base := "/api/sessions/" + session.Id + "/charts/generation"

	rec = do(t, h, http.MethodGet, base, "")
	assert.Equal(http.StatusOK, rec.Code)
	view := decode[map[string]any](t, rec)
	assert.Equal("generation", view["chart"])
	assert.Equal("Weekly Generation Energy", view["header"])

	rec = do(t, h, http.MethodPut, base+"/range", `{"range":"custom"}`)
	assert.Equal(http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, base+"/picker", `{"phase":"start"}`)
	assert.Equal(http.StatusOK, rec.Code)

	// a start date in the future is rejected with an alert
	future := civil.DateOf(time.Now()).AddDays(2)
	rec = do(t, h, http.MethodPost, base+"/picker/date", `{"date":"`+future.String()+`"}`)
	assert.Equal(http.StatusUnprocessableEntity, rec.Code)
	alert := decode[invalidDateBody](t, rec)
	assert.Equal("Invalid Date", alert.Title)
	assert.Equal("Start date must be within the allowed range.", alert.Message)

	rec = do(t, h, http.MethodPost, base+"/picker/date", `{"date":"yesterday"}`)
	assert.Equal(http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodDelete, base+"/picker", "")
	assert.Equal(http.StatusOK, rec.Code)

	// with the picker closed there is no date to pick
	rec = do(t, h, http.MethodPost, base+"/picker/date", `{"date":"`+civil.DateOf(time.Now()).String()+`"}`)
	assert.Equal(http.StatusConflict, rec.Code)
}

func TestTrendErrors(t *testing.T) {

	assert := assert.New(t)

	h := newTestHandler(t)

	rec := do(t, h, http.MethodGet, "/api/sessions/missing/charts/generation", "")
	assert.Equal(http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/sessions", "")
	session := decode[sessionBody](t, rec)

	rec = do(t, h, http.MethodGet, "/api/sessions/"+session.Id+"/charts/consumption", "")
	assert.Equal(http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/sessions/"+session.Id+"/charts/generation/range", `{"range":"decade"}`)
	assert.Equal(http.StatusBadRequest, rec.Code)

	// power cuts only offer month and custom ranges
	rec = do(t, h, http.MethodPut, "/api/sessions/"+session.Id+"/charts/powercut/range", `{"range":"today"}`)
	assert.Equal(http.StatusBadRequest, rec.Code)
}

func TestSeries(t *testing.T) {

	assert := assert.New(t)

	h := newTestHandler(t)

	rec := do(t, h, http.MethodGet, "/api/series/generation?range=today", "")
	require.Equal(t, http.StatusOK, rec.Code)
	series := decode[seriesBody](t, rec)
	assert.Equal("generation", series.Chart)
	assert.Len(series.Series.Values, 24)
	var total float64
	for _, v := range series.Series.Values {
		total += v
	}
	assert.InDelta(2.5, total, 1e-9)

	today := civil.DateOf(time.Now())
	rec = do(t, h, http.MethodGet, "/api/series/generation?range=custom&start="+today.AddDays(-2).String()+"&end="+today.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	series = decode[seriesBody](t, rec)
	assert.Len(series.Series.Values, 3)

	rec = do(t, h, http.MethodGet, "/api/series/generation?range=custom&start=bad", "")
	assert.Equal(http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/series/generation", "")
	assert.Equal(http.StatusBadRequest, rec.Code)
}

func TestDashboardRoutes(t *testing.T) {

	assert := assert.New(t)

	h := newTestHandler(t)

	rec := do(t, h, http.MethodPost, "/api/dashboard/refresh", "")
	assert.Equal(http.StatusAccepted, rec.Code)
	refresh := decode[refreshBody](t, rec)
	assert.Equal(uint64(2), refresh.Sequence)

	assert.Eventually(func() bool {
		rec := do(t, h, http.MethodGet, "/api/dashboard", "")
		if rec.Code != http.StatusOK {
			return false
		}
		dashboard := decode[domain.Dashboard](t, rec)
		return dashboard.Location == "Madrid"
	}, 3*time.Second, 50*time.Millisecond)

	rec = do(t, h, http.MethodGet, "/api/system", "")
	assert.Equal(http.StatusOK, rec.Code)
	system := decode[domain.SystemInfo](t, rec)
	assert.NotEmpty(system.ModelName)
	assert.NotEmpty(system.Version)
	assert.Equal("UTC", system.TimeZone)

	rec = do(t, h, http.MethodGet, "/api/navigation", "")
	assert.Equal(http.StatusOK, rec.Code)
	tree := decode[navigation.Tree](t, rec)
	assert.NotEmpty(tree.Tabs)
	assert.Equal(navigation.TABS_SCREEN_NAME, tree.Drawer[0].Name)
}
