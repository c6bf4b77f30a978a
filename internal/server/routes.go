package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/berfenger/solardash/internal/core/domain"
	"github.com/berfenger/solardash/pkg/trend"

	"cloud.google.com/go/civil"
	"github.com/carlmjohnson/versioninfo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

var ErrUnexpectedResponse = errors.New("unexpected actor response")

type errorBody struct {
	Error string `json:"error"`
}

type invalidDateBody struct {
	Title   string     `json:"title"`
	Message string     `json:"message"`
	View    trend.View `json:"view"`
}

type sessionBody struct {
	Id string `json:"id"`
}

type rangeBody struct {
	Range string `json:"range"`
}

type phaseBody struct {
	Phase string `json:"phase"`
}

type dateBody struct {
	Date string `json:"date"`
}

type seriesBody struct {
	Chart  string          `json:"chart"`
	Range  trend.RangeName `json:"range"`
	Dates  trend.DateRange `json:"dates"`
	Series trend.Series    `json:"series"`
}

type refreshBody struct {
	Sequence uint64 `json:"sequence"`
}

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.HideBanner = true
	if s.httpLog {
		e.Use(middleware.Logger())
	}
	e.Use(middleware.Recover())

	e.GET("/healthcheck", s.HealthCheckHandler)

	api := e.Group("/api")
	api.POST("/sessions", s.CreateSessionHandler)
	chart := api.Group("/sessions/:sid/charts/:chart")
	chart.GET("", s.GetChartHandler)
	chart.PUT("/range", s.SelectRangeHandler)
	chart.POST("/picker", s.OpenPickerHandler)
	chart.POST("/picker/date", s.PickDateHandler)
	chart.DELETE("/picker", s.DismissPickerHandler)
	api.GET("/series/:chart", s.GetSeriesHandler)
	api.GET("/dashboard", s.GetDashboardHandler)
	api.POST("/dashboard/refresh", s.RefreshDashboardHandler)
	api.GET("/system", s.GetSystemHandler)
	api.GET("/navigation", s.GetNavigationHandler)

	return e
}

func (s *Server) HealthCheckHandler(c echo.Context) error {
	res, err := s.ask(domain.ActorHealthRequest{})
	if err != nil {
		return c.String(http.StatusServiceUnavailable, "health_check: FAIL")
	}
	if response, ok := res.(domain.ActorHealthResponse); ok && response.Healthy {
		return c.String(http.StatusOK, "health_check: OK")
	}
	return c.String(http.StatusServiceUnavailable, "health_check: FAIL")
}

func (s *Server) CreateSessionHandler(c echo.Context) error {
	res, err := s.ask(domain.NewSessionRequest{})
	if err != nil {
		return errorJSON(c, http.StatusServiceUnavailable, err)
	}
	resp, ok := res.(domain.NewSessionResponse)
	if !ok {
		return errorJSON(c, http.StatusInternalServerError, ErrUnexpectedResponse)
	}
	return c.JSON(http.StatusCreated, sessionBody{Id: resp.SessionId})
}

func trendTarget(c echo.Context) domain.TrendRequestMixIn {
	return domain.TrendRequestMixIn{
		SessionId: c.Param("sid"),
		Chart:     c.Param("chart"),
	}
}

func (s *Server) GetChartHandler(c echo.Context) error {
	return s.trendView(c, domain.GetTrendViewRequest{TrendRequestMixIn: trendTarget(c)})
}

func (s *Server) SelectRangeHandler(c echo.Context) error {
	var body rangeBody
	if err := c.Bind(&body); err != nil {
		return errorJSON(c, http.StatusBadRequest, err)
	}
	r, err := trend.ParseRangeName(body.Range)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err)
	}
	return s.trendView(c, domain.SelectRangeRequest{TrendRequestMixIn: trendTarget(c), Range: r})
}

func (s *Server) OpenPickerHandler(c echo.Context) error {
	var body phaseBody
	if err := c.Bind(&body); err != nil {
		return errorJSON(c, http.StatusBadRequest, err)
	}
	phase, err := trend.ParsePhase(body.Phase)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err)
	}
	return s.trendView(c, domain.OpenPickerRequest{TrendRequestMixIn: trendTarget(c), Phase: phase})
}

func (s *Server) PickDateHandler(c echo.Context) error {
	var body dateBody
	if err := c.Bind(&body); err != nil {
		return errorJSON(c, http.StatusBadRequest, err)
	}
	d, err := civil.ParseDate(body.Date)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, fmt.Errorf("date must be YYYY-MM-DD: %w", err))
	}
	return s.trendView(c, domain.PickDateRequest{TrendRequestMixIn: trendTarget(c), Date: d})
}

func (s *Server) DismissPickerHandler(c echo.Context) error {
	return s.trendView(c, domain.DismissPickerRequest{TrendRequestMixIn: trendTarget(c)})
}

func (s *Server) trendView(c echo.Context, req domain.TrendRequest) error {
	res, err := s.ask(req)
	if err != nil {
		return errorJSON(c, http.StatusServiceUnavailable, err)
	}
	resp, ok := res.(domain.TrendViewResponse)
	if !ok {
		return errorJSON(c, http.StatusInternalServerError, ErrUnexpectedResponse)
	}
	if resp.HasResponseError() {
		var invalid *trend.InvalidDateError
		if errors.As(resp.GetResponseError(), &invalid) {
			return c.JSON(http.StatusUnprocessableEntity, invalidDateBody{
				Title:   invalid.Title,
				Message: invalid.Message,
				View:    resp.View,
			})
		}
		return errorJSON(c, errorStatus(resp.GetResponseError()), resp.GetResponseError())
	}
	return c.JSON(http.StatusOK, resp.View)
}

func (s *Server) GetSeriesHandler(c echo.Context) error {
	r, err := trend.ParseRangeName(c.QueryParam("range"))
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err)
	}
	req := domain.GetSeriesRequest{
		TrendRequestMixIn: domain.TrendRequestMixIn{Chart: c.Param("chart")},
		Range:             r,
	}
	if r == trend.RANGE_CUSTOM {
		start, err := civil.ParseDate(c.QueryParam("start"))
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, fmt.Errorf("start must be YYYY-MM-DD: %w", err))
		}
		end, err := civil.ParseDate(c.QueryParam("end"))
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, fmt.Errorf("end must be YYYY-MM-DD: %w", err))
		}
		req.Dates = trend.DateRange{Start: start, End: end}
	}

	res, err := s.ask(req)
	if err != nil {
		return errorJSON(c, http.StatusServiceUnavailable, err)
	}
	resp, ok := res.(domain.GetSeriesResponse)
	if !ok {
		return errorJSON(c, http.StatusInternalServerError, ErrUnexpectedResponse)
	}
	if resp.HasResponseError() {
		return errorJSON(c, errorStatus(resp.GetResponseError()), resp.GetResponseError())
	}
	return c.JSON(http.StatusOK, seriesBody{
		Chart:  req.Chart,
		Range:  resp.Range,
		Dates:  resp.Dates,
		Series: resp.Series,
	})
}

func (s *Server) GetDashboardHandler(c echo.Context) error {
	res, err := s.ask(domain.GetDashboardRequest{})
	if err != nil {
		return errorJSON(c, http.StatusServiceUnavailable, err)
	}
	resp, ok := res.(domain.GetDashboardResponse)
	if !ok {
		return errorJSON(c, http.StatusInternalServerError, ErrUnexpectedResponse)
	}
	return c.JSON(http.StatusOK, resp.Dashboard)
}

func (s *Server) RefreshDashboardHandler(c echo.Context) error {
	res, err := s.ask(domain.RefreshWeatherRequest{})
	if err != nil {
		return errorJSON(c, http.StatusServiceUnavailable, err)
	}
	resp, ok := res.(domain.RefreshWeatherResponse)
	if !ok {
		return errorJSON(c, http.StatusInternalServerError, ErrUnexpectedResponse)
	}
	return c.JSON(http.StatusAccepted, refreshBody{Sequence: resp.Sequence})
}

func (s *Server) GetSystemHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.SystemInfo{
		ModelName:       s.system.ModelName,
		Rating:          s.system.Rating,
		SerialNumber:    s.system.SerialNumber,
		ChargingProfile: s.system.ChargingProfile,
		ChargingCurrent: s.system.ChargingCurrent,
		Version:         versioninfo.Short(),
		TimeZone:        s.location.String(),
	})
}

func (s *Server) GetNavigationHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, s.navigation)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrChartNotFound):
		return http.StatusNotFound
	case errors.Is(err, trend.ErrNotCustom), errors.Is(err, trend.ErrNotPicking):
		return http.StatusConflict
	case errors.Is(err, trend.ErrRangeUnavailable), errors.Is(err, trend.ErrUnknownRange),
		errors.Is(err, trend.ErrInvalidRange), errors.Is(err, trend.ErrCustomRange):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func errorJSON(c echo.Context, status int, err error) error {
	return c.JSON(status, errorBody{Error: err.Error()})
}
