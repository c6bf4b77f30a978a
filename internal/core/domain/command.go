package domain

import (
	"errors"

	"github.com/berfenger/solardash/pkg/trend"

	"cloud.google.com/go/civil"
)

var (
	ErrSessionNotFound = errors.New("trend session not found")
	ErrChartNotFound   = errors.New("chart not found")
)

// TrendRequest

type TrendRequest interface {
	ActorRequest
	TrendTarget() (sessionId string, chart string)
}

type TrendRequestMixIn struct {
	ActorRequestMixIn
	SessionId string
	Chart     string
}

func (r TrendRequestMixIn) TrendTarget() (string, string) {
	return r.SessionId, r.Chart
}

// Trend commands

type NewSessionRequest struct {
	TrendRequestMixIn
}

type NewSessionResponse struct {
	ActorResponseMixIn
	SessionId string
}

type GetTrendViewRequest struct {
	TrendRequestMixIn
}

type SelectRangeRequest struct {
	TrendRequestMixIn
	Range trend.RangeName
}

type OpenPickerRequest struct {
	TrendRequestMixIn
	Phase trend.Phase
}

type PickDateRequest struct {
	TrendRequestMixIn
	Date civil.Date
}

type DismissPickerRequest struct {
	TrendRequestMixIn
}

type TrendViewResponse struct {
	ActorResponseMixIn
	View trend.View
}

// GetSeriesRequest reads a series without touching any session state.
type GetSeriesRequest struct {
	TrendRequestMixIn
	Range trend.RangeName
	Dates trend.DateRange
}

type GetSeriesResponse struct {
	ActorResponseMixIn
	Range  trend.RangeName
	Dates  trend.DateRange
	Series trend.Series
}

// ensure interface compliance
var _ TrendRequest = (*SelectRangeRequest)(nil)
var _ TrendRequest = (*GetSeriesRequest)(nil)
