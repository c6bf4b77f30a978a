package port

import (
	"time"

	"github.com/berfenger/solardash/pkg/trend"
)

const (
	METRIC_GENERATION = trend.PROFILE_GENERATION
	METRIC_POWERCUT   = trend.PROFILE_POWERCUT
)

type History interface {
	Record(metric string, at time.Time, value float64) error
	Series(metric string, r trend.RangeName, dates trend.DateRange) (trend.Series, error)
	Total(metric string, dates trend.DateRange) float64
}
