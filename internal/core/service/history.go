package service

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/berfenger/solardash/internal/core/port"
	"github.com/berfenger/solardash/pkg/trend"

	"cloud.google.com/go/civil"
)

var (
	ErrInvalidSample = errors.New("invalid history sample")
	ErrEmptyRange    = errors.New("date range is empty")
)

type hourKey struct {
	date civil.Date
	hour int
}

// MemoryHistory accumulates samples into hourly buckets per metric.
type MemoryHistory struct {
	mu      sync.RWMutex
	loc     *time.Location
	buckets map[string]map[hourKey]float64
}

func NewMemoryHistory(loc *time.Location) *MemoryHistory {
	if loc == nil {
		loc = time.Local
	}
	return &MemoryHistory{
		loc:     loc,
		buckets: make(map[string]map[hourKey]float64),
	}
}

func (h *MemoryHistory) Record(metric string, at time.Time, value float64) error {
	if value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: %s=%f", ErrInvalidSample, metric, value)
	}
	local := at.In(h.loc)
	key := hourKey{date: civil.DateOf(local), hour: local.Hour()}
	if key.date.Before(trend.MinDate) {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	m, ok := h.buckets[metric]
	if !ok {
		m = make(map[hourKey]float64)
		h.buckets[metric] = m
	}
	m[key] += value
	return nil
}

// caller holds the read lock
func (h *MemoryHistory) hourly(metric string, d civil.Date, hour int) float64 {
	return h.buckets[metric][hourKey{date: d, hour: hour}]
}

// caller holds the read lock
func (h *MemoryHistory) daily(metric string, d civil.Date) float64 {
	sum := 0.0
	for hour := 0; hour < 24; hour++ {
		sum += h.hourly(metric, d, hour)
	}
	return sum
}

func (h *MemoryHistory) Total(metric string, dates trend.DateRange) float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	sum := 0.0
	for d := dates.Start; !d.After(dates.End); d = d.AddDays(1) {
		sum += h.daily(metric, d)
	}
	return sum
}

// Series buckets a metric for display: hourly for a single day, daily otherwise.
func (h *MemoryHistory) Series(metric string, r trend.RangeName, dates trend.DateRange) (trend.Series, error) {
	if dates.Days() == 0 || !dates.Start.IsValid() {
		return trend.Series{}, ErrEmptyRange
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	var s trend.Series
	switch r {
	case trend.RANGE_TODAY:
		for hour := 0; hour < 24; hour++ {
			s.Labels = append(s.Labels, fmt.Sprintf("%02d:00", hour))
			s.Values = append(s.Values, h.hourly(metric, dates.Start, hour))
		}
	default:
		for d := dates.Start; !d.After(dates.End); d = d.AddDays(1) {
			s.Labels = append(s.Labels, dayLabel(r, d))
			s.Values = append(s.Values, h.daily(metric, d))
		}
	}
	return s, nil
}

func dayLabel(r trend.RangeName, d civil.Date) string {
	switch r {
	case trend.RANGE_WEEK:
		return d.In(time.UTC).Weekday().String()[:3]
	case trend.RANGE_YEAR:
		if d.Day == 1 {
			return d.Month.String()[:3]
		}
		return ""
	}
	return fmt.Sprintf("%s %d", d.Month.String()[:3], d.Day)
}

// ensure interface compliance
var _ port.History = (*MemoryHistory)(nil)
