package weather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/berfenger/solardash/internal/core/domain"
	"github.com/berfenger/solardash/internal/core/port"
)

const IPAPI_URL = "http://ip-api.com/json/"

var ErrLocateFailed = errors.New("could not determine location")

// StaticLocator always answers the configured coordinates.
type StaticLocator struct {
	Coordinates domain.Coordinates
}

func (l StaticLocator) Locate(context.Context) (domain.Coordinates, error) {
	return l.Coordinates, nil
}

// IPLocator geolocates the public address of this host.
type IPLocator struct {
	client  *http.Client
	baseURL string
}

type ipAPIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func NewIPLocator(client *http.Client, baseURL string) *IPLocator {
	if baseURL == "" {
		baseURL = IPAPI_URL
	}
	return &IPLocator{client: client, baseURL: baseURL}
}

func (l *IPLocator) Locate(ctx context.Context) (domain.Coordinates, error) {
	var resp ipAPIResponse
	if err := getJSON(ctx, l.client, l.baseURL, nil, &resp); err != nil {
		return domain.Coordinates{}, err
	}
	if resp.Status != "success" {
		return domain.Coordinates{}, fmt.Errorf("%w: %s", ErrLocateFailed, resp.Message)
	}
	return domain.Coordinates{Latitude: resp.Lat, Longitude: resp.Lon}, nil
}

// CachedLocator reuses a previous fix while it is younger than MaxAge.
type CachedLocator struct {
	inner  port.Locator
	maxAge time.Duration
	now    func() time.Time

	mu    sync.Mutex
	last  *domain.Coordinates
	fixAt time.Time
}

func NewCachedLocator(inner port.Locator, maxAge time.Duration, now func() time.Time) *CachedLocator {
	if now == nil {
		now = time.Now
	}
	return &CachedLocator{inner: inner, maxAge: maxAge, now: now}
}

func (l *CachedLocator) Locate(ctx context.Context) (domain.Coordinates, error) {
	l.mu.Lock()
	if l.last != nil && l.now().Sub(l.fixAt) <= l.maxAge {
		coords := *l.last
		l.mu.Unlock()
		return coords, nil
	}
	l.mu.Unlock()

	coords, err := l.inner.Locate(ctx)
	if err != nil {
		return domain.Coordinates{}, err
	}

	l.mu.Lock()
	l.last = &coords
	l.fixAt = l.now()
	l.mu.Unlock()
	return coords, nil
}

// ensure interface compliance
var _ port.Locator = StaticLocator{}
var _ port.Locator = (*IPLocator)(nil)
var _ port.Locator = (*CachedLocator)(nil)
