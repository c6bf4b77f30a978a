package port

import (
	"context"

	"github.com/berfenger/solardash/internal/core/domain"
)

type Locator interface {
	Locate(ctx context.Context) (domain.Coordinates, error)
}

type Geocoder interface {
	Locality(ctx context.Context, coords domain.Coordinates) (string, error)
}

type ForecastProvider interface {
	Forecast(ctx context.Context, coords domain.Coordinates) ([]domain.ForecastEntry, error)
}
