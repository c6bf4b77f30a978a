package weather

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/berfenger/solardash/internal/core/domain"
	"github.com/berfenger/solardash/internal/core/port"
)

const BIGDATACLOUD_REVERSE_GEOCODE_URL = "https://api.bigdatacloud.net/data/reverse-geocode-client"

// BigDataCloud resolves coordinates to a city name. An empty name means the
// place is unknown.
type BigDataCloud struct {
	client  *http.Client
	baseURL string
}

type reverseGeocodeResponse struct {
	City     string `json:"city"`
	Locality string `json:"locality"`
}

func NewBigDataCloud(client *http.Client, baseURL string) *BigDataCloud {
	if baseURL == "" {
		baseURL = BIGDATACLOUD_REVERSE_GEOCODE_URL
	}
	return &BigDataCloud{client: client, baseURL: baseURL}
}

func (b *BigDataCloud) Locality(ctx context.Context, coords domain.Coordinates) (string, error) {
	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	query.Set("localityLanguage", "en")

	var resp reverseGeocodeResponse
	if err := getJSON(ctx, b.client, b.baseURL, query, &resp); err != nil {
		return "", err
	}
	return resp.City, nil
}

// ensure interface compliance
var _ port.Geocoder = (*BigDataCloud)(nil)
