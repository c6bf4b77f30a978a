package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/berfenger/solardash/pkg/trend"

	"github.com/carlmjohnson/versioninfo"
)

// SeriesFetcher reads the series of one chart for a range.
type SeriesFetcher interface {
	Series(ctx context.Context, chart string, r trend.RangeName, dates trend.DateRange) (trend.Series, error)
}

// Client talks to the solardash REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

// ensure interface compliance
var _ SeriesFetcher = (*Client)(nil)

type seriesPayload struct {
	Series trend.Series `json:"series"`
}

type systemPayload struct {
	TimeZone string `json:"timezone"`
}

type errorPayload struct {
	Error string `json:"error"`
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// TimeZone asks the server which zone its calendar days are in.
func (c *Client) TimeZone(ctx context.Context) (*time.Location, error) {
	var body systemPayload
	if err := c.getJSON(ctx, c.baseURL+"/api/system", &body); err != nil {
		return nil, err
	}
	if body.TimeZone == "" {
		return nil, errors.New("server did not report a time zone")
	}
	return time.LoadLocation(body.TimeZone)
}

func (c *Client) Series(ctx context.Context, chart string, r trend.RangeName, dates trend.DateRange) (trend.Series, error) {
	query := url.Values{}
	query.Set("range", string(r))
	if r == trend.RANGE_CUSTOM {
		query.Set("start", dates.Start.String())
		query.Set("end", dates.End.String())
	}
	endpoint := fmt.Sprintf("%s/api/series/%s?%s", c.baseURL, url.PathEscape(chart), query.Encode())

	var body seriesPayload
	if err := c.getJSON(ctx, endpoint, &body); err != nil {
		return trend.Series{}, err
	}
	if err := body.Series.Validate(); err != nil {
		return trend.Series{}, err
	}
	return body.Series, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "dashtui/"+versioninfo.Short())

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body errorPayload
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
			return fmt.Errorf("server answered %d: %s", resp.StatusCode, body.Error)
		}
		return fmt.Errorf("server answered %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", req.URL.Path, err)
	}
	return nil
}
