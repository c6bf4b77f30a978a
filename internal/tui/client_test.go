package tui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/berfenger/solardash/pkg/trend"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSeries(t *testing.T) {

	assert := assert.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal("/api/series/generation", r.URL.Path)
		assert.Equal("custom", r.URL.Query().Get("range"))
		assert.Equal("2024-03-01", r.URL.Query().Get("start"))
		assert.Equal("2024-03-02", r.URL.Query().Get("end"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"chart":"generation","series":{"labels":["Mar 1","Mar 2"],"values":[1.25,2]}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", time.Second)
	series, err := client.Series(context.Background(), trend.PROFILE_GENERATION, trend.RANGE_CUSTOM, trend.DateRange{
		Start: civil.Date{Year: 2024, Month: time.March, Day: 1},
		End:   civil.Date{Year: 2024, Month: time.March, Day: 2},
	})
	require.NoError(t, err)
	assert.Equal([]string{"Mar 1", "Mar 2"}, series.Labels)
	assert.Equal([]float64{1.25, 2}, series.Values)
}

func TestClientTimeZone(t *testing.T) {

	assert := assert.New(t)

	zone := "Europe/Madrid"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal("/api/system", r.URL.Path)
		w.Write([]byte(`{"model_name":"Hybrid 5K","timezone":"` + zone + `"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	loc, err := client.TimeZone(context.Background())
	require.NoError(t, err)
	assert.Equal("Europe/Madrid", loc.String())

	zone = ""
	_, err = client.TimeZone(context.Background())
	assert.Error(err)

	zone = "Mars/Olympus"
	_, err = client.TimeZone(context.Background())
	assert.Error(err)
}

func TestClientErrors(t *testing.T) {

	assert := assert.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/series/missing":
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"chart not found: missing"}`))
		default:
			w.Write([]byte(`{"series":{"labels":["a"],"values":[1,2]}}`))
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.Series(context.Background(), "missing", trend.RANGE_WEEK, trend.DateRange{})
	assert.ErrorContains(err, "chart not found")

	_, err = client.Series(context.Background(), trend.PROFILE_GENERATION, trend.RANGE_WEEK, trend.DateRange{})
	assert.ErrorIs(err, trend.ErrSeriesLength)
}
