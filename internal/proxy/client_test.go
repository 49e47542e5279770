package proxy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smokyabdulrahman/ramadan-compass/internal/fasting"
)

func newProxyServer(t *testing.T, f Fetcher) *Client {
	t.Helper()
	srv := httptest.NewServer(NewRouter(f, zerolog.Nop()))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL + "/")
}

func TestClient_RoundTripCoordinates(t *testing.T) {
	f := &fakeFetcher{timings: fasting.Timings{Fajr: "05:07", Maghrib: "18:42"}}
	c := newProxyServer(t, f)

	got, err := c.Fetch(context.Background(), ByCoordinates(21.4225, 39.8262))
	require.NoError(t, err)

	assert.Equal(t, fasting.Timings{Fajr: "05:07", Maghrib: "18:42"}, got)
	assert.Equal(t, 21.4225, f.last.Lat)
	assert.Equal(t, 39.8262, f.last.Lng)
}

func TestClient_RoundTripCity(t *testing.T) {
	f := &fakeFetcher{timings: fasting.Timings{Fajr: "05:07", Maghrib: "18:42"}}
	c := newProxyServer(t, f)

	_, err := c.Fetch(context.Background(), ByCity("São Paulo", "BR"))
	require.NoError(t, err)
	assert.Equal(t, "São Paulo", f.last.City)
}

func TestClient_ServerError(t *testing.T) {
	c := newProxyServer(t, &fakeFetcher{err: ErrUpstream})

	_, err := c.Fetch(context.Background(), ByCity("Paris", "FR"))
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "Failed to fetch prayer times.")
}

func TestClient_InvalidQueryNotSent(t *testing.T) {
	f := &fakeFetcher{}
	c := newProxyServer(t, f)

	_, err := c.Fetch(context.Background(), Query{})
	assert.ErrorIs(t, err, ErrMissingLocation)
	assert.Zero(t, f.calls)
}

func TestClient_BadRequestMapsToMissingLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"nope"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Fetch(context.Background(), ByCity("Paris", "FR"))
	assert.ErrorIs(t, err, ErrMissingLocation)
	assert.Contains(t, err.Error(), "nope")
}

func TestClient_MalformedTimings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"fajr":"5am","maghrib":"18:42"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Fetch(context.Background(), ByCity("Paris", "FR"))
	assert.ErrorIs(t, err, ErrUpstream)
	assert.ErrorIs(t, err, fasting.ErrInvalidTime)
}

func TestClient_Unreachable(t *testing.T) {
	_, err := NewClient("http://127.0.0.1:1").Fetch(context.Background(), ByCity("Paris", "FR"))
	assert.ErrorIs(t, err, ErrUpstream)
}
