package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smokyabdulrahman/ramadan-compass/internal/fasting"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeFetcher struct {
	timings fasting.Timings
	err     error
	calls   int
	last    Query
}

func (f *fakeFetcher) Fetch(_ context.Context, q Query) (fasting.Timings, error) {
	f.calls++
	f.last = q
	return f.timings, f.err
}

func doGet(t *testing.T, r http.Handler, target string) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return w, body
}

func TestPrayer_ByCoordinates(t *testing.T) {
	f := &fakeFetcher{timings: fasting.Timings{Fajr: "05:07", Maghrib: "18:42"}}
	r := NewRouter(f, zerolog.Nop())

	w, body := doGet(t, r, "/api/prayer?lat=51.5074&lng=-0.1278")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{"fajr": "05:07", "maghrib": "18:42"}, body)
	assert.True(t, f.last.HasCoords)
	assert.Equal(t, 51.5074, f.last.Lat)
	assert.Equal(t, -0.1278, f.last.Lng)
}

func TestPrayer_ByCity(t *testing.T) {
	f := &fakeFetcher{timings: fasting.Timings{Fajr: "04:31", Maghrib: "20:58"}}
	r := NewRouter(f, zerolog.Nop())

	w, body := doGet(t, r, "/api/prayer?city=New%20York&country=US")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "04:31", body["fajr"])
	assert.Equal(t, "New York", f.last.City)
	assert.Equal(t, "US", f.last.Country)
	assert.False(t, f.last.HasCoords)
}

func TestPrayer_HalfCoordinatesFallBackToCity(t *testing.T) {
	f := &fakeFetcher{timings: fasting.Timings{Fajr: "04:31", Maghrib: "20:58"}}
	r := NewRouter(f, zerolog.Nop())

	w, _ := doGet(t, r, "/api/prayer?lat=10&city=Paris&country=FR")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Paris", f.last.City)
	assert.False(t, f.last.HasCoords)
}

func TestPrayer_MissingParameters(t *testing.T) {
	for _, target := range []string{
		"/api/prayer",
		"/api/prayer?lat=10",
		"/api/prayer?city=Paris",
		"/api/prayer?country=FR&lng=2",
	} {
		t.Run(target, func(t *testing.T) {
			f := &fakeFetcher{}
			w, body := doGet(t, NewRouter(f, zerolog.Nop()), target)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "Missing latitude/longitude or city/country parameters", body["error"])
			assert.Zero(t, f.calls)
		})
	}
}

func TestPrayer_InvalidCoordinates(t *testing.T) {
	for _, target := range []string{
		"/api/prayer?lat=abc&lng=1",
		"/api/prayer?lat=91&lng=1",
		"/api/prayer?lat=1&lng=-181",
		"/api/prayer?lat=NaN&lng=NaN",
		"/api/prayer?lat=1&lng=Inf",
		"/api/prayer?lat=-Inf&lng=1",
	} {
		t.Run(target, func(t *testing.T) {
			f := &fakeFetcher{}
			w, body := doGet(t, NewRouter(f, zerolog.Nop()), target)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "Invalid latitude/longitude parameters", body["error"])
			assert.Zero(t, f.calls)
		})
	}
}

func TestPrayer_UpstreamFailureIsGeneric(t *testing.T) {
	f := &fakeFetcher{err: errors.Join(ErrUpstream, errors.New("dial tcp: secret-host:443 refused"))}
	w, body := doGet(t, NewRouter(f, zerolog.Nop()), "/api/prayer?city=Paris&country=FR")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, map[string]string{"error": "Failed to fetch prayer times."}, body)
	assert.NotContains(t, w.Body.String(), "secret-host")
}

func TestHealthz(t *testing.T) {
	w, body := doGet(t, NewRouter(&fakeFetcher{}, zerolog.Nop()), "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestCORSPreflight(t *testing.T) {
	r := NewRouter(&fakeFetcher{}, zerolog.Nop())

	req := httptest.NewRequest(http.MethodOptions, "/api/prayer", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
