// Package proxy narrows Al Adhan timings to the two fasting boundaries and
// serves them over HTTP.
package proxy

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/ramadan-compass/internal/api"
	"github.com/smokyabdulrahman/ramadan-compass/internal/fasting"
)

var (
	// ErrMissingLocation means neither coordinates nor city and country were given.
	ErrMissingLocation = errors.New("missing latitude/longitude or city/country parameters")
	// ErrUpstream means the timing service could not produce usable timings.
	ErrUpstream = errors.New("upstream fetch failed")
)

// Query selects a location either by coordinates or by city and country.
// Coordinates win when both are present.
type Query struct {
	Lat, Lng  float64
	HasCoords bool
	City      string
	Country   string
}

// ByCoordinates builds a coordinate query.
func ByCoordinates(lat, lng float64) Query {
	return Query{Lat: lat, Lng: lng, HasCoords: true}
}

// ByCity builds a city query.
func ByCity(city, country string) Query {
	return Query{City: city, Country: country}
}

// Validate reports ErrMissingLocation for an incomplete query.
func (q Query) Validate() error {
	if q.HasCoords || (q.City != "" && q.Country != "") {
		return nil
	}
	return ErrMissingLocation
}

// Upstream is the subset of the Al Adhan client the service needs.
type Upstream interface {
	FetchByCoordinates(ctx context.Context, lat, lon float64) (*api.Response, error)
	FetchByCity(ctx context.Context, city, country string) (*api.Response, error)
}

// Service fetches timings from the upstream API and keeps only Fajr and Maghrib.
type Service struct {
	upstream Upstream

	// Logger receives the upstream date and timezone at debug level.
	// The zero value discards.
	Logger zerolog.Logger
}

// NewService returns a Service backed by upstream.
func NewService(upstream Upstream) *Service {
	return &Service{upstream: upstream}
}

// Fetch returns the day's boundary times for q.
func (s *Service) Fetch(ctx context.Context, q Query) (fasting.Timings, error) {
	if err := q.Validate(); err != nil {
		return fasting.Timings{}, err
	}

	var (
		resp *api.Response
		err  error
	)
	if q.HasCoords {
		resp, err = s.upstream.FetchByCoordinates(ctx, q.Lat, q.Lng)
	} else {
		resp, err = s.upstream.FetchByCity(ctx, q.City, q.Country)
	}
	if err != nil {
		return fasting.Timings{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	s.Logger.Debug().
		Str("date", resp.Data.Date.Readable).
		Str("timezone", resp.Data.Meta.Timezone).
		Msg("upstream timings")

	timings := fasting.Timings{
		Fajr:    api.StripZone(resp.Data.Timings.Fajr),
		Maghrib: api.StripZone(resp.Data.Timings.Maghrib),
	}
	if err := timings.Validate(); err != nil {
		return fasting.Timings{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return timings, nil
}
