package shell

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/ramadan-compass/internal/clock"
	"github.com/smokyabdulrahman/ramadan-compass/internal/fasting"
	"github.com/smokyabdulrahman/ramadan-compass/internal/geo"
	"github.com/smokyabdulrahman/ramadan-compass/internal/notify"
	"github.com/smokyabdulrahman/ramadan-compass/internal/proxy"
)

const (
	msgCityFailed   = "Failed to fetch prayer times for that location."
	msgCoordsFailed = "Failed to fetch prayer times for your coordinates."
	msgLocateFailed = "Error getting location: "
)

// Locator finds the device's location.
type Locator interface {
	Locate(ctx context.Context) (*geo.Location, error)
}

// Shell runs the side effects behind each user action and folds their
// results into State through Reduce.
type Shell struct {
	Fetcher  proxy.Fetcher
	Locator  Locator
	Clock    clock.Clock
	Notifier notify.Notifier
	Logger   zerolog.Logger
}

func (s *Shell) clock() clock.Clock {
	if s.Clock == nil {
		return clock.Real{}
	}
	return s.Clock
}

// Apply folds events into state in order.
func Apply(state State, events ...Event) State {
	for _, ev := range events {
		state = Reduce(state, ev)
	}
	return state
}

// SearchCity fetches timings for a city. Blank input leaves state unchanged.
func (s *Shell) SearchCity(ctx context.Context, state State, city, country string) State {
	city, country = strings.TrimSpace(city), strings.TrimSpace(country)
	if city == "" || country == "" {
		return state
	}
	state = Reduce(state, ManualEntrySubmitted{City: city, Country: country})
	return Apply(state, s.LookupCity(ctx, city, country)...)
}

// SearchCoordinates fetches timings for a fixed position.
func (s *Shell) SearchCoordinates(ctx context.Context, state State, lat, lng float64) State {
	state = Reduce(state, LocationRequested{})
	return Apply(state, s.LookupCoordinates(ctx, lat, lng)...)
}

// UseDeviceLocation looks up the device's location and fetches timings for it.
func (s *Shell) UseDeviceLocation(ctx context.Context, state State) State {
	state = Reduce(state, LocationRequested{})
	return Apply(state, s.LookupDevice(ctx)...)
}

// LookupCity fetches timings for a city and returns the resulting events.
// The location is only reported once the fetch succeeds.
func (s *Shell) LookupCity(ctx context.Context, city, country string) []Event {
	timings, err := s.Fetcher.Fetch(ctx, proxy.ByCity(city, country))
	if err != nil {
		s.Logger.Warn().Err(err).Str("city", city).Str("country", country).Msg("fetch failed")
		return []Event{FetchFailed{Err: msgCityFailed}}
	}
	return []Event{
		LocationResolved{Location: Location{City: city, Country: country}},
		TimingsFetched{Timings: timings, At: s.clock().Now()},
	}
}

// LookupCoordinates fetches timings for a fixed position and returns the
// resulting events.
func (s *Shell) LookupCoordinates(ctx context.Context, lat, lng float64) []Event {
	loc := Location{Latitude: lat, Longitude: lng, HasCoords: true}
	return append([]Event{LocationResolved{Location: loc}}, s.fetchCoordinates(ctx, loc))
}

// LookupDevice finds the device's location, fetches timings for it and
// returns the resulting events.
func (s *Shell) LookupDevice(ctx context.Context) []Event {
	found, err := s.Locator.Locate(ctx)
	if err != nil {
		s.Logger.Warn().Err(err).Msg("location lookup failed")
		return []Event{FetchFailed{Err: msgLocateFailed + err.Error()}}
	}

	loc := Location{
		City:      found.City,
		Country:   found.Country,
		Latitude:  found.Latitude,
		Longitude: found.Longitude,
		HasCoords: true,
	}
	s.Logger.Debug().
		Str("location", loc.String()).
		Str("timezone", found.Timezone).
		Msg("device location resolved")
	return []Event{LocationResolved{Location: loc}, s.fetchCoordinates(ctx, loc)}
}

func (s *Shell) fetchCoordinates(ctx context.Context, loc Location) Event {
	timings, err := s.Fetcher.Fetch(ctx, proxy.ByCoordinates(loc.Latitude, loc.Longitude))
	if err != nil {
		s.Logger.Warn().Err(err).
			Float64("lat", loc.Latitude).
			Float64("lng", loc.Longitude).
			Msg("fetch failed")
		return FetchFailed{Err: msgCoordsFailed}
	}
	return TimingsFetched{Timings: timings, At: s.clock().Now()}
}

// Complete handles a finished countdown: it moves state on to the next
// target and publishes the transition.
func (s *Shell) Complete(ctx context.Context, state State, reached fasting.Target) State {
	state = Reduce(state, CountdownCompleted{At: s.clock().Now()})
	s.Announce(ctx, reached, state.Next)
	return state
}

// Announce publishes a transition. Failures are logged and otherwise ignored.
func (s *Shell) Announce(ctx context.Context, reached fasting.Target, next *fasting.Target) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Notify(ctx, notify.Event{Reached: reached, Next: next}); err != nil {
		s.Logger.Warn().Err(err).Str("event", reached.Kind.String()).Msg("failed to publish transition")
	}
}
