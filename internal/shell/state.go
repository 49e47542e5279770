// Package shell holds the application state, the pure reducer that moves it
// forward, and the controller that performs lookups and fetches.
package shell

import (
	"fmt"
	"strconv"
	"time"

	"github.com/smokyabdulrahman/ramadan-compass/internal/fasting"
)

// Location is where timings were requested for.
type Location struct {
	City      string
	Country   string
	Latitude  float64
	Longitude float64
	HasCoords bool
}

// String renders the location for display.
func (l Location) String() string {
	switch {
	case l.City != "" && l.Country != "":
		return l.City + ", " + l.Country
	case l.City != "":
		return l.City
	case l.HasCoords:
		return strconv.FormatFloat(l.Latitude, 'f', 4, 64) + ", " + strconv.FormatFloat(l.Longitude, 'f', 4, 64)
	default:
		return "Unknown location"
	}
}

// State is an immutable snapshot of the application. Reduce returns a new
// value and never mutates its input.
type State struct {
	Location *Location
	Timings  *fasting.Timings
	Next     *fasting.Target
	Loading  bool
	Err      string
}

// Idle reports whether the user has to pick a location.
func (s State) Idle() bool {
	return !s.Loading && s.Timings == nil
}

// Event is something that happened to the application.
type Event interface {
	event()
}

// ManualEntrySubmitted is a city/country search.
type ManualEntrySubmitted struct {
	City    string
	Country string
}

// LocationRequested starts a device location lookup.
type LocationRequested struct{}

// LocationResolved carries a known location.
type LocationResolved struct {
	Location Location
}

// TimingsFetched carries the day's timings and the instant they arrived.
type TimingsFetched struct {
	Timings fasting.Timings
	At      time.Time
}

// FetchFailed carries a user-facing error message.
type FetchFailed struct {
	Err string
}

// CountdownCompleted reports that the active target was reached at At.
type CountdownCompleted struct {
	At time.Time
}

func (ManualEntrySubmitted) event() {}
func (LocationRequested) event()    {}
func (LocationResolved) event()     {}
func (TimingsFetched) event()       {}
func (FetchFailed) event()          {}
func (CountdownCompleted) event()   {}

// Reduce applies ev to s.
func Reduce(s State, ev Event) State {
	switch ev := ev.(type) {
	case ManualEntrySubmitted, LocationRequested:
		s.Loading = true
		s.Err = ""
	case LocationResolved:
		loc := ev.Location
		s.Location = &loc
	case TimingsFetched:
		next, err := fasting.NextEvent(&ev.Timings, ev.At)
		if err != nil {
			return Reduce(s, FetchFailed{Err: fmt.Sprintf("Received invalid prayer times: %v", err)})
		}
		t := ev.Timings
		s.Timings = &t
		s.Next = next
		s.Loading = false
		s.Err = ""
	case FetchFailed:
		s.Loading = false
		s.Err = ev.Err
	case CountdownCompleted:
		if s.Timings == nil {
			return s
		}
		// Timings were validated when stored.
		next, err := fasting.NextEvent(s.Timings, ev.At)
		if err == nil {
			s.Next = next
		}
	}
	return s
}
