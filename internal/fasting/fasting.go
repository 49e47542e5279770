// Package fasting decides which daily fasting boundary comes next and how
// long remains until it.
//
// The two boundaries are Fajr, which ends the pre-dawn meal (Suhoor), and
// Maghrib, which starts the evening meal (Iftar). Both arrive as "HH:MM"
// wall-clock strings and are resolved against the calendar date and
// location of the reference instant passed in; nothing here reads the
// system clock.
package fasting

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTime is returned for time-of-day strings that are not "HH:MM".
var ErrInvalidTime = errors.New("invalid time of day")

// Kind identifies one of the two daily boundaries.
type Kind int

const (
	// Suhoor is the dawn boundary (Fajr).
	Suhoor Kind = iota
	// Iftar is the dusk boundary (Maghrib).
	Iftar
)

// String returns the short event name, e.g. "Suhoor".
func (k Kind) String() string {
	switch k {
	case Suhoor:
		return "Suhoor"
	case Iftar:
		return "Iftar"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Label returns the display label for the boundary.
func (k Kind) Label() string {
	if k == Suhoor {
		return "Suhoor ends"
	}
	return k.String()
}

// Prayer returns the prayer whose time marks the boundary.
func (k Kind) Prayer() string {
	if k == Suhoor {
		return "Fajr"
	}
	return "Maghrib"
}

// Timings holds one day's boundary times as "HH:MM" strings.
type Timings struct {
	Fajr    string `json:"fajr"`
	Maghrib string `json:"maghrib"`
}

// Validate reports whether both boundary times are well formed.
func (t Timings) Validate() error {
	if _, _, err := ParseClock(t.Fajr); err != nil {
		return fmt.Errorf("fajr: %w", err)
	}
	if _, _, err := ParseClock(t.Maghrib); err != nil {
		return fmt.Errorf("maghrib: %w", err)
	}
	return nil
}

// Target is the next boundary and the instant it occurs.
type Target struct {
	At   time.Time
	Kind Kind
}

// Remaining is the time left until a Target, split into whole units.
// When Complete is true all units are zero.
type Remaining struct {
	Hours    int
	Minutes  int
	Seconds  int
	Complete bool
}

// ParseClock parses a 24-hour "HH:MM" string with both fields zero padded.
func ParseClock(s string) (hour, minute int, err error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	hour, ok := twoDigits(s[0], s[1])
	if !ok || hour > 23 {
		return 0, 0, fmt.Errorf("%w: hour out of range in %q", ErrInvalidTime, s)
	}
	minute, ok = twoDigits(s[3], s[4])
	if !ok || minute > 59 {
		return 0, 0, fmt.Errorf("%w: minute out of range in %q", ErrInvalidTime, s)
	}
	return hour, minute, nil
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}

// ResolveToday returns the instant at s on now's calendar date, in now's location.
func ResolveToday(s string, now time.Time) (time.Time, error) {
	h, m, err := ParseClock(s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(now.Year(), now.Month(), now.Day(), h, m, 0, 0, now.Location()), nil
}

// ResolveTomorrow returns the instant at s on the calendar day after now.
// The date is advanced by one calendar day rather than 24 hours, so the
// wall-clock time is kept across daylight-saving changes.
func ResolveTomorrow(s string, now time.Time) (time.Time, error) {
	today, err := ResolveToday(s, now)
	if err != nil {
		return time.Time{}, err
	}
	return today.AddDate(0, 0, 1), nil
}

// NextEvent returns the nearest boundary strictly after now.
// A nil Timings yields a nil Target. An instant equal to a boundary counts
// as past it.
func NextEvent(t *Timings, now time.Time) (*Target, error) {
	if t == nil {
		return nil, nil
	}

	fajr, err := ResolveToday(t.Fajr, now)
	if err != nil {
		return nil, fmt.Errorf("fajr: %w", err)
	}
	maghrib, err := ResolveToday(t.Maghrib, now)
	if err != nil {
		return nil, fmt.Errorf("maghrib: %w", err)
	}

	switch {
	case now.Before(fajr):
		return &Target{At: fajr, Kind: Suhoor}, nil
	case now.Before(maghrib):
		return &Target{At: maghrib, Kind: Iftar}, nil
	default:
		// Fajr always precedes Maghrib, so tomorrow's Maghrib is never next.
		return &Target{At: fajr.AddDate(0, 0, 1), Kind: Suhoor}, nil
	}
}

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
)

// ComputeRemaining splits the time from now until target into hours,
// minutes and seconds, truncating sub-second precision.
func ComputeRemaining(target Target, now time.Time) Remaining {
	diff := target.At.Sub(now).Milliseconds()
	if diff <= 0 {
		return Remaining{Complete: true}
	}
	return Remaining{
		Hours:   int(diff / msPerHour),
		Minutes: int(diff % msPerHour / msPerMinute),
		Seconds: int(diff % msPerMinute / msPerSecond),
	}
}

// Duration converts r back into a time.Duration.
func (r Remaining) Duration() time.Duration {
	return time.Duration(r.Hours)*time.Hour +
		time.Duration(r.Minutes)*time.Minute +
		time.Duration(r.Seconds)*time.Second
}
