package shell

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smokyabdulrahman/ramadan-compass/internal/fasting"
)

var day = time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

var sample = fasting.Timings{Fajr: "05:07", Maghrib: "18:42"}

func TestReduce_LoadingEvents(t *testing.T) {
	for name, ev := range map[string]Event{
		"manual": ManualEntrySubmitted{City: "Cairo", Country: "Egypt"},
		"device": LocationRequested{},
	} {
		t.Run(name, func(t *testing.T) {
			got := Reduce(State{Err: "old error"}, ev)
			assert.True(t, got.Loading)
			assert.Empty(t, got.Err)
		})
	}
}

func TestReduce_LocationResolvedKeepsLoading(t *testing.T) {
	s := Reduce(State{}, LocationRequested{})
	s = Reduce(s, LocationResolved{Location: Location{City: "Cairo", Country: "Egypt"}})

	require.NotNil(t, s.Location)
	assert.Equal(t, "Cairo, Egypt", s.Location.String())
	assert.True(t, s.Loading)
}

func TestReduce_TimingsFetched(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want fasting.Target
	}{
		{"before dawn", at(4, 0), fasting.Target{At: at(5, 7), Kind: fasting.Suhoor}},
		{"after dusk", at(19, 0), fasting.Target{At: at(5, 7).AddDate(0, 0, 1), Kind: fasting.Suhoor}},
		{"exactly dusk", at(18, 42), fasting.Target{At: at(5, 7).AddDate(0, 0, 1), Kind: fasting.Suhoor}},
		{"midday", at(12, 0), fasting.Target{At: at(18, 42), Kind: fasting.Iftar}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Reduce(State{Loading: true}, TimingsFetched{Timings: sample, At: tt.now})

			assert.False(t, s.Loading)
			assert.Empty(t, s.Err)
			require.NotNil(t, s.Timings)
			assert.Equal(t, sample, *s.Timings)
			require.NotNil(t, s.Next)
			assert.Equal(t, tt.want, *s.Next)
		})
	}
}

func TestReduce_MalformedTimingsActLikeFailure(t *testing.T) {
	prev := Reduce(State{}, TimingsFetched{Timings: sample, At: at(12, 0)})
	prev.Loading = true

	s := Reduce(prev, TimingsFetched{Timings: fasting.Timings{Fajr: "5:07", Maghrib: "18:42"}, At: at(12, 0)})

	assert.False(t, s.Loading)
	assert.Contains(t, s.Err, "invalid")
	require.NotNil(t, s.Timings)
	assert.Equal(t, sample, *s.Timings, "previous timings are kept")
}

func TestReduce_FetchFailedKeepsTimings(t *testing.T) {
	prev := Reduce(State{}, TimingsFetched{Timings: sample, At: at(12, 0)})
	s := Reduce(Reduce(prev, ManualEntrySubmitted{City: "x", Country: "y"}), FetchFailed{Err: "boom"})

	assert.False(t, s.Loading)
	assert.Equal(t, "boom", s.Err)
	assert.Equal(t, prev.Timings, s.Timings)
	assert.Equal(t, prev.Next, s.Next)
}

func TestReduce_FetchFailedFromIdle(t *testing.T) {
	s := Reduce(Reduce(State{}, LocationRequested{}), FetchFailed{Err: "boom"})
	assert.True(t, s.Idle())
	assert.Equal(t, "boom", s.Err)
}

func TestReduce_CountdownCompletedRecomputes(t *testing.T) {
	s := Reduce(State{}, TimingsFetched{Timings: sample, At: at(12, 0)})
	require.Equal(t, fasting.Iftar, s.Next.Kind)

	s = Reduce(s, CountdownCompleted{At: at(18, 42)})
	assert.Equal(t, fasting.Target{At: at(5, 7).AddDate(0, 0, 1), Kind: fasting.Suhoor}, *s.Next)
}

func TestReduce_CountdownCompletedWithoutTimings(t *testing.T) {
	s := Reduce(State{}, CountdownCompleted{At: at(18, 42)})
	assert.Nil(t, s.Next)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	orig := Reduce(State{}, TimingsFetched{Timings: sample, At: at(12, 0)})
	origNext := *orig.Next

	_ = Reduce(orig, CountdownCompleted{At: at(18, 42)})
	_ = Reduce(orig, TimingsFetched{Timings: fasting.Timings{Fajr: "04:00", Maghrib: "20:00"}, At: at(1, 0)})

	assert.Equal(t, origNext, *orig.Next)
	assert.Equal(t, sample, *orig.Timings)
}

func TestLocation_String(t *testing.T) {
	assert.Equal(t, "London, UK", Location{City: "London", Country: "UK"}.String())
	assert.Equal(t, "London", Location{City: "London"}.String())
	assert.Equal(t, "51.5074, -0.1278", Location{Latitude: 51.5074, Longitude: -0.1278, HasCoords: true}.String())
	assert.Equal(t, "Unknown location", Location{}.String())
}
