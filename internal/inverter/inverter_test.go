package inverter

import (
	"math/rand/v2"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/catalog"
	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/clock"
)

// scripted replays fixed draws, failing the test if it runs dry.
type scripted struct {
	t     *testing.T
	draws []int
}

func (s *scripted) IntN(n int) int {
	s.t.Helper()
	require.NotEmpty(s.t, s.draws, "rng exhausted")
	v := s.draws[0]
	s.draws = s.draws[1:]
	require.Less(s.t, v, n)
	return v
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestSampleTime_RoundTripsEmbeddedCatalog(t *testing.T) {
	cat, err := catalog.Load(catalog.Embedded())
	require.NoError(t, err)

	inv := &Inverter{Now: time.Now, DayJitter: 30}
	rng := rand.New(rand.NewPCG(7, 11))

	for _, e := range cat.Entries() {
		for i := 0; i < 100; i++ {
			ts, err := inv.SampleTime(e, rng)
			require.NoError(t, err)

			got := clock.AngleOf(clock.At(ts))
			assert.LessOrEqual(t, clock.AngularDistance(got.Hour, e.Angles.Hour), clock.Tolerance, "%s at %s", e.Filename, ts)
			assert.LessOrEqual(t, clock.AngularDistance(got.Minute, e.Angles.Minute), clock.Tolerance, "%s at %s", e.Filename, ts)
		}
	}
}

func TestSampleTime_ExactWithScriptedRand(t *testing.T) {
	now := time.Date(2024, time.March, 14, 9, 26, 53, 0, time.UTC)
	inv := &Inverter{Now: fixedNow(now), DayJitter: 7}

	// 97.5° / 90° is 3:15 on the dial
	e := catalog.Entry{Filename: "garden-visitor.jpg", Angles: clock.Angles{Hour: 97.5, Minute: 90}}

	ts, err := inv.SampleTime(e, &scripted{t: t, draws: []int{1, 3, 42}})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 11, 15, 15, 42, 0, time.UTC), ts)

	ts, err = inv.SampleTime(e, &scripted{t: t, draws: []int{0, 0, 0}})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 14, 3, 15, 0, 0, time.UTC), ts)
}

func TestSampleTime_NoJitterStaysToday(t *testing.T) {
	now := time.Date(2024, time.December, 31, 23, 59, 0, 0, time.UTC)
	inv := &Inverter{Now: fixedNow(now)}

	e := catalog.Entry{Filename: "midnight.jpg"}
	// no date draw when DayJitter is zero
	ts, err := inv.SampleTime(e, &scripted{t: t, draws: []int{1, 5}})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.December, 31, 12, 0, 5, 0, time.UTC), ts)
}

func TestSampleTime_KeepsLocation(t *testing.T) {
	loc, err := time.LoadLocation("Australia/Sydney")
	require.NoError(t, err)

	inv := &Inverter{Now: fixedNow(time.Date(2024, time.June, 1, 8, 0, 0, 0, loc))}
	e := catalog.Entry{Filename: "x.jpg", Angles: clock.AngleOf(clock.Query{Hour: 7, Minute: 40})}

	ts, err := inv.SampleTime(e, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	assert.Equal(t, loc, ts.Location())
	assert.Contains(t, []int{7, 19}, ts.Hour())
	assert.Equal(t, 40, ts.Minute())
}

func TestSampleTime_SkipsDSTGap(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2024-03-10 02:00-03:00 does not exist in New York
	inv := &Inverter{Now: fixedNow(time.Date(2024, time.March, 10, 12, 0, 0, 0, loc))}
	e := catalog.Entry{Filename: "gap.jpg", Angles: clock.AngleOf(clock.Query{Hour: 2, Minute: 30})}

	ts, err := inv.SampleTime(e, &scripted{t: t, draws: []int{0, 0}})
	require.NoError(t, err)
	assert.Equal(t, 14, ts.Hour())
	assert.Equal(t, 30, ts.Minute())
}

func TestSampleTime_Unrealizable(t *testing.T) {
	inv := New()
	_, err := inv.SampleTime(catalog.Entry{Filename: "odd.jpg", Angles: clock.Angles{Hour: 90, Minute: 180}}, SharedRand())
	assert.ErrorIs(t, err, ErrUnrealizable)
	assert.Contains(t, err.Error(), "odd.jpg")
}

func TestSharedRand_Concurrent(t *testing.T) {
	inv := New()
	e := catalog.Entry{Filename: "a.jpg", Angles: clock.AngleOf(clock.Query{Hour: 4, Minute: 20})}

	done := make(chan struct{})
	for g := 0; g < 8; g++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 100; i++ {
				if _, err := inv.SampleTime(e, SharedRand()); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	for g := 0; g < 8; g++ {
		<-done
	}
}
