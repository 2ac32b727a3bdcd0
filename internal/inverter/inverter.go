package inverter

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/catalog"
	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/clock"
)

// ErrUnrealizable is returned for an entry whose ear angles no clock can show.
// Catalog loading rejects such entries, so seeing it means the entry did not
// come from a loaded catalog.
var ErrUnrealizable = errors.New("ear angles are not a realizable clock position")

// DefaultDayJitter is how many days back a sampled date may fall.
const DefaultDayJitter = 0

// Rand is the randomness SampleTime draws from. *rand.Rand satisfies it, so
// tests can pass a seeded PCG source and assert exact timestamps.
type Rand interface {
	IntN(n int) int
}

type sharedRand struct{}

func (sharedRand) IntN(n int) int { return rand.IntN(n) }

// SharedRand is backed by the math/rand/v2 top-level functions and is safe
// for concurrent use.
func SharedRand() Rand { return sharedRand{} }

// Inverter turns catalog entries back into timestamps they could be showing.
type Inverter struct {
	// Now supplies "today". Defaults to time.Now.
	Now func() time.Time
	// DayJitter widens the date to any of the last DayJitter+1 days.
	DayJitter int
}

// New returns an Inverter anchored to the wall clock.
func New() *Inverter {
	return &Inverter{Now: time.Now, DayJitter: DefaultDayJitter}
}

// SampleTime produces a timestamp whose clock hands sit where the entry's
// ears point. The dial fixes hour mod 12 and the minute; AM or PM, the date
// and the seconds are drawn from rng.
func (inv *Inverter) SampleTime(e catalog.Entry, rng Rand) (time.Time, error) {
	q, ok := clock.Invert(e.Angles, clock.Tolerance)
	if !ok {
		return time.Time{}, fmt.Errorf("sampling %q at %s: %w", e.Filename, e.Angles, ErrUnrealizable)
	}

	now := time.Now
	if inv.Now != nil {
		now = inv.Now
	}
	today := now()

	hour := q.Hour + 12*rng.IntN(2)

	back := 0
	if inv.DayJitter > 0 {
		back = rng.IntN(inv.DayJitter + 1)
	}
	day := today.AddDate(0, 0, -back)

	second := rng.IntN(60)

	t := time.Date(day.Year(), day.Month(), day.Day(), hour, q.Minute, second, 0, today.Location())
	if t.Hour() != hour {
		// skipped by a DST jump; the other half of the day shows the same dial
		hour = (hour + 12) % 24
		t = time.Date(day.Year(), day.Month(), day.Day(), hour, q.Minute, second, 0, today.Location())
	}
	return t, nil
}
