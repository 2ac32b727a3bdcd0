package clock

import (
	"fmt"
	"math"
	"time"
)

const (
	// FullTurn is one revolution of a clock hand, in degrees.
	FullTurn = 360.0

	// DegreesPerMinute is how far the minute hand moves per minute.
	DegreesPerMinute = FullTurn / 60

	// DegreesPerHour is how far the hour hand moves per hour on a 12-hour dial.
	DegreesPerHour = FullTurn / 12

	// HourDriftPerMinute is the hour hand's continuous drift within an hour.
	HourDriftPerMinute = DegreesPerHour / 60

	// Tolerance is the per-hand error (degrees) accepted when an angle pair
	// is inverted back into a dial position.
	Tolerance = 0.01
)

// Query is a time of day reduced to what the clock face can show.
// Seconds are deliberately absent.
type Query struct {
	Hour   int // 0-23
	Minute int // 0-59
}

// At extracts the query for a timestamp in its own location.
func At(t time.Time) Query {
	return Query{Hour: t.Hour(), Minute: t.Minute()}
}

// String renders the query as HH:MM on a 24-hour clock.
func (q Query) String() string {
	return fmt.Sprintf("%02d:%02d", q.Hour, q.Minute)
}

// Label renders the query the way a 12-hour dial reads it ("12:05", "1:30").
func (q Query) Label() string {
	h := q.Hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d", h, q.Minute)
}

// Angles is an angle pair: the hour hand and minute hand, each in [0, 360).
type Angles struct {
	Hour   float64
	Minute float64
}

func (a Angles) String() string {
	return fmt.Sprintf("(%.2f°, %.2f°)", a.Hour, a.Minute)
}

// AngleOf converts a query to the angles of an analog clock's hands.
// The hour hand drifts continuously through its sector as minutes pass.
func AngleOf(q Query) Angles {
	minute := float64(q.Minute)
	return Angles{
		Hour:   Normalize(float64(q.Hour%12)*DegreesPerHour + minute*HourDriftPerMinute),
		Minute: Normalize(minute * DegreesPerMinute),
	}
}

// Normalize wraps any finite angle into [0, 360).
func Normalize(deg float64) float64 {
	deg = math.Mod(deg, FullTurn)
	if deg < 0 {
		deg += FullTurn
	}
	// math.Mod can hand back -0 or, after the correction above, exactly 360
	// for tiny negative inputs.
	if deg == 0 || deg >= FullTurn {
		return 0
	}
	return deg
}

// AngularDistance is the shortest circular distance between two angles, in [0, 180].
// Every angle comparison must go through here; 359° and 1° are 2° apart.
func AngularDistance(a, b float64) float64 {
	d := math.Abs(Normalize(a) - Normalize(b))
	if d > FullTurn/2 {
		d = FullTurn - d
	}
	return d
}

// CombinedDistance merges both hands' errors into the single scalar used for
// ranking: the plain sum, hour and minute weighted equally. Range [0, 360].
func CombinedDistance(a, b Angles) float64 {
	return AngularDistance(a.Hour, b.Hour) + AngularDistance(a.Minute, b.Minute)
}

// Invert finds the 12-hour dial position (Hour in 0-11) whose hands reproduce
// the given pair within tol degrees per hand. The minute hand pins the minute,
// which pins how far the hour hand sits into its sector, so at most one
// position qualifies.
func Invert(a Angles, tol float64) (Query, bool) {
	if math.IsNaN(a.Hour) || math.IsNaN(a.Minute) || math.IsInf(a.Hour, 0) || math.IsInf(a.Minute, 0) {
		return Query{}, false
	}

	minute := int(math.Round(Normalize(a.Minute)/DegreesPerMinute)) % 60
	sector := Normalize(a.Hour - float64(minute)*HourDriftPerMinute)
	hour := int(math.Round(sector/DegreesPerHour)) % 12

	q := Query{Hour: hour, Minute: minute}
	got := AngleOf(q)
	if AngularDistance(got.Hour, a.Hour) > tol || AngularDistance(got.Minute, a.Minute) > tol {
		return Query{}, false
	}
	return q, true
}
