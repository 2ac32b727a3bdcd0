package catalog

import (
	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/clock"
)

// DefaultFocus is the crop focus used on either axis when an entry has none.
const DefaultFocus = 0.5

// Entry is one annotated bunny photo.
// Filename is the catalog's primary key; Angles are the ear positions read as
// clock hands and are normalized to [0, 360) once the entry is in a Catalog.
type Entry struct {
	Filename string
	Name     Name
	Angles   clock.Angles
	Source   *Attribution
	Focus    *FocusPoint
}

// Attribution credits the photo's author. Presentation only.
type Attribution struct {
	Author   string `toml:"author"`
	URL      string `toml:"url"`
	Platform string `toml:"platform"`
}

// FocusPoint is where a crop should centre, as fractions of width and height.
type FocusPoint struct {
	X float64
	Y float64
}

// EarAngleHour is the ear playing the hour hand.
func (e Entry) EarAngleHour() float64 { return e.Angles.Hour }

// EarAngleMinute is the ear playing the minute hand.
func (e Entry) EarAngleMinute() float64 { return e.Angles.Minute }

func (e Entry) clone() Entry {
	e.Name = e.Name.clone()
	if e.Source != nil {
		src := *e.Source
		e.Source = &src
	}
	if e.Focus != nil {
		f := *e.Focus
		e.Focus = &f
	}
	return e
}

// FocusOrDefault returns the crop focus, falling back to the centre.
func (e Entry) FocusOrDefault() FocusPoint {
	if e.Focus == nil {
		return FocusPoint{X: DefaultFocus, Y: DefaultFocus}
	}
	return *e.Focus
}
