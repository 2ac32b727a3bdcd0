package timeparse

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

var (
	ErrUnparseableTime = errors.New("unparseable time")
	ErrUnknownTimeZone = errors.New("unknown time zone")
)

// DisplayLayout is how times are shown to people.
const DisplayLayout = "3:04 pm"

// clockLayouts are tried in order against the lower-cased input.
var clockLayouts = []string{
	"15:04",
	"15.04",
	"15-04",
	"3:04pm",
	"3:04 pm",
	"3.04pm",
	"3.04 pm",
	"3pm",
	"3 pm",
}

var named = map[string]int{
	"midnight": 0,
	"noon":     12,
	"midday":   12,
}

// Abbreviations maps the zone abbreviations accepted as shorthands onto the
// IANA names they stand for.
var Abbreviations = map[string]string{
	"UTC": "Etc/UTC",
	"GMT": "Europe/London",
}

// Parse reads a time of day, or a full RFC 3339 timestamp, from free text.
// Bare times of day land on base's date in base's location.
func Parse(s string, base time.Time) (time.Time, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: empty string", ErrUnparseableTime)
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}

	lower := strings.ToLower(raw)
	if hour, ok := named[lower]; ok {
		return onDay(base, hour, 0), nil
	}

	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, lower)
		if err == nil {
			return onDay(base, t.Hour(), t.Minute()), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableTime, s)
}

func onDay(base time.Time, hour, minute int) time.Time {
	return time.Date(base.Year(), base.Month(), base.Day(), hour, minute, 0, 0, base.Location())
}

// FormatForDisplay renders t on a 12-hour clock, e.g. "3:04 pm".
func FormatForDisplay(t time.Time) string {
	return t.Format(DisplayLayout)
}

// Canonical resolves a zone name or accepted abbreviation to the IANA name
// used for lookups. The bool reports whether name was an abbreviation.
func Canonical(name string) (string, bool) {
	if full, ok := Abbreviations[strings.ToUpper(name)]; ok {
		return full, true
	}
	return name, false
}

// LoadZone looks up an IANA zone or accepted abbreviation.
func LoadZone(name string) (*time.Location, error) {
	full, _ := Canonical(strings.TrimSpace(name))
	// LoadLocation maps "" to UTC and "Local" to the host zone; neither names
	// a real zone here.
	if full == "" || full == "Local" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTimeZone, name)
	}
	loc, err := time.LoadLocation(full)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTimeZone, name)
	}
	return loc, nil
}

// NowInTimeZone converts now into the named zone.
func NowInTimeZone(name string, now time.Time) (time.Time, error) {
	loc, err := LoadZone(name)
	if err != nil {
		return time.Time{}, err
	}
	return now.In(loc), nil
}
