package coverage

import (
	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/clock"
	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/matcher"
)

const (
	// DefaultStep is the grid spacing in minutes.
	DefaultStep = 5

	// GreatMatchCount is the number of acceptable bunnies at which a slot is
	// considered fully covered.
	GreatMatchCount = 3

	// BadDistance is the closest distance at which a slot looks wrong.
	BadDistance = 30.0
)

// Options tunes an analysis. Zero values fall back to the defaults.
type Options struct {
	Step      int     // minutes between slots
	Threshold float64 // acceptance threshold for match counts
}

// Sample is one grid slot: how many bunnies are acceptable there, and how
// far off the nearest one is even when none are.
type Sample struct {
	Slot            clock.Query
	MatchCount      int
	ClosestDistance float64
	Closest         string
}

// Report aggregates a full sweep of the dial.
type Report struct {
	Samples         []Sample
	MeanDiscrepancy float64
	Threshold       float64
	Step            int
	Worst           Sample
	Best            Sample
	Uncovered       int // slots with no acceptable bunny
}

// Analyze sweeps 00:00 to the last slot before 12:00 and scores each slot.
// It only reads the catalog.
func Analyze(m *matcher.Matcher, opts Options) Report {
	step := opts.Step
	if step <= 0 || step > 12*60 {
		step = DefaultStep
	}
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = matcher.DefaultThreshold
	}

	r := Report{
		Samples:   make([]Sample, 0, 12*60/step+1),
		Threshold: threshold,
		Step:      step,
	}

	total := 0.0
	for offset := 0; offset < 12*60; offset += step {
		q := clock.Query{Hour: offset / 60, Minute: offset % 60}
		best := m.FindBestMatch(q)
		s := Sample{
			Slot:            q,
			MatchCount:      len(m.FindAllWithinThreshold(q, threshold)),
			ClosestDistance: best.Distance,
			Closest:         best.Entry.Filename,
		}

		if len(r.Samples) == 0 || s.ClosestDistance > r.Worst.ClosestDistance {
			r.Worst = s
		}
		if len(r.Samples) == 0 || s.ClosestDistance < r.Best.ClosestDistance {
			r.Best = s
		}
		if s.MatchCount == 0 {
			r.Uncovered++
		}

		total += s.ClosestDistance
		r.Samples = append(r.Samples, s)
	}

	r.MeanDiscrepancy = total / float64(len(r.Samples))
	return r
}

// Grade buckets a slot for display.
type Grade int

const (
	Poor Grade = iota
	Fair
	Good
)

func (g Grade) String() string {
	switch g {
	case Good:
		return "good"
	case Fair:
		return "fair"
	default:
		return "poor"
	}
}

// Grade classifies a slot: three or more acceptable bunnies is good, a
// nearest bunny at BadDistance or beyond is poor.
func (s Sample) Grade() Grade {
	switch {
	case s.ClosestDistance >= BadDistance:
		return Poor
	case s.MatchCount >= GreatMatchCount:
		return Good
	default:
		return Fair
	}
}

// CountScore and DistanceScore map a sample onto [0, 1] for colour scales,
// 1 being best.
func (s Sample) CountScore() float64 {
	return clamp(float64(s.MatchCount) / GreatMatchCount)
}

func (s Sample) DistanceScore() float64 {
	return clamp((BadDistance - s.ClosestDistance) / 10)
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
