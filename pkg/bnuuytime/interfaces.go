package bnuuytime

import "time"

// Service is the matching engine behind the web server and CLI. All methods
// are safe for concurrent use; the catalog never changes after NewService.
type Service interface {
	// FindBestMatch returns the bunny closest to t's clock position. It always
	// returns one, however poor the fit.
	FindBestMatch(t time.Time) MatchResult
	// FindAllWithinThreshold returns every bunny within threshold degrees of
	// t, nearest first. An empty result means no acceptable bunny.
	FindAllWithinThreshold(t time.Time, threshold float64) []MatchResult
	// Rank scores every bunny against t, nearest first, with no threshold.
	Rank(t time.Time) []MatchResult
	// SampleTimeForEntry produces a time whose clock hands match the bunny's ears.
	SampleTimeForEntry(e Entry, rng Rand) (time.Time, error)
	LookupByFilename(name string) (Entry, bool)
	ComputeCoverageReport() CoverageReport

	Entries() []Entry
	Threshold() float64
	Describe() string
}

type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}
