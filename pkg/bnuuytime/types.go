package bnuuytime

import (
	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/catalog"
	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/coverage"
	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/inverter"
	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/matcher"
)

// Entry is one bunny photo with its ear angles.
type Entry = catalog.Entry

// MatchResult is an entry scored against a time; Distance is the combined
// angular distance in degrees.
type MatchResult = matcher.Result

// CoverageReport summarises how well the catalog covers the dial.
type CoverageReport = coverage.Report

// CoverageSample is one slot of a CoverageReport.
type CoverageSample = coverage.Sample

// Rand is the randomness SampleTimeForEntry draws from.
type Rand = inverter.Rand

type (
	Name        = catalog.Name
	Attribution = catalog.Attribution
	FocusPoint  = catalog.FocusPoint
)

// DefaultThreshold is the combined distance under which a bunny is accepted.
const DefaultThreshold = matcher.DefaultThreshold

// SharedRand is a goroutine-safe Rand for request handlers.
func SharedRand() Rand { return inverter.SharedRand() }
