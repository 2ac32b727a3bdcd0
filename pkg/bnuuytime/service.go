package bnuuytime

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/catalog"
	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/clock"
	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/coverage"
	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/inverter"
	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/matcher"
	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/storage"
	"github.com/MaddyGuthridge/bnuuy-time-mvp/pkg/logger"
)

// bnuuyService is the default implementation of the Service interface.
type bnuuyService struct {
	source   catalog.Source
	matcher  *matcher.Matcher
	inverter *inverter.Inverter
	log      Logger
	config   *Config

	coverOnce sync.Once
	cover     coverage.Report
}

// NewService loads and validates the catalog. Any catalog problem is
// returned here, so a service that exists always has bunnies to serve.
func NewService(opts ...Option) (Service, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	// Set default logger if none provided
	if cfg.Logger == nil {
		cfg.Logger = logger.Named("bnuuytime")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if math.IsNaN(cfg.Threshold) || cfg.Threshold <= 0 || cfg.Threshold > matcher.MaxDistance {
		return nil, fmt.Errorf("threshold %v outside (0, %v]", cfg.Threshold, matcher.MaxDistance)
	}
	if cfg.DayJitter < 0 {
		return nil, fmt.Errorf("day jitter %d is negative", cfg.DayJitter)
	}

	src, err := pickSource(cfg)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Load(src)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	cfg.Logger.Infof("Loaded %d buns from %s", cat.Len(), src.Describe())

	return &bnuuyService{
		source:   src,
		matcher:  matcher.New(cat),
		inverter: &inverter.Inverter{Now: cfg.Now, DayJitter: cfg.DayJitter},
		log:      cfg.Logger,
		config:   cfg,
	}, nil
}

func pickSource(cfg *Config) (catalog.Source, error) {
	switch {
	case cfg.Source != nil:
		return cfg.Source, nil
	case cfg.SQLitePath != "" && cfg.CatalogPath != "":
		return nil, errors.New("catalog path and sqlite path are mutually exclusive")
	case cfg.SQLitePath != "":
		return storage.Source{Path: cfg.SQLitePath}, nil
	case cfg.CatalogPath != "":
		return catalog.FileSource{Path: cfg.CatalogPath}, nil
	default:
		return catalog.Embedded(), nil
	}
}

// FindBestMatch matches on t's wall-clock time in t's own location.
func (s *bnuuyService) FindBestMatch(t time.Time) MatchResult {
	q := clock.At(t)
	res := s.matcher.FindBestMatch(q)
	s.log.Debugf("best match for %s: %s (%.1f°)", q, res.Entry.Filename, res.Distance)
	return res
}

func (s *bnuuyService) FindAllWithinThreshold(t time.Time, threshold float64) []MatchResult {
	return s.matcher.FindAllWithinThreshold(clock.At(t), threshold)
}

func (s *bnuuyService) Rank(t time.Time) []MatchResult {
	return s.matcher.Rank(clock.At(t))
}

func (s *bnuuyService) SampleTimeForEntry(e Entry, rng Rand) (time.Time, error) {
	if rng == nil {
		rng = inverter.SharedRand()
	}
	return s.inverter.SampleTime(e, rng)
}

func (s *bnuuyService) LookupByFilename(name string) (Entry, bool) {
	return s.matcher.Catalog().LookupByFilename(name)
}

// ComputeCoverageReport sweeps the dial once and reuses the result; the
// catalog cannot change underneath it.
func (s *bnuuyService) ComputeCoverageReport() CoverageReport {
	s.coverOnce.Do(func() {
		start := time.Now()
		s.cover = coverage.Analyze(s.matcher, coverage.Options{
			Step:      s.config.CoverageStep,
			Threshold: s.config.Threshold,
		})
		s.log.Infof("Coverage: mean discrepancy %.1f°, %d/%d slots uncovered (%s)",
			s.cover.MeanDiscrepancy, s.cover.Uncovered, len(s.cover.Samples), time.Since(start))
	})

	report := s.cover
	report.Samples = append([]CoverageSample(nil), s.cover.Samples...)
	return report
}

func (s *bnuuyService) Entries() []Entry {
	return s.matcher.Catalog().Entries()
}

func (s *bnuuyService) Threshold() float64 {
	return s.config.Threshold
}

func (s *bnuuyService) Describe() string {
	return s.source.Describe()
}
