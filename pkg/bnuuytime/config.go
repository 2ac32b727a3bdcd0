package bnuuytime

import (
	"time"

	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/catalog"
	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/coverage"
	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/inverter"
	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/matcher"
)

type Config struct {
	CatalogPath  string
	SQLitePath   string
	Source       catalog.Source
	Threshold    float64
	CoverageStep int
	DayJitter    int
	Now          func() time.Time
	Logger       Logger
}

type Option func(*Config)

// WithCatalogPath loads the catalog from a TOML file instead of the
// built-in one.
func WithCatalogPath(path string) Option {
	return func(c *Config) {
		c.CatalogPath = path
	}
}

// WithSQLitePath loads the catalog from a database written by the CLI's
// export command.
func WithSQLitePath(path string) Option {
	return func(c *Config) {
		c.SQLitePath = path
	}
}

// WithSource loads the catalog from any source. It wins over the path
// options.
func WithSource(src catalog.Source) Option {
	return func(c *Config) {
		c.Source = src
	}
}

func WithThreshold(degrees float64) Option {
	return func(c *Config) {
		c.Threshold = degrees
	}
}

func WithCoverageStep(minutes int) Option {
	return func(c *Config) {
		c.CoverageStep = minutes
	}
}

func WithDayJitter(days int) Option {
	return func(c *Config) {
		c.DayJitter = days
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		c.Now = now
	}
}

func WithLogger(log Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

func defaultConfig() *Config {
	return &Config{
		Threshold:    matcher.DefaultThreshold,
		CoverageStep: coverage.DefaultStep,
		DayJitter:    inverter.DefaultDayJitter,
		Now:          time.Now,
		Logger:       nil,
	}
}
