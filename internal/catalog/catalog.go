package catalog

import (
	"math"

	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/clock"
)

// Catalog is the immutable set of bunnies. It is built once at startup and
// then shared by every request; nothing exposes write access, so readers need
// no locking.
type Catalog struct {
	entries    []Entry
	byFilename map[string]int
}

// Source produces the raw entries a Catalog is built from.
type Source interface {
	Load() ([]Entry, error)
	Describe() string
}

// Load reads a source and validates it into a Catalog, including Verify.
// This is the startup path: whatever it returns can serve every operation.
func Load(src Source) (*Catalog, error) {
	entries, err := src.Load()
	if err != nil {
		return nil, &CatalogError{
			Kind:    KindSource,
			Index:   -1,
			Message: "reading " + src.Describe(),
			Cause:   err,
		}
	}
	c, err := New(entries)
	if err != nil {
		return nil, err
	}
	if err := c.Verify(); err != nil {
		return nil, err
	}
	return c, nil
}

// New validates entries and builds a Catalog from them, keeping their order.
// Angles are normalized to [0, 360). Any angle pair is accepted; Verify
// checks that each one is a position a real clock can show.
func New(entries []Entry) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, newError(KindEmpty, -1, "", "no bunnies to serve")
	}

	c := &Catalog{
		entries:    make([]Entry, 0, len(entries)),
		byFilename: make(map[string]int, len(entries)),
	}

	for i, e := range entries {
		if e.Filename == "" {
			return nil, newError(KindMissingFilename, i, "", "")
		}
		if first, dup := c.byFilename[e.Filename]; dup {
			return nil, newError(KindDuplicateFilename, i, e.Filename, "already defined by entry #%d", first)
		}
		if !finite(e.Angles.Hour) || !finite(e.Angles.Minute) {
			return nil, newError(KindInvalidAngle, i, e.Filename, "hour=%v minute=%v", e.Angles.Hour, e.Angles.Minute)
		}

		e.Angles = clock.Angles{
			Hour:   clock.Normalize(e.Angles.Hour),
			Minute: clock.Normalize(e.Angles.Minute),
		}

		c.byFilename[e.Filename] = len(c.entries)
		c.entries = append(c.entries, e.clone())
	}

	return c, nil
}

// Verify reports the first entry whose ear angles no clock can show, which
// would leave the inverter unable to give it a time.
func (c *Catalog) Verify() error {
	for i, e := range c.entries {
		if _, ok := clock.Invert(e.Angles, clock.Tolerance); !ok {
			return newError(KindUnrealizable, i, e.Filename, "%v", e.Angles)
		}
	}
	return nil
}

// Len is the number of entries; always at least one.
func (c *Catalog) Len() int { return len(c.entries) }

// At returns the entry at a catalog position.
func (c *Catalog) At(i int) Entry { return c.entries[i].clone() }

// Entries returns deep copies of the entries in catalog order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.clone()
	}
	return out
}

// Angles visits every entry's angle pair in catalog order. It is the hot path
// for matching, so nothing is copied.
func (c *Catalog) Angles(fn func(i int, a clock.Angles)) {
	for i := range c.entries {
		fn(i, c.entries[i].Angles)
	}
}

// LookupByFilename is a plain keyed lookup.
func (c *Catalog) LookupByFilename(name string) (Entry, bool) {
	i, ok := c.byFilename[name]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i].clone(), true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
