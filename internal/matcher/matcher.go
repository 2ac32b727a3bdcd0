package matcher

import (
	"sort"

	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/catalog"
	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/clock"
)

// ------------------------ TUNABLES ------------------------
const (
	// DefaultThreshold is the combined distance (degrees, hour + minute) up to
	// which a bunny counts as an acceptable match, roughly 15° per ear. Coverage
	// classification treats 30° as the point where a match looks wrong.
	DefaultThreshold = 30.0

	// MaxDistance is the largest combined distance possible.
	MaxDistance = 360.0

	// epsilon absorbs float noise so a threshold of 0 still admits exact matches.
	epsilon = 1e-9
)

// Result pairs a catalog entry with its combined angular distance from the
// query. Index is the entry's catalog position and breaks ties.
type Result struct {
	Distance float64
	Entry    catalog.Entry
	Index    int
}

// Matcher scores a catalog against clock positions. It holds only the
// read-only catalog, so one Matcher is safe to share across goroutines.
type Matcher struct {
	cat *catalog.Catalog
}

// New wraps a loaded catalog. The catalog is non-empty by construction.
func New(cat *catalog.Catalog) *Matcher {
	return &Matcher{cat: cat}
}

// Catalog returns the catalog being matched against.
func (m *Matcher) Catalog() *catalog.Catalog { return m.cat }

// FindBestMatch returns the entry with the smallest combined distance.
// Ties go to the earliest entry in the catalog. It always returns something,
// however poor the fit.
func (m *Matcher) FindBestMatch(q clock.Query) Result {
	target := clock.AngleOf(q)

	best, bestDist := 0, MaxDistance+1
	m.cat.Angles(func(i int, a clock.Angles) {
		// strict less-than keeps the first of equal candidates
		if d := clock.CombinedDistance(target, a); d < bestDist {
			best, bestDist = i, d
		}
	})

	return Result{Distance: bestDist, Entry: m.cat.At(best), Index: best}
}

// FindAllWithinThreshold returns every entry whose combined distance is at
// most threshold, nearest first, catalog order among equals. An empty result
// is a normal outcome meaning no acceptable bunny; the caller decides whether
// to fall back to FindBestMatch.
func (m *Matcher) FindAllWithinThreshold(q clock.Query, threshold float64) []Result {
	target := clock.AngleOf(q)

	hits := make([]Result, 0)
	m.cat.Angles(func(i int, a clock.Angles) {
		if d := clock.CombinedDistance(target, a); d <= threshold+epsilon {
			hits = append(hits, Result{Distance: d, Index: i})
		}
	})
	return m.finish(hits)
}

// Rank scores every entry, nearest first.
func (m *Matcher) Rank(q clock.Query) []Result {
	target := clock.AngleOf(q)

	all := make([]Result, 0, m.cat.Len())
	m.cat.Angles(func(i int, a clock.Angles) {
		all = append(all, Result{Distance: clock.CombinedDistance(target, a), Index: i})
	})
	return m.finish(all)
}

// finish orders scored results and attaches their entries.
func (m *Matcher) finish(results []Result) []Result {
	// results arrive in catalog order, so a stable sort keeps ties in it
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	for i := range results {
		results[i].Entry = m.cat.At(results[i].Index)
	}
	return results
}

// Within reports whether a result is acceptable at the given threshold.
func (r Result) Within(threshold float64) bool {
	return r.Distance <= threshold+epsilon
}
