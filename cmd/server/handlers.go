package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/catalog"
	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/clock"
	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/metrics"
	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/timeparse"
	"github.com/MaddyGuthridge/bnuuy-time-mvp/pkg/bnuuytime"
	"github.com/MaddyGuthridge/bnuuy-time-mvp/pkg/logger"
)

// captionVerbs are picked at random to join a bunny's name to the time.
var captionVerbs = []string{
	"says that it is",
	"says the time is",
	"says it's",
	"says that it's",
	"says it is",
}

var platformLogos = map[string]string{
	"instagram": "/static/instagram.png",
	"reddit":    "/static/reddit.png",
}

// Server encapsulates the HTTP server and its dependencies
type Server struct {
	service  bnuuytime.Service
	config   *ServerConfig
	log      *logger.Logger
	metrics  *metrics.Metrics
	registry *prometheus.Registry
	now      func() time.Time
	rng      bnuuytime.Rand
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Addr           string
	StaticDir      string
	AllowedOrigins []string
}

// NewServer creates a new server instance with its own metrics registry.
func NewServer(service bnuuytime.Service, config *ServerConfig) *Server {
	reg := prometheus.NewRegistry()
	m := metrics.InitMetrics(reg)

	m.CatalogEntries.Set(float64(len(service.Entries())))
	report := service.ComputeCoverageReport()
	m.CoverageMean.Set(report.MeanDiscrepancy)
	m.CoverageMissing.Set(float64(report.Uncovered))

	return &Server{
		service:  service,
		config:   config,
		log:      logger.Named("http"),
		metrics:  m,
		registry: reg,
		now:      time.Now,
		rng:      bnuuytime.SharedRand(),
	}
}

// respondJSON writes a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Errorf("Failed to encode JSON response: %v", err)
	}
}

// respondError writes an error response
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	s.respondJSON(w, statusCode, ErrorResponse{
		Error:     http.StatusText(statusCode),
		Message:   message,
		Code:      statusCode,
		RequestID: requestIDFrom(r.Context()),
	})
}

// handleRoot handles GET /
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"service": "Bnuuy Time API",
		"version": "1.0.0",
		"catalog": s.service.Describe(),
		"endpoints": map[string]string{
			"health":   "GET /health",
			"catalog":  "GET /api/catalog",
			"coverage": "GET /api/coverage",
			"bun":      "GET /api/buns/{filename}",
			"at":       "GET /api/at/{time}",
			"matches":  "GET /api/matches/{time}?threshold=&all=",
			"zone":     "GET /api/tz/{region}/{location}",
			"metrics":  "GET /metrics",
		},
	})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status: "healthy",
		Time:   s.now().Format(time.RFC3339),
		Buns:   len(s.service.Entries()),
	})
}

// handleCatalog handles GET /api/catalog
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	entries := s.service.Entries()
	buns := make([]EntryDTO, len(entries))
	for i, e := range entries {
		dial := ""
		if q, ok := clock.Invert(e.Angles, clock.Tolerance); ok {
			dial = q.Label()
		}
		buns[i] = EntryDTO{
			Filename:    e.Filename,
			Names:       e.Name.Candidates(),
			NameKind:    e.Name.Kind().String(),
			HourAngle:   e.Angles.Hour,
			MinuteAngle: e.Angles.Minute,
			Dial:        dial,
			Focus:       focusDTO(e),
			Credit:      creditDTO(e.Source),
		}
	}

	s.respondJSON(w, http.StatusOK, CatalogResponse{
		Source: s.service.Describe(),
		Buns:   buns,
		Count:  len(buns),
	})
}

// handleCoverage handles GET /api/coverage
func (s *Server) handleCoverage(w http.ResponseWriter, r *http.Request) {
	report := s.service.ComputeCoverageReport()

	slots := make([]CoverageSlotDTO, len(report.Samples))
	for i, sample := range report.Samples {
		slots[i] = slotDTO(sample)
	}

	s.respondJSON(w, http.StatusOK, CoverageResponse{
		MeanDiscrepancy: report.MeanDiscrepancy,
		Threshold:       report.Threshold,
		Step:            report.Step,
		Uncovered:       report.Uncovered,
		Best:            slotDTO(report.Best),
		Worst:           slotDTO(report.Worst),
		Slots:           slots,
	})
}

// handleBun handles GET /api/buns/{filename}: the named bunny at a time its
// ears could be showing.
func (s *Server) handleBun(w http.ResponseWriter, r *http.Request) {
	filename := mux.Vars(r)["filename"]

	entry, ok := s.service.LookupByFilename(filename)
	if !ok {
		s.metrics.ObserveLookup("bun", metrics.OutcomeMiss, 0)
		s.respondError(w, r, http.StatusNotFound, fmt.Sprintf("No buns with filename %s", filename))
		return
	}

	ts, err := s.service.SampleTimeForEntry(entry, s.rng)
	if err != nil {
		// a loaded catalog only holds realizable buns
		s.metrics.ObserveLookup("bun", metrics.OutcomeError, 0)
		s.log.Errorf("Sampling time for %s: %v", filename, err)
		s.respondError(w, r, http.StatusInternalServerError, "Failed to work out what time this bun is showing")
		return
	}

	s.metrics.ObserveLookup("bun", metrics.OutcomeDirect, 0)
	s.respondJSON(w, http.StatusOK, s.bunnyTime(r, entry, ts, 0, true))
}

// handleAt handles GET /api/at/{time}
func (s *Server) handleAt(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["time"]

	t, err := timeparse.Parse(raw, s.now())
	if err != nil {
		s.metrics.ObserveLookup("at", metrics.OutcomeError, 0)
		s.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("Unable to parse the time string '%s'", raw))
		return
	}
	s.respondBestMatch(w, r, "at", t)
}

// handleMatches handles GET /api/matches/{time}?threshold=&all=. With all set
// every bunny is listed, nearest first, whatever the threshold.
func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["time"]

	t, err := timeparse.Parse(raw, s.now())
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("Unable to parse the time string '%s'", raw))
		return
	}

	threshold := s.service.Threshold()
	if v := r.URL.Query().Get("threshold"); v != "" {
		threshold, err = strconv.ParseFloat(v, 64)
		if err != nil || threshold < 0 || threshold > 360 {
			s.respondError(w, r, http.StatusBadRequest, "threshold must be a number of degrees between 0 and 360")
			return
		}
	}

	rankAll := false
	if v := r.URL.Query().Get("all"); v != "" {
		rankAll, err = strconv.ParseBool(v)
		if err != nil {
			s.respondError(w, r, http.StatusBadRequest, "all must be true or false")
			return
		}
	}

	var found []bnuuytime.MatchResult
	if rankAll {
		found = s.service.Rank(t)
	} else {
		found = s.service.FindAllWithinThreshold(t, threshold)
	}
	matches := make([]MatchDTO, len(found))
	for i, m := range found {
		matches[i] = matchDTO(m)
		matches[i].WithinThreshold = m.Within(threshold)
	}

	best := s.service.FindBestMatch(t)
	closest := matchDTO(best)
	closest.WithinThreshold = best.Within(threshold)

	s.respondJSON(w, http.StatusOK, MatchesResponse{
		Time:      timeparse.FormatForDisplay(t),
		Threshold: threshold,
		Matches:   matches,
		Count:     len(matches),
		Ranked:    rankAll,
		Closest:   closest,
	})
}

// handleZone handles GET /api/tz/{region}/{location}: the bunny for the
// current time in that zone.
func (s *Server) handleZone(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	name := vars["region"] + "/" + vars["location"]

	now, err := timeparse.NowInTimeZone(name, s.now())
	if err != nil {
		s.metrics.ObserveLookup("tz", metrics.OutcomeMiss, 0)
		s.respondError(w, r, http.StatusNotFound, fmt.Sprintf("The time zone '%s' does not exist", name))
		return
	}
	s.respondBestMatch(w, r, "tz", now)
}

// handleZoneAbbreviation handles GET /api/tz/{abbr}, redirecting shorthands
// like GMT to the zone they stand for.
func (s *Server) handleZoneAbbreviation(w http.ResponseWriter, r *http.Request) {
	abbr := mux.Vars(r)["abbr"]

	full, ok := timeparse.Canonical(abbr)
	if !ok {
		s.metrics.ObserveLookup("tz", metrics.OutcomeMiss, 0)
		s.respondError(w, r, http.StatusNotFound, fmt.Sprintf("The time zone '%s' does not exist", abbr))
		return
	}
	http.Redirect(w, r, "/api/tz/"+full, http.StatusFound)
}

func (s *Server) respondBestMatch(w http.ResponseWriter, r *http.Request, operation string, t time.Time) {
	best := s.service.FindBestMatch(t)
	within := best.Within(s.service.Threshold())

	outcome := metrics.OutcomeHit
	if !within {
		outcome = metrics.OutcomeFallback
		s.log.Debugf("No bun within %.0f° at %s, closest is %s (%.1f°)",
			s.service.Threshold(), clock.At(t), best.Entry.Filename, best.Distance)
	}
	s.metrics.ObserveLookup(operation, outcome, best.Distance)

	s.respondJSON(w, http.StatusOK, s.bunnyTime(r, best.Entry, t, best.Distance, within))
}

func (s *Server) bunnyTime(r *http.Request, e bnuuytime.Entry, t time.Time, distance float64, within bool) BunnyTimeResponse {
	name := e.Name.Resolve(s.rng)
	shown := timeparse.FormatForDisplay(t)
	verb := captionVerbs[s.rng.IntN(len(captionVerbs))]

	return BunnyTimeResponse{
		Time:            shown,
		Timestamp:       t.Format(time.RFC3339),
		Name:            name,
		Caption:         fmt.Sprintf("%s %s %s", name, verb, shown),
		Filename:        e.Filename,
		Image:           imagePath(e.Filename),
		Alt:             fmt.Sprintf("%s's ears are telling the time like an analog clock, and say that the time is %s", name, shown),
		Distance:        distance,
		WithinThreshold: within,
		Focus:           focusDTO(e),
		Credit:          creditDTO(e.Source),
		RequestID:       requestIDFrom(r.Context()),
	}
}

func imagePath(filename string) string {
	return "/static/buns/" + url.PathEscape(filename)
}

func focusDTO(e bnuuytime.Entry) FocusDTO {
	f := e.FocusOrDefault()
	return FocusDTO{X: f.X, Y: f.Y}
}

func creditDTO(src *catalog.Attribution) *CreditDTO {
	if src == nil {
		return nil
	}
	return &CreditDTO{
		Author:   src.Author,
		URL:      src.URL,
		Platform: src.Platform,
		Logo:     platformLogos[strings.ToLower(src.Platform)],
	}
}

func matchDTO(m bnuuytime.MatchResult) MatchDTO {
	return MatchDTO{
		Filename: m.Entry.Filename,
		Names:    m.Entry.Name.Candidates(),
		Distance: m.Distance,
		Image:    imagePath(m.Entry.Filename),
	}
}

func slotDTO(sample bnuuytime.CoverageSample) CoverageSlotDTO {
	return CoverageSlotDTO{
		Time:            sample.Slot.Label(),
		MatchCount:      sample.MatchCount,
		ClosestDistance: sample.ClosestDistance,
		Closest:         sample.Closest,
		Grade:           sample.Grade().String(),
	}
}
