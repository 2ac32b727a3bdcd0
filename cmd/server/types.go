package main

// BunnyTimeResponse is what every "show me a bunny" endpoint returns: the
// bunny, the time it is telling, and how well its ears agree.
type BunnyTimeResponse struct {
	Time            string     `json:"time"`
	Timestamp       string     `json:"timestamp"`
	Name            string     `json:"name"`
	Caption         string     `json:"caption"`
	Filename        string     `json:"filename"`
	Image           string     `json:"image"`
	Alt             string     `json:"alt"`
	Distance        float64    `json:"distance"`
	WithinThreshold bool       `json:"within_threshold"`
	Focus           FocusDTO   `json:"focus"`
	Credit          *CreditDTO `json:"credit,omitempty"`
	RequestID       string     `json:"request_id,omitempty"`
}

// FocusDTO is the crop focus as fractions of the image size.
type FocusDTO struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CreditDTO attributes a photo to its author.
type CreditDTO struct {
	Author   string `json:"author"`
	URL      string `json:"url,omitempty"`
	Platform string `json:"platform,omitempty"`
	Logo     string `json:"logo,omitempty"`
}

// MatchDTO is one entry of a threshold search.
type MatchDTO struct {
	Filename        string   `json:"filename"`
	Names           []string `json:"names,omitempty"`
	Distance        float64  `json:"distance"`
	WithinThreshold bool     `json:"within_threshold"`
	Image           string   `json:"image"`
}

// MatchesResponse is the response for GET /api/matches/{time}
type MatchesResponse struct {
	Time      string     `json:"time"`
	Threshold float64    `json:"threshold"`
	Matches   []MatchDTO `json:"matches"`
	Count     int        `json:"count"`
	Ranked    bool       `json:"ranked"`
	Closest   MatchDTO   `json:"closest"`
}

// EntryDTO represents a catalog entry in API responses
type EntryDTO struct {
	Filename    string     `json:"filename"`
	Names       []string   `json:"names,omitempty"`
	NameKind    string     `json:"name_kind"`
	HourAngle   float64    `json:"hour_angle"`
	MinuteAngle float64    `json:"minute_angle"`
	Dial        string     `json:"dial"`
	Focus       FocusDTO   `json:"focus"`
	Credit      *CreditDTO `json:"credit,omitempty"`
}

// CatalogResponse is the response for GET /api/catalog
type CatalogResponse struct {
	Source string     `json:"source"`
	Buns   []EntryDTO `json:"buns"`
	Count  int        `json:"count"`
}

// CoverageSlotDTO is one row of the coverage table.
type CoverageSlotDTO struct {
	Time            string  `json:"time"`
	MatchCount      int     `json:"match_count"`
	ClosestDistance float64 `json:"closest_distance"`
	Closest         string  `json:"closest"`
	Grade           string  `json:"grade"`
}

// CoverageResponse is the response for GET /api/coverage
type CoverageResponse struct {
	MeanDiscrepancy float64           `json:"mean_discrepancy"`
	Threshold       float64           `json:"threshold"`
	Step            int               `json:"step_minutes"`
	Uncovered       int               `json:"uncovered"`
	Best            CoverageSlotDTO   `json:"best"`
	Worst           CoverageSlotDTO   `json:"worst"`
	Slots           []CoverageSlotDTO `json:"slots"`
}

// HealthResponse reports liveness and catalog size
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
	Buns   int    `json:"buns"`
}

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	Code      int    `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}
