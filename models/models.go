package models

// Quote is the raw outcome of querying one pharmacy for one search.
// Price is nil when the pharmacy could not produce a usable price; in that
// case Error carries the failure kind (one of the target-level error codes).
type Quote struct {
	// Pharmacy is the stable target identifier from the registry.
	Pharmacy string `json:"pharmacy"`

	// Price is the observed price in the currency unit as displayed on the
	// page. No conversion is applied. nil means unavailable.
	Price *int `json:"price"`

	// Link is the search URL that was visited for this pharmacy.
	Link string `json:"link"`

	// Error is the target-level error code when Price is nil because of a
	// failure (empty when the quote succeeded).
	Error string `json:"error,omitempty"`
}

// RankedQuote is a Quote annotated with whether it holds the minimum price
// in its batch. All quotes matching the minimum are flagged, including ties.
type RankedQuote struct {
	Quote
	IsCheapest bool `json:"is_cheapest"`
}

// SearchResult is the full outcome of one price comparison query.
// Results is always sized to the target registry, in registry order,
// regardless of per-pharmacy failures.
type SearchResult struct {
	// Medicine is the uppercased query string.
	Medicine string `json:"medicine"`

	// Results holds one ranked quote per registry target, in registry order.
	Results []RankedQuote `json:"results"`

	// CheapestPrice is the minimum present price, or nil when every
	// pharmacy failed to produce one.
	CheapestPrice *int `json:"cheapest_price"`
}

// SearchRequest is the payload for POST /api/v1/search.
type SearchRequest struct {
	// Medicine is the product to compare. Must be non-blank after trimming.
	Medicine string `json:"medicine" binding:"required"`
}

// SearchResponse is the response envelope for POST /api/v1/search.
type SearchResponse struct {
	Success bool `json:"success"`

	// Result fields; zero-valued when Success is false.
	Medicine      string        `json:"medicine,omitempty"`
	Results       []RankedQuote `json:"results,omitempty"`
	CheapestPrice *int          `json:"cheapest_price"`

	// DurationMs is the end-to-end query duration in milliseconds.
	DurationMs int64 `json:"duration_ms"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status    string    `json:"status"` // "healthy" or "degraded"
	Uptime    string    `json:"uptime"`
	Engine    string    `json:"engine"` // "browser" or "http"
	PoolStats PoolStats `json:"pool_stats"`
	Targets   int       `json:"targets"`
	Version   string    `json:"version"`
}

// PoolStats reports the state of the fetcher's session pool.
type PoolStats struct {
	MaxSessions    int `json:"max_sessions"`
	ActiveSessions int `json:"active_sessions"`
}
