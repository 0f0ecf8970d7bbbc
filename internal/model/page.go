package model

// Transport fault status codes.
//
// The fetcher reserves the 600-608 range for transport-layer faults so
// that every fetch outcome flows through the same Page structure. The
// filter rejects these in its transport check; no retry is attempted,
// so each URL is treated as attempted exactly once.
const (
	// StatusMalformedRequest indicates the request could not be built,
	// typically because the URL is malformed.
	StatusMalformedRequest = 600

	// StatusDownloadError indicates a network-level failure while
	// downloading (connection refused, timeout, reset, ...).
	StatusDownloadError = 601

	// StatusOversized indicates the response body exceeded the
	// configured size ceiling and was discarded.
	StatusOversized = 602

	// StatusPolicyDenied indicates the cache server refused to serve
	// the URL under its own policy.
	StatusPolicyDenied = 603
)

// Page is the result of fetching a URL.
//
// Design decision: We use an explicit tagged record rather than
// propagating transport errors as Go errors because:
//  1. The filter pipeline treats transport faults and HTTP errors alike
//  2. A single shape keeps the worker loop free of special cases
//  3. The cache-server protocol already encodes faults as statuses
type Page struct {
	// URL is the URL that was fetched.
	URL string `json:"url"`

	// Status is the HTTP status code, or a value in the 600-608 range
	// for transport-layer faults.
	Status int `json:"status"`

	// Error carries the fault description when Status is in the
	// transport fault range. Empty otherwise.
	Error string `json:"error,omitempty"`

	// Body is the raw response body. Nil when the fetch failed.
	Body []byte `json:"-"`
}

// OK reports whether the page was fetched successfully with a body.
func (p *Page) OK() bool {
	return p.Status == 200 && len(p.Body) > 0
}

// Fault reports whether the status is in the transport fault range.
func (p *Page) Fault() bool {
	return p.Status >= 600 && p.Status <= 608
}
