package model

// Link is a candidate URL paired with an information-value score.
// The score is used by the frontier to prioritize crawl order: higher
// scores are dequeued first within a domain bucket.
type Link struct {
	// URL is the canonical identity of the candidate page.
	URL URL

	// Score is the information-value estimate for the page.
	// Zero is a valid score; the frontier falls back to discovery
	// order (FIFO) among equal scores.
	Score float64
}

// NewLink creates a Link with the given score.
func NewLink(u URL, score float64) Link {
	return Link{URL: u, Score: score}
}

// Equal reports whether two links refer to the same page.
// The score does not participate in identity.
func (l Link) Equal(other Link) bool {
	return l.URL.Equal(other.URL)
}
