package filter

import (
	"net/url"
	"strings"

	"github.com/nao1215/campuscrawl/internal/model"
)

// Trap heuristic thresholds.
//
// These values are deliberately heuristic: they may reject real pages
// (deep but legitimate archives) and miss real traps (calendars without
// recognizable markers). Do not tune them without evidence from an
// actual crawl.
const (
	// maxPathDepth rejects URLs with more path segments than any page
	// a human would navigate to. Auto-generated listings nest forever.
	maxPathDepth = 10

	// maxURLLength rejects URLs longer than any hand-written page URL.
	// Trap URLs accumulate query state and grow without bound.
	maxURLLength = 220
)

// calendarSegments are path markers of calendar/event pagination, the
// classic infinite-trap generator on academic sites.
var calendarSegments = map[string]struct{}{
	"calendar": {},
	"event":    {},
	"events":   {},
	"day":      {},
	"week":     {},
	"month":    {},
}

// datePagingParams are query parameters that page through dates.
var datePagingParams = []string{
	"date", "day", "month", "year", "week", "ical",
}

// safeActions are the only values of an explicit "action" query
// parameter that do not indicate dynamic UI state.
var safeActions = map[string]struct{}{
	"download": {},
}

// IsTrap reports whether a URL matches the infinite-trap heuristic.
// It is a pure function of the URL; no body is needed.
func IsTrap(u model.URL) bool {
	if len(u.Raw) > maxURLLength {
		return true
	}

	segments := pathSegments(u.Path)
	if len(segments) > maxPathDepth {
		return true
	}

	seen := make(map[string]struct{}, len(segments))
	for _, seg := range segments {
		if _, ok := calendarSegments[seg]; ok {
			return true
		}
		// A repeated segment (e.g. /news/news/) is almost always a
		// misconfigured rewrite rule generating endless aliases.
		if _, dup := seen[seg]; dup {
			return true
		}
		seen[seg] = struct{}{}
	}

	if u.RawQuery != "" {
		query, err := url.ParseQuery(u.RawQuery)
		if err != nil {
			return true
		}
		for _, param := range datePagingParams {
			if query.Has(param) {
				return true
			}
		}
		if action := query.Get("action"); action != "" {
			if _, ok := safeActions[action]; !ok {
				return true
			}
		}
	}

	return false
}

// pathSegments splits a canonical path into its non-empty segments.
func pathSegments(path string) []string {
	parts := strings.Split(path, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// pathDepth returns the number of non-empty path segments.
func pathDepth(path string) int {
	return len(pathSegments(path))
}
