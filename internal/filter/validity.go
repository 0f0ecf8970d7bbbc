package filter

import (
	"regexp"
	"strings"

	"github.com/nao1215/campuscrawl/internal/model"
)

// blockedExtensions matches file suffixes that are never worth crawling:
// stylesheets, scripts, images, audio/video, archives, and documents.
var blockedExtensions = regexp.MustCompile(
	`\.(css|js|bmp|gif|jpe?g|ico` +
		`|png|tiff?|mid|mp2|mp3|mp4` +
		`|wav|avi|mov|mpeg|ram|m4v|mkv|ogg|ogv|pdf` +
		`|ps|eps|tex|ppt|pptx|doc|docx|xls|xlsx|names` +
		`|data|dat|exe|bz2|tar|msi|bin|7z|psd|dmg|iso` +
		`|epub|dll|cnf|tgz|sha1` +
		`|thmx|mso|arff|rtf|jar|csv` +
		`|rm|smil|wmv|swf|wma|zip|rar|gz)$`)

// vcsSegments are path segments of version-control web UIs (gitlab,
// gitweb, cgit installs are common on CS department hosts). Commit, tag,
// and diff views multiply every repository into millions of URLs.
var vcsSegments = map[string]struct{}{
	"commit":         {},
	"commits":        {},
	"tag":            {},
	"tags":           {},
	"branch":         {},
	"branches":       {},
	"blame":          {},
	"blob":           {},
	"raw":            {},
	"compare":        {},
	"diff":           {},
	"merge_requests": {},
	"issues":         {},
}

// IsValid reports whether a discovered link should be offered to the
// frontier. It is a pure predicate: scheme must be http/https, the trap
// heuristic must pass, the host must be on the academic allow-list, the
// path must not end in a blocked file extension, and version-control UI
// paths are rejected.
func (f *Filter) IsValid(raw string) bool {
	u, err := model.Canonicalize(raw)
	if err != nil {
		return false
	}

	if IsTrap(u) {
		return false
	}

	if !hostAllowed(u.Host, f.allowedDomains) {
		return false
	}

	if blockedExtensions.MatchString(u.Path) {
		return false
	}

	for _, seg := range pathSegments(u.Path) {
		if _, ok := vcsSegments[seg]; ok {
			return false
		}
	}

	return true
}

// hostAllowed reports whether host equals one of the allowed domains or
// is a true subdomain of one.
func hostAllowed(host string, allowed []string) bool {
	for _, domain := range allowed {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
