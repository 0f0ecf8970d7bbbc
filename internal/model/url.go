package model

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidURL is returned when a URL cannot be parsed or uses a scheme
// other than http or https.
var ErrInvalidURL = errors.New("invalid url")

// URL is the canonical identity of a web page.
//
// Two URLs that differ only in case, fragment, or a single trailing slash
// refer to the same page. Equality and hashing are therefore defined solely
// on the Page field; the other fields are derived conveniences.
//
// Design decision: URL is an immutable value object, cheap to construct per
// use, rather than a shared mutable handle because:
//  1. Canonicalization is a pure function and needs no state
//  2. Value semantics make the type safe to pass between worker goroutines
//  3. Equality-by-field keeps deduplication logic trivial
type URL struct {
	// Raw is the original input string after case folding.
	Raw string

	// Page is the canonical page identity:
	// scheme + host + path (trailing slash stripped) + query.
	// The fragment is always discarded.
	Page string

	// Subdomain is scheme + "://" + hostname, used for politeness
	// partitioning and subdomain statistics.
	Subdomain string

	// Host is the lowercased hostname without port.
	Host string

	// Path is the canonical path (trailing slash stripped).
	Path string

	// RawQuery is the query string without the leading "?".
	RawQuery string
}

// Canonicalize parses a raw URL string into its canonical identity.
//
// The whole string is lowercased before parsing so that identity is
// case-insensitive. Schemes other than http and https are rejected with
// ErrInvalidURL. A single trailing slash is stripped from the path and the
// fragment is discarded. The query string is preserved: ?q=1 and ?q=2 are
// different pages.
func Canonicalize(raw string) (URL, error) {
	folded := strings.ToLower(strings.TrimSpace(raw))
	u, err := url.Parse(folded)
	if err != nil {
		return URL{}, fmt.Errorf("%w: %s", ErrInvalidURL, raw)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return URL{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Hostname() == "" {
		return URL{}, fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	// Fragments never change page identity.
	u.Fragment = ""

	// Strip a single trailing slash so /a/ and /a compare equal.
	path := u.Path
	if strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}

	page := u.Scheme + "://" + u.Host + path
	if u.RawQuery != "" {
		page += "?" + u.RawQuery
	}

	return URL{
		Raw:       folded,
		Page:      page,
		Subdomain: u.Scheme + "://" + u.Hostname(),
		Host:      u.Hostname(),
		Path:      path,
		RawQuery:  u.RawQuery,
	}, nil
}

// Equal reports whether two URLs identify the same page.
func (u URL) Equal(other URL) bool {
	return u.Page == other.Page
}

// Hash returns the stable hex-encoded SHA-256 hash of the canonical page
// string. This is the key used by the persisted frontier store.
func (u URL) Hash() string {
	sum := sha256.Sum256([]byte(u.Page))
	return hex.EncodeToString(sum[:])
}

// String returns the canonical page string.
func (u URL) String() string {
	return u.Page
}
