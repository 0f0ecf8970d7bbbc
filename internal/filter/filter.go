package filter

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/nao1215/campuscrawl/internal/model"
)

// Page rejection errors.
// Accept wraps these so callers can classify rejections with errors.Is.
// Rejections are expected outcomes, not faults: the worker logs them at
// debug level and moves on.
var (
	// ErrAlreadySeen means the canonical URL was processed earlier via
	// another link path.
	ErrAlreadySeen = errors.New("page already seen")

	// ErrBadStatus means the page has a non-200 status or no body.
	ErrBadStatus = errors.New("bad status or empty body")

	// ErrTooLarge means the body exceeds the size ceiling and is likely
	// binary content.
	ErrTooLarge = errors.New("body exceeds size ceiling")

	// ErrTrap means the URL matched the infinite-trap heuristic.
	ErrTrap = errors.New("trap URL")

	// ErrExactDuplicate means another URL already produced a
	// byte-identical token sequence.
	ErrExactDuplicate = errors.New("exact duplicate content")

	// ErrNearDuplicate means the page's fingerprint is within the
	// similarity threshold of a previously accepted page.
	ErrNearDuplicate = errors.New("near duplicate content")

	// ErrLowInfo means a large body carried almost no text.
	ErrLowInfo = errors.New("low information page")
)

// Pipeline thresholds.
const (
	// maxBodyBytes is the size ceiling above which a body is treated
	// as binary/non-text.
	maxBodyBytes = 5 * 1024 * 1024 // 5MB

	// lowInfoBodyBytes and lowInfoMinWords define the low-information
	// rule: a body over 1MB with fewer than 200 words is media-heavy
	// and text-poor.
	lowInfoBodyBytes = 1024 * 1024
	lowInfoMinWords  = 200

	// nearDupThreshold is the simhash similarity at or above which a
	// page is rejected as a near duplicate. False positives are
	// possible by design; the detector is probabilistic.
	nearDupThreshold = 0.95

	// exactHashSize is the digest width of the exact-duplicate check.
	exactHashSize = 20 // 160 bits

	// topWordCount is the number of words reported in the snapshot.
	topWordCount = 50
)

// ParseFunc extracts the plain text and the absolute outbound links of
// an HTML document. It is injected so the filter does not depend on a
// concrete parser.
type ParseFunc func(baseURL string, body []byte) (text string, links []string, err error)

// Filter owns content-level deduplication and the corpus statistics.
// All mutable state is guarded by one mutex, separate from the
// frontier's lock.
type Filter struct {
	mu sync.Mutex

	// seenPages holds canonical URLs already offered to Accept. It
	// guarantees each page is processed at most once even when it is
	// discovered via multiple link paths.
	seenPages map[string]struct{}

	// exactHashes holds 160-bit digests of accepted token streams.
	exactHashes map[[exactHashSize]byte]struct{}

	// fingerprints holds the simhash of every accepted page. Grows
	// without bound; see the package comment for the scaling note.
	fingerprints []uint64

	// Corpus statistics, updated together under one lock acquisition
	// so they stay mutually consistent as of the same page.
	wordFreq      map[string]int
	subdomainFreq map[string]int
	longestURL    string
	longestCount  int

	parse          ParseFunc
	allowedDomains []string
	overallDomain  string
	logger         *slog.Logger
	started        time.Time
}

// Option configures a Filter.
type Option func(*Filter)

// WithAllowedDomains sets the academic domain allow-list used by IsValid.
func WithAllowedDomains(domains []string) Option {
	return func(f *Filter) {
		f.allowedDomains = domains
	}
}

// WithOverallDomain sets the top-level domain under which subdomain
// statistics are accumulated.
func WithOverallDomain(domain string) Option {
	return func(f *Filter) {
		f.overallDomain = domain
	}
}

// WithLogger sets a custom logger. If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Filter) {
		f.logger = logger
	}
}

// New creates a Filter with the given HTML parse function.
func New(parse ParseFunc, opts ...Option) *Filter {
	f := &Filter{
		seenPages:     make(map[string]struct{}),
		exactHashes:   make(map[[exactHashSize]byte]struct{}),
		wordFreq:      make(map[string]int),
		subdomainFreq: make(map[string]int),
		parse:         parse,
		started:       time.Now(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

// Accept decides whether a fetched page enters the corpus. On success it
// returns the page's outbound links as scored candidates; the caller is
// expected to run each through IsValid before enqueueing. On rejection
// it returns one of the sentinel errors above (or a wrapped parse
// error).
func (f *Filter) Accept(pageURL string, page *model.Page) ([]model.Link, error) {
	u, err := model.Canonicalize(pageURL)
	if err != nil {
		return nil, err
	}

	// Step 1: seen-page check, before any expensive work. Marking the
	// page here (not at step 10) means a page rejected further down is
	// still never reprocessed.
	f.mu.Lock()
	if _, seen := f.seenPages[u.Page]; seen {
		f.mu.Unlock()
		return nil, ErrAlreadySeen
	}
	f.seenPages[u.Page] = struct{}{}
	f.mu.Unlock()

	// Step 2: transport check.
	if !page.OK() {
		return nil, fmt.Errorf("%w: status %d", ErrBadStatus, page.Status)
	}

	// Step 3: size ceiling.
	if len(page.Body) > maxBodyBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(page.Body))
	}

	// Step 4: trap heuristic, still no body inspection needed.
	if IsTrap(u) {
		return nil, ErrTrap
	}

	// Step 5: parse. Failures are logged by the caller and never fatal.
	text, rawLinks, err := f.parse(u.Raw, page.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", u.Page, err)
	}

	// Step 6: tokenize.
	tokens := Tokenize(text)
	wordCount := len(tokens)

	// Step 7: exact-duplicate check over the ordered token stream.
	digest := tokenDigest(tokens)
	f.mu.Lock()
	if _, dup := f.exactHashes[digest]; dup {
		f.mu.Unlock()
		return nil, ErrExactDuplicate
	}
	f.exactHashes[digest] = struct{}{}
	f.mu.Unlock()

	// Step 8: near-duplicate check.
	freq := make(map[string]int, wordCount)
	for _, tok := range tokens {
		freq[tok]++
	}
	fp := Fingerprint(freq)

	f.mu.Lock()
	for _, prior := range f.fingerprints {
		if Similarity(fp, prior) >= nearDupThreshold {
			f.mu.Unlock()
			return nil, ErrNearDuplicate
		}
	}
	f.fingerprints = append(f.fingerprints, fp)
	f.mu.Unlock()

	// Step 9: low-information check.
	if len(page.Body) > lowInfoBodyBytes && wordCount < lowInfoMinWords {
		return nil, fmt.Errorf("%w: %d bytes, %d words", ErrLowInfo, len(page.Body), wordCount)
	}

	// Step 10: accept. One lock acquisition keeps word frequency, the
	// longest-page record, and subdomain counts consistent as of this
	// page.
	f.mu.Lock()
	for tok, n := range freq {
		if isIndexWord(tok) {
			f.wordFreq[tok] += n
		}
	}
	if wordCount > f.longestCount {
		f.longestCount = wordCount
		f.longestURL = u.Page
	}
	if f.overallDomain != "" && hostAllowed(u.Host, []string{f.overallDomain}) {
		f.subdomainFreq[u.Subdomain]++
	}
	f.mu.Unlock()

	return f.candidates(rawLinks), nil
}

// candidates canonicalizes extracted links and attaches scores.
// Unparseable links are dropped silently; the validity predicate does
// the real filtering later.
func (f *Filter) candidates(rawLinks []string) []model.Link {
	links := make([]model.Link, 0, len(rawLinks))
	for _, raw := range rawLinks {
		u, err := model.Canonicalize(raw)
		if err != nil {
			continue
		}
		links = append(links, model.NewLink(u, ScoreLink(u)))
	}
	return links
}

// ScoreLink estimates a link's information value. Shallow pages on a
// site tend to be index/overview pages that fan out to the most new
// content, so score falls with path depth, with a penalty for query
// strings. Seeds are enqueued above the maximum link score so they
// always dispatch first.
func ScoreLink(u model.URL) float64 {
	score := 8.0 - float64(pathDepth(u.Path))
	if u.RawQuery != "" {
		score -= 2
	}
	if score < 0 {
		score = 0
	}
	return score
}

// tokenDigest hashes the ordered token stream to a 160-bit digest.
// A zero-byte separator keeps ("ab","c") distinct from ("a","bc").
func tokenDigest(tokens []string) [exactHashSize]byte {
	h, err := blake2b.New(exactHashSize, nil)
	if err != nil {
		// Only fails for an invalid size, which is a constant here.
		panic(err)
	}
	for _, tok := range tokens {
		_, _ = h.Write([]byte(tok))
		_, _ = h.Write([]byte{0})
	}

	var digest [exactHashSize]byte
	copy(digest[:], h.Sum(nil))
	return digest
}

// Snapshot returns the corpus statistics accumulated so far, with the
// subdomain table sorted alphabetically and the word table sorted by
// descending frequency (ties alphabetical), truncated to the top 50.
// Discovery/completion totals are filled in by the caller.
func (f *Filter) Snapshot() model.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	subdomains := make([]model.SubdomainCount, 0, len(f.subdomainFreq))
	for sub, count := range f.subdomainFreq {
		subdomains = append(subdomains, model.SubdomainCount{Subdomain: sub, Count: count})
	}
	sort.Slice(subdomains, func(i, j int) bool {
		return subdomains[i].Subdomain < subdomains[j].Subdomain
	})

	words := make([]model.WordCount, 0, len(f.wordFreq))
	for word, count := range f.wordFreq {
		words = append(words, model.WordCount{Word: word, Count: count})
	}
	sort.Slice(words, func(i, j int) bool {
		if words[i].Count != words[j].Count {
			return words[i].Count > words[j].Count
		}
		return words[i].Word < words[j].Word
	})
	if len(words) > topWordCount {
		words = words[:topWordCount]
	}

	return model.Snapshot{
		UniquePages:      len(f.seenPages),
		LongestURL:       f.longestURL,
		LongestWordCount: f.longestCount,
		Subdomains:       subdomains,
		TopWords:         words,
		Started:          f.started,
		Finished:         time.Now(),
	}
}
