package fetcher

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/nao1215/campuscrawl/internal/model"
)

// Defaults applied when no option overrides them.
const (
	defaultTimeout     = 30 * time.Second
	defaultMaxBodySize = 5 * 1024 * 1024 // 5MB
	defaultUserAgent   = "campuscrawl/1.0"
)

// Fetcher downloads pages. It is safe for concurrent use; the
// underlying http.Client pools connections across workers.
type Fetcher struct {
	// client performs the actual requests.
	client *http.Client

	// cacheServer is the host:port of the caching proxy. Empty means
	// fetch pages directly from the origin servers.
	cacheServer string

	// userAgent identifies the crawler to servers and the cache.
	userAgent string

	// maxBodySize is the byte ceiling above which a response body is
	// discarded as oversized.
	maxBodySize int64

	logger *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		f.client.Timeout = timeout
	}
}

// WithCacheServer routes all fetches through the caching proxy at
// host:port instead of hitting origin servers directly.
func WithCacheServer(hostport string) Option {
	return func(f *Fetcher) {
		f.cacheServer = hostport
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(agent string) Option {
	return func(f *Fetcher) {
		f.userAgent = agent
	}
}

// WithMaxBodySize sets the response body size ceiling in bytes.
func WithMaxBodySize(limit int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = limit
	}
}

// WithLogger sets a custom logger. If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// New creates a Fetcher.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      &http.Client{Timeout: defaultTimeout},
		userAgent:   defaultUserAgent,
		maxBodySize: defaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

// Fetch downloads the page identified by u. The result always carries
// a status: the origin's HTTP status on a completed exchange, or a
// value in the transport fault range when the exchange itself failed.
func (f *Fetcher) Fetch(ctx context.Context, u model.URL) *model.Page {
	target := u.Page
	if f.cacheServer != "" {
		target = f.cacheURL(u.Page)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return &model.Page{
			URL:    u.Page,
			Status: model.StatusMalformedRequest,
			Error:  err.Error(),
		}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return &model.Page{
			URL:    u.Page,
			Status: model.StatusDownloadError,
			Error:  err.Error(),
		}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			f.logger.Warn("failed to close response body", "url", u.Page, "error", err)
		}
	}()

	// Read one byte past the ceiling so an at-the-limit body and an
	// over-the-limit body are distinguishable.
	limited := io.LimitReader(resp.Body, f.maxBodySize+1)

	// The charset reader converts legacy encodings to UTF-8 based on
	// the Content-Type header and in-document hints. If detection
	// itself fails, fall back to the raw bytes.
	reader, err := charset.NewReader(limited, resp.Header.Get("Content-Type"))
	if err != nil {
		reader = limited
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return &model.Page{
			URL:    u.Page,
			Status: model.StatusDownloadError,
			Error:  err.Error(),
		}
	}
	if int64(len(body)) > f.maxBodySize {
		return &model.Page{
			URL:    u.Page,
			Status: model.StatusOversized,
			Error:  "response body exceeds size ceiling",
		}
	}

	return &model.Page{
		URL:    u.Page,
		Status: resp.StatusCode,
		Body:   body,
	}
}

// cacheURL builds the caching proxy request for a page: the proxy takes
// the page URL in the q parameter and the caller identity in u.
func (f *Fetcher) cacheURL(page string) string {
	query := url.Values{}
	query.Set("q", page)
	query.Set("u", f.userAgent)
	return "http://" + f.cacheServer + "/?" + query.Encode()
}
