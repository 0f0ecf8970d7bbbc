package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values mirror the course crawl assignment this tool grew out of
// and err on the polite side.
const (
	// DefaultPolitenessDelay is the minimum time between two dispatches
	// to the same domain bucket. 500ms keeps the crawler well under the
	// informal "no more than a couple of requests per second" bar that
	// academic web operators expect.
	DefaultPolitenessDelay = 500 * time.Millisecond

	// DefaultWorkers is the size of the worker pool. Eight workers keep
	// several domains in flight without overwhelming the cache server.
	// More workers do not speed up a crawl bounded by politeness delays
	// on a handful of domains.
	DefaultWorkers = 8

	// DefaultTimeout is the per-request timeout. Academic web servers
	// are occasionally slow behind single-machine CMS installs, so this
	// is generous.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBodySize limits the response body size to read.
	// Pages larger than 5MB are almost always binary or machine
	// generated and carry no useful text.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultUserAgent identifies campuscrawl in HTTP requests.
	// A descriptive User-Agent lets operators identify crawler traffic
	// in their logs.
	DefaultUserAgent = "campuscrawl/1.0 (+https://github.com/nao1215/campuscrawl)"

	// DefaultSeedScore is the priority assigned to seed URLs. Seeds
	// should always dispatch before discovered links of the same
	// domain, so this sits above anything the link scorer produces.
	DefaultSeedScore = 10.0

	// AppName is the application name used for XDG directory paths.
	AppName = "campuscrawl"
)

// DefaultSeeds are the starting points of the crawl when no config file
// overrides them.
var DefaultSeeds = []string{
	"https://www.ics.uci.edu",
	"https://www.cs.uci.edu",
	"https://www.informatics.uci.edu",
	"https://www.stat.uci.edu",
}

// DefaultAllowedDomains is the fixed academic allow-list. A link is only
// followed when its host equals one of these domains or is a true
// subdomain of one.
var DefaultAllowedDomains = []string{
	"ics.uci.edu",
	"cs.uci.edu",
	"informatics.uci.edu",
	"stat.uci.edu",
}

// DefaultOverallDomain is the top-level domain under which subdomain
// statistics are collected.
const DefaultOverallDomain = "uci.edu"

// Config holds all configuration options for campuscrawl.
// This struct is designed to be populated from CLI flags and the
// optional YAML file, then passed through the application via dependency
// injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant
// benefit.
type Config struct {
	// Seeds is the list of URLs the crawl starts from on a fresh run.
	Seeds []string

	// AllowedDomains is the fixed allow-list of academic domains.
	// Links outside these domains are never enqueued.
	AllowedDomains []string

	// OverallDomain is the top-level domain under which subdomain
	// statistics are accumulated (e.g., "uci.edu").
	OverallDomain string

	// PolitenessDelay is the minimum time between two dispatches to
	// the same domain bucket. This is a hard invariant, not a hint.
	PolitenessDelay time.Duration

	// Workers is the number of concurrent crawl workers.
	Workers int

	// Restart deletes any persisted crawl state and starts from seed.
	// When false, an existing save file is replayed so completed URLs
	// are never downloaded again.
	Restart bool

	// CacheServer is the optional "host:port" of the caching proxy.
	// When set, all fetches go through the proxy; when empty, pages
	// are fetched directly.
	CacheServer string

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are reported as oversized faults.
	// Set to 0 to use the default (5MB).
	MaxBodySize int64

	// DataDir is the directory holding the persisted frontier store.
	// Defaults to the XDG data directory
	// (~/.local/share/campuscrawl on Linux).
	DataDir string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// JSONReport enables JSON report output instead of plain text.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of plain
	// text. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the statistics report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .campuscrawl in the current
	// directory and then in the user's home directory.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use
// cases. Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (delay, worker count,
// size limits). This also serves as documentation of what the defaults
// are.
func NewConfig() *Config {
	return &Config{
		Seeds:           append([]string(nil), DefaultSeeds...),
		AllowedDomains:  append([]string(nil), DefaultAllowedDomains...),
		OverallDomain:   DefaultOverallDomain,
		PolitenessDelay: DefaultPolitenessDelay,
		Workers:         DefaultWorkers,
		UserAgent:       DefaultUserAgent,
		Timeout:         DefaultTimeout,
		MaxBodySize:     DefaultMaxBodySize,
		DataDir:         XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for campuscrawl.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/campuscrawl
// On macOS: ~/Library/Application Support/campuscrawl
// On Windows: %LOCALAPPDATA%\campuscrawl
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for campuscrawl.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any crawling begins.
//
// We chose to return the first error found rather than collecting all
// errors because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if len(c.Seeds) == 0 {
		return ErrNoSeeds
	}

	if len(c.AllowedDomains) == 0 {
		return ErrNoAllowedDomains
	}

	// Zero delay would hammer a single host; refuse it.
	if c.PolitenessDelay <= 0 {
		return ErrInvalidDelay
	}

	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if strings.TrimSpace(c.DataDir) == "" {
		return ErrNoDataDir
	}

	return nil
}
