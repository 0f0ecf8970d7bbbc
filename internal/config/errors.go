package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than
// fmt.Errorf() because we don't need to include dynamic values in these
// messages.
var (
	// ErrNoSeeds is returned when the seed URL list is empty.
	// A crawl with no seeds has nothing to do.
	ErrNoSeeds = errors.New("no seed URLs specified")

	// ErrNoAllowedDomains is returned when the domain allow-list is
	// empty. Without an allow-list every discovered link would be
	// rejected, which is never what the user wants.
	ErrNoAllowedDomains = errors.New("no allowed domains specified")

	// ErrInvalidDelay is returned when the politeness delay is not
	// positive. A zero delay would issue back-to-back requests to the
	// same host.
	ErrInvalidDelay = errors.New("invalid politeness delay: must be positive")

	// ErrInvalidWorkers is returned when the worker count is not
	// positive. Zero workers would mean no crawling at all.
	ErrInvalidWorkers = errors.New("invalid worker count: must be positive")

	// ErrInvalidTimeout is returned when the request timeout is not
	// positive. A zero timeout would cause immediate fetch failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is
	// negative. Use 0 to fall back to the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used at
	// a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrNoDataDir is returned when the data directory is empty.
	// The frontier store needs somewhere durable to live.
	ErrNoDataDir = errors.New("no data directory specified")
)
