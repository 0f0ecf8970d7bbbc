package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".campuscrawl"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .campuscrawl configuration file.
// All fields are optional; CLI flags win over file values, and file
// values win over the built-in defaults.
type File struct {
	// Seeds overrides the default seed URLs.
	Seeds []string `yaml:"seeds,omitempty"`

	// AllowedDomains overrides the default domain allow-list.
	AllowedDomains []string `yaml:"allowedDomains,omitempty"`

	// OverallDomain overrides the domain under which subdomain
	// statistics are accumulated.
	OverallDomain string `yaml:"overallDomain,omitempty"`

	// PolitenessDelay overrides the per-bucket dispatch spacing.
	// Accepts Go duration syntax ("500ms", "2s").
	PolitenessDelay time.Duration `yaml:"politenessDelay,omitempty"`

	// Workers overrides the worker pool size.
	Workers int `yaml:"workers,omitempty"`

	// CacheServer sets the "host:port" of the caching proxy.
	CacheServer string `yaml:"cacheServer,omitempty"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`
}

// LoadConfigFile loads crawl configuration from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound. Callers
// should handle this error appropriately based on whether the config
// file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// Apply overlays the file's values onto cfg. Unset file fields leave the
// corresponding cfg fields untouched.
func (cf *File) Apply(cfg *Config) {
	if len(cf.Seeds) > 0 {
		cfg.Seeds = append([]string(nil), cf.Seeds...)
	}
	if len(cf.AllowedDomains) > 0 {
		cfg.AllowedDomains = append([]string(nil), cf.AllowedDomains...)
	}
	if cf.OverallDomain != "" {
		cfg.OverallDomain = cf.OverallDomain
	}
	if cf.PolitenessDelay > 0 {
		cfg.PolitenessDelay = cf.PolitenessDelay
	}
	if cf.Workers > 0 {
		cfg.Workers = cf.Workers
	}
	if cf.CacheServer != "" {
		cfg.CacheServer = cf.CacheServer
	}
	if cf.UserAgent != "" {
		cfg.UserAgent = cf.UserAgent
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .campuscrawl in the current directory
// 3. Look for .campuscrawl in the user's home directory
//
// Returns the path to the configuration file if found, or empty string
// if not found.
func FindConfigFile(configPath string) string {
	// If explicit path is provided, use it
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	// Check current directory
	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	// Check home directory
	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
