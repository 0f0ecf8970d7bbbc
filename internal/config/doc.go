// Package config provides configuration structures and utilities for
// campuscrawl. It defines the main configuration options for crawling,
// politeness, persistence, and report generation preferences.
package config
