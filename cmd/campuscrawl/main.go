// Package main provides the entry point for the campuscrawl CLI.
//
// campuscrawl is a polite, resumable web crawler for a fixed set of
// academic domains. It builds a corpus of unique pages and reports
// word, page, and subdomain statistics.
//
// Usage:
//
//	campuscrawl crawl
//	campuscrawl crawl --restart
//
// See --help for all available options.
package main

// main is the entry point for campuscrawl.
func main() {
	Execute()
}
