// Package model defines the core data structures used throughout campuscrawl.
//
// This package contains the following main types:
//   - URL: The canonical identity of a web page used for deduplication
//   - Link: A candidate URL paired with an information-value score
//   - Page: The result of fetching a URL, including transport faults
//   - Snapshot: The corpus statistics produced at the end of a crawl
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (frontier, filter, crawler, report) need to
// use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
