// Package fetcher downloads pages over HTTP, either directly or through
// a caching proxy server.
//
// Fetch never returns a Go error: every outcome, including transport
// faults, is encoded as a status on the returned page so the rest of
// the pipeline handles one shape. Responses are size-capped and decoded
// to UTF-8 based on the declared charset.
package fetcher
