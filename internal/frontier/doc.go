// Package frontier schedules discovered URLs for fetching.
//
// The frontier partitions URLs into per-domain buckets. Within a bucket
// URLs dispatch best-score-first with insertion order as the tie
// breaker; across buckets a schedule of eligibility deadlines enforces
// the politeness delay between consecutive dispatches to the same
// domain. A worker blocked in Dequeue sleeps until the earliest
// deadline arrives, new work is enqueued, or the crawl ends.
//
// Every discovered URL is written through to the persisted store before
// it becomes visible to workers, so a crash between discovery and
// completion loses nothing: on restart the incomplete records are
// replayed into the in-memory queues with their original scores and
// insertion numbers.
//
// Termination is cooperative. The crawl is over when no URL is queued
// in any bucket and no worker holds a checked-out URL; at that point
// every blocked Dequeue returns ErrDone.
package frontier
