// Package crawler runs the fetch-filter-discover loop over a pool of
// workers.
//
// # Architecture
//
// Each worker repeats the same cycle: check a URL out of the frontier,
// download it, offer the page to the content filter, enqueue the
// surviving outbound links, and mark the URL complete. The frontier
// owns ordering, politeness, and termination; the filter owns
// deduplication and statistics; the worker loop stays free of policy.
//
// Design decision: We implement our own crawl loop rather than using a
// third-party crawling framework because:
//  1. Dispatch order and politeness live in the frontier, which a
//     framework's internal scheduler would fight
//  2. Every discovery must be persisted before it is crawlable, a
//     durability ordering frameworks do not expose
//  3. The worker cycle itself is a dozen lines; a framework would
//     dwarf the problem
//
// # Shutdown
//
// Cancelling the run context stops the pool. URLs checked out at that
// moment are left incomplete on purpose: the next run replays them, so
// an interrupted fetch is retried instead of silently lost.
package crawler
