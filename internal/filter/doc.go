// Package filter decides which fetched pages enter the corpus and which
// discovered links are worth crawling.
//
// # Pipeline
//
// Accept runs a fixed pipeline per fetched page, cheapest checks first,
// short-circuiting on the first rejection:
//
//  1. Seen-page check (canonical URL already processed)
//  2. Transport check (non-200 status or missing body)
//  3. Size ceiling
//  4. Trap heuristic (pure URL function)
//  5. HTML parse
//  6. Tokenization
//  7. Exact-duplicate check (160-bit content digest)
//  8. Near-duplicate check (64-bit simhash, Hamming distance)
//  9. Low-information check
//  10. Accept: corpus statistics update
//
// # Ownership
//
// The filter owns its dedup sets and statistics exclusively; they are
// mutated only through its locked API. The lock is independent of the
// frontier's so the O(fingerprints) near-duplicate scan never blocks
// scheduling.
//
// # Scaling limit
//
// Near-duplicate fingerprints accumulate without eviction, so the
// comparison cost grows linearly per page and quadratically over a
// crawl. That is acceptable at the tens-of-thousands-of-pages scale
// this tool targets.
package filter
