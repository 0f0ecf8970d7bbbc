// Package database provides SQLite-based storage for campuscrawl.
//
// This package implements the FrontierDB, a durable map from the hash of
// a canonical URL to its frontier record. The store is what makes a crawl
// resumable: every mutation is committed before the call returns, so a
// crash between writes never loses an acknowledged record.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of
// other storage engines because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. WAL mode with synchronous=FULL gives durability per commit
// 4. Full-table scans are fast enough for startup replay at this scale
//
// The original crawler used a shelve file (a dbm-backed Python dict) with
// an explicit sync() per mutation. SQLite provides the same contract with
// far better crash semantics.
package database
