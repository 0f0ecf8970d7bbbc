package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// DBFileName is the name of the SQLite database file inside the data
// directory.
const DBFileName = "campuscrawl.db"

// Record is one persisted frontier entry. There is exactly one record
// per canonical page ever discovered; records are never deleted, only
// updated in place.
type Record struct {
	// Hash is the stable hex SHA-256 hash of the canonical page string.
	Hash string

	// URL is the canonical page string.
	URL string

	// Completed reports whether the URL has been fetched and processed.
	// The flag is monotonic: it flips false to true exactly once and
	// never reverts.
	Completed bool

	// Score is the information-value score assigned at first insertion.
	Score float64

	// Sequence is the monotonically increasing insertion number used as
	// a stable FIFO tie-breaker. It keeps increasing across restarts.
	Sequence uint64

	// Legacy marks a record replayed from an older schema that lacked
	// score and sequence columns. Legacy records are treated as already
	// processed and are never re-queued.
	Legacy bool
}

// FrontierDB provides SQLite-based storage for frontier records.
//
// Design decision: one writer connection with WAL and synchronous=FULL.
// The frontier serializes its own mutations under a mutex, so write
// concurrency buys nothing, while FULL sync is what turns Put into the
// write-ahead durability point the resume logic depends on.
type FrontierDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string

	// existed reports whether the database file was present before Open.
	existed bool
}

// Options configures FrontierDB behavior.
type Options struct {
	// Restart deletes any existing database file before opening, so
	// the crawl starts from seed with no prior state.
	Restart bool
}

// Open opens or creates a FrontierDB under the specified directory.
// The directory and database file are created as needed. With
// Options.Restart, a pre-existing file is removed first.
func Open(dbDir string, opts Options) (*FrontierDB, error) {
	if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	dbPath := filepath.Join(dbDir, DBFileName)

	existed := false
	if _, err := os.Stat(dbPath); err == nil {
		existed = true
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to check database path: %w", err)
	}

	if opts.Restart && existed {
		if err := os.Remove(dbPath); err != nil {
			return nil, fmt.Errorf("failed to remove database for restart: %w", err)
		}
		// WAL sidecar files would resurrect old state on reopen.
		_ = os.Remove(dbPath + "-wal")
		_ = os.Remove(dbPath + "-shm")
		existed = false
	}

	db, err := sql.Open("sqlite", dbPath+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; the frontier is the only caller.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	fdb := &FrontierDB{
		db:      db,
		dbPath:  dbPath,
		existed: existed,
	}

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	// FULL makes every committed write survive power loss. This is the
	// durability contract Put and MarkCompleted promise to the frontier.
	if _, err := db.ExecContext(ctx, "PRAGMA synchronous=FULL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	if err := fdb.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return fdb, nil
}

// Close closes the database connection.
func (fdb *FrontierDB) Close() error {
	return fdb.db.Close()
}

// Existed reports whether a database file was found (and kept) at Open.
// The frontier uses this to distinguish a resumed crawl from a fresh one.
func (fdb *FrontierDB) Existed() bool {
	return fdb.existed
}

// Path returns the path of the underlying database file.
func (fdb *FrontierDB) Path() string {
	return fdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
//
// score and seq are nullable on purpose: records written by the legacy
// two-column format replay with NULLs, and the frontier treats those as
// already processed instead of dropping them.
func (fdb *FrontierDB) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS frontier (
		url_hash TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0,
		score REAL,
		seq INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_frontier_completed ON frontier(completed);
	`

	_, err := fdb.db.ExecContext(ctx, schema)
	return err
}

// Exists reports whether a record with the given hash is present.
func (fdb *FrontierDB) Exists(ctx context.Context, hash string) (bool, error) {
	var one int
	err := fdb.db.QueryRowContext(ctx,
		"SELECT 1 FROM frontier WHERE url_hash = ?", hash).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check record existence: %w", err)
	}
	return true, nil
}

// Put inserts or updates a record. The write is committed (and with
// synchronous=FULL, synced) before Put returns, so a crash after Put
// never loses the record and a crash before Put is equivalent to the URL
// never having been seen.
func (fdb *FrontierDB) Put(ctx context.Context, rec Record) error {
	query := `
	INSERT INTO frontier (url_hash, url, completed, score, seq)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(url_hash) DO UPDATE SET
		completed = excluded.completed
	`

	completed := 0
	if rec.Completed {
		completed = 1
	}

	if _, err := fdb.db.ExecContext(ctx, query,
		rec.Hash, rec.URL, completed, rec.Score, int64(rec.Sequence)); err != nil {
		return fmt.Errorf("failed to put frontier record: %w", err)
	}
	return nil
}

// MarkCompleted durably flips a record's completed flag to true.
// It returns sql.ErrNoRows wrapped when no record exists for the hash;
// the frontier decides whether that is recoverable.
func (fdb *FrontierDB) MarkCompleted(ctx context.Context, hash string) error {
	res, err := fdb.db.ExecContext(ctx,
		"UPDATE frontier SET completed = 1 WHERE url_hash = ?", hash)
	if err != nil {
		return fmt.Errorf("failed to mark record completed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("mark completed %s: %w", hash, sql.ErrNoRows)
	}
	return nil
}

// Iterate calls fn for every record in the store. Used for startup
// replay to rebuild in-memory queues and counters. Iteration stops on
// the first error from fn.
func (fdb *FrontierDB) Iterate(ctx context.Context, fn func(Record) error) error {
	rows, err := fdb.db.QueryContext(ctx,
		"SELECT url_hash, url, completed, score, seq FROM frontier ORDER BY seq")
	if err != nil {
		return fmt.Errorf("failed to iterate frontier: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec Record
		var completed int
		var score sql.NullFloat64
		var seq sql.NullInt64

		if err := rows.Scan(&rec.Hash, &rec.URL, &completed, &score, &seq); err != nil {
			return fmt.Errorf("failed to scan frontier record: %w", err)
		}

		rec.Completed = completed != 0
		if score.Valid && seq.Valid {
			rec.Score = score.Float64
			rec.Sequence = uint64(seq.Int64)
		} else {
			// Record from the legacy (url, completed) format.
			rec.Legacy = true
		}

		if err := fn(rec); err != nil {
			return err
		}
	}

	return rows.Err()
}

// MaxSequence returns the highest sequence number in the store, or zero
// when the store is empty. Restarted processes continue strictly above
// this value so sequence numbers never collide.
func (fdb *FrontierDB) MaxSequence(ctx context.Context) (uint64, error) {
	var maxSeq sql.NullInt64
	err := fdb.db.QueryRowContext(ctx,
		"SELECT MAX(seq) FROM frontier").Scan(&maxSeq)
	if err != nil {
		return 0, fmt.Errorf("failed to read max sequence: %w", err)
	}
	if !maxSeq.Valid {
		return 0, nil
	}
	return uint64(maxSeq.Int64), nil
}
