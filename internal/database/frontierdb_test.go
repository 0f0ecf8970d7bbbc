package database

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *FrontierDB {
	t.Helper()

	db, err := Open(t.TempDir(), Options{})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// TestOpen tests database creation, resume, and restart semantics.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, Options{})
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, DBFileName)); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
		if db.Existed() {
			t.Error("fresh database must report Existed() == false")
		}
	})

	t.Run("reopen preserves records and reports Existed", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		ctx := context.Background()

		db1, err := Open(dbDir, Options{})
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		rec := Record{Hash: "h1", URL: "http://x.edu/a", Score: 2, Sequence: 1}
		if err := db1.Put(ctx, rec); err != nil {
			t.Fatalf("failed to put record: %v", err)
		}
		db1.Close()

		db2, err := Open(dbDir, Options{})
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		defer db2.Close()

		if !db2.Existed() {
			t.Error("reopened database must report Existed() == true")
		}

		exists, err := db2.Exists(ctx, "h1")
		if err != nil {
			t.Fatalf("failed to check existence: %v", err)
		}
		if !exists {
			t.Error("record must survive reopen")
		}
	})

	t.Run("restart removes prior state", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		ctx := context.Background()

		db1, err := Open(dbDir, Options{})
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		if err := db1.Put(ctx, Record{Hash: "h1", URL: "http://x.edu/a"}); err != nil {
			t.Fatalf("failed to put record: %v", err)
		}
		db1.Close()

		db2, err := Open(dbDir, Options{Restart: true})
		if err != nil {
			t.Fatalf("failed to reopen with restart: %v", err)
		}
		defer db2.Close()

		if db2.Existed() {
			t.Error("restarted database must report Existed() == false")
		}
		exists, err := db2.Exists(ctx, "h1")
		if err != nil {
			t.Fatalf("failed to check existence: %v", err)
		}
		if exists {
			t.Error("restart must discard prior records")
		}
	})
}

// TestPutAndMarkCompleted tests the record lifecycle.
func TestPutAndMarkCompleted(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	rec := Record{Hash: "h1", URL: "http://x.edu/a", Score: 3.5, Sequence: 7}
	if err := db.Put(ctx, rec); err != nil {
		t.Fatalf("failed to put record: %v", err)
	}

	if err := db.MarkCompleted(ctx, "h1"); err != nil {
		t.Fatalf("failed to mark completed: %v", err)
	}

	var got Record
	found := false
	err := db.Iterate(ctx, func(r Record) error {
		got = r
		found = true
		return nil
	})
	if err != nil {
		t.Fatalf("failed to iterate: %v", err)
	}
	if !found {
		t.Fatal("expected one record")
	}
	if !got.Completed {
		t.Error("record must be marked completed")
	}
	if got.Score != 3.5 || got.Sequence != 7 {
		t.Errorf("score/sequence not preserved: %+v", got)
	}
	if got.Legacy {
		t.Error("full record must not be flagged legacy")
	}
}

// TestMarkCompletedUnknown tests the unknown-hash error path.
func TestMarkCompletedUnknown(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)

	err := db.MarkCompleted(context.Background(), "missing")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected wrapped sql.ErrNoRows, got %v", err)
	}
}

// TestLegacyRecords tests replay of rows written by the old two-column
// format: NULL score/seq must come back flagged Legacy.
func TestLegacyRecords(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.db.ExecContext(ctx,
		"INSERT INTO frontier (url_hash, url, completed) VALUES (?, ?, 0)",
		"legacy1", "http://x.edu/old"); err != nil {
		t.Fatalf("failed to insert legacy row: %v", err)
	}
	if err := db.Put(ctx, Record{Hash: "new1", URL: "http://x.edu/new", Score: 1, Sequence: 4}); err != nil {
		t.Fatalf("failed to put record: %v", err)
	}

	legacy := 0
	modern := 0
	err := db.Iterate(ctx, func(r Record) error {
		if r.Legacy {
			legacy++
		} else {
			modern++
		}
		return nil
	})
	if err != nil {
		t.Fatalf("failed to iterate: %v", err)
	}

	if legacy != 1 || modern != 1 {
		t.Errorf("legacy = %d, modern = %d, want 1 and 1", legacy, modern)
	}
}

// TestMaxSequence tests sequence continuation across restarts.
func TestMaxSequence(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	maxSeq, err := db.MaxSequence(ctx)
	if err != nil {
		t.Fatalf("failed to read max sequence: %v", err)
	}
	if maxSeq != 0 {
		t.Errorf("empty store max sequence = %d, want 0", maxSeq)
	}

	for i, h := range []string{"a", "b", "c"} {
		rec := Record{Hash: h, URL: "http://x.edu/" + h, Sequence: uint64(i + 10)}
		if err := db.Put(ctx, rec); err != nil {
			t.Fatalf("failed to put record: %v", err)
		}
	}

	maxSeq, err = db.MaxSequence(ctx)
	if err != nil {
		t.Fatalf("failed to read max sequence: %v", err)
	}
	if maxSeq != 12 {
		t.Errorf("max sequence = %d, want 12", maxSeq)
	}
}

// TestPutIdempotent tests that re-putting a hash does not duplicate it
// and does not revert a completed flag.
func TestPutIdempotent(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.Put(ctx, Record{Hash: "h1", URL: "http://x.edu/a", Score: 1, Sequence: 1}); err != nil {
		t.Fatalf("failed to put record: %v", err)
	}
	if err := db.MarkCompleted(ctx, "h1"); err != nil {
		t.Fatalf("failed to mark completed: %v", err)
	}
	// Re-put with Completed=true (how the frontier rewrites records).
	if err := db.Put(ctx, Record{Hash: "h1", URL: "http://x.edu/a", Completed: true, Score: 1, Sequence: 1}); err != nil {
		t.Fatalf("failed to re-put record: %v", err)
	}

	count := 0
	err := db.Iterate(ctx, func(r Record) error {
		count++
		if !r.Completed {
			t.Error("completed flag must not revert")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("failed to iterate: %v", err)
	}
	if count != 1 {
		t.Errorf("record count = %d, want 1", count)
	}
}
