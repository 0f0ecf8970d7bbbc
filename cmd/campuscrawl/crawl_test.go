package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/campuscrawl/internal/config"
	"github.com/nao1215/campuscrawl/internal/model"
)

// newTestSnapshot builds a minimal snapshot for report tests.
func newTestSnapshot() *model.Snapshot {
	return &model.Snapshot{
		UniquePages:     7,
		TotalDiscovered: 9,
		TotalCompleted:  7,
		Started:         time.Now().Add(-time.Minute),
		Finished:        time.Now(),
	}
}

// TestBuildConfig tests flag and config file precedence.
func TestBuildConfig(t *testing.T) {
	t.Run("defaults without flags or file", func(t *testing.T) {
		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildConfig(cmd, nil)
		if err != nil {
			t.Fatalf("build config failed: %v", err)
		}
		if cfg.Workers != config.DefaultWorkers {
			t.Errorf("workers = %d, want default %d", cfg.Workers, config.DefaultWorkers)
		}
		if cfg.PolitenessDelay != config.DefaultPolitenessDelay {
			t.Errorf("delay = %v, want default %v", cfg.PolitenessDelay, config.DefaultPolitenessDelay)
		}
		if len(cfg.Seeds) != len(config.DefaultSeeds) {
			t.Errorf("seeds = %v, want defaults", cfg.Seeds)
		}
	})

	t.Run("flags override config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		file := "workers: 2\npolitenessDelay: 2s\ncacheServer: \"cache.example:9000\"\n"
		if err := os.WriteFile(path, []byte(file), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{"-c", path, "--workers", "5"}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildConfig(cmd, nil)
		if err != nil {
			t.Fatalf("build config failed: %v", err)
		}
		// Flag wins over file.
		if cfg.Workers != 5 {
			t.Errorf("workers = %d, want flag value 5", cfg.Workers)
		}
		// File wins over default.
		if cfg.PolitenessDelay != 2*time.Second {
			t.Errorf("delay = %v, want file value 2s", cfg.PolitenessDelay)
		}
		if cfg.CacheServer != "cache.example:9000" {
			t.Errorf("cache server = %q, want file value", cfg.CacheServer)
		}
	})

	t.Run("missing explicit config file is an error", func(t *testing.T) {
		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{"-c", filepath.Join(t.TempDir(), "nope.yaml")}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}
		if _, err := buildConfig(cmd, nil); err == nil {
			t.Fatal("expected error for missing config file")
		}
	})

	t.Run("positional arguments become seeds", func(t *testing.T) {
		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"http://www.ics.uci.edu/special"})
		if err != nil {
			t.Fatalf("build config failed: %v", err)
		}
		if len(cfg.Seeds) != 1 || cfg.Seeds[0] != "http://www.ics.uci.edu/special" {
			t.Errorf("seeds = %v, want the positional argument", cfg.Seeds)
		}
	})
}

// TestSeedLinks tests seed canonicalization.
func TestSeedLinks(t *testing.T) {
	t.Parallel()

	links, err := seedLinks([]string{"http://WWW.ICS.UCI.EDU/"})
	if err != nil {
		t.Fatalf("seed links failed: %v", err)
	}
	if links[0].URL.Page != "http://www.ics.uci.edu" {
		t.Errorf("seed page = %q", links[0].URL.Page)
	}
	if links[0].Score != config.DefaultSeedScore {
		t.Errorf("seed score = %v, want %v", links[0].Score, config.DefaultSeedScore)
	}

	if _, err := seedLinks([]string{"ftp://bad.example"}); err == nil {
		t.Error("expected error for non-http seed")
	}
}

// TestCrawlCmdEndToEnd drives the crawl command against a local server.
func TestCrawlCmdEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>small campus corpus for the end to end run</body></html>`)
	}))
	defer srv.Close()

	dataDir := t.TempDir()
	var out bytes.Buffer

	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"crawl", "--data-dir", dataDir, srv.URL})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("crawl command failed: %v", err)
	}
	if !strings.Contains(out.String(), "Number of unique pages: 1") {
		t.Errorf("report missing page count: %s", out.String())
	}

	// The state file must exist for the next run to resume from.
	if _, err := os.Stat(filepath.Join(dataDir, "campuscrawl.db")); err != nil {
		t.Errorf("crawl state not persisted: %v", err)
	}
}

// TestWriteReportToFile tests report output redirection.
func TestWriteReportToFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reports", "stats.json")
	cfg := config.NewConfig()
	cfg.JSONReport = true
	cfg.ReportFile = path

	snap := newTestSnapshot()
	if err := writeReport(os.Stdout, cfg, snap); err != nil {
		t.Fatalf("write report failed: %v", err)
	}

	content, err := os.ReadFile(path) //nolint:gosec // test-controlled path
	if err != nil {
		t.Fatalf("report file not created: %v", err)
	}
	if !strings.Contains(string(content), "\"unique_pages\": 7") {
		t.Errorf("report content = %s", content)
	}
}
