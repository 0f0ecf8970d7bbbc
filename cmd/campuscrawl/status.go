package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/campuscrawl/internal/config"
	"github.com/nao1215/campuscrawl/internal/database"
)

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the persisted crawl state",
		Long: `Status summarizes the persisted crawl state without crawling: how many
URLs have been discovered, how many are completed, and how many are
still pending for the next run.`,
		RunE: runStatusCmd,
	}

	cmd.Flags().String("data-dir", "",
		"Directory holding persisted crawl state (default: XDG data directory)")

	return cmd
}

// runStatusCmd executes the status command.
func runStatusCmd(cmd *cobra.Command, _ []string) error {
	dataDir, err := cmd.Flags().GetString("data-dir")
	if err != nil {
		return err
	}
	if dataDir == "" {
		dataDir = config.XDGDataDir()
	}

	// Do not create state as a side effect of asking about it.
	dbPath := filepath.Join(dataDir, database.DBFileName)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintf(cmd.OutOrStdout(), "No crawl state found at %s\n", dbPath)
		fmt.Fprintln(cmd.OutOrStdout(), "Run 'campuscrawl crawl' to start a crawl.")
		return nil
	}

	db, err := database.Open(dataDir, database.Options{})
	if err != nil {
		return fmt.Errorf("failed to open crawl state: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "failed to close crawl state: %v\n", cerr)
		}
	}()

	var discovered, completed, legacy int
	err = db.Iterate(cmd.Context(), func(rec database.Record) error {
		discovered++
		switch {
		case rec.Completed:
			completed++
		case rec.Legacy:
			legacy++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to read crawl state: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Crawl state: %s\n", db.Path())
	fmt.Fprintf(out, "  Discovered: %d\n", discovered)
	fmt.Fprintf(out, "  Completed:  %d\n", completed)
	pending := discovered - completed - legacy
	fmt.Fprintf(out, "  Pending:    %d\n", pending)
	if legacy > 0 {
		fmt.Fprintf(out, "  Legacy:     %d (from an older version, not re-queued)\n", legacy)
	}
	if pending > 0 {
		fmt.Fprintln(out, "\nRun 'campuscrawl crawl' to resume.")
	}
	return nil
}
