// Package main provides the entry point for the campuscrawl CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for campuscrawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "campuscrawl",
		Short: "Polite, resumable crawler for UCI academic domains",
		Long: `campuscrawl crawls a fixed set of academic domains, deduplicates the
pages it finds, and reports corpus statistics: unique page count, the
longest page, the most common words, and pages per subdomain.

Crawl state is persisted after every discovery, so an interrupted crawl
resumes exactly where it left off. Use --restart to discard saved state
and start over from the seeds.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewStatusCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
