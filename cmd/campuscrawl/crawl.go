package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/campuscrawl/internal/config"
	"github.com/nao1215/campuscrawl/internal/crawler"
	"github.com/nao1215/campuscrawl/internal/database"
	"github.com/nao1215/campuscrawl/internal/fetcher"
	"github.com/nao1215/campuscrawl/internal/filter"
	"github.com/nao1215/campuscrawl/internal/frontier"
	"github.com/nao1215/campuscrawl/internal/log"
	"github.com/nao1215/campuscrawl/internal/model"
	"github.com/nao1215/campuscrawl/internal/report"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [seed-url...]",
		Short: "Crawl the configured academic domains",
		Long: `Crawl starts (or resumes) a crawl of the configured academic domains.

On a fresh run it starts from the seed URLs. On later runs it replays
the persisted crawl state: completed pages are never downloaded again
and the queue picks up where the previous run stopped. An interrupt
(Ctrl-C) exits cleanly and still writes a statistics report from
whatever was accumulated.

Examples:
  # Start or resume a crawl with the default seeds
  campuscrawl crawl

  # Discard saved state and start over
  campuscrawl crawl --restart

  # Crawl through a caching proxy
  campuscrawl crawl --cache-server styx.ics.uci.edu:9007

  # Write the statistics as JSON to a file
  campuscrawl crawl --json --output stats.json

  # Use a custom configuration file
  campuscrawl crawl -c myconfig.yaml

Configuration file (.campuscrawl) example:
  politenessDelay: 500ms
  workers: 8
  cacheServer: "styx.ics.uci.edu:9007"`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	// Crawl behavior flags
	cmd.Flags().BoolP("restart", "r", false,
		"Discard persisted crawl state and start over from the seeds")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Number of concurrent crawl workers")
	cmd.Flags().DurationP("delay", "d", config.DefaultPolitenessDelay,
		"Politeness delay between requests to the same domain")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Connection timeout for each request")
	cmd.Flags().StringP("cache-server", "e", "",
		"Fetch through the caching proxy at host:port instead of directly")
	cmd.Flags().String("data-dir", "",
		"Directory for persisted crawl state (default: XDG data directory)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .campuscrawl in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Handle interrupt signals for a clean exit: the crawl stops, state
	// stays resumable, and the report is still written.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, finishing up...")
		cancel()
	}()

	return runCrawl(ctx, cmd.OutOrStdout(), cfg, logger)
}

// buildConfig creates a Config from the config file and cobra flags.
// Precedence: flags the user set > config file values > defaults.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath = configPath

	// If user explicitly specified a config file path, error if not
	// found. If no path specified, silently skip when no file exists.
	found := config.FindConfigFile(configPath)
	if found != "" {
		cf, err := config.LoadConfigFile(found)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", found, err)
		}
		cf.Apply(cfg)
	} else if configPath != "" {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	flags := cmd.Flags()
	if flags.Changed("workers") {
		if cfg.Workers, err = flags.GetInt("workers"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("delay") {
		if cfg.PolitenessDelay, err = flags.GetDuration("delay"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("cache-server") {
		if cfg.CacheServer, err = flags.GetString("cache-server"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("data-dir") {
		if cfg.DataDir, err = flags.GetString("data-dir"); err != nil {
			return nil, err
		}
	}

	if cfg.Restart, err = flags.GetBool("restart"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	// Positional arguments override the configured seeds.
	if len(args) > 0 {
		cfg.Seeds = args
	}

	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// runCrawl wires the components together and drives the crawl.
func runCrawl(ctx context.Context, out io.Writer, cfg *config.Config, logger *slog.Logger) error {
	db, err := database.Open(cfg.DataDir, database.Options{Restart: cfg.Restart})
	if err != nil {
		return fmt.Errorf("failed to open crawl state: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close crawl state", "error", err)
		}
	}()
	logger.Info("crawl state opened", "path", db.Path(), "resuming", db.Existed() && !cfg.Restart)

	fil := filter.New(crawler.ParsePage,
		filter.WithAllowedDomains(cfg.AllowedDomains),
		filter.WithOverallDomain(cfg.OverallDomain),
		filter.WithLogger(logger),
	)

	front, err := frontier.New(ctx, db,
		frontier.WithDelay(cfg.PolitenessDelay),
		frontier.WithDomains(cfg.AllowedDomains),
		frontier.WithValidity(fil.IsValid),
		frontier.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to load frontier: %w", err)
	}

	fetchOpts := []fetcher.Option{
		fetcher.WithTimeout(cfg.Timeout),
		fetcher.WithUserAgent(cfg.UserAgent),
		fetcher.WithMaxBodySize(cfg.MaxBodySize),
		fetcher.WithLogger(logger),
	}
	if cfg.CacheServer != "" {
		fetchOpts = append(fetchOpts, fetcher.WithCacheServer(cfg.CacheServer))
	}

	seeds, err := seedLinks(cfg.Seeds)
	if err != nil {
		return err
	}

	c := crawler.New(front, fetcher.New(fetchOpts...), fil,
		crawler.WithWorkers(cfg.Workers),
		crawler.WithLogger(logger),
	)

	crawlErr := c.Run(ctx, seeds)
	switch {
	case crawlErr == nil:
		logger.Info("crawl complete")
	case errors.Is(crawlErr, context.Canceled):
		// Interrupted: state is saved, report what we have.
		logger.Info("crawl interrupted, state saved for resume")
	default:
		return crawlErr
	}

	snap := c.Snapshot()
	if err := writeReport(out, cfg, &snap); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// seedLinks canonicalizes the configured seeds into top-priority links.
func seedLinks(raws []string) ([]model.Link, error) {
	links := make([]model.Link, 0, len(raws))
	for _, raw := range raws {
		u, err := model.Canonicalize(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid seed url %q: %w", raw, err)
		}
		links = append(links, model.NewLink(u, config.DefaultSeedScore))
	}
	return links, nil
}

// writeReport writes the statistics snapshot in the configured format
// to stdout or the configured output file.
func writeReport(out io.Writer, cfg *config.Config, snap *model.Snapshot) (err error) {
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}
		f, createErr := os.Create(cfg.ReportFile) //nolint:gosec // User-provided report path is intentional
		if createErr != nil {
			return fmt.Errorf("failed to create report file: %w", createErr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		out = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(out, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(out)
	default:
		w = report.NewTextWriter(out, report.WithVerbose(cfg.Verbose))
	}

	_, err = w.Write(snap)
	return err
}
