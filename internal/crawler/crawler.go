package crawler

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/campuscrawl/internal/fetcher"
	"github.com/nao1215/campuscrawl/internal/filter"
	"github.com/nao1215/campuscrawl/internal/frontier"
	"github.com/nao1215/campuscrawl/internal/model"
)

// defaultWorkers is the pool size used when no option overrides it.
const defaultWorkers = 8

// progressEvery is the completion interval between progress log lines.
const progressEvery = 50

// Crawler coordinates the worker pool over the frontier, fetcher, and
// content filter.
type Crawler struct {
	frontier *frontier.Frontier
	fetcher  *fetcher.Fetcher
	filter   *filter.Filter
	workers  int
	logger   *slog.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithWorkers sets the number of concurrent workers.
func WithWorkers(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithLogger sets a custom logger. If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// New creates a Crawler over the given frontier, fetcher, and filter.
func New(f *frontier.Frontier, fet *fetcher.Fetcher, fil *filter.Filter, opts ...Option) *Crawler {
	c := &Crawler{
		frontier: f,
		fetcher:  fet,
		filter:   fil,
		workers:  defaultWorkers,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Run seeds the frontier and drives the worker pool until the frontier
// is exhausted or the context is cancelled. Seeding is idempotent: on a
// resumed crawl the seeds are already in the store and are ignored.
func (c *Crawler) Run(ctx context.Context, seeds []model.Link) error {
	for _, seed := range seeds {
		if err := c.frontier.Enqueue(ctx, seed); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < c.workers; i++ {
		worker := i
		g.Go(func() error {
			return c.work(ctx, worker)
		})
	}
	return g.Wait()
}

// work is one worker's fetch-filter-discover loop. It exits cleanly
// when the crawl completes or stops, and with the context's error when
// cancelled.
func (c *Crawler) work(ctx context.Context, id int) error {
	logger := c.logger.With("worker", id)

	for {
		link, err := c.frontier.Dequeue(ctx)
		if errors.Is(err, frontier.ErrDone) || errors.Is(err, frontier.ErrStopped) {
			logger.Debug("worker finished", "reason", err)
			return nil
		}
		if err != nil {
			return err
		}

		page := c.fetcher.Fetch(ctx, link.URL)

		// A fetch aborted by shutdown must not count as attempted:
		// leaving the URL checked out lets the next run retry it.
		if ctx.Err() != nil {
			return ctx.Err()
		}

		c.process(ctx, logger, link, page)

		if err := c.frontier.MarkComplete(ctx, link.URL); err != nil {
			return err
		}
		c.logProgress(logger)
	}
}

// process runs one fetched page through the filter and enqueues the
// surviving links. Rejections are routine and only logged.
func (c *Crawler) process(ctx context.Context, logger *slog.Logger, link model.Link, page *model.Page) {
	candidates, err := c.filter.Accept(link.URL.Page, page)
	if err != nil {
		logger.Debug("page rejected", "url", link.URL.Page, "reason", err)
		return
	}

	enqueued := 0
	for _, cand := range candidates {
		if !c.filter.IsValid(cand.URL.Page) {
			continue
		}
		if err := c.frontier.Enqueue(ctx, cand); err != nil {
			if errors.Is(err, frontier.ErrStopped) {
				return
			}
			logger.Warn("failed to enqueue discovered url", "url", cand.URL.Page, "error", err)
			continue
		}
		enqueued++
	}
	logger.Debug("page accepted", "url", link.URL.Page, "links", len(candidates), "enqueued", enqueued)
}

// logProgress emits a progress line at a fixed completion interval.
func (c *Crawler) logProgress(logger *slog.Logger) {
	discovered, completed := c.frontier.Counters()
	if completed%progressEvery == 0 {
		logger.Info("crawl progress", "completed", completed, "discovered", discovered, "pending", c.frontier.Pending())
	}
}

// Snapshot returns the corpus statistics combined with the frontier's
// lifetime counters.
func (c *Crawler) Snapshot() model.Snapshot {
	snap := c.filter.Snapshot()
	snap.TotalDiscovered, snap.TotalCompleted = c.frontier.Counters()
	return snap
}
