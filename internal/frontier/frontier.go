package frontier

import (
	"container/heap"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/campuscrawl/internal/database"
	"github.com/nao1215/campuscrawl/internal/model"
)

var (
	// ErrDone means the crawl is complete: every discovered URL has
	// been dispatched and processed.
	ErrDone = errors.New("frontier exhausted")

	// ErrStopped means the frontier was stopped before completion.
	ErrStopped = errors.New("frontier stopped")
)

// maxWait caps how long a Dequeue sleeps before rechecking its
// conditions. It bounds the latency of noticing Stop or a cancelled
// context while a long politeness deadline is pending.
const maxWait = time.Second

// defaultDelay is the politeness delay used when none is configured.
const defaultDelay = 500 * time.Millisecond

// Frontier is the URL scheduler shared by all workers.
//
// Design decision: one mutex plus one condition variable guard all
// scheduling state, rather than a channel per bucket, because:
//  1. Dispatch order depends on a cross-bucket deadline comparison that
//     channels cannot express
//  2. Termination needs an atomic view of every queue and every
//     outstanding checkout
//  3. The store write must be ordered before queue visibility, which a
//     single critical section makes trivial
type Frontier struct {
	mu   sync.Mutex
	cond *sync.Cond

	// buckets maps bucket name to its politeness bucket.
	buckets map[string]*domainBucket

	// schedule orders the non-empty buckets by dispatch deadline.
	schedule scheduleHeap

	// db is the persisted write-through store.
	db *database.FrontierDB

	// delay is the minimum gap between dispatches from one bucket.
	delay time.Duration

	// domains are the crawl domains used for bucket assignment.
	domains []string

	// valid, when set, prunes persisted URLs on replay. Heuristics
	// evolve between runs; an old frontier may hold URLs a newer
	// validity predicate would no longer admit.
	valid func(raw string) bool

	// nextSeq is the insertion number of the next discovered URL. It
	// continues from the store's maximum across restarts.
	nextSeq uint64

	// checkouts counts URLs handed to workers and not yet completed.
	checkouts int

	// discovered and completed are the lifetime counters, including
	// records replayed from the store.
	discovered int
	completed  int

	stopped bool
	logger  *slog.Logger
}

// Option configures a Frontier.
type Option func(*Frontier)

// WithDelay sets the politeness delay between dispatches to one domain.
func WithDelay(delay time.Duration) Option {
	return func(f *Frontier) {
		f.delay = delay
	}
}

// WithDomains sets the crawl domains used to group hosts into
// politeness buckets.
func WithDomains(domains []string) Option {
	return func(f *Frontier) {
		f.domains = domains
	}
}

// WithValidity sets the predicate applied to persisted URLs on replay.
func WithValidity(valid func(raw string) bool) Option {
	return func(f *Frontier) {
		f.valid = valid
	}
}

// WithLogger sets a custom logger. If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Frontier) {
		f.logger = logger
	}
}

// New creates a Frontier backed by the given store and replays any
// incomplete records left by a previous run into the in-memory queues.
func New(ctx context.Context, db *database.FrontierDB, opts ...Option) (*Frontier, error) {
	f := &Frontier{
		buckets: make(map[string]*domainBucket),
		db:      db,
		delay:   defaultDelay,
	}
	f.cond = sync.NewCond(&f.mu)
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}

	if err := f.replay(ctx); err != nil {
		return nil, err
	}

	maxSeq, err := f.db.MaxSequence(ctx)
	if err != nil {
		return nil, err
	}
	f.nextSeq = maxSeq + 1

	return f, nil
}

// replay loads the persisted frontier into the in-memory queues.
// Completed and legacy records only adjust the counters; incomplete
// records that still pass the validity predicate are re-queued with
// their original score and insertion number.
func (f *Frontier) replay(ctx context.Context) error {
	requeued := 0
	err := f.db.Iterate(ctx, func(rec database.Record) error {
		f.discovered++
		if rec.Completed {
			f.completed++
			return nil
		}
		if rec.Legacy {
			f.completed++
			f.logger.Warn("skipping legacy frontier record", "url", rec.URL)
			return nil
		}
		if f.valid != nil && !f.valid(rec.URL) {
			f.completed++
			f.logger.Debug("pruning persisted url on replay", "url", rec.URL)
			return nil
		}

		u, err := model.Canonicalize(rec.URL)
		if err != nil {
			f.completed++
			f.logger.Warn("dropping unparseable persisted url", "url", rec.URL, "error", err)
			return nil
		}

		f.push(model.NewLink(u, rec.Score), rec.Sequence)
		requeued++
		return nil
	})
	if err != nil {
		return fmt.Errorf("replay frontier: %w", err)
	}

	if f.discovered > 0 {
		f.logger.Info("frontier replayed",
			"discovered", f.discovered,
			"completed", f.completed,
			"requeued", requeued,
		)
	}
	return nil
}

// Enqueue offers a discovered URL to the frontier. The URL is written
// to the store before it becomes visible to workers; a URL already in
// the store (queued, checked out, or completed) is silently ignored, so
// Enqueue is idempotent per canonical page.
func (f *Frontier) Enqueue(ctx context.Context, link model.Link) error {
	hash := link.URL.Hash()

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stopped {
		return ErrStopped
	}

	exists, err := f.db.Exists(ctx, hash)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	seq := f.nextSeq
	f.nextSeq++

	// Durability point: the record must hit the store before any worker
	// can check the URL out.
	if err := f.db.Put(ctx, database.Record{
		Hash:     hash,
		URL:      link.URL.Page,
		Score:    link.Score,
		Sequence: seq,
	}); err != nil {
		return err
	}

	f.discovered++
	f.push(link, seq)
	f.cond.Broadcast()
	return nil
}

// push inserts a link into its bucket queue and, if the bucket was
// idle, into the dispatch schedule. Caller holds the mutex.
func (f *Frontier) push(link model.Link, seq uint64) {
	name := bucketFor(link.URL.Host, f.domains)
	b, ok := f.buckets[name]
	if !ok {
		b = &domainBucket{name: name}
		f.buckets[name] = b
	}

	heap.Push(&b.queue, queueItem{link: link, seq: seq})
	if !b.scheduled {
		b.scheduled = true
		heap.Push(&f.schedule, scheduleItem{at: b.nextEligible, bucket: b})
	}
}

// Dequeue blocks until a URL is eligible for dispatch and returns it.
// It returns ErrDone when the crawl has finished, ErrStopped after
// Stop, and the context error if ctx is cancelled while waiting.
//
// The caller owns the returned URL until it calls MarkComplete; the
// crawl cannot terminate while any checkout is outstanding.
func (f *Frontier) Dequeue(ctx context.Context) (model.Link, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for {
		if err := ctx.Err(); err != nil {
			return model.Link{}, err
		}
		if f.stopped {
			return model.Link{}, ErrStopped
		}

		// Every non-empty bucket sits in the schedule, so an empty
		// schedule with no outstanding checkouts means the crawl is
		// over. Wake the other waiters so they observe it too.
		if len(f.schedule) == 0 {
			if f.checkouts == 0 {
				f.cond.Broadcast()
				return model.Link{}, ErrDone
			}
			f.wait(maxWait)
			continue
		}

		now := time.Now()
		next := f.schedule[0]
		if next.at.After(now) {
			wait := next.at.Sub(now)
			if wait > maxWait {
				wait = maxWait
			}
			f.wait(wait)
			continue
		}

		item := f.dispatch(next.bucket, now)
		f.checkouts++
		return item.link, nil
	}
}

// dispatch pops the bucket's best URL and pushes the bucket's next
// deadline. Caller holds the mutex.
func (f *Frontier) dispatch(b *domainBucket, now time.Time) queueItem {
	// The schedule promised this bucket is eligible. A dispatch before
	// its deadline would hammer the domain, which is the one invariant
	// this program must never break.
	if now.Before(b.nextEligible) {
		panic(fmt.Sprintf("frontier: dispatching %s %v before its deadline", b.name, b.nextEligible.Sub(now)))
	}

	heap.Pop(&f.schedule)
	item := heap.Pop(&b.queue).(queueItem)

	b.nextEligible = now.Add(f.delay)
	if b.queue.Len() > 0 {
		heap.Push(&f.schedule, scheduleItem{at: b.nextEligible, bucket: b})
	} else {
		b.scheduled = false
	}
	return item
}

// wait releases the mutex and sleeps until woken or the duration
// elapses. sync.Cond has no timed wait, so a timer broadcast stands in
// for one. The callback must take the mutex before broadcasting: that
// orders the broadcast after Wait has registered this waiter, so an
// early-firing timer cannot slip into the gap and leave the waiter
// blocked with no wakeup coming. Caller holds the mutex.
func (f *Frontier) wait(d time.Duration) {
	timer := time.AfterFunc(d, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.cond.Broadcast()
	})
	f.cond.Wait()
	timer.Stop()
}

// MarkComplete records that a checked-out URL has been fully processed.
// The completion is durable once this returns. Completing a URL the
// store does not know is logged and ignored: the crawl result is
// unaffected, and aborting a long crawl over it would cost far more
// than the anomaly itself.
func (f *Frontier) MarkComplete(ctx context.Context, u model.URL) error {
	err := f.db.MarkCompleted(ctx, u.Hash())

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.checkouts > 0 {
		f.checkouts--
	}
	f.cond.Broadcast()

	if errors.Is(err, sql.ErrNoRows) {
		f.logger.Warn("completion for unknown url", "url", u.Page)
		return nil
	}
	if err != nil {
		return err
	}

	f.completed++
	return nil
}

// Stop aborts the crawl: every current and future Dequeue returns
// ErrStopped and further Enqueues are refused. Already persisted state
// is untouched, so a later run resumes where this one stopped.
func (f *Frontier) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
	f.cond.Broadcast()
}

// Counters returns the lifetime number of discovered and completed
// URLs, including records replayed from the store.
func (f *Frontier) Counters() (discovered, completed int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.discovered, f.completed
}

// Pending returns the number of URLs currently queued across all
// buckets plus the outstanding checkouts.
func (f *Frontier) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	pending := f.checkouts
	for _, b := range f.buckets {
		pending += b.queue.Len()
	}
	return pending
}
