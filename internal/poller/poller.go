package poller

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/finnvos/skysniper/internal/api"
	"github.com/finnvos/skysniper/internal/flip"
	"github.com/finnvos/skysniper/internal/item"
	"github.com/finnvos/skysniper/internal/model"
	"github.com/finnvos/skysniper/internal/price"
	"github.com/finnvos/skysniper/internal/snapshot"
)

// Config holds poller configuration.
type Config struct {
	Interval       time.Duration // Poll interval (default: 60s)
	Concurrency    int           // Max concurrent page fetches (default: 10)
	RetryBackoff   time.Duration // Delay after a failed cycle (default: 30s)
	PageFetchDelay time.Duration // Stagger between page fetch starts
	ReindexEvery   int           // Cycle period of full index rebuilds
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:       60 * time.Second,
		Concurrency:    10,
		RetryBackoff:   30 * time.Second,
		PageFetchDelay: 100 * time.Millisecond,
		ReindexEvery:   6,
	}
}

// Poller periodically pulls the full auction snapshot and feeds new listings
// through flip detection.
type Poller struct {
	cfg      Config
	client   *api.Client
	differ   *snapshot.Differ
	index    *price.Index
	detector *flip.Detector
	dec      *item.Decoder
	logger   *slog.Logger

	// cycle counts completed full snapshots. Unchanged cycles do not
	// advance it, so the reindex period is measured in fresh snapshots.
	cycle       int
	lastUpdated int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Poller.
func New(cfg Config, client *api.Client, differ *snapshot.Differ, index *price.Index, detector *flip.Detector, dec *item.Decoder, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		cfg:      cfg,
		client:   client,
		differ:   differ,
		index:    index,
		detector: detector,
		dec:      dec,
		logger:   logger,
	}
}

// Start begins the polling loop.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("auction poller started",
		"interval", p.cfg.Interval,
		"concurrency", p.cfg.Concurrency,
		"reindex_every", p.cfg.ReindexEvery,
	)

	return nil
}

// Stop gracefully shuts down the poller.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("auction poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the main polling loop. A failed cycle backs off before the normal
// interval resumes.
func (p *Poller) run() {
	defer p.wg.Done()

	for {
		delay := p.cfg.Interval
		if err := p.RunCycle(p.ctx); err != nil {
			if p.ctx.Err() != nil {
				return
			}
			p.logger.Error("poll cycle failed", "err", err)
			delay = p.cfg.RetryBackoff
		}

		select {
		case <-p.ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}

// RunCycle executes one snapshot cycle.
func (p *Poller) RunCycle(ctx context.Context) error {
	start := time.Now()

	first, err := p.client.GetAuctionsPage(ctx, 0)
	if err != nil {
		return err
	}

	// The feed refreshes on its own schedule. When the timestamp has not
	// moved since the previous snapshot there is nothing new to diff.
	if p.differ.Primed() && first.LastUpdated == p.lastUpdated {
		p.logger.Debug("snapshot unchanged", "last_updated", first.LastUpdated)
		return nil
	}

	pages, err := p.fetchRemaining(ctx, first)
	if err != nil {
		return err
	}

	now := time.Now()
	var batch []model.Listing
	for _, page := range pages {
		for _, a := range page {
			lst := a.ToListing()
			if lst.Active(now) {
				batch = append(batch, lst)
			}
		}
	}

	if p.cycle%p.cfg.ReindexEvery == 0 {
		p.index.Rebuild(batch, p.dec)
		p.logger.Info("price index rebuilt",
			"cycle", p.cycle,
			"items", p.index.Len(),
		)
	}

	added, ended := p.differ.Diff(batch)
	flips := p.detector.Detect(ctx, added)

	p.cycle++
	p.lastUpdated = first.LastUpdated

	p.logger.Info("poll cycle complete",
		"cycle", p.cycle,
		"listings", len(batch),
		"added", len(added),
		"ended", ended,
		"flips", flips,
		"duration", time.Since(start),
	)
	return nil
}

// fetchRemaining pulls pages 1..N-1 concurrently and returns all pages in
// feed order, page 0 included. A failed page degrades to empty so one bad
// page does not sink the whole cycle. Cancellation aborts the cycle after
// in-flight fetches have been joined; a partial snapshot is never returned.
func (p *Poller) fetchRemaining(ctx context.Context, first *api.AuctionsPage) ([][]api.Auction, error) {
	pages := make([][]api.Auction, first.TotalPages)
	if first.TotalPages > 0 {
		pages[0] = first.Auctions
	}

	sem := make(chan struct{}, p.cfg.Concurrency)
	var wg sync.WaitGroup
	var errors atomic.Int64

	for n := 1; n < first.TotalPages; n++ {
		// Stagger launches so the feed is not hammered all at once.
		if p.cfg.PageFetchDelay > 0 {
			select {
			case <-ctx.Done():
				wg.Wait()
				return nil, ctx.Err()
			case <-time.After(p.cfg.PageFetchDelay):
			}
		}

		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			page, err := p.client.GetAuctionsPage(ctx, n)
			if err != nil {
				p.logger.Warn("failed to fetch auctions page",
					"page", n,
					"err", err,
				)
				errors.Add(1)
				return
			}
			pages[n] = page.Auctions
		}(n)
	}

	wg.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if n := errors.Load(); n > 0 {
		p.logger.Warn("cycle completed with degraded pages", "failed", n)
	}
	return pages, nil
}
