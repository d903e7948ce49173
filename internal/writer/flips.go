package writer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finnvos/skysniper/internal/model"
	"github.com/finnvos/skysniper/internal/notify"
)

// WriterConfig holds batching parameters.
type WriterConfig struct {
	BatchSize     int
	FlushInterval time.Duration
}

// DefaultWriterConfig returns the stock batching parameters.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		BatchSize:     100,
		FlushInterval: 5 * time.Second,
	}
}

// WriterMetrics counts writer activity.
type WriterMetrics struct {
	Inserts   int64
	Conflicts int64
	Flushes   int64
	Errors    int64
}

// flipRow is the database form of a flip event.
type flipRow struct {
	AuctionUUID string
	ItemName    string
	Price       float64
	Value       float64
	AddedValue  float64
	DetectedAt  int64
	EndsAt      int64
}

// FlipWriter consumes flip events from the notify buffer and writes them to
// the flips table.
type FlipWriter struct {
	cfg    WriterConfig
	logger *slog.Logger

	input *notify.GrowableBuffer[model.FlipEvent]
	db    *pgxpool.Pool

	batch       []flipRow
	batchMu     sync.Mutex
	flushTicker *time.Ticker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	metrics WriterMetrics
}

// NewFlipWriter creates a new FlipWriter.
func NewFlipWriter(
	cfg WriterConfig,
	input *notify.GrowableBuffer[model.FlipEvent],
	db *pgxpool.Pool,
	logger *slog.Logger,
) *FlipWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &FlipWriter{
		cfg:    cfg,
		input:  input,
		db:     db,
		logger: logger,
		batch:  make([]flipRow, 0, cfg.BatchSize),
	}
}

// Start begins consuming events and writing to the database.
func (w *FlipWriter) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.flushTicker = time.NewTicker(w.cfg.FlushInterval)

	w.wg.Add(1)
	go w.consumeLoop()

	w.wg.Add(1)
	go w.flushLoop()

	w.logger.Info("flip writer started",
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
	)
	return nil
}

// Stop gracefully shuts down the writer.
func (w *FlipWriter) Stop(ctx context.Context) error {
	w.logger.Info("stopping flip writer")

	if w.cancel != nil {
		w.cancel()
	}

	if w.flushTicker != nil {
		w.flushTicker.Stop()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("flip writer stopped")
	case <-ctx.Done():
		w.logger.Warn("flip writer stop timed out")
	}

	// Final flush
	w.flush()

	return nil
}

// Stats returns current metrics.
func (w *FlipWriter) Stats() WriterMetrics {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	return w.metrics
}

// consumeLoop reads from the input buffer and accumulates batches.
func (w *FlipWriter) consumeLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		default:
			ev, ok := w.input.TryReceive()
			if !ok {
				// Buffer empty, wait a bit before trying again
				select {
				case <-w.ctx.Done():
					return
				case <-time.After(10 * time.Millisecond):
					continue
				}
			}

			w.handleEvent(ev)
		}
	}
}

// flushLoop periodically flushes the batch.
func (w *FlipWriter) flushLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.flushTicker.C:
			w.flush()
		}
	}
}

// handleEvent transforms and adds an event to the batch.
func (w *FlipWriter) handleEvent(ev model.FlipEvent) {
	row := w.transform(ev)

	w.batchMu.Lock()
	w.batch = append(w.batch, row)
	shouldFlush := len(w.batch) >= w.cfg.BatchSize
	w.batchMu.Unlock()

	if shouldFlush {
		w.flush()
	}
}

// transform converts a FlipEvent to a flipRow.
func (w *FlipWriter) transform(ev model.FlipEvent) flipRow {
	return flipRow{
		AuctionUUID: ev.AuctionID,
		ItemName:    ev.Name,
		Price:       ev.Price,
		Value:       ev.Value,
		AddedValue:  ev.AddedValue,
		DetectedAt:  time.Now().UnixMilli(),
		EndsAt:      ev.Listing.End,
	}
}

// flush writes the current batch to the database.
func (w *FlipWriter) flush() {
	w.batchMu.Lock()
	if len(w.batch) == 0 {
		w.batchMu.Unlock()
		return
	}

	// Take ownership of current batch
	batch := w.batch
	w.batch = make([]flipRow, 0, w.cfg.BatchSize)
	w.batchMu.Unlock()

	start := time.Now()

	conflicts, err := w.batchInsert(batch)
	if err != nil {
		w.logger.Error("batch insert failed", "error", err, "count", len(batch))
		w.batchMu.Lock()
		w.metrics.Errors++
		w.batchMu.Unlock()
		return
	}

	w.batchMu.Lock()
	w.metrics.Inserts += int64(len(batch) - conflicts)
	w.metrics.Conflicts += int64(conflicts)
	w.metrics.Flushes++
	w.batchMu.Unlock()

	w.logger.Debug("flushed flips",
		"count", len(batch),
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
}

// batchInsert inserts rows using pgx.Batch with ON CONFLICT DO NOTHING.
func (w *FlipWriter) batchInsert(rows []flipRow) (conflicts int, err error) {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO flips (auction_uuid, item_name, price, value, added_value, detected_at, ends_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (auction_uuid) DO NOTHING
		`, r.AuctionUUID, r.ItemName, r.Price, r.Value, r.AddedValue, r.DetectedAt, r.EndsAt)
	}

	results := w.db.SendBatch(w.ctx, batch)
	defer results.Close()

	for range rows {
		ct, err := results.Exec()
		if err != nil {
			return 0, err
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	return conflicts, nil
}
