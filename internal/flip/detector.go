// Package flip decides which newly listed auctions are worth buying and
// emits an event for each one.
package flip

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/finnvos/skysniper/internal/item"
	"github.com/finnvos/skysniper/internal/model"
	"github.com/finnvos/skysniper/internal/notify"
	"github.com/finnvos/skysniper/internal/price"
	"github.com/finnvos/skysniper/internal/value"
)

// Config holds the buy-side thresholds.
type Config struct {
	// MinProfit is the minimum margin, in coins, between the asking price
	// and the estimated value.
	MinProfit float64
	// MaxPriceCap is the highest asking price considered at all. Zero
	// disables the cap.
	MaxPriceCap float64
}

// Detector evaluates fresh listings against the price index. It remembers
// every auction it has emitted for the life of the process so a listing is
// never announced twice.
type Detector struct {
	cfg       Config
	valueOpts value.Options
	dec       *item.Decoder
	index     *price.Index
	sink      notify.Sink
	notified  map[string]struct{}
	logger    *slog.Logger
}

// NewDetector creates a detector delivering flips to sink.
func NewDetector(cfg Config, valueOpts value.Options, dec *item.Decoder, index *price.Index, sink notify.Sink, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{
		cfg:       cfg,
		valueOpts: valueOpts,
		dec:       dec,
		index:     index,
		sink:      sink,
		notified:  make(map[string]struct{}),
		logger:    logger,
	}
}

// NotifiedCount returns how many distinct auctions have been emitted.
func (d *Detector) NotifiedCount() int {
	return len(d.notified)
}

// Detect walks the added listings in order and emits a flip event for each
// one priced strictly below its estimated value minus the minimum profit.
// Each event is handed to the sink before the next listing is examined.
// Returns the number of flips emitted.
func (d *Detector) Detect(ctx context.Context, added []model.Listing) int {
	flips := 0
	for _, lst := range added {
		if _, seen := d.notified[lst.UUID]; seen {
			continue
		}
		if d.cfg.MaxPriceCap > 0 && lst.Price > d.cfg.MaxPriceCap {
			continue
		}

		rec, err := d.dec.Decode(lst.ItemBytes)
		if err != nil {
			d.logger.Warn("skipping undecodable listing",
				"auction_id", lst.UUID,
				"err", err,
			)
			continue
		}

		name := item.CanonicalName(rec)
		estimated, addedValue, ok := value.Estimate(lst, rec, name, d.index, d.valueOpts)
		if !ok {
			continue
		}
		if !(lst.Price < estimated-d.cfg.MinProfit) {
			continue
		}

		d.notified[lst.UUID] = struct{}{}
		ev := model.FlipEvent{
			Name:       name,
			Price:      lst.Price,
			Value:      estimated,
			AddedValue: addedValue,
			AuctionID:  FormatAuctionID(lst.UUID),
			ImageURL:   item.ImageURL(rec),
			Listing:    lst,
		}
		d.logger.Info("flip detected",
			"item", ev.Name,
			"price", ev.Price,
			"value", ev.Value,
			"auction_id", ev.AuctionID,
		)
		if err := d.sink.Notify(ctx, ev); err != nil {
			d.logger.Warn("flip delivery failed",
				"auction_id", ev.AuctionID,
				"err", err,
			)
		}
		flips++
	}
	return flips
}

// FormatAuctionID converts the feed's bare 32-hex auction id into its dashed
// form. Ids that do not parse are returned unchanged.
func FormatAuctionID(id string) string {
	u, err := uuid.Parse(id)
	if err != nil {
		return id
	}
	return u.String()
}
