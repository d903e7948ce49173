package price

import (
	"log/slog"
	"strings"
	"time"

	"github.com/finnvos/skysniper/internal/item"
	"github.com/finnvos/skysniper/internal/model"
)

// Entry is the collapsed price record for one canonical name.
type Entry struct {
	Lowest       float64 // minimum unit price over the last rebuild
	SecondLowest float64 // next-cheapest observation; equals Lowest when only one
	Count        int     // observations behind the entry; 0 for overrides
}

// Index maps canonical names to their lowest observed unit prices.
//
// Mutated only by the polling loop between Diff and Detect; all reads happen
// on the same goroutine, so the index carries no lock.
type Index struct {
	entries   map[string]Entry
	overrides map[string]float64
	logger    *slog.Logger
}

// NewIndex creates an empty index. Overrides are re-applied after every
// rebuild; they cover modifiers whose price the feed cannot reveal.
func NewIndex(overrides map[string]float64, logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.Default()
	}
	return &Index{
		entries:   make(map[string]Entry),
		overrides: overrides,
		logger:    logger,
	}
}

// Rebuild discards the index and repopulates it from the full batch. Listings
// that fail to decode are skipped. The result is a pure function of the batch
// and the configured overrides.
func (ix *Index) Rebuild(batch []model.Listing, dec *item.Decoder) {
	start := time.Now()

	// Two cheapest observations per name; a full sort buys nothing more.
	type lowPair struct {
		lowest, second float64
		count          int
	}
	observed := make(map[string]lowPair)

	skipped := 0
	for _, l := range batch {
		rec, err := dec.Decode(l.ItemBytes)
		if err != nil {
			skipped++
			ix.logger.Warn("skipping undecodable listing during reindex",
				"uuid", l.UUID,
				"err", err,
			)
			continue
		}
		if rec.Count < 1 {
			skipped++
			continue
		}
		unit := l.Price / float64(rec.Count)
		if unit <= 0 {
			skipped++
			continue
		}

		name := item.CanonicalName(rec)
		p, ok := observed[name]
		if !ok {
			observed[name] = lowPair{lowest: unit, second: unit, count: 1}
			continue
		}
		p.count++
		switch {
		case unit < p.lowest:
			p.second = p.lowest
			p.lowest = unit
		case unit < p.second || p.count == 2:
			p.second = unit
		}
		observed[name] = p
	}

	entries := make(map[string]Entry, len(observed))
	for name, p := range observed {
		entries[name] = Entry{Lowest: p.lowest, SecondLowest: p.second, Count: p.count}
	}
	for name, price := range ix.overrides {
		entries[name] = Entry{Lowest: price, SecondLowest: price}
	}
	ix.entries = entries

	ix.logger.Info("market price reindex complete",
		"names", len(ix.entries),
		"listings", len(batch),
		"skipped", skipped,
		"duration", time.Since(start),
	)
}

// Lowest returns the minimum unit price recorded for name.
func (ix *Index) Lowest(name string) (float64, bool) {
	e, ok := ix.entries[name]
	if !ok {
		return 0, false
	}
	return e.Lowest, true
}

// SecondLowest returns the next-cheapest unit price for name, 0 when the
// name is absent.
func (ix *Index) SecondLowest(name string) float64 {
	return ix.entries[name].SecondLowest
}

// BaseValue returns the lowest unit price for name, 0 when absent. The zero
// on miss is deliberate: an unindexed item contributes no base value.
func (ix *Index) BaseValue(name string) float64 {
	return ix.entries[name].Lowest
}

// ModifierPrice looks up a modifier identity (upper-cased) in the index,
// returning 0 on miss.
func (ix *Index) ModifierPrice(name string) float64 {
	return ix.entries[strings.ToUpper(name)].Lowest
}

// Len returns the number of indexed names.
func (ix *Index) Len() int {
	return len(ix.entries)
}
