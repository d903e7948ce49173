// Package snapshot turns the feed's periodic full listing dump into an
// incremental newly-added stream by diffing against the previous cycle's
// active set.
package snapshot

import (
	"log/slog"

	"github.com/finnvos/skysniper/internal/model"
)

// Differ retains the previous cycle's active listing set, keyed by auction
// uuid. Owned and mutated only by the polling loop.
type Differ struct {
	previous map[string]model.Listing
	logger   *slog.Logger
}

// NewDiffer creates a Differ with no retained state; the first Diff reports
// every listing as added.
func NewDiffer(logger *slog.Logger) *Differ {
	if logger == nil {
		logger = slog.Default()
	}
	return &Differ{logger: logger}
}

// Primed reports whether a previous active set exists. The feed-unchanged
// fast path is only valid once it does.
func (d *Differ) Primed() bool {
	return d.previous != nil
}

// Diff returns the listings in batch that were absent last cycle, in batch
// order, plus the count of listings that ended since. The retained set is
// replaced afterwards, exactly once.
func (d *Differ) Diff(batch []model.Listing) (added []model.Listing, ended int) {
	fresh := make(map[string]model.Listing, len(batch))
	for _, l := range batch {
		if _, dup := fresh[l.UUID]; dup {
			continue
		}
		fresh[l.UUID] = l
		if _, seen := d.previous[l.UUID]; !seen {
			added = append(added, l)
		}
	}

	for uuid := range d.previous {
		if _, still := fresh[uuid]; !still {
			ended++
		}
	}

	d.previous = fresh
	return added, ended
}

// Size returns the number of retained active listings.
func (d *Differ) Size() int {
	return len(d.previous)
}
