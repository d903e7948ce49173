package notify

import (
	"context"
	"log/slog"

	"github.com/finnvos/skysniper/internal/model"
)

// Sink receives flip events as the detector emits them, one at a time, in
// batch order.
type Sink interface {
	Notify(ctx context.Context, ev model.FlipEvent) error
}

// SinkFunc is a function adapter for Sink.
type SinkFunc func(context.Context, model.FlipEvent) error

func (f SinkFunc) Notify(ctx context.Context, ev model.FlipEvent) error {
	return f(ctx, ev)
}

// Multi fans an event out to several sinks sequentially. A failing sink is
// logged and skipped; delivery to the rest continues.
type Multi struct {
	sinks  []Sink
	logger *slog.Logger
}

// NewMulti creates a Multi over the given sinks.
func NewMulti(logger *slog.Logger, sinks ...Sink) *Multi {
	if logger == nil {
		logger = slog.Default()
	}
	return &Multi{sinks: sinks, logger: logger}
}

func (m *Multi) Notify(ctx context.Context, ev model.FlipEvent) error {
	for _, s := range m.sinks {
		if err := s.Notify(ctx, ev); err != nil {
			m.logger.Warn("flip sink failed",
				"auction_id", ev.AuctionID,
				"err", err,
			)
		}
	}
	return nil
}
