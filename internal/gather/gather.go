// Package gather merges the picker's sources into one ordered, deduplicated,
// incrementally delivered item stream.
package gather

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/s-show/tripick/internal/item"
)

// Producer is one source of items. Every producer must also implement
// Collector or Streamer; the gatherer dispatches on which one it finds.
type Producer interface {
	Tag() item.Tag
}

// Collector is a source that returns its full result set in one call.
type Collector interface {
	Producer
	Collect(ctx context.Context) ([]item.Item, error)
}

// Streamer is a source that delivers its results incrementally through a
// sink. The sink owns every batch it receives.
type Streamer interface {
	Producer
	Stream(ctx context.Context, sink func([]item.Item) error) error
}

// Diagnostic reports a source that failed without stopping the run.
type Diagnostic struct {
	Source item.Tag
	Err    error
}

// Gatherer drives the producers in priority order. Producers listed first
// win deduplication conflicts and their items are delivered first.
type Gatherer struct {
	producers []Producer
	registry  *Registry
	log       *log.Logger
}

// New returns a gatherer over producers. The registry decides which items
// are delivered; pass a disabled registry to forward duplicates untouched.
func New(registry *Registry, logger *log.Logger, producers ...Producer) *Gatherer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Gatherer{
		producers: producers,
		registry:  registry,
		log:       logger,
	}
}

// Gather starts a run and returns its stream. The run owns the registry
// until the stream finishes. Closing the stream or cancelling ctx stops the
// run; a cancelled run is not an error.
func (g *Gatherer) Gather(ctx context.Context) *Stream {
	runCtx, cancel := context.WithCancel(ctx)
	s := newStream(cancel)

	go func() {
		defer cancel()
		defer close(s.diags)
		defer close(s.batches)

		err := g.run(runCtx, s)
		if err != nil && !isCancel(err) {
			g.log.Error("gather aborted", "err", err)
			s.err = err
			return
		}
		g.log.Debug("gather finished", "unique", g.registry.Len())
	}()

	return s
}

func (g *Gatherer) run(ctx context.Context, s *Stream) error {
	for _, p := range g.producers {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch src := p.(type) {
		case Collector:
			if err := g.collect(ctx, s, src); err != nil {
				return err
			}
		case Streamer:
			if err := src.Stream(ctx, func(batch []item.Item) error {
				kept := g.admit(batch)
				if len(kept) == 0 {
					// Nothing survived dedup; the consumer never
					// sees an empty batch.
					return nil
				}
				return s.push(ctx, kept)
			}); err != nil {
				return err
			}
		default:
			g.log.Error("source implements neither Collector nor Streamer", "source", p.Tag().String())
		}
	}
	return nil
}

// collect runs a one-shot source. Its failures are downgraded to
// diagnostics so one broken source never takes the run down.
func (g *Gatherer) collect(ctx context.Context, s *Stream, src Collector) error {
	items, err := src.Collect(ctx)
	if err != nil {
		if isCancel(err) && ctx.Err() != nil {
			return err
		}
		g.log.Warn("source failed", "source", src.Tag().String(), "err", err)
		s.diagnose(Diagnostic{Source: src.Tag(), Err: err})
		return nil
	}
	kept := g.admit(items)
	if len(kept) == 0 {
		return nil
	}
	return s.push(ctx, kept)
}

func (g *Gatherer) admit(items []item.Item) []item.Item {
	kept := make([]item.Item, 0, len(items))
	for _, it := range items {
		if it.Path != "" && !g.registry.Admit(it.Path) {
			continue
		}
		kept = append(kept, it)
	}
	return kept
}

func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
