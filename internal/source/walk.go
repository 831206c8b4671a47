package source

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"github.com/s-show/tripick/internal/item"
	"github.com/s-show/tripick/internal/walk"
)

// Walk streams the recursive filesystem enumeration. Directory reads are
// pipelined with item conversion and delivery so disk latency and a slow
// consumer overlap.
type Walk struct {
	walker *walk.Walker
	chunk  int
	tags   bool
}

// NewWalk returns the walk source. chunkSize is the base emission size
// handed to the consumer; the walker's own batch granularity is configured
// on the walker itself.
func NewWalk(w *walk.Walker, chunkSize int, showTags bool) *Walk {
	return &Walk{walker: w, chunk: chunkSize, tags: showTags}
}

// Tag implements gather.Producer.
func (s *Walk) Tag() item.Tag {
	return item.TagWalk
}

// Stream implements gather.Streamer.
func (s *Walk) Stream(ctx context.Context, sink func([]item.Item) error) error {
	entries := make(chan []walk.Entry, 1)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(entries)
		ch := walk.NewChunker(s.chunk, func(batch []walk.Entry) error {
			select {
			case entries <- batch:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
		if err := s.walker.Walk(gctx, ch.Add); err != nil {
			return err
		}
		if gctx.Err() != nil {
			// Leftovers are dropped once the run is cancelled.
			return nil
		}
		return ch.Flush()
	})

	g.Go(func() error {
		for batch := range entries {
			if err := sink(s.items(batch)); err != nil {
				return err
			}
		}
		return nil
	})

	return g.Wait()
}

func (s *Walk) items(entries []walk.Entry) []item.Item {
	out := make([]item.Item, 0, len(entries))
	for _, e := range entries {
		it := item.Item{
			Display: norm.NFC.String(e.Rel),
			Tag:     item.TagWalk,
			Path:    e.Path,
			IsLink:  e.IsLink,
		}
		if s.tags {
			it.Display, it.Highlight = item.Labeled(item.TagWalk, it.Display)
		}
		out = append(out, it)
	}
	return out
}
