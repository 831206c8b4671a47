package gather

import (
	"context"

	"github.com/s-show/tripick/internal/item"
)

// Stream is the consumer's view of one gather run. Batches arrive in source
// priority order and must be drained; delivery blocks until the consumer
// keeps up or the stream is closed.
type Stream struct {
	batches chan []item.Item
	diags   chan Diagnostic
	cancel  context.CancelFunc
	err     error
}

func newStream(cancel context.CancelFunc) *Stream {
	return &Stream{
		batches: make(chan []item.Item),
		diags:   make(chan Diagnostic, 8),
		cancel:  cancel,
	}
}

// Batches returns the delivery channel. It closes when the run finishes,
// fails or is cancelled.
func (s *Stream) Batches() <-chan []item.Item {
	return s.batches
}

// Diagnostics returns non-fatal source failures. The channel closes
// together with Batches.
func (s *Stream) Diagnostics() <-chan Diagnostic {
	return s.diags
}

// Close stops the run. It is safe to call at any point and more than once;
// remaining batches are discarded by the producer side.
func (s *Stream) Close() {
	s.cancel()
}

// Err reports why the stream stopped. It must only be called after Batches
// is closed. A cancelled run returns nil.
func (s *Stream) Err() error {
	return s.err
}

// push hands a batch to the consumer, giving up when the run is cancelled.
func (s *Stream) push(ctx context.Context, batch []item.Item) error {
	select {
	case s.batches <- batch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// diagnose delivers a diagnostic without ever blocking item delivery; a
// consumer that does not drain diagnostics loses them.
func (s *Stream) diagnose(d Diagnostic) {
	select {
	case s.diags <- d:
	default:
	}
}
