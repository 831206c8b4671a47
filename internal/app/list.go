package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// RunList streams every delivered batch to w as plain paths, one per line,
// in delivery order. Each batch is flushed before the next is read, so a
// downstream pipe sees results while the walk is still running. Non-fatal
// source failures are logged and the run continues.
func (a *App) RunList(ctx context.Context, w io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stream := a.gatherer.Gather(ctx)
	defer stream.Close()

	out := bufio.NewWriter(w)
	batches := stream.Batches()
	diags := stream.Diagnostics()
	for batches != nil || diags != nil {
		select {
		case batch, ok := <-batches:
			if !ok {
				batches = nil
				continue
			}
			for _, it := range batch {
				if _, err := fmt.Fprintln(out, it.Path); err != nil {
					return err
				}
			}
			if err := out.Flush(); err != nil {
				return err
			}
		case diag, ok := <-diags:
			if !ok {
				diags = nil
				continue
			}
			a.log.Warn("source failed", "source", diag.Source.Label(), "err", diag.Err)
		}
	}
	return stream.Err()
}
