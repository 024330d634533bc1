package seekgzip

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Range is a half-open byte span of decompressed output, [Start, End).
type Range struct {
	Start, End int64
}

// PrefetchRanges warms the segment cache for every given Range concurrently.
// This is the one place concurrency is legitimate against a gzip stream:
// decoding a single stream top-to-bottom must stay sequential (each block
// depends on the previous block's bit position and window), but once an
// Index exists, resuming from two different checkpoints to serve two
// different ranges has no such dependency, and io.ReaderAt (package
// ranger's HTTP range reader especially) is meant to serve concurrent
// requests.
func (r *Reader) PrefetchRanges(ctx context.Context, ranges []Range) error {
	g, _ := errgroup.WithContext(ctx)
	for _, rg := range ranges {
		rg := rg
		g.Go(func() error {
			idx := r.checkpointFor(rg.Start)
			for {
				if _, err := r.segment(idx); err != nil {
					return err
				}
				start, end := r.segmentBounds(idx)
				if end < 0 || end >= rg.End {
					return nil
				}
				_ = start
				idx++
				r.mu.RLock()
				n := len(r.checkpoints)
				r.mu.RUnlock()
				if idx >= n {
					return nil
				}
			}
		})
	}
	return g.Wait()
}
