// Package seekgzip provides indexed, random-access reading of a gzip
// stream: one forward pass records deflate.Checkpoints at block
// boundaries, and later ReadAt calls resume decoding from the nearest
// checkpoint instead of restarting at the beginning of the stream.
//
// Grounded on the teacher's gsip.Reader, adapted from a pull-based
// compress/flate fork with its own Checkpoint/Continue machinery to this
// module's callback-shaped deflate engine and its own
// deflate.DecodeWithCheckpoints/deflate.Resume pair.
package seekgzip

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/nanoflate/nanoflate/deflate"
)

// defaultCheckpointSpacing bounds how often Build keeps a checkpoint, in
// decompressed output bytes. Closer spacing trades a larger Index for
// less work discarded per ReadAt miss.
const defaultCheckpointSpacing = 1 << 20 // 1 MiB

// Reader is a random-access io.ReaderAt over a gzip stream, backed by an
// io.ReaderAt over the compressed bytes (a local file, or package ranger's
// HTTP range reader) and a sparse table of deflate.Checkpoints.
type Reader struct {
	ra   io.ReaderAt
	size int64 // compressed length, or -1 if unknown (read to EOF)

	cfg config

	mu          sync.RWMutex
	checkpoints []deflate.Checkpoint
	totalSize   int64 // decompressed length; 0 until known

	cache *segmentCache
}

func newReader(ra io.ReaderAt, size int64, opts ...Option) *Reader {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Reader{
		ra:    ra,
		size:  size,
		cfg:   cfg,
		cache: newSegmentCache(cfg.cacheSegments),
	}
}

// Build runs the one forward indexing pass over ra (size bytes of
// gzip-compressed data) and returns a Reader ready to serve ReadAt calls.
// The pass decodes the whole stream once, always keeping the very first
// block boundary as a checkpoint and every later one that is at least
// WithCheckpointSpacing decompressed bytes past the last one kept. Size()
// reflects the true decompressed length as soon as Build returns, even
// though the final block boundary itself is only kept as a checkpoint
// when it happens to fall on a spacing boundary.
func Build(ra io.ReaderAt, size int64, opts ...Option) (*Reader, error) {
	r := newReader(ra, size, opts...)

	src := newReaderAtSource(ra, 0, size)
	var lastKept uint32
	var keptAny bool
	var result deflate.Result
	var derr *deflate.Error
	result, derr = deflate.DecodeWithCheckpoints(deflate.Callbacks{
		Input:  src,
		Output: discardSink{},
	}, func(cp deflate.Checkpoint) {
		if !keptAny || cp.OutputBytesEmitted-lastKept >= uint32(r.cfg.checkpointSpacing) {
			r.checkpoints = append(r.checkpoints, cp)
			lastKept = cp.OutputBytesEmitted
			keptAny = true
		}
		r.totalSize = int64(cp.OutputBytesEmitted)
		if r.cfg.progress != nil {
			r.cfg.progress(r.totalSize)
		}
	}, r.cfg.deflateOpts...)
	if derr != nil {
		return nil, fmt.Errorf("seekgzip: building index: %w (result %v)", derr, result)
	}

	slog.Info("seekgzip: built index", "checkpoints", len(r.checkpoints), "total_size", r.totalSize)
	return r, nil
}

// discardSink is the Output used while indexing: Build only needs the
// side effect of onCheckpoint firing, never the decoded bytes themselves.
type discardSink struct{}

func (discardSink) WriteByte(b byte) bool { return false }

// Size reports the decompressed length of the stream, once known (after
// Build or Decode has run). It is 0 if the index has no checkpoints yet.
func (r *Reader) Size() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.totalSize
}

// checkpointFor returns the index into r.checkpoints of the latest
// checkpoint at or before off, or -1 if off precedes every checkpoint
// (including when there are none at all).
func (r *Reader) checkpointFor(off int64) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := sort.Search(len(r.checkpoints), func(i int) bool {
		return int64(r.checkpoints[i].OutputBytesEmitted) > off
	})
	return i - 1
}

// segmentBounds returns the [start, end) decompressed-byte span the
// segment at checkpoint index idx covers; end is -1 if the segment runs
// to the (possibly still unknown) end of the stream.
func (r *Reader) segmentBounds(idx int) (start, end int64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if idx < 0 {
		start = 0
	} else {
		start = int64(r.checkpoints[idx].OutputBytesEmitted)
	}
	if idx+1 < len(r.checkpoints) {
		end = int64(r.checkpoints[idx+1].OutputBytesEmitted)
	} else {
		end = -1
	}
	return start, end
}

// decodeSegment decodes the full span segmentBounds(idx) describes,
// resuming from checkpoint idx (or decoding from the very start of the
// gzip stream, header included, when idx is -1).
func (r *Reader) decodeSegment(idx int) ([]byte, error) {
	start, end := r.segmentBounds(idx)
	sink := &collectingSink{pos: start, collectFrom: start, limit: end}

	var derr *deflate.Error
	if idx < 0 {
		src := newReaderAtSource(r.ra, 0, r.size)
		_, derr = deflate.Decode(deflate.Callbacks{Input: src, Output: sink}, r.cfg.deflateOpts...)
	} else {
		r.mu.RLock()
		cp := r.checkpoints[idx]
		r.mu.RUnlock()
		src := newReaderAtSource(r.ra, cp.InputBytesConsumed, r.size)
		_, derr = deflate.Resume(deflate.Callbacks{Input: src, Output: sink}, cp, r.cfg.deflateOpts...)
	}

	// sink.WriteByte aborts (Kind OutputRejected) the instant it has
	// collected a bounded segment's worth of bytes; that's success, not
	// failure, from the segment decoder's point of view.
	if derr != nil && !(derr.Kind == deflate.OutputRejected && end >= 0 && sink.pos >= end) {
		return nil, fmt.Errorf("seekgzip: decoding segment %d: %w", idx, derr)
	}
	if end < 0 {
		r.mu.Lock()
		if sink.pos > r.totalSize {
			r.totalSize = sink.pos
		}
		r.mu.Unlock()
	}
	return sink.buf, nil
}

// segment returns the fully decoded bytes of the segment at checkpoint
// index idx, decoding and caching it on first use.
func (r *Reader) segment(idx int) ([]byte, error) {
	if buf, ok := r.cache.get(idx); ok {
		return buf, nil
	}
	buf, err := r.decodeSegment(idx)
	if err != nil {
		return nil, err
	}
	r.cache.put(idx, buf)
	return buf, nil
}

// ReadAt implements io.ReaderAt: it locates the segment containing off,
// decoding (and caching) it if necessary, copies out of it, and continues
// into each following segment until p is full or the stream ends.
func (r *Reader) ReadAt(p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if off < 0 {
		return 0, fmt.Errorf("seekgzip: negative offset %d", off)
	}

	n := 0
	for n < len(p) {
		cur := off + int64(n)
		if size := r.Size(); size > 0 && cur >= size {
			return n, io.EOF
		}
		idx := r.checkpointFor(cur)
		buf, err := r.segment(idx)
		if err != nil {
			return n, err
		}

		start, _ := r.segmentBounds(idx)
		rel := cur - start
		if rel < 0 || rel > int64(len(buf)) {
			return n, fmt.Errorf("seekgzip: offset %d outside decoded segment", cur)
		}
		m := copy(p[n:], buf[rel:])
		if m == 0 {
			return n, io.EOF
		}
		n += m
	}
	return n, nil
}

// collectingSink accumulates decoded bytes from position collectFrom up
// to (but not including) limit, and requests an abort once limit is
// reached. limit < 0 means decode to the natural end of stream.
type collectingSink struct {
	pos         int64
	collectFrom int64
	limit       int64
	buf         []byte
}

func (s *collectingSink) WriteByte(b byte) bool {
	if s.limit >= 0 && s.pos >= s.limit {
		return true
	}
	if s.pos >= s.collectFrom {
		s.buf = append(s.buf, b)
	}
	s.pos++
	return s.limit >= 0 && s.pos >= s.limit
}
