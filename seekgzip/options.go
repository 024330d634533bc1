package seekgzip

import "github.com/nanoflate/nanoflate/deflate"

type config struct {
	checkpointSpacing int64
	cacheSegments     int
	deflateOpts       []deflate.Option
	progress          func(decompressedBytes int64)
}

func defaultConfig() config {
	return config{
		checkpointSpacing: defaultCheckpointSpacing,
		cacheSegments:     64,
	}
}

// Option configures a Reader's indexing and caching behavior, the same
// functional-options pattern deflate.Option and the teacher's
// NewReaderDict/NewReaderWithSpans constructors use.
type Option func(*config)

// WithCheckpointSpacing sets the minimum decompressed-byte gap Build
// leaves between kept checkpoints. Smaller values shrink the amount of
// work a ReadAt miss discards, at the cost of a larger persisted Index.
func WithCheckpointSpacing(bytes int64) Option {
	return func(c *config) { c.checkpointSpacing = bytes }
}

// WithCacheSegments bounds how many decoded segments the Reader's TinyLFU
// cache keeps resident at once. Values below 16 are raised to 16.
func WithCacheSegments(n int) Option {
	return func(c *config) { c.cacheSegments = n }
}

// WithDeflateOptions passes options straight through to every
// deflate.Decode/DecodeWithCheckpoints/Resume call this Reader makes
// (profile, table tuning, CRC32 checking).
func WithDeflateOptions(opts ...deflate.Option) Option {
	return func(c *config) { c.deflateOpts = append(c.deflateOpts, opts...) }
}

// WithProgress registers a callback Build invokes after every checkpoint
// (kept or not) with the number of decompressed bytes seen so far, for a
// caller driving a progress bar over the one-pass indexing scan.
func WithProgress(fn func(decompressedBytes int64)) Option {
	return func(c *config) { c.progress = fn }
}
