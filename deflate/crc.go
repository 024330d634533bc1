package deflate

import (
	"hash"
	"hash/crc32"

	"github.com/nanoflate/nanoflate/window"
)

// crcSink wraps an output Sink, accumulating an IEEE CRC32 over every byte
// that passes through, so Decode can verify it against the gzip trailer
// once the stream ends. This is the one place nanoflate reaches for the
// standard library over a third-party implementation: no CRC32 package
// appears anywhere in the retrieved corpus, and hash/crc32 is the
// allocation-free, bit-exact choice RFC 1952 calls for (see DESIGN.md).
type crcSink struct {
	inner window.Sink
	sum   hash.Hash32
	n     uint32
}

func newCRCSink(inner window.Sink) *crcSink {
	return &crcSink{inner: inner, sum: crc32.NewIEEE()}
}

func (s *crcSink) WriteByte(b byte) bool {
	s.sum.Write([]byte{b})
	s.n++
	return s.inner.WriteByte(b)
}
