// Package bitio implements the LSB-first bit reader shared by the deflate
// and huffman packages.
//
// It is deliberately not built around io.Reader: the byte source is a single
// capability callback (ByteSource), so a caller embedding this in firmware
// can feed it from a UART, a flash-mapped buffer, or anything else without
// satisfying the wider io package surface.
package bitio

// ByteSource returns the next byte of input. ok is false to signal end of
// input or a source-side failure; once ok is false the Reader built on top
// of it sticks in a failed state and every subsequent read reports failure.
type ByteSource interface {
	ReadByte() (b int, ok bool)
}

// Func adapts a plain function to a ByteSource.
type Func func() (int, bool)

func (f Func) ReadByte() (int, bool) { return f() }

// maxBufBits bounds how many bits Reader ever buffers at once. ReadBits
// accepts n up to 24; each fill step adds a whole byte, so the buffer never
// needs to hold more than 24+7 bits.
const maxBufBits = 31

// Reader pulls bytes from a ByteSource and exposes LSB-first bit reads, as
// required to decode a DEFLATE bitstream (RFC 1951 §3.1.1).
type Reader struct {
	src    ByteSource
	buf    uint32
	nbits  uint
	failed bool
}

// New returns a Reader drawing bytes from src.
func New(src ByteSource) *Reader {
	return &Reader{src: src}
}

// Failed reports whether the underlying source has already signalled
// end-of-input or error. Once true it stays true.
func (r *Reader) Failed() bool { return r.failed }

func (r *Reader) fill(n uint) bool {
	if r.failed {
		return false
	}
	for r.nbits < n {
		b, ok := r.src.ReadByte()
		if !ok || b < 0 || b > 255 {
			r.failed = true
			return false
		}
		r.buf |= uint32(b) << r.nbits
		r.nbits += 8
	}
	return true
}

// ReadBits reads n bits (0..24) LSB-first and assembles them into a u32,
// the low-order bit of the stream landing in the low-order bit of the
// result. It reports ok=false, with the reader latched in a failed state,
// if the source runs out before n bits are available.
func (r *Reader) ReadBits(n uint) (v uint32, ok bool) {
	if n == 0 {
		return 0, true
	}
	if n > maxBufBits-7 {
		panic("bitio: ReadBits: n out of range")
	}
	if !r.fill(n) {
		return 0, false
	}
	v = r.buf & (1<<n - 1)
	r.buf >>= n
	r.nbits -= n
	return v, true
}

// ReadByteAligned discards any pending bits up to the next byte boundary
// (RFC 1951 §3.2.4) and returns the next whole byte: one already buffered,
// if any, otherwise a fresh byte from the source.
func (r *Reader) ReadByteAligned() (b byte, ok bool) {
	if r.failed {
		return 0, false
	}
	r.Discard(r.nbits % 8)
	if r.nbits >= 8 {
		b = byte(r.buf)
		r.Discard(8)
		return b, true
	}
	n, src := r.src.ReadByte()
	if !src || n < 0 || n > 255 {
		r.failed = true
		return 0, false
	}
	return byte(n), true
}

// The methods below expose the raw bit buffer for huffman.Fast, whose table
// lookups index into a fixed-width window of the buffer before knowing how
// many of those bits are actually significant (the bits beyond Available
// are always structurally zero, never garbage, because Fill only ever ORs
// real source bits into the buffer at the position nbits already occupies).

// Fill ensures at least n bits are buffered, reading from the source as
// needed. It reports false, with the reader latched failed, if the source
// runs out first.
func (r *Reader) Fill(n uint) bool { return r.fill(n) }

// Available reports how many bits are currently buffered.
func (r *Reader) Available() uint { return r.nbits }

// PeekRaw returns the low n bits of the buffer without consuming them or
// requiring that all n be backed by real input; bits beyond Available are
// zero.
func (r *Reader) PeekRaw(n uint) uint32 { return r.buf & (1<<n - 1) }

// PeekRawAt returns n bits of the buffer starting at bit offset shift,
// again without consuming them.
func (r *Reader) PeekRawAt(shift, n uint) uint32 { return (r.buf >> shift) & (1<<n - 1) }

// Discard consumes n bits already known to be buffered (n <= Available()).
func (r *Reader) Discard(n uint) {
	r.buf >>= n
	r.nbits -= n
}

// Unget pushes n previously-read bits (as returned by ReadBits) back onto
// the front of the buffer, so the next read sees them again. Used by
// package deflate to peek at the gzip magic without committing to gzip
// framing, and to restore a checkpoint's pending bits onto a freshly
// constructed Reader when resuming mid-stream.
func (r *Reader) Unget(bits uint32, n uint) {
	r.buf = (r.buf << n) | (bits & (1<<n - 1))
	r.nbits += n
}

// Snapshot returns the raw pending-bit buffer and its length, the state
// package deflate's checkpointing needs to later reconstruct an identical
// Reader via Unget on a fresh instance.
func (r *Reader) Snapshot() (buf uint32, nbits uint) { return r.buf, r.nbits }
