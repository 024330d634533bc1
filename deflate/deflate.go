// Package deflate implements the DEFLATE (RFC 1951) block state machine and
// gzip (RFC 1952) outer framing: the BlockEngine that drives a bitio.Reader,
// a pair of huffman.Decoders per block, and a window.Window into a stream of
// output bytes.
//
// Decode is the main entry point; DecodeWithCheckpoints and Resume
// (checkpoint.go) add block-boundary checkpointing on top of the same
// engine. Each call is single-threaded, allocates only the window, the
// Huffman tables and the code-length scratch it builds while decoding (the
// latter two once per dynamic block), and holds no state beyond the call.
package deflate

import (
	"github.com/nanoflate/nanoflate/bitio"
	"github.com/nanoflate/nanoflate/huffman"
	"github.com/nanoflate/nanoflate/window"
)

// gzipMagic is RFC 1952's 2-byte header magic, assembled the way
// bitio.Reader.ReadBits(16) assembles a little-endian pair: the first
// stream byte (0x1F) in the low 8 bits, the second (0x8B) in the high 8.
const gzipMagic = 0x1F | 0x8B<<8

const (
	flagFTEXT    = 1 << 0
	flagFHCRC    = 1 << 1
	flagFEXTRA   = 1 << 2
	flagFNAME    = 1 << 3
	flagFCOMMENT = 1 << 4
)

// Callbacks supplies the four capability slots spec.md §6 describes: an
// input byte source, an output sink, and, optionally, a caller-owned
// Window. When Window is nil, Decode drives its own internal 32 KiB
// window.Ring over Output. When Window is set, Output is not used by the
// core at all — the usual reason to set Window is that it already fuses
// output and history over a caller-owned buffer (window.External,
// window.BoundedTarget).
type Callbacks struct {
	Input  bitio.ByteSource
	Output window.Sink
	Window window.Window
}

// Decode runs the BlockEngine to completion: it recognizes an optional
// gzip wrapper, then decodes DEFLATE blocks until BFINAL, emitting bytes
// through cb.Window (or an internal Ring over cb.Output). It returns both
// the legacy four-way Result and, on failure, a structured Error
// classifying why.
func Decode(cb Callbacks, opts ...Option) (Result, *Error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cb.Input == nil {
		err := errInput("no input callback supplied")
		return err.Result(), err
	}
	if cb.Output == nil && cb.Window == nil {
		err := &Error{Kind: OutputRejected, Msg: "no output sink or window supplied"}
		return err.Result(), err
	}

	var crc *crcSink
	win := cb.Window
	if win == nil {
		output := cb.Output
		if cfg.checkCRC32 {
			crc = newCRCSink(output)
			output = crc
		}
		win = window.NewRing(output)
	}

	e := &engine{
		r:       bitio.New(cb.Input),
		win:     win,
		profile: cfg.profile,
		tuning:  cfg.tuning,
	}

	if err := e.decodeStream(); err != nil {
		return err.Result(), err
	}

	if crc != nil && e.gzip {
		want, isize, ok := e.readTrailer()
		if !ok {
			err := errInput("truncated gzip trailer")
			return err.Result(), err
		}
		if crc.sum.Sum32() != want {
			err := &Error{Kind: ChecksumMismatch, Msg: "gzip CRC32 mismatch"}
			return err.Result(), err
		}
		if crc.n != isize {
			err := &Error{Kind: ChecksumMismatch, Msg: "gzip ISIZE mismatch"}
			return err.Result(), err
		}
	}
	return ResultOK, nil
}

// engine is the per-call state: everything here lives on the stack of the
// Decode call that created it (spec.md §3's "no entity outlives the call").
type engine struct {
	r       *bitio.Reader
	win     window.Window
	profile Profile
	tuning  huffman.Tuning
	gzip    bool

	// fixedLit/fixedDist are built at most once per call and reused
	// across every BTYPE=01 block in the stream.
	fixedLit  huffman.Decoder
	fixedDist huffman.Decoder

	// onBlock, if set, runs after every successfully decoded block (raw
	// DEFLATE framing only — never mid-header). checkpoint.go is the only
	// caller; everyone else leaves it nil.
	onBlock func()
}

func (e *engine) decodeStream() *Error {
	if err := e.detectFraming(); err != nil {
		return err
	}
	return e.blockLoop()
}

// blockLoop decodes DEFLATE blocks until BFINAL. It is also the entry point
// Resume uses to continue a stream whose gzip/raw framing was already
// consumed by an earlier pass.
func (e *engine) blockLoop() *Error {
	for {
		final, ok := e.r.ReadBits(1)
		if !ok {
			return errInput("truncated block header")
		}
		btype, ok := e.r.ReadBits(2)
		if !ok {
			return errInput("truncated block header")
		}
		var err *Error
		switch btype {
		case 0:
			err = e.storedBlock()
		case 1:
			err = e.fixedBlock()
		case 2:
			err = e.dynamicBlock()
		default:
			err = errMalformed("reserved BTYPE 11")
		}
		if err != nil {
			return err
		}
		if e.onBlock != nil {
			e.onBlock()
		}
		if final == 1 {
			return nil
		}
	}
}

// detectFraming peeks the first two stream bytes; if they match the gzip
// magic it consumes the rest of the gzip header, otherwise it pushes the
// two bytes back so the block loop reads them as the first bits of a raw
// DEFLATE stream, per spec.md §4.4.
func (e *engine) detectFraming() *Error {
	magic, ok := e.r.ReadBits(16)
	if !ok {
		return errInput("empty input")
	}
	if magic != gzipMagic {
		e.r.Unget(magic, 16)
		return nil
	}
	e.gzip = true
	return e.consumeGzipHeader()
}

func (e *engine) consumeGzipHeader() *Error {
	method, ok := e.r.ReadBits(8)
	if !ok {
		return errInput("truncated gzip header")
	}
	if method != 8 {
		return errMalformed("gzip compression method is not DEFLATE")
	}
	flags, ok := e.r.ReadBits(8)
	if !ok {
		return errInput("truncated gzip header")
	}
	for i := 0; i < 6; i++ { // MTIME(4) XFL(1) OS(1)
		if _, ok := e.r.ReadBits(8); !ok {
			return errInput("truncated gzip header")
		}
	}
	if flags&flagFEXTRA != 0 {
		xlen, ok := e.r.ReadBits(16)
		if !ok {
			return errInput("truncated gzip FEXTRA length")
		}
		for i := uint32(0); i < xlen; i++ {
			if _, ok := e.r.ReadBits(8); !ok {
				return errInput("truncated gzip FEXTRA field")
			}
		}
	}
	if flags&flagFNAME != 0 {
		if err := e.skipZeroTerminated(); err != nil {
			return err
		}
	}
	if flags&flagFCOMMENT != 0 {
		if err := e.skipZeroTerminated(); err != nil {
			return err
		}
	}
	if flags&flagFHCRC != 0 {
		if _, ok := e.r.ReadBits(16); !ok {
			return errInput("truncated gzip FHCRC field")
		}
	}
	return nil
}

func (e *engine) skipZeroTerminated() *Error {
	for {
		b, ok := e.r.ReadBits(8)
		if !ok {
			return errInput("truncated gzip string field")
		}
		if b == 0 {
			return nil
		}
	}
}

func (e *engine) storedBlock() *Error {
	b0, ok := e.r.ReadByteAligned()
	if !ok {
		return errInput("truncated stored-block length")
	}
	rest := [3]byte{}
	for i := range rest {
		v, ok := e.r.ReadBits(8)
		if !ok {
			return errInput("truncated stored-block length")
		}
		rest[i] = byte(v)
	}
	length := uint32(b0) | uint32(rest[0])<<8
	nlength := uint32(rest[1]) | uint32(rest[2])<<8
	if e.profile == Safe && length != nlength^0xFFFF {
		return errMalformed("stored-block LEN/NLEN mismatch")
	}
	for i := uint32(0); i < length; i++ {
		v, ok := e.r.ReadBits(8)
		if !ok {
			return errInput("truncated stored-block data")
		}
		if err := e.emit(byte(v)); err != nil {
			return err
		}
	}
	return nil
}

func (e *engine) fixedBlock() *Error {
	if e.fixedLit == nil {
		lit, err := huffman.New(e.tuning, fixedLitLengths[:])
		if err != nil {
			return errMalformed("fixed literal/length table: " + err.Error())
		}
		dist, err := huffman.New(e.tuning, fixedDistLengths[:])
		if err != nil {
			return errMalformed("fixed distance table: " + err.Error())
		}
		e.fixedLit, e.fixedDist = lit, dist
	}
	return e.decodeSymbols(e.fixedLit, e.fixedDist)
}

func (e *engine) dynamicBlock() *Error {
	hlit, ok := e.r.ReadBits(5)
	if !ok {
		return errInput("truncated dynamic-block header")
	}
	hdist, ok := e.r.ReadBits(5)
	if !ok {
		return errInput("truncated dynamic-block header")
	}
	hclen, ok := e.r.ReadBits(4)
	if !ok {
		return errInput("truncated dynamic-block header")
	}
	hlit += 257
	hdist += 1
	hclen += 4

	var clLengths [19]int
	for i := uint32(0); i < hclen; i++ {
		v, ok := e.r.ReadBits(3)
		if !ok {
			return errInput("truncated code-length table")
		}
		clLengths[codeLengthOrder[i]] = int(v)
	}
	clDecoder, err := huffman.New(e.tuning, clLengths[:])
	if err != nil {
		return errMalformed("code-length table: " + err.Error())
	}

	lengths := make([]int, hlit+hdist)
	for i := 0; i < len(lengths); {
		sym, ok := clDecoder.Decode(e.r)
		if !ok {
			return errMalformed("truncated or invalid code-length symbol")
		}
		switch {
		case sym <= 15:
			lengths[i] = sym
			i++
		case sym == 16:
			if i == 0 {
				return errMalformed("repeat code 16 with no previous length")
			}
			n, ok := e.r.ReadBits(2)
			if !ok {
				return errInput("truncated repeat count")
			}
			count := int(n) + 3
			if i+count > len(lengths) {
				return errMalformed("repeat code 16 overruns code-length table")
			}
			prev := lengths[i-1]
			for j := 0; j < count; j++ {
				lengths[i] = prev
				i++
			}
		case sym == 17:
			n, ok := e.r.ReadBits(3)
			if !ok {
				return errInput("truncated repeat count")
			}
			count := int(n) + 3
			if i+count > len(lengths) {
				return errMalformed("repeat code 17 overruns code-length table")
			}
			i += count
		case sym == 18:
			n, ok := e.r.ReadBits(7)
			if !ok {
				return errInput("truncated repeat count")
			}
			count := int(n) + 11
			if i+count > len(lengths) {
				return errMalformed("repeat code 18 overruns code-length table")
			}
			i += count
		default:
			return errMalformed("invalid code-length symbol")
		}
	}

	lit, err := huffman.New(e.tuning, lengths[:hlit])
	if err != nil {
		return errMalformed("literal/length table: " + err.Error())
	}
	dist, err := huffman.New(e.tuning, lengths[hlit:])
	if err != nil {
		return errMalformed("distance table: " + err.Error())
	}
	return e.decodeSymbols(lit, dist)
}

func (e *engine) decodeSymbols(lit, dist huffman.Decoder) *Error {
	for {
		sym, ok := lit.Decode(e.r)
		if !ok {
			return errMalformed("invalid literal/length symbol")
		}
		switch {
		case sym < 256:
			if err := e.emit(byte(sym)); err != nil {
				return err
			}
		case sym == 256:
			return nil
		case sym <= 285:
			length, err := e.readExtra(lengthTable[sym-257])
			if err != nil {
				return err
			}
			distSym, ok := dist.Decode(e.r)
			if !ok {
				return errMalformed("invalid distance symbol")
			}
			if distSym > 29 {
				return errMalformed("reserved distance symbol")
			}
			distance, err := e.readExtra(distanceTable[distSym])
			if err != nil {
				return err
			}
			if err := e.copy(distance, length); err != nil {
				return err
			}
		default:
			return errMalformed("invalid literal/length symbol")
		}
	}
}

func (e *engine) readExtra(entry lengthEntry) (uint32, *Error) {
	if entry.extra == 0 {
		return entry.base, nil
	}
	bits, ok := e.r.ReadBits(entry.extra)
	if !ok {
		return 0, errInput("truncated length/distance extra bits")
	}
	return entry.base + bits, nil
}

func (e *engine) readTrailer() (crc32 uint32, isize uint32, ok bool) {
	b0, ok := e.r.ReadByteAligned()
	if !ok {
		return 0, 0, false
	}
	var rest [7]byte
	for i := range rest {
		v, ok := e.r.ReadBits(8)
		if !ok {
			return 0, 0, false
		}
		rest[i] = byte(v)
	}
	crc32 = uint32(b0) | uint32(rest[0])<<8 | uint32(rest[1])<<16 | uint32(rest[2])<<24
	isize = uint32(rest[3]) | uint32(rest[4])<<8 | uint32(rest[5])<<16 | uint32(rest[6])<<24
	return crc32, isize, true
}

func (e *engine) emit(b byte) *Error {
	abort, ok := e.win.Emit(b)
	if !ok {
		return e.classifyWindowFailure()
	}
	if abort {
		return errOutputAbort()
	}
	return nil
}

func (e *engine) copy(distance, length uint32) *Error {
	abort, ok := e.win.Copy(distance, length)
	if !ok {
		return e.classifyWindowFailure()
	}
	if abort {
		return errOutputAbort()
	}
	return nil
}

// classifyWindowFailure maps a Window's ok=false back to the result code
// spec.md §6 says it should produce, without the engine ever needing to
// know the concrete Window type: window.Ring reports BitstreamFault (its
// only failure mode is an out-of-range back-reference distance),
// window.External/BoundedTarget report TargetFull once their buffer is
// full and BitstreamFault for an out-of-range distance, and anything else
// defaults to a generic callback rejection (spec.md's "window_copy
// callback failure" row).
func (e *engine) classifyWindowFailure() *Error {
	if fc, ok := e.win.(window.FailureClassifier); ok {
		switch fc.ClassifyFailure() {
		case window.BitstreamFault:
			return errMalformed("back-reference distance out of range")
		case window.TargetFull:
			return errTargetOverflow()
		}
	}
	return errWindowRejected()
}
