package deflate

import (
	"github.com/nanoflate/nanoflate/bitio"
	"github.com/nanoflate/nanoflate/window"
)

// Checkpoint captures enough engine state, taken at a DEFLATE block
// boundary, to later Resume decoding from that exact point instead of
// restarting at the beginning of the stream: how far the input callback
// had been consumed, the bits already pulled past that byte but not yet
// consumed, how many output bytes had been emitted, and the trailing
// window history a later back-reference might still reach across.
//
// This is the same block-boundary checkpointing zlib's zran.c sample
// (Mark Adler's classic gzip-index recipe) uses to build a seek index;
// package seekgzip is this module's version of that recipe, adapted to
// the callback-shaped decoder here instead of a pull-based one.
type Checkpoint struct {
	InputBytesConsumed int64
	PendingBits        uint32
	PendingNBits       uint
	OutputBytesEmitted uint32
	History            []byte
	HistoryCursor      uint32
}

// countingSource wraps a ByteSource, counting how many bytes it has
// yielded so far, so a Checkpoint can record where to reopen the
// underlying stream on Resume.
type countingSource struct {
	src bitio.ByteSource
	n   int64
}

func (c *countingSource) ReadByte() (int, bool) {
	b, ok := c.src.ReadByte()
	if ok {
		c.n++
	}
	return b, ok
}

// DecodeWithCheckpoints runs like Decode but calls onCheckpoint after every
// block boundary with enough state to Resume from that exact point later.
// It only supports the default internal window: cb.Window must be nil,
// since the fused External/BoundedTarget modes have no separate window
// history to snapshot independent of the (already-delivered) output itself.
func DecodeWithCheckpoints(cb Callbacks, onCheckpoint func(Checkpoint), opts ...Option) (Result, *Error) {
	if cb.Window != nil {
		err := errWindowRejected()
		return err.Result(), err
	}
	if cb.Input == nil {
		err := errInput("no input callback supplied")
		return err.Result(), err
	}
	if cb.Output == nil {
		err := &Error{Kind: OutputRejected, Msg: "no output sink supplied"}
		return err.Result(), err
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	output := cb.Output
	var crc *crcSink
	if cfg.checkCRC32 {
		crc = newCRCSink(output)
		output = crc
	}

	cs := &countingSource{src: cb.Input}
	ring := window.NewRing(output)
	e := &engine{
		r:       bitio.New(cs),
		win:     ring,
		profile: cfg.profile,
		tuning:  cfg.tuning,
	}
	if onCheckpoint != nil {
		e.onBlock = func() {
			buf, nbits := e.r.Snapshot()
			history, cursor := ring.Snapshot()
			onCheckpoint(Checkpoint{
				InputBytesConsumed: cs.n,
				PendingBits:        buf,
				PendingNBits:       nbits,
				OutputBytesEmitted: ring.Cursor(),
				History:            history,
				HistoryCursor:      cursor,
			})
		}
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
		if crc.sum.Sum32() != want || crc.n != isize {
			err := &Error{Kind: ChecksumMismatch, Msg: "gzip trailer mismatch"}
			return err.Result(), err
		}
	}
	return ResultOK, nil
}

// Resume continues decoding raw DEFLATE blocks from a prior Checkpoint.
// cb.Input must be a fresh ByteSource positioned exactly
// Checkpoint.InputBytesConsumed bytes into the underlying stream (an
// io.SectionReader opened at that offset, wrapped as a ByteSource, is the
// usual shape); gzip framing, if any, was already consumed by the original
// pass and is never revisited here. cb.Window is ignored: Resume always
// drives its own Ring, primed from the checkpoint's history.
func Resume(cb Callbacks, cp Checkpoint, opts ...Option) (Result, *Error) {
	if cb.Input == nil {
		err := errInput("no input callback supplied")
		return err.Result(), err
	}
	if cb.Output == nil {
		err := &Error{Kind: OutputRejected, Msg: "no output sink supplied"}
		return err.Result(), err
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	ring := window.NewRing(cb.Output)
	ring.Prime(cp.History, cp.HistoryCursor)

	r := bitio.New(cb.Input)
	r.Unget(cp.PendingBits, cp.PendingNBits)

	e := &engine{
		r:       r,
		win:     ring,
		profile: cfg.profile,
		tuning:  cfg.tuning,
	}
	if err := e.blockLoop(); err != nil {
		return err.Result(), err
	}
	return ResultOK, nil
}
