// Package window implements the DEFLATE sliding window (RFC 1951 §3.2.1):
// a 32 KiB history of recently emitted bytes that back-references copy
// from.
//
// Ring is the default, self-contained window: it owns its own 32 KiB
// buffer and forwards every emitted byte to a caller-supplied sink.
// External fuses the window with a caller-supplied output region, so a
// caller that already has a random-access buffer for the whole
// decompressed output pays no extra 32 KiB of scratch. BoundedTarget
// layers overflow detection for the bounded-target integration mode of
// spec.md §6 on top of a plain byte slice.
package window

// Size is the DEFLATE sliding window size (RFC 1951 §3.2.1): the largest
// legal back-reference distance.
const Size = 32768

// Window is the capability package deflate drives: either an internal Ring
// wrapping a plain byte Sink, or an External/BoundedTarget fusing output
// and window over a caller-owned buffer.
type Window interface {
	Emit(b byte) (abort, ok bool)
	Copy(distance, length uint32) (abort, ok bool)
}

// FailureKind classifies why Emit or Copy returned ok=false, so package
// deflate can pick the right result code (spec.md §6) without needing to
// know about concrete window types.
type FailureKind int

const (
	// CallbackRejected is the default for any Window that doesn't
	// implement FailureClassifier: a caller-supplied window_copy-style
	// callback declined the operation.
	CallbackRejected FailureKind = iota
	// BitstreamFault means the failure came from the DEFLATE stream
	// itself (an out-of-range back-reference distance), not from a
	// callback.
	BitstreamFault
	// TargetFull means a fixed-capacity destination (External,
	// BoundedTarget) ran out of room.
	TargetFull
)

// FailureClassifier is implemented by Window types that want deflate to
// report a more specific result code than the generic CallbackRejected.
type FailureClassifier interface {
	ClassifyFailure() FailureKind
}

// ClassifyFailure implements FailureClassifier: Ring only ever fails Copy
// on an out-of-range distance, never a capacity limit.
func (r *Ring) ClassifyFailure() FailureKind { return BitstreamFault }

// Sink consumes one decompressed byte. It returns abort=true to request
// that decompression stop immediately (spec.md §6's output abort sentinel).
type Sink interface {
	WriteByte(b byte) (abort bool)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(b byte) bool

func (f SinkFunc) WriteByte(b byte) bool { return f(b) }

// Ring is a self-contained 32 KiB sliding window. Its buffer always starts
// zero-initialized, per spec.md §9(b). Build one with NewRing: the zero
// value has no sink, and Emit on it panics.
type Ring struct {
	buf    [Size]byte
	cursor uint32 // total bytes ever emitted; buf[(cursor-1)%Size] is the most recent
	sink   Sink
}

// NewRing returns a Ring that forwards every emitted byte to sink.
func NewRing(sink Sink) *Ring {
	return &Ring{sink: sink}
}

// Emit appends one byte to the window and forwards it to the sink. It
// reports abort=true if the sink rejected the byte; ok is always true (an
// internal Ring never runs out of room to write into).
func (r *Ring) Emit(b byte) (abort bool, ok bool) {
	r.buf[r.cursor%Size] = b
	r.cursor++
	return r.sink.WriteByte(b), true
}

// Copy performs a back-reference copy: length bytes are emitted one at a
// time, each read from distance bytes before the current cursor, so an
// overlapping copy (distance < length) reproduces RLE runs correctly —
// each emitted byte becomes visible to the next iteration before it runs.
// It reports abort=true (from the sink) or ok=false (distance points
// before any data has been emitted) the first time either occurs.
func (r *Ring) Copy(distance, length uint32) (abort bool, ok bool) {
	if distance == 0 || distance > Size || distance > r.cursor {
		return false, false
	}
	for i := uint32(0); i < length; i++ {
		b := r.buf[(r.cursor-distance)%Size]
		if abort, _ := r.Emit(b); abort {
			return true, true
		}
	}
	return false, true
}

// HistSize reports how many bytes of real history are available to copy
// from, capped at Size.
func (r *Ring) HistSize() uint32 {
	if r.cursor > Size {
		return Size
	}
	return r.cursor
}

// Cursor reports the total number of bytes ever emitted through this Ring,
// uncapped (unlike HistSize). seekgzip uses it as a checkpoint's output
// offset.
func (r *Ring) Cursor() uint32 { return r.cursor }

// Snapshot returns the trailing history (oldest first, at most HistSize
// bytes) together with the cursor, in a form Prime can later replay onto a
// fresh Ring to resume decoding mid-stream without losing back-reference
// reach across the resume point.
func (r *Ring) Snapshot() (history []byte, cursor uint32) {
	n := r.HistSize()
	history = make([]byte, n)
	for i := uint32(0); i < n; i++ {
		history[i] = r.buf[(r.cursor-n+i)%Size]
	}
	return history, r.cursor
}

// Prime seeds a freshly constructed Ring with history captured by a prior
// Snapshot, without forwarding any of it to the sink (it was already
// emitted the first time around). It must be called before the first Emit
// or Copy. len(history) must not exceed Size.
func (r *Ring) Prime(history []byte, cursor uint32) {
	n := uint32(len(history))
	for i := uint32(0); i < n; i++ {
		r.buf[(cursor-n+i)%Size] = history[i]
	}
	r.cursor = cursor
}
