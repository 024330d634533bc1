package deflate

// Result is the legacy wire-compatible status code spec.md §6 defines.
// Callers that only need the four-way outcome can ignore Error entirely.
type Result int

const (
	// ResultOK is a successful end-of-stream.
	ResultOK Result = iota
	// ResultInputFailed covers a sentinel from the input callback, an
	// empty input range, or a malformed bitstream (in either profile):
	// a bad header is, from the caller's point of view, bad input.
	ResultInputFailed
	// ResultOutputFailed covers the output sink rejecting a byte and a
	// bounded target running out of room.
	ResultOutputFailed
	// ResultWindowFailed covers a caller-supplied window_copy-style
	// callback declining an operation for reasons of its own.
	ResultWindowFailed
	// ResultChecksumFailed is returned only when WithCRC32Check is set
	// and the gzip trailer's CRC32 or ISIZE doesn't match the bytes
	// actually emitted; spec.md's core never produces this code, since
	// trailer verification is an opt-in layered on top of it (§9 Open
	// Question (a)).
	ResultChecksumFailed
)

func (r Result) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultInputFailed:
		return "input failed"
	case ResultOutputFailed:
		return "output failed"
	case ResultWindowFailed:
		return "window failed"
	case ResultChecksumFailed:
		return "checksum failed"
	default:
		return "unknown result"
	}
}

// Kind classifies an Error more finely than Result does.
type Kind int

const (
	// InputRejected means the input callback signalled EOF/error, or the
	// bitstream ran out before a header field, stored-block byte, or
	// length/distance extra bits finished decoding. A Huffman symbol cut
	// short by the end of input is reported as MalformedBitstream instead.
	InputRejected Kind = iota
	// OutputRejected means the output sink returned its abort sentinel.
	OutputRejected
	// WindowRejected means a caller-supplied Window declined an Emit or
	// Copy for a reason other than distance validity or capacity.
	WindowRejected
	// MalformedBitstream means the DEFLATE stream itself is invalid: a
	// reserved BTYPE, a stored-block LEN/NLEN mismatch, an out-of-range
	// back-reference distance, or a Huffman code path with no assigned
	// symbol or one cut short by the end of input.
	MalformedBitstream
	// TargetOverflow means a fixed-capacity destination (window.External,
	// window.BoundedTarget) ran out of room.
	TargetOverflow
	// ChecksumMismatch means the gzip trailer's CRC32 or ISIZE didn't
	// match what was actually decoded. Only produced when WithCRC32Check
	// is set.
	ChecksumMismatch
)

func (k Kind) String() string {
	switch k {
	case InputRejected:
		return "input rejected"
	case OutputRejected:
		return "output rejected"
	case WindowRejected:
		return "window rejected"
	case MalformedBitstream:
		return "malformed bitstream"
	case TargetOverflow:
		return "target overflow"
	case ChecksumMismatch:
		return "checksum mismatch"
	default:
		return "unknown kind"
	}
}

// Error is the structured error variant spec.md §9's Design Notes suggest
// alongside the legacy Result code.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return "deflate: " + e.Kind.String()
	}
	return "deflate: " + e.Kind.String() + ": " + e.Msg
}

// Result recovers the legacy four-way (or, with CRC32 checking, five-way)
// status code from a structured Error.
func (e *Error) Result() Result {
	switch e.Kind {
	case OutputRejected, TargetOverflow:
		return ResultOutputFailed
	case WindowRejected:
		return ResultWindowFailed
	case ChecksumMismatch:
		return ResultChecksumFailed
	default: // InputRejected, MalformedBitstream
		return ResultInputFailed
	}
}

func errInput(msg string) *Error     { return &Error{Kind: InputRejected, Msg: msg} }
func errMalformed(msg string) *Error { return &Error{Kind: MalformedBitstream, Msg: msg} }

func errOutputAbort() *Error {
	return &Error{Kind: OutputRejected, Msg: "output callback requested abort"}
}

func errWindowRejected() *Error {
	return &Error{Kind: WindowRejected, Msg: "window callback rejected the operation"}
}

func errTargetOverflow() *Error {
	return &Error{Kind: TargetOverflow, Msg: "target capacity exceeded"}
}
