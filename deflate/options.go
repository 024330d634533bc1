package deflate

import "github.com/nanoflate/nanoflate/huffman"

// Profile selects how much the decoder trusts its input, per spec.md §7.
type Profile int

const (
	// Safe detects malformed headers, callback aborts, and target
	// overflow, and returns the matching non-zero result. This is the
	// default: most callers of a Go library are not running on firmware
	// with pre-validated input.
	Safe Profile = iota
	// Trusting skips only the stored-block LEN/NLEN cross-check, assuming
	// well-formed input. A reserved BTYPE (11) is always fatal in both
	// profiles: Go's memory safety means there's no unsafe path to opt
	// into by tolerating it, unlike spec.md §7's original trusting-profile
	// framing (see DESIGN.md).
	Trusting
)

type config struct {
	profile    Profile
	tuning     huffman.Tuning
	checkCRC32 bool
}

func defaultConfig() config {
	return config{profile: Safe, tuning: huffman.CompactTuning}
}

// Option configures a Decode call.
type Option func(*config)

// WithProfile selects the Trusting or Safe validation profile. Default Safe.
func WithProfile(p Profile) Option {
	return func(c *config) { c.profile = p }
}

// WithTableTuning selects the Huffman table tuning used for both the
// literal/length and distance tables of every block. Default
// huffman.CompactTuning.
func WithTableTuning(t huffman.Tuning) Option {
	return func(c *config) { c.tuning = t }
}

// WithCRC32Check opts into verifying the gzip trailer's CRC32 and ISIZE
// fields against the bytes actually emitted (spec.md §9 Open Question (a)).
// It has no effect on a raw (non-gzip) DEFLATE stream, and no effect when
// Callbacks.Window is supplied directly, since the core then never sees the
// emitted bytes — only the fused window owns them.
func WithCRC32Check() Option {
	return func(c *config) { c.checkCRC32 = true }
}
