// Package huffman builds canonical Huffman decode tables from a code-length
// vector (RFC 1951 §3.2.2) and decodes symbols from a bitio.Reader.
//
// Two tunings implement the same Decoder contract:
//
//   - Compact: a packed binary tree, minimal memory, one bit consumed per
//     tree descent.
//   - Fast: a chunk lookup table with overflow links, adapted from the
//     zlib/compress-flate scheme, trading table memory for fewer reader
//     round-trips per symbol.
//
// Every call to New allocates a fresh table, sized from the alphabet
// length passed to it; nothing is reused across calls.
package huffman

import (
	"fmt"

	"github.com/nanoflate/nanoflate/bitio"
)

// maxCodeLen is the longest Huffman code DEFLATE ever produces (RFC 1951
// §3.2.2: code lengths are encoded in 4 bits for the code-length alphabet
// and the literal/length and distance alphabets are capped at 15).
const maxCodeLen = 15

// Tuning selects a Decoder implementation. The decode contract (one call,
// exactly len(code) bits consumed, canonical assignment) is identical
// across tunings; only the backing storage and bit-reading strategy differ.
type Tuning int

const (
	// CompactTuning favors memory: a packed binary tree, one reader bit
	// consumed per level of tree descent. This is the default; embedded
	// callers with a few hundred bytes of scratch want this one.
	CompactTuning Tuning = iota
	// FastTuning favors speed: a 9-bit lookup table plus overflow links,
	// usually resolving a symbol in one Reader.Fill call.
	FastTuning
)

// Decoder decodes one canonical Huffman symbol per call, consuming exactly
// as many bits from r as the symbol's code length.
type Decoder interface {
	// Decode reads one symbol. ok is false if the table is empty, the
	// bitstream takes a path with no assigned symbol (malformed input),
	// or r runs out of bits first.
	Decode(r *bitio.Reader) (symbol int, ok bool)
}

// New builds a Decoder of the requested tuning from a code-length vector.
// lengths[i] is the code length of symbol i, 0 meaning the symbol is
// absent. len(lengths) must be <= 288 (the literal/length alphabet, the
// widest of the three DEFLATE uses this for).
func New(tuning Tuning, lengths []int) (Decoder, error) {
	switch tuning {
	case FastTuning:
		return newFast(lengths)
	default:
		return newCompact(lengths)
	}
}

// codeTable holds the canonical (code, length) pair computed for every
// present symbol, shared by both tunings' construction.
type codeTable struct {
	codes  []uint32
	length []uint8
	min    int
	max    int
}

// buildCanonical runs the RFC 1951 §3.2.2 algorithm: tally bl_count, derive
// next_code, then assign codes to symbols in ascending index order.
func buildCanonical(lengths []int) (*codeTable, error) {
	var blCount [maxCodeLen + 1]int
	min, max := 0, 0
	for _, l := range lengths {
		if l == 0 {
			continue
		}
		if l < 0 || l > maxCodeLen {
			return nil, fmt.Errorf("huffman: code length %d out of range", l)
		}
		blCount[l]++
		if min == 0 || l < min {
			min = l
		}
		if l > max {
			max = l
		}
	}

	t := &codeTable{
		codes:  make([]uint32, len(lengths)),
		length: make([]uint8, len(lengths)),
		min:    min,
		max:    max,
	}
	if max == 0 {
		return t, nil // empty tree: valid for HDIST, caller rejects it elsewhere if required
	}

	// Completeness check (RFC 1951 §3.2.2 requires a full binary tree):
	// each length-l code claims 2^(max-l) of the leaves of a depth-max
	// tree; the claims must exactly exhaust the tree, except for the
	// single degenerate case of one symbol of length 1, which RFC 1951
	// permits to leave the second 1-bit code unused (the classic
	// reference decoder, zlib's puff.c, special-cases it the same way).
	left := 1
	numSymbols := 0
	for l := 1; l <= max; l++ {
		left <<= 1
		left -= blCount[l]
		if left < 0 {
			return nil, fmt.Errorf("huffman: over-subscribed code-length set")
		}
		numSymbols += blCount[l]
	}
	if left > 0 && numSymbols != 1 {
		return nil, fmt.Errorf("huffman: incomplete code-length set")
	}

	var nextCode [maxCodeLen + 1]uint32
	code := uint32(0)
	for l := 1; l <= max; l++ {
		code = (code + uint32(blCount[l-1])) << 1
		nextCode[l] = code
	}

	for sym, l := range lengths {
		if l == 0 {
			continue
		}
		t.codes[sym] = nextCode[l]
		t.length[sym] = uint8(l)
		nextCode[l]++
	}
	return t, nil
}
