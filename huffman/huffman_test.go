package huffman

import (
	"testing"

	"github.com/nanoflate/nanoflate/bitio"
)

// bitWriter packs bits MSB-first into bytes, matching how DEFLATE codes are
// conceptually assigned (RFC 1951 §3.2.2: "packed starting with the
// most-significant bit of the code"), so tests can hand-encode symbols.
type bitWriter struct {
	bytes []byte
	cur   byte
	nbits uint
}

func (w *bitWriter) writeCode(code uint32, length uint8) {
	for i := int(length) - 1; i >= 0; i-- {
		bit := byte((code >> uint(i)) & 1)
		w.cur |= bit << w.nbits
		w.nbits++
		if w.nbits == 8 {
			w.bytes = append(w.bytes, w.cur)
			w.cur = 0
			w.nbits = 0
		}
	}
}

func (w *bitWriter) finish() []byte {
	if w.nbits > 0 {
		w.bytes = append(w.bytes, w.cur)
		w.cur = 0
		w.nbits = 0
	}
	return w.bytes
}

type sliceSource struct {
	b []byte
	i int
}

func (s *sliceSource) ReadByte() (int, bool) {
	if s.i >= len(s.b) {
		return -1, false
	}
	v := int(s.b[s.i])
	s.i++
	return v, true
}

func forEachTuning(t *testing.T, f func(t *testing.T, tuning Tuning)) {
	t.Helper()
	for _, tuning := range []Tuning{CompactTuning, FastTuning} {
		name := "Compact"
		if tuning == FastTuning {
			name = "Fast"
		}
		t.Run(name, func(t *testing.T) { f(t, tuning) })
	}
}

// canonicalCodesFor computes the same next_code assignment the package
// does, for test fixtures to hand-encode a bitstream against.
func canonicalCodesFor(t *testing.T, lengths []int) []uint32 {
	t.Helper()
	tbl, err := buildCanonical(lengths)
	if err != nil {
		t.Fatalf("buildCanonical: %v", err)
	}
	return tbl.codes
}

func TestDecodeEverySymbolExactBits(t *testing.T) {
	// A small, RFC-legal code-length vector: symbols 0..4 with lengths
	// 2,2,2,3,3 (a valid canonical assignment: 3 two-bit codes + 2
	// three-bit codes == 8 leaves of a depth-3 tree, fully used).
	lengths := []int{2, 2, 2, 3, 3}
	codes := canonicalCodesFor(t, lengths)

	forEachTuning(t, func(t *testing.T, tuning Tuning) {
		dec, err := New(tuning, lengths)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		for sym, l := range lengths {
			w := &bitWriter{}
			w.writeCode(codes[sym], uint8(l))
			r := bitio.New(&sliceSource{b: w.finish()})
			got, ok := dec.Decode(r)
			if !ok {
				t.Fatalf("symbol %d: Decode failed", sym)
			}
			if got != sym {
				t.Fatalf("symbol %d: decoded %d", sym, got)
			}
		}
	})
}

func TestDecodeSequence(t *testing.T) {
	lengths := []int{2, 2, 2, 3, 3}
	codes := canonicalCodesFor(t, lengths)
	seq := []int{0, 3, 1, 4, 2, 0}

	forEachTuning(t, func(t *testing.T, tuning Tuning) {
		dec, err := New(tuning, lengths)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		w := &bitWriter{}
		for _, sym := range seq {
			w.writeCode(codes[sym], uint8(lengths[sym]))
		}
		r := bitio.New(&sliceSource{b: w.finish()})
		for _, want := range seq {
			got, ok := dec.Decode(r)
			if !ok || got != want {
				t.Fatalf("Decode() = %d, %v, want %d, true", got, ok, want)
			}
		}
	})
}

func TestFixedLiteralLengthTable(t *testing.T) {
	var bits [288]int
	for i := 0; i < 144; i++ {
		bits[i] = 8
	}
	for i := 144; i < 256; i++ {
		bits[i] = 9
	}
	for i := 256; i < 280; i++ {
		bits[i] = 7
	}
	for i := 280; i < 288; i++ {
		bits[i] = 8
	}
	codes := canonicalCodesFor(t, bits[:])

	forEachTuning(t, func(t *testing.T, tuning Tuning) {
		dec, err := New(tuning, bits[:])
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		for _, sym := range []int{0, 'H', 'e', 255, 256, 285, 287} {
			w := &bitWriter{}
			w.writeCode(codes[sym], uint8(bits[sym]))
			r := bitio.New(&sliceSource{b: w.finish()})
			got, ok := dec.Decode(r)
			if !ok || got != sym {
				t.Fatalf("symbol %d: Decode() = %d, %v", sym, got, ok)
			}
		}
	})
}

func TestDecodeTruncatedStreamFails(t *testing.T) {
	lengths := []int{2, 2, 2, 3, 3}
	forEachTuning(t, func(t *testing.T, tuning Tuning) {
		dec, err := New(tuning, lengths)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		r := bitio.New(&sliceSource{b: nil})
		if _, ok := dec.Decode(r); ok {
			t.Fatalf("Decode on empty input should fail")
		}
	})
}

func TestEmptyTableDecodeFails(t *testing.T) {
	forEachTuning(t, func(t *testing.T, tuning Tuning) {
		dec, err := New(tuning, []int{0, 0, 0})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		r := bitio.New(&sliceSource{b: []byte{0xFF, 0xFF}})
		if _, ok := dec.Decode(r); ok {
			t.Fatalf("Decode on an empty table should fail")
		}
	})
}

func TestRejectsOverlongCodeLength(t *testing.T) {
	if _, err := New(CompactTuning, []int{16}); err == nil {
		t.Fatalf("New should reject a code length > 15")
	}
}
