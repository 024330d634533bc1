package huffman

import (
	"math/bits"

	"github.com/nanoflate/nanoflate/bitio"
)

// The lookup scheme below is the one used by zlib and, following it,
// Go's compress/flate: a fixed-width chunk table indexed by the next
// huffmanChunkBits bits (reversed, because codes are assigned MSB-first but
// the bit reader delivers LSB-first), with an overflow link table for codes
// longer than the chunk width. See the algorithm note in zlib's
// doc/algorithm.txt. chunk&15 is the code length (or, for an indirect
// entry, huffmanChunkBits+1); chunk>>4 is the symbol (or the link index).
const (
	huffmanChunkBits  = 9
	huffmanNumChunks  = 1 << huffmanChunkBits
	huffmanCountMask  = 15
	huffmanValueShift = 4
)

// Fast is the FastTuning Decoder.
type Fast struct {
	min      int
	chunks   [huffmanNumChunks]uint32
	links    [][]uint32
	linkMask uint32
}

func newFast(lengths []int) (*Fast, error) {
	t, err := buildCanonical(lengths)
	if err != nil {
		return nil, err
	}
	h := &Fast{min: t.min}
	if t.max == 0 {
		return h, nil
	}

	// Recompute next_code locally: buildCanonical already burned the
	// sequence into t.codes, and we need per-length insertion order here
	// to build the link tables the same way the codes were assigned.
	var blCount [maxCodeLen + 1]int
	for _, l := range lengths {
		if l != 0 {
			blCount[l]++
		}
	}
	var nextCode [maxCodeLen + 1]int
	code := 0
	for i := t.min; i <= t.max; i++ {
		code <<= 1
		nextCode[i] = code
		code += blCount[i]
	}

	if t.max > huffmanChunkBits {
		numLinks := 1 << (uint(t.max) - huffmanChunkBits)
		h.linkMask = uint32(numLinks - 1)
		link := nextCode[huffmanChunkBits+1] >> 1
		h.links = make([][]uint32, huffmanNumChunks-link)
		for j := link; j < huffmanNumChunks; j++ {
			reverse := int(bits.Reverse16(uint16(j)))
			reverse >>= 16 - huffmanChunkBits
			off := j - link
			h.chunks[reverse] = uint32(off<<huffmanValueShift | (huffmanChunkBits + 1))
			h.links[off] = make([]uint32, numLinks)
		}
	}

	for sym, l := range lengths {
		if l == 0 {
			continue
		}
		code := nextCode[l]
		nextCode[l]++
		chunk := uint32(sym<<huffmanValueShift | l)
		reverse := int(bits.Reverse16(uint16(code)))
		reverse >>= 16 - l
		if l <= huffmanChunkBits {
			for off := reverse; off < len(h.chunks); off += 1 << uint(l) {
				h.chunks[off] = chunk
			}
		} else {
			j := reverse & (huffmanNumChunks - 1)
			value := h.chunks[j] >> huffmanValueShift
			linktab := h.links[value]
			reverse >>= huffmanChunkBits
			for off := reverse; off < len(linktab); off += 1 << uint(l-huffmanChunkBits) {
				linktab[off] = chunk
			}
		}
	}
	return h, nil
}

// Decode implements Decoder. It mirrors compress/flate's huffSym: peek a
// fixed-width window of the bit buffer (bits beyond what's actually
// buffered read as zero, which is safe because shorter codes are ordered
// before longer ones in chunks), resolve through the link table if the
// code is longer than the chunk width, then discard exactly the resolved
// code length.
func (h *Fast) Decode(r *bitio.Reader) (int, bool) {
	n := uint(h.min)
	if n == 0 {
		return 0, false
	}
	for {
		if !r.Fill(n) {
			return 0, false
		}
		chunk := h.chunks[r.PeekRaw(huffmanChunkBits)]
		cnt := uint(chunk & huffmanCountMask)
		if cnt > huffmanChunkBits {
			chunk = h.links[chunk>>huffmanValueShift][r.PeekRawAt(huffmanChunkBits, uint(bits.Len32(h.linkMask)))]
			cnt = uint(chunk & huffmanCountMask)
		}
		if cnt <= r.Available() {
			if cnt == 0 {
				return 0, false
			}
			r.Discard(cnt)
			return int(chunk >> huffmanValueShift), true
		}
		n = cnt
	}
}
