package huffman

import "github.com/nanoflate/nanoflate/bitio"

// compactNode is one node of the packed binary tree: two child references,
// each either "missing", an index of another node, or a leaf carrying a
// symbol. Packing both refs into one node keeps the whole table to a
// couple of uint16s per node rather than a pointer-based tree, matching the
// bit-packed budget spec.md calls for (two compact child slots plus a leaf
// tag per slot, here widened to a byte-aligned uint16 per slot for Go
// rather than hand-rolled sub-word bit packing).
type compactNode struct {
	left, right uint16
}

const (
	refMissing = uint16(0)
	refLeafBit = uint16(1) << 15
	refMask    = refLeafBit - 1
)

func refIsLeaf(ref uint16) bool { return ref&refLeafBit != 0 }
func refSymbol(ref uint16) int  { return int(ref & refMask) }
func refNodeIndex(ref uint16) int {
	return int(ref&refMask) - 1
}
func nodeRefOf(idx int) uint16 { return uint16(idx + 1) }
func leafRefOf(sym int) uint16 { return refLeafBit | uint16(sym) }

// Compact is the CompactTuning Decoder: a packed tree walked one bit at a
// time. See New.
type Compact struct {
	nodes []compactNode
	empty bool
}

func newCompact(lengths []int) (*Compact, error) {
	t, err := buildCanonical(lengths)
	if err != nil {
		return nil, err
	}
	c := &Compact{nodes: make([]compactNode, 1, 2*len(lengths)+1)}
	if t.max == 0 {
		c.empty = true
		return c, nil
	}
	for sym, l := range t.length {
		if l == 0 {
			continue
		}
		c.insert(t.codes[sym], l, sym)
	}
	return c, nil
}

// insert walks the tree MSB-first through code's length bits, allocating a
// fresh internal node the first time a branch is taken, then marks a leaf
// for the final bit.
func (c *Compact) insert(code uint32, length uint8, sym int) {
	nodeIdx := 0
	for depth := uint8(0); depth+1 < length; depth++ {
		bitPos := length - 1 - depth
		bit := (code >> bitPos) & 1
		child := &c.nodes[nodeIdx].left
		if bit == 1 {
			child = &c.nodes[nodeIdx].right
		}
		if *child == refMissing {
			c.nodes = append(c.nodes, compactNode{})
			newIdx := len(c.nodes) - 1
			*child = nodeRefOf(newIdx)
			nodeIdx = newIdx
		} else {
			nodeIdx = refNodeIndex(*child)
		}
	}
	if code&1 == 1 {
		c.nodes[nodeIdx].right = leafRefOf(sym)
	} else {
		c.nodes[nodeIdx].left = leafRefOf(sym)
	}
}

// Decode implements Decoder.
func (c *Compact) Decode(r *bitio.Reader) (int, bool) {
	if c.empty || len(c.nodes) == 0 {
		return 0, false
	}
	nodeIdx := 0
	for depth := 0; depth <= maxCodeLen; depth++ {
		bit, ok := r.ReadBits(1)
		if !ok {
			return 0, false
		}
		ref := c.nodes[nodeIdx].left
		if bit == 1 {
			ref = c.nodes[nodeIdx].right
		}
		if ref == refMissing {
			return 0, false // no symbol assigned to this path: malformed bitstream
		}
		if refIsLeaf(ref) {
			return refSymbol(ref), true
		}
		nodeIdx = refNodeIndex(ref)
	}
	return 0, false // path longer than the longest legal code: malformed bitstream
}
