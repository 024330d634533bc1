package window

// BoundedTarget adapts an External to a plain []byte with a hard capacity
// limit, for callers that want decompression to stop (with result code 2,
// see package deflate) the instant the destination is full rather than
// grow it. This realizes the "bounded-target" row of spec.md §6.
type BoundedTarget struct {
	*External
}

// NewBoundedTarget wraps dst. Writing past len(dst) is reported as an
// overflow instead of growing dst.
func NewBoundedTarget(dst []byte) *BoundedTarget {
	return &BoundedTarget{External: NewExternal(dst)}
}

// N reports how many bytes have been written so far.
func (b *BoundedTarget) N() int { return b.pos }
