package seekgzip

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/dgryski/go-tinylfu"
)

// segmentCache bounds how many decoded segments (the byte span between two
// adjacent checkpoints) a Reader keeps around, so repeated ReadAt calls
// into the same neighborhood of a large stream don't redecode it every
// time, without pinning the whole decompressed stream in memory.
//
// Admission/eviction is TinyLFU (github.com/dgryski/go-tinylfu), the
// scheme elliotnunn/BeHierarchic's internal/spinner block cache already
// uses for this exact "bounded cache of expensively-reconstructed byte
// spans" shape; keys are hashed with xxhash, also from that package's
// stack, rather than handing the segment index itself to TinyLFU's string
// keying.
type segmentCache struct {
	lfu *tinylfu.T
}

func newSegmentCache(segments int) *segmentCache {
	if segments < 16 {
		segments = 16
	}
	return &segmentCache{lfu: tinylfu.New(segments, segments*10)}
}

func segmentKey(idx int) string {
	h := xxhash.Sum64String("nanoflate-seekgzip-segment:" + strconv.Itoa(idx))
	return strconv.FormatUint(h, 36)
}

func (c *segmentCache) get(idx int) ([]byte, bool) {
	v, ok := c.lfu.Get(segmentKey(idx))
	if !ok {
		return nil, false
	}
	buf, ok := v.([]byte)
	return buf, ok
}

func (c *segmentCache) put(idx int, data []byte) {
	c.lfu.Add(segmentKey(idx), data)
}
