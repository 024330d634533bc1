package seekgzip

import (
	"encoding/json"
	"io"

	"github.com/nanoflate/nanoflate/deflate"
)

// Index is the persisted form of a Reader's checkpoint table: everything
// needed to reopen random access into the same compressed stream later
// without repeating the forward indexing pass. Layout may change across
// versions of this module; it is not a stable on-disk format.
//
// Grounded on gsip.go's Index/Encode/Decode, whose comment ("The layout
// will absolutely change and break you if you depend on it") applies here
// too.
type Index struct {
	Checkpoints []deflate.Checkpoint
	TotalSize   int64
}

// Encode persists the index as JSON.
func (r *Reader) Encode(w io.Writer) error {
	idx := Index{Checkpoints: r.checkpoints, TotalSize: r.totalSize}
	return json.NewEncoder(w).Encode(&idx)
}

// Decode reopens a Reader over ra (size bytes of gzip-compressed data)
// using a previously Encode-d index, skipping the forward indexing pass
// entirely.
func Decode(ra io.ReaderAt, size int64, index io.Reader, opts ...Option) (*Reader, error) {
	var idx Index
	if err := json.NewDecoder(index).Decode(&idx); err != nil {
		return nil, err
	}
	r := newReader(ra, size, opts...)
	r.checkpoints = idx.Checkpoints
	r.totalSize = idx.TotalSize
	return r, nil
}
