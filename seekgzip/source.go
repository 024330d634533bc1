package seekgzip

import (
	"bufio"
	"io"
)

// readerAtSource adapts an io.ReaderAt, opened at some fixed byte offset,
// to bitio.ByteSource. Wrapped in a large bufio.Reader so a remote
// io.ReaderAt (package ranger's HTTP range reader, in particular) isn't
// driven one byte-sized request at a time — grounded on gsip.go's own
// bufio.NewReaderSize(sr, 1<<20) wrapping of its frontier io.SectionReader.
type readerAtSource struct {
	r *bufio.Reader
}

// newReaderAtSource opens a section of ra starting at offset, running to
// size (the total length of the underlying compressed stream; pass -1 if
// unknown to read until ra reports EOF).
func newReaderAtSource(ra io.ReaderAt, offset, size int64) *readerAtSource {
	length := int64(1<<63 - 1)
	if size >= 0 {
		length = size - offset
	}
	sec := io.NewSectionReader(ra, offset, length)
	return &readerAtSource{r: bufio.NewReaderSize(sec, 1<<20)}
}

func (s *readerAtSource) ReadByte() (int, bool) {
	b, err := s.r.ReadByte()
	if err != nil {
		return -1, false
	}
	return int(b), true
}
