package main

import "bufio"

// fileSource adapts a buffered file reader to bitio.ByteSource.
type fileSource struct {
	r *bufio.Reader
}

func (s *fileSource) ReadByte() (int, bool) {
	b, err := s.r.ReadByte()
	if err != nil {
		return -1, false
	}
	return int(b), true
}
