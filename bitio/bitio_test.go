package bitio

import "testing"

// sliceSource feeds bytes from a slice, then reports failure forever.
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

func TestReadBitsLSBFirst(t *testing.T) {
	// 0b10110010 read 3 bits at a time, LSB first: 010, 110, 011 (2 left over).
	r := New(&sliceSource{b: []byte{0xB2}})

	v, ok := r.ReadBits(3)
	if !ok || v != 0b010 {
		t.Fatalf("ReadBits(3) = %v, %v, want 0b010, true", v, ok)
	}
	v, ok = r.ReadBits(3)
	if !ok || v != 0b110 {
		t.Fatalf("ReadBits(3) = %v, %v, want 0b110, true", v, ok)
	}
	v, ok = r.ReadBits(2)
	if !ok || v != 0b10 {
		t.Fatalf("ReadBits(2) = %v, %v, want 0b10, true", v, ok)
	}
}

func TestReadBitsAcrossBytes(t *testing.T) {
	r := New(&sliceSource{b: []byte{0xFF, 0x01}})
	v, ok := r.ReadBits(9)
	if !ok || v != 0x1FF {
		t.Fatalf("ReadBits(9) = %#x, %v, want 0x1ff, true", v, ok)
	}
}

func TestReadBitsExhaustion(t *testing.T) {
	r := New(&sliceSource{b: []byte{0x01}})
	if _, ok := r.ReadBits(16); ok {
		t.Fatalf("ReadBits(16) over a single byte should fail")
	}
	if !r.Failed() {
		t.Fatalf("Failed() = false after a failed read")
	}
	if _, ok := r.ReadBits(1); ok {
		t.Fatalf("reads after failure must keep failing")
	}
}

func TestReadByteAlignedDiscardsPendingBits(t *testing.T) {
	r := New(&sliceSource{b: []byte{0xFF, 0xAB}})
	if _, ok := r.ReadBits(3); !ok {
		t.Fatalf("ReadBits(3) failed")
	}
	b, ok := r.ReadByteAligned()
	if !ok || b != 0xAB {
		t.Fatalf("ReadByteAligned() = %#x, %v, want 0xab, true", b, ok)
	}
}

func TestReadBitsZero(t *testing.T) {
	r := New(&sliceSource{})
	v, ok := r.ReadBits(0)
	if !ok || v != 0 {
		t.Fatalf("ReadBits(0) = %v, %v, want 0, true", v, ok)
	}
}
