package ranger

import (
	"bytes"
	"context"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRangerMatchesDirectRead(t *testing.T) {
	data := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog "), 4000)

	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.ServeContent(w, req, "fixture.bin", time.Time{}, bytes.NewReader(data))
	}))
	defer s.Close()

	ra := New(context.Background(), s.URL, s.Client().Transport)
	size := int64(len(data))

	for range 100 {
		start := rand.Int64N(size)
		length := rand.Int64N(size-start) + 1

		want := make([]byte, length)
		copy(want, data[start:start+length])

		got := make([]byte, length)
		n, err := ra.ReadAt(got, start)
		if err != nil {
			t.Fatalf("ReadAt(%d, %d): %v", start, length, err)
		}
		if int64(n) != length {
			t.Fatalf("ReadAt(%d, %d): n = %d, want %d", start, length, n, length)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("ReadAt(%d, %d): mismatch", start, length)
		}
	}
}

func TestRangerSize(t *testing.T) {
	data := bytes.Repeat([]byte("x"), 12345)

	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.ServeContent(w, req, "fixture.bin", time.Time{}, bytes.NewReader(data))
	}))
	defer s.Close()

	ra := New(context.Background(), s.URL, s.Client().Transport)
	size, err := ra.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != int64(len(data)) {
		t.Fatalf("Size() = %d, want %d", size, len(data))
	}
}
