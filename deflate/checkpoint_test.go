package deflate

import (
	"testing"

	"github.com/nanoflate/nanoflate/window"
)

// twoBlockFixedStream builds a raw (non-gzip) DEFLATE stream out of two
// fixed-Huffman blocks, BFINAL=0 then BFINAL=1, so there is exactly one
// useful mid-stream block boundary to checkpoint at.
func twoBlockFixedStream(t *testing.T, first, second string) []byte {
	t.Helper()
	w := &streamWriter{}

	w.writeBits(0, 1) // BFINAL=0
	w.writeBits(1, 2) // BTYPE=01
	for _, b := range []byte(first) {
		code, n := fixedCode(int(b))
		w.writeCode(code, n)
	}
	code, n := fixedCode(256) // EOB
	w.writeCode(code, n)

	w.writeBits(1, 1) // BFINAL=1
	w.writeBits(1, 2) // BTYPE=01
	for _, b := range []byte(second) {
		code, n := fixedCode(int(b))
		w.writeCode(code, n)
	}
	code, n = fixedCode(256) // EOB
	w.writeCode(code, n)

	return w.finish()
}

func TestCheckpointThenResumeReproducesTail(t *testing.T) {
	stream := twoBlockFixedStream(t, "Hello", " World")

	var checkpoints []Checkpoint
	sink := &collectSink{}
	res, err := DecodeWithCheckpoints(Callbacks{
		Input:  &byteSliceSource{b: stream},
		Output: sink,
	}, func(cp Checkpoint) {
		checkpoints = append(checkpoints, cp)
	})
	if err != nil {
		t.Fatalf("DecodeWithCheckpoints: %v", err)
	}
	if res != ResultOK {
		t.Fatalf("result = %v, want ResultOK", res)
	}
	if string(sink.out) != "Hello World" {
		t.Fatalf("decoded = %q, want %q", sink.out, "Hello World")
	}
	if len(checkpoints) != 2 {
		t.Fatalf("got %d checkpoints, want 2 (one per block)", len(checkpoints))
	}
	first := checkpoints[0]
	if first.OutputBytesEmitted != 5 {
		t.Fatalf("first checkpoint OutputBytesEmitted = %d, want 5", first.OutputBytesEmitted)
	}
	if string(first.History) != "Hello" {
		t.Fatalf("first checkpoint History = %q, want %q", first.History, "Hello")
	}

	resumedSink := &collectSink{}
	res, err = Resume(Callbacks{
		Input:  &byteSliceSource{b: stream[first.InputBytesConsumed:]},
		Output: resumedSink,
	}, first)
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if res != ResultOK {
		t.Fatalf("resume result = %v, want ResultOK", res)
	}
	if string(resumedSink.out) != " World" {
		t.Fatalf("resumed = %q, want %q", resumedSink.out, " World")
	}
}

func TestDecodeWithCheckpointsRejectsExternalWindow(t *testing.T) {
	buf := make([]byte, 16)
	_, err := DecodeWithCheckpoints(Callbacks{
		Input:  &byteSliceSource{b: []byte{0x03, 0x00}},
		Window: window.NewBoundedTarget(buf),
	}, nil)
	if err == nil || err.Kind != WindowRejected {
		t.Fatalf("err = %v, want Kind=WindowRejected", err)
	}
}
