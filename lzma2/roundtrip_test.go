package lzma2

import (
	"bytes"
	"io"
	"math/rand"
	"testing"

	"github.com/omnizip/omnizip-sub002/lzma"
)

func TestRoundTripSmall(t *testing.T) {
	data := []byte("The quick brown fox jumps over the lazy dog.\n")

	var buf bytes.Buffer
	w := NewWriter(&buf, WriterConfig{})
	if _, err := w.Write(data); err != nil {
		t.Fatalf("Write error %s", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close error %s", err)
	}

	r := NewReader(&buf, ReaderConfig{})
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll error %s", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("got %q; want %q", got, data)
	}
}

func TestRoundTripMultiChunk(t *testing.T) {
	data := bytes.Repeat([]byte("abcdefghij"), 3*maxCompressedUnpackedSize/10+1)

	var buf bytes.Buffer
	w := NewWriter(&buf, WriterConfig{})
	if _, err := w.Write(data); err != nil {
		t.Fatalf("Write error %s", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close error %s", err)
	}

	r := NewReader(&buf, ReaderConfig{})
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll error %s", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip across multiple chunks mismatch: got %d bytes, want %d", len(got), len(data))
	}
}

func TestRoundTripRandom(t *testing.T) {
	rnd := rand.New(rand.NewSource(99))
	data := make([]byte, 50000)
	rnd.Read(data)

	var buf bytes.Buffer
	w := NewWriter(&buf, WriterConfig{})
	if _, err := w.Write(data); err != nil {
		t.Fatalf("Write error %s", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close error %s", err)
	}

	r := NewReader(&buf, ReaderConfig{})
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll error %s", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip of incompressible random data mismatch")
	}
}

func TestControlByteClassification(t *testing.T) {
	tests := []struct {
		c                       control
		eos, uncompressed, comp bool
	}{
		{ctrlEOS, true, false, false},
		{ctrlUncompressedDR, false, true, false},
		{ctrlUncompressed, false, true, false},
		{ctrlCompressed, false, false, true},
		{ctrlCompressedResetAll, false, false, true},
	}
	for _, tc := range tests {
		if got := tc.c.isEOS(); got != tc.eos {
			t.Fatalf("control(%#x).isEOS() = %t; want %t", byte(tc.c), got, tc.eos)
		}
		if got := tc.c.isUncompressed(); got != tc.uncompressed {
			t.Fatalf("control(%#x).isUncompressed() = %t; want %t", byte(tc.c), got, tc.uncompressed)
		}
		if got := tc.c.isCompressed(); got != tc.comp {
			t.Fatalf("control(%#x).isCompressed() = %t; want %t", byte(tc.c), got, tc.comp)
		}
	}
}

func TestResetNesting(t *testing.T) {
	if !ctrlCompressedResetAll.reset().dict {
		t.Fatalf("ctrlCompressedResetAll should reset the dictionary")
	}
	if !ctrlCompressedResetAll.reset().props {
		t.Fatalf("ctrlCompressedResetAll should imply a properties reset")
	}
	if !ctrlCompressedResetProps.reset().state {
		t.Fatalf("ctrlCompressedResetProps should imply a state reset")
	}
	if ctrlCompressed.reset().state {
		t.Fatalf("ctrlCompressed (no reset) should not reset state")
	}
}

func TestDictSizeRoundTrip(t *testing.T) {
	for code := DictSize(0); code <= maxDictSizeCode; code++ {
		size := code.Size()
		got := FloorDictSize(size)
		if got != code {
			t.Fatalf("FloorDictSize(%d) = %d; want %d", size, got, code)
		}
	}
}

// TestStateContinuationChunk hand-assembles a two-chunk stream where
// the second chunk's control byte (ctrlCompressed) resets neither
// dictionary, state, nor properties, the ordinary form a real LZMA2
// encoder emits for everything but a stream's first chunk. The two
// chunks' payloads are produced by one Encoder whose dictionary and
// coder state carry over between them via Rearm/FinishChunk, so
// decoding only succeeds if Reader does the same instead of rejecting
// the second chunk outright.
func TestStateContinuationChunk(t *testing.T) {
	props := lzma.Default()
	dictCap := 1 << 16

	enc, err := lzma.NewStatefulEncoder(lzma.EncoderConfig{
		Properties:    props,
		DictCap:       dictCap,
		Normalization: lzma.NormalizeBefore,
	})
	if err != nil {
		t.Fatalf("NewStatefulEncoder error %s", err)
	}

	part1 := []byte("the quick brown fox jumps over the lazy dog, ")
	part2 := []byte("and the quick brown fox jumps over it again.")

	var packed1 bytes.Buffer
	enc.Rearm(&packed1, lzma.NormalizeBefore)
	if _, err := enc.Write(part1); err != nil {
		t.Fatalf("Write part1 error %s", err)
	}
	if err := enc.FinishChunk(); err != nil {
		t.Fatalf("FinishChunk 1 error %s", err)
	}

	var packed2 bytes.Buffer
	enc.Rearm(&packed2, lzma.NormalizeBefore)
	if _, err := enc.Write(part2); err != nil {
		t.Fatalf("Write part2 error %s", err)
	}
	if err := enc.FinishChunk(); err != nil {
		t.Fatalf("FinishChunk 2 error %s", err)
	}

	var stream bytes.Buffer
	if err := writeChunkHeader(&stream, ChunkHeader{
		Control:      ctrlCompressedResetAll,
		UnpackedSize: len(part1),
		PackedSize:   packed1.Len(),
		Properties:   props,
	}); err != nil {
		t.Fatalf("writeChunkHeader 1 error %s", err)
	}
	stream.Write(packed1.Bytes())

	if err := writeChunkHeader(&stream, ChunkHeader{
		Control:      ctrlCompressed,
		UnpackedSize: len(part2),
		PackedSize:   packed2.Len(),
	}); err != nil {
		t.Fatalf("writeChunkHeader 2 error %s", err)
	}
	stream.Write(packed2.Bytes())
	stream.WriteByte(byte(ctrlEOS))

	r := NewReader(&stream, ReaderConfig{DictCap: dictCap})
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll error %s", err)
	}
	want := append(append([]byte{}, part1...), part2...)
	if !bytes.Equal(got, want) {
		t.Fatalf("state-continuation round trip mismatch:\n got  %q\n want %q", got, want)
	}
}

func TestChunkHeaderRoundTrip(t *testing.T) {
	h := ChunkHeader{
		Control:      ctrlCompressedResetAll,
		UnpackedSize: 1000,
		PackedSize:   500,
		Properties:   lzma.Properties{LC: 3, LP: 0, PB: 2},
	}
	var buf bytes.Buffer
	if err := writeChunkHeader(&buf, h); err != nil {
		t.Fatalf("writeChunkHeader error %s", err)
	}
	got, err := readChunkHeader(&buf, lzma.Properties{})
	if err != nil {
		t.Fatalf("readChunkHeader error %s", err)
	}
	if got != h {
		t.Fatalf("got %+v; want %+v", got, h)
	}
}
