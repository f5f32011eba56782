package lzma

import (
	"bytes"
	"io"
	"math/rand"
	"testing"
)

func encodeDecode(t *testing.T, data []byte, cfg EncoderConfig) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, cfg)
	if err != nil {
		t.Fatalf("NewEncoder error %s", err)
	}
	if _, err := enc.Write(data); err != nil {
		t.Fatalf("enc.Write error %s", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("enc.Close error %s", err)
	}

	dec, err := NewDecoder(&buf, DecoderConfig{Properties: cfg.Properties, DictCap: cfg.DictCap}, int64(len(data)))
	if err != nil {
		t.Fatalf("NewDecoder error %s", err)
	}
	got, err := io.ReadAll(dec)
	if err != nil {
		t.Fatalf("io.ReadAll error %s", err)
	}
	return got
}

func TestRoundTripEmpty(t *testing.T) {
	got := encodeDecode(t, nil, EncoderConfig{})
	if len(got) != 0 {
		t.Fatalf("got %d bytes; want 0", len(got))
	}
}

func TestRoundTripSingleByte(t *testing.T) {
	got := encodeDecode(t, []byte("A"), EncoderConfig{})
	if string(got) != "A" {
		t.Fatalf("got %q; want %q", got, "A")
	}
}

func TestRoundTripRepeatedByte(t *testing.T) {
	data := bytes.Repeat([]byte("A"), 1000)
	got := encodeDecode(t, data, EncoderConfig{})
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch, got %d bytes want %d", len(got), len(data))
	}
}

func TestRoundTripText(t *testing.T) {
	data := bytes.Repeat([]byte("The quick brown fox jumps over the lazy dog. "), 50)
	got := encodeDecode(t, data, EncoderConfig{})
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch")
	}
}

func TestRoundTripFullByteRange(t *testing.T) {
	var base [256]byte
	for i := range base {
		base[i] = byte(i)
	}
	data := bytes.Repeat(base[:], 4)
	got := encodeDecode(t, data, EncoderConfig{})
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch over full byte range")
	}
}

func TestRoundTripVariants(t *testing.T) {
	data := bytes.Repeat([]byte("round trip across every coder variant combination. "), 80)
	for _, norm := range []Normalization{NormalizeAfter, NormalizeBefore} {
		for _, binTree := range []bool{false, true} {
			for _, fast := range []bool{false, true} {
				cfg := EncoderConfig{Normalization: norm, BinTree: binTree, Fast: fast, DictCap: 1 << 16}
				got := encodeDecode(t, data, cfg)
				if !bytes.Equal(got, data) {
					t.Fatalf("norm=%v binTree=%v fast=%v: round trip mismatch", norm, binTree, fast)
				}
			}
		}
	}
}

func TestRoundTripProperties(t *testing.T) {
	data := []byte("property-parameterized coder shape test data, repeated. property-parameterized coder shape test data, repeated.")
	// lc and lp vary independently across their full documented ranges,
	// including lc+lp>4, which packs into a props byte no greater than
	// 224 (lc=8, lp=4, pb=4), the largest byte accepted, and must
	// round-trip.
	for lc := MinLC; lc <= MaxLC; lc++ {
		for lp := MinLP; lp <= MaxLP; lp++ {
			for pb := MinPB; pb <= MaxPB; pb++ {
				cfg := EncoderConfig{Properties: Properties{LC: lc, LP: lp, PB: pb}, DictCap: 1 << 14}
				got := encodeDecode(t, data, cfg)
				if !bytes.Equal(got, data) {
					t.Fatalf("lc=%d lp=%d pb=%d: round trip mismatch", lc, lp, pb)
				}
			}
		}
	}
}

// TestRoundTripLCPlusLPExceedsFour exercises the specific lc+lp>4 shape
// a prior version of Properties.verify wrongly rejected.
func TestRoundTripLCPlusLPExceedsFour(t *testing.T) {
	props := Properties{LC: 8, LP: 3, PB: 0}
	if err := props.verify(); err != nil {
		t.Fatalf("verify() error for lc=8,lp=3,pb=0 (props=%d): %s", props.Byte(), err)
	}
	if props.Byte() != 35 {
		t.Fatalf("Byte() = %d; want 35", props.Byte())
	}
	data := []byte("lc+lp exceeding four must still round trip. lc+lp exceeding four must still round trip.")
	got := encodeDecode(t, data, EncoderConfig{Properties: props, DictCap: 1 << 14})
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch for lc=8,lp=3,pb=0")
	}
}

func TestRoundTripRandom(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, size := range []int{0, 1, 17, 4096, 70000} {
		data := make([]byte, size)
		r.Read(data)
		got := encodeDecode(t, data, EncoderConfig{DictCap: 1 << 16})
		if !bytes.Equal(got, data) {
			t.Fatalf("size=%d: round trip mismatch", size)
		}
	}
}

func TestCompressionShrinksRepetitiveInput(t *testing.T) {
	data := bytes.Repeat([]byte("A"), 1000)
	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, EncoderConfig{})
	if err != nil {
		t.Fatalf("NewEncoder error %s", err)
	}
	if _, err := enc.Write(data); err != nil {
		t.Fatalf("enc.Write error %s", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("enc.Close error %s", err)
	}
	if buf.Len() >= 100 {
		t.Fatalf("compressed %d bytes of repeated input to %d bytes; want < 100", len(data), buf.Len())
	}
}

func TestNormalParserNeverLongerThanFast(t *testing.T) {
	data := bytes.Repeat([]byte("The quick brown fox jumps over the lazy dog. "), 50)

	var fastBuf bytes.Buffer
	fastEnc, err := NewEncoder(&fastBuf, EncoderConfig{Fast: true})
	if err != nil {
		t.Fatalf("NewEncoder(fast) error %s", err)
	}
	if _, err := fastEnc.Write(data); err != nil {
		t.Fatalf("fastEnc.Write error %s", err)
	}
	if err := fastEnc.Close(); err != nil {
		t.Fatalf("fastEnc.Close error %s", err)
	}

	var normalBuf bytes.Buffer
	normalEnc, err := NewEncoder(&normalBuf, EncoderConfig{Fast: false})
	if err != nil {
		t.Fatalf("NewEncoder(normal) error %s", err)
	}
	if _, err := normalEnc.Write(data); err != nil {
		t.Fatalf("normalEnc.Write error %s", err)
	}
	if err := normalEnc.Close(); err != nil {
		t.Fatalf("normalEnc.Close error %s", err)
	}

	if normalBuf.Len() > fastBuf.Len() {
		t.Fatalf("normal parser produced %d bytes; fast parser produced %d, want normal <= fast", normalBuf.Len(), fastBuf.Len())
	}
}

func TestEOSLeavesTrailingInputUntouched(t *testing.T) {
	data := []byte("stream with a known end")
	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, EncoderConfig{})
	if err != nil {
		t.Fatalf("NewEncoder error %s", err)
	}
	if _, err := enc.Write(data); err != nil {
		t.Fatalf("enc.Write error %s", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("enc.Close error %s", err)
	}

	trailer := []byte("trailing garbage that must survive untouched")
	buf.Write(trailer)

	dec, err := NewDecoder(bytes.NewReader(buf.Bytes()), DecoderConfig{}, -1)
	if err != nil {
		t.Fatalf("NewDecoder error %s", err)
	}
	got, err := io.ReadAll(dec)
	if err != nil {
		t.Fatalf("io.ReadAll error %s", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("got %q; want %q", got, data)
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{Properties: Properties{LC: 3, LP: 0, PB: 2}, DictCap: 1 << 16, Size: 1}
	var buf bytes.Buffer
	if err := WriteHeader(&buf, h); err != nil {
		t.Fatalf("WriteHeader error %s", err)
	}
	if buf.Bytes()[0] != 0x5d {
		t.Fatalf("header byte 0 = %#02x; want 0x5d", buf.Bytes()[0])
	}
	got, err := ReadHeader(&buf)
	if err != nil {
		t.Fatalf("ReadHeader error %s", err)
	}
	if got != h {
		t.Fatalf("got %+v; want %+v", got, h)
	}
}

func TestStreamRoundTrip(t *testing.T) {
	data := []byte("The quick brown fox jumps over the lazy dog.\n")
	out, err := CompressBytes(data, StreamConfig{})
	if err != nil {
		t.Fatalf("CompressBytes error %s", err)
	}
	got, err := DecompressBytes(out)
	if err != nil {
		t.Fatalf("DecompressBytes error %s", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("got %q; want %q", got, data)
	}
}
