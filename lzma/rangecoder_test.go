package lzma

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestRangeCoderDirectBits(t *testing.T) {
	for _, variant := range []Normalization{NormalizeAfter, NormalizeBefore} {
		r := rand.New(rand.NewSource(42))
		bits := make([]uint32, 2000)
		for i := range bits {
			bits[i] = uint32(r.Intn(2))
		}

		var buf bytes.Buffer
		e := newRangeEncoder(&buf, variant)
		for _, b := range bits {
			if err := e.EncodeDirectBit(b); err != nil {
				t.Fatalf("variant %v: EncodeDirectBit error %s", variant, err)
			}
		}
		if err := e.Close(); err != nil {
			t.Fatalf("variant %v: Close error %s", variant, err)
		}

		d, err := newRangeDecoder(&buf)
		if err != nil {
			t.Fatalf("variant %v: newRangeDecoder error %s", variant, err)
		}
		for i, want := range bits {
			got, err := d.DecodeDirectBit()
			if err != nil {
				t.Fatalf("variant %v: DecodeDirectBit(%d) error %s", variant, i, err)
			}
			if got != want {
				t.Fatalf("variant %v: bit %d: got %d; want %d", variant, i, got, want)
			}
		}
	}
}

func TestRangeCoderModeledBits(t *testing.T) {
	for _, variant := range []Normalization{NormalizeAfter, NormalizeBefore} {
		r := rand.New(rand.NewSource(7))
		bits := make([]uint32, 2000)
		for i := range bits {
			if r.Intn(10) == 0 {
				bits[i] = 1
			}
		}

		var buf bytes.Buffer
		e := newRangeEncoder(&buf, variant)
		pEnc := probInit
		for _, b := range bits {
			if err := e.EncodeBit(&pEnc, b); err != nil {
				t.Fatalf("variant %v: EncodeBit error %s", variant, err)
			}
		}
		if err := e.Close(); err != nil {
			t.Fatalf("variant %v: Close error %s", variant, err)
		}

		d, err := newRangeDecoder(&buf)
		if err != nil {
			t.Fatalf("variant %v: newRangeDecoder error %s", variant, err)
		}
		pDec := probInit
		for i, want := range bits {
			got, err := d.DecodeBit(&pDec)
			if err != nil {
				t.Fatalf("variant %v: DecodeBit(%d) error %s", variant, i, err)
			}
			if got != want {
				t.Fatalf("variant %v: bit %d: got %d; want %d", variant, i, got, want)
			}
		}
		if pEnc != pDec {
			t.Fatalf("variant %v: encoder/decoder probability diverged: %d != %d", variant, pEnc, pDec)
		}
	}
}

func TestRangeCoderVariantsProduceDifferentBytes(t *testing.T) {
	bits := []uint32{1, 0, 1, 1, 0, 0, 1, 0, 1, 1, 0, 1, 0, 0, 0, 1}

	var afterBuf, beforeBuf bytes.Buffer
	for _, tc := range []struct {
		buf     *bytes.Buffer
		variant Normalization
	}{{&afterBuf, NormalizeAfter}, {&beforeBuf, NormalizeBefore}} {
		e := newRangeEncoder(tc.buf, tc.variant)
		p := probInit
		for _, b := range bits {
			if err := e.EncodeBit(&p, b); err != nil {
				t.Fatalf("EncodeBit error %s", err)
			}
		}
		if err := e.Close(); err != nil {
			t.Fatalf("Close error %s", err)
		}
	}

	if bytes.Equal(afterBuf.Bytes(), beforeBuf.Bytes()) {
		t.Fatalf("NormalizeAfter and NormalizeBefore produced identical bytes; the two variants should diverge")
	}

	dAfter, err := newRangeDecoder(bytes.NewReader(afterBuf.Bytes()))
	if err != nil {
		t.Fatalf("newRangeDecoder(after) error %s", err)
	}
	dBefore, err := newRangeDecoder(bytes.NewReader(beforeBuf.Bytes()))
	if err != nil {
		t.Fatalf("newRangeDecoder(before) error %s", err)
	}
	pAfter, pBefore := probInit, probInit
	for i, want := range bits {
		gotAfter, err := dAfter.DecodeBit(&pAfter)
		if err != nil {
			t.Fatalf("after: DecodeBit(%d) error %s", i, err)
		}
		gotBefore, err := dBefore.DecodeBit(&pBefore)
		if err != nil {
			t.Fatalf("before: DecodeBit(%d) error %s", i, err)
		}
		if gotAfter != want || gotBefore != want {
			t.Fatalf("bit %d: after=%d before=%d want %d", i, gotAfter, gotBefore, want)
		}
	}
}
