package lzma

import "testing"

func TestDecoderDictInvalidDistanceRejected(t *testing.T) {
	d := newDecoderDict(1 << 12)
	d.PutByte('a')
	d.PutByte('b')

	if err := d.PutMatch(3, 1); err == nil {
		t.Fatalf("PutMatch with distance beyond written bytes: want error, got nil")
	} else if _, ok := err.(*InvalidDistanceError); !ok {
		t.Fatalf("PutMatch error type = %T; want *InvalidDistanceError", err)
	}

	if err := d.PutMatch(2, 1); err != nil {
		t.Fatalf("PutMatch within bounds: unexpected error %s", err)
	}
}

func TestDecoderDictOverlappingCopy(t *testing.T) {
	d := newDecoderDict(1 << 12)
	d.PutByte('a')
	if err := d.PutMatch(1, 5); err != nil {
		t.Fatalf("PutMatch error %s", err)
	}
	var got []byte
	for i := int64(0); i < d.Pos(); i++ {
		got = append(got, d.buf.byteAt(i))
	}
	want := "aaaaaa"
	if string(got) != want {
		t.Fatalf("got %q; want %q", got, want)
	}
}

func TestDecoderDictDistanceNeverExceedsDictCap(t *testing.T) {
	dictCap := 1 << 12
	d := newDecoderDict(dictCap)
	for i := 0; i < dictCap*3; i++ {
		d.PutByte(byte(i))
	}
	if err := d.PutMatch(uint32(dictCap)+1, 1); err == nil {
		t.Fatalf("PutMatch with distance beyond dictCap: want error, got nil")
	}
	if err := d.PutMatch(uint32(dictCap), 1); err != nil {
		t.Fatalf("PutMatch at exactly dictCap: unexpected error %s", err)
	}
}

func TestBufferDiscardCompacts(t *testing.T) {
	b := newBuffer(16)
	b.write([]byte("abcdefgh"))
	b.discard(4)
	if b.len() != 4 {
		t.Fatalf("len() = %d; want 4", b.len())
	}
	if got := b.byteAt(4); got != 'e' {
		t.Fatalf("byteAt(4) = %q; want 'e'", got)
	}
}
