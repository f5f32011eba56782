package lzma

import (
	"encoding/binary"
	"io"
)

// headerLen is the size of the classic LZMA1 (".lzma") stream header:
// one properties byte, a little-endian u32 dictionary size, and a
// little-endian u64 uncompressed size (all-ones if unknown).
const headerLen = 1 + 4 + 8

// unknownSize marks an LZMA1 header's size field as "not recorded";
// decoders must then rely on the EOS marker instead.
const unknownSize uint64 = 1<<64 - 1

// Header is the information an LZMA1 stream's 13-byte header carries.
type Header struct {
	Properties Properties
	DictCap    int
	Size       int64 // -1 if unknown
}

// WriteHeader writes a classic LZMA1 header to w.
func WriteHeader(w io.Writer, h Header) error {
	var buf [headerLen]byte
	buf[0] = h.Properties.Byte()
	binary.LittleEndian.PutUint32(buf[1:5], uint32(h.DictCap))
	size := unknownSize
	if h.Size >= 0 {
		size = uint64(h.Size)
	}
	binary.LittleEndian.PutUint64(buf[5:13], size)
	_, err := w.Write(buf[:])
	return err
}

// ReadHeader reads and validates a classic LZMA1 header from r.
func ReadHeader(r io.Reader) (Header, error) {
	var buf [headerLen]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Header{}, err
	}
	props, err := PropertiesFromByte(buf[0])
	if err != nil {
		return Header{}, errMalformedHeader(err.Error())
	}
	dictCap := binary.LittleEndian.Uint32(buf[1:5])
	if dictCap < MinDictCap {
		dictCap = MinDictCap
	}
	rawSize := binary.LittleEndian.Uint64(buf[5:13])
	size := int64(-1)
	if rawSize != unknownSize {
		if rawSize > 1<<62 {
			return Header{}, errMalformedHeader("uncompressed size implausibly large")
		}
		size = int64(rawSize)
	}
	return Header{Properties: props, DictCap: int(dictCap), Size: size}, nil
}

// MinDictCap and MaxDictCap bound the dictionary sizes a header can
// declare; values outside this range are clamped (Min) or rejected
// (Max) rather than trusted verbatim from untrusted input.
const (
	MinDictCap = minDictCap
	MaxDictCap = maxDictCap
)
