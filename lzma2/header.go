package lzma2

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/omnizip/omnizip-sub002/lzma"
)

// Chunk size limits the format itself imposes, independent of any
// particular encoder's chunking policy.
const (
	maxUncompressedChunkSize = 1 << 16
	maxCompressedUnpackedSize = 1 << 21
	maxCompressedPackedSize   = 1 << 16
)

// ChunkHeader describes one chunk's framing: how big its payload is,
// what it resets, and (when new properties are signaled) what those
// properties are.
type ChunkHeader struct {
	Control      control
	UnpackedSize int
	PackedSize   int // 0 for uncompressed chunks
	Properties   lzma.Properties
}

func (h ChunkHeader) IsEOS() bool           { return h.Control.isEOS() }
func (h ChunkHeader) IsUncompressed() bool  { return h.Control.isUncompressed() }

// writeChunkHeader writes h's framing bytes (not the payload) to w.
func writeChunkHeader(w io.Writer, h ChunkHeader) error {
	if h.Control.isEOS() {
		_, err := w.Write([]byte{byte(ctrlEOS)})
		return err
	}
	if h.Control.isUncompressed() {
		if !(1 <= h.UnpackedSize && h.UnpackedSize <= maxUncompressedChunkSize) {
			return fmt.Errorf("lzma2: uncompressed chunk size %d out of range", h.UnpackedSize)
		}
		var buf [3]byte
		buf[0] = byte(h.Control)
		binary.BigEndian.PutUint16(buf[1:3], uint16(h.UnpackedSize-1))
		_, err := w.Write(buf[:])
		return err
	}
	if !(1 <= h.UnpackedSize && h.UnpackedSize <= maxCompressedUnpackedSize) {
		return fmt.Errorf("lzma2: compressed chunk unpacked size %d out of range", h.UnpackedSize)
	}
	if !(1 <= h.PackedSize && h.PackedSize <= maxCompressedPackedSize) {
		return fmt.Errorf("lzma2: compressed chunk packed size %d out of range", h.PackedSize)
	}
	u := uint32(h.UnpackedSize - 1)
	buf := make([]byte, 5, 6)
	buf[0] = byte(h.Control) | byte((u>>16)&uint32(unpackedSizeHighMask))
	binary.BigEndian.PutUint16(buf[1:3], uint16(u))
	binary.BigEndian.PutUint16(buf[3:5], uint16(h.PackedSize-1))
	if h.Control.newProps() {
		buf = append(buf, h.Properties.Byte())
	}
	_, err := w.Write(buf)
	return err
}

// readChunkHeader reads one chunk's framing bytes from r. prevProps is
// the properties in effect from the previous chunk, used when this
// chunk doesn't carry its own.
func readChunkHeader(r io.Reader, prevProps lzma.Properties) (ChunkHeader, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return ChunkHeader{}, err
	}
	c := control(b[0])
	switch {
	case c.isEOS():
		return ChunkHeader{Control: c}, nil
	case c.isUncompressed():
		var sz [2]byte
		if _, err := io.ReadFull(r, sz[:]); err != nil {
			return ChunkHeader{}, err
		}
		n := int(binary.BigEndian.Uint16(sz[:])) + 1
		return ChunkHeader{Control: c, UnpackedSize: n}, nil
	case c.isCompressed():
		var rest [4]byte
		if _, err := io.ReadFull(r, rest[:]); err != nil {
			return ChunkHeader{}, err
		}
		hi := uint32(c & unpackedSizeHighMask)
		u := (hi << 16) | uint32(binary.BigEndian.Uint16(rest[0:2]))
		p := uint32(binary.BigEndian.Uint16(rest[2:4]))
		h := ChunkHeader{
			Control:      c,
			UnpackedSize: int(u) + 1,
			PackedSize:   int(p) + 1,
			Properties:   prevProps,
		}
		if c.newProps() {
			var pb [1]byte
			if _, err := io.ReadFull(r, pb[:]); err != nil {
				return ChunkHeader{}, err
			}
			props, err := lzma.PropertiesFromByte(pb[0])
			if err != nil {
				return ChunkHeader{}, err
			}
			h.Properties = props
		}
		return h, nil
	default:
		return ChunkHeader{}, fmt.Errorf("lzma2: invalid chunk control byte 0x%02x", b[0])
	}
}
