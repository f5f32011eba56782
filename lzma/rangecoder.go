package lzma

import "io"

// Normalization selects when the range encoder rescales range/low
// relative to encoding a bit. The two reference implementations this
// core must interoperate with disagree here: the 7-Zip SDK normalizes
// after updating range/low, XZ Utils normalizes before. Both produce
// valid, independently decodable LZMA streams, just not the same bytes
// for the same input. The decoder does not need to know which one
// produced a given stream.
type Normalization int

const (
	// NormalizeAfter matches the 7-Zip SDK: low/range are updated for
	// the bit first, then rescaled if range has dropped below 2^24.
	NormalizeAfter Normalization = iota
	// NormalizeBefore matches XZ Utils: range is rescaled first (if
	// needed), then low/range are updated for the bit.
	NormalizeBefore
)

const topValue = 1 << 24

// byteWriter adapts an io.Writer to io.ByteWriter when it doesn't
// already implement it.
type byteWriter struct {
	io.Writer
	buf [1]byte
}

func newByteWriter(w io.Writer) io.ByteWriter {
	if bw, ok := w.(io.ByteWriter); ok {
		return bw
	}
	return &byteWriter{Writer: w}
}

func (b *byteWriter) WriteByte(c byte) error {
	b.buf[0] = c
	_, err := b.Write(b.buf[:])
	return err
}

// byteReader adapts an io.Reader to io.ByteReader when it doesn't
// already implement it.
type byteReader struct {
	io.Reader
	buf [1]byte
}

func newByteReader(r io.Reader) io.ByteReader {
	if br, ok := r.(io.ByteReader); ok {
		return br
	}
	return &byteReader{Reader: r}
}

func (b *byteReader) ReadByte() (byte, error) {
	_, err := io.ReadFull(b.Reader, b.buf[:])
	return b.buf[0], err
}

// rangeEncoder implements the LZMA arithmetic coder. low can overflow a
// 32-bit value, hence uint64; cache and cacheLen handle the carry that
// overflow produces.
type rangeEncoder struct {
	w        io.ByteWriter
	variant  Normalization
	nrange   uint32
	low      uint64
	cache    byte
	cacheLen int64
	pending  int64 // bytes written, for limit bookkeeping
}

func newRangeEncoder(w io.Writer, variant Normalization) *rangeEncoder {
	return &rangeEncoder{
		w:        newByteWriter(w),
		variant:  variant,
		nrange:   0xffffffff,
		cacheLen: 1,
	}
}

// shiftLow emits one byte of output, propagating any carry out of low
// into the cached byte and any queued 0xFF run.
func (e *rangeEncoder) shiftLow() error {
	if uint32(e.low) < 0xff000000 || (e.low>>32) != 0 {
		carry := byte(e.low >> 32)
		tmp := e.cache
		for {
			if err := e.w.WriteByte(tmp + carry); err != nil {
				return err
			}
			e.pending++
			tmp = 0xff
			e.cacheLen--
			if e.cacheLen <= 0 {
				break
			}
		}
		e.cache = byte(uint32(e.low) >> 24)
	}
	e.cacheLen++
	e.low = uint64(uint32(e.low) << 8)
	return nil
}

func (e *rangeEncoder) normalize() error {
	if e.nrange >= topValue {
		return nil
	}
	e.nrange <<= 8
	return e.shiftLow()
}

// EncodeBit encodes bit against the adaptive probability p, updating p.
func (e *rangeEncoder) EncodeBit(p *prob, bit uint32) error {
	if e.variant == NormalizeBefore {
		if err := e.normalize(); err != nil {
			return err
		}
	}
	bound := p.bound(e.nrange)
	if bit == 0 {
		e.nrange = bound
		p.inc()
	} else {
		e.low += uint64(bound)
		e.nrange -= bound
		p.dec()
	}
	if e.variant == NormalizeAfter {
		return e.normalize()
	}
	return nil
}

// EncodeDirectBit encodes bit with fixed probability 1/2; no model is
// touched.
func (e *rangeEncoder) EncodeDirectBit(bit uint32) error {
	if e.variant == NormalizeBefore {
		if err := e.normalize(); err != nil {
			return err
		}
	}
	e.nrange >>= 1
	e.low += uint64(e.nrange) & (0 - (uint64(bit) & 1))
	if e.variant == NormalizeAfter {
		return e.normalize()
	}
	return nil
}

// Close flushes the five bytes needed for the decoder to read low to
// its end.
func (e *rangeEncoder) Close() error {
	for i := 0; i < 5; i++ {
		if err := e.shiftLow(); err != nil {
			return err
		}
	}
	return nil
}

// rangeDecoder mirrors the encoder. It is variant-agnostic: it only
// depends on range/code, which evolve identically regardless of which
// encoder normalization strategy produced the stream. It normalizes
// before each bit, so it never reads a byte beyond what a
// NormalizeBefore encoder flushes.
type rangeDecoder struct {
	r      io.ByteReader
	nrange uint32
	code   uint32
}

func newRangeDecoder(r io.Reader) (*rangeDecoder, error) {
	d := &rangeDecoder{r: newByteReader(r), nrange: 0xffffffff}
	b, err := d.r.ReadByte()
	if err != nil {
		return nil, err
	}
	if b != 0 {
		return nil, errMalformedStream("first range coder byte must be zero")
	}
	for i := 0; i < 4; i++ {
		if err := d.updateCode(); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *rangeDecoder) updateCode() error {
	b, err := d.r.ReadByte()
	if err != nil {
		return err
	}
	d.code = (d.code << 8) | uint32(b)
	return nil
}

func (d *rangeDecoder) normalize() error {
	if d.nrange < topValue {
		d.nrange <<= 8
		return d.updateCode()
	}
	return nil
}

// DecodeBit decodes a bit against probability p, updating p.
func (d *rangeDecoder) DecodeBit(p *prob) (bit uint32, err error) {
	if err = d.normalize(); err != nil {
		return 0, err
	}
	bound := p.bound(d.nrange)
	if d.code < bound {
		d.nrange = bound
		p.inc()
		bit = 0
	} else {
		d.code -= bound
		d.nrange -= bound
		p.dec()
		bit = 1
	}
	return bit, nil
}

// DecodeDirectBit decodes a bit with fixed probability 1/2.
func (d *rangeDecoder) DecodeDirectBit() (bit uint32, err error) {
	if err = d.normalize(); err != nil {
		return 0, err
	}
	d.nrange >>= 1
	d.code -= d.nrange
	t := 0 - (d.code >> 31)
	d.code += d.nrange & t
	return (t + 1) & 1, nil
}

// atStreamEnd reports whether the decoder's code register has drained
// to zero, the state a well-formed stream leaves behind at EOS.
func (d *rangeDecoder) atStreamEnd() bool {
	return d.code == 0
}
