package lzma

import "io"

// DecoderConfig gathers what a caller must know to interpret an LZMA1
// bitstream that arrives without (or with a caller-supplied) header:
// the lc/lp/pb triple and the dictionary size the encoder promised.
type DecoderConfig struct {
	Properties Properties
	DictCap    int
}

func (c *DecoderConfig) setDefaults() {
	if c.Properties == (Properties{}) {
		c.Properties = Default()
	}
	if c.DictCap == 0 {
		c.DictCap = 1 << 20
	}
}

// Decoder is a stepped LZMA1 decoder implementing io.Reader: Read
// drains decoded bytes, decoding further ops from the underlying
// stream only as needed to satisfy the caller's buffer.
type Decoder struct {
	dict   *decoderDict
	state  state
	rd     *rangeDecoder
	size   int64 // uncompressed size, -1 if unknown
	eof    bool
	closed bool
}

// NewDecoder wraps r, a raw LZMA1 bitstream (range-coder bytes only, no
// header), decoding up to size bytes if size >= 0, or until the EOS
// match if size < 0.
func NewDecoder(r io.Reader, cfg DecoderConfig, size int64) (*Decoder, error) {
	cfg.setDefaults()
	if err := cfg.Properties.verify(); err != nil {
		return nil, err
	}
	rd, err := newRangeDecoder(r)
	if err != nil {
		return nil, err
	}
	d := &Decoder{dict: newDecoderDict(cfg.DictCap), rd: rd, size: size}
	d.state.reset(cfg.Properties)
	return d, nil
}

// NewStatefulDecoder builds a decoder whose dictionary and coder state
// are initialized but has no range-coder session attached; Read
// decodes nothing until Rearm attaches one. Containers that frame a
// single logical stream as several independently range-coded pieces
// sharing one dictionary and coder state (LZMA2's chunks) use this to
// carry that state across pieces, calling Rearm once per piece and
// Prime to fold in any piece stored without compression.
func NewStatefulDecoder(props Properties, dictCap int) (*Decoder, error) {
	if err := props.verify(); err != nil {
		return nil, err
	}
	d := &Decoder{dict: newDecoderDict(dictCap), size: -1}
	d.state.reset(props)
	return d, nil
}

// Pos reports the decoder's absolute dictionary position.
func (d *Decoder) Pos() int64 { return d.dict.Pos() }

// Prime folds p into the dictionary as history already delivered to
// the caller, without a range-coder session: for data a container
// stores without compression but that later pieces may still
// back-reference.
func (d *Decoder) Prime(p []byte) { d.dict.Prime(p) }

// Rearm attaches a fresh range-coder session reading r to decode a new
// piece of the stream, stopping once the dictionary reaches the
// absolute position limit (or, if limit < 0, only at an EOS match). If
// props is non-nil the coder state is reset and re-keyed to it;
// otherwise the existing state, including its rep-distance history,
// carries over unchanged.
func (d *Decoder) Rearm(r io.Reader, limit int64, props *Properties) error {
	rd, err := newRangeDecoder(r)
	if err != nil {
		return err
	}
	if props != nil {
		d.state.reset(*props)
	}
	d.rd = rd
	d.size = limit
	d.eof = false
	d.closed = false
	return nil
}

// Read decodes as many ops as needed to fill p, returning io.EOF once
// the stream's declared size is reached or its EOS marker is decoded.
func (d *Decoder) Read(p []byte) (n int, err error) {
	if d.closed {
		return 0, errClosedReader
	}
	for {
		if d.dict.Buffered() > 0 {
			m := d.dict.Read(p[n:])
			n += m
			if n == len(p) {
				return n, nil
			}
			continue
		}
		if d.eof || (d.size >= 0 && d.dict.Pos() >= d.size) {
			d.closed = true
			return n, io.EOF
		}
		if err := d.decodeOne(); err != nil {
			return n, err
		}
	}
}

func (d *Decoder) prevByte() byte {
	if d.dict.Pos() == 0 {
		return 0
	}
	return d.dict.ByteAt(1)
}

func (d *Decoder) decodeOne() error {
	pos := d.dict.Pos()
	posState := d.state.posState(pos)
	fsm := d.state.fsm

	bit, err := d.rd.DecodeBit(&d.state.isMatch[fsm<<maxPosBits|posState])
	if err != nil {
		return err
	}
	if bit == 0 {
		return d.decodeLiteral(pos)
	}

	bit, err = d.rd.DecodeBit(&d.state.isRep[fsm])
	if err != nil {
		return err
	}
	if bit == 0 {
		return d.decodeMatch(posState)
	}
	return d.decodeRep(fsm, posState)
}

func (d *Decoder) decodeLiteral(pos int64) error {
	litState := d.state.litState(d.prevByte(), pos)
	matched := d.state.isMatchedLiteral()
	var mb byte
	if matched {
		mb = d.dict.ByteAt(d.state.rep[0] + 1)
	}
	b, err := d.state.lit.Decode(d.rd, litState, matched, mb)
	if err != nil {
		return err
	}
	d.dict.PutByte(b)
	d.state.updateLiteral()
	return nil
}

func (d *Decoder) decodeMatch(posState uint32) error {
	length, err := d.state.length.Decode(d.rd, posState)
	if err != nil {
		return err
	}
	distMinus1, err := d.state.dist.Decode(d.rd, length)
	if err != nil {
		return err
	}
	if distMinus1 == eosDistance {
		d.eof = true
		return nil
	}
	d.state.rep[3], d.state.rep[2], d.state.rep[1], d.state.rep[0] =
		d.state.rep[2], d.state.rep[1], d.state.rep[0], distMinus1
	if err := d.dict.PutMatch(distMinus1+1, length); err != nil {
		return err
	}
	d.state.updateMatch()
	return nil
}

func (d *Decoder) decodeRep(fsm, posState uint32) error {
	bit, err := d.rd.DecodeBit(&d.state.isRepG0[fsm])
	if err != nil {
		return err
	}
	if bit == 0 {
		bit, err = d.rd.DecodeBit(&d.state.isRep0Long[fsm<<maxPosBits|posState])
		if err != nil {
			return err
		}
		if bit == 0 {
			d.dict.PutByte(d.dict.ByteAt(d.state.rep[0] + 1))
			d.state.updateShortRep()
			return nil
		}
	} else {
		var repIdx int
		bit, err = d.rd.DecodeBit(&d.state.isRepG1[fsm])
		if err != nil {
			return err
		}
		if bit == 0 {
			repIdx = 1
		} else {
			bit, err = d.rd.DecodeBit(&d.state.isRepG2[fsm])
			if err != nil {
				return err
			}
			if bit == 0 {
				repIdx = 2
			} else {
				repIdx = 3
			}
		}
		dist := d.state.rep[repIdx]
		for i := repIdx; i > 0; i-- {
			d.state.rep[i] = d.state.rep[i-1]
		}
		d.state.rep[0] = dist
	}
	length, err := d.state.repLen.Decode(d.rd, posState)
	if err != nil {
		return err
	}
	if err := d.dict.PutMatch(d.state.rep[0]+1, length); err != nil {
		return err
	}
	d.state.updateRep()
	return nil
}
