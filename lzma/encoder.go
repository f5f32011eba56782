package lzma

import "io"

// EncoderConfig gathers the knobs a caller can set before compressing:
// the lc/lp/pb triple, how much history to keep, which range-coder
// normalization to emit, and how hard the parser should look for
// matches.
type EncoderConfig struct {
	Properties    Properties
	DictCap       int
	BufSize       int
	Normalization Normalization
	BinTree       bool // use the binTree finder instead of hashChain
	Depth         int
	NiceLen       uint32
	Fast          bool // greedy fastParser instead of the lazy normalParser
}

func (c *EncoderConfig) setDefaults() {
	if c.Properties == (Properties{}) {
		c.Properties = Default()
	}
	if c.DictCap == 0 {
		c.DictCap = 1 << 20
	}
	if c.BufSize == 0 {
		c.BufSize = 4096
	}
	if c.Depth == 0 {
		c.Depth = 32
	}
	if c.NiceLen == 0 {
		c.NiceLen = defaultNiceLen
	}
}

// Encoder is a stepped LZMA1 encoder: Write buffers input and emits as
// many coded bytes as the lookahead margin allows; Close drains the
// rest and appends the EOS marker.
type Encoder struct {
	dict         *encoderDict
	state        state
	re           *rangeEncoder
	parser       parser
	niceLen      uint32
	matchScratch []matchCandidate
	closed       bool
}

// NewEncoder constructs an encoder writing a bare LZMA1 bitstream (no
// header) to w.
func NewEncoder(w io.Writer, cfg EncoderConfig) (*Encoder, error) {
	cfg.setDefaults()
	if err := cfg.Properties.verify(); err != nil {
		return nil, err
	}
	var m matcher
	if cfg.BinTree {
		m = newBinTree(cfg.DictCap, cfg.Depth)
	} else {
		m = newHashChain(cfg.DictCap, cfg.Depth)
	}
	e := &Encoder{
		dict:         newEncoderDict(cfg.DictCap, cfg.BufSize, m),
		re:           newRangeEncoder(w, cfg.Normalization),
		niceLen:      cfg.NiceLen,
		matchScratch: make([]matchCandidate, 0, 64),
	}
	e.state.reset(cfg.Properties)
	if cfg.Fast {
		e.parser = fastParser{niceLen: cfg.NiceLen}
	} else {
		e.parser = normalParser{niceLen: cfg.NiceLen}
	}
	return e, nil
}

// Write buffers p and compresses as much of the accumulated lookahead
// as the dictionary's spare capacity allows. Callers that want every
// byte flushed through the coder must call Close.
func (e *Encoder) Write(p []byte) (n int, err error) {
	if e.closed {
		return 0, errClosedWriter
	}
	const margin = minLength + int64(maxLength)
	for len(p) > 0 {
		space := e.dict.buf.space()
		if space <= 0 {
			if err := e.compress(margin); err != nil {
				return n, err
			}
			if e.dict.buf.space() <= 0 {
				return n, errAgain
			}
			continue
		}
		chunk := p
		if int64(len(chunk)) > space {
			chunk = chunk[:space]
		}
		if _, err := e.dict.Write(chunk); err != nil {
			return n, err
		}
		n += len(chunk)
		p = p[len(chunk):]
		if err := e.compress(margin); err != nil {
			return n, err
		}
	}
	return n, nil
}

// compress runs the parser while at least margin bytes of lookahead
// remain buffered beyond the cursor, which keeps the matcher from ever
// searching past the end of buffered input.
func (e *Encoder) compress(margin int64) error {
	if e.re == nil {
		return nil
	}
	for e.dict.Available() > margin {
		o := e.parser.parse(e)
		if err := e.writeOp(o); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes every remaining lookahead byte, writes the EOS match,
// and closes the range coder.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	if err := e.flushLookahead(); err != nil {
		return err
	}
	if err := e.writeEOS(); err != nil {
		return err
	}
	return e.re.Close()
}

func (e *Encoder) flushLookahead() error {
	for e.dict.Available() > 0 {
		o := e.parser.parse(e)
		if err := e.writeOp(o); err != nil {
			return err
		}
	}
	return nil
}

// NewStatefulEncoder builds an encoder whose dictionary and coder
// state are initialized but has no range-coder session attached;
// Write buffers input as usual, but nothing reaches a writer until
// Rearm attaches one. Containers that frame a single logical stream as
// several independently range-coded pieces sharing one dictionary and
// coder state (LZMA2's chunks) use this, together with Rearm and
// FinishChunk, to carry that state across pieces.
func NewStatefulEncoder(cfg EncoderConfig) (*Encoder, error) {
	cfg.setDefaults()
	if err := cfg.Properties.verify(); err != nil {
		return nil, err
	}
	var m matcher
	if cfg.BinTree {
		m = newBinTree(cfg.DictCap, cfg.Depth)
	} else {
		m = newHashChain(cfg.DictCap, cfg.Depth)
	}
	e := &Encoder{
		dict:         newEncoderDict(cfg.DictCap, cfg.BufSize, m),
		niceLen:      cfg.NiceLen,
		matchScratch: make([]matchCandidate, 0, 64),
	}
	e.state.reset(cfg.Properties)
	if cfg.Fast {
		e.parser = fastParser{niceLen: cfg.NiceLen}
	} else {
		e.parser = normalParser{niceLen: cfg.NiceLen}
	}
	return e, nil
}

// Rearm attaches a fresh range-coder session writing to w, for
// encoding a new piece of the stream; the dictionary and coder state
// already accumulated carry over unchanged.
func (e *Encoder) Rearm(w io.Writer, norm Normalization) {
	e.re = newRangeEncoder(w, norm)
	e.closed = false
}

// FinishChunk flushes all buffered lookahead through the parser and
// closes the attached range-coder session, without writing the LZMA1
// end-of-stream match. The dictionary and coder state remain live for
// a following Rearm.
func (e *Encoder) FinishChunk() error {
	if err := e.flushLookahead(); err != nil {
		return err
	}
	return e.re.Close()
}

func (e *Encoder) writeOp(o op) error {
	pos := e.dict.Pos()
	posState := e.state.posState(pos)
	switch {
	case o.isLit:
		if err := e.writeLiteral(o.lit, pos); err != nil {
			return err
		}
		e.dict.Advance(1)
		e.state.updateLiteral()
		return nil
	case o.isRep:
		return e.writeRep(o, posState)
	default:
		return e.writeMatch(o, posState)
	}
}

func (e *Encoder) writeLiteral(b byte, pos int64) error {
	fsm, ps := e.state.fsm, e.state.posState(pos)
	if err := e.re.EncodeBit(&e.state.isMatch[fsm<<maxPosBits|ps], 0); err != nil {
		return err
	}
	litState := e.state.litState(e.prevByte(pos), pos)
	if e.state.isMatchedLiteral() {
		mb := e.dict.ByteAt(e.state.rep[0] + 1)
		return e.state.lit.Encode(e.re, b, litState, true, mb)
	}
	return e.state.lit.Encode(e.re, b, litState, false, 0)
}

func (e *Encoder) prevByte(pos int64) byte {
	if pos == 0 {
		return 0
	}
	return e.dict.ByteAt(1)
}

func (e *Encoder) writeMatch(o op, posState uint32) error {
	fsm := e.state.fsm
	if err := e.re.EncodeBit(&e.state.isMatch[fsm<<maxPosBits|posState], 1); err != nil {
		return err
	}
	if err := e.re.EncodeBit(&e.state.isRep[fsm], 0); err != nil {
		return err
	}
	e.state.rep[3], e.state.rep[2], e.state.rep[1], e.state.rep[0] = e.state.rep[2], e.state.rep[1], e.state.rep[0], o.dist-1
	if err := e.state.length.Encode(e.re, o.length, posState); err != nil {
		return err
	}
	if err := e.state.dist.Encode(e.re, o.dist-1, o.length); err != nil {
		return err
	}
	e.dict.Advance(int64(o.length))
	e.state.updateMatch()
	return nil
}

func (e *Encoder) writeRep(o op, posState uint32) error {
	fsm := e.state.fsm
	if err := e.re.EncodeBit(&e.state.isMatch[fsm<<maxPosBits|posState], 1); err != nil {
		return err
	}
	if err := e.re.EncodeBit(&e.state.isRep[fsm], 1); err != nil {
		return err
	}
	dist := e.state.rep[o.repIdx]
	if o.repIdx == 0 {
		if err := e.re.EncodeBit(&e.state.isRepG0[fsm], 0); err != nil {
			return err
		}
		if o.length == 1 {
			if err := e.re.EncodeBit(&e.state.isRep0Long[fsm<<maxPosBits|posState], 0); err != nil {
				return err
			}
			e.dict.Advance(1)
			e.state.updateShortRep()
			return nil
		}
		if err := e.re.EncodeBit(&e.state.isRep0Long[fsm<<maxPosBits|posState], 1); err != nil {
			return err
		}
	} else {
		if err := e.re.EncodeBit(&e.state.isRepG0[fsm], 1); err != nil {
			return err
		}
		if o.repIdx == 1 {
			if err := e.re.EncodeBit(&e.state.isRepG1[fsm], 0); err != nil {
				return err
			}
		} else {
			if err := e.re.EncodeBit(&e.state.isRepG1[fsm], 1); err != nil {
				return err
			}
			if o.repIdx == 2 {
				if err := e.re.EncodeBit(&e.state.isRepG2[fsm], 0); err != nil {
					return err
				}
			} else {
				if err := e.re.EncodeBit(&e.state.isRepG2[fsm], 1); err != nil {
					return err
				}
			}
		}
		for i := o.repIdx; i > 0; i-- {
			e.state.rep[i] = e.state.rep[i-1]
		}
		e.state.rep[0] = dist
	}
	if err := e.state.repLen.Encode(e.re, o.length, posState); err != nil {
		return err
	}
	e.dict.Advance(int64(o.length))
	e.state.updateRep()
	return nil
}

// eosDistance is the sentinel rep0 value (all ones) that marks the LZMA1
// end-of-stream match.
const eosDistance = 0xffffffff

func (e *Encoder) writeEOS() error {
	posState := e.state.posState(e.dict.Pos())
	fsm := e.state.fsm
	if err := e.re.EncodeBit(&e.state.isMatch[fsm<<maxPosBits|posState], 1); err != nil {
		return err
	}
	if err := e.re.EncodeBit(&e.state.isRep[fsm], 0); err != nil {
		return err
	}
	if err := e.state.length.Encode(e.re, minLength, posState); err != nil {
		return err
	}
	return e.state.dist.Encode(e.re, eosDistance, minLength)
}

// priceOp and literalPrice let the lazy parser compare candidate ops
// without mutating any probability model.
func (e *Encoder) priceOp(o op, lookAhead int64) uint32 {
	pos := e.dict.Pos() + lookAhead
	posState := e.state.posState(pos)
	fsm := e.state.fsm
	if o.isRep {
		price := bitPrice(e.state.isMatch[fsm<<maxPosBits|posState], 1) + bitPrice(e.state.isRep[fsm], 1)
		price += e.state.repLen.Price(o.length, posState)
		return price
	}
	price := bitPrice(e.state.isMatch[fsm<<maxPosBits|posState], 1) + bitPrice(e.state.isRep[fsm], 0)
	price += e.state.length.Price(o.length, posState)
	price += e.state.dist.Price(o.dist-1, o.length)
	return price
}

func (e *Encoder) literalPrice(lookAhead int64) uint32 {
	pos := e.dict.Pos() + lookAhead
	posState := e.state.posState(pos)
	fsm := e.state.fsm
	price := bitPrice(e.state.isMatch[fsm<<maxPosBits|posState], 0)
	b := e.dict.ByteAtOffset(lookAhead)
	litState := e.state.litState(e.prevByte(pos), pos)
	if e.state.isMatchedLiteral() {
		mb := e.dict.ByteAt(e.state.rep[0] + 1)
		price += e.state.lit.Price(b, litState, true, mb)
	} else {
		price += e.state.lit.Price(b, litState, false, 0)
	}
	return price
}
