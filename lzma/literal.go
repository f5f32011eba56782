package lzma

// Literal coder parameter ranges. lc is the number of high bits of the
// previous byte folded into the literal context; lp is the number of
// low position bits folded in alongside it.
const (
	minLC, maxLC = 0, 8
	minLP, maxLP = 0, 4
)

// literalCodec codes plain bytes, one bit-tree per (lc,lp) context. When
// the preceding op was a match or rep, the tree is additionally crossed
// with the byte sitting at the match distance in the dictionary (the
// "matched literal" path), which lets the coder cheaply signal "same as
// before" one bit at a time before falling back to the plain tree.
type literalCodec struct {
	lc, lp uint
	probs  []prob
}

func (c *literalCodec) init(lc, lp int) {
	c.lc, c.lp = uint(lc), uint(lp)
	c.probs = make([]prob, 0x300<<(c.lc+c.lp))
	initProbs(c.probs)
}

func (c *literalCodec) state(litState uint32) []prob {
	return c.probs[0x300*litState : 0x300*(litState+1)]
}

func (c *literalCodec) Encode(e *rangeEncoder, b byte, litState uint32, matched bool, matchByte byte) error {
	probs := c.state(litState)
	m := uint32(1)
	if matched {
		mb := uint32(matchByte)
		for i := 7; i >= 0; i-- {
			matchBit := (mb >> uint(i)) & 1
			bit := uint32(b>>uint(i)) & 1
			idx := ((1 + matchBit) << 8) + m
			if err := e.EncodeBit(&probs[idx], bit); err != nil {
				return err
			}
			m = (m << 1) | bit
			if matchBit != bit {
				for i--; i >= 0; i-- {
					bit := uint32(b>>uint(i)) & 1
					if err := e.EncodeBit(&probs[m], bit); err != nil {
						return err
					}
					m = (m << 1) | bit
				}
				return nil
			}
		}
		return nil
	}
	for i := 7; i >= 0; i-- {
		bit := uint32(b>>uint(i)) & 1
		if err := e.EncodeBit(&probs[m], bit); err != nil {
			return err
		}
		m = (m << 1) | bit
	}
	return nil
}

func (c *literalCodec) Decode(d *rangeDecoder, litState uint32, matched bool, matchByte byte) (b byte, err error) {
	probs := c.state(litState)
	m := uint32(1)
	if matched {
		mb := uint32(matchByte)
		for i := 7; i >= 0; i-- {
			matchBit := (mb >> uint(i)) & 1
			idx := ((1 + matchBit) << 8) + m
			bit, err := d.DecodeBit(&probs[idx])
			if err != nil {
				return 0, err
			}
			m = (m << 1) | bit
			if matchBit != bit {
				for m < 0x100 {
					bit, err := d.DecodeBit(&probs[m])
					if err != nil {
						return 0, err
					}
					m = (m << 1) | bit
				}
				return byte(m), nil
			}
		}
		return byte(m), nil
	}
	for m < 0x100 {
		bit, err := d.DecodeBit(&probs[m])
		if err != nil {
			return 0, err
		}
		m = (m << 1) | bit
	}
	return byte(m), nil
}

func (c *literalCodec) Price(b byte, litState uint32, matched bool, matchByte byte) uint32 {
	probs := c.state(litState)
	m := uint32(1)
	var price uint32
	if matched {
		mb := uint32(matchByte)
		for i := 7; i >= 0; i-- {
			matchBit := (mb >> uint(i)) & 1
			bit := uint32(b>>uint(i)) & 1
			idx := ((1 + matchBit) << 8) + m
			price += bitPrice(probs[idx], bit)
			m = (m << 1) | bit
			if matchBit != bit {
				for i--; i >= 0; i-- {
					bit := uint32(b>>uint(i)) & 1
					price += bitPrice(probs[m], bit)
					m = (m << 1) | bit
				}
				return price
			}
		}
		return price
	}
	for i := 7; i >= 0; i-- {
		bit := uint32(b>>uint(i)) & 1
		price += bitPrice(probs[m], bit)
		m = (m << 1) | bit
	}
	return price
}
