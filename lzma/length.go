package lzma

// Length range supported by the length coder.
const (
	minLength = 2
	maxLength = minLength + 8 + 8 + 256 - 1 // 273
)

// lengthCodec encodes match (or rep) lengths in [minLength, maxLength]
// using a three-tier choice: an 8-value low tier and an 8-value mid tier,
// each selected per pos-state, and a 256-value high tier shared across
// pos-states.
type lengthCodec struct {
	choice1 prob
	choice2 prob
	low     [1 << maxPosBits]treeEncoder
	lowD    [1 << maxPosBits]treeDecoder
	mid     [1 << maxPosBits]treeEncoder
	midD    [1 << maxPosBits]treeDecoder
	high    treeEncoder
	highD   treeDecoder
}

func (c *lengthCodec) init() {
	c.choice1, c.choice2 = probInit, probInit
	for i := range c.low {
		c.low[i] = makeTreeEncoder(3)
		c.lowD[i] = makeTreeDecoder(3)
		c.mid[i] = makeTreeEncoder(3)
		c.midD[i] = makeTreeDecoder(3)
	}
	c.high = makeTreeEncoder(8)
	c.highD = makeTreeDecoder(8)
}

func (c *lengthCodec) Encode(e *rangeEncoder, length uint32, posState uint32) error {
	l := length - minLength
	if l < 8 {
		if err := e.EncodeBit(&c.choice1, 0); err != nil {
			return err
		}
		return c.low[posState].Encode(e, l)
	}
	if err := e.EncodeBit(&c.choice1, 1); err != nil {
		return err
	}
	if l < 16 {
		if err := e.EncodeBit(&c.choice2, 0); err != nil {
			return err
		}
		return c.mid[posState].Encode(e, l-8)
	}
	if err := e.EncodeBit(&c.choice2, 1); err != nil {
		return err
	}
	return c.high.Encode(e, l-16)
}

func (c *lengthCodec) Decode(d *rangeDecoder, posState uint32) (length uint32, err error) {
	b, err := d.DecodeBit(&c.choice1)
	if err != nil {
		return 0, err
	}
	if b == 0 {
		l, err := c.lowD[posState].Decode(d)
		return l + minLength, err
	}
	b, err = d.DecodeBit(&c.choice2)
	if err != nil {
		return 0, err
	}
	if b == 0 {
		l, err := c.midD[posState].Decode(d)
		return l + minLength + 8, err
	}
	l, err := c.highD.Decode(d)
	return l + minLength + 16, err
}

// Price returns the bit cost of encoding length using this codec's
// current probability state.
func (c *lengthCodec) Price(length uint32, posState uint32) uint32 {
	l := length - minLength
	if l < 8 {
		return bitPrice(c.choice1, 0) + treePrice(&c.low[posState].probTree, l)
	}
	if l < 16 {
		return bitPrice(c.choice1, 1) + bitPrice(c.choice2, 0) +
			treePrice(&c.mid[posState].probTree, l-8)
	}
	return bitPrice(c.choice1, 1) + bitPrice(c.choice2, 1) +
		treePrice(&c.high.probTree, l-16)
}
