package lzma

import "math/bits"

// Distance range and slot-model geometry. LZMA never encodes a raw
// distance directly above 4 bits of precision; beyond that it splits the
// value into a 6-bit "slot" (chosen per length-state) plus a variable
// number of footer bits, the low 4 of which always go through the
// shared "align" model and the rest of which are coded either through a
// small per-slot probability table (close distances) or as direct
// equiprobable bits (far distances).
const (
	minDistance = 1
	maxDistance = 1 << 32

	numLenToPosStates = 4
	numPosSlotBits    = 6
	numAlignBits      = 4
	endPosModelIndex  = 14
	numFullDistances  = 1 << (endPosModelIndex >> 1)
)

// lenToPosState maps a match length to one of the four length-states
// used to select a posSlot submodel.
func lenToPosState(length uint32) uint32 {
	l := length - minLength
	if l < numLenToPosStates {
		return l
	}
	return numLenToPosStates - 1
}

// distCodec encodes/decodes match distances. Close distances (slot <
// endPosModelIndex) reuse a shared, context-sensitive probability table
// indexed by slot; far distances spend their high footer bits as direct
// bits and only their low 4 bits (the "align" bits) through a model.
type distCodec struct {
	posSlot  [numLenToPosStates]treeEncoder
	posSlotD [numLenToPosStates]treeDecoder
	specPos  []prob
	align    treeReverseEncoder
	alignD   treeReverseDecoder
}

func (c *distCodec) init() {
	for i := range c.posSlot {
		c.posSlot[i] = makeTreeEncoder(numPosSlotBits)
		c.posSlotD[i] = makeTreeDecoder(numPosSlotBits)
	}
	c.specPos = make([]prob, numFullDistances-endPosModelIndex)
	initProbs(c.specPos)
	c.align = makeTreeReverseEncoder(numAlignBits)
	c.alignD = makeTreeReverseDecoder(numAlignBits)
}

// slotFooterBits returns the number of footer bits a given posSlot
// carries and the base value those footer bits are added to.
func slotFooterBits(slot uint32) (footerBits uint, base uint32) {
	footerBits = uint(slot>>1) - 1
	base = (2 | (slot & 1)) << footerBits
	return
}

func (c *distCodec) Encode(e *rangeEncoder, dist uint32, length uint32) error {
	lenState := lenToPosState(length)
	slot := distSlot(dist)
	if err := c.posSlot[lenState].Encode(e, slot); err != nil {
		return err
	}
	if slot < 4 {
		return nil
	}
	footerBits, base := slotFooterBits(slot)
	footer := dist - base
	if slot < endPosModelIndex {
		off := base - slot - 1
		return reverseEncodeBits(e, c.specPos, off, footerBits, footer)
	}
	if err := makeDirectCodec(int(footerBits - numAlignBits)).Encode(e, footer>>numAlignBits); err != nil {
		return err
	}
	return c.align.Encode(e, footer&((1<<numAlignBits)-1))
}

func (c *distCodec) Decode(d *rangeDecoder, length uint32) (dist uint32, err error) {
	lenState := lenToPosState(length)
	slot, err := c.posSlotD[lenState].Decode(d)
	if err != nil {
		return 0, err
	}
	if slot < 4 {
		return slot, nil
	}
	footerBits, base := slotFooterBits(slot)
	if slot < endPosModelIndex {
		off := base - slot - 1
		footer, err := reverseDecodeBits(d, c.specPos, off, footerBits)
		if err != nil {
			return 0, err
		}
		return base + footer, nil
	}
	hi, err := makeDirectCodec(int(footerBits - numAlignBits)).Decode(d)
	if err != nil {
		return 0, err
	}
	lo, err := c.alignD.Decode(d)
	if err != nil {
		return 0, err
	}
	return base + (hi << numAlignBits) + lo, nil
}

func (c *distCodec) Price(dist uint32, length uint32) uint32 {
	lenState := lenToPosState(length)
	slot := distSlot(dist)
	price := treePrice(&c.posSlot[lenState].probTree, slot)
	if slot < 4 {
		return price
	}
	footerBits, base := slotFooterBits(slot)
	footer := dist - base
	if slot < endPosModelIndex {
		off := base - slot - 1
		return price + reverseBitsPrice(c.specPos, off, footerBits, footer)
	}
	price += directPrice(int(footerBits - numAlignBits))
	return price + treeReversePrice(&c.align.probTree, footer&((1<<numAlignBits)-1))
}

// distSlot computes the 6-bit slot for a distance. A distance below 4
// is its own slot; above that, the slot is derived from the position of
// its highest set bit. math/bits.LeadingZeros32 stands in for the de
// Bruijn bit-scan tricks the reference coders use for the same
// computation — both are O(1); there is no ecosystem library in this
// domain for a single bit-scan instruction.
func distSlot(dist uint32) uint32 {
	if dist < 4 {
		return dist
	}
	n := uint32(31 - bits.LeadingZeros32(dist))
	return (n << 1) | ((dist >> (n - 1)) & 1)
}

// reverseEncodeBits/reverseDecodeBits walk a shared probability slice
// the way treeReverseEncoder/Decoder do, but over an arbitrary subslice
// (offset, numBits) rather than a dedicated probTree — the specPos
// table packs many differently-sized reverse trees back to back.
func reverseEncodeBits(e *rangeEncoder, probs []prob, off uint32, numBits uint, v uint32) error {
	m := uint32(1)
	for i := uint(0); i < numBits; i++ {
		b := (v >> i) & 1
		if err := e.EncodeBit(&probs[off+m], b); err != nil {
			return err
		}
		m = (m << 1) | b
	}
	return nil
}

func reverseDecodeBits(d *rangeDecoder, probs []prob, off uint32, numBits uint) (v uint32, err error) {
	m := uint32(1)
	for i := uint(0); i < numBits; i++ {
		b, err := d.DecodeBit(&probs[off+m])
		if err != nil {
			return 0, err
		}
		m = (m << 1) | b
		v |= b << i
	}
	return v, nil
}

func reverseBitsPrice(probs []prob, off uint32, numBits uint, v uint32) uint32 {
	var price uint32
	m := uint32(1)
	for i := uint(0); i < numBits; i++ {
		b := (v >> i) & 1
		price += bitPrice(probs[off+m], b)
		m = (m << 1) | b
	}
	return price
}
