package lzma

import "fmt"

// Valid ranges for the three coder-shape parameters packed into the
// LZMA1 stream header's single properties byte.
const (
	MinLC, MaxLC = 0, 8
	MinLP, MaxLP = 0, 4
	MinPB, MaxPB = 0, 4

	// DefaultLC, DefaultLP and DefaultPB match the values nearly every
	// encoder picks absent a reason to do otherwise.
	DefaultLC = 3
	DefaultLP = 0
	DefaultPB = 2
)

// Properties holds the lc/lp/pb triple that shapes the literal and
// length/distance coders: lc high bits of the previous byte and lp low
// bits of position feed the literal context; pb low bits of position
// select the is-match/length submodels.
type Properties struct {
	LC int
	LP int
	PB int
}

// Default returns the conventional lc=3, lp=0, pb=2 properties.
func Default() Properties { return Properties{LC: DefaultLC, LP: DefaultLP, PB: DefaultPB} }

func (p Properties) verify() error {
	if !(MinLC <= p.LC && p.LC <= MaxLC) {
		return fmt.Errorf("lzma: lc=%d out of range [%d,%d]", p.LC, MinLC, MaxLC)
	}
	if !(MinLP <= p.LP && p.LP <= MaxLP) {
		return fmt.Errorf("lzma: lp=%d out of range [%d,%d]", p.LP, MinLP, MaxLP)
	}
	if !(MinPB <= p.PB && p.PB <= MaxPB) {
		return fmt.Errorf("lzma: pb=%d out of range [%d,%d]", p.PB, MinPB, MaxPB)
	}
	return nil
}

// Byte packs the properties into the single byte the LZMA1 header and
// the LZMA2 chunk header's "new properties" form both use:
// (pb*5+lp)*9+lc.
func (p Properties) Byte() byte {
	return byte((p.PB*5+p.LP)*9 + p.LC)
}

// PropertiesFromByte unpacks a properties byte back into lc/lp/pb.
func PropertiesFromByte(b byte) (Properties, error) {
	d := int(b)
	if d >= 9*5*5 {
		return Properties{}, fmt.Errorf("lzma: invalid properties byte 0x%02x", b)
	}
	lc := d % 9
	d /= 9
	lp := d % 5
	pb := d / 5
	p := Properties{LC: lc, LP: lp, PB: pb}
	if err := p.verify(); err != nil {
		return Properties{}, err
	}
	return p, nil
}
