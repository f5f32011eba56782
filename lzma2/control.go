// Package lzma2 implements the LZMA2 chunked container format: a
// sequence of independently framed chunks, each either stored
// uncompressed or LZMA1-compressed, that may reset the coder state
// and/or dictionary content at chunk boundaries. It builds on
// github.com/omnizip/omnizip-sub002/lzma for the compressed-chunk
// payload codec.
package lzma2

import "github.com/omnizip/omnizip-sub002/lzma"

// control is the first byte of every chunk. Its top bit distinguishes
// compressed chunks (>=0x80) from uncompressed ones and the end marker
// (<0x80).
type control byte

const (
	ctrlEOS            control = 0x00
	ctrlUncompressedDR  control = 0x01 // uncompressed, reset dictionary
	ctrlUncompressed    control = 0x02 // uncompressed, no reset

	ctrlCompressedMask       control = 0xe0
	ctrlCompressed           control = 0x80 // no reset
	ctrlCompressedReset      control = 0xa0 // reset state
	ctrlCompressedResetProps control = 0xc0 // reset state, new props
	ctrlCompressedResetAll   control = 0xe0 // reset state, new props, reset dict

	unpackedSizeHighMask control = 0x1f
)

func (c control) isEOS() bool         { return c == ctrlEOS }
func (c control) isUncompressed() bool { return c == ctrlUncompressedDR || c == ctrlUncompressed }
func (c control) isCompressed() bool  { return c&0x80 != 0 }

func (c control) resetsDict() bool {
	if c == ctrlUncompressedDR {
		return true
	}
	if !c.isCompressed() {
		return false
	}
	return c&ctrlCompressedMask == ctrlCompressedResetAll
}

func (c control) resetsState() bool {
	if !c.isCompressed() {
		return false
	}
	return c&ctrlCompressedMask != ctrlCompressed
}

func (c control) newProps() bool {
	if !c.isCompressed() {
		return false
	}
	m := c & ctrlCompressedMask
	return m == ctrlCompressedResetProps || m == ctrlCompressedResetAll
}

// resetKind packages the three independent reset decisions a control
// byte can make, for callers that want to branch once instead of
// calling all three predicates.
type resetKind struct {
	dict, state, props bool
}

func (c control) reset() resetKind {
	return resetKind{dict: c.resetsDict(), state: c.resetsState(), props: c.newProps()}
}

// computeCompressedControl builds the control byte for a compressed chunk given
// which resets it must signal; dict reset implies state and props
// reset, and props reset implies state reset, mirroring the format's
// nesting.
func computeCompressedControl(r resetKind) control {
	switch {
	case r.dict:
		return ctrlCompressedResetAll
	case r.props:
		return ctrlCompressedResetProps
	case r.state:
		return ctrlCompressedReset
	default:
		return ctrlCompressed
	}
}

// defaultProperties keys the decoder that an uncompressed chunk installs
// before any chunk has carried properties; a compressed chunk arriving
// in that situation is rejected instead.
var defaultProperties = lzma.Default()
