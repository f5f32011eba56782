package lzma2

import (
	"bytes"
	"io"

	"github.com/omnizip/omnizip-sub002/lzma"
)

// ReaderConfig sets the dictionary capacity a Reader decodes with.
// LZMA2 chunk headers carry no dictionary size, so nothing is checked
// against it; a match reaching further back than DictCap fails with
// lzma.InvalidDistanceError.
type ReaderConfig struct {
	DictCap int
}

func (c *ReaderConfig) setDefaults() {
	if c.DictCap == 0 {
		c.DictCap = 1 << 20
	}
}

// Reader decodes an LZMA2 chunk stream into plain bytes. Its
// dictionary and coder state persist across chunks according to each
// chunk header's reset flags: a chunk that doesn't reset state
// continues decoding with the previous chunk's probability models and
// rep-distance history, and a chunk that doesn't reset the dictionary
// may back-reference bytes an earlier chunk produced, compressed or
// not.
type Reader struct {
	r      io.Reader
	cfg    ReaderConfig
	props  lzma.Properties
	havePr bool
	dec    *lzma.Decoder
	pend   bytes.Buffer
	eof    bool
}

func NewReader(r io.Reader, cfg ReaderConfig) *Reader {
	cfg.setDefaults()
	return &Reader{r: r, cfg: cfg}
}

func (r *Reader) Read(p []byte) (n int, err error) {
	for {
		if r.pend.Len() > 0 {
			m, _ := r.pend.Read(p[n:])
			n += m
			if n == len(p) {
				return n, nil
			}
			continue
		}
		if r.eof {
			return n, io.EOF
		}
		if err := r.readChunk(); err != nil {
			return n, err
		}
	}
}

func (r *Reader) readChunk() error {
	h, err := readChunkHeader(r.r, r.props)
	if err != nil {
		return err
	}
	if h.IsEOS() {
		r.eof = true
		return nil
	}
	if h.IsUncompressed() {
		buf := make([]byte, h.UnpackedSize)
		if _, err := io.ReadFull(r.r, buf); err != nil {
			return err
		}
		if h.Control.resetsDict() || r.dec == nil {
			if err := r.resetDict(); err != nil {
				return err
			}
		}
		r.dec.Prime(buf)
		r.pend.Write(buf)
		return nil
	}

	reset := h.Control.reset()
	if reset.props {
		r.props = h.Properties
		r.havePr = true
	}
	if !r.havePr {
		return errChunkSequence("compressed chunk with no properties established yet")
	}

	packed := make([]byte, h.PackedSize)
	if _, err := io.ReadFull(r.r, packed); err != nil {
		return err
	}

	if reset.dict || r.dec == nil {
		if err := r.resetDict(); err != nil {
			return err
		}
	}

	// A chunk that doesn't signal a state reset continues decoding
	// with the coder state (and rep-distance history) the previous
	// chunk left behind; stateProps stays nil so Rearm leaves it be.
	var stateProps *lzma.Properties
	if reset.state {
		p := r.props
		stateProps = &p
	}
	limit := r.dec.Pos() + int64(h.UnpackedSize)
	if err := r.dec.Rearm(bytes.NewReader(packed), limit, stateProps); err != nil {
		return err
	}
	out := make([]byte, h.UnpackedSize)
	if _, err := io.ReadFull(r.dec, out); err != nil && err != io.EOF {
		return err
	}
	r.pend.Write(out)
	return nil
}

// resetDict installs a fresh decoder with an empty dictionary, keyed
// to whatever properties are currently in effect. A stream may open
// with an uncompressed chunk before any properties arrive, in which
// case the actual lc/lp/pb don't matter yet since Prime never touches
// coder state; the first compressed chunk will always carry a state
// reset, and Rearm re-keys the state then.
func (r *Reader) resetDict() error {
	props := r.props
	if !r.havePr {
		props = defaultProperties
	}
	dec, err := lzma.NewStatefulDecoder(props, r.cfg.DictCap)
	if err != nil {
		return err
	}
	r.dec = dec
	return nil
}
