package lzma2

import (
	"bytes"
	"io"

	"github.com/omnizip/omnizip-sub002/lzma"
)

// WriterConfig controls how a Writer frames and compresses its input.
type WriterConfig struct {
	Properties lzma.Properties
	DictCap    int
	Depth      int
	NiceLen    uint32
	BinTree    bool
}

func (c *WriterConfig) setDefaults() {
	if c.Properties == (lzma.Properties{}) {
		c.Properties = lzma.Default()
	}
	if c.DictCap == 0 {
		c.DictCap = 1 << 20
	}
}

// Writer frames its input into LZMA2 chunks, each no larger than the
// format's per-chunk limits. Every chunk this Writer emits is
// self-contained: it resets coder state, properties and dictionary, so
// chunks never depend on bytes the reader has already discarded. That
// trades some of LZMA2's cross-chunk ratio for an encoder that never
// needs to thread persistent state through a chunk boundary.
type Writer struct {
	w      io.Writer
	cfg    WriterConfig
	pend   bytes.Buffer
	closed bool
}

func NewWriter(w io.Writer, cfg WriterConfig) *Writer {
	cfg.setDefaults()
	return &Writer{w: w, cfg: cfg}
}

func (w *Writer) Write(p []byte) (n int, err error) {
	if w.closed {
		return 0, errClosedWriter
	}
	for len(p) > 0 {
		room := maxCompressedUnpackedSize - w.pend.Len()
		if room <= 0 {
			if err := w.flushChunk(); err != nil {
				return n, err
			}
			room = maxCompressedUnpackedSize
		}
		chunk := p
		if len(chunk) > room {
			chunk = chunk[:room]
		}
		w.pend.Write(chunk)
		n += len(chunk)
		p = p[len(chunk):]
	}
	return n, nil
}

func (w *Writer) flushChunk() error {
	if w.pend.Len() == 0 {
		return nil
	}
	raw := w.pend.Bytes()
	var compressed bytes.Buffer
	enc, err := lzma.NewEncoder(&compressed, lzma.EncoderConfig{
		Properties:    w.cfg.Properties,
		DictCap:       w.cfg.DictCap,
		Depth:         w.cfg.Depth,
		NiceLen:       w.cfg.NiceLen,
		BinTree:       w.cfg.BinTree,
		Normalization: lzma.NormalizeBefore,
	})
	if err != nil {
		return err
	}
	if _, err := enc.Write(raw); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}

	h := ChunkHeader{
		Control:      ctrlCompressedResetAll,
		UnpackedSize: len(raw),
		PackedSize:   compressed.Len(),
		Properties:   w.cfg.Properties,
	}
	// A chunk that expanded under compression, or whose compressed form
	// exceeds the packed-size limit, is written uncompressed instead;
	// LZMA2 makes that tradeoff explicit per chunk rather than forcing
	// every stream to absorb a bad block's overhead.
	if compressed.Len() >= len(raw) || compressed.Len() > maxCompressedPackedSize {
		// Every chunk this Writer emits resets the dictionary, compressed
		// or not, so the uncompressed fallback uses the reset variant too,
		// split into pieces no larger than an uncompressed chunk allows.
		for rest := raw; len(rest) > 0; {
			n := len(rest)
			if n > maxUncompressedChunkSize {
				n = maxUncompressedChunkSize
			}
			if err := writeChunkHeader(w.w, ChunkHeader{Control: ctrlUncompressedDR, UnpackedSize: n}); err != nil {
				return err
			}
			if _, err := w.w.Write(rest[:n]); err != nil {
				return err
			}
			rest = rest[n:]
		}
		w.pend.Reset()
		return nil
	}

	if err := writeChunkHeader(w.w, h); err != nil {
		return err
	}
	if _, err := w.w.Write(compressed.Bytes()); err != nil {
		return err
	}
	w.pend.Reset()
	return nil
}

// Close flushes any buffered input as a final chunk and writes the EOS
// marker.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.flushChunk(); err != nil {
		return err
	}
	_, err := w.w.Write([]byte{byte(ctrlEOS)})
	return err
}

var errClosedWriter = errChunkSequence("write to closed writer")
