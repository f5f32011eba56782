package lzma

import (
	"bytes"
	"io"
)

// StreamConfig bundles what CompressStream/DecompressStream need beyond
// the header-implied properties and dictionary size: the range-coder
// variant and parser aggressiveness for encoding.
type StreamConfig struct {
	Properties    Properties
	DictCap       int
	Normalization Normalization
	Fast          bool
	NiceLen       uint32
	Depth         int
	BinTree       bool
}

func (c StreamConfig) encoderConfig() EncoderConfig {
	return EncoderConfig{
		Properties:    c.Properties,
		DictCap:       c.DictCap,
		Normalization: c.Normalization,
		Fast:          c.Fast,
		NiceLen:       c.NiceLen,
		Depth:         c.Depth,
		BinTree:       c.BinTree,
	}
}

// CompressStream writes a complete, header-prefixed LZMA1 stream for
// all of r's bytes to w. size, if >= 0, is recorded in the header as
// the known uncompressed length; pass -1 to rely solely on the EOS
// marker.
func CompressStream(w io.Writer, r io.Reader, cfg StreamConfig, size int64) error {
	if cfg.Properties == (Properties{}) {
		cfg.Properties = Default()
	}
	if cfg.DictCap == 0 {
		cfg.DictCap = 1 << 20
	}
	if err := WriteHeader(w, Header{Properties: cfg.Properties, DictCap: cfg.DictCap, Size: size}); err != nil {
		return err
	}
	enc, err := NewEncoder(w, cfg.encoderConfig())
	if err != nil {
		return err
	}
	if _, err := io.Copy(enc, r); err != nil {
		return err
	}
	return enc.Close()
}

// DecompressStream reads a header-prefixed LZMA1 stream from r and
// writes its decompressed bytes to w.
func DecompressStream(w io.Writer, r io.Reader) error {
	h, err := ReadHeader(r)
	if err != nil {
		return err
	}
	dec, err := NewDecoder(r, DecoderConfig{Properties: h.Properties, DictCap: h.DictCap}, h.Size)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, dec)
	return err
}

// CompressBytes and DecompressBytes are convenience wrappers over
// CompressStream/DecompressStream for callers working with whole
// in-memory buffers rather than streams.
func CompressBytes(p []byte, cfg StreamConfig) ([]byte, error) {
	var buf bytes.Buffer
	if err := CompressStream(&buf, bytes.NewReader(p), cfg, int64(len(p))); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func DecompressBytes(p []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := DecompressStream(&buf, bytes.NewReader(p)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
