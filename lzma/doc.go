// Package lzma implements the LZMA1 compression core: the range coder,
// the literal/length/distance probability models, the sliding-window
// match finders, and a stepped Encoder/Decoder pair operating on a bare
// LZMA1 bitstream. Package lzma2, built on top of this one, adds the
// chunked framing that lets a stream reset state or dictionary content
// mid-flight.
package lzma
