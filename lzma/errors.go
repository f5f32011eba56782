package lzma

import "fmt"

// lzmaError is a plain, non-wrapping error carrying a message prefixed
// the way the rest of this package's errors are, for consistent display
// alongside io errors bubbling through the same call chains.
type lzmaError struct{ msg string }

func (e *lzmaError) Error() string { return "lzma: " + e.msg }

// MalformedHeaderError reports a structurally invalid LZMA1/LZMA2
// stream header: a bad properties byte or an implausibly large
// uncompressed size.
type MalformedHeaderError struct{ Reason string }

func (e *MalformedHeaderError) Error() string {
	return fmt.Sprintf("lzma: malformed header: %s", e.Reason)
}

func errMalformedHeader(reason string) error { return &MalformedHeaderError{Reason: reason} }

// MalformedStreamError reports a compressed stream that fails a coding
// invariant once decoding is underway, such as a nonzero first
// range-coder byte.
type MalformedStreamError struct{ Reason string }

func (e *MalformedStreamError) Error() string {
	return fmt.Sprintf("lzma: malformed stream: %s", e.Reason)
}

func errMalformedStream(reason string) error { return &MalformedStreamError{Reason: reason} }

// InvalidDistanceError reports a decoded match distance that reaches
// further back than the dictionary currently holds data.
type InvalidDistanceError struct {
	Distance uint32
	Have     int64
}

func (e *InvalidDistanceError) Error() string {
	return fmt.Sprintf("lzma: invalid distance %d, only %d bytes available", e.Distance, e.Have)
}

func errInvalidDistance(dist uint32, have int64) error {
	return &InvalidDistanceError{Distance: dist, Have: have}
}

// LengthOverflowError reports a match or literal run that would carry
// the dictionary position past what the configured size budget allows.
type LengthOverflowError struct{ Requested, Limit int64 }

func (e *LengthOverflowError) Error() string {
	return fmt.Sprintf("lzma: length overflow: requested %d, limit %d", e.Requested, e.Limit)
}

func errLengthOverflow(requested, limit int64) error {
	return &LengthOverflowError{Requested: requested, Limit: limit}
}

// UnsupportedError reports a structurally valid header that this
// implementation nonetheless declines to handle. None of this package's
// own functions return it.
type UnsupportedError struct{ Reason string }

func (e *UnsupportedError) Error() string { return fmt.Sprintf("lzma: unsupported: %s", e.Reason) }

func errUnsupported(reason string) error { return &UnsupportedError{Reason: reason} }

var (
	// errClosedWriter is returned by Write calls made after the writer
	// has already been closed; a repeated Close returns nil.
	errClosedWriter = &lzmaError{msg: "write to closed writer"}
	// errClosedReader is returned by Read calls made after the reader
	// has already reported io.EOF and been closed.
	errClosedReader = &lzmaError{msg: "read from closed reader"}
	// errAgain signals the stepped codec API needs more input or
	// output space before it can make further progress; callers loop
	// rather than treat it as terminal.
	errAgain = &lzmaError{msg: "no progress possible without more input or output space"}
)
