package lzma2

import "fmt"

// chunkSequenceError reports a compressed chunk that arrives before any
// chunk has set properties, and a Writer used after Close. The Reader
// does not require the first chunk to reset the dictionary.
type chunkSequenceError struct{ reason string }

func (e *chunkSequenceError) Error() string { return fmt.Sprintf("lzma2: %s", e.reason) }

func errChunkSequence(reason string) error { return &chunkSequenceError{reason: reason} }
