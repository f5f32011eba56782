// Package rollinghash provides rolling hash functions used by the LZMA
// match finder to index fixed-length words in the dictionary window.
package rollinghash

// Roller computes a hash over a sliding window of fixed length. AddYoung
// folds in the newest byte; RemoveOldest undoes the contribution of the
// byte that just left the window.
type Roller interface {
	Len() int
	AddYoung(h uint64, b byte) uint64
	RemoveOldest(h uint64, b byte) uint64
}

// rabinKarpA is a randomly chosen odd multiplier used by the Rabin-Karp
// roller below.
const rabinKarpA = 252097800623

// RabinKarp implements a multiplicative Rabin-Karp rolling hash over N
// bytes.
type RabinKarp struct {
	a       uint64
	n       int
	aOldest uint64
}

// NewRabinKarp creates a roller for words of n bytes.
func NewRabinKarp(n int) *RabinKarp {
	if n <= 0 {
		panic("rollinghash: n must be positive")
	}
	aOldest := uint64(1)
	for i := 0; i < n-1; i++ {
		aOldest *= rabinKarpA
	}
	return &RabinKarp{a: rabinKarpA, aOldest: aOldest, n: n}
}

// Len returns the number of bytes covered by the hash.
func (r *RabinKarp) Len() int { return r.n }

// AddYoung folds byte b into h as the newest byte of the window.
func (r *RabinKarp) AddYoung(h uint64, b byte) uint64 {
	return h*r.a + uint64(b)
}

// RemoveOldest removes the contribution of byte b, the byte that is about
// to leave the window.
func (r *RabinKarp) RemoveOldest(h uint64, b byte) uint64 {
	return h - uint64(b)*r.aOldest
}

// Hash computes the hash of p from scratch. len(p) must equal r.Len().
func (r *RabinKarp) Hash(p []byte) uint64 {
	var h uint64
	for _, b := range p {
		h = r.AddYoung(h, b)
	}
	return h
}
