package lzma

import "github.com/omnizip/omnizip-sub002/internal/rollinghash"

// hashBits sizes the hash-chain head table; 16 bits keeps it small
// while still spreading 3-byte contexts well enough for typical text
// and binary inputs.
const hashBits = 16

// hashChain is the fast LZ77 match finder: a hash table of 3-byte
// contexts, each bucket holding the single most recent occurrence, plus
// a per-position "previous occurrence" link so a lookup can walk back
// through every earlier occurrence of the same context up to depth
// steps.
type hashChain struct {
	dictCap int64
	depth   int
	roller  *rollinghash.RabinKarp
	head    []int32 // hash -> absolute pos+1, 0 means empty
	prev    []int32 // (pos % dictCap) -> previous absolute pos+1

	// rollPos/rollHash cache the 3-byte Rabin-Karp hash most recently
	// computed, so a query for rollPos reuses it and a query for
	// rollPos+1 folds in the one byte that changed instead of rehashing
	// the whole word; any other position is hashed from scratch. The
	// first Insert after normalParser has looked one byte ahead is such
	// a case, since the lookahead query has already moved rollPos past
	// the cursor.
	rollPos  int64
	rollHash uint64
}

func newHashChain(dictCap, depth int) *hashChain {
	return &hashChain{
		dictCap: int64(dictCap),
		depth:   depth,
		roller:  rollinghash.NewRabinKarp(3),
		head:    make([]int32, 1<<hashBits),
		prev:    make([]int32, dictCap),
		rollPos: -1,
	}
}

func (h *hashChain) Reset() {
	for i := range h.head {
		h.head[i] = 0
	}
	for i := range h.prev {
		h.prev[i] = 0
	}
	h.rollPos = -1
	h.rollHash = 0
}

// hash3 returns the bucket index for the 3-byte word at pos, rolling
// the cached hash forward a byte at a time where the caller's access
// pattern allows it.
func (h *hashChain) hash3(buf *buffer, pos int64) uint32 {
	switch {
	case pos == h.rollPos:
		// already cached
	case pos == h.rollPos+1 && h.rollPos >= 0:
		h.rollHash = h.roller.AddYoung(h.roller.RemoveOldest(h.rollHash, buf.byteAt(pos-1)), buf.byteAt(pos+2))
		h.rollPos = pos
	default:
		h.rollHash = h.roller.Hash(buf.slice(pos, pos+3))
		h.rollPos = pos
	}
	return uint32(h.rollHash*2654435761) >> (32 - hashBits)
}

func (h *hashChain) Insert(buf *buffer, pos int64) {
	if buf.top-pos < 3 {
		return
	}
	hv := h.hash3(buf, pos)
	h.prev[pos%h.dictCap] = h.head[hv]
	h.head[hv] = int32(pos + 1)
}

func (h *hashChain) Matches(buf *buffer, pos int64, dst []matchCandidate) []matchCandidate {
	if buf.top-pos < 3 {
		return dst
	}
	hv := h.hash3(buf, pos)
	cand := h.head[hv]
	limit := buf.top - pos
	if limit > maxLength {
		limit = maxLength
	}
	var bestLen int64
	for step := 0; cand != 0 && step < h.depth; step++ {
		cpos := int64(cand) - 1
		dist := pos - cpos
		if dist <= 0 || dist > h.dictCap {
			break
		}
		n := commonLen(buf, pos, cpos, limit)
		if n >= 2 && n > bestLen {
			bestLen = n
			dst = append(dst, matchCandidate{dist: uint32(dist), len: uint32(n)})
		}
		cand = h.prev[cpos%h.dictCap]
	}
	return dst
}

func commonLen(buf *buffer, a, b int64, limit int64) int64 {
	var n int64
	for n < limit && buf.byteAt(a+n) == buf.byteAt(b+n) {
		n++
	}
	return n
}

// binTree is the thorough LZ77 match finder: positions form a binary
// search tree keyed by the bytes that follow them, ordered by the
// first byte where two histories at that point diverge. A lookup walks
// down the tree comparing against the bytes at the cursor, which finds
// long matches in far fewer comparisons than hashChain's linear walk,
// at the cost of more bookkeeping per insert.
//
// Nodes are never explicitly unlinked when their slot is recycled after
// a full trip around the window; the recycled slot's content is simply
// overwritten, so a stale subtree pointer can briefly survive pointing
// at what is now a different position. depth bounds how far a search
// descends, which bounds the cost of eventually walking past one.
type binTree struct {
	dictCap int64
	depth   int
	node    []struct{ l, r int32 }
	root    int32
}

func newBinTree(dictCap, depth int) *binTree {
	return &binTree{
		dictCap: int64(dictCap),
		depth:   depth,
		node:    make([]struct{ l, r int32 }, dictCap),
	}
}

func (t *binTree) Reset() {
	for i := range t.node {
		t.node[i] = struct{ l, r int32 }{}
	}
	t.root = 0
}

func (t *binTree) slot(pos int64) int32 { return int32(pos%t.dictCap) + 1 }

// treeDist recovers how far back, in absolute bytes, slot s lies
// relative to the slot currently being inserted (self): slots wrap
// modulo dictCap the same way pos%dictCap does.
func treeDist(s, self int32, dictCap int64) int64 {
	d := int64(self) - int64(s)
	if d <= 0 {
		d += dictCap
	}
	return d
}

func (t *binTree) Insert(buf *buffer, pos int64) {
	if buf.top-pos < 2 {
		return
	}
	limit := buf.top - pos
	if limit > maxLength {
		limit = maxLength
	}
	self := t.slot(pos)
	t.node[self-1] = struct{ l, r int32 }{}

	if t.root == 0 {
		t.root = self
		return
	}
	cur := &t.root
	for {
		cpos := pos - treeDist(*cur, self, t.dictCap)
		n := commonLen(buf, pos, cpos, limit)
		if n >= limit {
			return
		}
		if buf.byteAt(pos+n) < buf.byteAt(cpos+n) {
			if t.node[*cur-1].l == 0 {
				t.node[*cur-1].l = self
				return
			}
			cur = &t.node[*cur-1].l
		} else {
			if t.node[*cur-1].r == 0 {
				t.node[*cur-1].r = self
				return
			}
			cur = &t.node[*cur-1].r
		}
	}
}

func (t *binTree) Matches(buf *buffer, pos int64, dst []matchCandidate) []matchCandidate {
	if buf.top-pos < 2 {
		return dst
	}
	limit := buf.top - pos
	if limit > maxLength {
		limit = maxLength
	}
	self := t.slot(pos)
	var bestLen int64
	cur := t.root
	for step := 0; cur != 0 && step < t.depth; step++ {
		cpos := pos - treeDist(cur, self, t.dictCap)
		if cpos >= pos || pos-cpos > t.dictCap {
			break
		}
		n := commonLen(buf, pos, cpos, limit)
		if n >= 2 && n > bestLen {
			bestLen = n
			dst = append(dst, matchCandidate{dist: uint32(pos - cpos), len: uint32(n)})
		}
		if n >= limit {
			break
		}
		if buf.byteAt(pos+n) < buf.byteAt(cpos+n) {
			cur = t.node[cur-1].l
		} else {
			cur = t.node[cur-1].r
		}
	}
	return dst
}
