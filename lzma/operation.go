package lzma

// op is a single parser decision: a literal byte, a new-distance match,
// or a rep (a copy from one of the four most recently used distances,
// identified by repIdx rather than by its own distance value).
type op struct {
	dist   uint32
	repIdx int
	length uint32
	lit    byte
	isLit  bool
	isRep  bool
}

func litOp(b byte) op { return op{lit: b, isLit: true} }

func matchOp(dist, length uint32) op { return op{dist: dist, length: length} }

func repOp(repIdx int, length uint32) op { return op{repIdx: repIdx, length: length, isRep: true} }

func (o op) String() string {
	switch {
	case o.isLit:
		return "lit"
	case o.isRep:
		return "rep"
	default:
		return "match"
	}
}
