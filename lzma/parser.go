package lzma

// parser turns the dictionary's lookahead into a sequence of literal
// and match/rep ops. fastParser is greedy: it takes bestOpAt's choice
// at the cursor without looking ahead. normalParser adds one step of
// lookahead, pricing
// the match against the state's actual probability models and backing
// off to a literal when the next position's match pays for the delay
// (the classic "lazy matching" compromise between greedy and a full
// dynamic-programming optimal parser).
type parser interface {
	parse(e *Encoder) op
}

const defaultNiceLen = 64

type fastParser struct{ niceLen uint32 }

func (p fastParser) parse(e *Encoder) op {
	return e.bestOpAt(0, p.niceLen)
}

type normalParser struct{ niceLen uint32 }

func (p normalParser) parse(e *Encoder) op {
	cur := e.bestOpAt(0, p.niceLen)
	if cur.isLit || cur.length >= p.niceLen || e.dict.Available() < 2 {
		return cur
	}
	curPrice := e.priceOp(cur, 0)
	next := e.bestOpAt(1, p.niceLen)
	if next.isLit {
		return cur
	}
	nextPrice := e.priceOp(next, 1) + e.literalPrice(0)
	if nextPrice < curPrice {
		return litOp(e.dict.CurrentByte())
	}
	return cur
}

// bestOpAt evaluates the best op starting lookAhead bytes past the
// cursor: the longest usable rep (cheap, no distance to pay for) or
// the matcher's longest candidate, chosen by length alone (the rep wins
// unless the match is more than one byte longer or reaches niceLen),
// falling back to a literal when neither clears minLength.
func (e *Encoder) bestOpAt(lookAhead int64, niceLen uint32) op {
	avail := e.dict.Available() - lookAhead
	if avail < minLength {
		return litOp(e.dict.ByteAtOffset(lookAhead))
	}
	max := avail
	if max > maxLength {
		max = maxLength
	}

	bestRepIdx := -1
	var bestRepLen int64
	for i, d := range e.state.rep {
		n := e.matchLenAt(lookAhead, d+1, max)
		if n >= minLength && n > bestRepLen {
			bestRepLen, bestRepIdx = n, i
		}
	}

	cand := e.dict.m.Matches(e.dict.buf, e.dict.head+lookAhead, e.matchScratch[:0])
	var bestDist uint32
	var bestLen int64
	for _, c := range cand {
		n := e.matchLenAt(lookAhead, c.dist, max)
		if n > bestLen {
			bestLen, bestDist = n, c.dist
		}
	}

	if bestRepIdx >= 0 && bestRepLen >= minLength && (bestRepLen+1 >= bestLen || bestLen < minLength) {
		return repOp(bestRepIdx, uint32(bestRepLen))
	}
	if bestLen >= minLength && (bestLen >= int64(niceLen) || bestLen > bestRepLen+1) {
		return matchOp(bestDist, uint32(bestLen))
	}
	if bestRepLen >= minLength {
		return repOp(bestRepIdx, uint32(bestRepLen))
	}
	return litOp(e.dict.ByteAtOffset(lookAhead))
}

func (e *Encoder) matchLenAt(lookAhead int64, dist uint32, max int64) int64 {
	if hist := e.dict.Pos() + lookAhead; int64(dist) > hist || int64(dist) > e.dict.dictCap {
		return 0
	}
	avail := e.dict.Available() - lookAhead
	if max > avail {
		max = avail
	}
	var n int64
	for n < max && e.dict.ByteAtOffset(lookAhead+n) == e.dict.ByteAtOffset(lookAhead+n-int64(dist)) {
		n++
	}
	return n
}
