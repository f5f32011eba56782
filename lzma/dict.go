package lzma

// matcher finds repeats of the bytes sitting at the dictionary's
// current head inside the history already written. hashChain and
// binTree are the two implementations; both index incrementally as
// bytes are committed and are oblivious to whether they're driving an
// encoder's optimal parser or just a greedy one.
type matcher interface {
	// Insert indexes the byte at pos; a position with too little
	// lookahead left in buf to hash is skipped.
	Insert(buf *buffer, pos int64)
	// Matches appends to dst the distances of repeats of the bytes at
	// pos, each at least 2 bytes long and longer than the one appended
	// before it, and returns the extended slice.
	Matches(buf *buffer, pos int64, dst []matchCandidate) []matchCandidate
	Reset()
}

// matchCandidate is one repeat a matcher found: dist bytes back, len
// bytes long (len is only the matcher's cheap lower bound; callers
// extend it against the actual buffer before pricing).
type matchCandidate struct {
	dist uint32
	len  uint32
}

// encoderDict is the encoder's view of the input: a sliding window of
// already-coded history behind the cursor, and buffered lookahead
// ahead of it that the parser hasn't committed to yet.
type encoderDict struct {
	buf     *buffer
	m       matcher
	dictCap int64
	head    int64
}

func newEncoderDict(dictCap, bufSize int, m matcher) *encoderDict {
	if dictCap < minDictCap {
		dictCap = minDictCap
	}
	return &encoderDict{
		buf:     newBuffer(dictCap + bufSize),
		m:       m,
		dictCap: int64(dictCap),
	}
}

// Write buffers p as lookahead. The caller is responsible for keeping
// Available from exceeding the buffer's spare capacity by draining
// (Advance-ing) the parser often enough; Write itself never discards.
func (d *encoderDict) Write(p []byte) (n int, err error) {
	if int64(len(p)) > d.buf.space() {
		return 0, errAgain
	}
	d.buf.write(p)
	return len(p), nil
}

// Pos is the absolute position of the encoding cursor.
func (d *encoderDict) Pos() int64 { return d.head }

// Len is how much history is behind the cursor, capped at dictCap.
func (d *encoderDict) Len() int64 {
	if d.head < d.dictCap {
		return d.head
	}
	return d.dictCap
}

// Available is how much unconsumed lookahead sits ahead of the cursor.
func (d *encoderDict) Available() int64 { return d.buf.top - d.head }

// ByteAt returns the byte dist (>=1) positions behind the cursor.
func (d *encoderDict) ByteAt(dist uint32) byte {
	return d.buf.byteAt(d.head - int64(dist))
}

// CurrentByte returns the byte at the cursor, which must have at least
// one byte of lookahead available.
func (d *encoderDict) CurrentByte() byte { return d.buf.byteAt(d.head) }

// ByteAtOffset returns the byte at off positions ahead of the cursor
// (0 is CurrentByte); used by the match-length extender.
func (d *encoderDict) ByteAtOffset(off int64) byte { return d.buf.byteAt(d.head + off) }

// MatchLen reports how many bytes starting at the cursor equal the
// bytes starting dist positions behind the cursor, capped at max.
func (d *encoderDict) MatchLen(dist uint32, max int64) int64 {
	limit := d.Available()
	if max < limit {
		limit = max
	}
	var n int64
	for n < limit && d.buf.byteAt(d.head+n) == d.buf.byteAt(d.head+n-int64(dist)) {
		n++
	}
	return n
}

// Matches returns the matcher's candidate repeats for the bytes at the
// cursor.
func (d *encoderDict) Matches(dst []matchCandidate) []matchCandidate {
	return d.m.Matches(d.buf, d.head, dst)
}

// Advance commits n bytes of lookahead as history: it indexes them in
// the matcher and moves the cursor past them, then discards any bytes
// that have fallen out of the dictionary window.
func (d *encoderDict) Advance(n int64) {
	end := d.head + n
	for ; d.head < end; d.head++ {
		d.m.Insert(d.buf, d.head)
	}
	d.compact()
}

func (d *encoderDict) compact() {
	if want := d.head - d.dictCap - d.buf.bottom; want > 0 {
		d.buf.discard(want)
	}
}

func (d *encoderDict) Reset() {
	d.buf.reset()
	d.m.Reset()
	d.head = 0
}

// decoderDict is the decoder's view: a sliding window of history that
// match ops copy from and literals append to; Read hands produced bytes
// to the caller, after which they are kept only while still inside the
// window.
type decoderDict struct {
	buf     *buffer
	dictCap int64
	out     int64 // absolute position up to which output has been delivered to the caller
}

const (
	minDictCap = 1 << 12
	maxDictCap = 1<<32 - 1
)

func newDecoderDict(dictCap int) *decoderDict {
	if dictCap < minDictCap {
		dictCap = minDictCap
	}
	return &decoderDict{buf: newBuffer(dictCap), dictCap: int64(dictCap)}
}

func (d *decoderDict) Pos() int64 { return d.buf.top }

func (d *decoderDict) Len() int64 {
	if d.buf.top < d.dictCap {
		return d.buf.top
	}
	return d.dictCap
}

func (d *decoderDict) PutByte(b byte) {
	d.buf.writeByte(b)
	d.compact()
}

// PutMatch copies length bytes starting dist (>=1) behind the current
// write position into the dictionary, byte by byte since a match may
// legitimately overlap itself (dist < length).
func (d *decoderDict) PutMatch(dist uint32, length uint32) error {
	if int64(dist) > d.Len() {
		return errInvalidDistance(dist, d.Len())
	}
	for i := uint32(0); i < length; i++ {
		d.buf.writeByte(d.buf.byteAt(d.buf.top - int64(dist)))
	}
	d.compact()
	return nil
}

func (d *decoderDict) ByteAt(dist uint32) byte { return d.buf.byteAt(d.buf.top - int64(dist)) }

// Buffered reports how many produced bytes are waiting to be read out.
func (d *decoderDict) Buffered() int64 { return d.buf.top - d.out }

// Read drains up to len(p) produced-but-undelivered bytes into p.
func (d *decoderDict) Read(p []byte) (n int) {
	n = copy(p, d.buf.slice(d.out, d.buf.top))
	d.out += int64(n)
	d.compact()
	return n
}

func (d *decoderDict) compact() {
	keepFrom := d.buf.top - d.dictCap
	if keepFrom > d.out {
		keepFrom = d.out
	}
	if want := keepFrom - d.buf.bottom; want > 0 {
		d.buf.discard(want)
	}
}

func (d *decoderDict) Reset() {
	d.buf.reset()
	d.out = 0
}

// Prime appends p to the dictionary as history already delivered to
// the caller, without going through Read: for bytes the caller already
// has in hand (an LZMA2 uncompressed chunk) that still need to be
// indexed for later back-references.
func (d *decoderDict) Prime(p []byte) {
	for _, b := range p {
		d.PutByte(b)
	}
	d.out = d.buf.top
}
