package lzma2

import "strconv"

// DictSize is the compact byte encoding the .xz container uses for a
// filter's dictionary size: 41 representable values spanning 4 KiB to
// 4 GiB-1, each either 2<<exp or 3<<exp for some exponent except the
// last, code 40, which stands for 4 GiB-1.
type DictSize byte

const maxDictSizeCode DictSize = 40

// Size returns the dictionary capacity, in bytes, that code represents.
func (s DictSize) Size() uint32 {
	if s == maxDictSizeCode {
		return 0xffffffff
	}
	m := uint32(2 | (s & 1))
	exp := uint(11) + uint(s>>1)
	return m << exp
}

func (s DictSize) String() string {
	const kib = 1 << 10
	const mib = 1 << 20
	const gib = 1 << 30
	n := s.Size()
	switch {
	case n >= gib && n%gib == 0:
		return strconv.Itoa(int(n/gib)) + "GiB"
	case n >= mib && n%mib == 0:
		return strconv.Itoa(int(n/mib)) + "MiB"
	case n >= kib && n%kib == 0:
		return strconv.Itoa(int(n/kib)) + "KiB"
	default:
		return strconv.Itoa(int(n)) + "B"
	}
}

// FloorDictSize returns the largest DictSize code whose Size is no
// greater than size, clamping to the smallest code for anything below
// it.
func FloorDictSize(size uint32) DictSize {
	var best DictSize
	for s := DictSize(0); s <= maxDictSizeCode; s++ {
		if s.Size() <= size {
			best = s
		} else {
			break
		}
	}
	return best
}
