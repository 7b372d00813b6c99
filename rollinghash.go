package rdiff

// weakHash is a 32-bit rolling checksum: the low 16 bits are the sum of the
// window's bytes, the high 16 bits are the sum of those partial sums, both
// taken modulo 2^16 via native uint16 wraparound. It mirrors the structure
// of an Adler-32 digest (a/b running sums with a roll method) but without
// Adler's extra mod-65521 reduction, so that rolling to an adjacent window
// always agrees with hashing that window from scratch.
type weakHash struct {
	a, b uint16
	n    uint16
}

// newWeakHash seeds a weakHash from the bytes currently in buf, which also
// fixes the window size n used by subsequent rolls.
func newWeakHash(buf []byte) *weakHash {
	h := &weakHash{}
	for _, b := range buf {
		h.a += uint16(b)
		h.b += h.a
		h.n++
	}
	return h
}

// current returns the 32-bit weak hash W = (b << 16) | a.
func (h *weakHash) current() uint32 {
	return uint32(h.b)<<16 | uint32(h.a)
}

// roll updates the hash by removing oldByte from the window and, unless
// the window is shrinking at end of stream (headOK false), adding newByte.
// When headOK is false, n is decremented and only the subtraction side of
// the contract applies.
func (h *weakHash) roll(newByte byte, headOK bool, oldByte byte) {
	h.a -= uint16(oldByte)
	h.b -= uint16(oldByte) * h.n
	if headOK {
		h.a += uint16(newByte)
		h.b += h.a
	} else {
		h.n--
	}
}

// hashBuffer computes the weak hash of an arbitrary buffer directly,
// without needing a rolling context. Used both for the initial seed and
// to recompute a block's hash from scratch at a boundary.
func hashBuffer(buf []byte) uint32 {
	var a, b uint16
	for _, x := range buf {
		a += uint16(x)
		b += a
	}
	return uint32(b)<<16 | uint32(a)
}
