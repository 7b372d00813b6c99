package rdiff

import "crypto/md5"

// strongSize is the width in bytes of the strong hash: a 16-byte,
// collision-resistant digest used only to reject weak-hash collisions,
// never compared across differently-produced digests.
const strongSize = md5.Size

// strongHash is a fixed 16-byte digest over a window's bytes. MD5 is used
// because it's fast and fixed at 128 bits; nothing here asks for
// cryptographic security from it, only false-positive rejection.
type strongHash [strongSize]byte

// hashStrong computes the strong hash over the concatenation of the given
// byte slices, so callers can hash a two-part window frame without first
// copying it into one contiguous buffer.
func hashStrong(parts ...[]byte) strongHash {
	h := md5.New()
	for _, p := range parts {
		h.Write(p) //nolint:errcheck // hash.Hash.Write never fails
	}
	var out strongHash
	copy(out[:], h.Sum(nil))
	return out
}
