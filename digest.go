package rdiff

import (
	"encoding/binary"
	"io"
)

// blockEntry pairs a block's index in its file with its strong hash, the
// value type stored per weak-hash bucket in a Digest.
type blockEntry struct {
	blockIndex int
	strong     strongHash
}

// Digest is a compact per-block hash index for one version of a byte
// stream: a mapping from weak hash to every block sharing it, plus the
// block size and total file size it was built with.
//
// A Digest is not modified after it is built; Differ.DiffAndUpdate
// replaces the Differ's Digest with a newly built one on success and keeps
// the old one on failure.
type Digest struct {
	buckets   map[uint32][]blockEntry
	blockSize int
	fileSize  int64
}

// NewDigest builds a Digest by reading source in blockSize chunks to end
// of stream, hashing each block. The final block may be shorter than
// blockSize; its hashes are computed over its actual length.
func NewDigest(source io.Reader, blockSize int) (*Digest, error) {
	d := &Digest{
		buckets:   make(map[uint32][]blockEntry),
		blockSize: blockSize,
	}
	block := make([]byte, blockSize)
	index := 0
	for {
		n, err := io.ReadFull(source, block)
		if n > 0 {
			weak := hashBuffer(block[:n])
			strong := hashStrong(block[:n])
			d.buckets[weak] = append(d.buckets[weak], blockEntry{blockIndex: index, strong: strong})
			index++
			d.fileSize += int64(n)
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return nil, ioErrorf(err, "reading block %d while building digest", index)
		}
	}
	return d, nil
}

// EmptyDigest returns the Digest for a zero-length file with the given
// block size.
func EmptyDigest(blockSize int) *Digest {
	return &Digest{
		buckets:   make(map[uint32][]blockEntry),
		blockSize: blockSize,
	}
}

// BlockSize returns the block size this digest was built with.
func (d *Digest) BlockSize() int {
	return d.blockSize
}

// FileSize returns the length in bytes of the file version this digest
// describes.
func (d *Digest) FileSize() int64 {
	return d.fileSize
}

// blockCount is ceil(fileSize / blockSize), the number of blocks (the last
// one possibly short) making up the file.
func (d *Digest) blockCount() int64 {
	if d.blockSize == 0 {
		return 0
	}
	return (d.fileSize + int64(d.blockSize) - 1) / int64(d.blockSize)
}

// lookup returns every (blockIndex, strong) pair sharing the given weak
// hash, or nil if none.
func (d *Digest) lookup(weak uint32) []blockEntry {
	return d.buckets[weak]
}

// VerifyUnchanged streams source block-aligned and returns true iff every
// block's weak+strong hash pair exists at its expected index and the total
// streamed length matches FileSize. This is the read-only complement to
// DiffAndUpdate: a true result means source is byte-identical to the
// version this digest describes, without producing an edit script.
func (d *Digest) VerifyUnchanged(source io.Reader) (bool, error) {
	block := make([]byte, d.blockSize)
	index := 0
	var total int64
	for {
		n, err := io.ReadFull(source, block)
		if n > 0 {
			weak := hashBuffer(block[:n])
			strong := hashStrong(block[:n])
			matched := false
			for _, entry := range d.buckets[weak] {
				if entry.blockIndex == index && entry.strong == strong {
					matched = true
					break
				}
			}
			if !matched {
				return false, nil
			}
			index++
			total += int64(n)
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return false, ioErrorf(err, "reading block %d while verifying digest", index)
		}
	}
	return total == d.fileSize, nil
}

// Encode writes the binary wire format:
//
//	[u32 file_size] [u32 block_size]
//	block_count times, in ascending block-index order:
//	  [u32 weak_hash] [16 bytes strong_hash]
func (d *Digest) Encode(w io.Writer) error {
	var header [8]byte
	binary.BigEndian.PutUint32(header[0:4], uint32(d.fileSize))
	binary.BigEndian.PutUint32(header[4:8], uint32(d.blockSize))
	if _, err := w.Write(header[:]); err != nil {
		return ioErrorf(err, "writing digest header")
	}

	blockCount := d.blockCount()
	dense := make([]struct {
		weak   uint32
		strong strongHash
		set    bool
	}, blockCount)
	for weak, entries := range d.buckets {
		for _, e := range entries {
			if int64(e.blockIndex) >= blockCount {
				return decodeErrorf("block index %d exceeds block count %d", e.blockIndex, blockCount)
			}
			dense[e.blockIndex].weak = weak
			dense[e.blockIndex].strong = e.strong
			dense[e.blockIndex].set = true
		}
	}
	var rec [4 + strongSize]byte
	for i, entry := range dense {
		if !entry.set {
			return decodeErrorf("missing hash entry for block %d", i)
		}
		binary.BigEndian.PutUint32(rec[0:4], entry.weak)
		copy(rec[4:], entry.strong[:])
		if _, err := w.Write(rec[:]); err != nil {
			return ioErrorf(err, "writing digest entry %d", i)
		}
	}
	return nil
}

// DecodeDigest reads back a Digest previously written by (*Digest).Encode.
func DecodeDigest(r io.Reader) (*Digest, error) {
	var header [8]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, decodeErrorf("reading digest header: %v", err)
	}
	fileSize := binary.BigEndian.Uint32(header[0:4])
	blockSize := binary.BigEndian.Uint32(header[4:8])
	if blockSize == 0 && fileSize != 0 {
		return nil, decodeErrorf("digest has zero block size but non-zero file size %d", fileSize)
	}

	d := &Digest{
		buckets:   make(map[uint32][]blockEntry),
		blockSize: int(blockSize),
		fileSize:  int64(fileSize),
	}
	blockCount := d.blockCount()
	var rec [4 + strongSize]byte
	for i := int64(0); i < blockCount; i++ {
		if _, err := io.ReadFull(r, rec[:]); err != nil {
			return nil, decodeErrorf("reading digest entry %d: %v", i, err)
		}
		weak := binary.BigEndian.Uint32(rec[0:4])
		var strong strongHash
		copy(strong[:], rec[4:])
		d.buckets[weak] = append(d.buckets[weak], blockEntry{blockIndex: int(i), strong: strong})
	}
	return d, nil
}
