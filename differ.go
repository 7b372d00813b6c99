package rdiff

import "io"

// Differ holds the hash index for one version of a byte stream and can
// compute, then absorb, the difference against a newer version.
//
// A Differ is not safe for concurrent use: DiffAndUpdate replaces the
// internal digest once it has successfully scanned the whole of the new
// stream, and must not be called again (from another goroutine or
// otherwise) until it returns.
type Differ struct {
	digest *Digest
	opts   DifferOptions
}

// NewDiffer builds a Differ over source, hashing it into opts.BlockSize
// blocks.
func NewDiffer(source io.Reader, opts DifferOptions) (*Differ, error) {
	opts = opts.withDefaults()
	digest, err := NewDigest(source, opts.BlockSize)
	if err != nil {
		return nil, err
	}
	return &Differ{digest: digest, opts: opts}, nil
}

// NewDifferFromDigest wraps an already-built Digest, e.g. one received over
// the wire via DecodeDigest, in a Differ.
func NewDifferFromDigest(digest *Digest, opts DifferOptions) *Differ {
	opts = opts.withDefaults()
	opts.BlockSize = digest.BlockSize()
	return &Differ{digest: digest, opts: opts}
}

// Digest returns the digest this Differ currently holds: the one it was
// built with, or — after a successful DiffAndUpdate call — the one
// rebuilt from the newest scanned stream.
func (d *Differ) Digest() *Digest {
	return d.digest
}

// DiffAndUpdate scans newData against the Differ's current digest,
// producing an EditScript that transforms the old stream into newData. It
// simultaneously rebuilds the digest from newData's bytes; on success the
// Differ's digest is atomically replaced with the rebuilt one, so a
// subsequent call diffs against newData rather than the original stream.
// On any read error from newData the Differ's digest is left untouched.
func (d *Differ) DiffAndUpdate(newData io.Reader) (*EditScript, error) {
	script := NewEditScript()
	win, err := newWindow(newData, d.digest.BlockSize())
	if err != nil {
		return nil, err
	}

	front, _ := win.frame()
	weak := newWeakHash(front)

	lastMatchedOldIndex := -1
	var insertBuffer []byte
	rebuilt := EmptyDigest(d.digest.BlockSize())
	nextNewIndex := 0

	recordBlock := func(strong strongHash) {
		rebuilt.buckets[weak.current()] = append(rebuilt.buckets[weak.current()], blockEntry{
			blockIndex: nextNewIndex,
			strong:     strong,
		})
		nextNewIndex++
	}

	for win.frameSize() > 0 {
		matchIndex, matchedStrong, matched := d.checkMatch(weak, win, lastMatchedOldIndex)
		if matched {
			if len(insertBuffer) > 0 {
				script.AddInsert(win.totalRead()-int64(len(insertBuffer)), insertBuffer)
				insertBuffer = nil
			}
			if matchIndex > lastMatchedOldIndex+1 {
				skipped := matchIndex - lastMatchedOldIndex - 1
				script.AddDelete(win.totalRead(), int64(skipped*d.digest.BlockSize()))
			}
			lastMatchedOldIndex = matchIndex

			// Advance a full block's worth, recording the rebuilt digest
			// entry for each boundary crossed along the way.
			for i := 0; i < d.digest.BlockSize(); i++ {
				if win.onBoundary() {
					if win.frameSize() == 0 {
						break
					}
					strong := matchedStrong
					if i != 0 {
						f, b := win.frame()
						strong = hashStrong(f, b)
					}
					recordBlock(strong)
				}
				tail, tailOK, head, headOK, err := win.advance()
				if err != nil {
					return nil, err
				}
				if !tailOK {
					break
				}
				weak.roll(head, headOK, tail)
			}
		} else {
			if win.onBoundary() {
				f, b := win.frame()
				recordBlock(hashStrong(f, b))
			}
			tail, _, head, headOK, err := win.advance()
			if err != nil {
				return nil, err
			}
			weak.roll(head, headOK, tail)
			insertBuffer = append(insertBuffer, tail)
		}
	}

	if len(insertBuffer) > 0 {
		script.AddInsert(win.totalRead()-int64(len(insertBuffer)), insertBuffer)
	}
	oldBlockCount := d.digest.blockCount()
	if int64(lastMatchedOldIndex+1) < oldBlockCount {
		remaining := d.digest.FileSize() - int64(lastMatchedOldIndex+1)*int64(d.digest.BlockSize())
		script.AddDelete(win.totalRead(), remaining)
	}

	rebuilt.fileSize = win.totalRead()
	d.digest = rebuilt
	d.opts.Logger.WithField("inserts", len(script.inserts)).
		WithField("deletes", len(script.deletes)).
		Debug("diff and update complete")
	return script, nil
}

// checkMatch reports whether the window's current frame matches a block in
// the Differ's digest at an index strictly greater than
// lastMatchedOldIndex — the monotonicity filter that keeps the scan from
// matching backwards into old blocks already consumed by an earlier match
// or delete.
func (d *Differ) checkMatch(weak *weakHash, win *window, lastMatchedOldIndex int) (index int, strong strongHash, ok bool) {
	candidates := d.digest.lookup(weak.current())
	if len(candidates) == 0 {
		return 0, strongHash{}, false
	}
	front, back := win.frame()
	computed := hashStrong(front, back)
	for _, c := range candidates {
		if c.strong == computed && c.blockIndex > lastMatchedOldIndex {
			return c.blockIndex, computed, true
		}
	}
	return 0, strongHash{}, false
}
