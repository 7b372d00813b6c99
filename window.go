package rdiff

import "io"

// window buffers a byte stream as two adjacent blocks, front and back, and
// exposes a sliding frame over them that advances one byte at a time. The
// logical window is the concatenation front[offset:] ++ back[:offset]; a
// position is on a boundary when offset is 0 or len(front), at which point
// the current frame is exactly one contiguous block (or the final short
// block at end of stream).
type window struct {
	front, back []byte
	blockSize   int
	offset      int
	bytesRead   int64
	reader      io.Reader
}

// newWindow reads up to 2*blockSize bytes from r into front and back,
// truncating each to the number of bytes actually read.
func newWindow(r io.Reader, blockSize int) (*window, error) {
	front := make([]byte, blockSize)
	n, err := io.ReadFull(r, front)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, ioErrorf(err, "reading initial window block")
	}
	front = front[:n]

	back := make([]byte, blockSize)
	n, err = io.ReadFull(r, back)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, ioErrorf(err, "reading second window block")
	}
	back = back[:n]

	return &window{
		front:     front,
		back:      back,
		blockSize: blockSize,
		reader:    r,
	}, nil
}

// advance moves the window forward by one byte and returns the byte
// leaving the window (tail) and the byte entering it (head). tail is false
// only when the window is already empty. head is false once the
// underlying reader is exhausted beyond what's buffered.
func (w *window) advance() (tail byte, tailOK bool, head byte, headOK bool, err error) {
	if len(w.front) == 0 {
		return 0, false, 0, false, nil
	}
	if w.offset >= len(w.front) {
		if len(w.back) == 0 {
			return 0, false, 0, false, nil
		}
		if err := w.loadNextBlock(); err != nil {
			return 0, false, 0, false, err
		}
	}
	tail, tailOK = w.front[w.offset], true
	head, headOK = w.head()
	w.offset++
	w.bytesRead++
	return tail, tailOK, head, headOK, nil
}

func (w *window) head() (byte, bool) {
	headIndex := w.offset + w.blockSize - len(w.front)
	if headIndex < 0 || headIndex >= len(w.back) {
		return 0, false
	}
	return w.back[headIndex], true
}

func (w *window) loadNextBlock() error {
	w.front, w.back = w.back, make([]byte, w.blockSize)
	n, err := io.ReadFull(w.reader, w.back)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return ioErrorf(err, "refilling window block")
	}
	w.back = w.back[:n]
	w.offset = 0
	return nil
}

// frame returns the two slices that together make up the current window
// view, without copying.
func (w *window) frame() ([]byte, []byte) {
	frontOffset := w.offset
	if frontOffset > len(w.front) {
		frontOffset = len(w.front)
	}
	backOffset := w.offset
	if backOffset > len(w.back) {
		backOffset = len(w.back)
	}
	return w.front[frontOffset:], w.back[:backOffset]
}

// frameSize returns the number of bytes currently visible in the window.
func (w *window) frameSize() int {
	return len(w.front) - w.offset + min(w.offset, len(w.back))
}

// onBoundary reports whether the window currently sits exactly on a block
// boundary in the stream being scanned.
func (w *window) onBoundary() bool {
	return w.offset == 0 || w.offset == len(w.front)
}

// totalRead is the authoritative count of advances performed so far, i.e.
// the current position in the stream.
func (w *window) totalRead() int64 {
	return w.bytesRead
}
