package rdiff

import (
	"encoding/binary"
	"io"
	"os"
	"strconv"
	"strings"
)

// Insert represents an operation to insert Data at byte offset Position of
// the stream being built: old bytes copied so far plus the Data of every
// earlier insert.
type Insert struct {
	Position int64
	Data     []byte
}

// String renders an Insert for debug output: printable, with newlines
// escaped so a single Insert never spans multiple lines of test output.
func (in Insert) String() string {
	printable := strings.ReplaceAll(strings.ReplaceAll(string(in.Data), "\r", ""), "\n", "\\n")
	return "Insert(" + itoa(in.Position) + ", '" + printable + "')"
}

// Delete represents an operation to remove Length bytes of the post-insert
// intermediate stream. Position is an offset in the result as built so far,
// that is, counted after the bytes removed by every earlier delete.
type Delete struct {
	Position int64
	Length   int64
}

func (de Delete) String() string {
	return "Delete(" + itoa(de.Position) + ", " + itoa(de.Length) + ")"
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

// EditScript is an ordered pair of insert and delete lists. Applying one
// means applying every insert to the old bytes first, producing an
// intermediate stream, then applying every delete to that intermediate
// stream.
type EditScript struct {
	inserts []Insert
	deletes []Delete
}

// NewEditScript returns an empty EditScript.
func NewEditScript() *EditScript {
	return &EditScript{}
}

// AddInsert appends an insert operation, merging it into the previous one
// when they're contiguous (tail.Position+len(tail.Data) == position).
// position must be non-decreasing across calls; violating that is a
// caller contract error and panics.
func (e *EditScript) AddInsert(position int64, data []byte) {
	if len(data) == 0 {
		return
	}
	if n := len(e.inserts); n > 0 {
		tail := &e.inserts[n-1]
		if position < tail.Position {
			panic("rdiff: AddInsert called with non-monotonic position")
		}
		if tail.Position+int64(len(tail.Data)) == position {
			tail.Data = append(tail.Data, data...)
			return
		}
	}
	e.inserts = append(e.inserts, Insert{Position: position, Data: append([]byte(nil), data...)})
}

// AddDelete appends a delete operation, merging it into the previous one
// when both share the same position (summing lengths). position must be
// non-decreasing across calls.
func (e *EditScript) AddDelete(position, length int64) {
	if length == 0 {
		return
	}
	if n := len(e.deletes); n > 0 {
		tail := &e.deletes[n-1]
		if position < tail.Position {
			panic("rdiff: AddDelete called with non-monotonic position")
		}
		if tail.Position == position {
			tail.Length += length
			return
		}
	}
	e.deletes = append(e.deletes, Delete{Position: position, Length: length})
}

// Inserts returns the ordered insert operations.
func (e *EditScript) Inserts() []Insert {
	return e.inserts
}

// Deletes returns the ordered delete operations.
func (e *EditScript) Deletes() []Delete {
	return e.deletes
}

// IsEmpty reports whether the script has no operations at all.
func (e *EditScript) IsEmpty() bool {
	return len(e.inserts) == 0 && len(e.deletes) == 0
}

// ApplyToBytes interleaves the script's inserts into old, then its deletes
// into the result, reproducing the new stream this script describes. It
// fails with an ApplyError if any operation references a position beyond
// the end of the stream at that stage.
func (e *EditScript) ApplyToBytes(old []byte) ([]byte, error) {
	withInserts := make([]byte, 0, len(old)+insertedLen(e.inserts))
	var idx int64
	for _, in := range e.inserts {
		stop := idx + in.Position - int64(len(withInserts))
		if stop < idx || stop > int64(len(old)) {
			return nil, applyErrorf("insert at %d out of range for %d source bytes", in.Position, len(old))
		}
		withInserts = append(withInserts, old[idx:stop]...)
		withInserts = append(withInserts, in.Data...)
		idx = stop
	}
	withInserts = append(withInserts, old[idx:]...)

	result := make([]byte, 0, len(withInserts))
	idx = 0
	for _, de := range e.deletes {
		start := idx + de.Position - int64(len(result))
		if start < idx || start > int64(len(withInserts)) {
			return nil, applyErrorf("delete at %d out of range for %d intermediate bytes", de.Position, len(withInserts))
		}
		result = append(result, withInserts[idx:start]...)
		end := start + de.Length
		if end > int64(len(withInserts)) {
			return nil, applyErrorf("delete of %d bytes at %d exceeds %d intermediate bytes", de.Length, de.Position, len(withInserts))
		}
		idx = end
	}
	result = append(result, withInserts[idx:]...)
	return result, nil
}

func insertedLen(inserts []Insert) int {
	n := 0
	for _, in := range inserts {
		n += len(in.Data)
	}
	return n
}

// ApplyToFile rewrites the named file in place: it reads the whole file,
// applies the script, seeks back to 0, truncates the file to the new
// length, and writes the result.
func (e *EditScript) ApplyToFile(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return ioErrorf(err, "opening %s for in-place apply", path)
	}
	defer f.Close()

	old, err := io.ReadAll(f)
	if err != nil {
		return ioErrorf(err, "reading %s", path)
	}
	newBytes, err := e.ApplyToBytes(old)
	if err != nil {
		return err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return ioErrorf(err, "seeking %s to start", path)
	}
	if err := f.Truncate(int64(len(newBytes))); err != nil {
		return ioErrorf(err, "truncating %s", path)
	}
	if _, err := f.Write(newBytes); err != nil {
		return ioErrorf(err, "writing %s", path)
	}
	return nil
}

// Encode writes the wire format:
//
//	[u32 insert_count] then each insert as [u32 position][u32 length][length bytes]
//	[u32 delete_count] then each delete as [u32 position][u32 length]
func (e *EditScript) Encode(w io.Writer) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(len(e.inserts)))
	if _, err := w.Write(buf[:]); err != nil {
		return ioErrorf(err, "writing insert count")
	}
	for i, in := range e.inserts {
		binary.BigEndian.PutUint32(buf[:], uint32(in.Position))
		if _, err := w.Write(buf[:]); err != nil {
			return ioErrorf(err, "writing insert %d position", i)
		}
		binary.BigEndian.PutUint32(buf[:], uint32(len(in.Data)))
		if _, err := w.Write(buf[:]); err != nil {
			return ioErrorf(err, "writing insert %d length", i)
		}
		if _, err := w.Write(in.Data); err != nil {
			return ioErrorf(err, "writing insert %d data", i)
		}
	}

	binary.BigEndian.PutUint32(buf[:], uint32(len(e.deletes)))
	if _, err := w.Write(buf[:]); err != nil {
		return ioErrorf(err, "writing delete count")
	}
	for i, de := range e.deletes {
		binary.BigEndian.PutUint32(buf[:], uint32(de.Position))
		if _, err := w.Write(buf[:]); err != nil {
			return ioErrorf(err, "writing delete %d position", i)
		}
		binary.BigEndian.PutUint32(buf[:], uint32(de.Length))
		if _, err := w.Write(buf[:]); err != nil {
			return ioErrorf(err, "writing delete %d length", i)
		}
	}
	return nil
}

// DecodeEditScript reads back an EditScript previously written by
// (*EditScript).Encode.
func DecodeEditScript(r io.Reader) (*EditScript, error) {
	e := NewEditScript()
	var buf [4]byte

	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, decodeErrorf("reading insert count: %v", err)
	}
	insertCount := binary.BigEndian.Uint32(buf[:])
	e.inserts = make([]Insert, insertCount)
	for i := range e.inserts {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, decodeErrorf("reading insert %d position: %v", i, err)
		}
		position := binary.BigEndian.Uint32(buf[:])
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, decodeErrorf("reading insert %d length: %v", i, err)
		}
		length := binary.BigEndian.Uint32(buf[:])
		data := make([]byte, length)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, decodeErrorf("reading insert %d data: %v", i, err)
		}
		e.inserts[i] = Insert{Position: int64(position), Data: data}
	}

	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, decodeErrorf("reading delete count: %v", err)
	}
	deleteCount := binary.BigEndian.Uint32(buf[:])
	e.deletes = make([]Delete, deleteCount)
	for i := range e.deletes {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, decodeErrorf("reading delete %d position: %v", i, err)
		}
		position := binary.BigEndian.Uint32(buf[:])
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, decodeErrorf("reading delete %d length: %v", i, err)
		}
		length := binary.BigEndian.Uint32(buf[:])
		e.deletes[i] = Delete{Position: int64(position), Length: int64(length)}
	}
	return e, nil
}
