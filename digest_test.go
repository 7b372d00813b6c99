package rdiff

import (
	"bytes"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

// digestDiff reports a human-readable difference between two digests,
// treating bucket slice order as insignificant since map iteration order
// never is.
func digestDiff(a, b *Digest) string {
	return cmp.Diff(a, b,
		cmp.AllowUnexported(Digest{}, blockEntry{}),
		cmpopts.SortSlices(func(x, y blockEntry) bool { return x.blockIndex < y.blockIndex }),
	)
}

func TestNewDigestBlocksOfEight(t *testing.T) {
	// "It was the best of times, it was the worst of times" split into
	// 8-byte blocks: six full blocks plus a 3-byte tail.
	data := []byte("It was the best of times, it was the worst of times")
	d, err := NewDigest(bytes.NewReader(data), 8)
	require.NoError(t, err)

	require.EqualValues(t, len(data), d.FileSize())
	require.Equal(t, 8, d.BlockSize())
	require.Equal(t, int64(7), d.blockCount())

	// Block 2, "of times", appears at no other block-aligned offset, so it
	// should hash to exactly one bucket entry.
	weak := hashBuffer([]byte("of times"))
	entries := d.lookup(weak)
	require.Len(t, entries, 1)
	require.Equal(t, hashStrong([]byte("of times")), entries[0].strong)
}

func TestDigestVerifyUnchanged(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	d, err := NewDigest(bytes.NewReader(data), 8)
	require.NoError(t, err)

	ok, err := d.VerifyUnchanged(bytes.NewReader(data))
	require.NoError(t, err)
	require.True(t, ok)

	mutated := append([]byte(nil), data...)
	mutated[20] = 'X'
	ok, err = d.VerifyUnchanged(bytes.NewReader(mutated))
	require.NoError(t, err)
	require.False(t, ok)

	truncated := data[:len(data)-3]
	ok, err = d.VerifyUnchanged(bytes.NewReader(truncated))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDigestVerifyUnchangedEmpty(t *testing.T) {
	d := EmptyDigest(8)
	ok, err := d.VerifyUnchanged(bytes.NewReader(nil))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = d.VerifyUnchanged(bytes.NewReader([]byte("x")))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDigestEncodeDecodeRoundTrip(t *testing.T) {
	data := []byte("roses are red, violets are blue, digests round-trip, and so should you")
	orig, err := NewDigest(bytes.NewReader(data), 6)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, orig.Encode(&buf))

	decoded, err := DecodeDigest(&buf)
	require.NoError(t, err)

	if diff := digestDiff(orig, decoded); diff != "" {
		t.Fatalf("digest changed across encode/decode round trip (-orig +decoded):\n%s", diff)
	}
}

func TestDigestEncodeDecodeEmpty(t *testing.T) {
	orig := EmptyDigest(4096)

	var buf bytes.Buffer
	require.NoError(t, orig.Encode(&buf))

	decoded, err := DecodeDigest(&buf)
	require.NoError(t, err)
	if diff := digestDiff(orig, decoded); diff != "" {
		t.Fatalf("empty digest changed across encode/decode round trip (-orig +decoded):\n%s", diff)
	}
}

func TestDigestRebuildMatchesFreshDigest(t *testing.T) {
	// A digest rebuilt from the same bytes via two independent NewDigest
	// calls must compare equal, regardless of map iteration order.
	data := []byte("a rolling stone gathers no moss, but a rolling hash gathers many buckets")
	first, err := NewDigest(bytes.NewReader(data), 5)
	require.NoError(t, err)
	second, err := NewDigest(bytes.NewReader(append([]byte(nil), data...)), 5)
	require.NoError(t, err)

	if diff := digestDiff(first, second); diff != "" {
		t.Fatalf("independently built digests over identical bytes differ (-first +second):\n%s", diff)
	}
}

func TestDigestLookupOrdersByBlockIndex(t *testing.T) {
	// Repeating 4-byte blocks should accumulate in ascending block-index
	// order within their shared bucket.
	data := bytes.Repeat([]byte("abcd"), 3)
	d, err := NewDigest(bytes.NewReader(data), 4)
	require.NoError(t, err)

	entries := d.lookup(hashBuffer([]byte("abcd")))
	require.Len(t, entries, 3)
	indexes := make([]int, len(entries))
	for i, e := range entries {
		indexes[i] = e.blockIndex
	}
	require.True(t, sort.IntsAreSorted(indexes))
	require.Equal(t, []int{0, 1, 2}, indexes)
}
