package rdiff

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNwScore(t *testing.T) {
	require.Equal(t, []int{-4, -3, -2, -3, -4, -5}, nwScore([]rune("ACGC"), []rune("CGTAT"), EditDistance{}))
	require.Equal(t, []int{-4, -3, -2, -3, -4, -5}, nwScore([]rune("AGTA"), []rune("TATGC"), EditDistance{}))

	require.Equal(t, []int{-8, -4, 0, 1, -1, -3}, nwScore([]rune("ACGC"), []rune("CGTAT"), WeightedScore{}))
	require.Equal(t, []int{-8, -4, 0, -2, -1, -3}, nwScore([]rune("AGTA"), []rune("TATGC"), WeightedScore{}))
}

func checkFindDiff(t *testing.T, old, newStr string, scorer OperationScore, inserts []wantInsert, deletes []wantDelete) {
	t.Helper()
	script := FindStringDiff(old, newStr, scorer)

	gotInserts := script.Inserts()
	require.Lenf(t, gotInserts, len(inserts), "inserts: %v", gotInserts)
	for i, want := range inserts {
		require.Equal(t, want.position, gotInserts[i].Position)
		require.Equal(t, want.text, string(gotInserts[i].Data))
	}

	gotDeletes := script.Deletes()
	require.Lenf(t, gotDeletes, len(deletes), "deletes: %v", gotDeletes)
	for i, want := range deletes {
		require.Equal(t, want.position, gotDeletes[i].Position)
		require.Equal(t, want.length, gotDeletes[i].Length)
	}

	got, err := script.ApplyToBytes([]byte(old))
	require.NoError(t, err)
	require.Equal(t, newStr, string(got))
}

func TestFindStringDiffKittenKettle(t *testing.T) {
	checkFindDiff(t, "kitten", "kettle", EditDistance{},
		[]wantInsert{{1, "e"}, {5, "l"}},
		[]wantDelete{{2, 1}, {6, 1}})
}

func TestFindStringDiffMeadowYellowing(t *testing.T) {
	checkFindDiff(t, "meadow", "yellowing", EditDistance{},
		[]wantInsert{{0, "y"}, {3, "ll"}, {9, "ing"}},
		[]wantDelete{{1, 1}, {4, 2}})
}

func TestFindStringDiffPureDeletion(t *testing.T) {
	checkFindDiff(t, " I've", " I", EditDistance{}, nil, []wantDelete{{2, 3}})
}

func TestFindStringDiffMixed(t *testing.T) {
	checkFindDiff(t, " I've got a new place", " I found a new place", EditDistance{},
		[]wantInsert{{6, "f"}, {9, "und"}},
		[]wantDelete{{2, 3}, {4, 1}, {8, 1}})
}

func TestFindStringDiffLongSentence(t *testing.T) {
	old := "Since my baby left me I've got a new place to dwell\nI walk down a lonely street to Heartbreak Hotel."
	newStr := "Since my baby left me I found a new place to dwell\nDown at the end of 'Lonely Street' to 'Heartbreak Hotel.'"
	checkFindDiff(t, old, newStr, EditDistance{},
		[]wantInsert{
			{27, "f"}, {30, "und"}, {56, "Down"}, {64, "t the"}, {72, "en"},
			{75, " "}, {77, "f"}, {81, "'L"}, {92, "S"}, {99, "'"}, {104, "'"}, {122, "'"},
		},
		[]wantDelete{
			{23, 3}, {25, 1}, {29, 1}, {55, 1}, {56, 1}, {62, 2}, {69, 2}, {72, 3}, {79, 1},
		})
}
