package rdiff

import "unicode/utf8"

// OperationScore assigns a cost to each edit operation FindStringDiff can
// choose between. Implementations are free to vary the score by the
// character involved; all four methods are called on the hot path of the
// Needleman-Wunsch score row, so keep them cheap.
type OperationScore interface {
	InsertScore(c rune) int
	DeleteScore(c rune) int
	SubstitutionScore(old, new rune) int
	MatchScore(c rune) int
}

// EditDistance is the classical definition of edit distance: insert and
// delete each cost -1, substitution -2 (an insert plus a delete), and a
// match costs nothing.
type EditDistance struct{}

func (EditDistance) InsertScore(rune) int             { return -1 }
func (EditDistance) DeleteScore(rune) int             { return -1 }
func (EditDistance) SubstitutionScore(rune, rune) int { return -2 }
func (EditDistance) MatchScore(rune) int              { return 0 }

// WeightedScore is the scoring scheme from the Wikipedia presentation of
// Hirschberg's algorithm: insert and delete cost -2, a substitution costs
// only -1 (cheaper than an insert+delete pair), and a match scores +2 so
// that long common runs dominate the alignment.
type WeightedScore struct{}

func (WeightedScore) InsertScore(rune) int             { return -2 }
func (WeightedScore) DeleteScore(rune) int             { return -2 }
func (WeightedScore) SubstitutionScore(rune, rune) int { return -1 }
func (WeightedScore) MatchScore(rune) int              { return 2 }

// FindStringDiff computes the minimal-cost EditScript transforming old
// into new, scored by scorer, using Hirschberg's divide-and-conquer
// algorithm in O(len(old)*len(new)) time and O(len(new)) space. Splitting
// happens at character (rune) boundaries; the byte positions recorded in
// the returned script are the UTF-8 encoded offsets of those boundaries.
func FindStringDiff(old, newStr string, scorer OperationScore) *EditScript {
	script := NewEditScript()
	oldRunes := []rune(old)
	newRunes := []rune(newStr)
	oldRev := reverseRunes(oldRunes)
	newRev := reverseRunes(newRunes)
	var insertIndex, deleteIndex int64
	hirschberg(oldRunes, newRunes, oldRev, newRev, scorer, script, &insertIndex, &deleteIndex)
	return script
}

// hirschberg recursively aligns x with y (and their precomputed reverses,
// passed down to avoid re-reversing on every call), appending operations
// to script as it goes. insertIndex tracks the current byte offset in the
// post-insert intermediate stream, deleteIndex the number of bytes deleted
// so far; insertIndex-deleteIndex is therefore the position a delete must
// target in the result as built so far.
func hirschberg(x, y, xRev, yRev []rune, scorer OperationScore, script *EditScript, insertIndex, deleteIndex *int64) {
	xLen, yLen := len(x), len(y)

	switch {
	case xLen == 0:
		doInsert(y, insertIndex, script)

	case yLen == 0:
		doDelete(runeByteLen(x), deleteIndex, insertIndex, script)

	case xLen == 1:
		xChar := x[0]
		if position := indexOfRune(y, xChar); position >= 0 {
			if position > 0 {
				doInsert(y[:position], insertIndex, script)
			}
			*insertIndex += int64(utf8.RuneLen(xChar))
			if yLen-position > 1 {
				doInsert(y[position+1:], insertIndex, script)
			}
		} else {
			doInsert(y, insertIndex, script)
			doDelete(runeByteLen(x), deleteIndex, insertIndex, script)
		}

	case yLen == 1:
		yChar := y[0]
		if position := indexOfRune(x, yChar); position >= 0 {
			if position > 0 {
				doDelete(runeByteLen(x[:position]), deleteIndex, insertIndex, script)
			}
			*insertIndex += int64(utf8.RuneLen(yChar))
			if xLen-position > 1 {
				doDelete(runeByteLen(x[position+1:]), deleteIndex, insertIndex, script)
			}
		} else {
			doInsert(y, insertIndex, script)
			doDelete(runeByteLen(x), deleteIndex, insertIndex, script)
		}

	default:
		xMid := xLen / 2
		scoreL := nwScore(x[:xMid], y, scorer)
		scoreR := nwScore(xRev[:xLen-xMid], yRev, scorer)
		yMid := bestSplit(scoreL, scoreR)
		hirschberg(x[:xMid], y[:yMid], xRev[xLen-xMid:], yRev[yLen-yMid:], scorer, script, insertIndex, deleteIndex)
		hirschberg(x[xMid:], y[yMid:], xRev[:xLen-xMid], yRev[:yLen-yMid], scorer, script, insertIndex, deleteIndex)
	}
}

// bestSplit finds the index i in [0, len(y)] maximizing scoreL[i] +
// scoreR[len(y)-i] — the point where the optimal alignment's trace is
// guaranteed to cross.
func bestSplit(scoreL, scoreR []int) int {
	yLen := len(scoreL) - 1
	best, bestI := scoreL[0]+scoreR[yLen], 0
	for i := 1; i <= yLen; i++ {
		if sum := scoreL[i] + scoreR[yLen-i]; sum > best {
			best, bestI = sum, i
		}
	}
	return bestI
}

// nwScore computes the last row of the Needleman-Wunsch score matrix for
// aligning x against y: nwScore(x, y)[i] is the best score for
// transforming all of x into the first i characters of y.
func nwScore(x, y []rune, scorer OperationScore) []int {
	rowLen := len(y) + 1
	lastRow := make([]int, 1, rowLen)
	total := 0
	for _, yc := range y {
		total += scorer.InsertScore(yc)
		lastRow = append(lastRow, total)
	}

	thisRow := make([]int, 0, rowLen)
	for _, xc := range x {
		thisRow = thisRow[:0]
		thisRow = append(thisRow, lastRow[0]+scorer.DeleteScore(xc))
		for yi, yc := range y {
			scoreSub := lastRow[yi]
			if xc == yc {
				scoreSub += scorer.MatchScore(xc)
			} else {
				scoreSub += scorer.SubstitutionScore(xc, yc)
			}
			scoreDel := lastRow[yi+1] + scorer.DeleteScore(xc)
			scoreIns := thisRow[yi] + scorer.InsertScore(yc)
			thisRow = append(thisRow, max3(scoreSub, scoreDel, scoreIns))
		}
		lastRow, thisRow = thisRow, lastRow
	}
	return lastRow
}

func doInsert(data []rune, insertIndex *int64, script *EditScript) {
	bytes := []byte(string(data))
	script.AddInsert(*insertIndex, bytes)
	*insertIndex += int64(len(bytes))
}

func doDelete(length int64, deleteIndex, insertIndex *int64, script *EditScript) {
	script.AddDelete(*insertIndex-*deleteIndex, length)
	*deleteIndex += length
	*insertIndex += length
}

func runeByteLen(data []rune) int64 {
	return int64(len(string(data)))
}

func indexOfRune(data []rune, c rune) int {
	for i, r := range data {
		if r == c {
			return i
		}
	}
	return -1
}

func reverseRunes(data []rune) []rune {
	out := make([]rune, len(data))
	for i, r := range data {
		out[len(data)-1-i] = r
	}
	return out
}

func max3(a, b, c int) int {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}
