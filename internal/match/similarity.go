package match

// Default weights for combining per-field similarity scores. Titles carry
// most of the signal; authors disambiguate.
const (
	TitleWeight  = 0.7
	AuthorWeight = 0.3
)

// Ratio returns the longest-matching-blocks similarity of two strings in
// [0,1]: twice the total length of matching blocks divided by the combined
// length (Ratcliff/Obershelp). Blocks are found greedily by longest common
// substring, recursing on the unmatched remainders of both sides; ties go
// to the earliest block in a, then in b. An empty string on either side
// scores 0, including against another empty string.
func Ratio(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}

	ar := []rune(a)
	br := []rune(b)
	matched := matchingSize(ar, br, 0, len(ar), 0, len(br))
	return 2.0 * float64(matched) / float64(len(ar)+len(br))
}

// CombinedScore is the weighted title+author score used to rank candidates
// under the dual-threshold policy.
func CombinedScore(titleSim, authorSim float64) float64 {
	return titleSim*TitleWeight + authorSim*AuthorWeight
}

// matchingSize sums matching block lengths within a[alo:ahi] vs b[blo:bhi].
func matchingSize(a, b []rune, alo, ahi, blo, bhi int) int {
	i, j, size := longestMatch(a, b, alo, ahi, blo, bhi)
	if size == 0 {
		return 0
	}
	return size +
		matchingSize(a, b, alo, i, blo, j) +
		matchingSize(a, b, i+size, ahi, j+size, bhi)
}

// longestMatch finds the longest contiguous matching block between
// a[alo:ahi] and b[blo:bhi] using per-rune position indexing, one row of
// run lengths at a time.
func longestMatch(a, b []rune, alo, ahi, blo, bhi int) (bestI, bestJ, bestSize int) {
	b2j := make(map[rune][]int, bhi-blo)
	for j := blo; j < bhi; j++ {
		b2j[b[j]] = append(b2j[b[j]], j)
	}

	bestI, bestJ = alo, blo
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newJ2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			k := j2len[j-1] + 1
			newJ2len[j] = k
			// Strict comparison keeps the earliest block on ties.
			if k > bestSize {
				bestI, bestJ, bestSize = i-k+1, j-k+1, k
			}
		}
		j2len = newJ2len
	}

	return bestI, bestJ, bestSize
}
