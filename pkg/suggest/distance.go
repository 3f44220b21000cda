package suggest

// Distance returns the Levenshtein edit distance between a and b: the
// minimum number of single-byte insertions, deletions or substitutions
// turning one into the other.
//
// Only two rows of the DP table are kept, sized by the shorter string.
func Distance(a, b string) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1]
				continue
			}
			curr[j] = 1 + min(
				prev[j],   // delete
				curr[j-1], // insert
				prev[j-1], // substitute
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
