package matching

// Scorer provides string similarity scoring for duplicate detection
type Scorer struct{}

// NewScorer creates a new Scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Similarity returns a similarity ratio between 0.0 and 1.0 based on edit
// distance. Only exact equality produces 1.0; a computed ratio that rounds to
// 1.0 for unequal strings is clamped to 0.99 so near-misses stay
// distinguishable from true duplicates. Two empty strings are identical and
// score 1.0.
func (s *Scorer) Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}

	maxLen := max(len(a), len(b))
	score := 1.0 - float64(s.LevenshteinDistance(a, b))/float64(maxLen)

	if score >= 0.999 {
		return 0.99
	}
	return score
}

// LevenshteinDistance calculates the edit distance between two strings
func (s *Scorer) LevenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Two rows for dynamic programming
	row := make([]int, len(b)+1)
	prevRow := make([]int, len(b)+1)

	for j := 0; j <= len(b); j++ {
		prevRow[j] = j
	}

	for i := 1; i <= len(a); i++ {
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			row[j] = min(min(row[j-1]+1, prevRow[j]+1), prevRow[j-1]+cost)
		}
		row, prevRow = prevRow, row
	}

	return prevRow[len(b)]
}
