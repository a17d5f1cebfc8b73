package matching

// Comparer decides which index pairs of a key set are worth scoring. The
// exhaustive implementation compares everything; a blocking or indexing
// strategy can replace it without touching the grouper.
type Comparer interface {
	CandidatePairs(keys []string) [][2]int
}

// ExhaustiveComparer yields every distinct pair
type ExhaustiveComparer struct{}

func NewExhaustiveComparer() *ExhaustiveComparer {
	return &ExhaustiveComparer{}
}

func (c *ExhaustiveComparer) CandidatePairs(keys []string) [][2]int {
	pairs := make([][2]int, 0, len(keys)*(len(keys)-1)/2)
	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			pairs = append(pairs, [2]int{i, j})
		}
	}
	return pairs
}
