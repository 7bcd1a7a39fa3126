package hunt

import "github.com/antzucaro/matchr"

// NamePair is two distinct monster names that look like spelling variants.
type NamePair struct {
	A, B  string
	Score float64
}

// SimilarNames returns pairs of names whose Jaro-Winkler similarity is at
// least threshold. Names are compared as given; exact duplicates are not
// reported. Input order is kept in the output.
func SimilarNames(names []string, threshold float64) []NamePair {
	var pairs []NamePair
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			if names[i] == names[j] {
				continue
			}
			score := matchr.JaroWinkler(names[i], names[j], false)
			if score >= threshold {
				pairs = append(pairs, NamePair{A: names[i], B: names[j], Score: score})
			}
		}
	}
	return pairs
}
