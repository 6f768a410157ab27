package skills

import "strings"

// Pairwise similarity tiers. Synonym pairs rank above substring containment,
// which ranks above plain word overlap.
const (
	synonymScore      = 0.8
	substringScore    = 0.6
	tokenOverlapScale = 0.4
)

// Similarity scores how close two normalized skill strings are on a 0..1
// scale without being an exact match.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if Related(a, b) {
		return synonymScore
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return substringScore
	}
	return Jaccard(Tokens(a), Tokens(b)) * tokenOverlapScale
}

// BestSimilarity returns the highest Similarity between skill and any entry
// of pool.
func BestSimilarity(skill string, pool []string) float64 {
	best := 0.0
	for _, p := range pool {
		if s := Similarity(skill, p); s > best {
			best = s
		}
	}
	return best
}

// Jaccard computes |a ∩ b| / |a ∪ b| over two token slices. Empty inputs
// yield zero.
func Jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := make(map[string]struct{}, len(a))
	for _, t := range a {
		setA[t] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, t := range b {
		setB[t] = struct{}{}
	}
	inter := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
