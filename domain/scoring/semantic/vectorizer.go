package semantic

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/pathwise/matchengine/domain/skills"
)

// Vectorizer configuration constants.
const (
	defaultNgramMin    = 1
	defaultNgramMax    = 3
	defaultMaxFeatures = 1000
	minTokenLength     = 2
)

// vectorizer builds a TF-IDF feature space over a document corpus:
// unigram-through-trigram terms, English stopword removal, sublinear term
// frequency, smoothed IDF and L2-normalized rows. It is fit once per
// invocation and discarded.
type vectorizer struct {
	ngramMin    int
	ngramMax    int
	maxFeatures int
}

func newVectorizer(ngramMin, ngramMax, maxFeatures int) *vectorizer {
	if ngramMin < 1 {
		ngramMin = defaultNgramMin
	}
	if ngramMax < ngramMin {
		ngramMax = ngramMin
	}
	if maxFeatures < 1 {
		maxFeatures = defaultMaxFeatures
	}
	return &vectorizer{ngramMin: ngramMin, ngramMax: ngramMax, maxFeatures: maxFeatures}
}

// fitTransform builds the vocabulary over docs and returns the row-per-doc
// TF-IDF matrix. It fails with ErrDegenerateCorpus when no term survives
// tokenization.
func (v *vectorizer) fitTransform(docs []string) (*mat.Dense, error) {
	termCounts := make([]map[string]int, len(docs))
	corpusCount := make(map[string]int)
	docFreq := make(map[string]int)

	for i, doc := range docs {
		counts := make(map[string]int)
		for _, term := range v.terms(doc) {
			counts[term]++
		}
		termCounts[i] = counts
		for term, n := range counts {
			corpusCount[term] += n
			docFreq[term]++
		}
	}

	if len(corpusCount) == 0 {
		return nil, fmt.Errorf("fitting %d documents: %w", len(docs), ErrDegenerateCorpus)
	}

	vocab := v.selectVocabulary(corpusCount)

	nDocs := float64(len(docs))
	idf := make([]float64, len(vocab))
	for j, term := range vocab {
		idf[j] = math.Log((1+nDocs)/(1+float64(docFreq[term]))) + 1
	}

	matrix := mat.NewDense(len(docs), len(vocab), nil)
	for i := range docs {
		row := matrix.RawRowView(i)
		norm := 0.0
		for j, term := range vocab {
			tf := float64(termCounts[i][term])
			if tf == 0 {
				continue
			}
			// Sublinear scaling dampens repeated terms.
			w := (1 + math.Log(tf)) * idf[j]
			row[j] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := range row {
				row[j] /= norm
			}
		}
	}
	return matrix, nil
}

// terms tokenizes one document and expands the token stream into n-grams.
func (v *vectorizer) terms(doc string) []string {
	raw := skills.Tokens(doc)
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		if len(t) < minTokenLength {
			continue
		}
		if _, stop := englishStopwords[t]; stop {
			continue
		}
		tokens = append(tokens, t)
	}

	var terms []string
	for n := v.ngramMin; n <= v.ngramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}

// selectVocabulary keeps the maxFeatures most frequent terms, breaking count
// ties alphabetically, and returns them in alphabetical order so column
// assignment is deterministic.
func (v *vectorizer) selectVocabulary(corpusCount map[string]int) []string {
	vocab := make([]string, 0, len(corpusCount))
	for term := range corpusCount {
		vocab = append(vocab, term)
	}
	if len(vocab) > v.maxFeatures {
		sort.Slice(vocab, func(i, j int) bool {
			if corpusCount[vocab[i]] != corpusCount[vocab[j]] {
				return corpusCount[vocab[i]] > corpusCount[vocab[j]]
			}
			return vocab[i] < vocab[j]
		})
		vocab = vocab[:v.maxFeatures]
	}
	sort.Strings(vocab)
	return vocab
}

// cosine computes the cosine similarity of two equal-length vectors,
// with zero vectors mapping to zero similarity.
func cosine(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
