// Package semantic scores candidates by textual similarity to a job: a
// TF-IDF feature space with n-grams is fit jointly over the job and all
// candidate profiles, optionally reduced with latent semantic analysis, and
// candidates are ranked by cosine similarity in the resulting space.
package semantic

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/pathwise/matchengine/domain/model"
	"github.com/pathwise/matchengine/domain/skills"
	"github.com/pathwise/matchengine/pkg/logger"
	"github.com/pathwise/matchengine/pkg/metrics"
)

// Default scoring configuration constants.
const (
	defaultMinSimilarity   = 0.05
	defaultPairMaxFeatures = 500
	percentScale           = 100
)

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithMaxFeatures bounds the vocabulary of the batch feature space.
func WithMaxFeatures(n int) Option {
	return func(s *Scorer) {
		if n > 0 {
			s.maxFeatures = n
		}
	}
}

// WithNgramRange sets the n-gram expansion range.
func WithNgramRange(min, max int) Option {
	return func(s *Scorer) {
		if min > 0 && max >= min {
			s.ngramMin = min
			s.ngramMax = max
		}
	}
}

// WithComponents sets the number of latent dimensions for the batch path.
func WithComponents(n int) Option {
	return func(s *Scorer) {
		if n > 0 {
			s.components = n
		}
	}
}

// WithMinSimilarity sets the raw cosine-similarity floor below which a
// candidate is not retained as a match.
func WithMinSimilarity(min float64) Option {
	return func(s *Scorer) {
		if min >= 0 && min <= 1 {
			s.minSimilarity = min
		}
	}
}

// WithLogger sets a custom logger for the scorer.
func WithLogger(l logger.Logger) Option {
	return func(s *Scorer) {
		if l != nil {
			s.log = l
		}
	}
}

// Scorer ranks candidates by semantic similarity. All fitted state is local
// to a single call; nothing is shared or cached across jobs.
type Scorer struct {
	ngramMin      int
	ngramMax      int
	maxFeatures   int
	components    int
	minSimilarity float64
	log           logger.Logger
}

// NewScorer creates a semantic scorer with configuration options.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		ngramMin:      defaultNgramMin,
		ngramMax:      defaultNgramMax,
		maxFeatures:   defaultMaxFeatures,
		components:    defaultComponents,
		minSimilarity: defaultMinSimilarity,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Method implements scoring.Scorer.
func (s *Scorer) Method() model.Method {
	return model.MethodSemantic
}

// ScoreAll fits the shared feature space over the job plus every candidate
// and ranks candidates by cosine similarity to the job vector. Results below
// the similarity floor are dropped; the rest are sorted by score descending,
// ties broken by candidate id.
func (s *Scorer) ScoreAll(ctx context.Context, job model.JobProfile, candidates []model.CandidateProfile) ([]model.MatchResult, error) {
	if len(candidates) == 0 {
		return nil, ErrEmptyPool
	}

	docs := make([]string, 0, len(candidates)+1)
	docs = append(docs, jobContent(job))
	for _, c := range candidates {
		docs = append(docs, candidateContent(c))
	}

	fitStart := time.Now()
	vec := newVectorizer(s.ngramMin, s.ngramMax, s.maxFeatures)
	tfidf, err := vec.fitTransform(docs)
	if err != nil {
		return nil, fmt.Errorf("building feature space for job %s: %w", job.ID, err)
	}

	space := tfidf
	_, features := tfidf.Dims()
	if features > s.components {
		reduced, err := reduceLSA(tfidf, s.components)
		if err != nil {
			return nil, fmt.Errorf("reducing feature space for job %s: %w", job.ID, err)
		}
		space = reduced
	}
	metrics.RecordVectorizeDuration(time.Since(fitStart).Seconds())
	s.logger().Debug(ctx, "fitted semantic space",
		logger.Int("documents", len(docs)),
		logger.Int("features", features),
	)

	jobVec := space.RawRowView(0)
	results := make([]model.MatchResult, 0, len(candidates))
	for i, c := range candidates {
		similarity := cosine(jobVec, space.RawRowView(i+1))
		if similarity < s.minSimilarity {
			continue
		}
		results = append(results, model.MatchResult{
			JobID:       job.ID,
			CandidateID: c.ID,
			Score:       model.RoundScore(similarity * percentScale),
			Method:      model.MethodSemantic,
		})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].CandidateID.String() < results[j].CandidateID.String()
	})
	return results, nil
}

// Score computes an ad hoc score for one pair by fitting a smaller feature
// space over just the two blobs. It never fails: a degenerate vocabulary or
// factorization problem degrades to a raw word-overlap percentage.
func (s *Scorer) Score(ctx context.Context, job model.JobProfile, candidate model.CandidateProfile) (model.MatchResult, error) {
	jobBlob := jobContent(job)
	candBlob := candidateContent(candidate)

	score, err := s.scorePair(jobBlob, candBlob)
	if err != nil {
		s.logger().Warn(ctx, "pair scoring degraded to word overlap",
			logger.String("jobID", job.ID.String()),
			logger.String("candidateID", candidate.ID.String()),
			logger.Error(err),
		)
		score = overlapPercent(jobBlob, candBlob)
	}

	return model.MatchResult{
		JobID:       job.ID,
		CandidateID: candidate.ID,
		Score:       model.RoundScore(score),
		Method:      model.MethodSemantic,
	}, nil
}

func (s *Scorer) scorePair(jobBlob, candBlob string) (float64, error) {
	vec := newVectorizer(s.ngramMin, s.ngramMax, defaultPairMaxFeatures)
	tfidf, err := vec.fitTransform([]string{jobBlob, candBlob})
	if err != nil {
		return 0, err
	}

	space := tfidf
	_, features := tfidf.Dims()
	if features >= 2 {
		components := defaultPairComponents
		if components > features-1 {
			components = features - 1
		}
		reduced, err := reduceLSA(tfidf, components)
		if err != nil {
			return 0, err
		}
		space = reduced
	}
	return cosine(space.RawRowView(0), space.RawRowView(1)) * percentScale, nil
}

func (s *Scorer) logger() logger.Logger {
	if s.log != nil {
		return s.log
	}
	return logger.Get()
}

// overlapPercent is the fallback measure: the fraction of the job's distinct
// words also present in the candidate's text, as a percentage.
func overlapPercent(jobBlob, candBlob string) float64 {
	jobWords := skills.TokenSet(jobBlob)
	if len(jobWords) == 0 {
		return 0
	}
	candWords := skills.TokenSet(candBlob)
	overlap := 0
	for w := range jobWords {
		if _, ok := candWords[w]; ok {
			overlap++
		}
	}
	return float64(overlap) / float64(len(jobWords)) * percentScale
}
