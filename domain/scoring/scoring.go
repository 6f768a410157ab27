// Package scoring defines the contract for scoring candidates against a job
// and provides the deterministic rule-based scorer.
package scoring

import (
	"context"

	"github.com/pathwise/matchengine/domain/model"
)

// Scorer computes match scores for one job. Implementations are stateless
// across invocations: any fitted state lives only for the duration of a call.
type Scorer interface {
	// Method tags the results this scorer produces.
	Method() model.Method

	// Score computes the match for a single (job, candidate) pair.
	Score(ctx context.Context, job model.JobProfile, candidate model.CandidateProfile) (model.MatchResult, error)

	// ScoreAll scores every candidate against the job, drops results below
	// the scorer's qualification threshold, and returns the remainder sorted
	// by score descending with candidate id as the tie-breaker. A candidate
	// that cannot be scored is skipped, never fatal to the batch.
	ScoreAll(ctx context.Context, job model.JobProfile, candidates []model.CandidateProfile) ([]model.MatchResult, error)
}
