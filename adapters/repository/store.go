// Package repository defines the persistence contract the matching engine
// consumes and an in-memory implementation of it.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/pathwise/matchengine/domain/model"
)

// Store provides the engine's view of jobs, candidates and match rows.
// Implementations must make ReplaceMatches atomic per job: two concurrent
// replace cycles for the same job may not interleave.
type Store interface {
	// GetJob returns the job profile for id.
	// Returns ErrJobNotFound if the job is unknown.
	GetJob(ctx context.Context, id uuid.UUID) (model.JobProfile, error)

	// GetCandidate returns the candidate profile for id.
	// Returns ErrCandidateNotFound if the candidate is unknown.
	GetCandidate(ctx context.Context, id uuid.UUID) (model.CandidateProfile, error)

	// ListOpenJobs returns every job with open status.
	ListOpenJobs(ctx context.Context) ([]model.JobProfile, error)

	// EligibleCandidates returns candidates holding one of the given roles,
	// always excluding profiles that opted out of discovery. An empty roles
	// slice means any role.
	EligibleCandidates(ctx context.Context, roles []model.Role) ([]model.CandidateProfile, error)

	// ReplaceMatches swaps the stored match set for a job atomically.
	// Rows flagged shortlisted survive the swap: they are never deleted, and
	// a new result for the same candidate refreshes score, method and skills
	// without touching the flag.
	ReplaceMatches(ctx context.Context, jobID uuid.UUID, matches []model.MatchResult) error

	// MatchesForJob returns the job's stored matches, best score first.
	MatchesForJob(ctx context.Context, jobID uuid.UUID) ([]model.MatchResult, error)

	// MatchesForCandidate returns the candidate's stored matches across
	// jobs, best score first.
	MatchesForCandidate(ctx context.Context, candidateID uuid.UUID) ([]model.MatchResult, error)

	// SetShortlisted records the manual curation flag on an existing match
	// row. Returns ErrMatchNotFound if no row exists for the pair.
	SetShortlisted(ctx context.Context, jobID, candidateID uuid.UUID, shortlisted bool) error
}
