package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/pathwise/matchengine/domain/model"
)

// MemoryStore is a map-backed Store. It is the implementation used in tests
// and single-process deployments; the postgres subpackage carries the same
// semantics onto a relational schema.
//
// Match ordering: score DESC, then candidate id ASC (deterministic).
type MemoryStore struct {
	mu         sync.RWMutex
	jobs       map[uuid.UUID]model.JobProfile
	candidates map[uuid.UUID]model.CandidateProfile
	candOrder  []uuid.UUID
	matches    map[uuid.UUID][]model.MatchResult
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs:       make(map[uuid.UUID]model.JobProfile),
		candidates: make(map[uuid.UUID]model.CandidateProfile),
		matches:    make(map[uuid.UUID][]model.MatchResult),
	}
}

// PutJob inserts or updates a job profile.
func (s *MemoryStore) PutJob(_ context.Context, job model.JobProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

// PutCandidate inserts or updates a candidate profile.
func (s *MemoryStore) PutCandidate(_ context.Context, c model.CandidateProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.candidates[c.ID]; !ok {
		s.candOrder = append(s.candOrder, c.ID)
	}
	s.candidates[c.ID] = c
}

// GetJob implements Store.
func (s *MemoryStore) GetJob(_ context.Context, id uuid.UUID) (model.JobProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return model.JobProfile{}, ErrJobNotFound
	}
	return job, nil
}

// GetCandidate implements Store.
func (s *MemoryStore) GetCandidate(_ context.Context, id uuid.UUID) (model.CandidateProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.candidates[id]
	if !ok {
		return model.CandidateProfile{}, ErrCandidateNotFound
	}
	return c, nil
}

// ListOpenJobs implements Store.
func (s *MemoryStore) ListOpenJobs(_ context.Context) ([]model.JobProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	open := make([]model.JobProfile, 0, len(s.jobs))
	for _, job := range s.jobs {
		if job.Status == model.JobOpen {
			open = append(open, job)
		}
	}
	sort.Slice(open, func(i, j int) bool {
		return open[i].ID.String() < open[j].ID.String()
	})
	return open, nil
}

// EligibleCandidates implements Store. Opted-out candidates never appear.
func (s *MemoryStore) EligibleCandidates(_ context.Context, roles []model.Role) ([]model.CandidateProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wanted := make(map[model.Role]struct{}, len(roles))
	for _, r := range roles {
		wanted[r] = struct{}{}
	}
	out := make([]model.CandidateProfile, 0, len(s.candOrder))
	for _, id := range s.candOrder {
		c := s.candidates[id]
		if c.OptedOut {
			continue
		}
		if len(wanted) > 0 {
			if _, ok := wanted[c.Role]; !ok {
				continue
			}
		}
		out = append(out, c)
	}
	return out, nil
}

// ReplaceMatches implements Store. Non-shortlisted rows are discarded; a
// shortlisted row either gets its score refreshed by an incoming result for
// the same candidate or survives untouched.
func (s *MemoryStore) ReplaceMatches(_ context.Context, jobID uuid.UUID, matches []model.MatchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	shortlisted := make(map[uuid.UUID]model.MatchResult)
	for _, m := range s.matches[jobID] {
		if m.Shortlisted {
			shortlisted[m.CandidateID] = m
		}
	}

	next := make([]model.MatchResult, 0, len(matches))
	for _, m := range matches {
		m.JobID = jobID
		if _, was := shortlisted[m.CandidateID]; was {
			m.Shortlisted = true
			delete(shortlisted, m.CandidateID)
		}
		next = append(next, m)
	}
	// Shortlisted rows whose candidate fell out of the new result set stay.
	for _, m := range shortlisted {
		next = append(next, m)
	}

	sortMatches(next)
	s.matches[jobID] = next
	return nil
}

// MatchesForJob implements Store.
func (s *MemoryStore) MatchesForJob(_ context.Context, jobID uuid.UUID) ([]model.MatchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.MatchResult, len(s.matches[jobID]))
	copy(out, s.matches[jobID])
	return out, nil
}

// MatchesForCandidate implements Store.
func (s *MemoryStore) MatchesForCandidate(_ context.Context, candidateID uuid.UUID) ([]model.MatchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.MatchResult
	for _, rows := range s.matches {
		for _, m := range rows {
			if m.CandidateID == candidateID {
				out = append(out, m)
			}
		}
	}
	sortMatches(out)
	return out, nil
}

// SetShortlisted implements Store.
func (s *MemoryStore) SetShortlisted(_ context.Context, jobID, candidateID uuid.UUID, shortlisted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.matches[jobID]
	for i := range rows {
		if rows[i].CandidateID == candidateID {
			rows[i].Shortlisted = shortlisted
			return nil
		}
	}
	return ErrMatchNotFound
}

func sortMatches(rows []model.MatchResult) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		return rows[i].CandidateID.String() < rows[j].CandidateID.String()
	})
}
